// Package database handles database connections, schema inspection and the
// execution of matching statements.
//
// It provides a wrapper around GORM to configure MySQL, PostgreSQL (through
// lib/pq) and SQLite connections from the application's configuration.
//
// # Connect
//
// Connect opens the database named by Config.Driver and pings it. SQLite
// connections are limited to one so that ":memory:" databases are shared by
// every statement.
//
// # Schema Inspection
//
// GetTableColumns returns the columns of a table in table order, using
// PRAGMA table_info on SQLite and information_schema elsewhere. A missing table
// yields no columns.
//
// # Store
//
// Store implements reconcile.Store: statements built by core/query are rendered
// with the connection's identifier quoting and executed with bound parameters.
// Column lists are cached with a TTL; concurrent lookups of the same table are
// collapsed with singleflight. PrepareTable drops or cleans the result tables
// before a run and invalidates their cached columns.
//
// # Usage
//
//	db, err := database.Connect(cfg.Database)
//	if err != nil {
//	    log.Fatal("Database connection failed", err)
//	}
//
//	store := database.NewStore(db, logg, 5*time.Minute)
//	columns, err := store.Columns(ctx, "matching")
package database
