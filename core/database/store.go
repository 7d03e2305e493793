package database

import (
	"context"
	"fmt"
	"strings"
	"time"

	"esg-matching/core/query"
	"esg-matching/core/reconcile"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

// Store executes matching statements on a GORM connection.
// It implements reconcile.Store.
type Store struct {
	db      *gorm.DB
	cache   *ColumnCache
	logger  *zap.Logger
	dialect query.Dialect
}

// NewStore wraps db. Column lists are cached for cacheTTL.
func NewStore(db *gorm.DB, logger *zap.Logger, cacheTTL time.Duration) *Store {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Store{
		db:      db,
		cache:   NewColumnCache(cacheTTL),
		logger:  logger,
		dialect: dialectOf(db),
	}
}

// dialectOf quotes identifiers the way the connection's dialector does.
func dialectOf(db *gorm.DB) query.Dialect {
	return query.DialectFunc(func(name string) string {
		var sb strings.Builder
		db.Dialector.QuoteTo(&sb, name)
		return sb.String()
	})
}

// Dialect returns the identifier quoting of the connection.
func (s *Store) Dialect() query.Dialect {
	return s.dialect
}

// Columns returns the column names of table in table order.
func (s *Store) Columns(ctx context.Context, table string) ([]string, error) {
	return s.cache.GetOrLoad(ctx, table, func(ctx context.Context) ([]string, error) {
		cols, err := GetTableColumns(s.db.WithContext(ctx), table)
		if err != nil {
			return nil, fmt.Errorf("storage error: %w", err)
		}
		return ColumnNames(cols), nil
	})
}

// Exec runs one statement outside any transaction.
func (s *Store) Exec(ctx context.Context, stmt query.Statement) (int64, error) {
	return (&executor{db: s.db, dialect: s.dialect, logger: s.logger}).Exec(ctx, stmt)
}

// Transaction runs fn in a database transaction.
func (s *Store) Transaction(ctx context.Context, fn func(reconcile.Executor) error) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&executor{db: tx, dialect: s.dialect, logger: s.logger})
	})
}

type executor struct {
	db      *gorm.DB
	dialect query.Dialect
	logger  *zap.Logger
}

func (e *executor) Exec(ctx context.Context, stmt query.Statement) (int64, error) {
	sql, args, err := query.Render(stmt, e.dialect)
	if err != nil {
		return 0, err
	}
	start := time.Now()
	res := e.db.WithContext(ctx).Exec(sql, args...)
	if res.Error != nil {
		return 0, fmt.Errorf("storage error: %w", res.Error)
	}
	e.logger.Debug("Statement executed",
		zap.String("sql", sql),
		zap.Int64("rows", res.RowsAffected),
		zap.Duration("elapsed", time.Since(start)),
	)
	return res.RowsAffected, nil
}

var _ reconcile.Store = (*Store)(nil)
