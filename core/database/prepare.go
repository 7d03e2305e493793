package database

import (
	"context"
	"fmt"
	"strings"

	"esg-matching/core/reconcile"

	"go.uber.org/zap"
)

// PrepareTable readies a result table before a run. With "drop" an existing
// table is dropped and recreated; with "clean" its rows are deleted. A missing
// table is created with columns when the descriptor allows it.
// Created columns are VARCHAR(255).
func (s *Store) PrepareTable(ctx context.Context, d *reconcile.Descriptor, columns []string) error {
	if !d.Role.IsResult() {
		return fmt.Errorf("datasource %s is not a result table: %w", d.Name, reconcile.ErrInvalidDescriptor)
	}
	defer s.cache.Invalidate(d.Table)

	db := s.db.WithContext(ctx)
	mig := db.Migrator()
	exists := mig.HasTable(d.Table)

	switch d.IfTableExists {
	case reconcile.TableDrop:
		if exists {
			if err := mig.DropTable(d.Table); err != nil {
				return fmt.Errorf("storage error: drop %s: %w", d.Table, err)
			}
		}
		s.logger.Info("Recreating result table", zap.String("table", d.Table))
		return s.createTable(ctx, d.Table, columns)
	case reconcile.TableClean:
		if !exists {
			if !d.CreateTable {
				return fmt.Errorf("table %s: %w", d.Table, reconcile.ErrUnknownTable)
			}
			s.logger.Info("Creating result table", zap.String("table", d.Table))
			return s.createTable(ctx, d.Table, columns)
		}
		if err := db.Exec("DELETE FROM " + s.dialect.QuoteIdent(d.Table)).Error; err != nil {
			return fmt.Errorf("storage error: clean %s: %w", d.Table, err)
		}
		return nil
	default:
		return fmt.Errorf("datasource %s: if_table_exists %q: %w", d.Name, d.IfTableExists, reconcile.ErrInvalidDescriptor)
	}
}

func (s *Store) createTable(ctx context.Context, table string, columns []string) error {
	if len(columns) == 0 {
		return fmt.Errorf("table %s: no columns: %w", table, reconcile.ErrInvalidDescriptor)
	}
	defs := make([]string, len(columns))
	for i, c := range columns {
		defs[i] = s.dialect.QuoteIdent(c) + " VARCHAR(255)"
	}
	stmt := fmt.Sprintf("CREATE TABLE %s (%s)", s.dialect.QuoteIdent(table), strings.Join(defs, ", "))
	if err := s.db.WithContext(ctx).Exec(stmt).Error; err != nil {
		return fmt.Errorf("storage error: create %s: %w", table, err)
	}
	return nil
}
