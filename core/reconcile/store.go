package reconcile

import (
	"context"

	"esg-matching/core/query"
)

// Executor runs statements.
type Executor interface {
	// Exec runs stmt and returns the number of rows it affected.
	Exec(ctx context.Context, stmt query.Statement) (int64, error)
}

// Store is the storage collaborator of the matchers.
type Store interface {
	// Columns returns the columns of table in table order. A missing table
	// yields no columns.
	Columns(ctx context.Context, table string) ([]string, error)

	// Transaction runs fn in one unit of work. The work is committed when fn
	// returns nil and rolled back otherwise.
	Transaction(ctx context.Context, fn func(Executor) error) error

	// Dialect returns the identifier quoting of the underlying database.
	Dialect() query.Dialect
}
