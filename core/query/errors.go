package query

import "errors"

var (
	// ErrEmptyCondition is returned when finalizing a builder that holds no leaf.
	ErrEmptyCondition = errors.New("empty condition")

	// ErrMissingFrom is returned when building a select without a source table.
	ErrMissingFrom = errors.New("select has no source table")

	// ErrEmptyProjection is returned when building a select without output items.
	ErrEmptyProjection = errors.New("select has no output items")

	// ErrColumnCountMismatch is returned when insert target columns and select
	// items are not positionally aligned.
	ErrColumnCountMismatch = errors.New("column count mismatch between select and insert target")

	// ErrUnknownTargetColumn is returned when a projection targets a column the
	// destination table does not have.
	ErrUnknownTargetColumn = errors.New("unknown target column")

	// ErrDuplicateColumn is returned when the same target column appears twice.
	ErrDuplicateColumn = errors.New("duplicate target column")

	// ErrInvalidSubquery is returned when a delete key subquery does not select
	// exactly one item.
	ErrInvalidSubquery = errors.New("key subquery must select exactly one item")

	// ErrMissingPredicate is returned when building a delete without any predicate.
	ErrMissingPredicate = errors.New("delete has no predicate")

	// ErrMissingTable is returned when a statement has no table name.
	ErrMissingTable = errors.New("missing table name")
)
