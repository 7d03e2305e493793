package query

import "fmt"

// SelectBuilder builds a SelectStatement. Methods return a new builder and never
// modify the receiver, so a partially built select can be reused as a template.
type SelectBuilder struct {
	items []SelectItem
	from  *Table
	joins []Join
	where Condition
}

// Select starts a select over the given output items.
func Select(items ...SelectItem) SelectBuilder {
	return SelectBuilder{items: appendCopy(nil, items...)}
}

// From sets the primary source table.
func (b SelectBuilder) From(t Table) SelectBuilder {
	b.from = &t
	return b
}

// Join starts an inner join; finish it with On.
func (b SelectBuilder) Join(t Table) JoinBuilder {
	return JoinBuilder{parent: b, table: t}
}

// Where adds a filter. Successive calls are conjoined; a nil condition is ignored.
func (b SelectBuilder) Where(c Condition) SelectBuilder {
	b.where = Conjoin(b.where, c)
	return b
}

// Build finalizes the statement.
func (b SelectBuilder) Build() (SelectStatement, error) {
	if b.from == nil || b.from.Name == "" {
		return SelectStatement{}, ErrMissingFrom
	}
	if len(b.items) == 0 {
		return SelectStatement{}, ErrEmptyProjection
	}
	for _, j := range b.joins {
		if j.Table.Name == "" {
			return SelectStatement{}, fmt.Errorf("join: %w", ErrMissingTable)
		}
		if j.On == nil {
			return SelectStatement{}, fmt.Errorf("join %s: %w", j.Table.Name, ErrEmptyCondition)
		}
	}
	return SelectStatement{
		Items: appendCopy(nil, b.items...),
		From:  *b.from,
		Joins: appendCopy(nil, b.joins...),
		Where: b.where,
	}, nil
}

// JoinBuilder is a pending join waiting for its condition.
type JoinBuilder struct {
	parent SelectBuilder
	table  Table
}

// On restricts the join and returns the select builder.
func (j JoinBuilder) On(c Condition) SelectBuilder {
	b := j.parent
	b.joins = appendCopy(b.joins, Join{Table: j.table, On: c})
	return b
}

// InsertFromSelect builds "INSERT INTO table (columns) sel". The Nth selected
// item populates the Nth column; counts must match and columns must be unique.
func InsertFromSelect(table Table, columns []string, sel SelectStatement) (InsertStatement, error) {
	if table.Name == "" {
		return InsertStatement{}, fmt.Errorf("insert: %w", ErrMissingTable)
	}
	if len(columns) != len(sel.Items) {
		return InsertStatement{}, fmt.Errorf("insert into %s: %d columns, %d selected: %w",
			table.Name, len(columns), len(sel.Items), ErrColumnCountMismatch)
	}
	seen := make(map[string]struct{}, len(columns))
	for _, c := range columns {
		if _, dup := seen[c]; dup {
			return InsertStatement{}, fmt.Errorf("insert into %s: %s: %w", table.Name, c, ErrDuplicateColumn)
		}
		seen[c] = struct{}{}
	}
	return InsertStatement{
		Table:   table,
		Columns: appendCopy(nil, columns...),
		Select:  sel,
	}, nil
}

// DeleteBuilder builds a DeleteStatement.
type DeleteBuilder struct {
	table Table
	where Condition
	key   string
	in    *SelectStatement
}

// DeleteFrom starts a delete on the given table.
func DeleteFrom(table Table) DeleteBuilder {
	return DeleteBuilder{table: table}
}

// DeleteWhereIn starts "DELETE FROM table WHERE key IN (sub)".
func DeleteWhereIn(table Table, key string, sub SelectStatement) DeleteBuilder {
	return DeleteFrom(table).WhereIn(key, sub)
}

// WhereIn restricts the delete to rows whose key is selected by sub.
func (b DeleteBuilder) WhereIn(key string, sub SelectStatement) DeleteBuilder {
	b.key = key
	b.in = &sub
	return b
}

// Where adds a filter. Successive calls are conjoined.
func (b DeleteBuilder) Where(c Condition) DeleteBuilder {
	b.where = Conjoin(b.where, c)
	return b
}

// Build finalizes the statement.
func (b DeleteBuilder) Build() (DeleteStatement, error) {
	if b.table.Name == "" {
		return DeleteStatement{}, fmt.Errorf("delete: %w", ErrMissingTable)
	}
	if b.in == nil && b.where == nil {
		return DeleteStatement{}, fmt.Errorf("delete from %s: %w", b.table.Name, ErrMissingPredicate)
	}
	if b.in != nil {
		if b.key == "" {
			return DeleteStatement{}, fmt.Errorf("delete from %s: missing key column: %w", b.table.Name, ErrInvalidSubquery)
		}
		if len(b.in.Items) != 1 {
			return DeleteStatement{}, fmt.Errorf("delete from %s: %d items: %w", b.table.Name, len(b.in.Items), ErrInvalidSubquery)
		}
	}
	return DeleteStatement{
		Table: b.table,
		Where: b.where,
		Key:   b.key,
		In:    b.in,
	}, nil
}
