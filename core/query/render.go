package query

import (
	"fmt"
	"strings"
)

// Dialect quotes identifiers for a database engine.
type Dialect interface {
	QuoteIdent(name string) string
}

// DialectFunc adapts a function to the Dialect interface.
type DialectFunc func(name string) string

// QuoteIdent calls f(name).
func (f DialectFunc) QuoteIdent(name string) string {
	return f(name)
}

// ANSI quotes identifiers with double quotes (SQLite, PostgreSQL).
var ANSI Dialect = DialectFunc(func(name string) string {
	return `"` + strings.ReplaceAll(name, `"`, `""`) + `"`
})

// Backtick quotes identifiers with backticks (MySQL).
var Backtick Dialect = DialectFunc(func(name string) string {
	return "`" + strings.ReplaceAll(name, "`", "``") + "`"
})

const (
	matchKeyAlias     = "match_key"
	matchedKeysSource = "matched_keys"
)

// Render turns a statement into parameterized SQL. Placeholders are "?"; the
// returned args are in placeholder order.
func Render(stmt Statement, d Dialect) (string, []any, error) {
	if d == nil {
		d = ANSI
	}
	r := &renderer{d: d}
	var err error
	switch s := stmt.(type) {
	case SelectStatement:
		err = r.selectStmt(s)
	case *SelectStatement:
		err = r.selectStmt(*s)
	case InsertStatement:
		err = r.insertStmt(s)
	case *InsertStatement:
		err = r.insertStmt(*s)
	case DeleteStatement:
		err = r.deleteStmt(s)
	case *DeleteStatement:
		err = r.deleteStmt(*s)
	default:
		err = fmt.Errorf("unsupported statement type: %T", stmt)
	}
	if err != nil {
		return "", nil, err
	}
	return r.sb.String(), r.args, nil
}

type renderer struct {
	d    Dialect
	sb   strings.Builder
	args []any
}

func (r *renderer) selectStmt(s SelectStatement) error {
	if s.From.Name == "" {
		return ErrMissingFrom
	}
	if len(s.Items) == 0 {
		return ErrEmptyProjection
	}
	r.sb.WriteString("SELECT ")
	for i, item := range s.Items {
		if i > 0 {
			r.sb.WriteString(", ")
		}
		if err := r.expr(item.Expr); err != nil {
			return err
		}
		if item.As != "" {
			r.sb.WriteString(" AS ")
			r.sb.WriteString(r.d.QuoteIdent(item.As))
		}
	}
	r.sb.WriteString(" FROM ")
	r.table(s.From)
	for _, j := range s.Joins {
		r.sb.WriteString(" JOIN ")
		r.table(j.Table)
		r.sb.WriteString(" ON ")
		if err := r.condition(j.On, false); err != nil {
			return err
		}
	}
	if s.Where != nil {
		r.sb.WriteString(" WHERE ")
		if err := r.condition(s.Where, false); err != nil {
			return err
		}
	}
	return nil
}

func (r *renderer) insertStmt(s InsertStatement) error {
	if len(s.Columns) != len(s.Select.Items) {
		return ErrColumnCountMismatch
	}
	r.sb.WriteString("INSERT INTO ")
	r.table(s.Table)
	r.sb.WriteString(" (")
	for i, c := range s.Columns {
		if i > 0 {
			r.sb.WriteString(", ")
		}
		r.sb.WriteString(r.d.QuoteIdent(c))
	}
	r.sb.WriteString(") ")
	return r.selectStmt(s.Select)
}

func (r *renderer) deleteStmt(s DeleteStatement) error {
	if s.Where == nil && s.In == nil {
		return ErrMissingPredicate
	}
	r.sb.WriteString("DELETE FROM ")
	r.table(s.Table)
	r.sb.WriteString(" WHERE ")
	if s.Where != nil {
		if err := r.condition(s.Where, s.In != nil); err != nil {
			return err
		}
		if s.In != nil {
			r.sb.WriteString(" AND ")
		}
	}
	if s.In == nil {
		return nil
	}
	if len(s.In.Items) != 1 {
		return ErrInvalidSubquery
	}
	// MySQL refuses a subquery on the delete target unless it is materialized
	// through a derived table.
	sub := *s.In
	sub.Items = []SelectItem{{Expr: s.In.Items[0].Expr, As: matchKeyAlias}}
	r.column(s.Table.Col(s.Key))
	r.sb.WriteString(" IN (SELECT ")
	r.column(Column{Table: matchedKeysSource, Name: matchKeyAlias})
	r.sb.WriteString(" FROM (")
	if err := r.selectStmt(sub); err != nil {
		return err
	}
	r.sb.WriteString(") AS ")
	r.sb.WriteString(r.d.QuoteIdent(matchedKeysSource))
	r.sb.WriteString(")")
	return nil
}

func (r *renderer) table(t Table) {
	r.sb.WriteString(r.d.QuoteIdent(t.Name))
	if t.Alias != "" && t.Alias != t.Name {
		r.sb.WriteString(" AS ")
		r.sb.WriteString(r.d.QuoteIdent(t.Alias))
	}
}

func (r *renderer) column(c Column) {
	if c.Table != "" {
		r.sb.WriteString(r.d.QuoteIdent(c.Table))
		r.sb.WriteString(".")
	}
	r.sb.WriteString(r.d.QuoteIdent(c.Name))
}

func (r *renderer) expr(e Expr) error {
	switch v := e.(type) {
	case Column:
		r.column(v)
	case Literal:
		r.bind(v.Value)
	default:
		return fmt.Errorf("unsupported expression type: %T", e)
	}
	return nil
}

func (r *renderer) bind(v any) {
	r.sb.WriteString("?")
	r.args = append(r.args, v)
}

// condition writes c. Nested conjunctions, and a top-level one when nested is
// set, are parenthesized.
func (r *renderer) condition(c Condition, nested bool) error {
	switch v := c.(type) {
	case Equals:
		r.column(v.Left)
		r.sb.WriteString(" = ")
		r.column(v.Right)
	case EqualsValue:
		r.column(v.Column)
		r.sb.WriteString(" = ")
		r.bind(v.Value)
	case NotEqualsValue:
		r.column(v.Column)
		r.sb.WriteString(" <> ")
		r.bind(v.Value)
	case And:
		if len(v.Terms) == 0 {
			return ErrEmptyCondition
		}
		if nested {
			r.sb.WriteString("(")
		}
		for i, term := range v.Terms {
			if i > 0 {
				r.sb.WriteString(" AND ")
			}
			if err := r.condition(term, true); err != nil {
				return err
			}
		}
		if nested {
			r.sb.WriteString(")")
		}
	case nil:
		return ErrEmptyCondition
	default:
		return fmt.Errorf("unsupported condition type: %T", c)
	}
	return nil
}
