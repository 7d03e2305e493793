package query

// Table references a physical table, optionally under an alias.
type Table struct {
	// Name is the physical table name.
	Name string
	// Alias is the name used to qualify columns. Empty means Name.
	Alias string
}

// T returns a reference to the named table.
func T(name string) Table {
	return Table{Name: name}
}

// As returns a copy of the table reference under the given alias.
func (t Table) As(alias string) Table {
	t.Alias = alias
	return t
}

// Ref returns the name used to qualify the table's columns.
func (t Table) Ref() string {
	if t.Alias != "" {
		return t.Alias
	}
	return t.Name
}

// Col returns a column of this table.
func (t Table) Col(name string) Column {
	return Column{Table: t.Ref(), Name: name}
}

// Expr is a select-list expression: a Column or a Literal.
// This is a sealed interface.
type Expr interface {
	exprNode()
}

// Column is a qualified column reference.
type Column struct {
	// Table is the qualifier (table name or alias). May be empty.
	Table string
	// Name is the column name.
	Name string
}

func (Column) exprNode() {}

// String returns the unquoted "table.column" form, used in logs and errors.
func (c Column) String() string {
	if c.Table == "" {
		return c.Name
	}
	return c.Table + "." + c.Name
}

// Literal is a constant bound as a statement parameter.
type Literal struct {
	Value any
}

func (Literal) exprNode() {}

// Value returns a literal expression.
func Value(v any) Literal {
	return Literal{Value: v}
}

// Condition is a boolean expression tree.
// This is a sealed interface: Equals, EqualsValue, NotEqualsValue and And.
type Condition interface {
	conditionNode()
}

// Equals compares two columns.
type Equals struct {
	Left  Column
	Right Column
}

func (Equals) conditionNode() {}

// EqualsValue compares a column to a literal.
type EqualsValue struct {
	Column Column
	Value  any
}

func (EqualsValue) conditionNode() {}

// NotEqualsValue is the negation of EqualsValue.
type NotEqualsValue struct {
	Column Column
	Value  any
}

func (NotEqualsValue) conditionNode() {}

// And is the conjunction of its terms.
type And struct {
	Terms []Condition
}

func (And) conditionNode() {}

// Leaves returns the comparison leaves of a condition, flattening nested Ands.
func Leaves(c Condition) []Condition {
	and, ok := c.(And)
	if !ok {
		if c == nil {
			return nil
		}
		return []Condition{c}
	}
	var leaves []Condition
	for _, term := range and.Terms {
		leaves = append(leaves, Leaves(term)...)
	}
	return leaves
}

// Conjoin returns the AND of the non-nil conditions, nil if there are none.
func Conjoin(conds ...Condition) Condition {
	b := NewCondition()
	for _, c := range conds {
		b = b.And(c)
	}
	c, err := b.Condition()
	if err != nil {
		return nil
	}
	return c
}

// ConditionBuilder accumulates leaves into a conjunction.
// The zero value is an empty builder. Methods never modify the receiver.
type ConditionBuilder struct {
	terms []Condition
}

// NewCondition returns an empty builder.
func NewCondition() ConditionBuilder {
	return ConditionBuilder{}
}

// EqualColumns adds "left = right".
func (b ConditionBuilder) EqualColumns(left, right Column) ConditionBuilder {
	return b.with(Equals{Left: left, Right: right})
}

// EqualToValue adds "column = value".
func (b ConditionBuilder) EqualToValue(column Column, value any) ConditionBuilder {
	return b.with(EqualsValue{Column: column, Value: value})
}

// NotEqualToValue adds "column <> value".
func (b ConditionBuilder) NotEqualToValue(column Column, value any) ConditionBuilder {
	return b.with(NotEqualsValue{Column: column, Value: value})
}

// And conjoins an already finalized condition. Nested Ands are flattened and a
// nil condition is ignored.
func (b ConditionBuilder) And(c Condition) ConditionBuilder {
	if c == nil {
		return b
	}
	if and, ok := c.(And); ok {
		for _, term := range and.Terms {
			b = b.And(term)
		}
		return b
	}
	return b.with(c)
}

// Len returns the number of terms held by the builder.
func (b ConditionBuilder) Len() int {
	return len(b.terms)
}

// Condition finalizes the builder. A single term is returned as is.
func (b ConditionBuilder) Condition() (Condition, error) {
	switch len(b.terms) {
	case 0:
		return nil, ErrEmptyCondition
	case 1:
		return b.terms[0], nil
	default:
		return And{Terms: appendCopy(nil, b.terms...)}, nil
	}
}

func (b ConditionBuilder) with(c Condition) ConditionBuilder {
	return ConditionBuilder{terms: appendCopy(b.terms, c)}
}

// appendCopy appends to a fresh backing array so values sharing the original
// slice never observe each other's appends.
func appendCopy[T any](s []T, v ...T) []T {
	out := make([]T, 0, len(s)+len(v))
	out = append(out, s...)
	return append(out, v...)
}
