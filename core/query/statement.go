package query

// Statement is an executable statement description.
// This is a sealed interface: SelectStatement, InsertStatement and DeleteStatement.
type Statement interface {
	statementNode()
}

// SelectItem is one output expression of a select, optionally named.
type SelectItem struct {
	Expr Expr
	As   string
}

// Item returns a select item.
func Item(e Expr, as string) SelectItem {
	return SelectItem{Expr: e, As: as}
}

// Columns returns one unnamed select item per column.
func Columns(cols ...Column) []SelectItem {
	items := make([]SelectItem, len(cols))
	for i, c := range cols {
		items[i] = SelectItem{Expr: c}
	}
	return items
}

// Join is an inner join clause.
type Join struct {
	Table Table
	On    Condition
}

// SelectStatement is "SELECT items FROM from [JOIN ...] [WHERE where]".
type SelectStatement struct {
	Items []SelectItem
	From  Table
	Joins []Join
	Where Condition
}

func (SelectStatement) statementNode() {}

// InsertStatement is "INSERT INTO table (columns) select".
// Columns[i] receives Select.Items[i].
type InsertStatement struct {
	Table   Table
	Columns []string
	Select  SelectStatement
}

func (InsertStatement) statementNode() {}

// DeleteStatement is "DELETE FROM table WHERE [where AND] key IN (in)".
// Either Where or In (or both) is set.
type DeleteStatement struct {
	Table Table
	Where Condition
	Key   string
	In    *SelectStatement
}

func (DeleteStatement) statementNode() {}
