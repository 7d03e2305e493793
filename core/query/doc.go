// Package query builds the SQL statements used by the reconciliation engine.
//
// Statements are described as plain values and only turned into SQL text at the
// very end, by Render, for a given Dialect. This keeps the engine testable without
// a database and lets the same statement be executed on MySQL, SQLite or PostgreSQL.
//
// # Conditions
//
// A Condition is a sealed expression tree:
//
//	Equals(column, column) | EqualsValue(column, literal) | NotEqualsValue(column, literal) | And(terms)
//
// Conditions are assembled with a ConditionBuilder. The builder is a value: every
// call returns a new builder and leaves the receiver untouched, so several leaves
// added in sequence are always conjoined.
//
//	cond, err := query.NewCondition().
//	    EqualColumns(tgt.Col("lei"), ref.Col("lei")).
//	    EqualColumns(tgt.Col("isin"), ref.Col("isin")).
//	    Condition()
//
// # Statements
//
//   - SelectStatement: SELECT items FROM table [JOIN table ON cond]... [WHERE cond]
//   - InsertStatement: INSERT INTO table (columns) SELECT ...
//   - DeleteStatement: DELETE FROM table WHERE [cond AND] key IN (SELECT ...)
//
// Builders validate their input on Build and return sentinel errors
// (ErrMissingFrom, ErrColumnCountMismatch, ...) instead of producing a broken statement.
//
// # Rendering
//
// Literal values are always bound as parameters ("?"), identifiers are quoted by
// the Dialect. The SQL produced for deletes wraps the key subquery in a derived
// table so MySQL accepts a subquery that reads the table being deleted from.
package query
