// Package sql implements the SQL lexer and parser for the quarry engine.
//
// Parse turns one command string into a typed Statement:
//
//	stmt, err := sql.Parse("insert into s.t values (1 + 2), (3)")
//
// The recognized statements are CREATE SCHEMA, DROP SCHEMA [CASCADE],
// CREATE TABLE, DROP TABLE, INSERT, SELECT, UPDATE and DELETE, all
// case-insensitive, with tables qualified as schema.table. Value
// expressions cover integer, string, boolean and NULL literals, $n
// parameter references, binary arithmetic with the usual precedence,
// parentheses, and ::boolean casts.
//
// A malformed statement fails with a syntax-class *core.QueryError and
// never reaches the executor.
package sql
