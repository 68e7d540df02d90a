// Package quarry provides an in-memory SQL database engine.
//
// quarry parses SQL command strings, maintains a catalog of schemas and
// tables, and executes DDL, DML and query statements with strict typed
// value semantics: numeric range checks, fixed/variable character
// length rules, and boolean synonym normalization. Failures surface as
// structured errors with stable kinds and SQLSTATE codes.
//
// # Quick Start
//
//	instance := quarry.Open()
//	session := instance.Session("local")
//
//	session.Execute("create schema app")
//	session.Execute("create table app.users (id integer, name varchar(40))")
//	session.Execute("insert into app.users values (1, 'Alice'), (2, 'Bob')")
//
//	result, err := session.Execute("select name, id from app.users")
//
// # Supported SQL
//
//   - CREATE/DROP SCHEMA (DROP cascades to contained tables)
//   - CREATE/DROP TABLE with smallint, integer, bigint, char(n),
//     varchar(n) and boolean columns, optionally NOT NULL
//   - INSERT with multiple VALUES tuples, explicit column lists,
//     arithmetic expressions and $n parameters
//   - SELECT with reorderable, repeatable column reference lists
//   - UPDATE ... SET (all rows) and DELETE (all rows)
//
// The TCP front end under cmd/server speaks a newline-delimited JSON
// protocol and is the only component that touches sockets; the engine
// itself only ever sees decoded command strings.
package quarry
