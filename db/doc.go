// Package db implements the quarry execution engine: the catalog of
// schemas and tables, the per-table row store, expression evaluation,
// and statement dispatch.
//
// An Engine owns one Catalog for its lifetime. Transports obtain a
// Session per connection and feed it decoded SQL command strings:
//
//	engine := db.NewEngine()
//	session := engine.Session("conn-1")
//	result, err := session.Execute("create schema s")
//
// Every statement either returns a *Result or a *core.QueryError with a
// stable kind and SQLSTATE code. Failed statements leave no partial
// effects; the engine is always ready for the next statement.
package db
