package db

import (
	"github.com/quarrydb/quarry/core"
	"github.com/quarrydb/quarry/sql"
)

var errUnsupportedStatement = core.ErrSyntax("unsupported statement")

func (engine *Engine) executeCreateSchema(statement sql.CreateSchemaStatement) (*Result, error) {
	if err := engine.catalog.CreateSchema(statement.Schema); err != nil {
		return nil, err
	}
	return &Result{Tag: "CREATE SCHEMA"}, nil
}

// executeDropSchema drops the schema and everything in it. The CASCADE
// keyword is accepted syntax; dropping a schema always removes its
// tables and their rows as one unit.
func (engine *Engine) executeDropSchema(statement sql.DropSchemaStatement) (*Result, error) {
	if err := engine.catalog.DropSchema(statement.Schema); err != nil {
		return nil, err
	}
	return &Result{Tag: "DROP SCHEMA"}, nil
}

func (engine *Engine) executeCreateTable(statement sql.CreateTableStatement) (*Result, error) {
	columns := make([]core.Column, len(statement.Columns))
	for i, def := range statement.Columns {
		columns[i] = core.Column{Name: def.Name, Type: def.Type, NotNull: def.NotNull}
	}
	if err := engine.catalog.CreateTable(statement.Schema, statement.Table, columns); err != nil {
		return nil, err
	}
	return &Result{Tag: "CREATE TABLE"}, nil
}

func (engine *Engine) executeDropTable(statement sql.DropTableStatement) (*Result, error) {
	if err := engine.catalog.DropTable(statement.Schema, statement.Table); err != nil {
		return nil, err
	}
	return &Result{Tag: "DROP TABLE"}, nil
}
