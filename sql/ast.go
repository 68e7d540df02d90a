package sql

import "github.com/quarrydb/quarry/core"

type StatementType int

const (
	CreateSchemaStatementType StatementType = iota
	DropSchemaStatementType
	CreateTableStatementType
	DropTableStatementType
	InsertStatementType
	SelectStatementType
	UpdateStatementType
	DeleteStatementType
)

// Statement is the common interface for all parsed SQL statements.
type Statement interface {
	Type() StatementType
}

type CreateSchemaStatement struct {
	Schema string
}

type DropSchemaStatement struct {
	Schema  string
	Cascade bool
}

// ColumnDef is one column declaration inside CREATE TABLE.
type ColumnDef struct {
	Name    string
	Type    core.SQLType
	NotNull bool
}

type CreateTableStatement struct {
	Schema  string
	Table   string
	Columns []ColumnDef
}

type DropTableStatement struct {
	Schema string
	Table  string
}

// InsertStatement holds one or more VALUES tuples. Columns is empty
// when no explicit column list was given, meaning declared order.
type InsertStatement struct {
	Schema  string
	Table   string
	Columns []string
	Rows    [][]Expression
}

// SelectStatement projects columns of one table. Columns is empty for
// SELECT *; otherwise it is the requested reference list, which may
// reorder and repeat column names.
type SelectStatement struct {
	Schema  string
	Table   string
	Columns []string
}

type Assignment struct {
	Column string
	Value  Expression
}

type UpdateStatement struct {
	Schema      string
	Table       string
	Assignments []Assignment
}

type DeleteStatement struct {
	Schema string
	Table  string
}

func (CreateSchemaStatement) Type() StatementType { return CreateSchemaStatementType }
func (DropSchemaStatement) Type() StatementType   { return DropSchemaStatementType }
func (CreateTableStatement) Type() StatementType  { return CreateTableStatementType }
func (DropTableStatement) Type() StatementType    { return DropTableStatementType }
func (InsertStatement) Type() StatementType       { return InsertStatementType }
func (SelectStatement) Type() StatementType       { return SelectStatementType }
func (UpdateStatement) Type() StatementType       { return UpdateStatementType }
func (DeleteStatement) Type() StatementType       { return DeleteStatementType }
