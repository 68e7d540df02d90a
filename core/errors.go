package core

import (
	"fmt"
	"strings"
)

// ErrorKind is a stable identifier for a class of statement failure.
// Transport layers key off the kind; the Code carries the matching
// SQLSTATE for PostgreSQL-compatible clients.
type ErrorKind string

const (
	NumericValueOutOfRange    ErrorKind = "NUMERIC_VALUE_OUT_OF_RANGE"
	StringDataRightTruncation ErrorKind = "STRING_DATA_RIGHT_TRUNCATION"
	MostSpecificTypeMismatch  ErrorKind = "MOST_SPECIFIC_TYPE_MISMATCH"
	NullValueNotAllowed       ErrorKind = "NULL_VALUE_NOT_ALLOWED"
	DivisionByZero            ErrorKind = "DIVISION_BY_ZERO"
	DuplicateSchema           ErrorKind = "DUPLICATE_SCHEMA"
	DuplicateTable            ErrorKind = "DUPLICATE_TABLE"
	SchemaNotFound            ErrorKind = "SCHEMA_NOT_FOUND"
	TableNotFound             ErrorKind = "TABLE_NOT_FOUND"
	ColumnNotFound            ErrorKind = "COLUMN_NOT_FOUND"
	DuplicateColumn           ErrorKind = "DUPLICATE_COLUMN"
	SyntaxError               ErrorKind = "SYNTAX_ERROR"
)

// QueryError is the single error type surfaced by the engine. Every
// failure path produces exactly one QueryError; none are fatal to the
// process.
type QueryError struct {
	Kind    ErrorKind
	Code    string
	Message string
}

func (e *QueryError) Error() string {
	return e.Message
}

// Is makes errors.Is match two QueryErrors of the same kind.
func (e *QueryError) Is(target error) bool {
	other, ok := target.(*QueryError)
	return ok && other.Kind == e.Kind
}

// ErrSchemaAlreadyExists reports a CREATE SCHEMA name collision.
func ErrSchemaAlreadyExists(schema string) *QueryError {
	return &QueryError{
		Kind:    DuplicateSchema,
		Code:    "42P06",
		Message: fmt.Sprintf("schema %q already exists", schema),
	}
}

// ErrSchemaDoesNotExist reports a reference to an unknown schema.
func ErrSchemaDoesNotExist(schema string) *QueryError {
	return &QueryError{
		Kind:    SchemaNotFound,
		Code:    "3F000",
		Message: fmt.Sprintf("schema %q does not exist", schema),
	}
}

// ErrTableAlreadyExists reports a CREATE TABLE name collision.
func ErrTableAlreadyExists(table string) *QueryError {
	return &QueryError{
		Kind:    DuplicateTable,
		Code:    "42P07",
		Message: fmt.Sprintf("table %q already exists", table),
	}
}

// ErrTableDoesNotExist reports a reference to an unknown table.
func ErrTableDoesNotExist(table string) *QueryError {
	return &QueryError{
		Kind:    TableNotFound,
		Code:    "42P01",
		Message: fmt.Sprintf("table %q does not exist", table),
	}
}

// ErrColumnsDoNotExist reports references to unknown columns.
func ErrColumnsDoNotExist(columns ...string) *QueryError {
	message := fmt.Sprintf("column %s does not exist", columns[0])
	if len(columns) > 1 {
		message = fmt.Sprintf("columns %s do not exist", strings.Join(columns, ", "))
	}
	return &QueryError{Kind: ColumnNotFound, Code: "42703", Message: message}
}

// ErrColumnAlreadyExists reports a duplicate column name in CREATE TABLE.
func ErrColumnAlreadyExists(column string) *QueryError {
	return &QueryError{
		Kind:    DuplicateColumn,
		Code:    "42701",
		Message: fmt.Sprintf("column %q specified more than once", column),
	}
}

// ErrSyntax reports an unparseable statement. The statement never
// reaches the executor.
func ErrSyntax(detail string) *QueryError {
	return &QueryError{
		Kind:    SyntaxError,
		Code:    "42601",
		Message: "syntax error: " + detail,
	}
}

// ErrOutOfRange reports a numeric value outside the bounds of the
// column's declared type.
func ErrOutOfRange(t SQLType, column string) *QueryError {
	return &QueryError{
		Kind:    NumericValueOutOfRange,
		Code:    "22003",
		Message: fmt.Sprintf("value out of range for type %s in column %q", t, column),
	}
}

// ErrTypeMismatch reports a literal that cannot be represented in the
// column's declared type at all.
func ErrTypeMismatch(t SQLType, raw string) *QueryError {
	return &QueryError{
		Kind:    MostSpecificTypeMismatch,
		Code:    "2200G",
		Message: fmt.Sprintf("invalid input syntax for type %s: %q", t, raw),
	}
}

// ErrValueTooLong reports character data longer than the declared
// char(n)/varchar(n) length.
func ErrValueTooLong(t SQLType, column string) *QueryError {
	return &QueryError{
		Kind:    StringDataRightTruncation,
		Code:    "22001",
		Message: fmt.Sprintf("value too long for type %s in column %q", t, column),
	}
}

// ErrNullNotAllowed reports a NULL destined for a NOT NULL column.
func ErrNullNotAllowed(column string) *QueryError {
	return &QueryError{
		Kind:    NullValueNotAllowed,
		Code:    "22004",
		Message: fmt.Sprintf("null value in column %q is not allowed", column),
	}
}

// ErrArithmeticOverflow reports an arithmetic result that does not fit
// in 64 bits. The value is rejected, never wrapped.
func ErrArithmeticOverflow() *QueryError {
	return &QueryError{
		Kind:    NumericValueOutOfRange,
		Code:    "22003",
		Message: "bigint out of range",
	}
}

// ErrDivisionByZero reports integer division or modulo by zero.
func ErrDivisionByZero() *QueryError {
	return &QueryError{
		Kind:    DivisionByZero,
		Code:    "22012",
		Message: "division by zero",
	}
}
