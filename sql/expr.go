package sql

import "github.com/quarrydb/quarry/core"

// Expression is a value expression appearing in INSERT VALUES tuples or
// UPDATE assignments.
type Expression interface {
	exprNode()
}

type LiteralKind int

const (
	IntLiteral LiteralKind = iota
	StringLiteral
	BoolLiteral
	NullLiteral
)

// Literal is a scalar literal kept in its raw text form. The executor
// coerces it against the target column, so a literal wider than any
// machine type still reports out-of-range rather than a parse failure.
type Literal struct {
	Kind LiteralKind
	Raw  string
}

// ParamRef is a $n parameter reference, 1-based.
type ParamRef struct {
	Index int
}

// Binary is an arithmetic expression over two operands.
type Binary struct {
	Op    core.BinaryOp
	Left  Expression
	Right Expression
}

// Cast is an explicit ::type suffix. Only boolean casts are accepted.
type Cast struct {
	Operand Expression
	Target  core.SQLType
}

func (Literal) exprNode()  {}
func (ParamRef) exprNode() {}
func (Binary) exprNode()   {}
func (Cast) exprNode()     {}
