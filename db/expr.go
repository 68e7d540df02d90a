package db

import (
	"fmt"
	"strconv"

	"github.com/quarrydb/quarry/core"
	"github.com/quarrydb/quarry/sql"
)

// scalar is the untyped result of evaluating an expression, before it
// is coerced against the target column's declared type.
type scalarKind int

const (
	scalarNull scalarKind = iota
	scalarInt
	scalarString
	scalarBool
)

type scalar struct {
	kind scalarKind
	i    int64
	s    string
	b    bool
}

// evalExpression evaluates an expression and fits the outcome into the
// target column's type. The full value is computed first; narrowing and
// range checks happen only at the end.
func evalExpression(expr sql.Expression, target core.Column, params []string) (core.Value, *core.QueryError) {
	s, err := evalScalar(expr, target, params)
	if err != nil {
		return core.Value{}, err
	}

	switch s.kind {
	case scalarNull:
		return core.Null(), nil
	case scalarInt:
		return core.CoerceInt(s.i, target.Type, target.Name)
	case scalarString:
		return core.CoerceString(s.s, target.Type, target.Name)
	case scalarBool:
		return core.CoerceBool(s.b, target.Type, target.Name)
	default:
		return core.Value{}, core.ErrSyntax("unsupported expression")
	}
}

func evalScalar(expr sql.Expression, target core.Column, params []string) (scalar, *core.QueryError) {
	switch e := expr.(type) {
	case sql.Literal:
		return evalLiteral(e, target)
	case sql.ParamRef:
		if e.Index > len(params) {
			return scalar{}, core.ErrSyntax(fmt.Sprintf("there is no parameter $%d", e.Index))
		}
		// Bound parameters arrive as untyped text and are coerced
		// against the target column like a quoted literal.
		return scalar{kind: scalarString, s: params[e.Index-1]}, nil
	case sql.Binary:
		return evalBinary(e, target, params)
	case sql.Cast:
		return evalCast(e, target, params)
	default:
		return scalar{}, core.ErrSyntax("unsupported expression")
	}
}

func evalLiteral(literal sql.Literal, target core.Column) (scalar, *core.QueryError) {
	switch literal.Kind {
	case sql.NullLiteral:
		return scalar{kind: scalarNull}, nil
	case sql.IntLiteral:
		i, err := strconv.ParseInt(literal.Raw, 10, 64)
		if err != nil {
			// The literal did not fit in 64 bits. For a numeric
			// target that is an out-of-range value, not a parse
			// failure.
			if numErr, ok := err.(*strconv.NumError); ok && numErr.Err == strconv.ErrRange {
				if target.Type.Family.Numeric() {
					return scalar{}, core.ErrOutOfRange(target.Type, target.Name)
				}
			}
			return scalar{}, core.ErrTypeMismatch(target.Type, literal.Raw)
		}
		return scalar{kind: scalarInt, i: i}, nil
	case sql.StringLiteral:
		return scalar{kind: scalarString, s: literal.Raw}, nil
	case sql.BoolLiteral:
		b, _ := core.ParseBool(literal.Raw)
		return scalar{kind: scalarBool, b: b}, nil
	default:
		return scalar{}, core.ErrSyntax("unsupported literal")
	}
}

func evalBinary(binary sql.Binary, target core.Column, params []string) (scalar, *core.QueryError) {
	left, err := evalScalar(binary.Left, target, params)
	if err != nil {
		return scalar{}, err
	}
	right, err := evalScalar(binary.Right, target, params)
	if err != nil {
		return scalar{}, err
	}
	// NULL operands propagate before any arithmetic is attempted.
	if left.kind == scalarNull || right.kind == scalarNull {
		return scalar{kind: scalarNull}, nil
	}

	lhs, err := operandInt(left, target)
	if err != nil {
		return scalar{}, err
	}
	rhs, err := operandInt(right, target)
	if err != nil {
		return scalar{}, err
	}

	result, err := core.EvalBinary(binary.Op, lhs, rhs)
	if err != nil {
		return scalar{}, err
	}
	return scalar{kind: scalarInt, i: result}, nil
}

// operandInt reduces an arithmetic operand to a 64-bit integer. Quoted
// numbers participate like bare ones; anything else is a mismatch.
func operandInt(s scalar, target core.Column) (int64, *core.QueryError) {
	switch s.kind {
	case scalarInt:
		return s.i, nil
	case scalarString:
		i, err := strconv.ParseInt(s.s, 10, 64)
		if err != nil {
			return 0, core.ErrTypeMismatch(target.Type, s.s)
		}
		return i, nil
	case scalarBool:
		return 0, core.ErrTypeMismatch(target.Type, strconv.FormatBool(s.b))
	default:
		return 0, core.ErrTypeMismatch(target.Type, "")
	}
}

func evalCast(cast sql.Cast, target core.Column, params []string) (scalar, *core.QueryError) {
	operand, err := evalScalar(cast.Operand, target, params)
	if err != nil {
		return scalar{}, err
	}
	if operand.kind == scalarNull {
		return operand, nil
	}

	// Only ::boolean reaches here; the parser rejects other targets.
	switch operand.kind {
	case scalarBool:
		return operand, nil
	case scalarString:
		b, ok := core.ParseBool(operand.s)
		if !ok {
			return scalar{}, core.ErrTypeMismatch(cast.Target, operand.s)
		}
		return scalar{kind: scalarBool, b: b}, nil
	case scalarInt:
		return scalar{kind: scalarBool, b: operand.i != 0}, nil
	default:
		return scalar{}, core.ErrTypeMismatch(cast.Target, "")
	}
}
