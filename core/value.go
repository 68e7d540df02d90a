package core

import (
	"math"
	"strconv"
	"strings"
)

// ValueKind tags the variant held by a Value.
type ValueKind int

const (
	NullValue ValueKind = iota
	SmallIntValue
	IntegerValue
	BigIntValue
	CharValue
	VarCharValue
	BooleanValue
)

// Value is a single cell in a row. Only the field matching Kind is
// meaningful; the remaining fields stay at their zero values.
type Value struct {
	Kind ValueKind
	Int  int64
	Str  string
	Bool bool
}

// Null returns the SQL NULL value.
func Null() Value {
	return Value{Kind: NullValue}
}

// IsNull reports whether the value is SQL NULL.
func (v Value) IsNull() bool {
	return v.Kind == NullValue
}

// Text renders the value in the canonical text form used by the
// transport and by snapshots. NULL renders as the empty string; callers
// must check IsNull first.
func (v Value) Text() string {
	switch v.Kind {
	case SmallIntValue, IntegerValue, BigIntValue:
		return strconv.FormatInt(v.Int, 10)
	case CharValue, VarCharValue:
		return v.Str
	case BooleanValue:
		return strconv.FormatBool(v.Bool)
	default:
		return ""
	}
}

// ParseBool normalizes a boolean literal. Matching is case-insensitive
// over the usual synonym set: t/true/on/yes/y/1 and f/false/off/no/n/0.
func ParseBool(raw string) (value bool, ok bool) {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "t", "true", "on", "yes", "y", "1":
		return true, true
	case "f", "false", "off", "no", "n", "0":
		return false, true
	default:
		return false, false
	}
}

// CoerceInt fits a fully evaluated integer into the column's declared
// type. The argument is always a 64-bit result; narrowing happens here
// and only here, so arithmetic never truncates prematurely.
func CoerceInt(i int64, t SQLType, column string) (Value, *QueryError) {
	switch t.Family {
	case SmallIntType:
		if i < -32768 || i > 32767 {
			return Value{}, ErrOutOfRange(t, column)
		}
		return Value{Kind: SmallIntValue, Int: i}, nil
	case IntegerType:
		if i < -2147483648 || i > 2147483647 {
			return Value{}, ErrOutOfRange(t, column)
		}
		return Value{Kind: IntegerValue, Int: i}, nil
	case BigIntType:
		return Value{Kind: BigIntValue, Int: i}, nil
	default:
		return Value{}, ErrTypeMismatch(t, strconv.FormatInt(i, 10))
	}
}

// CoerceString fits a character literal into the column's declared
// type. For numeric and boolean columns the literal is re-parsed, so
// quoted numbers and boolean synonyms behave like their bare forms.
func CoerceString(s string, t SQLType, column string) (Value, *QueryError) {
	switch t.Family {
	case SmallIntType, IntegerType, BigIntType:
		i, err := strconv.ParseInt(strings.TrimSpace(s), 10, 64)
		if err != nil {
			if numErr, ok := err.(*strconv.NumError); ok && numErr.Err == strconv.ErrRange {
				return Value{}, ErrOutOfRange(t, column)
			}
			return Value{}, ErrTypeMismatch(t, s)
		}
		return CoerceInt(i, t, column)
	case CharType:
		// Trailing blanks are not significant for fixed-length
		// character data: trim them before the length check and
		// store the trimmed form.
		trimmed := strings.TrimRight(s, " ")
		if uint32(len(trimmed)) > t.Length {
			return Value{}, ErrValueTooLong(t, column)
		}
		return Value{Kind: CharValue, Str: trimmed}, nil
	case VarCharType:
		if uint32(len(s)) > t.Length {
			return Value{}, ErrValueTooLong(t, column)
		}
		return Value{Kind: VarCharValue, Str: s}, nil
	case BooleanType:
		b, ok := ParseBool(s)
		if !ok {
			return Value{}, ErrTypeMismatch(t, s)
		}
		return Value{Kind: BooleanValue, Bool: b}, nil
	default:
		return Value{}, ErrTypeMismatch(t, s)
	}
}

// CoerceBool fits a boolean into the column's declared type.
func CoerceBool(b bool, t SQLType, column string) (Value, *QueryError) {
	if t.Family != BooleanType {
		return Value{}, ErrTypeMismatch(t, strconv.FormatBool(b))
	}
	return Value{Kind: BooleanValue, Bool: b}, nil
}

// BinaryOp is an arithmetic operator over integer operands.
type BinaryOp int

const (
	OpAdd BinaryOp = iota
	OpSubtract
	OpMultiply
	OpDivide
	OpModulo
	OpExponent
)

func (op BinaryOp) String() string {
	switch op {
	case OpAdd:
		return "+"
	case OpSubtract:
		return "-"
	case OpMultiply:
		return "*"
	case OpDivide:
		return "/"
	case OpModulo:
		return "%"
	case OpExponent:
		return "^"
	default:
		return "?"
	}
}

// EvalBinary applies an arithmetic operator to two 64-bit integers.
// Division truncates toward zero; division and modulo by zero fail with
// DivisionByZero. A result that does not fit in 64 bits is rejected
// with out-of-range, never wrapped. Narrowing against the target column
// happens later, in CoerceInt, once the full value is known.
func EvalBinary(op BinaryOp, lhs, rhs int64) (int64, *QueryError) {
	switch op {
	case OpAdd:
		return checkedAdd(lhs, rhs)
	case OpSubtract:
		return checkedSub(lhs, rhs)
	case OpMultiply:
		return checkedMul(lhs, rhs)
	case OpDivide:
		if rhs == 0 {
			return 0, ErrDivisionByZero()
		}
		if lhs == math.MinInt64 && rhs == -1 {
			return 0, ErrArithmeticOverflow()
		}
		return lhs / rhs, nil
	case OpModulo:
		if rhs == 0 {
			return 0, ErrDivisionByZero()
		}
		return lhs % rhs, nil
	case OpExponent:
		return intPow(lhs, rhs)
	default:
		return 0, ErrSyntax("unknown operator")
	}
}

func checkedAdd(lhs, rhs int64) (int64, *QueryError) {
	if (rhs > 0 && lhs > math.MaxInt64-rhs) || (rhs < 0 && lhs < math.MinInt64-rhs) {
		return 0, ErrArithmeticOverflow()
	}
	return lhs + rhs, nil
}

func checkedSub(lhs, rhs int64) (int64, *QueryError) {
	if (rhs < 0 && lhs > math.MaxInt64+rhs) || (rhs > 0 && lhs < math.MinInt64+rhs) {
		return 0, ErrArithmeticOverflow()
	}
	return lhs - rhs, nil
}

func checkedMul(lhs, rhs int64) (int64, *QueryError) {
	if lhs == 0 || rhs == 0 {
		return 0, nil
	}
	// MinInt64 * -1 wraps but survives the quotient check below.
	if (lhs == -1 && rhs == math.MinInt64) || (rhs == -1 && lhs == math.MinInt64) {
		return 0, ErrArithmeticOverflow()
	}
	result := lhs * rhs
	if result/lhs != rhs {
		return 0, ErrArithmeticOverflow()
	}
	return result, nil
}

// intPow is integer exponentiation by squaring, with every multiply
// overflow-checked. A negative exponent yields zero for any base other
// than 1 and -1, matching truncating integer division.
func intPow(base, exp int64) (int64, *QueryError) {
	if exp < 0 {
		switch base {
		case 1:
			return 1, nil
		case -1:
			if exp%2 == 0 {
				return 1, nil
			}
			return -1, nil
		default:
			return 0, nil
		}
	}
	result := int64(1)
	for exp > 0 {
		if exp&1 == 1 {
			r, err := checkedMul(result, base)
			if err != nil {
				return 0, err
			}
			result = r
		}
		exp >>= 1
		// The squared base is only needed when more bits remain; an
		// overflow there must not fail an already complete result.
		if exp > 0 {
			b, err := checkedMul(base, base)
			if err != nil {
				return 0, err
			}
			base = b
		}
	}
	return result, nil
}
