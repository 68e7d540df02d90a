package core

import (
	"fmt"
	"math"
)

// TypeFamily identifies one of the supported column type families.
type TypeFamily int

const (
	SmallIntType TypeFamily = iota
	IntegerType
	BigIntType
	CharType
	VarCharType
	BooleanType
)

func (family TypeFamily) String() string {
	switch family {
	case SmallIntType:
		return "smallint"
	case IntegerType:
		return "integer"
	case BigIntType:
		return "bigint"
	case CharType:
		return "char"
	case VarCharType:
		return "varchar"
	case BooleanType:
		return "boolean"
	default:
		return "unknown"
	}
}

// Numeric reports whether the family is one of the integer families.
func (family TypeFamily) Numeric() bool {
	return family == SmallIntType || family == IntegerType || family == BigIntType
}

// Character reports whether the family stores character data.
func (family TypeFamily) Character() bool {
	return family == CharType || family == VarCharType
}

// SQLType is a concrete column type: a family plus, for character
// families, the declared length.
type SQLType struct {
	Family TypeFamily `json:"family"`
	Length uint32     `json:"length,omitempty"`
}

func SmallInt() SQLType { return SQLType{Family: SmallIntType} }
func Integer() SQLType  { return SQLType{Family: IntegerType} }
func BigInt() SQLType   { return SQLType{Family: BigIntType} }
func Boolean() SQLType  { return SQLType{Family: BooleanType} }

// Char returns a fixed-length character type. A bare "char" declaration
// carries length 1.
func Char(length uint32) SQLType {
	return SQLType{Family: CharType, Length: length}
}

// VarChar returns a variable-length character type with the given maximum.
func VarChar(length uint32) SQLType {
	return SQLType{Family: VarCharType, Length: length}
}

func (t SQLType) String() string {
	switch t.Family {
	case CharType:
		return fmt.Sprintf("char(%d)", t.Length)
	case VarCharType:
		return fmt.Sprintf("varchar(%d)", t.Length)
	default:
		return t.Family.String()
	}
}

// Range returns the inclusive bounds for a numeric type family.
// Calling it for a non-numeric family is a programming error.
func (t SQLType) Range() (min int64, max int64) {
	switch t.Family {
	case SmallIntType:
		return math.MinInt16, math.MaxInt16
	case IntegerType:
		return math.MinInt32, math.MaxInt32
	case BigIntType:
		return math.MinInt64, math.MaxInt64
	default:
		panic(fmt.Sprintf("range of non-numeric type %s", t))
	}
}

// Column describes a single column of a table.
type Column struct {
	Name    string  `json:"name"`
	Type    SQLType `json:"type"`
	NotNull bool    `json:"notNull,omitempty"`
}
