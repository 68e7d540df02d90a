// Package core provides the value and type system shared by the quarry
// SQL engine, parser, and transport.
//
// The package defines the supported column types, the tagged Value union
// that represents a single cell, the literal parsing and coercion rules
// (numeric range checks, character length checks, boolean synonym
// normalization), and the structured QueryError taxonomy with stable
// SQLSTATE codes.
//
// # Column Types
//
// Supported column types:
//   - SmallIntType: 16-bit integers, [-32768, 32767]
//   - IntegerType:  32-bit integers, [-2147483648, 2147483647]
//   - BigIntType:   64-bit integers
//   - CharType:     fixed-length character strings, blank padded
//   - VarCharType:  variable-length character strings with a maximum
//   - BooleanType:  booleans, accepting the usual synonym spellings
//
// # Column Definition
//
//	column := core.Column{
//	    Name:    "id",
//	    Type:    core.Integer(),
//	    NotNull: true,
//	}
package core
