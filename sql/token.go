package sql

import "strings"

type Token struct {
	Type  TokenType
	Value string
}

type TokenType int

const (
	Identifier TokenType = iota
	Number
	String
	Param
	Comma
	Dot
	Semicolon
	ParenOpen
	ParenClose
	Asterisk
	Plus
	Minus
	Slash
	Percent
	Caret
	Equals
	DoubleColon
	Create
	Drop
	Schema
	Table
	Cascade
	Insert
	Into
	Values
	Select
	From
	Update
	Set
	Delete
	Not
	Null
	True
	False
	EOF
	Illegal
)

var keywords = map[string]TokenType{
	"create":  Create,
	"drop":    Drop,
	"schema":  Schema,
	"table":   Table,
	"cascade": Cascade,
	"insert":  Insert,
	"into":    Into,
	"values":  Values,
	"select":  Select,
	"from":    From,
	"update":  Update,
	"set":     Set,
	"delete":  Delete,
	"not":     Not,
	"null":    Null,
	"true":    True,
	"false":   False,
}

// lookupIdentifier resolves keywords case-insensitively; anything else
// is an identifier, lowered so that names compare case-insensitively.
func lookupIdentifier(word string) Token {
	lowered := strings.ToLower(word)
	if t, ok := keywords[lowered]; ok {
		return Token{Type: t, Value: lowered}
	}
	return Token{Type: Identifier, Value: lowered}
}

func (token Token) String() string {
	switch token.Type {
	case Identifier:
		return "Identifier(" + token.Value + ")"
	case Number:
		return "Number(" + token.Value + ")"
	case String:
		return "String(" + token.Value + ")"
	case Param:
		return "Param($" + token.Value + ")"
	case Comma:
		return "Comma"
	case Dot:
		return "Dot"
	case Semicolon:
		return "Semicolon"
	case ParenOpen:
		return "ParenOpen"
	case ParenClose:
		return "ParenClose"
	case Asterisk:
		return "Asterisk"
	case Plus:
		return "Plus"
	case Minus:
		return "Minus"
	case Slash:
		return "Slash"
	case Percent:
		return "Percent"
	case Caret:
		return "Caret"
	case Equals:
		return "Equals"
	case DoubleColon:
		return "DoubleColon"
	case EOF:
		return "EOF"
	case Illegal:
		return "Illegal(" + token.Value + ")"
	default:
		return "Keyword(" + token.Value + ")"
	}
}
