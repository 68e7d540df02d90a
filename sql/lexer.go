package sql

type Lexer struct {
	sql          string
	position     int
	readPosition int
	ch           byte
}

func NewLexer(sql string) *Lexer {
	lexer := &Lexer{sql: sql}
	lexer.readChar()
	return lexer
}

func (lexer *Lexer) readChar() {
	if lexer.readPosition >= len(lexer.sql) {
		lexer.ch = 0
	} else {
		lexer.ch = lexer.sql[lexer.readPosition]
	}
	lexer.position = lexer.readPosition
	lexer.readPosition++
}

func (lexer *Lexer) peekChar() byte {
	if lexer.readPosition >= len(lexer.sql) {
		return 0
	}
	return lexer.sql[lexer.readPosition]
}

func (lexer *Lexer) NextToken() Token {
	lexer.skipWhitespace()

	var token Token
	switch lexer.ch {
	case 0:
		token = Token{Type: EOF}
	case ',':
		token = Token{Type: Comma, Value: ","}
	case '.':
		token = Token{Type: Dot, Value: "."}
	case ';':
		token = Token{Type: Semicolon, Value: ";"}
	case '(':
		token = Token{Type: ParenOpen, Value: "("}
	case ')':
		token = Token{Type: ParenClose, Value: ")"}
	case '*':
		token = Token{Type: Asterisk, Value: "*"}
	case '+':
		token = Token{Type: Plus, Value: "+"}
	case '-':
		token = Token{Type: Minus, Value: "-"}
	case '/':
		token = Token{Type: Slash, Value: "/"}
	case '%':
		token = Token{Type: Percent, Value: "%"}
	case '^':
		token = Token{Type: Caret, Value: "^"}
	case '=':
		token = Token{Type: Equals, Value: "="}
	case ':':
		if lexer.peekChar() == ':' {
			lexer.readChar()
			token = Token{Type: DoubleColon, Value: "::"}
		} else {
			token = Token{Type: Illegal, Value: ":"}
		}
	case '$':
		lexer.readChar()
		return Token{Type: Param, Value: lexer.readNumber()}
	case '\'':
		return lexer.readString()
	default:
		if isLetter(lexer.ch) {
			return lookupIdentifier(lexer.readIdentifier())
		}
		if isDigit(lexer.ch) {
			return Token{Type: Number, Value: lexer.readNumber()}
		}
		token = Token{Type: Illegal, Value: string(lexer.ch)}
	}

	lexer.readChar()
	return token
}

func (lexer *Lexer) skipWhitespace() {
	for lexer.ch == ' ' || lexer.ch == '\t' || lexer.ch == '\n' || lexer.ch == '\r' {
		lexer.readChar()
	}
}

func (lexer *Lexer) readIdentifier() string {
	start := lexer.position
	for isLetter(lexer.ch) || isDigit(lexer.ch) {
		lexer.readChar()
	}
	return lexer.sql[start:lexer.position]
}

func (lexer *Lexer) readNumber() string {
	start := lexer.position
	for isDigit(lexer.ch) {
		lexer.readChar()
	}
	return lexer.sql[start:lexer.position]
}

// readString consumes a single-quoted literal. A doubled quote inside
// the literal is the escape for one quote character.
func (lexer *Lexer) readString() Token {
	var out []byte
	for {
		lexer.readChar()
		if lexer.ch == 0 {
			return Token{Type: Illegal, Value: "unterminated string"}
		}
		if lexer.ch == '\'' {
			if lexer.peekChar() == '\'' {
				lexer.readChar()
				out = append(out, '\'')
				continue
			}
			lexer.readChar()
			return Token{Type: String, Value: string(out)}
		}
		out = append(out, lexer.ch)
	}
}

func isLetter(ch byte) bool {
	return 'a' <= ch && ch <= 'z' || 'A' <= ch && ch <= 'Z' || ch == '_'
}

func isDigit(ch byte) bool {
	return '0' <= ch && ch <= '9'
}
