package sql

import (
	"strconv"

	"github.com/quarrydb/quarry/core"
)

// Parser is a recursive-descent parser over the token stream produced
// by Lexer. A Parser is single-use: create one per statement.
type Parser struct {
	lexer   *Lexer
	current Token
	peek    Token
}

func NewParser(sql string) *Parser {
	parser := &Parser{lexer: NewLexer(sql)}
	parser.nextToken()
	parser.nextToken()
	return parser
}

// Parse is a convenience wrapper that parses a single statement.
func Parse(sql string) (Statement, error) {
	return NewParser(sql).Parse()
}

func (parser *Parser) nextToken() {
	parser.current = parser.peek
	parser.peek = parser.lexer.NextToken()
}

// Parse consumes the whole input and returns the statement, or a
// syntax-class *core.QueryError.
func (parser *Parser) Parse() (Statement, error) {
	var stmt Statement
	var err error

	switch parser.current.Type {
	case Create:
		stmt, err = parser.parseCreate()
	case Drop:
		stmt, err = parser.parseDrop()
	case Insert:
		stmt, err = parser.parseInsert()
	case Select:
		stmt, err = parser.parseSelect()
	case Update:
		stmt, err = parser.parseUpdate()
	case Delete:
		stmt, err = parser.parseDelete()
	case EOF:
		return nil, core.ErrSyntax("empty statement")
	default:
		return nil, core.ErrSyntax("unexpected " + parser.current.String())
	}
	if err != nil {
		return nil, err
	}

	if parser.current.Type == Semicolon {
		parser.nextToken()
	}
	if parser.current.Type != EOF {
		return nil, core.ErrSyntax("unexpected " + parser.current.String() + " after statement")
	}
	return stmt, nil
}

func (parser *Parser) expect(t TokenType, what string) error {
	if parser.current.Type != t {
		return core.ErrSyntax("expected " + what + ", got " + parser.current.String())
	}
	parser.nextToken()
	return nil
}

func (parser *Parser) identifier(what string) (string, error) {
	if parser.current.Type != Identifier {
		return "", core.ErrSyntax("expected " + what + ", got " + parser.current.String())
	}
	name := parser.current.Value
	parser.nextToken()
	return name, nil
}

// qualifiedName parses schema.table.
func (parser *Parser) qualifiedName() (schema string, table string, err error) {
	schema, err = parser.identifier("schema name")
	if err != nil {
		return "", "", err
	}
	if err = parser.expect(Dot, "'.'"); err != nil {
		return "", "", err
	}
	table, err = parser.identifier("table name")
	if err != nil {
		return "", "", err
	}
	return schema, table, nil
}

func (parser *Parser) parseCreate() (Statement, error) {
	parser.nextToken()
	switch parser.current.Type {
	case Schema:
		parser.nextToken()
		name, err := parser.identifier("schema name")
		if err != nil {
			return nil, err
		}
		return CreateSchemaStatement{Schema: name}, nil
	case Table:
		parser.nextToken()
		return parser.parseCreateTable()
	default:
		return nil, core.ErrSyntax("expected SCHEMA or TABLE after CREATE")
	}
}

func (parser *Parser) parseCreateTable() (Statement, error) {
	schema, table, err := parser.qualifiedName()
	if err != nil {
		return nil, err
	}
	if err := parser.expect(ParenOpen, "'('"); err != nil {
		return nil, err
	}

	// Zero-column tables are legal: "create table s.t()".
	var columns []ColumnDef
	for parser.current.Type != ParenClose {
		column, err := parser.parseColumnDef()
		if err != nil {
			return nil, err
		}
		columns = append(columns, column)
		if parser.current.Type != Comma {
			break
		}
		parser.nextToken()
	}
	if err := parser.expect(ParenClose, "')'"); err != nil {
		return nil, err
	}
	return CreateTableStatement{Schema: schema, Table: table, Columns: columns}, nil
}

func (parser *Parser) parseColumnDef() (ColumnDef, error) {
	name, err := parser.identifier("column name")
	if err != nil {
		return ColumnDef{}, err
	}
	columnType, err := parser.parseColumnType()
	if err != nil {
		return ColumnDef{}, err
	}

	notNull := false
	if parser.current.Type == Not {
		parser.nextToken()
		if err := parser.expect(Null, "NULL after NOT"); err != nil {
			return ColumnDef{}, err
		}
		notNull = true
	}
	return ColumnDef{Name: name, Type: columnType, NotNull: notNull}, nil
}

func (parser *Parser) parseColumnType() (core.SQLType, error) {
	if parser.current.Type != Identifier {
		return core.SQLType{}, core.ErrSyntax("expected column type, got " + parser.current.String())
	}
	name := parser.current.Value
	parser.nextToken()

	switch name {
	case "smallint":
		return core.SmallInt(), nil
	case "integer", "int":
		return core.Integer(), nil
	case "bigint":
		return core.BigInt(), nil
	case "boolean", "bool":
		return core.Boolean(), nil
	case "char":
		length, ok, err := parser.parseTypeLength()
		if err != nil {
			return core.SQLType{}, err
		}
		if !ok {
			// A bare "char" is char(1).
			return core.Char(1), nil
		}
		return core.Char(length), nil
	case "varchar":
		length, ok, err := parser.parseTypeLength()
		if err != nil {
			return core.SQLType{}, err
		}
		if !ok {
			return core.VarChar(255), nil
		}
		return core.VarChar(length), nil
	default:
		return core.SQLType{}, core.ErrSyntax("unknown column type " + strconv.Quote(name))
	}
}

// parseTypeLength parses an optional "(n)" suffix on a character type.
func (parser *Parser) parseTypeLength() (length uint32, present bool, err error) {
	if parser.current.Type != ParenOpen {
		return 0, false, nil
	}
	parser.nextToken()
	if parser.current.Type != Number {
		return 0, false, core.ErrSyntax("expected length, got " + parser.current.String())
	}
	n, convErr := strconv.ParseUint(parser.current.Value, 10, 32)
	if convErr != nil || n == 0 {
		return 0, false, core.ErrSyntax("invalid type length " + strconv.Quote(parser.current.Value))
	}
	parser.nextToken()
	if err := parser.expect(ParenClose, "')'"); err != nil {
		return 0, false, err
	}
	return uint32(n), true, nil
}

func (parser *Parser) parseDrop() (Statement, error) {
	parser.nextToken()
	switch parser.current.Type {
	case Schema:
		parser.nextToken()
		name, err := parser.identifier("schema name")
		if err != nil {
			return nil, err
		}
		cascade := false
		if parser.current.Type == Cascade {
			cascade = true
			parser.nextToken()
		}
		return DropSchemaStatement{Schema: name, Cascade: cascade}, nil
	case Table:
		parser.nextToken()
		schema, table, err := parser.qualifiedName()
		if err != nil {
			return nil, err
		}
		return DropTableStatement{Schema: schema, Table: table}, nil
	default:
		return nil, core.ErrSyntax("expected SCHEMA or TABLE after DROP")
	}
}

func (parser *Parser) parseInsert() (Statement, error) {
	parser.nextToken()
	if err := parser.expect(Into, "INTO"); err != nil {
		return nil, err
	}
	schema, table, err := parser.qualifiedName()
	if err != nil {
		return nil, err
	}

	var columns []string
	if parser.current.Type == ParenOpen {
		parser.nextToken()
		for {
			name, err := parser.identifier("column name")
			if err != nil {
				return nil, err
			}
			columns = append(columns, name)
			if parser.current.Type != Comma {
				break
			}
			parser.nextToken()
		}
		if err := parser.expect(ParenClose, "')'"); err != nil {
			return nil, err
		}
	}

	if err := parser.expect(Values, "VALUES"); err != nil {
		return nil, err
	}

	var rows [][]Expression
	for {
		row, err := parser.parseValuesTuple()
		if err != nil {
			return nil, err
		}
		rows = append(rows, row)
		if parser.current.Type != Comma {
			break
		}
		parser.nextToken()
	}
	return InsertStatement{Schema: schema, Table: table, Columns: columns, Rows: rows}, nil
}

func (parser *Parser) parseValuesTuple() ([]Expression, error) {
	if err := parser.expect(ParenOpen, "'('"); err != nil {
		return nil, err
	}
	exprs := []Expression{}
	for parser.current.Type != ParenClose {
		expr, err := parser.parseExpression(precedenceLowest)
		if err != nil {
			return nil, err
		}
		exprs = append(exprs, expr)
		if parser.current.Type != Comma {
			break
		}
		parser.nextToken()
	}
	if err := parser.expect(ParenClose, "')'"); err != nil {
		return nil, err
	}
	return exprs, nil
}

func (parser *Parser) parseSelect() (Statement, error) {
	parser.nextToken()

	var columns []string
	if parser.current.Type == Asterisk {
		parser.nextToken()
	} else {
		for {
			name, err := parser.identifier("column name")
			if err != nil {
				return nil, err
			}
			columns = append(columns, name)
			if parser.current.Type != Comma {
				break
			}
			parser.nextToken()
		}
	}

	if err := parser.expect(From, "FROM"); err != nil {
		return nil, err
	}
	schema, table, err := parser.qualifiedName()
	if err != nil {
		return nil, err
	}
	return SelectStatement{Schema: schema, Table: table, Columns: columns}, nil
}

func (parser *Parser) parseUpdate() (Statement, error) {
	parser.nextToken()
	schema, table, err := parser.qualifiedName()
	if err != nil {
		return nil, err
	}
	if err := parser.expect(Set, "SET"); err != nil {
		return nil, err
	}

	var assignments []Assignment
	for {
		column, err := parser.identifier("column name")
		if err != nil {
			return nil, err
		}
		if err := parser.expect(Equals, "'='"); err != nil {
			return nil, err
		}
		value, err := parser.parseExpression(precedenceLowest)
		if err != nil {
			return nil, err
		}
		assignments = append(assignments, Assignment{Column: column, Value: value})
		if parser.current.Type != Comma {
			break
		}
		parser.nextToken()
	}
	return UpdateStatement{Schema: schema, Table: table, Assignments: assignments}, nil
}

func (parser *Parser) parseDelete() (Statement, error) {
	parser.nextToken()
	if err := parser.expect(From, "FROM"); err != nil {
		return nil, err
	}
	schema, table, err := parser.qualifiedName()
	if err != nil {
		return nil, err
	}
	return DeleteStatement{Schema: schema, Table: table}, nil
}

const (
	precedenceLowest   = 1
	precedenceAdditive = 1
	precedenceMultiply = 2
	precedenceExponent = 3
)

func operatorFor(t TokenType) (core.BinaryOp, int, bool) {
	switch t {
	case Plus:
		return core.OpAdd, precedenceAdditive, true
	case Minus:
		return core.OpSubtract, precedenceAdditive, true
	case Asterisk:
		return core.OpMultiply, precedenceMultiply, true
	case Slash:
		return core.OpDivide, precedenceMultiply, true
	case Percent:
		return core.OpModulo, precedenceMultiply, true
	case Caret:
		return core.OpExponent, precedenceExponent, true
	default:
		return 0, 0, false
	}
}

// parseExpression is precedence-climbing over left-associative binary
// operators.
func (parser *Parser) parseExpression(minPrecedence int) (Expression, error) {
	left, err := parser.parsePrimary()
	if err != nil {
		return nil, err
	}

	for {
		op, precedence, ok := operatorFor(parser.current.Type)
		if !ok || precedence < minPrecedence {
			return left, nil
		}
		parser.nextToken()
		right, err := parser.parseExpression(precedence + 1)
		if err != nil {
			return nil, err
		}
		left = Binary{Op: op, Left: left, Right: right}
	}
}

func (parser *Parser) parsePrimary() (Expression, error) {
	var expr Expression

	switch parser.current.Type {
	case Number:
		expr = Literal{Kind: IntLiteral, Raw: parser.current.Value}
		parser.nextToken()
	case Minus:
		parser.nextToken()
		if parser.current.Type != Number {
			return nil, core.ErrSyntax("expected number after '-'")
		}
		expr = Literal{Kind: IntLiteral, Raw: "-" + parser.current.Value}
		parser.nextToken()
	case String:
		expr = Literal{Kind: StringLiteral, Raw: parser.current.Value}
		parser.nextToken()
	case True, False:
		expr = Literal{Kind: BoolLiteral, Raw: parser.current.Value}
		parser.nextToken()
	case Null:
		expr = Literal{Kind: NullLiteral}
		parser.nextToken()
	case Param:
		index, err := strconv.Atoi(parser.current.Value)
		if err != nil || index < 1 {
			return nil, core.ErrSyntax("invalid parameter reference $" + parser.current.Value)
		}
		expr = ParamRef{Index: index}
		parser.nextToken()
	case ParenOpen:
		parser.nextToken()
		inner, err := parser.parseExpression(precedenceLowest)
		if err != nil {
			return nil, err
		}
		if err := parser.expect(ParenClose, "')'"); err != nil {
			return nil, err
		}
		expr = inner
	default:
		return nil, core.ErrSyntax("unexpected " + parser.current.String() + " in expression")
	}

	// ::type cast suffixes bind tighter than any binary operator.
	for parser.current.Type == DoubleColon {
		parser.nextToken()
		if parser.current.Type != Identifier || (parser.current.Value != "boolean" && parser.current.Value != "bool") {
			return nil, core.ErrSyntax("unsupported cast target")
		}
		parser.nextToken()
		expr = Cast{Operand: expr, Target: core.Boolean()}
	}
	return expr, nil
}
