// pkg/sql/parser/parser.go
package parser

import (
	"strconv"
	"strings"

	"simpledb/pkg/dberr"
	"simpledb/pkg/schema"
	"simpledb/pkg/sql/lexer"
	"simpledb/pkg/storage"
	"simpledb/pkg/types"
)

// Parser is a recursive-descent parser over a pre-scanned token slice. Each
// parseX method consumes tokens off the shared cursor, mirroring the
// original engine's one-method-per-clause structure.
type Parser struct {
	toks []lexer.Token
	pos  int
}

// Parse tokenizes sql and parses exactly one Command. A trailing semicolon
// is tolerated; anything else left over after the statement is an error.
// Empty input fails.
func Parse(sql string) (Command, error) {
	toks, err := tokenize(sql)
	if err != nil {
		return nil, err
	}

	p := &Parser{toks: toks}
	if p.cur().Type == lexer.EOF {
		return nil, dberr.ParseError("empty input")
	}

	cmd, err := p.parseCommand()
	if err != nil {
		return nil, err
	}

	if p.cur().Type == lexer.SEMICOLON {
		p.advance()
	}
	if p.cur().Type != lexer.EOF {
		return nil, dberr.ParseError("unexpected token %q after statement", p.cur().Literal)
	}
	return cmd, nil
}

func tokenize(sql string) ([]lexer.Token, error) {
	l := lexer.New(sql)
	var toks []lexer.Token
	for {
		tok, err := l.NextToken()
		if err != nil {
			return nil, err
		}
		toks = append(toks, tok)
		if tok.Type == lexer.EOF {
			return toks, nil
		}
	}
}

func (p *Parser) cur() lexer.Token {
	return p.toks[p.pos]
}

func (p *Parser) advance() lexer.Token {
	tok := p.toks[p.pos]
	if p.pos < len(p.toks)-1 {
		p.pos++
	}
	return tok
}

func (p *Parser) isKeyword(kw string) bool {
	tok := p.cur()
	return tok.Type == lexer.KEYWORD && tok.Literal == kw
}

func (p *Parser) expectKeyword(kw string) error {
	if !p.isKeyword(kw) {
		return dberr.ParseError("expected %s, got %q", kw, p.cur().Literal)
	}
	p.advance()
	return nil
}

func (p *Parser) expectType(tt lexer.TokenType, what string) (lexer.Token, error) {
	if p.cur().Type != tt {
		return lexer.Token{}, dberr.ParseError("expected %s, got %q", what, p.cur().Literal)
	}
	return p.advance(), nil
}

func (p *Parser) expectIdent() (string, error) {
	tok, err := p.expectType(lexer.IDENT, "identifier")
	if err != nil {
		return "", err
	}
	return tok.Literal, nil
}

// columnSuffix resolves a dotted identifier to the part after the final '.'
// (downstream resolution strips everything before the final dot).
func columnSuffix(raw string) string {
	if idx := strings.LastIndex(raw, "."); idx >= 0 {
		return raw[idx+1:]
	}
	return raw
}

func (p *Parser) parseCommand() (Command, error) {
	tok := p.cur()
	if tok.Type != lexer.KEYWORD {
		return nil, dberr.ParseError("expected statement keyword, got %q", tok.Literal)
	}
	switch tok.Literal {
	case "CREATE":
		return p.parseCreateTable()
	case "DROP":
		return p.parseDropTable()
	case "INSERT":
		return p.parseInsert()
	case "SELECT":
		return p.parseSelect()
	case "UPDATE":
		return p.parseUpdate()
	case "DELETE":
		return p.parseDelete()
	default:
		return nil, dberr.ParseError("unrecognized statement keyword %q", tok.Literal)
	}
}

// --- CREATE TABLE ---

func (p *Parser) parseCreateTable() (Command, error) {
	if err := p.expectKeyword("CREATE"); err != nil {
		return nil, err
	}
	if err := p.expectKeyword("TABLE"); err != nil {
		return nil, err
	}

	ifNotExists := false
	if p.isKeyword("IF") {
		p.advance()
		if err := p.expectKeyword("NOT"); err != nil {
			return nil, err
		}
		if err := p.expectKeyword("EXISTS"); err != nil {
			return nil, err
		}
		ifNotExists = true
	}

	table, err := p.expectIdent()
	if err != nil {
		return nil, err
	}
	if _, err := p.expectType(lexer.LPAREN, "("); err != nil {
		return nil, err
	}

	var columns []schema.Column
	for {
		col, err := p.parseColumnDef()
		if err != nil {
			return nil, err
		}
		columns = append(columns, col)
		if p.cur().Type == lexer.COMMA {
			p.advance()
			continue
		}
		break
	}
	if _, err := p.expectType(lexer.RPAREN, ")"); err != nil {
		return nil, err
	}

	return &CreateTable{Table: table, Columns: columns, IfNotExists: ifNotExists}, nil
}

func (p *Parser) parseColumnDef() (schema.Column, error) {
	name, err := p.expectIdent()
	if err != nil {
		return schema.Column{}, err
	}

	if p.cur().Type != lexer.KEYWORD {
		return schema.Column{}, dberr.ParseError("expected column type for %q, got %q", name, p.cur().Literal)
	}

	var typ schema.ColumnType
	length := 0
	switch p.cur().Literal {
	case "INT":
		typ = schema.Int
		p.advance()
	case "BOOLEAN":
		typ = schema.Boolean
		p.advance()
	case "VARCHAR":
		typ = schema.Varchar
		p.advance()
		if p.cur().Type == lexer.LPAREN {
			p.advance()
			numTok, err := p.expectType(lexer.NUMBER, "VARCHAR length")
			if err != nil {
				return schema.Column{}, err
			}
			n, err := strconv.Atoi(numTok.Literal)
			if err != nil {
				return schema.Column{}, dberr.ParseError("invalid VARCHAR length %q", numTok.Literal)
			}
			length = n
			if _, err := p.expectType(lexer.RPAREN, ")"); err != nil {
				return schema.Column{}, err
			}
		}
	default:
		return schema.Column{}, dberr.ParseError("unknown column type %q for %q", p.cur().Literal, name)
	}

	var constraints []schema.Constraint
	for p.cur().Type == lexer.KEYWORD {
		switch p.cur().Literal {
		case "PRIMARY":
			p.advance()
			if err := p.expectKeyword("KEY"); err != nil {
				return schema.Column{}, err
			}
			constraints = append(constraints, schema.PrimaryKey)
		case "UNIQUE":
			p.advance()
			constraints = append(constraints, schema.Unique)
		case "NOT":
			p.advance()
			if err := p.expectKeyword("NULL"); err != nil {
				return schema.Column{}, err
			}
			constraints = append(constraints, schema.NotNull)
		default:
			return schema.NewColumn(name, typ, length, constraints), nil
		}
	}

	return schema.NewColumn(name, typ, length, constraints), nil
}

// --- DROP TABLE ---

func (p *Parser) parseDropTable() (Command, error) {
	if err := p.expectKeyword("DROP"); err != nil {
		return nil, err
	}
	if err := p.expectKeyword("TABLE"); err != nil {
		return nil, err
	}
	table, err := p.expectIdent()
	if err != nil {
		return nil, err
	}
	return &DropTable{Table: table}, nil
}

// --- INSERT ---

func (p *Parser) parseInsert() (Command, error) {
	if err := p.expectKeyword("INSERT"); err != nil {
		return nil, err
	}
	if err := p.expectKeyword("INTO"); err != nil {
		return nil, err
	}
	table, err := p.expectIdent()
	if err != nil {
		return nil, err
	}

	var columns []string
	if p.cur().Type == lexer.LPAREN {
		p.advance()
		for {
			name, err := p.expectIdent()
			if err != nil {
				return nil, err
			}
			columns = append(columns, name)
			if p.cur().Type == lexer.COMMA {
				p.advance()
				continue
			}
			break
		}
		if _, err := p.expectType(lexer.RPAREN, ")"); err != nil {
			return nil, err
		}
	}

	if err := p.expectKeyword("VALUES"); err != nil {
		return nil, err
	}
	if _, err := p.expectType(lexer.LPAREN, "("); err != nil {
		return nil, err
	}

	var values []types.Value
	for {
		v, err := p.parseLiteral()
		if err != nil {
			return nil, err
		}
		values = append(values, v)
		if p.cur().Type == lexer.COMMA {
			p.advance()
			continue
		}
		break
	}
	if _, err := p.expectType(lexer.RPAREN, ")"); err != nil {
		return nil, err
	}

	return &Insert{Table: table, Columns: columns, Values: values}, nil
}

func (p *Parser) parseLiteral() (types.Value, error) {
	tok := p.cur()
	switch tok.Type {
	case lexer.NUMBER:
		p.advance()
		if tok.HasFraction {
			f, err := strconv.ParseFloat(tok.Literal, 64)
			if err != nil {
				return types.Value{}, dberr.ParseError("invalid number literal %q", tok.Literal)
			}
			return types.NewInt(int64(f)), nil
		}
		n, err := strconv.ParseInt(tok.Literal, 10, 64)
		if err != nil {
			return types.Value{}, dberr.ParseError("invalid integer literal %q", tok.Literal)
		}
		return types.NewInt(n), nil
	case lexer.STRING:
		p.advance()
		return types.NewText(tok.Literal), nil
	case lexer.BOOLEAN:
		p.advance()
		return types.NewBool(tok.Literal == "TRUE"), nil
	case lexer.KEYWORD:
		if tok.Literal == "NULL" {
			p.advance()
			return types.NewNull(), nil
		}
	}
	return types.Value{}, dberr.ParseError("expected literal value, got %q", tok.Literal)
}

// --- SELECT ---

func (p *Parser) parseSelect() (Command, error) {
	if err := p.expectKeyword("SELECT"); err != nil {
		return nil, err
	}

	var projection []ProjectionItem
	for {
		item, err := p.parseProjectionItem()
		if err != nil {
			return nil, err
		}
		projection = append(projection, item)
		if p.cur().Type == lexer.COMMA {
			p.advance()
			continue
		}
		break
	}

	if err := p.expectKeyword("FROM"); err != nil {
		return nil, err
	}
	table, err := p.expectIdent()
	if err != nil {
		return nil, err
	}

	sel := &Select{Table: table, Projection: projection}

	if p.isKeyword("INNER") {
		p.advance()
	}
	if p.isKeyword("JOIN") {
		join, err := p.parseJoin()
		if err != nil {
			return nil, err
		}
		sel.Join = join
	}

	if p.isKeyword("WHERE") {
		where, err := p.parseWhere()
		if err != nil {
			return nil, err
		}
		sel.Where = where
	}

	if p.isKeyword("ORDER") {
		ob, err := p.parseOrderBy()
		if err != nil {
			return nil, err
		}
		sel.OrderBy = ob
	}

	if p.isKeyword("LIMIT") {
		p.advance()
		numTok, err := p.expectType(lexer.NUMBER, "LIMIT value")
		if err != nil {
			return nil, err
		}
		n, err := strconv.ParseInt(numTok.Literal, 10, 64)
		if err != nil || n < 0 {
			return nil, dberr.ParseError("invalid LIMIT value %q", numTok.Literal)
		}
		sel.Limit = &n
	}

	return sel, nil
}

func (p *Parser) parseProjectionItem() (ProjectionItem, error) {
	if p.cur().Type == lexer.STAR {
		p.advance()
		return ProjectionItem{Star: true}, nil
	}

	if p.cur().Type == lexer.IDENT && strings.ToUpper(p.cur().Literal) == "COUNT" {
		save := p.pos
		p.advance()
		if p.cur().Type == lexer.LPAREN {
			p.advance()
			if p.cur().Type == lexer.STAR {
				p.advance()
				if _, err := p.expectType(lexer.RPAREN, ")"); err != nil {
					return ProjectionItem{}, err
				}
				alias := "count"
				if p.isKeyword("AS") {
					p.advance()
					a, err := p.expectIdent()
					if err != nil {
						return ProjectionItem{}, err
					}
					alias = a
				}
				return ProjectionItem{IsCount: true, Alias: alias}, nil
			}
		}
		p.pos = save
	}

	name, err := p.expectIdent()
	if err != nil {
		return ProjectionItem{}, err
	}
	item := ProjectionItem{Column: name}
	if p.isKeyword("AS") {
		p.advance()
		alias, err := p.expectIdent()
		if err != nil {
			return ProjectionItem{}, err
		}
		item.Alias = alias
	}
	return item, nil
}

func (p *Parser) parseJoin() (*Join, error) {
	if err := p.expectKeyword("JOIN"); err != nil {
		return nil, err
	}
	table, err := p.expectIdent()
	if err != nil {
		return nil, err
	}
	if err := p.expectKeyword("ON"); err != nil {
		return nil, err
	}
	left, err := p.expectIdent()
	if err != nil {
		return nil, err
	}
	opTok, err := p.expectType(lexer.OPERATOR, "=")
	if err != nil {
		return nil, err
	}
	if opTok.Literal != "=" {
		return nil, dberr.ParseError("expected = in join condition, got %q", opTok.Literal)
	}
	right, err := p.expectIdent()
	if err != nil {
		return nil, err
	}
	return &Join{Table: table, LeftCol: columnSuffix(left), RightCol: columnSuffix(right)}, nil
}

func (p *Parser) parseOrderBy() (*OrderBy, error) {
	if err := p.expectKeyword("ORDER"); err != nil {
		return nil, err
	}
	if err := p.expectKeyword("BY"); err != nil {
		return nil, err
	}
	column, err := p.expectIdent()
	if err != nil {
		return nil, err
	}
	ob := &OrderBy{Column: columnSuffix(column)}
	if p.isKeyword("DESC") {
		p.advance()
		ob.Desc = true
	} else if p.isKeyword("ASC") {
		p.advance()
	}
	return ob, nil
}

// parseWhere parses the flat, no-precedence condition sequence of a WHERE clause.
func (p *Parser) parseWhere() (*storage.Predicate, error) {
	if err := p.expectKeyword("WHERE"); err != nil {
		return nil, err
	}

	pred := &storage.Predicate{}
	cond, err := p.parseCondition()
	if err != nil {
		return nil, err
	}
	pred.Atoms = append(pred.Atoms, cond)

	for p.isKeyword("AND") || p.isKeyword("OR") {
		var logic storage.Logic
		if p.isKeyword("AND") {
			logic = storage.LogicAnd
		} else {
			logic = storage.LogicOr
		}
		p.advance()
		cond, err := p.parseCondition()
		if err != nil {
			return nil, err
		}
		pred.Logics = append(pred.Logics, logic)
		pred.Atoms = append(pred.Atoms, cond)
	}

	return pred, nil
}

func (p *Parser) parseCondition() (storage.Cond, error) {
	column, err := p.expectIdent()
	if err != nil {
		return storage.Cond{}, err
	}
	op, err := p.parseOp()
	if err != nil {
		return storage.Cond{}, err
	}
	value, err := p.parseLiteral()
	if err != nil {
		return storage.Cond{}, err
	}
	return storage.Cond{Column: columnSuffix(column), Op: op, Value: value}, nil
}

func (p *Parser) parseOp() (storage.Op, error) {
	tok := p.cur()
	if tok.Type == lexer.OPERATOR {
		p.advance()
		switch tok.Literal {
		case "=":
			return storage.OpEq, nil
		case "!=":
			return storage.OpNeq, nil
		case "<":
			return storage.OpLt, nil
		case "<=":
			return storage.OpLte, nil
		case ">":
			return storage.OpGt, nil
		case ">=":
			return storage.OpGte, nil
		}
	}
	return 0, dberr.ParseError("expected comparison operator, got %q", tok.Literal)
}

// --- UPDATE ---

func (p *Parser) parseUpdate() (Command, error) {
	if err := p.expectKeyword("UPDATE"); err != nil {
		return nil, err
	}
	table, err := p.expectIdent()
	if err != nil {
		return nil, err
	}
	if err := p.expectKeyword("SET"); err != nil {
		return nil, err
	}

	var assignments []Assignment
	for {
		col, err := p.expectIdent()
		if err != nil {
			return nil, err
		}
		if _, err := p.expectType(lexer.OPERATOR, "="); err != nil {
			return nil, err
		}
		v, err := p.parseLiteral()
		if err != nil {
			return nil, err
		}
		assignments = append(assignments, Assignment{Column: columnSuffix(col), Value: v})
		if p.cur().Type == lexer.COMMA {
			p.advance()
			continue
		}
		break
	}

	upd := &Update{Table: table, Assignments: assignments}
	if p.isKeyword("WHERE") {
		where, err := p.parseWhere()
		if err != nil {
			return nil, err
		}
		upd.Where = where
	}
	return upd, nil
}

// --- DELETE ---

func (p *Parser) parseDelete() (Command, error) {
	if err := p.expectKeyword("DELETE"); err != nil {
		return nil, err
	}
	if err := p.expectKeyword("FROM"); err != nil {
		return nil, err
	}
	table, err := p.expectIdent()
	if err != nil {
		return nil, err
	}

	del := &Delete{Table: table}
	if p.isKeyword("WHERE") {
		where, err := p.parseWhere()
		if err != nil {
			return nil, err
		}
		del.Where = where
	}
	return del, nil
}
