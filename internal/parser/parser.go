package parser

import (
	"fmt"

	"github.com/emberlang/ember/internal/ast"
	"github.com/emberlang/ember/internal/lexer"
	"github.com/emberlang/ember/internal/token"
)

// Error is a single parse failure. The parser does not attempt recovery:
// once set, it is returned unchanged by every subsequent call.
type Error struct {
	Line int
	Msg  string
}

func (e *Error) Error() string {
	return fmt.Sprintf("line %d: %s", e.Line, e.Msg)
}

// Parser is a recursive-descent parser whose expression grammar is a fixed
// eight-level precedence ladder (or, and, equality, comparison, addition,
// multiplication, unary, primary).
type Parser struct {
	l    *lexer.Lexer
	cur  token.Token
	peek token.Token
	err  *Error
}

// New creates a parser reading tokens from l.
func New(l *lexer.Lexer) *Parser {
	p := &Parser{l: l}
	p.next()
	p.next()
	return p
}

// Err returns the first parse error encountered, or nil.
func (p *Parser) Err() *Error {
	return p.err
}

func (p *Parser) next() {
	p.cur = p.peek
	p.peek = p.l.NextToken()
}

func (p *Parser) fail(pos token.Position, format string, args ...any) {
	if p.err != nil {
		return
	}
	p.err = &Error{Line: pos.Line, Msg: fmt.Sprintf(format, args...)}
}

func (p *Parser) failed() bool {
	return p.err != nil
}

func (p *Parser) expect(t token.Type) token.Token {
	tok := p.cur
	if tok.Type != t {
		p.fail(tok.Pos, "expected %s, got %s (%q)", t, tok.Type, tok.Lexeme)
		return tok
	}
	p.next()
	return tok
}

// ParseProgram parses the whole token stream into a Program. On the first
// error, parsing stops, Err() reports it, and the returned Program is nil.
func (p *Parser) ParseProgram() *ast.Program {
	prog := &ast.Program{}

	for p.cur.Type != token.EOF && !p.failed() {
		switch p.cur.Type {
		case token.Let:
			prog.Statements = append(prog.Statements, p.parseGlobalLet())
		case token.Fn:
			prog.Statements = append(prog.Statements, p.parseFunctionDecl())
		case token.Comment:
			prog.Statements = append(prog.Statements, p.parseCommentStmt())
		default:
			prog.Statements = append(prog.Statements, p.parseExprStatement())
		}
	}
	if p.failed() {
		return nil
	}
	return prog
}

func (p *Parser) parseCommentStmt() ast.Statement {
	tok := p.cur
	p.next()
	return &ast.CommentStmt{CommentPos: tok.Pos, Text: tok.Lexeme}
}

func (p *Parser) parseGlobalLet() ast.Statement {
	letPos := p.cur.Pos
	p.next() // consume 'let'
	name := p.expect(token.Ident)
	p.expect(token.Assign)
	value, _ := p.parseRHS()
	p.expect(token.Semicolon)
	return &ast.GlobalLet{LetPos: letPos, Name: name.Lexeme, Value: value}
}

func (p *Parser) parseFunctionDecl() ast.Statement {
	fnPos := p.cur.Pos
	p.next() // consume 'fn'
	name := p.expect(token.Ident)
	p.expect(token.LParen)

	var params []string
	for p.cur.Type != token.RParen && !p.failed() {
		param := p.expect(token.Ident)
		params = append(params, param.Lexeme)
		if p.cur.Type == token.Comma {
			p.next()
		}
	}
	p.expect(token.RParen)
	p.expect(token.LBrace)

	var body []ast.Statement
	for p.cur.Type != token.RBrace && p.cur.Type != token.EOF && !p.failed() {
		body = append(body, p.parseStmt())
	}
	p.expect(token.RBrace)

	return &ast.FunctionDecl{FnPos: fnPos, Name: name.Lexeme, Params: params, Body: body}
}

func (p *Parser) parseStmt() ast.Statement {
	switch p.cur.Type {
	case token.Let:
		return p.parseLetStmt()
	case token.Return:
		return p.parseReturnStmt()
	case token.If:
		return p.parseIfStmt()
	case token.Comment:
		return p.parseCommentStmt()
	case token.Ident:
		return p.parseIdentStmt()
	default:
		p.fail(p.cur.Pos, "unexpected token %s (%q) in statement", p.cur.Type, p.cur.Lexeme)
		p.next()
		return &ast.CommentStmt{CommentPos: p.cur.Pos, Text: ""}
	}
}

func (p *Parser) parseLetStmt() ast.Statement {
	letPos := p.cur.Pos
	p.next() // consume 'let'
	name := p.expect(token.Ident)
	p.expect(token.Assign)
	value, _ := p.parseRHS()
	p.expect(token.Semicolon)
	return &ast.LetStmt{LetPos: letPos, Name: name.Lexeme, Value: value}
}

// parseIdentStmt disambiguates "name = expr;" (assign_stmt) from
// "name(args);" (call_stmt) using one token of lookahead.
func (p *Parser) parseIdentStmt() ast.Statement {
	name := p.cur
	if p.peek.Type == token.LParen {
		p.next() // consume ident, cur is now '('
		call := p.parseCallExpr(name.Lexeme, name.Pos)
		p.expect(token.Semicolon)
		return &ast.CallStmt{Call: call}
	}
	p.next() // consume ident
	p.expect(token.Assign)
	value, _ := p.parseRHS()
	p.expect(token.Semicolon)
	return &ast.AssignStmt{AssignPos: name.Pos, Name: name.Lexeme, Value: value}
}

// parseRHS parses the right-hand side of a let or assign statement. The
// grammar only allows a function_call to appear as a whole RHS, never
// nested inside a larger expression, so the call form is checked first.
func (p *Parser) parseRHS() (ast.Expression, bool) {
	if p.cur.Type == token.Ident && p.peek.Type == token.LParen {
		name := p.cur
		p.next() // consume ident, cur is now '('
		return p.parseCallExpr(name.Lexeme, name.Pos), true
	}
	return p.parseOrExpr(), false
}

func (p *Parser) parseCallExpr(name string, pos token.Position) *ast.CallExpr {
	p.expect(token.LParen)
	var args []ast.Expression
	for p.cur.Type != token.RParen && !p.failed() {
		args = append(args, p.parseOrExpr())
		if p.cur.Type == token.Comma {
			p.next()
		}
	}
	p.expect(token.RParen)
	return &ast.CallExpr{CallPos: pos, Name: name, Args: args}
}

// parseReturnStmt enforces that a return value is a single identifier or
// number literal, per the grammar's "return" production. The raw token is
// kept rather than converted, so the emitter decides how to push it.
func (p *Parser) parseReturnStmt() ast.Statement {
	returnPos := p.cur.Pos
	p.next() // consume 'return'

	if p.cur.Type != token.Ident && p.cur.Type != token.Number {
		p.fail(p.cur.Pos, "return value must be an identifier or number, got %s", p.cur.Type)
		return &ast.ReturnStmt{ReturnPos: returnPos}
	}
	valueTok := p.cur
	p.next()
	p.expect(token.Semicolon)
	return &ast.ReturnStmt{ReturnPos: returnPos, ValueTok: valueTok}
}

// parseIfStmt parses "if" "(" equality_expr ")" "{" stmt* "}" — the
// condition sits specifically at the equality level, not the full
// basic_expr ladder, matching the grammar literally.
func (p *Parser) parseIfStmt() ast.Statement {
	ifPos := p.cur.Pos
	p.next() // consume 'if'
	p.expect(token.LParen)
	cond := p.parseEqualityExpr()
	p.expect(token.RParen)
	p.expect(token.LBrace)

	var body []ast.Statement
	for p.cur.Type != token.RBrace && p.cur.Type != token.EOF && !p.failed() {
		body = append(body, p.parseStmt())
	}
	p.expect(token.RBrace)

	return &ast.IfStmt{IfPos: ifPos, Condition: cond, Body: body}
}

func (p *Parser) parseExprStatement() ast.Statement {
	expr := p.parseOrExpr()
	if p.cur.Type == token.Semicolon {
		p.next()
	}
	return &ast.ExprStmt{Expression: expr}
}

// Expression ladder, from lowest to highest precedence.

func (p *Parser) parseOrExpr() ast.Expression {
	left := p.parseAndExpr()
	for p.cur.Type == token.OrOr && !p.failed() {
		opPos := p.cur.Pos
		op := p.cur.Type
		p.next()
		right := p.parseAndExpr()
		left = &ast.BinaryExpr{OpPos: opPos, Operator: op, Left: left, Right: right}
	}
	return left
}

func (p *Parser) parseAndExpr() ast.Expression {
	left := p.parseEqualityExpr()
	for p.cur.Type == token.AndAnd && !p.failed() {
		opPos := p.cur.Pos
		op := p.cur.Type
		p.next()
		right := p.parseEqualityExpr()
		left = &ast.BinaryExpr{OpPos: opPos, Operator: op, Left: left, Right: right}
	}
	return left
}

func (p *Parser) parseEqualityExpr() ast.Expression {
	left := p.parseComparison()
	for (p.cur.Type == token.Equal || p.cur.Type == token.NotEqual) && !p.failed() {
		opPos := p.cur.Pos
		op := p.cur.Type
		p.next()
		right := p.parseComparison()
		left = &ast.BinaryExpr{OpPos: opPos, Operator: op, Left: left, Right: right}
	}
	return left
}

func isComparisonOp(t token.Type) bool {
	switch t {
	case token.Less, token.LessEqual, token.Greater, token.GreaterEqual:
		return true
	default:
		return false
	}
}

func (p *Parser) parseComparison() ast.Expression {
	left := p.parseAddition()
	for isComparisonOp(p.cur.Type) && !p.failed() {
		opPos := p.cur.Pos
		op := p.cur.Type
		p.next()
		right := p.parseAddition()
		left = &ast.BinaryExpr{OpPos: opPos, Operator: op, Left: left, Right: right}
	}
	return left
}

func (p *Parser) parseAddition() ast.Expression {
	left := p.parseMultiplication()
	for (p.cur.Type == token.Plus || p.cur.Type == token.Minus) && !p.failed() {
		opPos := p.cur.Pos
		op := p.cur.Type
		p.next()
		right := p.parseMultiplication()
		left = &ast.BinaryExpr{OpPos: opPos, Operator: op, Left: left, Right: right}
	}
	return left
}

func (p *Parser) parseMultiplication() ast.Expression {
	left := p.parseUnary()
	for (p.cur.Type == token.Star || p.cur.Type == token.Slash) && !p.failed() {
		opPos := p.cur.Pos
		op := p.cur.Type
		p.next()
		right := p.parseUnary()
		left = &ast.BinaryExpr{OpPos: opPos, Operator: op, Left: left, Right: right}
	}
	return left
}

func (p *Parser) parseUnary() ast.Expression {
	if p.cur.Type == token.Minus || p.cur.Type == token.Bang {
		opPos := p.cur.Pos
		op := p.cur.Type
		p.next()
		right := p.parseUnary()
		return &ast.UnaryExpr{OpPos: opPos, Operator: op, Right: right}
	}
	return p.parsePrimary()
}

func (p *Parser) parsePrimary() ast.Expression {
	tok := p.cur
	switch tok.Type {
	case token.Number:
		p.next()
		return &ast.NumberLiteral{LiteralPos: tok.Pos, Value: tok.Lexeme}
	case token.String:
		p.next()
		return &ast.StringLiteral{LiteralPos: tok.Pos, Value: tok.Lexeme}
	case token.True:
		p.next()
		return &ast.BoolLiteral{LiteralPos: tok.Pos, Value: true}
	case token.False:
		p.next()
		return &ast.BoolLiteral{LiteralPos: tok.Pos, Value: false}
	case token.Nil:
		p.next()
		return &ast.NilLiteral{LiteralPos: tok.Pos}
	case token.Ident:
		p.next()
		return &ast.Identifier{IdentPos: tok.Pos, Name: tok.Lexeme}
	case token.LParen:
		p.next()
		expr := p.parseOrExpr()
		p.expect(token.RParen)
		return expr
	default:
		p.fail(tok.Pos, "unexpected token %s (%q) in expression", tok.Type, tok.Lexeme)
		return &ast.NilLiteral{LiteralPos: tok.Pos}
	}
}
