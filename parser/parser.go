package parser

import (
	"github.com/coreos/pkg/capnslog"
	"github.com/ztrue/tracerr"

	"github.com/pontaoski/wrig/ast"
	"github.com/pontaoski/wrig/errors"
	"github.com/pontaoski/wrig/types"
)

var plog = capnslog.NewPackageLogger("github.com/pontaoski/wrig", "parser")

type Parser struct {
	tokens  []types.Token
	current int
	errs    errors.ParseErrors
}

// NewParser expects tokens as produced by the lexer, ending in EOF.
func NewParser(tokens []types.Token) *Parser {
	if len(tokens) == 0 || tokens[len(tokens)-1].Kind != types.EOF {
		tokens = append(tokens[:len(tokens):len(tokens)], types.Token{Kind: types.EOF})
	}
	return &Parser{tokens: tokens}
}

// Parse returns every statement, or all syntax errors found in one pass.
func Parse(tokens []types.Token) ([]ast.Stmt, error) {
	p := NewParser(tokens)
	stmts, err := p.Parse()
	if err != nil {
		return nil, tracerr.Wrap(err)
	}
	return stmts, nil
}

// ParseExpression parses a single expression followed by EOF.
func ParseExpression(tokens []types.Token) (e ast.Expr, err error) {
	p := NewParser(tokens)

	defer func() {
		if r := recover(); r != nil {
			rerr, ok := r.(error)
			if !ok {
				panic(r)
			}
			e, err = nil, tracerr.Wrap(rerr)
		}
	}()

	e = p.expression()
	p.expect(types.EOF)

	return e, nil
}

func (p *Parser) Parse() ([]ast.Stmt, error) {
	var stmts []ast.Stmt

	for !p.atEnd() {
		if stmt, ok := p.declaration(); ok {
			stmts = append(stmts, stmt)
		}
	}

	if len(p.errs) > 0 {
		plog.Debugf("parse failed with %d errors", len(p.errs))
		return nil, p.errs
	}

	plog.Debugf("parsed %d statements", len(stmts))
	return stmts, nil
}

// declaration recovers from a failing production, records it and
// skips ahead to the next likely statement boundary.
func (p *Parser) declaration() (s ast.Stmt, ok bool) {
	defer func() {
		if r := recover(); r != nil {
			rerr, isErr := r.(error)
			if !isErr {
				panic(r)
			}
			p.errs = append(p.errs, rerr)
			p.synchronize()
			s, ok = nil, false
		}
	}()

	if p.match(types.VAR) {
		return p.varDeclaration(), true
	}

	return p.statement(), true
}

func (p *Parser) varDeclaration() ast.Stmt {
	name := p.expect(types.IDENT)

	var init ast.Expr = ast.Literal{Value: types.Nil()}
	if p.match(types.EQUAL) {
		init = p.expression()
	}

	p.expect(types.SEMICOLON)

	return ast.VarDecl{Name: name, Initializer: init}
}

func (p *Parser) statement() ast.Stmt {
	if p.match(types.PRINT) {
		value := p.expression()
		p.expect(types.SEMICOLON)
		return ast.Print{Expr: value}
	}

	expr := p.expression()
	p.expect(types.SEMICOLON)

	return ast.ExprStmt{Expr: expr}
}

func (p *Parser) expression() ast.Expr {
	return p.equality()
}

// binary left-folds next (op next)* so that a-b-c is ((a-b)-c).
func (p *Parser) binary(next func() ast.Expr, ops ...types.TokenKind) ast.Expr {
	expr := next()

	for p.match(ops...) {
		operator := p.previous()
		right := next()
		expr = ast.Binary{Left: expr, Operator: operator, Right: right}
	}

	return expr
}

func (p *Parser) equality() ast.Expr {
	return p.binary(p.comparison, types.BANG_EQUAL, types.EQUAL_EQUAL)
}

func (p *Parser) comparison() ast.Expr {
	return p.binary(p.term, types.LESS, types.LESS_EQUAL, types.GREATER, types.GREATER_EQUAL)
}

// term keeps + - * / at one level, so 1 + 2 * 3 is (* (+ 1 2) 3).
func (p *Parser) term() ast.Expr {
	return p.binary(p.unary, types.PLUS, types.MINUS, types.STAR, types.SLASH)
}

func (p *Parser) unary() ast.Expr {
	if p.match(types.BANG, types.MINUS) {
		operator := p.previous()
		return ast.Unary{Operator: operator, Operand: p.unary()}
	}

	return p.primary()
}

func (p *Parser) primary() ast.Expr {
	tok := p.peek()

	switch tok.Kind {
	case types.TRUE:
		p.advance()
		return ast.Literal{Value: types.Bool(true)}
	case types.FALSE:
		p.advance()
		return ast.Literal{Value: types.Bool(false)}
	case types.NIL:
		p.advance()
		return ast.Literal{Value: types.Nil()}
	case types.NUMBER, types.STRING:
		p.advance()
		if tok.Literal == nil {
			panic(errors.MissingLiteralPayload{Kind: tok.Kind, Lexeme: tok.Lexeme, Line: tok.Line})
		}
		return ast.Literal{Value: *tok.Literal}
	case types.IDENT:
		p.advance()
		return ast.Variable{Name: tok}
	case types.LPAREN:
		p.advance()
		inner := p.expression()
		p.expect(types.RPAREN)
		return ast.Grouping{Inner: inner}
	}

	panic(errors.NoPrimaryProduction{Found: tok.Kind, Lexeme: tok.Lexeme, Line: tok.Line})
}

// synchronize drops the offending token, then skips until just past a
// ';' or up to a token that starts a statement.
func (p *Parser) synchronize() {
	p.advance()

	for !p.atEnd() {
		if p.previous().Kind == types.SEMICOLON {
			return
		}
		if p.peek().Is(types.StatementStarts...) {
			return
		}
		p.advance()
	}
}

func (p *Parser) expect(k types.TokenKind) types.Token {
	tok := p.peek()
	if tok.Kind == k {
		p.advance()
		return tok
	}

	panic(errors.UnexpectedToken{
		Expected: k,
		Found:    tok.Kind,
		Lexeme:   tok.Lexeme,
		Line:     tok.Line,
	})
}

func (p *Parser) match(k ...types.TokenKind) bool {
	if p.atEnd() || !p.peek().Is(k...) {
		return false
	}
	p.advance()
	return true
}

func (p *Parser) atEnd() bool {
	return p.peek().Kind == types.EOF
}

func (p *Parser) peek() types.Token {
	return p.tokens[p.current]
}

func (p *Parser) previous() types.Token {
	return p.tokens[p.current-1]
}

func (p *Parser) advance() types.Token {
	if !p.atEnd() {
		p.current++
	}
	return p.previous()
}
