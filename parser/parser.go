// Package parser is a recursive descent parser for Kaleidoscope.
// Binary expressions are parsed by precedence climbing over an infix.Table.
package parser

import (
	"github.com/takoeight0821/kaleido/ast"
	"github.com/takoeight0821/kaleido/infix"
	"github.com/takoeight0821/kaleido/lexer"
	"github.com/takoeight0821/kaleido/token"
)

// Parser holds one token of lookahead. Every Parse method either returns a
// complete node or a SyntaxError, leaving Current at the offending token.
type Parser struct {
	lexer   *lexer.Lexer
	current token.Token
	prec    infix.Table

	uniqueParams  bool
	strictNumbers bool
}

type Option func(*Parser)

// WithPrecedence replaces the default operator table.
func WithPrecedence(table infix.Table) Option {
	return func(p *Parser) {
		p.prec = table
	}
}

// UniqueParams rejects prototypes that repeat a parameter name.
func UniqueParams(enable bool) Option {
	return func(p *Parser) {
		p.uniqueParams = enable
	}
}

// StrictNumbers rejects number literals such as "1.2.3" instead of reading
// their longest valid prefix.
func StrictNumbers(enable bool) Option {
	return func(p *Parser) {
		p.strictNumbers = enable
	}
}

// NewParser reads the first token from l.
func NewParser(l *lexer.Lexer, opts ...Option) *Parser {
	p := &Parser{lexer: l, prec: infix.Default()}
	for _, opt := range opts {
		opt(p)
	}
	p.Advance()

	return p
}

func FromString(source string, opts ...Option) *Parser {
	return NewParser(lexer.New(lexer.NewStringSource(source)), opts...)
}

func (p *Parser) Current() token.Token {
	return p.current
}

// Err reports a read error that ended the input early.
func (p *Parser) Err() error {
	return p.lexer.Err()
}

// Advance discards the current token and returns the next one.
func (p *Parser) Advance() token.Token {
	p.current = p.lexer.NextToken()
	return p.current
}

func (p *Parser) fail(err error) error {
	return SyntaxError{Where: p.current, Err: err}
}

// primary = identifierExpr | NUMBER | parenExpr ;
func (p *Parser) ParsePrimary() (ast.Expr, error) {
	//exhaustive:ignore
	switch p.current.Kind {
	case token.IDENT:
		return p.ParseIdentifierExpression()
	case token.NUMBER:
		return p.number()
	case token.SYMBOL:
		if p.current.Is('(') {
			return p.paren()
		}
	}

	return nil, p.fail(ErrUnknownToken)
}

// number = NUMBER ;
func (p *Parser) number() (ast.Expr, error) {
	tok := p.current
	if p.strictNumbers && !lexer.ValidNumber(tok.Lexeme) {
		return nil, p.fail(ErrMalformedNumber)
	}
	p.Advance()

	return &ast.Number{Where: tok, Value: tok.Number()}, nil
}

// parenExpr = "(" expression ")" ;
func (p *Parser) paren() (ast.Expr, error) {
	p.Advance()
	expr, err := p.ParseExpression()
	if err != nil {
		return nil, err
	}
	if !p.current.Is(')') {
		return nil, p.fail(ErrExpectedCloseParen)
	}
	p.Advance()

	return expr, nil
}

// identifierExpr = IDENT | IDENT "(" ( expression ( "," expression )* )? ")" ;
func (p *Parser) ParseIdentifierExpression() (ast.Expr, error) {
	ident := p.current
	p.Advance()

	if !p.current.Is('(') {
		return &ast.Variable{Where: ident, Name: ident.Lexeme}, nil
	}

	p.Advance()
	args := []ast.Expr{}
	if !p.current.Is(')') {
		for {
			arg, err := p.ParseExpression()
			if err != nil {
				return nil, err
			}
			args = append(args, arg)

			if p.current.Is(')') {
				break
			}
			if !p.current.Is(',') {
				return nil, p.fail(ErrExpectedArgListDelimiter)
			}
			p.Advance()
		}
	}
	p.Advance()

	return &ast.Call{Where: ident, Callee: ident.Lexeme, Args: args}, nil
}

// expression = primary binOpRHS ;
func (p *Parser) ParseExpression() (ast.Expr, error) {
	lhs, err := p.ParsePrimary()
	if err != nil {
		return nil, err
	}

	return p.ParseBinOpRHS(0, lhs)
}

// binOpRHS = ( OPERATOR primary )* ;
//
// ParseBinOpRHS folds operators binding at least as tightly as minPrec onto lhs.
// When the operator after an operand binds tighter than the one before it,
// that operand is first extended by a recursive call, so a+b*c groups as a+(b*c)
// while a-b-c groups as (a-b)-c.
func (p *Parser) ParseBinOpRHS(minPrec int, lhs ast.Expr) (ast.Expr, error) {
	for {
		prec := p.prec.Of(p.current)
		if prec < minPrec {
			return lhs, nil
		}

		op := p.current
		p.Advance()

		rhs, err := p.ParsePrimary()
		if err != nil {
			return nil, err
		}

		if next := p.prec.Of(p.current); prec < next {
			rhs, err = p.ParseBinOpRHS(prec+1, rhs)
			if err != nil {
				return nil, err
			}
		}

		lhs = &ast.Binary{Where: op, Op: op.Symbol(), Left: lhs, Right: rhs}
	}
}

// prototype = IDENT "(" IDENT* ")" ;
func (p *Parser) ParsePrototype() (*ast.Prototype, error) {
	if p.current.Kind != token.IDENT {
		return nil, p.fail(ErrExpectedFunctionName)
	}
	name := p.current
	p.Advance()

	if !p.current.Is('(') {
		return nil, p.fail(ErrExpectedPrototypeOpen)
	}
	p.Advance()

	params := []string{}
	seen := map[string]bool{}
	for p.current.Kind == token.IDENT {
		param := p.current.Lexeme
		if p.uniqueParams && seen[param] {
			return nil, p.fail(ErrDuplicateParam)
		}
		seen[param] = true
		params = append(params, param)
		p.Advance()
	}

	if !p.current.Is(')') {
		return nil, p.fail(ErrExpectedPrototypeClose)
	}
	p.Advance()

	return &ast.Prototype{Where: name, Name: name.Lexeme, Params: params}, nil
}

// definition = "def" prototype expression ;
func (p *Parser) ParseDefinition() (*ast.Function, error) {
	p.Advance()
	proto, err := p.ParsePrototype()
	if err != nil {
		return nil, err
	}

	body, err := p.ParseExpression()
	if err != nil {
		return nil, err
	}

	return &ast.Function{Proto: proto, Body: body}, nil
}

// external = "extern" prototype ;
func (p *Parser) ParseExtern() (*ast.Extern, error) {
	keyword := p.current
	p.Advance()
	proto, err := p.ParsePrototype()
	if err != nil {
		return nil, err
	}

	return &ast.Extern{Where: keyword, Proto: proto}, nil
}

// toplevelExpr = expression ;
//
// The expression becomes the body of an anonymous function with no parameters.
func (p *Parser) ParseTopLevelExpression() (*ast.Function, error) {
	expr, err := p.ParseExpression()
	if err != nil {
		return nil, err
	}

	proto := &ast.Prototype{Where: expr.Base(), Name: "", Params: []string{}}

	return &ast.Function{Proto: proto, Body: expr}, nil
}
