package parser

import (
	"errors"
	"fmt"

	"github.com/takoeight0821/kaleido/token"
)

// Diagnostics reported by the parser. A SyntaxError wraps exactly one of them.
var (
	ErrUnknownToken             = errors.New("unknown token when expecting an expression")
	ErrExpectedCloseParen       = errors.New("expected ')'")
	ErrExpectedArgListDelimiter = errors.New("Expected ')' or ',' in argument list")
	ErrExpectedFunctionName     = errors.New("Expected function name in prototype")
	ErrExpectedPrototypeOpen    = errors.New("Expected '(' in prototype")
	ErrExpectedPrototypeClose   = errors.New("Expected ')' in prototype")
	ErrDuplicateParam           = errors.New("Duplicate parameter name in prototype")
	ErrMalformedNumber          = errors.New("Malformed number literal")
)

// SyntaxError is the only kind of error the parser returns.
type SyntaxError struct {
	Where token.Token
	Err   error
}

func (e SyntaxError) Error() string {
	if e.Where.Kind == token.EOF {
		return fmt.Sprintf("at end: %s", e.Err.Error())
	}
	return fmt.Sprintf("at %d:%d: `%s`, %s", e.Where.Line, e.Where.Column, e.Where.Lexeme, e.Err.Error())
}

func (e SyntaxError) Unwrap() error {
	return e.Err
}

// Diagnostic returns the fixed message without position.
func (e SyntaxError) Diagnostic() string {
	return e.Err.Error()
}
