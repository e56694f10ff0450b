package token

import "fmt"

// Kind classifies a token.
//
//go:generate go run golang.org/x/tools/cmd/stringer@v0.13.0 -type=Kind
type Kind int

const (
	EOF Kind = iota

	// Keywords.
	DEF
	EXTERN

	// Primary.
	IDENT
	NUMBER

	// Any other single character.
	SYMBOL
)

// Token is one lexical unit and the 1-based position of its first character.
type Token struct {
	Kind    Kind
	Lexeme  string
	Line    int
	Column  int
	Literal any
}

// Is reports whether t is the symbol c.
func (t Token) Is(c rune) bool {
	return t.Kind == SYMBOL && t.Literal == c
}

// Number returns the value of a NUMBER token.
func (t Token) Number() float64 {
	v, _ := t.Literal.(float64)
	return v
}

// Symbol returns the character of a SYMBOL token, or 0 for any other kind.
func (t Token) Symbol() rune {
	c, _ := t.Literal.(rune)
	return c
}

func (t Token) Pretty() string {
	if t.Kind == EOF {
		return "end of input"
	}
	return t.Lexeme
}

func (t Token) String() string {
	if t.Kind == NUMBER {
		return fmt.Sprintf("{%v, %q, %d:%d, %v}", t.Kind, t.Lexeme, t.Line, t.Column, t.Literal)
	}
	return fmt.Sprintf("{%v, %q, %d:%d}", t.Kind, t.Lexeme, t.Line, t.Column)
}
