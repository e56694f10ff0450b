// Package lexer turns a stream of characters into tokens, one token per call.
package lexer

import (
	"errors"
	"io"
	"strconv"
	"strings"
	"unicode"

	"github.com/takoeight0821/kaleido/token"
)

type Lexer struct {
	source Source

	last   rune // last character read but not yet consumed
	line   int  // position of last
	column int

	nextLine   int
	nextColumn int
}

func New(source Source) *Lexer {
	return &Lexer{
		source:     source,
		last:       ' ',
		nextLine:   1,
		nextColumn: 1,
	}
}

// Err returns the error that ended the underlying source, if any.
func (l *Lexer) Err() error {
	if s, ok := l.source.(interface{ Err() error }); ok {
		return s.Err()
	}

	return nil
}

func (l *Lexer) read() {
	l.last = l.source.NextChar()
	l.line, l.column = l.nextLine, l.nextColumn
	switch l.last {
	case EOF:
	case '\n':
		l.nextLine++
		l.nextColumn = 1
	default:
		l.nextColumn++
	}
}

// NextToken consumes characters up to the end of the next token.
// It never fails: characters that start no other token become SYMBOL tokens.
func (l *Lexer) NextToken() token.Token {
	for isSpace(l.last) {
		l.read()
	}

	line, column := l.line, l.column
	tok := func(kind token.Kind, lexeme string, literal any) token.Token {
		return token.Token{Kind: kind, Lexeme: lexeme, Line: line, Column: column, Literal: literal}
	}

	switch {
	case isAlpha(l.last):
		var b strings.Builder
		for isAlpha(l.last) || isDigit(l.last) {
			b.WriteRune(l.last)
			l.read()
		}
		ident := b.String()
		if k, ok := keywords[ident]; ok {
			return tok(k, ident, nil)
		}

		return tok(token.IDENT, ident, nil)
	case isDigit(l.last):
		var b strings.Builder
		for isDigit(l.last) || l.last == '.' {
			b.WriteRune(l.last)
			l.read()
		}
		text := b.String()

		return tok(token.NUMBER, text, parseNumber(text))
	case l.last == EOF:
		return tok(token.EOF, "", nil)
	}

	c := l.last
	l.read()

	return tok(token.SYMBOL, string(c), c)
}

var keywords = map[string]token.Kind{
	"def":    token.DEF,
	"extern": token.EXTERN,
}

// parseNumber converts the longest valid prefix of text, so "1.2.3" is 1.2.
func parseNumber(text string) float64 {
	if i := strings.IndexByte(text, '.'); i >= 0 {
		if j := strings.IndexByte(text[i+1:], '.'); j >= 0 {
			text = text[:i+1+j]
		}
	}
	// Out-of-range literals still yield ±Inf here.
	value, _ := strconv.ParseFloat(text, 64)

	return value
}

// ValidNumber reports whether a NUMBER lexeme is a well-formed literal.
func ValidNumber(lexeme string) bool {
	_, err := strconv.ParseFloat(lexeme, 64)
	return err == nil || errors.Is(err, strconv.ErrRange)
}

func isSpace(c rune) bool {
	return c == ' ' || c == '\t' || c == '\n' || c == '\r'
}

func isAlpha(c rune) bool {
	return c != EOF && unicode.IsLetter(c)
}

func isDigit(c rune) bool {
	return c >= '0' && c <= '9'
}

// Lex collects every token of source, ending with EOF.
func Lex(source string) []token.Token {
	tokens, _ := LexReader(strings.NewReader(source))
	return tokens
}

// LexReader collects every token of r, ending with EOF.
func LexReader(r io.Reader) ([]token.Token, error) {
	lexer := New(NewReaderSource(r))
	tokens := []token.Token{}
	for {
		t := lexer.NextToken()
		tokens = append(tokens, t)
		if t.Kind == token.EOF {
			return tokens, lexer.Err()
		}
	}
}
