// Package infix holds the binary operator precedence table used by the parser.
package infix

import (
	"fmt"
	"slices"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/takoeight0821/kaleido/token"
)

// Table maps single-character binary operators to a positive precedence.
// Higher binds tighter.
type Table map[rune]int

// None is the precedence of anything that is not a binary operator.
const None = -1

func Default() Table {
	return Table{
		'<': 10,
		'+': 20,
		'-': 20,
		'*': 40,
		'/': 40,
	}
}

// Of returns the precedence of tok, or None if tok is not a declared operator.
func (t Table) Of(tok token.Token) int {
	if tok.Kind != token.SYMBOL {
		return None
	}
	prec, ok := t[tok.Symbol()]
	if !ok || prec <= 0 {
		return None
	}

	return prec
}

func (t Table) Clone() Table {
	c := make(Table, len(t))
	for op, prec := range t {
		c[op] = prec
	}

	return c
}

// Add declares op with the given precedence, replacing any earlier declaration.
func (t Table) Add(op rune, prec int) error {
	if err := check(op, prec); err != nil {
		return err
	}
	t[op] = prec

	return nil
}

func (t Table) String() string {
	ops := make([]rune, 0, len(t))
	for op := range t {
		ops = append(ops, op)
	}
	slices.SortFunc(ops, func(a, b rune) int {
		if t[a] != t[b] {
			return t[a] - t[b]
		}
		return int(a - b)
	})

	var b strings.Builder
	for i, op := range ops {
		if i != 0 {
			b.WriteString(" ")
		}
		fmt.Fprintf(&b, "%c:%d", op, t[op])
	}

	return b.String()
}

type InvalidOperatorError struct {
	Op     string
	Reason string
}

func (e InvalidOperatorError) Error() string {
	return fmt.Sprintf("invalid operator %q: %s", e.Op, e.Reason)
}

// FromMap builds a Table from string keys, as found in configuration files.
func FromMap(m map[string]int) (Table, error) {
	t := make(Table, len(m))
	for key, prec := range m {
		if utf8.RuneCountInString(key) != 1 {
			return nil, InvalidOperatorError{Op: key, Reason: "must be a single character"}
		}
		op, _ := utf8.DecodeRuneInString(key)
		if err := t.Add(op, prec); err != nil {
			return nil, err
		}
	}

	return t, nil
}

func check(op rune, prec int) error {
	switch {
	case prec <= 0:
		return InvalidOperatorError{Op: string(op), Reason: fmt.Sprintf("precedence %d is not positive", prec)}
	case unicode.IsLetter(op), unicode.IsDigit(op), unicode.IsSpace(op):
		return InvalidOperatorError{Op: string(op), Reason: "letters, digits and spaces cannot be operators"}
	case op == '(' || op == ')' || op == ',' || op == ';' || op == '.':
		return InvalidOperatorError{Op: string(op), Reason: "reserved by the grammar"}
	}

	return nil
}
