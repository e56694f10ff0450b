package infix_test

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/takoeight0821/kaleido/infix"
	"github.com/takoeight0821/kaleido/token"
)

func sym(c rune) token.Token {
	return token.Token{Kind: token.SYMBOL, Lexeme: string(c), Literal: c}
}

func TestOf(t *testing.T) {
	t.Parallel()
	table := infix.Default()

	testcases := []struct {
		label    string
		tok      token.Token
		expected int
	}{
		{"plus", sym('+'), 20},
		{"star", sym('*'), 40},
		{"less", sym('<'), 10},
		{"undeclared symbol", sym('%'), infix.None},
		{"paren", sym('('), infix.None},
		{"identifier", token.Token{Kind: token.IDENT, Lexeme: "a"}, infix.None},
		{"eof", token.Token{Kind: token.EOF}, infix.None},
	}

	for _, tc := range testcases {
		if actual := table.Of(tc.tok); actual != tc.expected {
			t.Errorf("%s: Of returned %d, expected %d", tc.label, actual, tc.expected)
		}
	}
}

func TestNonPositiveIsNotAnOperator(t *testing.T) {
	t.Parallel()
	table := infix.Table{'%': 0}
	if prec := table.Of(sym('%')); prec != infix.None {
		t.Errorf("Of returned %d for zero precedence", prec)
	}
}

func TestFromMap(t *testing.T) {
	t.Parallel()
	table, err := infix.FromMap(map[string]int{"+": 20, "^": 60})
	if err != nil {
		t.Fatalf("FromMap returned error: %v", err)
	}
	if diff := cmp.Diff(infix.Table{'+': 20, '^': 60}, table); diff != "" {
		t.Errorf("FromMap mismatch (-want +got):\n%s", diff)
	}
}

func TestFromMapRejects(t *testing.T) {
	t.Parallel()
	for _, m := range []map[string]int{
		{"++": 10},
		{"": 10},
		{"+": 0},
		{"-": -5},
		{"x": 10},
		{"7": 10},
		{"(": 10},
		{",": 10},
	} {
		_, err := infix.FromMap(m)
		var invalid infix.InvalidOperatorError
		if !errors.As(err, &invalid) {
			t.Errorf("FromMap(%v) returned %v, expected InvalidOperatorError", m, err)
		}
	}
}

func TestString(t *testing.T) {
	t.Parallel()
	if diff := cmp.Diff("<:10 +:20 -:20 *:40 /:40", infix.Default().String()); diff != "" {
		t.Errorf("String mismatch (-want +got):\n%s", diff)
	}
}

func TestCloneIsIndependent(t *testing.T) {
	t.Parallel()
	base := infix.Default()
	clone := base.Clone()
	if err := clone.Add('%', 40); err != nil {
		t.Fatal(err)
	}
	if _, ok := base['%']; ok {
		t.Errorf("Add on a clone changed the original table")
	}
}
