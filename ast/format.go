package ast

import (
	"strings"
)

type sourceRepr struct{}

func (sourceRepr) Number(value float64) string {
	return formatNumber(value)
}

func (sourceRepr) Variable(name string) string {
	return name
}

func (sourceRepr) Binary(op rune, left string, right string) string {
	return "(" + left + " " + string(op) + " " + right + ")"
}

func (sourceRepr) Call(callee string, args []string) string {
	return callee + "(" + strings.Join(args, ", ") + ")"
}

func (sourceRepr) Prototype(name string, params []string) string {
	if name == "" && len(params) == 0 {
		return ""
	}
	return name + "(" + strings.Join(params, " ") + ")"
}

func (sourceRepr) Function(proto string, body string) string {
	if proto == "" {
		return body
	}
	return "def " + proto + " " + body
}

func (sourceRepr) Extern(proto string) string {
	return "extern " + proto
}

// Format renders n as source text that parses back to the same tree.
// Every binary expression is parenthesized, and an anonymous function is
// rendered as its bare body.
func Format(n Node) string {
	return Fold[string](n, sourceRepr{})
}
