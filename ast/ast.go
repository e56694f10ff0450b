package ast

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/takoeight0821/kaleido/token"
)

// AST

// Node is implemented only by the node kinds of this package.
type Node interface {
	fmt.Stringer
	// Base returns the token a diagnostic about the node should point at.
	Base() token.Token
	node()
}

// Expr is one of *Number, *Variable, *Binary or *Call.
type Expr interface {
	Node
	expr()
}

// Decl is a top-level construct: *Function or *Extern.
type Decl interface {
	Node
	decl()
}

// Where fields record source positions. They take no part in the structure of a tree.

type Number struct {
	Where token.Token
	Value float64
}

func (n Number) String() string {
	return parenthesize("number", atom(formatNumber(n.Value))).String()
}

func (n *Number) Base() token.Token {
	return n.Where
}

func (*Number) node() {}
func (*Number) expr() {}

var _ Expr = &Number{}

type Variable struct {
	Where token.Token
	Name  string
}

func (v Variable) String() string {
	return parenthesize("var", atom(v.Name)).String()
}

func (v *Variable) Base() token.Token {
	return v.Where
}

func (*Variable) node() {}
func (*Variable) expr() {}

var _ Expr = &Variable{}

// Binary always has both operands.
type Binary struct {
	Where token.Token
	Op    rune
	Left  Expr
	Right Expr
}

func (b Binary) String() string {
	return parenthesize("binary", atom(string(b.Op)), b.Left, b.Right).String()
}

func (b *Binary) Base() token.Token {
	return b.Where
}

func (*Binary) node() {}
func (*Binary) expr() {}

var _ Expr = &Binary{}

type Call struct {
	Where  token.Token
	Callee string
	Args   []Expr
}

func (c Call) String() string {
	return parenthesize("call", atom(c.Callee), concat(c.Args)).String()
}

func (c *Call) Base() token.Token {
	return c.Where
}

func (*Call) node() {}
func (*Call) expr() {}

var _ Expr = &Call{}

// Prototype is a function signature. An empty Name marks the anonymous
// wrapper around a top-level expression.
type Prototype struct {
	Where  token.Token
	Name   string
	Params []string
}

func (p Prototype) String() string {
	params := make([]atom, len(p.Params))
	for i, param := range p.Params {
		params[i] = atom(param)
	}

	return parenthesize("proto", atom(p.Name), parenthesize("", concat(params))).String()
}

func (p *Prototype) Base() token.Token {
	return p.Where
}

func (p *Prototype) Anonymous() bool {
	return p.Name == ""
}

func (*Prototype) node() {}

var _ Node = &Prototype{}

type Function struct {
	Proto *Prototype
	Body  Expr
}

func (f Function) String() string {
	return parenthesize("def", f.Proto, f.Body).String()
}

func (f *Function) Base() token.Token {
	if f.Proto.Anonymous() {
		return f.Body.Base()
	}
	return f.Proto.Base()
}

func (*Function) node() {}
func (*Function) decl() {}

var _ Decl = &Function{}

type Extern struct {
	Where token.Token
	Proto *Prototype
}

func (e Extern) String() string {
	return parenthesize("extern", e.Proto).String()
}

func (e *Extern) Base() token.Token {
	return e.Where
}

func (*Extern) node() {}
func (*Extern) decl() {}

var _ Decl = &Extern{}

type atom string

func (a atom) String() string {
	return string(a)
}

// overflow is the shortest digit run that reads back as +Inf.
var overflow = "1" + strings.Repeat("0", 309)

func formatNumber(v float64) string {
	// Literals have no sign, so +Inf is the only infinity a tree can hold.
	if math.IsInf(v, 1) {
		return overflow
	}
	return strconv.FormatFloat(v, 'f', -1, 64)
}

// parenthesize returns "(head elems...)", separating the non-empty parts by a space.
func parenthesize(head string, elems ...fmt.Stringer) fmt.Stringer {
	var b strings.Builder
	b.WriteString("(")
	b.WriteString(head)
	if rest := concat(elems).String(); rest != "" {
		if head != "" {
			b.WriteString(" ")
		}
		b.WriteString(rest)
	}
	b.WriteString(")")
	return &b
}

// concat joins the string forms of elems with a space, skipping empty ones.
// e.g. concat({}) == ""
func concat[T fmt.Stringer](elems []T) fmt.Stringer {
	var b strings.Builder
	for _, elem := range elems {
		str := elem.String()
		if str == "" {
			continue
		}
		if b.Len() != 0 {
			b.WriteString(" ")
		}
		b.WriteString(str)
	}
	return &b
}
