package ast

import (
	"fmt"
)

// Repr interprets each node kind into some T. Fold drives it bottom-up.
type Repr[T any] interface {
	Number(value float64) T
	Variable(name string) T
	Binary(op rune, left T, right T) T
	Call(callee string, args []T) T
	Prototype(name string, params []string) T
	Function(proto T, body T) T
	Extern(proto T) T
}

// Fold applies r to n and every descendant of n, children first.
func Fold[T any](n Node, r Repr[T]) T {
	switch n := n.(type) {
	case *Number:
		return r.Number(n.Value)
	case *Variable:
		return r.Variable(n.Name)
	case *Binary:
		return r.Binary(n.Op, Fold(n.Left, r), Fold(n.Right, r))
	case *Call:
		args := make([]T, len(n.Args))
		for i, arg := range n.Args {
			args[i] = Fold(arg, r)
		}
		return r.Call(n.Callee, args)
	case *Prototype:
		return r.Prototype(n.Name, n.Params)
	case *Function:
		return r.Function(Fold(n.Proto, r), Fold(n.Body, r))
	case *Extern:
		return r.Extern(Fold(n.Proto, r))
	}

	panic(fmt.Sprintf("unexpected node %T", n))
}

// Builder rebuilds nodes without positions.
type Builder struct{}

var _ Repr[Node] = Builder{}

func (Builder) Number(value float64) Node {
	return &Number{Value: value}
}

func (Builder) Variable(name string) Node {
	return &Variable{Name: name}
}

func (Builder) Binary(op rune, left Node, right Node) Node {
	return &Binary{Op: op, Left: left.(Expr), Right: right.(Expr)}
}

func (Builder) Call(callee string, args []Node) Node {
	exprs := make([]Expr, len(args))
	for i, arg := range args {
		exprs[i] = arg.(Expr)
	}
	return &Call{Callee: callee, Args: exprs}
}

func (Builder) Prototype(name string, params []string) Node {
	return &Prototype{Name: name, Params: append([]string{}, params...)}
}

func (Builder) Function(proto Node, body Node) Node {
	return &Function{Proto: proto.(*Prototype), Body: body.(Expr)}
}

func (Builder) Extern(proto Node) Node {
	return &Extern{Proto: proto.(*Prototype)}
}

// Strip returns a deep copy of n with every position cleared, so that trees
// parsed from differently laid out sources compare equal.
func Strip[N Node](n N) N {
	return Fold[Node](n, Builder{}).(N)
}

type sizeRepr struct{}

func (sizeRepr) Number(float64) int                 { return 1 }
func (sizeRepr) Variable(string) int                { return 1 }
func (sizeRepr) Binary(_ rune, left, right int) int { return 1 + left + right }
func (sizeRepr) Prototype(string, []string) int     { return 1 }
func (sizeRepr) Function(proto, body int) int       { return 1 + proto + body }
func (sizeRepr) Extern(proto int) int               { return 1 + proto }

func (sizeRepr) Call(_ string, args []int) int {
	n := 1
	for _, a := range args {
		n += a
	}
	return n
}

// Size counts n and its descendants.
func Size(n Node) int {
	return Fold[int](n, sizeRepr{})
}
