// Package driver reads top-level constructs one at a time and hands them to passes.
package driver

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/takoeight0821/kaleido/ast"
	"github.com/takoeight0821/kaleido/parser"
	"github.com/takoeight0821/kaleido/token"
)

// Pass receives every successfully parsed top-level construct.
type Pass interface {
	Run(ast.Decl) (ast.Decl, error)
}

type PassRunner struct {
	passes []Pass
	logger *slog.Logger

	// OnError receives each diagnostic as soon as it occurs.
	// When nil, diagnostics are returned together from Loop.
	OnError func(error)
}

func NewPassRunner(logger *slog.Logger) *PassRunner {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &PassRunner{logger: logger}
}

// AddPass adds a pass to the end of the pass list.
func (r *PassRunner) AddPass(pass Pass) {
	r.passes = append(r.passes, pass)
}

// Run executes passes in order.
// If an error occurs, it stops the execution and returns the current decl.
func (r *PassRunner) Run(decl ast.Decl) (ast.Decl, error) {
	for _, pass := range r.passes {
		var err error
		decl, err = pass.Run(decl)
		if err != nil {
			return decl, fmt.Errorf("run: %w", err)
		}
	}

	return decl, nil
}

// Loop parses top-level constructs until the end of input.
//
//	top = definition | external | ";" | toplevelExpr ;
//
// After a syntax error exactly one token is skipped and parsing resumes.
// Loop returns early only when ctx is done.
func (r *PassRunner) Loop(ctx context.Context, p *parser.Parser) error {
	var errs []error
	report := func(err error) {
		if r.OnError != nil {
			r.OnError(err)
			return
		}
		errs = append(errs, err)
	}

	for {
		if err := ctx.Err(); err != nil {
			return errors.Join(append(errs, err)...)
		}

		var (
			decl ast.Decl
			err  error
		)
		tok := p.Current()
		//exhaustive:ignore
		switch tok.Kind {
		case token.EOF:
			if err := p.Err(); err != nil {
				errs = append(errs, fmt.Errorf("read: %w", err))
			}
			return errors.Join(errs...)
		case token.DEF:
			decl, err = p.ParseDefinition()
		case token.EXTERN:
			decl, err = p.ParseExtern()
		default:
			if tok.Is(';') {
				p.Advance()
				continue
			}
			decl, err = p.ParseTopLevelExpression()
		}

		if err != nil {
			r.logger.Debug("skipping token for error recovery", slog.String("token", p.Current().Pretty()), slog.Any("error", err))
			report(err)
			p.Advance()
			continue
		}

		r.logger.Debug("parsed", slog.String("kind", Describe(decl)), slog.Int("nodes", ast.Size(decl)))
		if _, err := r.Run(decl); err != nil {
			report(err)
		}
	}
}

// Describe names the kind of a top-level construct.
func Describe(decl ast.Decl) string {
	switch decl := decl.(type) {
	case *ast.Function:
		if decl.Proto.Anonymous() {
			return "top-level expression"
		}
		return "function definition"
	case *ast.Extern:
		return "extern"
	}

	panic(fmt.Sprintf("unexpected decl %T", decl))
}

// ParseAll parses every top-level construct of source.
func ParseAll(source string, opts ...parser.Option) ([]ast.Decl, error) {
	var c Collector
	r := NewPassRunner(nil)
	r.AddPass(&c)
	err := r.Loop(context.Background(), parser.FromString(source, opts...))

	return c.Decls, err
}

// Summary is the one-line report printed for a construct in summary mode.
func Summary(decl ast.Decl) string {
	if _, ok := decl.(*ast.Extern); ok {
		return "Parsed an extern."
	}
	return "Parsed a " + Describe(decl) + "."
}
