package driver

import (
	"fmt"
	"io"
	"log/slog"

	"github.com/takoeight0821/kaleido/ast"
)

// Collector keeps every construct it sees.
type Collector struct {
	Decls []ast.Decl
}

func (c *Collector) Run(decl ast.Decl) (ast.Decl, error) {
	c.Decls = append(c.Decls, decl)
	return decl, nil
}

type Format string

const (
	FormatSummary Format = "summary"
	FormatSexpr   Format = "sexpr"
	FormatSource  Format = "source"
	FormatYAML    Format = "yaml"
)

func (f Format) Valid() bool {
	switch f {
	case FormatSummary, FormatSexpr, FormatSource, FormatYAML:
		return true
	}
	return false
}

// Printer writes each construct to W in the chosen Format.
type Printer struct {
	W      io.Writer
	Format Format
}

func (p Printer) Run(decl ast.Decl) (ast.Decl, error) {
	var err error
	switch p.Format {
	case FormatSummary:
		_, err = fmt.Fprintln(p.W, Summary(decl))
	case FormatSexpr:
		_, err = fmt.Fprintln(p.W, decl)
	case FormatSource:
		_, err = fmt.Fprintln(p.W, ast.Format(decl))
	case FormatYAML:
		if _, err = fmt.Fprintln(p.W, "---"); err == nil {
			err = ast.EncodeYAML(p.W, decl)
		}
	default:
		err = fmt.Errorf("unknown output format %q", p.Format)
	}

	return decl, err
}

// ParamLint warns about prototypes that repeat a parameter name.
// The parser accepts them unless parser.UniqueParams is set.
type ParamLint struct {
	Logger *slog.Logger
}

func (l ParamLint) Run(decl ast.Decl) (ast.Decl, error) {
	var proto *ast.Prototype
	switch decl := decl.(type) {
	case *ast.Function:
		proto = decl.Proto
	case *ast.Extern:
		proto = decl.Proto
	}

	for _, name := range Duplicates(proto.Params) {
		l.Logger.Warn("duplicate parameter",
			slog.String("function", proto.Name),
			slog.String("param", name),
			slog.Int("line", proto.Where.Line))
	}

	return decl, nil
}

// Duplicates returns each name that occurs more than once, in order of its second occurrence.
func Duplicates(names []string) []string {
	seen := map[string]int{}
	var dups []string
	for _, name := range names {
		seen[name]++
		if seen[name] == 2 {
			dups = append(dups, name)
		}
	}
	return dups
}
