package driver_test

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/takoeight0821/kaleido/ast"
	"github.com/takoeight0821/kaleido/driver"
	"github.com/takoeight0821/kaleido/lexer"
	"github.com/takoeight0821/kaleido/parser"
	"gopkg.in/yaml.v3"
)

func render(decls []ast.Decl) []string {
	out := make([]string, len(decls))
	for i, decl := range decls {
		out[i] = ast.Format(decl)
	}
	return out
}

func TestLoopRecoversBySkippingOneToken(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected []string
		errs     []error
	}{
		{
			name:     "prototype missing close paren",
			input:    "def foo( ; 1+2",
			expected: []string{"(1 + 2)"},
			errs:     []error{parser.ErrExpectedPrototypeClose},
		},
		{
			name:     "missing function name",
			input:    "def 1 x",
			expected: []string{"x"},
			errs:     []error{parser.ErrExpectedFunctionName},
		},
		{
			name:     "unterminated prototype at end",
			input:    "def foo(",
			expected: nil,
			errs:     []error{parser.ErrExpectedPrototypeClose},
		},
		{
			name:     "stray close paren",
			input:    ") extern f()",
			expected: []string{"extern f()"},
			errs:     []error{parser.ErrUnknownToken},
		},
		{
			name:     "semicolons only",
			input:    ";;;",
			expected: nil,
		},
		{
			name:     "failure cascade",
			input:    "f(a b) ; (c",
			expected: nil,
			errs:     []error{parser.ErrExpectedArgListDelimiter, parser.ErrUnknownToken, parser.ErrExpectedCloseParen},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var c driver.Collector
			var reported []error
			r := driver.NewPassRunner(nil)
			r.AddPass(&c)
			r.OnError = func(err error) { reported = append(reported, err) }

			err := r.Loop(context.Background(), parser.FromString(tt.input))
			require.NoError(t, err)
			assert.Equal(t, tt.expected, nilIfEmpty(render(c.Decls)))
			require.Len(t, reported, len(tt.errs))
			for i, want := range tt.errs {
				assert.ErrorIs(t, reported[i], want)
			}
		})
	}
}

func nilIfEmpty(s []string) []string {
	if len(s) == 0 {
		return nil
	}
	return s
}

func TestLoopJoinsDiagnosticsWithoutOnError(t *testing.T) {
	decls, err := driver.ParseAll("def 1 x ; (y")
	require.Error(t, err)
	assert.ErrorIs(t, err, parser.ErrExpectedFunctionName)
	assert.ErrorIs(t, err, parser.ErrExpectedCloseParen)
	assert.Equal(t, []string{"x"}, render(decls))
}

func TestLoopStopsWhenCanceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	var c driver.Collector
	r := driver.NewPassRunner(nil)
	r.AddPass(&c)
	err := r.Loop(ctx, parser.FromString("1; 2; 3"))
	assert.ErrorIs(t, err, context.Canceled)
	assert.Empty(t, c.Decls)
}

type failingReader struct{ err error }

func (f failingReader) Read([]byte) (int, error) { return 0, f.err }

func TestLoopReportsReadErrors(t *testing.T) {
	failure := errors.New("connection reset")
	p := parser.NewParser(lexer.New(lexer.NewReaderSource(failingReader{failure})))
	err := driver.NewPassRunner(nil).Loop(context.Background(), p)
	assert.ErrorIs(t, err, failure)
}

type rejectExterns struct{}

var errNoExterns = errors.New("externs are not allowed")

func (rejectExterns) Run(decl ast.Decl) (ast.Decl, error) {
	if _, ok := decl.(*ast.Extern); ok {
		return decl, errNoExterns
	}
	return decl, nil
}

func TestPassErrorsStopLaterPasses(t *testing.T) {
	var c driver.Collector
	r := driver.NewPassRunner(nil)
	r.AddPass(rejectExterns{})
	r.AddPass(&c)

	err := r.Loop(context.Background(), parser.FromString("extern sin(x) sin(1)"))
	assert.ErrorIs(t, err, errNoExterns)
	assert.Equal(t, []string{"sin(1)"}, render(c.Decls))
}

func TestPrinter(t *testing.T) {
	const input = "def f(x) x+1 extern g() f(2)"

	tests := []struct {
		format   driver.Format
		expected string
	}{
		{driver.FormatSummary, "Parsed a function definition.\nParsed an extern.\nParsed a top-level expression.\n"},
		{driver.FormatSexpr, "(def (proto f (x)) (binary + (var x) (number 1)))\n(extern (proto g ()))\n(def (proto ()) (call f (number 2)))\n"},
		{driver.FormatSource, "def f(x) (x + 1)\nextern g()\nf(2)\n"},
	}

	for _, tt := range tests {
		t.Run(string(tt.format), func(t *testing.T) {
			var out bytes.Buffer
			r := driver.NewPassRunner(nil)
			r.AddPass(driver.Printer{W: &out, Format: tt.format})
			require.NoError(t, r.Loop(context.Background(), parser.FromString(input)))
			assert.Equal(t, tt.expected, out.String())
		})
	}
}

func TestPrinterYAML(t *testing.T) {
	var out bytes.Buffer
	r := driver.NewPassRunner(nil)
	r.AddPass(driver.Printer{W: &out, Format: driver.FormatYAML})
	require.NoError(t, r.Loop(context.Background(), parser.FromString("extern g(a) 1")))

	dec := yaml.NewDecoder(&out)
	var docs []map[string]any
	for {
		var doc map[string]any
		if err := dec.Decode(&doc); err != nil {
			break
		}
		docs = append(docs, doc)
	}
	require.Len(t, docs, 2)
	assert.Contains(t, docs[0], "extern")
	assert.Contains(t, docs[1], "def")
}

func TestPrinterRejectsUnknownFormat(t *testing.T) {
	_, err := driver.Printer{W: &bytes.Buffer{}, Format: "xml"}.Run(&ast.Extern{Proto: &ast.Prototype{Name: "f"}})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "xml")
	assert.False(t, driver.Format("xml").Valid())
}

func TestParamLint(t *testing.T) {
	var logs bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&logs, nil))

	r := driver.NewPassRunner(nil)
	r.AddPass(driver.ParamLint{Logger: logger})
	require.NoError(t, r.Loop(context.Background(), parser.FromString("def f(a b a b a) a extern g(x y)")))

	lines := strings.Split(strings.TrimSpace(logs.String()), "\n")
	require.Len(t, lines, 2)
	assert.Contains(t, lines[0], "duplicate parameter")
	assert.Contains(t, lines[0], "param=a")
	assert.Contains(t, lines[1], "param=b")
	assert.Contains(t, lines[1], "function=f")
}

func TestDuplicates(t *testing.T) {
	assert.Equal(t, []string{"b", "a"}, driver.Duplicates([]string{"a", "b", "b", "a", "a"}))
	assert.Empty(t, driver.Duplicates([]string{"x", "y"}))
	assert.Empty(t, driver.Duplicates(nil))
}

func TestDebugLogging(t *testing.T) {
	var logs bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&logs, &slog.HandlerOptions{Level: slog.LevelDebug}))

	r := driver.NewPassRunner(logger)
	r.OnError = func(error) {}
	require.NoError(t, r.Loop(context.Background(), parser.FromString("a+b ) ")))

	assert.Contains(t, logs.String(), `kind="top-level expression" nodes=5`)
	assert.Contains(t, logs.String(), "skipping token for error recovery")
}
