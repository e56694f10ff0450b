package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/takoeight0821/kaleido/config"
	"github.com/takoeight0821/kaleido/driver"
	"github.com/takoeight0821/kaleido/lexer"
	"github.com/takoeight0821/kaleido/parser"
)

const version = "0.1.0"

type app struct {
	cfgFile   string
	inputPath string

	cfg    *config.Config
	logger *slog.Logger
}

func newRootCmd() *cobra.Command {
	a := &app{}

	const inputUsage = "input file path"

	root := &cobra.Command{
		Use:   "kaleido",
		Short: "Parse Kaleidoscope source",
		Long: `kaleido reads Kaleidoscope definitions, extern declarations and
top-level expressions and prints their syntax trees.

Without arguments it starts an interactive prompt when stdin is a terminal,
and otherwise reads the whole of stdin.`,
		Version: version,
		Args:    cobra.NoArgs,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := config.Load(a.cfgFile, cmd.Flags())
			if err != nil {
				return err
			}
			a.cfg = cfg
			a.logger = cfg.Logger(cmd.ErrOrStderr())
			if cfg.File != "" {
				a.logger.Debug("loaded config", slog.String("file", cfg.File))
			}
			return nil
		},
		RunE: func(cmd *cobra.Command, _ []string) error {
			switch {
			case a.inputPath != "":
				return a.runFile(cmd, a.inputPath, driver.Format(a.cfg.Output))
			case term.IsTerminal(int(os.Stdin.Fd())):
				return a.runPrompt(cmd)
			default:
				return a.run(cmd, cmd.InOrStdin(), driver.Format(a.cfg.Output))
			}
		},
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.PersistentFlags().StringVar(&a.cfgFile, "config", "", "config file (default: $XDG_CONFIG_HOME/"+config.DefaultFile+")")
	root.PersistentFlags().StringP("output", "o", "", "output format (summary|sexpr|source|yaml)")
	root.PersistentFlags().String("log-level", "", "log level (debug|info|warn|error)")
	root.PersistentFlags().Bool("unique-params", false, "reject prototypes that repeat a parameter name")
	root.PersistentFlags().Bool("strict-numbers", false, "reject malformed number literals such as 1.2.3")
	root.Flags().StringVarP(&a.inputPath, "input", "i", "", inputUsage)
	root.Flags().String("history", "", "prompt history file")
	root.Flags().String("prompt", "", "prompt string")

	_ = root.RegisterFlagCompletionFunc("output", func(_ *cobra.Command, _ []string, _ string) ([]string, cobra.ShellCompDirective) {
		return []string{"summary", "sexpr", "source", "yaml"}, cobra.ShellCompDirectiveNoFileComp
	})

	root.AddCommand(a.newLexCmd(), a.newParseCmd(), a.newFmtCmd())

	return root
}

func (a *app) newLexCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "lex FILE",
		Short: "Print the token stream of FILE (- for stdin)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withInput(cmd, args[0], func(r io.Reader) error {
				tokens, err := lexer.LexReader(r)
				for _, tok := range tokens {
					fmt.Fprintln(cmd.OutOrStdout(), tok)
				}
				return err
			})
		},
	}
}

func (a *app) newParseCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "parse FILE",
		Short: "Print the syntax tree of each construct in FILE (- for stdin)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.runFile(cmd, args[0], driver.Format(a.cfg.Output))
		},
	}
}

func (a *app) newFmtCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "fmt FILE",
		Short: "Print FILE (- for stdin) in canonical form",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.runFile(cmd, args[0], driver.FormatSource)
		},
	}
}

func withInput(cmd *cobra.Command, path string, f func(io.Reader) error) error {
	if path == "-" {
		return f(cmd.InOrStdin())
	}
	file, err := os.Open(path)
	if err != nil {
		return err
	}
	defer file.Close()

	return f(file)
}

func (a *app) runFile(cmd *cobra.Command, path string, format driver.Format) error {
	return withInput(cmd, path, func(r io.Reader) error {
		return a.run(cmd, r, format)
	})
}

// ErrSyntax is returned after all input was read if any construct failed to parse.
var ErrSyntax = errors.New("syntax errors")

func (a *app) run(cmd *cobra.Command, r io.Reader, format driver.Format) error {
	failed := 0
	runner := a.newRunner(cmd.OutOrStdout(), format)
	runner.OnError = func(err error) {
		failed++
		fmt.Fprintf(cmd.ErrOrStderr(), "Error: %v\n", err)
	}

	p := parser.NewParser(lexer.New(lexer.NewReaderSource(r)), a.cfg.ParserOptions()...)
	if err := runner.Loop(cmd.Context(), p); err != nil {
		return err
	}
	if failed > 0 {
		return fmt.Errorf("%d %w", failed, ErrSyntax)
	}

	return nil
}

func (a *app) newRunner(w io.Writer, format driver.Format) *driver.PassRunner {
	runner := driver.NewPassRunner(a.logger)
	if !a.cfg.UniqueParams {
		runner.AddPass(driver.ParamLint{Logger: a.logger})
	}
	runner.AddPass(driver.Printer{W: w, Format: format})

	return runner
}

func (a *app) runPrompt(cmd *cobra.Command) error {
	source := openPrompt(a.cfg.Prompt, a.cfg.History, a.logger)
	defer func() {
		if err := source.Close(); err != nil {
			a.logger.Warn("failed to save history", slog.String("file", a.cfg.History), slog.Any("error", err))
		}
	}()

	runner := a.newRunner(cmd.OutOrStdout(), driver.Format(a.cfg.Output))
	runner.OnError = func(err error) {
		fmt.Fprintf(cmd.ErrOrStderr(), "Error: %v\n", err)
	}

	p := parser.NewParser(lexer.New(source), a.cfg.ParserOptions()...)
	err := runner.Loop(cmd.Context(), p)
	if errors.Is(err, context.Canceled) {
		return nil
	}

	return err
}
