// Package config loads settings from defaults, a YAML file, the environment and flags.
package config

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"path/filepath"
	"strings"

	"github.com/adrg/xdg"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/confmap"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/posflag"
	"github.com/knadh/koanf/v2"
	"github.com/spf13/pflag"

	"github.com/takoeight0821/kaleido/driver"
	"github.com/takoeight0821/kaleido/infix"
	"github.com/takoeight0821/kaleido/parser"
)

const (
	appName   = "kaleido"
	envPrefix = "KALEIDO_"

	DefaultOutput   = string(driver.FormatSexpr)
	DefaultLogLevel = "warn"
	DefaultPrompt   = "ready> "
)

// DefaultFile is where the config file is looked up when none is given,
// relative to the XDG config directories.
var DefaultFile = filepath.Join(appName, "config.yaml")

type Config struct {
	// Precedence adds to or overrides the default operator table.
	// A precedence of 0 removes the operator.
	Precedence    map[string]int `koanf:"precedence"`
	UniqueParams  bool           `koanf:"unique_params"`
	StrictNumbers bool           `koanf:"strict_numbers"`
	Output        string         `koanf:"output"`
	LogLevel      string         `koanf:"log_level"`
	History       string         `koanf:"history"`
	Prompt        string         `koanf:"prompt"`

	// File is the config file that was read, if any.
	File string `koanf:"-"`
}

func defaults() map[string]any {
	prec := map[string]any{}
	for op, p := range infix.Default() {
		prec[string(op)] = p
	}

	return map[string]any{
		"precedence":     prec,
		"unique_params":  false,
		"strict_numbers": false,
		"output":         DefaultOutput,
		"log_level":      DefaultLogLevel,
		"history":        filepath.Join(xdg.DataHome, appName, "history"),
		"prompt":         DefaultPrompt,
	}
}

// Load reads configuration. Later sources win: defaults, the YAML file at path
// (or the XDG config file when path is empty), KALEIDO_* variables, then flags
// that were set explicitly.
func Load(path string, flags *pflag.FlagSet) (*Config, error) {
	k := koanf.New(".")

	if err := k.Load(confmap.Provider(defaults(), "."), nil); err != nil {
		return nil, fmt.Errorf("failed to load defaults: %w", err)
	}

	if path == "" {
		if found, err := xdg.SearchConfigFile(DefaultFile); err == nil {
			path = found
		}
	}
	if path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("error reading config file %s: %w", path, err)
		}
	}

	// KALEIDO_LOG_LEVEL -> log_level
	if err := k.Load(env.Provider(envPrefix, ".", func(s string) string {
		return strings.ToLower(strings.TrimPrefix(s, envPrefix))
	}), nil); err != nil {
		return nil, fmt.Errorf("failed to load env vars: %w", err)
	}

	if flags != nil {
		if err := k.Load(posflag.ProviderWithFlag(flags, ".", k, func(f *pflag.Flag) (string, any) {
			if !f.Changed {
				return "", nil
			}
			return strings.ReplaceAll(f.Name, "-", "_"), posflag.FlagVal(flags, f)
		}), nil); err != nil {
			return nil, fmt.Errorf("failed to load flags: %w", err)
		}
	}

	var cfg Config
	if err := k.Unmarshal("", &cfg); err != nil {
		return nil, fmt.Errorf("unable to decode config: %w", err)
	}
	cfg.File = path

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

func (c *Config) Validate() error {
	var errs []error
	if !driver.Format(c.Output).Valid() {
		errs = append(errs, fmt.Errorf("output: unknown format %q", c.Output))
	}
	if _, err := c.Level(); err != nil {
		errs = append(errs, fmt.Errorf("log_level: %w", err))
	}
	if _, err := c.Table(); err != nil {
		errs = append(errs, fmt.Errorf("precedence: %w", err))
	}

	return errors.Join(errs...)
}

// Table returns the operator table, leaving out operators set to 0.
func (c *Config) Table() (infix.Table, error) {
	m := make(map[string]int, len(c.Precedence))
	for op, prec := range c.Precedence {
		if prec != 0 {
			m[op] = prec
		}
	}

	return infix.FromMap(m)
}

func (c *Config) Level() (slog.Level, error) {
	var level slog.Level
	err := level.UnmarshalText([]byte(c.LogLevel))
	return level, err
}

// ParserOptions assumes c has been validated.
func (c *Config) ParserOptions() []parser.Option {
	table, _ := c.Table()
	return []parser.Option{
		parser.WithPrecedence(table),
		parser.UniqueParams(c.UniqueParams),
		parser.StrictNumbers(c.StrictNumbers),
	}
}

// Logger returns a text logger writing to w at the configured level.
func (c *Config) Logger(w io.Writer) *slog.Logger {
	level, _ := c.Level()
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level}))
}
