package main

import (
	"errors"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/peterh/liner"

	"github.com/takoeight0821/kaleido/lexer"
)

// promptSource is a lexer.Source that asks for a new line whenever the
// previous one has been consumed. Ctrl-D or Ctrl-C ends the input.
type promptSource struct {
	line    *liner.State
	prompt  string
	history string
	logger  *slog.Logger

	buf []rune
	off int

	done bool
	err  error
}

var _ lexer.Source = &promptSource{}

func openPrompt(prompt, history string, logger *slog.Logger) *promptSource {
	line := liner.NewLiner()
	line.SetCtrlCAborts(true)

	s := &promptSource{line: line, prompt: prompt, history: history, logger: logger}
	if f, err := os.Open(history); err == nil {
		defer f.Close()
		if _, err := line.ReadHistory(f); err != nil {
			logger.Warn("failed to read history", slog.String("file", history), slog.Any("error", err))
		}
	}

	return s
}

func (s *promptSource) NextChar() rune {
	for s.off >= len(s.buf) {
		if s.done {
			return lexer.EOF
		}
		input, err := s.line.Prompt(s.prompt)
		if err != nil {
			s.done = true
			if !errors.Is(err, io.EOF) && !errors.Is(err, liner.ErrPromptAborted) {
				s.err = err
			}
			return lexer.EOF
		}
		if input != "" {
			s.line.AppendHistory(input)
		}
		s.buf = []rune(input + "\n")
		s.off = 0
	}

	r := s.buf[s.off]
	s.off++

	return r
}

func (s *promptSource) Err() error {
	return s.err
}

// Close saves the history and restores the terminal.
func (s *promptSource) Close() error {
	defer s.line.Close()

	if err := os.MkdirAll(filepath.Dir(s.history), os.ModePerm); err != nil {
		return err
	}
	f, err := os.Create(s.history)
	if err != nil {
		return err
	}
	defer f.Close()

	_, err = s.line.WriteHistory(f)
	return err
}
