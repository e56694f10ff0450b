package lexer

import (
	"bufio"
	"errors"
	"io"
	"unicode/utf8"
)

// EOF is returned by a Source once it has no more characters.
const EOF rune = -1

// Source yields one character at a time.
type Source interface {
	NextChar() rune
}

type stringSource struct {
	source string
	offset int
}

func NewStringSource(source string) Source {
	return &stringSource{source: source}
}

func (s *stringSource) NextChar() rune {
	if s.offset >= len(s.source) {
		return EOF
	}
	r, width := utf8.DecodeRuneInString(s.source[s.offset:])
	s.offset += width

	return r
}

// ReaderSource reads characters from an io.Reader.
// A read error ends the stream; it is reported by Err.
type ReaderSource struct {
	reader *bufio.Reader
	err    error
	done   bool
}

func NewReaderSource(r io.Reader) *ReaderSource {
	return &ReaderSource{reader: bufio.NewReader(r)}
}

func (s *ReaderSource) NextChar() rune {
	if s.done {
		return EOF
	}
	r, _, err := s.reader.ReadRune()
	if err != nil {
		s.done = true
		if !errors.Is(err, io.EOF) {
			s.err = err
		}

		return EOF
	}

	return r
}

func (s *ReaderSource) Err() error {
	return s.err
}
