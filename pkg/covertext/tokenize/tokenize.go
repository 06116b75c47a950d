package tokenize

import (
	"bufio"
	"io"
	"strings"

	"github.com/cognicore/covertext/pkg/covertext/wordlist"
)

// DefaultChunkSize is the token count per chunk used when none is given.
// Chunk size is a memory/throughput knob only; results are identical for
// any chunking of the same input.
const DefaultChunkSize = 50000

// Tokenizer normalizes raw text into lowercase letter-only tokens.
// An optional word list restricts output to known words.
type Tokenizer struct {
	valid *wordlist.Set
}

// New creates a tokenizer. valid may be nil to accept every token.
func New(valid *wordlist.Set) *Tokenizer {
	return &Tokenizer{valid: valid}
}

// Tokenize splits text into normalized tokens: ASCII letters
// lowercased, every other rune treated as a separator, word-list
// filtered when a list is set. Restricting to a-z keeps every emitted
// token inside the alphabet the compiled artifact is validated
// against.
func (t *Tokenizer) Tokenize(text string) []string {
	var tokens []string
	var current strings.Builder

	for _, r := range text {
		switch {
		case r >= 'a' && r <= 'z':
			current.WriteByte(byte(r))
		case r >= 'A' && r <= 'Z':
			current.WriteByte(byte(r - 'A' + 'a'))
		default:
			if current.Len() > 0 {
				if word := t.accept(current.String()); word != "" {
					tokens = append(tokens, word)
				}
				current.Reset()
			}
		}
	}

	// Don't forget the last token
	if current.Len() > 0 {
		if word := t.accept(current.String()); word != "" {
			tokens = append(tokens, word)
		}
	}

	return tokens
}

func (t *Tokenizer) accept(word string) string {
	if t.valid != nil && !t.valid.Contains(word) {
		return ""
	}
	return word
}

// Scanner reads a corpus incrementally and yields tokens in chunks of
// roughly chunkSize. Tokens preserve corpus order within and across
// chunks; the chunk boundary carries no meaning beyond memory size.
type Scanner struct {
	tok       *Tokenizer
	lines     *bufio.Scanner
	chunkSize int
	buf       []string
	done      bool
}

// NewScanner creates a chunked token scanner over r. chunkSize <= 0
// selects DefaultChunkSize.
func NewScanner(r io.Reader, valid *wordlist.Set, chunkSize int) *Scanner {
	if chunkSize <= 0 {
		chunkSize = DefaultChunkSize
	}
	lines := bufio.NewScanner(r)
	lines.Buffer(make([]byte, 0, 64*1024), 4*1024*1024)
	return &Scanner{
		tok:       New(valid),
		lines:     lines,
		chunkSize: chunkSize,
	}
}

// Next returns the next chunk of tokens. It returns false after the
// final chunk has been delivered. Call Err afterwards to distinguish
// end of input from a read failure.
func (s *Scanner) Next() ([]string, bool) {
	if s.done {
		return nil, false
	}

	for s.lines.Scan() {
		s.buf = append(s.buf, s.tok.Tokenize(s.lines.Text())...)
		if len(s.buf) >= s.chunkSize {
			chunk := s.buf
			s.buf = nil
			return chunk, true
		}
	}

	s.done = true
	if len(s.buf) > 0 {
		chunk := s.buf
		s.buf = nil
		return chunk, true
	}
	return nil, false
}

// Err reports any read error encountered by the underlying scanner.
func (s *Scanner) Err() error {
	return s.lines.Err()
}
