package wordlist

import (
	"bufio"
	"fmt"
	"os"
	"strings"
)

// Set is a case-insensitive membership set of reference words.
type Set struct {
	words map[string]struct{}
}

// FromWords builds a set from a slice of words.
func FromWords(words []string) *Set {
	set := make(map[string]struct{}, len(words))
	for _, w := range words {
		w = strings.ToLower(strings.TrimSpace(w))
		if w == "" {
			continue
		}
		set[w] = struct{}{}
	}
	return &Set{words: set}
}

// Load reads a newline-delimited word list from path. Blank lines and
// lines starting with '#' are skipped.
func Load(path string) (*Set, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open word list: %w", err)
	}
	defer f.Close()

	set := make(map[string]struct{})
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		set[strings.ToLower(line)] = struct{}{}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read word list: %w", err)
	}

	return &Set{words: set}, nil
}

// Contains reports whether w is in the set, ignoring case.
func (s *Set) Contains(w string) bool {
	_, ok := s.words[strings.ToLower(w)]
	return ok
}

// Len returns the number of words in the set.
func (s *Set) Len() int {
	return len(s.words)
}
