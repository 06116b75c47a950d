package beam

import (
	"strings"
	"unicode"
)

// Decode recovers the hidden message from a cover sentence by reading
// the lowercase first letter of each word. It is a pure function of
// the sentence text; no model is consulted. Only ASCII letters count,
// the same alphabet the encoder's target construction uses; anything
// else is punctuation or a separator.
func Decode(sentence string) string {
	cleaned := strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z':
			return r
		case unicode.IsSpace(r):
			return ' '
		default:
			return -1
		}
	}, sentence)

	var b strings.Builder
	for _, word := range strings.Fields(cleaned) {
		for _, r := range word {
			b.WriteRune(unicode.ToLower(r))
			break
		}
	}
	return b.String()
}
