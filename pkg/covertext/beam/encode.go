// Package beam implements the beam-search encoder that hides a secret
// message in a cover sentence, and the first-letter decoder that reads
// it back. The encoder only reads the compiled model, so one model may
// serve concurrent encodes.
package beam

import (
	"math"
	"sort"
	"strings"
	"unicode/utf8"

	"github.com/cognicore/covertext/pkg/covertext/model"
)

const (
	// fallbackPoolSize caps how many letter-matching words are tried
	// when the model has no transition for a step.
	fallbackPoolSize = 10

	// fallbackPenalty is far below any rank-derived score so the beam
	// only takes a disconnected word when no live path has a
	// model-backed option.
	fallbackPenalty = -20.0
)

// Encoder hides messages in cover sentences using beam search over a
// compiled model.
type Encoder struct {
	m     *model.Model
	width int
}

// NewEncoder creates an encoder with the given beam width. Widths
// below 1 are clamped to 1.
func NewEncoder(m *model.Model, beamWidth int) *Encoder {
	if beamWidth < 1 {
		beamWidth = 1
	}
	return &Encoder{m: m, width: beamWidth}
}

// Result is the outcome of one encode call. Consumed counts the target
// characters actually covered; a dead end leaves Consumed short of the
// full target and the decoded message is then a strict prefix.
type Result struct {
	Sentence string
	Target   string
	Consumed int
	Score    float64
}

// Truncated reports whether encoding dead-ended before consuming the
// whole target sequence.
func (r Result) Truncated() bool {
	return r.Consumed < utf8.RuneCountInString(r.Target)
}

// Target reduces a secret message to the character sequence the cover
// sentence must spell: ASCII letters only, lowercased, in order. The
// alphabet matches the model vocabulary and the decoder, so any
// target character can in principle be covered.
func Target(secret string) string {
	var b strings.Builder
	for _, r := range secret {
		switch {
		case r >= 'a' && r <= 'z':
			b.WriteByte(byte(r))
		case r >= 'A' && r <= 'Z':
			b.WriteByte(byte(r - 'A' + 'a'))
		}
	}
	return b.String()
}

// path is one live partial cover sentence.
type path struct {
	words []int
	score float64
}

// Encode builds a cover sentence whose words' first letters spell the
// letter-filtered form of secret. An empty target yields an empty
// sentence. When some step has no candidates at all the search stops
// early and the best completed prefix is returned.
func (e *Encoder) Encode(secret string) Result {
	target := Target(secret)
	if target == "" {
		return Result{}
	}

	runes := []rune(target)

	beam := e.initialBeam(runes[0])
	if len(beam) == 0 {
		return Result{Target: target}
	}
	consumed := 1

	for _, r := range runes[1:] {
		var next []path
		for _, p := range beam {
			for _, cand := range e.candidates(p, r) {
				words := make([]int, len(p.words)+1)
				copy(words, p.words)
				words[len(p.words)] = cand.id
				next = append(next, path{words: words, score: p.score + cand.score})
			}
		}
		if len(next) == 0 {
			break
		}

		// Equal scores keep insertion order so encodes are reproducible.
		sort.SliceStable(next, func(i, j int) bool {
			return next[i].score > next[j].score
		})
		if len(next) > e.width {
			next = next[:e.width]
		}
		beam = next
		consumed++
	}

	best := beam[0]
	return Result{
		Sentence: e.render(best.words),
		Target:   target,
		Consumed: consumed,
		Score:    best.score,
	}
}

// initialBeam seeds one zero-score path per vocabulary word starting
// with the first target letter, in ascending id order, trimmed to the
// beam width. Ascending id is the documented tie-break for the all-tied
// initial scores.
func (e *Encoder) initialBeam(first rune) []path {
	letter, ok := asciiLetter(first)
	if !ok {
		return nil
	}
	ids := e.m.WordsByLetter(letter)
	if len(ids) > e.width {
		ids = ids[:e.width]
	}
	beam := make([]path, 0, len(ids))
	for _, id := range ids {
		beam = append(beam, path{words: []int{id}})
	}
	return beam
}

type scoredCandidate struct {
	id    int
	score float64
}

// candidates returns the next-word options for one path and one target
// letter. The trigram table is preferred, then the bigram table, then
// the penalized fallback pool; the sources are never mixed.
func (e *Encoder) candidates(p path, r rune) []scoredCandidate {
	letter, ok := asciiLetter(r)
	if !ok {
		return nil
	}

	if len(p.words) >= 2 {
		w1, w2 := p.words[len(p.words)-2], p.words[len(p.words)-1]
		if bucket, ok := e.m.TrigramBucket(w1, w2, letter); ok {
			return rankScored(bucket)
		}
	}

	last := p.words[len(p.words)-1]
	if bucket, ok := e.m.BigramBucket(last, letter); ok {
		return rankScored(bucket)
	}

	pool := e.m.WordsByLetter(letter)
	if len(pool) > fallbackPoolSize {
		pool = pool[:fallbackPoolSize]
	}
	out := make([]scoredCandidate, 0, len(pool))
	for _, id := range pool {
		out = append(out, scoredCandidate{id: id, score: fallbackPenalty})
	}
	return out
}

// rankScored assigns each bucket entry a log score derived from its
// rank. The artifact drops raw counts, so rank is the only likelihood
// signal; -ln(i+2) decreases with rank and stays well above the
// fallback penalty for any plausible bucket size.
func rankScored(bucket model.Bucket) []scoredCandidate {
	out := make([]scoredCandidate, len(bucket))
	for i, id := range bucket {
		out[i] = scoredCandidate{id: id, score: -math.Log(float64(i) + 2)}
	}
	return out
}

// render joins the chosen words into a sentence: single spaces, first
// letter capitalized, terminating period.
func (e *Encoder) render(words []int) string {
	var b strings.Builder
	for i, id := range words {
		if i > 0 {
			b.WriteByte(' ')
		}
		b.WriteString(e.m.Word(id))
	}
	s := b.String()
	if s == "" {
		return ""
	}
	return strings.ToUpper(s[:1]) + s[1:] + "."
}

func asciiLetter(r rune) (byte, bool) {
	if r < 'a' || r > 'z' {
		return 0, false
	}
	return byte(r), true
}
