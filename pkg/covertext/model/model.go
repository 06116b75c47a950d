// Package model defines the compiled transition model shared by the
// build-time compiler and the run-time encoder. A Model is immutable
// after construction and safe for concurrent readers.
package model

// Bucket is a pruned candidate list for one context and one leading
// letter: word ids sorted best-first. Raw counts are discarded at
// compaction; rank order is the only surviving likelihood signal.
type Bucket []int

// Context is an ordered pair of word ids keying the trigram table.
type Context struct {
	W1, W2 int
}

// Model holds the vocabulary and the letter-bucketed transition
// tables. Absence of a context or letter key means "no model-backed
// candidates" and callers fall back; it is never an error.
type Model struct {
	vocab    []string
	bigram   map[int]map[byte]Bucket
	trigram  map[Context]map[byte]Bucket
	byLetter map[byte][]int // ascending ids per leading letter
}

// New assembles a model from a vocabulary and its transition tables.
// The letter index used by the encoder's fallback pool is derived here.
func New(vocab []string, bigram map[int]map[byte]Bucket, trigram map[Context]map[byte]Bucket) *Model {
	if bigram == nil {
		bigram = make(map[int]map[byte]Bucket)
	}
	if trigram == nil {
		trigram = make(map[Context]map[byte]Bucket)
	}

	byLetter := make(map[byte][]int)
	for id, word := range vocab {
		if word == "" {
			continue
		}
		c := word[0]
		byLetter[c] = append(byLetter[c], id)
	}

	return &Model{
		vocab:    vocab,
		bigram:   bigram,
		trigram:  trigram,
		byLetter: byLetter,
	}
}

// Empty returns a model with no vocabulary and no transitions.
// Encoding against it dead-ends immediately, which is valid behavior.
func Empty() *Model {
	return New(nil, nil, nil)
}

// Word returns the word for a given id.
func (m *Model) Word(id int) string {
	return m.vocab[id]
}

// Vocab returns the vocabulary, index = word id. Callers must not
// mutate the returned slice.
func (m *Model) Vocab() []string {
	return m.vocab
}

// VocabSize returns the number of words in the vocabulary.
func (m *Model) VocabSize() int {
	return len(m.vocab)
}

// BigramBucket returns the candidate bucket for words following id
// that start with letter. ok is false when the model has no data.
func (m *Model) BigramBucket(id int, letter byte) (Bucket, bool) {
	letters, ok := m.bigram[id]
	if !ok {
		return nil, false
	}
	b, ok := letters[letter]
	return b, ok
}

// TrigramBucket returns the candidate bucket for words following the
// pair (w1, w2) that start with letter.
func (m *Model) TrigramBucket(w1, w2 int, letter byte) (Bucket, bool) {
	letters, ok := m.trigram[Context{W1: w1, W2: w2}]
	if !ok {
		return nil, false
	}
	b, ok := letters[letter]
	return b, ok
}

// WordsByLetter returns every vocabulary id whose word starts with
// letter, in ascending id order (most frequent first). Callers must
// not mutate the returned slice.
func (m *Model) WordsByLetter(letter byte) []int {
	return m.byLetter[letter]
}

// BigramContexts returns the number of contexts in the bigram table.
func (m *Model) BigramContexts() int {
	return len(m.bigram)
}

// TrigramContexts returns the number of contexts in the trigram table.
func (m *Model) TrigramContexts() int {
	return len(m.trigram)
}
