package ngram

import "sort"

// Vocab is the bidirectional word/id mapping. Ids are dense over
// [0, len) and ordered by descending corpus frequency, ties broken
// lexicographically, so frequent words get small ids. The ordering is
// a size optimization for the serialized artifact; it has no effect
// on search quality.
type Vocab struct {
	words []string
	ids   map[string]int
}

// AssignVocab builds a vocabulary from global word counts.
func AssignVocab(counts map[string]int64) *Vocab {
	words := make([]string, 0, len(counts))
	for w := range counts {
		words = append(words, w)
	}
	sort.Slice(words, func(i, j int) bool {
		if counts[words[i]] != counts[words[j]] {
			return counts[words[i]] > counts[words[j]]
		}
		return words[i] < words[j]
	})

	ids := make(map[string]int, len(words))
	for i, w := range words {
		ids[w] = i
	}
	return &Vocab{words: words, ids: ids}
}

// ID returns the id for a word.
func (v *Vocab) ID(word string) (int, bool) {
	id, ok := v.ids[word]
	return id, ok
}

// Word returns the word for an id.
func (v *Vocab) Word(id int) string {
	return v.words[id]
}

// Words returns the ordered word list, index = id.
func (v *Vocab) Words() []string {
	return v.words
}

// Len returns the vocabulary size.
func (v *Vocab) Len() int {
	return len(v.words)
}
