package model

import (
	"encoding/json"
	"fmt"
	"io"
	"strconv"

	"github.com/cognicore/covertext/pkg/covertext/internalerr"
)

// bigramArtifact is the on-disk shape of the bigram model:
// map[wordId][letter] = [candidateId, ...], keys stringified for JSON.
type bigramArtifact struct {
	Vocab []string                    `json:"vocab"`
	Map   map[string]map[string][]int `json:"map"`
}

// trigramArtifact is the on-disk shape of the trigram model:
// map[word1Id][word2Id][letter] = [candidateId, ...].
type trigramArtifact struct {
	Vocab []string                               `json:"vocab"`
	Map   map[string]map[string]map[string][]int `json:"map"`
}

// WriteBigram serializes the model's vocabulary and bigram table to w
// as minified JSON.
func (m *Model) WriteBigram(w io.Writer) error {
	art := bigramArtifact{
		Vocab: m.vocab,
		Map:   make(map[string]map[string][]int, len(m.bigram)),
	}
	if art.Vocab == nil {
		art.Vocab = []string{}
	}
	for id, letters := range m.bigram {
		group := make(map[string][]int, len(letters))
		for c, bucket := range letters {
			group[string(c)] = bucket
		}
		art.Map[strconv.Itoa(id)] = group
	}
	return json.NewEncoder(w).Encode(art)
}

// WriteTrigram serializes the model's vocabulary and trigram table to
// w as minified JSON.
func (m *Model) WriteTrigram(w io.Writer) error {
	art := trigramArtifact{
		Vocab: m.vocab,
		Map:   make(map[string]map[string]map[string][]int, len(m.trigram)),
	}
	if art.Vocab == nil {
		art.Vocab = []string{}
	}
	for ctx, letters := range m.trigram {
		k1 := strconv.Itoa(ctx.W1)
		inner, ok := art.Map[k1]
		if !ok {
			inner = make(map[string]map[string][]int)
			art.Map[k1] = inner
		}
		group := make(map[string][]int, len(letters))
		for c, bucket := range letters {
			group[string(c)] = bucket
		}
		inner[strconv.Itoa(ctx.W2)] = group
	}
	return json.NewEncoder(w).Encode(art)
}

// ReadArtifacts loads a model from a bigram artifact and an optional
// trigram artifact (trigramR may be nil). Both must carry the same
// vocabulary. A corrupted artifact fails closed before any search can
// run against it; every error wraps internalerr.ErrInvalidArtifact.
func ReadArtifacts(bigramR, trigramR io.Reader) (*Model, error) {
	var bart bigramArtifact
	if err := json.NewDecoder(bigramR).Decode(&bart); err != nil {
		return nil, fmt.Errorf("%w: decode bigram: %v", internalerr.ErrInvalidArtifact, err)
	}
	if err := validateVocab(bart.Vocab); err != nil {
		return nil, err
	}

	bigram := make(map[int]map[byte]Bucket, len(bart.Map))
	for key, letters := range bart.Map {
		id, err := parseID(key, len(bart.Vocab))
		if err != nil {
			return nil, err
		}
		group, err := parseLetterGroups(bart.Vocab, letters)
		if err != nil {
			return nil, fmt.Errorf("bigram context %s: %w", key, err)
		}
		bigram[id] = group
	}

	trigram := make(map[Context]map[byte]Bucket)
	if trigramR != nil {
		var tart trigramArtifact
		if err := json.NewDecoder(trigramR).Decode(&tart); err != nil {
			return nil, fmt.Errorf("%w: decode trigram: %v", internalerr.ErrInvalidArtifact, err)
		}
		if err := sameVocab(bart.Vocab, tart.Vocab); err != nil {
			return nil, err
		}
		for k1, inner := range tart.Map {
			w1, err := parseID(k1, len(bart.Vocab))
			if err != nil {
				return nil, err
			}
			for k2, letters := range inner {
				w2, err := parseID(k2, len(bart.Vocab))
				if err != nil {
					return nil, err
				}
				group, err := parseLetterGroups(bart.Vocab, letters)
				if err != nil {
					return nil, fmt.Errorf("trigram context %s/%s: %w", k1, k2, err)
				}
				trigram[Context{W1: w1, W2: w2}] = group
			}
		}
	}

	return New(bart.Vocab, bigram, trigram), nil
}

func validateVocab(vocab []string) error {
	for id, word := range vocab {
		if word == "" {
			return fmt.Errorf("%w: empty word at id %d", internalerr.ErrInvalidArtifact, id)
		}
		for i := 0; i < len(word); i++ {
			if word[i] < 'a' || word[i] > 'z' {
				return fmt.Errorf("%w: word %q at id %d is not lowercase letters", internalerr.ErrInvalidArtifact, word, id)
			}
		}
	}
	return nil
}

func sameVocab(a, b []string) error {
	if len(a) != len(b) {
		return fmt.Errorf("%w: bigram and trigram vocabularies differ in size (%d vs %d)", internalerr.ErrInvalidArtifact, len(a), len(b))
	}
	for i := range a {
		if a[i] != b[i] {
			return fmt.Errorf("%w: vocabulary mismatch at id %d (%q vs %q)", internalerr.ErrInvalidArtifact, i, a[i], b[i])
		}
	}
	return nil
}

func parseID(key string, vocabSize int) (int, error) {
	id, err := strconv.Atoi(key)
	if err != nil {
		return 0, fmt.Errorf("%w: context key %q is not a word id", internalerr.ErrInvalidArtifact, key)
	}
	if id < 0 || id >= vocabSize {
		return 0, fmt.Errorf("%w: word id %d out of range [0,%d)", internalerr.ErrInvalidArtifact, id, vocabSize)
	}
	return id, nil
}

func parseLetterGroups(vocab []string, letters map[string][]int) (map[byte]Bucket, error) {
	group := make(map[byte]Bucket, len(letters))
	for key, ids := range letters {
		if len(key) != 1 || key[0] < 'a' || key[0] > 'z' {
			return nil, fmt.Errorf("%w: letter key %q is not a lowercase letter", internalerr.ErrInvalidArtifact, key)
		}
		c := key[0]
		if len(ids) == 0 {
			return nil, fmt.Errorf("%w: empty bucket for letter %q", internalerr.ErrInvalidArtifact, key)
		}
		for _, id := range ids {
			if id < 0 || id >= len(vocab) {
				return nil, fmt.Errorf("%w: candidate id %d out of range [0,%d)", internalerr.ErrInvalidArtifact, id, len(vocab))
			}
			if vocab[id][0] != c {
				return nil, fmt.Errorf("%w: candidate %q filed under letter %q", internalerr.ErrInvalidArtifact, vocab[id], key)
			}
		}
		group[c] = ids
	}
	return group, nil
}
