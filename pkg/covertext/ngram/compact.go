package ngram

import (
	"sort"

	"github.com/cognicore/covertext/pkg/covertext/model"
)

// PruneParams controls the lossy compression of raw counts into
// candidate buckets.
type PruneParams struct {
	TopK    int   // max candidates kept per letter bucket
	MinFreq int64 // candidates below this raw count are dropped
}

// DefaultBigramParams returns the reference bigram pruning parameters.
func DefaultBigramParams() PruneParams {
	return PruneParams{TopK: 30, MinFreq: 2}
}

// DefaultTrigramParams returns the reference trigram pruning parameters.
func DefaultTrigramParams() PruneParams {
	return PruneParams{TopK: 20, MinFreq: 2}
}

// Compact converts raw counts into a compiled model: candidates are
// grouped by leading letter, filtered by MinFreq, sorted by count
// descending (ties by ascending id), truncated to TopK, and stripped
// of their counts. Empty letter groups and empty contexts are
// omitted. Only rank order survives.
func Compact(c *Counter, bigramParams, trigramParams PruneParams) *model.Model {
	vocab := AssignVocab(c.Words)

	bigram := make(map[int]map[byte]model.Bucket, len(c.Bigrams))
	for word, nextCounts := range c.Bigrams {
		id, ok := vocab.ID(word)
		if !ok {
			continue
		}
		if group := pruneGroup(vocab, nextCounts, bigramParams); group != nil {
			bigram[id] = group
		}
	}

	trigram := make(map[model.Context]map[byte]model.Bucket, len(c.Trigrams))
	for pair, nextCounts := range c.Trigrams {
		w1, ok1 := vocab.ID(pair.W1)
		w2, ok2 := vocab.ID(pair.W2)
		if !ok1 || !ok2 {
			continue
		}
		if group := pruneGroup(vocab, nextCounts, trigramParams); group != nil {
			trigram[model.Context{W1: w1, W2: w2}] = group
		}
	}

	return model.New(vocab.Words(), bigram, trigram)
}

type rankedCandidate struct {
	id    int
	count int64
}

// pruneGroup applies MinFreq/TopK pruning to one context's successor
// counts and returns its letter buckets, or nil if nothing survives.
func pruneGroup(vocab *Vocab, nextCounts map[string]int64, p PruneParams) map[byte]model.Bucket {
	byLetter := make(map[byte][]rankedCandidate)
	for next, count := range nextCounts {
		if count < p.MinFreq {
			continue
		}
		id, ok := vocab.ID(next)
		if !ok {
			continue
		}
		c := next[0]
		byLetter[c] = append(byLetter[c], rankedCandidate{id: id, count: count})
	}
	if len(byLetter) == 0 {
		return nil
	}

	group := make(map[byte]model.Bucket, len(byLetter))
	for c, candidates := range byLetter {
		sort.Slice(candidates, func(i, j int) bool {
			if candidates[i].count != candidates[j].count {
				return candidates[i].count > candidates[j].count
			}
			return candidates[i].id < candidates[j].id
		})
		if len(candidates) > p.TopK {
			candidates = candidates[:p.TopK]
		}
		bucket := make(model.Bucket, len(candidates))
		for i, cand := range candidates {
			bucket[i] = cand.id
		}
		group[c] = bucket
	}
	return group
}
