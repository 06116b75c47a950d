// Package covertext hides short secret messages inside natural-looking
// sentences. Each secret letter becomes the first letter of a word in
// the cover sentence; a compiled n-gram model links the words so the
// sentence reads as prose. The counterpart decode reads the first
// letters back off.
package covertext

import (
	"io"

	"github.com/cognicore/covertext/pkg/covertext/beam"
	"github.com/cognicore/covertext/pkg/covertext/model"
	"github.com/cognicore/covertext/pkg/covertext/ngram"
	"github.com/cognicore/covertext/pkg/covertext/tokenize"
	"github.com/cognicore/covertext/pkg/covertext/wordlist"
)

// Codec encodes and decodes messages against one compiled model. The
// model is read-only, so a Codec is safe for concurrent use.
type Codec struct {
	enc *beam.Encoder
}

// Options configures a Codec.
type Options struct {
	Model     *model.Model
	BeamWidth int
}

// New creates a Codec. A nil model behaves like an empty one: every
// encode dead-ends immediately.
func New(opts Options) *Codec {
	m := opts.Model
	if m == nil {
		m = model.Empty()
	}
	return &Codec{enc: beam.NewEncoder(m, opts.BeamWidth)}
}

// Encode hides secret in a cover sentence. Check Result.Truncated to
// detect a dead end; the recovered message is then a strict prefix.
func (c *Codec) Encode(secret string) beam.Result {
	return c.enc.Encode(secret)
}

// Decode recovers the hidden message from a cover sentence.
func (c *Codec) Decode(sentence string) string {
	return beam.Decode(sentence)
}

// CompileParams configures a corpus compilation.
type CompileParams struct {
	Bigram    ngram.PruneParams
	Trigram   ngram.PruneParams
	ChunkSize int
	Valid     *wordlist.Set // optional; nil accepts every token
}

// Compile builds a model from a raw corpus stream in one pass:
// tokenize in chunks, aggregate n-gram counts, assign the vocabulary,
// and prune into letter buckets. An empty or fully filtered corpus
// compiles to an empty model, which is valid.
func Compile(r io.Reader, p CompileParams) (*model.Model, error) {
	if p.Bigram.TopK == 0 {
		p.Bigram = ngram.DefaultBigramParams()
	}
	if p.Trigram.TopK == 0 {
		p.Trigram = ngram.DefaultTrigramParams()
	}

	counter := ngram.NewCounter()
	scanner := tokenize.NewScanner(r, p.Valid, p.ChunkSize)
	for {
		chunk, ok := scanner.Next()
		if !ok {
			break
		}
		counter.AddChunk(chunk)
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}

	return ngram.Compact(counter, p.Bigram, p.Trigram), nil
}
