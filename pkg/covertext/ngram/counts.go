package ngram

// Counter accumulates word, bigram, and trigram frequencies over a
// token stream delivered in chunks. It carries the trailing one or two
// tokens across chunk boundaries so every adjacency window is counted
// exactly once regardless of where the chunks are cut.
type Counter struct {
	Words    map[string]int64
	Bigrams  map[string]map[string]int64
	Trigrams map[WordPair]map[string]int64

	prev1 string // last token seen, "" before any token
	prev2 string // token before prev1
}

// WordPair is an ordered pair of adjacent words keying a trigram
// context.
type WordPair struct {
	W1, W2 string
}

// NewCounter creates an empty frequency counter.
func NewCounter() *Counter {
	return &Counter{
		Words:    make(map[string]int64),
		Bigrams:  make(map[string]map[string]int64),
		Trigrams: make(map[WordPair]map[string]int64),
	}
}

// AddChunk folds one chunk of tokens into the running counts. Chunks
// must arrive in corpus order.
func (c *Counter) AddChunk(tokens []string) {
	for _, tok := range tokens {
		c.Words[tok]++

		if c.prev1 != "" {
			next, ok := c.Bigrams[c.prev1]
			if !ok {
				next = make(map[string]int64)
				c.Bigrams[c.prev1] = next
			}
			next[tok]++
		}

		if c.prev2 != "" {
			pair := WordPair{W1: c.prev2, W2: c.prev1}
			next, ok := c.Trigrams[pair]
			if !ok {
				next = make(map[string]int64)
				c.Trigrams[pair] = next
			}
			next[tok]++
		}

		c.prev2 = c.prev1
		c.prev1 = tok
	}
}

// TotalWords returns the number of tokens counted so far.
func (c *Counter) TotalWords() int64 {
	var n int64
	for _, count := range c.Words {
		n += count
	}
	return n
}

// UniqueWords returns the number of distinct words seen.
func (c *Counter) UniqueWords() int {
	return len(c.Words)
}
