package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/cognicore/covertext/pkg/covertext/internalerr"
)

// Config holds the build-time and run-time parameters for the model
// compiler and the encoder.
type Config struct {
	Corpus   CorpusConfig   `yaml:"corpus"`
	WordList WordListConfig `yaml:"word_list"`
	Bigram   PruneConfig    `yaml:"bigram"`
	Trigram  PruneConfig    `yaml:"trigram"`

	// ChunkSize is the token count per streaming chunk. A memory
	// knob only; any value yields the same model.
	ChunkSize int `yaml:"chunk_size"`

	// BeamWidth bounds the number of live paths during encoding.
	BeamWidth int `yaml:"beam_width"`
}

// CorpusConfig locates the training corpus.
type CorpusConfig struct {
	URL      string `yaml:"url"`
	CacheDir string `yaml:"cache_dir"`
}

// WordListConfig locates the optional reference word list used to
// filter corpus tokens.
type WordListConfig struct {
	Path string `yaml:"path"`
	URL  string `yaml:"url"`
}

// PruneConfig controls lossy compaction for one table order.
type PruneConfig struct {
	TopK    int   `yaml:"top_k"`
	MinFreq int64 `yaml:"min_freq"`
}

// Default returns the reference configuration: top 30/20 candidates,
// minimum frequency 2, 50000-token chunks, beam width 5.
func Default() Config {
	return Config{
		Corpus:    CorpusConfig{CacheDir: ".cache"},
		Bigram:    PruneConfig{TopK: 30, MinFreq: 2},
		Trigram:   PruneConfig{TopK: 20, MinFreq: 2},
		ChunkSize: 50000,
		BeamWidth: 5,
	}
}

// Load reads a config from a YAML file, filling unset fields from
// Default.
func Load(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, err
	}

	cfg := Default()
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("%w: %v", internalerr.ErrInvalidConfig, err)
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks that parameters are usable.
func (c Config) Validate() error {
	if c.Bigram.TopK < 1 || c.Trigram.TopK < 1 {
		return fmt.Errorf("%w: top_k must be at least 1", internalerr.ErrInvalidConfig)
	}
	if c.Bigram.MinFreq < 1 || c.Trigram.MinFreq < 1 {
		return fmt.Errorf("%w: min_freq must be at least 1", internalerr.ErrInvalidConfig)
	}
	if c.ChunkSize < 1 {
		return fmt.Errorf("%w: chunk_size must be at least 1", internalerr.ErrInvalidConfig)
	}
	if c.BeamWidth < 1 {
		return fmt.Errorf("%w: beam_width must be at least 1", internalerr.ErrInvalidConfig)
	}
	return nil
}
