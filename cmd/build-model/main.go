// Command build-model compiles a text corpus into the bigram and
// trigram model artifacts consumed by the covertext encoder, and
// records the build in a catalog.
package main

import (
	"context"
	"flag"
	"io"
	"log"
	"os"
	"path/filepath"

	"github.com/cognicore/covertext/pkg/covertext"
	"github.com/cognicore/covertext/pkg/covertext/config"
	"github.com/cognicore/covertext/pkg/covertext/corpus"
	"github.com/cognicore/covertext/pkg/covertext/model"
	"github.com/cognicore/covertext/pkg/covertext/modelstore"
	"github.com/cognicore/covertext/pkg/covertext/ngram"
	"github.com/cognicore/covertext/pkg/covertext/wordlist"
)

func main() {
	var (
		configPath  = flag.String("config", "", "YAML config file (optional)")
		corpusFlag  = flag.String("corpus", "", "Corpus URL or local file (overrides config)")
		outDir      = flag.String("out", "model", "Output directory for artifacts")
		catalogPath = flag.String("catalog", "", "SQLite build catalog (optional)")
	)
	flag.Parse()

	cfg := config.Default()
	if *configPath != "" {
		loaded, err := config.Load(*configPath)
		if err != nil {
			log.Fatal(err)
		}
		cfg = loaded
	}
	if *corpusFlag != "" {
		cfg.Corpus.URL = *corpusFlag
	}
	if cfg.Corpus.URL == "" {
		log.Fatal("no corpus configured: pass --corpus or set corpus.url in the config")
	}

	ctx := context.Background()

	valid, err := loadWordList(ctx, cfg)
	if err != nil {
		log.Fatal(err)
	}
	if valid != nil {
		log.Printf("Loaded %d reference words for validation", valid.Len())
	}

	reader, err := openCorpus(ctx, cfg)
	if err != nil {
		log.Fatal(err)
	}
	defer reader.Close()

	log.Printf("Compiling corpus %s ...", cfg.Corpus.URL)
	m, err := covertext.Compile(reader, covertext.CompileParams{
		Bigram:    ngram.PruneParams{TopK: cfg.Bigram.TopK, MinFreq: cfg.Bigram.MinFreq},
		Trigram:   ngram.PruneParams{TopK: cfg.Trigram.TopK, MinFreq: cfg.Trigram.MinFreq},
		ChunkSize: cfg.ChunkSize,
		Valid:     valid,
	})
	if err != nil {
		log.Fatal(err)
	}
	log.Printf("Vocabulary size: %d, bigram contexts: %d, trigram contexts: %d",
		m.VocabSize(), m.BigramContexts(), m.TrigramContexts())

	bigramPath := filepath.Join(*outDir, "model_data.json")
	trigramPath := filepath.Join(*outDir, "model_data_trigram.json")
	if err := writeArtifacts(m, bigramPath, trigramPath); err != nil {
		log.Fatal(err)
	}
	log.Printf("Wrote %s and %s", bigramPath, trigramPath)

	if *catalogPath != "" {
		if err := recordBuild(ctx, *catalogPath, cfg, m, bigramPath, trigramPath); err != nil {
			log.Fatal(err)
		}
	}
}

// loadWordList returns the configured reference word set, downloading
// it first when a URL is configured. nil means no filtering.
func loadWordList(ctx context.Context, cfg config.Config) (*wordlist.Set, error) {
	if cfg.WordList.Path == "" {
		return nil, nil
	}
	if cfg.WordList.URL != "" {
		if err := wordlist.Ensure(ctx, cfg.WordList.Path, cfg.WordList.URL); err != nil {
			return nil, err
		}
	}
	return wordlist.Load(cfg.WordList.Path)
}

// openCorpus opens a local corpus file directly, or fetches a remote
// one through the cache.
func openCorpus(ctx context.Context, cfg config.Config) (io.ReadCloser, error) {
	if _, err := os.Stat(cfg.Corpus.URL); err == nil {
		return os.Open(cfg.Corpus.URL)
	}
	fetcher := corpus.NewFetcher(cfg.Corpus.CacheDir)
	return fetcher.Fetch(ctx, cfg.Corpus.URL)
}

func writeArtifacts(m *model.Model, bigramPath, trigramPath string) error {
	if err := os.MkdirAll(filepath.Dir(bigramPath), 0755); err != nil {
		return err
	}

	bf, err := os.Create(bigramPath)
	if err != nil {
		return err
	}
	defer bf.Close()
	if err := m.WriteBigram(bf); err != nil {
		return err
	}

	tf, err := os.Create(trigramPath)
	if err != nil {
		return err
	}
	defer tf.Close()
	return m.WriteTrigram(tf)
}

func recordBuild(ctx context.Context, catalogPath string, cfg config.Config, m *model.Model, bigramPath, trigramPath string) error {
	store, err := modelstore.Open(ctx, catalogPath)
	if err != nil {
		return err
	}
	defer store.Close()

	build, err := store.RecordBuild(ctx, modelstore.Build{
		CorpusURL:       cfg.Corpus.URL,
		VocabSize:       m.VocabSize(),
		BigramContexts:  m.BigramContexts(),
		TrigramContexts: m.TrigramContexts(),
		BigramPath:      bigramPath,
		TrigramPath:     trigramPath,
	})
	if err != nil {
		return err
	}
	log.Printf("Recorded build %s in %s", build.ID, catalogPath)
	return nil
}
