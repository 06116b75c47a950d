// Package modelstore keeps a persistent catalog of compiled models so
// repeated builds against different corpora and parameters stay
// traceable.
package modelstore

import (
	"context"
	"crypto/rand"
	"database/sql"
	"time"

	"github.com/oklog/ulid/v2"
	_ "modernc.org/sqlite"

	"github.com/cognicore/covertext/pkg/covertext/internalerr"
)

// Build describes one compiled model.
type Build struct {
	ID              string
	CreatedAt       time.Time
	CorpusURL       string
	VocabSize       int
	BigramContexts  int
	TrigramContexts int
	BigramPath      string
	TrigramPath     string
}

// Store is a SQLite-backed build catalog.
type Store struct {
	db      *sql.DB
	entropy *ulid.MonotonicEntropy
}

// Open opens the catalog at path, creating the schema if needed.
func Open(ctx context.Context, path string) (*Store, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}

	// WAL mode for better concurrency
	if _, err := db.ExecContext(ctx, "PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, err
	}

	const schema = `
CREATE TABLE IF NOT EXISTS builds (
	id TEXT PRIMARY KEY,
	created_at TEXT NOT NULL,
	corpus_url TEXT,
	vocab_size INTEGER NOT NULL,
	bigram_contexts INTEGER NOT NULL,
	trigram_contexts INTEGER NOT NULL,
	bigram_path TEXT,
	trigram_path TEXT
);
`
	if _, err := db.ExecContext(ctx, schema); err != nil {
		db.Close()
		return nil, err
	}

	return &Store{
		db:      db,
		entropy: ulid.Monotonic(rand.Reader, 0),
	}, nil
}

// Close closes the catalog.
func (s *Store) Close() error {
	return s.db.Close()
}

// RecordBuild inserts a build, assigning a ULID and timestamp when
// unset, and returns the stored record.
func (s *Store) RecordBuild(ctx context.Context, b Build) (Build, error) {
	if b.ID == "" {
		b.ID = ulid.MustNew(ulid.Now(), s.entropy).String()
	}
	if b.CreatedAt.IsZero() {
		b.CreatedAt = time.Now().UTC()
	}

	_, err := s.db.ExecContext(ctx, `
INSERT INTO builds (id, created_at, corpus_url, vocab_size, bigram_contexts, trigram_contexts, bigram_path, trigram_path)
VALUES (?, ?, ?, ?, ?, ?, ?, ?);
`, b.ID, b.CreatedAt.Format(time.RFC3339), b.CorpusURL, b.VocabSize, b.BigramContexts, b.TrigramContexts, b.BigramPath, b.TrigramPath)
	if err != nil {
		return Build{}, err
	}
	return b, nil
}

// GetBuild retrieves a build by id.
func (s *Store) GetBuild(ctx context.Context, id string) (Build, error) {
	row := s.db.QueryRowContext(ctx, `
SELECT id, created_at, corpus_url, vocab_size, bigram_contexts, trigram_contexts, bigram_path, trigram_path
FROM builds WHERE id = ?;
`, id)
	b, err := scanBuild(row.Scan)
	if err == sql.ErrNoRows {
		return Build{}, internalerr.ErrNotFound
	}
	return b, err
}

// LatestBuild returns the most recently recorded build.
func (s *Store) LatestBuild(ctx context.Context) (Build, bool, error) {
	row := s.db.QueryRowContext(ctx, `
SELECT id, created_at, corpus_url, vocab_size, bigram_contexts, trigram_contexts, bigram_path, trigram_path
FROM builds ORDER BY id DESC LIMIT 1;
`)
	b, err := scanBuild(row.Scan)
	if err == sql.ErrNoRows {
		return Build{}, false, nil
	}
	if err != nil {
		return Build{}, false, err
	}
	return b, true, nil
}

// ListBuilds returns every recorded build, newest first.
func (s *Store) ListBuilds(ctx context.Context) ([]Build, error) {
	rows, err := s.db.QueryContext(ctx, `
SELECT id, created_at, corpus_url, vocab_size, bigram_contexts, trigram_contexts, bigram_path, trigram_path
FROM builds ORDER BY id DESC;
`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var builds []Build
	for rows.Next() {
		b, err := scanBuild(rows.Scan)
		if err != nil {
			return nil, err
		}
		builds = append(builds, b)
	}
	return builds, rows.Err()
}

func scanBuild(scan func(...any) error) (Build, error) {
	var b Build
	var created string
	err := scan(&b.ID, &created, &b.CorpusURL, &b.VocabSize, &b.BigramContexts, &b.TrigramContexts, &b.BigramPath, &b.TrigramPath)
	if err != nil {
		return Build{}, err
	}
	if t, perr := time.Parse(time.RFC3339, created); perr == nil {
		b.CreatedAt = t
	}
	return b, nil
}
