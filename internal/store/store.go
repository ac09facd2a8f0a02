// Package store keeps a SQLite ledger of embeddings so a later run can check
// that the same text still produces a bit-identical vector, and so recorded
// texts can be ranked by similarity to a query vector.
package store

import (
	"bytes"
	"context"
	"database/sql"
	"errors"
	"fmt"
	"sort"
	"strconv"
	"time"

	"github.com/cespare/xxhash/v2"
	"github.com/viant/vec/search"
	_ "modernc.org/sqlite" // register pure-Go SQLite driver

	"modelbridge/internal/common/fsutil"
)

const schema = `
CREATE TABLE IF NOT EXISTS fingerprints (
	engine     TEXT    NOT NULL,
	text       TEXT    NOT NULL,
	text_hash  TEXT    NOT NULL,
	dim        INTEGER NOT NULL,
	embedding  BLOB    NOT NULL,
	created_at INTEGER NOT NULL,
	PRIMARY KEY (engine, text)
);
CREATE INDEX IF NOT EXISTS fingerprints_engine_dim ON fingerprints (engine, dim);`

// Fingerprint is one recorded embedding.
type Fingerprint struct {
	Text      string
	TextHash  string
	Engine    string
	Dim       int
	Embedding []float32
	CreatedAt time.Time
}

// Store is a fingerprint ledger backed by modernc.org/sqlite.
type Store struct {
	db *sql.DB
}

// Open opens (creating if needed) the ledger at dsn. Pass ":memory:" for a
// throwaway database. A leading ~ in file paths is expanded.
func Open(dsn string) (*Store, error) {
	if dsn == "" {
		return nil, errors.New("store: empty dsn")
	}
	if dsn != ":memory:" {
		p, err := fsutil.ExpandHome(dsn)
		if err != nil {
			return nil, err
		}
		dsn = p
	}
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("store: open %s: %w", dsn, err)
	}
	// One connection keeps ":memory:" databases shared and serializes writers.
	db.SetMaxOpenConns(1)
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("store: create schema: %w", err)
	}
	return &Store{db: db}, nil
}

// HashText returns the short digest printed next to recorded texts. Rows are
// keyed by the text itself, so digest collisions never alias two entries.
func HashText(text string) string {
	return strconv.FormatUint(xxhash.Sum64String(text), 16)
}

// Record stores vec for (engine, text) unless an entry already exists. The
// first recorded vector is the reference for Verify.
func (s *Store) Record(ctx context.Context, engine, text string, vec []float32) error {
	if len(vec) == 0 {
		return errors.New("store: empty embedding")
	}
	_, err := s.db.ExecContext(ctx,
		`INSERT OR IGNORE INTO fingerprints (engine, text, text_hash, dim, embedding, created_at) VALUES (?, ?, ?, ?, ?, ?)`,
		engine, text, HashText(text), len(vec), EncodeEmbedding(vec), time.Now().Unix())
	if err != nil {
		return fmt.Errorf("store: record: %w", err)
	}
	return nil
}

// Get returns the recorded fingerprint for (engine, text).
func (s *Store) Get(ctx context.Context, engine, text string) (Fingerprint, bool, error) {
	fp := Fingerprint{Text: text, TextHash: HashText(text), Engine: engine}
	var (
		blob    []byte
		created int64
	)
	err := s.db.QueryRowContext(ctx,
		`SELECT dim, embedding, created_at FROM fingerprints WHERE engine = ? AND text = ?`,
		engine, text).Scan(&fp.Dim, &blob, &created)
	if errors.Is(err, sql.ErrNoRows) {
		return fp, false, nil
	}
	if err != nil {
		return fp, false, fmt.Errorf("store: get: %w", err)
	}
	if fp.Embedding, err = DecodeEmbedding(blob); err != nil {
		return fp, false, err
	}
	fp.CreatedAt = time.Unix(created, 0)
	return fp, true, nil
}

// Verify compares vec bit-for-bit against the recorded vector. found is false
// when nothing was recorded for (engine, text).
func (s *Store) Verify(ctx context.Context, engine, text string, vec []float32) (match bool, found bool, err error) {
	var blob []byte
	err = s.db.QueryRowContext(ctx,
		`SELECT embedding FROM fingerprints WHERE engine = ? AND text = ?`,
		engine, text).Scan(&blob)
	if errors.Is(err, sql.ErrNoRows) {
		return false, false, nil
	}
	if err != nil {
		return false, false, fmt.Errorf("store: verify: %w", err)
	}
	return bytes.Equal(blob, EncodeEmbedding(vec)), true, nil
}

// Match is one Search result.
type Match struct {
	Text     string
	TextHash string
	Score    float64
}

// Search ranks the texts recorded for engine by cosine similarity to query
// and returns the best k, highest score first. Only rows whose dimension
// equals len(query) are compared; scores carry float32 precision. Ties are
// broken by text so results are stable.
func (s *Store) Search(ctx context.Context, engine string, query []float32, k int) ([]Match, error) {
	if len(query) == 0 {
		return nil, errors.New("store: empty query embedding")
	}
	if k <= 0 {
		return nil, nil
	}
	q := search.Float32s(query)
	qm := q.Magnitude()
	if qm == 0 {
		return nil, errors.New("store: zero-magnitude query embedding")
	}
	rows, err := s.db.QueryContext(ctx,
		`SELECT text, text_hash, embedding FROM fingerprints WHERE engine = ? AND dim = ?`,
		engine, len(query))
	if err != nil {
		return nil, fmt.Errorf("store: search: %w", err)
	}
	defer rows.Close()

	var out []Match
	for rows.Next() {
		var (
			m    Match
			blob []byte
		)
		if err := rows.Scan(&m.Text, &m.TextHash, &blob); err != nil {
			return nil, fmt.Errorf("store: search scan: %w", err)
		}
		vec, err := DecodeEmbedding(blob)
		if err != nil {
			return nil, err
		}
		vm := search.Float32s(vec).Magnitude()
		if vm == 0 {
			continue
		}
		m.Score = 1 - float64(q.CosineDistance(vec))
		out = append(out, m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("store: search: %w", err)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Score != out[j].Score {
			return out[i].Score > out[j].Score
		}
		return out[i].Text < out[j].Text
	})
	if len(out) > k {
		out = out[:k]
	}
	return out, nil
}

// Count returns the number of recorded fingerprints.
func (s *Store) Count(ctx context.Context) (int, error) {
	var n int
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM fingerprints`).Scan(&n); err != nil {
		return 0, fmt.Errorf("store: count: %w", err)
	}
	return n, nil
}

func (s *Store) Close() error { return s.db.Close() }
