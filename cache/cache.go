// Package cache memoizes compile results. Compilation is deterministic
// for a given sheet and registry, so results are cached keyed by a hash
// of both, persisted in SQLite.
package cache

import (
	"crypto/sha256"
	"database/sql"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	_ "modernc.org/sqlite"

	"github.com/evsheet/go-evsheet/diag"
)

const schema = `
CREATE TABLE IF NOT EXISTS compiles (
	key         TEXT PRIMARY KEY,
	code        TEXT NOT NULL,
	diagnostics TEXT NOT NULL,
	created_at  TIMESTAMP NOT NULL
);
`

// Store persists compile results in a SQLite database.
type Store struct {
	db *sql.DB

	mu     sync.Mutex
	hits   int64
	misses int64
}

// Entry is one cached compile result.
type Entry struct {
	Key         string
	Code        string
	Diagnostics []diag.Diagnostic
	CreatedAt   time.Time
}

// Stats reports cache effectiveness counters for this process.
type Stats struct {
	Hits   int64
	Misses int64
}

// Key derives the cache key for a serialized sheet compiled against a
// registry. Any change to either produces a different key.
func Key(sheetJSON []byte, registryFingerprint string) string {
	h := sha256.New()
	h.Write(sheetJSON)
	h.Write([]byte{0})
	h.Write([]byte(registryFingerprint))
	return hex.EncodeToString(h.Sum(nil))
}

// Open opens (creating if needed) a compile cache at path. Use ":memory:"
// for an ephemeral cache.
func Open(path string) (*Store, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("cache: open %s: %w", path, err)
	}
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("cache: init schema: %w", err)
	}
	return &Store{db: db}, nil
}

// Close releases the underlying database.
func (s *Store) Close() error { return s.db.Close() }

// Get retrieves the cached result for key. The second result is false on
// a miss.
func (s *Store) Get(key string) (Entry, bool, error) {
	var entry Entry
	var diagJSON string
	row := s.db.QueryRow(`SELECT key, code, diagnostics, created_at FROM compiles WHERE key = ?`, key)
	err := row.Scan(&entry.Key, &entry.Code, &diagJSON, &entry.CreatedAt)
	if err == sql.ErrNoRows {
		s.count(false)
		return Entry{}, false, nil
	}
	if err != nil {
		return Entry{}, false, fmt.Errorf("cache: get: %w", err)
	}
	if err := json.Unmarshal([]byte(diagJSON), &entry.Diagnostics); err != nil {
		return Entry{}, false, fmt.Errorf("cache: decode diagnostics: %w", err)
	}
	s.count(true)
	return entry, true, nil
}

// Put stores a compile result, replacing any previous entry for the key.
func (s *Store) Put(entry Entry) error {
	if entry.CreatedAt.IsZero() {
		entry.CreatedAt = time.Now().UTC()
	}
	diagJSON, err := json.Marshal(entry.Diagnostics)
	if err != nil {
		return fmt.Errorf("cache: encode diagnostics: %w", err)
	}
	_, err = s.db.Exec(
		`INSERT OR REPLACE INTO compiles (key, code, diagnostics, created_at) VALUES (?, ?, ?, ?)`,
		entry.Key, entry.Code, string(diagJSON), entry.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("cache: put: %w", err)
	}
	return nil
}

// Stats returns the hit/miss counters accumulated by this Store.
func (s *Store) Stats() Stats {
	s.mu.Lock()
	defer s.mu.Unlock()
	return Stats{Hits: s.hits, Misses: s.misses}
}

func (s *Store) count(hit bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if hit {
		s.hits++
	} else {
		s.misses++
	}
}
