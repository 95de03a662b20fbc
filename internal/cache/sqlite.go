// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package cache

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "github.com/mattn/go-sqlite3"
)

// SQLite is a durable Store backed by a single-table SQLite database.
// WAL mode allows concurrent readers while a check writes. Expired
// entries are evicted lazily on the access that observes the expiry.
type SQLite struct {
	db  *sql.DB
	now func() time.Time
}

// OpenSQLite opens or creates the cache database at path, creating
// parent directories as needed.
func OpenSQLite(path string) (*SQLite, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("creating cache directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite3", path+"?_journal_mode=WAL&_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("opening cache database: %w", err)
	}

	s := &SQLite{db: db, now: time.Now}
	if err := s.createSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating cache schema: %w", err)
	}
	return s, nil
}

// Close releases the database connection.
func (s *SQLite) Close() error {
	return s.db.Close()
}

// SetClock replaces the time source. Tests use this to force expiry
// without sleeping.
func (s *SQLite) SetClock(now func() time.Time) {
	s.now = now
}

func (s *SQLite) createSchema() error {
	statements := []string{
		`CREATE TABLE IF NOT EXISTS cache (
			key TEXT PRIMARY KEY,
			value BLOB NOT NULL,
			etag TEXT,
			cached_at TEXT NOT NULL,
			expires_at TEXT NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_cache_expires ON cache(expires_at)`,
	}
	for _, stmt := range statements {
		if _, err := s.db.Exec(stmt); err != nil {
			return fmt.Errorf("executing schema statement: %w", err)
		}
	}
	return nil
}

// Get returns the cached value for key. An entry past its expiry is
// treated as absent and deleted before returning a miss, so expiry and
// miss are atomic from the caller's perspective.
func (s *SQLite) Get(key string) ([]byte, bool) {
	var value []byte
	var expiresAt string
	err := s.db.QueryRow(
		`SELECT value, expires_at FROM cache WHERE key = ?`, key,
	).Scan(&value, &expiresAt)
	if err != nil {
		return nil, false
	}

	expiry, err := time.Parse(time.RFC3339Nano, expiresAt)
	if err != nil || !s.now().Before(expiry) {
		s.db.Exec(`DELETE FROM cache WHERE key = ?`, key)
		return nil, false
	}
	return value, true
}

// Set stores value under key for the given lifetime, overwriting any
// previous entry.
func (s *SQLite) Set(key string, value []byte, ttl time.Duration) error {
	now := s.now().UTC()
	_, err := s.db.Exec(
		`INSERT INTO cache (key, value, cached_at, expires_at) VALUES (?, ?, ?, ?)
		 ON CONFLICT(key) DO UPDATE SET
			value=excluded.value, cached_at=excluded.cached_at, expires_at=excluded.expires_at`,
		key, value,
		now.Format(time.RFC3339Nano),
		now.Add(ttl).Format(time.RFC3339Nano),
	)
	if err != nil {
		return fmt.Errorf("writing cache entry %s: %w", key, err)
	}
	return nil
}

// Prune deletes all expired entries and returns how many were removed.
func (s *SQLite) Prune() (int64, error) {
	res, err := s.db.Exec(
		`DELETE FROM cache WHERE expires_at <= ?`,
		s.now().UTC().Format(time.RFC3339Nano),
	)
	if err != nil {
		return 0, fmt.Errorf("pruning cache: %w", err)
	}
	return res.RowsAffected()
}
