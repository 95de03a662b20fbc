// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package cache

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openTestCache(t *testing.T) *SQLite {
	t.Helper()
	s, err := OpenSQLite(filepath.Join(t.TempDir(), "cache.db"))
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func TestSQLiteSetGet(t *testing.T) {
	s := openTestCache(t)

	require.NoError(t, s.Set("doi:10.1000/182", []byte(`{"status":"ok"}`), time.Hour))

	got, ok := s.Get("doi:10.1000/182")
	require.True(t, ok)
	assert.Equal(t, []byte(`{"status":"ok"}`), got)
}

func TestSQLiteMiss(t *testing.T) {
	s := openTestCache(t)
	_, ok := s.Get("never-set")
	assert.False(t, ok)
}

func TestSQLiteExpiry(t *testing.T) {
	s := openTestCache(t)

	base := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	now := base
	s.SetClock(func() time.Time { return now })

	require.NoError(t, s.Set("url:https://example.org", []byte("reachable"), 24*time.Hour))

	// Just before expiry: hit.
	now = base.Add(24*time.Hour - time.Second)
	_, ok := s.Get("url:https://example.org")
	assert.True(t, ok)

	// At expiry: miss, and the entry is gone even for a fresh clock.
	now = base.Add(24 * time.Hour)
	_, ok = s.Get("url:https://example.org")
	assert.False(t, ok)

	now = base
	_, ok = s.Get("url:https://example.org")
	assert.False(t, ok, "expired entry must be deleted, not resurrected")
}

func TestSQLiteOverwrite(t *testing.T) {
	s := openTestCache(t)

	require.NoError(t, s.Set("k", []byte("old"), time.Hour))
	require.NoError(t, s.Set("k", []byte("new"), time.Hour))

	got, ok := s.Get("k")
	require.True(t, ok)
	assert.Equal(t, []byte("new"), got)
}

func TestSQLitePrune(t *testing.T) {
	s := openTestCache(t)

	base := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	now := base
	s.SetClock(func() time.Time { return now })

	require.NoError(t, s.Set("short", []byte("a"), time.Minute))
	require.NoError(t, s.Set("long", []byte("b"), time.Hour))

	now = base.Add(30 * time.Minute)
	removed, err := s.Prune()
	require.NoError(t, err)
	assert.Equal(t, int64(1), removed)

	_, ok := s.Get("long")
	assert.True(t, ok)
}

func TestSQLiteCreatesParentDirs(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "dir", "cache.db")
	s, err := OpenSQLite(path)
	require.NoError(t, err)
	defer s.Close()

	require.NoError(t, s.Set("k", []byte("v"), time.Hour))
}

func TestKey(t *testing.T) {
	assert.Equal(t, "doi:10.1000/182", Key("doi", "10.1000/182"))
	assert.Equal(t, "citations:doi:10.1000/182", Key("citations", "doi:10.1000/182"))
}
