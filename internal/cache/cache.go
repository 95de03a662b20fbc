// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package cache provides the expiring key-value store shared by all
// external registry queries. The store is an explicit capability
// injected into the verification and scoring stages so tests can
// substitute an in-memory fake with a controllable clock.
package cache

import "time"

// Store is the cache capability. Keys are opaque strings derived from a
// check kind plus a normalized identifier or URL (e.g. "doi:10.1234/x"),
// so no two distinct (kind, identifier) pairs collide.
//
// An entry past its expiry is indistinguishable from a missing entry.
// Concurrent reads and writes of the same key are last-writer-wins;
// cached values are idempotent recomputations, so the race is safe.
type Store interface {
	// Get returns the value for key, or ok=false on miss or expiry.
	Get(key string) (value []byte, ok bool)

	// Set stores value under key for the given lifetime.
	Set(key string, value []byte, ttl time.Duration) error
}

// Key builds a cache key from a check kind and a normalized identifier.
func Key(kind, identifier string) string {
	return kind + ":" + identifier
}
