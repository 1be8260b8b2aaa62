// Package kv defines the key-value storage contract the token engine is
// built on, together with its two concrete forms: a process-local timed
// cache ([Memory]) and a Redis-backed shared store ([Redis]).
//
// All TTL values are expressed in seconds. Two sentinel values are part of
// the contract: [NeverExpire] marks a key with no expiry, and
// [NotValueExpire] marks a key that is absent or already logically expired.
// Every read path treats an expired-but-not-yet-swept key as absent.
package kv

import (
	"context"
	"errors"
)

const (
	// NeverExpire marks a key that carries no expiry.
	NeverExpire int64 = -1

	// NotValueExpire marks an absent or already logically expired key.
	NotValueExpire int64 = -2
)

// ErrUnavailable wraps transport or backend failures of a remote store.
// Absent keys are never reported through it.
var ErrUnavailable = errors.New("kv store unavailable")

// Store is the abstract durable (or in-memory) map the engine persists
// through. Implementations must be safe for concurrent use.
//
// Absent keys are reported as ("", nil) by Get and as NotValueExpire by TTL;
// errors are reserved for backend failures.
type Store interface {
	// Get returns the live value for key, or "" when absent or expired.
	Get(ctx context.Context, key string) (string, error)

	// Set stores value under key with the given TTL in seconds. A ttl of 0
	// or <= NotValueExpire is a no-op; NeverExpire stores without expiry.
	Set(ctx context.Context, key, value string, ttl int64) error

	// Update overwrites the value of an existing live key without touching
	// its expiry. Absent or expired keys are left untouched.
	Update(ctx context.Context, key, value string) error

	// Delete removes key unconditionally.
	Delete(ctx context.Context, key string) error

	// TTL returns the remaining lifetime of key in seconds, NeverExpire for
	// keys without expiry, or NotValueExpire when the key is absent.
	TTL(ctx context.Context, key string) (int64, error)

	// UpdateTTL rewrites the expiry of key. NeverExpire removes the expiry;
	// 0 or <= NotValueExpire expires the key immediately. No data is created.
	UpdateTTL(ctx context.Context, key string, ttl int64) error

	// Search returns live keys beginning with prefix whose remainder
	// contains keyword, sorted by key, paged by start/size. A negative size
	// returns everything from start onward.
	Search(ctx context.Context, prefix, keyword string, start, size int, sortAsc bool) ([]string, error)
}

func pageKeys(keys []string, start, size int) []string {
	if start < 0 {
		start = 0
	}
	if start >= len(keys) {
		return []string{}
	}
	end := len(keys)
	if size >= 0 && start+size < end {
		end = start + size
	}
	return keys[start:end]
}
