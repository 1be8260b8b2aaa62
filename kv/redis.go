package kv

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
)

// Redis adapts a go-redis client to the [Store] contract, mapping the
// contract's TTL sentinels onto Redis native semantics (-1 no expiry,
// -2 missing key).
type Redis struct {
	client redis.UniversalClient
}

var _ Store = (*Redis)(nil)

// NewRedis creates a Redis-backed [Store] over the given client. The caller
// retains ownership of the client and its lifecycle.
func NewRedis(client redis.UniversalClient) *Redis {
	return &Redis{client: client}
}

// Get returns the value for key, or "" when the key is absent.
func (r *Redis) Get(ctx context.Context, key string) (string, error) {
	val, err := r.client.Get(ctx, key).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return "", nil
		}
		return "", fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	return val, nil
}

// Set stores value under key honoring the TTL sentinel contract.
func (r *Redis) Set(ctx context.Context, key, value string, ttl int64) error {
	if ttl == 0 || ttl <= NotValueExpire {
		return nil
	}

	var expiration time.Duration
	if ttl != NeverExpire {
		expiration = time.Duration(ttl) * time.Second
	}
	if err := r.client.Set(ctx, key, value, expiration).Err(); err != nil {
		return fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	return nil
}

// Update overwrites an existing key keeping its TTL. Absent keys stay absent.
func (r *Redis) Update(ctx context.Context, key, value string) error {
	if err := r.client.SetXX(ctx, key, value, redis.KeepTTL).Err(); err != nil {
		return fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	return nil
}

// Delete removes key unconditionally.
func (r *Redis) Delete(ctx context.Context, key string) error {
	if err := r.client.Del(ctx, key).Err(); err != nil {
		return fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	return nil
}

// TTL returns the remaining lifetime of key in seconds or a sentinel.
func (r *Redis) TTL(ctx context.Context, key string) (int64, error) {
	d, err := r.client.TTL(ctx, key).Result()
	if err != nil {
		return NotValueExpire, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	// go-redis surfaces the raw -1/-2 replies as bare negative durations.
	switch d {
	case -1:
		return NeverExpire, nil
	case -2:
		return NotValueExpire, nil
	}
	return int64(d / time.Second), nil
}

// UpdateTTL rewrites the expiry of key: NeverExpire persists it, a positive
// ttl re-expires it, anything else removes the key immediately.
func (r *Redis) UpdateTTL(ctx context.Context, key string, ttl int64) error {
	var err error
	switch {
	case ttl == NeverExpire:
		err = r.client.Persist(ctx, key).Err()
	case ttl > 0:
		err = r.client.Expire(ctx, key, time.Duration(ttl)*time.Second).Err()
	default:
		err = r.client.Del(ctx, key).Err()
	}
	if err != nil {
		return fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	return nil
}

// Search scans keys matching prefix and keyword, sorts them, and returns
// the requested page. This is an admin-grade O(n) operation and must not be
// used on request hot paths.
func (r *Redis) Search(ctx context.Context, prefix, keyword string, start, size int, sortAsc bool) ([]string, error) {
	pattern := prefix + "*" + keyword + "*"
	if keyword == "" {
		pattern = prefix + "*"
	}

	var (
		cursor uint64
		keys   []string
	)
	for {
		batch, next, err := r.client.Scan(ctx, cursor, pattern, 1000).Result()
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrUnavailable, err)
		}
		for _, key := range batch {
			if strings.HasPrefix(key, prefix) {
				keys = append(keys, key)
			}
		}
		cursor = next
		if cursor == 0 {
			break
		}
	}

	sort.Strings(keys)
	if !sortAsc {
		for i, j := 0, len(keys)-1; i < j; i, j = i+1, j-1 {
			keys[i], keys[j] = keys[j], keys[i]
		}
	}
	return pageKeys(keys, start, size), nil
}

// Ping returns a point-in-time availability check and its latency.
func (r *Redis) Ping(ctx context.Context) (time.Duration, error) {
	start := time.Now()
	if err := r.client.Ping(ctx).Err(); err != nil {
		return time.Since(start), fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	return time.Since(start), nil
}
