package kv

import (
	"context"
	"sort"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog"
)

// DefaultMinSweepInterval is the floor applied when the sweep interval
// provider returns a non-positive period while the sweeper is running.
const DefaultMinSweepInterval = time.Second

// MemoryOptions configures a [Memory] store.
//
// MemoryOptions instances are intended to be configured during initialization
// and then treated as immutable unless documented otherwise.
type MemoryOptions struct {
	// SweepInterval is re-read before each sweep cycle and returns the
	// period in seconds. If nil, or if it returns <= 0 at construction
	// time, the background sweeper never starts.
	SweepInterval func() int64

	// MinSweepInterval clamps a non-positive mid-run period. Zero selects
	// DefaultMinSweepInterval.
	MinSweepInterval time.Duration

	// Logger receives sweep diagnostics. Nil disables logging.
	Logger *zerolog.Logger
}

// Memory is a lazy-expiring timed cache over two parallel maps: one for
// values, one for absolute expiry timestamps in epoch milliseconds. Reads
// evict expired keys on contact; a best-effort background sweep evicts the
// rest. It backs the engine when no shared store is configured.
type Memory struct {
	mu      sync.RWMutex
	data    map[string]string
	expires map[string]int64

	interval func() int64
	minSweep time.Duration
	log      zerolog.Logger

	running  atomic.Bool
	stopCh   chan struct{}
	stopOnce sync.Once
}

var _ Store = (*Memory)(nil)

// NewMemory creates a [Memory] store and, when the configured interval is
// positive, starts its background sweeper.
func NewMemory(opts MemoryOptions) *Memory {
	minSweep := opts.MinSweepInterval
	if minSweep <= 0 {
		minSweep = DefaultMinSweepInterval
	}
	logger := zerolog.Nop()
	if opts.Logger != nil {
		logger = *opts.Logger
	}

	m := &Memory{
		data:     make(map[string]string),
		expires:  make(map[string]int64),
		interval: opts.SweepInterval,
		minSweep: minSweep,
		log:      logger,
		stopCh:   make(chan struct{}),
	}
	m.startSweeper()
	return m
}

func nowMillis() int64 {
	return time.Now().UnixMilli()
}

// Get returns the live value for key, evicting it first if expired.
func (m *Memory) Get(_ context.Context, key string) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.evictIfExpiredLocked(key)
	return m.data[key], nil
}

// Set stores value with the given TTL. A ttl of 0 or <= NotValueExpire is a
// no-op per the store contract.
func (m *Memory) Set(_ context.Context, key, value string, ttl int64) error {
	if ttl == 0 || ttl <= NotValueExpire {
		return nil
	}

	expireAt := NeverExpire
	if ttl != NeverExpire {
		expireAt = nowMillis() + ttl*1000
	}

	m.mu.Lock()
	m.data[key] = value
	m.expires[key] = expireAt
	m.mu.Unlock()
	return nil
}

// Update overwrites the value only while the key has a live TTL entry.
func (m *Memory) Update(_ context.Context, key, value string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.ttlLocked(key) == NotValueExpire {
		return nil
	}
	m.data[key] = value
	return nil
}

// Delete removes key from both maps unconditionally.
func (m *Memory) Delete(_ context.Context, key string) error {
	m.mu.Lock()
	delete(m.data, key)
	delete(m.expires, key)
	m.mu.Unlock()
	return nil
}

// TTL returns the remaining lifetime of key in seconds, evicting it first
// if expired.
func (m *Memory) TTL(_ context.Context, key string) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.evictIfExpiredLocked(key)
	return m.ttlLocked(key), nil
}

// UpdateTTL rewrites the expiry timestamp of an existing entry. A key with
// no data entry is left untouched, so no orphan expiry record is created;
// the remote store's expire command is a no-op on a missing key too.
func (m *Memory) UpdateTTL(_ context.Context, key string, ttl int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.data[key]; !ok {
		return nil
	}
	if ttl == NeverExpire {
		m.expires[key] = NeverExpire
		return nil
	}
	m.expires[key] = nowMillis() + ttl*1000
	return nil
}

// Search returns live keys matching prefix+keyword, sorted and paged.
func (m *Memory) Search(_ context.Context, prefix, keyword string, start, size int, sortAsc bool) ([]string, error) {
	m.mu.Lock()
	matched := make([]string, 0)
	now := nowMillis()
	for key := range m.data {
		if expireAt, ok := m.expires[key]; ok && expireAt != NeverExpire && expireAt < now {
			continue
		}
		if !strings.HasPrefix(key, prefix) {
			continue
		}
		if keyword != "" && !strings.Contains(key[len(prefix):], keyword) {
			continue
		}
		matched = append(matched, key)
	}
	m.mu.Unlock()

	sort.Strings(matched)
	if !sortAsc {
		for i, j := 0, len(matched)-1; i < j; i, j = i+1, j-1 {
			matched[i], matched[j] = matched[j], matched[i]
		}
	}
	return pageKeys(matched, start, size), nil
}

// Running reports whether the background sweeper is active.
func (m *Memory) Running() bool {
	return m.running.Load()
}

// Stop cancels the background sweeper. It is safe to call more than once
// and safe to call on a store whose sweeper never started.
func (m *Memory) Stop() {
	m.stopOnce.Do(func() {
		m.running.Store(false)
		close(m.stopCh)
	})
}

// A key is evicted iff an expiry is recorded, it is not the NeverExpire
// sentinel, and it is strictly in the past.
func (m *Memory) evictIfExpiredLocked(key string) {
	expireAt, ok := m.expires[key]
	if !ok || expireAt == NeverExpire {
		return
	}
	if expireAt < nowMillis() {
		delete(m.data, key)
		delete(m.expires, key)
	}
}

func (m *Memory) ttlLocked(key string) int64 {
	expireAt, ok := m.expires[key]
	if !ok {
		return NotValueExpire
	}
	if expireAt == NeverExpire {
		return NeverExpire
	}
	remaining := expireAt - nowMillis()
	if remaining < 0 {
		return NotValueExpire
	}
	return remaining / 1000
}

func (m *Memory) startSweeper() {
	if m.interval == nil {
		return
	}
	first := m.interval()
	if first <= 0 {
		return
	}
	m.running.Store(true)
	go m.sweepLoop(time.Duration(first) * time.Second)
}

func (m *Memory) sweepLoop(first time.Duration) {
	timer := time.NewTimer(first)
	defer timer.Stop()

	for {
		select {
		case <-m.stopCh:
			return
		case <-timer.C:
			evicted := m.sweep()
			if evicted > 0 {
				m.log.Debug().Int("evicted", evicted).Msg("timed cache sweep")
			}

			next := time.Duration(m.interval()) * time.Second
			if next <= 0 {
				// A mid-run non-positive period would otherwise spin the
				// loop at full speed.
				m.log.Warn().Dur("min", m.minSweep).Msg("sweep interval dropped to <= 0, clamping")
				next = m.minSweep
			}
			timer.Reset(next)
		}
	}
}

func (m *Memory) sweep() int {
	now := nowMillis()

	m.mu.Lock()
	defer m.mu.Unlock()

	evicted := 0
	for key, expireAt := range m.expires {
		if expireAt != NeverExpire && expireAt < now {
			delete(m.data, key)
			delete(m.expires, key)
			evicted++
		}
	}
	return evicted
}
