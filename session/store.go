package session

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/tokit-dev/tokit/kv"
)

// Store persists [Session] payloads through a [kv.Store] using the
// deterministic key layout of the engine. It owns session serialization and
// the atomic get-or-create path; it does not own the backing store's
// lifetime.
type Store struct {
	kv         kv.Store
	tokenName  string
	defaultTTL func() int64

	mu       sync.Mutex
	onCreate func(sessionID string)
}

// NewStore creates a session store. tokenName prefixes every key;
// defaultTTL supplies the TTL (seconds) used when a caller passes 0.
func NewStore(store kv.Store, tokenName string, defaultTTL func() int64) *Store {
	return &Store{
		kv:         store,
		tokenName:  tokenName,
		defaultTTL: defaultTTL,
	}
}

// SetCreateHook registers a callback fired after a session is first
// persisted. The engine uses it to emit session-create events.
func (s *Store) SetCreateHook(fn func(sessionID string)) {
	s.onCreate = fn
}

// AccountKey returns the storage key of the account session for
// (loginType, identity).
func (s *Store) AccountKey(loginType, identity string) string {
	return s.tokenName + ":login:session:" + loginType + ":" + identity
}

// TokenKey returns the storage key of the token session for token.
func (s *Store) TokenKey(token string) string {
	return s.tokenName + ":login:token-session:" + token
}

// AnonKey returns the storage key of an anonymous session, which is not
// tied to any login.
func (s *Store) AnonKey(id string) string {
	return s.tokenName + ":anon:" + id
}

// CustomKey returns the storage key of a caller-defined session namespace.
func (s *Store) CustomKey(name string) string {
	return s.tokenName + ":custom:" + name
}

// Get returns the session stored under key, or nil when absent.
func (s *Store) Get(ctx context.Context, key string) (*Session, error) {
	raw, err := s.kv.Get(ctx, key)
	if err != nil {
		return nil, err
	}
	if raw == "" {
		return nil, nil
	}

	var sess Session
	if err := json.Unmarshal([]byte(raw), &sess); err != nil {
		return nil, fmt.Errorf("decode session %s: %w", key, err)
	}
	return &sess, nil
}

// GetOrCreate returns the session under key, creating and persisting an
// empty one of the given type when absent. A ttl of 0 selects the store's
// default TTL. Creation is serialized so two concurrent callers observe the
// same session.
func (s *Store) GetOrCreate(ctx context.Context, key, typ string, ttl int64) (*Session, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, err := s.Get(ctx, key)
	if err != nil {
		return nil, err
	}
	if sess != nil {
		return sess, nil
	}

	sess = newSession(key, typ)
	if err := s.Save(ctx, sess, ttl); err != nil {
		return nil, err
	}
	if s.onCreate != nil {
		s.onCreate(key)
	}
	return sess, nil
}

// Save persists sess under its ID with the given TTL (0 selects the store
// default).
func (s *Store) Save(ctx context.Context, sess *Session, ttl int64) error {
	if ttl == 0 {
		ttl = s.defaultTTL()
	}
	raw, err := json.Marshal(sess)
	if err != nil {
		return fmt.Errorf("encode session %s: %w", sess.ID, err)
	}
	return s.kv.Set(ctx, sess.ID, string(raw), ttl)
}

// Update rewrites the stored payload of sess without touching its TTL. A
// session whose backing key already expired is not resurrected.
func (s *Store) Update(ctx context.Context, sess *Session) error {
	raw, err := json.Marshal(sess)
	if err != nil {
		return fmt.Errorf("encode session %s: %w", sess.ID, err)
	}
	return s.kv.Update(ctx, sess.ID, string(raw))
}

// Delete removes the session under key.
func (s *Store) Delete(ctx context.Context, key string) error {
	return s.kv.Delete(ctx, key)
}

// TTL returns the remaining lifetime of the session under key.
func (s *Store) TTL(ctx context.Context, key string) (int64, error) {
	return s.kv.TTL(ctx, key)
}

// UpdateTTL rewrites the expiry of the session under key.
func (s *Store) UpdateTTL(ctx context.Context, key string, ttl int64) error {
	return s.kv.UpdateTTL(ctx, key, ttl)
}

// EnsureTTLAtLeast extends the session's lifetime to at least ttl seconds.
// Sessions without expiry and absent sessions are left untouched.
func (s *Store) EnsureTTLAtLeast(ctx context.Context, key string, ttl int64) error {
	current, err := s.kv.TTL(ctx, key)
	if err != nil {
		return err
	}
	if current == kv.NeverExpire || current == kv.NotValueExpire {
		return nil
	}
	if ttl == kv.NeverExpire || current < ttl {
		return s.kv.UpdateTTL(ctx, key, ttl)
	}
	return nil
}
