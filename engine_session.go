package tokit

import (
	"context"

	"github.com/tokit-dev/tokit/kv"
	"github.com/tokit-dev/tokit/session"
)

// Sessions exposes the engine's session store for persistence calls such
// as Update and UpdateTTL after mutating a session in memory.
func (e *Engine) Sessions() *session.Store {
	return e.sessions
}

// AccountSession returns identity's account session, creating it when
// absent. The account session survives individual logouts until the last
// terminal is gone.
func (e *Engine) AccountSession(ctx context.Context, identity string) (*session.Session, error) {
	if identity == "" {
		return nil, ErrInvalidArgument
	}
	key := e.sessions.AccountKey(e.loginType, identity)
	return e.sessions.GetOrCreate(ctx, key, session.TypeAccount, 0)
}

// TokenSession returns the session bound to one token, creating it when
// absent. The token must be live; the session's lifetime is clamped to the
// token's remaining hard TTL so it cannot outlive the login.
func (e *Engine) TokenSession(ctx context.Context, token string) (*session.Session, error) {
	if _, err := e.resolveToken(ctx, token); err != nil {
		return nil, err
	}
	ttl, err := e.store.TTL(ctx, e.tokenKey(token))
	if err != nil {
		return nil, err
	}
	if ttl == kv.NotValueExpire {
		return nil, ErrNotLoggedIn
	}
	return e.sessions.GetOrCreate(ctx, e.sessions.TokenKey(token), session.TypeToken, ttl)
}

// AnonSession returns the anonymous session under id, creating it when
// absent. Anonymous sessions are keyed by a caller-chosen id and require
// no login.
func (e *Engine) AnonSession(ctx context.Context, id string) (*session.Session, error) {
	if id == "" {
		return nil, ErrInvalidArgument
	}
	return e.sessions.GetOrCreate(ctx, e.sessions.AnonKey(id), session.TypeAnon, 0)
}

// CustomSession returns the caller-defined session under name, creating it
// when absent.
func (e *Engine) CustomSession(ctx context.Context, name string) (*session.Session, error) {
	if name == "" {
		return nil, ErrInvalidArgument
	}
	return e.sessions.GetOrCreate(ctx, e.sessions.CustomKey(name), session.TypeCustom, 0)
}

// SetVar stores a free-standing value under key with the given TTL,
// outside any session.
func (e *Engine) SetVar(ctx context.Context, key, value string, ttl int64) error {
	if key == "" {
		return ErrInvalidArgument
	}
	return e.store.Set(ctx, e.varKey(key), value, ttl)
}

// GetVar returns the free-standing value under key, "" when absent.
func (e *Engine) GetVar(ctx context.Context, key string) (string, error) {
	return e.store.Get(ctx, e.varKey(key))
}

// DeleteVar removes the free-standing value under key.
func (e *Engine) DeleteVar(ctx context.Context, key string) error {
	return e.store.Delete(ctx, e.varKey(key))
}

// VarTTL returns the remaining lifetime of the free-standing value under
// key.
func (e *Engine) VarTTL(ctx context.Context, key string) (int64, error) {
	return e.store.TTL(ctx, e.varKey(key))
}
