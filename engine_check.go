package tokit

import (
	"context"
	"errors"
	"strconv"
	"time"

	"github.com/tokit-dev/tokit/kv"
)

func formatMillis(ms int64) string {
	return strconv.FormatInt(ms, 10)
}

func parseMillis(s string) (int64, bool) {
	ms, err := strconv.ParseInt(s, 10, 64)
	return ms, err == nil
}

// resolveToken maps token to its identity through the reverse index. It
// fails with exactly one of the four not-logged-in kinds: absent tokens
// (never issued, logged out, or past their hard TTL) report
// [ErrNotLoggedIn]; parked sentinels report [ErrTokenKickedOut] or
// [ErrTokenReplaced]. The idle timeout is checked separately.
func (e *Engine) resolveToken(ctx context.Context, token string) (string, error) {
	if token == "" {
		return "", ErrNotLoggedIn
	}
	raw, err := e.store.Get(ctx, e.tokenKey(token))
	if err != nil {
		return "", err
	}
	switch raw {
	case "":
		return "", ErrNotLoggedIn
	case kickedOutFlag:
		return "", ErrTokenKickedOut
	case replacedFlag:
		return "", ErrTokenReplaced
	}
	return raw, nil
}

// LoginID returns the identity behind token after a full validity check:
// reverse-index resolution, the idle (active) timeout, and the configured
// renewal policies. A token rejected by the idle timeout is cleaned up and
// reported with [ErrTokenExpired]; its hard TTL no longer matters.
func (e *Engine) LoginID(ctx context.Context, token string) (string, error) {
	identity, err := e.resolveToken(ctx, token)
	if err != nil {
		e.metrics.recordCheck(false)
		return "", err
	}

	ok, err := e.checkActivity(ctx, identity, token)
	if err != nil {
		e.metrics.recordCheck(false)
		return "", err
	}
	if !ok {
		e.metrics.recordCheck(false)
		return "", ErrTokenExpired
	}

	if e.cfg.AutoRenew {
		if err := e.renewHardTTL(ctx, identity, token, e.cfg.Timeout); err != nil {
			e.metrics.recordCheck(false)
			return "", err
		}
	}

	e.metrics.recordCheck(true)
	return identity, nil
}

// checkActivity enforces the idle timeout. A token within its window gets
// its last-active stamp refreshed; a token past it is invalidated in full
// and reports false.
func (e *Engine) checkActivity(ctx context.Context, identity, token string) (bool, error) {
	if e.cfg.ActiveTimeout == NeverExpire {
		return true, nil
	}

	raw, err := e.store.Get(ctx, e.lastActiveKey(token))
	if err != nil {
		return false, err
	}
	last, valid := parseMillis(raw)
	now := time.Now().UnixMilli()

	if !valid || now-last > e.cfg.ActiveTimeout*1000 {
		unlock := e.locks.Lock(e.identityLockKey(identity))
		defer unlock()

		if err := e.store.Delete(ctx, e.tokenKey(token)); err != nil {
			return false, err
		}
		if err := e.store.Delete(ctx, e.lastActiveKey(token)); err != nil {
			return false, err
		}
		if err := e.sessions.Delete(ctx, e.sessions.TokenKey(token)); err != nil {
			return false, err
		}
		if err := e.detachTerminal(ctx, identity, token); err != nil {
			return false, err
		}
		e.log.Debug().
			Str("loginType", e.loginType).
			Str("identity", identity).
			Msg("token idle-expired")
		return false, nil
	}

	// Keep the stamp's TTL; only the timestamp moves.
	return true, e.store.Update(ctx, e.lastActiveKey(token), formatMillis(now))
}

// renewHardTTL rewrites the token's hard TTL and drags the satellite keys
// along so none of them outlives the reverse index by less than ttl.
func (e *Engine) renewHardTTL(ctx context.Context, identity, token string, ttl int64) error {
	if err := e.store.UpdateTTL(ctx, e.tokenKey(token), ttl); err != nil {
		return err
	}
	if err := e.store.UpdateTTL(ctx, e.lastActiveKey(token), ttl); err != nil {
		return err
	}
	accountKey := e.sessions.AccountKey(e.loginType, identity)
	if err := e.sessions.EnsureTTLAtLeast(ctx, accountKey, ttl); err != nil {
		return err
	}
	return e.sessions.EnsureTTLAtLeast(ctx, e.sessions.TokenKey(token), ttl)
}

// IsLogin reports whether token currently passes a full validity check.
// Store failures surface as errors, never as false.
func (e *Engine) IsLogin(ctx context.Context, token string) (bool, error) {
	_, err := e.LoginID(ctx, token)
	if err == nil {
		return true, nil
	}
	var coded *Error
	if errors.As(err, &coded) {
		return false, nil
	}
	return false, err
}

// CheckLogin fails with the token's precise not-logged-in kind when token
// does not pass a full validity check.
func (e *Engine) CheckLogin(ctx context.Context, token string) error {
	_, err := e.LoginID(ctx, token)
	return err
}

// RenewTimeout rewrites token's hard TTL to ttl seconds (or NeverExpire)
// regardless of the AutoRenew setting. The token must be live.
func (e *Engine) RenewTimeout(ctx context.Context, token string, ttl int64) error {
	if ttl != NeverExpire && ttl <= 0 {
		return ErrInvalidArgument
	}
	identity, err := e.resolveToken(ctx, token)
	if err != nil {
		return err
	}
	if err := e.renewHardTTL(ctx, identity, token, ttl); err != nil {
		return err
	}
	e.metrics.recordRenewal()
	e.listeners.fire(func(l Listener) {
		l.OnRenewTimeout(e.loginType, identity, token, ttl)
	})
	return nil
}

// TokenTimeout returns token's remaining hard TTL in seconds: kv.NeverExpire
// for a token without expiry, kv.NotValueExpire for an absent one.
func (e *Engine) TokenTimeout(ctx context.Context, token string) (int64, error) {
	return e.store.TTL(ctx, e.tokenKey(token))
}

// TokenActiveTimeout returns the seconds left in token's idle window:
// kv.NeverExpire when the idle check is disabled, kv.NotValueExpire when no
// last-active stamp exists, 0 when the window has already closed.
func (e *Engine) TokenActiveTimeout(ctx context.Context, token string) (int64, error) {
	if e.cfg.ActiveTimeout == NeverExpire {
		return kv.NeverExpire, nil
	}
	raw, err := e.store.Get(ctx, e.lastActiveKey(token))
	if err != nil {
		return 0, err
	}
	last, valid := parseMillis(raw)
	if !valid {
		return kv.NotValueExpire, nil
	}
	remaining := e.cfg.ActiveTimeout - (time.Now().UnixMilli()-last)/1000
	if remaining < 0 {
		return 0, nil
	}
	return remaining, nil
}

// LastActiveTime returns the epoch-millisecond timestamp of token's last
// authenticated access, or kv.NotValueExpire when no stamp exists.
func (e *Engine) LastActiveTime(ctx context.Context, token string) (int64, error) {
	raw, err := e.store.Get(ctx, e.lastActiveKey(token))
	if err != nil {
		return 0, err
	}
	ms, valid := parseMillis(raw)
	if !valid {
		return kv.NotValueExpire, nil
	}
	return ms, nil
}
