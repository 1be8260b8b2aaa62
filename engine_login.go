package tokit

import (
	"context"
	"time"

	"github.com/tokit-dev/tokit/session"
)

// Login authenticates identity into this engine's login type and returns
// the token value representing the new login. The caller has already
// verified credentials; Login only records the result.
//
// The concurrency policy decides what happens to prior logins of the same
// identity: exclusive mode replaces them all, concurrent share mode reuses
// the identity's live token, and plain concurrent mode adds a fresh
// terminal. When MaxLoginCount is exceeded the oldest terminals are kicked
// out.
func (e *Engine) Login(ctx context.Context, identity string, opts ...LoginOption) (string, error) {
	if identity == "" {
		return "", ErrInvalidArgument
	}
	o := applyLoginOptions(opts)

	unlock := e.locks.Lock(e.identityLockKey(identity))
	defer unlock()

	ttl := e.cfg.Timeout
	if o.Timeout != 0 {
		ttl = o.Timeout
	}

	accountKey := e.sessions.AccountKey(e.loginType, identity)
	sess, err := e.sessions.GetOrCreate(ctx, accountKey, session.TypeAccount, ttl)
	if err != nil {
		return "", err
	}

	if !e.cfg.IsConcurrent {
		// Exclusive mode: every prior login is superseded.
		for _, t := range sess.TerminalsByDevice("") {
			if err := e.invalidateToken(ctx, t.TokenValue, replacedFlag); err != nil {
				return "", err
			}
			sess.RemoveTerminal(t.TokenValue)
			e.metrics.recordReplacement()
			e.fireReplaced(identity, t.TokenValue)
		}
	} else if e.cfg.IsShare {
		token, ok, err := e.shareLogin(ctx, sess, identity, o, ttl)
		if err != nil {
			return "", err
		}
		if ok {
			return token, nil
		}
	}

	token := o.Token
	if token == "" {
		token, err = e.newToken(e.loginType, identity, o.Device)
		if err != nil {
			return "", err
		}
	}

	sess.AddTerminal(session.Terminal{
		Index:      sess.NextIndex(),
		TokenValue: token,
		DeviceType: o.Device,
		DeviceID:   o.DeviceID,
		CreateTime: time.Now().UnixMilli(),
		Extra:      o.Extra,
	})

	if err := e.enforceMaxLogin(ctx, sess, identity); err != nil {
		return "", err
	}

	if err := e.store.Set(ctx, e.tokenKey(token), identity, ttl); err != nil {
		return "", err
	}
	if err := e.touchLastActive(ctx, token, ttl); err != nil {
		return "", err
	}
	if err := e.sessions.Update(ctx, sess); err != nil {
		return "", err
	}
	if err := e.sessions.EnsureTTLAtLeast(ctx, accountKey, ttl); err != nil {
		return "", err
	}

	e.metrics.recordLogin()
	e.log.Debug().
		Str("loginType", e.loginType).
		Str("identity", identity).
		Str("device", o.Device).
		Msg("login")
	e.listeners.fire(func(l Listener) {
		l.OnLogin(e.loginType, identity, token, o)
	})
	return token, nil
}

// shareLogin reuses the identity's live token instead of minting one. At
// most one stored token value is ever associated with a shared identity,
// so the first live terminal wins regardless of device type and its device
// fields are refreshed in place. The boolean reports whether a reusable
// token was found; any store failure aborts the login.
func (e *Engine) shareLogin(ctx context.Context, sess *session.Session, identity string, o LoginOptions, ttl int64) (string, bool, error) {
	for _, t := range sess.TerminalsByDevice("") {
		raw, err := e.store.Get(ctx, e.tokenKey(t.TokenValue))
		if err != nil {
			return "", false, err
		}
		if raw != identity {
			continue
		}

		// Same logical login: index and create time are retained.
		term := sess.Terminal(t.TokenValue)
		term.DeviceType = o.Device
		term.DeviceID = o.DeviceID
		if o.Extra != nil {
			term.Extra = o.Extra
		}

		if err := e.store.UpdateTTL(ctx, e.tokenKey(t.TokenValue), ttl); err != nil {
			return "", false, err
		}
		if err := e.touchLastActive(ctx, t.TokenValue, ttl); err != nil {
			return "", false, err
		}
		if err := e.sessions.Update(ctx, sess); err != nil {
			return "", false, err
		}

		e.metrics.recordLogin()
		e.listeners.fire(func(l Listener) {
			l.OnLogin(e.loginType, identity, t.TokenValue, o)
		})
		return t.TokenValue, true, nil
	}
	return "", false, nil
}

// enforceMaxLogin kicks out the lowest-index terminals until the live
// count fits under MaxLoginCount.
func (e *Engine) enforceMaxLogin(ctx context.Context, sess *session.Session, identity string) error {
	if e.cfg.MaxLoginCount <= 0 {
		return nil
	}
	for len(sess.Terminals) > e.cfg.MaxLoginCount {
		oldest := sess.OldestTerminal()
		if oldest == nil {
			return nil
		}
		token := oldest.TokenValue
		if err := e.invalidateToken(ctx, token, kickedOutFlag); err != nil {
			return err
		}
		sess.RemoveTerminal(token)
		e.metrics.recordKickout()
		e.fireKickout(identity, token)
	}
	return nil
}

// touchLastActive stamps the token's last authenticated access with the
// current time. The stamp shares the token's TTL so it cannot outlive it.
func (e *Engine) touchLastActive(ctx context.Context, token string, ttl int64) error {
	now := time.Now().UnixMilli()
	return e.store.Set(ctx, e.lastActiveKey(token), formatMillis(now), ttl)
}

// Logout invalidates token. Logging out a token that is already gone is a
// no-op: logout reports success, not prior state. A token parked on a
// kickout or replace sentinel has its sentinel cleared.
func (e *Engine) Logout(ctx context.Context, token string) error {
	if token == "" {
		return nil
	}

	raw, err := e.store.Get(ctx, e.tokenKey(token))
	if err != nil {
		return err
	}
	switch raw {
	case "":
		return nil
	case kickedOutFlag, replacedFlag:
		return e.store.Delete(ctx, e.tokenKey(token))
	}
	identity := raw

	unlock := e.locks.Lock(e.identityLockKey(identity))
	defer unlock()

	if err := e.store.Delete(ctx, e.tokenKey(token)); err != nil {
		return err
	}
	if err := e.store.Delete(ctx, e.lastActiveKey(token)); err != nil {
		return err
	}
	if err := e.sessions.Delete(ctx, e.sessions.TokenKey(token)); err != nil {
		return err
	}
	if err := e.detachTerminal(ctx, identity, token); err != nil {
		return err
	}

	e.metrics.recordLogout()
	e.log.Debug().
		Str("loginType", e.loginType).
		Str("identity", identity).
		Msg("logout")
	e.listeners.fire(func(l Listener) {
		l.OnLogout(e.loginType, identity, token)
	})
	return nil
}

// LogoutByIdentity invalidates the identity's logins. A non-empty device
// restricts the sweep to that device type; an empty device logs out
// everything and destroys the account session.
func (e *Engine) LogoutByIdentity(ctx context.Context, identity, device string) error {
	if identity == "" {
		return ErrInvalidArgument
	}

	unlock := e.locks.Lock(e.identityLockKey(identity))
	defer unlock()

	accountKey := e.sessions.AccountKey(e.loginType, identity)
	sess, err := e.sessions.Get(ctx, accountKey)
	if err != nil {
		return err
	}
	if sess == nil {
		return nil
	}

	for _, t := range sess.TerminalsByDevice(device) {
		token := t.TokenValue
		if err := e.store.Delete(ctx, e.tokenKey(token)); err != nil {
			return err
		}
		if err := e.store.Delete(ctx, e.lastActiveKey(token)); err != nil {
			return err
		}
		if err := e.sessions.Delete(ctx, e.sessions.TokenKey(token)); err != nil {
			return err
		}
		sess.RemoveTerminal(token)
		e.metrics.recordLogout()
		e.listeners.fire(func(l Listener) {
			l.OnLogout(e.loginType, identity, token)
		})
	}

	if len(sess.Terminals) == 0 {
		if err := e.sessions.Delete(ctx, accountKey); err != nil {
			return err
		}
		e.listeners.fire(func(l Listener) {
			l.OnSessionLogout(accountKey)
		})
		return nil
	}
	return e.sessions.Update(ctx, sess)
}
