package tokit

import (
	"context"
	"errors"
)

// invalidateToken parks token on a termination sentinel and drops its
// satellite keys. The sentinel overwrites the reverse index in place so it
// inherits the token's remaining TTL; an already-expired token stays gone.
func (e *Engine) invalidateToken(ctx context.Context, token, flag string) error {
	if err := e.store.Update(ctx, e.tokenKey(token), flag); err != nil {
		return err
	}
	if err := e.store.Delete(ctx, e.lastActiveKey(token)); err != nil {
		return err
	}
	return e.sessions.Delete(ctx, e.sessions.TokenKey(token))
}

// detachTerminal removes token's terminal from identity's account session,
// destroying the session when it was the last one.
func (e *Engine) detachTerminal(ctx context.Context, identity, token string) error {
	accountKey := e.sessions.AccountKey(e.loginType, identity)
	sess, err := e.sessions.Get(ctx, accountKey)
	if err != nil {
		return err
	}
	if sess == nil || !sess.RemoveTerminal(token) {
		return nil
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

func (e *Engine) fireKickout(identity, token string) {
	e.log.Info().
		Str("loginType", e.loginType).
		Str("identity", identity).
		Msg("kickout")
	e.listeners.fire(func(l Listener) {
		l.OnKickout(e.loginType, identity, token)
	})
}

func (e *Engine) fireReplaced(identity, token string) {
	e.listeners.fire(func(l Listener) {
		l.OnReplaced(e.loginType, identity, token)
	})
}

// KickoutByToken forcibly invalidates one token. Subsequent checks of the
// token fail with [ErrTokenKickedOut] until its original TTL runs out.
// Kicking a token that is not live is a no-op.
func (e *Engine) KickoutByToken(ctx context.Context, token string) error {
	if token == "" {
		return nil
	}

	raw, err := e.store.Get(ctx, e.tokenKey(token))
	if err != nil {
		return err
	}
	if raw == "" || raw == kickedOutFlag || raw == replacedFlag {
		return nil
	}
	identity := raw

	unlock := e.locks.Lock(e.identityLockKey(identity))
	defer unlock()

	if err := e.invalidateToken(ctx, token, kickedOutFlag); err != nil {
		return err
	}
	if err := e.detachTerminal(ctx, identity, token); err != nil {
		return err
	}
	e.metrics.recordKickout()
	e.fireKickout(identity, token)
	return nil
}

// Kickout forcibly invalidates identity's logins. A non-empty device
// restricts the sweep to that device type. Kicking an identity with no
// matching logins is a no-op.
func (e *Engine) Kickout(ctx context.Context, identity, device string) error {
	return e.terminateByIdentity(ctx, identity, device, kickedOutFlag)
}

// Replace supersedes identity's logins as if a newer exclusive login had
// displaced them: subsequent checks fail with [ErrTokenReplaced].
func (e *Engine) Replace(ctx context.Context, identity, device string) error {
	return e.terminateByIdentity(ctx, identity, device, replacedFlag)
}

func (e *Engine) terminateByIdentity(ctx context.Context, identity, device, flag string) error {
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
		if err := e.invalidateToken(ctx, t.TokenValue, flag); err != nil {
			return err
		}
		sess.RemoveTerminal(t.TokenValue)
		if flag == kickedOutFlag {
			e.metrics.recordKickout()
			e.fireKickout(identity, t.TokenValue)
		} else {
			e.metrics.recordReplacement()
			e.fireReplaced(identity, t.TokenValue)
		}
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

// IsTerminated reports whether err is one of the forcible-termination
// outcomes, as opposed to a plain not-logged-in.
func IsTerminated(err error) bool {
	return errors.Is(err, ErrTokenKickedOut) || errors.Is(err, ErrTokenReplaced)
}
