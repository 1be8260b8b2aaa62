package tokit

import (
	"context"
	"strconv"
)

// DisableServiceLogin is the service bucket used when a disable call does
// not name one. Disabling it bans the identity from logging in at all.
const DisableServiceLogin = "login"

// NotDisableLevel is reported by [Engine.DisableLevel] for an identity
// that is not disabled for the queried service.
const NotDisableLevel = -2

func normalizeService(service string) string {
	if service == "" {
		return DisableServiceLogin
	}
	return service
}

// Disable bans identity from service at the given severity level for ttl
// seconds (NeverExpire bans indefinitely). Levels start at 1; a new ban
// overwrites any existing one for the same service. Disabling does not
// terminate live logins; combine with [Engine.Kickout] for that.
func (e *Engine) Disable(ctx context.Context, identity, service string, level int, ttl int64) error {
	if identity == "" || level < 1 {
		return ErrInvalidArgument
	}
	if ttl != NeverExpire && ttl <= 0 {
		return ErrInvalidArgument
	}
	service = normalizeService(service)

	if err := e.store.Set(ctx, e.disableKey(service, identity), strconv.Itoa(level), ttl); err != nil {
		return err
	}
	e.log.Info().
		Str("loginType", e.loginType).
		Str("identity", identity).
		Str("service", service).
		Int("level", level).
		Msg("disable")
	e.listeners.fire(func(l Listener) {
		l.OnDisable(e.loginType, identity, service, level, ttl)
	})
	return nil
}

// IsDisabled reports whether identity is banned from service at severity
// level or above.
func (e *Engine) IsDisabled(ctx context.Context, identity, service string, level int) (bool, error) {
	current, err := e.DisableLevel(ctx, identity, service)
	if err != nil {
		return false, err
	}
	return current != NotDisableLevel && current >= level, nil
}

// DisableLevel returns the severity of identity's ban for service, or
// [NotDisableLevel] when no ban exists.
func (e *Engine) DisableLevel(ctx context.Context, identity, service string) (int, error) {
	raw, err := e.store.Get(ctx, e.disableKey(normalizeService(service), identity))
	if err != nil {
		return NotDisableLevel, err
	}
	if raw == "" {
		return NotDisableLevel, nil
	}
	level, err := strconv.Atoi(raw)
	if err != nil {
		return NotDisableLevel, nil
	}
	return level, nil
}

// CheckDisable fails with [ErrDisabled] when identity is banned from
// service at severity level or above.
func (e *Engine) CheckDisable(ctx context.Context, identity, service string, level int) error {
	banned, err := e.IsDisabled(ctx, identity, service, level)
	if err != nil {
		return err
	}
	if banned {
		return ErrDisabled
	}
	return nil
}

// UntieDisable lifts identity's ban for service. Lifting a ban that does
// not exist is a no-op.
func (e *Engine) UntieDisable(ctx context.Context, identity, service string) error {
	if identity == "" {
		return ErrInvalidArgument
	}
	service = normalizeService(service)

	if err := e.store.Delete(ctx, e.disableKey(service, identity)); err != nil {
		return err
	}
	e.listeners.fire(func(l Listener) {
		l.OnUntieDisable(e.loginType, identity, service)
	})
	return nil
}

// DisableTime returns the remaining seconds of identity's ban for service:
// kv.NeverExpire for an indefinite ban, kv.NotValueExpire when no ban
// exists.
func (e *Engine) DisableTime(ctx context.Context, identity, service string) (int64, error) {
	return e.store.TTL(ctx, e.disableKey(normalizeService(service), identity))
}
