package tokit

import "context"

// safeAuthValue is the payload parked under a safe key; only its presence
// matters.
const safeAuthValue = "safe-auth"

// SafeServiceDefault is the service bucket used when a secondary
// authentication call does not name one.
const SafeServiceDefault = "important"

func normalizeSafeService(service string) string {
	if service == "" {
		return SafeServiceDefault
	}
	return service
}

// OpenSafe marks token as secondarily authenticated for service during the
// next ttl seconds. The token must pass a full login check first; the
// caller has already verified whatever stronger credential the service
// demands.
func (e *Engine) OpenSafe(ctx context.Context, token, service string, ttl int64) error {
	if ttl != NeverExpire && ttl <= 0 {
		return ErrInvalidArgument
	}
	if err := e.CheckLogin(ctx, token); err != nil {
		return err
	}
	service = normalizeSafeService(service)

	if err := e.store.Set(ctx, e.safeKey(service, token), safeAuthValue, ttl); err != nil {
		return err
	}
	e.listeners.fire(func(l Listener) {
		l.OnOpenSafe(e.loginType, token, service, ttl)
	})
	return nil
}

// IsSafe reports whether token currently holds secondary authentication
// for service. A token that is not logged in is never safe.
func (e *Engine) IsSafe(ctx context.Context, token, service string) (bool, error) {
	if ok, err := e.IsLogin(ctx, token); err != nil || !ok {
		return false, err
	}
	raw, err := e.store.Get(ctx, e.safeKey(normalizeSafeService(service), token))
	if err != nil {
		return false, err
	}
	return raw == safeAuthValue, nil
}

// CheckSafe fails with [ErrNotSafe] when token does not hold secondary
// authentication for service.
func (e *Engine) CheckSafe(ctx context.Context, token, service string) error {
	ok, err := e.IsSafe(ctx, token, service)
	if err != nil {
		return err
	}
	if !ok {
		return ErrNotSafe
	}
	return nil
}

// SafeTime returns the remaining seconds of token's secondary
// authentication for service, kv.NotValueExpire when none is open.
func (e *Engine) SafeTime(ctx context.Context, token, service string) (int64, error) {
	return e.store.TTL(ctx, e.safeKey(normalizeSafeService(service), token))
}

// CloseSafe withdraws token's secondary authentication for service ahead
// of its natural expiry. Closing an authentication that is not open is a
// no-op.
func (e *Engine) CloseSafe(ctx context.Context, token, service string) error {
	service = normalizeSafeService(service)
	if err := e.store.Delete(ctx, e.safeKey(service, token)); err != nil {
		return err
	}
	e.listeners.fire(func(l Listener) {
		l.OnCloseSafe(e.loginType, token, service)
	})
	return nil
}
