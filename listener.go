package tokit

import (
	"sync"
	"sync/atomic"

	"github.com/rs/zerolog"
)

// Listener receives engine lifecycle events. Callbacks run synchronously on
// the goroutine performing the operation, after the state change has been
// persisted; implementations must not block and must not call back into the
// engine method that fired them.
//
// Embed [BaseListener] to implement only the callbacks you care about.
type Listener interface {
	// OnLogin fires after a successful login.
	OnLogin(loginType, identity, token string, opts LoginOptions)
	// OnLogout fires after an explicit logout invalidated a token.
	OnLogout(loginType, identity, token string)
	// OnKickout fires after a token was forcibly invalidated.
	OnKickout(loginType, identity, token string)
	// OnReplaced fires after a token was superseded by a newer login.
	OnReplaced(loginType, identity, token string)
	// OnDisable fires after an identity was banned for a service.
	OnDisable(loginType, identity, service string, level int, ttl int64)
	// OnUntieDisable fires after a ban was lifted.
	OnUntieDisable(loginType, identity, service string)
	// OnOpenSafe fires after secondary authentication was opened.
	OnOpenSafe(loginType, token, service string, ttl int64)
	// OnCloseSafe fires after secondary authentication was closed.
	OnCloseSafe(loginType, token, service string)
	// OnSessionCreate fires when a session object is first persisted.
	OnSessionCreate(sessionID string)
	// OnSessionLogout fires when a session object is destroyed.
	OnSessionLogout(sessionID string)
	// OnRenewTimeout fires after a token's hard TTL was rewritten.
	OnRenewTimeout(loginType, identity, token string, ttl int64)
}

// BaseListener is a no-op Listener. Embed it and override selectively.
type BaseListener struct{}

func (BaseListener) OnLogin(string, string, string, LoginOptions)    {}
func (BaseListener) OnLogout(string, string, string)                 {}
func (BaseListener) OnKickout(string, string, string)                {}
func (BaseListener) OnReplaced(string, string, string)               {}
func (BaseListener) OnDisable(string, string, string, int, int64)    {}
func (BaseListener) OnUntieDisable(string, string, string)           {}
func (BaseListener) OnOpenSafe(string, string, string, int64)        {}
func (BaseListener) OnCloseSafe(string, string, string)              {}
func (BaseListener) OnSessionCreate(string)                          {}
func (BaseListener) OnSessionLogout(string)                          {}
func (BaseListener) OnRenewTimeout(string, string, string, int64)    {}

var _ Listener = BaseListener{}

// ListenerHandle identifies one listener registration for later removal.
type ListenerHandle uint64

type listenerEntry struct {
	handle   ListenerHandle
	listener Listener
}

// listenerRegistry fans events out to registered listeners in registration
// order. Registration and removal are safe concurrently with event firing.
// A panicking listener is contained and logged; it never fails the
// operation that fired the event.
type listenerRegistry struct {
	mu      sync.RWMutex
	entries []listenerEntry
	next    atomic.Uint64
	log     zerolog.Logger
}

func newListenerRegistry(log zerolog.Logger) *listenerRegistry {
	return &listenerRegistry{log: log}
}

// Register adds l and returns a handle to remove it later.
func (r *listenerRegistry) Register(l Listener) (ListenerHandle, error) {
	if l == nil {
		return 0, ErrInvalidArgument
	}
	h := ListenerHandle(r.next.Add(1))
	r.mu.Lock()
	r.entries = append(r.entries, listenerEntry{handle: h, listener: l})
	r.mu.Unlock()
	return h, nil
}

// Unregister removes the registration identified by h. Unknown handles are
// ignored so removal is idempotent.
func (r *listenerRegistry) Unregister(h ListenerHandle) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i, e := range r.entries {
		if e.handle == h {
			r.entries = append(r.entries[:i], r.entries[i+1:]...)
			return
		}
	}
}

// fire invokes fn for each listener in registration order.
func (r *listenerRegistry) fire(fn func(Listener)) {
	r.mu.RLock()
	entries := make([]listenerEntry, len(r.entries))
	copy(entries, r.entries)
	r.mu.RUnlock()

	for _, e := range entries {
		r.fireOne(e, fn)
	}
}

func (r *listenerRegistry) fireOne(e listenerEntry, fn func(Listener)) {
	defer func() {
		if rec := recover(); rec != nil {
			r.log.Warn().
				Uint64("handle", uint64(e.handle)).
				Interface("panic", rec).
				Msg("listener panicked")
		}
	}()
	fn(e.listener)
}
