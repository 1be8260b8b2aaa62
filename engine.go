package tokit

import (
	"github.com/rs/zerolog"

	"github.com/tokit-dev/tokit/internal"
	"github.com/tokit-dev/tokit/kv"
	"github.com/tokit-dev/tokit/permission"
	"github.com/tokit-dev/tokit/session"
)

// Reverse-index sentinel payloads. A token key holding one of these no
// longer resolves to an identity; it reports why the token died until the
// key's original TTL runs out.
const (
	kickedOutFlag = "kicked-out"
	replacedFlag  = "replaced"
)

// Engine is the toolkit's entry point: one login-type namespace bound to a
// configuration, a backing store, and the session, permission, listener,
// and metrics plumbing around it. Build one through [Builder].
//
// Engine instances are intended to be configured during initialization and
// then treated as immutable unless documented otherwise. All methods are
// safe for concurrent use.
type Engine struct {
	cfg       Config
	loginType string

	store     kv.Store
	sessions  *session.Store
	evaluator *permission.Evaluator
	listeners *listenerRegistry
	metrics   *Metrics
	newToken  tokenFactory
	locks     internal.KeyedMutex
	log       zerolog.Logger

	// ownedMemory is non-nil when Build created the default in-process
	// store; Close stops its sweeper.
	ownedMemory *kv.Memory
}

// Config returns a copy of the engine's configuration.
func (e *Engine) Config() Config {
	return e.cfg
}

// LoginType returns the login namespace this engine operates in.
func (e *Engine) LoginType() string {
	return e.loginType
}

// Metrics returns the engine's counters.
func (e *Engine) Metrics() *Metrics {
	return e.metrics
}

// RegisterListener subscribes l to engine events and returns a handle for
// [Engine.UnregisterListener]. A nil l is rejected.
func (e *Engine) RegisterListener(l Listener) (ListenerHandle, error) {
	return e.listeners.Register(l)
}

// UnregisterListener removes a previously registered listener. Unknown
// handles are ignored.
func (e *Engine) UnregisterListener(h ListenerHandle) {
	e.listeners.Unregister(h)
}

// Close releases resources the engine owns. Currently that is only the
// default in-process store's background sweeper; engines built on a
// caller-supplied store close nothing.
func (e *Engine) Close() error {
	if e.ownedMemory != nil {
		e.ownedMemory.Stop()
	}
	return nil
}

// tokenKey is the reverse index from a token value to its identity (or a
// termination sentinel).
func (e *Engine) tokenKey(token string) string {
	return e.cfg.TokenName + ":login:token:" + token
}

// lastActiveKey stores the epoch-millisecond timestamp of the token's last
// authenticated access.
func (e *Engine) lastActiveKey(token string) string {
	return e.cfg.TokenName + ":login:last-active:" + token
}

func (e *Engine) safeKey(service, token string) string {
	return e.cfg.TokenName + ":safe:" + service + ":" + token
}

func (e *Engine) disableKey(service, identity string) string {
	return e.cfg.TokenName + ":disable:" + e.loginType + ":" + service + ":" + identity
}

func (e *Engine) varKey(key string) string {
	return e.cfg.TokenName + ":var:" + key
}

// identityLockKey scopes the per-identity mutation lock to this engine's
// login type.
func (e *Engine) identityLockKey(identity string) string {
	return e.loginType + ":" + identity
}
