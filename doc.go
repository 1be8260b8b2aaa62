// Package tokit provides a session/token based authentication and
// authorization toolkit: it issues opaque tokens to identities, tracks
// multiple concurrent logins per identity, enforces hard-TTL and
// idle-timeout policies, supports kickout/replace semantics, secondary
// ("safe") authentication, account disabling, and a wildcard permission
// and role check layer.
//
// The package is designed for concurrent server workloads: Engine methods
// are safe to call from multiple goroutines after initialization through
// [Builder.Build].
//
// # Architecture boundaries
//
// tokit is the public surface. It exposes [Engine], [Builder], [Config],
// the [Listener] contract, and value types. Storage goes through the kv
// sub-package's abstract store: a process-local timed cache by default, or
// a Redis-backed shared store for multi-process deployments. Session
// payloads live in the session sub-package; permission resolution in the
// permission sub-package.
//
// # What this package must NOT do
//
//   - Verify credentials. The caller authenticates an identity out-of-band
//     and hands the engine an already-authenticated identity value.
//   - Construct transport responses. Every failure is a distinguishable
//     error kind carrying a stable numeric code; mapping to HTTP status
//     codes (or anything else) is the adapter's concern.
//   - Retry. Retrying against the backing store, if desired, belongs to
//     the adapter layer.
package tokit
