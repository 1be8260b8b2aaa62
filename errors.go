package tokit

import (
	"errors"

	"github.com/tokit-dev/tokit/kv"
)

// Error is the single failure kind of the toolkit: an error tagged with a
// stable numeric code. Callers branch with errors.Is against the exported
// sentinels; adapter layers map Code to transport responses.
type Error struct {
	// Code is stable across releases and safe to expose to clients.
	Code int

	// Message is a short human-readable description.
	Message string
}

// Error implements the error interface.
func (e *Error) Error() string {
	return e.Message
}

// The four not-logged-in reasons are mutually exclusive: a token check
// fails with exactly one of ErrNotLoggedIn, ErrTokenExpired,
// ErrTokenKickedOut, or ErrTokenReplaced.
var (
	// ErrNotLoggedIn reports a token that is absent from the store: never
	// issued, logged out, or past its hard TTL.
	ErrNotLoggedIn = &Error{Code: 11011, Message: "token not valid or not provided"}
	// ErrTokenExpired reports a token rejected by the idle (active)
	// timeout while its hard TTL still holds.
	ErrTokenExpired = &Error{Code: 11012, Message: "token expired by inactivity"}
	// ErrTokenKickedOut reports a token forcibly invalidated by kickout.
	ErrTokenKickedOut = &Error{Code: 11015, Message: "token was kicked out"}
	// ErrTokenReplaced reports a token superseded by a newer login under
	// the exclusive-login policy.
	ErrTokenReplaced = &Error{Code: 11016, Message: "token was replaced by a newer login"}

	// ErrNotRole reports a failed role check.
	ErrNotRole = &Error{Code: 11041, Message: "required role not held"}
	// ErrNotPermission reports a failed permission check.
	ErrNotPermission = &Error{Code: 11051, Message: "required permission not held"}
	// ErrDisabled reports an identity banned for a service.
	ErrDisabled = &Error{Code: 11061, Message: "account disabled for this service"}
	// ErrNotSafe reports a missing or expired secondary authentication.
	ErrNotSafe = &Error{Code: 11071, Message: "secondary authentication required"}

	// ErrEngineNotReady reports use of an engine that was not built.
	ErrEngineNotReady = &Error{Code: 10001, Message: "engine not initialized"}
	// ErrInvalidArgument reports a malformed call such as an empty
	// identity or a nil listener registration.
	ErrInvalidArgument = &Error{Code: 10002, Message: "invalid argument"}
	// ErrConfigLoad reports a configuration file that could not be read,
	// parsed, or validated. It is fatal at startup: once a config path was
	// given there is no silent fallback to defaults.
	ErrConfigLoad = &Error{Code: 10031, Message: "configuration load failed"}
	// ErrStoreUnavailable is the code CodeOf maps backing-store transport
	// failures to. Engine methods surface those failures wrapped around
	// [kv.ErrUnavailable], not around this sentinel.
	ErrStoreUnavailable = &Error{Code: 10041, Message: "backing store unavailable"}
	// ErrNoPermissionProvider reports a permission or role check on an
	// engine built without a data provider.
	ErrNoPermissionProvider = &Error{Code: 10042, Message: "no permission data provider configured"}
)

// CodeOf returns the stable numeric code of err, unwrapping as needed, or
// 0 when err carries none. Backing-store transport failures map to
// [ErrStoreUnavailable]'s code.
func CodeOf(err error) int {
	var e *Error
	if errors.As(err, &e) {
		return e.Code
	}
	if errors.Is(err, kv.ErrUnavailable) {
		return ErrStoreUnavailable.Code
	}
	return 0
}
