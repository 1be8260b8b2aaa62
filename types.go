package tokit

// LoginOptions carries the per-call knobs of [Engine.Login]. Construct it
// through the LoginOption functions; the zero value means "default device,
// default TTL, mint a fresh token".
type LoginOptions struct {
	// Device is the device type bucket of this login, e.g. "web" or "app".
	Device string

	// DeviceID identifies the concrete device instance within Device.
	DeviceID string

	// Token, when non-empty, is used verbatim instead of minting a new
	// token value. The caller owns uniqueness.
	Token string

	// Timeout overrides the configured hard TTL for this login only, in
	// seconds. Zero means use the configured value.
	Timeout int64

	// Extra is copied into the terminal record and travels with it.
	Extra map[string]any

	// LastingCookie is advisory metadata for adapter layers rendering the
	// token into a cookie. The engine records it and nothing more.
	LastingCookie bool
}

// LoginOption mutates a LoginOptions value.
type LoginOption func(*LoginOptions)

// WithDevice sets the device type bucket of the login.
func WithDevice(device string) LoginOption {
	return func(o *LoginOptions) {
		o.Device = device
	}
}

// WithDeviceID sets the concrete device instance identifier.
func WithDeviceID(id string) LoginOption {
	return func(o *LoginOptions) {
		o.DeviceID = id
	}
}

// WithToken pins the token value instead of minting one.
func WithToken(token string) LoginOption {
	return func(o *LoginOptions) {
		o.Token = token
	}
}

// WithTimeout overrides the hard TTL of this login, in seconds.
func WithTimeout(seconds int64) LoginOption {
	return func(o *LoginOptions) {
		o.Timeout = seconds
	}
}

// WithExtra attaches arbitrary metadata to the login's terminal record.
func WithExtra(extra map[string]any) LoginOption {
	return func(o *LoginOptions) {
		o.Extra = extra
	}
}

// WithLastingCookie marks the login for a persistent cookie in adapters.
func WithLastingCookie(lasting bool) LoginOption {
	return func(o *LoginOptions) {
		o.LastingCookie = lasting
	}
}

const defaultDevice = "DEF"

func applyLoginOptions(opts []LoginOption) LoginOptions {
	var o LoginOptions
	for _, opt := range opts {
		opt(&o)
	}
	if o.Device == "" {
		o.Device = defaultDevice
	}
	return o
}
