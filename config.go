package tokit

import (
	"errors"
	"strings"

	"github.com/tokit-dev/tokit/kv"
)

// NeverExpire mirrors kv.NeverExpire for callers configuring timeouts.
const NeverExpire = kv.NeverExpire

// DefaultLoginType is the login namespace used when none is configured.
const DefaultLoginType = "login"

// Config defines a public type used by tokit APIs.
//
// Config instances are intended to be configured during initialization and
// then treated as immutable unless documented otherwise.
type Config struct {
	// TokenName prefixes every persisted key and names the token in
	// adapter layers (header/cookie name).
	TokenName string `koanf:"token-name"`

	// TokenStyle selects the token generation strategy; see the
	// TokenStyle* constants.
	TokenStyle string `koanf:"token-style"`

	// Timeout is the hard token TTL in seconds; NeverExpire disables it.
	Timeout int64 `koanf:"timeout"`

	// ActiveTimeout is the idle window in seconds, measured from the last
	// authenticated access and independent of Timeout; NeverExpire
	// disables the idle check.
	ActiveTimeout int64 `koanf:"active-timeout"`

	// IsConcurrent allows an identity to hold several live tokens. When
	// false a new login replaces every prior one.
	IsConcurrent bool `koanf:"is-concurrent"`

	// IsShare makes concurrent logins reuse a single token value instead
	// of minting a new one per login. Only meaningful with IsConcurrent.
	IsShare bool `koanf:"is-share"`

	// MaxLoginCount caps the live terminals per identity; the oldest is
	// kicked out past the cap. Zero or negative disables the cap.
	MaxLoginCount int `koanf:"max-login-count"`

	// AutoRenew extends the hard TTL back to Timeout on each successful
	// token check.
	AutoRenew bool `koanf:"auto-renew"`

	// DataRefreshPeriod is the local timed-cache sweep interval in
	// seconds, re-read before each cycle; <= 0 at startup disables the
	// sweeper.
	DataRefreshPeriod int64 `koanf:"data-refresh-period"`

	// MinSweepInterval is the floor substituted when DataRefreshPeriod
	// drops to <= 0 while the sweeper is running.
	MinSweepInterval int64 `koanf:"min-sweep-interval"`

	// JWTSecret signs tokens of style "jwt". Ignored by other styles.
	JWTSecret string `koanf:"jwt-secret"`
}

func defaultConfig() Config {
	return Config{
		TokenName:         "tokit",
		TokenStyle:        TokenStyleUUID,
		Timeout:           30 * 24 * 60 * 60,
		ActiveTimeout:     NeverExpire,
		IsConcurrent:      true,
		IsShare:           false,
		MaxLoginCount:     12,
		AutoRenew:         true,
		DataRefreshPeriod: 30,
		MinSweepInterval:  1,
	}
}

// DefaultConfig returns the configuration the engine starts from before
// any overrides.
func DefaultConfig() Config {
	return defaultConfig()
}

// Validate describes the validate operation and its observable behavior.
//
// Validate may return an error when a field combination cannot produce a
// working engine. It never mutates the receiver.
func (c *Config) Validate() error {
	if c.TokenName == "" {
		return errors.New("TokenName must not be empty")
	}
	if strings.Contains(c.TokenName, ":") {
		return errors.New("TokenName must not contain ':'")
	}

	switch c.TokenStyle {
	case TokenStyleUUID, TokenStyleSimpleUUID, TokenStyleRandom32,
		TokenStyleRandom64, TokenStyleRandom128, TokenStyleTik,
		TokenStyleULID, TokenStyleJWT:
		// valid
	default:
		return errors.New("unsupported TokenStyle")
	}

	if c.Timeout != NeverExpire && c.Timeout <= 0 {
		return errors.New("Timeout must be > 0 or NeverExpire")
	}
	if c.ActiveTimeout != NeverExpire && c.ActiveTimeout <= 0 {
		return errors.New("ActiveTimeout must be > 0 or NeverExpire")
	}
	if c.IsShare && !c.IsConcurrent {
		return errors.New("IsShare requires IsConcurrent")
	}
	if c.MinSweepInterval <= 0 {
		return errors.New("MinSweepInterval must be > 0")
	}
	if c.TokenStyle == TokenStyleJWT && len(c.JWTSecret) < 32 {
		return errors.New("TokenStyle jwt requires a JWTSecret of at least 32 bytes")
	}

	return nil
}
