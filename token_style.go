package tokit

import (
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/oklog/ulid/v2"

	"github.com/tokit-dev/tokit/internal"
)

// Token generation strategies selectable through Config.TokenStyle.
const (
	// TokenStyleUUID produces a canonical random UUID.
	TokenStyleUUID = "uuid"
	// TokenStyleSimpleUUID produces a UUID with the dashes stripped.
	TokenStyleSimpleUUID = "simple-uuid"
	// TokenStyleRandom32 produces 32 characters of random base62 material.
	TokenStyleRandom32 = "random-32"
	// TokenStyleRandom64 produces 64 characters of random base62 material.
	TokenStyleRandom64 = "random-64"
	// TokenStyleRandom128 produces 128 characters of random base62 material.
	TokenStyleRandom128 = "random-128"
	// TokenStyleTik produces the structured 2_14_16 "tik" format.
	TokenStyleTik = "tik"
	// TokenStyleULID produces a lexicographically sortable ULID.
	TokenStyleULID = "ulid"
	// TokenStyleJWT produces an HS256-signed token embedding login type,
	// identity, and device. The engine still keeps server-side state for
	// it; the style only changes the token's shape.
	TokenStyleJWT = "jwt"
)

// tokenFactory mints a fresh token value for one login.
type tokenFactory func(loginType, identity, device string) (string, error)

func newTokenFactory(cfg Config) (tokenFactory, error) {
	switch cfg.TokenStyle {
	case TokenStyleUUID:
		return func(_, _, _ string) (string, error) {
			return uuid.NewString(), nil
		}, nil
	case TokenStyleSimpleUUID:
		return func(_, _, _ string) (string, error) {
			return strings.ReplaceAll(uuid.NewString(), "-", ""), nil
		}, nil
	case TokenStyleRandom32:
		return randomTokenFactory(32), nil
	case TokenStyleRandom64:
		return randomTokenFactory(64), nil
	case TokenStyleRandom128:
		return randomTokenFactory(128), nil
	case TokenStyleTik:
		return tikTokenFactory, nil
	case TokenStyleULID:
		return func(_, _, _ string) (string, error) {
			return ulid.Make().String(), nil
		}, nil
	case TokenStyleJWT:
		secret := []byte(cfg.JWTSecret)
		return func(loginType, identity, device string) (string, error) {
			return jwtToken(secret, loginType, identity, device)
		}, nil
	default:
		return nil, fmt.Errorf("unsupported token style %q", cfg.TokenStyle)
	}
}

func randomTokenFactory(length int) tokenFactory {
	return func(_, _, _ string) (string, error) {
		return internal.RandomString(length)
	}
}

// tik tokens: three random base62 segments of 2, 14, and 16 characters
// joined by underscores with a double-underscore suffix.
func tikTokenFactory(_, _, _ string) (string, error) {
	a, err := internal.RandomString(2)
	if err != nil {
		return "", err
	}
	b, err := internal.RandomString(14)
	if err != nil {
		return "", err
	}
	c, err := internal.RandomString(16)
	if err != nil {
		return "", err
	}
	return a + "_" + b + "_" + c + "__", nil
}

func jwtToken(secret []byte, loginType, identity, device string) (string, error) {
	rnd, err := internal.RandomString(16)
	if err != nil {
		return "", err
	}

	claims := jwt.MapClaims{
		"loginType": loginType,
		"loginId":   identity,
		"device":    device,
		"rn":        rnd,
		"iat":       time.Now().Unix(),
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(secret)
}
