package internal

import (
	"crypto/rand"
	"math/big"
	"strings"
)

const randomAlphabet = "0123456789abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ"

// RandomString returns n characters of cryptographically random base62
// token material.
func RandomString(n int) (string, error) {
	var b strings.Builder
	b.Grow(n)

	max := big.NewInt(int64(len(randomAlphabet)))
	for i := 0; i < n; i++ {
		idx, err := rand.Int(rand.Reader, max)
		if err != nil {
			return "", err
		}
		b.WriteByte(randomAlphabet[idx.Int64()])
	}
	return b.String(), nil
}
