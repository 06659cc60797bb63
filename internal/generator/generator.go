// Package generator produces random passwords for the vault's generate endpoint.
package generator

import (
	"crypto/rand"
	"errors"
	"math/big"
)

const (
	// DefaultLength is used when no length is requested.
	DefaultLength = 16
	// MaxLength bounds a single generated password.
	MaxLength = 128

	alphabet = "abcdefghijklmnopqrstuvwxyz" +
		"ABCDEFGHIJKLMNOPQRSTUVWXYZ" +
		"0123456789" +
		"!@#$%^&*()-_=+[]{};:,.<>?"
)

// ErrInvalidLength is returned for non-positive or oversized lengths.
var ErrInvalidLength = errors.New("invalid password length")

// New returns a random password of the given length drawn from a mixed
// letter/digit/symbol alphabet, using the secure random source.
func New(length int) (string, error) {
	if length <= 0 || length > MaxLength {
		return "", ErrInvalidLength
	}

	out := make([]byte, length)
	max := big.NewInt(int64(len(alphabet)))
	for i := range out {
		n, err := rand.Int(rand.Reader, max)
		if err != nil {
			return "", err
		}
		out[i] = alphabet[n.Int64()]
	}
	return string(out), nil
}
