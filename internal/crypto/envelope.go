// Package crypto implements password-based envelope encryption for vault
// records and the per-session registry of user ciphers.
//
// Every envelope is self-contained: a fresh random salt and nonce are
// generated on each encryption and stored alongside the ciphertext, so the
// only input needed to decrypt is the passphrase itself.
package crypto

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"errors"
	"fmt"

	"golang.org/x/crypto/pbkdf2"
)

const (
	// KeySize is the AES-256 key length in bytes.
	KeySize = 32
	// SaltSize is the length of the random KDF salt prepended to each envelope.
	SaltSize = 16
	// NonceSize is the GCM nonce length (96 bits, standard for GCM).
	NonceSize = 12
	// TagSize is the GCM authentication tag length (128 bits).
	TagSize = 16

	// Iterations is the fixed PBKDF2-HMAC-SHA256 iteration count, chosen to
	// slow offline brute force while keeping interactive login responsive.
	Iterations = 100000
)

var (
	// ErrEmptyPassphrase is returned when a cipher is requested for an empty passphrase.
	ErrEmptyPassphrase = errors.New("passphrase must not be empty")
	// ErrMalformedEnvelope is returned when an envelope cannot be decoded or
	// is shorter than salt+nonce+tag.
	ErrMalformedEnvelope = errors.New("malformed envelope")
	// ErrAuthenticationFailed is returned when the authentication tag does not
	// verify. A wrong passphrase and tampered data are intentionally
	// indistinguishable.
	ErrAuthenticationFailed = errors.New("authentication failed")
)

// Cipher encrypts and decrypts byte strings under a single passphrase.
// The passphrase is held in memory for the lifetime of the instance; the
// derived key is recomputed per operation because every envelope carries
// its own salt.
type Cipher struct {
	passphrase string
}

// New returns a Cipher bound to the given passphrase.
func New(passphrase string) (*Cipher, error) {
	if passphrase == "" {
		return nil, ErrEmptyPassphrase
	}
	return &Cipher{passphrase: passphrase}, nil
}

// deriveKey stretches the passphrase and salt into an AES-256 key.
func deriveKey(passphrase string, salt []byte) []byte {
	return pbkdf2.Key([]byte(passphrase), salt, Iterations, KeySize, sha256.New)
}

// Encrypt seals plaintext into a base64-encoded envelope laid out as
// salt(16) ‖ nonce(12) ‖ ciphertext ‖ tag(16). Salt and nonce are freshly
// random on every call, so encrypting the same plaintext twice yields
// different envelopes.
func (c *Cipher) Encrypt(plaintext []byte) (string, error) {
	salt := make([]byte, SaltSize)
	if _, err := rand.Read(salt); err != nil {
		return "", fmt.Errorf("generate salt: %w", err)
	}
	nonce := make([]byte, NonceSize)
	if _, err := rand.Read(nonce); err != nil {
		return "", fmt.Errorf("generate nonce: %w", err)
	}

	aead, err := newGCM(deriveKey(c.passphrase, salt))
	if err != nil {
		return "", err
	}

	blob := make([]byte, 0, SaltSize+NonceSize+len(plaintext)+TagSize)
	blob = append(blob, salt...)
	blob = append(blob, nonce...)
	blob = aead.Seal(blob, nonce, plaintext, nil)

	return base64.StdEncoding.EncodeToString(blob), nil
}

// Decrypt opens a base64-encoded envelope produced by Encrypt. The key is
// re-derived from the cipher's passphrase and the salt embedded in the
// envelope. A failed tag check reports ErrAuthenticationFailed regardless
// of cause.
func (c *Cipher) Decrypt(encoded string) ([]byte, error) {
	blob, err := base64.StdEncoding.DecodeString(encoded)
	if err != nil {
		return nil, ErrMalformedEnvelope
	}
	if len(blob) < SaltSize+NonceSize+TagSize {
		return nil, ErrMalformedEnvelope
	}

	salt := blob[:SaltSize]
	nonce := blob[SaltSize : SaltSize+NonceSize]
	sealed := blob[SaltSize+NonceSize:]

	aead, err := newGCM(deriveKey(c.passphrase, salt))
	if err != nil {
		return nil, err
	}

	plaintext, err := aead.Open(nil, nonce, sealed, nil)
	if err != nil {
		return nil, ErrAuthenticationFailed
	}
	return plaintext, nil
}

// EncryptString is a convenience wrapper over Encrypt for text fields.
func (c *Cipher) EncryptString(plaintext string) (string, error) {
	return c.Encrypt([]byte(plaintext))
}

// DecryptString is a convenience wrapper over Decrypt for text fields.
func (c *Cipher) DecryptString(encoded string) (string, error) {
	b, err := c.Decrypt(encoded)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

func newGCM(key []byte) (cipher.AEAD, error) {
	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, fmt.Errorf("create cipher: %w", err)
	}
	aead, err := cipher.NewGCM(block)
	if err != nil {
		return nil, fmt.Errorf("create AEAD: %w", err)
	}
	return aead, nil
}
