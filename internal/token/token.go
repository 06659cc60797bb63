// Package token issues and verifies the signed bearer tokens that carry a
// user's identity between requests. Tokens are HS256 JWTs signed with a
// single process-wide secret injected at startup; verification is pure and
// needs no server-side session storage.
package token

import (
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/passvault-io/passvault/internal/models"
)

// appName is embedded in every token's "app" claim.
const appName = "passvault"

// ErrInvalidToken is returned when a token is malformed or its signature
// does not verify against the configured secret.
var ErrInvalidToken = errors.New("invalid token")

// Claims is the claim set carried by a login token. Tokens have no expiry
// claim: the source of truth for ending a session is evicting its cipher,
// so Verify checks signature and structure only.
type Claims struct {
	UserID  string `json:"id"`
	Name    string `json:"name"`
	Surname string `json:"surname"`
	App     string `json:"app"`
	jwt.RegisteredClaims
}

// Service signs and verifies login tokens with a process-wide secret.
// The secret must never be logged or exposed through any endpoint.
type Service struct {
	secret []byte
}

// NewService returns a token Service signing with the given secret.
func NewService(secret string) *Service {
	return &Service{secret: []byte(secret)}
}

// Issue builds and signs a token for an authenticated user. The user's id,
// display name and surname are embedded as claims along with the issue time.
func (s *Service) Issue(user *models.User) (string, error) {
	claims := Claims{
		UserID:  strconv.FormatInt(user.ID, 10),
		Name:    user.Name,
		Surname: user.Surname,
		App:     appName,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:  "login",
			IssuedAt: jwt.NewNumericDate(time.Now()),
			ID:       uuid.New().String(),
		},
	}

	tok := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := tok.SignedString(s.secret)
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}
	return signed, nil
}

// Verify checks the token's structure and signature and returns the embedded
// user id. Any failure is reported as ErrInvalidToken; no claim detail leaks
// to the caller.
func (s *Service) Verify(tokenString string) (int64, error) {
	claims := &Claims{}
	tok, err := jwt.ParseWithClaims(
		tokenString,
		claims,
		func(t *jwt.Token) (any, error) {
			if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
			}
			return s.secret, nil
		},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
	)
	if err != nil || !tok.Valid {
		return 0, ErrInvalidToken
	}

	userID, err := strconv.ParseInt(claims.UserID, 10, 64)
	if err != nil {
		return 0, ErrInvalidToken
	}
	return userID, nil
}
