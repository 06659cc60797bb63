// Package service provides the vault's business logic: credential
// verification, user registration, and encryption of stored passwords.
// Persistence is delegated to repository interfaces.
package service

import (
	"context"
	"errors"

	"github.com/passvault-io/passvault/internal/crypto"
	"github.com/passvault-io/passvault/internal/models"
)

// ErrInvalidCredentials is returned when no stored user matches the supplied
// login and password. Wrong login, wrong password and empty password are
// indistinguishable by design.
var ErrInvalidCredentials = errors.New("invalid login or password")

// UserRepository defines the persistence operations required by the
// authentication service.
type UserRepository interface {
	// GetAll returns every stored user with encrypted field envelopes.
	GetAll(ctx context.Context) ([]models.User, error)
	// Add creates a new user record and assigns its id.
	Add(ctx context.Context, u *models.User) error
}

// AuthService verifies credentials against encrypted user records and
// manages the per-user session ciphers.
type AuthService struct {
	users    UserRepository
	sessions *crypto.Sessions
}

// NewAuthService constructs an AuthService using the provided repository and
// session registry.
func NewAuthService(users UserRepository, sessions *crypto.Sessions) *AuthService {
	return &AuthService{users: users, sessions: sessions}
}

// Register creates a new user. All four fields are encrypted under the
// user's own password before anything reaches storage; the passed-in user is
// updated with the storage-assigned id and keeps its plaintext fields.
func (s *AuthService) Register(ctx context.Context, user *models.User) error {
	cipher, err := crypto.New(user.Password)
	if err != nil {
		return err
	}

	record := models.User{}
	if record.Login, err = cipher.EncryptString(user.Login); err != nil {
		return err
	}
	if record.Password, err = cipher.EncryptString(user.Password); err != nil {
		return err
	}
	if record.Name, err = cipher.EncryptString(user.Name); err != nil {
		return err
	}
	if record.Surname, err = cipher.EncryptString(user.Surname); err != nil {
		return err
	}

	if err := s.users.Add(ctx, &record); err != nil {
		return err
	}
	user.ID = record.ID
	return nil
}

// CheckCredentials scans all stored users and attempts to decrypt each
// record's login and password with a cipher built from the candidate
// password. A record matches only when both decrypted fields equal the
// supplied values exactly; the first match wins and its name and surname are
// decrypted for the result. Decryption failures during the scan mean "not
// this record" and are never surfaced.
//
// The scan is O(number of users): the encryption key is derived from the
// password itself, so there is no plaintext login to index by. Duplicate
// logins are possible and resolved by first match.
func (s *AuthService) CheckCredentials(ctx context.Context, login, password string) (*models.User, error) {
	cipher, err := crypto.New(password)
	if err != nil {
		return nil, ErrInvalidCredentials
	}

	users, err := s.users.GetAll(ctx)
	if err != nil {
		return nil, err
	}

	for _, u := range users {
		storedLogin, err := cipher.DecryptString(u.Login)
		if err != nil {
			continue
		}
		storedPassword, err := cipher.DecryptString(u.Password)
		if err != nil {
			continue
		}
		if storedLogin != login || storedPassword != password {
			continue
		}

		name, err := cipher.DecryptString(u.Name)
		if err != nil {
			return nil, err
		}
		surname, err := cipher.DecryptString(u.Surname)
		if err != nil {
			return nil, err
		}
		return &models.User{
			ID:       u.ID,
			Login:    storedLogin,
			Password: storedPassword,
			Name:     name,
			Surname:  surname,
		}, nil
	}

	return nil, ErrInvalidCredentials
}

// Login verifies the credentials and, on success, binds a fresh session
// cipher for the user so later vault operations can decrypt without the raw
// password. A second login for the same user replaces the previous cipher.
func (s *AuthService) Login(ctx context.Context, login, password string) (*models.User, error) {
	user, err := s.CheckCredentials(ctx, login, password)
	if err != nil {
		return nil, err
	}
	if err := s.sessions.Register(user.ID, password); err != nil {
		return nil, err
	}
	return user, nil
}

// Logout drops the user's session cipher.
func (s *AuthService) Logout(userID int64) {
	s.sessions.Evict(userID)
}
