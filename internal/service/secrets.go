package service

import (
	"context"
	"errors"

	"github.com/passvault-io/passvault/internal/crypto"
	"github.com/passvault-io/passvault/internal/models"
	"github.com/passvault-io/passvault/internal/repository"
)

// ErrNotFound is returned when a secret does not exist or is not owned by
// the requesting user.
var ErrNotFound = errors.New("secret not found")

// SecretRepository defines the persistence operations needed by the VaultService.
// Implementations must scope every operation to the owning user id.
type SecretRepository interface {
	// GetAllByUser retrieves all secrets belonging to the specified user.
	GetAllByUser(ctx context.Context, userID int64) ([]models.Secret, error)
	// Add inserts a new secret and assigns its id and timestamps.
	Add(ctx context.Context, s *models.Secret) error
	// Update rewrites an existing secret owned by s.UserID.
	Update(ctx context.Context, s *models.Secret) error
	// Delete removes a secret owned by the given user.
	Delete(ctx context.Context, userID, id int64) error
}

// VaultService stores and retrieves password entries, encrypting the
// sensitive fields with the owner's session cipher on the way in and
// decrypting them on the way out. Without a registered session every
// operation fails with crypto.ErrNoSession and the caller must
// re-authenticate.
type VaultService struct {
	repo     SecretRepository
	sessions *crypto.Sessions
}

// NewVaultService constructs a VaultService with the provided repository and
// session registry.
func NewVaultService(repo SecretRepository, sessions *crypto.Sessions) *VaultService {
	return &VaultService{repo: repo, sessions: sessions}
}

// protect encrypts the sensitive fields of a secret in place, each in its
// own envelope. URL and timestamps stay readable.
func protect(c *crypto.Cipher, s *models.Secret) error {
	var err error
	if s.Login, err = c.EncryptString(s.Login); err != nil {
		return err
	}
	if s.Password, err = c.EncryptString(s.Password); err != nil {
		return err
	}
	if s.Name, err = c.EncryptString(s.Name); err != nil {
		return err
	}
	if s.Notes, err = c.EncryptString(s.Notes); err != nil {
		return err
	}
	return nil
}

// reveal decrypts the sensitive fields of a secret in place. A tag failure
// on an owned record indicates a stale or corrupted session key and is
// surfaced as crypto.ErrAuthenticationFailed.
func reveal(c *crypto.Cipher, s *models.Secret) error {
	var err error
	if s.Login, err = c.DecryptString(s.Login); err != nil {
		return err
	}
	if s.Password, err = c.DecryptString(s.Password); err != nil {
		return err
	}
	if s.Name, err = c.DecryptString(s.Name); err != nil {
		return err
	}
	if s.Notes, err = c.DecryptString(s.Notes); err != nil {
		return err
	}
	return nil
}

// List returns all of the user's secrets with plaintext fields.
func (s *VaultService) List(ctx context.Context, userID int64) ([]models.Secret, error) {
	cipher, err := s.sessions.Get(userID)
	if err != nil {
		return nil, err
	}

	secrets, err := s.repo.GetAllByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	for i := range secrets {
		if err := reveal(cipher, &secrets[i]); err != nil {
			return nil, err
		}
	}
	return secrets, nil
}

// Add encrypts and stores a new secret for the user. The returned secret
// carries the storage-assigned id and timestamps with plaintext fields.
func (s *VaultService) Add(ctx context.Context, userID int64, secret *models.Secret) error {
	cipher, err := s.sessions.Get(userID)
	if err != nil {
		return err
	}

	record := *secret
	record.UserID = userID
	if err := protect(cipher, &record); err != nil {
		return err
	}
	if err := s.repo.Add(ctx, &record); err != nil {
		return err
	}

	secret.ID = record.ID
	secret.UserID = userID
	secret.CreatedAt = record.CreatedAt
	secret.UpdatedAt = record.UpdatedAt
	return nil
}

// Update re-encrypts and rewrites an existing secret. The update is scoped
// to the owner; a secret owned by someone else reports ErrNotFound.
func (s *VaultService) Update(ctx context.Context, userID int64, secret *models.Secret) error {
	cipher, err := s.sessions.Get(userID)
	if err != nil {
		return err
	}

	record := *secret
	record.UserID = userID
	if err := protect(cipher, &record); err != nil {
		return err
	}
	if err := s.repo.Update(ctx, &record); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrNotFound
		}
		return err
	}

	secret.UserID = userID
	secret.UpdatedAt = record.UpdatedAt
	return nil
}

// Delete removes the user's secret by id.
func (s *VaultService) Delete(ctx context.Context, userID, id int64) error {
	if err := s.repo.Delete(ctx, userID, id); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrNotFound
		}
		return err
	}
	return nil
}
