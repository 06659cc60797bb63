package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/passvault-io/passvault/internal/crypto"
	"github.com/passvault-io/passvault/internal/models"
	"github.com/passvault-io/passvault/internal/repository"
)

// fakeSecretRepo is an in-memory, owner-scoped SecretRepository.
type fakeSecretRepo struct {
	secrets map[int64]models.Secret
	nextID  int64
}

func newFakeSecretRepo() *fakeSecretRepo {
	return &fakeSecretRepo{secrets: make(map[int64]models.Secret)}
}

func (f *fakeSecretRepo) GetAllByUser(ctx context.Context, userID int64) ([]models.Secret, error) {
	var out []models.Secret
	for _, s := range f.secrets {
		if s.UserID == userID {
			out = append(out, s)
		}
	}
	return out, nil
}

func (f *fakeSecretRepo) Add(ctx context.Context, s *models.Secret) error {
	f.nextID++
	s.ID = f.nextID
	now := time.Now().UTC()
	s.CreatedAt = now
	s.UpdatedAt = now
	f.secrets[s.ID] = *s
	return nil
}

func (f *fakeSecretRepo) Update(ctx context.Context, s *models.Secret) error {
	existing, ok := f.secrets[s.ID]
	if !ok || existing.UserID != s.UserID {
		return repository.ErrNotFound
	}
	s.CreatedAt = existing.CreatedAt
	s.UpdatedAt = time.Now().UTC()
	f.secrets[s.ID] = *s
	return nil
}

func (f *fakeSecretRepo) Delete(ctx context.Context, userID, id int64) error {
	s, ok := f.secrets[id]
	if !ok || s.UserID != userID {
		return repository.ErrNotFound
	}
	delete(f.secrets, id)
	return nil
}

func testSecret() *models.Secret {
	return &models.Secret{
		Login:    "site-login",
		Password: "site-password",
		Name:     "example.com account",
		URL:      "https://example.com",
		Notes:    "rotate quarterly",
	}
}

func TestVault_AddListRoundTrip(t *testing.T) {
	repo := newFakeSecretRepo()
	sessions := crypto.NewSessions()
	require.NoError(t, sessions.Register(1, "pw1"))
	svc := NewVaultService(repo, sessions)

	secret := testSecret()
	require.NoError(t, svc.Add(context.Background(), 1, secret))
	assert.NotZero(t, secret.ID)
	assert.Equal(t, "site-login", secret.Login, "caller copy stays plaintext")

	// at rest, sensitive fields are envelopes and url is readable
	stored := repo.secrets[secret.ID]
	assert.NotEqual(t, "site-login", stored.Login)
	assert.NotEqual(t, "site-password", stored.Password)
	assert.NotEqual(t, "example.com account", stored.Name)
	assert.NotEqual(t, "rotate quarterly", stored.Notes)
	assert.Equal(t, "https://example.com", stored.URL)

	listed, err := svc.List(context.Background(), 1)
	require.NoError(t, err)
	require.Len(t, listed, 1)
	assert.Equal(t, "site-login", listed[0].Login)
	assert.Equal(t, "site-password", listed[0].Password)
	assert.Equal(t, "example.com account", listed[0].Name)
	assert.Equal(t, "rotate quarterly", listed[0].Notes)
}

func TestVault_NoSession(t *testing.T) {
	svc := NewVaultService(newFakeSecretRepo(), crypto.NewSessions())

	err := svc.Add(context.Background(), 1, testSecret())
	assert.ErrorIs(t, err, crypto.ErrNoSession)

	_, err = svc.List(context.Background(), 1)
	assert.ErrorIs(t, err, crypto.ErrNoSession)

	err = svc.Update(context.Background(), 1, testSecret())
	assert.ErrorIs(t, err, crypto.ErrNoSession)
}

func TestVault_CrossUserCipherFails(t *testing.T) {
	repo := newFakeSecretRepo()
	sessions := crypto.NewSessions()
	require.NoError(t, sessions.Register(1, "pw1"))
	require.NoError(t, sessions.Register(2, "pw2"))
	svc := NewVaultService(repo, sessions)

	require.NoError(t, svc.Add(context.Background(), 1, testSecret()))

	// force user 1's rows under user 2's cipher; the tag check must fail
	for id, s := range repo.secrets {
		s.UserID = 2
		repo.secrets[id] = s
	}
	_, err := svc.List(context.Background(), 2)
	assert.ErrorIs(t, err, crypto.ErrAuthenticationFailed)
}

func TestVault_Update(t *testing.T) {
	repo := newFakeSecretRepo()
	sessions := crypto.NewSessions()
	require.NoError(t, sessions.Register(1, "pw1"))
	svc := NewVaultService(repo, sessions)

	secret := testSecret()
	require.NoError(t, svc.Add(context.Background(), 1, secret))

	secret.Password = "rotated-password"
	require.NoError(t, svc.Update(context.Background(), 1, secret))

	listed, err := svc.List(context.Background(), 1)
	require.NoError(t, err)
	require.Len(t, listed, 1)
	assert.Equal(t, "rotated-password", listed[0].Password)
}

func TestVault_UpdateNotOwned(t *testing.T) {
	repo := newFakeSecretRepo()
	sessions := crypto.NewSessions()
	require.NoError(t, sessions.Register(1, "pw1"))
	require.NoError(t, sessions.Register(2, "pw2"))
	svc := NewVaultService(repo, sessions)

	secret := testSecret()
	require.NoError(t, svc.Add(context.Background(), 1, secret))

	err := svc.Update(context.Background(), 2, secret)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestVault_Delete(t *testing.T) {
	repo := newFakeSecretRepo()
	sessions := crypto.NewSessions()
	require.NoError(t, sessions.Register(1, "pw1"))
	svc := NewVaultService(repo, sessions)

	secret := testSecret()
	require.NoError(t, svc.Add(context.Background(), 1, secret))

	// delete is owner-scoped even without a session cipher
	assert.ErrorIs(t, svc.Delete(context.Background(), 2, secret.ID), ErrNotFound)
	require.NoError(t, svc.Delete(context.Background(), 1, secret.ID))
	assert.ErrorIs(t, svc.Delete(context.Background(), 1, secret.ID), ErrNotFound)
}
