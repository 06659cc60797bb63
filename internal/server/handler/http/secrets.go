package http

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/passvault-io/passvault/internal/crypto"
	"github.com/passvault-io/passvault/internal/generator"
	"github.com/passvault-io/passvault/internal/middleware"
	"github.com/passvault-io/passvault/internal/models"
	"github.com/passvault-io/passvault/internal/service"
)

// VaultService defines the stored-password operations required by the VaultHandler.
type VaultService interface {
	// List returns the user's secrets with decrypted fields.
	List(ctx context.Context, userID int64) ([]models.Secret, error)
	// Add encrypts and stores a new secret for the user.
	Add(ctx context.Context, userID int64, secret *models.Secret) error
	// Update re-encrypts and rewrites an owned secret.
	Update(ctx context.Context, userID int64, secret *models.Secret) error
	// Delete removes an owned secret by id.
	Delete(ctx context.Context, userID, id int64) error
}

// VaultHandler handles HTTP requests for the password vault. All routes are
// mounted behind the bearer-token middleware, so the owner id always comes
// from the verified token, never from the request body.
type VaultHandler struct {
	VaultService VaultService
}

// vaultError maps service errors to HTTP responses. A missing session means
// the cached cipher is gone and the client must log in again.
func vaultError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, crypto.ErrNoSession):
		writeError(w, http.StatusUnauthorized, "session expired, log in again")
	case errors.Is(err, service.ErrNotFound):
		writeError(w, http.StatusNotFound, "password not found")
	case errors.Is(err, crypto.ErrAuthenticationFailed):
		writeError(w, http.StatusInternalServerError, "decryption failed")
	default:
		writeError(w, http.StatusInternalServerError, "internal error")
	}
}

// Get handles GET /api/passwords/get and returns all of the caller's
// entries with plaintext fields.
func (h *VaultHandler) Get(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserIDFromContext(r.Context())

	secrets, err := h.VaultService.List(r.Context(), userID)
	if err != nil {
		vaultError(w, err)
		return
	}
	if secrets == nil {
		secrets = []models.Secret{}
	}
	writeJSON(w, http.StatusOK, secrets)
}

// Add handles POST /api/passwords/add.
func (h *VaultHandler) Add(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserIDFromContext(r.Context())

	var secret models.Secret
	if err := json.NewDecoder(r.Body).Decode(&secret); err != nil {
		writeError(w, http.StatusBadRequest, "invalid body")
		return
	}

	if err := h.VaultService.Add(r.Context(), userID, &secret); err != nil {
		vaultError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, secret)
}

// Update handles POST /api/passwords/update. Updating an entry that does
// not exist or is owned by someone else yields 404.
func (h *VaultHandler) Update(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserIDFromContext(r.Context())

	var secret models.Secret
	if err := json.NewDecoder(r.Body).Decode(&secret); err != nil || secret.ID == 0 {
		writeError(w, http.StatusBadRequest, "invalid body")
		return
	}

	if err := h.VaultService.Update(r.Context(), userID, &secret); err != nil {
		vaultError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, secret)
}

// Delete handles POST /api/passwords/delete with a JSON body carrying the id.
func (h *VaultHandler) Delete(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserIDFromContext(r.Context())

	var req struct {
		ID int64 `json:"id"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.ID == 0 {
		writeError(w, http.StatusBadRequest, "invalid body")
		return
	}

	if err := h.VaultService.Delete(r.Context(), userID, req.ID); err != nil {
		vaultError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "password deleted"})
}

// Generate handles GET /api/passwords/generate?length=N and returns a fresh
// random password. The password is generated only, never stored or logged.
func (h *VaultHandler) Generate(w http.ResponseWriter, r *http.Request) {
	length := generator.DefaultLength
	if raw := r.URL.Query().Get("length"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid length")
			return
		}
		length = n
	}

	password, err := generator.New(length)
	if err != nil {
		if errors.Is(err, generator.ErrInvalidLength) {
			writeError(w, http.StatusBadRequest, "invalid length")
			return
		}
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"password": password})
}
