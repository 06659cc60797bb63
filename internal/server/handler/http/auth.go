// Package http provides HTTP handlers for user authentication and the
// password vault API.
package http

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/passvault-io/passvault/internal/middleware"
	"github.com/passvault-io/passvault/internal/models"
	"github.com/passvault-io/passvault/internal/service"
)

// AuthService defines the authentication operations required by the HTTP handlers.
type AuthService interface {
	// Register creates a new user with fields encrypted under their password.
	Register(ctx context.Context, user *models.User) error
	// Login verifies credentials and binds a session cipher for the user.
	Login(ctx context.Context, login, password string) (*models.User, error)
	// Logout evicts the user's session cipher.
	Logout(userID int64)
}

// TokenIssuer signs a bearer token for an authenticated user.
type TokenIssuer interface {
	Issue(user *models.User) (string, error)
}

// AuthHandler handles HTTP requests for registration, login and logout.
type AuthHandler struct {
	// AuthService performs the underlying authentication operations.
	AuthService AuthService
	// Tokens issues bearer tokens on successful login.
	Tokens TokenIssuer
}

// credentialsRequest is the JSON payload shared by registration and login.
type credentialsRequest struct {
	Login    string `json:"login"`
	Password string `json:"password"`
	Name     string `json:"name"`
	Surname  string `json:"surname"`
}

// Register handles POST /api/authentication/register.
// It expects a JSON body with non-empty "login" and "password"; name and
// surname are optional. All fields are encrypted under the user's own
// password before they reach storage.
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req credentialsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Login == "" || req.Password == "" {
		writeError(w, http.StatusBadRequest, "invalid request")
		return
	}

	user := models.User{
		Login:    req.Login,
		Password: req.Password,
		Name:     req.Name,
		Surname:  req.Surname,
	}
	if err := h.AuthService.Register(r.Context(), &user); err != nil {
		writeError(w, http.StatusInternalServerError, "failed to register user")
		return
	}

	writeJSON(w, http.StatusCreated, map[string]any{"id": user.ID, "message": "user registered"})
}

// Login handles POST /api/authentication/login.
// On success it responds with a signed bearer token and the user's plaintext
// profile. Wrong credentials are answered with 401 and no detail about
// which part was wrong.
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req credentialsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Login == "" || req.Password == "" {
		writeError(w, http.StatusBadRequest, "invalid request")
		return
	}

	user, err := h.AuthService.Login(r.Context(), req.Login, req.Password)
	if err != nil {
		if errors.Is(err, service.ErrInvalidCredentials) {
			writeError(w, http.StatusUnauthorized, "invalid login or password")
			return
		}
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}

	token, err := h.Tokens.Issue(user)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{"token": token, "user": user})
}

// Logout handles POST /api/authentication/logout. It evicts the caller's
// session cipher; the bearer token itself is stateless and simply stops
// being presented.
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserIDFromContext(r.Context())
	h.AuthService.Logout(userID)
	writeJSON(w, http.StatusOK, map[string]string{"message": "logged out"})
}
