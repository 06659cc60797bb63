package http

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/passvault-io/passvault/internal/crypto"
	"github.com/passvault-io/passvault/internal/middleware"
	"github.com/passvault-io/passvault/internal/models"
	"github.com/passvault-io/passvault/internal/service"
)

// authenticatedRequest builds a request whose context carries the user id,
// as the bearer middleware would.
func authenticatedRequest(t *testing.T, method, target string, body io.Reader, userID int64) *http.Request {
	t.Helper()
	req := httptest.NewRequest(method, target, body)
	return req.WithContext(middleware.WithUserID(req.Context(), userID))
}

// fakeVaultService records calls and returns preconfigured results.
type fakeVaultService struct {
	receivedUserID int64
	receivedSecret *models.Secret
	deletedID      int64

	listResult []models.Secret
	err        error
}

func (f *fakeVaultService) List(ctx context.Context, userID int64) ([]models.Secret, error) {
	f.receivedUserID = userID
	return f.listResult, f.err
}

func (f *fakeVaultService) Add(ctx context.Context, userID int64, secret *models.Secret) error {
	f.receivedUserID = userID
	f.receivedSecret = secret
	if f.err == nil {
		secret.ID = 11
		secret.UserID = userID
	}
	return f.err
}

func (f *fakeVaultService) Update(ctx context.Context, userID int64, secret *models.Secret) error {
	f.receivedUserID = userID
	f.receivedSecret = secret
	return f.err
}

func (f *fakeVaultService) Delete(ctx context.Context, userID, id int64) error {
	f.receivedUserID = userID
	f.deletedID = id
	return f.err
}

func TestVaultHandler_Get(t *testing.T) {
	tests := []struct {
		name         string
		service      *fakeVaultService
		expectedCode int
		expectedLen  int
	}{
		{
			name:         "no session",
			service:      &fakeVaultService{err: crypto.ErrNoSession},
			expectedCode: http.StatusUnauthorized,
		},
		{
			name:         "stale session key",
			service:      &fakeVaultService{err: crypto.ErrAuthenticationFailed},
			expectedCode: http.StatusInternalServerError,
		},
		{
			name:         "empty vault",
			service:      &fakeVaultService{},
			expectedCode: http.StatusOK,
			expectedLen:  0,
		},
		{
			name: "entries",
			service: &fakeVaultService{listResult: []models.Secret{
				{ID: 1, UserID: 7, Login: "l", Password: "p", Name: "n"},
				{ID: 2, UserID: 7, Login: "l2", Password: "p2", Name: "n2"},
			}},
			expectedCode: http.StatusOK,
			expectedLen:  2,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := &VaultHandler{VaultService: tt.service}
			rec := httptest.NewRecorder()
			req := authenticatedRequest(t, "GET", "/api/passwords/get", nil, 7)
			h.Get(rec, req)

			if rec.Code != tt.expectedCode {
				t.Fatalf("status = %d; want %d", rec.Code, tt.expectedCode)
			}
			if tt.expectedCode != http.StatusOK {
				return
			}
			if tt.service.receivedUserID != 7 {
				t.Errorf("service called with user %d; want 7", tt.service.receivedUserID)
			}
			var payload []models.Secret
			if err := json.NewDecoder(rec.Body).Decode(&payload); err != nil {
				t.Fatalf("failed to decode response JSON: %v", err)
			}
			if len(payload) != tt.expectedLen {
				t.Errorf("got %d entries; want %d", len(payload), tt.expectedLen)
			}
		})
	}
}

func TestVaultHandler_Add(t *testing.T) {
	svc := &fakeVaultService{}
	h := &VaultHandler{VaultService: svc}

	body := `{"login":"l","password":"p","name":"n","url":"https://example.com","notes":"x"}`
	rec := httptest.NewRecorder()
	req := authenticatedRequest(t, "POST", "/api/passwords/add", bytes.NewBufferString(body), 7)
	h.Add(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d; want %d: %s", rec.Code, http.StatusOK, rec.Body.String())
	}
	var payload models.Secret
	if err := json.NewDecoder(rec.Body).Decode(&payload); err != nil {
		t.Fatalf("failed to decode response JSON: %v", err)
	}
	if payload.ID != 11 || payload.UserID != 7 {
		t.Errorf("unexpected created entry: %+v", payload)
	}
	if svc.receivedSecret == nil || svc.receivedSecret.Login != "l" {
		t.Errorf("service received %+v", svc.receivedSecret)
	}
}

func TestVaultHandler_Add_BadJSON(t *testing.T) {
	h := &VaultHandler{VaultService: &fakeVaultService{}}
	rec := httptest.NewRecorder()
	req := authenticatedRequest(t, "POST", "/api/passwords/add", bytes.NewBufferString("not-a-json"), 7)
	h.Add(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d; want %d", rec.Code, http.StatusBadRequest)
	}
}

func TestVaultHandler_Update(t *testing.T) {
	tests := []struct {
		name         string
		body         string
		service      *fakeVaultService
		expectedCode int
	}{
		{"missing id", `{"login":"l"}`, &fakeVaultService{}, http.StatusBadRequest},
		{"not owned", `{"id":11,"login":"l"}`, &fakeVaultService{err: service.ErrNotFound}, http.StatusNotFound},
		{"no session", `{"id":11,"login":"l"}`, &fakeVaultService{err: crypto.ErrNoSession}, http.StatusUnauthorized},
		{"ok", `{"id":11,"login":"l"}`, &fakeVaultService{}, http.StatusOK},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := &VaultHandler{VaultService: tt.service}
			rec := httptest.NewRecorder()
			req := authenticatedRequest(t, "POST", "/api/passwords/update", bytes.NewBufferString(tt.body), 7)
			h.Update(rec, req)

			if rec.Code != tt.expectedCode {
				t.Errorf("status = %d; want %d", rec.Code, tt.expectedCode)
			}
		})
	}
}

func TestVaultHandler_Delete(t *testing.T) {
	svc := &fakeVaultService{}
	h := &VaultHandler{VaultService: svc}

	rec := httptest.NewRecorder()
	req := authenticatedRequest(t, "POST", "/api/passwords/delete", bytes.NewBufferString(`{"id":11}`), 7)
	h.Delete(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d; want %d", rec.Code, http.StatusOK)
	}
	if svc.deletedID != 11 || svc.receivedUserID != 7 {
		t.Errorf("delete called with user %d id %d; want 7/11", svc.receivedUserID, svc.deletedID)
	}
}

func TestVaultHandler_Delete_NotOwned(t *testing.T) {
	h := &VaultHandler{VaultService: &fakeVaultService{err: service.ErrNotFound}}

	rec := httptest.NewRecorder()
	req := authenticatedRequest(t, "POST", "/api/passwords/delete", bytes.NewBufferString(`{"id":11}`), 8)
	h.Delete(rec, req)

	if rec.Code != http.StatusNotFound {
		t.Errorf("status = %d; want %d", rec.Code, http.StatusNotFound)
	}
}

func TestVaultHandler_Generate(t *testing.T) {
	tests := []struct {
		name         string
		target       string
		expectedCode int
		expectedLen  int
	}{
		{"default length", "/api/passwords/generate", http.StatusOK, 16},
		{"explicit length", "/api/passwords/generate?length=32", http.StatusOK, 32},
		{"not a number", "/api/passwords/generate?length=abc", http.StatusBadRequest, 0},
		{"zero", "/api/passwords/generate?length=0", http.StatusBadRequest, 0},
		{"too long", "/api/passwords/generate?length=4096", http.StatusBadRequest, 0},
	}

	h := &VaultHandler{VaultService: &fakeVaultService{}}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			req := authenticatedRequest(t, "GET", tt.target, nil, 7)
			h.Generate(rec, req)

			if rec.Code != tt.expectedCode {
				t.Fatalf("status = %d; want %d", rec.Code, tt.expectedCode)
			}
			if tt.expectedCode != http.StatusOK {
				return
			}
			var payload map[string]string
			if err := json.NewDecoder(rec.Body).Decode(&payload); err != nil {
				t.Fatalf("failed to decode response JSON: %v", err)
			}
			if len(payload["password"]) != tt.expectedLen {
				t.Errorf("password length = %d; want %d", len(payload["password"]), tt.expectedLen)
			}
		})
	}
}
