package http

import (
	"net/http"

	"github.com/passvault-io/passvault/internal/middleware"
	"go.uber.org/zap"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
)

// NewRouter constructs and returns an HTTP handler that serves the vault API.
//
// Routes:
//
//	POST /api/authentication/register → authHandler.Register
//	POST /api/authentication/login    → authHandler.Login
//	POST /api/authentication/logout   → authHandler.Logout (bearer)
//	GET  /api/passwords/get           → vaultHandler.Get (bearer)
//	POST /api/passwords/add           → vaultHandler.Add (bearer)
//	POST /api/passwords/update        → vaultHandler.Update (bearer)
//	POST /api/passwords/delete        → vaultHandler.Delete (bearer)
//	GET  /api/passwords/generate      → vaultHandler.Generate (bearer)
//	GET  /api/configuration/get       → configHandler.Get
//	POST /api/configuration/update    → configHandler.Update
//
// Middleware chain (applied in order):
//  1. CORS                           — cross-origin headers + OPTIONS
//  2. WithRequestLogging(logger)     — logs incoming requests
//  3. AllowContentType (POST bodies) — rejects non-JSON requests
//  4. Auth(verifier)                 — bearer-token check on protected group
func NewRouter(
	authHandler *AuthHandler,
	vaultHandler *VaultHandler,
	configHandler *ConfigHandler,
	verifier middleware.TokenVerifier,
	logger *zap.Logger,
) http.Handler {
	r := chi.NewRouter()

	// Cross-origin headers for the desktop frontend
	r.Use(middleware.CORS)
	// Log each request and its metadata
	r.Use(middleware.WithRequestLogging(logger))

	// Mount API routes
	r.Route("/api", func(r chi.Router) {
		// Public endpoints
		r.Group(func(r chi.Router) {
			r.Use(chiMiddleware.AllowContentType("application/json"))
			r.Post("/authentication/register", authHandler.Register)
			r.Post("/authentication/login", authHandler.Login)
		})

		// Protected group: requires a valid bearer token
		r.Group(func(r chi.Router) {
			r.Use(middleware.Auth(verifier))
			r.Post("/authentication/logout", authHandler.Logout)
			r.Get("/passwords/get", vaultHandler.Get)
			r.Post("/passwords/add", vaultHandler.Add)
			r.Post("/passwords/update", vaultHandler.Update)
			r.Post("/passwords/delete", vaultHandler.Delete)
			r.Get("/passwords/generate", vaultHandler.Generate)
		})

		// Process configuration
		r.Get("/configuration/get", configHandler.Get)
		r.Post("/configuration/update", configHandler.Update)
	})

	return r
}
