// Package main initializes and starts the PassVault server, setting up
// configuration, logging, the database connection, repositories, services
// and HTTP handlers.
package main

import (
	"cmp"
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	nethttp "net/http"

	"github.com/passvault-io/passvault/internal/config"
	"github.com/passvault-io/passvault/internal/crypto"
	"github.com/passvault-io/passvault/internal/db"
	"github.com/passvault-io/passvault/internal/logger"
	"github.com/passvault-io/passvault/internal/repository"
	"github.com/passvault-io/passvault/internal/server/handler/http"
	"github.com/passvault-io/passvault/internal/service"
	"github.com/passvault-io/passvault/internal/token"
	"go.uber.org/zap"
)

var (
	// version holds the build version set via ldflags.
	version string
	// buildDate holds the build timestamp set via ldflags.
	buildDate string
)

func main() {
	// Parse command-line, config file and environment configuration.
	options := config.Parse()

	// Print build metadata (or "N/A" if unset).
	fmt.Printf("Build version: %s\n", cmp.Or(version, "N/A"))
	fmt.Printf("Build date: %s\n", cmp.Or(buildDate, "N/A"))

	// Initialize structured logging.
	log := logger.New()
	defer func() { _ = log.Log.Sync() }()
	if err := log.Init(options.LogLevel); err != nil {
		log.Log.Fatal("failed to init logger", zap.Error(err))
	}
	zapLogger := log.Log

	// Persist the effective configuration so the frontend can read and
	// update it through the configuration endpoints.
	if _, err := os.Stat(options.Config); errors.Is(err, os.ErrNotExist) {
		if err := config.Save(options, options.Config); err != nil {
			zapLogger.Warn("cannot write config file", zap.Error(err))
		}
	}

	if options.JWTSecret == "" {
		zapLogger.Fatal("token signing secret is required (-s flag or JWT_SECRET)")
	}

	// Initialize PostgreSQL connection.
	postgresDB, err := db.InitPostgres(options.DatabaseDSN)
	if err != nil {
		zapLogger.Fatal("cannot init database", zap.Error(err))
	}
	defer func() { _ = postgresDB.Close() }()

	// Initialize repositories for users and stored passwords.
	userRepo := repository.NewPostgresUserRepository(postgresDB)
	secretRepo := repository.NewPostgresSecretRepository(postgresDB)

	// Session key cache shared by the auth and vault services.
	sessions := crypto.NewSessions()
	tokens := token.NewService(options.JWTSecret)

	// Initialize business-logic services.
	authService := service.NewAuthService(userRepo, sessions)
	vaultService := service.NewVaultService(secretRepo, sessions)

	// Create HTTP handlers.
	authHandler := &http.AuthHandler{AuthService: authService, Tokens: tokens}
	vaultHandler := &http.VaultHandler{VaultService: vaultService}
	configHandler := &http.ConfigHandler{Options: options}

	// Build the router with middleware and routes.
	router := http.NewRouter(authHandler, vaultHandler, configHandler, tokens, zapLogger)

	server := &nethttp.Server{
		Addr:    options.Addr,
		Handler: router,
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	go func() {
		zapLogger.Info("starting HTTP server", zap.String("addr", options.Addr))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, nethttp.ErrServerClosed) {
			zapLogger.Fatal("failed to start HTTP server", zap.Error(err))
		}
	}()

	<-ctx.Done()
	zapLogger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		zapLogger.Error("shutdown failed", zap.Error(err))
	}
}
