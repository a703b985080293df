package main

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"

	"github.com/tbraddock/flashdeck-api/internal/config"
	"github.com/tbraddock/flashdeck-api/internal/domain"
	"github.com/tbraddock/flashdeck-api/internal/generation"
	"github.com/tbraddock/flashdeck-api/internal/platform/gemini"
	"github.com/tbraddock/flashdeck-api/internal/platform/postgres"
	"github.com/tbraddock/flashdeck-api/internal/service"
	"github.com/tbraddock/flashdeck-api/internal/service/auth"
	"github.com/tbraddock/flashdeck-api/internal/store"
)

// application holds all the shared application dependencies to simplify
// management and ensure proper cleanup on shutdown.
type application struct {
	// Configuration
	config *config.Config

	// Core services
	logger *slog.Logger
	db     *sql.DB

	// Stores (using interfaces for proper abstraction)
	userStore store.UserStore
	deckStore store.DeckStore
	cardStore store.CardStore

	// Service interfaces
	jwtService   auth.JWTService
	passwords    *auth.BcryptVerifier
	generator    generation.Generator // nil when LLM generation is not configured
	deckService  service.DeckService
	cardService  service.CardService
	studyService service.StudyService
}

// newApplication creates a new application instance with all dependencies
// initialized. It accepts core dependencies like configuration, logger, and
// database connection that must be established before application
// initialization.
func newApplication(
	ctx context.Context,
	cfg *config.Config,
	logger *slog.Logger,
	db *sql.DB,
) (*application, error) {
	app := &application{
		config: cfg,
		logger: logger,
		db:     db,
	}

	// Initialize JWT service
	var err error
	app.jwtService, err = auth.NewJWTService(cfg.Auth)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize JWT service: %w", err)
	}
	logger.Info("JWT authentication service initialized",
		"token_lifetime_minutes", cfg.Auth.TokenLifetimeMinutes)

	// Initialize password hasher/verifier
	app.passwords = auth.NewBcryptVerifier()

	// Initialize stores
	app.userStore = postgres.NewPostgresUserStore(db, logger)
	app.deckStore = postgres.NewPostgresDeckStore(db, logger)
	app.cardStore = postgres.NewPostgresCardStore(db, logger)

	// The generator is optional: without an API key the generation endpoint
	// reports unavailable and everything else works normally.
	if cfg.LLM.GeminiAPIKey != "" {
		app.generator, err = gemini.NewGeminiGenerator(ctx, logger, cfg.LLM)
		if err != nil {
			return nil, fmt.Errorf("failed to initialize LLM generator: %w", err)
		}
		logger.Info("LLM generator initialized", "model", cfg.LLM.ModelName)
	} else {
		logger.Info("LLM generation disabled: no API key configured")
	}

	// Initialize deck service with the configured quota policy
	quota := domain.NewDeckQuotaPolicy(cfg.Quota.FreeDeckLimit)
	app.deckService, err = service.NewDeckService(db, app.deckStore, quota, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to create deck service: %w", err)
	}

	// Initialize card service
	app.cardService, err = service.NewCardService(db, app.cardStore, app.generator, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to create card service: %w", err)
	}

	// Initialize study service
	app.studyService, err = service.NewStudyService(app.cardStore, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to create study service: %w", err)
	}

	logger.Info("Application initialized successfully")
	return app, nil
}

// Run starts the application server, handling lifecycle and cleanup.
// It returns an error if the server fails to start or encounters problems.
func (app *application) Run(ctx context.Context) error {
	router := app.setupRouter()

	err := app.startHTTPServer(ctx, router)
	if err != nil {
		return fmt.Errorf("server error: %w", err)
	}

	return nil
}

// cleanup handles graceful shutdown of application resources.
func (app *application) cleanup() {
	if app.db != nil {
		if err := app.db.Close(); err != nil {
			app.logger.Error("Error closing database connection", "error", err)
		}
	}

	app.logger.Info("Application shutdown completed")
}
