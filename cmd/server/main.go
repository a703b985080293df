// Package main implements the entry point for the FlashDeck API server,
// which manages users' flashcard decks, study sessions, and optional
// LLM-backed card generation.
package main

import (
	"context"
	"log"
	"log/slog"

	"github.com/tbraddock/flashdeck-api/internal/config"
	"github.com/tbraddock/flashdeck-api/internal/platform/logger"
	"github.com/tbraddock/flashdeck-api/internal/platform/postgres"
)

// main initializes configuration, logging, the database connection, and all
// application services, then starts the HTTP server.
func main() {
	ctx := context.Background()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	appLogger := logger.Setup(cfg.Server.LogLevel)

	slog.Info("Server configuration loaded",
		"port", cfg.Server.Port,
		"log_level", cfg.Server.LogLevel)

	db, err := setupAppDatabase(cfg, appLogger)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	if err := postgres.RunMigrations(ctx, db); err != nil {
		log.Fatalf("Failed to run database migrations: %v", err)
	}

	app, err := newApplication(ctx, cfg, appLogger, db)
	if err != nil {
		log.Fatalf("Failed to initialize application: %v", err)
	}

	if err := app.Run(ctx); err != nil {
		log.Fatalf("Server error: %v", err)
	}
}
