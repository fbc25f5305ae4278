package main

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"

	"github.com/jrenard/flashdeck-api/internal/config"
	"github.com/jrenard/flashdeck-api/internal/events"
	"github.com/jrenard/flashdeck-api/internal/generation"
	"github.com/jrenard/flashdeck-api/internal/platform/gemini"
	"github.com/jrenard/flashdeck-api/internal/platform/postgres"
	"github.com/jrenard/flashdeck-api/internal/service/auth"
	"github.com/jrenard/flashdeck-api/internal/session"
	"github.com/jrenard/flashdeck-api/internal/store"
)

// application holds all the shared application dependencies to simplify
// management and ensure proper cleanup on shutdown.
type application struct {
	config *config.Config
	logger *slog.Logger
	db     *sql.DB

	userStore store.UserStore
	deckStore store.DeckStore

	jwtService       auth.JWTService
	passwordVerifier auth.PasswordVerifier
	generator        generation.Generator

	eventEmitter events.EventEmitter
	sessions     *session.Manager
}

// newApplication creates a new application instance with all dependencies
// initialized. It accepts core dependencies like configuration, logger, and
// database connection that must be established before application
// initialization.
func newApplication(ctx context.Context, cfg *config.Config, logger *slog.Logger, db *sql.DB) (*application, error) {
	app := &application{
		config: cfg,
		logger: logger,
		db:     db,
	}

	var err error
	app.jwtService, err = auth.NewJWTService(cfg.Auth)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize JWT service: %w", err)
	}
	logger.Info("JWT authentication service initialized",
		"token_lifetime_minutes", cfg.Auth.TokenLifetimeMinutes)

	app.passwordVerifier = auth.NewBcryptVerifier()

	app.userStore = postgres.NewUserStore(db, cfg.Auth.BcryptCost, logger)
	app.deckStore = postgres.NewDeckStore(db, logger)

	app.generator, err = gemini.NewGenerator(logger.With("component", "llm_generator"), cfg.LLM)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize card generator: %w", err)
	}
	logger.Info("card generator initialized", "model", cfg.LLM.ModelName)

	app.eventEmitter = events.NewInMemoryEventEmitter(logger)
	app.sessions = session.NewManager(app.eventEmitter, app.generator, app.deckStore, logger)

	logger.Info("application initialized successfully")
	return app, nil
}

// Run starts the application server, handling lifecycle and cleanup.
func (app *application) Run(ctx context.Context) error {
	router := app.setupRouter()

	if err := app.startHTTPServer(ctx, router); err != nil {
		return fmt.Errorf("server error: %w", err)
	}
	return nil
}

// cleanup handles graceful shutdown of application resources.
func (app *application) cleanup() {
	if app.sessions != nil {
		app.sessions.CloseAll(context.Background())
	}

	if app.db != nil {
		if err := app.db.Close(); err != nil {
			app.logger.Error("error closing database connection", "error", err)
		}
	}

	app.logger.Info("application shutdown completed")
}
