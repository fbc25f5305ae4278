package main

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/jrenard/flashdeck-api/internal/api"
	apiMiddleware "github.com/jrenard/flashdeck-api/internal/api/middleware"
)

// setupRouter creates and configures the application router with all routes
// and middleware.
func (app *application) setupRouter() http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(apiMiddleware.TraceMiddleware)

	authHandler := api.NewAuthHandler(
		app.userStore,
		app.jwtService,
		app.passwordVerifier,
		app.eventEmitter,
		app.logger,
	)
	authMiddleware := apiMiddleware.NewAuthMiddleware(app.jwtService)

	sessionHandler := api.NewSessionHandler(app.sessions, app.logger)
	setupHandler := api.NewSetupHandler(app.sessions, app.logger)
	studyHandler := api.NewStudyHandler(app.sessions, app.logger)
	deckHandler := api.NewDeckHandler(app.sessions, app.deckStore, app.logger)

	r.Route("/api", func(r chi.Router) {
		// Authentication endpoints (public)
		r.Post("/auth/register", authHandler.Register)
		r.Post("/auth/login", authHandler.Login)
		r.Post("/auth/refresh", authHandler.RefreshToken)
		// Sign-out accepts an optional bearer token so clearing can be
		// scoped to the caller's own sessions.
		r.With(authMiddleware.MaybeAuthenticate).Post("/auth/signout", authHandler.SignOut)

		// Session lifecycle. Creation accepts an optional bearer token so a
		// returning user lands directly on their deck overview.
		r.With(authMiddleware.MaybeAuthenticate).Post("/sessions", sessionHandler.Create)

		r.Route("/sessions/{sessionID}", func(r chi.Router) {
			r.Get("/", sessionHandler.Get)
			r.Delete("/", sessionHandler.Delete)
			r.Post("/guest", sessionHandler.EnterGuest)

			// Deck setup screen
			r.Post("/setup", setupHandler.Start)
			r.Get("/setup", setupHandler.Get)
			r.Put("/setup", setupHandler.SetTopic)
			r.Delete("/setup", setupHandler.Cancel)
			r.Post("/setup/cards", setupHandler.AddCard)
			r.Patch("/setup/cards/{index}", setupHandler.EditCard)
			r.Delete("/setup/cards/{index}", setupHandler.DeleteCard)
			r.Post("/setup/generate", setupHandler.Generate)
			r.Post("/setup/commit", setupHandler.Commit)

			// Deck overview
			r.Get("/decks", deckHandler.ListForSession)
			r.Get("/decks/{deckID}", deckHandler.GetForSession)
			r.Delete("/decks/{deckID}", deckHandler.DeleteForSession)

			// Study screen
			r.Post("/study", studyHandler.Start)
			r.Get("/study", studyHandler.Current)
			r.Post("/study/reveal", studyHandler.Reveal)
			r.Post("/study/advance", studyHandler.Advance)
			r.Delete("/study", studyHandler.Finish)
		})

		// Stateless deck access for API clients without a session
		r.Group(func(r chi.Router) {
			r.Use(authMiddleware.Authenticate)
			r.Get("/decks", deckHandler.List)
			r.Get("/decks/{deckID}", deckHandler.Get)
			r.Delete("/decks/{deckID}", deckHandler.Delete)
		})
	})

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		if _, err := w.Write([]byte("OK")); err != nil {
			app.logger.Error("failed to write health check response", "error", err)
		}
	})

	return r
}
