package main

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/tbraddock/flashdeck-api/internal/api"
	apiMiddleware "github.com/tbraddock/flashdeck-api/internal/api/middleware"
)

// setupRouter creates and configures the application router with all routes
// and middleware. Returns the configured router.
func (app *application) setupRouter() http.Handler {
	r := chi.NewRouter()

	// Apply standard middleware
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(apiMiddleware.TraceMiddleware)

	// Create API handlers using the application's services
	authHandler := api.NewAuthHandler(
		app.userStore,
		app.jwtService,
		app.passwords,
		app.passwords,
	)
	authMiddleware := apiMiddleware.NewAuthMiddleware(app.jwtService)

	deckHandler := api.NewDeckHandler(app.deckService, app.logger)
	cardHandler := api.NewCardHandler(app.cardService, app.logger)
	studyHandler := api.NewStudyHandler(app.studyService, app.logger)

	// Register routes
	r.Route("/api", func(r chi.Router) {
		// Authentication endpoints (public)
		r.Post("/auth/register", authHandler.Register)
		r.Post("/auth/login", authHandler.Login)

		// Protected routes
		r.Group(func(r chi.Router) {
			r.Use(authMiddleware.Authenticate)

			// Deck endpoints
			r.Post("/decks", deckHandler.CreateDeck)
			r.Get("/decks", deckHandler.ListDecks)
			r.Get("/decks/{id}", deckHandler.GetDeck)
			r.Put("/decks/{id}", deckHandler.UpdateDeck)
			r.Delete("/decks/{id}", deckHandler.DeleteDeck)

			// Card endpoints, scoped by deck
			r.Post("/decks/{id}/cards", cardHandler.CreateCard)
			r.Get("/decks/{id}/cards", cardHandler.ListCards)
			r.Delete("/decks/{id}/cards", cardHandler.DeleteAllCards)
			r.Post("/decks/{id}/cards/generate", cardHandler.GenerateCards)

			// Card endpoints, by card ID
			r.Get("/cards", cardHandler.ListUserCards)
			r.Get("/cards/{id}", cardHandler.GetCard)
			r.Put("/cards/{id}", cardHandler.UpdateCard)
			r.Delete("/cards/{id}", cardHandler.DeleteCard)

			// Study session endpoints
			r.Post("/decks/{id}/study", studyHandler.StartSession)
			r.Get("/study/{id}", studyHandler.GetSession)
			r.Delete("/study/{id}", studyHandler.EndSession)
			r.Post("/study/{id}/flip", studyHandler.Flip)
			r.Post("/study/{id}/next", studyHandler.Next)
			r.Post("/study/{id}/previous", studyHandler.Previous)
			r.Post("/study/{id}/shuffle", studyHandler.Shuffle)
			r.Post("/study/{id}/restart", studyHandler.Restart)
			r.Post("/study/{id}/correct", studyHandler.MarkCorrect)
			r.Post("/study/{id}/incorrect", studyHandler.MarkIncorrect)
		})
	})

	// Health check endpoint
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		if _, err := w.Write([]byte("OK")); err != nil {
			app.logger.Error("Failed to write health check response", "error", err)
		}
	})

	return r
}
