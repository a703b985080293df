package api

import (
	"log/slog"
	"net/http"

	"github.com/go-playground/validator/v10"

	"github.com/tbraddock/flashdeck-api/internal/api/shared"
	"github.com/tbraddock/flashdeck-api/internal/platform/logger"
	"github.com/tbraddock/flashdeck-api/internal/service"
)

// DeckHandler handles deck-related API requests. Every operation acts on
// behalf of the authenticated user; the service and store layers refuse to
// touch decks the user does not own.
type DeckHandler struct {
	deckService service.DeckService
	validator   *validator.Validate
	logger      *slog.Logger
}

// NewDeckHandler creates a new DeckHandler with the given dependencies.
func NewDeckHandler(deckService service.DeckService, logger *slog.Logger) *DeckHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &DeckHandler{
		deckService: deckService,
		validator:   validator.New(),
		logger:      logger.With(slog.String("component", "deck_handler")),
	}
}

// CreateDeck handles POST /decks.
func (h *DeckHandler) CreateDeck(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	userID, ok := getUserIDFromContext(r)
	if !ok {
		log.Warn("user ID not found or invalid in request context")
		shared.RespondWithError(w, r, http.StatusUnauthorized, "Unauthorized")
		return
	}

	var req CreateDeckRequest
	if err := shared.DecodeJSON(r, &req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid request format")
		return
	}

	if err := h.validator.Struct(req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, SanitizeValidationError(err))
		return
	}

	deck, err := h.deckService.CreateDeck(
		r.Context(),
		userID,
		getUnlimitedDecksFromContext(r),
		req.Name,
		req.Description,
	)
	if err != nil {
		HandleAPIError(w, r, err, "Failed to create deck")
		return
	}

	shared.RespondWithJSON(w, r, http.StatusCreated, toDeckResponse(deck))
}

// ListDecks handles GET /decks.
func (h *DeckHandler) ListDecks(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	userID, ok := getUserIDFromContext(r)
	if !ok {
		log.Warn("user ID not found or invalid in request context")
		shared.RespondWithError(w, r, http.StatusUnauthorized, "Unauthorized")
		return
	}

	summaries, err := h.deckService.ListDecks(r.Context(), userID)
	if err != nil {
		HandleAPIError(w, r, err, "Failed to list decks")
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, toDeckSummaryResponses(summaries))
}

// GetDeck handles GET /decks/{id}.
func (h *DeckHandler) GetDeck(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	userID, deckID, ok := handleUserIDAndPathID(w, r, "id", log)
	if !ok {
		return
	}

	deck, err := h.deckService.GetDeck(r.Context(), deckID, userID)
	if err != nil {
		HandleAPIError(w, r, err, "Failed to retrieve deck")
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, toDeckResponse(deck))
}

// UpdateDeck handles PUT /decks/{id}.
func (h *DeckHandler) UpdateDeck(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	userID, deckID, ok := handleUserIDAndPathID(w, r, "id", log)
	if !ok {
		return
	}

	var req UpdateDeckRequest
	if err := shared.DecodeJSON(r, &req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid request format")
		return
	}

	if err := h.validator.Struct(req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, SanitizeValidationError(err))
		return
	}

	deck, err := h.deckService.UpdateDeck(r.Context(), deckID, userID, req.Name, req.Description)
	if err != nil {
		HandleAPIError(w, r, err, "Failed to update deck")
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, toDeckResponse(deck))
}

// DeleteDeck handles DELETE /decks/{id}. The deck's cards are removed with
// it.
func (h *DeckHandler) DeleteDeck(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	userID, deckID, ok := handleUserIDAndPathID(w, r, "id", log)
	if !ok {
		return
	}

	if err := h.deckService.DeleteDeck(r.Context(), deckID, userID); err != nil {
		HandleAPIError(w, r, err, "Failed to delete deck")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
