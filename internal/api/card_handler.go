package api

import (
	"log/slog"
	"net/http"

	"github.com/go-playground/validator/v10"

	"github.com/tbraddock/flashdeck-api/internal/api/shared"
	"github.com/tbraddock/flashdeck-api/internal/platform/logger"
	"github.com/tbraddock/flashdeck-api/internal/service"
)

// CardHandler handles card-related API requests. Card routes are scoped
// either by deck (/decks/{id}/cards) or by card ID (/cards/{id}); in both
// cases ownership is resolved through the deck.
type CardHandler struct {
	cardService service.CardService
	validator   *validator.Validate
	logger      *slog.Logger
}

// NewCardHandler creates a new CardHandler with the given dependencies.
func NewCardHandler(cardService service.CardService, logger *slog.Logger) *CardHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &CardHandler{
		cardService: cardService,
		validator:   validator.New(),
		logger:      logger.With(slog.String("component", "card_handler")),
	}
}

// CreateCard handles POST /decks/{id}/cards.
func (h *CardHandler) CreateCard(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	userID, deckID, ok := handleUserIDAndPathID(w, r, "id", log)
	if !ok {
		return
	}

	var req CreateCardRequest
	if err := shared.DecodeJSON(r, &req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid request format")
		return
	}

	if err := h.validator.Struct(req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, SanitizeValidationError(err))
		return
	}

	card, err := h.cardService.CreateCard(r.Context(), userID, deckID, req.Front, req.Back)
	if err != nil {
		HandleAPIError(w, r, err, "Failed to create card")
		return
	}

	shared.RespondWithJSON(w, r, http.StatusCreated, toCardResponse(card))
}

// ListCards handles GET /decks/{id}/cards.
func (h *CardHandler) ListCards(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	userID, deckID, ok := handleUserIDAndPathID(w, r, "id", log)
	if !ok {
		return
	}

	cards, err := h.cardService.ListCards(r.Context(), deckID, userID)
	if err != nil {
		HandleAPIError(w, r, err, "Failed to list cards")
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, toCardResponses(cards))
}

// ListUserCards handles GET /cards: every card across all of the user's
// decks, most recently updated first.
func (h *CardHandler) ListUserCards(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	userID, ok := getUserIDFromContext(r)
	if !ok {
		log.Warn("user ID not found or invalid in request context")
		shared.RespondWithError(w, r, http.StatusUnauthorized, "Unauthorized")
		return
	}

	cards, err := h.cardService.ListUserCards(r.Context(), userID)
	if err != nil {
		HandleAPIError(w, r, err, "Failed to list cards")
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, toCardResponses(cards))
}

// DeleteAllCards handles DELETE /decks/{id}/cards. The deck is kept;
// emptying an already-empty deck succeeds.
func (h *CardHandler) DeleteAllCards(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	userID, deckID, ok := handleUserIDAndPathID(w, r, "id", log)
	if !ok {
		return
	}

	if err := h.cardService.DeleteAllCards(r.Context(), deckID, userID); err != nil {
		HandleAPIError(w, r, err, "Failed to delete cards")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// GetCard handles GET /cards/{id}.
func (h *CardHandler) GetCard(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	userID, cardID, ok := handleUserIDAndPathID(w, r, "id", log)
	if !ok {
		return
	}

	card, err := h.cardService.GetCard(r.Context(), cardID, userID)
	if err != nil {
		HandleAPIError(w, r, err, "Failed to retrieve card")
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, toCardResponse(card))
}

// UpdateCard handles PUT /cards/{id}.
func (h *CardHandler) UpdateCard(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	userID, cardID, ok := handleUserIDAndPathID(w, r, "id", log)
	if !ok {
		return
	}

	var req UpdateCardRequest
	if err := shared.DecodeJSON(r, &req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid request format")
		return
	}

	if err := h.validator.Struct(req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, SanitizeValidationError(err))
		return
	}

	card, err := h.cardService.UpdateCard(r.Context(), cardID, userID, req.Front, req.Back)
	if err != nil {
		HandleAPIError(w, r, err, "Failed to update card")
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, toCardResponse(card))
}

// DeleteCard handles DELETE /cards/{id}.
func (h *CardHandler) DeleteCard(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	userID, cardID, ok := handleUserIDAndPathID(w, r, "id", log)
	if !ok {
		return
	}

	if err := h.cardService.DeleteCard(r.Context(), cardID, userID); err != nil {
		HandleAPIError(w, r, err, "Failed to delete card")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// GenerateCards handles POST /decks/{id}/cards/generate. The generated batch is
// persisted atomically into the deck and returned in full.
func (h *CardHandler) GenerateCards(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	userID, deckID, ok := handleUserIDAndPathID(w, r, "id", log)
	if !ok {
		return
	}

	var req GenerateCardsRequest
	if err := shared.DecodeJSON(r, &req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid request format")
		return
	}

	if err := h.validator.Struct(req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, SanitizeValidationError(err))
		return
	}

	cards, err := h.cardService.GenerateCards(r.Context(), userID, deckID, req.Topic, req.Count)
	if err != nil {
		HandleAPIError(w, r, err, "Failed to generate cards")
		return
	}

	shared.RespondWithJSON(w, r, http.StatusCreated, toCardResponses(cards))
}
