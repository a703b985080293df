package api

import (
	"time"

	"github.com/google/uuid"
	"github.com/tbraddock/flashdeck-api/internal/domain"
	"github.com/tbraddock/flashdeck-api/internal/domain/study"
	"github.com/tbraddock/flashdeck-api/internal/service"
)

// Common request/response structures

// RegisterRequest defines the payload for the user registration endpoint.
type RegisterRequest struct {
	Email    string `json:"email"    validate:"required,email"`
	Password string `json:"password" validate:"required,min=12,max=72"`
}

// LoginRequest defines the payload for the user login endpoint.
type LoginRequest struct {
	Email    string `json:"email"    validate:"required,email"`
	Password string `json:"password" validate:"required,min=1"`
}

// AuthResponse defines the successful response for authentication endpoints.
type AuthResponse struct {
	// UserID is the unique identifier for the authenticated user
	UserID uuid.UUID `json:"user_id"`

	// Token is the JWT token used for API authorization
	Token string `json:"token"`
}

// CreateDeckRequest defines the payload for creating a deck.
type CreateDeckRequest struct {
	Name        string `json:"name"        validate:"required,max=255"`
	Description string `json:"description" validate:"max=1000"`
}

// UpdateDeckRequest defines the payload for renaming a deck.
type UpdateDeckRequest struct {
	Name        string `json:"name"        validate:"required,max=255"`
	Description string `json:"description" validate:"max=1000"`
}

// DeckResponse is the external representation of a deck.
type DeckResponse struct {
	ID          int64     `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// DeckSummaryResponse is a deck together with its card count, as returned
// by the list endpoint.
type DeckSummaryResponse struct {
	DeckResponse
	CardCount int64 `json:"card_count"`
}

// CreateCardRequest defines the payload for adding a card to a deck.
type CreateCardRequest struct {
	Front string `json:"front" validate:"required,max=1000"`
	Back  string `json:"back"  validate:"required,max=1000"`
}

// UpdateCardRequest defines the payload for editing a card.
type UpdateCardRequest struct {
	Front string `json:"front" validate:"required,max=1000"`
	Back  string `json:"back"  validate:"required,max=1000"`
}

// GenerateCardsRequest defines the payload for generating cards into a deck.
type GenerateCardsRequest struct {
	Topic string `json:"topic" validate:"required,max=500"`
	Count int    `json:"count" validate:"required,gt=0,lte=20"`
}

// CardResponse is the external representation of a card.
type CardResponse struct {
	ID        int64     `json:"id"`
	DeckID    int64     `json:"deck_id"`
	Front     string    `json:"front"`
	Back      string    `json:"back"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// StudyStateResponse is the external view of a study session after any
// transition. The current card's back appears only while it is revealed.
type StudyStateResponse struct {
	SessionID uuid.UUID   `json:"session_id"`
	DeckID    int64       `json:"deck_id"`
	CardID    int64       `json:"card_id"`
	Front     string      `json:"front"`
	Back      string      `json:"back,omitempty"`
	Position  int         `json:"position"`
	Size      int         `json:"size"`
	Revealed  bool        `json:"revealed"`
	Shuffled  bool        `json:"shuffled"`
	Complete  bool        `json:"complete"`
	Score     study.Score `json:"score"`
}

// toDeckResponse converts a domain deck to its external representation.
func toDeckResponse(deck *domain.Deck) DeckResponse {
	return DeckResponse{
		ID:          deck.ID,
		Name:        deck.Name,
		Description: deck.Description,
		CreatedAt:   deck.CreatedAt,
		UpdatedAt:   deck.UpdatedAt,
	}
}

// toDeckSummaryResponses converts deck summaries to their external
// representation, never returning nil.
func toDeckSummaryResponses(summaries []*domain.DeckSummary) []DeckSummaryResponse {
	out := make([]DeckSummaryResponse, 0, len(summaries))
	for _, s := range summaries {
		out = append(out, DeckSummaryResponse{
			DeckResponse: toDeckResponse(&s.Deck),
			CardCount:    s.CardCount,
		})
	}
	return out
}

// toCardResponse converts a domain card to its external representation.
func toCardResponse(card *domain.Card) CardResponse {
	return CardResponse{
		ID:        card.ID,
		DeckID:    card.DeckID,
		Front:     card.Front,
		Back:      card.Back,
		CreatedAt: card.CreatedAt,
		UpdatedAt: card.UpdatedAt,
	}
}

// toCardResponses converts domain cards to their external representation,
// never returning nil.
func toCardResponses(cards []*domain.Card) []CardResponse {
	out := make([]CardResponse, 0, len(cards))
	for _, c := range cards {
		out = append(out, toCardResponse(c))
	}
	return out
}

// toStudyStateResponse converts a service study state to its external
// representation.
func toStudyStateResponse(state *service.StudyState) StudyStateResponse {
	return StudyStateResponse{
		SessionID: state.SessionID,
		DeckID:    state.DeckID,
		CardID:    state.CardID,
		Front:     state.Front,
		Back:      state.Back,
		Position:  state.Position,
		Size:      state.Size,
		Revealed:  state.Revealed,
		Shuffled:  state.Shuffled,
		Complete:  state.Complete,
		Score:     state.Score,
	}
}
