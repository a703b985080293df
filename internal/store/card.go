package store

import (
	"context"
	"database/sql"

	"github.com/google/uuid"
	"github.com/tbraddock/flashdeck-api/internal/domain"
)

// CardStore defines the interface for card data persistence.
//
// A card is owned by a user transitively through its deck, so every method
// resolves ownership by joining through the decks table as part of the
// statement that reads or writes the card. "Card does not exist", "deck
// does not exist", and "deck not owned" all surface as the same
// ErrCardNotFound / ErrDeckNotFound condition.
type CardStore interface {
	// Create inserts one card into the given deck after verifying, in the
	// same statement, that the deck is owned by userID. The created card's
	// ID is assigned by the store. Returns ErrDeckNotFound if the deck does
	// not exist or is not owned by userID, and validation errors if the
	// content is invalid.
	Create(ctx context.Context, card *domain.Card, userID uuid.UUID) error

	// CreateMultiple saves a batch of cards into one deck with a single
	// ownership check and a bulk insert. The batch is all-or-nothing:
	// either every card is persisted or none are.
	//
	// IMPORTANT: this method MUST be run within a transaction for atomicity.
	// Use WithTx together with store.RunInTransaction; outside a transaction
	// partial inserts can survive a mid-batch failure.
	CreateMultiple(ctx context.Context, deckID int64, userID uuid.UUID, cards []*domain.Card) error

	// GetByID retrieves a card by its ID, resolving ownership transitively
	// through its deck. Returns ErrCardNotFound if the card does not exist
	// or its deck is not owned by userID.
	GetByID(ctx context.Context, id int64, userID uuid.UUID) (*domain.Card, error)

	// ListByDeck retrieves all cards of the given deck, most recently
	// updated first. The deck's ownership is checked before any card is
	// touched: returns ErrDeckNotFound if the deck does not exist or is not
	// owned by userID, and an empty slice for an owned deck with no cards.
	ListByDeck(ctx context.Context, deckID int64, userID uuid.UUID) ([]*domain.Card, error)

	// ListByOwner retrieves every card across all decks owned by userID.
	ListByOwner(ctx context.Context, userID uuid.UUID) ([]*domain.Card, error)

	// Update overwrites the card's front and back and refreshes its
	// updated_at timestamp, verifying deck ownership in the same statement.
	// Returns ErrCardNotFound if the card does not exist or its deck is not
	// owned by userID.
	Update(ctx context.Context, card *domain.Card, userID uuid.UUID) error

	// Delete removes one card after verifying deck ownership.
	// Returns ErrCardNotFound if the card does not exist or its deck is not
	// owned by userID.
	Delete(ctx context.Context, id int64, userID uuid.UUID) error

	// DeleteByDeck removes every card of the given deck after verifying the
	// deck is owned by userID. Returns ErrDeckNotFound if the deck does not
	// exist or is not owned by userID; deleting zero cards from an owned,
	// empty deck is not an error.
	DeleteByDeck(ctx context.Context, deckID int64, userID uuid.UUID) error

	// WithTx returns a new CardStore instance that uses the provided transaction.
	// This allows for multiple operations to be executed within a single transaction.
	// The transaction should be created and managed by the caller (typically a service).
	WithTx(tx *sql.Tx) CardStore
}
