package store

import (
	"context"
	"database/sql"

	"github.com/google/uuid"
	"github.com/tbraddock/flashdeck-api/internal/domain"
)

// DeckStore defines the interface for deck data persistence.
//
// Every method takes the acting user's identity as an explicit parameter:
// no operation may observe or mutate a deck without proving, inside the
// same statement or transaction as the action itself, that the deck is
// owned by that identity. Implementations collapse "does not exist" and
// "not owned" into the single ErrDeckNotFound condition.
type DeckStore interface {
	// Create saves a new deck to the store and assigns its ID.
	// It handles domain validation internally.
	// Returns validation errors from the domain Deck if data is invalid.
	//
	// Create performs no quota check: deciding whether the owner may create
	// another deck is policy and belongs to the caller (see
	// domain.DeckQuotaPolicy). Callers enforcing the quota should run the
	// count and the create inside one transaction via WithTx.
	Create(ctx context.Context, deck *domain.Deck) error

	// GetByID retrieves a deck by its ID, scoped to the owning user.
	// Returns ErrDeckNotFound if the deck does not exist or is not owned
	// by userID.
	GetByID(ctx context.Context, id int64, userID uuid.UUID) (*domain.Deck, error)

	// ListByOwner retrieves all decks owned by userID, most recently
	// updated first. Returns an empty slice if the user owns none.
	ListByOwner(ctx context.Context, userID uuid.UUID) ([]*domain.Deck, error)

	// ListSummaries retrieves all decks owned by userID together with their
	// card counts, most recently updated first.
	ListSummaries(ctx context.Context, userID uuid.UUID) ([]*domain.DeckSummary, error)

	// CountByOwner returns the number of decks owned by userID.
	// It feeds the deck quota policy.
	CountByOwner(ctx context.Context, userID uuid.UUID) (int64, error)

	// Update overwrites the deck's name and description and refreshes its
	// updated_at timestamp, in a single conditional statement that also
	// verifies ownership. Returns ErrDeckNotFound if the deck does not
	// exist or is not owned by userID.
	Update(ctx context.Context, deck *domain.Deck, userID uuid.UUID) error

	// Delete removes the deck after verifying ownership. Every card in the
	// deck is removed atomically with it via the store-level cascade; no
	// card survives its deck. Returns ErrDeckNotFound if the deck does not
	// exist or is not owned by userID.
	Delete(ctx context.Context, id int64, userID uuid.UUID) error

	// WithTx returns a new DeckStore instance that uses the provided transaction.
	// This allows for multiple operations to be executed within a single transaction.
	// The transaction should be created and managed by the caller (typically a service).
	WithTx(tx *sql.Tx) DeckStore
}
