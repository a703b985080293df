package service

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"github.com/tbraddock/flashdeck-api/internal/domain"
	"github.com/tbraddock/flashdeck-api/internal/platform/logger"
	"github.com/tbraddock/flashdeck-api/internal/store"
)

// DeckServiceError is a custom error type for deck service errors.
type DeckServiceError struct {
	Operation string
	Message   string
	Err       error
}

// Error implements the error interface for DeckServiceError.
func (e *DeckServiceError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("deck service %s failed: %s: %v", e.Operation, e.Message, e.Err)
	}
	return fmt.Sprintf("deck service %s failed: %s", e.Operation, e.Message)
}

// Unwrap returns the wrapped error to support errors.Is/errors.As.
func (e *DeckServiceError) Unwrap() error {
	return e.Err
}

// NewDeckServiceError creates a new DeckServiceError.
func NewDeckServiceError(operation, message string, err error) *DeckServiceError {
	return &DeckServiceError{
		Operation: operation,
		Message:   message,
		Err:       err,
	}
}

// DeckService provides deck-related operations. The acting user's identity
// accompanies every call; the backing store refuses to touch a deck the user
// does not own.
type DeckService interface {
	// CreateDeck creates a new deck for the user, enforcing the deck quota.
	// The count and the insert run in one transaction, so the quota decision
	// and the creation are atomic. Returns ErrQuotaExceeded when the user is
	// at their limit without an unlimited entitlement.
	CreateDeck(
		ctx context.Context,
		userID uuid.UUID,
		unlimitedDecks bool,
		name, description string,
	) (*domain.Deck, error)

	// GetDeck retrieves a deck owned by the user.
	GetDeck(ctx context.Context, deckID int64, userID uuid.UUID) (*domain.Deck, error)

	// ListDecks retrieves all the user's decks with their card counts.
	ListDecks(ctx context.Context, userID uuid.UUID) ([]*domain.DeckSummary, error)

	// UpdateDeck renames a deck owned by the user and returns the updated deck.
	UpdateDeck(
		ctx context.Context,
		deckID int64,
		userID uuid.UUID,
		name, description string,
	) (*domain.Deck, error)

	// DeleteDeck removes a deck owned by the user together with all its cards.
	DeleteDeck(ctx context.Context, deckID int64, userID uuid.UUID) error
}

// deckServiceImpl implements the DeckService interface
type deckServiceImpl struct {
	db        *sql.DB
	deckStore store.DeckStore
	quota     domain.DeckQuotaPolicy
	logger    *slog.Logger
}

// NewDeckService creates a new DeckService.
// It returns an error if any of the required dependencies are nil.
func NewDeckService(
	db *sql.DB,
	deckStore store.DeckStore,
	quota domain.DeckQuotaPolicy,
	logger *slog.Logger,
) (DeckService, error) {
	if db == nil {
		return nil, domain.NewValidationError("db", "cannot be nil", domain.ErrValidation)
	}
	if deckStore == nil {
		return nil, domain.NewValidationError("deckStore", "cannot be nil", domain.ErrValidation)
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &deckServiceImpl{
		db:        db,
		deckStore: deckStore,
		quota:     quota,
		logger:    logger.With(slog.String("component", "deck_service")),
	}, nil
}

// CreateDeck implements DeckService.CreateDeck
func (s *deckServiceImpl) CreateDeck(
	ctx context.Context,
	userID uuid.UUID,
	unlimitedDecks bool,
	name, description string,
) (*domain.Deck, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	deck, err := domain.NewDeck(userID, name, description)
	if err != nil {
		return nil, err
	}

	err = store.RunInTransaction(
		ctx,
		s.db,
		func(ctx context.Context, tx *sql.Tx) error {
			txDeckStore := s.deckStore.WithTx(tx)

			count, err := txDeckStore.CountByOwner(ctx, userID)
			if err != nil {
				log.Error("failed to count decks for quota check",
					slog.String("error", err.Error()),
					slog.String("user_id", userID.String()))
				return NewDeckServiceError("create_deck", "failed to count decks", err)
			}

			if !s.quota.CanCreateDeck(count, unlimitedDecks) {
				log.Info("deck creation rejected by quota",
					slog.String("user_id", userID.String()),
					slog.Int64("deck_count", count))
				return ErrQuotaExceeded
			}

			if err := txDeckStore.Create(ctx, deck); err != nil {
				log.Error("failed to create deck",
					slog.String("error", err.Error()),
					slog.String("user_id", userID.String()))
				return NewDeckServiceError("create_deck", "failed to save deck", err)
			}

			return nil
		},
	)
	if err != nil {
		return nil, err
	}

	log.Info("deck created",
		slog.Int64("deck_id", deck.ID),
		slog.String("user_id", userID.String()))
	return deck, nil
}

// GetDeck implements DeckService.GetDeck
func (s *deckServiceImpl) GetDeck(
	ctx context.Context,
	deckID int64,
	userID uuid.UUID,
) (*domain.Deck, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	deck, err := s.deckStore.GetByID(ctx, deckID, userID)
	if err != nil {
		if store.IsNotFoundError(err) {
			return nil, err
		}
		log.Error("failed to retrieve deck",
			slog.String("error", err.Error()),
			slog.Int64("deck_id", deckID))
		return nil, NewDeckServiceError("get_deck", "failed to retrieve deck", err)
	}

	return deck, nil
}

// ListDecks implements DeckService.ListDecks
func (s *deckServiceImpl) ListDecks(
	ctx context.Context,
	userID uuid.UUID,
) ([]*domain.DeckSummary, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	summaries, err := s.deckStore.ListSummaries(ctx, userID)
	if err != nil {
		log.Error("failed to list decks",
			slog.String("error", err.Error()),
			slog.String("user_id", userID.String()))
		return nil, NewDeckServiceError("list_decks", "failed to list decks", err)
	}

	return summaries, nil
}

// UpdateDeck implements DeckService.UpdateDeck
func (s *deckServiceImpl) UpdateDeck(
	ctx context.Context,
	deckID int64,
	userID uuid.UUID,
	name, description string,
) (*domain.Deck, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	deck, err := s.deckStore.GetByID(ctx, deckID, userID)
	if err != nil {
		if store.IsNotFoundError(err) {
			return nil, err
		}
		return nil, NewDeckServiceError("update_deck", "failed to retrieve deck", err)
	}

	if err := deck.Rename(name, description); err != nil {
		return nil, err
	}

	if err := s.deckStore.Update(ctx, deck, userID); err != nil {
		if store.IsNotFoundError(err) {
			return nil, err
		}
		log.Error("failed to update deck",
			slog.String("error", err.Error()),
			slog.Int64("deck_id", deckID))
		return nil, NewDeckServiceError("update_deck", "failed to save deck", err)
	}

	return deck, nil
}

// DeleteDeck implements DeckService.DeleteDeck
func (s *deckServiceImpl) DeleteDeck(ctx context.Context, deckID int64, userID uuid.UUID) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if err := s.deckStore.Delete(ctx, deckID, userID); err != nil {
		if store.IsNotFoundError(err) {
			return err
		}
		log.Error("failed to delete deck",
			slog.String("error", err.Error()),
			slog.Int64("deck_id", deckID))
		return NewDeckServiceError("delete_deck", "failed to delete deck", err)
	}

	log.Info("deck deleted",
		slog.Int64("deck_id", deckID),
		slog.String("user_id", userID.String()))
	return nil
}
