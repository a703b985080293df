package service

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"github.com/tbraddock/flashdeck-api/internal/domain"
	"github.com/tbraddock/flashdeck-api/internal/generation"
	"github.com/tbraddock/flashdeck-api/internal/platform/logger"
	"github.com/tbraddock/flashdeck-api/internal/store"
)

// CardServiceError is a custom error type for card service errors.
type CardServiceError struct {
	Operation string
	Message   string
	Err       error
}

// Error implements the error interface for CardServiceError.
func (e *CardServiceError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("card service %s failed: %s: %v", e.Operation, e.Message, e.Err)
	}
	return fmt.Sprintf("card service %s failed: %s", e.Operation, e.Message)
}

// Unwrap returns the wrapped error to support errors.Is/errors.As.
func (e *CardServiceError) Unwrap() error {
	return e.Err
}

// NewCardServiceError creates a new CardServiceError.
func NewCardServiceError(operation, message string, err error) *CardServiceError {
	return &CardServiceError{
		Operation: operation,
		Message:   message,
		Err:       err,
	}
}

// CardService provides card-related operations. Card ownership is resolved
// transitively through the deck, and the acting user's identity accompanies
// every call.
type CardService interface {
	// CreateCard adds one card to a deck owned by the user.
	CreateCard(
		ctx context.Context,
		userID uuid.UUID,
		deckID int64,
		front, back string,
	) (*domain.Card, error)

	// GetCard retrieves a card whose deck is owned by the user.
	GetCard(ctx context.Context, cardID int64, userID uuid.UUID) (*domain.Card, error)

	// ListCards retrieves all cards of a deck owned by the user.
	ListCards(ctx context.Context, deckID int64, userID uuid.UUID) ([]*domain.Card, error)

	// ListUserCards retrieves every card across all of the user's decks.
	ListUserCards(ctx context.Context, userID uuid.UUID) ([]*domain.Card, error)

	// UpdateCard overwrites a card's front and back.
	UpdateCard(
		ctx context.Context,
		cardID int64,
		userID uuid.UUID,
		front, back string,
	) (*domain.Card, error)

	// DeleteCard removes one card.
	DeleteCard(ctx context.Context, cardID int64, userID uuid.UUID) error

	// DeleteAllCards removes every card of a deck owned by the user. The deck
	// itself is kept. Deleting all cards of an already-empty deck succeeds.
	DeleteAllCards(ctx context.Context, deckID int64, userID uuid.UUID) error

	// GenerateCards produces cards about a topic via the configured generator
	// and persists them into a deck owned by the user. The whole batch is
	// saved atomically: a single invalid candidate rejects the response and
	// nothing is persisted. Returns ErrGenerationUnavailable when no
	// generator is configured.
	GenerateCards(
		ctx context.Context,
		userID uuid.UUID,
		deckID int64,
		topic string,
		count int,
	) ([]*domain.Card, error)
}

// cardServiceImpl implements the CardService interface
type cardServiceImpl struct {
	db        *sql.DB
	cardStore store.CardStore
	generator generation.Generator // nil when generation is not configured
	logger    *slog.Logger
}

// NewCardService creates a new CardService. The generator may be nil, in
// which case GenerateCards returns ErrGenerationUnavailable.
func NewCardService(
	db *sql.DB,
	cardStore store.CardStore,
	generator generation.Generator,
	logger *slog.Logger,
) (CardService, error) {
	if db == nil {
		return nil, domain.NewValidationError("db", "cannot be nil", domain.ErrValidation)
	}
	if cardStore == nil {
		return nil, domain.NewValidationError("cardStore", "cannot be nil", domain.ErrValidation)
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &cardServiceImpl{
		db:        db,
		cardStore: cardStore,
		generator: generator,
		logger:    logger.With(slog.String("component", "card_service")),
	}, nil
}

// CreateCard implements CardService.CreateCard
func (s *cardServiceImpl) CreateCard(
	ctx context.Context,
	userID uuid.UUID,
	deckID int64,
	front, back string,
) (*domain.Card, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	card, err := domain.NewCard(deckID, front, back)
	if err != nil {
		return nil, err
	}

	if err := s.cardStore.Create(ctx, card, userID); err != nil {
		if store.IsNotFoundError(err) {
			return nil, err
		}
		log.Error("failed to create card",
			slog.String("error", err.Error()),
			slog.Int64("deck_id", deckID))
		return nil, NewCardServiceError("create_card", "failed to save card", err)
	}

	log.Info("card created",
		slog.Int64("card_id", card.ID),
		slog.Int64("deck_id", deckID))
	return card, nil
}

// GetCard implements CardService.GetCard
func (s *cardServiceImpl) GetCard(
	ctx context.Context,
	cardID int64,
	userID uuid.UUID,
) (*domain.Card, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	card, err := s.cardStore.GetByID(ctx, cardID, userID)
	if err != nil {
		if store.IsNotFoundError(err) {
			return nil, err
		}
		log.Error("failed to retrieve card",
			slog.String("error", err.Error()),
			slog.Int64("card_id", cardID))
		return nil, NewCardServiceError("get_card", "failed to retrieve card", err)
	}

	return card, nil
}

// ListCards implements CardService.ListCards
func (s *cardServiceImpl) ListCards(
	ctx context.Context,
	deckID int64,
	userID uuid.UUID,
) ([]*domain.Card, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	cards, err := s.cardStore.ListByDeck(ctx, deckID, userID)
	if err != nil {
		if store.IsNotFoundError(err) {
			return nil, err
		}
		log.Error("failed to list cards",
			slog.String("error", err.Error()),
			slog.Int64("deck_id", deckID))
		return nil, NewCardServiceError("list_cards", "failed to list cards", err)
	}

	return cards, nil
}

// ListUserCards implements CardService.ListUserCards
func (s *cardServiceImpl) ListUserCards(
	ctx context.Context,
	userID uuid.UUID,
) ([]*domain.Card, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	cards, err := s.cardStore.ListByOwner(ctx, userID)
	if err != nil {
		log.Error("failed to list user cards",
			slog.String("error", err.Error()),
			slog.String("user_id", userID.String()))
		return nil, NewCardServiceError("list_user_cards", "failed to list cards", err)
	}

	return cards, nil
}

// UpdateCard implements CardService.UpdateCard
func (s *cardServiceImpl) UpdateCard(
	ctx context.Context,
	cardID int64,
	userID uuid.UUID,
	front, back string,
) (*domain.Card, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	card, err := s.cardStore.GetByID(ctx, cardID, userID)
	if err != nil {
		if store.IsNotFoundError(err) {
			return nil, err
		}
		return nil, NewCardServiceError("update_card", "failed to retrieve card", err)
	}

	if err := card.UpdateContent(front, back); err != nil {
		return nil, err
	}

	if err := s.cardStore.Update(ctx, card, userID); err != nil {
		if store.IsNotFoundError(err) {
			return nil, err
		}
		log.Error("failed to update card",
			slog.String("error", err.Error()),
			slog.Int64("card_id", cardID))
		return nil, NewCardServiceError("update_card", "failed to save card", err)
	}

	return card, nil
}

// DeleteCard implements CardService.DeleteCard
func (s *cardServiceImpl) DeleteCard(ctx context.Context, cardID int64, userID uuid.UUID) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if err := s.cardStore.Delete(ctx, cardID, userID); err != nil {
		if store.IsNotFoundError(err) {
			return err
		}
		log.Error("failed to delete card",
			slog.String("error", err.Error()),
			slog.Int64("card_id", cardID))
		return NewCardServiceError("delete_card", "failed to delete card", err)
	}

	return nil
}

// DeleteAllCards implements CardService.DeleteAllCards
func (s *cardServiceImpl) DeleteAllCards(
	ctx context.Context,
	deckID int64,
	userID uuid.UUID,
) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if err := s.cardStore.DeleteByDeck(ctx, deckID, userID); err != nil {
		if store.IsNotFoundError(err) {
			return err
		}
		log.Error("failed to delete deck cards",
			slog.String("error", err.Error()),
			slog.Int64("deck_id", deckID))
		return NewCardServiceError("delete_all_cards", "failed to delete cards", err)
	}

	log.Info("deck cards deleted", slog.Int64("deck_id", deckID))
	return nil
}

// GenerateCards implements CardService.GenerateCards
func (s *cardServiceImpl) GenerateCards(
	ctx context.Context,
	userID uuid.UUID,
	deckID int64,
	topic string,
	count int,
) ([]*domain.Card, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if s.generator == nil {
		return nil, ErrGenerationUnavailable
	}

	contents, err := s.generator.GenerateCards(ctx, topic, count)
	if err != nil {
		log.Error("card generation failed",
			slog.String("error", err.Error()),
			slog.String("topic", topic))
		return nil, NewCardServiceError("generate_cards", "generation failed", err)
	}

	cards := make([]*domain.Card, 0, len(contents))
	for _, content := range contents {
		card, err := domain.NewCard(deckID, content.Front, content.Back)
		if err != nil {
			// The generator validates its output, so this indicates a bug
			// rather than bad model output.
			log.Error("generated content failed domain validation",
				slog.String("error", err.Error()))
			return nil, NewCardServiceError("generate_cards", "invalid generated card", err)
		}
		cards = append(cards, card)
	}

	err = store.RunInTransaction(
		ctx,
		s.db,
		func(ctx context.Context, tx *sql.Tx) error {
			txCardStore := s.cardStore.WithTx(tx)
			if err := txCardStore.CreateMultiple(ctx, deckID, userID, cards); err != nil {
				if store.IsNotFoundError(err) {
					return err
				}
				log.Error("failed to save generated cards",
					slog.String("error", err.Error()),
					slog.Int64("deck_id", deckID))
				return NewCardServiceError("generate_cards", "failed to save cards", err)
			}
			return nil
		},
	)
	if err != nil {
		return nil, err
	}

	log.Info("generated cards saved",
		slog.Int64("deck_id", deckID),
		slog.Int("card_count", len(cards)))
	return cards, nil
}
