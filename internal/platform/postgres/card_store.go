package postgres

import (
	"context"
	"database/sql"
	"errors"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/tbraddock/flashdeck-api/internal/domain"
	"github.com/tbraddock/flashdeck-api/internal/platform/logger"
	"github.com/tbraddock/flashdeck-api/internal/store"
)

// PostgresCardStore implements the store.CardStore interface
// using a PostgreSQL database as the storage backend.
//
// Cards are owned transitively: every statement resolves ownership through
// the decks table, so a card is only ever visible or mutable together with
// proof that its deck belongs to the acting user.
type PostgresCardStore struct {
	db     store.DBTX
	logger *slog.Logger
}

// NewPostgresCardStore creates a new PostgreSQL implementation of the CardStore interface.
// It accepts a database connection or transaction that should be initialized and managed by the caller.
// If logger is nil, a default logger will be used.
func NewPostgresCardStore(db store.DBTX, logger *slog.Logger) *PostgresCardStore {
	if db == nil {
		panic("db cannot be nil")
	}

	if logger == nil {
		logger = slog.Default()
	}

	return &PostgresCardStore{
		db:     db,
		logger: logger.With(slog.String("component", "card_store")),
	}
}

// Ensure PostgresCardStore implements store.CardStore interface
var _ store.CardStore = (*PostgresCardStore)(nil)

// WithTx implements store.CardStore.WithTx
func (s *PostgresCardStore) WithTx(tx *sql.Tx) store.CardStore {
	return &PostgresCardStore{
		db:     tx,
		logger: s.logger,
	}
}

// Create implements store.CardStore.Create
// The insert selects its deck ID from a decks row matching both the deck ID
// and the owner, so the ownership check and the insert are one statement:
// there is no window in which the deck can disappear between them.
// Returns store.ErrDeckNotFound if the deck does not exist or is not owned by userID.
func (s *PostgresCardStore) Create(ctx context.Context, card *domain.Card, userID uuid.UUID) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if err := card.Validate(); err != nil {
		log.Warn("card validation failed during create",
			slog.String("error", err.Error()),
			slog.Int64("deck_id", card.DeckID))
		return err
	}

	query := `
		INSERT INTO cards (deck_id, front, back, created_at, updated_at)
		SELECT d.id, $2, $3, $4, $5
		FROM decks d
		WHERE d.id = $1 AND d.owner_id = $6
		RETURNING id
	`
	err := s.db.QueryRowContext(
		ctx,
		query,
		card.DeckID,
		card.Front,
		card.Back,
		card.CreatedAt,
		card.UpdatedAt,
		userID,
	).Scan(&card.ID)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			log.Debug("deck not found or not owned for card create",
				slog.Int64("deck_id", card.DeckID),
				slog.String("user_id", userID.String()))
			return store.ErrDeckNotFound
		}
		log.Error("failed to create card",
			slog.String("error", err.Error()),
			slog.Int64("deck_id", card.DeckID))
		return err
	}

	log.Info("card created successfully",
		slog.Int64("card_id", card.ID),
		slog.Int64("deck_id", card.DeckID))
	return nil
}

// CreateMultiple implements store.CardStore.CreateMultiple
// It performs one ownership check for the deck and then bulk-inserts the
// batch. The batch is all-or-nothing, which is why this method MUST run
// within a transaction (use WithTx together with store.RunInTransaction).
// Returns store.ErrDeckNotFound if the deck does not exist or is not owned
// by userID, and validation errors if any card is invalid.
func (s *PostgresCardStore) CreateMultiple(
	ctx context.Context,
	deckID int64,
	userID uuid.UUID,
	cards []*domain.Card,
) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	for _, card := range cards {
		if card.DeckID != deckID {
			return domain.ErrCardDeckIDEmpty
		}
		if err := card.Validate(); err != nil {
			log.Warn("card validation failed during batch create",
				slog.String("error", err.Error()),
				slog.Int64("deck_id", deckID))
			return err
		}
	}

	if err := s.checkDeckOwnership(ctx, deckID, userID); err != nil {
		log.Debug("deck not found or not owned for batch create",
			slog.Int64("deck_id", deckID),
			slog.String("user_id", userID.String()))
		return err
	}

	query := `
		INSERT INTO cards (deck_id, front, back, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id
	`
	for _, card := range cards {
		err := s.db.QueryRowContext(
			ctx,
			query,
			card.DeckID,
			card.Front,
			card.Back,
			card.CreatedAt,
			card.UpdatedAt,
		).Scan(&card.ID)
		if err != nil {
			log.Error("failed to insert card in batch",
				slog.String("error", err.Error()),
				slog.Int64("deck_id", deckID))
			return err
		}
	}

	log.Info("card batch created successfully",
		slog.Int64("deck_id", deckID),
		slog.Int("card_count", len(cards)))
	return nil
}

// GetByID implements store.CardStore.GetByID
// Ownership is resolved transitively by joining through the card's deck.
// Returns store.ErrCardNotFound if the card does not exist or its deck is
// not owned by userID.
func (s *PostgresCardStore) GetByID(ctx context.Context, id int64, userID uuid.UUID) (*domain.Card, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query := `
		SELECT c.id, c.deck_id, c.front, c.back, c.created_at, c.updated_at
		FROM cards c
		JOIN decks d ON d.id = c.deck_id
		WHERE c.id = $1 AND d.owner_id = $2
	`

	var card domain.Card
	err := s.db.QueryRowContext(ctx, query, id, userID).Scan(
		&card.ID,
		&card.DeckID,
		&card.Front,
		&card.Back,
		&card.CreatedAt,
		&card.UpdatedAt,
	)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			log.Debug("card not found or not owned",
				slog.Int64("card_id", id),
				slog.String("user_id", userID.String()))
			return nil, store.ErrCardNotFound
		}
		log.Error("failed to get card by ID",
			slog.String("error", err.Error()),
			slog.Int64("card_id", id))
		return nil, err
	}

	return &card, nil
}

// ListByDeck implements store.CardStore.ListByDeck
// The deck's ownership is verified before any card row is touched, so an
// unowned deck yields store.ErrDeckNotFound while an owned, empty deck
// yields an empty slice.
func (s *PostgresCardStore) ListByDeck(ctx context.Context, deckID int64, userID uuid.UUID) ([]*domain.Card, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if err := s.checkDeckOwnership(ctx, deckID, userID); err != nil {
		log.Debug("deck not found or not owned for card list",
			slog.Int64("deck_id", deckID),
			slog.String("user_id", userID.String()))
		return nil, err
	}

	query := `
		SELECT id, deck_id, front, back, created_at, updated_at
		FROM cards
		WHERE deck_id = $1
		ORDER BY updated_at DESC
	`

	rows, err := s.db.QueryContext(ctx, query, deckID)
	if err != nil {
		log.Error("failed to query cards by deck",
			slog.String("error", err.Error()),
			slog.Int64("deck_id", deckID))
		return nil, err
	}
	defer func() {
		if err := rows.Close(); err != nil {
			log.Error("failed to close rows", slog.String("error", err.Error()))
		}
	}()

	return scanCards(rows, log)
}

// ListByOwner implements store.CardStore.ListByOwner
// It retrieves every card across all decks owned by userID.
func (s *PostgresCardStore) ListByOwner(ctx context.Context, userID uuid.UUID) ([]*domain.Card, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query := `
		SELECT c.id, c.deck_id, c.front, c.back, c.created_at, c.updated_at
		FROM cards c
		JOIN decks d ON d.id = c.deck_id
		WHERE d.owner_id = $1
		ORDER BY c.updated_at DESC
	`

	rows, err := s.db.QueryContext(ctx, query, userID)
	if err != nil {
		log.Error("failed to query cards by owner",
			slog.String("error", err.Error()),
			slog.String("user_id", userID.String()))
		return nil, err
	}
	defer func() {
		if err := rows.Close(); err != nil {
			log.Error("failed to close rows", slog.String("error", err.Error()))
		}
	}()

	return scanCards(rows, log)
}

// Update implements store.CardStore.Update
// The ownership join and the mutation are one statement, judged by the
// affected-row count. Returns store.ErrCardNotFound if no row was affected.
func (s *PostgresCardStore) Update(ctx context.Context, card *domain.Card, userID uuid.UUID) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if err := card.Validate(); err != nil {
		log.Warn("card validation failed during update",
			slog.String("error", err.Error()),
			slog.Int64("card_id", card.ID))
		return err
	}

	card.UpdatedAt = time.Now().UTC()

	query := `
		UPDATE cards c
		SET front = $1, back = $2, updated_at = $3
		FROM decks d
		WHERE c.id = $4 AND d.id = c.deck_id AND d.owner_id = $5
	`

	result, err := s.db.ExecContext(
		ctx,
		query,
		card.Front,
		card.Back,
		card.UpdatedAt,
		card.ID,
		userID,
	)

	if err != nil {
		log.Error("failed to update card",
			slog.String("error", err.Error()),
			slog.Int64("card_id", card.ID))
		return err
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		log.Error("failed to get rows affected",
			slog.String("error", err.Error()),
			slog.Int64("card_id", card.ID))
		return err
	}

	if rowsAffected == 0 {
		log.Debug("card not found or not owned for update",
			slog.Int64("card_id", card.ID),
			slog.String("user_id", userID.String()))
		return store.ErrCardNotFound
	}

	log.Info("card updated successfully",
		slog.Int64("card_id", card.ID))
	return nil
}

// Delete implements store.CardStore.Delete
// Returns store.ErrCardNotFound if no row was affected.
func (s *PostgresCardStore) Delete(ctx context.Context, id int64, userID uuid.UUID) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query := `
		DELETE FROM cards c
		USING decks d
		WHERE c.id = $1 AND d.id = c.deck_id AND d.owner_id = $2
	`

	result, err := s.db.ExecContext(ctx, query, id, userID)
	if err != nil {
		log.Error("failed to delete card",
			slog.String("error", err.Error()),
			slog.Int64("card_id", id))
		return err
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		log.Error("failed to get rows affected",
			slog.String("error", err.Error()),
			slog.Int64("card_id", id))
		return err
	}

	if rowsAffected == 0 {
		log.Debug("card not found or not owned for delete",
			slog.Int64("card_id", id),
			slog.String("user_id", userID.String()))
		return store.ErrCardNotFound
	}

	log.Info("card deleted successfully",
		slog.Int64("card_id", id))
	return nil
}

// DeleteByDeck implements store.CardStore.DeleteByDeck
// Returns store.ErrDeckNotFound if the deck does not exist or is not owned
// by userID. Deleting zero cards from an owned, empty deck is not an error.
func (s *PostgresCardStore) DeleteByDeck(ctx context.Context, deckID int64, userID uuid.UUID) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if err := s.checkDeckOwnership(ctx, deckID, userID); err != nil {
		log.Debug("deck not found or not owned for card purge",
			slog.Int64("deck_id", deckID),
			slog.String("user_id", userID.String()))
		return err
	}

	result, err := s.db.ExecContext(ctx, `DELETE FROM cards WHERE deck_id = $1`, deckID)
	if err != nil {
		log.Error("failed to delete cards by deck",
			slog.String("error", err.Error()),
			slog.Int64("deck_id", deckID))
		return err
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		log.Error("failed to get rows affected",
			slog.String("error", err.Error()),
			slog.Int64("deck_id", deckID))
		return err
	}

	log.Info("cards deleted by deck",
		slog.Int64("deck_id", deckID),
		slog.Int64("card_count", rowsAffected))
	return nil
}

// checkDeckOwnership verifies that the deck exists and is owned by userID.
// Returns store.ErrDeckNotFound otherwise.
func (s *PostgresCardStore) checkDeckOwnership(ctx context.Context, deckID int64, userID uuid.UUID) error {
	var one int
	err := s.db.QueryRowContext(
		ctx,
		`SELECT 1 FROM decks WHERE id = $1 AND owner_id = $2`,
		deckID,
		userID,
	).Scan(&one)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return store.ErrDeckNotFound
		}
		return err
	}

	return nil
}

// scanCards reads card rows into a slice, returning an empty slice rather
// than nil when there are no rows.
func scanCards(rows *sql.Rows, log *slog.Logger) ([]*domain.Card, error) {
	var cards []*domain.Card
	for rows.Next() {
		var card domain.Card
		err := rows.Scan(
			&card.ID,
			&card.DeckID,
			&card.Front,
			&card.Back,
			&card.CreatedAt,
			&card.UpdatedAt,
		)
		if err != nil {
			log.Error("failed to scan card row",
				slog.String("error", err.Error()))
			return nil, err
		}
		cards = append(cards, &card)
	}

	if err := rows.Err(); err != nil {
		log.Error("error after scanning rows",
			slog.String("error", err.Error()))
		return nil, err
	}

	if cards == nil {
		cards = []*domain.Card{}
	}

	return cards, nil
}
