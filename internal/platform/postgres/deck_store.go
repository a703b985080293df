// Package postgres implements the store interfaces against PostgreSQL.
//
// Ownership verification is never a separate step: every statement that
// reads or mutates a row carries the acting user's identity in its WHERE
// clause (directly for decks, joined through decks for cards) and is judged
// by the rows it actually touched. A zero row count means "not found or not
// yours" — one condition, deliberately undifferentiated.
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

// PostgreSQL error codes
const (
	pgUniqueViolationCode     = "23505"
	pgForeignKeyViolationCode = "23503"
)

// PostgresDeckStore implements the store.DeckStore interface
// using a PostgreSQL database as the storage backend.
type PostgresDeckStore struct {
	db     store.DBTX
	logger *slog.Logger
}

// NewPostgresDeckStore creates a new PostgreSQL implementation of the DeckStore interface.
// It accepts a database connection or transaction that should be initialized and managed by the caller.
// If logger is nil, a default logger will be used.
func NewPostgresDeckStore(db store.DBTX, logger *slog.Logger) *PostgresDeckStore {
	if db == nil {
		panic("db cannot be nil")
	}

	if logger == nil {
		logger = slog.Default()
	}

	return &PostgresDeckStore{
		db:     db,
		logger: logger.With(slog.String("component", "deck_store")),
	}
}

// Ensure PostgresDeckStore implements store.DeckStore interface
var _ store.DeckStore = (*PostgresDeckStore)(nil)

// WithTx implements store.DeckStore.WithTx
func (s *PostgresDeckStore) WithTx(tx *sql.Tx) store.DeckStore {
	return &PostgresDeckStore{
		db:     tx,
		logger: s.logger,
	}
}

// Create implements store.DeckStore.Create
// It saves a new deck to the database and assigns its ID.
// Returns validation errors from the domain Deck if data is invalid.
func (s *PostgresDeckStore) Create(ctx context.Context, deck *domain.Deck) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if err := deck.Validate(); err != nil {
		log.Warn("deck validation failed during create",
			slog.String("error", err.Error()),
			slog.String("owner_id", deck.OwnerID.String()))
		return err
	}

	query := `
		INSERT INTO decks (owner_id, name, description, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id
	`
	err := s.db.QueryRowContext(
		ctx,
		query,
		deck.OwnerID,
		deck.Name,
		deck.Description,
		deck.CreatedAt,
		deck.UpdatedAt,
	).Scan(&deck.ID)

	if err != nil {
		log.Error("failed to create deck",
			slog.String("error", err.Error()),
			slog.String("owner_id", deck.OwnerID.String()))
		return err
	}

	log.Info("deck created successfully",
		slog.Int64("deck_id", deck.ID),
		slog.String("owner_id", deck.OwnerID.String()))
	return nil
}

// GetByID implements store.DeckStore.GetByID
// It retrieves a deck by its ID, scoped to the owning user. The ownership
// condition lives in the same statement as the read.
// Returns store.ErrDeckNotFound if the deck does not exist or is not owned by userID.
func (s *PostgresDeckStore) GetByID(ctx context.Context, id int64, userID uuid.UUID) (*domain.Deck, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query := `
		SELECT id, owner_id, name, description, created_at, updated_at
		FROM decks
		WHERE id = $1 AND owner_id = $2
	`

	var deck domain.Deck
	err := s.db.QueryRowContext(ctx, query, id, userID).Scan(
		&deck.ID,
		&deck.OwnerID,
		&deck.Name,
		&deck.Description,
		&deck.CreatedAt,
		&deck.UpdatedAt,
	)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			log.Debug("deck not found or not owned",
				slog.Int64("deck_id", id),
				slog.String("user_id", userID.String()))
			return nil, store.ErrDeckNotFound
		}
		log.Error("failed to get deck by ID",
			slog.String("error", err.Error()),
			slog.Int64("deck_id", id))
		return nil, err
	}

	return &deck, nil
}

// ListByOwner implements store.DeckStore.ListByOwner
// It retrieves all decks owned by userID, most recently updated first.
// Returns an empty slice if the user owns no decks.
func (s *PostgresDeckStore) ListByOwner(ctx context.Context, userID uuid.UUID) ([]*domain.Deck, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query := `
		SELECT id, owner_id, name, description, created_at, updated_at
		FROM decks
		WHERE owner_id = $1
		ORDER BY updated_at DESC
	`

	rows, err := s.db.QueryContext(ctx, query, userID)
	if err != nil {
		log.Error("failed to query decks by owner",
			slog.String("error", err.Error()),
			slog.String("user_id", userID.String()))
		return nil, err
	}
	defer func() {
		if err := rows.Close(); err != nil {
			log.Error("failed to close rows", slog.String("error", err.Error()))
		}
	}()

	var decks []*domain.Deck
	for rows.Next() {
		var deck domain.Deck
		err := rows.Scan(
			&deck.ID,
			&deck.OwnerID,
			&deck.Name,
			&deck.Description,
			&deck.CreatedAt,
			&deck.UpdatedAt,
		)
		if err != nil {
			log.Error("failed to scan deck row",
				slog.String("error", err.Error()))
			return nil, err
		}
		decks = append(decks, &deck)
	}

	if err := rows.Err(); err != nil {
		log.Error("error after scanning rows",
			slog.String("error", err.Error()))
		return nil, err
	}

	if decks == nil {
		decks = []*domain.Deck{}
	}

	return decks, nil
}

// ListSummaries implements store.DeckStore.ListSummaries
// It retrieves all decks owned by userID annotated with their card counts,
// most recently updated first.
func (s *PostgresDeckStore) ListSummaries(ctx context.Context, userID uuid.UUID) ([]*domain.DeckSummary, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query := `
		SELECT d.id, d.owner_id, d.name, d.description, d.created_at, d.updated_at,
		       COUNT(c.id) AS card_count
		FROM decks d
		LEFT JOIN cards c ON c.deck_id = d.id
		WHERE d.owner_id = $1
		GROUP BY d.id
		ORDER BY d.updated_at DESC
	`

	rows, err := s.db.QueryContext(ctx, query, userID)
	if err != nil {
		log.Error("failed to query deck summaries",
			slog.String("error", err.Error()),
			slog.String("user_id", userID.String()))
		return nil, err
	}
	defer func() {
		if err := rows.Close(); err != nil {
			log.Error("failed to close rows", slog.String("error", err.Error()))
		}
	}()

	var summaries []*domain.DeckSummary
	for rows.Next() {
		var summary domain.DeckSummary
		err := rows.Scan(
			&summary.Deck.ID,
			&summary.Deck.OwnerID,
			&summary.Deck.Name,
			&summary.Deck.Description,
			&summary.Deck.CreatedAt,
			&summary.Deck.UpdatedAt,
			&summary.CardCount,
		)
		if err != nil {
			log.Error("failed to scan deck summary row",
				slog.String("error", err.Error()))
			return nil, err
		}
		summaries = append(summaries, &summary)
	}

	if err := rows.Err(); err != nil {
		log.Error("error after scanning rows",
			slog.String("error", err.Error()))
		return nil, err
	}

	if summaries == nil {
		summaries = []*domain.DeckSummary{}
	}

	return summaries, nil
}

// CountByOwner implements store.DeckStore.CountByOwner
// It returns the number of decks owned by userID.
func (s *PostgresDeckStore) CountByOwner(ctx context.Context, userID uuid.UUID) (int64, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	var count int64
	err := s.db.QueryRowContext(
		ctx,
		`SELECT COUNT(*) FROM decks WHERE owner_id = $1`,
		userID,
	).Scan(&count)

	if err != nil {
		log.Error("failed to count decks by owner",
			slog.String("error", err.Error()),
			slog.String("user_id", userID.String()))
		return 0, err
	}

	return count, nil
}

// Update implements store.DeckStore.Update
// It overwrites the deck's name and description and refreshes updated_at in
// one conditional statement; the ownership check and the mutation cannot be
// separated. Returns store.ErrDeckNotFound if no row was affected.
func (s *PostgresDeckStore) Update(ctx context.Context, deck *domain.Deck, userID uuid.UUID) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if err := deck.Validate(); err != nil {
		log.Warn("deck validation failed during update",
			slog.String("error", err.Error()),
			slog.Int64("deck_id", deck.ID))
		return err
	}

	deck.UpdatedAt = time.Now().UTC()

	query := `
		UPDATE decks
		SET name = $1, description = $2, updated_at = $3
		WHERE id = $4 AND owner_id = $5
	`

	result, err := s.db.ExecContext(
		ctx,
		query,
		deck.Name,
		deck.Description,
		deck.UpdatedAt,
		deck.ID,
		userID,
	)

	if err != nil {
		log.Error("failed to update deck",
			slog.String("error", err.Error()),
			slog.Int64("deck_id", deck.ID))
		return err
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		log.Error("failed to get rows affected",
			slog.String("error", err.Error()),
			slog.Int64("deck_id", deck.ID))
		return err
	}

	if rowsAffected == 0 {
		log.Debug("deck not found or not owned for update",
			slog.Int64("deck_id", deck.ID),
			slog.String("user_id", userID.String()))
		return store.ErrDeckNotFound
	}

	log.Info("deck updated successfully",
		slog.Int64("deck_id", deck.ID))
	return nil
}

// Delete implements store.DeckStore.Delete
// It removes the deck in one conditional statement. The cards of the deck
// are removed atomically with it by the ON DELETE CASCADE constraint on
// cards.deck_id; no card survives its deck.
// Returns store.ErrDeckNotFound if no row was affected.
func (s *PostgresDeckStore) Delete(ctx context.Context, id int64, userID uuid.UUID) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	result, err := s.db.ExecContext(
		ctx,
		`DELETE FROM decks WHERE id = $1 AND owner_id = $2`,
		id,
		userID,
	)

	if err != nil {
		log.Error("failed to delete deck",
			slog.String("error", err.Error()),
			slog.Int64("deck_id", id))
		return err
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		log.Error("failed to get rows affected",
			slog.String("error", err.Error()),
			slog.Int64("deck_id", id))
		return err
	}

	if rowsAffected == 0 {
		log.Debug("deck not found or not owned for delete",
			slog.Int64("deck_id", id),
			slog.String("user_id", userID.String()))
		return store.ErrDeckNotFound
	}

	log.Info("deck deleted successfully",
		slog.Int64("deck_id", id),
		slog.String("user_id", userID.String()))
	return nil
}
