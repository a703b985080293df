package service

import (
	"context"
	"database/sql"

	"github.com/google/uuid"
	"github.com/tbraddock/flashdeck-api/internal/domain"
	"github.com/tbraddock/flashdeck-api/internal/store"
)

// mockDeckStore implements store.DeckStore with configurable behavior per
// method. Unset methods panic so a test failure points at the missing stub.
type mockDeckStore struct {
	createFn        func(ctx context.Context, deck *domain.Deck) error
	getByIDFn       func(ctx context.Context, id int64, userID uuid.UUID) (*domain.Deck, error)
	listByOwnerFn   func(ctx context.Context, userID uuid.UUID) ([]*domain.Deck, error)
	listSummariesFn func(ctx context.Context, userID uuid.UUID) ([]*domain.DeckSummary, error)
	countByOwnerFn  func(ctx context.Context, userID uuid.UUID) (int64, error)
	updateFn        func(ctx context.Context, deck *domain.Deck, userID uuid.UUID) error
	deleteFn        func(ctx context.Context, id int64, userID uuid.UUID) error
}

var _ store.DeckStore = (*mockDeckStore)(nil)

func (m *mockDeckStore) Create(ctx context.Context, deck *domain.Deck) error {
	return m.createFn(ctx, deck)
}

func (m *mockDeckStore) GetByID(
	ctx context.Context,
	id int64,
	userID uuid.UUID,
) (*domain.Deck, error) {
	return m.getByIDFn(ctx, id, userID)
}

func (m *mockDeckStore) ListByOwner(
	ctx context.Context,
	userID uuid.UUID,
) ([]*domain.Deck, error) {
	return m.listByOwnerFn(ctx, userID)
}

func (m *mockDeckStore) ListSummaries(
	ctx context.Context,
	userID uuid.UUID,
) ([]*domain.DeckSummary, error) {
	return m.listSummariesFn(ctx, userID)
}

func (m *mockDeckStore) CountByOwner(ctx context.Context, userID uuid.UUID) (int64, error) {
	return m.countByOwnerFn(ctx, userID)
}

func (m *mockDeckStore) Update(ctx context.Context, deck *domain.Deck, userID uuid.UUID) error {
	return m.updateFn(ctx, deck, userID)
}

func (m *mockDeckStore) Delete(ctx context.Context, id int64, userID uuid.UUID) error {
	return m.deleteFn(ctx, id, userID)
}

func (m *mockDeckStore) WithTx(tx *sql.Tx) store.DeckStore {
	return m
}

// mockCardStore implements store.CardStore the same way.
type mockCardStore struct {
	createFn         func(ctx context.Context, card *domain.Card, userID uuid.UUID) error
	createMultipleFn func(ctx context.Context, deckID int64, userID uuid.UUID, cards []*domain.Card) error
	getByIDFn        func(ctx context.Context, id int64, userID uuid.UUID) (*domain.Card, error)
	listByDeckFn     func(ctx context.Context, deckID int64, userID uuid.UUID) ([]*domain.Card, error)
	listByOwnerFn    func(ctx context.Context, userID uuid.UUID) ([]*domain.Card, error)
	updateFn         func(ctx context.Context, card *domain.Card, userID uuid.UUID) error
	deleteFn         func(ctx context.Context, id int64, userID uuid.UUID) error
	deleteByDeckFn   func(ctx context.Context, deckID int64, userID uuid.UUID) error
}

var _ store.CardStore = (*mockCardStore)(nil)

func (m *mockCardStore) Create(ctx context.Context, card *domain.Card, userID uuid.UUID) error {
	return m.createFn(ctx, card, userID)
}

func (m *mockCardStore) CreateMultiple(
	ctx context.Context,
	deckID int64,
	userID uuid.UUID,
	cards []*domain.Card,
) error {
	return m.createMultipleFn(ctx, deckID, userID, cards)
}

func (m *mockCardStore) GetByID(
	ctx context.Context,
	id int64,
	userID uuid.UUID,
) (*domain.Card, error) {
	return m.getByIDFn(ctx, id, userID)
}

func (m *mockCardStore) ListByDeck(
	ctx context.Context,
	deckID int64,
	userID uuid.UUID,
) ([]*domain.Card, error) {
	return m.listByDeckFn(ctx, deckID, userID)
}

func (m *mockCardStore) ListByOwner(
	ctx context.Context,
	userID uuid.UUID,
) ([]*domain.Card, error) {
	return m.listByOwnerFn(ctx, userID)
}

func (m *mockCardStore) Update(ctx context.Context, card *domain.Card, userID uuid.UUID) error {
	return m.updateFn(ctx, card, userID)
}

func (m *mockCardStore) Delete(ctx context.Context, id int64, userID uuid.UUID) error {
	return m.deleteFn(ctx, id, userID)
}

func (m *mockCardStore) DeleteByDeck(ctx context.Context, deckID int64, userID uuid.UUID) error {
	return m.deleteByDeckFn(ctx, deckID, userID)
}

func (m *mockCardStore) WithTx(tx *sql.Tx) store.CardStore {
	return m
}

// mockGenerator implements generation.Generator.
type mockGenerator struct {
	generateFn func(ctx context.Context, topic string, count int) ([]domain.CardContent, error)
}

func (m *mockGenerator) GenerateCards(
	ctx context.Context,
	topic string,
	count int,
) ([]domain.CardContent, error) {
	return m.generateFn(ctx, topic, count)
}
