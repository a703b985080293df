package service

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tbraddock/flashdeck-api/internal/domain"
	"github.com/tbraddock/flashdeck-api/internal/store"
)

func TestCreateDeck(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	userID := uuid.New()
	quota := domain.NewDeckQuotaPolicy(3)

	t.Run("creates when under the quota", func(t *testing.T) {
		t.Parallel()
		created := false
		deckStore := &mockDeckStore{
			countByOwnerFn: func(ctx context.Context, userID uuid.UUID) (int64, error) {
				return 2, nil
			},
			createFn: func(ctx context.Context, deck *domain.Deck) error {
				deck.ID = 11
				created = true
				return nil
			},
		}

		svc, err := NewDeckService(newStubDB(t), deckStore, quota, nil)
		require.NoError(t, err)

		deck, err := svc.CreateDeck(ctx, userID, false, "History", "European history")
		require.NoError(t, err)
		assert.True(t, created)
		assert.Equal(t, int64(11), deck.ID)
		assert.Equal(t, userID, deck.OwnerID)
	})

	t.Run("rejects at the quota", func(t *testing.T) {
		t.Parallel()
		deckStore := &mockDeckStore{
			countByOwnerFn: func(ctx context.Context, userID uuid.UUID) (int64, error) {
				return 3, nil
			},
			createFn: func(ctx context.Context, deck *domain.Deck) error {
				t.Error("create must not be called when the quota rejects")
				return nil
			},
		}

		svc, err := NewDeckService(newStubDB(t), deckStore, quota, nil)
		require.NoError(t, err)

		_, err = svc.CreateDeck(ctx, userID, false, "One Too Many", "")
		assert.ErrorIs(t, err, ErrQuotaExceeded)
	})

	t.Run("unlimited entitlement bypasses the quota", func(t *testing.T) {
		t.Parallel()
		deckStore := &mockDeckStore{
			countByOwnerFn: func(ctx context.Context, userID uuid.UUID) (int64, error) {
				return 50, nil
			},
			createFn: func(ctx context.Context, deck *domain.Deck) error {
				deck.ID = 51
				return nil
			},
		}

		svc, err := NewDeckService(newStubDB(t), deckStore, quota, nil)
		require.NoError(t, err)

		deck, err := svc.CreateDeck(ctx, userID, true, "Deck 51", "")
		require.NoError(t, err)
		assert.Equal(t, int64(51), deck.ID)
	})

	t.Run("rejects invalid names before touching the store", func(t *testing.T) {
		t.Parallel()
		svc, err := NewDeckService(newStubDB(t), &mockDeckStore{}, quota, nil)
		require.NoError(t, err)

		_, err = svc.CreateDeck(ctx, userID, false, "", "")
		assert.ErrorIs(t, err, domain.ErrDeckNameEmpty)
	})
}

func TestGetDeck(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	userID := uuid.New()

	t.Run("returns the owned deck", func(t *testing.T) {
		t.Parallel()
		deckStore := &mockDeckStore{
			getByIDFn: func(ctx context.Context, id int64, uid uuid.UUID) (*domain.Deck, error) {
				assert.Equal(t, int64(5), id)
				assert.Equal(t, userID, uid)
				return &domain.Deck{ID: 5, OwnerID: userID, Name: "Physics"}, nil
			},
		}
		svc, err := NewDeckService(newStubDB(t), deckStore, domain.NewDeckQuotaPolicy(0), nil)
		require.NoError(t, err)

		deck, err := svc.GetDeck(ctx, 5, userID)
		require.NoError(t, err)
		assert.Equal(t, "Physics", deck.Name)
	})

	t.Run("missing and unowned decks are the same not-found", func(t *testing.T) {
		t.Parallel()
		deckStore := &mockDeckStore{
			getByIDFn: func(ctx context.Context, id int64, uid uuid.UUID) (*domain.Deck, error) {
				return nil, store.ErrDeckNotFound
			},
		}
		svc, err := NewDeckService(newStubDB(t), deckStore, domain.NewDeckQuotaPolicy(0), nil)
		require.NoError(t, err)

		_, err = svc.GetDeck(ctx, 5, userID)
		assert.ErrorIs(t, err, store.ErrDeckNotFound)
	})
}

func TestUpdateDeck(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	userID := uuid.New()

	t.Run("renames and persists", func(t *testing.T) {
		t.Parallel()
		var persisted *domain.Deck
		deckStore := &mockDeckStore{
			getByIDFn: func(ctx context.Context, id int64, uid uuid.UUID) (*domain.Deck, error) {
				return &domain.Deck{ID: 5, OwnerID: userID, Name: "Old", Description: "old"}, nil
			},
			updateFn: func(ctx context.Context, deck *domain.Deck, uid uuid.UUID) error {
				persisted = deck
				return nil
			},
		}
		svc, err := NewDeckService(newStubDB(t), deckStore, domain.NewDeckQuotaPolicy(0), nil)
		require.NoError(t, err)

		deck, err := svc.UpdateDeck(ctx, 5, userID, "New", "new")
		require.NoError(t, err)
		assert.Equal(t, "New", deck.Name)
		require.NotNil(t, persisted)
		assert.Equal(t, "New", persisted.Name)
	})

	t.Run("invalid rename never reaches the store", func(t *testing.T) {
		t.Parallel()
		deckStore := &mockDeckStore{
			getByIDFn: func(ctx context.Context, id int64, uid uuid.UUID) (*domain.Deck, error) {
				return &domain.Deck{ID: 5, OwnerID: userID, Name: "Old"}, nil
			},
			updateFn: func(ctx context.Context, deck *domain.Deck, uid uuid.UUID) error {
				t.Error("update must not be called for an invalid rename")
				return nil
			},
		}
		svc, err := NewDeckService(newStubDB(t), deckStore, domain.NewDeckQuotaPolicy(0), nil)
		require.NoError(t, err)

		_, err = svc.UpdateDeck(ctx, 5, userID, "", "")
		assert.ErrorIs(t, err, domain.ErrDeckNameEmpty)
	})
}

func TestDeleteDeck(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	userID := uuid.New()

	deleted := false
	deckStore := &mockDeckStore{
		deleteFn: func(ctx context.Context, id int64, uid uuid.UUID) error {
			deleted = true
			return nil
		},
	}
	svc, err := NewDeckService(newStubDB(t), deckStore, domain.NewDeckQuotaPolicy(0), nil)
	require.NoError(t, err)

	require.NoError(t, svc.DeleteDeck(ctx, 5, userID))
	assert.True(t, deleted)
}

func TestListDecks(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	userID := uuid.New()

	deckStore := &mockDeckStore{
		listSummariesFn: func(ctx context.Context, uid uuid.UUID) ([]*domain.DeckSummary, error) {
			return []*domain.DeckSummary{
				{Deck: domain.Deck{ID: 1, Name: "A"}, CardCount: 3},
				{Deck: domain.Deck{ID: 2, Name: "B"}, CardCount: 0},
			}, nil
		},
	}
	svc, err := NewDeckService(newStubDB(t), deckStore, domain.NewDeckQuotaPolicy(0), nil)
	require.NoError(t, err)

	summaries, err := svc.ListDecks(ctx, userID)
	require.NoError(t, err)
	require.Len(t, summaries, 2)
	assert.Equal(t, int64(3), summaries[0].CardCount)
}
