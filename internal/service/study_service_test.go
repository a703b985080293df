package service

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tbraddock/flashdeck-api/internal/domain"
	"github.com/tbraddock/flashdeck-api/internal/domain/study"
	"github.com/tbraddock/flashdeck-api/internal/store"
)

func newStudyServiceWithCards(t *testing.T, cards []*domain.Card) StudyService {
	t.Helper()

	cardStore := &mockCardStore{
		listByDeckFn: func(ctx context.Context, deckID int64, userID uuid.UUID) ([]*domain.Card, error) {
			return cards, nil
		},
	}

	svc, err := NewStudyService(cardStore, nil)
	require.NoError(t, err)
	return svc
}

func deckOfCards(n int) []*domain.Card {
	cards := make([]*domain.Card, 0, n)
	for i := 0; i < n; i++ {
		cards = append(cards, &domain.Card{
			ID:     int64(i + 1),
			DeckID: 7,
			Front:  "front",
			Back:   "back",
		})
	}
	return cards
}

func TestStartSession(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	t.Run("starts over the deck snapshot", func(t *testing.T) {
		t.Parallel()
		svc := newStudyServiceWithCards(t, deckOfCards(3))

		state, err := svc.StartSession(ctx, uuid.New(), 7)
		require.NoError(t, err)

		assert.NotEqual(t, uuid.Nil, state.SessionID)
		assert.Equal(t, int64(7), state.DeckID)
		assert.Equal(t, int64(1), state.CardID)
		assert.Equal(t, "front", state.Front)
		assert.Empty(t, state.Back, "back must stay hidden until flipped")
		assert.Equal(t, 0, state.Position)
		assert.Equal(t, 3, state.Size)
		assert.False(t, state.Revealed)
		assert.False(t, state.Complete)
	})

	t.Run("empty deck cannot be studied", func(t *testing.T) {
		t.Parallel()
		svc := newStudyServiceWithCards(t, nil)

		_, err := svc.StartSession(ctx, uuid.New(), 7)
		assert.ErrorIs(t, err, study.ErrNoCards)
	})

	t.Run("unowned deck surfaces as not found", func(t *testing.T) {
		t.Parallel()
		cardStore := &mockCardStore{
			listByDeckFn: func(ctx context.Context, deckID int64, userID uuid.UUID) ([]*domain.Card, error) {
				return nil, store.ErrDeckNotFound
			},
		}
		svc, err := NewStudyService(cardStore, nil)
		require.NoError(t, err)

		_, err = svc.StartSession(ctx, uuid.New(), 7)
		assert.ErrorIs(t, err, store.ErrDeckNotFound)
	})
}

func TestSessionTransitions(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	userID := uuid.New()

	svc := newStudyServiceWithCards(t, deckOfCards(2))
	start, err := svc.StartSession(ctx, userID, 7)
	require.NoError(t, err)
	sessionID := start.SessionID

	// Flip reveals the back
	state, err := svc.Flip(ctx, userID, sessionID)
	require.NoError(t, err)
	assert.True(t, state.Revealed)
	assert.Equal(t, "back", state.Back)

	// Marking advances and hides the back again
	state, err = svc.MarkCorrect(ctx, userID, sessionID)
	require.NoError(t, err)
	assert.Equal(t, 1, state.Position)
	assert.False(t, state.Revealed)
	assert.Empty(t, state.Back)
	assert.Equal(t, 1, state.Score.Correct)

	// Completing the pass
	state, err = svc.Flip(ctx, userID, sessionID)
	require.NoError(t, err)
	assert.True(t, state.Complete)

	state, err = svc.MarkIncorrect(ctx, userID, sessionID)
	require.NoError(t, err)
	assert.Equal(t, 1, state.Score.Correct)
	assert.Equal(t, 1, state.Score.Incorrect)
	assert.Equal(t, 0, state.Score.Unanswered)

	// Restart brings everything back
	state, err = svc.Restart(ctx, userID, sessionID)
	require.NoError(t, err)
	assert.Equal(t, 0, state.Position)
	assert.Equal(t, 2, state.Score.Unanswered)
	assert.False(t, state.Shuffled)

	// Shuffle marks the order as randomized
	state, err = svc.Shuffle(ctx, userID, sessionID)
	require.NoError(t, err)
	assert.True(t, state.Shuffled)
	assert.Equal(t, 0, state.Position)
}

func TestSessionPrivacy(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	owner := uuid.New()
	stranger := uuid.New()

	svc := newStudyServiceWithCards(t, deckOfCards(2))
	start, err := svc.StartSession(ctx, owner, 7)
	require.NoError(t, err)

	// Another user's session and a nonexistent session are the same error
	_, err = svc.GetSession(ctx, stranger, start.SessionID)
	assert.ErrorIs(t, err, ErrSessionNotFound)

	_, err = svc.Flip(ctx, stranger, start.SessionID)
	assert.ErrorIs(t, err, ErrSessionNotFound)

	_, err = svc.GetSession(ctx, owner, uuid.New())
	assert.ErrorIs(t, err, ErrSessionNotFound)

	err = svc.EndSession(ctx, stranger, start.SessionID)
	assert.ErrorIs(t, err, ErrSessionNotFound)

	// The owner still has access
	_, err = svc.GetSession(ctx, owner, start.SessionID)
	assert.NoError(t, err)
}

func TestEndSession(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	userID := uuid.New()

	svc := newStudyServiceWithCards(t, deckOfCards(1))
	start, err := svc.StartSession(ctx, userID, 7)
	require.NoError(t, err)

	require.NoError(t, svc.EndSession(ctx, userID, start.SessionID))

	_, err = svc.GetSession(ctx, userID, start.SessionID)
	assert.ErrorIs(t, err, ErrSessionNotFound)

	err = svc.EndSession(ctx, userID, start.SessionID)
	assert.ErrorIs(t, err, ErrSessionNotFound)
}

func TestSessionSnapshotIsolation(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	userID := uuid.New()

	// The store's cards can change after the session starts; the session
	// keeps studying its original snapshot.
	cards := deckOfCards(2)
	svc := newStudyServiceWithCards(t, cards)

	start, err := svc.StartSession(ctx, userID, 7)
	require.NoError(t, err)

	cards[0].Front = "mutated"

	state, err := svc.GetSession(ctx, userID, start.SessionID)
	require.NoError(t, err)
	assert.Equal(t, "front", state.Front)
}
