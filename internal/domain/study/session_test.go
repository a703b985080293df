package study

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tbraddock/flashdeck-api/internal/domain"
)

func makeCards(n int) []domain.Card {
	cards := make([]domain.Card, 0, n)
	for i := 0; i < n; i++ {
		cards = append(cards, domain.Card{
			ID:    int64(i + 1),
			Front: "front",
			Back:  "back",
		})
	}
	return cards
}

func TestNewSession(t *testing.T) {
	t.Parallel()

	t.Run("starts at the first card in snapshot order", func(t *testing.T) {
		t.Parallel()
		sess, err := NewSession(makeCards(3))
		require.NoError(t, err)

		assert.Equal(t, 0, sess.Position())
		assert.Equal(t, 3, sess.Size())
		assert.False(t, sess.Revealed())
		assert.False(t, sess.Shuffled())
		assert.Equal(t, int64(1), sess.Current().ID)
		assert.Equal(t, []int64{1, 2, 3}, sess.Order())
		assert.Equal(t, Score{Correct: 0, Incorrect: 0, Unanswered: 3, Total: 3}, sess.Score())
	})

	t.Run("rejects an empty snapshot", func(t *testing.T) {
		t.Parallel()
		sess, err := NewSession(nil)
		assert.ErrorIs(t, err, ErrNoCards)
		assert.Nil(t, sess)
	})

	t.Run("single card session", func(t *testing.T) {
		t.Parallel()
		sess, err := NewSession(makeCards(1))
		require.NoError(t, err)

		assert.False(t, sess.Complete())
		sess.Flip()
		assert.True(t, sess.Complete())
	})
}

func TestSessionFlip(t *testing.T) {
	t.Parallel()
	sess, err := NewSession(makeCards(2))
	require.NoError(t, err)

	sess.Flip()
	assert.True(t, sess.Revealed())

	// Flip is a toggle
	sess.Flip()
	assert.False(t, sess.Revealed())

	// Flipping never moves the position or touches the counters
	assert.Equal(t, 0, sess.Position())
	assert.Equal(t, 2, sess.Score().Unanswered)
}

func TestSessionNavigation(t *testing.T) {
	t.Parallel()

	t.Run("next hides the back", func(t *testing.T) {
		t.Parallel()
		sess, err := NewSession(makeCards(3))
		require.NoError(t, err)

		sess.Flip()
		sess.Next()
		assert.Equal(t, 1, sess.Position())
		assert.False(t, sess.Revealed())
	})

	t.Run("next clamps at the last card", func(t *testing.T) {
		t.Parallel()
		sess, err := NewSession(makeCards(2))
		require.NoError(t, err)

		sess.Next()
		sess.Flip()
		sess.Next() // no-op at the end
		assert.Equal(t, 1, sess.Position())
		// The clamped call must not disturb the revealed state
		assert.True(t, sess.Revealed())
	})

	t.Run("previous clamps at the first card", func(t *testing.T) {
		t.Parallel()
		sess, err := NewSession(makeCards(2))
		require.NoError(t, err)

		sess.Flip()
		sess.Previous() // no-op at the start
		assert.Equal(t, 0, sess.Position())
		assert.True(t, sess.Revealed())

		sess.Next()
		sess.Previous()
		assert.Equal(t, 0, sess.Position())
		assert.False(t, sess.Revealed())
	})
}

func TestSessionMarking(t *testing.T) {
	t.Parallel()

	t.Run("marks advance and tally", func(t *testing.T) {
		t.Parallel()
		sess, err := NewSession(makeCards(3))
		require.NoError(t, err)

		sess.Flip()
		sess.MarkCorrect()
		assert.Equal(t, 1, sess.Position())
		assert.False(t, sess.Revealed())

		sess.Flip()
		sess.MarkIncorrect()
		assert.Equal(t, 2, sess.Position())

		sess.Flip()
		sess.MarkCorrect() // position clamps at the last card

		score := sess.Score()
		assert.Equal(t, Score{Correct: 2, Incorrect: 1, Unanswered: 0, Total: 3}, score)
	})

	t.Run("marks stop counting once every card is answered", func(t *testing.T) {
		t.Parallel()
		sess, err := NewSession(makeCards(2))
		require.NoError(t, err)

		sess.MarkCorrect()
		sess.MarkCorrect()

		// Navigate back and re-mark; the tally must not exceed the snapshot
		sess.Previous()
		sess.MarkIncorrect()
		sess.MarkIncorrect()

		score := sess.Score()
		assert.Equal(t, 2, score.Correct+score.Incorrect)
		assert.Equal(t, 0, score.Unanswered)
		assert.Equal(t, 2, score.Total)
	})
}

func TestSessionShuffle(t *testing.T) {
	t.Parallel()

	t.Run("permutes the full original snapshot", func(t *testing.T) {
		t.Parallel()
		sess, err := NewSession(makeCards(10))
		require.NoError(t, err)

		// Advance partway: shuffle must still cover every card
		sess.Next()
		sess.Next()
		sess.Flip()
		sess.MarkCorrect()

		sess.Shuffle()

		order := sess.Order()
		assert.Len(t, order, 10)
		seen := make(map[int64]bool, len(order))
		for _, id := range order {
			seen[id] = true
		}
		for id := int64(1); id <= 10; id++ {
			assert.True(t, seen[id], "card %d missing from shuffled order", id)
		}
	})

	t.Run("resets position, reveal, and counters", func(t *testing.T) {
		t.Parallel()
		sess, err := NewSession(makeCards(4))
		require.NoError(t, err)

		sess.Flip()
		sess.MarkCorrect()
		sess.Flip()
		sess.MarkIncorrect()

		sess.Shuffle()

		assert.Equal(t, 0, sess.Position())
		assert.False(t, sess.Revealed())
		assert.True(t, sess.Shuffled())
		assert.Equal(t, Score{Correct: 0, Incorrect: 0, Unanswered: 4, Total: 4}, sess.Score())
	})
}

func TestSessionRestart(t *testing.T) {
	t.Parallel()
	sess, err := NewSession(makeCards(3))
	require.NoError(t, err)

	sess.Shuffle()
	sess.Flip()
	sess.MarkCorrect()

	sess.Restart()

	assert.Equal(t, 0, sess.Position())
	assert.False(t, sess.Revealed())
	assert.False(t, sess.Shuffled())
	assert.Equal(t, []int64{1, 2, 3}, sess.Order())
	assert.Equal(t, Score{Correct: 0, Incorrect: 0, Unanswered: 3, Total: 3}, sess.Score())
}

func TestSessionComplete(t *testing.T) {
	t.Parallel()
	sess, err := NewSession(makeCards(2))
	require.NoError(t, err)

	assert.False(t, sess.Complete())

	sess.Next()
	assert.False(t, sess.Complete(), "last card without reveal is not complete")

	sess.Flip()
	assert.True(t, sess.Complete())

	// Completion is a derived view: the session stays interactive
	sess.Previous()
	assert.False(t, sess.Complete())
	sess.Next()
	sess.Flip()
	assert.True(t, sess.Complete())
}

func TestSessionOrderIsACopy(t *testing.T) {
	t.Parallel()
	sess, err := NewSession(makeCards(3))
	require.NoError(t, err)

	order := sess.Order()
	order[0] = 999

	assert.Equal(t, []int64{1, 2, 3}, sess.Order())
}
