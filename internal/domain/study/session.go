// Package study implements the in-memory state machine that drives a review
// session over one immutable snapshot of a deck's cards. A session is
// single-threaded and synchronous: every transition is an immediate, total
// function of the current state, with no persistence or network interaction.
// The snapshot is loaded once and never refreshed mid-session.
package study

import (
	"errors"
	"math/rand"

	"github.com/tbraddock/flashdeck-api/internal/domain"
)

// ErrNoCards is returned when a session is constructed over an empty
// snapshot. A review session requires at least one card.
var ErrNoCards = errors.New("study session requires at least one card")

// Score is the derived, read-only view of a session's progress.
type Score struct {
	Correct    int `json:"correct"`
	Incorrect  int `json:"incorrect"`
	Unanswered int `json:"unanswered"`
	Total      int `json:"total"`
}

// Session holds the state of one review pass:
// a presentation order (a permutation of the snapshot), the current
// position, whether the current card's back is revealed, and the
// correct/incorrect counters.
type Session struct {
	cards     map[int64]domain.Card
	snapshot  []int64 // original order, as loaded
	order     []int64 // current presentation order
	position  int
	revealed  bool
	correct   int
	incorrect int
	shuffled  bool
}

// NewSession creates a session over the given card snapshot, in snapshot
// order, positioned at the first card with the back hidden and both
// counters at zero. Returns ErrNoCards for an empty snapshot.
func NewSession(cards []domain.Card) (*Session, error) {
	if len(cards) == 0 {
		return nil, ErrNoCards
	}

	byID := make(map[int64]domain.Card, len(cards))
	snapshot := make([]int64, 0, len(cards))
	for _, c := range cards {
		byID[c.ID] = c
		snapshot = append(snapshot, c.ID)
	}

	s := &Session{
		cards:    byID,
		snapshot: snapshot,
	}
	s.Restart()
	return s, nil
}

// Flip toggles whether the current card's back is shown. Position and
// counters are unaffected.
func (s *Session) Flip() {
	s.revealed = !s.revealed
}

// Next advances to the following card and hides its back. At the last card
// it is a no-op: the position clamps, it never wraps around.
func (s *Session) Next() {
	if s.position < len(s.order)-1 {
		s.position++
		s.revealed = false
	}
}

// Previous steps back to the preceding card and hides its back. At the
// first card it is a no-op.
func (s *Session) Previous() {
	if s.position > 0 {
		s.position--
		s.revealed = false
	}
}

// Shuffle replaces the presentation order with a uniformly random
// permutation of the complete original snapshot (not of the current,
// possibly-advanced order), returns to the first card, hides the back, and
// zeroes both counters. The session is marked shuffled for display.
func (s *Session) Shuffle() {
	order := make([]int64, len(s.snapshot))
	copy(order, s.snapshot)
	rand.Shuffle(len(order), func(i, j int) {
		order[i], order[j] = order[j], order[i]
	})

	s.order = order
	s.position = 0
	s.revealed = false
	s.correct = 0
	s.incorrect = 0
	s.shuffled = true
}

// Restart resets the session to its initial state: snapshot order, first
// card, back hidden, counters zeroed, shuffled marker cleared.
func (s *Session) Restart() {
	order := make([]int64, len(s.snapshot))
	copy(order, s.snapshot)

	s.order = order
	s.position = 0
	s.revealed = false
	s.correct = 0
	s.incorrect = 0
	s.shuffled = false
}

// MarkCorrect records a correct answer for the current card, then advances
// like Next. Callers are expected to offer it only after Flip has revealed
// the back; the engine accepts the call regardless. Marks stop counting
// once every card in the pass has been answered, so the score can never
// exceed the snapshot size even if the caller navigates backward and
// re-marks a card.
func (s *Session) MarkCorrect() {
	if s.correct+s.incorrect < len(s.order) {
		s.correct++
	}
	s.Next()
}

// MarkIncorrect records an incorrect answer for the current card, then
// advances like Next. See MarkCorrect for the precondition and the
// counting cap.
func (s *Session) MarkIncorrect() {
	if s.correct+s.incorrect < len(s.order) {
		s.incorrect++
	}
	s.Next()
}

// Current returns the card at the present position.
func (s *Session) Current() domain.Card {
	return s.cards[s.order[s.position]]
}

// Position returns the zero-based index of the current card.
func (s *Session) Position() int {
	return s.position
}

// Size returns the number of cards in the snapshot.
func (s *Session) Size() int {
	return len(s.order)
}

// Revealed reports whether the current card's back is shown.
func (s *Session) Revealed() bool {
	return s.revealed
}

// Shuffled reports whether the current order came from Shuffle rather than
// the snapshot.
func (s *Session) Shuffled() bool {
	return s.shuffled
}

// Complete reports whether the session has reached the last card with its
// back revealed. Completion is a derived view, not a distinct state: the
// session stays fully interactive afterward.
func (s *Session) Complete() bool {
	return s.position == len(s.order)-1 && s.revealed
}

// Score returns the current tally out of the snapshot size.
func (s *Session) Score() Score {
	return Score{
		Correct:    s.correct,
		Incorrect:  s.incorrect,
		Unanswered: len(s.order) - s.correct - s.incorrect,
		Total:      len(s.order),
	}
}

// Order returns a copy of the current presentation order as card IDs.
func (s *Session) Order() []int64 {
	order := make([]int64, len(s.order))
	copy(order, s.order)
	return order
}
