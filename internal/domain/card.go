package domain

import (
	"errors"
	"time"
)

// Field length limits for cards, mirrored by the database schema.
const (
	MaxCardFrontLength = 1000
	MaxCardBackLength  = 1000
)

// Card-specific validation errors
var (
	// ErrCardDeckIDEmpty is returned when a card's deck ID is zero.
	ErrCardDeckIDEmpty = errors.New("card deck ID cannot be empty")

	// ErrCardFrontEmpty is returned when a card's front side is empty.
	ErrCardFrontEmpty = errors.New("card front cannot be empty")

	// ErrCardFrontTooLong is returned when a card's front side exceeds MaxCardFrontLength.
	ErrCardFrontTooLong = errors.New("card front cannot exceed 1000 characters")

	// ErrCardBackEmpty is returned when a card's back side is empty.
	ErrCardBackEmpty = errors.New("card back cannot be empty")

	// ErrCardBackTooLong is returned when a card's back side exceeds MaxCardBackLength.
	ErrCardBackTooLong = errors.New("card back cannot exceed 1000 characters")
)

// Card represents a front/back question-answer pair belonging to exactly
// one deck. Ownership by a user is transitive through the parent deck.
type Card struct {
	ID        int64     `json:"id"`
	DeckID    int64     `json:"deck_id"`
	Front     string    `json:"front"`
	Back      string    `json:"back"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// CardContent is the front/back payload of a card before it is persisted.
// Both manually entered cards and generated candidates arrive in this form
// and are subject to the same validation.
type CardContent struct {
	Front string `json:"front"`
	Back  string `json:"back"`
}

// Validate checks the content against the card field constraints.
func (c CardContent) Validate() error {
	if c.Front == "" {
		return ErrCardFrontEmpty
	}
	if len(c.Front) > MaxCardFrontLength {
		return ErrCardFrontTooLong
	}
	if c.Back == "" {
		return ErrCardBackEmpty
	}
	if len(c.Back) > MaxCardBackLength {
		return ErrCardBackTooLong
	}
	return nil
}

// NewCard creates a new Card for the given deck. The ID is left zero for
// the store to assign, and the creation/update timestamps are set.
// Returns an error if validation fails.
func NewCard(deckID int64, front, back string) (*Card, error) {
	now := time.Now().UTC()
	card := &Card{
		DeckID:    deckID,
		Front:     front,
		Back:      back,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := card.Validate(); err != nil {
		return nil, err
	}

	return card, nil
}

// Validate checks if the Card has valid data.
// Returns an error if any field fails validation.
func (c *Card) Validate() error {
	if c.DeckID == 0 {
		return ErrCardDeckIDEmpty
	}

	return CardContent{Front: c.Front, Back: c.Back}.Validate()
}

// UpdateContent overwrites the card's front and back and refreshes the
// UpdatedAt timestamp. The card is left unchanged if the new content is
// invalid.
func (c *Card) UpdateContent(front, back string) error {
	if err := (CardContent{Front: front, Back: back}).Validate(); err != nil {
		return err
	}

	c.Front = front
	c.Back = back
	c.UpdatedAt = time.Now().UTC()
	return nil
}
