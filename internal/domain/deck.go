package domain

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

// Field length limits for decks, mirrored by the database schema.
const (
	MaxDeckNameLength        = 255
	MaxDeckDescriptionLength = 1000
)

// Deck-specific validation errors
var (
	// ErrDeckOwnerEmpty is returned when a deck's owner ID is empty or nil.
	ErrDeckOwnerEmpty = errors.New("deck owner ID cannot be empty")

	// ErrDeckNameEmpty is returned when a deck's name is empty.
	ErrDeckNameEmpty = errors.New("deck name cannot be empty")

	// ErrDeckNameTooLong is returned when a deck's name exceeds MaxDeckNameLength.
	ErrDeckNameTooLong = errors.New("deck name cannot exceed 255 characters")

	// ErrDeckDescriptionTooLong is returned when a deck's description exceeds
	// MaxDeckDescriptionLength.
	ErrDeckDescriptionTooLong = errors.New("deck description cannot exceed 1000 characters")
)

// Deck represents a named, user-owned collection of flashcards.
// The ID is assigned by the store on insert; a zero ID marks an
// unpersisted deck.
type Deck struct {
	ID          int64     `json:"id"`
	OwnerID     uuid.UUID `json:"owner_id"`
	Name        string    `json:"name"`
	Description string    `json:"description,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// NewDeck creates a new Deck owned by the given user. The ID is left zero
// for the store to assign, and the creation/update timestamps are set.
// Returns an error if validation fails.
func NewDeck(ownerID uuid.UUID, name, description string) (*Deck, error) {
	now := time.Now().UTC()
	deck := &Deck{
		OwnerID:     ownerID,
		Name:        name,
		Description: description,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if err := deck.Validate(); err != nil {
		return nil, err
	}

	return deck, nil
}

// Validate checks if the Deck has valid data.
// Returns an error if any field fails validation.
func (d *Deck) Validate() error {
	if d.OwnerID == uuid.Nil {
		return ErrDeckOwnerEmpty
	}

	if d.Name == "" {
		return ErrDeckNameEmpty
	}

	if len(d.Name) > MaxDeckNameLength {
		return ErrDeckNameTooLong
	}

	if len(d.Description) > MaxDeckDescriptionLength {
		return ErrDeckDescriptionTooLong
	}

	return nil
}

// Rename overwrites the deck's name and description and refreshes the
// UpdatedAt timestamp. The deck is left unchanged if the new values are
// invalid.
func (d *Deck) Rename(name, description string) error {
	origName, origDescription := d.Name, d.Description
	d.Name = name
	d.Description = description

	if err := d.Validate(); err != nil {
		d.Name = origName
		d.Description = origDescription
		return err
	}

	d.UpdatedAt = time.Now().UTC()
	return nil
}

// DeckSummary pairs a deck with the number of cards it contains.
// It is a read model used by deck listings.
type DeckSummary struct {
	Deck      Deck  `json:"deck"`
	CardCount int64 `json:"card_count"`
}
