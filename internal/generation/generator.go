package generation

import (
	"context"

	"github.com/tbraddock/flashdeck-api/internal/domain"
)

// Generator defines the interface for producing flashcard candidates from a
// topic. This interface serves as a boundary between the application core
// and external AI/LLM services: the core treats whatever comes back as
// untrusted input and runs it through the same field validation as manually
// entered cards before anything is persisted.
type Generator interface {
	// GenerateCards produces up to count front/back candidates for the
	// given topic.
	//
	// Parameters:
	//   - ctx: Context for the operation, which can be used for cancellation
	//   - topic: The subject to generate cards about
	//   - count: The number of candidates requested
	//
	// Returns:
	//   - A slice of candidate card contents (the producer may return fewer
	//     than requested)
	//   - An error if generation fails (see errors.go for specific types)
	GenerateCards(ctx context.Context, topic string, count int) ([]domain.CardContent, error)
}
