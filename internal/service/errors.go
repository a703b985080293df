// Package service provides application-level services for managing decks,
// cards, and study sessions.
package service

import "errors"

// Common service errors - sentinel errors used across service implementations.
// These errors represent common conditions that callers may want to check for
// with errors.Is().
//
// Error handling principles:
// 1. Service methods return sentinel errors for expected error conditions
// 2. Unexpected errors are wrapped in service-specific error types
// 3. Callers use errors.Is/errors.As to check for specific error conditions
// 4. The API layer maps service errors to appropriate HTTP status codes
var (
	// ErrQuotaExceeded indicates the user has reached their deck limit and
	// holds no unlimited entitlement. API layer should map this to HTTP 409.
	ErrQuotaExceeded = errors.New("deck quota exceeded")

	// ErrGenerationUnavailable indicates the card-generation integration is
	// not configured. API layer should map this to HTTP 503.
	ErrGenerationUnavailable = errors.New("card generation is not available")

	// ErrSessionNotFound indicates a study session does not exist or belongs
	// to another user. The two cases are deliberately indistinguishable.
	// API layer should map this to HTTP 404.
	ErrSessionNotFound = errors.New("study session not found")
)
