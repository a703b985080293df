package api

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/tbraddock/flashdeck-api/internal/api/shared"
	"github.com/tbraddock/flashdeck-api/internal/domain"
	"github.com/tbraddock/flashdeck-api/internal/domain/study"
	"github.com/tbraddock/flashdeck-api/internal/generation"
	"github.com/tbraddock/flashdeck-api/internal/service"
	"github.com/tbraddock/flashdeck-api/internal/service/auth"
	"github.com/tbraddock/flashdeck-api/internal/store"
)

// MapErrorToStatusCode maps internal errors to appropriate HTTP status codes
// based on the error type. This prevents leaking internal error types or
// messages to clients.
//
// Note that every not-found condition, including a resource that exists but
// belongs to another user, maps to 404: the status alone must not reveal
// whether the resource exists.
func MapErrorToStatusCode(err error) int {
	switch {
	// Authentication errors
	case errors.Is(err, auth.ErrInvalidToken),
		errors.Is(err, auth.ErrExpiredToken),
		errors.Is(err, auth.ErrTokenNotYetValid),
		errors.Is(err, auth.ErrMissingToken),
		errors.Is(err, domain.ErrUnauthorized):
		return http.StatusUnauthorized

	// Not found errors (missing and unowned are indistinguishable)
	case errors.Is(err, store.ErrNotFound),
		errors.Is(err, service.ErrSessionNotFound):
		return http.StatusNotFound

	// Conflict errors
	case errors.Is(err, store.ErrEmailExists),
		errors.Is(err, service.ErrQuotaExceeded):
		return http.StatusConflict

	// A session cannot start over an empty deck
	case errors.Is(err, study.ErrNoCards):
		return http.StatusUnprocessableEntity

	// Bad request errors
	case errors.Is(err, domain.ErrValidation),
		errors.Is(err, domain.ErrInvalidID),
		errors.Is(err, store.ErrInvalidEntity):
		return http.StatusBadRequest

	// Generation integration errors
	case errors.Is(err, service.ErrGenerationUnavailable):
		return http.StatusServiceUnavailable

	case errors.Is(err, generation.ErrContentBlocked),
		errors.Is(err, generation.ErrInvalidResponse),
		errors.Is(err, generation.ErrTransientFailure),
		errors.Is(err, generation.ErrGenerationFailed):
		return http.StatusBadGateway

	// Default: internal server error
	default:
		return http.StatusInternalServerError
	}
}

// GetSafeErrorMessage returns a sanitized, user-friendly error message
// based on the error type. This prevents leaking sensitive internal details.
func GetSafeErrorMessage(err error) string {
	if err == nil {
		return "An unexpected error occurred"
	}

	switch {
	// Authentication errors
	case errors.Is(err, auth.ErrInvalidToken),
		errors.Is(err, auth.ErrExpiredToken),
		errors.Is(err, auth.ErrTokenNotYetValid),
		errors.Is(err, auth.ErrMissingToken):
		return "Invalid token"

	case errors.Is(err, domain.ErrUnauthorized):
		return "Unauthorized"

	// Not found errors. The deck and card messages are identical for
	// missing and unowned resources.
	case errors.Is(err, store.ErrDeckNotFound):
		return "Deck not found"

	case errors.Is(err, store.ErrCardNotFound):
		return "Card not found"

	case errors.Is(err, store.ErrUserNotFound):
		return "User not found"

	case errors.Is(err, service.ErrSessionNotFound):
		return "Study session not found"

	// Conflict errors
	case errors.Is(err, store.ErrEmailExists):
		return "Email already exists"

	case errors.Is(err, service.ErrQuotaExceeded):
		return "Deck limit reached"

	case errors.Is(err, study.ErrNoCards):
		return "Deck has no cards to study"

	// Bad request errors
	case errors.Is(err, domain.ErrValidation),
		errors.Is(err, domain.ErrInvalidID),
		errors.Is(err, store.ErrInvalidEntity):
		var validationErr *domain.ValidationError
		if errors.As(err, &validationErr) {
			return fmt.Sprintf("Invalid %s: %s", validationErr.Field, validationErr.Message)
		}
		return "Invalid request data"

	// Generation integration errors
	case errors.Is(err, service.ErrGenerationUnavailable):
		return "Card generation is not available"

	case errors.Is(err, generation.ErrContentBlocked):
		return "Generation request was blocked"

	case errors.Is(err, generation.ErrInvalidResponse),
		errors.Is(err, generation.ErrTransientFailure),
		errors.Is(err, generation.ErrGenerationFailed):
		return "Card generation failed"

	// Default case for unknown errors
	default:
		return "An unexpected error occurred"
	}
}

// HandleAPIError maps an error to a status code and safe message and writes
// the response, logging the full error server-side. When defaultMessage is
// non-empty it overrides the mapped message for unexpected (5xx) errors.
func HandleAPIError(w http.ResponseWriter, r *http.Request, err error, defaultMessage string) {
	status := MapErrorToStatusCode(err)
	message := GetSafeErrorMessage(err)
	if defaultMessage != "" && status >= http.StatusInternalServerError {
		message = defaultMessage
	}
	shared.RespondWithErrorAndLog(w, r, status, message, err)
}

// SanitizeValidationError removes sensitive details from validation errors
// and returns a user-friendly message.
func SanitizeValidationError(err error) string {
	errMsg := err.Error()

	// Example format: "Key: 'LoginRequest.Email' Error:Field validation for
	// 'Email' failed on the 'required' tag"
	if strings.Contains(errMsg, "Field validation") {
		parts := strings.Split(errMsg, "Error:")
		if len(parts) >= 2 {
			fieldParts := strings.Split(parts[1], "'")
			if len(fieldParts) >= 3 {
				field := fieldParts[1]
				var tag string
				if len(fieldParts) >= 5 {
					tag = fieldParts[3]
				}

				if tag != "" {
					return fmt.Sprintf("Invalid %s: %s", field, getValidationTagMessage(tag))
				}
				return fmt.Sprintf("Invalid %s", field)
			}
		}
	}

	return "Validation error"
}

// getValidationTagMessage maps validation tags to user-friendly error messages
func getValidationTagMessage(tag string) string {
	switch tag {
	case "required":
		return "required field"
	case "email":
		return "invalid email format"
	case "min":
		return "too short"
	case "max":
		return "too long"
	case "gt", "gte", "lt", "lte":
		return "out of range"
	case "oneof":
		return "invalid value"
	default:
		return "validation failed"
	}
}
