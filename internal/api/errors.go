package api

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/jrenard/flashdeck-api/internal/authoring"
	"github.com/jrenard/flashdeck-api/internal/domain"
	"github.com/jrenard/flashdeck-api/internal/generation"
	"github.com/jrenard/flashdeck-api/internal/service/auth"
	"github.com/jrenard/flashdeck-api/internal/session"
	"github.com/jrenard/flashdeck-api/internal/store"
	"github.com/jrenard/flashdeck-api/internal/study"
)

// MapErrorToStatusCode maps internal errors to HTTP status codes without
// leaking internal error types or messages to clients.
func MapErrorToStatusCode(err error) int {
	switch {
	// Authentication errors
	case errors.Is(err, auth.ErrInvalidToken),
		errors.Is(err, auth.ErrExpiredToken),
		errors.Is(err, auth.ErrTokenNotYetValid),
		errors.Is(err, auth.ErrInvalidRefreshToken),
		errors.Is(err, auth.ErrExpiredRefreshToken),
		errors.Is(err, auth.ErrWrongTokenType),
		errors.Is(err, store.ErrUnauthenticated):
		return http.StatusUnauthorized

	// Not found errors
	case errors.Is(err, store.ErrUserNotFound),
		errors.Is(err, store.ErrDeckNotFound),
		errors.Is(err, session.ErrNotFound):
		return http.StatusNotFound

	// Conflict errors
	case errors.Is(err, store.ErrEmailExists):
		return http.StatusConflict

	// State errors: the request was well-formed but the session is not in a
	// state that allows it.
	case errors.Is(err, session.ErrInvalidTransition),
		errors.Is(err, study.ErrWalkFinished):
		return http.StatusConflict

	// Bad request errors
	case errors.Is(err, store.ErrInvalidEntity),
		errors.Is(err, authoring.ErrEmptyTopic),
		errors.Is(err, authoring.ErrNoCards),
		errors.Is(err, authoring.ErrCardIndexOutOfRange),
		errors.Is(err, authoring.ErrUnknownCardField),
		errors.Is(err, generation.ErrEmptyTopic),
		errors.Is(err, domain.ErrEmptyQuestion),
		errors.Is(err, domain.ErrEmptyAnswer):
		return http.StatusBadRequest

	// Generation dependency errors
	case errors.Is(err, generation.ErrMissingAPIKey):
		return http.StatusServiceUnavailable
	case errors.Is(err, generation.ErrGenerationFailed),
		errors.Is(err, generation.ErrInvalidResponse):
		return http.StatusBadGateway

	default:
		return http.StatusInternalServerError
	}
}

// GetSafeErrorMessage returns a sanitized, user-facing message for the error.
func GetSafeErrorMessage(err error) string {
	if err == nil {
		return "An unexpected error occurred"
	}

	switch {
	case errors.Is(err, auth.ErrInvalidToken),
		errors.Is(err, auth.ErrExpiredToken),
		errors.Is(err, auth.ErrTokenNotYetValid):
		return "Invalid token"

	case errors.Is(err, auth.ErrInvalidRefreshToken),
		errors.Is(err, auth.ErrExpiredRefreshToken),
		errors.Is(err, auth.ErrWrongTokenType):
		return "Invalid refresh token"

	case errors.Is(err, store.ErrUnauthenticated):
		return "Authentication required"

	case errors.Is(err, store.ErrUserNotFound):
		return "User not found"

	case errors.Is(err, store.ErrDeckNotFound):
		return "Deck not found"

	case errors.Is(err, session.ErrNotFound):
		return "Session not found"

	case errors.Is(err, session.ErrInvalidTransition):
		return "Operation not allowed in the current state"

	case errors.Is(err, study.ErrWalkFinished):
		return "Study session is already finished"

	case errors.Is(err, store.ErrEmailExists):
		return "Email already exists"

	case errors.Is(err, store.ErrInvalidEntity):
		return "Invalid entity data"

	case errors.Is(err, authoring.ErrEmptyTopic),
		errors.Is(err, generation.ErrEmptyTopic):
		return "A topic is required"

	case errors.Is(err, authoring.ErrNoCards):
		return "The deck needs at least one card"

	case errors.Is(err, authoring.ErrCardIndexOutOfRange):
		return "No card at that position"

	case errors.Is(err, authoring.ErrUnknownCardField):
		return "Unknown card field"

	case errors.Is(err, domain.ErrEmptyQuestion):
		return "A card question cannot be empty"

	case errors.Is(err, domain.ErrEmptyAnswer):
		return "A card answer cannot be empty"

	case errors.Is(err, generation.ErrMissingAPIKey):
		return "Card generation is not configured"

	case errors.Is(err, generation.ErrGenerationFailed),
		errors.Is(err, generation.ErrInvalidResponse):
		return "Card generation failed"

	default:
		return "An unexpected error occurred"
	}
}

// SanitizeValidationError turns a validator error into a user-friendly
// message without echoing submitted values back.
func SanitizeValidationError(err error) string {
	errMsg := err.Error()

	if strings.Contains(errMsg, "Field validation") {
		// Format: "Key: 'LoginRequest.Email' Error:Field validation for 'Email' failed on the 'required' tag"
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
					return fmt.Sprintf("Invalid %s: %s", field, validationTagMessage(tag))
				}
				return fmt.Sprintf("Invalid %s", field)
			}
		}
	}

	return "Validation error"
}

func validationTagMessage(tag string) string {
	switch tag {
	case "required":
		return "required field"
	case "email":
		return "invalid email format"
	case "min":
		return "too short"
	case "max":
		return "too long"
	case "oneof":
		return "invalid value"
	default:
		return "validation failed"
	}
}
