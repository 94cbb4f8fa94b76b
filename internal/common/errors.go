package common

import (
	"errors"
	"net/http"
)

// Business logic errors
var (
	// General errors
	ErrNotFound  = errors.New("resource not found")
	ErrForbidden = errors.New("forbidden")

	// Auth errors
	ErrUnauthorized = errors.New("unauthorized")
	ErrInvalidToken = errors.New("invalid token")
	ErrExpiredToken = errors.New("expired token")

	// Validation errors
	ErrInvalidInput = errors.New("invalid input")

	// Moderation errors
	ErrPolicyInactive    = errors.New("moderation policy inactive")
	ErrConflictRetryable = errors.New("concurrent decision conflict")
	ErrStorageFailure    = errors.New("storage failure")
)

// Error kind codes exposed to API clients
const (
	KindInvalidInput      = "INVALID_INPUT"
	KindUnauthorized      = "UNAUTHORIZED"
	KindPolicyInactive    = "POLICY_INACTIVE"
	KindNotFound          = "NOT_FOUND"
	KindConflictRetryable = "CONFLICT_RETRYABLE"
	KindStorageFailure    = "STORAGE_FAILURE"
)

// ErrorKind returns the stable kind code for err.
// Unknown errors are reported as storage failures.
func ErrorKind(err error) string {
	switch {
	case errors.Is(err, ErrInvalidInput):
		return KindInvalidInput
	case errors.Is(err, ErrUnauthorized), errors.Is(err, ErrForbidden):
		return KindUnauthorized
	case errors.Is(err, ErrPolicyInactive):
		return KindPolicyInactive
	case errors.Is(err, ErrNotFound):
		return KindNotFound
	case errors.Is(err, ErrConflictRetryable):
		return KindConflictRetryable
	default:
		return KindStorageFailure
	}
}

// HTTPStatus maps err to the response status the API layer should use
func HTTPStatus(err error) int {
	switch ErrorKind(err) {
	case KindInvalidInput:
		return http.StatusBadRequest
	case KindUnauthorized:
		return http.StatusForbidden
	case KindPolicyInactive:
		return http.StatusUnprocessableEntity
	case KindNotFound:
		return http.StatusNotFound
	case KindConflictRetryable:
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

// IsRetryable reports whether the caller may retry the failed call
func IsRetryable(err error) bool {
	return errors.Is(err, ErrConflictRetryable)
}
