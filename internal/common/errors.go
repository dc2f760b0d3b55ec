// Package common defines shared constants and sentinel errors used across
// client and server layers. Callers should use errors.Is to match these values.
package common

import "errors"

var (
	// Repository-level errors.
	ErrorNotFound = errors.New("not found")

	// Validation errors are never retried and are surfaced to the caller
	// without mutating any store.
	ErrorValidation = errors.New("validation error")

	// ErrorUnavailable marks retryable storage/transport failures.
	ErrorUnavailable = errors.New("storage unavailable")

	// Auth errors.
	ErrorUnauthorized = errors.New("unauthorized")
	ErrInvalidToken   = errors.New("invalid token")
)
