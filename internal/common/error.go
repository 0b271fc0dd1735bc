// Package common defines shared constants and sentinel errors used across
// the LifeLog server. Callers should use errors.Is to match these values.
package common

import "errors"

var (
	// Lookup errors. A record that does not exist, or a journal entry that was
	// soft-deleted, is reported as not found.
	ErrorNotFound = errors.New("not found")

	// Ownership errors. The record exists but belongs to another user.
	ErrorForbidden = errors.New("forbidden")

	// Lifecycle errors. The record is in a state that does not allow the
	// requested mutation (e.g. updating a soft-deleted journal entry).
	ErrorInvalidState = errors.New("invalid state")

	// Input errors, detected before the store is touched.
	ErrorValidation = errors.New("validation failed")

	// Uniqueness errors (usernames, life-phase names per owner).
	ErrorAlreadyExists = errors.New("already exists")

	// Identity errors. The session principal does not map to a user record.
	ErrorUnknownPrincipal = errors.New("unknown principal")

	// Service-level errors.
	ErrorInternal     = errors.New("internal error")
	ErrorUnauthorized = errors.New("unauthorized")

	// Auth errors (invalid or malformed token).
	ErrInvalidToken = errors.New("invalid token")
	ErrTokenExpired = errors.New("token expired")
)
