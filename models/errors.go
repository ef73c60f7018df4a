package models

import "errors"

// Common error types used throughout the choreosync application.
// These errors provide semantic meaning and enable consistent error handling
// across different layers (engine, catalog store, read API).

var (
	// ErrNotFound indicates the requested entity does not exist.
	// HTTP equivalent: 404 Not Found
	ErrNotFound = errors.New("entity not found")

	// ErrInvalidRef indicates an entity reference string is malformed.
	// HTTP equivalent: 400 Bad Request
	ErrInvalidRef = errors.New("invalid entity reference")

	// ErrInvalidKind indicates an unknown entity kind was requested.
	// HTTP equivalent: 400 Bad Request
	ErrInvalidKind = errors.New("invalid entity kind")

	// ErrInvalidMutation indicates a mutation is malformed (wrong type or
	// inconsistent location keys).
	ErrInvalidMutation = errors.New("invalid mutation")

	// ErrRunFailed indicates a reconciliation run aborted before submitting
	// a mutation (the namespace list itself could not be fetched).
	ErrRunFailed = errors.New("reconciliation run failed")

	// ErrDatabaseError indicates a catalog store operation failed.
	// HTTP equivalent: 500 Internal Server Error
	ErrDatabaseError = errors.New("database error")
)
