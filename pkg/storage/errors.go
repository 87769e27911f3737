package storage

import "errors"

// Sentinel errors for storage operations.
var (
	// ErrNotFound is returned when a completion does not exist or has
	// been deleted.
	ErrNotFound = errors.New("completion not found")

	// ErrConflict is returned when a completion with the given ID
	// already exists.
	ErrConflict = errors.New("completion already exists")
)
