package errors

import "errors"

var (
	ErrNotFound = errors.New("booking not found")

	ErrInvalidID = errors.New("invalid booking ID format")

	// ErrStatusConflict means a guarded status update matched no document
	// because the booking moved to another status first.
	ErrStatusConflict = errors.New("booking status changed concurrently")
)
