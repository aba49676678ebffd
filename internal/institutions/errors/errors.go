package errors

import "errors"

var (
	ErrNotFound = errors.New("institution not found")

	ErrInvalidID = errors.New("invalid institution ID format")
)
