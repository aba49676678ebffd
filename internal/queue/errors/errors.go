package errors

import "errors"

var (
	ErrServiceNotFound = errors.New("service not found")

	ErrServiceInactive = errors.New("service is inactive")

	ErrInvalidID = errors.New("invalid service ID format")
)
