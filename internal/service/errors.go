package service

import (
	"errors"
	"fmt"
)

// Error kinds returned by the service. Callers match them with errors.Is;
// the wrapped message carries the detail.
var (
	ErrValidation         = errors.New("invalid input")
	ErrNotFound           = errors.New("not found")
	ErrInsufficientFunds  = errors.New("insufficient points")
	ErrPartialFailure     = errors.New("partially completed")
	ErrBackendUnavailable = errors.New("backend unavailable")
	ErrUnauthorized       = errors.New("unauthorized")
	ErrForbidden          = errors.New("forbidden")
)

func invalid(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrValidation, fmt.Sprintf(format, args...))
}

func notFound(what string) error {
	return fmt.Errorf("%w: %s", ErrNotFound, what)
}

// backend marks a storage failure.
func backend(err error) error {
	return fmt.Errorf("%w: %w", ErrBackendUnavailable, err)
}
