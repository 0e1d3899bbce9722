package usecase

import (
	"errors"
	"fmt"
)

var (
	// ErrBackendUnavailable covers any failed fetch, write, delete or subscribe.
	ErrBackendUnavailable = errors.New("backend unavailable")

	// ErrValidationRejected marks operations refused locally, no backend call was made.
	ErrValidationRejected = errors.New("validation failed")

	ErrUnauthenticated = fmt.Errorf("%w: authentication required", ErrValidationRejected)
	ErrForbidden       = fmt.Errorf("%w: admin access required", ErrValidationRejected)

	ErrNotFound           = errors.New("not found")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrAlreadyRegistered  = errors.New("email already registered")
)

func unavailable(op string, err error) error {
	return fmt.Errorf("%s: %w: %w", op, ErrBackendUnavailable, err)
}

func rejected(reason string) error {
	return fmt.Errorf("%w: %s", ErrValidationRejected, reason)
}
