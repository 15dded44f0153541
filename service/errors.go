// Package service holds the storefront's business rules. Handlers map the
// sentinel errors below to HTTP status codes.
package service

import (
	"errors"
	"fmt"

	"electro_store/database"
)

var (
	ErrInvalidInput = errors.New("invalid input")
	ErrUnauthorized = errors.New("unauthorized")
	ErrForbidden    = errors.New("forbidden")
	ErrNotFound     = errors.New("not found")
	ErrConflict     = errors.New("conflict")
)

// storeError translates storage sentinels into service sentinels.
func storeError(err error, what string) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, database.ErrNotFound):
		return fmt.Errorf("%w: %s", ErrNotFound, what)
	case errors.Is(err, database.ErrDuplicate):
		return fmt.Errorf("%w: %s", ErrConflict, what)
	}
	return err
}
