package services

import (
	"errors"
	"fmt"
)

// Error taxonomy. Every service failure wraps one of these sentinels so the
// HTTP layer can map it to a status code with errors.Is: validation → 400,
// not found → 404, forbidden → 403, conflict → 409.
var (
	ErrValidation = errors.New("invalid request")
	ErrNotFound   = errors.New("record not found")
	ErrForbidden  = errors.New("forbidden")
	ErrConflict   = errors.New("conflict")

	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrInvalidState       = errors.New("invalid state transition")
)

// Common wrapped errors
var (
	ErrUnitNotAvailable     = fmt.Errorf("%w: unit not available", ErrConflict)
	ErrRentAlreadyCollected = fmt.Errorf("%w: rent already collected for this lease", ErrConflict)
)

func validationError(format string, args ...interface{}) error {
	return fmt.Errorf("%w: %s", ErrValidation, fmt.Sprintf(format, args...))
}

func notFoundError(entity string) error {
	return fmt.Errorf("%w: %s", ErrNotFound, entity)
}

func forbiddenError(format string, args ...interface{}) error {
	return fmt.Errorf("%w: %s", ErrForbidden, fmt.Sprintf(format, args...))
}

// Actor is the caller identity every mutating operation receives from the
// HTTP layer.
type Actor struct {
	ID   uint
	Role string
}

// IsAdmin returns true if the actor has the admin role
func (a Actor) IsAdmin() bool {
	return a.Role == "admin"
}

// IsOwner returns true if the actor has the owner role
func (a Actor) IsOwner() bool {
	return a.Role == "owner"
}

// IsTenant returns true if the actor has the tenant role
func (a Actor) IsTenant() bool {
	return a.Role == "tenant"
}
