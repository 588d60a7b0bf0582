package service

import (
	"errors"
	"fmt"
)

// Centralized service layer errors.
// Handlers match these with errors.Is, so callers can tell a bad input
// (conflict) from a bad id (not found) from a store problem (retry/escalate).

// ===== Game Errors =====
var (
	ErrGameNotFound  = errors.New("game not found")
	ErrGameNameTaken = errors.New("game name already exists")
)

// ===== Store Errors =====
var (
	// ErrStoreFailure wraps every persistence error the service cannot classify.
	// The original store error stays in the chain.
	ErrStoreFailure = errors.New("game store failure")
)

// NameConflictError is returned when a create or rename would duplicate a live game's name
type NameConflictError struct {
	Name string
}

func (e *NameConflictError) Error() string {
	return fmt.Sprintf("%s: %q", ErrGameNameTaken, e.Name)
}

func (e *NameConflictError) Unwrap() error {
	return ErrGameNameTaken
}

// storeFailure wraps err as ErrStoreFailure, tagged with the failing operation
func storeFailure(op string, err error) error {
	return fmt.Errorf("%w: %s: %w", ErrStoreFailure, op, err)
}
