package entities

import "errors"

// Sentinel errors shared by all layers. Callers match with errors.Is; the
// wrapped message carries the offending ids or values.
var (
	// ErrNotFound is returned when a referenced document, entity or
	// relation does not exist.
	ErrNotFound = errors.New("not found")

	// ErrConflict is returned when a create collides with an existing id.
	ErrConflict = errors.New("already exists")

	// ErrValidation is returned for client mistakes: spans out of bounds,
	// cross-document relations, values outside the closed vocabularies.
	ErrValidation = errors.New("validation failed")

	// ErrIntegrity is returned when the store rejects a write that passed
	// validation, e.g. a foreign key broken by a concurrent delete.
	ErrIntegrity = errors.New("integrity violation")
)
