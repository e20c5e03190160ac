package service

import "errors"

// Failure taxonomy surfaced to the HTTP layer. Handlers map these to status
// classes; anything unwrapped is reported as an unexpected failure (500) with
// no internal detail leaked to the caller.
var (
	// ErrValidation marks malformed or out-of-range input (400).
	ErrValidation = errors.New("validation failed")
	// ErrAccessDenied marks a failed role/ownership/share check (403).
	ErrAccessDenied = errors.New("access denied")
	// ErrNotFound marks a missing target entity (404).
	ErrNotFound = errors.New("not found")
	// ErrConflict marks a uniqueness collision, e.g. a duplicate active share (409).
	ErrConflict = errors.New("conflict")
	// ErrStorage marks a blob store failure (500).
	ErrStorage = errors.New("storage failure")
)
