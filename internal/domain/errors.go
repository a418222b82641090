package domain

import "errors"

// ErrNotFound is returned by repo and service functions when the requested
// resource does not exist in the database.
// Handlers should map this to HTTP 404.
var ErrNotFound = errors.New("not found")

// ErrValidation is returned by service functions when input fails business
// rule validation (e.g. missing required field, unknown tag, bad weekday).
// Handlers should map this to HTTP 422 Unprocessable Entity.
var ErrValidation = errors.New("validation error")

// ErrConflict is returned when a write is well-formed but collides with the
// current state: a full event, a duplicate registration, a report that was
// already resolved.
// Handlers should map this to HTTP 409.
var ErrConflict = errors.New("conflict")
