package repository

import "errors"

// Sentinel kinds for store errors. Callers usually match the faults kinds
// the backends wrap these into.
var (
	ErrUnknownBackend = errors.New("unknown store backend")
	ErrMissingSetting = errors.New("missing store setting")
)
