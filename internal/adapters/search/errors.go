package search

import (
	"errors"
	"fmt"
)

// Sentinel kinds for search errors.
var (
	ErrMissingCredentials = errors.New("search endpoint or api key not configured")
	ErrUnexpectedStatus   = errors.New("unexpected status from search endpoint")
)

// StatusError carries a non-2xx response from the search endpoint.
type StatusError struct {
	Code int
	Body string // excerpt, at most bodyExcerpt bytes
}

func (e *StatusError) Error() string {
	if e.Body == "" {
		return fmt.Sprintf("%s: %d", ErrUnexpectedStatus, e.Code)
	}
	return fmt.Sprintf("%s: %d: %s", ErrUnexpectedStatus, e.Code, e.Body)
}

// Unwrap lets errors.Is match ErrUnexpectedStatus.
func (e *StatusError) Unwrap() error { return ErrUnexpectedStatus }
