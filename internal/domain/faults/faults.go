// Package faults defines the error kinds shared across the service.
//
// Every error that leaves a component is wrapped into an *Error carrying the
// operation name and one of the sentinel kinds below, so callers can branch
// with errors.Is without knowing which backend produced it.
package faults

import (
	"errors"
	"strings"
)

// Sentinel error kinds. These allow errors.Is/As from callers.
var (
	// ErrConfiguration marks missing or invalid credentials, endpoints or settings.
	ErrConfiguration = errors.New("configuration error")
	// ErrStoreConnection marks an unreachable or misconfigured backing store.
	ErrStoreConnection = errors.New("store connection error")
	// ErrAppend marks a failed row append.
	ErrAppend = errors.New("append error")
	// ErrValidation marks input rejected before any I/O.
	ErrValidation = errors.New("validation error")
	// ErrSearch marks a failed manual search call.
	ErrSearch = errors.New("search error")
	// ErrTimeout is attached together with ErrSearch when the endpoint did not answer in time.
	ErrTimeout = errors.New("timeout")
)

// Error is a kinded error with the operation that produced it.
type Error struct {
	Op    string
	Kinds []error
	Err   error
}

func (e *Error) Error() string {
	var b strings.Builder
	if e.Op != "" {
		b.WriteString(e.Op)
		b.WriteString(": ")
	}
	if len(e.Kinds) > 0 {
		b.WriteString(e.Kinds[0].Error())
	}
	if e.Err != nil {
		if len(e.Kinds) > 0 {
			b.WriteString(": ")
		}
		b.WriteString(e.Err.Error())
	}
	return b.String()
}

// Unwrap exposes both the kinds and the cause to errors.Is/As.
func (e *Error) Unwrap() []error {
	out := make([]error, 0, len(e.Kinds)+1)
	out = append(out, e.Kinds...)
	if e.Err != nil {
		out = append(out, e.Err)
	}
	return out
}

// New returns an error of the given kind without a cause.
func New(op string, kind error) error {
	return &Error{Op: op, Kinds: []error{kind}}
}

// Newf returns an error of the given kind with a plain message as cause.
func Newf(op string, kind error, msg string) error {
	return &Error{Op: op, Kinds: []error{kind}, Err: errors.New(msg)}
}

// Wrap attaches kind and op to err. A nil err yields nil.
func Wrap(op string, kind error, err error) error {
	if err == nil {
		return nil
	}
	return &Error{Op: op, Kinds: []error{kind}, Err: err}
}

// WrapKinds is Wrap with more than one kind, e.g. ErrSearch and ErrTimeout.
func WrapKinds(op string, err error, kinds ...error) error {
	if err == nil {
		return nil
	}
	return &Error{Op: op, Kinds: kinds, Err: err}
}

// KindOf returns the first known kind err matches, or nil.
// ErrTimeout is checked before ErrSearch so callers can tell the two apart.
func KindOf(err error) error {
	for _, k := range []error{ErrValidation, ErrConfiguration, ErrTimeout, ErrSearch, ErrStoreConnection, ErrAppend} {
		if errors.Is(err, k) {
			return k
		}
	}
	return nil
}
