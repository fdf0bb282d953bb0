package api

import (
	"errors"
	"net/http"

	"github.com/okian/bikelog/internal/domain/faults"
)

// Sentinel kinds for API errors.
var (
	ErrBadRequest       = errors.New("bad request")
	ErrMethodNotAllowed = errors.New("method not allowed")
)

// WrapKind attaches op and kind to err; decoding failures are also
// validation errors so they map to 400.
func WrapKind(op string, kind error, err error) error {
	if errors.Is(kind, ErrBadRequest) {
		return faults.WrapKinds(op, err, faults.ErrValidation, kind)
	}
	return faults.Wrap(op, kind, err)
}

// StatusFor returns the HTTP status and error code for err.
func StatusFor(err error) (int, string) {
	switch faults.KindOf(err) {
	case faults.ErrValidation:
		return http.StatusBadRequest, "validation"
	case faults.ErrConfiguration:
		return http.StatusServiceUnavailable, "configuration"
	case faults.ErrTimeout:
		return http.StatusGatewayTimeout, "search_timeout"
	case faults.ErrSearch:
		return http.StatusBadGateway, "search_failed"
	case faults.ErrStoreConnection:
		return http.StatusBadGateway, "store_unavailable"
	case faults.ErrAppend:
		return http.StatusInternalServerError, "append_failed"
	default:
		return http.StatusInternalServerError, "internal_error"
	}
}
