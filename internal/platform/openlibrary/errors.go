package openlibrary

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net"
)

var (
	// ErrNotFound is returned when the catalog answers 404.
	ErrNotFound = errors.New("openlibrary: not found")
	// ErrRateLimited is returned when the catalog answers 429.
	ErrRateLimited = errors.New("openlibrary: rate limited")
)

// StatusError reports any other non-200 answer from the catalog.
type StatusError struct {
	StatusCode int
	URL        string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("openlibrary: unexpected status code %d from %s", e.StatusCode, e.URL)
}

// ErrorType maps an error returned by the client to a short label suitable
// for metrics and logs.
func ErrorType(err error) string {
	if err == nil {
		return "none"
	}
	if errors.Is(err, ErrNotFound) {
		return "not_found"
	}
	if errors.Is(err, ErrRateLimited) {
		return "rate_limited"
	}
	if errors.Is(err, context.Canceled) {
		return "canceled"
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return "timeout"
	}
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return "timeout"
	}
	var statusErr *StatusError
	if errors.As(err, &statusErr) {
		return "status"
	}
	var syntaxErr *json.SyntaxError
	var typeErr *json.UnmarshalTypeError
	if errors.As(err, &syntaxErr) || errors.As(err, &typeErr) {
		return "decode"
	}
	var opErr *net.OpError
	if errors.As(err, &opErr) {
		return "connection"
	}
	return "other"
}

func retryable(err error) bool {
	if errors.Is(err, ErrRateLimited) {
		return true
	}
	var statusErr *StatusError
	if errors.As(err, &statusErr) {
		return statusErr.StatusCode >= 500
	}
	if errors.Is(err, ErrNotFound) || errors.Is(err, context.Canceled) {
		return false
	}
	// transport failures
	return true
}
