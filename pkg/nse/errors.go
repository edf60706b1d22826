package nse

import (
	"errors"
	"fmt"
)

// Common errors returned by the client.
var (
	// ErrProbeUnavailable is returned when the health endpoint cannot be
	// reached or decoded. Bulk fetches must not proceed on this outcome.
	ErrProbeUnavailable = errors.New("health endpoint unavailable")
)

// ErrorClass classifies a failed page request.
type ErrorClass string

const (
	// ErrorClassTransport represents network/timeout failures.
	ErrorClassTransport ErrorClass = "transport"

	// ErrorClassHTTP represents non-2xx status codes.
	ErrorClassHTTP ErrorClass = "http"

	// ErrorClassAPI represents well-formed responses whose success flag
	// is false.
	ErrorClassAPI ErrorClass = "api"
)

// APIError is a classified failure from the NSE API.
type APIError struct {
	StatusCode int
	Class      ErrorClass
	Message    string
	Err        error
}

// Error implements the error interface.
func (e *APIError) Error() string {
	switch {
	case e.Err != nil:
		return fmt.Sprintf("nse %s error: %s: %v", e.Class, e.Message, e.Err)
	case e.StatusCode != 0:
		return fmt.Sprintf("nse %s error (status %d): %s", e.Class, e.StatusCode, e.Message)
	default:
		return fmt.Sprintf("nse %s error: %s", e.Class, e.Message)
	}
}

// Unwrap implements error unwrapping for errors.Is/As.
func (e *APIError) Unwrap() error {
	return e.Err
}

// ClassOf returns the error class of err, or the empty class when err is
// not an APIError.
func ClassOf(err error) ErrorClass {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.Class
	}
	return ""
}
