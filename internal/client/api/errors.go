package api

import "errors"

var (
	// ErrUnavailable marks transport-level failures: the server could not
	// be reached or did not answer in time.
	ErrUnavailable = errors.New("server unavailable")

	// ErrUnauthorized marks 401 responses.
	ErrUnauthorized = errors.New("unauthorized")
)

// APIError carries the server-supplied message of a non-2xx response.
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	return e.Message
}
