// internal/pkg/apiclient/errors.go
package apiclient

import (
	"errors"
	"fmt"
)

var (
	// ErrUnauthorized is returned on HTTP 401 after the stored token was cleared
	ErrUnauthorized = errors.New("unauthorized: please sign in again")

	// ErrForbidden is returned on HTTP 403
	ErrForbidden = errors.New("you do not have permission to access this resource")

	// ErrTimeout is returned when a request exceeds the client timeout
	ErrTimeout = errors.New("request timeout")

	// ErrNetwork wraps transport failures that never produced a response
	ErrNetwork = errors.New("network error")
)

// Error is any other non-2xx response from the backend
type Error struct {
	Method     string
	Path       string
	StatusCode int
	// Message is the backend's JSON "message" when present, otherwise the status line
	Message string
	// Body is an excerpt of the raw response body kept for diagnostics
	Body string
}

func (e *Error) Error() string {
	return e.Message
}

// Detail returns the message followed by the body excerpt
func (e *Error) Detail() string {
	if e.Body == "" {
		return e.Message
	}
	return fmt.Sprintf("%s Response body: %s", e.Message, e.Body)
}

// StatusCode extracts the HTTP status of err, or 0 when err did not come from a response
func StatusCode(err error) int {
	var apiErr *Error
	switch {
	case errors.As(err, &apiErr):
		return apiErr.StatusCode
	case errors.Is(err, ErrUnauthorized):
		return 401
	case errors.Is(err, ErrForbidden):
		return 403
	}
	return 0
}

// Decisive picks the error a caller should act on out of several concurrent
// calls: an unauthorized one first, since it ends the session, otherwise the
// first non-nil error.
func Decisive(errs ...error) error {
	var first error
	for _, err := range errs {
		if err == nil {
			continue
		}
		if errors.Is(err, ErrUnauthorized) {
			return err
		}
		if first == nil {
			first = err
		}
	}
	return first
}
