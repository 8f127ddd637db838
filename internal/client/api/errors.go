package api

import (
	"errors"
	"fmt"
	"net/http"
)

var (
	// ErrAuthRequired means the operation needs a session; it is returned
	// without any network call having been made.
	ErrAuthRequired = errors.New("authentication required")

	// ErrAuthExpired means an authorization failure survived the refresh
	// attempt. The stored tokens have been cleared; the cached identity
	// has not.
	ErrAuthExpired = errors.New("session expired")

	// ErrUnauthorized is the server rejecting the request's credentials.
	ErrUnauthorized = errors.New("unauthorized")

	// ErrUnavailable wraps transport-level failures.
	ErrUnavailable = errors.New("server unavailable")

	// ErrFileTooLarge is a pre-flight validation failure for uploads.
	ErrFileTooLarge = errors.New("file exceeds upload size limit")
)

// Error carries the server's error body for a non-2xx response.
type Error struct {
	Status  int
	Message string
}

func (e *Error) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("server returned %d: %s", e.Status, e.Message)
	}
	return fmt.Sprintf("server returned %d", e.Status)
}

// Unwrap maps authorization failures onto ErrUnauthorized so callers can use
// errors.Is without inspecting status codes.
func (e *Error) Unwrap() error {
	if e.Status == http.StatusUnauthorized || e.Status == http.StatusForbidden {
		return ErrUnauthorized
	}
	return nil
}

// newServerError decodes the server's {message} body, when present, into an Error.
func newServerError(status int, body []byte) error {
	var env envelope
	msg := ""
	if unmarshalLoose(body, &env) == nil {
		msg = env.Message
	}
	return &Error{Status: status, Message: msg}
}
