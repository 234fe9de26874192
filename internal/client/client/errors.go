package client

import (
	"errors"
	"fmt"
)

var (
	ErrUnavailable  = errors.New("server unavailable")
	ErrUnauthorized = errors.New("unauthorized")
)

// APIError is a failed response. For 401/403 and 404 it unwraps to
// ErrUnauthorized and common.ErrorNotFound respectively.
type APIError struct {
	Status  int
	Message string
	kind    error
}

func (e *APIError) Unwrap() error {
	return e.kind
}

func (e *APIError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("api error: status %d", e.Status)
	}
	return fmt.Sprintf("api error: status %d: %s", e.Status, e.Message)
}

// Message extracts a user-facing message from err: the backend's message for
// API errors, a fixed text for sentinels, err.Error() otherwise.
func Message(err error) string {
	var apiErr *APIError
	switch {
	case errors.As(err, &apiErr) && apiErr.Message != "":
		return apiErr.Message
	case errors.Is(err, ErrUnavailable):
		return "The server is unavailable. Please try again later."
	case errors.Is(err, ErrUnauthorized):
		return "You are not allowed to do that."
	default:
		return err.Error()
	}
}
