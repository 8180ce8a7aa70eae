package client

import (
	"errors"
	"fmt"
)

// APIError is a non-200 response from the server.
type APIError struct {
	// StatusCode is the HTTP status.
	StatusCode int

	// Message is the response body, trimmed.
	Message string
}

// Error implements the error interface.
func (e *APIError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("woql server returned %d", e.StatusCode)
	}
	return fmt.Sprintf("woql server returned %d: %s", e.StatusCode, e.Message)
}

// IsAPIError reports whether err is an APIError and returns it.
func IsAPIError(err error) (*APIError, bool) {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr, true
	}
	return nil, false
}
