package session

import (
	"errors"
	"fmt"
)

// Common errors
var (
	// ErrInvalidConfig indicates invalid session configuration
	ErrInvalidConfig = errors.New("invalid tryfi session configuration")
	// ErrNotAuthenticated indicates a call that requires a successful login
	ErrNotAuthenticated = errors.New("session is not authenticated")
)

// AuthenticationError is returned when the login endpoint rejects the credentials
// or answers with a non-success status.
type AuthenticationError struct {
	StatusCode int
	Message    string
}

// Error implements the error interface
func (e *AuthenticationError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("tryfi login failed: status %d", e.StatusCode)
	}
	return fmt.Sprintf("tryfi login failed: status %d: %s", e.StatusCode, e.Message)
}

// TransportError wraps a network-level failure of an HTTP call.
type TransportError struct {
	Op  string
	URL string
	Err error
}

// Error implements the error interface
func (e *TransportError) Error() string {
	return fmt.Sprintf("tryfi %s %s: %v", e.Op, e.URL, e.Err)
}

func (e *TransportError) Unwrap() error {
	return e.Err
}

// APIError represents a failed API call on an authenticated session
type APIError struct {
	StatusCode int
	Message    string
}

// Error implements the error interface
func (e *APIError) Error() string {
	return fmt.Sprintf("tryfi API error: status %d: %s", e.StatusCode, e.Message)
}

// IsNotFound checks if the error indicates a not found response
func (e *APIError) IsNotFound() bool {
	return e.StatusCode == 404
}

// IsUnauthorized checks if the error indicates an expired or rejected session
func (e *APIError) IsUnauthorized() bool {
	return e.StatusCode == 401 || e.StatusCode == 403
}
