// ABOUTME: Error taxonomy for Affordaily API calls
// ABOUTME: Separates transport failures from structured API rejections

package client

import (
	"context"
	"errors"
	"fmt"
	"net/http"
)

// ErrUnauthorized matches any APIError carrying a 401 status. Callers
// use errors.Is(err, ErrUnauthorized) to detect an expired or invalid
// token and route back to login.
var ErrUnauthorized = errors.New("unauthorized")

// APIError is a non-2xx response from the backend. Message comes from
// the response body's message field when present; FieldErrors carries
// per-field validation messages for 422-style rejections.
type APIError struct {
	Status      int
	Message     string
	FieldErrors map[string][]string
}

func (e *APIError) Error() string {
	return e.Message
}

// Is reports ErrUnauthorized for 401 responses so that token-expiry
// handling works through errors.Is.
func (e *APIError) Is(target error) bool {
	return target == ErrUnauthorized && e.Status == http.StatusUnauthorized
}

// NetworkError is a transport-level failure where no response was
// received. The wrapped error is the underlying net/http failure.
type NetworkError struct {
	URL string
	Err error
}

func (e *NetworkError) Error() string {
	return fmt.Sprintf("cannot reach backend at %s: %v", e.URL, e.Err)
}

func (e *NetworkError) Unwrap() error {
	return e.Err
}

// ValidationError is a client-side rejection raised before any network
// call, e.g. a malformed phone number.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

// requestError converts context errors to user-friendly messages.
func (c *Client) requestError(ctx context.Context, err error) error {
	if ctx.Err() == context.Canceled {
		return fmt.Errorf("request canceled")
	}
	if ctx.Err() == context.DeadlineExceeded {
		return fmt.Errorf("request timed out")
	}
	return &NetworkError{URL: c.baseURL, Err: err}
}
