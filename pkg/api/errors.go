package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
)

// ErrSessionExpired marks errors from an unrecoverable credential
// failure: the refresh attempt was rejected, or the refreshed
// credential was rejected again. The persisted session is already
// cleared by the time callers see it.
var ErrSessionExpired = errors.New("session expired")

// APIError represents an error response from the backend. Message
// carries the server-provided error payload when one was present.
type APIError struct {
	StatusCode int
	Message    string
}

// Error implements the error interface.
func (e *APIError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("HTTP %d: %s", e.StatusCode, e.Message)
	}
	return fmt.Sprintf("HTTP %d", e.StatusCode)
}

// newAPIError builds an APIError from a non-2xx response body.
// The backend reports failures as {"error": "..."}.
func newAPIError(statusCode int, body []byte) *APIError {
	var payload struct {
		Error string `json:"error"`
	}
	msg := ""
	if err := json.Unmarshal(body, &payload); err == nil {
		msg = payload.Error
	}
	if msg == "" {
		msg = strings.TrimSpace(string(body))
	}
	return &APIError{StatusCode: statusCode, Message: msg}
}

// IsAuthError returns true if the error is an authentication or
// authorization failure (401/403 or a torn-down session).
func IsAuthError(err error) bool {
	var e *APIError
	if errors.As(err, &e) {
		return e.StatusCode == http.StatusUnauthorized || e.StatusCode == http.StatusForbidden
	}
	return errors.Is(err, ErrSessionExpired)
}

// IsNotFound returns true if the error indicates a missing resource.
func IsNotFound(err error) bool {
	var e *APIError
	if errors.As(err, &e) {
		return e.StatusCode == http.StatusNotFound
	}
	return false
}
