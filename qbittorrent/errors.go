package qbittorrent

import (
	"errors"
	"fmt"
)

// Common errors returned by the qBittorrent client.
var (
	// ErrBadCredentials is returned when the server rejects the configured
	// username/password pair.
	ErrBadCredentials = errors.New("invalid username or password")

	// ErrBanned is returned when the server has temporarily banned the
	// client IP after too many failed login attempts.
	ErrBanned = errors.New("IP banned for too many failed login attempts")

	// ErrNoCookie is returned when the login response carries no cookie at
	// all, so no session credential could be extracted.
	ErrNoCookie = errors.New("credential cookie not found")

	// ErrInvalidCookie is returned when the login response carries cookies
	// but none of them contains the session token.
	ErrInvalidCookie = errors.New("invalid cookie: session token missing")
)

// AuthError indicates that the login handshake failed or that the client
// could not establish a session before sending a request.
type AuthError struct {
	Op  string // "login", "session"
	Err error
}

// Error implements the error interface.
func (e *AuthError) Error() string {
	return fmt.Sprintf("qbittorrent: %s failed: %v", e.Op, e.Err)
}

// Unwrap returns the underlying cause.
func (e *AuthError) Unwrap() error {
	return e.Err
}

// APIError represents a non-2xx response from the Web API. The body is kept
// verbatim because qBittorrent reports most failures as plain-text messages.
type APIError struct {
	StatusCode int
	Status     string
	Body       string
}

// Error implements the error interface.
func (e *APIError) Error() string {
	if e.Body == "" {
		return fmt.Sprintf("qbittorrent API error: %s", e.Status)
	}
	return fmt.Sprintf("qbittorrent API error: %s: %s", e.Status, e.Body)
}

// IsUnauthorized checks if the error indicates a rejected session.
func (e *APIError) IsUnauthorized() bool {
	return e.StatusCode == 401 || e.StatusCode == 403
}

// IsNotFound checks if the error indicates a missing resource, which the
// Web API uses for unknown torrent hashes on several endpoints.
func (e *APIError) IsNotFound() bool {
	return e.StatusCode == 404
}

// IsConflict checks if the error indicates a rejected state transition,
// such as creating a category that already exists.
func (e *APIError) IsConflict() bool {
	return e.StatusCode == 409
}
