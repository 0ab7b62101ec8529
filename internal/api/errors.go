package api

import (
	"errors"
	"fmt"
	"net/http"
)

// ErrInvalidCredentials is returned when the token endpoint rejects a
// login. The response body is not inspected beyond the status code.
var ErrInvalidCredentials = errors.New("invalid email or password")

// ErrWeakPassword is returned before any network call when a registration
// password is shorter than six characters.
var ErrWeakPassword = errors.New("password must be at least 6 characters")

// RegistrationRejectedError carries the server's detail message for a
// rejected registration.
type RegistrationRejectedError struct {
	Detail string
}

func (e *RegistrationRejectedError) Error() string {
	if e.Detail == "" {
		return "registration rejected"
	}
	return "registration rejected: " + e.Detail
}

// ProfileUnavailableError is returned when /users/me does not yield a
// recognizable profile.
type ProfileUnavailableError struct {
	Detail string
}

func (e *ProfileUnavailableError) Error() string {
	if e.Detail == "" {
		return "profile unavailable"
	}
	return "profile unavailable: " + e.Detail
}

// NetworkError wraps a transport-level failure (no HTTP response).
// It is never folded into "unauthenticated".
type NetworkError struct {
	Op  string
	Err error
}

func (e *NetworkError) Error() string {
	return fmt.Sprintf("%s: network error: %v", e.Op, e.Err)
}

func (e *NetworkError) Unwrap() error { return e.Err }

// StatusError reports an unexpected HTTP status from a task mutation.
type StatusError struct {
	Op   string
	Code int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("%s: unexpected status %d", e.Op, e.Code)
}

// Unauthorized reports whether the server rejected the bearer token.
func (e *StatusError) Unauthorized() bool { return e.Code == http.StatusUnauthorized }
