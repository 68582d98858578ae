// Package common defines shared constants and sentinel errors used across
// the server, its transports and the client. Callers should use errors.Is
// to match these values.
package common

import "errors"

var (
	// Repository-level errors.
	ErrorNotFound      = errors.New("not found")
	ErrorAlreadyExists = errors.New("already exists")

	// Service-level errors (generic/internal flow control).
	ErrorInternal   = errors.New("internal error")
	ErrInvalidInput = errors.New("invalid input")

	// Registration conflicts.
	ErrDuplicateUsername = errors.New("username already registered")
	ErrDuplicateEmail    = errors.New("email already registered")

	// ErrInvalidCredential covers a failed login as well as any token that is
	// invalid, expired, malformed or names an unknown subject.
	ErrInvalidCredential = errors.New("invalid credential")

	// ErrInactive is returned for a valid token whose account is disabled.
	ErrInactive = errors.New("inactive user")

	// ErrUnauthenticated means no token was presented at all.
	ErrUnauthenticated = errors.New("not authenticated")
)
