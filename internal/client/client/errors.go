package client

import "errors"

var (
	ErrUnavailable   = errors.New("server unavailable")
	ErrUnauthorized  = errors.New("unauthorized")
	ErrAlreadyExists = errors.New("already registered")
	ErrInvalidInput  = errors.New("invalid input")
	ErrInactive      = errors.New("inactive user")
)
