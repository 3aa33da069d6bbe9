package common

import "errors"

var (
	// repository / lookup errors
	ErrNotFound = errors.New("not found")

	// rejected before any request is issued
	ErrValidation = errors.New("validation error")

	// surfaced by the server for cross-owner or unauthenticated calls
	ErrUnauthorized = errors.New("unauthorized")

	// transport-level failure talking to the server
	ErrUnavailable = errors.New("server unavailable")
)
