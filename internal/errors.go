package internal

import "errors"

// Error kinds surfaced at the request boundary. Callers wrap them with context using
// fmt.Errorf and test with errors.Is.
var (
	// ErrValidation marks missing or malformed input: callsign, timestamp or password.
	ErrValidation = errors.New("validation failed")
	// ErrNotFound marks an unknown airport code or departure.
	ErrNotFound = errors.New("not found")
	// ErrUpstreamUnavailable marks a failed or timed out live-feed fetch.
	ErrUpstreamUnavailable = errors.New("live feed unavailable")
	// ErrUnauthorized marks an operation attempted without the operator capability.
	ErrUnauthorized = errors.New("unauthorized")
)
