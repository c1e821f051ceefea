package models

import "errors"

// Sentinel errors for the session/stats core. Handlers map these to HTTP
// status codes; nothing below the transport retries them.
var (
	ErrStudyNotFound      = errors.New("study not found")
	ErrSessionNotFound    = errors.New("session not found")
	ErrComparisonNotFound = errors.New("comparison not found")

	// ErrInvalidPayload marks an answer whose shape does not match the
	// comparison's declared type.
	ErrInvalidPayload = errors.New("invalid answer payload")

	// ErrUnknownComparisonType marks a comparison whose type matches none of
	// the four variants (catalog corruption).
	ErrUnknownComparisonType = errors.New("unknown comparison type")

	// ErrSessionConflict is returned when a compare-and-swap session write
	// loses to a concurrent mutation.
	ErrSessionConflict = errors.New("session was modified concurrently")
)
