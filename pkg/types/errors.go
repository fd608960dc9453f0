package types

import "errors"

// Validation errors surfaced before a request reaches the store
var (
	ErrMissingOwner     = errors.New("owner id is required")
	ErrInvalidLimit     = errors.New("limit out of range")
	ErrInvalidThreshold = errors.New("matching distance out of range")
	ErrInvalidCursor    = errors.New("malformed cursor")
)
