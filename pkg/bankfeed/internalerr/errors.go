package internalerr

import "errors"

// Sentinel errors for common cases
var (
	ErrSourceFetch  = errors.New("source fetch failed")
	ErrPersistence  = errors.New("persistence failed")
	ErrCorruptState = errors.New("corrupt persisted state")
	ErrInvalidInput = errors.New("invalid input")
)
