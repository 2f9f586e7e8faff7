package addon

import "errors"

var (
	// ErrNotFound indicates no addon is registered under an id.
	ErrNotFound = errors.New("addon not found")

	// ErrDuplicate indicates an id was registered twice.
	ErrDuplicate = errors.New("duplicate addon")

	// ErrInvalidRecord indicates a malformed input record.
	ErrInvalidRecord = errors.New("invalid addon record")
)
