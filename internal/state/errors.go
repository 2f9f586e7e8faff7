package state

import "errors"

var (
	// ErrNotFound is returned when no profile file exists for an id.
	ErrNotFound = errors.New("profile not found")

	// ErrInvalidProfile is returned when a profile file cannot be decoded.
	ErrInvalidProfile = errors.New("invalid profile")

	// ErrDefaultsProfile is returned when deleting the Defaults profile.
	ErrDefaultsProfile = errors.New("the defaults profile cannot be deleted")
)
