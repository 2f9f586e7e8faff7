package stores

import "errors"

var (
	// ErrNotFound is returned when no manifest exists for an addon id.
	ErrNotFound = errors.New("manifest not found")

	// ErrInvalidManifest is returned when a manifest cannot be decoded or
	// does not describe the addon its file is named after.
	ErrInvalidManifest = errors.New("invalid manifest")
)
