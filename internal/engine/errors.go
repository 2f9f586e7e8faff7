package engine

import (
	"errors"
	"fmt"

	"github.com/danieljhkim/loadout/internal/addon"
	"github.com/danieljhkim/loadout/internal/state"
)

var (
	// ErrConflict indicates conflicts were found and could not be resolved
	// without a decision.
	ErrConflict = errors.New("conflict detected")

	// ErrValidation indicates a validation failure.
	ErrValidation = errors.New("validation failed")

	// ErrNotFound indicates an addon or profile was not found.
	ErrNotFound = errors.New("not found")

	// ErrSessionActive indicates a resolution session is already running
	// for the profile.
	ErrSessionActive = errors.New("resolution already in progress")

	// ErrCancelled indicates the user cancelled conflict resolution.
	ErrCancelled = errors.New("resolution cancelled")
)

// wrapProfileErr maps store errors onto engine sentinels.
func wrapProfileErr(id string, err error) error {
	if errors.Is(err, state.ErrNotFound) {
		return fmt.Errorf("%w: profile %s", ErrNotFound, id)
	}
	return fmt.Errorf("failed to load profile %s: %w", id, err)
}

// wrapAddonErr maps registry errors onto engine sentinels.
func wrapAddonErr(id string, err error) error {
	if errors.Is(err, addon.ErrNotFound) {
		return fmt.Errorf("%w: addon %s", ErrNotFound, id)
	}
	return err
}
