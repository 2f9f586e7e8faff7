package engine

// ListAddonsRequest represents a request to list addons.
type ListAddonsRequest struct {
	// Profile restricts the listing to addons compatible with the profile
	// and marks the ones it uses. Empty lists the whole registry.
	Profile string

	// All includes uninstalled addons in an unrestricted listing
	All bool
}

// CreateProfileRequest represents a request to create a profile.
type CreateProfileRequest struct {
	// ID is the new profile id
	ID string

	// From is an optional profile to copy attachments, load order and
	// values from
	From string
}

// EditAddonsRequest represents a request to attach or detach addons.
type EditAddonsRequest struct {
	// Profile is the profile to edit; empty means the Defaults profile
	Profile string

	// Addons are the addon ids to attach or detach
	Addons []string
}

// SetLoadOrderRequest represents a request to replace a load order.
type SetLoadOrderRequest struct {
	// Profile is the profile to edit; empty means the Defaults profile
	Profile string

	// Order is the new explicit load order; empty clears it
	Order []string
}

// SetValueRequest represents a request to change one setting value.
type SetValueRequest struct {
	// Profile is the profile to edit; empty means the Defaults profile
	Profile string

	// Key is the setting id
	Key string

	// Value is the new value; empty removes the setting
	Value string
}

// ResolveRequest represents a request to resolve a profile's conflicts.
type ResolveRequest struct {
	// Profile is the profile to resolve; empty means the Defaults profile
	Profile string

	// DryRun resolves against a copy and saves nothing
	DryRun bool
}
