package engine

import (
	"github.com/danieljhkim/loadout/internal/conflict"
	"github.com/danieljhkim/loadout/internal/profile"
)

// ListAddonsResult represents the result of listing addons.
type ListAddonsResult struct {
	// Profile is the profile the listing was made for, if any
	Profile string `json:"profile,omitempty"`

	Addons []AddonInfo `json:"addons"`
}

// UninstallResult represents the result of uninstalling an addon.
type UninstallResult struct {
	ID string `json:"id"`

	// AlreadyUninstalled is true if nothing had to change
	AlreadyUninstalled bool `json:"alreadyUninstalled"`

	// AttachedTo lists profiles that still attach the addon
	AttachedTo []string `json:"attachedTo,omitempty"`
}

// CategoriesResult lists the category tree depth-first.
type CategoriesResult struct {
	Categories []CategoryInfo `json:"categories"`
}

// ListProfilesResult represents the result of listing profiles.
type ListProfilesResult struct {
	Profiles []ProfileInfo `json:"profiles"`
}

// ProfileDetails contains detailed information about a profile.
type ProfileDetails struct {
	Profile *profile.Profile `json:"profile"`

	// Used is the set of addons the profile activates
	Used []string `json:"used"`

	// Final is the sorted launch list before conflict resolution
	Final []string `json:"final"`
}

// EditAddonsResult reports which addons an edit changed.
type EditAddonsResult struct {
	Profile string `json:"profile"`

	// Changed lists the ids whose attachment changed
	Changed []string `json:"changed"`

	// Unchanged lists the ids that were already in the requested state
	Unchanged []string `json:"unchanged,omitempty"`
}

// ResolveResult represents the outcome of a resolution session.
type ResolveResult struct {
	Profile string `json:"profile"`

	// State is the final session state
	State string `json:"state"`

	// Addons is the final load order; empty unless resolved
	Addons []string `json:"addons"`

	// Detached lists the attachments flipped by decisions
	Detached []string `json:"detached"`

	// Overrides lists addons removed automatically
	Overrides []OverrideInfo `json:"overrides"`

	// Decisions is the number of decisions applied
	Decisions int `json:"decisions"`

	// Saved is true if the profile was written back
	Saved bool `json:"saved"`
}

// OverrideInfo is the serializable form of conflict.Override.
type OverrideInfo struct {
	Winner  string `json:"winner"`
	Loser   string `json:"loser"`
	Keyword string `json:"keyword"`
	Offered bool   `json:"offered,omitempty"`
}

func newOverrideInfos(overrides []conflict.Override) []OverrideInfo {
	out := make([]OverrideInfo, 0, len(overrides))
	for _, o := range overrides {
		out = append(out, OverrideInfo{
			Winner:  o.Winner.ID,
			Loser:   o.Loser.ID,
			Keyword: o.Keyword,
			Offered: o.Offered,
		})
	}
	return out
}
