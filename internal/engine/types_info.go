package engine

import (
	"time"

	"github.com/danieljhkim/loadout/internal/addon"
	"github.com/danieljhkim/loadout/internal/category"
	"github.com/danieljhkim/loadout/internal/profile"
)

// AddonInfo contains information about an addon.
type AddonInfo struct {
	ID       string `json:"id"`
	Kind     string `json:"kind"`
	Category string `json:"category"`
	Priority string `json:"priority"`

	Excludes []string `json:"excludes,omitempty"`
	Requires []string `json:"requires,omitempty"`
	Provides []string `json:"provides,omitempty"`
	Offers   []string `json:"offers,omitempty"`

	ExcludedCategories []string `json:"excludedCategories,omitempty"`
	RequiredComponents []string `json:"requiredComponents,omitempty"`

	// Box is the owning box id, empty if none
	Box string `json:"box,omitempty"`

	// Parts lists the members of a box
	Parts *addon.BoxParts `json:"parts,omitempty"`

	Inversed    bool `json:"inversed,omitempty"`
	Uninstalled bool `json:"uninstalled,omitempty"`

	// Used reports whether the profile the listing was made for uses the
	// addon
	Used bool `json:"used,omitempty"`
}

func newAddonInfo(tree *category.Tree, a *addon.Addon) AddonInfo {
	info := AddonInfo{
		ID:                 a.ID,
		Kind:               a.Kind.String(),
		Category:           tree.Path(a.Category),
		Priority:           string(a.Priority),
		Excludes:           a.Excludes.Items(),
		Requires:           a.Requires.Items(),
		Provides:           a.Provides.Items(),
		Offers:             a.Offers.Items(),
		RequiredComponents: a.RequiredComponents,
		Box:                a.Box,
		Parts:              a.Parts,
		Inversed:           a.Inversed,
		Uninstalled:        a.Uninstalled,
	}
	for _, c := range a.ExcludedCategories {
		info.ExcludedCategories = append(info.ExcludedCategories, tree.Path(c))
	}
	return info
}

// CategoryInfo describes one node of the category tree.
type CategoryInfo struct {
	Path   string   `json:"path"`
	LongID string   `json:"longId"`
	Depth  int      `json:"depth"`
	Addons []string `json:"addons"`
}

// ProfileInfo contains summary information about a profile.
type ProfileInfo struct {
	ID        string    `json:"id"`
	Defaults  bool      `json:"defaults"`
	Attached  int       `json:"attached"`
	UpdatedAt time.Time `json:"updatedAt,omitempty"`
}

func newProfileInfo(p *profile.Profile) ProfileInfo {
	return ProfileInfo{
		ID:        p.ID,
		Defaults:  p.IsDefaults(),
		Attached:  len(p.Addons),
		UpdatedAt: p.UpdatedAt,
	}
}
