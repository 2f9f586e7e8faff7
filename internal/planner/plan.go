package planner

import "github.com/danieljhkim/loadout/internal/conflict"

// LaunchPlan represents the outcome of planning a launch for a profile.
type LaunchPlan struct {
	// Profile is the id of the planned profile
	Profile string

	// Addons is the ordered list of addon ids to launch (empty if conflicted)
	Addons []string

	// Stage is the detector stage that reported Conflicts
	Stage conflict.Stage

	// Conflicts is the first class of problems found (empty if none)
	Conflicts []conflict.Problem

	// Overrides lists addons dropped automatically
	Overrides []conflict.Override
}

// NewLaunchPlan creates a new empty LaunchPlan.
func NewLaunchPlan(profileID string) *LaunchPlan {
	return &LaunchPlan{
		Profile:   profileID,
		Addons:    []string{},
		Conflicts: []conflict.Problem{},
		Overrides: []conflict.Override{},
	}
}

// HasConflicts returns true if the plan has any conflicts.
func (p *LaunchPlan) HasConflicts() bool {
	return len(p.Conflicts) > 0
}

// AddConflict adds a conflict to the plan.
func (p *LaunchPlan) AddConflict(c conflict.Problem) {
	p.Conflicts = append(p.Conflicts, c)
}

// AddOverride records an automatic override.
func (p *LaunchPlan) AddOverride(o conflict.Override) {
	p.Overrides = append(p.Overrides, o)
}
