package engine

import (
	"context"

	"github.com/danieljhkim/loadout/internal/conflict"
	"github.com/danieljhkim/loadout/internal/planner"
	"github.com/danieljhkim/loadout/internal/session"
)

// Plan checks a profile for conflicts without changing anything. A
// conflict-free plan carries the final load order; otherwise it carries
// the first class of problems and the unresolved launch list.
func (e *Engine) Plan(ctx context.Context, profileID string) (*planner.LaunchPlan, error) {
	w, err := e.load(ctx)
	if err != nil {
		return nil, err
	}
	p, err := w.profile(e.profileStore, profileID)
	if err != nil {
		return nil, err
	}

	// Resolve against a copy: a plan never detaches anything.
	dry := p.Clone()
	sess := session.New(w.detector, w.planner, dry)
	state, err := sess.Start(w.planner.Roster(dry))
	if err != nil {
		return nil, err
	}

	plan := planner.NewLaunchPlan(p.ID)
	if state == session.StateResolved {
		plan.Addons = sess.Result()
		for _, o := range sess.Overrides() {
			plan.AddOverride(o)
		}
		return plan, nil
	}

	plan.Addons = nonNil(w.planner.FinalAddons(p))
	plan.Stage = sess.Stage()
	for _, prob := range sess.Problems() {
		plan.AddConflict(prob)
	}
	e.logger.Debug("plan has conflicts", "profile", p.ID, "stage", plan.Stage.String(), "count", len(plan.Conflicts))
	return plan, nil
}

// ProblemInfo is the serializable form of conflict.Problem.
type ProblemInfo struct {
	Kind        string   `json:"kind"`
	Addon       string   `json:"addon,omitempty"`
	Involved    []string `json:"involved"`
	Keywords    []string `json:"keywords,omitempty"`
	Description string   `json:"description"`
}

// NewProblemInfo converts a problem for display.
func NewProblemInfo(p conflict.Problem) ProblemInfo {
	info := ProblemInfo{
		Kind:        p.Kind.String(),
		Involved:    addonIDs(p.Involved()),
		Keywords:    p.Keywords,
		Description: p.String(),
	}
	if p.Addon != nil {
		info.Addon = p.Addon.ID
	}
	for _, m := range p.Matches {
		info.Keywords = append(info.Keywords, m.Keyword)
	}
	for _, pair := range p.Pairs {
		info.Keywords = append(info.Keywords, pair.Keyword)
	}
	return info
}

// PlanInfo is the serializable form of a launch plan.
type PlanInfo struct {
	Profile   string         `json:"profile"`
	Stage     string         `json:"stage"`
	Addons    []string       `json:"addons"`
	Conflicts []ProblemInfo  `json:"conflicts"`
	Overrides []OverrideInfo `json:"overrides"`
}

// NewPlanInfo converts a plan for display.
func NewPlanInfo(plan *planner.LaunchPlan) PlanInfo {
	info := PlanInfo{
		Profile:   plan.Profile,
		Stage:     plan.Stage.String(),
		Addons:    nonNil(plan.Addons),
		Conflicts: make([]ProblemInfo, 0, len(plan.Conflicts)),
		Overrides: newOverrideInfos(plan.Overrides),
	}
	for _, c := range plan.Conflicts {
		info.Conflicts = append(info.Conflicts, NewProblemInfo(c))
	}
	return info
}
