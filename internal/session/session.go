// Package session drives conflict detection to convergence one decision at
// a time.
//
// A Session is a resumable state machine. Start and Apply run the detector
// and return; the caller inspects CurrentProblem, obtains a Decision from
// wherever it likes and calls Apply again:
//
//	Idle -> AwaitingDecision <-> AwaitingDecision -> Resolved | Cancelled
//
// Decisions detach addons from the session's profile as they are applied.
// Cancelling does not undo them.
package session

import (
	"fmt"
	"slices"

	"github.com/danieljhkim/loadout/internal/addon"
	"github.com/danieljhkim/loadout/internal/conflict"
	"github.com/danieljhkim/loadout/internal/planner"
	"github.com/danieljhkim/loadout/internal/profile"
)

// State is the lifecycle position of a Session.
type State int

// Session states
const (
	StateIdle State = iota
	StateAwaitingDecision
	StateResolved
	StateCancelled
)

// String returns a stable name for the state.
func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateAwaitingDecision:
		return "awaiting-decision"
	case StateResolved:
		return "resolved"
	case StateCancelled:
		return "cancelled"
	default:
		return fmt.Sprintf("state(%d)", int(s))
	}
}

// Terminal reports whether no further transitions are possible.
func (s State) Terminal() bool {
	return s == StateResolved || s == StateCancelled
}

// Session resolves the conflicts of one profile's roster.
//
// A Session is not safe for concurrent use.
type Session struct {
	detector *conflict.Detector
	planner  *planner.Planner
	profile  *profile.Profile

	state     State
	roster    []*addon.Addon // highest priority first
	outcome   conflict.Outcome
	overrides []conflict.Override
	detached  []string
	result    []string
}

// New creates an idle session for p. Decisions mutate p in place.
func New(detector *conflict.Detector, pl *planner.Planner, p *profile.Profile) *Session {
	return &Session{
		detector: detector,
		planner:  pl,
		profile:  p,
	}
}

// Profile returns the profile being resolved.
func (s *Session) Profile() *profile.Profile {
	return s.profile
}

// State returns the current state.
func (s *Session) State() State {
	return s.state
}

// Start begins resolving roster, which is ordered lowest priority first.
// The caller's slice is not modified.
func (s *Session) Start(roster []*addon.Addon) (State, error) {
	if s.state != StateIdle {
		return s.state, ErrAlreadyStarted
	}
	s.roster = make([]*addon.Addon, len(roster))
	copy(s.roster, roster)
	slices.Reverse(s.roster)
	s.detect()
	return s.state, nil
}

// CurrentProblem returns the problem awaiting a decision.
func (s *Session) CurrentProblem() (conflict.Problem, bool) {
	if s.state != StateAwaitingDecision {
		return conflict.Problem{}, false
	}
	return s.outcome.First()
}

// Problems returns every problem of the stage that stopped detection.
// Only the first is answered by the next decision.
func (s *Session) Problems() []conflict.Problem {
	if s.state != StateAwaitingDecision {
		return nil
	}
	return s.outcome.Problems
}

// Stage returns the detector stage that produced the current problems.
func (s *Session) Stage() conflict.Stage {
	if s.state != StateAwaitingDecision {
		return conflict.StageNone
	}
	return s.outcome.Stage
}

// Apply answers the current problem and re-runs detection.
//
// A decision that does not fit the problem returns ErrInvalidDecision and
// leaves the session untouched.
func (s *Session) Apply(d Decision) (State, error) {
	problem, ok := s.CurrentProblem()
	if !ok {
		return s.state, ErrNotAwaiting
	}
	if err := validate(problem, d); err != nil {
		return s.state, err
	}

	for _, a := range targets(problem, d) {
		s.dontUse(a)
	}
	s.detect()
	return s.state, nil
}

// Cancel aborts the session. Detachments already applied to the profile
// stay in effect. Cancelling a resolved session has no effect.
func (s *Session) Cancel() State {
	if s.state == StateResolved {
		return s.state
	}
	s.state = StateCancelled
	s.outcome = conflict.Outcome{}
	return s.state
}

// Result returns the final load order once the session is resolved.
func (s *Session) Result() []string {
	if s.state != StateResolved {
		return nil
	}
	out := make([]string, len(s.result))
	copy(out, s.result)
	return out
}

// Detached returns the ids whose attachment was flipped by decisions, in
// the order they were applied.
func (s *Session) Detached() []string {
	out := make([]string, len(s.detached))
	copy(out, s.detached)
	return out
}

// Overrides returns every override applied across all detector runs.
func (s *Session) Overrides() []conflict.Override {
	out := make([]conflict.Override, len(s.overrides))
	copy(out, s.overrides)
	return out
}

func (s *Session) detect() {
	s.outcome = s.detector.Detect(s.roster, s.profile)
	if !s.outcome.Resolved() {
		s.state = StateAwaitingDecision
		return
	}

	s.overrides = append(s.overrides, s.outcome.Overrides...)
	s.roster = s.outcome.Roster

	ids := make([]string, 0, len(s.roster))
	for i := len(s.roster) - 1; i >= 0; i-- {
		ids = append(ids, s.roster[i].ID)
	}
	s.result = s.planner.Sort(ids, s.profile)
	s.state = StateResolved
}

// dontUse detaches a from the profile and drops it from the roster. When
// the profile change deactivated a box, the box and its parts leave the
// roster too.
func (s *Session) dontUse(a *addon.Addon) {
	toggled := s.planner.DontUse(s.profile, a.ID)
	s.detached = append(s.detached, toggled...)
	dropped := append([]string{a.ID}, toggled...)

	gone := make(map[string]bool)
	for _, id := range dropped {
		gone[id] = true
		if box, err := s.planner.Registry().Get(id); err == nil && box.IsBox() {
			for _, part := range box.Parts.All() {
				gone[part] = true
			}
		}
	}
	s.roster = slices.DeleteFunc(s.roster, func(r *addon.Addon) bool {
		return gone[r.ID]
	})
}

// targets returns the addons d removes from the roster.
func targets(p conflict.Problem, d Decision) []*addon.Addon {
	switch d.Action {
	case ActionDetach, ActionDropExcluding:
		return []*addon.Addon{p.Addon}
	case ActionDropExcluded:
		return p.Excluded
	case ActionKeep:
		var out []*addon.Addon
		keep := profile.CanonicalID(d.Keep)
		for _, a := range p.Involved() {
			if a.ID != keep {
				out = append(out, a)
			}
		}
		return out
	default:
		return nil
	}
}
