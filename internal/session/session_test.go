package session

import (
	"errors"
	"reflect"
	"testing"

	"github.com/danieljhkim/loadout/internal/addon"
	"github.com/danieljhkim/loadout/internal/conflict"
	"github.com/danieljhkim/loadout/internal/planner"
	"github.com/danieljhkim/loadout/internal/profile"
)

type harness struct {
	profile *profile.Profile
	planner *planner.Planner
	session *Session
}

// newHarness registers recs, attaches ids to a fresh profile and starts a
// session over the profile's roster.
func newHarness(t *testing.T, recs []addon.Record, attached ...string) *harness {
	t.Helper()
	r := addon.NewRegistry()
	for _, rec := range recs {
		if _, err := r.Register(rec); err != nil {
			t.Fatalf("Register(%s) error = %v", rec.ID, err)
		}
	}
	r.LinkBoxes()

	p := profile.New("doom")
	for _, id := range attached {
		p.Attach(id)
	}
	pl := planner.New(r, profile.NewDefaults(), nil)
	det := conflict.NewDetector(r.Tree(), nil, nil)
	return &harness{
		profile: p,
		planner: pl,
		session: New(det, pl, p),
	}
}

func (h *harness) start(t *testing.T) State {
	t.Helper()
	state, err := h.session.Start(h.planner.Roster(h.profile))
	if err != nil {
		t.Fatalf("Start() error = %v", err)
	}
	return state
}

func (h *harness) expectProblem(t *testing.T, kind conflict.Kind) conflict.Problem {
	t.Helper()
	if got := h.session.State(); got != StateAwaitingDecision {
		t.Fatalf("State() = %s, want %s", got, StateAwaitingDecision)
	}
	prob, ok := h.session.CurrentProblem()
	if !ok {
		t.Fatal("CurrentProblem() returned no problem")
	}
	if prob.Kind != kind {
		t.Fatalf("problem kind = %s, want %s", prob.Kind, kind)
	}
	return prob
}

func (h *harness) apply(t *testing.T, d Decision) State {
	t.Helper()
	state, err := h.session.Apply(d)
	if err != nil {
		t.Fatalf("Apply(%s) error = %v", d.Action, err)
	}
	return state
}

func TestSession_CleanRosterResolvesOnStart(t *testing.T) {
	h := newHarness(t, []addon.Record{
		{ID: "a", Priority: "m"},
		{ID: "b", Priority: "c"},
	}, "a", "b")

	if state := h.start(t); state != StateResolved {
		t.Fatalf("Start() = %s, want resolved", state)
	}
	if _, ok := h.session.CurrentProblem(); ok {
		t.Error("resolved session should have no current problem")
	}
	if got := h.session.Result(); !reflect.DeepEqual(got, []string{"b", "a"}) {
		t.Errorf("Result() = %v, want [b a]", got)
	}
}

func TestSession_StartTwice(t *testing.T) {
	h := newHarness(t, []addon.Record{{ID: "a"}}, "a")
	h.start(t)

	if _, err := h.session.Start(nil); !errors.Is(err, ErrAlreadyStarted) {
		t.Errorf("second Start() error = %v, want ErrAlreadyStarted", err)
	}
}

func TestSession_MissingRequirements(t *testing.T) {
	h := newHarness(t, []addon.Record{
		{ID: "a", Requires: []string{"jhexen"}},
		{ID: "b"},
	}, "a", "b")
	h.start(t)
	prob := h.expectProblem(t, conflict.KindMissingRequirements)
	if prob.Addon.ID != "a" {
		t.Fatalf("problem addon = %s, want a", prob.Addon.ID)
	}

	if state := h.apply(t, DetachAddon()); state != StateResolved {
		t.Fatalf("Apply() = %s, want resolved", state)
	}
	if h.profile.IsAttached("a") {
		t.Error("a should be detached from the profile")
	}
	if got := h.session.Result(); !reflect.DeepEqual(got, []string{"b"}) {
		t.Errorf("Result() = %v, want [b]", got)
	}
	if got := h.session.Detached(); !reflect.DeepEqual(got, []string{"a"}) {
		t.Errorf("Detached() = %v, want [a]", got)
	}
}

func TestSession_ExclusionByCategory(t *testing.T) {
	recs := []addon.Record{
		{ID: "a", ExcludedCategoryPaths: []string{"gamedata/maps"}},
		{ID: "b", CategoryPath: "gamedata/maps/ag"},
		{ID: "c"},
	}

	tests := []struct {
		name     string
		decision Decision
		want     []string
	}{
		{name: "drop excluded", decision: DropExcluded(), want: []string{"a", "c"}},
		{name: "drop excluding", decision: DropExcluding(), want: []string{"b", "c"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := newHarness(t, recs, "a", "b", "c")
			h.start(t)
			h.expectProblem(t, conflict.KindExclusionByCategory)

			if state := h.apply(t, tt.decision); state != StateResolved {
				t.Fatalf("Apply() = %s, want resolved", state)
			}
			if got := h.session.Result(); !reflect.DeepEqual(got, tt.want) {
				t.Errorf("Result() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestSession_ExclusionByValue(t *testing.T) {
	h := newHarness(t, []addon.Record{
		{ID: "turbo", Excludes: []string{"fast"}},
		{ID: "b"},
	}, "turbo", "b")
	h.profile.SetValue("fast", "yes")
	h.start(t)
	h.expectProblem(t, conflict.KindExclusionByValue)

	if state := h.apply(t, DetachAddon()); state != StateResolved {
		t.Fatalf("Apply() = %s, want resolved", state)
	}
	if got := h.session.Result(); !reflect.DeepEqual(got, []string{"b"}) {
		t.Errorf("Result() = %v, want [b]", got)
	}
}

func TestSession_ProvideConflictKeepsOne(t *testing.T) {
	h := newHarness(t, []addon.Record{
		{ID: "x", Provides: []string{"music-pack"}},
		{ID: "y", Provides: []string{"music-pack"}},
		{ID: "z"},
	}, "x", "y", "z")
	h.start(t)
	h.expectProblem(t, conflict.KindProvideConflict)

	if state := h.apply(t, KeepOnly("y")); state != StateResolved {
		t.Fatalf("Apply() = %s, want resolved", state)
	}
	if got := h.session.Result(); !reflect.DeepEqual(got, []string{"y", "z"}) {
		t.Errorf("Result() = %v, want [y z]", got)
	}
	if h.profile.IsAttached("x") || !h.profile.IsAttached("y") {
		t.Errorf("Addons = %v, want x detached and y kept", h.profile.Addons)
	}
}

func TestSession_InvalidDecisionLeavesStateUnchanged(t *testing.T) {
	tests := []struct {
		name     string
		decision Decision
	}{
		{name: "wrong action", decision: DetachAddon()},
		{name: "keep outsider", decision: KeepOnly("z")},
		{name: "keep unknown", decision: KeepOnly("ghost")},
		{name: "zero decision", decision: Decision{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := newHarness(t, []addon.Record{
				{ID: "x", Provides: []string{"music-pack"}},
				{ID: "y", Provides: []string{"music-pack"}},
				{ID: "z"},
			}, "x", "y", "z")
			h.start(t)
			before := h.expectProblem(t, conflict.KindProvideConflict)

			state, err := h.session.Apply(tt.decision)
			if !errors.Is(err, ErrInvalidDecision) {
				t.Fatalf("Apply() error = %v, want ErrInvalidDecision", err)
			}
			if state != StateAwaitingDecision {
				t.Errorf("Apply() state = %s, want awaiting-decision", state)
			}
			after := h.expectProblem(t, conflict.KindProvideConflict)
			if before.String() != after.String() {
				t.Errorf("problem changed: %q -> %q", before, after)
			}
			if len(h.profile.Addons) != 3 || len(h.session.Detached()) != 0 {
				t.Errorf("profile mutated by invalid decision: %v", h.profile.Addons)
			}
		})
	}
}

func TestSession_RequiredPartDropsBox(t *testing.T) {
	h := newHarness(t, []addon.Record{
		{ID: "box", IsBox: true, RequiredParts: []string{"req"}},
		{ID: "req", Provides: []string{"music"}},
		{ID: "c", Provides: []string{"music"}},
	}, "box", "c")
	h.start(t)
	h.expectProblem(t, conflict.KindProvideConflict)

	if state := h.apply(t, KeepOnly("c")); state != StateResolved {
		t.Fatalf("Apply() = %s, want resolved", state)
	}
	if got := h.session.Result(); !reflect.DeepEqual(got, []string{"c"}) {
		t.Errorf("Result() = %v, want [c]", got)
	}
	if got := h.session.Detached(); !reflect.DeepEqual(got, []string{"box"}) {
		t.Errorf("Detached() = %v, want [box]", got)
	}
	if h.profile.IsAttached("box") {
		t.Error("box should be detached")
	}
}

func TestSession_RequiredPartAttachedWithBox(t *testing.T) {
	h := newHarness(t, []addon.Record{
		{ID: "box", IsBox: true, RequiredParts: []string{"part"}},
		{ID: "part", Requires: []string{"jhexen"}},
		{ID: "c"},
	}, "box", "part", "c")
	h.start(t)
	h.expectProblem(t, conflict.KindMissingRequirements)

	if state := h.apply(t, DetachAddon()); state != StateResolved {
		t.Fatalf("Apply() = %s, want resolved", state)
	}
	if got := h.session.Detached(); !reflect.DeepEqual(got, []string{"part", "box"}) {
		t.Errorf("Detached() = %v, want [part box]", got)
	}
	if !reflect.DeepEqual(h.profile.Addons, []string{"c"}) {
		t.Errorf("Addons = %v, want [c]", h.profile.Addons)
	}

	// The saved profile must launch what the session reported
	if got, want := h.planner.FinalAddons(h.profile), h.session.Result(); !reflect.DeepEqual(got, want) {
		t.Errorf("FinalAddons() = %v, Result() = %v", got, want)
	}
	rerun := New(conflict.NewDetector(h.planner.Registry().Tree(), nil, nil), h.planner, h.profile)
	if state, err := rerun.Start(h.planner.Roster(h.profile)); err != nil || state != StateResolved {
		t.Errorf("second session Start() = %s, %v; want resolved", state, err)
	}
}

func TestSession_KeepOnlyIgnoresCase(t *testing.T) {
	h := newHarness(t, []addon.Record{
		{ID: "a", Provides: []string{"music"}},
		{ID: "b", Provides: []string{"music"}},
	}, "a", "b")
	h.start(t)
	prob := h.expectProblem(t, conflict.KindProvideConflict)

	for _, d := range []Decision{KeepOnly("A"), {Action: ActionKeep, Keep: " A "}} {
		if err := validate(prob, d); err != nil {
			t.Errorf("validate(%q) error = %v", d.Keep, err)
		}
	}
	if state := h.apply(t, Decision{Action: ActionKeep, Keep: "A"}); state != StateResolved {
		t.Fatalf("Apply() = %s, want resolved", state)
	}
	if got := h.session.Result(); !reflect.DeepEqual(got, []string{"a"}) {
		t.Errorf("Result() = %v, want [a]", got)
	}
}

func TestSession_OverridesAreRecorded(t *testing.T) {
	h := newHarness(t, []addon.Record{
		{ID: "y", Offers: []string{"sound"}},
		{ID: "x", Provides: []string{"sound"}},
	}, "y", "x")

	if state := h.start(t); state != StateResolved {
		t.Fatalf("Start() = %s, want resolved", state)
	}
	if got := h.session.Result(); !reflect.DeepEqual(got, []string{"x"}) {
		t.Errorf("Result() = %v, want [x]", got)
	}
	overrides := h.session.Overrides()
	if len(overrides) != 1 || overrides[0].Winner.ID != "x" || overrides[0].Loser.ID != "y" {
		t.Errorf("Overrides() = %+v", overrides)
	}
}

func TestSession_CancelKeepsAppliedDetachments(t *testing.T) {
	h := newHarness(t, []addon.Record{
		{ID: "a", Requires: []string{"jhexen"}},
		{ID: "b", Requires: []string{"jheretic"}},
	}, "a", "b")
	h.start(t)
	first := h.expectProblem(t, conflict.KindMissingRequirements)

	if state := h.apply(t, DetachAddon()); state != StateAwaitingDecision {
		t.Fatalf("Apply() = %s, want awaiting-decision", state)
	}
	second := h.expectProblem(t, conflict.KindMissingRequirements)
	if second.Addon.ID == first.Addon.ID {
		t.Fatalf("same addon reported twice: %s", first.Addon.ID)
	}

	if state := h.session.Cancel(); state != StateCancelled {
		t.Fatalf("Cancel() = %s, want cancelled", state)
	}
	if h.profile.IsAttached(first.Addon.ID) {
		t.Errorf("%s should stay detached after cancel", first.Addon.ID)
	}
	if !h.profile.IsAttached(second.Addon.ID) {
		t.Errorf("%s was never decided and should stay attached", second.Addon.ID)
	}
	if got := h.session.Result(); got != nil {
		t.Errorf("Result() after cancel = %v, want nil", got)
	}
	if _, err := h.session.Apply(DetachAddon()); !errors.Is(err, ErrNotAwaiting) {
		t.Errorf("Apply() after cancel error = %v, want ErrNotAwaiting", err)
	}
}

func TestSession_CancelAfterResolveIsNoop(t *testing.T) {
	h := newHarness(t, []addon.Record{{ID: "a"}}, "a")
	h.start(t)

	if state := h.session.Cancel(); state != StateResolved {
		t.Errorf("Cancel() = %s, want resolved", state)
	}
	if got := h.session.Result(); !reflect.DeepEqual(got, []string{"a"}) {
		t.Errorf("Result() = %v, want [a]", got)
	}
}

func TestSession_ApplyBeforeStart(t *testing.T) {
	h := newHarness(t, []addon.Record{{ID: "a"}}, "a")
	if _, err := h.session.Apply(DetachAddon()); !errors.Is(err, ErrNotAwaiting) {
		t.Errorf("Apply() error = %v, want ErrNotAwaiting", err)
	}
}

func TestChoices(t *testing.T) {
	x := &addon.Addon{ID: "x"}
	y := &addon.Addon{ID: "y"}

	tests := []struct {
		name    string
		problem conflict.Problem
		want    []Action
	}{
		{
			name:    "missing requirements",
			problem: conflict.Problem{Kind: conflict.KindMissingRequirements, Addon: x},
			want:    []Action{ActionDetach},
		},
		{
			name:    "category exclusion",
			problem: conflict.Problem{Kind: conflict.KindExclusionByCategory, Addon: x, Excluded: []*addon.Addon{y}},
			want:    []Action{ActionDropExcluded, ActionDropExcluding},
		},
		{
			name: "provide conflict",
			problem: conflict.Problem{Kind: conflict.KindProvideConflict, Pairs: []conflict.ProvidePair{
				{First: x, Second: y, Keyword: "music"},
			}},
			want: []Action{ActionKeep, ActionKeep},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			choices := Choices(tt.problem)
			var got []Action
			for _, c := range choices {
				got = append(got, c.Decision.Action)
				if err := validate(tt.problem, c.Decision); err != nil {
					t.Errorf("choice %q does not validate: %v", c.Label, err)
				}
			}
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("actions = %v, want %v", got, tt.want)
			}
		})
	}
}
