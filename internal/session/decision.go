package session

import (
	"fmt"

	"github.com/danieljhkim/loadout/internal/conflict"
	"github.com/danieljhkim/loadout/internal/profile"
)

// Action is the kind of change a Decision asks for.
type Action int

// Decision actions
const (
	// ActionDetach detaches the offending or excluding addon
	ActionDetach Action = iota + 1

	// ActionDropExcluded detaches every addon excluded by category
	ActionDropExcluded

	// ActionDropExcluding detaches the addon that excludes by category
	ActionDropExcluding

	// ActionKeep keeps one addon of a provide conflict and detaches the rest
	ActionKeep
)

// String returns a stable name for the action.
func (a Action) String() string {
	switch a {
	case ActionDetach:
		return "detach"
	case ActionDropExcluded:
		return "drop-excluded"
	case ActionDropExcluding:
		return "drop-excluding"
	case ActionKeep:
		return "keep"
	default:
		return fmt.Sprintf("action(%d)", int(a))
	}
}

// Decision is an externally supplied answer to the current problem.
type Decision struct {
	Action Action

	// Keep is the surviving addon id for ActionKeep
	Keep string
}

// DetachAddon answers missing requirements and keyword or value exclusions.
func DetachAddon() Decision {
	return Decision{Action: ActionDetach}
}

// DropExcluded answers a category exclusion by dropping the excluded addons.
func DropExcluded() Decision {
	return Decision{Action: ActionDropExcluded}
}

// DropExcluding answers a category exclusion by dropping the excluder.
func DropExcluding() Decision {
	return Decision{Action: ActionDropExcluding}
}

// KeepOnly answers a provide conflict by keeping a single addon.
func KeepOnly(id string) Decision {
	return Decision{Action: ActionKeep, Keep: profile.CanonicalID(id)}
}

// Choice is one valid decision for a problem, with a label for prompts.
type Choice struct {
	Label    string
	Decision Decision
}

// Choices lists the valid decisions for p in presentation order.
func Choices(p conflict.Problem) []Choice {
	switch p.Kind {
	case conflict.KindMissingRequirements, conflict.KindExclusionByValue, conflict.KindExclusionByKeyword:
		return []Choice{{
			Label:    fmt.Sprintf("Don't use %s", p.Addon.ID),
			Decision: DetachAddon(),
		}}
	case conflict.KindExclusionByCategory:
		excluded := make([]string, 0, len(p.Excluded))
		for _, a := range p.Excluded {
			excluded = append(excluded, a.ID)
		}
		return []Choice{
			{Label: fmt.Sprintf("Don't use %v", excluded), Decision: DropExcluded()},
			{Label: fmt.Sprintf("Don't use %s", p.Addon.ID), Decision: DropExcluding()},
		}
	case conflict.KindProvideConflict:
		involved := p.Involved()
		choices := make([]Choice, 0, len(involved))
		for _, a := range involved {
			choices = append(choices, Choice{
				Label:    fmt.Sprintf("Use only %s", a.ID),
				Decision: KeepOnly(a.ID),
			})
		}
		return choices
	default:
		return nil
	}
}

// validate checks that d answers p.
func validate(p conflict.Problem, d Decision) error {
	switch p.Kind {
	case conflict.KindMissingRequirements, conflict.KindExclusionByValue, conflict.KindExclusionByKeyword:
		if d.Action == ActionDetach {
			return nil
		}
	case conflict.KindExclusionByCategory:
		if d.Action == ActionDropExcluded || d.Action == ActionDropExcluding {
			return nil
		}
	case conflict.KindProvideConflict:
		if d.Action != ActionKeep {
			break
		}
		for _, a := range p.Involved() {
			if a.ID == profile.CanonicalID(d.Keep) {
				return nil
			}
		}
		return fmt.Errorf("%w: %s is not part of the conflict", ErrInvalidDecision, d.Keep)
	}
	return fmt.Errorf("%w: %s does not answer %s", ErrInvalidDecision, d.Action, p.Kind)
}
