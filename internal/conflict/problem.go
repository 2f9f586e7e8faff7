package conflict

import (
	"fmt"
	"strings"

	"github.com/danieljhkim/loadout/internal/addon"
)

// Kind identifies the class of a Problem.
type Kind int

// Problem kinds
const (
	KindMissingRequirements Kind = iota + 1
	KindExclusionByCategory
	KindExclusionByValue
	KindExclusionByKeyword
	KindProvideConflict
)

// String returns a stable name for the kind.
func (k Kind) String() string {
	switch k {
	case KindMissingRequirements:
		return "missing-requirements"
	case KindExclusionByCategory:
		return "exclusion-by-category"
	case KindExclusionByValue:
		return "exclusion-by-value"
	case KindExclusionByKeyword:
		return "exclusion-by-keyword"
	case KindProvideConflict:
		return "provide-conflict"
	default:
		return fmt.Sprintf("kind(%d)", int(k))
	}
}

// Stage is one step of the detector, in evaluation order.
type Stage int

// Detector stages
const (
	StageNone Stage = iota
	StageRequirements
	StageCategoryExclusion
	StageKeywordExclusion
	StageProvides
	StageOverrides
)

// String returns a stable name for the stage.
func (s Stage) String() string {
	switch s {
	case StageNone:
		return "none"
	case StageRequirements:
		return "requirements"
	case StageCategoryExclusion:
		return "category-exclusion"
	case StageKeywordExclusion:
		return "keyword-exclusion"
	case StageProvides:
		return "provides"
	case StageOverrides:
		return "overrides"
	default:
		return fmt.Sprintf("stage(%d)", int(s))
	}
}

// KeywordMatch is an addon matched by one of the excluding addon's keywords.
type KeywordMatch struct {
	Addon   *addon.Addon
	Keyword string
}

// ProvidePair is two addons providing the same keyword.
type ProvidePair struct {
	First   *addon.Addon
	Second  *addon.Addon
	Keyword string
}

// Problem describes one conflict instance.
//
// Which fields are set depends on Kind:
//   - MissingRequirements: Addon, Keywords (the missing requirements)
//   - ExclusionByCategory: Addon (the excluder), Excluded
//   - ExclusionByValue: Addon, Keywords (the excluded setting values)
//   - ExclusionByKeyword: Addon, Matches
//   - ProvideConflict: Pairs
type Problem struct {
	Kind     Kind
	Addon    *addon.Addon
	Keywords []string
	Excluded []*addon.Addon
	Matches  []KeywordMatch
	Pairs    []ProvidePair
}

// Involved returns every addon taking part in the problem, without
// duplicates, in first-mention order.
func (p Problem) Involved() []*addon.Addon {
	var out []*addon.Addon
	seen := make(map[*addon.Addon]bool)
	add := func(a *addon.Addon) {
		if a != nil && !seen[a] {
			seen[a] = true
			out = append(out, a)
		}
	}
	add(p.Addon)
	for _, a := range p.Excluded {
		add(a)
	}
	for _, m := range p.Matches {
		add(m.Addon)
	}
	for _, pair := range p.Pairs {
		add(pair.First)
		add(pair.Second)
	}
	return out
}

// String renders a one-line description.
func (p Problem) String() string {
	switch p.Kind {
	case KindMissingRequirements:
		return fmt.Sprintf("%s requires %s", p.Addon.ID, strings.Join(p.Keywords, ", "))
	case KindExclusionByCategory:
		return fmt.Sprintf("%s excludes %s", p.Addon.ID, strings.Join(addonIDs(p.Excluded), ", "))
	case KindExclusionByValue:
		return fmt.Sprintf("%s cannot be used with setting %s", p.Addon.ID, strings.Join(p.Keywords, ", "))
	case KindExclusionByKeyword:
		parts := make([]string, 0, len(p.Matches))
		for _, m := range p.Matches {
			parts = append(parts, fmt.Sprintf("%s (%s)", m.Addon.ID, m.Keyword))
		}
		return fmt.Sprintf("%s excludes %s", p.Addon.ID, strings.Join(parts, ", "))
	case KindProvideConflict:
		parts := make([]string, 0, len(p.Pairs))
		for _, pair := range p.Pairs {
			parts = append(parts, fmt.Sprintf("%s and %s both provide %s", pair.First.ID, pair.Second.ID, pair.Keyword))
		}
		return strings.Join(parts, "; ")
	default:
		return p.Kind.String()
	}
}

// Override records an addon removed automatically in favor of another.
type Override struct {
	Winner  *addon.Addon
	Loser   *addon.Addon
	Keyword string

	// Offered is true when both addons merely offer Keyword
	Offered bool
}

// Outcome is the result of one detector run.
type Outcome struct {
	// Stage is the stage that produced Problems, or StageNone
	Stage Stage

	// Problems is empty when the roster is conflict-free
	Problems []Problem

	// Overrides lists the addons removed by the override stage
	Overrides []Override

	// Roster is the input roster minus overridden addons
	Roster []*addon.Addon
}

// Resolved reports whether no problem was found.
func (o Outcome) Resolved() bool {
	return len(o.Problems) == 0
}

// First returns the first problem, if any.
func (o Outcome) First() (Problem, bool) {
	if len(o.Problems) == 0 {
		return Problem{}, false
	}
	return o.Problems[0], true
}

func addonIDs(addons []*addon.Addon) []string {
	out := make([]string, 0, len(addons))
	for _, a := range addons {
		out = append(out, a.ID)
	}
	return out
}
