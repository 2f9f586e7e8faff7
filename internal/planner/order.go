package planner

import (
	"cmp"
	"slices"

	"github.com/danieljhkim/loadout/internal/addon"
	"github.com/danieljhkim/loadout/internal/profile"
)

// Compare orders two addon ids for p.
//
// Ids that both appear in p's load order compare by position there. Failing
// that, for profiles other than Defaults, ids that both appear in the
// Defaults load order compare by position there. Otherwise the priority
// classes decide; unknown ids use the default class.
func (pl *Planner) Compare(a, b string, p *profile.Profile) int {
	if ia, ib, ok := positions(p, a, b); ok {
		return cmp.Compare(ia, ib)
	}
	if !p.IsDefaults() {
		if ia, ib, ok := positions(pl.defaults, a, b); ok {
			return cmp.Compare(ia, ib)
		}
	}
	return cmp.Compare(pl.priority(a), pl.priority(b))
}

// Sort orders ids in place for p and returns them. Ties keep their input
// order.
func (pl *Planner) Sort(ids []string, p *profile.Profile) []string {
	slices.SortStableFunc(ids, func(a, b string) int {
		return pl.Compare(a, b, p)
	})
	return ids
}

func (pl *Planner) priority(id string) byte {
	a, err := pl.registry.Get(id)
	if err != nil {
		return addon.DefaultPriority
	}
	return a.Priority
}

func positions(p *profile.Profile, a, b string) (int, int, bool) {
	ia, okA := p.LoadOrderIndex(a)
	ib, okB := p.LoadOrderIndex(b)
	return ia, ib, okA && okB
}
