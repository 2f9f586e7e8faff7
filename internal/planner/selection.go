package planner

import (
	"io"
	"slices"

	"github.com/charmbracelet/log"

	"github.com/danieljhkim/loadout/internal/addon"
	"github.com/danieljhkim/loadout/internal/profile"
)

// Planner resolves the addon selection of profiles against one registry
// and one Defaults profile.
type Planner struct {
	registry *addon.Registry
	defaults *profile.Profile
	logger   *log.Logger
}

// New creates a Planner. A nil defaults profile is replaced by an empty one;
// a nil logger discards output.
func New(registry *addon.Registry, defaults *profile.Profile, logger *log.Logger) *Planner {
	if defaults == nil {
		defaults = profile.NewDefaults()
	}
	if logger == nil {
		logger = log.New(io.Discard)
	}
	return &Planner{
		registry: registry,
		defaults: defaults,
		logger:   logger,
	}
}

// Registry returns the registry the planner reads.
func (pl *Planner) Registry() *addon.Registry {
	return pl.registry
}

// Defaults returns the Defaults profile.
func (pl *Planner) Defaults() *profile.Profile {
	return pl.defaults
}

// UsedAddons returns the ids of the addons p activates.
//
// For the Defaults profile the starting set is its own attachments. For any
// other profile it is the symmetric difference of its attachments and the
// Defaults attachments, so attaching an addon that Defaults already uses
// turns it off. Inversed addons then have their membership flipped, and
// anything unknown or incompatible with p is dropped.
func (pl *Planner) UsedAddons(p *profile.Profile) []string {
	used := newIDSet()
	if p.IsDefaults() {
		for _, id := range p.Addons {
			used.add(profile.CanonicalID(id))
		}
	} else {
		for _, id := range p.Addons {
			if !pl.defaults.IsAttached(id) {
				used.add(profile.CanonicalID(id))
			}
		}
		for _, id := range pl.defaults.Addons {
			if !p.IsAttached(id) {
				used.add(profile.CanonicalID(id))
			}
		}
	}

	for _, a := range pl.registry.All() {
		if a.Inversed {
			used.toggle(a.ID)
		}
	}

	var out []string
	for _, id := range used.items() {
		a, err := pl.registry.Get(id)
		if err != nil {
			continue
		}
		if !pl.registry.CompatibleWith(a, p) {
			continue
		}
		out = append(out, a.ID)
	}

	pl.logger.Debug("used addons resolved", "profile", p.ID, "count", len(out))
	return out
}

// FinalAddons returns the sorted ids of every addon launched with p.
//
// The Defaults profile launches every installed addon. Other profiles
// launch their used addons; parts of a box that is not used are skipped,
// and a used box contributes its required parts ahead of itself.
func (pl *Planner) FinalAddons(p *profile.Profile) []string {
	final := newIDSet()
	if p.IsDefaults() {
		for _, a := range pl.registry.Installed() {
			final.add(a.ID)
		}
		return pl.Sort(final.items(), p)
	}

	used := pl.UsedAddons(p)
	usedSet := newIDSet()
	for _, id := range used {
		usedSet.add(id)
	}

	for _, id := range used {
		a, err := pl.registry.Get(id)
		if err != nil {
			continue
		}
		if a.Box != "" && !usedSet.has(a.Box) {
			continue
		}
		if a.IsBox() {
			for _, pid := range a.Parts.Required {
				part, err := pl.registry.Get(pid)
				if err != nil || part.Uninstalled {
					continue
				}
				final.add(part.ID)
			}
		}
		final.add(a.ID)
	}
	return pl.Sort(final.items(), p)
}

// Roster returns FinalAddons(p) as addon records, lowest priority first.
func (pl *Planner) Roster(p *profile.Profile) []*addon.Addon {
	ids := pl.FinalAddons(p)
	roster := make([]*addon.Addon, 0, len(ids))
	for _, id := range ids {
		if a, err := pl.registry.Get(id); err == nil {
			roster = append(roster, a)
		}
	}
	return roster
}

// DontUse changes p so that the addon stops being launched and returns the
// ids whose attachment was flipped, in order. A used box brings its
// required parts back with it, so removing such a part also deactivates
// every used box that requires it. The result is empty if the addon was
// not launched.
func (pl *Planner) DontUse(p *profile.Profile, id string) []string {
	id = profile.CanonicalID(id)
	used := pl.UsedAddons(p)
	direct := slices.Contains(used, id)

	var boxes []string
	for _, u := range used {
		box, err := pl.registry.Get(u)
		if err != nil || !box.IsBox() {
			continue
		}
		if slices.Contains(box.Parts.Required, id) {
			boxes = append(boxes, box.ID)
		}
	}

	var toggled []string
	if direct {
		pl.toggle(p, id)
		toggled = append(toggled, id)
	}
	for _, boxID := range boxes {
		pl.toggle(p, boxID)
		toggled = append(toggled, boxID)
	}
	return toggled
}

// toggle flips the attachment of id.
func (pl *Planner) toggle(p *profile.Profile, id string) {
	if p.Toggle(id) {
		pl.logger.Debug("addon attached", "profile", p.ID, "addon", id)
		return
	}
	pl.logger.Debug("addon detached", "profile", p.ID, "addon", id)
}

// idSet is an insertion-ordered set of ids.
type idSet struct {
	order []string
	index map[string]bool
}

func newIDSet() *idSet {
	return &idSet{index: make(map[string]bool)}
}

func (s *idSet) add(id string) {
	if id == "" || s.index[id] {
		return
	}
	s.index[id] = true
	s.order = append(s.order, id)
}

func (s *idSet) has(id string) bool {
	return s.index[id]
}

func (s *idSet) toggle(id string) {
	if !s.index[id] {
		s.add(id)
		return
	}
	delete(s.index, id)
	for i, existing := range s.order {
		if existing == id {
			s.order = append(s.order[:i], s.order[i+1:]...)
			break
		}
	}
}

func (s *idSet) items() []string {
	out := make([]string, len(s.order))
	copy(out, s.order)
	return out
}
