// Package addon holds addon metadata and the registry every resolver reads.
//
// The registry is populated from input records once per run. After loading,
// the only mutations are Uninstall (a flag flip) and box content loading
// (AddParts). Addons are never removed.
//
// Key components:
//   - Addon: metadata with the four keyword relations
//   - Registry: lookup, compatibility and availability filtering
//   - Record: the external input record decoded from manifests
package addon

import (
	"fmt"
	"strings"

	"github.com/danieljhkim/loadout/internal/category"
	"github.com/danieljhkim/loadout/internal/profile"
)

// Registry owns every known addon and the category tree they are filed in.
type Registry struct {
	tree       *category.Tree
	addons     map[string]*Addon
	order      []string
	components profile.ComponentsFunc
}

// Option configures a Registry.
type Option func(*Registry)

// WithComponents sets how profile components are derived.
func WithComponents(fn profile.ComponentsFunc) Option {
	return func(r *Registry) {
		r.components = fn
	}
}

// WithTree shares an existing category tree.
func WithTree(tree *category.Tree) Option {
	return func(r *Registry) {
		r.tree = tree
	}
}

// NewRegistry creates an empty Registry.
func NewRegistry(opts ...Option) *Registry {
	r := &Registry{
		addons:     make(map[string]*Addon),
		components: profile.ValueComponents,
	}
	for _, opt := range opts {
		opt(r)
	}
	if r.tree == nil {
		r.tree = category.NewTree()
	}
	return r
}

// Tree returns the category tree.
func (r *Registry) Tree() *category.Tree {
	return r.tree
}

// Register creates an addon from an input record.
func (r *Registry) Register(rec Record) (*Addon, error) {
	id := normalizeID(rec.ID)
	if id == "" {
		return nil, fmt.Errorf("%w: empty id", ErrInvalidRecord)
	}
	if _, exists := r.addons[id]; exists {
		return nil, fmt.Errorf("%w: %s", ErrDuplicate, id)
	}

	kind, err := ParseKind(rec.Kind)
	if err != nil {
		return nil, fmt.Errorf("addon %s: %w", id, err)
	}
	if rec.IsBox {
		kind = KindBox
	}

	priority, err := parsePriority(rec.Priority)
	if err != nil {
		return nil, fmt.Errorf("addon %s: %w", id, err)
	}

	a := &Addon{
		ID:                 id,
		Kind:               kind,
		Category:           r.tree.Resolve(rec.CategoryPath),
		Priority:           priority,
		Excludes:           NewKeywordSet(rec.Excludes...),
		Requires:           NewKeywordSet(rec.Requires...),
		Provides:           NewKeywordSet(append([]string{id}, rec.Provides...)...),
		Offers:             NewKeywordSet(rec.Offers...),
		RequiredComponents: normalizeIDs(rec.RequiredComponents),
		Box:                normalizeID(rec.BoxID),
		Uninstalled:        rec.Uninstalled,
	}
	for _, path := range rec.ExcludedCategoryPaths {
		a.ExcludedCategories = append(a.ExcludedCategories, r.tree.Resolve(path))
	}

	if kind == KindBox {
		if a.Box != "" {
			return nil, fmt.Errorf("%w: box %s cannot belong to box %s", ErrInvalidRecord, id, a.Box)
		}
		a.Parts = &BoxParts{
			Required: normalizeIDs(rec.RequiredParts),
			Optional: normalizeIDs(rec.OptionalParts),
			Extra:    normalizeIDs(rec.ExtraParts),
		}
	}

	r.addons[id] = a
	r.order = append(r.order, id)
	return a, nil
}

// LinkBoxes points every known box part at its box. Optional parts become
// inversed. Unknown part ids and parts that are boxes themselves are skipped.
func (r *Registry) LinkBoxes() {
	for _, id := range r.order {
		box := r.addons[id]
		if !box.IsBox() {
			continue
		}
		r.linkParts(box, box.Parts.Required, false)
		r.linkParts(box, box.Parts.Optional, true)
		r.linkParts(box, box.Parts.Extra, false)
	}
}

func (r *Registry) linkParts(box *Addon, ids []string, inversed bool) {
	for _, pid := range ids {
		part, ok := r.addons[pid]
		if !ok || part.IsBox() {
			continue
		}
		part.Box = box.ID
		if inversed {
			part.Inversed = true
		}
	}
}

// AddParts appends parts to a box's contents and relinks them.
func (r *Registry) AddParts(boxID string, parts BoxParts) error {
	box, err := r.Get(boxID)
	if err != nil {
		return err
	}
	if !box.IsBox() {
		return fmt.Errorf("%w: %s is not a box", ErrInvalidRecord, box.ID)
	}
	required := normalizeIDs(parts.Required)
	optional := normalizeIDs(parts.Optional)
	extra := normalizeIDs(parts.Extra)
	box.Parts.Required = append(box.Parts.Required, required...)
	box.Parts.Optional = append(box.Parts.Optional, optional...)
	box.Parts.Extra = append(box.Parts.Extra, extra...)
	r.linkParts(box, required, false)
	r.linkParts(box, optional, true)
	r.linkParts(box, extra, false)
	return nil
}

// Get returns the addon with the given id.
func (r *Registry) Get(id string) (*Addon, error) {
	a, ok := r.addons[normalizeID(id)]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	return a, nil
}

// Exists reports whether an addon with the given id is registered.
func (r *Registry) Exists(id string) bool {
	_, ok := r.addons[normalizeID(id)]
	return ok
}

// All returns every registered addon in registration order.
func (r *Registry) All() []*Addon {
	all := make([]*Addon, 0, len(r.order))
	for _, id := range r.order {
		all = append(all, r.addons[id])
	}
	return all
}

// Installed returns every addon that has not been uninstalled.
func (r *Registry) Installed() []*Addon {
	var installed []*Addon
	for _, a := range r.All() {
		if !a.Uninstalled {
			installed = append(installed, a)
		}
	}
	return installed
}

// Uninstall flags an addon as uninstalled.
func (r *Registry) Uninstall(id string) error {
	a, err := r.Get(id)
	if err != nil {
		return err
	}
	a.Uninstalled = true
	return nil
}

// CompatibleWith reports whether a may be used with p.
// Uninstalled addons are never compatible; everything else is compatible
// with the Defaults profile. For other profiles every required component
// of a must be among the profile's components.
func (r *Registry) CompatibleWith(a *Addon, p *profile.Profile) bool {
	if a.Uninstalled {
		return false
	}
	if p.IsDefaults() {
		return true
	}
	if len(a.RequiredComponents) == 0 {
		return true
	}
	have := make(map[string]struct{})
	for _, c := range r.components(p) {
		have[c] = struct{}{}
	}
	for _, c := range a.RequiredComponents {
		if _, ok := have[c]; !ok {
			return false
		}
	}
	return true
}

// AvailableFor returns the addons compatible with p in registration order.
func (r *Registry) AvailableFor(p *profile.Profile) []*Addon {
	var available []*Addon
	for _, a := range r.All() {
		if r.CompatibleWith(a, p) {
			available = append(available, a)
		}
	}
	return available
}

// Categorized returns the addons filed directly under c.
func (r *Registry) Categorized(c category.Category) []*Addon {
	var out []*Addon
	for _, a := range r.All() {
		if a.Category == c {
			out = append(out, a)
		}
	}
	return out
}

func parsePriority(raw string) (byte, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return DefaultPriority, nil
	}
	if len(raw) != 1 {
		return 0, fmt.Errorf("%w: priority must be a single letter, got %q", ErrInvalidRecord, raw)
	}
	c := raw[0]
	if c >= 'A' && c <= 'Z' {
		c += 'a' - 'A'
	}
	if c < 'a' || c > 'z' {
		return 0, fmt.Errorf("%w: priority must be a letter, got %q", ErrInvalidRecord, raw)
	}
	return c, nil
}

func normalizeID(id string) string {
	return strings.ToLower(strings.TrimSpace(id))
}

func normalizeIDs(ids []string) []string {
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		if n := normalizeID(id); n != "" {
			out = append(out, n)
		}
	}
	return out
}
