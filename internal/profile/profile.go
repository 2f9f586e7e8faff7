// Package profile defines launch profiles: a named set of attached addons,
// an optional explicit load order, and free-form setting values.
//
// One profile per session is marked as Defaults. Its attachments and load
// order act as fallbacks for every other profile, and it is compatible with
// every installed addon.
package profile

import (
	"slices"
	"strings"
	"time"
)

// DefaultsID is the conventional id of the Defaults profile.
const DefaultsID = "defaults"

// Profile is a user-editable launch configuration.
type Profile struct {
	// ID is the unique profile identifier
	ID string `yaml:"id" json:"id"`

	// Defaults marks the session-wide fallback profile
	Defaults bool `yaml:"defaults,omitempty" json:"defaults,omitempty"`

	// Addons is the list of attached addon ids
	Addons []string `yaml:"addons" json:"addons"`

	// LoadOrder is an optional explicit ordering of addon ids
	LoadOrder []string `yaml:"loadOrder,omitempty" json:"loadOrder,omitempty"`

	// Values maps setting ids to their string values
	Values map[string]string `yaml:"values,omitempty" json:"values,omitempty"`

	// UpdatedAt is when the profile was last modified
	UpdatedAt time.Time `yaml:"updatedAt,omitempty" json:"updatedAt,omitempty"`
}

// New creates an empty profile.
func New(id string) *Profile {
	return &Profile{
		ID:     id,
		Addons: []string{},
		Values: make(map[string]string),
	}
}

// NewDefaults creates an empty Defaults profile.
func NewDefaults() *Profile {
	p := New(DefaultsID)
	p.Defaults = true
	return p
}

// IsDefaults reports whether p is the Defaults profile.
func (p *Profile) IsDefaults() bool {
	return p != nil && p.Defaults
}

// CanonicalID returns the form addon ids are compared in. Ids are
// case-insensitive and surrounding whitespace is ignored.
func CanonicalID(id string) string {
	return strings.ToLower(strings.TrimSpace(id))
}

func indexOf(ids []string, id string) int {
	id = CanonicalID(id)
	return slices.IndexFunc(ids, func(existing string) bool {
		return CanonicalID(existing) == id
	})
}

// IsAttached reports whether the addon id is attached to p.
func (p *Profile) IsAttached(id string) bool {
	return indexOf(p.Addons, id) >= 0
}

// Attach attaches an addon. It returns false if it was already attached.
func (p *Profile) Attach(id string) bool {
	if p.IsAttached(id) {
		return false
	}
	p.Addons = append(p.Addons, id)
	return true
}

// Detach removes an addon attachment, whatever spelling it was stored
// under. It returns false if it was not attached.
func (p *Profile) Detach(id string) bool {
	idx := indexOf(p.Addons, id)
	if idx < 0 {
		return false
	}
	p.Addons = slices.Delete(p.Addons, idx, idx+1)
	return true
}

// Toggle flips the attachment state of an addon and returns the new state.
func (p *Profile) Toggle(id string) bool {
	if p.Detach(id) {
		return false
	}
	p.Attach(id)
	return true
}

// LoadOrderIndex returns the first position of id in the explicit load
// order.
func (p *Profile) LoadOrderIndex(id string) (int, bool) {
	idx := indexOf(p.LoadOrder, id)
	return idx, idx >= 0
}

// SetValue sets a setting value. An empty value clears the setting.
func (p *Profile) SetValue(key, value string) {
	if p.Values == nil {
		p.Values = make(map[string]string)
	}
	if value == "" {
		delete(p.Values, key)
		return
	}
	p.Values[key] = value
}

// Clone returns a deep copy of p.
func (p *Profile) Clone() *Profile {
	c := *p
	c.Addons = slices.Clone(p.Addons)
	c.LoadOrder = slices.Clone(p.LoadOrder)
	c.Values = make(map[string]string, len(p.Values))
	for k, v := range p.Values {
		c.Values[k] = v
	}
	return &c
}
