package addon

import (
	"fmt"
	"strings"

	"github.com/danieljhkim/loadout/internal/category"
)

// DefaultPriority is the priority class of addons that do not declare one.
const DefaultPriority byte = 'z'

// Kind is the format of an addon.
type Kind int

// Addon kinds
const (
	KindGeneric Kind = iota
	KindBox
	KindBundle
	KindPK3
	KindWAD
	KindDehacked
	KindDED
	KindLump
)

var kindNames = map[Kind]string{
	KindGeneric:  "generic",
	KindBox:      "box",
	KindBundle:   "bundle",
	KindPK3:      "pk3",
	KindWAD:      "wad",
	KindDehacked: "deh",
	KindDED:      "ded",
	KindLump:     "lmp",
}

// String returns the manifest name of the kind.
func (k Kind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return fmt.Sprintf("kind(%d)", int(k))
}

// ParseKind parses a manifest kind name. An empty name is KindGeneric.
func ParseKind(name string) (Kind, error) {
	name = strings.ToLower(strings.TrimSpace(name))
	if name == "" {
		return KindGeneric, nil
	}
	for k, n := range kindNames {
		if n == name {
			return k, nil
		}
	}
	return KindGeneric, fmt.Errorf("%w: unknown kind %q", ErrInvalidRecord, name)
}

// BoxParts lists the member addons of a box.
type BoxParts struct {
	Required []string
	Optional []string
	Extra    []string
}

// All returns every part id: required, then optional, then extra.
func (b *BoxParts) All() []string {
	if b == nil {
		return nil
	}
	all := make([]string, 0, len(b.Required)+len(b.Optional)+len(b.Extra))
	all = append(all, b.Required...)
	all = append(all, b.Optional...)
	all = append(all, b.Extra...)
	return all
}

// Addon is an optional content module that can be activated for a launch.
type Addon struct {
	// ID is the unique lowercase identifier
	ID string

	// Kind is the addon format
	Kind Kind

	// Category is where the addon is filed
	Category category.Category

	// Priority is a lowercase letter; lower letters load earlier
	Priority byte

	// Keyword relations. Provides always contains ID.
	Excludes *KeywordSet
	Requires *KeywordSet
	Provides *KeywordSet
	Offers   *KeywordSet

	// ExcludedCategories lists categories whose addons this addon excludes
	ExcludedCategories []category.Category

	// RequiredComponents must all be offered by a profile for compatibility
	RequiredComponents []string

	// Box is the id of the owning box, empty if none
	Box string

	// Inversed is set for optional box parts; their activation is the
	// complement of their attachment state
	Inversed bool

	// Uninstalled addons stay registered but are never selected
	Uninstalled bool

	// Parts is non-nil only for KindBox
	Parts *BoxParts
}

// IsBox reports whether the addon groups other addons.
func (a *Addon) IsBox() bool {
	return a.Kind == KindBox
}

// MerelyOffers reports whether kw is offered by a but not provided by it.
func (a *Addon) MerelyOffers(kw string) bool {
	return a.Offers.Has(kw) && !a.Provides.Has(kw)
}

// Supplies reports whether a provides or offers kw.
func (a *Addon) Supplies(kw string) bool {
	return a.Provides.Has(kw) || a.Offers.Has(kw)
}
