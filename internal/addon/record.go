package addon

// Record is the addon input record produced by a metadata reader.
// Manifests on disk decode directly into it.
type Record struct {
	ID                    string   `toml:"id" json:"id"`
	Kind                  string   `toml:"kind,omitempty" json:"kind,omitempty"`
	CategoryPath          string   `toml:"category,omitempty" json:"category,omitempty"`
	Priority              string   `toml:"priority,omitempty" json:"priority,omitempty"`
	Excludes              []string `toml:"excludes,omitempty" json:"excludes,omitempty"`
	Requires              []string `toml:"requires,omitempty" json:"requires,omitempty"`
	Provides              []string `toml:"provides,omitempty" json:"provides,omitempty"`
	Offers                []string `toml:"offers,omitempty" json:"offers,omitempty"`
	ExcludedCategoryPaths []string `toml:"excluded_categories,omitempty" json:"excludedCategories,omitempty"`
	RequiredComponents    []string `toml:"required_components,omitempty" json:"requiredComponents,omitempty"`
	BoxID                 string   `toml:"box,omitempty" json:"box,omitempty"`
	IsBox                 bool     `toml:"is_box,omitempty" json:"isBox,omitempty"`
	RequiredParts         []string `toml:"required_parts,omitempty" json:"requiredParts,omitempty"`
	OptionalParts         []string `toml:"optional_parts,omitempty" json:"optionalParts,omitempty"`
	ExtraParts            []string `toml:"extra_parts,omitempty" json:"extraParts,omitempty"`
	Uninstalled           bool     `toml:"uninstalled,omitempty" json:"uninstalled,omitempty"`
}
