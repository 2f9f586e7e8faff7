package stores

import (
	"fmt"

	"github.com/danieljhkim/loadout/internal/addon"
)

// ManifestSchemaVersion is the manifest layout written by this version.
const ManifestSchemaVersion = 1

// Manifest is the on-disk form of one addon:
//
//	schema_version = 1
//
//	[addon]
//	id = "brightmaps"
//	category = "gamedata/textures"
//	provides = ["brightmaps"]
type Manifest struct {
	// SchemaVersion is the version of this schema; zero means 1
	SchemaVersion int `toml:"schema_version" json:"schemaVersion"`

	// Addon is the addon input record
	Addon addon.Record `toml:"addon" json:"addon"`
}

// NewManifest wraps rec in a manifest of the current schema.
func NewManifest(rec addon.Record) *Manifest {
	return &Manifest{
		SchemaVersion: ManifestSchemaVersion,
		Addon:         rec,
	}
}

// Validate checks the manifest against the file it was read from.
// An empty addon id is filled from the file name.
func (m *Manifest) Validate(fileID string) error {
	if m.SchemaVersion == 0 {
		m.SchemaVersion = ManifestSchemaVersion
	}
	if m.SchemaVersion > ManifestSchemaVersion {
		return fmt.Errorf("%w: schema_version %d is newer than supported version %d",
			ErrInvalidManifest, m.SchemaVersion, ManifestSchemaVersion)
	}
	if m.Addon.ID == "" {
		m.Addon.ID = fileID
	}
	if m.Addon.ID != fileID {
		return fmt.Errorf("%w: id %q does not match file name %q", ErrInvalidManifest, m.Addon.ID, fileID)
	}
	return nil
}
