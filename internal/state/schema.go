package state

import (
	"fmt"

	"github.com/danieljhkim/loadout/internal/profile"
)

// ProfileSchemaVersion is the profile file layout written by this version.
const ProfileSchemaVersion = 1

// profileDocument is the on-disk form of a profile.
type profileDocument struct {
	// SchemaVersion is the version of this schema; zero means 1
	SchemaVersion int `yaml:"schemaVersion"`

	profile.Profile `yaml:",inline"`
}

func newProfileDocument(p *profile.Profile) *profileDocument {
	return &profileDocument{
		SchemaVersion: ProfileSchemaVersion,
		Profile:       *p,
	}
}

// validate checks the document read from the file for fileID.
func (d *profileDocument) validate(fileID string) error {
	if d.SchemaVersion > ProfileSchemaVersion {
		return fmt.Errorf("%w: schemaVersion %d is newer than supported version %d",
			ErrInvalidProfile, d.SchemaVersion, ProfileSchemaVersion)
	}
	if d.ID == "" {
		d.ID = fileID
	}
	if d.ID != fileID {
		return fmt.Errorf("%w: id %q does not match file name %q", ErrInvalidProfile, d.ID, fileID)
	}
	if d.Addons == nil {
		d.Addons = []string{}
	}
	if d.Values == nil {
		d.Values = make(map[string]string)
	}
	return nil
}
