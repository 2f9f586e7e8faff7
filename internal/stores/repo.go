// Package stores reads and writes addon manifests.
//
// Each addon is described by one TOML file, <id>.toml, in a manifest
// directory. Manifests are the source of addon input records for the
// registry; the only field loadout writes back is the uninstalled flag.
package stores

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/pelletier/go-toml/v2"

	"github.com/danieljhkim/loadout/internal/addon"
	"github.com/danieljhkim/loadout/internal/fsops"
)

// ManifestExt is the file extension of addon manifests.
const ManifestExt = ".toml"

// AddonRepo provides access to addon manifests.
type AddonRepo interface {
	// List returns all addon ids with a manifest, sorted.
	List() ([]string, error)

	// Exists checks if a manifest exists for the addon.
	Exists(id string) (bool, error)

	// Load reads the record of one addon.
	Load(id string) (*addon.Record, error)

	// LoadAll reads every manifest in List order.
	LoadAll() ([]addon.Record, error)

	// Save writes the record's manifest, replacing any existing one.
	Save(rec *addon.Record) error

	// MarkUninstalled sets the uninstalled flag in the addon's manifest.
	MarkUninstalled(id string) error
}

// FileAddonRepo implements AddonRepo over one manifest directory.
type FileAddonRepo struct {
	fs  fsops.FS
	dir string
}

// NewFileAddonRepo creates a new FileAddonRepo.
func NewFileAddonRepo(fs fsops.FS, dir string) *FileAddonRepo {
	return &FileAddonRepo{
		fs:  fs,
		dir: dir,
	}
}

// Dir returns the manifest directory.
func (r *FileAddonRepo) Dir() string {
	return r.dir
}

// List returns all addon ids with a manifest, sorted.
func (r *FileAddonRepo) List() ([]string, error) {
	ids, err := r.fs.ListFiles(r.dir, ManifestExt)
	if err != nil {
		return nil, fmt.Errorf("failed to list manifests: %w", err)
	}
	return ids, nil
}

// Exists checks if a manifest exists for the addon.
func (r *FileAddonRepo) Exists(id string) (bool, error) {
	if err := r.fs.ValidateIdentifier(id); err != nil {
		return false, fmt.Errorf("invalid addon ID: %w", err)
	}
	return r.fs.Exists(r.path(id))
}

// Load reads the record of one addon.
func (r *FileAddonRepo) Load(id string) (*addon.Record, error) {
	if err := r.fs.ValidateIdentifier(id); err != nil {
		return nil, fmt.Errorf("invalid addon ID: %w", err)
	}

	m, err := r.readManifest(id)
	if err != nil {
		return nil, err
	}
	return &m.Addon, nil
}

// LoadAll reads every manifest in List order. The first unreadable
// manifest aborts the load.
func (r *FileAddonRepo) LoadAll() ([]addon.Record, error) {
	ids, err := r.List()
	if err != nil {
		return nil, err
	}

	records := make([]addon.Record, 0, len(ids))
	for _, id := range ids {
		rec, err := r.Load(id)
		if err != nil {
			return nil, err
		}
		records = append(records, *rec)
	}
	return records, nil
}

// Save writes the record's manifest, replacing any existing one.
func (r *FileAddonRepo) Save(rec *addon.Record) error {
	if err := r.fs.ValidateIdentifier(rec.ID); err != nil {
		return fmt.Errorf("invalid addon ID: %w", err)
	}

	data, err := toml.Marshal(NewManifest(*rec))
	if err != nil {
		return fmt.Errorf("failed to marshal manifest: %w", err)
	}

	if err := r.fs.AtomicWrite(r.path(rec.ID), data, 0644); err != nil {
		return fmt.Errorf("failed to write manifest: %w", err)
	}
	return nil
}

// MarkUninstalled sets the uninstalled flag in the addon's manifest.
func (r *FileAddonRepo) MarkUninstalled(id string) error {
	rec, err := r.Load(id)
	if err != nil {
		return err
	}
	if rec.Uninstalled {
		return nil
	}
	rec.Uninstalled = true
	return r.Save(rec)
}

func (r *FileAddonRepo) path(id string) string {
	return filepath.Join(r.dir, id+ManifestExt)
}

func (r *FileAddonRepo) readManifest(id string) (*Manifest, error) {
	path := r.path(id)
	data, err := r.fs.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", ErrNotFound, id)
		}
		return nil, fmt.Errorf("failed to read manifest: %w", err)
	}

	var m Manifest
	dec := toml.NewDecoder(bytes.NewReader(data)).DisallowUnknownFields()
	if err := dec.Decode(&m); err != nil {
		return nil, fmt.Errorf("%w: %s: %s", ErrInvalidManifest, path, describeDecodeError(err))
	}
	if err := m.Validate(id); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return &m, nil
}

// describeDecodeError adds the line and column go-toml reports.
func describeDecodeError(err error) string {
	var decErr *toml.DecodeError
	if errors.As(err, &decErr) {
		row, col := decErr.Position()
		return fmt.Sprintf("line %d, column %d: %s", row, col, decErr.Error())
	}
	var strictErr *toml.StrictMissingError
	if errors.As(err, &strictErr) {
		return strictErr.Error()
	}
	return err.Error()
}
