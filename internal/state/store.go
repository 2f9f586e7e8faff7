package state

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/danieljhkim/loadout/internal/fsops"
	"github.com/danieljhkim/loadout/internal/profile"
)

// ProfileExt is the file extension of profile files.
const ProfileExt = ".yaml"

// ProfileStore provides an interface for persisting profiles.
type ProfileStore interface {
	// List returns all profile ids, sorted.
	List() ([]string, error)

	// Exists checks if a profile with the given id exists.
	Exists(id string) (bool, error)

	// Load loads a profile. Returns ErrNotFound if it doesn't exist.
	Load(id string) (*profile.Profile, error)

	// Save saves the profile atomically.
	Save(p *profile.Profile) error

	// Delete deletes a profile file. Deleting a missing profile is not an
	// error.
	Delete(id string) error

	// LoadDefaults loads the Defaults profile, or returns an empty one if
	// none has been saved yet.
	LoadDefaults() (*profile.Profile, error)
}

// FileProfileStore implements ProfileStore using YAML files on disk.
type FileProfileStore struct {
	fs         fsops.FS
	dir        string
	defaultsID string
}

// NewFileProfileStore creates a new FileProfileStore. An empty defaultsID
// means profile.DefaultsID.
func NewFileProfileStore(fs fsops.FS, dir, defaultsID string) *FileProfileStore {
	if defaultsID == "" {
		defaultsID = profile.DefaultsID
	}
	return &FileProfileStore{
		fs:         fs,
		dir:        dir,
		defaultsID: defaultsID,
	}
}

// DefaultsID returns the id of the Defaults profile.
func (s *FileProfileStore) DefaultsID() string {
	return s.defaultsID
}

// List returns all profile ids, sorted.
func (s *FileProfileStore) List() ([]string, error) {
	ids, err := s.fs.ListFiles(s.dir, ProfileExt)
	if err != nil {
		return nil, fmt.Errorf("failed to list profiles: %w", err)
	}
	return ids, nil
}

// Exists checks if a profile with the given id exists.
func (s *FileProfileStore) Exists(id string) (bool, error) {
	if err := s.fs.ValidateIdentifier(id); err != nil {
		return false, fmt.Errorf("invalid profile ID: %w", err)
	}
	return s.fs.Exists(s.path(id))
}

// Load loads a profile.
func (s *FileProfileStore) Load(id string) (*profile.Profile, error) {
	if err := s.fs.ValidateIdentifier(id); err != nil {
		return nil, fmt.Errorf("invalid profile ID: %w", err)
	}

	path := s.path(id)
	data, err := s.fs.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", ErrNotFound, id)
		}
		return nil, fmt.Errorf("failed to read profile: %w", err)
	}

	var doc profileDocument
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrInvalidProfile, path, err)
	}
	if err := doc.validate(id); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}

	p := doc.Profile
	p.Defaults = id == s.defaultsID
	return &p, nil
}

// Save saves the profile atomically.
func (s *FileProfileStore) Save(p *profile.Profile) error {
	if err := s.fs.ValidateIdentifier(p.ID); err != nil {
		return fmt.Errorf("invalid profile ID: %w", err)
	}

	data, err := yaml.Marshal(newProfileDocument(p))
	if err != nil {
		return fmt.Errorf("failed to marshal profile: %w", err)
	}

	if err := s.fs.AtomicWrite(s.path(p.ID), data, 0644); err != nil {
		return fmt.Errorf("failed to write profile: %w", err)
	}
	return nil
}

// Delete deletes a profile file.
func (s *FileProfileStore) Delete(id string) error {
	if err := s.fs.ValidateIdentifier(id); err != nil {
		return fmt.Errorf("invalid profile ID: %w", err)
	}
	if id == s.defaultsID {
		return ErrDefaultsProfile
	}

	if err := s.fs.Remove(s.path(id)); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to delete profile: %w", err)
	}
	return nil
}

// LoadDefaults loads the Defaults profile.
func (s *FileProfileStore) LoadDefaults() (*profile.Profile, error) {
	p, err := s.Load(s.defaultsID)
	if errors.Is(err, ErrNotFound) {
		p = profile.NewDefaults()
		p.ID = s.defaultsID
		return p, nil
	}
	return p, err
}

func (s *FileProfileStore) path(id string) string {
	return filepath.Join(s.dir, id+ProfileExt)
}
