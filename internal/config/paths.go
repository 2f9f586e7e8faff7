// Package config manages loadout configuration and filesystem paths.
//
// All data lives under one root directory, ~/.loadout by default, holding
// addon manifests in addons/, profiles in profiles/ and the optional
// config.toml settings file.
package config

import (
	"fmt"
	"os"
	"path/filepath"
)

// RootEnv overrides the root directory.
const RootEnv = "LOADOUT_ROOT"

// Paths contains all the filesystem paths used by loadout.
type Paths struct {
	// Root is the base directory for all loadout data (default: ~/.loadout)
	Root string

	// Addons is the user manifest directory
	Addons string

	// Profiles is the directory containing profile files
	Profiles string

	// Config is the path to the settings file
	Config string
}

// DefaultPaths returns the default paths for loadout.
// The root can be overridden with the LOADOUT_ROOT environment variable.
func DefaultPaths() (*Paths, error) {
	root := os.Getenv(RootEnv)
	if root == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("failed to get user home directory: %w", err)
		}
		root = filepath.Join(home, ".loadout")
	}
	return NewPaths(root), nil
}

// NewPaths returns the paths under root.
func NewPaths(root string) *Paths {
	return &Paths{
		Root:     root,
		Addons:   filepath.Join(root, "addons"),
		Profiles: filepath.Join(root, "profiles"),
		Config:   filepath.Join(root, "config.toml"),
	}
}

// AddonDirs returns the manifest directories to read, lowest precedence
// first: the extra directories from settings, then the user directory.
func (p *Paths) AddonDirs(s *Settings) []string {
	var dirs []string
	if s != nil {
		dirs = append(dirs, s.AddonDirs...)
	}
	return append(dirs, p.Addons)
}

// EnsureDirectories creates all necessary directories if they don't exist.
func (p *Paths) EnsureDirectories() error {
	dirs := []string{
		p.Root,
		p.Addons,
		p.Profiles,
	}

	for _, dir := range dirs {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create directory %s: %w", dir, err)
		}
	}

	return nil
}
