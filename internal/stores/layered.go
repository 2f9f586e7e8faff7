package stores

import (
	"errors"
	"fmt"
	"sort"

	"github.com/danieljhkim/loadout/internal/addon"
)

// LayeredAddonRepo merges several manifest repos. A manifest in a later
// layer shadows one with the same id in an earlier layer, so a user
// directory can override addons shipped in a system directory.
type LayeredAddonRepo struct {
	layers []AddonRepo
}

// NewLayeredAddonRepo creates a LayeredAddonRepo, lowest precedence first.
func NewLayeredAddonRepo(layers ...AddonRepo) *LayeredAddonRepo {
	return &LayeredAddonRepo{layers: layers}
}

// repoFor returns the highest layer holding a manifest for id.
func (l *LayeredAddonRepo) repoFor(id string) (AddonRepo, error) {
	for i := len(l.layers) - 1; i >= 0; i-- {
		ok, err := l.layers[i].Exists(id)
		if err != nil {
			return nil, err
		}
		if ok {
			return l.layers[i], nil
		}
	}
	return nil, fmt.Errorf("%w: %s", ErrNotFound, id)
}

// List returns the union of every layer's ids, sorted.
func (l *LayeredAddonRepo) List() ([]string, error) {
	seen := make(map[string]bool)
	var result []string
	for _, repo := range l.layers {
		ids, err := repo.List()
		if err != nil {
			return nil, err
		}
		for _, id := range ids {
			if !seen[id] {
				seen[id] = true
				result = append(result, id)
			}
		}
	}
	sort.Strings(result)
	return result, nil
}

// Exists checks if any layer has a manifest for the addon.
func (l *LayeredAddonRepo) Exists(id string) (bool, error) {
	_, err := l.repoFor(id)
	if errors.Is(err, ErrNotFound) {
		return false, nil
	}
	return err == nil, err
}

// Load reads the addon from the highest layer that has it.
func (l *LayeredAddonRepo) Load(id string) (*addon.Record, error) {
	repo, err := l.repoFor(id)
	if err != nil {
		return nil, err
	}
	return repo.Load(id)
}

// LoadAll reads the visible manifest of every id.
func (l *LayeredAddonRepo) LoadAll() ([]addon.Record, error) {
	ids, err := l.List()
	if err != nil {
		return nil, err
	}

	records := make([]addon.Record, 0, len(ids))
	for _, id := range ids {
		rec, err := l.Load(id)
		if err != nil {
			return nil, err
		}
		records = append(records, *rec)
	}
	return records, nil
}

// Save writes to the layer that currently holds the addon, or to the top
// layer for a new addon.
func (l *LayeredAddonRepo) Save(rec *addon.Record) error {
	if len(l.layers) == 0 {
		return fmt.Errorf("no manifest directory to write %s", rec.ID)
	}
	repo, err := l.repoFor(rec.ID)
	if errors.Is(err, ErrNotFound) {
		repo, err = l.layers[len(l.layers)-1], nil
	}
	if err != nil {
		return err
	}
	return repo.Save(rec)
}

// MarkUninstalled flags the visible manifest of the addon.
func (l *LayeredAddonRepo) MarkUninstalled(id string) error {
	repo, err := l.repoFor(id)
	if err != nil {
		return err
	}
	return repo.MarkUninstalled(id)
}
