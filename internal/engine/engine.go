// Package engine provides the core business logic for loadout operations.
//
// The engine package acts as the orchestration layer between CLI commands and
// the domain packages. Every operation loads a fresh view of the addon
// manifests and profiles, runs the planner, detector or resolution session
// against it, and persists profile changes.
//
// Key components:
//   - Engine: Main orchestrator that coordinates all operations
//   - Addon and category queries over the registry
//   - Profile editing: attach, detach, load order, setting values
//   - Plan: a read-only conflict check of a profile
//   - Resolve: an interactive resolution session driven by a Prompter
package engine

import (
	"context"
	"fmt"
	"io"
	"sync"

	"github.com/charmbracelet/log"

	"github.com/danieljhkim/loadout/internal/addon"
	"github.com/danieljhkim/loadout/internal/clock"
	"github.com/danieljhkim/loadout/internal/conflict"
	"github.com/danieljhkim/loadout/internal/planner"
	"github.com/danieljhkim/loadout/internal/profile"
	"github.com/danieljhkim/loadout/internal/state"
	"github.com/danieljhkim/loadout/internal/stores"
)

// Engine orchestrates all loadout operations.
// It is the main API surface called by the CLI.
type Engine struct {
	addonRepo    stores.AddonRepo
	profileStore state.ProfileStore
	clock        clock.Clock
	logger       *log.Logger

	keywords   profile.KeywordsFunc
	components profile.ComponentsFunc

	mu     sync.Mutex
	active map[string]bool
}

// Option configures an Engine.
type Option func(*Engine)

// WithLogger sets the logger shared by the engine and the components it
// builds.
func WithLogger(logger *log.Logger) Option {
	return func(e *Engine) {
		if logger != nil {
			e.logger = logger
		}
	}
}

// WithKeywords replaces the derivation of setting keywords from profile
// values.
func WithKeywords(fn profile.KeywordsFunc) Option {
	return func(e *Engine) {
		if fn != nil {
			e.keywords = fn
		}
	}
}

// WithComponents replaces the derivation of components from profile
// values.
func WithComponents(fn profile.ComponentsFunc) Option {
	return func(e *Engine) {
		if fn != nil {
			e.components = fn
		}
	}
}

// New creates a new Engine with the given dependencies.
func New(addonRepo stores.AddonRepo, profileStore state.ProfileStore, clk clock.Clock, opts ...Option) *Engine {
	e := &Engine{
		addonRepo:    addonRepo,
		profileStore: profileStore,
		clock:        clk,
		logger:       log.New(io.Discard),
		keywords:     profile.ValueKeywords,
		components:   profile.ValueComponents,
		active:       make(map[string]bool),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// world is one consistent snapshot of manifests and the Defaults profile.
type world struct {
	registry *addon.Registry
	defaults *profile.Profile
	planner  *planner.Planner
	detector *conflict.Detector
}

// load reads every manifest into a fresh registry. Records the registry
// rejects are logged and skipped so one bad manifest does not hide the rest.
func (e *Engine) load(ctx context.Context) (*world, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	records, err := e.addonRepo.LoadAll()
	if err != nil {
		return nil, fmt.Errorf("failed to load addon manifests: %w", err)
	}

	registry := addon.NewRegistry(addon.WithComponents(e.components))
	for _, rec := range records {
		if _, err := registry.Register(rec); err != nil {
			e.logger.Warn("skipping addon", "id", rec.ID, "err", err)
		}
	}
	registry.LinkBoxes()

	defaults, err := e.profileStore.LoadDefaults()
	if err != nil {
		return nil, fmt.Errorf("failed to load defaults profile: %w", err)
	}

	e.logger.Debug("registry loaded", "addons", len(registry.All()), "defaults", defaults.ID)
	return &world{
		registry: registry,
		defaults: defaults,
		planner:  planner.New(registry, defaults, e.logger),
		detector: conflict.NewDetector(registry.Tree(), e.keywords, e.logger),
	}, nil
}

// profile returns the profile with the given id. The Defaults profile is
// taken from w so that edits to it are seen by the planner.
func (w *world) profile(store state.ProfileStore, id string) (*profile.Profile, error) {
	if id == "" || id == w.defaults.ID {
		return w.defaults, nil
	}
	p, err := store.Load(id)
	if err != nil {
		return nil, wrapProfileErr(id, err)
	}
	return p, nil
}

// saveProfile stamps and persists p.
func (e *Engine) saveProfile(p *profile.Profile) error {
	p.UpdatedAt = e.clock.Now()
	if err := e.profileStore.Save(p); err != nil {
		return fmt.Errorf("failed to save profile %s: %w", p.ID, err)
	}
	return nil
}

// acquire marks a resolution session active for the profile.
func (e *Engine) acquire(profileID string) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.active[profileID] {
		return fmt.Errorf("%w: %s", ErrSessionActive, profileID)
	}
	e.active[profileID] = true
	return nil
}

func (e *Engine) release(profileID string) {
	e.mu.Lock()
	defer e.mu.Unlock()
	delete(e.active, profileID)
}
