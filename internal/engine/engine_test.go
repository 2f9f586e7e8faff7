package engine

import (
	"bytes"
	"context"
	"fmt"
	"sort"
	"testing"
	"time"

	"github.com/charmbracelet/log"

	"github.com/danieljhkim/loadout/internal/addon"
	"github.com/danieljhkim/loadout/internal/clock"
	"github.com/danieljhkim/loadout/internal/fsops"
	"github.com/danieljhkim/loadout/internal/profile"
	"github.com/danieljhkim/loadout/internal/state"
	"github.com/danieljhkim/loadout/internal/stores"
)

// memAddonRepo is an in-memory stores.AddonRepo.
type memAddonRepo struct {
	records     map[string]addon.Record
	uninstalled []string
	loadErr     error
}

func newMemAddonRepo(recs ...addon.Record) *memAddonRepo {
	r := &memAddonRepo{records: make(map[string]addon.Record)}
	for _, rec := range recs {
		r.records[rec.ID] = rec
	}
	return r
}

func (r *memAddonRepo) List() ([]string, error) {
	ids := make([]string, 0, len(r.records))
	for id := range r.records {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids, nil
}

func (r *memAddonRepo) Exists(id string) (bool, error) {
	_, ok := r.records[id]
	return ok, nil
}

func (r *memAddonRepo) Load(id string) (*addon.Record, error) {
	rec, ok := r.records[id]
	if !ok {
		return nil, fmt.Errorf("%w: %s", stores.ErrNotFound, id)
	}
	return &rec, nil
}

func (r *memAddonRepo) LoadAll() ([]addon.Record, error) {
	if r.loadErr != nil {
		return nil, r.loadErr
	}
	ids, _ := r.List()
	recs := make([]addon.Record, 0, len(ids))
	for _, id := range ids {
		recs = append(recs, r.records[id])
	}
	return recs, nil
}

func (r *memAddonRepo) Save(rec *addon.Record) error {
	r.records[rec.ID] = *rec
	return nil
}

func (r *memAddonRepo) MarkUninstalled(id string) error {
	rec, ok := r.records[id]
	if !ok {
		return fmt.Errorf("%w: %s", stores.ErrNotFound, id)
	}
	rec.Uninstalled = true
	r.records[id] = rec
	r.uninstalled = append(r.uninstalled, id)
	return nil
}

var testTime = time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC)

// testEnv bundles an engine with its backing stores.
type testEnv struct {
	engine   *Engine
	addons   *memAddonRepo
	profiles *state.FileProfileStore
	logs     *bytes.Buffer
}

func newTestEnv(t *testing.T, recs ...addon.Record) *testEnv {
	t.Helper()
	addons := newMemAddonRepo(recs...)
	profiles := state.NewFileProfileStore(fsops.NewRealFS(), t.TempDir(), "")
	logs := &bytes.Buffer{}
	logger := log.NewWithOptions(logs, log.Options{Level: log.DebugLevel})

	return &testEnv{
		engine:   New(addons, profiles, clock.NewFakeClock(testTime), WithLogger(logger)),
		addons:   addons,
		profiles: profiles,
		logs:     logs,
	}
}

// saveProfile stores a profile with the given attachments.
func (env *testEnv) saveProfile(t *testing.T, p *profile.Profile, ids ...string) *profile.Profile {
	t.Helper()
	for _, id := range ids {
		p.Attach(id)
	}
	if err := env.profiles.Save(p); err != nil {
		t.Fatalf("Save(%s) failed: %v", p.ID, err)
	}
	return p
}

func (env *testEnv) loadProfile(t *testing.T, id string) *profile.Profile {
	t.Helper()
	p, err := env.profiles.Load(id)
	if err != nil {
		t.Fatalf("Load(%s) failed: %v", id, err)
	}
	return p
}

func TestEngine_LoadSkipsInvalidRecords(t *testing.T) {
	env := newTestEnv(t,
		addon.Record{ID: "good"},
		addon.Record{ID: "bad", Priority: "7"},
	)

	w, err := env.engine.load(context.Background())
	if err != nil {
		t.Fatalf("load() error = %v", err)
	}
	if !w.registry.Exists("good") || w.registry.Exists("bad") {
		t.Errorf("registry = %v", addonIDs(w.registry.All()))
	}
	if !bytes.Contains(env.logs.Bytes(), []byte("skipping addon")) {
		t.Errorf("expected a warning for the bad record, logs:\n%s", env.logs.String())
	}
}

func TestEngine_LoadPropagatesRepoErrors(t *testing.T) {
	env := newTestEnv(t)
	env.addons.loadErr = stores.ErrInvalidManifest

	if _, err := env.engine.ListAddons(context.Background(), &ListAddonsRequest{}); err == nil {
		t.Fatal("expected error from a broken manifest repo")
	}
}

func TestEngine_LoadHonorsCancelledContext(t *testing.T) {
	env := newTestEnv(t, addon.Record{ID: "a"})
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if _, err := env.engine.Plan(ctx, ""); err == nil {
		t.Fatal("expected error for cancelled context")
	}
}
