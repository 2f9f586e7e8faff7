package integration

import (
	"bytes"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/charmbracelet/log"

	"github.com/danieljhkim/loadout/internal/addon"
	"github.com/danieljhkim/loadout/internal/clock"
	"github.com/danieljhkim/loadout/internal/config"
	"github.com/danieljhkim/loadout/internal/engine"
	"github.com/danieljhkim/loadout/internal/fsops"
	"github.com/danieljhkim/loadout/internal/profile"
	"github.com/danieljhkim/loadout/internal/state"
	"github.com/danieljhkim/loadout/internal/stores"
)

// testFS is a filesystem implementation that tracks files in memory for testing
type testFS struct {
	mu    sync.Mutex
	files map[string][]byte
	dirs  map[string]bool
}

func newTestFS() *testFS {
	return &testFS{
		files: make(map[string][]byte),
		dirs:  make(map[string]bool),
	}
}

func (fs *testFS) MkdirAll(path string, perm os.FileMode) error {
	fs.mu.Lock()
	defer fs.mu.Unlock()
	for p := filepath.Clean(path); p != "/" && p != "."; p = filepath.Dir(p) {
		fs.dirs[p] = true
	}
	return nil
}

func (fs *testFS) Remove(path string) error {
	fs.mu.Lock()
	defer fs.mu.Unlock()
	if _, ok := fs.files[path]; ok {
		delete(fs.files, path)
		return nil
	}
	if fs.dirs[path] {
		delete(fs.dirs, path)
		return nil
	}
	return &os.PathError{Op: "remove", Path: path, Err: os.ErrNotExist}
}

func (fs *testFS) AtomicWrite(path string, data []byte, perm os.FileMode) error {
	fs.mu.Lock()
	defer fs.mu.Unlock()
	fs.files[path] = append([]byte(nil), data...)
	return nil
}

func (fs *testFS) ReadFile(path string) ([]byte, error) {
	fs.mu.Lock()
	defer fs.mu.Unlock()
	if content, ok := fs.files[path]; ok {
		return append([]byte(nil), content...), nil
	}
	return nil, &os.PathError{Op: "open", Path: path, Err: os.ErrNotExist}
}

func (fs *testFS) Exists(path string) (bool, error) {
	fs.mu.Lock()
	defer fs.mu.Unlock()
	_, isFile := fs.files[path]
	return isFile || fs.dirs[path], nil
}

func (fs *testFS) ListFiles(dir, ext string) ([]string, error) {
	fs.mu.Lock()
	defer fs.mu.Unlock()
	names := []string{}
	for p := range fs.files {
		name := filepath.Base(p)
		if filepath.Dir(p) != dir || strings.HasPrefix(name, ".") || filepath.Ext(name) != ext {
			continue
		}
		names = append(names, strings.TrimSuffix(name, ext))
	}
	sort.Strings(names)
	return names, nil
}

func (fs *testFS) ValidateIdentifier(id string) error {
	return fsops.NewRealFS().ValidateIdentifier(id)
}

// file returns the stored content of path, failing the test if it is absent.
func (fs *testFS) file(t *testing.T, path string) string {
	t.Helper()
	data, err := fs.ReadFile(path)
	if err != nil {
		t.Fatalf("expected file %s: %v", path, err)
	}
	return string(data)
}

var testTime = time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)

// testWorld is an engine wired to file stores over one in-memory filesystem.
type testWorld struct {
	engine   *engine.Engine
	fs       *testFS
	paths    *config.Paths
	own      *stores.FileAddonRepo
	shared   *stores.FileAddonRepo
	profiles *state.FileProfileStore
	logs     *bytes.Buffer
}

// setupTestWorld wires an engine the way the CLI does: addons from one
// shared directory overlaid by the root's own directory, profiles from the
// root's profile directory.
func setupTestWorld(t *testing.T) *testWorld {
	t.Helper()
	fs := newTestFS()
	paths := config.NewPaths("/test")
	settings := config.DefaultSettings()
	settings.AddonDirs = []string{"/shared/addons"}

	dirs := paths.AddonDirs(settings)
	if len(dirs) != 2 {
		t.Fatalf("AddonDirs() = %v, want shared and own", dirs)
	}
	shared := stores.NewFileAddonRepo(fs, dirs[0])
	own := stores.NewFileAddonRepo(fs, dirs[1])
	profiles := state.NewFileProfileStore(fs, paths.Profiles, settings.DefaultsProfile)

	logs := &bytes.Buffer{}
	logger := log.NewWithOptions(logs, log.Options{Level: log.DebugLevel, Prefix: "loadout"})

	eng := engine.New(
		stores.NewLayeredAddonRepo(shared, own),
		profiles,
		clock.NewFakeClock(testTime),
		engine.WithLogger(logger),
	)
	return &testWorld{
		engine:   eng,
		fs:       fs,
		paths:    paths,
		own:      own,
		shared:   shared,
		profiles: profiles,
		logs:     logs,
	}
}

// install writes manifests into repo.
func (w *testWorld) install(t *testing.T, repo *stores.FileAddonRepo, recs ...addon.Record) {
	t.Helper()
	for i := range recs {
		if err := repo.Save(&recs[i]); err != nil {
			t.Fatalf("Save(%s) error = %v", recs[i].ID, err)
		}
	}
}

// createProfile stores a new profile with the given attachments.
func (w *testWorld) createProfile(t *testing.T, id string, addons ...string) {
	t.Helper()
	p := profile.New(id)
	for _, a := range addons {
		p.Attach(a)
	}
	if err := w.profiles.Save(p); err != nil {
		t.Fatalf("Save(%s) error = %v", id, err)
	}
}

func (w *testWorld) loadProfile(t *testing.T, id string) *profile.Profile {
	t.Helper()
	p, err := w.profiles.Load(id)
	if err != nil {
		t.Fatalf("Load(%s) error = %v", id, err)
	}
	return p
}
