package config

import (
	"errors"
	"os"
	"path/filepath"
	"reflect"
	"testing"

	"github.com/charmbracelet/log"
)

func TestDefaultPaths(t *testing.T) {
	t.Run("respects LOADOUT_ROOT", func(t *testing.T) {
		customRoot := filepath.Join(t.TempDir(), "custom")
		t.Setenv(RootEnv, customRoot)

		paths, err := DefaultPaths()
		if err != nil {
			t.Fatalf("DefaultPaths failed: %v", err)
		}
		if paths.Root != customRoot {
			t.Errorf("Root = %s, want %s", paths.Root, customRoot)
		}
		if paths.Addons != filepath.Join(customRoot, "addons") {
			t.Errorf("Addons = %s", paths.Addons)
		}
		if paths.Profiles != filepath.Join(customRoot, "profiles") {
			t.Errorf("Profiles = %s", paths.Profiles)
		}
		if paths.Config != filepath.Join(customRoot, "config.toml") {
			t.Errorf("Config = %s", paths.Config)
		}
	})

	t.Run("falls back to home directory", func(t *testing.T) {
		t.Setenv(RootEnv, "")

		paths, err := DefaultPaths()
		if err != nil {
			t.Fatalf("DefaultPaths failed: %v", err)
		}
		if filepath.Base(paths.Root) != ".loadout" {
			t.Errorf("Root should end with .loadout, got %s", paths.Root)
		}
	})
}

func TestPaths_EnsureDirectories(t *testing.T) {
	paths := NewPaths(filepath.Join(t.TempDir(), "root"))
	if err := paths.EnsureDirectories(); err != nil {
		t.Fatalf("EnsureDirectories failed: %v", err)
	}
	for _, dir := range []string{paths.Root, paths.Addons, paths.Profiles} {
		if info, err := os.Stat(dir); err != nil || !info.IsDir() {
			t.Errorf("%s was not created", dir)
		}
	}
}

func TestPaths_AddonDirs(t *testing.T) {
	paths := NewPaths("/data")
	s := &Settings{AddonDirs: []string{"/usr/share/loadout/addons"}}

	got := paths.AddonDirs(s)
	want := []string{"/usr/share/loadout/addons", filepath.Join("/data", "addons")}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("AddonDirs() = %v, want %v", got, want)
	}
	if got := paths.AddonDirs(nil); len(got) != 1 {
		t.Errorf("AddonDirs(nil) = %v", got)
	}
}

func TestLoadSettings(t *testing.T) {
	t.Run("defaults when file is missing", func(t *testing.T) {
		s, err := LoadSettings(filepath.Join(t.TempDir(), "config.toml"))
		if err != nil {
			t.Fatalf("LoadSettings failed: %v", err)
		}
		want := DefaultSettings()
		if s.LogLevel != want.LogLevel || s.DefaultsProfile != want.DefaultsProfile ||
			s.Interactive != want.Interactive || len(s.AddonDirs) != 0 {
			t.Errorf("LoadSettings() = %+v, want %+v", s, want)
		}
	})

	t.Run("reads toml file", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "config.toml")
		content := `log_level = "debug"
defaults_profile = "base"
interactive = false
addon_dirs = ["/opt/addons"]
`
		if err := os.WriteFile(path, []byte(content), 0644); err != nil {
			t.Fatal(err)
		}

		s, err := LoadSettings(path)
		if err != nil {
			t.Fatalf("LoadSettings failed: %v", err)
		}
		want := &Settings{
			LogLevel:        "debug",
			DefaultsProfile: "base",
			Interactive:     false,
			AddonDirs:       []string{"/opt/addons"},
		}
		if !reflect.DeepEqual(s, want) {
			t.Errorf("LoadSettings() = %+v, want %+v", s, want)
		}
		if s.Level() != log.DebugLevel {
			t.Errorf("Level() = %v, want debug", s.Level())
		}
	})

	t.Run("environment overrides file", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "config.toml")
		if err := os.WriteFile(path, []byte(`log_level = "debug"`), 0644); err != nil {
			t.Fatal(err)
		}
		t.Setenv("LOADOUT_LOG_LEVEL", "error")

		s, err := LoadSettings(path)
		if err != nil {
			t.Fatalf("LoadSettings failed: %v", err)
		}
		if s.LogLevel != "error" {
			t.Errorf("LogLevel = %q, want error", s.LogLevel)
		}
	})

	t.Run("invalid values", func(t *testing.T) {
		tests := []struct {
			name    string
			content string
		}{
			{name: "unknown log level", content: `log_level = "chatty"`},
			{name: "empty defaults profile", content: `defaults_profile = " "`},
		}
		for _, tt := range tests {
			t.Run(tt.name, func(t *testing.T) {
				path := filepath.Join(t.TempDir(), "config.toml")
				if err := os.WriteFile(path, []byte(tt.content), 0644); err != nil {
					t.Fatal(err)
				}
				if _, err := LoadSettings(path); !errors.Is(err, ErrInvalidSettings) {
					t.Errorf("LoadSettings() error = %v, want ErrInvalidSettings", err)
				}
			})
		}
	})

	t.Run("malformed file", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "config.toml")
		if err := os.WriteFile(path, []byte("log_level = "), 0644); err != nil {
			t.Fatal(err)
		}
		if _, err := LoadSettings(path); err == nil {
			t.Error("expected error for malformed toml")
		}
	})
}
