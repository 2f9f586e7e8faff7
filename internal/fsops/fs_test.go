package fsops

import (
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"
)

func TestRealFS_ValidateIdentifier(t *testing.T) {
	fs := &RealFS{}

	tests := []struct {
		name      string
		id        string
		wantError bool
	}{
		{name: "simple addon id", id: "brightmaps", wantError: false},
		{name: "dashes and digits", id: "doom-hires-2", wantError: false},
		{name: "underscores", id: "my_profile", wantError: false},
		{name: "empty", id: "", wantError: true},
		{name: "whitespace only", id: "  ", wantError: true},
		{name: "current directory", id: ".", wantError: true},
		{name: "parent directory", id: "..", wantError: true},
		{name: "hidden file", id: ".loadout-tmp-1", wantError: true},
		{name: "path with separator", id: "profiles/doom", wantError: true},
		{name: "path with backslash", id: "profiles\\doom", wantError: true},
		{name: "absolute path", id: "/etc/hosts", wantError: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := fs.ValidateIdentifier(tt.id)
			if (err != nil) != tt.wantError {
				t.Errorf("ValidateIdentifier(%q) error = %v, wantError %v", tt.id, err, tt.wantError)
			}
		})
	}
}

func TestRealFS_Exists(t *testing.T) {
	fs := &RealFS{}
	tmpDir := t.TempDir()

	testFile := filepath.Join(tmpDir, "exists.toml")
	if err := os.WriteFile(testFile, []byte("id = 'a'"), 0644); err != nil {
		t.Fatalf("failed to create test file: %v", err)
	}

	tests := []struct {
		name string
		path string
		want bool
	}{
		{name: "existing file", path: testFile, want: true},
		{name: "existing directory", path: tmpDir, want: true},
		{name: "missing file", path: filepath.Join(tmpDir, "missing.toml"), want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := fs.Exists(tt.path)
			if err != nil {
				t.Fatalf("Exists returned error: %v", err)
			}
			if got != tt.want {
				t.Errorf("Exists(%s) = %v, want %v", tt.path, got, tt.want)
			}
		})
	}
}

func TestRealFS_MkdirAll(t *testing.T) {
	fs := &RealFS{}
	nested := filepath.Join(t.TempDir(), "a", "b", "c")

	if err := fs.MkdirAll(nested, 0755); err != nil {
		t.Fatalf("MkdirAll failed: %v", err)
	}
	if _, err := os.Stat(nested); err != nil {
		t.Errorf("nested directory was not created: %v", err)
	}
	if err := fs.MkdirAll(nested, 0755); err != nil {
		t.Errorf("second MkdirAll should not fail: %v", err)
	}
}

func TestRealFS_AtomicWrite(t *testing.T) {
	fs := &RealFS{}
	tmpDir := t.TempDir()

	t.Run("creates parent directories", func(t *testing.T) {
		target := filepath.Join(tmpDir, "profiles", "doom.yaml")
		if err := fs.AtomicWrite(target, []byte("id: doom\n"), 0644); err != nil {
			t.Fatalf("AtomicWrite failed: %v", err)
		}
		got, err := os.ReadFile(target)
		if err != nil {
			t.Fatalf("failed to read written file: %v", err)
		}
		if string(got) != "id: doom\n" {
			t.Errorf("content = %q", got)
		}
	})

	t.Run("overwrites and leaves no temp files", func(t *testing.T) {
		target := filepath.Join(tmpDir, "a.toml")
		if err := os.WriteFile(target, []byte("initial"), 0644); err != nil {
			t.Fatalf("failed to create initial file: %v", err)
		}
		if err := fs.AtomicWrite(target, []byte("overwritten"), 0644); err != nil {
			t.Fatalf("AtomicWrite failed: %v", err)
		}

		got, _ := os.ReadFile(target)
		if string(got) != "overwritten" {
			t.Errorf("content = %q, want overwritten", got)
		}

		entries, err := os.ReadDir(tmpDir)
		if err != nil {
			t.Fatalf("ReadDir failed: %v", err)
		}
		for _, e := range entries {
			if strings.HasPrefix(e.Name(), ".loadout-tmp-") {
				t.Errorf("temp file left behind: %s", e.Name())
			}
		}
	})
}

func TestRealFS_ReadFile(t *testing.T) {
	fs := &RealFS{}
	tmpDir := t.TempDir()

	testFile := filepath.Join(tmpDir, "read.toml")
	if err := os.WriteFile(testFile, []byte("test content"), 0644); err != nil {
		t.Fatalf("failed to create test file: %v", err)
	}

	got, err := fs.ReadFile(testFile)
	if err != nil {
		t.Fatalf("ReadFile failed: %v", err)
	}
	if string(got) != "test content" {
		t.Errorf("ReadFile content = %q", got)
	}

	if _, err := fs.ReadFile(filepath.Join(tmpDir, "missing.toml")); !os.IsNotExist(err) {
		t.Errorf("ReadFile(missing) error = %v, want not-exist", err)
	}
}

func TestRealFS_Remove(t *testing.T) {
	fs := &RealFS{}
	testFile := filepath.Join(t.TempDir(), "remove-me.yaml")
	if err := os.WriteFile(testFile, []byte("id: x"), 0644); err != nil {
		t.Fatalf("failed to create test file: %v", err)
	}

	if err := fs.Remove(testFile); err != nil {
		t.Fatalf("Remove failed: %v", err)
	}
	if _, err := os.Stat(testFile); !os.IsNotExist(err) {
		t.Error("file should have been removed")
	}
}

func TestRealFS_ListFiles(t *testing.T) {
	fs := &RealFS{}
	tmpDir := t.TempDir()

	for _, name := range []string{"b.toml", "a.toml", "notes.txt", ".loadout-tmp-123.toml"} {
		if err := os.WriteFile(filepath.Join(tmpDir, name), nil, 0644); err != nil {
			t.Fatalf("failed to create %s: %v", name, err)
		}
	}
	if err := os.Mkdir(filepath.Join(tmpDir, "dir.toml"), 0755); err != nil {
		t.Fatalf("failed to create directory: %v", err)
	}

	got, err := fs.ListFiles(tmpDir, ".toml")
	if err != nil {
		t.Fatalf("ListFiles failed: %v", err)
	}
	if !reflect.DeepEqual(got, []string{"a", "b"}) {
		t.Errorf("ListFiles() = %v, want [a b]", got)
	}

	missing, err := fs.ListFiles(filepath.Join(tmpDir, "missing"), ".toml")
	if err != nil {
		t.Fatalf("ListFiles(missing) error = %v", err)
	}
	if len(missing) != 0 {
		t.Errorf("ListFiles(missing) = %v, want empty", missing)
	}
}
