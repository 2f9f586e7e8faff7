package stores

import (
	"errors"
	"reflect"
	"testing"

	"github.com/danieljhkim/loadout/internal/addon"
)

func TestLayeredAddonRepo(t *testing.T) {
	_, system := setupRepo(t)
	_, user := setupRepo(t)

	for _, rec := range []addon.Record{
		{ID: "shared", Priority: "a"},
		{ID: "system-only"},
	} {
		if err := system.Save(&rec); err != nil {
			t.Fatal(err)
		}
	}
	if err := user.Save(&addon.Record{ID: "shared", Priority: "m"}); err != nil {
		t.Fatal(err)
	}

	layered := NewLayeredAddonRepo(system, user)

	ids, err := layered.List()
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if !reflect.DeepEqual(ids, []string{"shared", "system-only"}) {
		t.Errorf("List() = %v", ids)
	}

	rec, err := layered.Load("shared")
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if rec.Priority != "m" {
		t.Errorf("Load(shared).Priority = %q, want user layer's m", rec.Priority)
	}

	if err := layered.MarkUninstalled("system-only"); err != nil {
		t.Fatalf("MarkUninstalled failed: %v", err)
	}
	got, err := system.Load("system-only")
	if err != nil || !got.Uninstalled {
		t.Errorf("uninstall should be written to the system layer: %+v, %v", got, err)
	}
	if ok, _ := user.Exists("system-only"); ok {
		t.Error("uninstall must not copy the manifest into the user layer")
	}

	if err := layered.Save(&addon.Record{ID: "new"}); err != nil {
		t.Fatalf("Save failed: %v", err)
	}
	if ok, _ := user.Exists("new"); !ok {
		t.Error("new manifests belong in the top layer")
	}

	if _, err := layered.Load("ghost"); !errors.Is(err, ErrNotFound) {
		t.Errorf("Load(ghost) error = %v, want ErrNotFound", err)
	}
	if ok, err := layered.Exists("ghost"); ok || err != nil {
		t.Errorf("Exists(ghost) = %v, %v", ok, err)
	}
}
