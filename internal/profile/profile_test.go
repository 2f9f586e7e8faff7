package profile

import (
	"reflect"
	"testing"
)

func TestProfile_AttachDetach(t *testing.T) {
	p := New("doom2")

	if !p.Attach("a") {
		t.Error("first Attach should report a change")
	}
	if p.Attach("a") {
		t.Error("second Attach should be a no-op")
	}
	p.Attach("b")
	if !reflect.DeepEqual(p.Addons, []string{"a", "b"}) {
		t.Errorf("Addons = %v", p.Addons)
	}

	if !p.Detach("a") {
		t.Error("Detach of attached addon should report a change")
	}
	if p.Detach("a") {
		t.Error("Detach of missing addon should be a no-op")
	}
	if !reflect.DeepEqual(p.Addons, []string{"b"}) {
		t.Errorf("Addons = %v", p.Addons)
	}
}

func TestProfile_Toggle(t *testing.T) {
	p := New("doom2")

	if !p.Toggle("a") {
		t.Error("Toggle on unattached addon should attach")
	}
	if p.Toggle("a") {
		t.Error("Toggle on attached addon should detach")
	}
	if p.IsAttached("a") {
		t.Error("addon should not be attached")
	}
}

func TestProfile_CaseInsensitiveIDs(t *testing.T) {
	p := New("doom2")
	p.Attach("Brightmaps")

	if !p.IsAttached(" brightmaps ") {
		t.Error("IsAttached should ignore case and whitespace")
	}
	if p.Attach("BRIGHTMAPS") {
		t.Error("Attach of a differently spelled id should be a no-op")
	}
	if p.Toggle("brightmaps") || len(p.Addons) != 0 {
		t.Errorf("Toggle should detach the stored spelling, Addons = %v", p.Addons)
	}
}

func TestProfile_LoadOrderIndex(t *testing.T) {
	p := New("doom2")
	p.LoadOrder = []string{"x", "Y", "y"}

	if idx, ok := p.LoadOrderIndex("y"); !ok || idx != 1 {
		t.Errorf("LoadOrderIndex(y) = %d, %v", idx, ok)
	}
	if _, ok := p.LoadOrderIndex("z"); ok {
		t.Error("unknown id should not have an index")
	}
}

func TestProfile_Clone(t *testing.T) {
	p := New("doom2")
	p.Attach("a")
	p.LoadOrder = []string{"a"}
	p.SetValue("game", "jdoom")

	c := p.Clone()
	c.Attach("b")
	c.LoadOrder[0] = "z"
	c.SetValue("game", "jheretic")

	if p.IsAttached("b") || p.LoadOrder[0] != "a" || p.Values["game"] != "jdoom" {
		t.Errorf("Clone shares state with original: %+v", p)
	}
}

func TestProfile_SetValueEmptyClears(t *testing.T) {
	p := &Profile{ID: "x"}
	p.SetValue("fullscreen", "yes")
	p.SetValue("fullscreen", "")
	if _, ok := p.Values["fullscreen"]; ok {
		t.Error("empty value should clear the setting")
	}
}

func TestIsDefaults(t *testing.T) {
	var nilProfile *Profile
	if nilProfile.IsDefaults() {
		t.Error("nil profile is not Defaults")
	}
	if New("x").IsDefaults() {
		t.Error("plain profile is not Defaults")
	}
	if !NewDefaults().IsDefaults() {
		t.Error("NewDefaults should be Defaults")
	}
}

func TestValueKeywords(t *testing.T) {
	p := New("doom2")
	p.SetValue("game", "jHexen")
	p.SetValue("fullscreen", "yes")
	p.SetValue("nomonsters", "off")
	p.SetValue("respawn", "True")
	p.SetValue("skill", "   ")

	got := ValueKeywords(p)
	want := []string{"fullscreen", "jhexen", "respawn"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("ValueKeywords() = %v, want %v", got, want)
	}
	if ValueKeywords(nil) != nil {
		t.Error("nil profile should yield no keywords")
	}
}

func TestValueComponents(t *testing.T) {
	p := New("doom2")
	p.SetValue("game", "jDoom")
	p.SetValue("components", "doom2, tnt plutonia")

	got := ValueComponents(p)
	want := []string{"jdoom", "doom2", "tnt", "plutonia"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("ValueComponents() = %v, want %v", got, want)
	}
}
