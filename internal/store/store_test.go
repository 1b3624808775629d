package store

import (
	"path/filepath"
	"testing"

	"smarthire/internal/types"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func TestGetPut(t *testing.T) {
	s := openTestStore(t)

	if _, ok, err := s.Get("missing"); err != nil || ok {
		t.Errorf("Get(missing) = ok=%v, err=%v, want ok=false, err=nil", ok, err)
	}

	if err := s.Put("k", "v1"); err != nil {
		t.Fatalf("Put() error = %v", err)
	}
	val, ok, err := s.Get("k")
	if err != nil || !ok || val != "v1" {
		t.Errorf("Get(k) = %q, %v, %v, want v1, true, nil", val, ok, err)
	}

	// overwrite
	if err := s.Put("k", "v2"); err != nil {
		t.Fatalf("Put() overwrite error = %v", err)
	}
	val, _, _ = s.Get("k")
	if val != "v2" {
		t.Errorf("Get(k) after overwrite = %q, want v2", val)
	}
}

func TestDelete(t *testing.T) {
	s := openTestStore(t)

	if err := s.Put("k", "v"); err != nil {
		t.Fatalf("Put() error = %v", err)
	}
	if err := s.Delete("k"); err != nil {
		t.Fatalf("Delete() error = %v", err)
	}
	if _, ok, _ := s.Get("k"); ok {
		t.Error("Get(k) after Delete returned ok=true")
	}

	// deleting a missing key is not an error
	if err := s.Delete("missing"); err != nil {
		t.Errorf("Delete(missing) error = %v", err)
	}
}

func TestJSONRoundTrip(t *testing.T) {
	s := openTestStore(t)

	in := []string{"a", "b", "c"}
	if err := s.PutJSON("list", in); err != nil {
		t.Fatalf("PutJSON() error = %v", err)
	}

	var out []string
	ok, err := s.GetJSON("list", &out)
	if err != nil || !ok {
		t.Fatalf("GetJSON() = %v, %v, want true, nil", ok, err)
	}
	if len(out) != 3 || out[0] != "a" || out[2] != "c" {
		t.Errorf("GetJSON() = %v, want %v", out, in)
	}

	var missing []string
	if ok, err := s.GetJSON("absent", &missing); err != nil || ok {
		t.Errorf("GetJSON(absent) = %v, %v, want false, nil", ok, err)
	}
}

func TestSettingsDefaults(t *testing.T) {
	s := openTestStore(t)

	settings, err := s.LoadSettings(types.DefaultSettings())
	if err != nil {
		t.Fatalf("LoadSettings() error = %v", err)
	}
	want := types.DefaultSettings()
	if settings != want {
		t.Errorf("LoadSettings() on empty store = %+v, want %+v", settings, want)
	}
}

func TestSettingsKeepsSuppliedDefaults(t *testing.T) {
	s := openTestStore(t)

	defaults := types.DefaultSettings()
	defaults.ScoreThreshold = 55

	out, err := s.LoadSettings(defaults)
	if err != nil {
		t.Fatalf("LoadSettings() error = %v", err)
	}
	if out.ScoreThreshold != 55 {
		t.Errorf("ScoreThreshold = %d, want supplied default 55", out.ScoreThreshold)
	}

	// a stored value still wins over the supplied default
	s.Put(KeyScoreThreshold, "80")
	out, err = s.LoadSettings(defaults)
	if err != nil {
		t.Fatalf("LoadSettings() error = %v", err)
	}
	if out.ScoreThreshold != 80 {
		t.Errorf("ScoreThreshold = %d, want stored 80", out.ScoreThreshold)
	}
}

func TestSettingsRoundTrip(t *testing.T) {
	s := openTestStore(t)

	in := types.Settings{
		Theme:          types.ThemeLight,
		ScoreThreshold: 85,
		GenAIEnabled:   false,
		BlindMode:      true,
	}
	if err := s.SaveSettings(in); err != nil {
		t.Fatalf("SaveSettings() error = %v", err)
	}

	out, err := s.LoadSettings(types.DefaultSettings())
	if err != nil {
		t.Fatalf("LoadSettings() error = %v", err)
	}
	if out.Theme != types.ThemeLight || out.ScoreThreshold != 85 || out.GenAIEnabled {
		t.Errorf("LoadSettings() = %+v", out)
	}
	if out.BlindMode {
		t.Error("BlindMode was persisted, want session-only")
	}
}

func TestSettingsIgnoresInvalid(t *testing.T) {
	s := openTestStore(t)

	s.Put(KeyTheme, "neon")
	s.Put(KeyScoreThreshold, "999")

	out, err := s.LoadSettings(types.DefaultSettings())
	if err != nil {
		t.Fatalf("LoadSettings() error = %v", err)
	}
	if out.Theme != types.ThemeDark {
		t.Errorf("Theme = %q, want fallback %q", out.Theme, types.ThemeDark)
	}
	if out.ScoreThreshold != 70 {
		t.Errorf("ScoreThreshold = %d, want fallback 70", out.ScoreThreshold)
	}
}
