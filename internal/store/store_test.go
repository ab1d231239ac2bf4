package store

import (
	"path/filepath"
	"testing"
	"time"
)

func testStore(t *testing.T) (*Store, string) {
	t.Helper()
	path := filepath.Join(t.TempDir(), "prefs.db")
	s, err := Open(path)
	if err != nil {
		t.Fatalf("opening store: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s, path
}

func TestThemeDefaultsToDark(t *testing.T) {
	s, _ := testStore(t)
	got, err := s.Theme()
	if err != nil {
		t.Fatalf("theme: %v", err)
	}
	if got != ThemeDark {
		t.Errorf("expected dark, got %s", got)
	}
}

func TestSetTheme(t *testing.T) {
	s, _ := testStore(t)
	if err := s.SetTheme(ThemeLight); err != nil {
		t.Fatalf("set: %v", err)
	}
	got, _ := s.Theme()
	if got != ThemeLight {
		t.Errorf("expected light, got %s", got)
	}

	if err := s.SetTheme(ThemeDark); err != nil {
		t.Fatalf("set again: %v", err)
	}
	got, _ = s.Theme()
	if got != ThemeDark {
		t.Errorf("expected dark after overwrite, got %s", got)
	}

	if err := s.SetTheme(Theme("sepia")); err == nil {
		t.Error("expected error for unknown theme")
	}
}

func TestThemePersistsAcrossOpen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "prefs.db")
	s, err := Open(path)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	if err := s.SetTheme(ThemeLight); err != nil {
		t.Fatalf("set: %v", err)
	}
	s.Close()

	s, err = Open(path)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	defer s.Close()
	got, _ := s.Theme()
	if got != ThemeLight {
		t.Errorf("expected light after reopen, got %s", got)
	}
}

func TestParseTheme(t *testing.T) {
	tests := []struct {
		in      string
		want    Theme
		wantErr bool
	}{
		{"dark", ThemeDark, false},
		{" Light ", ThemeLight, false},
		{"", "", true},
		{"blue", "", true},
	}
	for _, tt := range tests {
		got, err := ParseTheme(tt.in)
		if (err != nil) != tt.wantErr {
			t.Errorf("ParseTheme(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
		}
		if got != tt.want {
			t.Errorf("ParseTheme(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
	if ThemeDark.Toggle() != ThemeLight || ThemeLight.Toggle() != ThemeDark {
		t.Error("Toggle should flip between dark and light")
	}
}

func TestLastUpdateCheck(t *testing.T) {
	s, _ := testStore(t)
	if !s.LastUpdateCheck().IsZero() {
		t.Error("expected zero time before any check")
	}
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	if err := s.SetLastUpdateCheck(now); err != nil {
		t.Fatalf("set: %v", err)
	}
	if got := s.LastUpdateCheck(); !got.Equal(now) {
		t.Errorf("expected %v, got %v", now, got)
	}
}

func TestStats(t *testing.T) {
	s, path := testStore(t)
	s.SetTheme(ThemeLight)

	st, err := s.Stats(path)
	if err != nil {
		t.Fatalf("stats: %v", err)
	}
	if st.Keys != 1 {
		t.Errorf("expected 1 key, got %d", st.Keys)
	}
	if st.SizeOnDisk <= 0 {
		t.Errorf("expected a non-empty file, got %d bytes", st.SizeOnDisk)
	}
}
