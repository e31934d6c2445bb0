package settings

import (
	"errors"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"

	"github.com/ironsheep/ocr-viewer/internal/imaging"
)

func TestResolveTheme(t *testing.T) {
	tests := []struct {
		name    string
		in      Theme
		want    Theme
		wantErr bool
	}{
		{"known light", "flatly", "flatly", false},
		{"known dark", "solar", "solar", false},
		{"default", DefaultTheme, DefaultTheme, false},
		{"unknown", "doesnotexist", DefaultTheme, true},
		{"empty", "", DefaultTheme, true},
		{"case sensitive", "Darkly", DefaultTheme, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ResolveTheme(tt.in)
			if got != tt.want {
				t.Errorf("ResolveTheme(%q) = %q, want %q", tt.in, got, tt.want)
			}
			if tt.wantErr != (err != nil) {
				t.Fatalf("ResolveTheme(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
			}
			if err != nil && !errors.Is(err, ErrUnknownTheme) {
				t.Errorf("error %v does not wrap ErrUnknownTheme", err)
			}
		})
	}
}

// A stored theme that is not in the catalog loads as-is and resolves to the
// default with a warning.
func TestUnknownStoredThemeFallsBack(t *testing.T) {
	s := NewStore(filepath.Join(t.TempDir(), "settings.json"), zerolog.Nop())
	writeDoc(t, s, `{"theme": "doesnotexist"}`)

	stored := s.Theme()
	if stored != "doesnotexist" {
		t.Fatalf("Theme() = %q", stored)
	}
	applied, err := ResolveTheme(stored)
	if applied != DefaultTheme || !errors.Is(err, ErrUnknownTheme) {
		t.Errorf("ResolveTheme = (%q, %v)", applied, err)
	}
}

func TestThemes(t *testing.T) {
	themes := Themes()
	if len(themes) == 0 {
		t.Fatal("empty catalog")
	}
	for i := 1; i < len(themes); i++ {
		if themes[i-1].Name >= themes[i].Name {
			t.Errorf("catalog not sorted at %d: %q >= %q", i, themes[i-1].Name, themes[i].Name)
		}
	}

	info, ok := Lookup(DefaultTheme)
	if !ok || info.Variant != Dark {
		t.Errorf("Lookup(%q) = %+v, %v", DefaultTheme, info, ok)
	}
	if info, ok := Lookup("flatly"); !ok || info.Variant.String() != "light" {
		t.Errorf("Lookup(flatly) = %+v, %v", info, ok)
	}
	for _, info := range themes {
		if _, err := imaging.ParseColor(info.Accent); err != nil {
			t.Errorf("theme %q has invalid accent %q: %v", info.Name, info.Accent, err)
		}
	}
	if _, ok := Lookup("nope"); ok {
		t.Error("Lookup found an unknown theme")
	}
}
