// Package settings persists user preferences in a small JSON document.
//
// The store never fails its callers: a missing or malformed document loads as
// defaults, and write errors are logged and swallowed.
package settings

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/rs/zerolog"

	"github.com/ironsheep/ocr-viewer/internal/imaging"
)

// DefaultPath is the settings document in the working directory.
const DefaultPath = "settings.json"

// Font size bounds accepted by the settings dialog.
const (
	MinFontSize = 8
	MaxFontSize = 72
)

// ErrSettings marks malformed or unwritable settings documents.
var ErrSettings = errors.New("settings document error")

// Settings is the persisted document. Zero values mean "not set".
type Settings struct {
	Theme           Theme  `json:"theme"`
	FontSize        int    `json:"font_size,omitempty"`
	BackgroundColor string `json:"background_color,omitempty"`
}

// Defaults returns the settings used when nothing valid is stored.
func Defaults() Settings {
	return Settings{Theme: DefaultTheme}
}

// ValidFontSize reports whether size is within the accepted range.
func ValidFontSize(size int) bool {
	return size >= MinFontSize && size <= MaxFontSize
}

// sanitize replaces missing or invalid fields with defaults.
func (s Settings) sanitize() Settings {
	if s.Theme == "" {
		s.Theme = DefaultTheme
	}
	if s.FontSize != 0 && !ValidFontSize(s.FontSize) {
		s.FontSize = 0
	}
	if s.BackgroundColor != "" {
		if _, err := imaging.ParseColor(s.BackgroundColor); err != nil {
			s.BackgroundColor = ""
		}
	}
	return s
}

// Store reads and writes one settings document.
type Store struct {
	path string
	log  zerolog.Logger
	mu   sync.Mutex
}

// NewStore creates a store for the document at path.
func NewStore(path string, log zerolog.Logger) *Store {
	if path == "" {
		path = DefaultPath
	}
	return &Store{path: path, log: log}
}

// Path returns the document location.
func (s *Store) Path() string {
	return s.path
}

// Load returns the stored settings, or defaults for anything missing or invalid.
func (s *Store) Load() Settings {
	s.mu.Lock()
	defer s.mu.Unlock()

	st, err := s.read()
	if err != nil {
		if !errors.Is(err, os.ErrNotExist) {
			s.log.Warn().Err(err).Str("path", s.path).Msg("Ignoring settings document")
		}
		return Defaults()
	}
	return st
}

// Theme returns the stored theme name. It is not checked against the catalog;
// see ResolveTheme.
func (s *Store) Theme() Theme {
	return s.Load().Theme
}

// Save overwrites the document with st.
func (s *Store) Save(st Settings) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.write(st); err != nil {
		s.log.Error().Err(err).Str("path", s.path).Msg("Failed to save settings")
		return
	}
	s.log.Debug().Str("path", s.path).Str("theme", string(st.Theme)).Msg("Settings saved")
}

// SaveTheme stores theme, keeping the other preferences.
func (s *Store) SaveTheme(theme Theme) {
	s.update(func(st *Settings) { st.Theme = theme })
}

// SaveFontSize stores size, keeping the other preferences.
func (s *Store) SaveFontSize(size int) {
	s.update(func(st *Settings) { st.FontSize = size })
}

// SaveBackgroundColor stores hex, keeping the other preferences.
func (s *Store) SaveBackgroundColor(hex string) {
	s.update(func(st *Settings) { st.BackgroundColor = hex })
}

func (s *Store) update(fn func(*Settings)) {
	s.mu.Lock()
	defer s.mu.Unlock()

	st, err := s.read()
	if err != nil {
		st = Defaults()
	}
	fn(&st)
	if err := s.write(st); err != nil {
		s.log.Error().Err(err).Str("path", s.path).Msg("Failed to save settings")
	}
}

func (s *Store) read() (Settings, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		return Settings{}, err
	}

	var st Settings
	if err := json.Unmarshal(data, &st); err != nil {
		return Settings{}, fmt.Errorf("%w: %s: %v", ErrSettings, s.path, err)
	}
	return st.sanitize(), nil
}

// write replaces the document through a temp file and rename.
func (s *Store) write(st Settings) error {
	data, err := json.MarshalIndent(st, "", "  ")
	if err != nil {
		return fmt.Errorf("%w: %v", ErrSettings, err)
	}

	tmp, err := os.CreateTemp(filepath.Dir(s.path), ".settings-*.json")
	if err != nil {
		return fmt.Errorf("%w: %v", ErrSettings, err)
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(append(data, '\n')); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("%w: %v", ErrSettings, err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("%w: %v", ErrSettings, err)
	}
	if err := os.Rename(tmpName, s.path); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("%w: %v", ErrSettings, err)
	}
	return nil
}
