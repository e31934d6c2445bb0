package settings

import (
	"errors"
	"fmt"
	"sort"
)

// Theme names a visual style.
type Theme string

// DefaultTheme is used whenever no valid theme is configured.
const DefaultTheme Theme = "darkly"

// Variant is the base color scheme of a theme.
type Variant int

const (
	Light Variant = iota
	Dark
)

func (v Variant) String() string {
	if v == Dark {
		return "dark"
	}
	return "light"
}

// ThemeInfo describes one catalog entry.
type ThemeInfo struct {
	Name    Theme
	Variant Variant

	// Accent is the primary color as "#rrggbb".
	Accent string
}

// ErrUnknownTheme is returned by ResolveTheme for names outside the catalog.
var ErrUnknownTheme = errors.New("theme is not available")

type entry struct {
	variant Variant
	accent  string
}

// catalog keeps the theme names users already have in their settings files.
var catalog = map[Theme]entry{
	"cosmo":     {Light, "#2780e3"},
	"flatly":    {Light, "#2c3e50"},
	"journal":   {Light, "#eb6864"},
	"litera":    {Light, "#4582ec"},
	"lumen":     {Light, "#158cba"},
	"minty":     {Light, "#78c2ad"},
	"pulse":     {Light, "#593196"},
	"sandstone": {Light, "#325d88"},
	"united":    {Light, "#e95420"},
	"yeti":      {Light, "#008cba"},
	"morph":     {Light, "#378dfc"},
	"simplex":   {Light, "#d9230f"},
	"cerculean": {Light, "#2fa4e7"},
	"solar":     {Dark, "#bc951a"},
	"superhero": {Dark, "#4c9be8"},
	"darkly":    {Dark, "#375a7f"},
	"cyborg":    {Dark, "#2a9fd6"},
	"vapor":     {Dark, "#6e40c9"},
}

// Themes returns the catalog sorted by name.
func Themes() []ThemeInfo {
	out := make([]ThemeInfo, 0, len(catalog))
	for name, e := range catalog {
		out = append(out, ThemeInfo{Name: name, Variant: e.variant, Accent: e.accent})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

// Lookup returns the catalog entry for name.
func Lookup(name Theme) (ThemeInfo, bool) {
	e, ok := catalog[name]
	if !ok {
		return ThemeInfo{}, false
	}
	return ThemeInfo{Name: name, Variant: e.variant, Accent: e.accent}, true
}

// ResolveTheme validates name against the catalog. Unknown names resolve to
// DefaultTheme together with an error wrapping ErrUnknownTheme, which callers
// show as a warning.
func ResolveTheme(name Theme) (Theme, error) {
	if _, ok := catalog[name]; ok {
		return name, nil
	}
	return DefaultTheme, fmt.Errorf("%w: %q, falling back to %q", ErrUnknownTheme, name, DefaultTheme)
}
