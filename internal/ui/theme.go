package ui

import (
	"image/color"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/theme"

	"github.com/ironsheep/ocr-viewer/internal/imaging"
	"github.com/ironsheep/ocr-viewer/internal/settings"
)

// appTheme applies the stored preferences on top of the Fyne default theme.
type appTheme struct {
	base       fyne.Theme
	variant    fyne.ThemeVariant
	accent     color.Color
	background color.Color
	textSize   float32
}

var _ fyne.Theme = (*appTheme)(nil)

// newAppTheme builds the theme for st. An unknown theme name yields the
// default theme and an error wrapping settings.ErrUnknownTheme.
func newAppTheme(st settings.Settings) (*appTheme, error) {
	name, err := settings.ResolveTheme(st.Theme)
	info, _ := settings.Lookup(name)

	t := &appTheme{
		base:    theme.DefaultTheme(),
		variant: fyneVariant(info.Variant),
	}
	if c, perr := imaging.ParseColor(info.Accent); perr == nil {
		t.accent = c
	}
	if st.BackgroundColor != "" {
		if c, perr := imaging.ParseColor(st.BackgroundColor); perr == nil {
			t.background = c
			// Keep foreground text readable on the custom background.
			if imaging.IsDark(c) {
				t.variant = theme.VariantDark
			} else {
				t.variant = theme.VariantLight
			}
		}
	}
	if settings.ValidFontSize(st.FontSize) {
		t.textSize = float32(st.FontSize)
	}
	return t, err
}

func fyneVariant(v settings.Variant) fyne.ThemeVariant {
	if v == settings.Dark {
		return theme.VariantDark
	}
	return theme.VariantLight
}

func (t *appTheme) Color(name fyne.ThemeColorName, _ fyne.ThemeVariant) color.Color {
	switch name {
	case theme.ColorNameBackground:
		if t.background != nil {
			return t.background
		}
	case theme.ColorNamePrimary, theme.ColorNameFocus, theme.ColorNameSelection:
		if t.accent != nil {
			return t.accent
		}
	}
	return t.base.Color(name, t.variant)
}

func (t *appTheme) Font(style fyne.TextStyle) fyne.Resource {
	return t.base.Font(style)
}

func (t *appTheme) Icon(name fyne.ThemeIconName) fyne.Resource {
	return t.base.Icon(name)
}

func (t *appTheme) Size(name fyne.ThemeSizeName) float32 {
	if name == theme.SizeNameText && t.textSize > 0 {
		return t.textSize
	}
	return t.base.Size(name)
}
