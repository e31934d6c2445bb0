package ui

import (
	"fmt"
	"image/color"
	"io"
	"strconv"
	"strings"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/storage"
	"fyne.io/fyne/v2/widget"

	"github.com/ironsheep/ocr-viewer/internal/imaging"
	"github.com/ironsheep/ocr-viewer/internal/settings"
)

var textFilter = storage.NewExtensionFileFilter([]string{".txt"})

// openText loads a plain text file into the output panel.
func (mw *mainWindow) openText() {
	d := dialog.NewFileOpen(func(rc fyne.URIReadCloser, err error) {
		if err != nil {
			dialog.ShowError(err, mw.window)
			return
		}
		if rc == nil {
			return
		}
		defer rc.Close()

		data, err := io.ReadAll(rc)
		if err != nil {
			dialog.ShowError(fmt.Errorf("failed to read %s: %w", rc.URI().Name(), err), mw.window)
			return
		}
		mw.output.SetText(string(data))
		mw.log.Info().Str("file", rc.URI().Path()).Msg("Text file opened")
	}, mw.window)
	d.SetFilter(textFilter)
	d.Show()
}

// saveText writes the output panel to a plain text file.
func (mw *mainWindow) saveText() {
	d := dialog.NewFileSave(func(wc fyne.URIWriteCloser, err error) {
		if err != nil {
			dialog.ShowError(err, mw.window)
			return
		}
		if wc == nil {
			return
		}

		_, werr := io.WriteString(wc, strings.TrimSpace(mw.output.Text))
		cerr := wc.Close()
		if werr == nil {
			werr = cerr
		}
		if werr != nil {
			dialog.ShowError(fmt.Errorf("failed to save %s: %w", wc.URI().Name(), werr), mw.window)
			return
		}
		mw.log.Info().Str("file", wc.URI().Path()).Msg("Text file saved")
	}, mw.window)
	d.SetFilter(textFilter)
	d.SetFileName("output.txt")
	d.Show()
}

func validateFontSize(s string) error {
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil || !settings.ValidFontSize(n) {
		return fmt.Errorf("enter a number from %d to %d", settings.MinFontSize, settings.MaxFontSize)
	}
	return nil
}

func (mw *mainWindow) showFontSizeDialog() {
	entry := widget.NewEntry()
	entry.SetPlaceHolder("e.g., 10, 12, 16")
	if mw.prefs.FontSize != 0 {
		entry.SetText(strconv.Itoa(mw.prefs.FontSize))
	}
	entry.Validator = validateFontSize

	items := []*widget.FormItem{widget.NewFormItem("Font size", entry)}
	dialog.ShowForm("Font Size", "Apply", "Cancel", items, func(ok bool) {
		if !ok {
			return
		}
		size, _ := strconv.Atoi(strings.TrimSpace(entry.Text))
		mw.prefs.FontSize = size
		mw.app.Settings.SaveFontSize(size)
		mw.applyTheme()
		mw.log.Info().Int("size", size).Msg("Font size changed")
	}, mw.window)
}

func (mw *mainWindow) showBackgroundDialog() {
	picker := dialog.NewColorPicker("Background Color", "Choose Background Color", func(c color.Color) {
		hex := imaging.HexColor(c)
		mw.prefs.BackgroundColor = hex
		mw.app.Settings.SaveBackgroundColor(hex)
		mw.applyTheme()
		mw.log.Info().Str("color", hex).Msg("Background color changed")
	}, mw.window)
	picker.Advanced = true
	picker.Show()
}

func (mw *mainWindow) resetBackground() {
	mw.prefs.BackgroundColor = ""
	mw.app.Settings.SaveBackgroundColor("")
	mw.applyTheme()
}

func themeNames() []string {
	themes := settings.Themes()
	names := make([]string, len(themes))
	for i, t := range themes {
		names[i] = string(t.Name)
	}
	return names
}

func (mw *mainWindow) showThemeDialog() {
	current, _ := settings.ResolveTheme(mw.prefs.Theme)

	sel := widget.NewSelect(themeNames(), nil)
	sel.SetSelected(string(current))

	content := container.NewVBox(widget.NewLabel("Select Theme:"), sel)
	dialog.ShowCustomConfirm("Change Theme", "Apply", "Cancel", content, func(ok bool) {
		if !ok || sel.Selected == "" {
			return
		}
		name := settings.Theme(sel.Selected)
		mw.prefs.Theme = name
		mw.app.Settings.SaveTheme(name)
		if err := mw.applyTheme(); err != nil {
			dialog.ShowError(err, mw.window)
			return
		}
		mw.log.Info().Str("theme", string(name)).Msg("Theme changed")
		dialog.ShowInformation("Theme Changed", fmt.Sprintf("Theme changed to '%s'.", name), mw.window)
	}, mw.window)
}
