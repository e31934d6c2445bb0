// Package ui is the Fyne front end: pick an image, read the detected text,
// and see the annotated preview.
package ui

import (
	"errors"
	"fmt"
	"path/filepath"
	"sync/atomic"
	"time"

	"fyne.io/fyne/v2"
	fyneapp "fyne.io/fyne/v2/app"
	"fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/storage"
	"fyne.io/fyne/v2/theme"
	"fyne.io/fyne/v2/widget"
	"github.com/rs/zerolog"

	"github.com/ironsheep/ocr-viewer/internal/app"
	"github.com/ironsheep/ocr-viewer/internal/imaging"
	"github.com/ironsheep/ocr-viewer/internal/logger"
	"github.com/ironsheep/ocr-viewer/internal/pipeline"
	"github.com/ironsheep/ocr-viewer/internal/settings"
)

const appID = "io.ironsheep.ocr-viewer"

// dispatcher hands runner callbacks to the Fyne event loop and drops them
// once the window is gone.
type dispatcher struct {
	closed atomic.Bool
}

func (d *dispatcher) Do(f func()) {
	if d.closed.Load() {
		return
	}
	fyne.Do(f)
}

type mainWindow struct {
	app     *app.App
	fyneApp fyne.App
	window  fyne.Window
	ui      *dispatcher
	runner  *pipeline.Runner
	log     zerolog.Logger

	prefs settings.Settings

	selectButton *widget.Button
	status       *widget.Label
	output       *widget.Entry
	preview      *canvas.Image
}

// Run opens the main window and blocks until it is closed.
func Run(a *app.App) error {
	log := logger.WithComponent("ui")

	fa := fyneapp.NewWithID(appID)
	mw := newMainWindow(a, fa, log)
	a.Preload(log)

	mw.window.ShowAndRun()

	mw.ui.closed.Store(true)
	mw.runner.Close()
	log.Info().Msg("Window closed")
	return a.Close()
}

func newMainWindow(a *app.App, fa fyne.App, log zerolog.Logger) *mainWindow {
	mw := &mainWindow{
		app:     a,
		fyneApp: fa,
		ui:      &dispatcher{},
		log:     log,
		prefs:   a.Settings.Load(),
	}
	mw.runner = a.NewRunner(mw.ui, app.RunnerOptions(a.Config))

	mw.window = fa.NewWindow("Text Detection and Recognition")
	mw.window.Resize(fyne.NewSize(800, 600))

	mw.selectButton = widget.NewButtonWithIcon("Select Image File", theme.FileImageIcon(), mw.openImage)
	mw.selectButton.Importance = widget.HighImportance

	mw.status = widget.NewLabel("")
	mw.status.Wrapping = fyne.TextWrapWord

	mw.output = widget.NewMultiLineEntry()
	mw.output.Wrapping = fyne.TextWrapWord
	mw.output.SetMinRowsVisible(10)

	mw.preview = canvas.NewImageFromImage(nil)
	mw.preview.FillMode = canvas.ImageFillStretch
	mw.preview.SetMinSize(fyne.NewSize(imaging.ThumbnailWidth, imaging.ThumbnailHeight))

	mw.window.SetContent(container.NewVBox(
		container.NewCenter(mw.selectButton),
		mw.status,
		mw.output,
		container.NewCenter(mw.preview),
	))
	mw.window.SetMainMenu(mw.buildMenu())

	if err := mw.applyTheme(); err != nil {
		log.Warn().Err(err).Msg("Invalid theme in settings")
		dialog.ShowInformation("Invalid Theme",
			fmt.Sprintf("The theme '%s' is not available. Falling back to default theme.", mw.prefs.Theme),
			mw.window)
	}
	return mw
}

func (mw *mainWindow) buildMenu() *fyne.MainMenu {
	file := fyne.NewMenu("File",
		fyne.NewMenuItem("Open Image...", mw.openImage),
		fyne.NewMenuItemSeparator(),
		fyne.NewMenuItem("Open Text...", mw.openText),
		fyne.NewMenuItem("Save Text...", mw.saveText),
		fyne.NewMenuItemSeparator(),
		fyne.NewMenuItem("Exit", mw.confirmExit),
	)

	prefs := fyne.NewMenu("Settings",
		fyne.NewMenuItem("Set Font Size...", mw.showFontSizeDialog),
		fyne.NewMenuItem("Set Background Color...", mw.showBackgroundDialog),
		fyne.NewMenuItem("Reset Background Color", mw.resetBackground),
		fyne.NewMenuItemSeparator(),
		fyne.NewMenuItem("Change Theme...", mw.showThemeDialog),
	)

	help := fyne.NewMenu("Help",
		fyne.NewMenuItem("About", mw.showAbout),
	)

	return fyne.NewMainMenu(file, prefs, help)
}

// applyTheme installs the theme for the current preferences.
func (mw *mainWindow) applyTheme() error {
	th, err := newAppTheme(mw.prefs)
	mw.fyneApp.Settings().SetTheme(th)
	return err
}

func (mw *mainWindow) openImage() {
	d := dialog.NewFileOpen(func(rc fyne.URIReadCloser, err error) {
		if err != nil {
			dialog.ShowError(err, mw.window)
			return
		}
		if rc == nil {
			return
		}
		path := rc.URI().Path()
		rc.Close()
		mw.recognize(path)
	}, mw.window)
	d.SetFilter(storage.NewExtensionFileFilter(imaging.SupportedExtensions))
	d.Show()
}

// recognize starts a request. Results from earlier requests that are still
// running are handled by the runner's scheduling policy.
func (mw *mainWindow) recognize(path string) {
	mw.status.SetText(fmt.Sprintf("Recognizing %s...", filepath.Base(path)))
	mw.runner.RunAsync(path, mw.showResult, mw.showFailure)
}

func (mw *mainWindow) showResult(res pipeline.Result) {
	mw.output.SetText(res.Summary)

	mw.preview.Image = imaging.Thumbnail(res.Image, imaging.ThumbnailWidth, imaging.ThumbnailHeight)
	mw.preview.Refresh()

	mw.status.SetText(fmt.Sprintf("%s: %d text regions in %s",
		filepath.Base(res.Path), len(res.Batch), res.Duration.Round(time.Millisecond)))
}

func (mw *mainWindow) showFailure(msg string) {
	mw.status.SetText("")
	dialog.ShowError(errors.New(msg), mw.window)
}

func (mw *mainWindow) confirmExit() {
	dialog.ShowConfirm("Exit", "Are you sure you want to exit?", func(ok bool) {
		if ok {
			mw.fyneApp.Quit()
		}
	}, mw.window)
}

func (mw *mainWindow) showAbout() {
	cfg := mw.app.Config
	dialog.ShowInformation("About",
		fmt.Sprintf("OCR Viewer %s\nLanguages: %s\nOutput: %s",
			mw.app.Build.Version, cfg.Languages, cfg.OutputPath),
		mw.window)
}
