package cli

import (
	"bytes"
	"encoding/json"
	"path/filepath"
	"strings"
	"testing"

	"github.com/ironsheep/ocr-viewer/internal/app"
	"github.com/ironsheep/ocr-viewer/internal/config"
	"github.com/ironsheep/ocr-viewer/internal/ocr"
	"github.com/ironsheep/ocr-viewer/internal/pipeline"
	"github.com/ironsheep/ocr-viewer/internal/settings"
)

func newTestApp(t *testing.T) *app.App {
	t.Helper()
	dir := t.TempDir()
	cfg := &config.Config{
		Languages:    "eng",
		Granularity:  "word",
		PoolSize:     1,
		MaxWorkers:   1,
		Supersede:    true,
		OutputPath:   filepath.Join(dir, "output_with_boxes.jpg"),
		BoxColor:     "#ff0000",
		BoxWidth:     2,
		SettingsPath: filepath.Join(dir, "settings.json"),
	}
	a, err := app.New(cfg, app.BuildInfo{Version: "1.2.3", BuildTime: "now", GitCommit: "abc"})
	if err != nil {
		t.Fatalf("app.New failed: %v", err)
	}
	t.Cleanup(func() { a.Close() })
	return a
}

func run(t *testing.T, a *app.App, launch LaunchFunc, args ...string) (string, string, error) {
	t.Helper()
	if launch == nil {
		launch = func(*app.App) error {
			t.Error("window launched unexpectedly")
			return nil
		}
	}
	cmd := NewRootCommand(a, launch)
	var stdout, stderr bytes.Buffer
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return stdout.String(), stderr.String(), err
}

func TestRoot_LaunchesWindow(t *testing.T) {
	a := newTestApp(t)
	launched := false
	_, _, err := run(t, a, func(got *app.App) error {
		launched = got == a
		return nil
	})
	if err != nil {
		t.Fatalf("Execute failed: %v", err)
	}
	if !launched {
		t.Error("root command did not launch the window")
	}
}

func TestRoot_RejectsArgs(t *testing.T) {
	a := newTestApp(t)
	if _, _, err := run(t, a, nil, "image.png"); err == nil {
		t.Error("root command accepted a positional argument")
	}
}

func TestThemes(t *testing.T) {
	a := newTestApp(t)
	a.Settings.SaveTheme("flatly")

	out, _, err := run(t, a, nil, "themes")
	if err != nil {
		t.Fatalf("themes failed: %v", err)
	}
	if !strings.Contains(out, "* flatly") {
		t.Errorf("current theme not marked:\n%s", out)
	}
	if got := strings.Count(out, "\n"); got != len(settings.Themes()) {
		t.Errorf("listed %d themes, want %d", got, len(settings.Themes()))
	}
}

func TestThemes_UnknownStoredTheme(t *testing.T) {
	a := newTestApp(t)
	a.Settings.SaveTheme("doesnotexist")

	out, errOut, err := run(t, a, nil, "themes")
	if err != nil {
		t.Fatalf("themes failed: %v", err)
	}
	if !strings.Contains(errOut, "doesnotexist") {
		t.Errorf("no warning for unknown theme: %q", errOut)
	}
	if !strings.Contains(out, "* "+string(settings.DefaultTheme)) {
		t.Errorf("default theme not marked:\n%s", out)
	}
}

func TestVersion_JSON(t *testing.T) {
	a := newTestApp(t)
	out, _, err := run(t, a, nil, "version", "--json")
	if err != nil {
		t.Fatalf("version failed: %v", err)
	}

	var doc struct {
		Version string   `json:"version"`
		Engine  ocr.Info `json:"engine"`
	}
	if err := json.Unmarshal([]byte(out), &doc); err != nil {
		t.Fatalf("invalid JSON %q: %v", out, err)
	}
	if doc.Version != "1.2.3" || doc.Engine.Languages != "eng" {
		t.Errorf("unexpected version document: %+v", doc)
	}
}

func TestRecognize_MissingFile(t *testing.T) {
	a := newTestApp(t)
	_, _, err := run(t, a, nil, "recognize", filepath.Join(t.TempDir(), "nope.png"))
	if err == nil {
		t.Fatal("recognize succeeded on a missing file")
	}
	if !strings.HasPrefix(err.Error(), "Cannot read the image file") {
		t.Errorf("error = %q", err)
	}
}

func TestWriteJSON(t *testing.T) {
	res := pipeline.Result{
		Path: "in.png",
		Batch: ocr.Batch{{
			Polygon:    []ocr.Point{{X: 1, Y: 2}, {X: 30, Y: 2}, {X: 30, Y: 12}, {X: 1, Y: 12}},
			Text:       "HELLO",
			Confidence: 0.9,
		}},
		Summary:    pipeline.Summary(nil),
		OutputPath: "out.jpg",
	}

	var buf bytes.Buffer
	if err := writeJSON(&buf, res); err != nil {
		t.Fatal(err)
	}

	var doc RecognizeOutput
	if err := json.Unmarshal(buf.Bytes(), &doc); err != nil {
		t.Fatal(err)
	}
	if len(doc.Regions) != 1 || doc.Regions[0].Box != [4]int{1, 2, 30, 12} {
		t.Errorf("regions = %+v", doc.Regions)
	}
	if len(doc.Regions[0].Polygon) != 4 || doc.Output != "out.jpg" {
		t.Errorf("document = %+v", doc)
	}
}
