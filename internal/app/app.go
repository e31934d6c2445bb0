// Package app assembles the recognition engine, annotator, runner and
// settings store from configuration. The CLI and the window share it.
package app

import (
	"fmt"

	"github.com/rs/zerolog"

	"github.com/ironsheep/ocr-viewer/internal/annotate"
	"github.com/ironsheep/ocr-viewer/internal/config"
	"github.com/ironsheep/ocr-viewer/internal/logger"
	"github.com/ironsheep/ocr-viewer/internal/ocr"
	"github.com/ironsheep/ocr-viewer/internal/pipeline"
	"github.com/ironsheep/ocr-viewer/internal/settings"
)

// BuildInfo is set by ldflags during build.
type BuildInfo struct {
	Version   string
	BuildTime string
	GitCommit string
}

// App owns the long-lived components.
type App struct {
	Config    *config.Config
	Build     BuildInfo
	Engine    *ocr.Engine
	Annotator *annotate.Annotator
	Settings  *settings.Store
}

// New wires the components described by cfg. The model is not loaded yet.
func New(cfg *config.Config, build BuildInfo) (*App, error) {
	style, err := annotate.StyleFromHex(cfg.BoxColor, cfg.BoxWidth)
	if err != nil {
		return nil, fmt.Errorf("invalid OCR_BOX_COLOR: %w", err)
	}

	return &App{
		Config:    cfg,
		Build:     build,
		Engine:    ocr.NewEngine(EngineOptions(cfg), logger.WithComponent("ocr")),
		Annotator: annotate.New(style),
		Settings:  settings.NewStore(cfg.SettingsPath, logger.WithComponent("settings")),
	}, nil
}

// EngineOptions maps configuration to recognition options.
func EngineOptions(cfg *config.Config) ocr.Options {
	return ocr.Options{
		Languages:      cfg.Languages,
		TessdataPrefix: cfg.TessdataPrefix,
		Granularity:    ocr.Granularity(cfg.Granularity),
		Preprocess:     cfg.Preprocess,
		PoolSize:       cfg.PoolSize,
	}
}

// RunnerOptions maps configuration to scheduling options.
func RunnerOptions(cfg *config.Config) pipeline.Options {
	return pipeline.Options{
		MaxWorkers: cfg.MaxWorkers,
		Supersede:  cfg.Supersede,
		OutputPath: cfg.OutputPath,
	}
}

// NewRunner creates a runner delivering callbacks through ui.
func (a *App) NewRunner(ui pipeline.Dispatcher, opts pipeline.Options) *pipeline.Runner {
	return pipeline.NewRunner(a.Engine, a.Annotator, ui, opts, logger.WithComponent("pipeline"))
}

// Preload loads the model in the background so the first request does not
// pay for it. Failures are logged; Recognize reports them again.
func (a *App) Preload(log zerolog.Logger) {
	go func() {
		if err := a.Engine.Load(); err != nil {
			log.Error().Err(err).Msg("Recognition model unavailable")
		}
	}()
}

// Close releases the engine.
func (a *App) Close() error {
	return a.Engine.Close()
}
