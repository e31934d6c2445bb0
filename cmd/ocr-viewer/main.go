package main

import (
	"errors"
	"io/fs"
	"log"

	"github.com/joho/godotenv"

	"github.com/ironsheep/ocr-viewer/internal/app"
	"github.com/ironsheep/ocr-viewer/internal/cli"
	"github.com/ironsheep/ocr-viewer/internal/config"
	"github.com/ironsheep/ocr-viewer/internal/logger"
	"github.com/ironsheep/ocr-viewer/internal/ui"
)

// Version information - set by ldflags during build
var (
	Version   = "dev"
	BuildTime = "unknown"
	GitCommit = "unknown"
)

func main() {
	// Load environment variables
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		log.Printf("Warning: Could not load .env file: %v", err)
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Invalid configuration: %v", err)
	}
	if err := logger.Setup(cfg.GetLoggerConfig()); err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}

	l := logger.WithComponent("main")
	l.Info().
		Str("version", Version).
		Str("build_time", BuildTime).
		Str("commit", GitCommit).
		Msg("Starting ocr-viewer")

	a, err := app.New(cfg, app.BuildInfo{Version: Version, BuildTime: BuildTime, GitCommit: GitCommit})
	if err != nil {
		l.Fatal().Err(err).Msg("Failed to initialize")
	}

	cli.Execute(a, ui.Run)
}
