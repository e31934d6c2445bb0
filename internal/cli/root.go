// Package cli defines the ocr-viewer command tree.
package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/ironsheep/ocr-viewer/internal/app"
	"github.com/ironsheep/ocr-viewer/internal/logger"
)

// LaunchFunc opens the main window and blocks until it is closed.
type LaunchFunc func(a *app.App) error

// NewRootCommand builds the command tree. Running it without a subcommand
// calls launch.
func NewRootCommand(a *app.App, launch LaunchFunc) *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "ocr-viewer",
		Short: "Recognize text in images and show it with bounding boxes",
		Long: `ocr-viewer opens a window where you pick an image file. Text in the
image is recognized with Tesseract (English and simplified Chinese by
default), listed with its confidence, and outlined on a preview.

Each result is also written to output_with_boxes.jpg in the working
directory. Run a subcommand for headless use.`,
		Version:       a.Build.Version,
		SilenceUsage:  true,
		SilenceErrors: true,
		Args:          cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			log := logger.WithComponent("cli")
			log.Info().
				Str("version", a.Build.Version).
				Msg("Launching window")
			return launch(a)
		},
	}

	rootCmd.AddCommand(
		newRecognizeCommand(a),
		newThemesCommand(a),
		newVersionCommand(a),
	)
	return rootCmd
}

// Execute runs the command tree and exits with status 1 on failure.
func Execute(a *app.App, launch LaunchFunc) {
	log := logger.WithComponent("cli")

	if err := NewRootCommand(a, launch).Execute(); err != nil {
		log.Error().
			Err(err).
			Msg("Command execution failed")
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		if cerr := a.Close(); cerr != nil {
			log.Warn().Err(cerr).Msg("Failed to release recognition engine")
		}
		os.Exit(1)
	}
}
