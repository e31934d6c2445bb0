package cli

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"image"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/ironsheep/ocr-viewer/internal/app"
	"github.com/ironsheep/ocr-viewer/internal/logger"
	"github.com/ironsheep/ocr-viewer/internal/ocr"
	"github.com/ironsheep/ocr-viewer/internal/pipeline"
)

// errInterrupted is returned when a signal stops a headless run.
var errInterrupted = errors.New("recognition interrupted")

// RegionOutput is one detection in --json output.
type RegionOutput struct {
	Text       string   `json:"text"`
	Confidence float64  `json:"confidence"`
	Box        [4]int   `json:"box"`
	Polygon    [][2]int `json:"polygon"`
}

// RecognizeOutput is the --json document.
type RecognizeOutput struct {
	File               string         `json:"file"`
	Regions            []RegionOutput `json:"regions"`
	Summary            string         `json:"summary"`
	Output             string         `json:"output,omitempty"`
	ProcessingDuration string         `json:"processing_duration"`
}

func newRecognizeCommand(a *app.App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "recognize [image-file]",
		Short: "Recognize text in one image without opening a window",
		Long: `Run recognition and annotation on a single image, print the detected
text, and write the annotated JPEG.

Supported formats: .jpg .jpeg .png .bmp .tiff .tif`,
		Example: `  # Print detected text and write output_with_boxes.jpg
  ocr-viewer recognize receipt.png

  # Structured output, annotated image elsewhere
  ocr-viewer recognize scan.tiff --json -o /tmp/boxes.jpg`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runRecognize(cmd, a, args[0])
		},
	}

	cmd.Flags().StringP("output", "o", "", "Annotated JPEG path (default: OCR_OUTPUT_PATH)")
	cmd.Flags().Bool("json", false, "Output as JSON")
	return cmd
}

func runRecognize(cmd *cobra.Command, a *app.App, imagePath string) error {
	log := logger.WithComponent("cli")

	outputPath, _ := cmd.Flags().GetString("output")
	jsonOutput, _ := cmd.Flags().GetBool("json")

	opts := app.RunnerOptions(a.Config)
	if outputPath != "" {
		opts.OutputPath = outputPath
	}

	log.Info().
		Str("file", imagePath).
		Str("output", opts.OutputPath).
		Bool("json", jsonOutput).
		Msg("Starting recognition")

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	res, err := recognizeOnce(ctx, a, opts, imagePath)
	if cerr := a.Close(); cerr != nil {
		log.Warn().Err(cerr).Msg("Failed to release recognition engine")
	}
	if err != nil {
		return err
	}

	if jsonOutput {
		return writeJSON(cmd.OutOrStdout(), res)
	}
	fmt.Fprint(cmd.OutOrStdout(), res.Summary)
	if res.OutputPath != "" {
		fmt.Fprintf(cmd.OutOrStdout(), "Annotated image written to %s\n", res.OutputPath)
	}
	return nil
}

// recognizeOnce runs one request through a Runner and a private event loop.
func recognizeOnce(ctx context.Context, a *app.App, opts pipeline.Options, imagePath string) (pipeline.Result, error) {
	loopCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	loop := pipeline.NewLoop(1)
	runner := a.NewRunner(loop, opts)
	defer runner.Close()

	var (
		res     pipeline.Result
		failure string
		done    bool
	)
	runner.RunAsync(imagePath,
		func(r pipeline.Result) {
			res, done = r, true
			cancel()
		},
		func(msg string) {
			failure, done = msg, true
			cancel()
		})

	_ = loop.Run(loopCtx)

	switch {
	case failure != "":
		return pipeline.Result{}, errors.New(failure)
	case !done:
		return pipeline.Result{}, errInterrupted
	}
	return res, nil
}

func writeJSON(w io.Writer, res pipeline.Result) error {
	out := RecognizeOutput{
		File:               res.Path,
		Regions:            make([]RegionOutput, 0, len(res.Batch)),
		Summary:            res.Summary,
		Output:             res.OutputPath,
		ProcessingDuration: res.Duration.String(),
	}
	for _, d := range res.Batch {
		out.Regions = append(out.Regions, RegionOutput{
			Text:       d.Text,
			Confidence: d.Confidence,
			Box:        boxOf(d.Rect()),
			Polygon:    polygonOf(d.Polygon),
		})
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(out); err != nil {
		return fmt.Errorf("failed to encode JSON output: %w", err)
	}
	return nil
}

func boxOf(r image.Rectangle) [4]int {
	return [4]int{r.Min.X, r.Min.Y, r.Max.X, r.Max.Y}
}

func polygonOf(pts []ocr.Point) [][2]int {
	out := make([][2]int, len(pts))
	for i, p := range pts {
		out[i] = [2]int{p.X, p.Y}
	}
	return out
}
