package pipeline

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/sync/semaphore"

	"github.com/ironsheep/ocr-viewer/internal/annotate"
	"github.com/ironsheep/ocr-viewer/internal/imaging"
	"github.com/ironsheep/ocr-viewer/internal/ocr"
)

// DefaultOutputPath is where the annotated image of each success is written.
const DefaultOutputPath = "output_with_boxes.jpg"

// Options configures a Runner.
type Options struct {
	// MaxWorkers bounds concurrently processed requests.
	MaxWorkers int

	// Supersede cancels the in-flight request when a new one starts.
	Supersede bool

	// OutputPath receives the annotated JPEG of every success. Empty disables writing.
	OutputPath string
}

// DefaultOptions returns the redesigned scheduling defaults.
func DefaultOptions() Options {
	return Options{
		MaxWorkers: 4,
		Supersede:  true,
		OutputPath: DefaultOutputPath,
	}
}

// Result is the outcome of one successful request.
type Result struct {
	// ID identifies the request; larger IDs were started later.
	ID uint64

	// Path is the input image path.
	Path string

	// Batch holds the recognition results.
	Batch ocr.Batch

	// Image is the annotated copy of the input.
	Image *annotate.Image

	// Summary is the text panel content for Batch.
	Summary string

	// OutputPath is the written JPEG, empty when writing is disabled.
	OutputPath string

	// Duration is the processing time on the worker.
	Duration time.Duration
}

// Runner executes recognition requests on worker goroutines.
type Runner struct {
	rec  ocr.Recognizer
	an   *annotate.Annotator
	ui   Dispatcher
	opts Options
	log  zerolog.Logger
	sem  *semaphore.Weighted

	base     context.Context
	shutdown context.CancelFunc
	wg       sync.WaitGroup

	mu     sync.Mutex
	latest uint64
	cancel context.CancelFunc

	writeMu sync.Mutex
}

// NewRunner creates a runner. Callbacks are delivered through ui.
func NewRunner(rec ocr.Recognizer, an *annotate.Annotator, ui Dispatcher, opts Options, log zerolog.Logger) *Runner {
	if opts.MaxWorkers < 1 {
		opts.MaxWorkers = 1
	}
	base, shutdown := context.WithCancel(context.Background())
	return &Runner{
		rec:      rec,
		an:       an,
		ui:       ui,
		opts:     opts,
		log:      log,
		sem:      semaphore.NewWeighted(int64(opts.MaxWorkers)),
		base:     base,
		shutdown: shutdown,
	}
}

// RunAsync starts processing imagePath immediately and returns the request ID.
//
// Exactly one of onSuccess or onFailure is called, on the UI goroutine,
// unless the request is superseded or the runner is closed first, in which
// case neither is.
func (r *Runner) RunAsync(imagePath string, onSuccess func(Result), onFailure func(string)) uint64 {
	ctx, cancel := context.WithCancel(r.base)

	r.mu.Lock()
	r.latest++
	id := r.latest
	if r.opts.Supersede && r.cancel != nil {
		r.cancel()
	}
	r.cancel = cancel
	r.mu.Unlock()

	r.log.Info().Uint64("request", id).Str("file", imagePath).Msg("Recognition requested")

	r.wg.Add(1)
	go func() {
		defer r.wg.Done()
		defer cancel()
		r.run(ctx, id, imagePath, onSuccess, onFailure)
	}()
	return id
}

func (r *Runner) run(ctx context.Context, id uint64, imagePath string, onSuccess func(Result), onFailure func(string)) {
	log := r.log.With().Uint64("request", id).Str("file", imagePath).Logger()

	if err := r.sem.Acquire(ctx, 1); err != nil {
		log.Debug().Msg("Request abandoned before start")
		return
	}
	defer r.sem.Release(1)
	if ctx.Err() != nil {
		log.Debug().Msg("Request abandoned before start")
		return
	}

	res, err := r.process(ctx, id, imagePath)
	if err != nil && ctx.Err() != nil {
		log.Debug().Err(err).Msg("Request superseded")
		return
	}

	if err != nil {
		msg := Message(err)
		log.Error().Err(err).Msg("Recognition failed")
		r.ui.Do(func() {
			if r.stale(id) {
				return
			}
			onFailure(msg)
		})
		return
	}

	log.Info().
		Int("regions", len(res.Batch)).
		Dur("duration", res.Duration).
		Msg("Recognition succeeded")
	r.ui.Do(func() {
		if r.stale(id) {
			return
		}
		onSuccess(res)
	})
}

// process runs recognition, annotation and output on the worker.
func (r *Runner) process(ctx context.Context, id uint64, imagePath string) (Result, error) {
	start := time.Now()

	batch, err := r.rec.Recognize(ctx, imagePath)
	if err != nil {
		return Result{}, err
	}

	img, err := imaging.Open(imagePath)
	if err != nil {
		return Result{}, fmt.Errorf("failed to load image for annotation: %w", err)
	}
	if err := ctx.Err(); err != nil {
		return Result{}, err
	}

	annotated := r.an.Annotate(img, batch)

	res := Result{
		ID:      id,
		Path:    imagePath,
		Batch:   batch,
		Image:   annotated,
		Summary: Summary(batch),
	}

	if r.opts.OutputPath != "" {
		if err := r.writeOutput(ctx, id, annotated); err != nil {
			return Result{}, err
		}
		res.OutputPath = r.opts.OutputPath
	}

	res.Duration = time.Since(start)
	return res, nil
}

// writeOutput replaces the output file unless a newer request took over.
func (r *Runner) writeOutput(ctx context.Context, id uint64, img *annotate.Image) error {
	r.writeMu.Lock()
	defer r.writeMu.Unlock()

	if err := ctx.Err(); err != nil {
		return err
	}
	if r.superseded(id) {
		return context.Canceled
	}
	if err := imaging.SaveJPEG(img, r.opts.OutputPath); err != nil {
		return fmt.Errorf("failed to save annotated image: %w", err)
	}
	return nil
}

// superseded reports whether a later request replaced id. Always false in
// parity mode.
func (r *Runner) superseded(id uint64) bool {
	if !r.opts.Supersede {
		return false
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	return id != r.latest
}

// stale reports whether a finished request must not reach its callbacks.
// It runs on the UI goroutine, so it also sees requests started after the
// result was queued.
func (r *Runner) stale(id uint64) bool {
	return r.base.Err() != nil || r.superseded(id)
}

// Wait blocks until every started request has finished. Callbacks may still
// be queued on the dispatcher when Wait returns.
func (r *Runner) Wait() {
	r.wg.Wait()
}

// Close cancels all in-flight requests and waits for their workers to exit.
func (r *Runner) Close() {
	r.shutdown()
	r.wg.Wait()
}

// Summary renders the text panel content for batch.
func Summary(batch ocr.Batch) string {
	if len(batch) == 0 {
		return "No text detected.\n"
	}
	var b strings.Builder
	b.WriteString("Detected text:\n")
	for i, d := range batch {
		fmt.Fprintf(&b, "Box %d: '%s', confidence: %.2f\n", i+1, d.Text, d.Confidence)
	}
	return b.String()
}

// Message converts a pipeline error into the text shown to the user.
func Message(err error) string {
	switch {
	case errors.Is(err, ocr.ErrIO):
		return fmt.Sprintf("Cannot read the image file: %v", err)
	case errors.Is(err, ocr.ErrModel):
		return fmt.Sprintf("Text recognition failed: %v", err)
	default:
		return fmt.Sprintf("Analysis failed: %v", err)
	}
}
