package ocr

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/ironsheep/ocr-viewer/internal/imaging"
)

// DefaultLanguages is the Latin script + simplified Chinese language set.
const DefaultLanguages = "eng+chi_sim"

// Options configures an Engine.
type Options struct {
	// Languages is a '+' separated list of Tesseract language codes.
	Languages string

	// TessdataPrefix overrides the Tesseract data directory. Empty uses the default.
	TessdataPrefix string

	// Granularity selects word or line regions.
	Granularity Granularity

	// Preprocess converts images to high-contrast grayscale before recognition.
	Preprocess bool

	// PoolSize is the number of Tesseract clients kept ready.
	PoolSize int
}

// DefaultOptions returns the options used when nothing is configured.
func DefaultOptions() Options {
	return Options{
		Languages:   DefaultLanguages,
		Granularity: GranularityWord,
		PoolSize:    2,
	}
}

// backend is one initialized recognition client. It is used by a single
// goroutine at a time.
type backend interface {
	recognize(imagePath string) (Batch, error)
	close()
}

// Engine is the process-wide recognition service. It is safe for concurrent use.
type Engine struct {
	opts Options
	log  zerolog.Logger
	open func(Options) (backend, error)

	loadOnce sync.Once
	loadErr  error
	pool     chan backend

	mu     sync.Mutex
	closed bool
}

// NewEngine creates an engine. The model is not loaded until Load or the
// first Recognize call.
func NewEngine(opts Options, log zerolog.Logger) *Engine {
	if opts.Languages == "" {
		opts.Languages = DefaultLanguages
	}
	if opts.Granularity == "" {
		opts.Granularity = GranularityWord
	}
	if opts.PoolSize < 1 {
		opts.PoolSize = 1
	}
	return &Engine{opts: opts, log: log, open: openBackend}
}

// languageList splits Languages into the codes Tesseract expects.
func (o Options) languageList() []string {
	parts := strings.Split(o.Languages, "+")
	langs := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			langs = append(langs, p)
		}
	}
	return langs
}

// Load initializes the client pool. It runs at most once; later calls return
// the first outcome.
func (e *Engine) Load() error {
	e.loadOnce.Do(func() {
		start := time.Now()
		pool := make(chan backend, e.opts.PoolSize)
		for i := 0; i < e.opts.PoolSize; i++ {
			b, err := e.open(e.opts)
			if err != nil {
				close(pool)
				for opened := range pool {
					opened.close()
				}
				e.loadErr = &Error{Kind: KindModel, Op: "Load", Err: err}
				e.log.Error().Err(err).Str("languages", e.opts.Languages).Msg("Failed to load recognition model")
				return
			}
			pool <- b
		}
		e.pool = pool
		e.log.Info().
			Str("languages", e.opts.Languages).
			Str("granularity", string(e.opts.Granularity)).
			Int("pool_size", e.opts.PoolSize).
			Dur("duration", time.Since(start)).
			Msg("Recognition model loaded")
	})
	return e.loadErr
}

// Recognize detects and recognizes text in the image at imagePath.
func (e *Engine) Recognize(ctx context.Context, imagePath string) (Batch, error) {
	const op = "Recognize"

	if _, _, err := imaging.DecodeConfig(imagePath); err != nil {
		kind := KindIO
		if errors.Is(err, imaging.ErrDecode) {
			kind = KindModel
		}
		return nil, &Error{Kind: kind, Op: op, Path: imagePath, Err: err}
	}

	if err := e.Load(); err != nil {
		return nil, err
	}

	b, err := e.acquire(ctx)
	if err != nil {
		return nil, classify(op, imagePath, err)
	}
	defer e.release(b)

	target := imagePath
	if e.opts.Preprocess {
		prepared, err := e.prepare(imagePath)
		if err != nil {
			return nil, classify(op, imagePath, err)
		}
		defer os.Remove(prepared)
		target = prepared
	}

	start := time.Now()
	batch, err := b.recognize(target)
	if err != nil {
		return nil, &Error{Kind: KindModel, Op: op, Path: imagePath, Err: err}
	}

	e.log.Debug().
		Str("file", imagePath).
		Int("regions", len(batch)).
		Dur("duration", time.Since(start)).
		Msg("Recognition finished")
	return batch, nil
}

// prepare writes a preprocessed copy of the image to a temporary file.
func (e *Engine) prepare(imagePath string) (string, error) {
	img, err := imaging.Open(imagePath)
	if err != nil {
		return "", err
	}
	return imaging.SaveTemp(imaging.PrepareForOCR(img), "ocr-prepared")
}

func (e *Engine) acquire(ctx context.Context) (backend, error) {
	e.mu.Lock()
	closed := e.closed
	e.mu.Unlock()
	if closed {
		return nil, &Error{Kind: KindModel, Op: "Recognize", Err: ErrClosed}
	}

	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	default:
	}

	select {
	case b, ok := <-e.pool:
		if !ok {
			return nil, &Error{Kind: KindModel, Op: "Recognize", Err: ErrClosed}
		}
		return b, nil
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

func (e *Engine) release(b backend) {
	e.pool <- b
}

// Info reports backend availability and version.
func (e *Engine) Info() Info {
	info := Info{
		Backend:        backendName,
		Languages:      e.opts.Languages,
		TessdataPrefix: e.opts.TessdataPrefix,
	}
	if err := e.Load(); err != nil {
		info.Error = err.Error()
		return info
	}
	info.Available = true
	info.Version = backendVersion()
	return info
}

// Close waits for in-flight recognitions and releases every client.
// Recognize fails with ErrClosed afterwards.
func (e *Engine) Close() error {
	e.mu.Lock()
	if e.closed {
		e.mu.Unlock()
		return nil
	}
	e.closed = true
	e.mu.Unlock()

	// Mark the load as done so a late Recognize cannot start one.
	e.loadOnce.Do(func() {
		e.loadErr = &Error{Kind: KindModel, Op: "Load", Err: ErrClosed}
	})
	if e.pool == nil {
		return nil
	}
	for i := 0; i < cap(e.pool); i++ {
		b := <-e.pool
		b.close()
	}
	close(e.pool)
	return nil
}

// String makes Options readable in logs.
func (o Options) String() string {
	return fmt.Sprintf("languages=%s granularity=%s preprocess=%t pool=%d",
		o.Languages, o.Granularity, o.Preprocess, o.PoolSize)
}
