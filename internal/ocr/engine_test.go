package ocr

import (
	"context"
	"errors"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/rs/zerolog"
)

// fakeBackend returns a fixed batch and records concurrent use.
type fakeBackend struct {
	batch  Batch
	err    error
	delay  time.Duration
	active *int32
	peak   *int32
	seen   chan string
	closed *int32
}

func (f *fakeBackend) recognize(imagePath string) (Batch, error) {
	if f.active != nil {
		n := atomic.AddInt32(f.active, 1)
		defer atomic.AddInt32(f.active, -1)
		for {
			p := atomic.LoadInt32(f.peak)
			if n <= p || atomic.CompareAndSwapInt32(f.peak, p, n) {
				break
			}
		}
	}
	if f.seen != nil {
		f.seen <- imagePath
	}
	time.Sleep(f.delay)
	return f.batch, f.err
}

func (f *fakeBackend) close() {
	if f.closed != nil {
		atomic.AddInt32(f.closed, 1)
	}
}

func newTestEngine(opts Options, open func(Options) (backend, error)) *Engine {
	e := NewEngine(opts, zerolog.Nop())
	e.open = open
	return e
}

// createTestImageFile writes a white PNG and returns its path.
func createTestImageFile(t *testing.T, width, height int) string {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, width, height))
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			img.Set(x, y, color.White)
		}
	}

	path := filepath.Join(t.TempDir(), "input.png")
	f, err := os.Create(path)
	if err != nil {
		t.Fatalf("failed to create file: %v", err)
	}
	defer f.Close()
	if err := png.Encode(f, img); err != nil {
		t.Fatalf("failed to encode image: %v", err)
	}
	return path
}

func TestRecognize_NonExistentFile(t *testing.T) {
	e := newTestEngine(DefaultOptions(), func(Options) (backend, error) {
		t.Fatal("model should not load for a missing file")
		return nil, nil
	})

	batch, err := e.Recognize(context.Background(), "/nonexistent/path/image.png")
	if err == nil {
		t.Fatal("Recognize should fail for non-existent file")
	}
	if batch != nil {
		t.Errorf("Recognize returned a batch alongside an error: %v", batch)
	}
	if !errors.Is(err, ErrIO) {
		t.Errorf("expected ErrIO, got %v", err)
	}
	if KindOf(err) != KindIO {
		t.Errorf("KindOf = %v, want io", KindOf(err))
	}
}

func TestRecognize_UnsupportedExtension(t *testing.T) {
	path := filepath.Join(t.TempDir(), "notes.txt")
	if err := os.WriteFile(path, []byte("text"), 0644); err != nil {
		t.Fatal(err)
	}
	e := newTestEngine(DefaultOptions(), nil)

	_, err := e.Recognize(context.Background(), path)
	if !errors.Is(err, ErrIO) {
		t.Errorf("expected ErrIO, got %v", err)
	}
}

func TestRecognize_UndecodableImage(t *testing.T) {
	path := filepath.Join(t.TempDir(), "broken.jpg")
	if err := os.WriteFile(path, []byte("definitely not a jpeg"), 0644); err != nil {
		t.Fatal(err)
	}
	e := newTestEngine(DefaultOptions(), nil)

	_, err := e.Recognize(context.Background(), path)
	if !errors.Is(err, ErrModel) {
		t.Errorf("expected ErrModel, got %v", err)
	}
}

func TestRecognize_ReturnsBackendBatch(t *testing.T) {
	want := Batch{{
		Polygon:    rectPolygon(image.Rect(10, 20, 60, 40)),
		Text:       "HELLO",
		Confidence: 0.93,
	}}
	e := newTestEngine(DefaultOptions(), func(Options) (backend, error) {
		return &fakeBackend{batch: want}, nil
	})
	defer e.Close()

	got, err := e.Recognize(context.Background(), createTestImageFile(t, 80, 60))
	if err != nil {
		t.Fatalf("Recognize failed: %v", err)
	}
	if len(got) != 1 || got[0].Text != "HELLO" {
		t.Errorf("unexpected batch: %+v", got)
	}
}

func TestLoad_OnceAndSticky(t *testing.T) {
	var calls int32
	loadErr := errors.New("chi_sim.traineddata not found")
	e := newTestEngine(Options{PoolSize: 3}, func(Options) (backend, error) {
		atomic.AddInt32(&calls, 1)
		return nil, loadErr
	})

	path := createTestImageFile(t, 10, 10)
	for i := 0; i < 3; i++ {
		_, err := e.Recognize(context.Background(), path)
		if !errors.Is(err, ErrModel) {
			t.Fatalf("call %d: expected ErrModel, got %v", i, err)
		}
		if !errors.Is(err, loadErr) {
			t.Errorf("call %d: load cause lost: %v", i, err)
		}
	}
	if n := atomic.LoadInt32(&calls); n != 1 {
		t.Errorf("model load attempted %d times, want 1", n)
	}
}

func TestLoad_PartialFailureClosesOpened(t *testing.T) {
	var opened, closed int32
	e := newTestEngine(Options{PoolSize: 3}, func(Options) (backend, error) {
		if atomic.AddInt32(&opened, 1) == 3 {
			return nil, errors.New("out of memory")
		}
		return &fakeBackend{closed: &closed}, nil
	})

	if err := e.Load(); err == nil {
		t.Fatal("Load should fail")
	}
	if closed != 2 {
		t.Errorf("closed %d backends, want 2", closed)
	}
}

func TestRecognize_PoolBoundsConcurrency(t *testing.T) {
	var active, peak int32
	e := newTestEngine(Options{PoolSize: 2}, func(Options) (backend, error) {
		return &fakeBackend{delay: 20 * time.Millisecond, active: &active, peak: &peak}, nil
	})
	defer e.Close()

	path := createTestImageFile(t, 10, 10)
	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, err := e.Recognize(context.Background(), path); err != nil {
				t.Errorf("Recognize failed: %v", err)
			}
		}()
	}
	wg.Wait()

	if peak > 2 {
		t.Errorf("peak concurrent backend use %d exceeds pool size 2", peak)
	}
}

func TestRecognize_CanceledContext(t *testing.T) {
	e := newTestEngine(Options{PoolSize: 1}, func(Options) (backend, error) {
		return &fakeBackend{}, nil
	})
	defer e.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := e.Recognize(ctx, createTestImageFile(t, 10, 10))
	if !errors.Is(err, context.Canceled) {
		t.Errorf("expected context.Canceled, got %v", err)
	}
	if KindOf(err) != KindCanceled {
		t.Errorf("KindOf = %v, want canceled", KindOf(err))
	}
}

func TestRecognize_Preprocess(t *testing.T) {
	seen := make(chan string, 1)
	opts := DefaultOptions()
	opts.Preprocess = true
	e := newTestEngine(opts, func(Options) (backend, error) {
		return &fakeBackend{seen: seen}, nil
	})
	defer e.Close()

	src := createTestImageFile(t, 20, 20)
	if _, err := e.Recognize(context.Background(), src); err != nil {
		t.Fatalf("Recognize failed: %v", err)
	}

	got := <-seen
	if got == src {
		t.Error("preprocessing did not substitute a prepared image")
	}
	if _, err := os.Stat(got); !os.IsNotExist(err) {
		t.Errorf("prepared temp file was not removed: %v", err)
	}
}

func TestClose(t *testing.T) {
	var closed int32
	e := newTestEngine(Options{PoolSize: 2}, func(Options) (backend, error) {
		return &fakeBackend{closed: &closed}, nil
	})
	if err := e.Load(); err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if err := e.Close(); err != nil {
		t.Fatalf("Close failed: %v", err)
	}
	if closed != 2 {
		t.Errorf("closed %d backends, want 2", closed)
	}

	_, err := e.Recognize(context.Background(), createTestImageFile(t, 10, 10))
	if !errors.Is(err, ErrClosed) {
		t.Errorf("expected ErrClosed after Close, got %v", err)
	}
}

func TestDetectionResult_Rect(t *testing.T) {
	tests := []struct {
		name string
		poly []Point
		want image.Rectangle
	}{
		{"axis aligned", rectPolygon(image.Rect(5, 6, 50, 20)), image.Rect(5, 6, 50, 20)},
		{"rotated quad uses points 0 and 2", []Point{{10, 30}, {40, 10}, {50, 25}, {20, 45}}, image.Rect(10, 25, 50, 30)},
		{"swapped corners normalized", []Point{{50, 20}, {5, 20}, {5, 6}, {50, 6}}, image.Rect(5, 6, 50, 20)},
		{"too few points", []Point{{1, 1}}, image.Rectangle{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := DetectionResult{Polygon: tt.poly}.Rect()
			if got != tt.want {
				t.Errorf("Rect() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestClampConfidence(t *testing.T) {
	tests := []struct {
		in, want float64
	}{
		{95, 0.95},
		{-1, 0},
		{250, 1},
	}
	for _, tt := range tests {
		if got := clampConfidence(tt.in); got != tt.want {
			t.Errorf("clampConfidence(%v) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestOptions_LanguageList(t *testing.T) {
	got := Options{Languages: "eng+ chi_sim+"}.languageList()
	if len(got) != 2 || got[0] != "eng" || got[1] != "chi_sim" {
		t.Errorf("languageList = %v", got)
	}
}
