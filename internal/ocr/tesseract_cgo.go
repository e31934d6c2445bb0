//go:build cgo

package ocr

import (
	"bytes"
	"fmt"
	"image"
	"image/png"
	"strings"

	"github.com/otiai10/gosseract/v2"
)

const backendName = "gosseract (cpu)"

// tessClient is a Tesseract client bound to one set of languages.
type tessClient struct {
	client *gosseract.Client
	level  gosseract.PageIteratorLevel
}

// openBackend creates a client and forces Tesseract to load its language
// data by recognizing a tiny blank image, so a missing or broken model fails
// here rather than on the first real request.
func openBackend(opts Options) (backend, error) {
	client := gosseract.NewClient()

	if opts.TessdataPrefix != "" {
		if err := client.SetTessdataPrefix(opts.TessdataPrefix); err != nil {
			client.Close()
			return nil, fmt.Errorf("failed to set tessdata path: %w", err)
		}
	}

	langs := opts.languageList()
	if len(langs) == 0 {
		client.Close()
		return nil, fmt.Errorf("no recognition languages configured")
	}
	if err := client.SetLanguage(langs...); err != nil {
		client.Close()
		return nil, fmt.Errorf("failed to set language: %w", err)
	}

	warmup, err := blankPNG()
	if err != nil {
		client.Close()
		return nil, err
	}
	if err := client.SetImageFromBytes(warmup); err != nil {
		client.Close()
		return nil, fmt.Errorf("failed to set warm-up image: %w", err)
	}
	if _, err := client.Text(); err != nil {
		client.Close()
		return nil, fmt.Errorf("failed to initialize tesseract: %w", err)
	}

	level := gosseract.RIL_WORD
	if opts.Granularity == GranularityLine {
		level = gosseract.RIL_TEXTLINE
	}

	return &tessClient{client: client, level: level}, nil
}

func (t *tessClient) recognize(imagePath string) (Batch, error) {
	if err := t.client.SetImage(imagePath); err != nil {
		return nil, fmt.Errorf("failed to set image: %w", err)
	}

	boxes, err := t.client.GetBoundingBoxes(t.level)
	if err != nil {
		return nil, fmt.Errorf("failed to get bounding boxes: %w", err)
	}

	batch := make(Batch, 0, len(boxes))
	for _, box := range boxes {
		text := strings.TrimSpace(box.Word)
		if text == "" {
			continue
		}
		batch = append(batch, DetectionResult{
			Polygon:    rectPolygon(box.Box),
			Text:       text,
			Confidence: clampConfidence(float64(box.Confidence)),
		})
	}
	return batch, nil
}

func (t *tessClient) close() {
	t.client.Close()
}

// backendVersion returns the linked Tesseract version.
func backendVersion() string {
	client := gosseract.NewClient()
	defer client.Close()
	return client.Version()
}

func blankPNG() ([]byte, error) {
	img := image.NewGray(image.Rect(0, 0, 8, 8))
	for i := range img.Pix {
		img.Pix[i] = 0xff
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return nil, fmt.Errorf("failed to encode warm-up image: %w", err)
	}
	return buf.Bytes(), nil
}
