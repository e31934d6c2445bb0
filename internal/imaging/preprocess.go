package imaging

import (
	"fmt"
	"image"
	"image/png"
	"os"

	"github.com/anthonynsimon/bild/adjust"
	"github.com/anthonynsimon/bild/effect"
)

// PreprocessContrast is the contrast change applied by PrepareForOCR.
const PreprocessContrast = 0.3

// PrepareForOCR converts img to grayscale and raises its contrast, which
// usually helps Tesseract on photographs and low-contrast scans.
// Geometry is unchanged, so boxes found on the result apply to img.
func PrepareForOCR(img image.Image) image.Image {
	gray := effect.Grayscale(img)
	return adjust.Contrast(gray, PreprocessContrast)
}

// SaveTemp writes img to a new temporary PNG file and returns its path.
//
// Each call creates a distinct file, so concurrent callers never collide.
// The caller is responsible for deleting the file with os.Remove().
func SaveTemp(img image.Image, prefix string) (string, error) {
	f, err := os.CreateTemp("", prefix+"-*.png")
	if err != nil {
		return "", fmt.Errorf("failed to create temp file: %w", err)
	}
	path := f.Name()

	if err := png.Encode(f, img); err != nil {
		f.Close()
		os.Remove(path)
		return "", fmt.Errorf("failed to encode temp image: %w", err)
	}
	if err := f.Close(); err != nil {
		os.Remove(path)
		return "", fmt.Errorf("failed to close temp image: %w", err)
	}

	return path, nil
}
