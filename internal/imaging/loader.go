package imaging

import (
	"errors"
	"fmt"
	"image"
	_ "image/jpeg" // Register JPEG format decoder
	_ "image/png"  // Register PNG format decoder
	"os"
	"path/filepath"
	"strings"

	_ "golang.org/x/image/bmp"  // Register BMP format decoder
	_ "golang.org/x/image/tiff" // Register TIFF format decoder
)

var (
	// ErrUnsupportedFormat is returned for paths whose extension is not accepted.
	ErrUnsupportedFormat = errors.New("unsupported image format")

	// ErrDecode is returned when a readable file does not hold a valid image.
	ErrDecode = errors.New("failed to decode image")
)

// SupportedExtensions lists the accepted input extensions, lower case.
var SupportedExtensions = []string{".jpg", ".jpeg", ".png", ".bmp", ".tiff", ".tif"}

// IsSupported reports whether path carries an accepted image extension.
func IsSupported(path string) bool {
	ext := strings.ToLower(filepath.Ext(path))
	for _, e := range SupportedExtensions {
		if ext == e {
			return true
		}
	}
	return false
}

// CheckFile verifies that path names a readable regular file with an accepted
// extension, without decoding it.
//
// Returns:
//   - os.FileInfo for the file on success.
//   - ErrUnsupportedFormat (wrapped) for an unknown extension.
//   - The wrapped fs error (fs.ErrNotExist, fs.ErrPermission, ...) when the
//     file cannot be stat'd or opened.
func CheckFile(path string) (os.FileInfo, error) {
	if !IsSupported(path) {
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedFormat, filepath.Ext(path))
	}

	info, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("failed to stat image: %w", err)
	}
	if !info.Mode().IsRegular() {
		return nil, fmt.Errorf("failed to open image: %s is not a regular file", path)
	}

	// Stat succeeds on unreadable files; opening is the real check.
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open image: %w", err)
	}
	f.Close()

	return info, nil
}

// Open validates and decodes the image at path.
//
// The returned image's concrete type depends on the file format and color
// model (e.g., *image.RGBA, *image.NRGBA, *image.YCbCr, *image.Gray).
func Open(path string) (image.Image, error) {
	if _, err := CheckFile(path); err != nil {
		return nil, err
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open image: %w", err)
	}
	defer f.Close()

	img, _, err := image.Decode(f)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrDecode, err)
	}

	return img, nil
}

// DecodeConfig validates path like CheckFile and reads the image header,
// returning its dimensions and format name without decoding pixel data.
func DecodeConfig(path string) (image.Config, string, error) {
	if _, err := CheckFile(path); err != nil {
		return image.Config{}, "", err
	}

	f, err := os.Open(path)
	if err != nil {
		return image.Config{}, "", fmt.Errorf("failed to open image: %w", err)
	}
	defer f.Close()

	cfg, format, err := image.DecodeConfig(f)
	if err != nil {
		return image.Config{}, "", fmt.Errorf("%w: %v", ErrDecode, err)
	}
	return cfg, format, nil
}
