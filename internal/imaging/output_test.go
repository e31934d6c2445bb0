package imaging

import (
	"image"
	"image/color"
	"os"
	"path/filepath"
	"testing"
)

func TestSaveJPEG_Overwrites(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "output_with_boxes.jpg")

	if err := SaveJPEG(createTestImage(20, 10, color.White), path); err != nil {
		t.Fatalf("first SaveJPEG failed: %v", err)
	}
	if err := SaveJPEG(createTestImage(64, 48, color.Black), path); err != nil {
		t.Fatalf("second SaveJPEG failed: %v", err)
	}

	img, err := Open(path)
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	if b := img.Bounds(); b.Dx() != 64 || b.Dy() != 48 {
		t.Errorf("file was not replaced: got %dx%d", b.Dx(), b.Dy())
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 1 {
		t.Errorf("temporary files left behind: %d entries", len(entries))
	}
}

func TestSaveJPEG_MissingDirectory(t *testing.T) {
	err := SaveJPEG(createTestImage(4, 4, color.White), "/nonexistent/dir/out.jpg")
	if err == nil {
		t.Error("SaveJPEG should fail when the directory does not exist")
	}
}

func TestThumbnail(t *testing.T) {
	src := createTestImage(800, 200, color.RGBA{10, 20, 30, 255})
	thumb := Thumbnail(src, ThumbnailWidth, ThumbnailHeight)
	if b := thumb.Bounds(); b.Dx() != ThumbnailWidth || b.Dy() != ThumbnailHeight {
		t.Errorf("Thumbnail size = %dx%d, want %dx%d", b.Dx(), b.Dy(), ThumbnailWidth, ThumbnailHeight)
	}
	if src.Bounds() != image.Rect(0, 0, 800, 200) {
		t.Error("Thumbnail modified the source image")
	}
}

func TestPrepareForOCR(t *testing.T) {
	src := createTestImage(30, 20, color.RGBA{255, 0, 0, 255})
	out := PrepareForOCR(src)
	if out.Bounds().Dx() != 30 || out.Bounds().Dy() != 20 {
		t.Errorf("PrepareForOCR changed geometry: %v", out.Bounds())
	}
	r, g, b, _ := out.At(5, 5).RGBA()
	if r != g || g != b {
		t.Errorf("PrepareForOCR output is not gray: %d %d %d", r, g, b)
	}
	if src.At(5, 5) != (color.RGBA{255, 0, 0, 255}) {
		t.Error("PrepareForOCR modified the source image")
	}
}

func TestSaveTemp(t *testing.T) {
	path, err := SaveTemp(createTestImage(8, 8, color.White), "ocr-test")
	if err != nil {
		t.Fatalf("SaveTemp failed: %v", err)
	}
	defer os.Remove(path)

	if _, err := Open(path); err != nil {
		t.Errorf("temp file is not a readable image: %v", err)
	}
}
