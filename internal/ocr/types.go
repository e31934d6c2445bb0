package ocr

import (
	"context"
	"image"
)

// Point is a 2D point in image pixel coordinates.
type Point struct {
	X int `json:"x"`
	Y int `json:"y"`
}

// DetectionResult is one recognized text region.
//
// Values are produced by a Recognizer and never modified afterwards.
type DetectionResult struct {
	// Polygon is the region outline, clockwise from the top-left corner.
	// Tesseract always yields four points.
	Polygon []Point `json:"polygon"`

	// Text is the recognized string.
	Text string `json:"text"`

	// Confidence is the recognition confidence (0.0 to 1.0).
	Confidence float64 `json:"confidence"`
}

// Rect approximates the region as an axis-aligned rectangle spanned by the
// polygon's first and third points. Coordinates are normalized so that Min is
// the top-left corner; the result is empty when the polygon has fewer than
// three points.
func (d DetectionResult) Rect() image.Rectangle {
	if len(d.Polygon) < 3 {
		return image.Rectangle{}
	}
	p0, p2 := d.Polygon[0], d.Polygon[2]
	return image.Rect(p0.X, p0.Y, p2.X, p2.Y)
}

// Batch is the ordered set of results for one image. Order is the detector's
// reading order, not a guaranteed spatial order. A Batch may be empty.
type Batch []DetectionResult

// Recognizer runs text detection and recognition over an image file.
//
// Implementations must be safe for concurrent use.
type Recognizer interface {
	Recognize(ctx context.Context, imagePath string) (Batch, error)
}

// Granularity selects the Tesseract iterator level used for regions.
type Granularity string

const (
	// GranularityWord yields one region per word.
	GranularityWord Granularity = "word"
	// GranularityLine yields one region per text line.
	GranularityLine Granularity = "line"
)

// Info describes the recognition backend.
type Info struct {
	Available      bool   `json:"available"`
	Version        string `json:"version,omitempty"`
	Backend        string `json:"backend"`
	Languages      string `json:"languages"`
	TessdataPrefix string `json:"tessdata_prefix,omitempty"`
	Error          string `json:"error,omitempty"`
}

// rectPolygon returns the clockwise outline of r starting at its top-left corner.
func rectPolygon(r image.Rectangle) []Point {
	return []Point{
		{X: r.Min.X, Y: r.Min.Y},
		{X: r.Max.X, Y: r.Min.Y},
		{X: r.Max.X, Y: r.Max.Y},
		{X: r.Min.X, Y: r.Max.Y},
	}
}

// clampConfidence maps a Tesseract percentage onto [0,1].
func clampConfidence(percent float64) float64 {
	c := percent / 100.0
	if c < 0 {
		return 0
	}
	if c > 1 {
		return 1
	}
	return c
}
