// Package annotate draws recognition results onto a copy of the source image.
//
// Each region is outlined with an axis-aligned rectangle spanned by its
// polygon's first and third points, and labeled with its text and confidence
// just above the rectangle's top-left corner. Labels and rectangles that fall
// outside the image are clipped, never moved inside.
package annotate

import (
	"fmt"
	"image"
	"image/color"
	"image/draw"

	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"

	"github.com/ironsheep/ocr-viewer/internal/imaging"
	"github.com/ironsheep/ocr-viewer/internal/ocr"
)

// Style controls how regions are drawn.
type Style struct {
	// BoxColor is the rectangle outline color.
	BoxColor color.NRGBA

	// LabelColor is the label text color.
	LabelColor color.NRGBA

	// StrokeWidth is the outline thickness in pixels, drawn inward.
	StrokeWidth int

	// LabelOffset is how far above the rectangle's top edge the label starts.
	LabelOffset int
}

// DefaultStyle draws red 2px outlines with red labels 10px above the box.
func DefaultStyle() Style {
	red := color.NRGBA{R: 255, A: 255}
	return Style{
		BoxColor:    red,
		LabelColor:  red,
		StrokeWidth: 2,
		LabelOffset: 10,
	}
}

// StyleFromHex builds a style with the given outline/label color and width.
func StyleFromHex(hex string, strokeWidth int) (Style, error) {
	c, err := imaging.ParseColor(hex)
	if err != nil {
		return Style{}, err
	}
	s := DefaultStyle()
	s.BoxColor = c
	s.LabelColor = c
	if strokeWidth > 0 {
		s.StrokeWidth = strokeWidth
	}
	return s, nil
}

// Annotator renders batches onto images. The zero value is not usable; use New.
type Annotator struct {
	style Style
	face  font.Face
}

// New returns an Annotator drawing with style.
func New(style Style) *Annotator {
	if style.StrokeWidth < 1 {
		style.StrokeWidth = 1
	}
	return &Annotator{style: style, face: basicfont.Face7x13}
}

// Image is an annotated copy of a source image. It implements image.Image
// and cannot be modified.
type Image struct {
	img    *image.NRGBA
	boxes  []image.Rectangle
	labels []string
}

// ColorModel implements image.Image.
func (a *Image) ColorModel() color.Model { return a.img.ColorModel() }

// Bounds implements image.Image.
func (a *Image) Bounds() image.Rectangle { return a.img.Bounds() }

// At implements image.Image.
func (a *Image) At(x, y int) color.Color { return a.img.At(x, y) }

// Boxes returns the rectangles drawn, one per region, in batch order.
func (a *Image) Boxes() []image.Rectangle {
	return append([]image.Rectangle(nil), a.boxes...)
}

// Labels returns the label strings drawn, one per region, in batch order.
func (a *Image) Labels() []string {
	return append([]string(nil), a.labels...)
}

// Label formats the text stamped next to a region.
func Label(r ocr.DetectionResult) string {
	return fmt.Sprintf("%s (%.2f)", r.Text, r.Confidence)
}

// Annotate returns a new image with every region of batch drawn on a copy of
// img. img is never modified. With an empty batch the result is a plain copy.
func (an *Annotator) Annotate(img image.Image, batch ocr.Batch) *Image {
	bounds := img.Bounds()
	dst := image.NewNRGBA(bounds)
	draw.Draw(dst, bounds, img, bounds.Min, draw.Src)

	out := &Image{
		img:    dst,
		boxes:  make([]image.Rectangle, 0, len(batch)),
		labels: make([]string, 0, len(batch)),
	}

	for _, r := range batch {
		rect := r.Rect()
		label := Label(r)
		an.drawOutline(dst, rect)
		an.drawLabel(dst, rect.Min.X, rect.Min.Y-an.style.LabelOffset, label)
		out.boxes = append(out.boxes, rect)
		out.labels = append(out.labels, label)
	}

	return out
}

// drawOutline strokes rect inward. The max corner is inclusive, so a box
// from (10,10) to (20,20) covers columns 10 through 20.
func (an *Annotator) drawOutline(dst *image.NRGBA, rect image.Rectangle) {
	c := an.style.BoxColor
	minX, minY, maxX, maxY := rect.Min.X, rect.Min.Y, rect.Max.X, rect.Max.Y

	for k := 0; k < an.style.StrokeWidth; k++ {
		for x := minX; x <= maxX; x++ {
			dst.SetNRGBA(x, minY+k, c)
			dst.SetNRGBA(x, maxY-k, c)
		}
		for y := minY; y <= maxY; y++ {
			dst.SetNRGBA(minX+k, y, c)
			dst.SetNRGBA(maxX-k, y, c)
		}
	}
}

// drawLabel stamps text with its top-left corner at (x, y).
// Runes missing from the bitmap face render as U+FFFD.
func (an *Annotator) drawLabel(dst *image.NRGBA, x, y int, text string) {
	d := &font.Drawer{
		Dst:  dst,
		Src:  image.NewUniform(an.style.LabelColor),
		Face: an.face,
		Dot:  fixed.Point26_6{X: fixed.I(x), Y: fixed.I(y) + an.face.Metrics().Ascent},
	}
	d.DrawString(text)
}
