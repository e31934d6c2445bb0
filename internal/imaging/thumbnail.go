package imaging

import (
	"image"

	"github.com/disintegration/imaging"
)

// Display thumbnail size used by the image panel.
const (
	ThumbnailWidth  = 400
	ThumbnailHeight = 300
)

// Thumbnail resizes img to exactly width x height for display. The aspect
// ratio is not preserved, matching the fixed-size image panel.
func Thumbnail(img image.Image, width, height int) *image.NRGBA {
	if width <= 0 || height <= 0 {
		return imaging.Clone(img)
	}
	return imaging.Resize(img, width, height, imaging.Lanczos)
}

// Clone returns an independent NRGBA copy of img with bounds starting at (0,0).
func Clone(img image.Image) *image.NRGBA {
	return imaging.Clone(img)
}
