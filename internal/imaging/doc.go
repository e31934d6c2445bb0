// Package imaging provides the image I/O used by the recognition pipeline.
//
// It decodes the accepted input formats, validates file extensions, prepares
// images for OCR, produces display thumbnails and writes annotated output.
// All operations work with standard Go image.Image values and use a coordinate
// system where (0,0) is at the top-left corner, X increases rightward, and Y
// increases downward.
//
// # Accepted Formats
//
// Input images must carry one of these extensions (case-insensitive):
//   - .jpg, .jpeg
//   - .png
//   - .bmp
//   - .tiff, .tif
//
// Decoders for all of them are registered by this package, so importing it is
// enough for image.Decode to understand every accepted file.
//
// # Thread Safety
//
// Every function is stateless and safe for concurrent use. Functions never
// modify the image they are given; results are always new images.
//
// # Error Handling
//
// Open distinguishes between files that cannot be read (the underlying
// fs errors are wrapped and remain visible to errors.Is) and files that are
// readable but cannot be decoded (ErrDecode). Paths with an extension outside
// the accepted list fail with ErrUnsupportedFormat before any disk access.
package imaging
