// Package ocr provides the recognition service: text detection and
// recognition over an image file, using Tesseract.
//
// This package wraps the Tesseract OCR engine (via gosseract/v2). Given an
// image path, it returns an ordered Batch of DetectionResult values, each one
// a bounding polygon, the recognized string and a confidence score.
//
// # Prerequisites
//
// Tesseract and its language data must be installed on the system:
//   - Ubuntu/Debian: apt-get install tesseract-ocr tesseract-ocr-eng tesseract-ocr-chi-sim
//   - macOS: brew install tesseract tesseract-lang
//
// Set TESSDATA_PREFIX when the data lives outside Tesseract's default search
// path. Building without cgo produces an engine whose every call fails with
// ErrUnavailable.
//
// # Languages
//
// The engine recognizes Latin script and simplified Chinese by default
// ("eng+chi_sim"). Other Tesseract language codes can be configured.
//
// # Model Lifetime
//
// The Engine loads its language data once, on the first call that needs it
// (or on an explicit Load at startup). A load failure is remembered: the model
// is never reloaded and every later call fails with the same ErrModel error.
//
// A single Tesseract client is not safe for concurrent use, so the Engine
// keeps a fixed-size pool of initialized clients. Callers may invoke
// Recognize from any number of goroutines; calls beyond the pool size wait
// for a free client.
//
// # Error Handling
//
// Every error returned by Recognize is an *Error with a Kind:
//   - KindIO: the path is missing, unreadable, not a regular file, or has an
//     unsupported extension
//   - KindModel: the model could not be loaded, the image could not be
//     decoded, or Tesseract failed
//   - KindCanceled: the context ended before recognition started
//
// Use errors.Is with ErrIO, ErrModel or context.Canceled to test for a kind.
// There is no retry and no fallback: failures surface immediately.
package ocr
