package ocr

import (
	"context"
	"errors"
	"fmt"
	"io/fs"

	"github.com/ironsheep/ocr-viewer/internal/imaging"
)

// Kind classifies recognition failures.
type Kind int

const (
	// KindIO covers missing, unreadable or unsupported input files.
	KindIO Kind = iota + 1
	// KindModel covers model load failures, undecodable images and engine errors.
	KindModel
	// KindCanceled means the request was abandoned before it ran.
	KindCanceled
)

func (k Kind) String() string {
	switch k {
	case KindIO:
		return "io"
	case KindModel:
		return "model"
	case KindCanceled:
		return "canceled"
	default:
		return "unknown"
	}
}

var (
	// ErrIO matches every error of KindIO.
	ErrIO = errors.New("image file error")

	// ErrModel matches every error of KindModel.
	ErrModel = errors.New("recognition model error")

	// ErrUnavailable is returned when the binary was built without Tesseract support.
	ErrUnavailable = errors.New("tesseract support not compiled in; rebuild with cgo enabled")

	// ErrClosed is returned by an Engine after Close.
	ErrClosed = errors.New("recognition engine closed")
)

// Error wraps a recognition failure with its kind and context.
type Error struct {
	// Kind classifies the failure.
	Kind Kind

	// Op is the operation that failed (e.g., "Recognize", "Load").
	Op string

	// Path is the image path involved, if any.
	Path string

	// Err is the underlying error.
	Err error
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.Path != "" {
		return fmt.Sprintf("ocr: %s %s: %v", e.Op, e.Path, e.Err)
	}
	return fmt.Sprintf("ocr: %s: %v", e.Op, e.Err)
}

// Unwrap returns the underlying error for error unwrapping.
func (e *Error) Unwrap() error {
	return e.Err
}

// Is reports whether target is the sentinel for e's kind.
func (e *Error) Is(target error) bool {
	switch target {
	case ErrIO:
		return e.Kind == KindIO
	case ErrModel:
		return e.Kind == KindModel
	}
	return false
}

// KindOf returns the Kind of err, or 0 when err is not an *Error.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return 0
}

// classify wraps err as an *Error, deriving its kind from the cause.
func classify(op, path string, err error) error {
	if err == nil {
		return nil
	}

	var e *Error
	if errors.As(err, &e) {
		return err // Already wrapped
	}

	kind := KindModel
	switch {
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		kind = KindCanceled
	case errors.Is(err, imaging.ErrDecode):
		kind = KindModel
	case errors.Is(err, imaging.ErrUnsupportedFormat),
		errors.Is(err, fs.ErrNotExist),
		errors.Is(err, fs.ErrPermission),
		isPathError(err):
		kind = KindIO
	}

	return &Error{Kind: kind, Op: op, Path: path, Err: err}
}

func isPathError(err error) bool {
	var pe *fs.PathError
	return errors.As(err, &pe)
}
