//go:build !tesseract

package recognizer

import (
	"context"
	"errors"
	"image"
)

// ErrNoBackend reports that no recognition engine was linked into the binary.
var ErrNoBackend = errors.New("recognizer: no backend linked; build with -tags=tesseract or inject a custom recognizer")

type defaultRecognizer struct{}

func newDefaultRecognizer(_ Options) (Recognizer, error) { return &defaultRecognizer{}, nil }

func (d *defaultRecognizer) Recognize(_ context.Context, _ image.Image) (Result, error) {
	return Result{}, ErrNoBackend
}

func (d *defaultRecognizer) Name() string { return "none" }
