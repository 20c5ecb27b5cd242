// Package recognizer defines the pluggable text recognition backend used to
// read preprocessed line images.
package recognizer

import (
	"context"
	"image"
	"strings"
)

// Result is one recognition outcome for a line image.
type Result struct {
	// Text is the raw recognized string, unpostprocessed.
	Text string `json:"text"`
	// Confidence is the backend's mean confidence in [0,1].
	Confidence float64 `json:"confidence"`
}

// Recognizer reads text from a single preprocessed line image. Implementations
// must be safe for concurrent use; the ensemble runs variants in parallel
// against one shared instance.
type Recognizer interface {
	// Recognize returns the recognized text and confidence for img.
	// An unreadable image is not an error: backends return an empty Result.
	// Errors are reserved for backend failures (missing engine, canceled
	// context, corrupted state).
	Recognize(ctx context.Context, img image.Image) (Result, error)

	// Name identifies the backend in logs and traces.
	Name() string
}

// Options carries backend hints shared by all implementations.
type Options struct {
	// Languages lists engine language packs to load, in priority order.
	Languages []string `mapstructure:"languages" yaml:"languages" json:"languages"`

	// Whitelist restricts recognition to the given characters. Empty means
	// unrestricted.
	Whitelist string `mapstructure:"whitelist" yaml:"whitelist" json:"whitelist"`
}

// DefaultOptions returns backend defaults tuned for date and lot codes.
func DefaultOptions() Options {
	return Options{
		Languages: []string{"eng"},
		Whitelist: "",
	}
}

// collapseWords joins non-empty words into a single line and averages their
// confidences, skipping blank entries entirely so they neither appear in the
// text nor dilute the mean. Backends that report per-word confidence in
// [0,100] share this aggregation; the returned confidence is in [0,1].
func collapseWords(words []string, confidences []float64) (string, float64) {
	kept := make([]string, 0, len(words))
	sum := 0.0
	for i, w := range words {
		w = strings.TrimSpace(w)
		if w == "" {
			continue
		}
		kept = append(kept, w)
		sum += confidences[i]
	}
	if len(kept) == 0 {
		return "", 0
	}
	return strings.Join(kept, " "), sum / float64(len(kept)) / 100
}

// New returns the recognizer compiled into this binary. Without a backend
// build tag this is a stub that fails with ErrNoBackend; the pipeline treats
// that as an empty recognition and degrades gracefully.
func New(opts Options) (Recognizer, error) {
	return newDefaultRecognizer(opts)
}
