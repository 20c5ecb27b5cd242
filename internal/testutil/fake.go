package testutil

import (
	"context"
	"image"
	"sync"

	"github.com/shelfscan/expiryocr/internal/recognizer"
)

// FakeResponse scripts one recognition call.
type FakeResponse struct {
	Text       string
	Confidence float64
	Err        error
	// Panic makes the call panic, simulating a backend that throws on
	// malformed input.
	Panic bool
}

// FakeRecognizer replays scripted responses in call order. Run the pipeline
// with a single variant worker so variants arrive in canonical order.
// When the script is exhausted, Default is returned.
type FakeRecognizer struct {
	mu      sync.Mutex
	Script  []FakeResponse
	Default FakeResponse
	calls   int
}

// NewFakeRecognizer scripts the given responses.
func NewFakeRecognizer(script ...FakeResponse) *FakeRecognizer {
	return &FakeRecognizer{Script: script}
}

func (f *FakeRecognizer) Name() string { return "fake" }

// Calls reports how many recognitions were attempted.
func (f *FakeRecognizer) Calls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls
}

func (f *FakeRecognizer) Recognize(_ context.Context, _ image.Image) (recognizer.Result, error) {
	f.mu.Lock()
	resp := f.Default
	if f.calls < len(f.Script) {
		resp = f.Script[f.calls]
	}
	f.calls++
	f.mu.Unlock()

	if resp.Panic {
		panic("fake recognizer: scripted panic")
	}
	if resp.Err != nil {
		return recognizer.Result{}, resp.Err
	}
	return recognizer.Result{Text: resp.Text, Confidence: resp.Confidence}, nil
}

// StaticRecognizer returns the same result for every call.
type StaticRecognizer struct {
	Result recognizer.Result
}

func (s *StaticRecognizer) Name() string { return "static" }

func (s *StaticRecognizer) Recognize(_ context.Context, _ image.Image) (recognizer.Result, error) {
	return s.Result, nil
}
