//go:build tesseract

package recognizer

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"image/png"
	"sync"

	"github.com/otiai10/gosseract/v2"
)

// newDefaultRecognizer returns the Tesseract-backed implementation when the
// build tag is enabled.
func newDefaultRecognizer(opts Options) (Recognizer, error) {
	client := gosseract.NewClient()
	if len(opts.Languages) > 0 {
		if err := client.SetLanguage(opts.Languages...); err != nil {
			client.Close()
			return nil, fmt.Errorf("set languages: %w", err)
		}
	}
	if err := client.SetPageSegMode(gosseract.PSM_SINGLE_LINE); err != nil {
		client.Close()
		return nil, fmt.Errorf("set page segmentation mode: %w", err)
	}
	if opts.Whitelist != "" {
		if err := client.SetWhitelist(opts.Whitelist); err != nil {
			client.Close()
			return nil, fmt.Errorf("set whitelist: %w", err)
		}
	}
	return &tesseractRecognizer{client: client}, nil
}

// tesseractRecognizer wraps a single gosseract client. The client is not
// safe for concurrent use, so calls are serialized with a mutex.
type tesseractRecognizer struct {
	mu     sync.Mutex
	client *gosseract.Client
}

func (t *tesseractRecognizer) Name() string { return "tesseract" }

func (t *tesseractRecognizer) Recognize(ctx context.Context, img image.Image) (Result, error) {
	if err := ctx.Err(); err != nil {
		return Result{}, err
	}

	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return Result{}, fmt.Errorf("encode line image: %w", err)
	}

	t.mu.Lock()
	defer t.mu.Unlock()

	if err := t.client.SetImageFromBytes(buf.Bytes()); err != nil {
		return Result{}, fmt.Errorf("set image: %w", err)
	}
	boxes, err := t.client.GetBoundingBoxes(gosseract.RIL_WORD)
	if err != nil {
		return Result{}, fmt.Errorf("recognize: %w", err)
	}
	if len(boxes) == 0 {
		return Result{}, nil
	}

	words := make([]string, len(boxes))
	confidences := make([]float64, len(boxes))
	for i, b := range boxes {
		words[i] = b.Word
		confidences[i] = b.Confidence
	}
	text, confidence := collapseWords(words, confidences)
	if text == "" {
		return Result{}, nil
	}
	return Result{Text: text, Confidence: confidence}, nil
}

// Close releases the underlying Tesseract client.
func (t *tesseractRecognizer) Close() error {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.client.Close()
}
