package recognizer

import (
	"context"
	"errors"
	"image"
	"strings"
)

// Chain tries each recognizer in order and returns the first non-empty
// result. It exists for deployments that pair a fast primary engine with a
// slower fallback.
type Chain struct {
	backends []Recognizer
}

// NewChain builds a fallback chain. At least one backend is required.
func NewChain(backends ...Recognizer) (*Chain, error) {
	if len(backends) == 0 {
		return nil, errors.New("recognizer: chain needs at least one backend")
	}
	return &Chain{backends: backends}, nil
}

func (c *Chain) Name() string {
	names := make([]string, len(c.backends))
	for i, b := range c.backends {
		names[i] = b.Name()
	}
	return "chain(" + strings.Join(names, ",") + ")"
}

// Recognize returns the first backend result with non-empty text. Backend
// errors are collected and returned only when every backend fails; a single
// working backend hides upstream failures.
func (c *Chain) Recognize(ctx context.Context, img image.Image) (Result, error) {
	var errs []error
	for _, b := range c.backends {
		if err := ctx.Err(); err != nil {
			return Result{}, err
		}
		res, err := b.Recognize(ctx, img)
		if err != nil {
			errs = append(errs, err)
			continue
		}
		if res.Text != "" {
			return res, nil
		}
	}
	if len(errs) == len(c.backends) {
		return Result{}, errors.Join(errs...)
	}
	return Result{}, nil
}
