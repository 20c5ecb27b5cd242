//go:build !tesseract

package recognizer

import (
	"context"
	"image"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultRecognizerReportsNoBackend(t *testing.T) {
	r, err := New(DefaultOptions())
	require.NoError(t, err)
	assert.Equal(t, "none", r.Name())

	_, err = r.Recognize(context.Background(), image.NewGray(image.Rect(0, 0, 2, 2)))
	assert.ErrorIs(t, err, ErrNoBackend)
}
