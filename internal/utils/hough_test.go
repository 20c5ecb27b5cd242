package utils

import (
	"image"
	"image/color"
	"math"
	"testing"

	"github.com/disintegration/imaging"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// barsImage draws horizontal black bars on white, a strong proxy for text
// baselines.
func barsImage(w, h int) *image.Gray {
	g := image.NewGray(image.Rect(0, 0, w, h))
	for i := range g.Pix {
		g.Pix[i] = 255
	}
	for _, y0 := range []int{h / 4, h / 2, 3 * h / 4} {
		for y := y0; y < y0+4 && y < h; y++ {
			for x := 10; x < w-10; x++ {
				g.SetGray(x, y, color.Gray{Y: 0})
			}
		}
	}
	return g
}

func TestEstimateSkewAngleHorizontal(t *testing.T) {
	angle, ok := EstimateSkewAngle(barsImage(200, 80), 10)
	require.True(t, ok)
	assert.InDelta(t, 0.0, angle, 1.0)
}

func TestEstimateSkewAngleCorrectsRotation(t *testing.T) {
	src := barsImage(240, 100)
	rotated := ToGray(imaging.Rotate(src, 5, color.White))

	angle, ok := EstimateSkewAngle(rotated, 10)
	require.True(t, ok)
	require.InDelta(t, 5.0, math.Abs(angle), 2.0)

	// Applying the estimate as the correction must reduce the skew.
	corrected := ToGray(imaging.Rotate(rotated, angle, color.White))
	residual, ok := EstimateSkewAngle(corrected, 10)
	if ok {
		assert.Less(t, math.Abs(residual), math.Abs(angle))
	}
}

func TestEstimateSkewAngleDegenerateInputs(t *testing.T) {
	_, ok := EstimateSkewAngle(nil, 10)
	assert.False(t, ok)

	tiny := image.NewGray(image.Rect(0, 0, 4, 4))
	_, ok = EstimateSkewAngle(tiny, 10)
	assert.False(t, ok)

	// Uniform image has no edges.
	flat := image.NewGray(image.Rect(0, 0, 64, 64))
	_, ok = EstimateSkewAngle(flat, 10)
	assert.False(t, ok)
}
