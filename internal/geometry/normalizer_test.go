package geometry

import (
	"image"
	"image/color"
	"math"
	"testing"

	"github.com/disintegration/imaging"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shelfscan/expiryocr/internal/testutil"
	"github.com/shelfscan/expiryocr/internal/utils"
)

func TestNormalizeTargetHeights(t *testing.T) {
	cfg := DefaultConfig()
	cfg.TargetHeights = []int{32, 64}
	n, err := NewNormalizer(cfg)
	require.NoError(t, err)

	src := imaging.New(200, 50, color.White)
	out := n.Normalize(src)
	require.Len(t, out, 2)
	assert.Equal(t, 32, out[0].Bounds().Dy())
	assert.Equal(t, 64, out[1].Bounds().Dy())

	// Aspect preserved.
	assert.InDelta(t, 200.0/50.0, float64(out[0].Bounds().Dx())/32.0, 0.1)
}

func TestNormalizeMaxWidthClamp(t *testing.T) {
	cfg := DefaultConfig()
	cfg.TargetHeights = []int{48}
	cfg.MaxWidth = 100
	n, err := NewNormalizer(cfg)
	require.NoError(t, err)

	out := n.Normalize(imaging.New(800, 40, color.White))
	require.Len(t, out, 1)
	assert.Equal(t, 100, out[0].Bounds().Dx())
	assert.Equal(t, 48, out[0].Bounds().Dy())
}

func TestNormalizeNilAndEmptyInput(t *testing.T) {
	n, err := NewNormalizer(DefaultConfig())
	require.NoError(t, err)

	for _, img := range []image.Image{nil, imaging.New(0, 0, color.White)} {
		out := n.Normalize(img)
		require.Len(t, out, len(n.Config().TargetHeights))
		for i, th := range n.Config().TargetHeights {
			assert.Equal(t, th, out[i].Bounds().Dy())
		}
	}
}

func TestDeskewReducesRotation(t *testing.T) {
	cfg := DefaultConfig()
	cfg.MaxAngle = 10
	n, err := NewNormalizer(cfg)
	require.NoError(t, err)

	img := testutil.GenerateTextImage(testutil.TextImageConfig{
		Lines:      []string{"LOTE 2025 VAL 12/2026 BATCH 88"},
		Width:      360,
		Height:     60,
		Background: color.White,
		Foreground: color.Black,
		Rotation:   7,
	})

	deskewed := n.Deskewed(img)
	residual, ok := utils.EstimateSkewAngle(utils.ToGray(deskewed), 15)
	if ok {
		assert.Less(t, math.Abs(residual), 2.0,
			"post-correction estimate should be near zero")
	}
	// The corrected image must not be more skewed than the input.
	if orig, okOrig := utils.EstimateSkewAngle(utils.ToGray(img), 15); okOrig && ok {
		assert.LessOrEqual(t, math.Abs(residual), math.Abs(orig))
	}
}

func TestDeskewSkipsLargeAngles(t *testing.T) {
	cfg := DefaultConfig()
	cfg.MaxAngle = 3
	n, err := NewNormalizer(cfg)
	require.NoError(t, err)

	// 7 degrees exceeds the 3 degree gate; the estimate is treated as
	// unreliable and the image passes through untouched.
	img := testutil.GenerateTextImage(testutil.TextImageConfig{
		Lines:      []string{"LOTE 2025 VAL 12/2026 BATCH 88"},
		Width:      360,
		Height:     60,
		Background: color.White,
		Foreground: color.Black,
		Rotation:   7,
	})
	out := n.Deskewed(img)
	assert.Same(t, img, out)
}

func TestPerspectiveNoOpWhenChecksFail(t *testing.T) {
	// Blank image: no content quad at all.
	blank := imaging.New(60, 40, color.White)
	out, warped := applyPerspective(blank, utils.ToGray(blank))
	assert.False(t, warped)
	assert.Same(t, image.Image(blank), out, "failed checks must return the input untouched")

	// Tiny image below the minimum warp dimension.
	tiny := imaging.New(4, 4, color.Black)
	out, warped = applyPerspective(tiny, utils.ToGray(tiny))
	assert.False(t, warped)
	assert.Same(t, image.Image(tiny), out)

	// Small blob: content area far below the 30% area ratio check.
	small := imaging.New(120, 80, color.White)
	for y := 30; y < 38; y++ {
		for x := 50; x < 62; x++ {
			small.Set(x, y, color.Black)
		}
	}
	out, warped = applyPerspective(small, utils.ToGray(small))
	assert.False(t, warped)
	assert.Same(t, image.Image(small), out)
}

func TestNormalizeWithPerspectiveMatchesDeskewOnUnsafeInput(t *testing.T) {
	cfg := DefaultConfig()
	cfg.EnablePerspective = true
	withPersp, err := NewNormalizer(cfg)
	require.NoError(t, err)

	cfg2 := cfg
	cfg2.EnablePerspective = false
	withoutPersp, err := NewNormalizer(cfg2)
	require.NoError(t, err)

	// Sparse content fails the area-ratio check, so the perspective stage
	// must be a strict no-op and both outputs identical.
	img := imaging.New(120, 80, color.White)
	for y := 30; y < 38; y++ {
		for x := 50; x < 62; x++ {
			img.Set(x, y, color.Black)
		}
	}

	a := withPersp.Normalize(img)
	b := withoutPersp.Normalize(img)
	require.Len(t, a, len(b))
	for i := range a {
		ga, gb := utils.ToGray(a[i]), utils.ToGray(b[i])
		require.Equal(t, ga.Bounds(), gb.Bounds())
		assert.Equal(t, ga.Pix, gb.Pix, "perspective must be pixel-identical to deskew-only")
	}
}

func TestConfigValidate(t *testing.T) {
	cfg := DefaultConfig()
	cfg.TargetHeights = nil
	_, err := NewNormalizer(cfg)
	assert.Error(t, err)

	cfg = DefaultConfig()
	cfg.TargetHeights = []int{0}
	_, err = NewNormalizer(cfg)
	assert.Error(t, err)

	cfg = DefaultConfig()
	cfg.MaxAngle = -1
	_, err = NewNormalizer(cfg)
	assert.Error(t, err)
}
