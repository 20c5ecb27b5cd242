package geometry

import (
	"image"
	"image/color"
	"log/slog"

	"github.com/disintegration/imaging"

	"github.com/shelfscan/expiryocr/internal/utils"
)

// Normalizer deskews, optionally perspective-corrects, and resizes line
// images to the configured target heights.
type Normalizer struct {
	cfg Config
}

// NewNormalizer validates the configuration and returns a normalizer.
func NewNormalizer(cfg Config) (*Normalizer, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &Normalizer{cfg: cfg}, nil
}

// Config returns the normalizer configuration.
func (n *Normalizer) Config() Config { return n.cfg }

// Normalize runs the full geometric pass and returns one image per
// configured target height. It never fails: degenerate geometry falls back
// to the untransformed image at each requested size.
func (n *Normalizer) Normalize(img image.Image) []image.Image {
	return n.NormalizeWithHint(img, false)
}

// NormalizeWithHint is Normalize with an upstream hint that global skew was
// already corrected, in which case the deskew stage is skipped to avoid
// double-correction.
func (n *Normalizer) NormalizeWithHint(img image.Image, skewCorrected bool) []image.Image {
	if img == nil || img.Bounds().Dx() == 0 || img.Bounds().Dy() == 0 {
		out := make([]image.Image, len(n.cfg.TargetHeights))
		for i, th := range n.cfg.TargetHeights {
			out[i] = imaging.New(1, th, color.White)
		}
		return out
	}

	working := img
	if n.cfg.EnableDeskew && !skewCorrected {
		working = n.deskew(working)
	}
	if n.cfg.EnablePerspective {
		gray := utils.ToGray(working)
		working, _ = applyPerspective(working, gray)
	}

	out := make([]image.Image, len(n.cfg.TargetHeights))
	for i, th := range n.cfg.TargetHeights {
		out[i] = n.resizeToHeight(working, th)
	}
	return out
}

// Deskewed returns the deskew-only result, used by tests to verify the
// perspective stage is a strict no-op when its checks fail.
func (n *Normalizer) Deskewed(img image.Image) image.Image {
	if !n.cfg.EnableDeskew || img == nil {
		return img
	}
	return n.deskew(img)
}

// deskew corrects the dominant skew when the Hough estimate is within
// MaxAngle. Estimates beyond MaxAngle are treated as unreliable for short
// crops and skipped. A residual re-check guards against an inverted
// estimate on sparse inputs.
func (n *Normalizer) deskew(img image.Image) image.Image {
	gray := utils.ToGray(img)
	angle, ok := utils.EstimateSkewAngle(gray, n.cfg.MaxAngle+5)
	if !ok || angle == 0 {
		return img
	}
	if abs(angle) > n.cfg.MaxAngle {
		slog.Debug("deskew skipped, estimate beyond max angle", "angle", angle, "max", n.cfg.MaxAngle)
		return img
	}
	corrected := imaging.Rotate(img, angle, color.White)
	if residual, ok := utils.EstimateSkewAngle(utils.ToGray(corrected), n.cfg.MaxAngle+5); ok {
		if abs(residual) > abs(angle) {
			slog.Debug("deskew rejected, residual worse than estimate", "angle", angle, "residual", residual)
			return img
		}
	}
	return corrected
}

// resizeToHeight scales to the target height preserving aspect ratio,
// clamping to MaxWidth if configured.
func (n *Normalizer) resizeToHeight(img image.Image, targetHeight int) image.Image {
	b := img.Bounds()
	w, h := b.Dx(), b.Dy()
	if h == 0 || w == 0 {
		return imaging.New(1, targetHeight, color.White)
	}
	newW := int(float64(w) * float64(targetHeight) / float64(h))
	if newW < 1 {
		newW = 1
	}
	if n.cfg.MaxWidth > 0 && newW > n.cfg.MaxWidth {
		newW = n.cfg.MaxWidth
	}
	return imaging.Resize(img, newW, targetHeight, imaging.Lanczos)
}

func abs(v float64) float64 {
	if v < 0 {
		return -v
	}
	return v
}
