package photometric

import (
	"image"
	"log/slog"
	"math"

	"github.com/anthonynsimon/bild/effect"

	"github.com/shelfscan/expiryocr/internal/utils"
)

// Normalizer applies lighting and contrast correction to line images.
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

// Normalize runs the full photometric chain on a line image and returns a
// grayscale result: denoise, shadow removal, brightness correction, CLAHE,
// and optional sharpening, each gated by its config toggle.
func (n *Normalizer) Normalize(img image.Image) *image.Gray {
	g := n.base(img)
	g = n.clahe(g, n.cfg.CLAHEClipLimit)
	if n.cfg.SharpenEnabled {
		g = n.sharpen(g)
	}
	return g
}

// base runs the stages shared by every variant: denoise, shadow removal and
// brightness correction. CLAHE and sharpening are left to the variant
// generator, which needs them at differing strengths.
func (n *Normalizer) base(img image.Image) *image.Gray {
	g := utils.ToGray(img)
	g = n.denoise(g)
	if n.cfg.ShadowRemoval {
		g = removeShadow(g, n.cfg.ShadowKernelSize)
	}
	if n.cfg.BrightnessNormalize {
		g = n.normalizeBrightness(g)
	}
	return g
}

func (n *Normalizer) denoise(g *image.Gray) *image.Gray {
	switch n.cfg.DenoiseMethod {
	case DenoiseMedian:
		return utils.ToGray(effect.Median(g, n.cfg.DenoiseRadius))
	case DenoiseBilateral:
		return bilateral(g, int(n.cfg.DenoiseRadius), n.cfg.BilateralSigmaColor)
	default:
		return g
	}
}

func (n *Normalizer) sharpen(g *image.Gray) *image.Gray {
	return utils.ToGray(effect.UnsharpMask(g, 2.0, n.cfg.SharpenStrength))
}

// normalizeBrightness shifts intensities so the mean moves toward the
// configured target. A pure shift (no gain) guarantees the new mean lands
// strictly closer to the target unless clipping saturates the image, so
// repeated application converges.
func (n *Normalizer) normalizeBrightness(g *image.Gray) *image.Gray {
	mean := utils.MeanIntensity(g)
	dev := n.cfg.TargetBrightness - mean
	if math.Abs(dev) <= n.cfg.BrightnessTolerance {
		return g
	}
	slog.Debug("brightness correction", "mean", mean, "target", n.cfg.TargetBrightness)

	out := image.NewGray(g.Bounds())
	for i, v := range g.Pix {
		out.Pix[i] = clampByte(float64(v) + dev)
	}
	return out
}

// bilateral is an edge-preserving smoother: each pixel is replaced by a
// weighted mean of its window where weights fall off with both spatial
// distance and intensity difference, so text edges survive where a Gaussian
// would smear them. Window is (2*radius+1)^2.
func bilateral(g *image.Gray, radius int, sigmaColor float64) *image.Gray {
	if radius < 1 {
		return g
	}
	if sigmaColor <= 0 {
		sigmaColor = 25
	}
	b := g.Bounds()
	w, h := b.Dx(), b.Dy()
	out := image.NewGray(b)

	sigmaSpace := float64(radius)
	// Precomputed lookup tables keep the inner loop to two multiplies.
	spatial := make([]float64, (2*radius+1)*(2*radius+1))
	for dy := -radius; dy <= radius; dy++ {
		for dx := -radius; dx <= radius; dx++ {
			d2 := float64(dx*dx + dy*dy)
			spatial[(dy+radius)*(2*radius+1)+(dx+radius)] = math.Exp(-d2 / (2 * sigmaSpace * sigmaSpace))
		}
	}
	var colorLUT [256]float64
	for d := range 256 {
		colorLUT[d] = math.Exp(-float64(d*d) / (2 * sigmaColor * sigmaColor))
	}

	for y := range h {
		for x := range w {
			center := g.Pix[y*g.Stride+x]
			var sum, wsum float64
			for dy := -radius; dy <= radius; dy++ {
				yy := y + dy
				if yy < 0 || yy >= h {
					continue
				}
				for dx := -radius; dx <= radius; dx++ {
					xx := x + dx
					if xx < 0 || xx >= w {
						continue
					}
					v := g.Pix[yy*g.Stride+xx]
					d := int(v) - int(center)
					if d < 0 {
						d = -d
					}
					wt := spatial[(dy+radius)*(2*radius+1)+(dx+radius)] * colorLUT[d]
					sum += wt * float64(v)
					wsum += wt
				}
			}
			out.Pix[y*out.Stride+x] = clampByte(sum / wsum)
		}
	}
	return out
}

func clampByte(v float64) uint8 {
	if v < 0 {
		return 0
	}
	if v > 255 {
		return 255
	}
	return uint8(v + 0.5)
}
