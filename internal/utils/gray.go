package utils

import (
	"image"
	"image/draw"

	"github.com/disintegration/imaging"
	"gonum.org/v1/gonum/stat"
)

// ToGray converts any image to an 8-bit grayscale raster. A new buffer is
// always returned; the input is never mutated.
func ToGray(img image.Image) *image.Gray {
	if g, ok := img.(*image.Gray); ok {
		out := image.NewGray(g.Bounds())
		copy(out.Pix, g.Pix)
		return out
	}
	flat := imaging.Grayscale(img)
	b := flat.Bounds()
	out := image.NewGray(image.Rect(0, 0, b.Dx(), b.Dy()))
	draw.Draw(out, out.Bounds(), flat, b.Min, draw.Src)
	return out
}

// MeanIntensity returns the mean pixel intensity of a grayscale image in [0,255].
func MeanIntensity(g *image.Gray) float64 {
	if g == nil || len(g.Pix) == 0 {
		return 0
	}
	var sum float64
	for _, v := range g.Pix {
		sum += float64(v)
	}
	return sum / float64(len(g.Pix))
}

// IntensityStats returns mean and standard deviation of pixel intensity.
func IntensityStats(g *image.Gray) (mean, stddev float64) {
	if g == nil || len(g.Pix) == 0 {
		return 0, 0
	}
	xs := make([]float64, len(g.Pix))
	for i, v := range g.Pix {
		xs[i] = float64(v)
	}
	mean = stat.Mean(xs, nil)
	stddev = stat.StdDev(xs, nil)
	return mean, stddev
}

// Histogram256 computes the 256-bin intensity histogram of a grayscale image.
func Histogram256(g *image.Gray) [256]int {
	var hist [256]int
	for _, v := range g.Pix {
		hist[v]++
	}
	return hist
}

// OtsuThreshold computes the Otsu threshold over the intensity histogram,
// maximizing between-class variance.
func OtsuThreshold(g *image.Gray) uint8 {
	hist := Histogram256(g)
	total := len(g.Pix)
	if total == 0 {
		return 128
	}

	var totalSum float64
	for i, c := range hist {
		totalSum += float64(i) * float64(c)
	}

	var sumB float64
	var wB int
	var maxVariance float64
	best := 0

	for t := range 256 {
		wB += hist[t]
		if wB == 0 {
			continue
		}
		wF := total - wB
		if wF == 0 {
			break
		}
		sumB += float64(t) * float64(hist[t])
		meanB := sumB / float64(wB)
		meanF := (totalSum - sumB) / float64(wF)
		variance := float64(wB) * float64(wF) * (meanB - meanF) * (meanB - meanF)
		if variance > maxVariance {
			maxVariance = variance
			best = t
		}
	}
	return uint8(best)
}

// ForegroundMask binarizes a grayscale image into a foreground mask using the
// Otsu threshold. Text polarity is resolved by picking the smaller class as
// foreground: printed text covers far fewer pixels than background whether it
// is dark-on-light or light-on-dark.
func ForegroundMask(g *image.Gray) ([]bool, int) {
	w, h := g.Bounds().Dx(), g.Bounds().Dy()
	mask := make([]bool, w*h)
	if w == 0 || h == 0 {
		return mask, 0
	}
	t := OtsuThreshold(g)

	dark := 0
	for _, v := range g.Pix {
		if v <= t {
			dark++
		}
	}
	darkIsForeground := dark*2 <= len(g.Pix)

	count := 0
	for i, v := range g.Pix {
		fg := (v <= t) == darkIsForeground
		if fg {
			mask[i] = true
			count++
		}
	}
	return mask, count
}

// DilateHorizontal dilates a binary mask with a 1xk horizontal structuring
// element. Used to merge same-line glyphs into contiguous blobs.
func DilateHorizontal(mask []bool, w, h, k int) []bool {
	if k <= 1 {
		out := make([]bool, len(mask))
		copy(out, mask)
		return out
	}
	half := k / 2
	out := make([]bool, len(mask))
	for y := range h {
		row := y * w
		for x := range w {
			for dx := -half; dx <= half; dx++ {
				nx := x + dx
				if nx >= 0 && nx < w && mask[row+nx] {
					out[row+x] = true
					break
				}
			}
		}
	}
	return out
}
