package photometric

import (
	"image"

	"github.com/shelfscan/expiryocr/internal/utils"
)

// otsuBinarize produces a dark-text-on-white binary image. Polarity is
// resolved by foreground population: the smaller class after thresholding is
// taken to be text and rendered black.
func otsuBinarize(g *image.Gray) *image.Gray {
	t := utils.OtsuThreshold(g)
	below := 0
	for _, v := range g.Pix {
		if v <= t {
			below++
		}
	}
	darkIsText := below*2 <= len(g.Pix)

	out := image.NewGray(g.Bounds())
	for i, v := range g.Pix {
		dark := v <= t
		if dark == darkIsText {
			out.Pix[i] = 0
		} else {
			out.Pix[i] = 255
		}
	}
	return out
}

// invertGray flips intensities, recovering light-on-dark printing such as
// laser-etched date codes on dark film.
func invertGray(g *image.Gray) *image.Gray {
	out := image.NewGray(g.Bounds())
	for i, v := range g.Pix {
		out.Pix[i] = 255 - v
	}
	return out
}

// adaptiveBinarize thresholds each pixel against the mean of its local
// block minus a small bias, computed with an integral image. It handles
// uneven lighting that defeats a single global threshold.
func adaptiveBinarize(g *image.Gray, block int, bias float64) *image.Gray {
	b := g.Bounds()
	w, h := b.Dx(), b.Dy()
	if w == 0 || h == 0 {
		return g
	}
	if block < 3 {
		block = 3
	}
	if block%2 == 0 {
		block++
	}
	r := block / 2

	// integral[y][x] = sum of pixels in [0,x) x [0,y).
	integral := make([]uint64, (w+1)*(h+1))
	for y := range h {
		var rowSum uint64
		for x := range w {
			rowSum += uint64(g.Pix[y*g.Stride+x])
			integral[(y+1)*(w+1)+(x+1)] = integral[y*(w+1)+(x+1)] + rowSum
		}
	}

	out := image.NewGray(b)
	for y := range h {
		y0 := clampInt(y-r, 0, h)
		y1 := clampInt(y+r+1, 0, h)
		for x := range w {
			x0 := clampInt(x-r, 0, w)
			x1 := clampInt(x+r+1, 0, w)
			area := (x1 - x0) * (y1 - y0)
			sum := integral[y1*(w+1)+x1] - integral[y0*(w+1)+x1] - integral[y1*(w+1)+x0] + integral[y0*(w+1)+x0]
			mean := float64(sum) / float64(area)
			if float64(g.Pix[y*g.Stride+x]) < mean-bias {
				out.Pix[y*out.Stride+x] = 0
			} else {
				out.Pix[y*out.Stride+x] = 255
			}
		}
	}
	return out
}
