package photometric

import (
	"image"

	"github.com/anthonynsimon/bild/blur"

	"github.com/shelfscan/expiryocr/internal/utils"
)

// removeShadow flattens gradual illumination gradients by subtracting a
// heavily blurred copy of the image (the estimated background) and re-centering
// on the background mean. Text strokes are far smaller than the kernel so
// they survive the subtraction; slow shadows do not.
func removeShadow(g *image.Gray, kernel int) *image.Gray {
	if kernel < 3 {
		return g
	}
	bg := utils.ToGray(blur.Gaussian(g, float64(kernel)/2))
	mean := utils.MeanIntensity(bg)

	out := image.NewGray(g.Bounds())
	for i := range g.Pix {
		out.Pix[i] = clampByte(float64(g.Pix[i]) - float64(bg.Pix[i]) + mean)
	}
	return out
}
