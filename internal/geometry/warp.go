package geometry

import (
	"image"
	"image/color"

	"github.com/shelfscan/expiryocr/internal/utils"
)

// warpPerspective warps the quadrilateral region srcQuad from src into a
// target rectangle of size dstW x dstH using inverse homography + bilinear
// sampling. Returns nil when the homography is degenerate.
func warpPerspective(src image.Image, srcQuad []utils.Point, dstW, dstH int) image.Image {
	if len(srcQuad) != 4 || dstW <= 0 || dstH <= 0 {
		return nil
	}

	// Homography from dst rect corners to src quad corners.
	d0 := utils.Point{X: 0, Y: 0}
	d1 := utils.Point{X: float64(dstW - 1), Y: 0}
	d2 := utils.Point{X: float64(dstW - 1), Y: float64(dstH - 1)}
	d3 := utils.Point{X: 0, Y: float64(dstH - 1)}
	H, ok := computeHomography(
		[4]utils.Point{d0, d1, d2, d3},
		[4]utils.Point{srcQuad[0], srcQuad[1], srcQuad[2], srcQuad[3]},
	)
	if !ok {
		return nil
	}

	out := image.NewRGBA(image.Rect(0, 0, dstW, dstH))
	sb := src.Bounds()
	for y := range dstH {
		for x := range dstW {
			sx, sy := applyHomography(H, float64(x), float64(y))
			c := bilinearSample(src, sx+float64(sb.Min.X), sy+float64(sb.Min.Y))
			out.Set(x, y, c)
		}
	}
	return out
}

func bilinearSample(src image.Image, x, y float64) color.Color {
	b := src.Bounds()
	// Samples outside bounds fall back to white, the dominant packaging
	// background.
	if x < float64(b.Min.X) || y < float64(b.Min.Y) || x > float64(b.Max.X-1) || y > float64(b.Max.Y-1) {
		return color.RGBA{255, 255, 255, 255}
	}
	x0 := int(x)
	y0 := int(y)
	x1 := x0 + 1
	y1 := y0 + 1
	if x1 >= b.Max.X {
		x1 = b.Max.X - 1
	}
	if y1 >= b.Max.Y {
		y1 = b.Max.Y - 1
	}
	fx := x - float64(x0)
	fy := y - float64(y0)
	c00 := toRGBA(src.At(x0, y0))
	c10 := toRGBA(src.At(x1, y0))
	c01 := toRGBA(src.At(x0, y1))
	c11 := toRGBA(src.At(x1, y1))
	r := lerp(lerp(c00.r, c10.r, fx), lerp(c01.r, c11.r, fx), fy)
	g := lerp(lerp(c00.g, c10.g, fx), lerp(c01.g, c11.g, fx), fy)
	bl := lerp(lerp(c00.b, c10.b, fx), lerp(c01.b, c11.b, fx), fy)
	a := lerp(lerp(c00.a, c10.a, fx), lerp(c01.a, c11.a, fx), fy)
	return color.RGBA{uint8(r + 0.5), uint8(g + 0.5), uint8(bl + 0.5), uint8(a + 0.5)}
}

type rgba struct{ r, g, b, a float64 }

func toRGBA(c color.Color) rgba {
	r, g, b, a := c.RGBA()
	return rgba{r: float64(r >> 8), g: float64(g >> 8), b: float64(b >> 8), a: float64(a >> 8)}
}

func lerp(a, b, t float64) float64 { return a + (b-a)*t }
