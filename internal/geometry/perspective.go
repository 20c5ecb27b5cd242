package geometry

import (
	"image"
	"log/slog"
	"math"

	"github.com/shelfscan/expiryocr/internal/utils"
)

// applyPerspective locates the dominant content quadrilateral and rectifies
// it. The warp is applied only when ALL sanity checks pass; any failed check
// returns the input image untouched, because warping a crop that fails the
// checks is more likely to destroy it than fix it. The bool reports whether
// a warp was applied.
func applyPerspective(img image.Image, gray *image.Gray) (image.Image, bool) {
	w, h := gray.Bounds().Dx(), gray.Bounds().Dy()
	if w < minWarpedDimension || h < minWarpedDimension {
		return img, false
	}

	quad, ok := contentQuad(gray)
	if !ok {
		return img, false
	}
	quad = utils.OrderQuadCorners(quad)

	avgW, avgH := quadDimensions(quad)
	if !quadChecksPass(quad, avgW, avgH, w, h) {
		return img, false
	}

	dstW := int(math.Round(avgW))
	dstH := int(math.Round(avgH))
	if dstW < minWarpedDimension || dstH < minWarpedDimension ||
		dstW > int(maxWarpScale*float64(w)) || dstH > int(maxWarpScale*float64(h)) {
		return img, false
	}

	warped := warpPerspective(img, quad, dstW, dstH)
	if warped == nil {
		slog.Debug("perspective warp degenerate, keeping unwarped image")
		return img, false
	}
	return warped, true
}

// contentQuad returns the minimum-area rectangle enclosing the foreground.
func contentQuad(gray *image.Gray) ([]utils.Point, bool) {
	w, h := gray.Bounds().Dx(), gray.Bounds().Dy()
	mask, count := utils.ForegroundMask(gray)
	if count < 16 {
		return nil, false
	}
	pts := make([]utils.Point, 0, count)
	for y := range h {
		row := y * w
		for x := range w {
			if mask[row+x] {
				pts = append(pts, utils.Point{X: float64(x), Y: float64(y)})
			}
		}
	}
	quad := utils.MinimumAreaRectangle(pts)
	if len(quad) != 4 {
		return nil, false
	}
	return quad, true
}

func quadDimensions(quad []utils.Point) (float64, float64) {
	w0 := dist(quad[0], quad[1])
	w1 := dist(quad[3], quad[2])
	h0 := dist(quad[0], quad[3])
	h1 := dist(quad[1], quad[2])
	return (w0 + w1) / 2, (h0 + h1) / 2
}

// quadChecksPass evaluates the perspective sanity checks: minimum area
// ratio, maximum aspect ratio, and maximum corrective angle.
func quadChecksPass(quad []utils.Point, avgW, avgH float64, w, h int) bool {
	if avgW < 1 || avgH < 1 {
		return false
	}
	areaRatio := (avgW * avgH) / (float64(w) * float64(h))
	if areaRatio < minQuadAreaRatio {
		return false
	}
	aspect := avgW / avgH
	if aspect < 1 {
		aspect = 1 / aspect
	}
	if aspect > maxQuadAspect {
		return false
	}
	angle := math.Abs(math.Atan2(quad[1].Y-quad[0].Y, quad[1].X-quad[0].X)) * 180 / math.Pi
	if angle > 90 {
		angle = 180 - angle
	}
	return angle < maxCorrectiveAngle
}

func dist(a, b utils.Point) float64 { return math.Hypot(a.X-b.X, a.Y-b.Y) }
