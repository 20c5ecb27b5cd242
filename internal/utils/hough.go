package utils

import (
	"image"
	"math"
)

// skewSampleBudget caps the number of edge pixels fed to the Hough
// accumulator so skew estimation stays cheap on large crops.
const skewSampleBudget = 20000

// EstimateSkewAngle estimates the dominant text skew of a grayscale image in
// degrees using a Hough transform over edge pixels. Angles are searched in
// [-maxAngle, +maxAngle] around horizontal. The second return value is false
// when too few edge pixels exist for a reliable estimate.
func EstimateSkewAngle(g *image.Gray, maxAngle float64) (float64, bool) {
	if g == nil || maxAngle <= 0 {
		return 0, false
	}
	w, h := g.Bounds().Dx(), g.Bounds().Dy()
	if w < 8 || h < 8 {
		return 0, false
	}

	edges := collectEdgePoints(g)
	if len(edges) < 32 {
		return 0, false
	}

	const angleStep = 0.25
	steps := int(2*maxAngle/angleStep) + 1
	diag := math.Hypot(float64(w), float64(h))
	rhoBins := int(diag) + 1

	// Accumulator indexed by [angle][rho]. Rho is offset by diag to stay
	// non-negative.
	acc := make([][]uint16, steps)
	sin := make([]float64, steps)
	cos := make([]float64, steps)
	for i := range steps {
		acc[i] = make([]uint16, 2*rhoBins)
		// A text baseline at skew a corresponds to a Hough normal at 90+a.
		theta := (90 + -maxAngle + float64(i)*angleStep) * math.Pi / 180
		sin[i] = math.Sin(theta)
		cos[i] = math.Cos(theta)
	}

	for _, p := range edges {
		for i := range steps {
			rho := p.X*cos[i] + p.Y*sin[i]
			bin := int(rho) + rhoBins
			if bin >= 0 && bin < 2*rhoBins {
				acc[i][bin]++
			}
		}
	}

	// Score each angle by the sum of squared bin counts: a correct skew
	// aligns many pixels into few rho bins, producing a peaky profile.
	bestScore := 0.0
	bestIdx := -1
	var totalScore float64
	for i := range steps {
		var s float64
		for _, c := range acc[i] {
			if c > 1 {
				s += float64(c) * float64(c)
			}
		}
		totalScore += s
		if s > bestScore {
			bestScore = s
			bestIdx = i
		}
	}
	if bestIdx < 0 || totalScore == 0 {
		return 0, false
	}
	// Require the winning angle to stand out from the mean response,
	// otherwise the estimate is noise.
	if bestScore < 1.2*totalScore/float64(steps) {
		return 0, false
	}

	angle := -maxAngle + float64(bestIdx)*0.25
	return angle, true
}

// collectEdgePoints returns horizontal-gradient edge pixels, subsampled to a
// fixed budget.
func collectEdgePoints(g *image.Gray) []Point {
	w, h := g.Bounds().Dx(), g.Bounds().Dy()
	const gradThresh = 40

	pts := make([]Point, 0, 4096)
	for y := 1; y < h-1; y++ {
		row := y * g.Stride
		for x := 1; x < w-1; x++ {
			up := int(g.Pix[row-g.Stride+x])
			down := int(g.Pix[row+g.Stride+x])
			if absInt(up-down) >= gradThresh {
				pts = append(pts, Point{X: float64(x), Y: float64(y)})
			}
		}
	}
	if len(pts) <= skewSampleBudget {
		return pts
	}
	stride := len(pts)/skewSampleBudget + 1
	out := pts[:0]
	for i := 0; i < len(pts); i += stride {
		out = append(out, pts[i])
	}
	return out
}

func absInt(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
