package geometry

import (
	"gonum.org/v1/gonum/mat"

	"github.com/shelfscan/expiryocr/internal/utils"
)

// computeHomography computes the 3x3 matrix H mapping p[i] -> q[i], returned
// row-major with h22 fixed to 1. Returns false for degenerate configurations.
func computeHomography(p, q [4]utils.Point) ([9]float64, bool) {
	// Build the 8x8 system A*h = b for the 8 unknowns (h00..h21).
	a := make([]float64, 0, 64)
	b := make([]float64, 0, 8)
	for i := range 4 {
		X, Y := p[i].X, p[i].Y
		x, y := q[i].X, q[i].Y
		// x' = (h00 X + h01 Y + h02)/(h20 X + h21 Y + 1)
		a = append(a, X, Y, 1, 0, 0, 0, -X*x, -Y*x)
		b = append(b, x)
		// y' = (h10 X + h11 Y + h12)/(h20 X + h21 Y + 1)
		a = append(a, 0, 0, 0, X, Y, 1, -X*y, -Y*y)
		b = append(b, y)
	}

	A := mat.NewDense(8, 8, a)
	bv := mat.NewVecDense(8, b)
	var h mat.VecDense
	if err := h.SolveVec(A, bv); err != nil {
		return [9]float64{}, false
	}

	var H [9]float64
	for i := range 8 {
		H[i] = h.AtVec(i)
	}
	H[8] = 1
	return H, true
}

// applyHomography maps (x, y) through H.
func applyHomography(h [9]float64, x, y float64) (float64, float64) {
	denom := h[6]*x + h[7]*y + h[8]
	if denom == 0 {
		return -1e9, -1e9
	}
	sx := (h[0]*x + h[1]*y + h[2]) / denom
	sy := (h[3]*x + h[4]*y + h[5]) / denom
	return sx, sy
}
