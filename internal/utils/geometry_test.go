package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBoundingBox(t *testing.T) {
	pts := []Point{{X: 2, Y: 3}, {X: 10, Y: 1}, {X: 4, Y: 8}}
	b := BoundingBox(pts)
	assert.Equal(t, 2.0, b.MinX)
	assert.Equal(t, 1.0, b.MinY)
	assert.Equal(t, 10.0, b.MaxX)
	assert.Equal(t, 8.0, b.MaxY)
}

func TestConvexHullDropsInteriorPoints(t *testing.T) {
	pts := []Point{
		{X: 0, Y: 0}, {X: 10, Y: 0}, {X: 10, Y: 10}, {X: 0, Y: 10},
		{X: 5, Y: 5}, {X: 3, Y: 7},
	}
	hull := ConvexHull(pts)
	require.Len(t, hull, 4)
	for _, p := range hull {
		assert.Contains(t, []float64{0, 10}, p.X)
		assert.Contains(t, []float64{0, 10}, p.Y)
	}
}

func TestMinimumAreaRectangleAxisAligned(t *testing.T) {
	pts := []Point{{X: 1, Y: 2}, {X: 9, Y: 2}, {X: 9, Y: 6}, {X: 1, Y: 6}}
	quad := MinimumAreaRectangle(pts)
	require.Len(t, quad, 4)

	// Shoelace area of the returned quad should match the 8x4 extent.
	area := 0.0
	for i := range 4 {
		j := (i + 1) % 4
		area += quad[i].X*quad[j].Y - quad[j].X*quad[i].Y
	}
	if area < 0 {
		area = -area
	}
	area /= 2
	assert.InDelta(t, 32.0, area, 1e-6)
}

func TestOrderQuadCorners(t *testing.T) {
	quad := []Point{{X: 10, Y: 10}, {X: 0, Y: 10}, {X: 10, Y: 0}, {X: 0, Y: 0}}
	ordered := OrderQuadCorners(quad)
	require.Len(t, ordered, 4)
	assert.Equal(t, Point{X: 0, Y: 0}, ordered[0], "top-left")
	assert.Equal(t, Point{X: 10, Y: 0}, ordered[1], "top-right")
	assert.Equal(t, Point{X: 10, Y: 10}, ordered[2], "bottom-right")
	assert.Equal(t, Point{X: 0, Y: 10}, ordered[3], "bottom-left")
}

func TestBoxVerticalOverlap(t *testing.T) {
	a := NewBox(0, 0, 10, 10)
	b := NewBox(0, 6, 10, 16)
	assert.InDelta(t, 4.0, a.VerticalOverlap(b), 1e-9)

	c := NewBox(0, 20, 10, 30)
	assert.Zero(t, a.VerticalOverlap(c))
}
