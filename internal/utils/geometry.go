// Package utils provides geometry and raster helpers shared by the
// line detection and normalization stages.
package utils

import (
	"image"
	"math"
	"sort"
)

// Point is a 2D point in image coordinates.
type Point struct {
	X float64
	Y float64
}

// Box is an axis-aligned bounding box.
type Box struct {
	MinX, MinY, MaxX, MaxY float64
}

// NewBox constructs a Box, normalizing coordinate order.
func NewBox(x1, y1, x2, y2 float64) Box {
	if x2 < x1 {
		x1, x2 = x2, x1
	}
	if y2 < y1 {
		y1, y2 = y2, y1
	}
	return Box{MinX: x1, MinY: y1, MaxX: x2, MaxY: y2}
}

// Width returns the box width.
func (b Box) Width() float64 { return b.MaxX - b.MinX }

// Height returns the box height.
func (b Box) Height() float64 { return b.MaxY - b.MinY }

// Area returns the box area.
func (b Box) Area() float64 { return b.Width() * b.Height() }

// ToRect converts the box to an image.Rectangle clamped to bounds.
func (b Box) ToRect(bounds image.Rectangle) image.Rectangle {
	x0 := clampInt(int(math.Floor(b.MinX)), bounds.Min.X, bounds.Max.X)
	y0 := clampInt(int(math.Floor(b.MinY)), bounds.Min.Y, bounds.Max.Y)
	x1 := clampInt(int(math.Ceil(b.MaxX)), bounds.Min.X, bounds.Max.X)
	y1 := clampInt(int(math.Ceil(b.MaxY)), bounds.Min.Y, bounds.Max.Y)
	return image.Rect(x0, y0, x1, y1)
}

// VerticalOverlap returns the overlapping height between two boxes (0 if disjoint).
func (b Box) VerticalOverlap(o Box) float64 {
	top := math.Max(b.MinY, o.MinY)
	bot := math.Min(b.MaxY, o.MaxY)
	if bot <= top {
		return 0
	}
	return bot - top
}

func clampInt(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// BoundingBox computes the axis-aligned bounding box of a point set.
func BoundingBox(pts []Point) Box {
	if len(pts) == 0 {
		return Box{}
	}
	b := Box{MinX: pts[0].X, MinY: pts[0].Y, MaxX: pts[0].X, MaxY: pts[0].Y}
	for _, p := range pts[1:] {
		if p.X < b.MinX {
			b.MinX = p.X
		}
		if p.Y < b.MinY {
			b.MinY = p.Y
		}
		if p.X > b.MaxX {
			b.MaxX = p.X
		}
		if p.Y > b.MaxY {
			b.MaxY = p.Y
		}
	}
	return b
}

// ConvexHull computes the convex hull of a set of points using the
// monotone chain algorithm. Returns the hull in CCW order without
// duplicating the first point at the end.
func ConvexHull(pts []Point) []Point {
	n := len(pts)
	if n <= 1 {
		return append([]Point(nil), pts...)
	}
	p := make([]Point, n)
	copy(p, pts)
	sort.Slice(p, func(i, j int) bool {
		if p[i].X != p[j].X {
			return p[i].X < p[j].X
		}
		return p[i].Y < p[j].Y
	})
	p = removeDuplicatePoints(p)
	n = len(p)
	if n <= 2 {
		return append([]Point(nil), p...)
	}
	lower := buildHalfHull(p)
	rev := make([]Point, n)
	for i := range p {
		rev[i] = p[n-1-i]
	}
	upper := buildHalfHull(rev)
	hull := make([]Point, 0, len(lower)+len(upper)-2)
	hull = append(hull, lower[:len(lower)-1]...)
	hull = append(hull, upper[:len(upper)-1]...)
	return hull
}

func removeDuplicatePoints(p []Point) []Point {
	out := p[:0]
	for i, pt := range p {
		if i == 0 || pt != p[i-1] {
			out = append(out, pt)
		}
	}
	return out
}

func buildHalfHull(p []Point) []Point {
	hull := make([]Point, 0, len(p))
	for _, pt := range p {
		for len(hull) >= 2 && cross(hull[len(hull)-2], hull[len(hull)-1], pt) <= 0 {
			hull = hull[:len(hull)-1]
		}
		hull = append(hull, pt)
	}
	return hull
}

func cross(o, a, b Point) float64 {
	return (a.X-o.X)*(b.Y-o.Y) - (a.Y-o.Y)*(b.X-o.X)
}

// MinimumAreaRectangle returns the 4 corners of the minimum-area rectangle
// enclosing the given points, using rotating calipers over the convex hull.
// Corners are ordered starting from the corner closest to the origin-most
// point, proceeding around the rectangle.
func MinimumAreaRectangle(pts []Point) []Point {
	if len(pts) == 0 {
		return nil
	}
	if len(pts) == 1 {
		p := pts[0]
		return []Point{p, p, p, p}
	}
	hull := ConvexHull(pts)
	if len(hull) == 1 {
		p := hull[0]
		return []Point{p, p, p, p}
	}
	if len(hull) == 2 {
		return []Point{hull[0], hull[1], hull[1], hull[0]}
	}
	return minAreaRectFromHull(hull)
}

func minAreaRectFromHull(hull []Point) []Point {
	bestArea := math.Inf(1)
	var best [4]Point
	n := len(hull)
	for i := range n {
		a := hull[i]
		b := hull[(i+1)%n]
		theta := math.Atan2(b.Y-a.Y, b.X-a.X)
		cosT, sinT := math.Cos(-theta), math.Sin(-theta)

		minX, minY := math.Inf(1), math.Inf(1)
		maxX, maxY := math.Inf(-1), math.Inf(-1)
		for _, p := range hull {
			rx := p.X*cosT - p.Y*sinT
			ry := p.X*sinT + p.Y*cosT
			minX = math.Min(minX, rx)
			minY = math.Min(minY, ry)
			maxX = math.Max(maxX, rx)
			maxY = math.Max(maxY, ry)
		}
		area := (maxX - minX) * (maxY - minY)
		if area < bestArea {
			bestArea = area
			corners := [4][2]float64{
				{minX, minY}, {maxX, minY}, {maxX, maxY}, {minX, maxY},
			}
			cosB, sinB := math.Cos(theta), math.Sin(theta)
			for j, c := range corners {
				best[j] = Point{
					X: c[0]*cosB - c[1]*sinB,
					Y: c[0]*sinB + c[1]*cosB,
				}
			}
		}
	}
	return best[:]
}

// OrderQuadCorners orders 4 points as top-left, top-right, bottom-right,
// bottom-left. The input is not modified.
func OrderQuadCorners(quad []Point) []Point {
	if len(quad) != 4 {
		return append([]Point(nil), quad...)
	}
	out := make([]Point, 4)
	// Top-left has the smallest x+y sum, bottom-right the largest.
	// Top-right has the smallest y-x difference, bottom-left the largest.
	minSum, maxSum := math.Inf(1), math.Inf(-1)
	minDiff, maxDiff := math.Inf(1), math.Inf(-1)
	for _, p := range quad {
		s := p.X + p.Y
		d := p.Y - p.X
		if s < minSum {
			minSum = s
			out[0] = p
		}
		if s > maxSum {
			maxSum = s
			out[2] = p
		}
		if d < minDiff {
			minDiff = d
			out[1] = p
		}
		if d > maxDiff {
			maxDiff = d
			out[3] = p
		}
	}
	return out
}
