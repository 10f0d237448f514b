// Package geo provides the 2D primitives used by the layout engine.
//
// Everything here is a pure function over value types: no state, no
// failure modes, inputs are always well-formed numeric coordinates.
package geo

import "math"

// Point is a position on the diagram canvas.
// X grows rightward, Y grows downward (SVG orientation).
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// NewPoint returns a Point at (x, y).
func NewPoint(x, y float64) Point {
	return Point{X: x, Y: y}
}

// Delta returns the component-wise difference b − a.
func Delta(a, b Point) (dx, dy float64) {
	return b.X - a.X, b.Y - a.Y
}

// Distance returns the Euclidean distance between a and b.
// Axis-aligned pairs short-circuit to an absolute difference so that
// exact inputs produce exact outputs.
func Distance(a, b Point) float64 {
	switch {
	case a.X == b.X:
		return math.Abs(a.Y - b.Y)
	case a.Y == b.Y:
		return math.Abs(a.X - b.X)
	default:
		dx, dy := Delta(a, b)
		return math.Hypot(dx, dy)
	}
}

// AngleBetween returns the angle of the vector from a to b, in radians,
// as given by atan2(dy, dx). The result is in (−π, π].
func AngleBetween(a, b Point) float64 {
	dx, dy := Delta(a, b)
	return math.Atan2(dy, dx)
}

// Sign returns −1, 0, or 1 according to the sign of v.
func Sign(v float64) float64 {
	switch {
	case v < 0:
		return -1
	case v > 0:
		return 1
	default:
		return 0
	}
}

// Box is an axis-aligned rectangle identified by its center and
// half-extents. The layout engine sizes every node with the same
// nominal box, so boxes are constructed per comparison rather than
// stored on nodes.
type Box struct {
	Center     Point
	HalfWidth  float64
	HalfHeight float64
}

// BoxAround returns the Box of the given full width/height centered at c.
func BoxAround(c Point, width, height float64) Box {
	return Box{Center: c, HalfWidth: width / 2, HalfHeight: height / 2}
}

// Overlap returns the signed penetration depth of boxes a and b on each
// axis. A positive value on an axis means the projections of the two
// boxes onto that axis interpenetrate by that amount; zero or negative
// means they are separated (the magnitude is the gap). The boxes truly
// intersect only when both values are positive.
func Overlap(a, b Box) (x, y float64) {
	dx := math.Abs(b.Center.X - a.Center.X)
	dy := math.Abs(b.Center.Y - a.Center.Y)
	return a.HalfWidth + b.HalfWidth - dx, a.HalfHeight + b.HalfHeight - dy
}

// Intersects reports whether boxes a and b interpenetrate on both axes.
func Intersects(a, b Box) bool {
	x, y := Overlap(a, b)
	return x > 0 && y > 0
}

// Snap rounds v to the nearest multiple of grid. A grid of zero or less
// leaves v unchanged.
func Snap(v, grid float64) float64 {
	if grid <= 0 {
		return v
	}
	return math.Round(v/grid) * grid
}

// SnapPoint rounds both coordinates of p to the nearest grid multiple.
func SnapPoint(p Point, grid float64) Point {
	return Point{X: Snap(p.X, grid), Y: Snap(p.Y, grid)}
}
