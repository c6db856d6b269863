package pointcluster

import (
	"cmp"
	"math"

	"gonum.org/v1/gonum/spatial/r2"
)

// Point is a 2D coordinate. Points are ordered lexicographically (X first,
// then Y) and compare equal only when both coordinates match, so a Point can
// be used directly as a map key.
type Point r2.Vec

// Pt is shorthand for Point{X: x, Y: y}.
func Pt(x, y float64) Point { return Point{X: x, Y: y} }

// Compare returns -1, 0 or +1 depending on whether p sorts before, equal to
// or after q.
func (p Point) Compare(q Point) int {
	if c := cmp.Compare(p.X, q.X); c != 0 {
		return c
	}
	return cmp.Compare(p.Y, q.Y)
}

// Less reports whether p sorts strictly before q.
func (p Point) Less(q Point) bool { return p.Compare(q) < 0 }

// Distance returns the Euclidean distance between p and q.
func (p Point) Distance(q Point) float64 {
	return r2.Norm(r2.Sub(r2.Vec(p), r2.Vec(q)))
}

// Centroid returns the coordinate-wise arithmetic mean of points.
// The centroid of an empty slice is the origin. The mean of finite points is
// finite even when their sum overflows.
func Centroid(points []Point) Point {
	if len(points) == 0 {
		return Point{}
	}
	var sum r2.Vec
	for _, p := range points {
		sum = r2.Add(sum, r2.Vec(p))
	}
	n := float64(len(points))
	if !math.IsInf(sum.X, 0) && !math.IsInf(sum.Y, 0) {
		return Point(r2.Scale(1/n, sum))
	}
	// Overflowed: scale each point down before adding.
	sum = r2.Vec{}
	for _, p := range points {
		sum = r2.Add(sum, r2.Scale(1/n, r2.Vec(p)))
	}
	return Point(sum)
}

// IsFinite reports whether both coordinates of p are neither NaN nor
// infinite.
func (p Point) IsFinite() bool {
	return !math.IsNaN(p.X) && !math.IsInf(p.X, 0) && !math.IsNaN(p.Y) && !math.IsInf(p.Y, 0)
}

// SumDistances returns the sum of distances from p to every point in points.
func SumDistances(p Point, points []Point) float64 {
	var sum float64
	for _, q := range points {
		sum += p.Distance(q)
	}
	return sum
}
