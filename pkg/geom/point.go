// Package geom provides the planar geometric kernel used by the routing core.
//
// The package works in ordinary Cartesian float64 coordinates with a single
// shared tolerance (Eps) for all approximate comparisons. Angle-valued
// functions share one normalization convention: every angle is reported in
// [0, 2π), measured counterclockwise from the positive x-axis. The bundle
// geometry in pkg/crs relies on this convention to disambiguate rotation
// directions, so all angle math must go through Angle and NormalizeAngle.
package geom

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/floats/scalar"
)

// Eps is the absolute tolerance used by all approximate predicates in this
// package. Coordinates are expected to be of magnitude ~1e0-1e3, for which
// this tolerance comfortably absorbs float64 rounding noise.
const Eps = 1e-9

// Point is a location in the plane.
type Point struct {
	X, Y float64
}

// Pt is shorthand for Point{x, y}.
func Pt(x, y float64) Point { return Point{X: x, Y: y} }

// Add returns the translation of p by q.
func (p Point) Add(q Point) Point { return Point{p.X + q.X, p.Y + q.Y} }

// Sub returns the translation of p by -q.
func (p Point) Sub(q Point) Point { return Point{p.X - q.X, p.Y - q.Y} }

// Scale returns p scaled by f.
func (p Point) Scale(f float64) Point { return Point{p.X * f, p.Y * f} }

// Near reports whether p and q coincide within Eps in both coordinates.
func (p Point) Near(q Point) bool {
	return scalar.EqualWithinAbs(p.X, q.X, Eps) && scalar.EqualWithinAbs(p.Y, q.Y, Eps)
}

// String formats the point for diagnostics.
func (p Point) String() string { return fmt.Sprintf("(%g, %g)", p.X, p.Y) }

// Dist returns the Euclidean distance between p and q.
func Dist(p, q Point) float64 { return math.Hypot(q.X-p.X, q.Y-p.Y) }

// Dir returns the unit vector pointing in direction ang.
func Dir(ang float64) Point { return Point{math.Cos(ang), math.Sin(ang)} }

// Angle returns the direction of the segment p -> q, normalized to [0, 2π).
func Angle(p, q Point) float64 {
	return NormalizeAngle(math.Atan2(q.Y-p.Y, q.X-p.X))
}

// NormalizeAngle maps an angle in radians onto [0, 2π).
func NormalizeAngle(a float64) float64 {
	a = math.Mod(a, 2*math.Pi)
	if a < 0 {
		a += 2 * math.Pi
	}
	return a
}
