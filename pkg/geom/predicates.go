package geom

import (
	"math"

	"gonum.org/v1/gonum/floats/scalar"
)

// Turn is the signed orientation of an ordered point triple, and doubles as
// the handedness of a bend in a routed path.
type Turn int8

const (
	// Collinear means the three points lie on a common line.
	Collinear Turn = iota
	// Clockwise is a right turn (negative cross product).
	Clockwise
	// CounterClockwise is a left turn (positive cross product).
	CounterClockwise
)

// String returns a short name for the turn, matching the tokens accepted in
// instance files ("cw"/"ccw").
func (t Turn) String() string {
	switch t {
	case Clockwise:
		return "cw"
	case CounterClockwise:
		return "ccw"
	default:
		return "collinear"
	}
}

// Cross returns the z-component of (b-a) × (c-a).
func Cross(a, b, c Point) float64 {
	return (b.X-a.X)*(c.Y-a.Y) - (b.Y-a.Y)*(c.X-a.X)
}

// Orient classifies the ordered triple (a, b, c). Cross products within Eps
// of zero are reported as Collinear.
func Orient(a, b, c Point) Turn {
	cross := Cross(a, b, c)
	if scalar.EqualWithinAbs(cross, 0, Eps) {
		return Collinear
	}
	if cross < 0 {
		return Clockwise
	}
	return CounterClockwise
}

// OnSegment reports whether c lies on the closed segment ab, within Eps.
func OnSegment(a, b, c Point) bool {
	if Orient(a, b, c) != Collinear {
		return false
	}
	return c.X >= math.Min(a.X, b.X)-Eps && c.X <= math.Max(a.X, b.X)+Eps &&
		c.Y >= math.Min(a.Y, b.Y)-Eps && c.Y <= math.Max(a.Y, b.Y)+Eps
}

// SegmentsIntersect reports whether the closed segments p1q1 and p2q2 share
// a point. Collinear overlaps and endpoint touches count as intersections.
func SegmentsIntersect(p1, q1, p2, q2 Point) bool {
	o1 := Orient(p1, q1, p2)
	o2 := Orient(p1, q1, q2)
	o3 := Orient(p2, q2, p1)
	o4 := Orient(p2, q2, q1)

	if o1 != o2 && o3 != o4 && o1 != Collinear && o2 != Collinear && o3 != Collinear && o4 != Collinear {
		return true
	}

	// Collinear cases reduce to point-on-segment checks.
	return (o1 == Collinear && OnSegment(p1, q1, p2)) ||
		(o2 == Collinear && OnSegment(p1, q1, q2)) ||
		(o3 == Collinear && OnSegment(p2, q2, p1)) ||
		(o4 == Collinear && OnSegment(p2, q2, q1))
}

// SegmentsProperlyIntersect reports whether p1q1 and p2q2 cross at a single
// point interior to both segments.
func SegmentsProperlyIntersect(p1, q1, p2, q2 Point) bool {
	o1 := Orient(p1, q1, p2)
	o2 := Orient(p1, q1, q2)
	o3 := Orient(p2, q2, p1)
	o4 := Orient(p2, q2, q1)
	return o1 != o2 && o3 != o4 &&
		o1 != Collinear && o2 != Collinear && o3 != Collinear && o4 != Collinear
}
