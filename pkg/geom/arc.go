package geom

import "math"

// Arc geometry for elbow bundles. An elbow bundle sweeps an annular wedge
// around its point; after canonicalization every elbow is a clockwise bend,
// so a wedge is described by two boundary angles a1 (left) and a2 (right)
// and spans clockwise from a1 to a2.

// AngleInArc reports whether the direction theta lies on the arc that sweeps
// clockwise from a1 to a2. The comparison carries Eps slack at both ends so
// that boundary directions count as on the arc.
func AngleInArc(theta, a1, a2 float64) bool {
	span := NormalizeAngle(a1 - a2)
	off := NormalizeAngle(a1 - theta)
	if off > 2*math.Pi-Eps {
		off = 0
	}
	return off <= span+Eps
}

// SegmentCircleCrossings returns the points where the closed segment ab
// properly crosses the circle of radius r around c. Tangencies are excluded:
// a crossing requires the segment to pass from one side of the circle to the
// other. The returned points are ordered by their parameter along ab.
func SegmentCircleCrossings(a, b, c Point, r float64) []Point {
	d := b.Sub(a)
	f := a.Sub(c)

	qa := d.X*d.X + d.Y*d.Y
	qb := 2 * (f.X*d.X + f.Y*d.Y)
	qc := f.X*f.X + f.Y*f.Y - r*r

	if qa < Eps {
		return nil // degenerate segment
	}

	disc := qb*qb - 4*qa*qc
	if disc <= Eps {
		return nil // miss or tangency
	}

	sqrt := math.Sqrt(disc)
	var pts []Point
	for _, t := range []float64{(-qb - sqrt) / (2 * qa), (-qb + sqrt) / (2 * qa)} {
		if t >= -Eps && t <= 1+Eps {
			pts = append(pts, a.Add(d.Scale(t)))
		}
	}
	return pts
}

// RectIntersectsArc reports whether the rectangle given by its four corners
// (in boundary order) intersects the arc of radius around center that sweeps
// clockwise from a1 to a2.
//
// With proper set, only proper intersections count: the arc must reach the
// interior of the rectangle, either by an arc endpoint lying strictly inside
// or by the arc crossing a rectangle edge transversally. Mere tangency is
// rejected, which the kinetic simulation relies on to avoid split events that
// would immediately trigger a reciprocal merge.
func RectIntersectsArc(corners [4]Point, center Point, radius, a1, a2 float64, proper bool) bool {
	if radius < Eps {
		// A zero-radius wedge degenerates to its center point.
		if proper {
			return pointStrictlyInRect(corners, center)
		}
		return pointInRect(corners, center)
	}

	// Arc endpoint inside the rectangle.
	for _, ang := range []float64{a1, a2} {
		p := center.Add(Dir(ang).Scale(radius))
		if proper {
			if pointStrictlyInRect(corners, p) {
				return true
			}
		} else if pointInRect(corners, p) {
			return true
		}
	}

	// Rectangle edge crossing the circle at a direction on the arc.
	for i := range corners {
		a := corners[i]
		b := corners[(i+1)%4]
		for _, p := range SegmentCircleCrossings(a, b, center, radius) {
			if AngleInArc(Angle(center, p), a1, a2) {
				return true
			}
		}
		if !proper {
			// Touches are enough: take the closest point of the edge to the
			// center and admit it when it lies on the circle and the arc.
			p := closestOnSegment(a, b, center)
			if math.Abs(Dist(center, p)-radius) <= Eps && AngleInArc(Angle(center, p), a1, a2) {
				return true
			}
		}
	}
	return false
}

// pointStrictlyInRect reports whether p lies strictly inside the rectangle
// given by its corners in boundary order (either winding).
func pointStrictlyInRect(corners [4]Point, p Point) bool {
	var want Turn
	for i := range corners {
		o := Orient(corners[i], corners[(i+1)%4], p)
		if o == Collinear {
			return false
		}
		if want == Collinear {
			want = o
		} else if o != want {
			return false
		}
	}
	return true
}

// pointInRect is the closed variant of pointStrictlyInRect.
func pointInRect(corners [4]Point, p Point) bool {
	var want Turn
	for i := range corners {
		o := Orient(corners[i], corners[(i+1)%4], p)
		if o == Collinear {
			continue
		}
		if want == Collinear {
			want = o
		} else if o != want {
			return false
		}
	}
	return true
}

// closestOnSegment returns the point of the closed segment ab nearest to p.
func closestOnSegment(a, b, p Point) Point {
	d := b.Sub(a)
	den := d.X*d.X + d.Y*d.Y
	if den < Eps {
		return a
	}
	t := ((p.X-a.X)*d.X + (p.Y-a.Y)*d.Y) / den
	t = math.Max(0, math.Min(1, t))
	return a.Add(d.Scale(t))
}
