// Package crs implements the compact routing structure: a packed
// representation of thick homotopic edges as bundles of parallel straight
// segments and concentric arcs, together with the structural mutations
// (split, merge, union, divide, tear, unzip) that the kinetic growing
// algorithm uses to repair the bundle topology while edge thickness grows.
//
// The structure follows the growing scheme of Duncan et al.
// (https://doi.org/10.1142/S0129054106004315): along every routed edge,
// straight bundles and elbow bundles alternate, and all elbow bundles around
// one point form a singly linked nesting chain ordered from closest to the
// point outward.
//
// All mutation primitives require the bundles they are handed to actually be
// connected or associated as documented. Violations are programmer errors,
// never user input, and panic immediately.
package crs

import (
	"fmt"
	"math"

	"github.com/sashagielis/MDGE/pkg/geom"
)

// Straight is a bundle of parallel co-located segments spanning the same two
// points. Its left and right fields reference the outermost adjacent elbow
// bundle on either side; the left/right naming is an unordered adjacency, not
// a geometric direction.
type Straight struct {
	left, right *Elbow
	size        int
	thickness   float64
	terminal    bool // connected to a terminal elbow bundle

	id   uint64
	dead bool
}

// Elbow is a bundle of concentric arcs bending around one shared point.
// Terminal elbows represent a path endpoint or an obstacle; they never bend,
// have left == right, and sit innermost in the nesting chain of their point.
type Elbow struct {
	point          geom.Point
	left, right    *Straight
	inner          *Elbow  // next elbow bundle strictly closer to point (nil if innermost)
	size           int
	thickness      float64 // 0 for obstacle elbows
	layerThickness float64 // total thickness nested strictly inside, cached
	terminal       bool
	turn           geom.Turn // Collinear for terminal elbows

	id   uint64
	dead bool
}

// Size returns the number of segments packed in the bundle.
func (sb *Straight) Size() int { return sb.size }

// Thickness returns the total thickness of the packed segments.
func (sb *Straight) Thickness() float64 { return sb.thickness }

// IsTerminal reports whether the bundle touches a path endpoint.
func (sb *Straight) IsTerminal() bool { return sb.terminal }

// Alive reports whether the bundle is still part of its structure. Bundles
// removed by union or merge stay allocated but are flagged dead, which
// invalidates any kinetic certificate that still references them.
func (sb *Straight) Alive() bool { return !sb.dead }

// Left returns the outermost adjacent elbow bundle on one side.
func (sb *Straight) Left() *Elbow { return sb.left }

// Right returns the outermost adjacent elbow bundle on the other side.
func (sb *Straight) Right() *Elbow { return sb.right }

// IsAssociatedWith reports whether the straight bundle spans to or from p.
func (sb *Straight) IsAssociatedWith(p geom.Point) bool {
	return sb.left.point == p || sb.right.point == p
}

// IsConnectedTo reports whether eb is one of the bundle's two elbows.
func (sb *Straight) IsConnectedTo(eb *Elbow) bool {
	return sb.left == eb || sb.right == eb
}

// Next returns the elbow bundle on the other side of prev.
// It panics if prev is not connected to the bundle.
func (sb *Straight) Next(prev *Elbow) *Elbow {
	if !sb.IsConnectedTo(prev) {
		panic(fmt.Sprintf("crs: straight bundle %v is not connected to elbow bundle %v", sb, prev))
	}
	if sb.left == prev {
		return sb.right
	}
	return sb.left
}

// isCloserThan reports whether, at the shared point p, sb's elbow is nested
// closer to p than other's elbow. Both bundles must be associated with p.
func (sb *Straight) isCloserThan(other *Straight, p geom.Point) bool {
	if !sb.IsAssociatedWith(p) {
		panic(fmt.Sprintf("crs: straight bundle %v is not associated with point %v", sb, p))
	}
	if !other.IsAssociatedWith(p) {
		panic(fmt.Sprintf("crs: straight bundle %v is not associated with point %v", other, p))
	}

	eb1 := sb.right
	if sb.left.point == p {
		eb1 = sb.left
	}
	eb2 := other.right
	if other.left.point == p {
		eb2 = other.left
	}
	return eb1.IsCloserThan(eb2)
}

// hasSameOrientationAs reports whether sb and other, which must span the same
// two points, have their left elbows at the same point.
func (sb *Straight) hasSameOrientationAs(other *Straight) bool {
	if !sb.IsAssociatedWith(other.left.point) || !sb.IsAssociatedWith(other.right.point) {
		panic(fmt.Sprintf("crs: straight bundles %v and %v are associated with different points", sb, other))
	}
	return sb.left.point == other.left.point
}

// String identifies the bundle by its endpoints for diagnostics.
func (sb *Straight) String() string {
	if sb == nil {
		return "<nil>"
	}
	return fmt.Sprintf("%v -> %v", sb.left.point, sb.right.point)
}

// Point returns the point the elbow bundle bends around.
func (eb *Elbow) Point() geom.Point { return eb.point }

// Size returns the number of arcs packed in the bundle.
func (eb *Elbow) Size() int { return eb.size }

// Thickness returns the total thickness of the packed arcs.
func (eb *Elbow) Thickness() float64 { return eb.thickness }

// LayerThickness returns the cumulative thickness nested strictly inside the
// bundle, between it and its point.
func (eb *Elbow) LayerThickness() float64 { return eb.layerThickness }

// IsTerminal reports whether the bundle represents a path endpoint or an
// obstacle rather than a bend.
func (eb *Elbow) IsTerminal() bool { return eb.terminal }

// Alive reports whether the bundle is still part of its structure.
func (eb *Elbow) Alive() bool { return !eb.dead }

// Inner returns the next elbow bundle strictly closer to the point, or nil.
func (eb *Elbow) Inner() *Elbow { return eb.inner }

// Left returns the adjacent straight bundle on one side. Terminal elbows
// have Left == Right.
func (eb *Elbow) Left() *Straight { return eb.left }

// Right returns the adjacent straight bundle on the other side.
func (eb *Elbow) Right() *Straight { return eb.right }

// IsConnectedTo reports whether sb is one of the bundle's straights.
func (eb *Elbow) IsConnectedTo(sb *Straight) bool {
	return eb.left == sb || eb.right == sb
}

// Next returns the straight bundle on the other side of prev.
// It panics if prev is not connected to the bundle.
func (eb *Elbow) Next(prev *Straight) *Straight {
	if !eb.IsConnectedTo(prev) {
		panic(fmt.Sprintf("crs: elbow bundle %v is not connected to straight bundle %v", eb, prev))
	}
	if eb.left == prev {
		return eb.right
	}
	return eb.left
}

// String identifies the bundle by its point for diagnostics.
func (eb *Elbow) String() string {
	if eb == nil {
		return "<nil>"
	}
	return eb.point.String()
}

// IsCloserThan reports whether eb is nested closer to its point than other.
// Both bundles must be associated with the same point. Terminal elbows are
// always closest; two terminal elbows at the same point (parallel edges
// meeting the same terminal) are ordered by creation, oldest innermost.
//
// When neither inner chain settles the question, the two bundles are compared
// by walking outward along both paths in the canonical (clockwise) direction
// until they diverge, then deciding by the handedness of the last shared bend
// and, for exactly collinear chains, by segment containment.
func (eb *Elbow) IsCloserThan(other *Elbow) bool {
	if eb.point != other.point {
		panic(fmt.Sprintf("crs: elbow bundles are associated with different points: %v and %v", eb.point, other.point))
	}

	if eb.terminal && other.terminal {
		return eb.id < other.id
	}
	if eb.terminal {
		return true
	}
	if other.terminal {
		return false
	}

	// One nested inside the other.
	for in := eb.inner; in != nil; in = in.inner {
		if in == other {
			return false
		}
	}
	for in := other.inner; in != nil; in = in.inner {
		if in == eb {
			return true
		}
	}

	// Both inner chains are unset: walk the two paths outward in lockstep.
	// Since both bundles bend around the same point we treat both as right
	// bends; a counterclockwise bundle is walked in the reverse direction.
	revSelf := eb.turn == geom.CounterClockwise
	revOther := other.turn == geom.CounterClockwise

	curSelf, curOther := eb, other
	for curSelf.point == curOther.point {
		if curSelf.terminal && curOther.terminal {
			// Parallel edges stuck on a shared terminal: order by creation.
			return eb.id < other.id
		}
		curSelf = curSelf.step(revSelf)
		curOther = curOther.step(revOther)
	}

	prevSelf := curSelf.stepBack(revSelf)
	prevOther := curOther.stepBack(revOther)

	// If other's walk ended at a terminal, eb is closest iff its last bend
	// was a left turn; symmetrically for eb's walk.
	if prevSelf.point == curOther.point {
		if revSelf {
			return prevSelf.turn == geom.Clockwise
		}
		return prevSelf.turn == geom.CounterClockwise
	}
	if prevOther.point == curSelf.point {
		if revOther {
			return prevOther.turn == geom.CounterClockwise
		}
		return prevOther.turn == geom.Clockwise
	}

	// The walks diverged at ordinary bends, with prevSelf == prevOther.
	if geom.Orient(prevSelf.point, curSelf.point, curOther.point) == geom.Collinear {
		// Exactly collinear continuation: decide by segment containment.
		lastIsRight := (!revSelf && prevSelf.turn == geom.Clockwise) ||
			(revSelf && prevSelf.turn == geom.CounterClockwise)
		if lastIsRight {
			return geom.OnSegment(prevSelf.point, curOther.point, curSelf.point)
		}
		return geom.OnSegment(prevSelf.point, curSelf.point, curOther.point)
	}
	return geom.Orient(prevSelf.point, curOther.point, curSelf.point) == geom.Clockwise
}

// step advances one elbow bundle along the path, in the forward direction or,
// with rev set, in the reverse direction. Terminal elbows end the path, so
// stepping from a terminal stays put.
func (eb *Elbow) step(rev bool) *Elbow {
	if eb.terminal {
		return eb
	}
	if rev {
		return eb.left.Next(eb)
	}
	return eb.right.Next(eb)
}

// stepBack is the inverse of step.
func (eb *Elbow) stepBack(rev bool) *Elbow {
	if eb.terminal {
		return eb
	}
	if rev {
		return eb.right.Next(eb)
	}
	return eb.left.Next(eb)
}

// Angle returns the direction of the bundle's backbone at time t, normalized
// to [0, 2π). The backbone p'q' is the thin segment pq rotated according to
// the offsets that the nesting layers at both endpoints impose at time t.
func (sb *Straight) Angle(t float64) float64 {
	ebL, ebR := sb.left, sb.right
	p, q := ebL.point, ebR.point

	alpha := geom.Angle(p, q)

	// Offset of each backbone endpoint from its thin endpoint. Terminal
	// elbows pin the backbone to the point itself.
	var a, b float64
	if !ebL.terminal {
		a = t * (ebL.layerThickness + ebL.thickness/2)
	}
	if !ebR.terminal {
		b = t * (ebR.layerThickness + ebR.thickness/2)
	}

	dpq := geom.Dist(p, q)

	// The rotation beta between pq and p'q' depends on whether the two elbow
	// bundles sit on the same side of the straight bundle.
	var beta float64
	if (ebL.right == sb) == (ebR.left == sb) {
		beta = math.Asin(math.Min(1, math.Abs(b-a)/dpq))
	} else {
		beta = math.Asin(math.Min(1, (a+b)/dpq))
	}

	var ang float64
	switch {
	case ebL.right == sb && ebR.left == sb:
		// Both elbows oriented with the straight: rotation direction follows
		// which offset is larger.
		if a < b {
			ang = alpha + beta
		} else {
			ang = alpha - beta
		}
	case ebL.left == sb && ebR.right == sb:
		if a < b {
			ang = alpha - beta
		} else {
			ang = alpha + beta
		}
	case ebL.right == sb && ebR.right == sb:
		ang = alpha - beta
	default:
		ang = alpha + beta
	}

	return geom.NormalizeAngle(ang)
}

// BackboneEndpoints returns the two endpoints of the bundle's backbone at
// time t, ordered from the left elbow to the right elbow.
func (sb *Straight) BackboneEndpoints(t float64) (geom.Point, geom.Point) {
	ebL, ebR := sb.left, sb.right
	p1, p2 := ebL.point, ebR.point

	ang := sb.Angle(t)
	const rot = math.Pi / 2

	if !ebL.terminal {
		a := ang - rot
		if ebL.right == sb {
			a = ang + rot
		}
		mag := t * (ebL.layerThickness + sb.thickness/2)
		p1 = p1.Add(geom.Dir(a).Scale(mag))
	}
	if !ebR.terminal {
		a := ang - rot
		if ebR.left == sb {
			a = ang + rot
		}
		mag := t * (ebR.layerThickness + sb.thickness/2)
		p2 = p2.Add(geom.Dir(a).Scale(mag))
	}
	return p1, p2
}

// Corners returns the four corners of the bundle's swept rectangle at time t,
// ordered top right, top left, bottom left, bottom right relative to the
// backbone direction.
func (sb *Straight) Corners(t float64) [4]geom.Point {
	p1, p2 := sb.BackboneEndpoints(t)

	length := geom.Dist(p1, p2)
	theta := geom.Angle(p1, p2)
	center := geom.Pt((p1.X+p2.X)/2, (p1.Y+p2.Y)/2)

	th := t * sb.thickness
	cos, sin := math.Cos(theta), math.Sin(theta)
	l2, t2 := length/2, th/2

	return [4]geom.Point{
		{X: center.X + l2*cos - t2*sin, Y: center.Y + l2*sin + t2*cos},
		{X: center.X - l2*cos - t2*sin, Y: center.Y - l2*sin + t2*cos},
		{X: center.X - l2*cos + t2*sin, Y: center.Y - l2*sin - t2*cos},
		{X: center.X + l2*cos + t2*sin, Y: center.Y + l2*sin - t2*cos},
	}
}

// WedgeAngles returns the two boundary angles of the bundle's annular wedge
// at time t, ordered left then right; the wedge sweeps clockwise between
// them. Obstacle elbows, which have no adjacent straights, report 0, 0.
func (eb *Elbow) WedgeAngles(t float64) (float64, float64) {
	if eb.terminal && eb.left == nil {
		return 0, 0
	}

	const rot = math.Pi / 2

	a1 := eb.left.Angle(t) - rot
	if eb.left.right.point == eb.point {
		a1 = eb.left.Angle(t) + rot
	}
	a2 := eb.right.Angle(t) - rot
	if eb.right.left.point == eb.point {
		a2 = eb.right.Angle(t) + rot
	}
	return geom.NormalizeAngle(a1), geom.NormalizeAngle(a2)
}

// Radii returns the inner and outer radius of the bundle's annular wedge at
// time t. Terminal elbows grow to half their thickness: a terminal of radius
// r caps edges of total thickness 2r.
func (eb *Elbow) Radii(t float64) (inner, outer float64) {
	return t * eb.layerThickness, eb.outerRadius(t)
}

// outerRadius is the radius of the arc that sweeps outward as the structure
// grows.
func (eb *Elbow) outerRadius(t float64) float64 {
	th := eb.thickness
	if eb.terminal {
		th /= 2
	}
	return t * (eb.layerThickness + th)
}

// Splits reports whether, at time t, the bundle's outer arc properly
// intersects the swept rectangle of sb. Bundles associated with the elbow's
// own point never split it. Tangency is deliberately excluded: a touching
// split would immediately trigger a reciprocal merge and the pair could
// alternate forever at the same instant.
func (eb *Elbow) Splits(sb *Straight, t float64) bool {
	if sb.IsAssociatedWith(eb.point) {
		return false
	}

	corners := sb.Corners(t)
	a1, a2 := eb.WedgeAngles(t)
	return geom.RectIntersectsArc(corners, eb.point, eb.outerRadius(t), a1, a2, true)
}

// Merges reports whether, at time t, the bundle has degenerated: the
// backbones of its adjacent straight bundles no longer constitute a genuine
// right bend around its point. Terminal elbows never merge.
func (eb *Elbow) Merges(t float64) bool {
	if eb.terminal {
		return false
	}

	p1, p2 := eb.left.BackboneEndpoints(t)
	p3, p4 := eb.right.BackboneEndpoints(t)

	// Direct a -> b along the left backbone towards the elbow, and take c as
	// the far endpoint of the right backbone.
	a, b := p1, p2
	if eb.left.right.point != eb.point {
		a, b = p2, p1
	}
	c := p3
	if eb.right.left.point == eb.point {
		c = p4
	}

	return geom.Orient(a, b, c) != geom.Clockwise
}
