package crs

import (
	"fmt"
	"slices"

	"github.com/sashagielis/MDGE/pkg/geom"
)

// tear peels one segment off the outer side of the straight bundle b into a
// new singleton straight bundle. Sizes are kept consistent on the elbow
// bundles at both ends; thicknesses are left stale and restored by Unzip once
// all bundles are singletons.
func (s *Structure) tear(b *Straight) {
	if b.size == 1 {
		return
	}

	c := s.newStraight()
	c.size = 1
	b.size--

	ebLeft := b.left
	ebRight := b.right
	dirLeft := ebLeft.right == b
	dirRight := ebRight.left == b

	// Attach the torn segment to the outermost elbow bundle on the left.
	c.left = ebLeft
	switch {
	case ebLeft.terminal:
		ebLeft.left = c
		ebLeft.right = c
	case ebLeft.right == b:
		ebLeft.right = c
	default:
		ebLeft.left = c
	}
	if ebLeft.size == 1 {
		b.left = ebLeft.inner
	} else {
		// The outer elbow bundle splits: one segment stays with c, the rest
		// move to a clone that keeps bounding b.
		in := s.cloneElbow(ebLeft)
		in.size--
		ebLeft.size = 1
		ebLeft.inner = in
		b.left = in
		switch {
		case in.terminal:
			in.left = b
			in.right = b
		case in.right == c:
			in.right = b
		default:
			in.left = b
		}
	}

	if dirLeft == dirRight {
		// Same handedness at both ends: the outermost right elbow bundle
		// pairs with the outermost left one.
		c.right = ebRight
		switch {
		case ebRight.terminal:
			ebRight.left = c
			ebRight.right = c
		case ebRight.left == b:
			ebRight.left = c
		default:
			ebRight.right = c
		}
		if ebRight.size == 1 {
			b.right = ebRight.inner
		} else {
			in := s.cloneElbow(ebRight)
			in.size--
			ebRight.size = 1
			ebRight.inner = in
			b.right = in
			switch {
			case in.terminal:
				in.left = b
				in.right = b
			case in.left == c:
				in.left = b
			default:
				in.right = b
			}
		}
	} else {
		// Opposite handedness: the outer left segment pairs with the
		// innermost right elbow bundle instead.
		for ebRight.inner != nil && ebRight.inner.IsConnectedTo(b) {
			ebRight = ebRight.inner
		}
		c.right = ebRight
		if ebRight.size == 1 {
			switch {
			case ebRight.terminal:
				ebRight.left = c
				ebRight.right = c
			case ebRight.left == b:
				ebRight.left = c
			default:
				ebRight.right = c
			}
		} else {
			ebRight.size--
			in := s.cloneElbow(ebRight)
			in.size = 1
			ebRight.inner = in
			switch {
			case in.left == b:
				in.left = c
			default:
				in.right = c
			}
			c.right = in
		}
	}

	c.terminal = c.left.terminal || c.right.terminal
	b.terminal = b.left.terminal || b.right.terminal
}

// Unzip tears every bundle apart until all bundles are singletons, restoring
// a one-to-one correspondence between bundles and the segments of the input
// paths. Thicknesses, destroyed by tearing, are reseeded per input path, and
// every layer thickness cache is recomputed from the resulting nesting
// chains. All bundle sizes are 1 afterwards.
func (s *Structure) Unzip() {
	for _, sb := range slices.Clone(s.straights) {
		for sb.Alive() && sb.size > 1 {
			s.tear(sb)
		}
	}

	for _, ch := range s.chains {
		ch.reseed()
	}

	for _, eb := range s.elbows {
		layer := 0.0
		for in := eb.inner; in != nil; in = in.inner {
			layer += in.innerThickness()
		}
		eb.layerThickness = layer
	}
}

// reseed walks the chain from its starting terminal elbow and stamps the
// path's original thickness on every bundle strictly between the two
// terminal elbows, plus the straight bundles touching them. Terminal elbows
// keep the thickness they were built with.
func (ch chain) reseed() {
	ebPrev := ch.start
	sb := ch.start.right
	for {
		sb.thickness = ch.thickness
		eb := sb.Next(ebPrev)
		if eb.terminal {
			return
		}
		eb.thickness = ch.thickness
		ebPrev, sb = eb, eb.Next(sb)
	}
}

// ThickEdge is the drawn geometry of one input path at a fixed time: a
// rotated rectangle per straight bundle and an annular wedge per interior
// elbow bundle, in path order.
type ThickEdge struct {
	Rects  [][4]geom.Point
	Wedges []Wedge
}

// Wedge is an annular circle sector around an elbow point. The sector sweeps
// clockwise from A1 to A2 between the Inner and Outer radii.
type Wedge struct {
	Center geom.Point
	Inner  float64
	Outer  float64
	A1     float64
	A2     float64
}

// ThickEdges walks every chain along its path points and collects the
// geometry of its bundles at time t. After Unzip each chain visits exactly
// the singleton bundles of its own path; before, bundles are shared and
// appear in several edges with their full bundled thickness.
func (s *Structure) ThickEdges(t float64) []ThickEdge {
	out := make([]ThickEdge, 0, len(s.chains))
	for _, ch := range s.chains {
		last := ch.points[len(ch.points)-1]
		var te ThickEdge
		at := ch.points[0]
		next := 1
		sb := ch.start.right
		for {
			te.Rects = append(te.Rects, sb.Corners(t))
			far := sb.right.point
			if far == at {
				far = sb.left.point
			}
			if far == last {
				break
			}
			if far == ch.points[next] {
				next++
			}
			eb := chainElbow(sb, far, ch.points[next])
			te.Wedges = append(te.Wedges, wedgeAt(eb, t))
			at, sb = far, eb.Next(sb)
		}
		out = append(out, te)
	}
	return out
}

func wedgeAt(eb *Elbow, t float64) Wedge {
	inner, outer := eb.Radii(t)
	a1, a2 := eb.WedgeAngles(t)
	return Wedge{Center: eb.point, Inner: inner, Outer: outer, A1: a1, A2: a2}
}

// chainElbow finds the elbow bundle that carries a chain across p. While
// straight bundles are shared, sb's own elbow pointers hold the outermost
// layer at each endpoint, which can belong to another path, so the nesting
// chain at p is searched instead of following sb's pointers. A lone
// non-terminal candidate is the continuation; when coincident chains part
// ways at p the candidate heading for the chain's next point wins, either
// reaching it directly or ending at a cut point on the way.
func chainElbow(sb *Straight, p, next geom.Point) *Elbow {
	outermost := sb.right
	if sb.left.point == p {
		outermost = sb.left
	}

	var candidates []*Elbow
	for eb := outermost; eb != nil; eb = eb.inner {
		if !eb.terminal && eb.IsConnectedTo(sb) {
			candidates = append(candidates, eb)
		}
	}
	if len(candidates) == 1 {
		return candidates[0]
	}

	for _, eb := range candidates {
		other := eb.Next(sb)
		far := other.right.point
		if far == p {
			far = other.left.point
		}
		if far == next || geom.OnSegment(p, next, far) {
			return eb
		}
	}
	panic(fmt.Sprintf("crs: no elbow bundle at %v continues to %v", p, next))
}
