package crs

import (
	"fmt"

	"github.com/sashagielis/MDGE/pkg/geom"
)

// Split cuts the straight bundle sb at the point where the elbow bundle x
// intersects its swept rectangle at time t. It inserts a new zero-length
// degenerate elbow bundle eb around x's point with eb.Inner() == x and
// returns the resulting sequence sb, eb, sb2. Elbow bundles nested at the
// cut are re-linked to whichever half they now bound, and a freshly cut half
// that comes to coincide with one of x's own straights immediately unions
// with it.
//
// Split panics if sb is associated with x's point: adjacent bundles never
// split each other.
func (s *Structure) Split(sb *Straight, x *Elbow, t float64) (*Straight, *Elbow, *Straight) {
	if sb.IsAssociatedWith(x.point) {
		panic(fmt.Sprintf("crs: straight bundle %v is associated with split point %v", sb, x.point))
	}

	sb2 := s.cloneStraight(sb)
	eb := s.newElbow()

	// Which half ends up on which side of the cut follows from the side of
	// the backbone the split point lies on.
	p1, p2 := sb.BackboneEndpoints(t)
	if geom.Orient(x.point, p1, p2) == geom.Clockwise {
		sb.right = eb
		sb2.left = eb
	} else {
		sb.left = eb
		sb2.right = eb
	}

	// The cut may strand either half on a terminal elbow or free it from one.
	sb.terminal = sb.Next(eb).terminal
	sb2.terminal = sb2.Next(eb).terminal

	eb.point = x.point
	eb.left = sb
	eb.right = sb2
	eb.inner = x
	eb.size = sb.size
	eb.thickness = sb.thickness
	eb.layerThickness = x.layerThickness + x.innerThickness()
	eb.turn = geom.Clockwise

	// Elbow bundles nested inside the cut still reference the uncut bundle;
	// the ones bounding the new half move over to sb2.
	for ebRight := sb2.Next(eb); ebRight != nil && ebRight.IsConnectedTo(sb); ebRight = ebRight.inner {
		switch {
		case ebRight.terminal:
			ebRight.left = sb2
			ebRight.right = sb2
		case ebRight.left == sb:
			ebRight.left = sb2
		default:
			ebRight.right = sb2
		}
	}

	if !x.terminal {
		// A half cut flush against one of x's own straights packs with it.
		if ebLeftOfX := x.left.Next(x); sb.IsAssociatedWith(ebLeftOfX.point) {
			s.unionStraights(sb, x.left)
		}
		if ebRightOfX := x.right.Next(x); sb2.IsAssociatedWith(ebRightOfX.point) {
			s.unionStraights(sb2, x.right)
		}
	}

	return sb, eb, sb2
}

// Merge removes the degenerate zero-length elbow bundle eb and fuses its two
// neighboring straight bundles into one, returning the surviving bundle sb1.
// If either straight packs more segments than eb, it is divided first so all
// three bundles agree on size. eb and sb2 are destroyed.
//
// Merge panics if sb1 or sb2 is not connected to eb.
func (s *Structure) Merge(sb1 *Straight, eb *Elbow, sb2 *Straight) *Straight {
	if !sb1.IsConnectedTo(eb) {
		panic(fmt.Sprintf("crs: straight bundle %v is not connected to elbow bundle %v", sb1, eb))
	}
	if !sb2.IsConnectedTo(eb) {
		panic(fmt.Sprintf("crs: straight bundle %v is not connected to elbow bundle %v", sb2, eb))
	}

	if sb1.size > eb.size {
		s.divide(sb1, eb)
	}
	if sb2.size > eb.size {
		s.divide(sb2, eb)
	}

	ebRight := sb2.Next(eb)
	if sb1.right == eb {
		sb1.right = ebRight
	} else {
		sb1.left = ebRight
	}

	sb1.terminal = sb1.terminal || sb2.terminal

	for ebRight != nil && ebRight.IsConnectedTo(sb2) {
		switch {
		case ebRight.terminal:
			ebRight.left = sb1
			ebRight.right = sb1
		case ebRight.left == sb2:
			ebRight.left = sb1
		default:
			ebRight.right = sb1
		}
		ebRight = ebRight.inner
	}

	s.removeElbow(eb)
	s.removeStraight(sb2)
	return sb1
}

// unionStraights fuses two straight bundles spanning the same two points into
// x, summing size and thickness, re-pointing every elbow bundle referencing y
// to x, and recursively unioning elbow bundles that become duplicates.
// y is destroyed.
//
// Terminal bundles only pack with terminal bundles: a terminal straight and a
// bundle bending past the same two points coincide as segments but belong to
// different nesting regimes, so a mixed pair is left alone.
func (s *Structure) unionStraights(x, y *Straight) {
	if x.terminal != y.terminal {
		return
	}

	x.size += y.size
	x.thickness += y.thickness

	// x's elbow references must stay the outermost on both sides.
	if x.isCloserThan(y, x.left.point) {
		if x.hasSameOrientationAs(y) {
			x.left = y.left
		} else {
			x.left = y.right
		}
	}
	if x.isCloserThan(y, x.right.point) {
		if x.hasSameOrientationAs(y) {
			x.right = y.right
		} else {
			x.right = y.left
		}
	}

	// Re-point the elbow bundles on both sides of y to x.
	for eb := y.left; eb != nil && eb.IsConnectedTo(y); eb = eb.inner {
		switch {
		case eb.terminal:
			eb.left = x
			eb.right = x
		case eb.right == y:
			eb.right = x
		default:
			eb.left = x
		}
	}
	for eb := y.right; eb != nil && eb.IsConnectedTo(y); eb = eb.inner {
		switch {
		case eb.terminal:
			eb.left = x
			eb.right = x
		case eb.left == y:
			eb.left = x
		default:
			eb.right = x
		}
	}

	// Adjacent elbow bundles of x that now share both straights duplicate
	// each other and collapse.
	s.collapseDuplicateElbows(x, x.left)
	s.collapseDuplicateElbows(x, x.right)

	s.removeStraight(y)
}

// collapseDuplicateElbows walks the nesting chain inward from eb and unions
// consecutive elbow bundles of x that lead to the same next straight bundle.
func (s *Structure) collapseDuplicateElbows(x *Straight, eb *Elbow) {
	if eb.terminal {
		return
	}
	in := eb.inner
	for eb.IsConnectedTo(x) && in != nil && in.IsConnectedTo(x) && !in.terminal {
		if eb.Next(x) == in.Next(x) {
			s.unionElbows(eb, in)
		} else {
			eb = in
		}
		in = eb.inner
	}
}

// unionElbows fuses two elbow bundles around the same point that share the
// same straight bundles into x, summing size and thickness. y is destroyed.
// Terminal bundles never union.
func (s *Structure) unionElbows(x, y *Elbow) {
	if x.terminal || y.terminal {
		return
	}

	x.size += y.size
	x.thickness += y.thickness

	if y.IsCloserThan(x) {
		// y was nested inside x: x simply absorbs y's layer position.
		x.inner = y.inner
		x.layerThickness = y.layerThickness
	} else {
		// x was the inner one: straights referencing y move over to x.
		if sbL := y.left; sbL.right == y {
			sbL.right = x
		} else {
			sbL.left = x
		}
		if sbR := y.right; sbR.left == y {
			sbR.left = x
		} else {
			sbR.right = x
		}
	}

	s.removeElbow(y)
}

// divide splits the straight bundle sb at its adjacent degenerate elbow
// bundle eb into two size-disjoint pieces, so that the piece still adjacent
// to eb matches eb's size exactly. The two pieces temporarily share a
// segment; the enclosing Merge separates them for good. Dividing may in turn
// have to split a nested elbow bundle on sb's far side to make sizes line up.
//
// divide panics if sb is not connected to eb or eb is not strictly smaller.
func (s *Structure) divide(sb *Straight, eb *Elbow) {
	if !sb.IsConnectedTo(eb) {
		panic(fmt.Sprintf("crs: straight bundle %v is not connected to elbow bundle %v", sb, eb))
	}
	if eb.size >= sb.size {
		panic(fmt.Sprintf("crs: divide of %v needs a strictly smaller elbow bundle, got %d >= %d", sb, eb.size, sb.size))
	}

	// sb keeps eb's side; sb2 takes over the remainder.
	sb2 := s.cloneStraight(sb)

	if sb2.right == eb {
		sb2.right = eb.inner
	} else {
		sb2.left = eb.inner
	}

	for in := eb.inner; in != nil && in.IsConnectedTo(sb); in = in.inner {
		switch {
		case in.terminal:
			in.left = sb2
			in.right = sb2
		case in.left == sb:
			in.left = sb2
		default:
			in.right = sb2
		}
	}

	sb.size = eb.size
	sb.thickness = eb.thickness
	sb2.size -= sb.size
	sb2.thickness -= sb.thickness

	// Walk the nesting chain on sb's far side until the accumulated size
	// covers the piece bounded there, splitting the last elbow bundle if the
	// boundary falls inside it.
	ebNext := sb.Next(eb)
	size := ebNext.size
	thickness := ebNext.thickness

	dirEB := eb.left == sb
	dirNext := ebNext.right == sb

	if dirEB == dirNext {
		// Same orientation on both sides: the far chain bounds sb.
		for size < sb.size {
			ebNext = ebNext.inner
			size += ebNext.size
			thickness += ebNext.thickness
		}
		if size > sb.size {
			ebNew := s.cloneElbow(ebNext)
			ebNext.inner = ebNew
			ebNew.size = size - sb.size
			ebNew.thickness = thickness - sb.thickness
			ebNext.size -= ebNew.size
			ebNext.thickness -= ebNew.thickness
			ebNext.layerThickness = ebNew.layerThickness + ebNew.thickness
		}

		// Everything nested inside ebNext bounds sb2.
		ebNext = ebNext.inner
		if sb2.right == eb.inner {
			sb2.left = ebNext
		} else {
			sb2.right = ebNext
		}
		for ebNext != nil && ebNext.IsConnectedTo(sb) {
			switch {
			case ebNext.terminal:
				ebNext.left = sb2
				ebNext.right = sb2
			case ebNext.right == sb:
				ebNext.right = sb2
			default:
				ebNext.left = sb2
			}
			ebNext = ebNext.inner
		}
	} else {
		// Opposite orientations: the far chain bounds sb2 from the outside.
		for size < sb2.size {
			switch {
			case ebNext.terminal:
				ebNext.left = sb2
				ebNext.right = sb2
			case ebNext.left == sb:
				ebNext.left = sb2
			default:
				ebNext.right = sb2
			}
			ebNext = ebNext.inner
			size += ebNext.size
			thickness += ebNext.thickness
		}
		if size > sb2.size {
			ebNew := s.cloneElbow(ebNext)
			ebNext.inner = ebNew
			ebNew.size = size - sb2.size
			ebNew.thickness = thickness - sb2.thickness
			ebNext.size -= ebNew.size
			ebNext.thickness -= ebNew.thickness
			ebNext.layerThickness = ebNew.layerThickness + ebNew.thickness
		}

		// ebNext is the innermost bundle bounding sb2; everything inside it
		// bounds sb.
		switch {
		case ebNext.terminal:
			ebNext.left = sb2
			ebNext.right = sb2
		case ebNext.left == sb:
			ebNext.left = sb2
		default:
			ebNext.right = sb2
		}
		ebNext = ebNext.inner
		if sb.left == eb {
			sb.right = ebNext
		} else {
			sb.left = ebNext
		}
	}
}
