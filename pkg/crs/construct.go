package crs

import (
	"slices"

	"github.com/sashagielis/MDGE/pkg/geom"
	"github.com/sashagielis/MDGE/pkg/instance"
)

// Structure is a compact routing structure: the live bundle graph for one
// instance, with one alternating straight/elbow chain per input path, packed
// so that coincident segments and arcs share a bundle.
//
// Structure is not safe for concurrent use; the growing simulation drives it
// from a single goroutine. Bundle slices preserve creation order, which keeps
// every traversal deterministic.
type Structure struct {
	straights []*Straight
	elbows    []*Elbow
	chains    []chain

	nextID uint64
}

// chain remembers, per input path, where its bundle chain starts, the points
// it visits after redundant bends collapsed, and which thickness to reseed
// after unzipping.
type chain struct {
	start     *Elbow // terminal elbow bundle at the path's first endpoint
	points    []geom.Point
	thickness float64
}

// New builds the compact routing structure for an instance:
//
//  1. One straight bundle per consecutive point pair and one elbow bundle per
//     interior bend of every path, with terminal elbow bundles at both
//     endpoints and at every obstacle.
//  2. Redundant collinear bends that add no routing information collapse.
//  3. The elbow bundles around every point are ordered closest-first and
//     wired into their nesting chain.
//  4. Elbow handedness is canonicalized to clockwise.
//  5. Straight bundles spanning the same two points union greedily, packing
//     coincident geometry.
func New(in *instance.Instance) (*Structure, error) {
	if err := in.Validate(); err != nil {
		return nil, err
	}

	s := &Structure{}

	byPoint := make(map[geom.Point][]*Elbow)
	var pointOrder []geom.Point
	register := func(eb *Elbow) {
		if _, ok := byPoint[eb.point]; !ok {
			pointOrder = append(pointOrder, eb.point)
		}
		byPoint[eb.point] = append(byPoint[eb.point], eb)
	}

	for _, p := range in.Paths {
		pts, bends := collapseRedundantBends(p.Points, p.Bends)
		start := s.buildChain(pts, bends, p.Thickness, register)
		s.chains = append(s.chains, chain{start: start, points: pts, thickness: p.Thickness})
	}

	// Obstacles contribute terminal elbow bundles of thickness zero.
	for _, o := range in.Obstacles {
		eb := s.newElbow()
		eb.point = o.Pos
		eb.size = 1
		eb.terminal = true
		register(eb)
	}

	// Order the elbow bundles around every point from closest to farthest
	// and wire the nesting chains.
	for _, p := range pointOrder {
		ebs := byPoint[p]
		sorted := []*Elbow{ebs[0]}
		for _, nw := range ebs[1:] {
			ins := len(sorted)
			for i, eb := range sorted {
				if nw.IsCloserThan(eb) {
					ins = i
					break
				}
			}
			sorted = slices.Insert(sorted, ins, nw)
		}

		sorted[0].inner = nil
		sorted[0].layerThickness = 0
		for i := 1; i < len(sorted); i++ {
			eb := sorted[i]
			eb.inner = sorted[i-1]
			eb.layerThickness = eb.inner.layerThickness + eb.inner.innerThickness()
		}
	}

	// Canonicalize handedness: revert every left bend into a right bend so
	// that bundles around the same point compare consistently.
	for _, eb := range s.elbows {
		if eb.turn == geom.CounterClockwise {
			eb.left, eb.right = eb.right, eb.left
			eb.turn = geom.Clockwise
		}
	}

	// Pack coincident straight bundles (and, transitively, their adjacent
	// elbow bundles). Union removes the second bundle from the slice, so the
	// inner index only advances on a mismatch.
	i := 0
	for i < len(s.straights)-1 {
		sb1 := s.straights[i]
		lp, rp := sb1.left.point, sb1.right.point
		j := i + 1
		for j < len(s.straights) {
			sb2 := s.straights[j]
			if sb2.terminal == sb1.terminal && sb2.IsAssociatedWith(lp) && sb2.IsAssociatedWith(rp) {
				s.unionStraights(sb1, sb2)
			} else {
				j++
			}
		}
		i++
	}

	return s, nil
}

// innerThickness is the thickness an elbow bundle contributes to the layers
// nested outside it. Terminal bundles contribute half: their radius caps
// edges of twice that thickness.
func (eb *Elbow) innerThickness() float64 {
	if eb.terminal {
		return eb.thickness / 2
	}
	return eb.thickness
}

// collapseRedundantBends removes interior points that add no routing
// information: a bend is removable when it lies on the segment between its
// neighbours and shares handedness with both.
func collapseRedundantBends(points []geom.Point, bends []geom.Turn) ([]geom.Point, []geom.Turn) {
	pts := []geom.Point{points[0]}
	var turns []geom.Turn

	for i := 1; i < len(points)-1; i++ {
		q := points[i]
		o := bends[i-1]
		if len(turns) >= 2 {
			p1 := pts[len(pts)-2]
			p2 := pts[len(pts)-1]
			if geom.OnSegment(p1, q, p2) && turns[len(turns)-1] == o && turns[len(turns)-2] == o {
				pts = pts[:len(pts)-1]
				turns = turns[:len(turns)-1]
			}
		}
		pts = append(pts, q)
		turns = append(turns, o)
	}

	pts = append(pts, points[len(points)-1])
	return pts, turns
}

// buildChain constructs the alternating straight/elbow bundle chain for one
// path and returns the terminal elbow bundle at its first endpoint.
func (s *Structure) buildChain(pts []geom.Point, bends []geom.Turn, thickness float64, register func(*Elbow)) *Elbow {
	elbows := make([]*Elbow, 0, len(pts))

	// Terminal elbow at the first endpoint.
	first := s.newElbow()
	first.point = pts[0]
	first.size = 1
	first.thickness = thickness
	first.terminal = true
	elbows = append(elbows, first)
	register(first)

	for i := 0; i < len(pts)-1; i++ {
		sb := s.newStraight()
		sb.size = 1
		sb.thickness = thickness

		eb1 := elbows[i]
		if i > 0 {
			eb1.turn = bends[i-1]
		}

		eb2 := s.newElbow()
		eb2.point = pts[i+1]
		eb2.size = 1
		eb2.thickness = thickness
		elbows = append(elbows, eb2)
		register(eb2)

		eb1.right = sb
		eb2.left = sb
		if eb1.terminal {
			eb1.left = sb
			sb.terminal = true
		}
		if i == len(pts)-2 {
			eb2.right = sb
			eb2.terminal = true
			sb.terminal = true
		}

		sb.left = eb1
		sb.right = eb2
	}

	return first
}

func (s *Structure) newStraight() *Straight {
	s.nextID++
	sb := &Straight{id: s.nextID}
	s.straights = append(s.straights, sb)
	return sb
}

func (s *Structure) newElbow() *Elbow {
	s.nextID++
	eb := &Elbow{id: s.nextID}
	s.elbows = append(s.elbows, eb)
	return eb
}

func (s *Structure) cloneStraight(sb *Straight) *Straight {
	s.nextID++
	c := &Straight{
		left: sb.left, right: sb.right,
		size: sb.size, thickness: sb.thickness,
		terminal: sb.terminal,
		id:       s.nextID,
	}
	s.straights = append(s.straights, c)
	return c
}

func (s *Structure) cloneElbow(eb *Elbow) *Elbow {
	s.nextID++
	c := &Elbow{
		point: eb.point, left: eb.left, right: eb.right, inner: eb.inner,
		size: eb.size, thickness: eb.thickness, layerThickness: eb.layerThickness,
		terminal: eb.terminal, turn: eb.turn,
		id: s.nextID,
	}
	s.elbows = append(s.elbows, c)
	return c
}

func (s *Structure) removeStraight(sb *Straight) {
	sb.dead = true
	s.straights = slices.DeleteFunc(s.straights, func(b *Straight) bool { return b == sb })
}

func (s *Structure) removeElbow(eb *Elbow) {
	eb.dead = true
	s.elbows = slices.DeleteFunc(s.elbows, func(b *Elbow) bool { return b == eb })
}

// Straights returns the live straight bundles in deterministic order.
// The returned slice is a copy; the bundles are shared.
func (s *Structure) Straights() []*Straight { return slices.Clone(s.straights) }

// Elbows returns the live elbow bundles in deterministic order.
// The returned slice is a copy; the bundles are shared.
func (s *Structure) Elbows() []*Elbow { return slices.Clone(s.elbows) }

// Contains reports whether the straight bundle is live in the structure.
func (s *Structure) Contains(sb *Straight) bool { return !sb.dead && slices.Contains(s.straights, sb) }

// ContainsElbow reports whether the elbow bundle is live in the structure.
func (s *Structure) ContainsElbow(eb *Elbow) bool { return !eb.dead && slices.Contains(s.elbows, eb) }

// TotalSize returns the summed sizes of all live straight and elbow bundles.
// Size is conserved across split, merge, union and divide, so this stays
// constant during growing until Unzip tears bundles apart.
func (s *Structure) TotalSize() (straights, elbows int) {
	for _, sb := range s.straights {
		straights += sb.size
	}
	for _, eb := range s.elbows {
		elbows += eb.size
	}
	return straights, elbows
}
