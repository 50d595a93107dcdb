package crs

import (
	"math"
	"testing"

	"github.com/sashagielis/MDGE/pkg/geom"
	"github.com/sashagielis/MDGE/pkg/instance"
)

func coincidentPair() *instance.Instance {
	return &instance.Instance{
		Terminals: []instance.Terminal{
			{Pos: geom.Pt(0, 0), Diameter: 1},
			{Pos: geom.Pt(4, 0), Diameter: 1},
		},
		Paths: []instance.Path{
			{Points: []geom.Point{geom.Pt(0, 0), geom.Pt(4, 0)}, Thickness: 1},
			{Points: []geom.Point{geom.Pt(0, 0), geom.Pt(4, 0)}, Thickness: 0.5},
		},
	}
}

func assertSingletons(t *testing.T, s *Structure) {
	t.Helper()
	for _, sb := range s.Straights() {
		if sb.Size() != 1 {
			t.Errorf("straight bundle %v has size %d after unzipping", sb, sb.Size())
		}
	}
	for _, eb := range s.Elbows() {
		if eb.Size() != 1 {
			t.Errorf("elbow bundle %v has size %d after unzipping", eb, eb.Size())
		}
	}
}

func TestUnzipCoincidentPair(t *testing.T) {
	s := mustNew(t, coincidentPair())
	ebAL, ebAR, ebBL, ebBR := s.Elbows()[0], s.Elbows()[1], s.Elbows()[2], s.Elbows()[3]

	s.Unzip()
	assertSingletons(t, s)

	sbs := s.Straights()
	if len(sbs) != 2 {
		t.Fatalf("got %d straight bundles after unzipping, want 2", len(sbs))
	}

	// The first path keeps the original bundle with its inner elbows; the
	// torn-off copy carries the outer ones.
	a, b := sbs[0], sbs[1]
	if a.Left() != ebAL || a.Right() != ebAR {
		t.Errorf("first edge spans %v to %v, want the inner terminal elbows", a.Left(), a.Right())
	}
	if b.Left() != ebBL || b.Right() != ebBR {
		t.Errorf("second edge spans %v to %v, want the outer terminal elbows", b.Left(), b.Right())
	}
	if ebBL.Left() != b || ebBL.Right() != b || ebBR.Left() != b || ebBR.Right() != b {
		t.Errorf("outer terminal elbows not re-linked to the torn-off edge")
	}

	// Thicknesses are reseeded per input path.
	if a.Thickness() != 1 {
		t.Errorf("first edge thickness = %g, want 1", a.Thickness())
	}
	if b.Thickness() != 0.5 {
		t.Errorf("second edge thickness = %g, want 0.5", b.Thickness())
	}

	// Nesting survives: the second edge still terminates outside the first.
	if ebBL.Inner() != ebAL || ebBL.LayerThickness() != 0.5 {
		t.Errorf("outer terminal nests %v at layer %g, want inner terminal at 0.5",
			ebBL.Inner(), ebBL.LayerThickness())
	}
}

func TestUnzipIsIdempotent(t *testing.T) {
	s := mustNew(t, coincidentPair())
	s.Unzip()

	str1, elb1 := s.TotalSize()
	s.Unzip()
	str2, elb2 := s.TotalSize()
	if str1 != str2 || elb1 != elb2 {
		t.Errorf("second Unzip changed totals from (%d, %d) to (%d, %d)", str1, elb1, str2, elb2)
	}
	assertSingletons(t, s)
}

func TestThickEdgesSharedBundle(t *testing.T) {
	s := mustNew(t, coincidentPair())

	// Before unzipping both chains traverse the shared bundle and report its
	// full bundled thickness.
	edges := s.ThickEdges(1)
	if len(edges) != 2 {
		t.Fatalf("got %d edges, want 2", len(edges))
	}
	for i, e := range edges {
		if len(e.Rects) != 1 || len(e.Wedges) != 0 {
			t.Fatalf("edge %d has %d rects and %d wedges, want 1 and 0", i, len(e.Rects), len(e.Wedges))
		}
		width := geom.Dist(e.Rects[0][0], e.Rects[0][3])
		if math.Abs(width-1.5) > geom.Eps {
			t.Errorf("edge %d swept thickness = %g, want the bundled 1.5", i, width)
		}
	}

	s.Unzip()

	edges = s.ThickEdges(1)
	want := []float64{1, 0.5}
	for i, e := range edges {
		if len(e.Rects) != 1 {
			t.Fatalf("edge %d has %d rects after unzipping, want 1", i, len(e.Rects))
		}
		width := geom.Dist(e.Rects[0][0], e.Rects[0][3])
		if math.Abs(width-want[i]) > geom.Eps {
			t.Errorf("edge %d swept thickness = %g, want %g", i, width, want[i])
		}
	}
}

func TestUnzipAfterSplitPack(t *testing.T) {
	in := &instance.Instance{
		Terminals: []instance.Terminal{
			{Pos: geom.Pt(0, 0), Diameter: 1},
			{Pos: geom.Pt(6, 0), Diameter: 1},
			{Pos: geom.Pt(3, 3), Diameter: 1},
		},
		Paths: []instance.Path{
			{Points: []geom.Point{geom.Pt(0, 0), geom.Pt(6, 0)}, Thickness: 1},
			{
				Points:    []geom.Point{geom.Pt(0, 0), geom.Pt(3, 0), geom.Pt(3, 3)},
				Bends:     []geom.Turn{geom.CounterClockwise},
				Thickness: 0.5,
			},
		},
	}
	s := mustNew(t, in)

	through := s.Straights()[0]
	bend := s.Elbows()[3]
	s.Split(through, bend, 0.1)

	s.Unzip()
	assertSingletons(t, s)

	edges := s.ThickEdges(1)
	if len(edges) != 2 {
		t.Fatalf("got %d edges, want 2", len(edges))
	}
	for i, e := range edges {
		if len(e.Rects) != 2 || len(e.Wedges) != 1 {
			t.Errorf("edge %d has %d rects and %d wedges, want 2 and 1", i, len(e.Rects), len(e.Wedges))
		}
	}

	// Each edge got its own thickness back.
	for i, e := range edges {
		want := in.Paths[i].Thickness
		for j, r := range e.Rects {
			width := geom.Dist(r[0], r[3])
			if math.Abs(width-want) > geom.Eps {
				t.Errorf("edge %d rect %d swept thickness = %g, want %g", i, j, width, want)
			}
		}
	}
}

func TestUnzipBundledBend(t *testing.T) {
	// Two coincident paths sharing a bend. Tearing the outer one off the bend
	// bundle must hand the clone the remaining size, not an empty bundle.
	in := &instance.Instance{
		Terminals: []instance.Terminal{
			{Pos: geom.Pt(0, 0), Diameter: 1},
			{Pos: geom.Pt(2, -2), Diameter: 1},
		},
		Paths: []instance.Path{
			{
				Points:    []geom.Point{geom.Pt(0, 0), geom.Pt(2, 0), geom.Pt(2, -2)},
				Bends:     []geom.Turn{geom.Clockwise},
				Thickness: 1,
			},
			{
				Points:    []geom.Point{geom.Pt(0, 0), geom.Pt(2, 0), geom.Pt(2, -2)},
				Bends:     []geom.Turn{geom.Clockwise},
				Thickness: 0.5,
			},
		},
	}
	s := mustNew(t, in)

	str, elb := s.TotalSize()
	if str != 4 || elb != 6 {
		t.Fatalf("bundled totals = (%d, %d), want (4, 6)", str, elb)
	}
	if got := len(s.Elbows()); got != 5 {
		t.Fatalf("got %d elbow bundles before unzipping, want 5", got)
	}

	s.Unzip()
	assertSingletons(t, s)

	str, elb = s.TotalSize()
	if str != 4 || elb != 6 {
		t.Errorf("totals after unzipping = (%d, %d), want (4, 6)", str, elb)
	}
	if got := len(s.Elbows()); got != 6 {
		t.Errorf("got %d elbow bundles after unzipping, want 6", got)
	}

	edges := s.ThickEdges(1)
	if len(edges) != 2 {
		t.Fatalf("got %d edges, want 2", len(edges))
	}
	want := []float64{1, 0.5}
	for i, e := range edges {
		if len(e.Rects) != 2 || len(e.Wedges) != 1 {
			t.Fatalf("edge %d has %d rects and %d wedges, want 2 and 1", i, len(e.Rects), len(e.Wedges))
		}
		for j, r := range e.Rects {
			width := geom.Dist(r[0], r[3])
			if math.Abs(width-want[i]) > geom.Eps {
				t.Errorf("edge %d rect %d swept thickness = %g, want %g", i, j, width, want[i])
			}
		}
	}
}

func TestThickEdgesSharedPrefix(t *testing.T) {
	// The paths share their first segment but part ways at (4, 0): one bends
	// upward while the other terminates there. Walking either chain before
	// unzipping must pick its own continuation out of the shared bundle.
	in := &instance.Instance{
		Terminals: []instance.Terminal{
			{Pos: geom.Pt(0, 0), Diameter: 1},
			{Pos: geom.Pt(4, 4), Diameter: 1},
			{Pos: geom.Pt(4, 0), Diameter: 1},
		},
		Paths: []instance.Path{
			{
				Points:    []geom.Point{geom.Pt(0, 0), geom.Pt(4, 0), geom.Pt(4, 4)},
				Bends:     []geom.Turn{geom.CounterClockwise},
				Thickness: 1,
			},
			{Points: []geom.Point{geom.Pt(0, 0), geom.Pt(4, 0)}, Thickness: 1},
		},
	}
	s := mustNew(t, in)

	edges := s.ThickEdges(1)
	if len(edges) != 2 {
		t.Fatalf("got %d edges, want 2", len(edges))
	}

	bent, straight := edges[0], edges[1]
	if len(bent.Rects) != 2 || len(bent.Wedges) != 1 {
		t.Fatalf("bent edge has %d rects and %d wedges, want 2 and 1", len(bent.Rects), len(bent.Wedges))
	}
	if bent.Wedges[0].Center != geom.Pt(4, 0) {
		t.Errorf("bent edge turns at %v, want (4, 0)", bent.Wedges[0].Center)
	}
	for j, want := range []float64{2, 1} {
		width := geom.Dist(bent.Rects[j][0], bent.Rects[j][3])
		if math.Abs(width-want) > geom.Eps {
			t.Errorf("bent edge rect %d swept thickness = %g, want %g", j, width, want)
		}
	}

	if len(straight.Rects) != 1 || len(straight.Wedges) != 0 {
		t.Fatalf("straight edge has %d rects and %d wedges, want 1 and 0", len(straight.Rects), len(straight.Wedges))
	}
	if width := geom.Dist(straight.Rects[0][0], straight.Rects[0][3]); math.Abs(width-2) > geom.Eps {
		t.Errorf("straight edge swept thickness = %g, want the bundled 2", width)
	}
}
