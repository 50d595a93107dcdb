package crs

import (
	"math"
	"testing"

	"github.com/sashagielis/MDGE/pkg/geom"
	"github.com/sashagielis/MDGE/pkg/instance"
)

func mustNew(t *testing.T, in *instance.Instance) *Structure {
	t.Helper()
	s, err := New(in)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	return s
}

func singleSegment() *instance.Instance {
	return &instance.Instance{
		Name: "segment",
		Terminals: []instance.Terminal{
			{Pos: geom.Pt(0, 0), Diameter: 1},
			{Pos: geom.Pt(4, 0), Diameter: 1},
		},
		Paths: []instance.Path{
			{Points: []geom.Point{geom.Pt(0, 0), geom.Pt(4, 0)}, Thickness: 1},
		},
	}
}

func TestNewSingleSegment(t *testing.T) {
	s := mustNew(t, singleSegment())

	sbs, ebs := s.Straights(), s.Elbows()
	if len(sbs) != 1 || len(ebs) != 2 {
		t.Fatalf("got %d straights, %d elbows, want 1 and 2", len(sbs), len(ebs))
	}

	sb := sbs[0]
	if !sb.IsTerminal() || sb.Size() != 1 || sb.Thickness() != 1 {
		t.Errorf("straight = %v (size %d, thickness %g), want terminal singleton of thickness 1",
			sb, sb.Size(), sb.Thickness())
	}
	for i, eb := range ebs {
		if !eb.IsTerminal() {
			t.Errorf("elbow %d is not terminal", i)
		}
		if eb.Left() != sb || eb.Right() != sb {
			t.Errorf("elbow %d is not wired to the straight on both sides", i)
		}
		if eb.Inner() != nil || eb.LayerThickness() != 0 {
			t.Errorf("elbow %d: inner = %v, layer = %g, want innermost", i, eb.Inner(), eb.LayerThickness())
		}
	}
	if sb.Left() != ebs[0] || sb.Right() != ebs[1] {
		t.Errorf("straight endpoints not wired to the terminal elbows")
	}

	if str, elb := s.TotalSize(); str != 1 || elb != 2 {
		t.Errorf("TotalSize() = (%d, %d), want (1, 2)", str, elb)
	}
}

func TestNewBentPath(t *testing.T) {
	in := &instance.Instance{
		Terminals: []instance.Terminal{
			{Pos: geom.Pt(0, 0), Diameter: 1},
			{Pos: geom.Pt(2, 2), Diameter: 1},
		},
		Paths: []instance.Path{{
			Points:    []geom.Point{geom.Pt(0, 0), geom.Pt(2, 0), geom.Pt(2, 2)},
			Bends:     []geom.Turn{geom.CounterClockwise},
			Thickness: 1,
		}},
	}
	s := mustNew(t, in)

	sbs, ebs := s.Straights(), s.Elbows()
	if len(sbs) != 2 || len(ebs) != 3 {
		t.Fatalf("got %d straights, %d elbows, want 2 and 3", len(sbs), len(ebs))
	}

	bend := ebs[1]
	if bend.IsTerminal() {
		t.Fatalf("interior elbow marked terminal")
	}
	if bend.Point() != geom.Pt(2, 0) {
		t.Errorf("bend point = %v, want (2, 0)", bend.Point())
	}
	// Left bends are canonicalized to right bends by swapping sides, so the
	// bundle coming from the first terminal sits on the bend's right.
	if bend.Right() != sbs[0] || bend.Left() != sbs[1] {
		t.Errorf("bend not canonicalized: left = %v, right = %v", bend.Left(), bend.Right())
	}

	edges := s.ThickEdges(1)
	if len(edges) != 1 {
		t.Fatalf("got %d edges, want 1", len(edges))
	}
	if len(edges[0].Rects) != 2 || len(edges[0].Wedges) != 1 {
		t.Errorf("edge has %d rects and %d wedges, want 2 and 1",
			len(edges[0].Rects), len(edges[0].Wedges))
	}
	w := edges[0].Wedges[0]
	if w.Center != geom.Pt(2, 0) {
		t.Errorf("wedge center = %v, want (2, 0)", w.Center)
	}
	if w.Inner != 0 || w.Outer <= w.Inner {
		t.Errorf("wedge radii = (%g, %g), want inner 0 and positive outer", w.Inner, w.Outer)
	}
}

func TestNewCoincidentPaths(t *testing.T) {
	in := &instance.Instance{
		Terminals: []instance.Terminal{
			{Pos: geom.Pt(0, 0), Diameter: 1},
			{Pos: geom.Pt(4, 0), Diameter: 1},
		},
		Paths: []instance.Path{
			{Points: []geom.Point{geom.Pt(0, 0), geom.Pt(4, 0)}, Thickness: 1},
			{Points: []geom.Point{geom.Pt(0, 0), geom.Pt(4, 0)}, Thickness: 0.5},
		},
	}
	s := mustNew(t, in)

	sbs, ebs := s.Straights(), s.Elbows()
	if len(sbs) != 1 || len(ebs) != 4 {
		t.Fatalf("got %d straights, %d elbows, want 1 and 4", len(sbs), len(ebs))
	}

	sb := sbs[0]
	if sb.Size() != 2 || sb.Thickness() != 1.5 {
		t.Errorf("bundle size = %d, thickness = %g, want 2 and 1.5", sb.Size(), sb.Thickness())
	}

	// Creation order: first path's terminals, then the second path's. The
	// older terminal elbow nests innermost at the shared point.
	ebAL, ebAR, ebBL, ebBR := ebs[0], ebs[1], ebs[2], ebs[3]
	if ebBL.Inner() != ebAL || ebBR.Inner() != ebAR {
		t.Errorf("outer terminal elbows do not nest around the older ones")
	}
	if ebAL.Inner() != nil || ebAR.Inner() != nil {
		t.Errorf("innermost terminal elbows have inner chains")
	}
	if got := ebBL.LayerThickness(); got != 0.5 {
		t.Errorf("outer terminal layer thickness = %g, want 0.5", got)
	}

	// The bundle adopts the outermost elbow at each end but every elbow
	// points back at the bundle.
	if sb.Left() != ebBL || sb.Right() != ebBR {
		t.Errorf("bundle endpoints = %v, %v, want outermost terminal elbows", sb.Left(), sb.Right())
	}
	for i, eb := range ebs {
		if eb.Left() != sb || eb.Right() != sb {
			t.Errorf("elbow %d does not point at the bundle", i)
		}
	}

	if str, elb := s.TotalSize(); str != 2 || elb != 4 {
		t.Errorf("TotalSize() = (%d, %d), want (2, 4)", str, elb)
	}
}

func TestNewObstacle(t *testing.T) {
	in := singleSegment()
	in.Obstacles = []instance.Obstacle{{Pos: geom.Pt(2, 1)}}
	s := mustNew(t, in)

	ebs := s.Elbows()
	if len(ebs) != 3 {
		t.Fatalf("got %d elbows, want 3", len(ebs))
	}
	obs := ebs[2]
	if !obs.IsTerminal() || obs.Thickness() != 0 || obs.Point() != geom.Pt(2, 1) {
		t.Errorf("obstacle elbow = %v (terminal %v, thickness %g)", obs.Point(), obs.IsTerminal(), obs.Thickness())
	}
	if obs.Left() != nil || obs.Right() != nil {
		t.Errorf("obstacle elbow has adjacent straights")
	}
	if a1, a2 := obs.WedgeAngles(1); a1 != 0 || a2 != 0 {
		t.Errorf("obstacle wedge angles = (%g, %g), want (0, 0)", a1, a2)
	}
}

func TestCollapseRedundantBends(t *testing.T) {
	tests := []struct {
		name      string
		points    []geom.Point
		bends     []geom.Turn
		wantPts   []geom.Point
		wantBends []geom.Turn
	}{
		{
			name:    "no bends",
			points:  []geom.Point{geom.Pt(0, 0), geom.Pt(4, 0)},
			wantPts: []geom.Point{geom.Pt(0, 0), geom.Pt(4, 0)},
		},
		{
			name:      "genuine bend kept",
			points:    []geom.Point{geom.Pt(0, 0), geom.Pt(2, 0), geom.Pt(2, 2)},
			bends:     []geom.Turn{geom.CounterClockwise},
			wantPts:   []geom.Point{geom.Pt(0, 0), geom.Pt(2, 0), geom.Pt(2, 2)},
			wantBends: []geom.Turn{geom.CounterClockwise},
		},
		{
			name: "collinear run with matching handedness collapses",
			points: []geom.Point{
				geom.Pt(0, 0), geom.Pt(2, 0), geom.Pt(3, 0), geom.Pt(4, 0), geom.Pt(4, -4),
			},
			bends: []geom.Turn{geom.Clockwise, geom.Clockwise, geom.Clockwise},
			wantPts: []geom.Point{
				geom.Pt(0, 0), geom.Pt(2, 0), geom.Pt(4, 0), geom.Pt(4, -4),
			},
			wantBends: []geom.Turn{geom.Clockwise, geom.Clockwise},
		},
		{
			name: "collinear run with mixed handedness kept",
			points: []geom.Point{
				geom.Pt(0, 0), geom.Pt(2, 0), geom.Pt(3, 0), geom.Pt(4, 0), geom.Pt(4, -4),
			},
			bends: []geom.Turn{geom.Clockwise, geom.CounterClockwise, geom.Clockwise},
			wantPts: []geom.Point{
				geom.Pt(0, 0), geom.Pt(2, 0), geom.Pt(3, 0), geom.Pt(4, 0), geom.Pt(4, -4),
			},
			wantBends: []geom.Turn{geom.Clockwise, geom.CounterClockwise, geom.Clockwise},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			pts, bends := collapseRedundantBends(tt.points, tt.bends)
			if len(pts) != len(tt.wantPts) {
				t.Fatalf("got %d points %v, want %d %v", len(pts), pts, len(tt.wantPts), tt.wantPts)
			}
			for i := range pts {
				if pts[i] != tt.wantPts[i] {
					t.Errorf("point %d = %v, want %v", i, pts[i], tt.wantPts[i])
				}
			}
			if len(bends) != len(tt.wantBends) {
				t.Fatalf("got %d bends %v, want %d", len(bends), bends, len(tt.wantBends))
			}
			for i := range bends {
				if bends[i] != tt.wantBends[i] {
					t.Errorf("bend %d = %v, want %v", i, bends[i], tt.wantBends[i])
				}
			}
		})
	}
}

func TestNewRejectsInvalidInstance(t *testing.T) {
	in := singleSegment()
	in.Paths[0].Thickness = 0
	if _, err := New(in); err == nil {
		t.Fatalf("New accepted a path of zero thickness")
	}
}

func TestStraightGeometry(t *testing.T) {
	s := mustNew(t, singleSegment())
	sb := s.Straights()[0]

	if ang := sb.Angle(0.5); math.Abs(ang) > geom.Eps {
		t.Errorf("Angle(0.5) = %g, want 0", ang)
	}

	// Terminal elbows pin the backbone to the endpoints themselves.
	p1, p2 := sb.BackboneEndpoints(0.5)
	if p1 != geom.Pt(0, 0) || p2 != geom.Pt(4, 0) {
		t.Errorf("BackboneEndpoints(0.5) = %v, %v, want the terminal points", p1, p2)
	}

	c := sb.Corners(0.5)
	for i, p := range c {
		if math.Abs(math.Abs(p.Y)-0.25) > geom.Eps {
			t.Errorf("corner %d = %v, want |y| = 0.25 at half growth", i, p)
		}
	}
	if got := geom.Dist(c[0], c[3]); math.Abs(got-0.5) > geom.Eps {
		t.Errorf("swept thickness = %g, want 0.5", got)
	}
}
