package render

import (
	"bytes"
	"math"
	"strings"
	"testing"

	"github.com/sashagielis/MDGE/pkg/crs"
	"github.com/sashagielis/MDGE/pkg/geom"
	"github.com/sashagielis/MDGE/pkg/instance"
)

func sampleEdges() []crs.ThickEdge {
	return []crs.ThickEdge{
		{
			Rects: [][4]geom.Point{{
				geom.Pt(4, 0.5), geom.Pt(0, 0.5), geom.Pt(0, -0.5), geom.Pt(4, -0.5),
			}},
			Wedges: []crs.Wedge{{
				Center: geom.Pt(4, 0),
				Inner:  0,
				Outer:  1,
				A1:     math.Pi / 2,
				A2:     0,
			}},
		},
	}
}

func TestRenderSVG(t *testing.T) {
	svg := RenderSVG(sampleEdges())

	for _, want := range []string{"<svg", "</svg>", "<polygon", "<path"} {
		if !bytes.Contains(svg, []byte(want)) {
			t.Errorf("output does not contain %q", want)
		}
	}
	if got := bytes.Count(svg, []byte("<polygon")); got != 1 {
		t.Errorf("got %d polygons, want 1", got)
	}
	if !bytes.Contains(svg, []byte(defaultPalette[0])) {
		t.Errorf("first edge does not use the first palette color")
	}
}

func TestRenderSVGEmpty(t *testing.T) {
	svg := RenderSVG(nil)
	if !bytes.HasPrefix(bytes.TrimSpace(svg), []byte("<svg")) || !bytes.Contains(svg, []byte("</svg>")) {
		t.Errorf("empty render is not a well-formed document: %s", svg)
	}
}

func TestRenderSVGOptions(t *testing.T) {
	svg := string(RenderSVG(sampleEdges(),
		WithPalette([]string{"#123456"}),
		WithBackground("#fafafa"),
		WithTerminals([]instance.Terminal{{Pos: geom.Pt(0, 0), Diameter: 1}}),
		WithObstacles([]instance.Obstacle{{Pos: geom.Pt(2, 1)}}),
	))

	if !strings.Contains(svg, "#123456") {
		t.Errorf("palette color missing from output")
	}
	if !strings.Contains(svg, "#fafafa") {
		t.Errorf("background missing from output")
	}
	if got := strings.Count(svg, "<circle"); got != 2 {
		t.Errorf("got %d circles, want a terminal and an obstacle marker", got)
	}
}

func TestRenderSVGPaletteCycles(t *testing.T) {
	edges := append(sampleEdges(), sampleEdges()...)
	svg := string(RenderSVG(edges, WithPalette([]string{"#111111", "#222222"})))

	if !strings.Contains(svg, "#111111") || !strings.Contains(svg, "#222222") {
		t.Errorf("two edges did not get two palette colors")
	}

	three := append(edges, sampleEdges()...)
	svg = string(RenderSVG(three, WithPalette([]string{"#111111", "#222222"})))
	if got := strings.Count(svg, "#111111"); got != 2 {
		t.Errorf("palette did not wrap around, first color used %d times, want 2", got)
	}
}

func TestRenderWedgeDegenerate(t *testing.T) {
	edges := []crs.ThickEdge{{
		Rects: [][4]geom.Point{{
			geom.Pt(1, 0.1), geom.Pt(0, 0.1), geom.Pt(0, -0.1), geom.Pt(1, -0.1),
		}},
		Wedges: []crs.Wedge{{Center: geom.Pt(1, 0), Inner: 0, Outer: 0}},
	}}
	svg := RenderSVG(edges)
	if bytes.Contains(svg, []byte("<path")) {
		t.Errorf("zero-radius wedge produced a path")
	}
}
