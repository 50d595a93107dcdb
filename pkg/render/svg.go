// Package render turns the thick-edge geometry of a routed instance into
// image output.
//
// The SVG renderer is the primary sink: every straight bundle becomes a
// rotated rectangle and every interior elbow bundle an annular circle
// sector, drawn per input path in a cycling palette. [ToPDF] and [ToPNG]
// convert the SVG to other formats via the external rsvg-convert tool.
package render

import (
	"bytes"
	"fmt"
	"math"

	"github.com/sashagielis/MDGE/pkg/crs"
	"github.com/sashagielis/MDGE/pkg/geom"
	"github.com/sashagielis/MDGE/pkg/instance"
)

// defaultPalette cycles per input path.
var defaultPalette = []string{
	"#4e79a7", "#f28e2b", "#e15759", "#76b7b2",
	"#59a14f", "#edc948", "#b07aa1", "#ff9da7",
}

// SVGOption configures SVG rendering.
type SVGOption func(*svgRenderer)

type svgRenderer struct {
	scale      float64
	margin     float64
	palette    []string
	background string
	opacity    float64
	terminals  []instance.Terminal
	obstacles  []instance.Obstacle
}

// WithDrawScale sets world-to-pixel scaling (default 40).
func WithDrawScale(s float64) SVGOption { return func(r *svgRenderer) { r.scale = s } }

// WithMargin sets the margin around the drawing in world units (default 1).
func WithMargin(m float64) SVGOption { return func(r *svgRenderer) { r.margin = m } }

// WithPalette sets the per-path fill colors.
func WithPalette(colors []string) SVGOption {
	return func(r *svgRenderer) {
		if len(colors) > 0 {
			r.palette = colors
		}
	}
}

// WithBackground sets the background color (default white).
func WithBackground(c string) SVGOption { return func(r *svgRenderer) { r.background = c } }

// WithOpacity sets the fill opacity of the edges (default 0.85).
func WithOpacity(o float64) SVGOption { return func(r *svgRenderer) { r.opacity = o } }

// WithTerminals draws the instance's terminals as outlined circles.
func WithTerminals(ts []instance.Terminal) SVGOption {
	return func(r *svgRenderer) { r.terminals = ts }
}

// WithObstacles draws the instance's obstacles as filled dots.
func WithObstacles(os []instance.Obstacle) SVGOption {
	return func(r *svgRenderer) { r.obstacles = os }
}

// RenderSVG renders the thick edges as an SVG document.
func RenderSVG(edges []crs.ThickEdge, opts ...SVGOption) []byte {
	r := newSVGRenderer(opts...)

	minX, minY, maxX, maxY := bounds(edges, r.terminals, r.obstacles)
	minX -= r.margin
	minY -= r.margin
	maxX += r.margin
	maxY += r.margin

	w := (maxX - minX) * r.scale
	h := (maxY - minY) * r.scale

	// World coordinates are y-up, SVG is y-down.
	tx := func(p geom.Point) (float64, float64) {
		return (p.X - minX) * r.scale, (maxY - p.Y) * r.scale
	}

	var buf bytes.Buffer
	fmt.Fprintf(&buf, `<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 %.1f %.1f" width="%.0f" height="%.0f">`+"\n", w, h, w, h)
	fmt.Fprintf(&buf, `  <rect width="100%%" height="100%%" fill="%s"/>`+"\n", r.background)

	for i, e := range edges {
		color := r.palette[i%len(r.palette)]
		fmt.Fprintf(&buf, `  <g fill="%s" fill-opacity="%.2f">`+"\n", color, r.opacity)
		for _, rect := range e.Rects {
			buf.WriteString(`    <polygon points="`)
			for j, c := range rect {
				if j > 0 {
					buf.WriteByte(' ')
				}
				x, y := tx(c)
				fmt.Fprintf(&buf, "%.3f,%.3f", x, y)
			}
			buf.WriteString(`"/>` + "\n")
		}
		for _, wd := range e.Wedges {
			renderWedge(&buf, tx, r.scale, wd)
		}
		buf.WriteString("  </g>\n")
	}

	for _, o := range r.obstacles {
		x, y := tx(o.Pos)
		fmt.Fprintf(&buf, `  <circle cx="%.3f" cy="%.3f" r="%.3f" fill="#333"/>`+"\n", x, y, 0.08*r.scale)
	}
	for _, t := range r.terminals {
		x, y := tx(t.Pos)
		fmt.Fprintf(&buf, `  <circle cx="%.3f" cy="%.3f" r="%.3f" fill="none" stroke="#333" stroke-width="%.2f"/>`+"\n",
			x, y, t.Diameter/2*r.scale, 0.04*r.scale)
	}

	buf.WriteString("</svg>\n")
	return buf.Bytes()
}

func newSVGRenderer(opts ...SVGOption) svgRenderer {
	r := svgRenderer{
		scale:      40,
		margin:     1,
		palette:    defaultPalette,
		background: "#ffffff",
		opacity:    0.85,
	}
	for _, opt := range opts {
		opt(&r)
	}
	return r
}

// renderWedge draws an annular circle sector. The wedge sweeps clockwise in
// world coordinates from A1 to A2, which after the y-flip is the SVG
// counterclockwise direction (sweep flag 0).
func renderWedge(buf *bytes.Buffer, tx func(geom.Point) (float64, float64), scale float64, w crs.Wedge) {
	if w.Outer <= 0 {
		return
	}

	at := func(r, a float64) (float64, float64) {
		return tx(geom.Pt(w.Center.X+r*math.Cos(a), w.Center.Y+r*math.Sin(a)))
	}

	sweep := geom.NormalizeAngle(w.A1 - w.A2)
	large := 0
	if sweep > math.Pi {
		large = 1
	}

	ox1, oy1 := at(w.Outer, w.A1)
	ox2, oy2 := at(w.Outer, w.A2)
	ro := w.Outer * scale

	if w.Inner <= 0 {
		// Solid sector.
		cx, cy := tx(w.Center)
		fmt.Fprintf(buf, `    <path d="M %.3f %.3f L %.3f %.3f A %.3f %.3f 0 %d 0 %.3f %.3f Z"/>`+"\n",
			cx, cy, ox1, oy1, ro, ro, large, ox2, oy2)
		return
	}

	ix1, iy1 := at(w.Inner, w.A1)
	ix2, iy2 := at(w.Inner, w.A2)
	ri := w.Inner * scale

	fmt.Fprintf(buf, `    <path d="M %.3f %.3f A %.3f %.3f 0 %d 0 %.3f %.3f L %.3f %.3f A %.3f %.3f 0 %d 1 %.3f %.3f Z"/>`+"\n",
		ox1, oy1, ro, ro, large, ox2, oy2, ix2, iy2, ri, ri, large, ix1, iy1)
}

func bounds(edges []crs.ThickEdge, ts []instance.Terminal, os []instance.Obstacle) (minX, minY, maxX, maxY float64) {
	minX, minY = math.Inf(1), math.Inf(1)
	maxX, maxY = math.Inf(-1), math.Inf(-1)
	grow := func(x, y, pad float64) {
		minX = math.Min(minX, x-pad)
		minY = math.Min(minY, y-pad)
		maxX = math.Max(maxX, x+pad)
		maxY = math.Max(maxY, y+pad)
	}
	for _, e := range edges {
		for _, rect := range e.Rects {
			for _, c := range rect {
				grow(c.X, c.Y, 0)
			}
		}
		for _, w := range e.Wedges {
			grow(w.Center.X, w.Center.Y, w.Outer)
		}
	}
	for _, t := range ts {
		grow(t.Pos.X, t.Pos.Y, t.Diameter/2)
	}
	for _, o := range os {
		grow(o.Pos.X, o.Pos.Y, 0)
	}
	if minX > maxX {
		minX, minY, maxX, maxY = 0, 0, 1, 1
	}
	return minX, minY, maxX, maxY
}
