// Package render draws thick routed edges.
//
// # Overview
//
// The package turns the geometry produced by the routing structure, rotated
// rectangles for straight segments and annular wedges for bends, into an SVG
// document, and converts SVG to other formats:
//
//   - [RenderSVG] renders thick edges, with functional options for scale,
//     palette, background, and terminal/obstacle markers
//   - [ToPDF] and [ToPNG] convert any SVG using the external rsvg-convert
//     tool (from librsvg)
//
// # Usage
//
//	svg := render.RenderSVG(edges,
//	    render.WithDrawScale(40),
//	    render.WithTerminals(in.Terminals))
//	pdf, err := render.ToPDF(svg)
//	png, err := render.ToPNG(svg, 2.0)  // 2x scale
//
// World coordinates are y-up; the renderer flips to SVG's y-down space, so a
// wedge sweeping clockwise in the world is emitted with SVG sweep flag 0.
package render
