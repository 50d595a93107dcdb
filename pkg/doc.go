// Package pkg provides the core libraries for MDGE thick edge routing.
//
// # Overview
//
// MDGE routes thick edges homotopically: given terminals, point obstacles,
// and thin polygonal paths between terminals, it grows every path to its
// target thickness while keeping the drawing planar within each path's
// homotopy class. The pkg directory is organized into these areas:
//
//  1. [instance] - Problem instances (terminals, obstacles, paths) and TOML loading
//  2. [geom] - Planar predicates, arcs, and intersection tests
//  3. [crs] - The compact routing structure and its mutations
//  4. [kinetic] - The growing simulation and its event queue
//  5. [render] - SVG output and PDF/PNG conversion
//  6. [pipeline] - Orchestration (load → build → grow → render)
//  7. [cache] - Artifact caching for the HTTP server
//
// # Architecture
//
// The typical data flow through MDGE:
//
//	TOML instance file
//	         ↓
//	    [instance] package (parse + validate)
//	         ↓
//	    [crs] package (build the compact routing structure)
//	         ↓
//	    [kinetic] package (grow edges from t=0 to t=1, then unzip)
//	         ↓
//	    [render] package (thick edge geometry to SVG/PNG/PDF)
//
// # Quick Start
//
// Run the whole pipeline through a Runner:
//
//	runner := pipeline.NewRunner(nil)
//	result, err := runner.Execute(ctx, pipeline.Options{
//	    Input:   "instance.toml",
//	    Formats: []string{"svg"},
//	})
//	if err != nil {
//	    log.Fatal(err)
//	}
//	svg := result.Artifacts["svg"]
//
// Or drive the stages directly:
//
//	in, _ := instance.Load("instance.toml")
//	s, _ := crs.New(in)
//	kinetic.NewGrower().Grow(ctx, s)
//	s.Unzip()
//	svg := render.RenderSVG(s.ThickEdges(1))
//
// [instance]: github.com/sashagielis/MDGE/pkg/instance
// [geom]: github.com/sashagielis/MDGE/pkg/geom
// [crs]: github.com/sashagielis/MDGE/pkg/crs
// [kinetic]: github.com/sashagielis/MDGE/pkg/kinetic
// [render]: github.com/sashagielis/MDGE/pkg/render
// [pipeline]: github.com/sashagielis/MDGE/pkg/pipeline
// [cache]: github.com/sashagielis/MDGE/pkg/cache
package pkg
