// Package pipeline provides the core routing pipeline for MDGE.
//
// This package implements the complete load → build → grow → render pipeline
// that can be used by CLI and API components. By centralizing this logic, we
// ensure consistent behavior across all entry points and avoid code
// duplication.
//
// # Architecture
//
// The pipeline consists of four stages:
//
//  1. Load: Read and validate a routing instance from a TOML file
//  2. Build: Construct the compact routing structure from the input paths
//  3. Grow: Run the kinetic simulation from t=0 to t=1 and unzip
//  4. Render: Generate output in various formats (SVG, PNG, PDF)
//
// # Usage
//
// Create a Runner and execute the pipeline:
//
//	runner := pipeline.NewRunner(logger)
//	opts := pipeline.Options{
//	    Input:   "instance.toml",
//	    Formats: []string{"svg"},
//	}
//	result, err := runner.Execute(ctx, opts)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	svg := result.Artifacts["svg"]
package pipeline

import (
	"time"

	"github.com/sashagielis/MDGE/pkg/crs"
	"github.com/sashagielis/MDGE/pkg/errors"
	"github.com/sashagielis/MDGE/pkg/instance"
	"github.com/sashagielis/MDGE/pkg/kinetic"
)

// =============================================================================
// Default Values - Single Source of Truth for CLI and API
// =============================================================================

const (
	// DefaultTime is the simulation time at which geometry is rendered.
	DefaultTime = 1.0

	// DefaultDrawScale is the default world-to-pixel scale factor.
	DefaultDrawScale = 40.0

	// DefaultPNGScale is the default PNG supersampling factor.
	DefaultPNGScale = 2.0
)

// Format constants for output formats.
const (
	FormatSVG = "svg"
	FormatPNG = "png"
	FormatPDF = "pdf"
)

// ValidFormats is the set of supported output formats.
var ValidFormats = map[string]bool{
	FormatSVG: true,
	FormatPNG: true,
	FormatPDF: true,
}

// =============================================================================
// Options - Pipeline Configuration
// =============================================================================

// Options contains all configuration for the routing pipeline.
// This struct supports JSON serialization for API requests.
type Options struct {
	// Input is the path of the instance file to load. It is ignored when
	// Instance is set directly.
	Input    string             `json:"input,omitempty"`
	Instance *instance.Instance `json:"-"`

	// Simulation options
	DT         float64 `json:"dt,omitempty"`
	Iterations int     `json:"iterations,omitempty"`
	SkipGrow   bool    `json:"skip_grow,omitempty"`

	// Render options
	Time      float64  `json:"time,omitempty"`
	Formats   []string `json:"formats,omitempty"`
	DrawScale float64  `json:"draw_scale,omitempty"`
	PNGScale  float64  `json:"png_scale,omitempty"`
	Markers   bool     `json:"markers,omitempty"`
}

// ValidateAndSetDefaults checks the options and fills in defaults.
func (o *Options) ValidateAndSetDefaults() error {
	if o.Input == "" && o.Instance == nil {
		return errors.New(errors.ErrCodeInvalidOption, "no input instance given")
	}
	if o.DT < 0 || o.DT >= 1 {
		return errors.New(errors.ErrCodeInvalidOption, "dt must be in (0, 1)")
	}
	if o.DT == 0 {
		o.DT = kinetic.DefaultDT
	}
	if o.Iterations < 0 {
		return errors.New(errors.ErrCodeInvalidOption, "iterations must be positive")
	}
	if o.Iterations == 0 {
		o.Iterations = kinetic.DefaultIterations
	}
	if o.Time < 0 || o.Time > 1 {
		return errors.New(errors.ErrCodeInvalidOption, "time must be in [0, 1]")
	}
	if o.Time == 0 {
		o.Time = DefaultTime
	}
	if len(o.Formats) == 0 {
		o.Formats = []string{FormatSVG}
	}
	for _, f := range o.Formats {
		if !ValidFormats[f] {
			return errors.New(errors.ErrCodeInvalidFormat, "unsupported format: %s", f)
		}
	}
	if o.DrawScale == 0 {
		o.DrawScale = DefaultDrawScale
	}
	if o.PNGScale == 0 {
		o.PNGScale = DefaultPNGScale
	}
	return nil
}

// =============================================================================
// Result - Pipeline Output
// =============================================================================

// Stats records per-stage timings and simulation counters.
type Stats struct {
	LoadTime   time.Duration `json:"load_time"`
	BuildTime  time.Duration `json:"build_time"`
	GrowTime   time.Duration `json:"grow_time"`
	RenderTime time.Duration `json:"render_time"`

	Events    int `json:"events"`
	Straights int `json:"straights"`
	Elbows    int `json:"elbows"`
}

// Result holds everything the pipeline produced.
type Result struct {
	// RunID uniquely identifies this pipeline execution.
	RunID string `json:"run_id"`

	Instance  *instance.Instance `json:"-"`
	Structure *crs.Structure     `json:"-"`
	Edges     []crs.ThickEdge    `json:"-"`

	// Artifacts maps format name to rendered bytes.
	Artifacts map[string][]byte `json:"-"`

	Stats Stats `json:"stats"`
}
