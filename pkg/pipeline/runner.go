package pipeline

import (
	"context"
	"fmt"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"

	"github.com/sashagielis/MDGE/pkg/crs"
	"github.com/sashagielis/MDGE/pkg/instance"
	"github.com/sashagielis/MDGE/pkg/kinetic"
	"github.com/sashagielis/MDGE/pkg/observability"
	"github.com/sashagielis/MDGE/pkg/render"
)

// Runner encapsulates pipeline execution.
//
// The Runner is stateless except for the logger - it doesn't store pipeline
// results. Multiple goroutines can safely use the same Runner with different
// options.
type Runner struct {
	Logger *log.Logger
}

// NewRunner creates a runner. If logger is nil, the default logger is used.
func NewRunner(logger *log.Logger) *Runner {
	if logger == nil {
		logger = log.Default()
	}
	return &Runner{Logger: logger}
}

// Execute runs the complete load → build → grow → render pipeline.
func (r *Runner) Execute(ctx context.Context, opts Options) (*Result, error) {
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, fmt.Errorf("invalid options: %w", err)
	}

	result := &Result{
		RunID:     uuid.NewString(),
		Artifacts: make(map[string][]byte),
	}

	// Stage 1: Load
	loadStart := time.Now()
	in, err := r.Load(ctx, opts)
	if err != nil {
		return nil, fmt.Errorf("load: %w", err)
	}
	result.Instance = in
	result.Stats.LoadTime = time.Since(loadStart)

	r.Logger.Info("loaded instance",
		"name", in.Name,
		"paths", len(in.Paths),
		"terminals", len(in.Terminals),
		"duration", result.Stats.LoadTime)

	// Stage 2: Build
	buildStart := time.Now()
	s, err := r.Build(ctx, in)
	if err != nil {
		return nil, fmt.Errorf("build: %w", err)
	}
	result.Structure = s
	result.Stats.BuildTime = time.Since(buildStart)
	result.Stats.Straights, result.Stats.Elbows = s.TotalSize()

	r.Logger.Info("built routing structure",
		"straights", result.Stats.Straights,
		"elbows", result.Stats.Elbows,
		"duration", result.Stats.BuildTime)

	// Stage 3: Grow
	if !opts.SkipGrow {
		growStart := time.Now()
		events, err := r.Grow(ctx, s, opts)
		if err != nil {
			return nil, fmt.Errorf("grow: %w", err)
		}
		result.Stats.GrowTime = time.Since(growStart)
		result.Stats.Events = events
		result.Stats.Straights, result.Stats.Elbows = s.TotalSize()

		r.Logger.Info("grew edges",
			"events", events,
			"straights", result.Stats.Straights,
			"elbows", result.Stats.Elbows,
			"duration", result.Stats.GrowTime)
	}

	result.Edges = s.ThickEdges(opts.Time)

	// Stage 4: Render
	renderStart := time.Now()
	artifacts, err := r.Render(ctx, result.Edges, in, opts)
	if err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}
	result.Artifacts = artifacts
	result.Stats.RenderTime = time.Since(renderStart)

	r.Logger.Info("rendered outputs",
		"formats", opts.Formats,
		"duration", result.Stats.RenderTime)

	return result, nil
}

// Load reads and validates the instance named by the options, or passes
// through an instance supplied directly.
func (r *Runner) Load(ctx context.Context, opts Options) (*instance.Instance, error) {
	if opts.Instance != nil {
		return opts.Instance, opts.Instance.Validate()
	}

	observability.Pipeline().OnLoadStart(ctx, opts.Input)
	start := time.Now()
	in, err := instance.Load(opts.Input)
	paths := 0
	if in != nil {
		paths = len(in.Paths)
	}
	observability.Pipeline().OnLoadComplete(ctx, opts.Input, paths, time.Since(start), err)
	return in, err
}

// Build constructs the compact routing structure for the instance.
func (r *Runner) Build(ctx context.Context, in *instance.Instance) (s *crs.Structure, err error) {
	observability.Pipeline().OnBuildStart(ctx, in.Name, len(in.Paths))
	start := time.Now()
	defer func() {
		bundles := 0
		if s != nil {
			sbs, ebs := s.TotalSize()
			bundles = sbs + ebs
		}
		observability.Pipeline().OnBuildComplete(ctx, in.Name, bundles, time.Since(start), err)
	}()
	return crs.New(in)
}

// Grow runs the kinetic simulation to t=1 and unzips the structure back to
// per-edge geometry. It returns the number of events applied.
func (r *Runner) Grow(ctx context.Context, s *crs.Structure, opts Options) (int, error) {
	sbs, ebs := s.TotalSize()
	observability.Pipeline().OnGrowStart(ctx, "", sbs+ebs)

	start := time.Now()
	g := &kinetic.Grower{DT: opts.DT, Iterations: opts.Iterations}
	events, err := g.Grow(ctx, s)
	if err == nil {
		s.Unzip()
	}
	observability.Pipeline().OnGrowComplete(ctx, "", events, time.Since(start), err)
	return events, err
}

// Render produces the requested output formats for the thick edges.
func (r *Runner) Render(ctx context.Context, edges []crs.ThickEdge, in *instance.Instance, opts Options) (map[string][]byte, error) {
	observability.Pipeline().OnRenderStart(ctx, opts.Formats)
	start := time.Now()

	svgOpts := []render.SVGOption{render.WithDrawScale(opts.DrawScale)}
	if opts.Markers {
		svgOpts = append(svgOpts,
			render.WithTerminals(in.Terminals),
			render.WithObstacles(in.Obstacles))
	}
	svg := render.RenderSVG(edges, svgOpts...)

	artifacts := make(map[string][]byte, len(opts.Formats))
	var err error
	for _, f := range opts.Formats {
		switch f {
		case FormatSVG:
			artifacts[f] = svg
		case FormatPNG:
			artifacts[f], err = render.ToPNG(svg, opts.PNGScale)
		case FormatPDF:
			artifacts[f], err = render.ToPDF(svg)
		}
		if err != nil {
			break
		}
	}

	observability.Pipeline().OnRenderComplete(ctx, opts.Formats, time.Since(start), err)
	if err != nil {
		return nil, err
	}
	return artifacts, nil
}
