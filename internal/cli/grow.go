package cli

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/sashagielis/MDGE/pkg/pipeline"
)

// growOpts holds the command-line flags for the grow command.
type growOpts struct {
	output     string   // output file path (extension is replaced per format)
	formats    []string // output formats: "svg", "pdf", "png"
	dt         float64  // sampling step for event detection
	iterations int      // bisection refinements per event
	time       float64  // simulation time to render at
	scale      float64  // world-to-pixel scale factor
	markers    bool     // draw terminal and obstacle markers
	skipGrow   bool     // render the initial structure without simulating
}

// newGrowCmd creates the grow command, the main entry point of the tool: it
// loads an instance, runs the kinetic simulation to full thickness, and
// writes the routed edges to disk.
func newGrowCmd() *cobra.Command {
	var formatsStr string
	opts := growOpts{
		markers: true,
	}

	cmd := &cobra.Command{
		Use:   "grow [file]",
		Short: "Route an instance and write the thick edges to disk",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts.formats = parseFormats(formatsStr)
			return runGrow(cmd, args[0], opts)
		},
	}

	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "output path (default: input name with format extension)")
	cmd.Flags().StringVar(&formatsStr, "formats", "svg", "comma-separated output formats (svg, pdf, png)")
	cmd.Flags().Float64Var(&opts.dt, "dt", 0, "sampling step for event detection (default 0.01)")
	cmd.Flags().IntVar(&opts.iterations, "iterations", 0, "bisection refinements per event (default 64)")
	cmd.Flags().Float64VarP(&opts.time, "time", "t", 1, "simulation time to render at, in [0,1]")
	cmd.Flags().Float64Var(&opts.scale, "scale", pipeline.DefaultDrawScale, "world-to-pixel scale factor")
	cmd.Flags().BoolVar(&opts.markers, "markers", true, "draw terminal and obstacle markers")
	cmd.Flags().BoolVar(&opts.skipGrow, "skip-grow", false, "render the initial structure without simulating")

	return cmd
}

func runGrow(cmd *cobra.Command, input string, opts growOpts) error {
	logger := loggerFromContext(cmd.Context())
	p := newProgress(logger)

	runner := pipeline.NewRunner(logger)
	result, err := runner.Execute(cmd.Context(), pipeline.Options{
		Input:      input,
		DT:         opts.dt,
		Iterations: opts.iterations,
		SkipGrow:   opts.skipGrow,
		Time:       opts.time,
		Formats:    opts.formats,
		DrawScale:  opts.scale,
		Markers:    opts.markers,
	})
	if err != nil {
		return err
	}

	base := opts.output
	if base == "" {
		base = strings.TrimSuffix(input, filepath.Ext(input))
	} else {
		base = strings.TrimSuffix(base, filepath.Ext(base))
	}

	for _, f := range opts.formats {
		path := base + "." + f
		if err := os.WriteFile(path, result.Artifacts[f], 0o644); err != nil {
			return fmt.Errorf("write %s: %w", path, err)
		}
		logger.Info("wrote output", "path", path)
	}

	p.done("Routed edges", "edges", len(result.Edges), "events", result.Stats.Events)
	return nil
}

// parseFormats splits a comma-separated format list, trimming whitespace and
// dropping empty entries.
func parseFormats(s string) []string {
	var out []string
	for _, f := range strings.Split(s, ",") {
		if f = strings.TrimSpace(f); f != "" {
			out = append(out, strings.ToLower(f))
		}
	}
	return out
}
