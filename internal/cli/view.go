package cli

import (
	"fmt"
	"math"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/sashagielis/MDGE/pkg/crs"
	"github.com/sashagielis/MDGE/pkg/instance"
	"github.com/sashagielis/MDGE/pkg/pipeline"
)

var (
	statusStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("252")).
			Background(lipgloss.Color("236")).
			Padding(0, 1)
	helpStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("244")).
			Padding(0, 1)
)

// newViewCmd creates the view command: an interactive terminal canvas for a
// routed instance. The structure is grown and unzipped once; the time slider
// only re-evaluates geometry, which is valid at any t.
func newViewCmd() *cobra.Command {
	var dt float64
	var iterations int
	var skipGrow bool

	cmd := &cobra.Command{
		Use:   "view [file]",
		Short: "Explore a routed instance in the terminal",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			logger := loggerFromContext(cmd.Context())
			runner := pipeline.NewRunner(logger)

			opts := pipeline.Options{Input: args[0], DT: dt, Iterations: iterations}
			if err := opts.ValidateAndSetDefaults(); err != nil {
				return err
			}

			in, err := runner.Load(cmd.Context(), opts)
			if err != nil {
				return err
			}
			s, err := runner.Build(cmd.Context(), in)
			if err != nil {
				return err
			}
			if !skipGrow {
				if _, err := runner.Grow(cmd.Context(), s, opts); err != nil {
					return err
				}
			}

			m := newViewModel(in, s)
			_, err = tea.NewProgram(m, tea.WithAltScreen(), tea.WithContext(cmd.Context())).Run()
			return err
		},
	}

	cmd.Flags().Float64Var(&dt, "dt", 0, "sampling step for event detection (default 0.01)")
	cmd.Flags().IntVar(&iterations, "iterations", 0, "bisection refinements per event (default 64)")
	cmd.Flags().BoolVar(&skipGrow, "skip-grow", false, "view the initial structure without simulating")

	return cmd
}

type viewModel struct {
	in *instance.Instance
	s  *crs.Structure

	t     float64
	edges []crs.ThickEdge

	zoom float64
	panX float64 // in world units
	panY float64

	width  int
	height int
}

func newViewModel(in *instance.Instance, s *crs.Structure) *viewModel {
	return &viewModel{
		in:    in,
		s:     s,
		t:     1,
		edges: s.ThickEdges(1),
		zoom:  1,
	}
}

func (m *viewModel) Init() tea.Cmd { return nil }

func (m *viewModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			return m, tea.Quit
		case "+", "=":
			m.zoom *= 1.25
		case "-", "_":
			m.zoom /= 1.25
		case "left", "h":
			m.panX -= 1 / m.zoom
		case "right", "l":
			m.panX += 1 / m.zoom
		case "up", "k":
			m.panY += 1 / m.zoom
		case "down", "j":
			m.panY -= 1 / m.zoom
		case "[", ",":
			m.setTime(m.t - 0.05)
		case "]", ".":
			m.setTime(m.t + 0.05)
		case "r":
			m.zoom, m.panX, m.panY = 1, 0, 0
			m.setTime(1)
		}
	}
	return m, nil
}

func (m *viewModel) setTime(t float64) {
	t = math.Max(0, math.Min(1, t))
	if t != m.t {
		m.t = t
		m.edges = m.s.ThickEdges(t)
	}
}

func (m *viewModel) View() string {
	if m.width == 0 || m.height < 3 {
		return "loading..."
	}

	cells := newCanvas(m.width, m.height-2)
	mw, mh := float64(2*m.width), float64(4*(m.height-2))

	minX, minY, maxX, maxY := m.bbox()
	cx, cy := (minX+maxX)/2+m.panX, (minY+maxY)/2+m.panY

	// Fit the full drawing at zoom 1. Braille cells are roughly twice as
	// tall as wide, which the 2x4 micro grid mostly absorbs.
	scale := m.zoom * math.Min(mw/(maxX-minX+1e-9), mh/(maxY-minY+1e-9)) * 0.95

	project := func(x, y float64) (int, int) {
		return int(math.Round(mw/2 + (x-cx)*scale)),
			int(math.Round(mh/2 - (y-cy)*scale))
	}

	for _, e := range m.edges {
		for _, rect := range e.Rects {
			for i := range rect {
				x0, y0 := project(rect[i].X, rect[i].Y)
				x1, y1 := project(rect[(i+1)%4].X, rect[(i+1)%4].Y)
				cells.line(x0, y0, x1, y1)
			}
		}
		for _, w := range e.Wedges {
			cells.arc(w.Center.X, w.Center.Y, w.Outer, w.A1, w.A2, project)
			if w.Inner > 0 {
				cells.arc(w.Center.X, w.Center.Y, w.Inner, w.A1, w.A2, project)
			}
			for _, a := range [2]float64{w.A1, w.A2} {
				x0, y0 := project(w.Center.X+w.Inner*math.Cos(a), w.Center.Y+w.Inner*math.Sin(a))
				x1, y1 := project(w.Center.X+w.Outer*math.Cos(a), w.Center.Y+w.Outer*math.Sin(a))
				cells.line(x0, y0, x1, y1)
			}
		}
	}
	for _, term := range m.in.Terminals {
		cells.arc(term.Pos.X, term.Pos.Y, term.Diameter/2, 0, 2*math.Pi-1e-9, project)
	}

	out := ""
	for _, line := range cells.render() {
		out += line + "\n"
	}

	straights, elbows := m.s.TotalSize()
	status := statusStyle.Render(fmt.Sprintf("%s  t=%.2f  zoom=%.2fx  bundles=%d",
		m.in.Name, m.t, m.zoom, straights+elbows))
	help := helpStyle.Render("[/] time  +/- zoom  arrows pan  r reset  q quit")

	return out + status + "\n" + help
}

// bbox is the world bounding box of the drawing at full thickness, padded by
// the instance terminals so the frame stays put while scrubbing time.
func (m *viewModel) bbox() (minX, minY, maxX, maxY float64) {
	minX, minY = math.Inf(1), math.Inf(1)
	maxX, maxY = math.Inf(-1), math.Inf(-1)
	grow := func(x, y, pad float64) {
		minX = math.Min(minX, x-pad)
		minY = math.Min(minY, y-pad)
		maxX = math.Max(maxX, x+pad)
		maxY = math.Max(maxY, y+pad)
	}
	for _, e := range m.s.ThickEdges(1) {
		for _, rect := range e.Rects {
			for _, c := range rect {
				grow(c.X, c.Y, 0)
			}
		}
		for _, w := range e.Wedges {
			grow(w.Center.X, w.Center.Y, w.Outer)
		}
	}
	for _, t := range m.in.Terminals {
		grow(t.Pos.X, t.Pos.Y, t.Diameter/2)
	}
	if minX > maxX {
		return 0, 0, 1, 1
	}
	return minX, minY, maxX, maxY
}
