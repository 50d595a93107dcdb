// Package instance defines problem instances for thick homotopic edge
// routing: a set of terminals and point obstacles in the plane, plus a set of
// polygonal paths between terminals, each with a target thickness and a bend
// handedness sequence.
//
// The handedness sequence is consumed, not computed: it is derived externally
// from topological crossing data and fixes which side of each obstacle the
// path passes on. Instances are loaded from TOML files via Load.
package instance

import (
	"github.com/sashagielis/MDGE/pkg/errors"
	"github.com/sashagielis/MDGE/pkg/geom"
)

// Terminal is a path endpoint. Its diameter reserves drawing space at the
// point; edges incident to the terminal fan out from a disc of that size.
type Terminal struct {
	Pos      geom.Point
	Diameter float64
}

// Obstacle is a point obstacle. Obstacles never bend paths themselves; they
// only constrain which side a path passes on.
type Obstacle struct {
	Pos geom.Point
}

// Path is a polygonal route between two terminals. Points runs from one
// terminal to the other; Bends holds the handedness of each interior point,
// so len(Bends) == len(Points)-2. Thickness is the target thickness the
// growing simulation thickens the path to.
type Path struct {
	Points    []geom.Point
	Bends     []geom.Turn
	Thickness float64
}

// Instance is a complete routing problem.
type Instance struct {
	Name      string
	Terminals []Terminal
	Obstacles []Obstacle
	Paths     []Path
}

// Validate checks the instance for structural problems and returns the first
// one found as a structured error.
func (in *Instance) Validate() error {
	seen := make(map[geom.Point]string)
	for i, t := range in.Terminals {
		if prev, ok := seen[t.Pos]; ok {
			return errors.New(errors.ErrCodeInvalidInstance,
				"terminal %d at %v coincides with %s", i, t.Pos, prev)
		}
		seen[t.Pos] = "a terminal"
	}
	for i, o := range in.Obstacles {
		if prev, ok := seen[o.Pos]; ok {
			return errors.New(errors.ErrCodeInvalidInstance,
				"obstacle %d at %v coincides with %s", i, o.Pos, prev)
		}
		seen[o.Pos] = "an obstacle"
	}

	terminals := make(map[geom.Point]bool, len(in.Terminals))
	for _, t := range in.Terminals {
		terminals[t.Pos] = true
	}

	for i, p := range in.Paths {
		if len(p.Points) < 2 {
			return errors.New(errors.ErrCodeInvalidPath,
				"path %d has %d points, need at least 2", i, len(p.Points))
		}
		if len(p.Bends) != len(p.Points)-2 {
			return errors.New(errors.ErrCodeInvalidPath,
				"path %d has %d bends for %d interior points", i, len(p.Bends), len(p.Points)-2)
		}
		if p.Thickness <= 0 {
			return errors.New(errors.ErrCodeInvalidPath,
				"path %d has non-positive thickness %g", i, p.Thickness)
		}
		for j, b := range p.Bends {
			if b != geom.Clockwise && b != geom.CounterClockwise {
				return errors.New(errors.ErrCodeInvalidPath,
					"path %d bend %d has no handedness", i, j)
			}
		}
		for _, end := range []geom.Point{p.Points[0], p.Points[len(p.Points)-1]} {
			if !terminals[end] {
				return errors.New(errors.ErrCodeInvalidPath,
					"path %d endpoint %v is not a declared terminal", i, end)
			}
		}
		for j := 0; j < len(p.Points)-1; j++ {
			if p.Points[j] == p.Points[j+1] {
				return errors.New(errors.ErrCodeInvalidPath,
					"path %d repeats point %v at index %d", i, p.Points[j], j)
			}
		}
	}
	return nil
}
