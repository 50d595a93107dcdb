package instance

import (
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"

	"github.com/sashagielis/MDGE/pkg/errors"
	"github.com/sashagielis/MDGE/pkg/geom"
)

// fileFormat mirrors the TOML instance file layout. Coordinates are kept as
// raw float pairs here and converted into geom values during assembly.
type fileFormat struct {
	Name      string         `toml:"name"`
	Terminals []fileTerminal `toml:"terminals"`
	Obstacles []fileObstacle `toml:"obstacles"`
	Paths     []filePath     `toml:"paths"`
}

type fileTerminal struct {
	X        float64 `toml:"x"`
	Y        float64 `toml:"y"`
	Diameter float64 `toml:"diameter"`
}

type fileObstacle struct {
	X float64 `toml:"x"`
	Y float64 `toml:"y"`
}

type filePath struct {
	Points    [][]float64 `toml:"points"`
	Bends     []string    `toml:"bends"`
	Thickness float64     `toml:"thickness"`
}

// Load reads and validates a TOML instance file.
//
// The expected layout is:
//
//	name = "example"
//
//	[[terminals]]
//	x = 0.0
//	y = 0.0
//	diameter = 1.0
//
//	[[obstacles]]
//	x = 4.0
//	y = 1.0
//
//	[[paths]]
//	points = [[0.0, 0.0], [4.0, 3.0], [8.0, 0.0]]
//	bends = ["cw"]
//	thickness = 2.0
func Load(path string) (*Instance, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeFileNotFound, err, "opening instance %s", path)
	}
	defer f.Close()

	in, err := Decode(f)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidFormat, err, "decoding instance %s", path)
	}
	if in.Name == "" {
		in.Name = strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	}
	if err := errors.ValidateInstanceName(in.Name); err != nil {
		return nil, err
	}
	if err := in.Validate(); err != nil {
		return nil, err
	}
	return in, nil
}

// Decode parses a TOML instance from r without validating it.
func Decode(r io.Reader) (*Instance, error) {
	var ff fileFormat
	if _, err := toml.NewDecoder(r).Decode(&ff); err != nil {
		return nil, err
	}
	return ff.assemble()
}

func (ff *fileFormat) assemble() (*Instance, error) {
	in := &Instance{Name: ff.Name}

	for _, t := range ff.Terminals {
		d := t.Diameter
		if d == 0 {
			d = 1
		}
		in.Terminals = append(in.Terminals, Terminal{Pos: geom.Pt(t.X, t.Y), Diameter: d})
	}
	for _, o := range ff.Obstacles {
		in.Obstacles = append(in.Obstacles, Obstacle{Pos: geom.Pt(o.X, o.Y)})
	}
	for i, p := range ff.Paths {
		path := Path{Thickness: p.Thickness}
		for j, pt := range p.Points {
			if len(pt) != 2 {
				return nil, errors.New(errors.ErrCodeInvalidPath,
					"path %d point %d has %d coordinates, need 2", i, j, len(pt))
			}
			path.Points = append(path.Points, geom.Pt(pt[0], pt[1]))
		}
		for j, b := range p.Bends {
			switch b {
			case "cw":
				path.Bends = append(path.Bends, geom.Clockwise)
			case "ccw":
				path.Bends = append(path.Bends, geom.CounterClockwise)
			default:
				return nil, errors.New(errors.ErrCodeInvalidPath,
					"path %d bend %d: unknown handedness %q (want \"cw\" or \"ccw\")", i, j, b)
			}
		}
		in.Paths = append(in.Paths, path)
	}
	return in, nil
}
