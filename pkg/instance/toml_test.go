package instance

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/sashagielis/MDGE/pkg/errors"
	"github.com/sashagielis/MDGE/pkg/geom"
)

const validTOML = `
name = "bend"

[[terminals]]
x = 0.0
y = 0.0
diameter = 2.0

[[terminals]]
x = 8.0
y = 0.0

[[obstacles]]
x = 4.0
y = 1.0

[[paths]]
points = [[0.0, 0.0], [4.0, 3.0], [8.0, 0.0]]
bends = ["cw"]
thickness = 2.0
`

func TestDecode(t *testing.T) {
	in, err := Decode(strings.NewReader(validTOML))
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}

	if in.Name != "bend" {
		t.Errorf("name = %q, want %q", in.Name, "bend")
	}
	if len(in.Terminals) != 2 || len(in.Obstacles) != 1 || len(in.Paths) != 1 {
		t.Fatalf("got %d terminals, %d obstacles, %d paths",
			len(in.Terminals), len(in.Obstacles), len(in.Paths))
	}
	if in.Terminals[0].Diameter != 2 {
		t.Errorf("terminal 0 diameter = %g, want 2", in.Terminals[0].Diameter)
	}
	if in.Terminals[1].Diameter != 1 {
		t.Errorf("terminal 1 diameter = %g, want the default 1", in.Terminals[1].Diameter)
	}
	if in.Obstacles[0].Pos != geom.Pt(4, 1) {
		t.Errorf("obstacle at %v, want (4, 1)", in.Obstacles[0].Pos)
	}

	p := in.Paths[0]
	if p.Thickness != 2 {
		t.Errorf("thickness = %g, want 2", p.Thickness)
	}
	wantPts := []geom.Point{geom.Pt(0, 0), geom.Pt(4, 3), geom.Pt(8, 0)}
	for i, pt := range p.Points {
		if pt != wantPts[i] {
			t.Errorf("point %d = %v, want %v", i, pt, wantPts[i])
		}
	}
	if len(p.Bends) != 1 || p.Bends[0] != geom.Clockwise {
		t.Errorf("bends = %v, want one clockwise bend", p.Bends)
	}
}

func TestDecodeErrors(t *testing.T) {
	tests := []struct {
		name string
		toml string
	}{
		{
			name: "malformed TOML",
			toml: `name = `,
		},
		{
			name: "three-coordinate point",
			toml: `
[[paths]]
points = [[0.0, 0.0, 0.0], [1.0, 0.0]]
thickness = 1.0
`,
		},
		{
			name: "unknown handedness",
			toml: `
[[paths]]
points = [[0.0, 0.0], [1.0, 1.0], [2.0, 0.0]]
bends = ["left"]
thickness = 1.0
`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := Decode(strings.NewReader(tt.toml)); err == nil {
				t.Fatalf("Decode accepted %q", tt.toml)
			}
		})
	}
}

func TestLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bend.toml")
	if err := os.WriteFile(path, []byte(validTOML), 0o644); err != nil {
		t.Fatal(err)
	}

	in, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if in.Name != "bend" {
		t.Errorf("name = %q, want %q", in.Name, "bend")
	}
}

func TestLoadDefaultsNameFromFile(t *testing.T) {
	content := strings.Replace(validTOML, `name = "bend"`, "", 1)
	path := filepath.Join(t.TempDir(), "routed.toml")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	in, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if in.Name != "routed" {
		t.Errorf("name = %q, want the file stem %q", in.Name, "routed")
	}
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.toml"))
	if err == nil {
		t.Fatalf("Load found a file that does not exist")
	}
	if !errors.Is(err, errors.ErrCodeFileNotFound) {
		t.Errorf("error code = %v, want file-not-found", errors.GetCode(err))
	}
}

func TestValidate(t *testing.T) {
	base := func() *Instance {
		return &Instance{
			Name: "v",
			Terminals: []Terminal{
				{Pos: geom.Pt(0, 0), Diameter: 1},
				{Pos: geom.Pt(4, 0), Diameter: 1},
			},
			Paths: []Path{
				{Points: []geom.Point{geom.Pt(0, 0), geom.Pt(4, 0)}, Thickness: 1},
			},
		}
	}

	tests := []struct {
		name    string
		mutate  func(*Instance)
		wantErr bool
	}{
		{
			name:   "valid",
			mutate: func(in *Instance) {},
		},
		{
			name: "coincident terminals",
			mutate: func(in *Instance) {
				in.Terminals[1].Pos = in.Terminals[0].Pos
			},
			wantErr: true,
		},
		{
			name: "obstacle on a terminal",
			mutate: func(in *Instance) {
				in.Obstacles = []Obstacle{{Pos: geom.Pt(0, 0)}}
			},
			wantErr: true,
		},
		{
			name: "single-point path",
			mutate: func(in *Instance) {
				in.Paths[0].Points = in.Paths[0].Points[:1]
			},
			wantErr: true,
		},
		{
			name: "bend count mismatch",
			mutate: func(in *Instance) {
				in.Paths[0].Bends = []geom.Turn{geom.Clockwise}
			},
			wantErr: true,
		},
		{
			name: "zero thickness",
			mutate: func(in *Instance) {
				in.Paths[0].Thickness = 0
			},
			wantErr: true,
		},
		{
			name: "endpoint off the terminals",
			mutate: func(in *Instance) {
				in.Paths[0].Points[1] = geom.Pt(5, 0)
			},
			wantErr: true,
		},
		{
			name: "repeated consecutive point",
			mutate: func(in *Instance) {
				in.Paths[0].Points = []geom.Point{geom.Pt(0, 0), geom.Pt(0, 0), geom.Pt(4, 0)}
				in.Paths[0].Bends = []geom.Turn{geom.Clockwise}
			},
			wantErr: true,
		},
		{
			name: "bend without handedness",
			mutate: func(in *Instance) {
				in.Paths[0].Points = []geom.Point{geom.Pt(0, 0), geom.Pt(2, 1), geom.Pt(4, 0)}
				in.Paths[0].Bends = []geom.Turn{geom.Collinear}
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			in := base()
			tt.mutate(in)
			err := in.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}
