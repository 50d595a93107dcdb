package cli

import "math"

// canvas rasterizes world geometry into braille cells. Each terminal cell
// holds a 2x4 grid of micro-pixels addressed through the braille code block.
type canvas struct {
	w, h  int       // in cells
	cells [][]uint8 // per-cell 8-bit dot mask
}

// brailleBits maps micro-pixel (column, row) within a cell to its dot bit.
var brailleBits = [2][4]uint8{
	{0x01, 0x02, 0x04, 0x40},
	{0x08, 0x10, 0x20, 0x80},
}

func newCanvas(w, h int) *canvas {
	cells := make([][]uint8, h)
	for i := range cells {
		cells[i] = make([]uint8, w)
	}
	return &canvas{w: w, h: h, cells: cells}
}

// set marks a micro-pixel. Coordinates outside the canvas are ignored.
func (c *canvas) set(mx, my int) {
	if mx < 0 || my < 0 {
		return
	}
	cx, cy := mx/2, my/4
	if cx >= c.w || cy >= c.h {
		return
	}
	c.cells[cy][cx] |= brailleBits[mx%2][my%4]
}

// line draws a micro-pixel line using Bresenham.
func (c *canvas) line(x0, y0, x1, y1 int) {
	dx := abs(x1 - x0)
	sx := -1
	if x0 < x1 {
		sx = 1
	}
	dy := -abs(y1 - y0)
	sy := -1
	if y0 < y1 {
		sy = 1
	}
	err := dx + dy
	for {
		c.set(x0, y0)
		if x0 == x1 && y0 == y1 {
			return
		}
		e2 := 2 * err
		if e2 >= dy {
			err += dy
			x0 += sx
		}
		if e2 <= dx {
			err += dx
			y0 += sy
		}
	}
}

// arc draws a circular arc sweeping clockwise from a1 to a2 in world angles,
// approximated by short chords. project maps world coordinates to
// micro-pixels.
func (c *canvas) arc(cx, cy, r, a1, a2 float64, project func(x, y float64) (int, int)) {
	sweep := math.Mod(a1-a2, 2*math.Pi)
	if sweep < 0 {
		sweep += 2 * math.Pi
	}
	steps := int(math.Ceil(sweep/0.1)) + 1
	px, py := project(cx+r*math.Cos(a1), cy+r*math.Sin(a1))
	for i := 1; i <= steps; i++ {
		a := a1 - sweep*float64(i)/float64(steps)
		x, y := project(cx+r*math.Cos(a), cy+r*math.Sin(a))
		c.line(px, py, x, y)
		px, py = x, y
	}
}

// render converts the cell masks to printable lines.
func (c *canvas) render() []string {
	out := make([]string, c.h)
	for y := 0; y < c.h; y++ {
		row := make([]rune, c.w)
		for x := 0; x < c.w; x++ {
			if mask := c.cells[y][x]; mask == 0 {
				row[x] = ' '
			} else {
				row[x] = rune(0x2800 + int(mask))
			}
		}
		out[y] = string(row)
	}
	return out
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
