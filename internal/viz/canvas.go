package viz

import (
	"math"
	"strings"
)

// Braille Patterns: 2x4 dots
// 1 4
// 2 5
// 3 6
// 7 8
//
// Unicode offset 0x2800
var pixelMap = [4][2]int{
	{0x1, 0x8},
	{0x2, 0x10},
	{0x4, 0x20},
	{0x40, 0x80},
}

const blank = 0x2800

// Canvas is a Braille pixel canvas of Width x Height characters, which is
// (Width*2) x (Height*4) sub-pixels.
type Canvas struct {
	Width, Height int
	Grid          [][]rune
}

func NewCanvas(w, h int) *Canvas {
	c := &Canvas{
		Width:  w,
		Height: h,
		Grid:   make([][]rune, h),
	}
	for i := range c.Grid {
		c.Grid[i] = make([]rune, w)
	}
	c.Clear()
	return c
}

// Set lights the sub-pixel (x, y). Out of range points are ignored.
func (c *Canvas) Set(x, y int) {
	if x < 0 || y < 0 {
		return
	}
	col, row := x/2, y/4
	if col >= c.Width || row >= c.Height {
		return
	}
	c.Grid[row][col] |= rune(pixelMap[y%4][x%2])
}

// Lit reports whether sub-pixel (x, y) is set.
func (c *Canvas) Lit(x, y int) bool {
	if x < 0 || y < 0 || x/2 >= c.Width || y/4 >= c.Height {
		return false
	}
	return c.Grid[y/4][x/2]&rune(pixelMap[y%4][x%2]) != 0
}

func (c *Canvas) Clear() {
	for i := range c.Grid {
		for j := range c.Grid[i] {
			c.Grid[i][j] = blank
		}
	}
}

// DrawLine draws a line using Bresenham's algorithm
func (c *Canvas) DrawLine(x0, y0, x1, y1 int) {
	dx := absInt(x1 - x0)
	dy := absInt(y1 - y0)
	sx := -1
	if x0 < x1 {
		sx = 1
	}
	sy := -1
	if y0 < y1 {
		sy = 1
	}
	err := dx - dy

	for {
		c.Set(x0, y0)
		if x0 == x1 && y0 == y1 {
			break
		}
		e2 := 2 * err
		if e2 > -dy {
			err -= dy
			x0 += sx
		}
		if e2 < dx {
			err += dx
			y0 += sy
		}
	}
}

// PlotCurves draws each curve ys[i] against xs as a polyline, scaled so that
// all curves share one set of axes. Non-finite values break the line.
func (c *Canvas) PlotCurves(xs []float64, curves ...[]float64) {
	lo, hi := ValueRange(curves...)
	c.PlotCurvesIn(xs, lo, hi, curves...)
}

// PlotCurvesIn is PlotCurves with a fixed value range [yMin, yMax].
func (c *Canvas) PlotCurvesIn(xs []float64, yMin, yMax float64, curves ...[]float64) {
	if len(xs) < 2 || len(curves) == 0 || !(yMin <= yMax) {
		return
	}
	if yMax == yMin {
		yMin, yMax = yMin-1, yMax+1
	}
	xMin, xMax := xs[0], xs[len(xs)-1]

	w, h := c.Width*2-1, c.Height*4-1
	px := func(x float64) int { return int(math.Round((x - xMin) / (xMax - xMin) * float64(w))) }
	py := func(y float64) int { return h - int(math.Round((y-yMin)/(yMax-yMin)*float64(h))) }

	for _, ys := range curves {
		prevOK := false
		var x0, y0 int
		for i, y := range ys {
			if i >= len(xs) || math.IsNaN(y) || math.IsInf(y, 0) {
				prevOK = false
				continue
			}
			x1, y1 := px(xs[i]), py(y)
			if prevOK {
				c.DrawLine(x0, y0, x1, y1)
			} else {
				c.Set(x1, y1)
			}
			x0, y0, prevOK = x1, y1, true
		}
	}
}

// ValueRange returns the smallest and largest finite value across curves.
// lo > hi when there is none.
func ValueRange(curves ...[]float64) (lo, hi float64) {
	lo, hi = math.Inf(1), math.Inf(-1)
	for _, ys := range curves {
		for _, y := range ys {
			if math.IsNaN(y) || math.IsInf(y, 0) {
				continue
			}
			lo, hi = math.Min(lo, y), math.Max(hi, y)
		}
	}
	return lo, hi
}

func (c *Canvas) String() string {
	var b strings.Builder
	for _, row := range c.Grid {
		b.WriteString(string(row) + "\n")
	}
	return b.String()
}

func absInt(x int) int {
	if x < 0 {
		return -x
	}
	return x
}
