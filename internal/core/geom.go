// Package core holds the types shared between games and the terminal
// platform: the cell screen, input frames and runtime settings. It does not
// import Bubble Tea, so games stay testable without a terminal.
package core

import "math"

// Rect is a rectangle of screen cells. W and H are exclusive extents.
type Rect struct {
	X, Y int
	W, H int
}

func NewRect(x, y, w, h int) Rect {
	return Rect{X: x, Y: y, W: w, H: h}
}

func (r Rect) Right() int  { return r.X + r.W }
func (r Rect) Bottom() int { return r.Y + r.H }

// Contains reports whether cell (x, y) is inside r.
func (r Rect) Contains(x, y int) bool {
	return x >= r.X && x < r.Right() && y >= r.Y && y < r.Bottom()
}

// Clamp restricts val to [lo, hi].
func Clamp(val, lo, hi int) int {
	return max(lo, min(val, hi))
}

// ClampF restricts val to [lo, hi].
func ClampF(val, lo, hi float64) float64 {
	return math.Max(lo, math.Min(val, hi))
}

// Viewport projects continuous world coordinates (origin at Center, Y up)
// onto screen cells (origin top-left, Y down). Scale is world units per
// cell on each axis; terminal cells are roughly twice as tall as they are
// wide, so ScaleY is usually twice ScaleX.
type Viewport struct {
	Center         [2]float64
	ScaleX, ScaleY float64
	Cols, Rows     int
}

// FitViewport returns a viewport that shows a worldW x worldH area centered
// on the origin in a cols x rows screen.
func FitViewport(worldW, worldH float64, cols, rows int) Viewport {
	cols, rows = max(cols, 1), max(rows, 1)
	return Viewport{
		ScaleX: worldW / float64(cols),
		ScaleY: worldH / float64(rows),
		Cols:   cols,
		Rows:   rows,
	}
}

// ToCell maps a world point to a screen cell. The result may be off screen.
func (v Viewport) ToCell(x, y float64) (int, int) {
	cx := (x-v.Center[0])/v.ScaleX + float64(v.Cols)/2
	cy := float64(v.Rows)/2 - (y-v.Center[1])/v.ScaleY
	return int(math.Floor(cx)), int(math.Floor(cy))
}

// ToWorld returns the world point at the center of cell (col, row).
func (v Viewport) ToWorld(col, row int) (float64, float64) {
	x := (float64(col)+0.5-float64(v.Cols)/2)*v.ScaleX + v.Center[0]
	y := (float64(v.Rows)/2-float64(row)-0.5)*v.ScaleY + v.Center[1]
	return x, y
}
