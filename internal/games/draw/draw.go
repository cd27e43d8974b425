// Package draw projects world-space shapes onto a game screen. Row 0 of the
// screen is reserved for the HUD, so the playfield starts at row 1.
package draw

import (
	"github.com/vovakirdan/quadarcade/internal/collision"
	"github.com/vovakirdan/quadarcade/internal/core"
)

// HUDRows is the number of rows above the playfield.
const HUDRows = 1

// Playfield returns a viewport fitting a worldW x worldH area into the part
// of dst below the HUD.
func Playfield(dst *core.Screen, worldW, worldH float64) core.Viewport {
	return core.FitViewport(worldW, worldH, dst.Width(), dst.Height()-HUDRows)
}

// Plot draws glyph at the cell containing p.
func Plot(dst *core.Screen, view core.Viewport, p collision.Vec2, glyph rune, c core.Color) {
	col, row := view.ToCell(p.X, p.Y)
	dst.SetColor(col, row+HUDRows, glyph, c)
}

// FillRect paints every cell whose center lies inside r. A rectangle
// smaller than a cell still gets the cell holding its center.
func FillRect(dst *core.Screen, view core.Viewport, r collision.Rect2D, glyph rune, c core.Color) {
	c0, r0 := view.ToCell(r.Min.X, r.Max.Y)
	c1, r1 := view.ToCell(r.Max.X, r.Min.Y)
	painted := false
	for row := max(r0, 0); row <= min(r1, view.Rows-1); row++ {
		for col := max(c0, 0); col <= min(c1, view.Cols-1); col++ {
			x, y := view.ToWorld(col, row)
			if r.Contains(collision.V(x, y)) {
				dst.SetColor(col, row+HUDRows, glyph, c)
				painted = true
			}
		}
	}
	if !painted {
		Plot(dst, view, r.Center(), glyph, c)
	}
}
