// Package worldgen carves the cave map for Mars Base One.
//
// A map starts fully solid. Generation clears a pocket at the center, a
// handful of random holes, tunnels joining the holes in a ring, and a shaft
// from the center to the top edge, then keeps punching outward from the holes
// until less than Options.SolidShare of the map is rock. The outermost ring
// of cells is never cleared.
package worldgen

import (
	"context"
	"errors"
	"fmt"

	"github.com/vovakirdan/quadarcade/internal/random"
)

const (
	// DefaultSolidShare is the fraction of solid cells at which diffusion
	// stops when Options leaves it zero.
	DefaultSolidShare = 0.6
	// DefaultHoles is the number of random holes besides the center when
	// Options leaves it zero.
	DefaultHoles = 10
	// MinSize is the smallest width or height Generate accepts.
	MinSize = 12

	holeMargin = 5
)

var (
	// ErrTooSmall is returned for maps too small to hold the holes.
	ErrTooSmall = errors.New("worldgen: map too small")
	// ErrBadOptions is returned for a solid share or hole count that
	// generation cannot satisfy.
	ErrBadOptions = errors.New("worldgen: bad options")
)

// Options sizes and shapes a cave. Zero SolidShare and Holes select the
// defaults.
type Options struct {
	Width  int
	Height int

	// SolidShare is the fraction of solid cells at which diffusion stops.
	// It must lie above the share taken by the border ring.
	SolidShare float64
	Holes      int
}

func (o Options) withDefaults() Options {
	if o.SolidShare == 0 {
		o.SolidShare = DefaultSolidShare
	}
	if o.Holes == 0 {
		o.Holes = DefaultHoles
	}
	return o
}

func (o Options) validate() error {
	if o.Width < MinSize || o.Height < MinSize {
		return fmt.Errorf("%w: %dx%d, need at least %dx%d", ErrTooSmall, o.Width, o.Height, MinSize, MinSize)
	}
	if o.Holes < 1 {
		return fmt.Errorf("%w: %d holes, need at least 1", ErrBadOptions, o.Holes)
	}
	// The border ring is never cleared, so diffusion cannot get below it.
	border := float64(2*o.Width+2*o.Height-4) / float64(o.Width*o.Height)
	if o.SolidShare <= border || o.SolidShare > 1 {
		return fmt.Errorf("%w: solid share %.3f outside (%.3f, 1]", ErrBadOptions, o.SolidShare, border)
	}
	return nil
}

// World is a width x height grid of solid or open cells. Cells are stored
// in row-major order; y grows upward, so row Height-1 is the surface.
type World struct {
	Width  int
	Height int

	solid      []bool
	solidCount int
}

type cell struct{ x, y int }

func newWorld(w, h int) *World {
	solid := make([]bool, w*h)
	for i := range solid {
		solid[i] = true
	}
	return &World{Width: w, Height: h, solid: solid, solidCount: w * h}
}

func (w *World) inBounds(x, y int) bool {
	return x >= 0 && x < w.Width && y >= 0 && y < w.Height
}

// Solid reports whether the cell at x, y is rock. Cells outside the map are
// solid.
func (w *World) Solid(x, y int) bool {
	if !w.inBounds(x, y) {
		return true
	}
	return w.solid[y*w.Width+x]
}

// Exposed reports whether the cell is solid and has an open 4-neighbour.
// Only exposed cells can be touched by anything flying through the cave.
func (w *World) Exposed(x, y int) bool {
	if !w.inBounds(x, y) || !w.Solid(x, y) {
		return false
	}
	return !w.Solid(x-1, y) || !w.Solid(x+1, y) || !w.Solid(x, y-1) || !w.Solid(x, y+1)
}

// SolidFraction returns the share of solid cells.
func (w *World) SolidFraction() float64 {
	return float64(w.solidCount) / float64(len(w.solid))
}

// clear opens the 3x3 block around x, y, leaving the border intact.
func (w *World) clear(x, y int) {
	for dy := -1; dy <= 1; dy++ {
		for dx := -1; dx <= 1; dx++ {
			cx, cy := x+dx, y+dy
			if cx <= 0 || cx >= w.Width-1 || cy <= 0 || cy >= w.Height-1 {
				continue
			}
			if i := cy*w.Width + cx; w.solid[i] {
				w.solid[i] = false
				w.solidCount--
			}
		}
	}
}

// line walks from start toward end in Width (or Height) fractional steps,
// clearing as it goes.
func (w *World) line(start, end cell) {
	x, y := float64(start.x), float64(start.y)
	sx := float64(end.x-start.x) / float64(w.Width)
	sy := float64(end.y-start.y) / float64(w.Height)
	for steps := 0; steps <= 2*max(w.Width, w.Height); steps++ {
		tx, ty := int(x), int(y)
		if tx < 1 || tx >= w.Width || ty < 1 || ty >= w.Height {
			return
		}
		if tx == end.x && ty == end.y {
			return
		}
		w.clear(tx, ty)
		x += sx
		y += sy
	}
}

func (w *World) randomSolid(rng *random.Generator) cell {
	for {
		x, y := rng.Range(0, w.Width), rng.Range(0, w.Height)
		if w.Solid(x, y) {
			return cell{x, y}
		}
	}
}

// diffuse fires rays from random holes toward random rock and clears the
// first rock each ray meets, until the solid share drops below share.
func (w *World) diffuse(ctx context.Context, holes []cell, share float64, rng *random.Generator) error {
	for w.SolidFraction() >= share {
		if err := ctx.Err(); err != nil {
			return err
		}
		from := holes[rng.Range(0, len(holes))]
		to := w.randomSolid(rng)

		x, y := float64(from.x), float64(from.y)
		sx := float64(to.x-from.x) / float64(w.Width)
		sy := float64(to.y-from.y) / float64(w.Height)
		for steps := 0; steps <= 2*max(w.Width, w.Height); steps++ {
			if x < 1 || x >= float64(w.Width) || y < 1 || y >= float64(w.Height) {
				break
			}
			if tx, ty := int(x), int(y); w.Solid(tx, ty) {
				w.clear(tx, ty)
				break
			}
			x += sx
			y += sy
		}
	}
	return nil
}

// Generate builds a cave as opts describe. The same generator state yields
// the same cave. It returns ctx.Err() if ctx is cancelled before the cave is
// finished.
func Generate(ctx context.Context, opts Options, rng *random.Generator) (*World, error) {
	opts = opts.withDefaults()
	if err := opts.validate(); err != nil {
		return nil, err
	}
	width, height := opts.Width, opts.Height

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	w := newWorld(width, height)
	center := cell{width / 2, height / 2}
	w.clear(center.x, center.y)

	holes := []cell{center}
	for range opts.Holes {
		h := cell{rng.Range(holeMargin, width-holeMargin), rng.Range(holeMargin, height-holeMargin)}
		holes = append(holes, h)
		w.clear(h.x, h.y)
		w.clear(h.x+2, h.y)
		w.clear(h.x-2, h.y)
		w.clear(h.x, h.y+2)
		w.clear(h.x, h.y-2)
	}
	for i, start := range holes {
		w.line(start, holes[(i+1)%len(holes)])
	}

	for y := center.y; y < height; y++ {
		w.clear(center.x, y)
	}

	if err := w.diffuse(ctx, holes[:opts.Holes], opts.SolidShare, rng); err != nil {
		return nil, err
	}
	return w, nil
}

// Result is what Start delivers.
type Result struct {
	World *World
	Err   error
}

// Start generates a cave on a background goroutine. The returned channel
// receives exactly one Result and is then closed, so callers can poll it
// without blocking from a game loop.
func Start(ctx context.Context, opts Options, seed int64) <-chan Result {
	out := make(chan Result, 1)
	go func() {
		defer close(out)
		rng := random.New()
		if seed != 0 {
			rng = random.Seeded(seed)
		}
		w, err := Generate(ctx, opts, rng)
		out <- Result{World: w, Err: err}
	}()
	return out
}
