package flappy

import (
	"github.com/EngoEngine/ecs"

	"github.com/vovakirdan/quadarcade/internal/collision"
	"github.com/vovakirdan/quadarcade/internal/config"
	"github.com/vovakirdan/quadarcade/internal/physics"
)

// brick is one obstacle block of a wall.
type brick struct {
	basic ecs.BasicEntity
	body  *physics.Body
}

// wall is a column of bricks with a gap the dragon has to fly through.
type wall struct {
	bricks []brick
	gapRow int
	passed bool
}

// x returns the wall's horizontal center; all bricks share it.
func (w *wall) x() float64 {
	if len(w.bricks) == 0 {
		return 0
	}
	return w.bricks[0].body.Position.X
}

// inGap reports whether row is left open in a wall whose gap is centered on
// gapRow.
func inGap(row, gapRow, gapHalf int) bool {
	return row >= gapRow-gapHalf && row <= gapRow+gapHalf
}

// buildWall spawns a wall at cfg.SpawnX moving left at speed. Bricks are
// added to the physics system so they move on each physics tick.
func buildWall(sys *physics.System, cfg config.FlappyWalls, gapRow, gapHalf int, speed float64) *wall {
	w := &wall{gapRow: gapRow}
	for row := -cfg.Rows; row <= cfg.Rows; row++ {
		if inGap(row, gapRow, gapHalf) {
			continue
		}
		b := brick{
			basic: ecs.NewBasic(),
			body: &physics.Body{
				Position: collision.V(cfg.SpawnX, float64(row)*cfg.BrickSize),
				Velocity: collision.V(-speed, 0),
			},
		}
		b.body.StartFrame = b.body.Position
		sys.Add(&b.basic, b.body)
		w.bricks = append(w.bricks, b)
	}
	return w
}

// remove drops every brick from the physics system.
func (w *wall) remove(sys *physics.System) {
	for _, b := range w.bricks {
		sys.Remove(b.basic)
	}
	w.bricks = nil
}

// group returns the wall's bricks as obstacle bodies.
func (w *wall) group(size float64) collision.Group {
	box := collision.NewAABB(size, size)
	g := collision.Group{Category: CategoryObstacle, Bodies: make([]collision.Body, 0, len(w.bricks))}
	for _, b := range w.bricks {
		g.Bodies = append(g.Bodies, collision.Body{
			ID:       b.basic.ID(),
			Position: b.body.Position,
			Box:      box,
		})
	}
	return g
}
