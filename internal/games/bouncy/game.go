// Package bouncy is a collision benchmark: balls drift around a wrapping
// world and push each other apart, while the HUD reports how much work the
// quadtree query did.
package bouncy

import (
	"fmt"
	"time"

	"github.com/EngoEngine/ecs"

	"github.com/vovakirdan/quadarcade/internal/collision"
	"github.com/vovakirdan/quadarcade/internal/config"
	"github.com/vovakirdan/quadarcade/internal/core"
	"github.com/vovakirdan/quadarcade/internal/games/draw"
	"github.com/vovakirdan/quadarcade/internal/physics"
	"github.com/vovakirdan/quadarcade/internal/random"
	"github.com/vovakirdan/quadarcade/internal/registry"
)

// CategoryBall is the only collision category; balls are checked against
// each other.
const CategoryBall collision.Category = "ball"

const ballGlyph = 'o'

// Batch sizes for the spawn keys.
const (
	spawnOne   = 1
	spawnBatch = 100
	spawnHorde = 1000
)

type ball struct {
	basic ecs.BasicEntity
	body  *physics.Body
}

// Game implements registry.Game.
type Game struct {
	cfg        config.BouncyConfig
	configPath string

	runtime  core.RuntimeConfig
	rng      *random.Generator
	world    *ecs.World
	physics  *physics.System
	detector *collision.Detector
	box      collision.AxisAlignedBoundingBox

	balls  []ball
	hits   int
	paused bool
}

func New() *Game {
	return &Game{cfg: config.DefaultBouncyConfig()}
}

func (g *Game) ID() string    { return "bouncy" }
func (g *Game) Title() string { return "Bouncy Balls" }

func (g *Game) Controls() string {
	return "Space +1, Enter +100, X +1000, M collision mode, P pause"
}

func (g *Game) SetConfigPath(path string) {
	g.configPath = path
}

// SetDifficulty accepts any preset; the benchmark has no difficulty.
func (g *Game) SetDifficulty(string) error {
	return nil
}

func parseMode(s string) collision.Mode {
	if s == collision.ModeFirstMatch.String() {
		return collision.ModeFirstMatch
	}
	return collision.ModeExhaustive
}

func (g *Game) Reset(cfg core.RuntimeConfig) {
	if loaded, err := config.LoadBouncy(g.configPath); err == nil {
		g.cfg = loaded
	}

	g.runtime = cfg
	if cfg.Seed != 0 {
		g.rng = random.Seeded(cfg.Seed)
	} else {
		g.rng = random.New()
	}

	g.world = &ecs.World{}
	g.physics = physics.NewSystem()
	g.physics.OnTick = g.warp
	g.world.AddSystem(g.physics)

	w := g.cfg.World
	g.detector = collision.NewDetector(collision.V(w.Width, w.Height), w.QuadTreeDepth, parseMode(g.cfg.Mode))
	g.box = collision.NewAABB(g.cfg.Balls.Size, g.cfg.Balls.Size)

	g.balls = g.balls[:0]
	g.hits = 0
	g.paused = false
	g.spawn(g.cfg.Balls.Initial)
}

// spawn adds n balls at random positions with random velocities, up to the
// configured limit.
func (g *Game) spawn(n int) {
	n = min(n, g.cfg.Balls.Limit-len(g.balls))
	halfW, halfH := g.cfg.World.Width/2, g.cfg.World.Height/2
	speed := g.cfg.Balls.MaxSpeed
	for range n {
		b := ball{
			basic: ecs.NewBasic(),
			body: &physics.Body{
				Position: collision.V(g.rng.Float(-halfW, halfW), g.rng.Float(-halfH, halfH)),
				Velocity: collision.V(g.rng.Float(-speed, speed), g.rng.Float(-speed, speed)),
			},
		}
		b.body.StartFrame = b.body.Position
		g.physics.Add(&b.basic, b.body)
		g.balls = append(g.balls, b)
	}
}

// warp wraps balls that left the world to the opposite edge.
func (g *Game) warp() {
	halfW, halfH := g.cfg.World.Width/2, g.cfg.World.Height/2
	for _, b := range g.balls {
		p := &b.body.Position
		if p.X < -halfW {
			p.X = halfW
		} else if p.X > halfW {
			p.X = -halfW
		}
		if p.Y < -halfH {
			p.Y = halfH
		} else if p.Y > halfH {
			p.Y = -halfH
		}
	}
}

func (g *Game) group() collision.Group {
	bodies := make([]collision.Body, len(g.balls))
	for i, b := range g.balls {
		bodies[i] = collision.Body{ID: b.basic.ID(), Position: b.body.Position, Box: g.box}
	}
	return collision.Group{Category: CategoryBall, Bodies: bodies}
}

// collide pushes each overlapping ball away from the ball it hit. A pair
// sharing several leaves is reported once per leaf, so events are deduped
// before any impulse is queued.
func (g *Game) collide() {
	group := g.group()
	events := collision.Dedupe(g.detector.Check(group, group))
	g.hits = len(events)

	positions := make(map[uint64]collision.Vec2, len(g.balls))
	for _, b := range group.Bodies {
		positions[b.ID] = b.Position
	}
	for _, e := range events {
		away := positions[e.A].Sub(positions[e.B]).Normalize()
		g.physics.Push(physics.Impulse{
			Target: e.A,
			Amount: away.Scale(g.cfg.Balls.BounceStrength),
		})
	}
}

func (g *Game) Step(in core.InputFrame) core.StepResult {
	if in.Has(core.ActionPause) {
		g.paused = !g.paused
	}
	if in.Has(core.ActionMode) {
		if g.detector.Mode == collision.ModeExhaustive {
			g.detector.Mode = collision.ModeFirstMatch
		} else {
			g.detector.Mode = collision.ModeExhaustive
		}
	}
	if g.paused {
		return core.StepResult{State: g.State()}
	}

	switch {
	case in.Has(core.ActionAlt):
		g.spawn(spawnHorde)
	case in.Has(core.ActionSecondary):
		g.spawn(spawnBatch)
	case in.Has(core.ActionJump):
		g.spawn(spawnOne)
	}

	g.collide()
	g.world.Update(g.runtime.FrameSeconds())
	return core.StepResult{State: g.State()}
}

func (g *Game) Render(dst *core.Screen) {
	view := draw.Playfield(dst, g.cfg.World.Width, g.cfg.World.Height)
	for _, b := range g.balls {
		draw.Plot(dst, view, b.body.Position, ballGlyph, core.ColorBrightGreen)
	}

	stats := g.detector.Stats()
	color := core.ColorGreen
	switch ms := stats.Elapsed.Milliseconds(); {
	case ms > 16:
		color = core.ColorRed
	case ms > 8:
		color = core.ColorYellow
	}
	hud := fmt.Sprintf("Balls: %d  Checks: %d  Hits: %d  Time: %s  Mode: %s",
		len(g.balls), stats.Checks, g.hits, stats.Elapsed.Round(time.Microsecond), g.detector.Mode)
	dst.DrawTextColor(1, 0, hud, color)

	if g.paused {
		dst.DrawMessage("PAUSED", "P to resume")
	}
}

// State reports the ball count as the score. The benchmark never ends.
func (g *Game) State() core.GameState {
	return core.GameState{Score: len(g.balls), Paused: g.paused}
}

func init() {
	registry.Register("bouncy", func() registry.Game {
		return New()
	})
}
