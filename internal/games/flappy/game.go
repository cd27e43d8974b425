// Package flappy implements Flappy Dragon: keep the dragon airborne and fly
// it through the gaps in the walls scrolling in from the right.
package flappy

import (
	"fmt"

	"github.com/EngoEngine/ecs"

	"github.com/vovakirdan/quadarcade/internal/collision"
	"github.com/vovakirdan/quadarcade/internal/config"
	"github.com/vovakirdan/quadarcade/internal/core"
	"github.com/vovakirdan/quadarcade/internal/games/draw"
	"github.com/vovakirdan/quadarcade/internal/physics"
	"github.com/vovakirdan/quadarcade/internal/random"
	"github.com/vovakirdan/quadarcade/internal/registry"
)

// Collision categories.
const (
	CategoryPlayer   collision.Category = "player"
	CategoryObstacle collision.Category = "obstacle"
)

const (
	dragonGlyph = '>'
	brickGlyph  = '█'
)

// Game implements registry.Game.
type Game struct {
	cfg        config.FlappyConfig
	configPath string
	preset     config.DifficultyPreset
	difficulty *config.DifficultyManager

	runtime  core.RuntimeConfig
	rng      *random.Generator
	world    *ecs.World
	physics  *physics.System
	detector *collision.Detector

	dragon     ecs.BasicEntity
	dragonBody *physics.Body
	wall       *wall

	score    int
	ticks    int
	gameOver bool
	paused   bool
}

func New() *Game {
	return &Game{
		cfg:    config.DefaultFlappyConfig(),
		preset: config.DifficultyNormal,
	}
}

func (g *Game) ID() string    { return "flappy" }
func (g *Game) Title() string { return "Flappy Dragon" }

func (g *Game) Controls() string {
	return "Space flap, P pause, R restart"
}

// SetConfigPath sets a YAML file to load on the next Reset.
func (g *Game) SetConfigPath(path string) {
	g.configPath = path
}

// SetDifficulty selects a difficulty preset for the next Reset.
func (g *Game) SetDifficulty(preset string) error {
	p, ok := config.ParsePreset(preset)
	if !ok {
		return fmt.Errorf("flappy: unknown difficulty %q", preset)
	}
	g.preset = p
	return nil
}

// Reset starts a new round. If the config file cannot be loaded the
// previous settings are kept.
func (g *Game) Reset(cfg core.RuntimeConfig) {
	if loaded, err := config.LoadFlappy(g.configPath); err == nil {
		g.cfg = loaded
	}
	g.cfg.Difficulty.Apply(g.preset)
	g.difficulty = config.NewDifficultyManager(g.cfg.Difficulty)

	g.runtime = cfg
	if cfg.Seed != 0 {
		g.rng = random.Seeded(cfg.Seed)
	} else {
		g.rng = random.New()
	}

	g.world = &ecs.World{}
	g.physics = physics.NewSystem()
	g.physics.Gravity = g.cfg.Physics.Gravity
	g.world.AddSystem(g.physics)

	world := g.cfg.World
	g.detector = collision.NewDetector(collision.V(world.Width, world.Height), world.QuadTreeDepth, collision.ModeExhaustive)

	g.dragon = ecs.NewBasic()
	g.dragonBody = &physics.Body{Position: collision.V(g.cfg.Dragon.X, 0), Gravity: true}
	g.dragonBody.StartFrame = g.dragonBody.Position
	g.physics.Add(&g.dragon, g.dragonBody)

	g.score = 0
	g.ticks = 0
	g.gameOver = false
	g.paused = false
	g.wall = nil
	g.newWall()
}

func (g *Game) newWall() {
	if g.wall != nil {
		g.wall.remove(g.physics)
	}
	walls := g.cfg.Walls
	gapHalf := g.difficulty.Gap(walls.GapHalf, 2, g.score, g.ticks)
	speed := g.difficulty.Speed(walls.Speed, g.score, g.ticks)
	gapRow := g.rng.Range(-walls.GapRange, walls.GapRange)
	g.wall = buildWall(g.physics, walls, gapRow, gapHalf, speed)
}

// Step advances one frame.
func (g *Game) Step(in core.InputFrame) core.StepResult {
	if g.gameOver {
		return core.StepResult{State: g.State()}
	}
	if in.Has(core.ActionPause) {
		g.paused = !g.paused
	}
	if g.paused {
		return core.StepResult{State: g.State()}
	}

	g.ticks++
	if in.Has(core.ActionJump) {
		g.physics.Push(physics.Impulse{
			Target:   g.dragon.ID(),
			Amount:   collision.V(0, g.cfg.Physics.FlapImpulse),
			Absolute: true,
		})
	}

	g.world.Update(g.runtime.FrameSeconds())

	body := g.dragonBody
	if body.Velocity.Y < -g.cfg.Physics.MaxFallSpeed {
		body.Velocity.Y = -g.cfg.Physics.MaxFallSpeed
	}

	top, bottom := g.cfg.World.Height/2, -g.cfg.World.Height/2
	if body.Position.Y > top {
		body.Position.Y = top
	} else if body.Position.Y < bottom {
		g.gameOver = true
		return core.StepResult{State: g.State()}
	}

	g.scoreWall()
	if g.wall.x() < g.cfg.Walls.DespawnX {
		g.newWall()
	}

	if g.hitWall() {
		g.gameOver = true
	}
	return core.StepResult{State: g.State()}
}

func (g *Game) dragonBox() collision.AxisAlignedBoundingBox {
	return collision.NewAABB(g.cfg.Dragon.Width, g.cfg.Dragon.Height)
}

// scoreWall counts the wall once its trailing edge is behind the dragon.
func (g *Game) scoreWall() {
	if g.wall.passed {
		return
	}
	trailing := g.wall.x() + g.cfg.Walls.BrickSize/2
	if trailing < g.dragonBody.Position.X-g.cfg.Dragon.Width/2 {
		g.wall.passed = true
		g.score++
	}
}

func (g *Game) hitWall() bool {
	player := collision.Group{
		Category: CategoryPlayer,
		Bodies: []collision.Body{{
			ID:       g.dragon.ID(),
			Position: g.dragonBody.Position,
			Box:      g.dragonBox(),
		}},
	}
	return len(g.detector.Check(player, g.wall.group(g.cfg.Walls.BrickSize))) > 0
}

// Render draws the walls and dragon scaled to the screen, with the HUD on
// the top row.
func (g *Game) Render(dst *core.Screen) {
	if g.wall == nil {
		return
	}
	view := draw.Playfield(dst, g.cfg.World.Width, g.cfg.World.Height)

	brickBox := collision.NewAABB(g.cfg.Walls.BrickSize, g.cfg.Walls.BrickSize)
	for _, b := range g.wall.bricks {
		draw.FillRect(dst, view, brickBox.AsRect(b.body.Position), brickGlyph, core.ColorRust)
	}

	draw.Plot(dst, view, g.dragonBody.Position, dragonGlyph, core.ColorBrightYellow)

	dst.DrawTextColor(1, 0, fmt.Sprintf("Score: %d", g.score), core.ColorWhite)

	switch {
	case g.gameOver:
		dst.DrawMessage("GAME OVER", fmt.Sprintf("Score: %d  |  R to restart", g.score))
	case g.paused:
		dst.DrawMessage("PAUSED", "P to resume")
	}
}

func (g *Game) State() core.GameState {
	return core.GameState{
		Score:    g.score,
		GameOver: g.gameOver,
		Paused:   g.paused,
	}
}

func init() {
	registry.Register("flappy", func() registry.Game {
		return New()
	})
}
