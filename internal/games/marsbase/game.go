// Package marsbase implements Mars Base One: pilot a lander out of a cave
// before the hull gives out. The cave is carved in the background by the
// worldgen package while the game shows a loading screen.
package marsbase

import (
	"context"
	"fmt"
	"math"

	"github.com/EngoEngine/ecs"

	"github.com/vovakirdan/quadarcade/internal/collision"
	"github.com/vovakirdan/quadarcade/internal/config"
	"github.com/vovakirdan/quadarcade/internal/core"
	"github.com/vovakirdan/quadarcade/internal/games/draw"
	"github.com/vovakirdan/quadarcade/internal/games/marsbase/worldgen"
	"github.com/vovakirdan/quadarcade/internal/physics"
	"github.com/vovakirdan/quadarcade/internal/random"
	"github.com/vovakirdan/quadarcade/internal/registry"
)

// Collision categories.
const (
	CategoryPlayer collision.Category = "player"
	CategoryGround collision.Category = "ground"
)

// Impulse sources. The bounce has the higher source, but it is absolute, so
// it overrides thrust in the same sum.
const (
	sourceThrust = 1
	sourceBounce = 2
)

// Ground tiles are not entities; their body IDs are offset past anything
// ecs.NewBasic hands out.
const groundIDBase uint64 = 1 << 40

// hullDamage is hull lost per unit of speed above the crash speed.
const hullDamage = 25

const (
	rockGlyph    = '█'
	surfaceGlyph = '▓'
)

var shipGlyphs = [8]rune{'↑', '↖', '←', '↙', '↓', '↘', '→', '↗'}

// Game implements registry.Game.
type Game struct {
	cfg        config.MarsConfig
	configPath string

	runtime core.RuntimeConfig
	rng     *random.Generator
	cancel  context.CancelFunc
	pending <-chan worldgen.Result
	loadErr error

	cave     *worldgen.World
	world    *ecs.World
	physics  *physics.System
	detector *collision.Detector

	ship     ecs.BasicEntity
	shipBody *physics.Body
	angle    float64

	fuel     int
	hull     int
	ticks    int
	score    int
	escaped  bool
	gameOver bool
	paused   bool
}

func New() *Game {
	return &Game{cfg: config.DefaultMarsConfig()}
}

func (g *Game) ID() string    { return "marsbase" }
func (g *Game) Title() string { return "Mars Base One" }

func (g *Game) Controls() string {
	return "Left/Right rotate, Up thrust, P pause, R restart"
}

func (g *Game) SetConfigPath(path string) {
	g.configPath = path
}

// SetDifficulty accepts any preset; the cave is the difficulty.
func (g *Game) SetDifficulty(string) error {
	return nil
}

// Reset starts carving a new cave. The round begins once the cave arrives.
func (g *Game) Reset(cfg core.RuntimeConfig) {
	if loaded, err := config.LoadMars(g.configPath); err == nil {
		g.cfg = loaded
	}

	g.runtime = cfg
	if cfg.Seed != 0 {
		g.rng = random.Seeded(cfg.Seed)
	} else {
		g.rng = random.New()
	}

	if g.cancel != nil {
		g.cancel()
	}
	ctx, cancel := context.WithCancel(context.Background())
	g.cancel = cancel
	g.pending = worldgen.Start(ctx, worldgen.Options{
		Width:      g.cfg.Terrain.Width,
		Height:     g.cfg.Terrain.Height,
		SolidShare: g.cfg.Terrain.SolidPercent,
		Holes:      g.cfg.Terrain.Holes,
	}, int64(g.rng.Next())+1)

	g.cave = nil
	g.loadErr = nil
	g.fuel = g.cfg.Ship.Fuel
	g.hull = g.cfg.Ship.Hull
	g.ticks = 0
	g.score = 0
	g.escaped = false
	g.gameOver = false
	g.paused = false
}

// Close stops any cave still being carved.
func (g *Game) Close() error {
	if g.cancel != nil {
		g.cancel()
		g.cancel = nil
	}
	g.pending = nil
	return nil
}

// Loading reports whether the cave is still being generated.
func (g *Game) Loading() bool {
	return g.cave == nil && g.loadErr == nil
}

// poll collects the generated cave without blocking.
func (g *Game) poll() {
	select {
	case res, ok := <-g.pending:
		if !ok {
			return
		}
		g.pending = nil
		if res.Err != nil {
			g.loadErr = res.Err
			g.gameOver = true
			return
		}
		g.start(res.World)
	default:
	}
}

// start places the ship at the center of cave and builds the simulation.
func (g *Game) start(cave *worldgen.World) {
	g.cave = cave

	g.world = &ecs.World{}
	g.physics = physics.NewSystem()
	g.physics.Gravity = g.cfg.Ship.Gravity
	g.world.AddSystem(g.physics)

	g.detector = collision.NewDetector(g.treeSize(), g.cfg.World.QuadTreeDepth, collision.ModeExhaustive)

	g.ship = ecs.NewBasic()
	g.shipBody = &physics.Body{Position: g.cellCenter(cave.Width/2, cave.Height/2), Gravity: true}
	g.shipBody.StartFrame = g.shipBody.Position
	g.physics.Add(&g.ship, g.shipBody)
	g.angle = 0
}

// treeSize is the configured world size, grown to cover every cell of the
// cave plus a cell of margin on each side.
func (g *Game) treeSize() collision.Vec2 {
	size := g.cfg.Terrain.CellSize
	return collision.V(
		max(g.cfg.World.Width, float64(g.cave.Width+2)*size),
		max(g.cfg.World.Height, float64(g.cave.Height+2)*size),
	)
}

// cellCenter returns the world position of a cave cell. The cave is centered
// on the origin.
func (g *Game) cellCenter(x, y int) collision.Vec2 {
	size := g.cfg.Terrain.CellSize
	return collision.V(
		float64(x)*size-float64(g.cave.Width)*size/2,
		float64(y)*size-float64(g.cave.Height)*size/2,
	)
}

// cellAt returns the cave cell whose center is nearest to p.
func (g *Game) cellAt(p collision.Vec2) (int, int) {
	size := g.cfg.Terrain.CellSize
	x := math.Round((p.X + float64(g.cave.Width)*size/2) / size)
	y := math.Round((p.Y + float64(g.cave.Height)*size/2) / size)
	return int(x), int(y)
}

func (g *Game) groundID(x, y int) uint64 {
	return groundIDBase + uint64(y*g.cave.Width+x)
}

// nearbyGround collects the exposed rock within the probe radius of the ship.
func (g *Game) nearbyGround() collision.Group {
	cx, cy := g.cellAt(g.shipBody.Position)
	r := g.cfg.Terrain.ProbeRadius
	box := collision.NewAABB(g.cfg.Terrain.CellSize, g.cfg.Terrain.CellSize)

	group := collision.Group{Category: CategoryGround}
	for y := cy - r; y <= cy+r; y++ {
		for x := cx - r; x <= cx+r; x++ {
			if !g.cave.Exposed(x, y) {
				continue
			}
			group.Bodies = append(group.Bodies, collision.Body{
				ID:       g.groundID(x, y),
				Position: g.cellCenter(x, y),
				Box:      box,
			})
		}
	}
	return group
}

// collide bounces the ship off any rock it touches and damages the hull on
// hard landings.
func (g *Game) collide() {
	ground := g.nearbyGround()
	if len(ground.Bodies) == 0 {
		return
	}
	positions := make(map[uint64]collision.Vec2, len(ground.Bodies))
	for _, b := range ground.Bodies {
		positions[b.ID] = b.Position
	}

	player := collision.Group{
		Category: CategoryPlayer,
		Bodies: []collision.Body{{
			ID:       g.ship.ID(),
			Position: g.shipBody.Position,
			Box:      collision.NewAABB(g.cfg.Ship.Size, g.cfg.Ship.Size),
		}},
	}
	events := collision.Dedupe(g.detector.Check(player, ground))
	if len(events) == 0 {
		return
	}

	var bounce collision.Vec2
	for _, e := range events {
		bounce = bounce.Add(g.shipBody.StartFrame.Sub(positions[e.B]))
	}
	g.physics.Push(physics.Impulse{
		Target:   g.ship.ID(),
		Amount:   bounce.Normalize(),
		Absolute: true,
		Source:   sourceBounce,
	})

	if speed := g.shipBody.Velocity.Len(); speed > g.cfg.Ship.CrashSpeed {
		g.hull -= int(math.Ceil((speed - g.cfg.Ship.CrashSpeed) * hullDamage))
		g.hull = max(g.hull, 0)
	}
}

func (g *Game) Step(in core.InputFrame) core.StepResult {
	if g.gameOver {
		return core.StepResult{State: g.State()}
	}
	if g.Loading() {
		g.poll()
		return core.StepResult{State: g.State()}
	}
	if in.Has(core.ActionPause) {
		g.paused = !g.paused
	}
	if g.paused {
		return core.StepResult{State: g.State()}
	}

	g.ticks++
	turn := g.cfg.Ship.RotateDegrees * math.Pi / 180
	if in.Has(core.ActionLeft) {
		g.angle += turn
	}
	if in.Has(core.ActionRight) {
		g.angle -= turn
	}
	if in.Has(core.ActionUp) && g.fuel > 0 {
		g.fuel--
		g.physics.Push(physics.Impulse{
			Target: g.ship.ID(),
			Amount: collision.V(0, g.cfg.Ship.Thrust).Rotate(g.angle),
			Source: sourceThrust,
		})
	}

	g.collide()
	g.world.Update(g.runtime.FrameSeconds())
	g.shipBody.Velocity = physics.CapSpeed(g.shipBody.Velocity, g.cfg.Ship.MaxSpeed)

	switch _, cy := g.cellAt(g.shipBody.Position); {
	case cy >= g.cave.Height-2:
		g.escaped = true
		g.gameOver = true
		g.score = g.fuel + g.hull*10
	case g.hull <= 0:
		g.gameOver = true
		g.score = g.ticks / 10
	}
	return core.StepResult{State: g.State()}
}

func (g *Game) shipGlyph() rune {
	octant := int(math.Round(g.angle/(math.Pi/4))) % len(shipGlyphs)
	if octant < 0 {
		octant += len(shipGlyphs)
	}
	return shipGlyphs[octant]
}

// Render draws the cave around the ship. Each cave cell is two columns wide
// so the terminal's tall cells keep the cave's proportions.
func (g *Game) Render(dst *core.Screen) {
	if g.cave == nil {
		if g.loadErr != nil {
			dst.DrawMessage("CAVE COLLAPSED", g.loadErr.Error())
		} else {
			dst.DrawMessage("MARS BASE ONE", "Carving the cave...")
		}
		return
	}

	size := g.cfg.Terrain.CellSize
	view := core.Viewport{
		Center: [2]float64{g.shipBody.Position.X, g.shipBody.Position.Y},
		ScaleX: size / 2,
		ScaleY: size,
		Cols:   dst.Width(),
		Rows:   dst.Height() - draw.HUDRows,
	}
	for row := 0; row < view.Rows; row++ {
		for col := 0; col < view.Cols; col++ {
			x, y := view.ToWorld(col, row)
			cx, cy := g.cellAt(collision.V(x, y))
			switch {
			case g.cave.Exposed(cx, cy):
				dst.SetColor(col, row+draw.HUDRows, surfaceGlyph, core.ColorOrange)
			case g.cave.Solid(cx, cy):
				dst.SetColor(col, row+draw.HUDRows, rockGlyph, core.ColorRust)
			}
		}
	}
	draw.Plot(dst, view, g.shipBody.Position, g.shipGlyph(), core.ColorBrightYellow)

	hullColor := core.ColorGreen
	if g.hull < g.cfg.Ship.Hull/3 {
		hullColor = core.ColorRed
	}
	_, depth := g.cellAt(g.shipBody.Position)
	dst.DrawTextColor(1, 0, fmt.Sprintf("Fuel: %d  Hull: %d  Depth: %d  Speed: %.1f",
		g.fuel, g.hull, g.cave.Height-2-depth, g.shipBody.Velocity.Len()), hullColor)

	switch {
	case g.escaped:
		dst.DrawMessage("ESCAPED", fmt.Sprintf("Score: %d  |  R to restart", g.score))
	case g.gameOver:
		dst.DrawMessage("HULL BREACHED", fmt.Sprintf("Score: %d  |  R to restart", g.score))
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

var _ registry.Closer = (*Game)(nil)

func init() {
	registry.Register("marsbase", func() registry.Game {
		return New()
	})
}
