// Package pig implements the dice game Pig against a computer opponent.
//
// On a turn the player rolls a die as often as they like, adding each roll to
// the hand. Rolling a 1 loses the hand and passes the turn; passing banks the
// hand. The first to reach Goal wins.
package pig

import (
	"fmt"
	"strings"

	"github.com/EngoEngine/ecs"

	"github.com/vovakirdan/quadarcade/internal/core"
	"github.com/vovakirdan/quadarcade/internal/random"
	"github.com/vovakirdan/quadarcade/internal/registry"
)

const (
	// Goal is the banked total that ends the game.
	Goal = 100
	// CPUHandLimit is the hand at which the computer banks.
	CPUHandLimit = 20
	// CPUDelay is the pause between computer rolls, in seconds.
	CPUDelay = 0.5
)

// Phase is whose turn it is.
type Phase int

const (
	PhasePlayer Phase = iota
	PhaseCPU
	PhaseOver
)

// Game implements registry.Game.
type Game struct {
	runtime core.RuntimeConfig
	rng     *random.Generator
	world   *ecs.World
	cpu     *cpuSystem

	phase  Phase
	hand   []int
	player int
	comp   int
	// lastRoll is shown until the next roll; 1 means the last hand was lost.
	lastRoll int
}

func New() *Game {
	return &Game{}
}

func (g *Game) ID() string    { return "pig" }
func (g *Game) Title() string { return "Pig" }

func (g *Game) Controls() string {
	return "Space roll, Enter pass, R restart"
}

func (g *Game) Reset(cfg core.RuntimeConfig) {
	g.runtime = cfg
	if cfg.Seed != 0 {
		g.rng = random.Seeded(cfg.Seed)
	} else {
		g.rng = random.New()
	}

	g.world = &ecs.World{}
	g.cpu = &cpuSystem{game: g}
	g.world.AddSystem(g.cpu)

	g.phase = PhasePlayer
	g.hand = g.hand[:0]
	g.player = 0
	g.comp = 0
	g.lastRoll = 0
}

func (g *Game) handTotal() int {
	total := 0
	for _, d := range g.hand {
		total += d
	}
	return total
}

// roll throws the die for whoever's turn it is. It reports false when the
// roll was a 1 and the turn passed.
func (g *Game) roll() bool {
	g.lastRoll = g.rng.RangeInclusive(1, 6)
	if g.lastRoll == 1 {
		g.endTurn()
		return false
	}
	g.hand = append(g.hand, g.lastRoll)
	return true
}

// bank adds the hand to the current side's total and passes the turn.
func (g *Game) bank() {
	if g.phase == PhasePlayer {
		g.player += g.handTotal()
	} else {
		g.comp += g.handTotal()
	}
	g.endTurn()
}

func (g *Game) endTurn() {
	g.hand = g.hand[:0]
	switch {
	case g.player >= Goal || g.comp >= Goal:
		g.phase = PhaseOver
	case g.phase == PhasePlayer:
		g.phase = PhaseCPU
		g.cpu.elapsed = 0
	default:
		g.phase = PhasePlayer
	}
}

// Winner returns "Player" or "CPU" once the game is over. Ties go to the
// player.
func (g *Game) Winner() string {
	if g.phase != PhaseOver {
		return ""
	}
	if g.player < g.comp {
		return "CPU"
	}
	return "Player"
}

func (g *Game) Step(in core.InputFrame) core.StepResult {
	switch g.phase {
	case PhasePlayer:
		switch {
		case in.Has(core.ActionJump):
			g.roll()
		case in.Has(core.ActionSecondary):
			g.bank()
		}
	case PhaseCPU:
		g.world.Update(g.runtime.FrameSeconds())
	}
	return core.StepResult{State: g.State()}
}

func dice(hand []int) string {
	if len(hand) == 0 {
		return "-"
	}
	parts := make([]string, len(hand))
	for i, d := range hand {
		parts[i] = fmt.Sprintf("[%d]", d)
	}
	return strings.Join(parts, " ")
}

func (g *Game) Render(dst *core.Screen) {
	dst.DrawTextColor(1, 0, fmt.Sprintf("Player: %d  CPU: %d  Goal: %d", g.player, g.comp, Goal), core.ColorWhite)

	turn, color := "Your turn", core.ColorBrightGreen
	if g.phase == PhaseCPU {
		turn, color = "CPU is rolling...", core.ColorCyan
	}
	mid := dst.Height() / 2
	dst.DrawTextColor(2, mid-2, turn, color)
	dst.DrawTextColor(2, mid, "Hand: "+dice(g.hand), color)
	dst.DrawTextColor(2, mid+1, fmt.Sprintf("Hand total: %d", g.handTotal()), core.ColorWhite)
	if g.lastRoll == 1 {
		dst.DrawTextColor(2, mid+3, "Rolled a 1, hand lost!", core.ColorRed)
	}

	if g.phase == PhaseOver {
		dst.DrawMessage(g.Winner()+" wins!", fmt.Sprintf("Player %d  CPU %d  |  R to restart", g.player, g.comp))
	}
}

// State reports the player's banked total as the score.
func (g *Game) State() core.GameState {
	return core.GameState{Score: g.player, GameOver: g.phase == PhaseOver}
}

// cpuSystem plays the computer's turn, one decision every CPUDelay seconds.
type cpuSystem struct {
	game    *Game
	elapsed float32
}

func (s *cpuSystem) Update(dt float32) {
	s.elapsed += dt
	if s.elapsed < CPUDelay {
		return
	}
	s.elapsed = 0

	g := s.game
	if hand := g.handTotal(); hand < CPUHandLimit && g.comp+hand < Goal {
		g.roll()
		return
	}
	g.bank()
}

// Remove is a no-op; the system tracks no entities.
func (s *cpuSystem) Remove(ecs.BasicEntity) {}

func init() {
	registry.Register("pig", func() registry.Game {
		return New()
	})
}
