// Package registry keeps the set of playable games. Each game package
// registers a factory from init, and the platform looks games up by ID.
package registry

import (
	"fmt"
	"slices"
	"strings"
	"sync"

	"github.com/vovakirdan/quadarcade/internal/core"
)

// Game is implemented by every game. Games hold no terminal state; the
// platform maps keys to actions, drives Step at a fixed rate and displays
// what Render draws.
type Game interface {
	// ID is the short name used on the command line and in score storage.
	ID() string
	Title() string

	// Reset starts a new round. It is called before the first Step and after
	// every restart.
	Reset(cfg core.RuntimeConfig)

	// Step advances one tick.
	Step(in core.InputFrame) core.StepResult

	// Render draws into a screen that has already been cleared.
	Render(dst *core.Screen)

	State() core.GameState
}

// Configurable is implemented by games that read a YAML config file.
type Configurable interface {
	SetConfigPath(path string)
	SetDifficulty(preset string) error
}

// Describer is implemented by games that can list their controls.
type Describer interface {
	Controls() string
}

// Closer is implemented by games that hold work outside Step, such as a
// background generator. The platform calls Close when the player leaves the
// game; Close may be called more than once.
type Closer interface {
	Close() error
}

// GameInfo describes a registered game.
type GameInfo struct {
	ID       string
	Title    string
	Controls string
}

// Factory creates a fresh game instance.
type Factory func() Game

var (
	mu        sync.RWMutex
	factories = make(map[string]Factory)
	infos     = make(map[string]GameInfo)
)

// Register adds a game. It panics if id is already taken.
func Register(id string, f Factory) {
	mu.Lock()
	defer mu.Unlock()

	if _, exists := factories[id]; exists {
		panic(fmt.Sprintf("registry: game %q already registered", id))
	}

	g := f()
	info := GameInfo{ID: id, Title: g.Title()}
	if d, ok := g.(Describer); ok {
		info.Controls = d.Controls()
	}
	factories[id] = f
	infos[id] = info
}

// List returns all registered games sorted by ID.
func List() []GameInfo {
	mu.RLock()
	defer mu.RUnlock()

	result := make([]GameInfo, 0, len(infos))
	for _, info := range infos {
		result = append(result, info)
	}
	slices.SortFunc(result, func(a, b GameInfo) int {
		return strings.Compare(a.ID, b.ID)
	})
	return result
}

// Create returns a new instance of game id.
func Create(id string) (Game, error) {
	mu.RLock()
	f, ok := factories[id]
	mu.RUnlock()

	if !ok {
		return nil, fmt.Errorf("registry: unknown game %q", id)
	}
	return f(), nil
}

func Exists(id string) bool {
	mu.RLock()
	defer mu.RUnlock()
	_, ok := factories[id]
	return ok
}
