package tui

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/google/uuid"

	"github.com/vovakirdan/quadarcade/internal/core"
	"github.com/vovakirdan/quadarcade/internal/highscore"
	"github.com/vovakirdan/quadarcade/internal/registry"
	"github.com/vovakirdan/quadarcade/internal/storage"
)

// Submitter sends finished scores to a remote high-score server.
type Submitter interface {
	Submit(ctx context.Context, e highscore.Entry) (uuid.UUID, error)
}

// GameOptions configures where a GameModel records scores.
type GameOptions struct {
	Store     *storage.Store
	Submitter Submitter
	// Player names saved scores; empty saves them anonymously.
	Player string
	// AllowBack lets Esc return to a menu from a paused or finished game.
	AllowBack bool
}

type submitDoneMsg struct {
	id  uuid.UUID
	err error
}

// GameModel is the Bubble Tea model running one game.
type GameModel struct {
	game       registry.Game
	screen     *core.Screen
	opts       GameOptions
	config     core.RuntimeConfig
	keyMapper  *KeyMapper
	inputFrame core.InputFrame
	gameState  core.GameState
	status     string
	quitting   bool
	backToMenu bool
	scoreSaved bool
}

// NewGameModel creates a model for game. A zero seed is replaced with the
// current time.
func NewGameModel(game registry.Game, cfg core.RuntimeConfig, opts GameOptions) GameModel {
	if cfg.Seed == 0 {
		cfg.Seed = time.Now().UnixNano()
	}
	return GameModel{
		game:       game,
		screen:     core.NewScreen(cfg.ScreenW, cfg.ScreenH),
		opts:       opts,
		config:     cfg,
		keyMapper:  NewKeyMapper(),
		inputFrame: core.NewInputFrame(),
	}
}

func (m GameModel) Init() tea.Cmd {
	m.game.Reset(m.config)
	return tickCmd(m.config.TickRate)
}

func (m GameModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)
	case tea.WindowSizeMsg:
		// Games scale to the screen, so a resize keeps the round going.
		m.config.ScreenW = msg.Width
		m.config.ScreenH = msg.Height
		m.screen.Resize(msg.Width, msg.Height)
		return m, nil
	case TickMsg:
		return m.handleTick()
	case submitDoneMsg:
		if msg.err != nil {
			m.status = "Score not submitted: " + msg.err.Error()
		} else {
			m.status = "Score submitted (" + msg.id.String()[:8] + ")"
		}
		return m, nil
	}
	return m, nil
}

func (m GameModel) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.String() == "ctrl+s" {
		m.saveScreenshot()
		return m, nil
	}
	if m.keyMapper.MapKeyToFrame(msg, &m.inputFrame) {
		m.quitting = true
		m.closeGame()
		return m, tea.Quit
	}
	if m.inputFrame.Has(core.ActionBack) && (m.gameState.GameOver || m.gameState.Paused) {
		m.closeGame()
		if m.opts.AllowBack {
			m.backToMenu = true
			return m, tea.Quit
		}
		m.quitting = true
		return m, tea.Quit
	}
	return m, nil
}

// closeGame releases whatever the game holds outside Step.
func (m *GameModel) closeGame() {
	if c, ok := m.game.(registry.Closer); ok {
		//nolint:errcheck // the player is leaving either way
		c.Close()
	}
}

func (m GameModel) handleTick() (tea.Model, tea.Cmd) {
	if m.inputFrame.Has(core.ActionRestart) && m.gameState.GameOver {
		m.config.Seed = time.Now().UnixNano()
		m.game.Reset(m.config)
		m.gameState = m.game.State()
		m.scoreSaved = false
		m.status = ""
		m.inputFrame.Clear()
		return m, tickCmd(m.config.TickRate)
	}

	m.gameState = m.game.Step(m.inputFrame).State
	m.inputFrame.Clear()

	var submit tea.Cmd
	if m.gameState.GameOver && !m.scoreSaved {
		m.scoreSaved = true
		submit = m.recordScore()
	}
	return m, tea.Batch(tickCmd(m.config.TickRate), submit)
}

// recordScore saves a finished round locally and returns a command that
// submits it remotely, if a submitter is configured.
func (m *GameModel) recordScore() tea.Cmd {
	score := m.gameState.Score
	if score <= 0 {
		return nil
	}
	if m.opts.Store != nil {
		ctx := context.Background()
		best, err := m.opts.Store.HighScore(ctx, m.game.ID())
		var saveErr error
		if m.opts.Player == "" {
			_, saveErr = m.opts.Store.SaveScore(ctx, m.game.ID(), score)
		} else {
			_, saveErr = m.opts.Store.SaveNamedScore(ctx, m.game.ID(), m.opts.Player, score)
		}
		if saveErr == nil && err == nil && score > best {
			m.status = "New best!"
		}
	}
	if m.opts.Submitter == nil || m.opts.Player == "" {
		return nil
	}

	m.status = "Submitting score..."
	sub := m.opts.Submitter
	entry := highscore.Entry{Name: m.opts.Player, Score: uint32(score), Game: m.game.ID()}
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		id, err := sub.Submit(ctx, entry)
		return submitDoneMsg{id: id, err: err}
	}
}

// saveScreenshot writes the current frame to ~/.arcade/screenshots.
func (m *GameModel) saveScreenshot() {
	m.game.Render(m.screen)

	home, err := os.UserHomeDir()
	if err != nil {
		return
	}
	dir := filepath.Join(home, ".arcade", "screenshots")
	//nolint:errcheck // best effort
	os.MkdirAll(dir, 0o755)

	name := fmt.Sprintf("%s_%s.txt", m.game.ID(), time.Now().Format("20060102_150405"))
	//nolint:errcheck // best effort
	os.WriteFile(filepath.Join(dir, name), []byte(m.screen.String()), 0o600)
}

func (m GameModel) View() string {
	if m.quitting {
		return ""
	}
	m.screen.Clear()
	m.game.Render(m.screen)
	if m.status != "" {
		m.screen.DrawTextColor(1, m.screen.Height()-1, m.status, core.ColorGray)
	}
	return RenderScreen(m.screen)
}

// IsQuitting reports whether the user asked to leave entirely.
func (m GameModel) IsQuitting() bool {
	return m.quitting
}

// BackToMenu reports whether the user asked to return to the menu.
func (m GameModel) BackToMenu() bool {
	return m.backToMenu
}

// Run plays game in the current terminal until the user quits.
func Run(game registry.Game, cfg core.RuntimeConfig, opts GameOptions) error {
	_, err := RunGame(game, cfg, opts)
	return err
}

// RunGame is Run for callers with a menu. It reports whether the user asked
// to go back to it.
func RunGame(game registry.Game, cfg core.RuntimeConfig, opts GameOptions) (back bool, err error) {
	m := NewGameModel(game, cfg, opts)
	defer m.closeGame()

	p := tea.NewProgram(m, tea.WithAltScreen())
	final, err := p.Run()
	if err != nil {
		return false, err
	}
	fm, ok := final.(GameModel)
	return ok && fm.BackToMenu(), nil
}
