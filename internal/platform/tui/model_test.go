package tui

import (
	"context"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/google/uuid"

	"github.com/vovakirdan/quadarcade/internal/core"
	"github.com/vovakirdan/quadarcade/internal/highscore"
	"github.com/vovakirdan/quadarcade/internal/registry"
	"github.com/vovakirdan/quadarcade/internal/storage"
)

// stubGame ends the round after overAt steps with a fixed score.
type stubGame struct {
	overAt int
	score  int
	steps  int
	resets int
	closed int
	state  core.GameState
}

func (g *stubGame) ID() string    { return "stub" }
func (g *stubGame) Title() string { return "Stub" }

func (g *stubGame) Reset(core.RuntimeConfig) {
	g.resets++
	g.steps = 0
	g.state = core.GameState{}
}

func (g *stubGame) Step(in core.InputFrame) core.StepResult {
	if in.Has(core.ActionPause) {
		g.state.Paused = !g.state.Paused
	}
	if !g.state.Paused && !g.state.GameOver {
		g.steps++
		if g.steps >= g.overAt {
			g.state.GameOver = true
			g.state.Score = g.score
		}
	}
	return core.StepResult{State: g.state}
}

func (g *stubGame) Render(dst *core.Screen) {
	dst.DrawText(0, 0, "stub running")
}

func (g *stubGame) State() core.GameState { return g.state }

func (g *stubGame) Close() error {
	g.closed++
	return nil
}

func init() {
	registry.Register("stub", func() registry.Game { return &stubGame{overAt: 1, score: 5} })
}

type recordingSubmitter struct {
	mu      sync.Mutex
	entries []highscore.Entry
}

func (s *recordingSubmitter) Submit(_ context.Context, e highscore.Entry) (uuid.UUID, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries = append(s.entries, e)
	return uuid.New(), nil
}

func openStore(t *testing.T) *storage.Store {
	t.Helper()
	store, err := storage.Open(filepath.Join(t.TempDir(), "scores.db"))
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	t.Cleanup(func() { store.Close() })
	return store
}

func testConfig() core.RuntimeConfig {
	return core.RuntimeConfig{ScreenW: 40, ScreenH: 10, TickRate: 60, Seed: 1}
}

func tick(t *testing.T, m GameModel) GameModel {
	t.Helper()
	next, _ := m.Update(TickMsg{})
	gm, ok := next.(GameModel)
	if !ok {
		t.Fatalf("Update returned %T", next)
	}
	return gm
}

func TestGameModelRecordsScoreOnce(t *testing.T) {
	store := openStore(t)
	game := &stubGame{overAt: 2, score: 42}
	m := NewGameModel(game, testConfig(), GameOptions{Store: store, Player: "ada"})
	m.Init()

	for range 5 {
		m = tick(t, m)
	}

	scores, err := store.TopScores(context.Background(), "stub", 10)
	if err != nil {
		t.Fatalf("TopScores: %v", err)
	}
	if len(scores) != 1 {
		t.Fatalf("got %d scores, want 1", len(scores))
	}
	if scores[0].Score != 42 || scores[0].Player != "ada" {
		t.Errorf("score = %+v, want 42 by ada", scores[0])
	}
	if m.status != "New best!" {
		t.Errorf("status = %q, want new best", m.status)
	}
}

func TestGameModelSkipsZeroScore(t *testing.T) {
	store := openStore(t)
	m := NewGameModel(&stubGame{overAt: 1}, testConfig(), GameOptions{Store: store})
	m.Init()
	m = tick(t, m)

	if !m.gameState.GameOver {
		t.Fatal("round should be over")
	}
	scores, err := store.AllScores(context.Background(), "stub")
	if err != nil {
		t.Fatalf("AllScores: %v", err)
	}
	if len(scores) != 0 {
		t.Errorf("got %d scores, want none", len(scores))
	}
}

func TestGameModelSubmitsNamedScore(t *testing.T) {
	sub := &recordingSubmitter{}
	m := NewGameModel(&stubGame{overAt: 1, score: 9}, testConfig(), GameOptions{Submitter: sub, Player: "ada"})
	m.Init()
	m.gameState = core.GameState{GameOver: true, Score: 9}

	cmd := m.recordScore()
	if cmd == nil {
		t.Fatal("expected a submit command")
	}
	msg, ok := cmd().(submitDoneMsg)
	if !ok || msg.err != nil {
		t.Fatalf("submit result = %+v", msg)
	}
	if len(sub.entries) != 1 {
		t.Fatalf("got %d submissions, want 1", len(sub.entries))
	}
	if e := sub.entries[0]; e.Name != "ada" || e.Score != 9 || e.Game != "stub" {
		t.Errorf("entry = %+v", e)
	}

	next, _ := m.Update(msg)
	if gm := next.(GameModel); !strings.HasPrefix(gm.status, "Score submitted") {
		t.Errorf("status = %q", gm.status)
	}
}

func TestGameModelAnonymousScoreStaysLocal(t *testing.T) {
	sub := &recordingSubmitter{}
	m := NewGameModel(&stubGame{}, testConfig(), GameOptions{Submitter: sub})
	m.gameState = core.GameState{GameOver: true, Score: 3}

	if cmd := m.recordScore(); cmd != nil {
		t.Error("anonymous scores should not be submitted")
	}
}

func TestGameModelRestart(t *testing.T) {
	game := &stubGame{overAt: 1, score: 1}
	m := NewGameModel(game, testConfig(), GameOptions{})
	m.Init()
	m = tick(t, m)
	if !m.gameState.GameOver {
		t.Fatal("round should be over")
	}

	next, _ := m.Update(runeKey('r'))
	m = tick(t, next.(GameModel))
	if game.resets != 2 {
		t.Errorf("resets = %d, want 2", game.resets)
	}
	if m.gameState.GameOver || m.scoreSaved {
		t.Error("restart should begin a fresh round")
	}
}

func TestGameModelBack(t *testing.T) {
	tests := []struct {
		name      string
		allowBack bool
		wantBack  bool
		wantQuit  bool
	}{
		{"to menu", true, true, false},
		{"standalone quits", false, false, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			game := &stubGame{overAt: 1}
			m := NewGameModel(game, testConfig(), GameOptions{AllowBack: tt.allowBack})
			m.Init()
			m = tick(t, m)

			next, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEsc})
			gm := next.(GameModel)
			if gm.BackToMenu() != tt.wantBack || gm.IsQuitting() != tt.wantQuit {
				t.Errorf("back=%v quit=%v", gm.BackToMenu(), gm.IsQuitting())
			}
			if cmd == nil {
				t.Error("expected the program to stop")
			}
			if game.closed != 1 {
				t.Errorf("game closed %d times, expected once", game.closed)
			}
		})
	}
}

func TestGameModelBackIgnoredWhilePlaying(t *testing.T) {
	game := &stubGame{overAt: 100}
	m := NewGameModel(game, testConfig(), GameOptions{AllowBack: true})
	m.Init()
	m = tick(t, m)

	next, _ := m.Update(tea.KeyMsg{Type: tea.KeyEsc})
	if next.(GameModel).BackToMenu() {
		t.Error("back should only work when paused or over")
	}
	if game.closed != 0 {
		t.Error("a running game should not be closed")
	}
}

func TestGameModelQuit(t *testing.T) {
	game := &stubGame{overAt: 100}
	m := NewGameModel(game, testConfig(), GameOptions{})
	next, cmd := m.Update(runeKey('q'))
	if !next.(GameModel).IsQuitting() || cmd == nil {
		t.Error("q should quit")
	}
	if game.closed != 1 {
		t.Errorf("game closed %d times, expected once", game.closed)
	}
	if next.View() != "" {
		t.Error("view should be empty after quitting")
	}
}

func TestGameModelViewShowsStatus(t *testing.T) {
	m := NewGameModel(&stubGame{overAt: 100}, testConfig(), GameOptions{})
	m.Init()
	m.status = "hello"

	view := m.View()
	if !strings.Contains(view, "stub running") || !strings.Contains(view, "hello") {
		t.Errorf("view missing content:\n%s", view)
	}
}

func TestRenderScreen(t *testing.T) {
	s := core.NewScreen(6, 2)
	s.DrawText(0, 0, "ab")
	s.DrawTextColor(2, 0, "cd", core.ColorRed)

	out := RenderScreen(s)
	lines := strings.Split(out, "\n")
	if len(lines) != 2 {
		t.Fatalf("got %d lines, want 2", len(lines))
	}
	if !strings.Contains(lines[0], "ab") || !strings.Contains(lines[0], "cd") {
		t.Errorf("first line = %q", lines[0])
	}
}

func TestSessionMenuToGameAndBack(t *testing.T) {
	cfg := testConfig()
	s := NewSessionModel(cfg, GameOptions{AllowBack: true, Player: "ada"})

	next, _ := s.Update(tea.KeyMsg{Type: tea.KeyEnter})
	s = next.(SessionModel)
	if s.view != viewGame || s.game == nil {
		t.Fatalf("view = %v, want game", s.view)
	}

	// The registered stub ends after one step.
	next, _ = s.Update(TickMsg{})
	s = next.(SessionModel)
	next, cmd := s.Update(tea.KeyMsg{Type: tea.KeyEsc})
	s = next.(SessionModel)
	if s.view != viewMenu || s.game != nil {
		t.Fatalf("view = %v, want menu", s.view)
	}
	if cmd != nil {
		t.Error("going back should not end the session")
	}

	next, _ = s.Update(TickMsg{})
	if next.(SessionModel).view != viewMenu {
		t.Error("stale tick should be ignored by the menu")
	}
}

func TestSessionScoreboard(t *testing.T) {
	s := NewSessionModel(testConfig(), GameOptions{Store: openStore(t)})

	next, _ := s.Update(tea.KeyMsg{Type: tea.KeyTab})
	s = next.(SessionModel)
	if s.view != viewScores {
		t.Fatalf("view = %v, want scores", s.view)
	}
	if !strings.Contains(s.View(), "HIGH SCORES") {
		t.Error("scoreboard not shown")
	}

	next, _ = s.Update(tea.KeyMsg{Type: tea.KeyEsc})
	if next.(SessionModel).view != viewMenu {
		t.Error("esc should return to the menu")
	}
}

func TestSessionQuit(t *testing.T) {
	s := NewSessionModel(testConfig(), GameOptions{})
	next, cmd := s.Update(runeKey('q'))
	if !next.(SessionModel).done || cmd == nil {
		t.Error("q in the menu should end the session")
	}
}
