package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/vovakirdan/quadarcade/internal/core"
	"github.com/vovakirdan/quadarcade/internal/highscore"
	"github.com/vovakirdan/quadarcade/internal/platform/tui"
	"github.com/vovakirdan/quadarcade/internal/registry"
	"github.com/vovakirdan/quadarcade/internal/storage"
)

var (
	flagConfig     string
	flagDifficulty string
)

var playCmd = &cobra.Command{
	Use:   "play <game>",
	Short: "Play a game",
	Long: `Start playing the specified game.

Controls:
  Arrows/WASD - Move, steer or thrust
  Space       - Jump, flap or roll
  Enter       - Secondary action
  M           - Switch collision mode (bouncy)
  P           - Pause
  R           - Restart (after game over)
  Esc         - Leave a paused or finished game
  Ctrl+S      - Save a screenshot
  Q/Ctrl+C    - Quit

Difficulty options (flappy):
  easy, normal, hard, fixed

Examples:
  arcade play bouncy
  arcade play flappy --difficulty hard
  arcade play marsbase --config ./mars.yaml
  arcade play pig --player ada`,
	Args: cobra.ExactArgs(1),
	RunE: runPlay,
}

func init() {
	playCmd.Flags().StringVar(&flagConfig, "config", "", "Path to custom game config YAML")
	playCmd.Flags().StringVar(&flagDifficulty, "difficulty", "", "Difficulty preset: easy, normal, hard, fixed")
}

func runPlay(_ *cobra.Command, args []string) error {
	gameID := args[0]
	if !registry.Exists(gameID) {
		return fmt.Errorf("unknown game %q, run 'arcade list' to see available games", gameID)
	}

	game, err := newGame(gameID)
	if err != nil {
		return err
	}

	store, err := storage.Open(flagDBPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: could not open scores database: %v\n", err)
		store = nil
	}
	if store != nil {
		defer store.Close()
	}

	return tui.Run(game, runtimeConfig(), gameOptions(store))
}

// newGame creates gameID and applies --config and --difficulty to games
// that read a config file.
func newGame(gameID string) (registry.Game, error) {
	game, err := registry.Create(gameID)
	if err != nil {
		return nil, err
	}
	c, ok := game.(registry.Configurable)
	if !ok {
		if flagConfig != "" || flagDifficulty != "" {
			fmt.Fprintf(os.Stderr, "Warning: %s takes no config, ignoring --config and --difficulty\n", gameID)
		}
		return game, nil
	}
	c.SetConfigPath(flagConfig)
	if err := c.SetDifficulty(flagDifficulty); err != nil {
		return nil, err
	}
	return game, nil
}

func runtimeConfig() core.RuntimeConfig {
	width, height := 80, 24
	if w, h, err := term.GetSize(int(os.Stdout.Fd())); err == nil {
		width, height = w, h
	}
	return core.RuntimeConfig{
		ScreenW:  width,
		ScreenH:  height,
		TickRate: flagFPS,
		Seed:     flagSeed,
	}
}

func gameOptions(store *storage.Store) tui.GameOptions {
	opts := tui.GameOptions{
		Store:  store,
		Player: flagPlayer,
	}
	if flagSubmitURL != "" {
		if flagPlayer == "" {
			fmt.Fprintln(os.Stderr, "Warning: --submit needs --player, scores stay local")
		} else {
			opts.Submitter = highscore.NewClient(flagSubmitURL, highscore.DefaultClientOptions())
		}
	}
	return opts
}
