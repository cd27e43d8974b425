// arcade plays small quadtree-driven games in the terminal.
//
// Usage:
//
//	arcade list                 - List available games
//	arcade play <game>          - Play a game
//	arcade menu                 - Pick games interactively
//	arcade scores <game>        - Show local high scores for a game
//	arcade serve                - Serve the arcade over SSH
//	arcade highscore-server     - Run the HTTP high-score server
//
// Global flags:
//
//	--fps <rate>      - Set tick rate (default: 60)
//	--seed <value>    - Set RNG seed for reproducible gameplay
//	--db <path>       - Set database path (default: ~/.arcade/scores.db)
//	--player <name>   - Name saved with scores
//	--submit <url>    - Also send named scores to a high-score server
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	_ "github.com/vovakirdan/quadarcade/internal/games/bouncy"
	_ "github.com/vovakirdan/quadarcade/internal/games/flappy"
	_ "github.com/vovakirdan/quadarcade/internal/games/marsbase"
	_ "github.com/vovakirdan/quadarcade/internal/games/pig"
)

var (
	flagFPS       int
	flagSeed      int64
	flagDBPath    string
	flagPlayer    string
	flagSubmitURL string
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "arcade",
	Short: "Quad Arcade - small physics games in your terminal",
	Long: `Quad Arcade is a set of small terminal games built on a shared
quadtree collision core.

Examples:
  arcade list
  arcade play bouncy
  arcade play marsbase --config ./mars.yaml
  arcade menu --player ada --submit http://127.0.0.1:3030
  arcade serve --ssh :2222
  arcade highscore-server --addr 127.0.0.1:3030`,
	SilenceUsage: true,
}

func init() {
	rootCmd.PersistentFlags().IntVar(&flagFPS, "fps", 60, "Tick rate (frames per second)")
	rootCmd.PersistentFlags().Int64Var(&flagSeed, "seed", 0, "RNG seed (0 = random based on time)")
	rootCmd.PersistentFlags().StringVar(&flagDBPath, "db", "~/.arcade/scores.db", "Path to scores database")
	rootCmd.PersistentFlags().StringVar(&flagPlayer, "player", "", "Name saved with your scores")
	rootCmd.PersistentFlags().StringVar(&flagSubmitURL, "submit", "", "High-score server URL to submit named scores to")

	rootCmd.AddCommand(listCmd)
	rootCmd.AddCommand(playCmd)
	rootCmd.AddCommand(menuCmd)
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(scoresCmd)
	rootCmd.AddCommand(highscoreCmd)
}
