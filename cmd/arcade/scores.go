package main

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/quadarcade/internal/highscore"
	"github.com/vovakirdan/quadarcade/internal/registry"
	"github.com/vovakirdan/quadarcade/internal/storage"
)

var (
	flagScoresLimit int
	flagScoresClear  bool
	flagScoresRemote bool
)

var scoresCmd = &cobra.Command{
	Use:   "scores [game]",
	Short: "Show high scores",
	Long: `Display the best local scores for the specified game. Without a
game, shows a summary of every game played so far.

Examples:
  arcade scores
  arcade scores flappy
  arcade scores pig --limit 25
  arcade scores bouncy --clear`,
	Args: cobra.MaximumNArgs(1),
	RunE: runScores,
}

func init() {
	scoresCmd.Flags().IntVar(&flagScoresLimit, "limit", storage.DefaultLimit, "Number of scores to show")
	scoresCmd.Flags().BoolVar(&flagScoresClear, "clear", false, "Delete every score for the game")
	scoresCmd.Flags().BoolVar(&flagScoresRemote, "remote", false, "List scores from the --submit server instead")
}

func runScores(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	if len(args) == 0 {
		if flagScoresClear {
			return errors.New("--clear needs a game")
		}
		return runScoresSummary(ctx)
	}

	gameID := args[0]
	if !registry.Exists(gameID) {
		return fmt.Errorf("unknown game %q, run 'arcade list' to see available games", gameID)
	}
	game, err := registry.Create(gameID)
	if err != nil {
		return err
	}

	if flagScoresRemote {
		return runRemoteScores(ctx, gameID, game.Title())
	}

	store, err := storage.Open(flagDBPath)
	if err != nil {
		return fmt.Errorf("opening scores database: %w", err)
	}
	defer store.Close()

	if flagScoresClear {
		if err := store.ClearScores(ctx, gameID); err != nil {
			return fmt.Errorf("clearing scores: %w", err)
		}
		fmt.Printf("Cleared scores for %s.\n", game.Title())
		return nil
	}

	var scores []storage.ScoreEntry
	if flagScoresLimit <= 0 {
		scores, err = store.AllScores(ctx, gameID)
	} else {
		scores, err = store.TopScores(ctx, gameID, flagScoresLimit)
	}
	if err != nil {
		return fmt.Errorf("retrieving scores: %w", err)
	}

	fmt.Printf("High Scores - %s\n\n", game.Title())
	if len(scores) == 0 {
		fmt.Println("No scores recorded yet.")
		fmt.Println()
		fmt.Printf("Play 'arcade play %s' to set the first high score!\n", gameID)
		return nil
	}

	fmt.Printf("  %-4s  %-16s  %-10s  %s\n", "Rank", "Player", "Score", "Date")
	fmt.Printf("  %-4s  %-16s  %-10s  %s\n", "----", "------", "-----", "----")
	for i, e := range scores {
		player := e.Player
		if player == "" {
			player = "-"
		}
		fmt.Printf("  %-4d  %-16s  %-10d  %s\n", i+1, player, e.Score, e.CreatedAt.Format("2006-01-02 15:04"))
	}

	if stats, err := store.GetGameStats(ctx, gameID); err == nil {
		fmt.Println()
		fmt.Printf("Best: %d  Rounds: %d  Average: %.1f\n", stats.HighScore, stats.GamesCount, stats.AvgScore)
	}
	return nil
}

func runRemoteScores(ctx context.Context, gameID, title string) error {
	if flagSubmitURL == "" {
		return errors.New("--remote needs --submit <url>")
	}
	client := highscore.NewClient(flagSubmitURL, highscore.DefaultClientOptions())
	scores, err := client.Top(ctx, gameID, flagScoresLimit)
	if err != nil {
		return fmt.Errorf("fetching remote scores: %w", err)
	}

	fmt.Printf("Online High Scores - %s\n\n", title)
	if len(scores) == 0 {
		fmt.Println("No scores submitted yet.")
		return nil
	}
	fmt.Printf("  %-4s  %-16s  %-10s  %s\n", "Rank", "Player", "Score", "Date")
	fmt.Printf("  %-4s  %-16s  %-10s  %s\n", "----", "------", "-----", "----")
	for i, s := range scores {
		fmt.Printf("  %-4d  %-16s  %-10d  %s\n", i+1, s.Name, s.Score, s.CreatedAt.Local().Format("2006-01-02 15:04"))
	}
	return nil
}

func runScoresSummary(ctx context.Context) error {
	store, err := storage.Open(flagDBPath)
	if err != nil {
		return fmt.Errorf("opening scores database: %w", err)
	}
	defer store.Close()

	all, err := store.GetAllGamesStats(ctx)
	if err != nil {
		return fmt.Errorf("retrieving stats: %w", err)
	}
	if len(all) == 0 {
		fmt.Println("No scores recorded yet.")
		return nil
	}

	fmt.Printf("  %-12s  %-8s  %-8s  %-8s  %s\n", "Game", "Rounds", "Best", "Average", "Last played")
	fmt.Printf("  %-12s  %-8s  %-8s  %-8s  %s\n", "----", "------", "----", "-------", "-----------")
	for _, info := range registry.List() {
		st, ok := all[info.ID]
		if !ok {
			continue
		}
		fmt.Printf("  %-12s  %-8d  %-8d  %-8.1f  %s\n",
			info.ID, st.GamesCount, st.HighScore, st.AvgScore, st.LastPlayed.Format("2006-01-02 15:04"))
	}
	return nil
}
