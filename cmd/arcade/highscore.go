package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/vovakirdan/quadarcade/internal/highscore"
	"github.com/vovakirdan/quadarcade/internal/storage"
)

var flagHTTPAddr string

var highscoreCmd = &cobra.Command{
	Use:   "highscore-server",
	Short: "Run the HTTP high-score server",
	Long: `Run an HTTP server that collects high scores from arcade clients.

Endpoints:
  POST /submit-score    {"name": "ada", "score": 42, "game": "flappy"}
  GET  /scores/{game}   best scores, ?limit=N
  GET  /healthz
  GET  /metrics         Prometheus metrics

Examples:
  arcade highscore-server
  arcade highscore-server --addr :3030 --db ./highscores.db`,
	RunE: runHighscoreServer,
}

func init() {
	highscoreCmd.Flags().StringVar(&flagHTTPAddr, "addr", highscore.DefaultAddress, "HTTP listen address")
}

func runHighscoreServer(_ *cobra.Command, _ []string) error {
	logger := log.NewWithOptions(os.Stderr, log.Options{
		ReportTimestamp: true,
		Prefix:          "highscore",
	})

	store, err := storage.Open(flagDBPath)
	if err != nil {
		return err
	}
	defer store.Close()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	logger.Info("opened scores database", "path", flagDBPath)
	if err := highscore.NewServer(store, logger).ListenAndServe(ctx, flagHTTPAddr); err != nil {
		logger.Error("server stopped", "error", err)
		return err
	}
	logger.Info("stopped")
	return nil
}
