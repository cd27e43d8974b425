// Package highscore is the network side of the score board: an HTTP server
// that accepts submitted scores into a storage.Store, and a client that games
// use to submit them.
package highscore

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/segmentio/encoding/json"

	"github.com/vovakirdan/quadarcade/internal/storage"
)

const (
	// DefaultAddress is where the server listens unless told otherwise.
	DefaultAddress = "127.0.0.1:3030"
	// DefaultGame is assumed for submissions that name no game.
	DefaultGame = "flappy"

	maxNameLen  = 32
	maxBodySize = 1 << 16
	maxLimit    = 100
)

// Entry is a submitted score.
type Entry struct {
	Name  string `json:"name"`
	Score uint32 `json:"score"`
	Game  string `json:"game,omitempty"`
}

// Score is a stored score as listed by GET /scores/{game}.
type Score struct {
	ID        uuid.UUID `json:"id"`
	Name      string    `json:"name"`
	Score     int       `json:"score"`
	Game      string    `json:"game"`
	CreatedAt time.Time `json:"created_at"`
}

type submitResponse struct {
	ID uuid.UUID `json:"id"`
}

type errorResponse struct {
	Error string `json:"error"`
}

// Store is the part of storage.Store the server needs.
type Store interface {
	SaveNamedScore(ctx context.Context, gameID, player string, score int) (storage.ScoreEntry, error)
	TopScores(ctx context.Context, gameID string, limit int) ([]storage.ScoreEntry, error)
}

// Server serves the high-score HTTP API.
type Server struct {
	store  Store
	logger *log.Logger
	mux    *http.ServeMux
}

// NewServer returns a server writing to store. A nil logger discards logs.
func NewServer(store Store, logger *log.Logger) *Server {
	if logger == nil {
		logger = log.New(nopWriter{})
	}
	s := &Server{store: store, logger: logger, mux: http.NewServeMux()}

	s.mux.HandleFunc("POST /submit-score", instrument("submit", s.handleSubmit))
	s.mux.HandleFunc("GET /scores/{game}", instrument("scores", s.handleScores))
	s.mux.HandleFunc("GET /healthz", instrument("healthz", s.handleHealth))
	s.mux.Handle("GET /metrics", promhttp.Handler())
	return s
}

type nopWriter struct{}

func (nopWriter) Write(p []byte) (int, error) { return len(p), nil }

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.mux.ServeHTTP(w, r)
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(v)
}

func (s *Server) reject(w http.ResponseWriter, code int, reason, msg string) {
	instrumentScoreRejected(reason)
	writeJSON(w, code, errorResponse{Error: msg})
}

// validGame reports whether name looks like a game ID: lowercase letters,
// digits and dashes.
func validGame(name string) bool {
	if name == "" {
		return false
	}
	for _, r := range name {
		if (r < 'a' || r > 'z') && (r < '0' || r > '9') && r != '-' {
			return false
		}
	}
	return true
}

// ErrInvalidEntry is wrapped by every error that rejects a submission.
var ErrInvalidEntry = errors.New("highscore: invalid entry")

// EntryError says why an entry was rejected. Reason is a short label used in
// metrics.
type EntryError struct {
	Reason  string
	Message string
}

func (e *EntryError) Error() string { return "highscore: " + e.Message }

func (e *EntryError) Unwrap() error { return ErrInvalidEntry }

// Normalize trims the name and fills in the default game, then reports
// whether the entry can be stored.
func (e *Entry) Normalize() error {
	e.Name = strings.TrimSpace(e.Name)
	if e.Game == "" {
		e.Game = DefaultGame
	}
	switch {
	case e.Name == "":
		return &EntryError{Reason: "empty_name", Message: "name is required"}
	case len([]rune(e.Name)) > maxNameLen:
		return &EntryError{Reason: "long_name", Message: fmt.Sprintf("name is longer than %d characters", maxNameLen)}
	case !validGame(e.Game):
		return &EntryError{Reason: "bad_game", Message: "invalid game id"}
	}
	return nil
}

func (s *Server) handleSubmit(w http.ResponseWriter, r *http.Request) {
	var e Entry
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodySize)).Decode(&e); err != nil {
		s.reject(w, http.StatusBadRequest, "bad_json", "invalid JSON body")
		return
	}

	if err := e.Normalize(); err != nil {
		var ee *EntryError
		if errors.As(err, &ee) {
			s.reject(w, http.StatusBadRequest, ee.Reason, ee.Message)
		}
		return
	}

	saved, err := s.store.SaveNamedScore(r.Context(), e.Game, e.Name, int(e.Score))
	if err != nil {
		s.logger.Error("saving score failed", "game", e.Game, "name", e.Name, "error", err)
		s.reject(w, http.StatusInternalServerError, "storage", "could not save score")
		return
	}

	s.logger.Info("received high score", "game", e.Game, "name", e.Name, "score", e.Score, "id", saved.SubmissionID)
	instrumentScoreReceived(e.Game)
	writeJSON(w, http.StatusCreated, submitResponse{ID: saved.SubmissionID})
}

func (s *Server) handleScores(w http.ResponseWriter, r *http.Request) {
	game := r.PathValue("game")
	if !validGame(game) {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid game id"})
		return
	}

	limit := storage.DefaultLimit
	if v := r.URL.Query().Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n <= 0 {
			writeJSON(w, http.StatusBadRequest, errorResponse{Error: "limit must be a positive integer"})
			return
		}
		limit = min(n, maxLimit)
	}

	entries, err := s.store.TopScores(r.Context(), game, limit)
	if err != nil {
		s.logger.Error("listing scores failed", "game", game, "error", err)
		writeJSON(w, http.StatusInternalServerError, errorResponse{Error: "could not list scores"})
		return
	}

	scores := make([]Score, len(entries))
	for i, e := range entries {
		scores[i] = Score{ID: e.SubmissionID, Name: e.Player, Score: e.Score, Game: e.GameID, CreatedAt: e.CreatedAt}
	}
	writeJSON(w, http.StatusOK, scores)
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// ListenAndServe serves on addr until ctx is cancelled, then shuts down
// gracefully.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return fmt.Errorf("highscore: listen %s: %w", addr, err)
	}
	return s.Serve(ctx, ln)
}

// Serve is ListenAndServe on an existing listener.
func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	srv := &http.Server{
		Handler:           s,
		ReadHeaderTimeout: 5 * time.Second,
	}

	errc := make(chan error, 1)
	go func() {
		s.logger.Info("listening", "address", ln.Addr().String())
		errc <- srv.Serve(ln)
	}()

	select {
	case err := <-errc:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	s.logger.Info("shutting down...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}
