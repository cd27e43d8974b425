package storage

import (
	"context"
	"database/sql"
	"os"
	"path/filepath"
	"testing"

	"github.com/google/uuid"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	store, err := Open(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("Open() failed: %v", err)
	}
	t.Cleanup(func() { store.Close() })
	return store
}

func TestStoreOpenCreatesNestedPath(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "subdir", "deep", "test.db")

	store, err := Open(dbPath)
	if err != nil {
		t.Fatalf("Open() with nested path failed: %v", err)
	}
	defer store.Close()

	if _, err := os.Stat(dbPath); os.IsNotExist(err) {
		t.Error("database file was not created")
	}
}

func TestStoreSaveAndRetrieve(t *testing.T) {
	ctx := context.Background()
	store := openTestStore(t)

	for _, s := range []int{100, 50, 200} {
		if _, err := store.SaveScore(ctx, "flappy", s); err != nil {
			t.Fatalf("SaveScore() failed: %v", err)
		}
	}
	if _, err := store.SaveScore(ctx, "bouncy", 500); err != nil {
		t.Fatalf("SaveScore() failed: %v", err)
	}

	scores, err := store.TopScores(ctx, "flappy", 10)
	if err != nil {
		t.Fatalf("TopScores() failed: %v", err)
	}
	if len(scores) != 3 {
		t.Fatalf("got %d scores, expected 3", len(scores))
	}
	for i, want := range []int{200, 100, 50} {
		if scores[i].Score != want {
			t.Errorf("scores[%d] = %d, expected %d", i, scores[i].Score, want)
		}
		if scores[i].GameID != "flappy" || scores[i].Player != "" {
			t.Errorf("scores[%d] = %+v, expected an anonymous flappy score", i, scores[i])
		}
		if scores[i].SubmissionID == uuid.Nil {
			t.Errorf("scores[%d] has no submission ID", i)
		}
		if scores[i].CreatedAt.IsZero() {
			t.Errorf("scores[%d] has no timestamp", i)
		}
	}

	other, err := store.TopScores(ctx, "bouncy", 10)
	if err != nil {
		t.Fatalf("TopScores() failed: %v", err)
	}
	if len(other) != 1 {
		t.Errorf("got %d bouncy scores, expected 1", len(other))
	}
}

func TestStoreSaveNamedScore(t *testing.T) {
	ctx := context.Background()
	store := openTestStore(t)

	a, err := store.SaveNamedScore(ctx, "flappy", "ada", 12)
	if err != nil {
		t.Fatalf("SaveNamedScore() failed: %v", err)
	}
	b, err := store.SaveNamedScore(ctx, "flappy", "bob", 12)
	if err != nil {
		t.Fatalf("SaveNamedScore() failed: %v", err)
	}
	if a.SubmissionID == b.SubmissionID {
		t.Error("submissions share an ID")
	}

	scores, err := store.TopScores(ctx, "flappy", 10)
	if err != nil {
		t.Fatalf("TopScores() failed: %v", err)
	}
	if len(scores) != 2 {
		t.Fatalf("got %d scores, expected 2", len(scores))
	}
	if scores[0].Player != "ada" || scores[1].Player != "bob" {
		t.Errorf("ties should list the earlier submission first, got %q then %q", scores[0].Player, scores[1].Player)
	}
	if scores[0].SubmissionID != a.SubmissionID || scores[0].ID != a.ID {
		t.Errorf("stored entry %+v does not match saved %+v", scores[0], a)
	}
}

func TestStoreTopScoresLimit(t *testing.T) {
	ctx := context.Background()
	store := openTestStore(t)

	for i := 0; i < 15; i++ {
		store.SaveScore(ctx, "test", (i+1)*100)
	}

	tests := []struct {
		limit int
		want  int
	}{
		{3, 3},
		{0, DefaultLimit},
		{-1, DefaultLimit},
		{50, 15},
	}
	for _, tt := range tests {
		scores, err := store.TopScores(ctx, "test", tt.limit)
		if err != nil {
			t.Fatalf("TopScores(%d) failed: %v", tt.limit, err)
		}
		if len(scores) != tt.want {
			t.Errorf("TopScores(%d) returned %d rows, expected %d", tt.limit, len(scores), tt.want)
		}
		if scores[0].Score != 1500 {
			t.Errorf("TopScores(%d) starts at %d, expected 1500", tt.limit, scores[0].Score)
		}
	}
}

func TestStoreHighScore(t *testing.T) {
	ctx := context.Background()
	store := openTestStore(t)

	high, err := store.HighScore(ctx, "flappy")
	if err != nil {
		t.Fatalf("HighScore() failed: %v", err)
	}
	if high != 0 {
		t.Errorf("got high score %d for an empty game, expected 0", high)
	}

	store.SaveScore(ctx, "flappy", 100)
	store.SaveScore(ctx, "flappy", 300)
	store.SaveScore(ctx, "flappy", 200)

	high, err = store.HighScore(ctx, "flappy")
	if err != nil {
		t.Fatalf("HighScore() failed: %v", err)
	}
	if high != 300 {
		t.Errorf("got high score %d, expected 300", high)
	}
}

func TestStoreClearScores(t *testing.T) {
	ctx := context.Background()
	store := openTestStore(t)

	store.SaveScore(ctx, "flappy", 100)
	store.SaveScore(ctx, "flappy", 200)
	store.SaveScore(ctx, "pig", 300)

	if err := store.ClearScores(ctx, "flappy"); err != nil {
		t.Fatalf("ClearScores() failed: %v", err)
	}

	if scores, _ := store.AllScores(ctx, "flappy"); len(scores) != 0 {
		t.Errorf("got %d flappy scores after clear, expected 0", len(scores))
	}
	if scores, _ := store.AllScores(ctx, "pig"); len(scores) != 1 {
		t.Error("clearing flappy touched pig scores")
	}
}

func TestStoreAllScores(t *testing.T) {
	ctx := context.Background()
	store := openTestStore(t)

	for i := 0; i < 20; i++ {
		store.SaveScore(ctx, "test", i*10)
	}

	scores, err := store.AllScores(ctx, "test")
	if err != nil {
		t.Fatalf("AllScores() failed: %v", err)
	}
	if len(scores) != 20 {
		t.Errorf("got %d scores, expected 20", len(scores))
	}
}

func TestStoreGameStats(t *testing.T) {
	ctx := context.Background()
	store := openTestStore(t)

	empty, err := store.GetGameStats(ctx, "flappy")
	if err != nil {
		t.Fatalf("GetGameStats() failed: %v", err)
	}
	if empty.GamesCount != 0 || empty.HighScore != 0 || !empty.LastPlayed.IsZero() {
		t.Errorf("stats for an empty game = %+v", empty)
	}

	store.SaveScore(ctx, "flappy", 10)
	store.SaveScore(ctx, "flappy", 30)
	store.SaveScore(ctx, "marsbase", 900)

	stats, err := store.GetGameStats(ctx, "flappy")
	if err != nil {
		t.Fatalf("GetGameStats() failed: %v", err)
	}
	if stats.GamesCount != 2 || stats.HighScore != 30 || stats.TotalScore != 40 || stats.AvgScore != 20 {
		t.Errorf("flappy stats = %+v", stats)
	}
	if stats.LastPlayed.IsZero() {
		t.Error("expected a last played time")
	}

	all, err := store.GetAllGamesStats(ctx)
	if err != nil {
		t.Fatalf("GetAllGamesStats() failed: %v", err)
	}
	if len(all) != 2 {
		t.Fatalf("got stats for %d games, expected 2", len(all))
	}
	if all["marsbase"].HighScore != 900 || all["flappy"].GamesCount != 2 {
		t.Errorf("unexpected stats: flappy=%+v marsbase=%+v", all["flappy"], all["marsbase"])
	}
}

func TestStoreMigratesOldSchema(t *testing.T) {
	ctx := context.Background()
	dbPath := filepath.Join(t.TempDir(), "old.db")

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		t.Fatal(err)
	}
	_, err = db.Exec(`
		CREATE TABLE scores (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			game_id TEXT NOT NULL,
			score INTEGER NOT NULL,
			created_at DATETIME DEFAULT CURRENT_TIMESTAMP
		);
		INSERT INTO scores (game_id, score) VALUES ('flappy', 7);
	`)
	db.Close()
	if err != nil {
		t.Fatal(err)
	}

	store, err := Open(dbPath)
	if err != nil {
		t.Fatalf("Open() on an old database failed: %v", err)
	}
	defer store.Close()

	scores, err := store.TopScores(ctx, "flappy", 10)
	if err != nil {
		t.Fatalf("TopScores() failed: %v", err)
	}
	if len(scores) != 1 || scores[0].Score != 7 {
		t.Fatalf("old rows lost: %+v", scores)
	}
	if scores[0].SubmissionID != uuid.Nil || scores[0].Player != "" {
		t.Errorf("old row = %+v, expected empty player and nil submission", scores[0])
	}

	if _, err := store.SaveNamedScore(ctx, "flappy", "new", 8); err != nil {
		t.Errorf("SaveNamedScore() after migration failed: %v", err)
	}
}
