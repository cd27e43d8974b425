package worldgen

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/vovakirdan/quadarcade/internal/random"
)

func generate(t *testing.T, w, h int, seed int64) *World {
	t.Helper()
	world, err := Generate(context.Background(), Options{Width: w, Height: h}, random.Seeded(seed))
	if err != nil {
		t.Fatalf("Generate(%d, %d): %v", w, h, err)
	}
	return world
}

func TestBorderStaysSolid(t *testing.T) {
	w := generate(t, 80, 60, 3)

	for x := 0; x < w.Width; x++ {
		if !w.Solid(x, 0) || !w.Solid(x, w.Height-1) {
			t.Fatalf("border cell in column %d was cleared", x)
		}
	}
	for y := 0; y < w.Height; y++ {
		if !w.Solid(0, y) || !w.Solid(w.Width-1, y) {
			t.Fatalf("border cell in row %d was cleared", y)
		}
	}
}

func TestSolidShareBelowThreshold(t *testing.T) {
	for _, seed := range []int64{1, 2, 3, 99} {
		w := generate(t, 100, 100, seed)
		if got := w.SolidFraction(); got >= DefaultSolidShare {
			t.Errorf("seed %d: solid fraction %.3f, expected below %.2f", seed, got, DefaultSolidShare)
		}

		solid := 0
		for y := 0; y < w.Height; y++ {
			for x := 0; x < w.Width; x++ {
				if w.Solid(x, y) {
					solid++
				}
			}
		}
		if want := w.SolidFraction(); float64(solid)/float64(w.Width*w.Height) != want {
			t.Errorf("seed %d: counted %d solid cells, fraction disagrees with %.3f", seed, solid, want)
		}
	}
}

func TestSolidShareOption(t *testing.T) {
	for _, seed := range []int64{1, 2, 3} {
		dense := generate(t, 80, 80, seed)
		open, err := Generate(context.Background(), Options{Width: 80, Height: 80, SolidShare: 0.4}, random.Seeded(seed))
		if err != nil {
			t.Fatalf("seed %d: Generate: %v", seed, err)
		}
		if got := open.SolidFraction(); got >= 0.4 {
			t.Errorf("seed %d: solid fraction %.3f, expected below 0.40", seed, got)
		}
		if open.SolidFraction() >= dense.SolidFraction() {
			t.Errorf("seed %d: share 0.4 gave %.3f solid, default gave %.3f",
				seed, open.SolidFraction(), dense.SolidFraction())
		}
	}
}

func TestHolesOption(t *testing.T) {
	w, err := Generate(context.Background(), Options{Width: 60, Height: 60, Holes: 1}, random.Seeded(4))
	if err != nil {
		t.Fatalf("Generate with one hole: %v", err)
	}
	if got := w.SolidFraction(); got >= DefaultSolidShare {
		t.Errorf("solid fraction %.3f, expected below %.2f", got, DefaultSolidShare)
	}
}

func TestBadOptions(t *testing.T) {
	tests := []struct {
		name string
		opts Options
	}{
		{"negative holes", Options{Width: 40, Height: 40, Holes: -1}},
		{"negative share", Options{Width: 40, Height: 40, SolidShare: -0.5}},
		{"share above one", Options{Width: 40, Height: 40, SolidShare: 1.5}},
		// 12x12 has 44 border cells out of 144.
		{"share under border", Options{Width: 12, Height: 12, SolidShare: 0.3}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w, err := Generate(context.Background(), tt.opts, random.Seeded(1))
			if !errors.Is(err, ErrBadOptions) {
				t.Errorf("got %v, expected ErrBadOptions", err)
			}
			if w != nil {
				t.Error("expected no world")
			}
		})
	}
}

func TestCenterAndShaftOpen(t *testing.T) {
	w := generate(t, 60, 40, 5)
	cx, cy := w.Width/2, w.Height/2

	for dy := -1; dy <= 1; dy++ {
		for dx := -1; dx <= 1; dx++ {
			if w.Solid(cx+dx, cy+dy) {
				t.Errorf("center pocket cell (%d, %d) is solid", cx+dx, cy+dy)
			}
		}
	}
	for y := cy; y < w.Height-1; y++ {
		if w.Solid(cx, y) {
			t.Errorf("shaft cell (%d, %d) is solid", cx, y)
		}
	}
}

func TestDeterministicBySeed(t *testing.T) {
	a := generate(t, 50, 50, 77)
	b := generate(t, 50, 50, 77)

	for y := 0; y < a.Height; y++ {
		for x := 0; x < a.Width; x++ {
			if a.Solid(x, y) != b.Solid(x, y) {
				t.Fatalf("caves differ at (%d, %d)", x, y)
			}
		}
	}
}

func TestExposed(t *testing.T) {
	w := generate(t, 40, 40, 11)

	if w.Exposed(-1, 0) || w.Exposed(w.Width, 0) {
		t.Error("cells outside the map are never exposed")
	}
	exposed := 0
	for y := 0; y < w.Height; y++ {
		for x := 0; x < w.Width; x++ {
			if !w.Exposed(x, y) {
				continue
			}
			exposed++
			if !w.Solid(x, y) {
				t.Fatalf("open cell (%d, %d) reported exposed", x, y)
			}
			if w.Solid(x-1, y) && w.Solid(x+1, y) && w.Solid(x, y-1) && w.Solid(x, y+1) {
				t.Fatalf("buried cell (%d, %d) reported exposed", x, y)
			}
		}
	}
	if exposed == 0 {
		t.Error("expected some exposed rock")
	}
}

func TestTooSmall(t *testing.T) {
	_, err := Generate(context.Background(), Options{Width: MinSize - 1, Height: 40}, random.Seeded(1))
	if !errors.Is(err, ErrTooSmall) {
		t.Errorf("got %v, expected ErrTooSmall", err)
	}
}

func TestGenerateCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	w, err := Generate(ctx, Options{Width: 200, Height: 200}, random.Seeded(1))
	if !errors.Is(err, context.Canceled) {
		t.Errorf("got %v, expected context.Canceled", err)
	}
	if w != nil {
		t.Error("expected no world after cancellation")
	}
}

func TestStartDeliversOnce(t *testing.T) {
	ch := Start(context.Background(), Options{Width: 60, Height: 60}, 9)

	select {
	case res, ok := <-ch:
		if !ok {
			t.Fatal("channel closed without a result")
		}
		if res.Err != nil {
			t.Fatalf("Start: %v", res.Err)
		}
		want := generate(t, 60, 60, 9)
		if res.World.SolidFraction() != want.SolidFraction() {
			t.Error("background cave differs from Generate with the same seed")
		}
	case <-time.After(10 * time.Second):
		t.Fatal("timed out waiting for the cave")
	}

	if _, ok := <-ch; ok {
		t.Error("expected the channel to be closed after one result")
	}
}
