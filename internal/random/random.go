// Package random provides a seedable random number generator that is safe to
// share between a game loop and its background workers.
package random

import (
	"math/rand"
	"sync"
	"time"
)

// Generator wraps a math/rand source behind a mutex. The zero value is not
// usable; construct with New or Seeded.
type Generator struct {
	mu  sync.Mutex
	rng *rand.Rand
}

// New returns a generator seeded from the current time.
func New() *Generator {
	return Seeded(time.Now().UnixNano())
}

// Seeded returns a generator that produces the same sequence for the same
// seed.
func Seeded(seed int64) *Generator {
	return &Generator{rng: rand.New(rand.NewSource(seed))}
}

// Range returns an int in [lo, hi). It returns lo if hi <= lo.
func (g *Generator) Range(lo, hi int) int {
	if hi <= lo {
		return lo
	}
	g.mu.Lock()
	defer g.mu.Unlock()
	return lo + g.rng.Intn(hi-lo)
}

// RangeInclusive returns an int in [lo, hi].
func (g *Generator) RangeInclusive(lo, hi int) int {
	return g.Range(lo, hi+1)
}

// Float returns a float64 in [lo, hi).
func (g *Generator) Float(lo, hi float64) float64 {
	g.mu.Lock()
	defer g.mu.Unlock()
	return lo + g.rng.Float64()*(hi-lo)
}

// Next returns a non-negative pseudo-random uint32.
func (g *Generator) Next() uint32 {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.rng.Uint32()
}
