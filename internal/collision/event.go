package collision

import "time"

// Event reports that body A (from CategoryA) overlapped body B (from
// CategoryB) during a pass.
type Event struct {
	A, B      uint64
	CategoryA Category
	CategoryB Category
}

func newEvent(a, b uint64, ca, cb Category) Event {
	return Event{A: a, B: b, CategoryA: ca, CategoryB: cb}
}

// Dedupe drops repeated (A, B) pairs, keeping the first occurrence of each.
func Dedupe(events []Event) []Event {
	if len(events) < 2 {
		return events
	}
	type pair struct{ a, b uint64 }
	seen := make(map[pair]struct{}, len(events))
	out := make([]Event, 0, len(events))
	for _, e := range events {
		p := pair{e.A, e.B}
		if _, ok := seen[p]; ok {
			continue
		}
		seen[p] = struct{}{}
		out = append(out, e)
	}
	return out
}

// Stats describes the most recent pass run by a Detector.
type Stats struct {
	Checks  int
	Events  int
	Elapsed time.Duration
}

// Detector runs passes against one tree in a fixed mode and remembers the
// cost of the last one. It is not safe for concurrent use; the tree it wraps
// is.
type Detector struct {
	Tree *StaticQuadTree
	Mode Mode

	last Stats
}

// NewDetector creates a detector over a freshly built tree.
func NewDetector(worldSize Vec2, maxDepth int, mode Mode) *Detector {
	return &Detector{Tree: NewStaticQuadTree(worldSize, maxDepth), Mode: mode}
}

// Check runs one pass and records its stats.
func (d *Detector) Check(a, b Group) []Event {
	start := time.Now()
	res := CheckWithMode(d.Tree, a, b, d.Mode)
	d.last = Stats{
		Checks:  res.Checks,
		Events:  len(res.Events),
		Elapsed: time.Since(start),
	}
	return res.Events
}

// Stats returns the stats of the last pass.
func (d *Detector) Stats() Stats {
	return d.last
}
