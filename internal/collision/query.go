package collision

// Category names a set of bodies taking part in a collision pass, such as
// "player" or "ground". Two groups with the same category are the same set.
type Category string

// Body is one participant in a pass. ID must be unique among all bodies a
// caller passes in; it is the only thing used to exclude self-pairs.
type Body struct {
	ID       uint64
	Position Vec2
	Box      AxisAlignedBoundingBox
}

// Rect returns the body's box placed at its position.
func (b Body) Rect() Rect2D {
	return b.Box.AsRect(b.Position)
}

// Group is the set of bodies tagged with one category for a single pass.
type Group struct {
	Category Category
	Bodies   []Body
}

// Mode selects how thoroughly a pass searches for overlaps.
type Mode int

const (
	// ModeExhaustive registers every B body under each node its box touches
	// and probes every leaf each A box touches. It never misses an overlap
	// between bodies inside the world.
	ModeExhaustive Mode = iota

	// ModeFirstMatch probes only the smallest node containing each A box and
	// stops at the first overlapping B body. It is faster and may miss
	// overlaps, and reports at most one event per A body.
	ModeFirstMatch
)

func (m Mode) String() string {
	switch m {
	case ModeExhaustive:
		return "exhaustive"
	case ModeFirstMatch:
		return "first-match"
	default:
		return "unknown"
	}
}

// Result is the outcome of one pass.
type Result struct {
	Events []Event
	// Checks counts AABB intersection tests performed.
	Checks int
}

type entry struct {
	id   uint64
	rect Rect2D
}

// Check runs an exhaustive pass of a against b over tree. The same pair may
// be reported more than once if the two boxes share several nodes.
func Check(tree *StaticQuadTree, a, b Group) []Event {
	return CheckWithMode(tree, a, b, ModeExhaustive).Events
}

// CheckWithMode runs one pass of a against b in the given mode.
func CheckWithMode(tree *StaticQuadTree, a, b Group, mode Mode) Result {
	buckets := make(map[int][]entry)
	for _, body := range b.Bodies {
		rect := body.Rect()
		for _, node := range tree.IntersectingNodes(rect) {
			buckets[node] = append(buckets[node], entry{id: body.ID, rect: rect})
		}
	}

	var res Result
	for _, body := range a.Bodies {
		rect := body.Rect()
		switch mode {
		case ModeFirstMatch:
			for _, cand := range buckets[tree.SmallestNode(rect)] {
				if cand.id == body.ID {
					continue
				}
				res.Checks++
				if rect.Intersect(cand.rect) {
					res.Events = append(res.Events, newEvent(body.ID, cand.id, a.Category, b.Category))
					break
				}
			}
		default:
			// Any two overlapping boxes that touch the world share at least one
			// leaf, so internal buckets (the root holds every body) are skipped.
			for _, node := range tree.IntersectingNodes(rect) {
				if !tree.IsLeaf(node) {
					continue
				}
				for _, cand := range buckets[node] {
					if cand.id == body.ID {
						continue
					}
					res.Checks++
					if rect.Intersect(cand.rect) {
						res.Events = append(res.Events, newEvent(body.ID, cand.id, a.Category, b.Category))
					}
				}
			}
		}
	}
	return res
}
