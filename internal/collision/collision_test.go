package collision

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestRect2DIntersect(t *testing.T) {
	a := NewRect2D(V(0, 0), V(10, 10))

	tests := []struct {
		name  string
		other Rect2D
		want  bool
	}{
		{"self", a, true},
		{"overlap", NewRect2D(V(5, 5), V(15, 15)), true},
		{"inside", NewRect2D(V(2, 2), V(3, 3)), true},
		{"touching edge", NewRect2D(V(10, 0), V(20, 10)), true},
		{"touching corner", NewRect2D(V(10, 10), V(20, 20)), true},
		{"left", NewRect2D(V(-5, 0), V(-0.1, 10)), false},
		{"below", NewRect2D(V(0, 10.1), V(10, 20)), false},
		{"diagonal apart", NewRect2D(V(11, 11), V(20, 20)), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.Equal(t, tt.want, a.Intersect(tt.other))
			require.Equal(t, tt.want, tt.other.Intersect(a), "intersect must be symmetric")
		})
	}
}

func TestRect2DQuadrants(t *testing.T) {
	r := NewRect2D(V(-512, -384), V(512, 384))
	q := r.Quadrants()

	require.Equal(t, V(0, 0), r.Center())
	require.Equal(t, NewRect2D(V(-512, -384), V(0, 0)), q[0])
	require.Equal(t, NewRect2D(V(0, -384), V(512, 0)), q[1])
	require.Equal(t, NewRect2D(V(-512, 0), V(0, 384)), q[2])
	require.Equal(t, NewRect2D(V(0, 0), V(512, 384)), q[3])

	var area float64
	for _, quad := range q {
		require.True(t, r.ContainsRect(quad))
		require.InDelta(t, r.Width()/2, quad.Width(), 1e-9)
		require.InDelta(t, r.Height()/2, quad.Height(), 1e-9)
		area += quad.Width() * quad.Height()
	}
	require.InDelta(t, r.Width()*r.Height(), area, 1e-9)
}

func TestAABBAsRect(t *testing.T) {
	box := NewAABB(8, 6)
	require.Equal(t, V(4, 3), box.HalfSize)
	require.Equal(t, NewRect2D(V(6, 7), V(14, 13)), box.AsRect(V(10, 10)))
	require.Equal(t, box, NewAABBHalf(4, 3))
}

func TestStaticQuadTreeNodeCount(t *testing.T) {
	for depth, want := range []int{1, 5, 21, 85, 341, 1365} {
		tree := NewStaticQuadTree(V(1024, 768), depth)
		require.Equal(t, want, tree.Len(), "depth %d", depth)
	}
	require.Equal(t, 1, NewStaticQuadTree(V(10, 10), -3).Len())
}

func TestStaticQuadTreeLayout(t *testing.T) {
	tree := NewStaticQuadTree(V(1024, 768), 4)
	require.Equal(t, NewRect2D(V(-512, -384), V(512, 384)), tree.Bounds())
	require.Equal(t, 4, tree.Depth())

	leaves := 0
	for i := range tree.Len() {
		node := tree.Node(i)
		if node.Children == nil {
			leaves++
			require.InDelta(t, 64, node.Bounds.Width(), 1e-9)
			require.InDelta(t, 48, node.Bounds.Height(), 1e-9)
			continue
		}
		quads := node.Bounds.Quadrants()
		first := node.Children[0]
		for q, c := range node.Children {
			require.Equal(t, first+q, c, "children must be contiguous")
			require.Equal(t, quads[q], tree.Node(c).Bounds)
			require.True(t, node.Bounds.ContainsRect(tree.Node(c).Bounds))
		}
	}
	require.Equal(t, 256, leaves)
}

func TestStaticQuadTreeSmallestNode(t *testing.T) {
	tree := NewStaticQuadTree(V(1024, 768), 4)

	t.Run("straddling the root split stays at the root", func(t *testing.T) {
		require.Equal(t, 0, tree.SmallestNode(NewRect2D(V(-1, -1), V(1, 1))))
	})

	t.Run("box inside one leaf reaches the leaf", func(t *testing.T) {
		idx := tree.SmallestNode(NewRect2D(V(-500, -380), V(-490, -370)))
		require.True(t, tree.IsLeaf(idx))
		require.Equal(t, NewRect2D(V(-512, -384), V(-448, -336)), tree.Node(idx).Bounds)
	})

	t.Run("box straddling a leaf split stops above leaf depth", func(t *testing.T) {
		idx := tree.SmallestNode(NewRect2D(V(-452, -380), V(-444, -370)))
		require.False(t, tree.IsLeaf(idx))
		require.True(t, tree.Node(idx).Bounds.ContainsRect(NewRect2D(V(-452, -380), V(-444, -370))))
	})

	t.Run("box outside the world returns the root", func(t *testing.T) {
		require.Equal(t, 0, tree.SmallestNode(NewRect2D(V(2000, 2000), V(2010, 2010))))
	})

	t.Run("root bounds returns the root", func(t *testing.T) {
		require.Equal(t, 0, tree.SmallestNode(tree.Bounds()))
	})
}

func TestStaticQuadTreeIntersectingNodes(t *testing.T) {
	tree := NewStaticQuadTree(V(1024, 768), 4)

	t.Run("miss returns nothing", func(t *testing.T) {
		require.Empty(t, tree.IntersectingNodes(NewRect2D(V(600, 0), V(700, 10))))
	})

	t.Run("leaf interior box hits one node per level", func(t *testing.T) {
		nodes := tree.IntersectingNodes(NewRect2D(V(-500, -380), V(-490, -370)))
		require.Len(t, nodes, 5)
		require.Equal(t, 0, nodes[0])
	})

	t.Run("whole world hits every node once", func(t *testing.T) {
		nodes := tree.IntersectingNodes(tree.Bounds())
		require.Len(t, nodes, tree.Len())
		seen := make(map[int]bool)
		for _, n := range nodes {
			require.False(t, seen[n])
			seen[n] = true
		}
	})

	t.Run("contains the smallest node and its ancestors", func(t *testing.T) {
		rng := rand.New(rand.NewSource(7))
		for range 200 {
			x, y := rng.Float64()*1000-500, rng.Float64()*760-380
			target := NewAABB(8, 8).AsRect(V(x, y))

			nodes := tree.IntersectingNodes(target)
			set := make(map[int]bool, len(nodes))
			for _, n := range nodes {
				set[n] = true
				require.True(t, tree.Node(n).Bounds.Intersect(target))
			}

			// Walk the descent path again and make sure every step is present.
			smallest := tree.SmallestNode(target)
			current := 0
			for {
				require.True(t, set[current])
				if current == smallest {
					break
				}
				for _, c := range tree.Node(current).Children {
					if tree.Node(c).Bounds.Intersect(target) {
						current = c
						break
					}
				}
			}
		}
	})
}

func body(id uint64, x, y float64) Body {
	return Body{ID: id, Position: V(x, y), Box: NewAABB(8, 8)}
}

func TestCheckScenarios(t *testing.T) {
	tree := NewStaticQuadTree(V(1024, 768), 4)
	require.Equal(t, 341, tree.Len())

	t.Run("same position collides", func(t *testing.T) {
		events := Check(tree,
			Group{Category: "a", Bodies: []Body{body(1, 0, 0)}},
			Group{Category: "b", Bodies: []Body{body(2, 0, 0)}},
		)
		require.NotEmpty(t, events)
		require.Equal(t, []Event{{A: 1, B: 2, CategoryA: "a", CategoryB: "b"}}, Dedupe(events))
	})

	t.Run("opposite corners do not collide", func(t *testing.T) {
		events := Check(tree,
			Group{Category: "a", Bodies: []Body{body(1, -500, -380)}},
			Group{Category: "b", Bodies: []Body{body(2, 500, 380)}},
		)
		require.Empty(t, events)
	})

	t.Run("boundary distances", func(t *testing.T) {
		for _, tt := range []struct {
			dx   float64
			want bool
		}{
			{7.9, true},
			{8, true},
			{8.1, false},
		} {
			events := Check(tree,
				Group{Category: "a", Bodies: []Body{body(1, 100, 100)}},
				Group{Category: "b", Bodies: []Body{body(2, 100+tt.dx, 100)}},
			)
			require.Equal(t, tt.want, len(events) > 0, "dx=%v", tt.dx)
		}
	})

	t.Run("same category never matches itself", func(t *testing.T) {
		g := Group{Category: "ball", Bodies: []Body{body(1, 10, 10)}}
		require.Empty(t, Check(tree, g, g))
	})

	t.Run("identical bodies with different ids match both ways", func(t *testing.T) {
		g := Group{Category: "ball", Bodies: []Body{body(1, 10, 10), body(2, 10, 10)}}
		events := Dedupe(Check(tree, g, g))
		require.ElementsMatch(t, []Event{
			{A: 1, B: 2, CategoryA: "ball", CategoryB: "ball"},
			{A: 2, B: 1, CategoryA: "ball", CategoryB: "ball"},
		}, events)
	})

	t.Run("empty groups", func(t *testing.T) {
		require.Empty(t, Check(tree, Group{Category: "a"}, Group{Category: "b", Bodies: []Body{body(1, 0, 0)}}))
		require.Empty(t, Check(tree, Group{Category: "a", Bodies: []Body{body(1, 0, 0)}}, Group{Category: "b"}))
	})
}

func randomBodies(rng *rand.Rand, n int) []Body {
	bodies := make([]Body, n)
	for i := range bodies {
		bodies[i] = body(uint64(i+1), rng.Float64()*1024-512, rng.Float64()*768-384)
	}
	return bodies
}

func pairs(events []Event) map[[2]uint64]bool {
	out := make(map[[2]uint64]bool)
	for _, e := range events {
		out[[2]uint64{e.A, e.B}] = true
	}
	return out
}

func TestCheckMatchesBruteForce(t *testing.T) {
	tree := NewStaticQuadTree(V(1024, 768), 4)
	rng := rand.New(rand.NewSource(42))
	bodies := randomBodies(rng, 600)
	g := Group{Category: "ball", Bodies: bodies}

	want := make(map[[2]uint64]bool)
	for _, a := range bodies {
		for _, b := range bodies {
			if a.ID != b.ID && a.Rect().Intersect(b.Rect()) {
				want[[2]uint64{a.ID, b.ID}] = true
			}
		}
	}
	require.NotEmpty(t, want)

	got := pairs(Check(tree, g, g))
	require.Equal(t, want, got)

	t.Run("idempotent", func(t *testing.T) {
		require.Equal(t, got, pairs(Check(tree, g, g)))
	})

	t.Run("first match is a subset", func(t *testing.T) {
		res := CheckWithMode(tree, g, g, ModeFirstMatch)
		perA := make(map[uint64]int)
		for _, e := range res.Events {
			require.True(t, want[[2]uint64{e.A, e.B}])
			perA[e.A]++
		}
		for id, n := range perA {
			require.Equal(t, 1, n, "body %d", id)
		}
		require.Positive(t, res.Checks)
	})
}

func TestDetectorStats(t *testing.T) {
	d := NewDetector(V(1024, 768), 4, ModeExhaustive)
	g := Group{Category: "ball", Bodies: []Body{body(1, 0, 0), body(2, 3, 3), body(3, 300, 300)}}

	events := d.Check(g, g)
	stats := d.Stats()
	require.Equal(t, len(events), stats.Events)
	require.GreaterOrEqual(t, stats.Checks, stats.Events)
	require.Equal(t, "exhaustive", d.Mode.String())
}

func TestVec2(t *testing.T) {
	require.Equal(t, V(4, 6), V(1, 2).Add(V(3, 4)))
	require.Equal(t, V(-2, -2), V(1, 2).Sub(V(3, 4)))
	require.InDelta(t, 5, V(3, 4).Len(), 1e-9)
	require.Equal(t, Vec2{}, Vec2{}.Normalize())
	n := V(3, 4).Normalize()
	require.InDelta(t, 1, n.Len(), 1e-9)

	r := V(1, 0).Rotate(1.5707963267948966)
	require.InDelta(t, 0, r.X, 1e-9)
	require.InDelta(t, 1, r.Y, 1e-9)
}
