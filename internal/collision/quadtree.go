package collision

// StaticQuadTreeNode is one cell of the tree. Children holds the indices of the
// four sub-cells in quadrant order, or nil for a leaf.
type StaticQuadTreeNode struct {
	Bounds   Rect2D
	Children *[4]int
}

// StaticQuadTree is a quadtree whose layout is fixed at construction.
// Nodes live in a flat slice and refer to each other by index; node 0 is the
// root. The tree holds no bodies and is never mutated after NewStaticQuadTree
// returns, so any number of goroutines may query it.
type StaticQuadTree struct {
	nodes []StaticQuadTreeNode
	depth int
}

// NewStaticQuadTree builds a tree covering a world of the given size centered
// on the origin, subdivided maxDepth levels below the root. A maxDepth of
// zero or less yields a single root node.
func NewStaticQuadTree(worldSize Vec2, maxDepth int) *StaticQuadTree {
	half := worldSize.Scale(0.5)
	root := StaticQuadTreeNode{
		Bounds: Rect2D{Min: Vec2{-half.X, -half.Y}, Max: half},
	}

	t := &StaticQuadTree{
		nodes: make([]StaticQuadTreeNode, 1, nodeCount(maxDepth)),
		depth: max(maxDepth, 0),
	}
	t.nodes[0] = root
	if maxDepth > 0 {
		t.subdivide(0, 1, maxDepth)
	}
	return t
}

func nodeCount(depth int) int {
	n, level := 0, 1
	for i := 0; i <= depth; i++ {
		n += level
		level *= 4
	}
	return max(n, 1)
}

// subdivide appends the four children of index contiguously, then recurses
// into each while depth < maxDepth.
func (t *StaticQuadTree) subdivide(index, depth, maxDepth int) {
	quads := t.nodes[index].Bounds.Quadrants()
	n := len(t.nodes)
	t.nodes[index].Children = &[4]int{n, n + 1, n + 2, n + 3}
	for _, q := range quads {
		t.nodes = append(t.nodes, StaticQuadTreeNode{Bounds: q})
	}
	if depth < maxDepth {
		for i := range 4 {
			t.subdivide(n+i, depth+1, maxDepth)
		}
	}
}

// Len returns the number of nodes.
func (t *StaticQuadTree) Len() int {
	return len(t.nodes)
}

// Depth returns the number of levels below the root.
func (t *StaticQuadTree) Depth() int {
	return t.depth
}

// Node returns the node at index i. It panics if i is out of range.
func (t *StaticQuadTree) Node(i int) StaticQuadTreeNode {
	return t.nodes[i]
}

// Bounds returns the root rectangle.
func (t *StaticQuadTree) Bounds() Rect2D {
	return t.nodes[0].Bounds
}

func (t *StaticQuadTree) IsLeaf(i int) bool {
	return t.nodes[i].Children == nil
}

// SmallestNode descends from the root for as long as exactly one child
// intersects target, and returns the index where it stopped. A target
// straddling a split line therefore stays at the parent. If target misses the
// world entirely the root is returned.
func (t *StaticQuadTree) SmallestNode(target Rect2D) int {
	current := 0
	for {
		children := t.nodes[current].Children
		if children == nil {
			return current
		}

		next, hits := -1, 0
		for _, c := range children {
			if t.nodes[c].Bounds.Intersect(target) {
				next = c
				hits++
			}
		}
		if hits != 1 {
			return current
		}
		current = next
	}
}

// IntersectingNodes returns the index of every node whose bounds intersect
// target, internal nodes included, in depth-first order. Subtrees whose root
// misses target are skipped. Each index appears once.
func (t *StaticQuadTree) IntersectingNodes(target Rect2D) []int {
	var result []int
	stack := []int{0}
	for len(stack) > 0 {
		i := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		node := &t.nodes[i]
		if !node.Bounds.Intersect(target) {
			continue
		}
		result = append(result, i)
		if node.Children != nil {
			// Push in reverse so children pop in quadrant order.
			for c := 3; c >= 0; c-- {
				stack = append(stack, node.Children[c])
			}
		}
	}
	return result
}
