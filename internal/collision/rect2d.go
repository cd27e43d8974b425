package collision

// Rect2D is an axis-aligned rectangle given by its minimum (top-left) and
// maximum (bottom-right) corners. Callers must keep Min <= Max on both axes;
// the constructor does not check.
type Rect2D struct {
	Min Vec2
	Max Vec2
}

// NewRect2D creates a rectangle from two corners.
func NewRect2D(min, max Vec2) Rect2D {
	return Rect2D{Min: min, Max: max}
}

// Intersect reports whether r and other overlap. Intervals are closed, so
// rectangles sharing only an edge or a corner intersect.
func (r Rect2D) Intersect(other Rect2D) bool {
	return r.Min.X <= other.Max.X && r.Max.X >= other.Min.X &&
		r.Min.Y <= other.Max.Y && r.Max.Y >= other.Min.Y
}

// Contains reports whether p lies inside r, boundary included.
func (r Rect2D) Contains(p Vec2) bool {
	return p.X >= r.Min.X && p.X <= r.Max.X && p.Y >= r.Min.Y && p.Y <= r.Max.Y
}

// ContainsRect reports whether other lies entirely inside r.
func (r Rect2D) ContainsRect(other Rect2D) bool {
	return r.Contains(other.Min) && r.Contains(other.Max)
}

func (r Rect2D) Width() float64 {
	return r.Max.X - r.Min.X
}

func (r Rect2D) Height() float64 {
	return r.Max.Y - r.Min.Y
}

// Center returns the midpoint of r.
func (r Rect2D) Center() Vec2 {
	return Vec2{
		X: (r.Min.X + r.Max.X) / 2,
		Y: (r.Min.Y + r.Max.Y) / 2,
	}
}

// Quadrants splits r at its center into top-left, top-right, bottom-left and
// bottom-right, in that order.
func (r Rect2D) Quadrants() [4]Rect2D {
	c := r.Center()
	return [4]Rect2D{
		{Min: r.Min, Max: c},
		{Min: Vec2{c.X, r.Min.Y}, Max: Vec2{r.Max.X, c.Y}},
		{Min: Vec2{r.Min.X, c.Y}, Max: Vec2{c.X, r.Max.Y}},
		{Min: c, Max: r.Max},
	}
}
