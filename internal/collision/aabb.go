package collision

// AxisAlignedBoundingBox is a box centered on a body's position, stored as
// its half-extents.
type AxisAlignedBoundingBox struct {
	HalfSize Vec2
}

// NewAABB creates a box of the given full width and height.
func NewAABB(width, height float64) AxisAlignedBoundingBox {
	return AxisAlignedBoundingBox{HalfSize: Vec2{width / 2, height / 2}}
}

// NewAABBHalf creates a box from half-extents.
func NewAABBHalf(halfWidth, halfHeight float64) AxisAlignedBoundingBox {
	return AxisAlignedBoundingBox{HalfSize: Vec2{halfWidth, halfHeight}}
}

// AsRect places the box at position.
func (b AxisAlignedBoundingBox) AsRect(position Vec2) Rect2D {
	return Rect2D{
		Min: position.Sub(b.HalfSize),
		Max: position.Add(b.HalfSize),
	}
}
