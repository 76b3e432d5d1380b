package math

// Vec2 is a 2D vector, used for texture coordinates.
type Vec2 struct {
	X, Y float32
}

// LeftHanded converts a right-handed texture coordinate to the left-handed
// convention by flipping V (Y = -Y + 1).
func (v Vec2) LeftHanded() Vec2 {
	return Vec2{v.X, -v.Y + 1}
}
