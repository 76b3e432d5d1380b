// Package math provides the vector types used by the mesh model and the
// coordinate transforms applied when a mesh changes handedness.
package math

// Vec3 is a 3D vector.
type Vec3 struct {
	X, Y, Z float32
}

// LeftHanded converts a right-handed coordinate to a left-handed one by
// negating X.
func (v Vec3) LeftHanded() Vec3 {
	return Vec3{-v.X, v.Y, v.Z}
}

// RotateNoseDown rotates v 90 degrees around the X axis (Y = -Z, Z = Y).
// Apply it before LeftHanded, never after.
func (v Vec3) RotateNoseDown() Vec3 {
	return Vec3{v.X, -v.Z, v.Y}
}

// Convert applies the optional nose-down rotation followed by the
// handedness conversion.
func (v Vec3) Convert(rotate bool) Vec3 {
	if rotate {
		v = v.RotateNoseDown()
	}
	return v.LeftHanded()
}
