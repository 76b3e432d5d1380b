package mesh

import "fmt"

// NoTexture is the texture index of a triplet without texture coordinates.
const NoTexture = -1

// Triplet identifies one corner of a face by 0-based indices into the
// vertex, texture-coordinate and normal registries. Two triplets are the
// same output vertex iff all three indices match.
type Triplet struct {
	Vertex  int
	Texture int // NoTexture if absent
	Normal  int
}

// HasTexture reports whether the triplet references texture coordinates.
func (t Triplet) HasTexture() bool {
	return t.Texture != NoTexture
}

// String returns the triplet in OBJ notation (1-based).
func (t Triplet) String() string {
	if !t.HasTexture() {
		return fmt.Sprintf("%d//%d", t.Vertex+1, t.Normal+1)
	}
	return fmt.Sprintf("%d/%d/%d", t.Vertex+1, t.Texture+1, t.Normal+1)
}

// Face is a triangle.
type Face [3]Triplet

// Flip reverses the winding order in place by swapping the second and
// third corners: (i,j,k) -> (i,k,j).
func (f *Face) Flip() {
	f[1], f[2] = f[2], f[1]
}
