package formats

import (
	"github.com/pkg/errors"

	"github.com/Faultbox/obj2msh/pkg/math"
	"github.com/Faultbox/obj2msh/pkg/mesh"
)

// Vertex is one output vertex in target coordinates.
type Vertex struct {
	Pos    math.Vec3
	Normal math.Vec3
	UV     math.Vec2
	HasUV  bool
}

// Geometry is the deduplicated output of one group. Faces index Vertices.
type Geometry struct {
	Vertices []Vertex
	Faces    [][3]int

	// Reused counts triplets that matched an earlier one in the group.
	Reused int
}

// BuildGeometry turns a group's faces into an indexed vertex list. Each
// distinct triplet becomes one vertex, numbered in order of first
// occurrence. Identity is scoped to the group. Positions and normals are
// rotated (if rotate is set) and then converted to left-handed coordinates.
// A triplet referencing a missing registry entry fails with an error
// matching mesh.ErrIndexOutOfRange. If reused is not nil it is called for
// every triplet that matched an earlier one, with the vertex it maps to.
func BuildGeometry(m *mesh.Mesh, g *mesh.Group, rotate bool, reused func(t mesh.Triplet, vertex int)) (*Geometry, error) {
	geom := &Geometry{Faces: make([][3]int, 0, len(g.Faces))}
	local := make(map[mesh.Triplet]int, len(g.Faces)*3)

	for _, f := range g.Faces {
		for _, t := range f {
			if i, ok := local[t]; ok {
				geom.Reused++
				if reused != nil {
					reused(t, i)
				}
				continue
			}
			v, err := resolve(m, t, rotate)
			if err != nil {
				return nil, errors.Wrapf(err, "group %q, triplet %s", g.Name, t)
			}
			local[t] = len(geom.Vertices)
			geom.Vertices = append(geom.Vertices, v)
		}
	}

	for _, f := range g.Faces {
		geom.Faces = append(geom.Faces, [3]int{local[f[0]], local[f[1]], local[f[2]]})
	}
	return geom, nil
}

func resolve(m *mesh.Mesh, t mesh.Triplet, rotate bool) (Vertex, error) {
	pos, err := m.Vertex(t.Vertex)
	if err != nil {
		return Vertex{}, err
	}
	normal, err := m.Normal(t.Normal)
	if err != nil {
		return Vertex{}, err
	}
	uv, ok, err := m.TexCoord(t.Texture)
	if err != nil {
		return Vertex{}, err
	}

	v := Vertex{
		Pos:    pos.Convert(rotate),
		Normal: normal.Convert(rotate),
		HasUV:  ok,
	}
	if ok {
		v.UV = uv.LeftHanded()
	}
	return v, nil
}
