// Package mesh holds the in-memory model of one conversion run: geometry
// registries, the material and group registries, and the passes that purge,
// condense and reorder them before output.
package mesh

import (
	"fmt"

	"cogentcore.org/core/ordmap"

	"github.com/Faultbox/obj2msh/pkg/math"
)

// unorderedGroupStart is the first order key handed to groups without an
// explicit order, leaving room for every explicitly ordered group ahead of
// them until Condense renumbers the keys.
const unorderedGroupStart = 100000

// Mesh is the state of a single conversion run. Create a new one per run;
// material and texture counters start at 1 and are never shared.
type Mesh struct {
	Vertices  []math.Vec3
	Normals   []math.Vec3
	TexCoords []math.Vec2

	materials *ordmap.Map[string, *Material]
	groups    *ordmap.Map[string, *Group]

	nextMaterialIndex int
	nextTextureIndex  int
	nextUnordered     int
	explicitOrders    map[int]string
}

// New returns an empty mesh with fresh counters.
func New() *Mesh {
	return &Mesh{
		materials:         ordmap.New[string, *Material](),
		groups:            ordmap.New[string, *Group](),
		nextMaterialIndex: 1,
		nextTextureIndex:  1,
		nextUnordered:     unorderedGroupStart,
		explicitOrders:    make(map[int]string),
	}
}

// AddVertex appends a vertex position.
func (m *Mesh) AddVertex(v math.Vec3) {
	m.Vertices = append(m.Vertices, v)
}

// AddNormal appends a vertex normal.
func (m *Mesh) AddNormal(n math.Vec3) {
	m.Normals = append(m.Normals, n)
}

// AddTexCoord appends a texture coordinate.
func (m *Mesh) AddTexCoord(c math.Vec2) {
	m.TexCoords = append(m.TexCoords, c)
}

// Vertex returns the vertex at index i.
func (m *Mesh) Vertex(i int) (math.Vec3, error) {
	if i < 0 || i >= len(m.Vertices) {
		return math.Vec3{}, &IndexError{Kind: "vertex", Index: i, Len: len(m.Vertices)}
	}
	return m.Vertices[i], nil
}

// Normal returns the normal at index i.
func (m *Mesh) Normal(i int) (math.Vec3, error) {
	if i < 0 || i >= len(m.Normals) {
		return math.Vec3{}, &IndexError{Kind: "normal", Index: i, Len: len(m.Normals)}
	}
	return m.Normals[i], nil
}

// TexCoord returns the texture coordinate at index i. For NoTexture it
// returns ok == false and no error.
func (m *Mesh) TexCoord(i int) (c math.Vec2, ok bool, err error) {
	if i == NoTexture {
		return math.Vec2{}, false, nil
	}
	if i < 0 || i >= len(m.TexCoords) {
		return math.Vec2{}, false, &IndexError{Kind: "texture", Index: i, Len: len(m.TexCoords)}
	}
	return m.TexCoords[i], true, nil
}

// AddMaterial registers a new material under name and assigns it the next
// material index.
func (m *Mesh) AddMaterial(name string) (*Material, error) {
	if _, ok := m.materials.ValueByKeyTry(name); ok {
		return nil, fmt.Errorf("%w: %q", ErrDuplicateMaterial, name)
	}
	mat := &Material{Name: name, Index: m.nextMaterialIndex}
	m.nextMaterialIndex++
	m.materials.Add(name, mat)
	return mat, nil
}

// SetTexture sets the material's texture file and assigns it the next
// texture index.
func (m *Mesh) SetTexture(mat *Material, filename string) {
	mat.TextureFile = filename
	mat.TextureIndex = m.nextTextureIndex
	m.nextTextureIndex++
}

// Material looks up a material by name.
func (m *Mesh) Material(name string) (*Material, bool) {
	return m.materials.ValueByKeyTry(name)
}

// Materials returns the materials in index order.
func (m *Mesh) Materials() []*Material {
	return m.materials.Values()
}

// MaterialCount returns the number of registered materials.
func (m *Mesh) MaterialCount() int {
	return m.materials.Len()
}

// TextureCount returns the number of materials with a texture.
func (m *Mesh) TextureCount() int {
	n := 0
	for _, kv := range m.materials.Order {
		if kv.Value.HasTexture() {
			n++
		}
	}
	return n
}

// AddGroup returns the group called name, creating it if it does not exist
// yet. A new group with order >= 0 takes that explicit order key; order < 0
// appends it after all explicitly ordered groups. The order of an existing
// group is never changed. created reports whether a group was made.
func (m *Mesh) AddGroup(name string, order int) (g *Group, created bool) {
	if g, ok := m.groups.ValueByKeyTry(name); ok {
		return g, false
	}
	g = &Group{Name: name}
	if order >= 0 {
		g.order = order
		m.explicitOrders[order] = name
	} else {
		g.order = m.nextUnordered
		m.nextUnordered++
	}
	m.groups.Add(name, g)
	return g, true
}

// OrderClaimed reports whether an explicit order key is already used, and by
// which group.
func (m *Mesh) OrderClaimed(order int) (string, bool) {
	name, ok := m.explicitOrders[order]
	return name, ok
}

// Group looks up a group by name.
func (m *Mesh) Group(name string) (*Group, bool) {
	return m.groups.ValueByKeyTry(name)
}

// GroupByIndex returns the group at position i of the registry. Positions
// match order keys only after Condense.
func (m *Mesh) GroupByIndex(i int) *Group {
	return m.groups.ValueByIndex(i)
}

// Groups returns the groups in registry order.
func (m *Mesh) Groups() []*Group {
	return m.groups.Values()
}

// GroupCount returns the number of groups.
func (m *Mesh) GroupCount() int {
	return m.groups.Len()
}

// FaceCount returns the total number of faces over all groups.
func (m *Mesh) FaceCount() int {
	n := 0
	for _, kv := range m.groups.Order {
		n += len(kv.Value.Faces)
	}
	return n
}

// FlipFaces flips the winding of every face, correcting inside-out
// rendering of meshes exported with the opposite convention.
func (m *Mesh) FlipFaces() {
	for _, kv := range m.groups.Order {
		g := kv.Value
		for i := range g.Faces {
			g.Faces[i].Flip()
		}
	}
}

// Summary holds the registry sizes of a mesh.
type Summary struct {
	Groups    int
	Vertices  int
	Normals   int
	TexCoords int
	Faces     int
	Materials int
	Textures  int
}

// Summary returns the current registry sizes.
func (m *Mesh) Summary() Summary {
	return Summary{
		Groups:    m.GroupCount(),
		Vertices:  len(m.Vertices),
		Normals:   len(m.Normals),
		TexCoords: len(m.TexCoords),
		Faces:     m.FaceCount(),
		Materials: m.MaterialCount(),
		Textures:  m.TextureCount(),
	}
}
