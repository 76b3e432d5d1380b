package mesh

// Group is a named set of faces sharing at most one material.
type Group struct {
	Name     string
	Faces    []Face
	Material *Material // nil selects the target's default material

	order int
}

// AddFace appends a face to the group.
func (g *Group) AddFace(f Face) {
	g.Faces = append(g.Faces, f)
}

// Order returns the group's order key. After Mesh.Condense it is the
// group's position in the output.
func (g *Group) Order() int {
	return g.order
}

// MaterialIndex returns the output material index, 0 if none.
func (g *Group) MaterialIndex() int {
	if g.Material == nil {
		return 0
	}
	return g.Material.Index
}

// TextureIndex returns the output texture index, 0 if none.
func (g *Group) TextureIndex() int {
	if g.Material == nil {
		return 0
	}
	return g.Material.TextureIndex
}

// IsTransparent reports whether the group's material is transparent. Groups
// without a material use the opaque default.
func (g *Group) IsTransparent() bool {
	return g.Material != nil && g.Material.IsTransparent()
}
