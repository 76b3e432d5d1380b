package mesh

import (
	"sort"

	"cogentcore.org/core/ordmap"
)

// Condense sorts the groups by order key and renumbers the keys to 0..n-1.
// Positional lookups (GroupByIndex, output order) rely on the keys being
// contiguous.
func (m *Mesh) Condense() {
	groups := m.groups.Values()
	sort.SliceStable(groups, func(i, j int) bool {
		return groups[i].order < groups[j].order
	})
	m.setGroupOrder(groups)
}

// PurgeEmptyGroups removes groups without faces and condenses the order
// keys. It returns the number of groups removed.
func (m *Mesh) PurgeEmptyGroups() int {
	m.Condense()
	kept := make([]*Group, 0, m.groups.Len())
	for _, kv := range m.groups.Order {
		if len(kv.Value.Faces) > 0 {
			kept = append(kept, kv.Value)
		}
	}
	removed := m.groups.Len() - len(kept)
	m.setGroupOrder(kept)
	return removed
}

// PurgeUnusedMaterials removes materials no group references. The
// survivors are renumbered 1..n in the order the groups first use them, and
// their texture indices are compacted the same way. It returns the number
// of materials removed.
func (m *Mesh) PurgeUnusedMaterials() int {
	used := make([]*Material, 0, m.materials.Len())
	seen := make(map[string]bool)
	for _, kv := range m.groups.Order {
		mat := kv.Value.Material
		if mat == nil || seen[mat.Name] {
			continue
		}
		seen[mat.Name] = true
		used = append(used, mat)
	}
	removed := m.materials.Len() - len(used)
	m.setMaterialOrder(used)
	return removed
}

// ReorderTransparent moves transparent materials after all opaque ones and
// does the same for the groups using them, so the renderer draws
// transparent geometry last. Relative order inside each partition is kept.
func (m *Mesh) ReorderTransparent() {
	m.setMaterialOrder(opaqueFirst(m.materials.Values(), (*Material).IsTransparent))
	m.setGroupOrder(opaqueFirst(m.groups.Values(), (*Group).IsTransparent))
}

// opaqueFirst is a stable partition of items into opaque then transparent.
func opaqueFirst[T any](items []T, transparent func(T) bool) []T {
	out := make([]T, 0, len(items))
	var back []T
	for _, it := range items {
		if transparent(it) {
			back = append(back, it)
		} else {
			out = append(out, it)
		}
	}
	return append(out, back...)
}

// setMaterialOrder rebuilds the material registry from mats, assigning
// material indices 1..n and texture indices 1..t in that order.
func (m *Mesh) setMaterialOrder(mats []*Material) {
	kvs := make([]ordmap.KeyValue[string, *Material], len(mats))
	texture := 1
	for i, mat := range mats {
		mat.Index = i + 1
		if mat.HasTexture() {
			mat.TextureIndex = texture
			texture++
		}
		kvs[i] = ordmap.KeyValue[string, *Material]{Key: mat.Name, Value: mat}
	}
	m.materials = ordmap.Make(kvs)
	m.nextMaterialIndex = len(mats) + 1
	m.nextTextureIndex = texture
}

// setGroupOrder rebuilds the group registry from groups, assigning order
// keys 0..n-1.
func (m *Mesh) setGroupOrder(groups []*Group) {
	kvs := make([]ordmap.KeyValue[string, *Group], len(groups))
	for i, g := range groups {
		g.order = i
		kvs[i] = ordmap.KeyValue[string, *Group]{Key: g.Name, Value: g}
	}
	m.groups = ordmap.Make(kvs)
}
