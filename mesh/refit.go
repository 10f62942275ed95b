package mesh

import "github.com/akmonengine/meshforge/aabb"

// Refit recomputes every node's AABB bottom-up, from the last array index
// to 0, per spec §4.3. Visiting in reverse index order is sufficient
// because Build's slot assignment guarantees a child's slot is always
// later than its parent's (see build.go), so every child is refit before
// the parent that reads its box.
//
// Topology (Pos/Neg tagging) is never touched — only Box fields change.
func (m *Mesh) Refit() {
	for i := len(m.Nodes) - 1; i >= 0; i-- {
		n := &m.Nodes[i]
		n.Box = m.childBox(n.Pos).Union(m.childBox(n.Neg))
	}
}

// childBox resolves one tagged child reference to its current AABB: a
// primitive is re-measured from its (possibly deformed) vertices, an
// internal node's box is read directly since it was already refit.
func (m *Mesh) childBox(ref ChildRef) aabb.AABB {
	if ref.IsPrimitive {
		v0, v1, v2 := m.Vertices(int(ref.Index))
		return aabb.FromPoints(v0, v1, v2)
	}
	return m.Nodes[ref.Index].Box
}
