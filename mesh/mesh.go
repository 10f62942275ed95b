// Package mesh implements the compact no-leaf BVH over a triangle mesh:
// build from a generic binary tree, bottom-up refit driven by a vertex
// supplier, and the tagged child references that let one array slot
// discriminate between "another node" and "a triangle".
package mesh

import (
	"github.com/go-gl/mathgl/mgl64"

	"github.com/akmonengine/meshforge/aabb"
)

// VertexSupplier maps a triangle index to its three vertices. It must be
// pure within a single query or refit pass — this indirection is what lets
// a mesh deform without a full BVH rebuild (spec §3).
type VertexSupplier func(triangleIndex int) (v0, v1, v2 mgl64.Vec3)

// MeshDataFlags packs the per-triangle bits spec §6 names: kEdge0..kEdge2
// and kVert0..kVert2 disable specific SAT axes on coincident mesh seams,
// and ClosedSurface enables single-sided capsule testing (§4.8).
type MeshDataFlags uint8

const (
	FlagEdge0 MeshDataFlags = 1 << iota
	FlagEdge1
	FlagEdge2
	FlagVert0
	FlagVert1
	FlagVert2
	FlagClosedSurface
)

// ChildRef is the sum type spec §9 calls for in place of a tagged bit on a
// raw pointer: a single value that is either "another internal node" or "a
// triangle", never both, and never manipulated as a bitfield.
type ChildRef struct {
	Index       uint32
	IsPrimitive bool
}

// Node is one entry of the compact no-leaf BVH array (spec §3): a tight
// AABB over its subtree, and two tagged child references.
type Node struct {
	Box      aabb.AABB
	Pos, Neg ChildRef
}

// Mesh owns the compact BVH array, the triangle count, the vertex supplier,
// and the optional per-triangle flags. It is built once (Build) and mutated
// only by Refit; the BVH's topology never changes after Build.
//
// Root is almost always {Index: 0, IsPrimitive: false} — the degenerate
// T==1 mesh (no internal nodes at all) is the one case where the root
// itself is a primitive, so traversal always starts from Root rather than
// assuming Nodes[0].
type Mesh struct {
	Nodes         []Node
	Root          ChildRef
	TriangleCount int
	Vertices      VertexSupplier
	Flags         []MeshDataFlags // len == TriangleCount, or nil if unused
	ClosedSurface bool
}

// Triangle returns the three mesh-local vertices of triangle i, as
// supplied by the mesh's VertexSupplier; a geom's transform places them in
// the world.
func (m *Mesh) Triangle(i int) (v0, v1, v2 mgl64.Vec3) {
	return m.Vertices(i)
}

// FlagsFor returns the mesh-data flags for triangle i, or 0 if the mesh
// carries no flags.
func (m *Mesh) FlagsFor(i int) MeshDataFlags {
	if m.Flags == nil {
		return 0
	}
	return m.Flags[i]
}

// RootBox returns the bounding box of the whole mesh. For the degenerate
// single-triangle mesh (Root is a primitive) it is computed directly from
// that triangle's vertices.
func (m *Mesh) RootBox() aabb.AABB {
	if m.Root.IsPrimitive {
		v0, v1, v2 := m.Triangle(int(m.Root.Index))
		return aabb.FromPoints(v0, v1, v2)
	}
	return m.Nodes[m.Root.Index].Box
}
