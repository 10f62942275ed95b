// Package traverse implements the BVH pair descent (tree-vs-tree) and
// single-query descent (OBB-vs-tree, ray-vs-tree) that drive the narrow
// phase: walking a mesh's compact BVH to collect candidate triangles, or
// descending two BVHs together to find colliding triangle pairs directly.
package traverse

import (
	"github.com/go-gl/mathgl/mgl64"

	"github.com/akmonengine/meshforge/mesh"
)

// Transform is a rigid transform (rotation + translation, no scale — spec
// §4.4 leaves scale unsupported by contract) placing a mesh's local space
// into world space.
type Transform struct {
	Rotation    mgl64.Mat3
	Translation mgl64.Vec3
}

// FromQuat builds a Transform from a position and orientation quaternion,
// the representation callers updating a rigid body's pose most naturally
// hold (adapted from the teacher's own actor.Transform, which paired a
// position with a mgl64.Quat).
func FromQuat(position mgl64.Vec3, rotation mgl64.Quat) Transform {
	return Transform{Rotation: rotation.Mat4().Mat3(), Translation: position}
}

// Stats accumulates the diagnostic counters spec §4.5 calls for: how many
// node-pair overlap tests ran, how many triangle-level tests ran, and how
// many of those produced a contact.
type Stats struct {
	BVTests       int
	PrimTests     int
	Intersections int
}

// Callback is the optional array callback (spec §6): invoked once per
// single-mesh query after candidate triangles are collected, before
// contact generation runs.
type Callback func(m *mesh.Mesh, triangleIndices []int32)

// RayCallback filters ray hits before contact emission (spec §6): return
// false to reject a hit that would otherwise be accepted.
type RayCallback func(m *mesh.Mesh, triangleIndex int32, u, v float64) bool
