package traverse

import (
	"github.com/go-gl/mathgl/mgl64"

	"github.com/akmonengine/meshforge/aabb"
	"github.com/akmonengine/meshforge/mesh"
	"github.com/akmonengine/meshforge/sat"
	"github.com/akmonengine/meshforge/vecmath"
)

// CollideMeshes descends both BVHs together (spec §4.4, the active
// "alternative" code path): at each node pair it tests AABBs via
// OBB-vs-OBB using a relative transform precomputed once up front, then
// either runs triangle-triangle on two primitives or recurses into the
// 2-to-4 child combinations. When firstContact is true, descent
// short-circuits at the first accepted contact.
//
// geomA/geomB are opaque caller IDs stamped into every emitted Contact's
// GeomA/GeomB fields; they carry no traversal meaning here.
func CollideMeshes(
	meshA *mesh.Mesh, transformA Transform, geomA int32,
	meshB *mesh.Mesh, transformB Transform, geomB int32,
	firstContact bool,
	cache *PairCache,
	buf *sat.ContactBuffer,
	stats *Stats,
) bool {
	relRotBinA := vecmath.Transpose3(transformA.Rotation).Mul3(transformB.Rotation)
	relTransBinA := vecmath.Rotate3(vecmath.Transpose3(transformA.Rotation), transformB.Translation.Sub(transformA.Translation))

	if firstContact && cache != nil && cache.Valid {
		v0a, v1a, v2a := meshA.Triangle(int(cache.PrimA))
		v0b, v1b, v2b := meshB.Triangle(int(cache.PrimB))
		v0b, v1b, v2b = transformLocalBinA(relRotBinA, relTransBinA, v0b), transformLocalBinA(relRotBinA, relTransBinA, v1b), transformLocalBinA(relRotBinA, relTransBinA, v2b)
		stats.PrimTests++
		if sat.IntersectTriangleTriangle(v0a, v1a, v2a, meshA.FlagsFor(int(cache.PrimA)), cache.PrimA, v0b, v1b, v2b, meshB.FlagsFor(int(cache.PrimB)), cache.PrimB, buf) {
			stats.Intersections++
			stampGeoms(buf, geomA, geomB)
			return true
		}
		cache.Clear()
	}

	found := collidePair(meshA, meshA.Root, meshB, meshB.Root, relRotBinA, relTransBinA, firstContact, cache, buf, stats)
	if found {
		stampGeoms(buf, geomA, geomB)
	}
	return found
}

// collidePair tests refA (in meshA) against refB (in meshB, expressed
// through the A-relative transform) and recurses. relRotBinA/relTransBinA
// carry meshB's local points into meshA's local frame.
func collidePair(
	meshA *mesh.Mesh, refA mesh.ChildRef,
	meshB *mesh.Mesh, refB mesh.ChildRef,
	relRotBinA mgl64.Mat3, relTransBinA mgl64.Vec3,
	firstContact bool,
	cache *PairCache,
	buf *sat.ContactBuffer,
	stats *Stats,
) bool {
	stats.BVTests++

	boxA := boxOf(meshA, refA)
	boxB := boxOf(meshB, refB)
	boxBinA := aabb.OBB{
		Center:   relRotBinA.Mul3x1(boxB.Center).Add(relTransBinA),
		Extents:  boxB.Extents,
		Rotation: relRotBinA,
	}
	if !aabb.OverlapOBBAABB(boxBinA, boxA) {
		return false
	}

	if refA.IsPrimitive && refB.IsPrimitive {
		stats.PrimTests++
		v0a, v1a, v2a := meshA.Triangle(int(refA.Index))
		v0b, v1b, v2b := meshB.Triangle(int(refB.Index))
		v0b = transformLocalBinA(relRotBinA, relTransBinA, v0b)
		v1b = transformLocalBinA(relRotBinA, relTransBinA, v1b)
		v2b = transformLocalBinA(relRotBinA, relTransBinA, v2b)

		if sat.IntersectTriangleTriangle(
			v0a, v1a, v2a, meshA.FlagsFor(int(refA.Index)), int32(refA.Index),
			v0b, v1b, v2b, meshB.FlagsFor(int(refB.Index)), int32(refB.Index),
			buf,
		) {
			stats.Intersections++
			if cache != nil {
				cache.Hit(int32(refA.Index), int32(refB.Index))
			}
			return true
		}
		return false
	}

	childrenA := childrenOf(meshA, refA)
	childrenB := childrenOf(meshB, refB)

	for _, ca := range childrenA {
		for _, cb := range childrenB {
			if collidePair(meshA, ca, meshB, cb, relRotBinA, relTransBinA, firstContact, cache, buf, stats) {
				if firstContact {
					return true
				}
			}
		}
	}
	return len(buf.Contacts) > 0
}

func transformLocalBinA(rot mgl64.Mat3, trans mgl64.Vec3, p mgl64.Vec3) mgl64.Vec3 {
	return rot.Mul3x1(p).Add(trans)
}

// boxOf resolves a tagged child reference to its current AABB: a
// primitive is measured fresh from its vertices, an internal node's box
// is read directly from the mesh's compact array.
func boxOf(m *mesh.Mesh, ref mesh.ChildRef) aabb.AABB {
	if ref.IsPrimitive {
		v0, v1, v2 := m.Triangle(int(ref.Index))
		return aabb.FromPoints(v0, v1, v2)
	}
	return m.Nodes[ref.Index].Box
}

// childrenOf returns ref's 1 or 2 "children" for descent purposes: a
// primitive is its own sole child (nothing further to split), an internal
// node yields its Pos and Neg references.
func childrenOf(m *mesh.Mesh, ref mesh.ChildRef) []mesh.ChildRef {
	if ref.IsPrimitive {
		return []mesh.ChildRef{ref}
	}
	n := m.Nodes[ref.Index]
	return []mesh.ChildRef{n.Pos, n.Neg}
}

// stampGeoms fills in GeomA/GeomB on every contact this call appended. A
// ContactBuffer is expected to be scoped to a single geom pair's query, so
// it is safe to stamp every entry unconditionally.
func stampGeoms(buf *sat.ContactBuffer, geomA, geomB int32) {
	for i := range buf.Contacts {
		buf.Contacts[i].GeomA, buf.Contacts[i].GeomB = geomA, geomB
	}
}
