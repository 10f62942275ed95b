package meshforge

import (
	"github.com/go-gl/mathgl/mgl64"

	"github.com/akmonengine/meshforge/aabb"
	"github.com/akmonengine/meshforge/mesh"
	"github.com/akmonengine/meshforge/sat"
	"github.com/akmonengine/meshforge/traverse"
	"github.com/akmonengine/meshforge/vecmath"
)

// toLocal carries a world-space point into transform's local frame — the
// inverse of the rigid transform Geom.Transform applies when placing a mesh
// in the world.
func toLocal(transform traverse.Transform, worldPoint mgl64.Vec3) mgl64.Vec3 {
	inv := vecmath.Transpose3(transform.Rotation)
	return vecmath.Rotate3(inv, worldPoint.Sub(transform.Translation))
}

// boxToLocal carries a world-space OBB into transform's local frame.
func boxToLocal(transform traverse.Transform, box aabb.OBB) aabb.OBB {
	inv := vecmath.Transpose3(transform.Rotation)
	return aabb.OBB{
		Center:   vecmath.Rotate3(inv, box.Center.Sub(transform.Translation)),
		Extents:  box.Extents,
		Rotation: inv.Mul3(box.Rotation),
	}
}

// CollideBox runs the box-triangle narrow phase (C8) between a world-space
// probe OBB and id's mesh: QueryOBB collects every BVH leaf the probe
// overlaps, and IntersectBoxTriangle is then run against each one, matching
// spec §2's description of the single-mesh query path. Contacts come back
// in id's local frame, same as Collide/CollideGeom.
func (w *World) CollideBox(id int32, box aabb.OBB) ([]sat.Contact, traverse.Stats) {
	g, ok := w.geoms[id]
	if !ok {
		w.log.Warningf("CollideBox: unknown geom %d", id)
		return nil, traverse.Stats{}
	}

	localBox := boxToLocal(g.Transform, box)
	var stats traverse.Stats
	_, candidates := traverse.QueryOBB(g.Mesh, localBox, nil, w.Settings.OBBCacheFattenCoeff, nil, &stats)

	buf := sat.NewContactBuffer(w.Settings.ContactCap, w.Settings.UnimportantContacts, w.tolerances())
	for _, tri := range candidates {
		v0, v1, v2 := g.Mesh.Triangle(int(tri))
		if sat.IntersectBoxTriangle(localBox, v0, v1, v2, g.Mesh.FlagsFor(int(tri)), tri, buf) {
			stats.Intersections++
		}
		if buf.Unimportant && buf.Full() {
			break
		}
	}
	for i := range buf.Contacts {
		buf.Contacts[i].GeomA = id
		buf.Contacts[i].GeomB = -1
	}
	return buf.Contacts, stats
}

// CollideCapsule runs the capsule-triangle narrow phase (C9) between a
// world-space probe capsule (segment p0-p1, radius r) and id's mesh,
// the same way CollideBox drives C8: QueryOBB against the capsule's
// bounding OBB collects candidates, then IntersectCapsuleTriangle tests
// each one. A triangle carrying FlagClosedSurface is tested single-sided
// when radius*1.5 is below every extent of the mesh's root AABB.
func (w *World) CollideCapsule(id int32, p0, p1 mgl64.Vec3, radius float64) ([]sat.Contact, traverse.Stats) {
	g, ok := w.geoms[id]
	if !ok {
		w.log.Warningf("CollideCapsule: unknown geom %d", id)
		return nil, traverse.Stats{}
	}

	localP0 := toLocal(g.Transform, p0)
	localP1 := toLocal(g.Transform, p1)
	localBox := capsuleBoundingOBB(localP0, localP1, radius)

	var stats traverse.Stats
	_, candidates := traverse.QueryOBB(g.Mesh, localBox, nil, w.Settings.OBBCacheFattenCoeff, nil, &stats)

	buf := sat.NewContactBuffer(w.Settings.ContactCap, w.Settings.UnimportantContacts, w.tolerances())
	ext := g.Mesh.RootBox().Extents
	thin := radius*1.5 < minF(ext.X(), minF(ext.Y(), ext.Z()))
	for _, tri := range candidates {
		v0, v1, v2 := g.Mesh.Triangle(int(tri))
		flags := g.Mesh.FlagsFor(int(tri))
		singleSided := thin && flags&mesh.FlagClosedSurface != 0
		if sat.IntersectCapsuleTriangle(localP0, localP1, radius, v0, v1, v2, flags, tri, singleSided, buf) {
			stats.Intersections++
		}
		if buf.Unimportant && buf.Full() {
			break
		}
	}
	for i := range buf.Contacts {
		buf.Contacts[i].GeomA = id
		buf.Contacts[i].GeomB = -1
	}
	return buf.Contacts, stats
}

// capsuleBoundingOBB returns the axis-aligned-in-local-space box bounding a
// capsule, used purely to drive QueryOBB's candidate collection — the SAT
// itself tests the capsule's true segment/radius shape, not this box.
func capsuleBoundingOBB(p0, p1 mgl64.Vec3, radius float64) aabb.OBB {
	min := mgl64.Vec3{
		minF(p0.X(), p1.X()) - radius,
		minF(p0.Y(), p1.Y()) - radius,
		minF(p0.Z(), p1.Z()) - radius,
	}
	max := mgl64.Vec3{
		maxF(p0.X(), p1.X()) + radius,
		maxF(p0.Y(), p1.Y()) + radius,
		maxF(p0.Z(), p1.Z()) + radius,
	}
	center := min.Add(max).Mul(0.5)
	extents := max.Sub(min).Mul(0.5)
	return aabb.OBB{Center: center, Extents: extents, Rotation: mgl64.Ident3()}
}

func minF(a, b float64) float64 {
	if a < b {
		return a
	}
	return b
}

func maxF(a, b float64) float64 {
	if a > b {
		return a
	}
	return b
}

// Raycast runs the ray-triangle narrow phase (C6) against id's mesh via
// QueryRay, the single-mesh query path spec §2 describes alongside
// CollideBox/CollideCapsule. The ray is given in world space; the returned
// hit point is computed and returned in world space since a raycast result
// is normally consumed directly by the caller rather than chained into
// further mesh-local queries.
func (w *World) Raycast(id int32, ray aabb.Ray, cull bool) (hitPoint mgl64.Vec3, primIndex int32, t float64, hit bool) {
	g, ok := w.geoms[id]
	if !ok {
		w.log.Warningf("Raycast: unknown geom %d", id)
		return mgl64.Vec3{}, 0, 0, false
	}

	localOrigin := toLocal(g.Transform, ray.Origin)
	localDir := vecmath.Rotate3(vecmath.Transpose3(g.Transform.Rotation), ray.Direction)
	localRay := aabb.Ray{Origin: localOrigin, Direction: localDir, MaxDist: ray.MaxDist}

	var stats traverse.Stats
	primIndex, t, _, _, hit = traverse.QueryRay(g.Mesh, localRay, cull, w.Settings.RayEpsilon, nil, &stats)
	if !hit {
		return mgl64.Vec3{}, 0, 0, false
	}

	localHit := localOrigin.Add(localDir.Mul(t))
	hitPoint = g.Transform.Rotation.Mul3x1(localHit).Add(g.Transform.Translation)
	return hitPoint, primIndex, t, true
}
