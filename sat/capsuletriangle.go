package sat

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/akmonengine/meshforge/mesh"
	"github.com/akmonengine/meshforge/vecmath"
)

type capsuleTriAxisCategory int

const (
	capCatTriNormal capsuleTriAxisCategory = iota
	capCatAxisEdge                         // capsule axis × triangle edge i
	capCatAxisVertex                       // capsule axis × (vertex i - p0)
	capCatEndpointVertex                   // vertex i - endpoint
	capCatEndpointEdge                     // (endpoint - edge start i) × edge i
)

// IntersectCapsuleTriangle runs the 19-axis SAT between a capsule (segment
// p0-p1, radius r) and a triangle (spec §4.8): the triangle normal; the
// capsule axis crossed with each triangle edge (3) and each vertex
// direction (3); each endpoint-to-vertex direction (6); and each
// endpoint-offset crossed with each triangle edge (6).
//
// singleSided implements the closed-surface rule: when the mesh's
// close-surface flag is set and the capsule is thin relative to the mesh
// (checked by the caller against the mesh's root AABB extents), contacts on
// the back side of the triangle's original winding are discarded.
func IntersectCapsuleTriangle(
	p0, p1 mgl64.Vec3, radius float64,
	v0, v1, v2 mgl64.Vec3, flags mesh.MeshDataFlags, triIndex int32,
	singleSided bool,
	buf *ContactBuffer,
) bool {
	triPts := [3]mgl64.Vec3{v0, v1, v2}
	triEdge := [3]mgl64.Vec3{v1.Sub(v0), v2.Sub(v1), v0.Sub(v2)}

	triNormal := triEdge[0].Cross(triEdge[1])
	if triNormal.LenSqr() < 1e-18 {
		return false
	}
	triNormal = triNormal.Normalize()

	capsuleAxis := p1.Sub(p0)
	if capsuleAxis.LenSqr() > 1e-18 {
		capsuleAxis = capsuleAxis.Normalize()
	}

	capCentroid := p0.Add(p1).Mul(0.5)
	triCentroid := v0.Add(v1).Add(v2).Mul(1.0 / 3.0)
	toCapsule := capCentroid.Sub(triCentroid)

	bestBiased := math.Inf(1)
	var bestDepth float64
	var bestAxis mgl64.Vec3
	var bestCat capsuleTriAxisCategory
	var bestIdx int

	consider := func(axis mgl64.Vec3, biased bool, cat capsuleTriAxisCategory, idx int) bool {
		if axis.LenSqr() < 1e-14 {
			return true
		}
		axis = axis.Normalize()

		triMin, triMax := projectExtent(axis, triPts[:])
		d0, d1 := p0.Dot(axis), p1.Dot(axis)
		capMin, capMax := math.Min(d0, d1)-radius, math.Max(d0, d1)+radius

		overlap := math.Min(triMax, capMax) - math.Max(triMin, capMin)
		if overlap < 0 {
			return false
		}
		biasedDepth := overlap
		if biased {
			biasedDepth *= buf.EdgeAxisBias
		}
		if biasedDepth < bestBiased {
			bestBiased = biasedDepth
			bestDepth = overlap
			if axis.Dot(toCapsule) < 0 {
				axis = axis.Mul(-1)
			}
			bestAxis = axis
			bestCat = cat
			bestIdx = idx
		}
		return true
	}

	if !consider(triNormal, false, capCatTriNormal, 0) {
		return false
	}
	for i := 0; i < 3; i++ {
		if edgeFlagSet(flags, i) {
			continue
		}
		if !consider(capsuleAxis.Cross(triEdge[i]), true, capCatAxisEdge, i) {
			return false
		}
	}
	for i := 0; i < 3; i++ {
		if !consider(capsuleAxis.Cross(triPts[i].Sub(p0)), true, capCatAxisVertex, i) {
			return false
		}
	}
	for i := 0; i < 3; i++ {
		if !consider(triPts[i].Sub(p0), true, capCatEndpointVertex, i) {
			return false
		}
		if !consider(triPts[i].Sub(p1), true, capCatEndpointVertex, i) {
			return false
		}
	}
	edgeStart := [3]mgl64.Vec3{v0, v1, v2}
	for i := 0; i < 3; i++ {
		if edgeFlagSet(flags, i) {
			continue
		}
		if !consider(p0.Sub(edgeStart[i]).Cross(triEdge[i]), true, capCatEndpointEdge, i) {
			return false
		}
		if !consider(p1.Sub(edgeStart[i]).Cross(triEdge[i]), true, capCatEndpointEdge, i) {
			return false
		}
	}

	if singleSided {
		// Discard contacts whose capsule centroid sits behind the
		// triangle's original winding (the mesh's interior side).
		if capCentroid.Sub(triCentroid).Dot(triNormal) < 0 {
			return true
		}
	}

	switch bestCat {
	case capCatTriNormal:
		emitCapsuleFaceContacts(p0, p1, radius, triPts, triNormal, bestAxis, bestDepth, triIndex, buf)
	case capCatAxisEdge, capCatEndpointEdge:
		a1, a2 := triPts[bestIdx], triPts[(bestIdx+1)%3]
		emitCapsuleEdgeContact(p0, p1, a1, a2, bestAxis, bestDepth, radius, triIndex, buf)
	case capCatAxisVertex, capCatEndpointVertex:
		cp, _ := vecmath.ClosestPointOnSegment(triPts[bestIdx], p0, p1)
		pos := cp.Sub(bestAxis.Mul(radius))
		buf.Add(Contact{Position: pos, Normal: bestAxis, Depth: bestDepth, Side1: triIndex, Side2: -1})
	}

	return true
}

// emitCapsuleFaceContacts clips the capsule's axis against the triangle's
// plane offset by the radius along the contact normal (keeping the part of
// the axis within radius of the plane) and against its 3 lateral edge
// planes, emitting up to 2 contacts at the
// surviving endpoints pushed back onto the capsule's surface.
func emitCapsuleFaceContacts(p0, p1 mgl64.Vec3, radius float64, triPts [3]mgl64.Vec3, triNormal, contactNormal mgl64.Vec3, depth float64, triIndex int32, buf *ContactBuffer) {
	a, b, ok := clipSegmentAgainstPlane(p0, p1, triPts[0].Add(contactNormal.Mul(radius)), contactNormal.Mul(-1), buf.ClipPlaneEpsilon)
	if !ok {
		return
	}
	center := polygonCenter(triPts[:])
	for i := 0; i < 3; i++ {
		v1, v2 := triPts[i], triPts[(i+1)%3]
		clipNormal := v2.Sub(v1).Cross(triNormal)
		if clipNormal.LenSqr() < 1e-14 {
			continue
		}
		clipNormal = clipNormal.Normalize()
		if center.Sub(v1).Dot(clipNormal) < 0 {
			clipNormal = clipNormal.Mul(-1)
		}
		a, b, ok = clipSegmentAgainstPlane(a, b, v1, clipNormal, buf.ClipPlaneEpsilon)
		if !ok {
			return
		}
	}

	for _, endpoint := range [2]mgl64.Vec3{a, b} {
		pos := endpoint.Sub(contactNormal.Mul(radius))
		buf.Add(Contact{Position: pos, Normal: contactNormal, Depth: depth, Side1: triIndex, Side2: -1})
	}
}

func emitCapsuleEdgeContact(p0, p1, a1, a2, axis mgl64.Vec3, depth, radius float64, triIndex int32, buf *ContactBuffer) {
	ca, _, _, _ := vecmath.ClosestPointsOnSegments(p0, p1, a1, a2)
	contactPos := ca.Sub(axis.Mul(radius))
	buf.Add(Contact{Position: contactPos, Normal: axis, Depth: depth, Side1: triIndex, Side2: -1})
}
