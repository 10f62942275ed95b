package sat

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/akmonengine/meshforge/mesh"
	"github.com/akmonengine/meshforge/vecmath"
)

// triTriAxisCategory distinguishes which of the 17 axes won, so contact
// extraction knows which reference feature to clip against.
type triTriAxisCategory int

const (
	catFaceA triTriAxisCategory = iota
	catFaceB
	catEdgeEdge
	catEdgeSelfA
	catEdgeSelfB
)

// IntersectTriangleTriangle runs the 17-axis SAT between two triangles
// (spec §4.7): the 2 face normals, the 9 edge×edge cross products, and 6
// edge×own-normal axes that guard near-coplanar edge configurations the
// base 11-axis test can miss. meshA/meshB's mesh-data flags may disable
// individual edge/vertex axes to suppress spurious contacts along
// coincident mesh seams.
//
// On overlap, one or more contacts are appended to buf via the winning
// axis's feature-clip path; it returns whether any axis reported
// separation (false) or all 17 admitted overlap (true).
func IntersectTriangleTriangle(
	a0, a1, a2 mgl64.Vec3, flagsA mesh.MeshDataFlags, primA int32,
	b0, b1, b2 mgl64.Vec3, flagsB mesh.MeshDataFlags, primB int32,
	buf *ContactBuffer,
) bool {
	aPts := [3]mgl64.Vec3{a0, a1, a2}
	bPts := [3]mgl64.Vec3{b0, b1, b2}

	edgeA := [3]mgl64.Vec3{a1.Sub(a0), a2.Sub(a1), a0.Sub(a2)}
	edgeB := [3]mgl64.Vec3{b1.Sub(b0), b2.Sub(b1), b0.Sub(b2)}

	normalA := edgeA[0].Cross(edgeA[1])
	normalB := edgeB[0].Cross(edgeB[1])
	if normalA.LenSqr() < 1e-18 || normalB.LenSqr() < 1e-18 {
		return false // degenerate triangle: spec §7 says skip silently
	}
	normalA = normalA.Normalize()
	normalB = normalB.Normalize()

	centroidA := a0.Add(a1).Add(a2).Mul(1.0 / 3.0)
	centroidB := b0.Add(b1).Add(b2).Mul(1.0 / 3.0)
	toB := centroidB.Sub(centroidA)

	bestDepth := math.Inf(1)
	bestBiased := math.Inf(1)
	var bestAxis mgl64.Vec3
	var bestCat triTriAxisCategory
	var bestI, bestJ int

	consider := func(axis mgl64.Vec3, biased bool, cat triTriAxisCategory, i, j int) bool {
		if axis.LenSqr() < 1e-14 {
			return true // degenerate axis, skip (edges parallel)
		}
		axis = axis.Normalize()
		depth, ok := projectedOverlap(axis, aPts, bPts)
		if !ok {
			return false // separating axis found: no intersection
		}
		biasedDepth := depth
		if biased {
			biasedDepth *= buf.EdgeAxisBias
		}
		if biasedDepth < bestBiased {
			bestBiased = biasedDepth
			bestDepth = depth
			if axis.Dot(toB) < 0 {
				axis = axis.Mul(-1)
			}
			bestAxis = axis
			bestCat = cat
			bestI, bestJ = i, j
		}
		return true
	}

	if !consider(normalA, false, catFaceA, 0, 0) {
		return false
	}
	if !consider(normalB, false, catFaceB, 0, 0) {
		return false
	}
	for i := 0; i < 3; i++ {
		if edgeFlagSet(flagsA, i) {
			continue
		}
		for j := 0; j < 3; j++ {
			if edgeFlagSet(flagsB, j) {
				continue
			}
			if !consider(edgeA[i].Cross(edgeB[j]), true, catEdgeEdge, i, j) {
				return false
			}
		}
	}
	for i := 0; i < 3; i++ {
		if !consider(edgeA[i].Cross(normalA), true, catEdgeSelfA, i, 0) {
			return false
		}
	}
	for j := 0; j < 3; j++ {
		if !consider(edgeB[j].Cross(normalB), true, catEdgeSelfB, 0, j) {
			return false
		}
	}

	switch bestCat {
	case catFaceA:
		emitFaceClipContacts(aPts[:], normalA, bPts[:], bestDepth, bestAxis, primA, primB, buf)
	case catFaceB:
		from := len(buf.Contacts)
		emitFaceClipContacts(bPts[:], normalB, aPts[:], bestDepth, bestAxis, primB, primA, buf)
		swapSidesFrom(buf, from)
	case catEdgeEdge:
		emitEdgeEdgeContact(aPts[bestI], aPts[(bestI+1)%3], bPts[bestJ], bPts[(bestJ+1)%3], bestAxis, bestDepth, primA, primB, buf)
	case catEdgeSelfA:
		emitFaceClipContacts(aPts[:], bestAxis, bPts[:], bestDepth, bestAxis, primA, primB, buf)
	case catEdgeSelfB:
		from := len(buf.Contacts)
		emitFaceClipContacts(bPts[:], bestAxis, aPts[:], bestDepth, bestAxis, primB, primA, buf)
		swapSidesFrom(buf, from)
	}

	return true
}

// projectedOverlap projects both triangles onto axis and returns the
// interpenetration along it, or ok=false if the projections don't overlap
// (a separating axis was found).
func projectedOverlap(axis mgl64.Vec3, aPts, bPts [3]mgl64.Vec3) (depth float64, ok bool) {
	aMin, aMax := projectExtent(axis, aPts[:])
	bMin, bMax := projectExtent(axis, bPts[:])
	overlap := math.Min(aMax, bMax) - math.Max(aMin, bMin)
	if overlap < 0 {
		return 0, false
	}
	return overlap, true
}

func projectExtent(axis mgl64.Vec3, pts []mgl64.Vec3) (min, max float64) {
	min, max = math.Inf(1), math.Inf(-1)
	for _, p := range pts {
		d := p.Dot(axis)
		min = math.Min(min, d)
		max = math.Max(max, d)
	}
	return
}

// emitFaceClipContacts clips incident's vertices against reference's
// lateral edge planes (edge × referenceNormal, oriented toward the
// reference centroid), then projects each surviving vertex onto the
// reference plane and emits it as a contact. Grounded on epa/manifold.go's
// clipIncidentAgainstReference, generalized from quad-vs-quad clipping to
// an arbitrary reference/incident polygon pair (triangle or box face).
func emitFaceClipContacts(reference []mgl64.Vec3, referenceNormal mgl64.Vec3, incident []mgl64.Vec3, depth float64, normal mgl64.Vec3, primRef, primInc int32, buf *ContactBuffer) {
	center := polygonCenter(reference)
	polygon := append([]mgl64.Vec3(nil), incident...)

	for i := 0; i < len(reference); i++ {
		v1, v2 := reference[i], reference[(i+1)%len(reference)]
		clipNormal := v2.Sub(v1).Cross(referenceNormal)
		if clipNormal.LenSqr() < 1e-14 {
			continue
		}
		clipNormal = clipNormal.Normalize()
		if center.Sub(v1).Dot(clipNormal) < 0 {
			clipNormal = clipNormal.Mul(-1)
		}
		polygon = clipPolygonAgainstPlane(polygon, v1, clipNormal, buf.ClipPlaneEpsilon)
		if len(polygon) == 0 {
			break
		}
	}

	refPoint := reference[0]
	for _, p := range polygon {
		onPlane := p.Sub(refPoint).Dot(referenceNormal)
		pos := p.Sub(referenceNormal.Mul(onPlane))
		buf.Add(Contact{
			Position: pos,
			Normal:   normal,
			Depth:    depth,
			Side1:    primRef,
			Side2:    primInc,
		})
	}
}

func emitEdgeEdgeContact(a1, a2, b1, b2, normal mgl64.Vec3, depth float64, primA, primB int32, buf *ContactBuffer) {
	ca, cb, _, _ := vecmath.ClosestPointsOnSegments(a1, a2, b1, b2)
	pos := ca.Add(cb).Mul(0.5)
	buf.Add(Contact{Position: pos, Normal: normal, Depth: depth, Side1: primA, Side2: primB})
}

// swapSidesFrom flips Side1/Side2 on contacts appended since index from, so
// a B-referenced clip (which runs with the arguments transposed) still
// reports Side1 as the mesh-A primitive, per the caller's contract.
func swapSidesFrom(buf *ContactBuffer, from int) {
	for i := from; i < len(buf.Contacts); i++ {
		buf.Contacts[i].Side1, buf.Contacts[i].Side2 = buf.Contacts[i].Side2, buf.Contacts[i].Side1
	}
}

func edgeFlagSet(flags mesh.MeshDataFlags, edgeIndex int) bool {
	switch edgeIndex {
	case 0:
		return flags&mesh.FlagEdge0 != 0
	case 1:
		return flags&mesh.FlagEdge1 != 0
	default:
		return flags&mesh.FlagEdge2 != 0
	}
}
