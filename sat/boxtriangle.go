package sat

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/akmonengine/meshforge/aabb"
	"github.com/akmonengine/meshforge/mesh"
	"github.com/akmonengine/meshforge/vecmath"
)

type boxTriAxisCategory int

const (
	boxCatTriNormal boxTriAxisCategory = iota
	boxCatBoxFace
	boxCatEdgeEdge
)

// IntersectBoxTriangle runs the 13-axis SAT between an oriented box and a
// triangle (spec §4.8): the triangle's face normal, the box's 3 local
// axes, and the 9 cross products of a box axis with a triangle edge.
// Edge-axis depths are biased ×1.5 before comparison so a face axis wins
// ties, matching the capsule-triangle generator's bias.
func IntersectBoxTriangle(box aabb.OBB, v0, v1, v2 mgl64.Vec3, flags mesh.MeshDataFlags, triIndex int32, buf *ContactBuffer) bool {
	triPts := [3]mgl64.Vec3{v0, v1, v2}
	triEdge := [3]mgl64.Vec3{v1.Sub(v0), v2.Sub(v1), v0.Sub(v2)}

	triNormal := triEdge[0].Cross(triEdge[1])
	if triNormal.LenSqr() < 1e-18 {
		return false
	}
	triNormal = triNormal.Normalize()

	boxAxes := [3]mgl64.Vec3{
		{box.Rotation[0], box.Rotation[1], box.Rotation[2]},
		{box.Rotation[3], box.Rotation[4], box.Rotation[5]},
		{box.Rotation[6], box.Rotation[7], box.Rotation[8]},
	}
	boxExt := [3]float64{box.Extents.X(), box.Extents.Y(), box.Extents.Z()}

	triCentroid := v0.Add(v1).Add(v2).Mul(1.0 / 3.0)
	toBox := box.Center.Sub(triCentroid)

	bestBiased := math.Inf(1)
	var bestDepth float64
	var bestAxis mgl64.Vec3
	var bestCat boxTriAxisCategory
	var bestAxisIdx, bestEdgeIdx int

	consider := func(axis mgl64.Vec3, biased bool, cat boxTriAxisCategory, axisIdx, edgeIdx int) bool {
		if axis.LenSqr() < 1e-14 {
			return true
		}
		axis = axis.Normalize()

		triMin, triMax := projectExtent(axis, triPts[:])
		centerProj := box.Center.Dot(axis)
		radius := math.Abs(axis.Dot(boxAxes[0]))*boxExt[0] +
			math.Abs(axis.Dot(boxAxes[1]))*boxExt[1] +
			math.Abs(axis.Dot(boxAxes[2]))*boxExt[2]

		depth, ok := radiusOverlap(triMin, triMax, centerProj, radius)
		if !ok {
			return false
		}
		biasedDepth := depth
		if biased {
			biasedDepth *= buf.EdgeAxisBias
		}
		if biasedDepth < bestBiased {
			bestBiased = biasedDepth
			bestDepth = depth
			if axis.Dot(toBox) < 0 {
				axis = axis.Mul(-1)
			}
			bestAxis = axis
			bestCat = cat
			bestAxisIdx, bestEdgeIdx = axisIdx, edgeIdx
		}
		return true
	}

	if !consider(triNormal, false, boxCatTriNormal, 0, 0) {
		return false
	}
	for k := 0; k < 3; k++ {
		if !consider(boxAxes[k], false, boxCatBoxFace, k, 0) {
			return false
		}
	}
	for i := 0; i < 3; i++ {
		if edgeFlagSet(flags, i) {
			continue
		}
		for k := 0; k < 3; k++ {
			if !consider(boxAxes[k].Cross(triEdge[i]), true, boxCatEdgeEdge, k, i) {
				return false
			}
		}
	}

	switch bestCat {
	case boxCatTriNormal:
		// bestAxis points from the triangle toward the box; the box face
		// actually touching the triangle faces the other way.
		face := boxFaceCorners(box, boxAxes, boxExt, bestAxis.Mul(-1))
		emitFaceClipContacts(triPts[:], triNormal, face, bestDepth, bestAxis, triIndex, -1, buf)
	case boxCatBoxFace:
		// The box face that faces the triangle has an outward normal
		// pointing back toward the triangle — opposite bestAxis, which
		// points from the triangle toward the box.
		faceNormal := boxAxes[bestAxisIdx]
		if faceNormal.Dot(bestAxis) > 0 {
			faceNormal = faceNormal.Mul(-1)
		}
		face := boxFaceCorners(box, boxAxes, boxExt, faceNormal)
		from := len(buf.Contacts)
		emitFaceClipContacts(face, faceNormal, triPts[:], bestDepth, bestAxis, -1, triIndex, buf)
		swapSidesFrom(buf, from)
	case boxCatEdgeEdge:
		p1, p2 := boxEdgeForAxis(box, boxAxes, boxExt, bestAxisIdx, triCentroid)
		a1, a2 := triPts[bestEdgeIdx], triPts[(bestEdgeIdx+1)%3]
		ca, cb, _, _ := vecmath.ClosestPointsOnSegments(p1, p2, a1, a2)
		pos := ca.Add(cb).Mul(0.5)
		buf.Add(Contact{Position: pos, Normal: bestAxis, Depth: bestDepth, Side1: triIndex, Side2: -1})
	}

	return true
}

// radiusOverlap intersects a projected interval [min,max] with a
// center±radius interval, returning the overlap amount or ok=false if they
// don't intersect (a separating axis).
func radiusOverlap(min, max, centerProj, radius float64) (depth float64, ok bool) {
	lo, hi := centerProj-radius, centerProj+radius
	overlap := math.Min(max, hi) - math.Max(min, lo)
	if overlap < 0 {
		return 0, false
	}
	return overlap, true
}

// boxFaceCorners returns the 4 corners of whichever box face's outward
// normal is most aligned with towardNormal (the face "facing" the other
// shape along the winning SAT axis).
func boxFaceCorners(box aabb.OBB, axes [3]mgl64.Vec3, ext [3]float64, towardNormal mgl64.Vec3) []mgl64.Vec3 {
	bestDot := math.Inf(-1)
	bestK, bestSign := 0, 1.0
	for k := 0; k < 3; k++ {
		for _, s := range [2]float64{1, -1} {
			d := axes[k].Mul(s).Dot(towardNormal)
			if d > bestDot {
				bestDot = d
				bestK, bestSign = k, s
			}
		}
	}
	o1, o2 := (bestK+1)%3, (bestK+2)%3
	center := box.Center.Add(axes[bestK].Mul(bestSign * ext[bestK]))
	return []mgl64.Vec3{
		center.Add(axes[o1].Mul(ext[o1])).Add(axes[o2].Mul(ext[o2])),
		center.Sub(axes[o1].Mul(ext[o1])).Add(axes[o2].Mul(ext[o2])),
		center.Sub(axes[o1].Mul(ext[o1])).Sub(axes[o2].Mul(ext[o2])),
		center.Add(axes[o1].Mul(ext[o1])).Sub(axes[o2].Mul(ext[o2])),
	}
}

// boxEdgeForAxis picks, among the 4 box edges parallel to local axis k,
// the one nearest to target — the edge actually responsible for an
// axisIdx-cross-edge separating axis.
func boxEdgeForAxis(box aabb.OBB, axes [3]mgl64.Vec3, ext [3]float64, axisIdx int, target mgl64.Vec3) (p1, p2 mgl64.Vec3) {
	o1, o2 := (axisIdx+1)%3, (axisIdx+2)%3
	toTarget := target.Sub(box.Center)
	s1 := signOf(toTarget.Dot(axes[o1]))
	s2 := signOf(toTarget.Dot(axes[o2]))
	base := box.Center.Add(axes[o1].Mul(s1 * ext[o1])).Add(axes[o2].Mul(s2 * ext[o2]))
	return base.Sub(axes[axisIdx].Mul(ext[axisIdx])), base.Add(axes[axisIdx].Mul(ext[axisIdx]))
}

func signOf(v float64) float64 {
	if v < 0 {
		return -1
	}
	return 1
}
