package aabb

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

// satEpsilon guards near-parallel axes in the absolute-rotation matrix, per
// spec §4.1 (borrowed from the RAPID library: AR[i][j] = eps + |R[i][j]|).
const satEpsilon = 1e-6

// OverlapOBBOBB runs the 15-axis separating-axis test between two oriented
// boxes (3 axes of A, 3 of B, 9 edge-cross-edge axes). Any axis reporting
// positive separation means no overlap.
func OverlapOBBOBB(a, b OBB) bool {
	return maxSeparationOBBOBB(a, b) <= 0
}

// maxSeparationOBBOBB returns the largest per-axis separating gap between a
// and b. Non-positive means the boxes overlap; the magnitude of a positive
// result is the separation distance along the best axis. OverlapOBBOBB
// compares it against zero.
//
// Grounded on the Ericson precomputed-rotation formulation, following the
// same axis enumeration as _examples/other_examples/viamrobotics-rdk__sat_generic.go.
func maxSeparationOBBOBB(a, b OBB) float64 {
	centerDist := b.Center.Sub(a.Center)

	// R[i][j] = a's axis i . b's axis j. a.Rotation/b.Rotation store world
	// axes as columns, so row i of R is a.Rotation's column i dotted with
	// each column of b.Rotation.
	ra := a.Rotation
	rb := b.Rotation

	var r [3][3]float64
	var absR [3][3]float64
	for i := 0; i < 3; i++ {
		ai := mgl64.Vec3{ra[3*i], ra[3*i+1], ra[3*i+2]}
		for j := 0; j < 3; j++ {
			bj := mgl64.Vec3{rb[3*j], rb[3*j+1], rb[3*j+2]}
			r[i][j] = ai.Dot(bj)
			absR[i][j] = math.Abs(r[i][j]) + satEpsilon
		}
	}

	// t[i] = centerDist projected onto a's axis i.
	var t [3]float64
	for i := 0; i < 3; i++ {
		ai := mgl64.Vec3{ra[3*i], ra[3*i+1], ra[3*i+2]}
		t[i] = centerDist.Dot(ai)
	}

	hA := [3]float64{a.Extents.X(), a.Extents.Y(), a.Extents.Z()}
	hB := [3]float64{b.Extents.X(), b.Extents.Y(), b.Extents.Z()}

	best := math.Inf(-1)

	// 3 face axes of A.
	for i := 0; i < 3; i++ {
		proj := hB[0]*absR[i][0] + hB[1]*absR[i][1] + hB[2]*absR[i][2]
		if g := math.Abs(t[i]) - hA[i] - proj; g > best {
			best = g
		}
	}

	// 3 face axes of B.
	for j := 0; j < 3; j++ {
		tb := t[0]*r[0][j] + t[1]*r[1][j] + t[2]*r[2][j]
		proj := hA[0]*absR[0][j] + hA[1]*absR[1][j] + hA[2]*absR[2][j]
		if g := math.Abs(tb) - hB[j] - proj; g > best {
			best = g
		}
	}

	// 9 edge-cross-edge axes a_i x b_j.
	for i := 0; i < 3; i++ {
		i1, i2 := (i+1)%3, (i+2)%3
		for j := 0; j < 3; j++ {
			j1, j2 := (j+1)%3, (j+2)%3
			l2 := 1 - r[i][j]*r[i][j]
			if l2 < 1e-10 {
				continue // near-parallel edges: axis degenerates, skip
			}
			raw := math.Abs(t[i2]*r[i1][j]-t[i1]*r[i2][j]) -
				(hA[i1]*absR[i2][j] + hA[i2]*absR[i1][j]) -
				(hB[j1]*absR[i][j2] + hB[j2]*absR[i][j1])
			if g := raw / math.Sqrt(l2); g > best {
				best = g
			}
		}
	}

	return best
}

// OverlapOBBAABB tests an oriented box against an axis-aligned one by
// treating the AABB as a degenerate OBB with identity rotation — the
// traversal hot path (package traverse) for OBB-vs-BVH queries and the
// mesh-vs-mesh pair descent. Ray queries use Ray.IntersectsAABB instead.
func OverlapOBBAABB(o OBB, box AABB) bool {
	return OverlapOBBOBB(o, OBB{Center: box.Center, Extents: box.Extents, Rotation: mgl64.Ident3()})
}
