package sat

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

// clipPolygonAgainstPlane is Sutherland-Hodgman clipping for a single half
// space {x : (x-planePoint)·planeNormal >= 0}, keeping the "inside" side.
// eps is the caller's ContactBuffer.ClipPlaneEpsilon.
//
// Grounded on epa/manifold.go's clipPolygonAgainstPlane, generalized from
// box-box contact clipping to the triangle clip planes C8/C9 need.
func clipPolygonAgainstPlane(polygon []mgl64.Vec3, planePoint, planeNormal mgl64.Vec3, eps float64) []mgl64.Vec3 {
	if len(polygon) == 0 {
		return polygon
	}

	output := make([]mgl64.Vec3, 0, len(polygon)+1)
	for i := range polygon {
		current := polygon[i]
		next := polygon[(i+1)%len(polygon)]

		currentDist := current.Sub(planePoint).Dot(planeNormal)
		nextDist := next.Sub(planePoint).Dot(planeNormal)

		if currentDist >= -eps {
			output = append(output, current)
			if nextDist < -eps {
				output = append(output, lineIntersectPlane(current, next, planePoint, planeNormal))
			}
		} else if nextDist >= -eps {
			output = append(output, lineIntersectPlane(current, next, planePoint, planeNormal))
		}
	}
	return output
}

// lineIntersectPlane finds where segment p1-p2 crosses the plane, clamped
// to the segment. If the segment is (nearly) parallel to the plane, p1 is
// returned as a degenerate fallback.
func lineIntersectPlane(p1, p2, planePoint, planeNormal mgl64.Vec3) mgl64.Vec3 {
	dir := p2.Sub(p1)
	dist := p1.Sub(planePoint).Dot(planeNormal)
	denom := dir.Dot(planeNormal)
	if math.Abs(denom) < 1e-10 {
		return p1
	}
	t := -dist / denom
	if t < 0 {
		t = 0
	} else if t > 1 {
		t = 1
	}
	return p1.Add(dir.Mul(t))
}

// clipSegmentAgainstPlane clips a single segment against the same half
// space, returning the (possibly shortened) endpoints and whether any part
// of the segment survives. Used by capsule-triangle clipping (spec §4.8),
// where the "polygon" being clipped is just the capsule's two-point axis.
// eps is the caller's ContactBuffer.ClipPlaneEpsilon.
func clipSegmentAgainstPlane(a, b mgl64.Vec3, planePoint, planeNormal mgl64.Vec3, eps float64) (mgl64.Vec3, mgl64.Vec3, bool) {
	da := a.Sub(planePoint).Dot(planeNormal)
	db := b.Sub(planePoint).Dot(planeNormal)

	switch {
	case da >= -eps && db >= -eps:
		return a, b, true
	case da < -eps && db < -eps:
		return a, b, false
	case da >= -eps:
		return a, lineIntersectPlane(a, b, planePoint, planeNormal), true
	default:
		return lineIntersectPlane(b, a, planePoint, planeNormal), b, true
	}
}

// polygonCenter is the unweighted centroid of a point set, used to orient
// lateral clip-plane normals inward (grounded on epa/manifold.go's
// computeCenter).
func polygonCenter(points []mgl64.Vec3) mgl64.Vec3 {
	if len(points) == 0 {
		return mgl64.Vec3{}
	}
	sum := mgl64.Vec3{}
	for _, p := range points {
		sum = sum.Add(p)
	}
	return sum.Mul(1.0 / float64(len(points)))
}
