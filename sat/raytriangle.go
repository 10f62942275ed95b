package sat

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

// RayTriangleHit is the (t, u, v) result of a successful ray-triangle test:
// t is the ray parameter, (u, v) are the hit point's barycentric
// coordinates relative to v0.
type RayTriangleHit struct {
	T, U, V float64
}

// IntersectRayTriangle runs the Möller-Trumbore test. With cull enabled,
// only front-facing triangles (as seen along -direction) are hit; without
// it, both winding orders are accepted. epsilon is the ε_local spec §4.6
// uses to guard the near-degenerate determinant case (ray parallel to the
// triangle's plane) — the caller's config.Settings.RayEpsilon.
func IntersectRayTriangle(origin, direction, v0, v1, v2 mgl64.Vec3, cull bool, epsilon float64) (RayTriangleHit, bool) {
	e1 := v1.Sub(v0)
	e2 := v2.Sub(v0)

	p := direction.Cross(e2)
	det := e1.Dot(p)

	if cull {
		if det <= epsilon*math.Min(e1.LenSqr(), e2.LenSqr()) {
			return RayTriangleHit{}, false
		}
	} else {
		if math.Abs(det) <= epsilon*math.Min(e1.LenSqr(), e2.LenSqr()) {
			return RayTriangleHit{}, false
		}
	}

	invDet := 1 / det
	tvec := origin.Sub(v0)

	u := tvec.Dot(p) * invDet
	if u < 0 || u > 1 {
		return RayTriangleHit{}, false
	}

	qvec := tvec.Cross(e1)
	v := direction.Dot(qvec) * invDet
	if v < 0 || u+v > 1 {
		return RayTriangleHit{}, false
	}

	t := e2.Dot(qvec) * invDet
	if t < 0 {
		return RayTriangleHit{}, false
	}

	return RayTriangleHit{T: t, U: u, V: v}, true
}
