// Package vecmath collects the vector and matrix helpers the collision core
// needs beyond what mgl64 names directly: lerp, point-plane distance, and
// the transpose/rotate pair used to move points and boxes between local
// and world space.
package vecmath

import "github.com/go-gl/mathgl/mgl64"

// Lerp returns the linear interpolation between a and b at parameter t.
// t is not clamped; callers that need clamping do it themselves.
func Lerp(a, b mgl64.Vec3, t float64) mgl64.Vec3 {
	return a.Add(b.Sub(a).Mul(t))
}

// PointPlaneDistance returns the signed distance from p to the plane
// through planePoint with unit normal planeNormal.
func PointPlaneDistance(p, planePoint, planeNormal mgl64.Vec3) float64 {
	return p.Sub(planePoint).Dot(planeNormal)
}

// Transpose3 returns the transpose of a 3x3 matrix.
func Transpose3(m mgl64.Mat3) mgl64.Mat3 {
	return m.Transpose()
}

// Rotate3 applies a 3x3 rotation matrix to a vector.
func Rotate3(m mgl64.Mat3, v mgl64.Vec3) mgl64.Vec3 {
	return m.Mul3x1(v)
}

// AbsRotation returns m with every element replaced by eps+|m[i][j]|.
// Used by aabb.OBB.ToAABB (with eps = 0) to compute world extents; the
// separating-axis tests in package aabb build their own eps-guarded
// absolute rotation (the RAPID library trick).
func AbsRotation(m mgl64.Mat3, eps float64) mgl64.Mat3 {
	var out mgl64.Mat3
	for i := 0; i < 9; i++ {
		v := m[i]
		if v < 0 {
			v = -v
		}
		out[i] = v + eps
	}
	return out
}

// Min3 returns the component-wise minimum of a and b.
func Min3(a, b mgl64.Vec3) mgl64.Vec3 {
	return mgl64.Vec3{min(a.X(), b.X()), min(a.Y(), b.Y()), min(a.Z(), b.Z())}
}

// Max3 returns the component-wise maximum of a and b.
func Max3(a, b mgl64.Vec3) mgl64.Vec3 {
	return mgl64.Vec3{max(a.X(), b.X()), max(a.Y(), b.Y()), max(a.Z(), b.Z())}
}

// ClosestPointOnSegment returns the point on segment ab closest to p,
// along with the parametric coordinate t in [0, 1].
func ClosestPointOnSegment(p, a, b mgl64.Vec3) (mgl64.Vec3, float64) {
	ab := b.Sub(a)
	denom := ab.Dot(ab)
	if denom < 1e-18 {
		return a, 0
	}
	t := p.Sub(a).Dot(ab) / denom
	if t < 0 {
		t = 0
	} else if t > 1 {
		t = 1
	}
	return a.Add(ab.Mul(t)), t
}

// ClosestPointsOnSegments computes the closest points between segments
// p1-q1 and p2-q2, returning those points and their parametric coordinates.
// Standard two-line closest-point formulation (Ericson, Real-Time Collision
// Detection §5.1.9), used by the edge-edge contact path of the box-triangle
// and capsule-triangle generators.
func ClosestPointsOnSegments(p1, q1, p2, q2 mgl64.Vec3) (c1, c2 mgl64.Vec3, s, t float64) {
	d1 := q1.Sub(p1)
	d2 := q2.Sub(p2)
	r := p1.Sub(p2)

	a := d1.Dot(d1)
	e := d2.Dot(d2)
	f := d2.Dot(r)

	const eps = 1e-12

	if a < eps && e < eps {
		return p1, p2, 0, 0
	}
	if a < eps {
		s = 0
		t = clamp01(f / e)
	} else {
		c := d1.Dot(r)
		if e < eps {
			t = 0
			s = clamp01(-c / a)
		} else {
			b := d1.Dot(d2)
			denom := a*e - b*b
			if denom > eps {
				s = clamp01((b*f - c*e) / denom)
			} else {
				s = 0
			}
			t = (b*s + f) / e
			if t < 0 {
				t = 0
				s = clamp01(-c / a)
			} else if t > 1 {
				t = 1
				s = clamp01((b - c) / a)
			}
		}
	}

	c1 = p1.Add(d1.Mul(s))
	c2 = p2.Add(d2.Mul(t))
	return c1, c2, s, t
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
