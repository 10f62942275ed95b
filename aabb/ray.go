package aabb

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

// Ray is a query ray: an origin point and a unit direction. Both fields
// are transient per query, per spec §3.
type Ray struct {
	Origin    mgl64.Vec3
	Direction mgl64.Vec3
	MaxDist   float64 // 0 means unbounded
}

// IntersectsAABB runs the standard slab test against the box, clipping the
// ray's [0, MaxDist] interval against the box's min/max on each axis
// (spec §4.5).
func (r Ray) IntersectsAABB(box AABB) bool {
	tMin, tMax := 0.0, r.MaxDist
	if tMax <= 0 {
		tMax = math.Inf(1)
	}

	min, max := box.MinMax()
	o := [3]float64{r.Origin.X(), r.Origin.Y(), r.Origin.Z()}
	d := [3]float64{r.Direction.X(), r.Direction.Y(), r.Direction.Z()}
	lo := [3]float64{min.X(), min.Y(), min.Z()}
	hi := [3]float64{max.X(), max.Y(), max.Z()}

	for axis := 0; axis < 3; axis++ {
		if math.Abs(d[axis]) < 1e-12 {
			// Ray parallel to this slab: must already be within bounds.
			if o[axis] < lo[axis] || o[axis] > hi[axis] {
				return false
			}
			continue
		}
		invD := 1 / d[axis]
		t1 := (lo[axis] - o[axis]) * invD
		t2 := (hi[axis] - o[axis]) * invD
		if t1 > t2 {
			t1, t2 = t2, t1
		}
		if t1 > tMin {
			tMin = t1
		}
		if t2 < tMax {
			tMax = t2
		}
		if tMin > tMax {
			return false
		}
	}
	return true
}
