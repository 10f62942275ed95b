// Package aabb implements the bounding-volume primitives the collision
// core builds on: center/extents AABBs and oriented boxes, plus the
// separating-axis overlap tests between them.
package aabb

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/akmonengine/meshforge/vecmath"
)

// AABB is an axis-aligned bounding box in center/extents form, as the BVH
// (package mesh) stores it.
type AABB struct {
	Center  mgl64.Vec3
	Extents mgl64.Vec3
}

// FromMinMax builds an AABB from min/max corners.
func FromMinMax(min, max mgl64.Vec3) AABB {
	return AABB{
		Center:  min.Add(max).Mul(0.5),
		Extents: max.Sub(min).Mul(0.5),
	}
}

// MinMax returns the min/max corners of the box.
func (a AABB) MinMax() (min, max mgl64.Vec3) {
	return a.Center.Sub(a.Extents), a.Center.Add(a.Extents)
}

// Union returns the smallest AABB containing both a and b.
func (a AABB) Union(b AABB) AABB {
	aMin, aMax := a.MinMax()
	bMin, bMax := b.MinMax()
	return FromMinMax(vecmath.Min3(aMin, bMin), vecmath.Max3(aMax, bMax))
}

// ExpandPoint returns the smallest AABB containing a and p.
func (a AABB) ExpandPoint(p mgl64.Vec3) AABB {
	aMin, aMax := a.MinMax()
	return FromMinMax(vecmath.Min3(aMin, p), vecmath.Max3(aMax, p))
}

// FromPoints returns the tight AABB over a non-empty set of points.
func FromPoints(points ...mgl64.Vec3) AABB {
	min, max := points[0], points[0]
	for _, p := range points[1:] {
		min = vecmath.Min3(min, p)
		max = vecmath.Max3(max, p)
	}
	return FromMinMax(min, max)
}

// OverlapsAABB reports whether two center/extents boxes overlap.
// Equality (touching faces) counts as overlap, per spec §4.1.
func (a AABB) OverlapsAABB(b AABB) bool {
	d := a.Center.Sub(b.Center)
	return math.Abs(d.X()) <= a.Extents.X()+b.Extents.X() &&
		math.Abs(d.Y()) <= a.Extents.Y()+b.Extents.Y() &&
		math.Abs(d.Z()) <= a.Extents.Z()+b.Extents.Z()
}

// ContainsPoint reports whether p lies inside (or on the boundary of) the box.
func (a AABB) ContainsPoint(p mgl64.Vec3) bool {
	min, max := a.MinMax()
	return p.X() >= min.X() && p.X() <= max.X() &&
		p.Y() >= min.Y() && p.Y() <= max.Y() &&
		p.Z() >= min.Z() && p.Z() <= max.Z()
}

// OBB is an oriented bounding box: center, half-extents along its own
// local axes, and the rotation matrix carrying local axes to world space
// (columns are the box's world-space axes).
type OBB struct {
	Center   mgl64.Vec3
	Extents  mgl64.Vec3
	Rotation mgl64.Mat3
}

// Transform applies a rigid transform (rotation + translation; no scale,
// per spec §4.4's contract) to a local-space OBB, producing its world pose.
func (o OBB) Transform(rotation mgl64.Mat3, translation mgl64.Vec3) OBB {
	return OBB{
		Center:   rotation.Mul3x1(o.Center).Add(translation),
		Extents:  o.Extents,
		Rotation: rotation.Mul3(o.Rotation),
	}
}

// ToAABB returns the tight world-space AABB enclosing the OBB, using
// Arvo's abs(R)*extents trick.
func (o OBB) ToAABB() AABB {
	absR := vecmath.AbsRotation(o.Rotation, 0)
	worldExtents := mgl64.Vec3{
		absR[0]*o.Extents.X() + absR[3]*o.Extents.Y() + absR[6]*o.Extents.Z(),
		absR[1]*o.Extents.X() + absR[4]*o.Extents.Y() + absR[7]*o.Extents.Z(),
		absR[2]*o.Extents.X() + absR[5]*o.Extents.Y() + absR[8]*o.Extents.Z(),
	}
	return AABB{Center: o.Center, Extents: worldExtents}
}

// Fattened returns a copy of the OBB whose extents are scaled by coeff,
// used by the query caches (traverse.BoxCache) to decide whether a cached
// descent can be replayed without a full re-traversal.
func (o OBB) Fattened(coeff float64) OBB {
	return OBB{Center: o.Center, Extents: o.Extents.Mul(coeff), Rotation: o.Rotation}
}

// Contains reports whether other lies entirely within o, comparing along
// o's own local axes. Used by BoxCache to decide whether a fattened cached
// OBB still covers a newer, tighter query box.
func (o OBB) Contains(other OBB) bool {
	invRot := vecmath.Transpose3(o.Rotation)
	otherAABBInO := OBB{
		Center:   vecmath.Rotate3(invRot, other.Center.Sub(o.Center)),
		Extents:  other.Extents,
		Rotation: invRot.Mul3(other.Rotation),
	}.ToAABB()
	d := mgl64.Vec3{
		math.Abs(otherAABBInO.Center.X()) + otherAABBInO.Extents.X(),
		math.Abs(otherAABBInO.Center.Y()) + otherAABBInO.Extents.Y(),
		math.Abs(otherAABBInO.Center.Z()) + otherAABBInO.Extents.Z(),
	}
	return d.X() <= o.Extents.X() && d.Y() <= o.Extents.Y() && d.Z() <= o.Extents.Z()
}
