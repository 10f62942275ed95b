package aabb

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

// AABB2D is an axis-aligned rectangle over the X/Z plane, the quadtree's
// broad-phase bounding volume for 2.5-D scenes (spec §4.10).
type AABB2D struct {
	Center  mgl64.Vec2
	Extents mgl64.Vec2
}

// FromMinMax2D builds a rectangle from min/max corners.
func FromMinMax2D(min, max mgl64.Vec2) AABB2D {
	return AABB2D{
		Center:  min.Add(max).Mul(0.5),
		Extents: max.Sub(min).Mul(0.5),
	}
}

// MinMax returns the min/max corners of the rectangle.
func (a AABB2D) MinMax() (min, max mgl64.Vec2) {
	return a.Center.Sub(a.Extents), a.Center.Add(a.Extents)
}

// OverlapsAABB2D reports whether two rectangles overlap. Equality (touching
// edges) counts as overlap, matching AABB.OverlapsAABB's convention.
func (a AABB2D) OverlapsAABB2D(b AABB2D) bool {
	d := a.Center.Sub(b.Center)
	return math.Abs(d.X()) <= a.Extents.X()+b.Extents.X() &&
		math.Abs(d.Y()) <= a.Extents.Y()+b.Extents.Y()
}

// ContainsAABB2D reports whether other lies entirely within a, inclusive of
// its boundary. The quadtree uses this to decide whether an object must be
// hoisted to an ancestor block.
func (a AABB2D) ContainsAABB2D(other AABB2D) bool {
	aMin, aMax := a.MinMax()
	oMin, oMax := other.MinMax()
	return oMin.X() >= aMin.X() && oMax.X() <= aMax.X() &&
		oMin.Y() >= aMin.Y() && oMax.Y() <= aMax.Y()
}

// ContainsPoint2D reports whether p lies inside (or on the boundary of) the
// rectangle.
func (a AABB2D) ContainsPoint2D(p mgl64.Vec2) bool {
	min, max := a.MinMax()
	return p.X() >= min.X() && p.X() <= max.X() &&
		p.Y() >= min.Y() && p.Y() <= max.Y()
}
