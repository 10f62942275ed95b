package vecmath

import (
	"math"
	"testing"

	"github.com/go-gl/mathgl/mgl64"
)

func TestLerp(t *testing.T) {
	tests := []struct {
		name string
		a, b mgl64.Vec3
		tt   float64
		want mgl64.Vec3
	}{
		{"t=0 returns a", mgl64.Vec3{0, 0, 0}, mgl64.Vec3{1, 2, 3}, 0, mgl64.Vec3{0, 0, 0}},
		{"t=1 returns b", mgl64.Vec3{0, 0, 0}, mgl64.Vec3{1, 2, 3}, 1, mgl64.Vec3{1, 2, 3}},
		{"t=0.5 midpoint", mgl64.Vec3{0, 0, 0}, mgl64.Vec3{2, 4, 6}, 0.5, mgl64.Vec3{1, 2, 3}},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got := Lerp(tc.a, tc.b, tc.tt)
			if !got.ApproxEqual(tc.want) {
				t.Errorf("Lerp(%v, %v, %v) = %v, want %v", tc.a, tc.b, tc.tt, got, tc.want)
			}
		})
	}
}

func TestPointPlaneDistance(t *testing.T) {
	planePoint := mgl64.Vec3{0, 0, 0}
	normal := mgl64.Vec3{0, 1, 0}

	tests := []struct {
		name string
		p    mgl64.Vec3
		want float64
	}{
		{"above plane", mgl64.Vec3{0, 2, 0}, 2},
		{"below plane", mgl64.Vec3{0, -3, 0}, -3},
		{"on plane", mgl64.Vec3{5, 0, 5}, 0},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got := PointPlaneDistance(tc.p, planePoint, normal)
			if math.Abs(got-tc.want) > 1e-9 {
				t.Errorf("PointPlaneDistance = %v, want %v", got, tc.want)
			}
		})
	}
}

func TestAbsRotationNonNegative(t *testing.T) {
	m := mgl64.Mat3{-1, 0.5, -0.2, 0, -1, 0.9, 0.3, -0.4, 1}
	abs := AbsRotation(m, 1e-6)
	for i := 0; i < 9; i++ {
		if abs[i] < 0 {
			t.Errorf("AbsRotation produced negative element at %d: %v", i, abs[i])
		}
	}
}

func TestClosestPointOnSegment(t *testing.T) {
	a := mgl64.Vec3{0, 0, 0}
	b := mgl64.Vec3{10, 0, 0}

	tests := []struct {
		name   string
		p      mgl64.Vec3
		wantPt mgl64.Vec3
		wantT  float64
	}{
		{"clamps below a", mgl64.Vec3{-5, 0, 0}, a, 0},
		{"clamps above b", mgl64.Vec3{15, 0, 0}, b, 1},
		{"projects to interior", mgl64.Vec3{5, 3, 0}, mgl64.Vec3{5, 0, 0}, 0.5},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			gotPt, gotT := ClosestPointOnSegment(tc.p, a, b)
			if !gotPt.ApproxEqual(tc.wantPt) {
				t.Errorf("point = %v, want %v", gotPt, tc.wantPt)
			}
			if math.Abs(gotT-tc.wantT) > 1e-9 {
				t.Errorf("t = %v, want %v", gotT, tc.wantT)
			}
		})
	}
}

func TestClosestPointsOnSegmentsParallel(t *testing.T) {
	// Two parallel segments offset along Y; closest distance should be 1.
	p1, q1 := mgl64.Vec3{0, 0, 0}, mgl64.Vec3{1, 0, 0}
	p2, q2 := mgl64.Vec3{0, 1, 0}, mgl64.Vec3{1, 1, 0}

	c1, c2, _, _ := ClosestPointsOnSegments(p1, q1, p2, q2)
	dist := c1.Sub(c2).Len()
	if math.Abs(dist-1) > 1e-6 {
		t.Errorf("closest distance = %v, want 1", dist)
	}
}

func TestClosestPointsOnSegmentsCrossing(t *testing.T) {
	// Perpendicular segments crossing near the origin.
	p1, q1 := mgl64.Vec3{-1, 0, 0}, mgl64.Vec3{1, 0, 0}
	p2, q2 := mgl64.Vec3{0, -1, 1}, mgl64.Vec3{0, 1, 1}

	c1, c2, _, _ := ClosestPointsOnSegments(p1, q1, p2, q2)
	dist := c1.Sub(c2).Len()
	if math.Abs(dist-1) > 1e-6 {
		t.Errorf("closest distance = %v, want 1", dist)
	}
}
