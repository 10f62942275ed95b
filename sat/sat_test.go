package sat

import (
	"testing"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/akmonengine/meshforge/aabb"
)

func TestContactBufferDedupKeepsDeepest(t *testing.T) {
	buf := NewContactBuffer(4, false, DefaultTolerances())

	buf.Add(Contact{Position: mgl64.Vec3{0, 0, 0}, Normal: mgl64.Vec3{0, 1, 0}, Depth: 0.1})
	buf.Add(Contact{Position: mgl64.Vec3{1e-5, 0, 0}, Normal: mgl64.Vec3{0, 1, 0}, Depth: 0.5})

	if len(buf.Contacts) != 1 {
		t.Fatalf("expected dedup to merge near-identical contacts, got %d entries", len(buf.Contacts))
	}
	if buf.Contacts[0].Depth != 0.5 {
		t.Errorf("expected merged contact to keep deepest penetration, got %v", buf.Contacts[0].Depth)
	}
}

func TestContactBufferDistinctContactsBothKept(t *testing.T) {
	buf := NewContactBuffer(4, false, DefaultTolerances())

	buf.Add(Contact{Position: mgl64.Vec3{0, 0, 0}, Normal: mgl64.Vec3{0, 1, 0}, Depth: 0.1})
	buf.Add(Contact{Position: mgl64.Vec3{5, 0, 0}, Normal: mgl64.Vec3{0, 1, 0}, Depth: 0.1})

	if len(buf.Contacts) != 2 {
		t.Fatalf("expected 2 distinct contacts, got %d", len(buf.Contacts))
	}
}

func TestContactBufferRespectsCap(t *testing.T) {
	buf := NewContactBuffer(2, true, DefaultTolerances())
	for i := 0; i < 5; i++ {
		buf.Add(Contact{Position: mgl64.Vec3{float64(i) * 10, 0, 0}, Normal: mgl64.Vec3{0, 1, 0}, Depth: 0.1})
	}
	if len(buf.Contacts) != 2 {
		t.Fatalf("buffer exceeded cap: got %d entries, want 2", len(buf.Contacts))
	}
}

func TestIntersectRayTriangleHitsCenter(t *testing.T) {
	v0 := mgl64.Vec3{0, 0, 0}
	v1 := mgl64.Vec3{1, 0, 0}
	v2 := mgl64.Vec3{0, 1, 0}

	hit, ok := IntersectRayTriangle(mgl64.Vec3{0.2, 0.2, 5}, mgl64.Vec3{0, 0, -1}, v0, v1, v2, false, 1e-6)
	if !ok {
		t.Fatalf("expected hit")
	}
	if hit.T <= 0 {
		t.Errorf("expected positive t, got %v", hit.T)
	}
}

func TestIntersectRayTriangleMissesBehindOrigin(t *testing.T) {
	v0 := mgl64.Vec3{0, 0, 0}
	v1 := mgl64.Vec3{1, 0, 0}
	v2 := mgl64.Vec3{0, 1, 0}

	_, ok := IntersectRayTriangle(mgl64.Vec3{0.2, 0.2, -5}, mgl64.Vec3{0, 0, -1}, v0, v1, v2, false, 1e-6)
	if ok {
		t.Errorf("expected no hit: triangle is behind the ray origin")
	}
}

func TestIntersectRayTriangleMissesOutsideEdges(t *testing.T) {
	v0 := mgl64.Vec3{0, 0, 0}
	v1 := mgl64.Vec3{1, 0, 0}
	v2 := mgl64.Vec3{0, 1, 0}

	_, ok := IntersectRayTriangle(mgl64.Vec3{5, 5, 5}, mgl64.Vec3{0, 0, -1}, v0, v1, v2, false, 1e-6)
	if ok {
		t.Errorf("expected no hit: ray passes outside the triangle")
	}
}

func TestIntersectTriangleTriangleOverlapping(t *testing.T) {
	a0, a1, a2 := mgl64.Vec3{0, 0, 0}, mgl64.Vec3{2, 0, 0}, mgl64.Vec3{0, 2, 0}
	b0, b1, b2 := mgl64.Vec3{0.5, 0.5, -1}, mgl64.Vec3{0.5, 0.5, 1}, mgl64.Vec3{1.5, 0.5, 0}

	buf := NewContactBuffer(4, false, DefaultTolerances())
	ok := IntersectTriangleTriangle(a0, a1, a2, 0, 1, b0, b1, b2, 0, 2, buf)
	if !ok {
		t.Fatalf("expected overlap")
	}
	if len(buf.Contacts) == 0 {
		t.Errorf("expected at least one contact")
	}
}

func TestIntersectTriangleTriangleSeparated(t *testing.T) {
	a0, a1, a2 := mgl64.Vec3{0, 0, 0}, mgl64.Vec3{1, 0, 0}, mgl64.Vec3{0, 1, 0}
	b0, b1, b2 := mgl64.Vec3{100, 100, 100}, mgl64.Vec3{101, 100, 100}, mgl64.Vec3{100, 101, 100}

	buf := NewContactBuffer(4, false, DefaultTolerances())
	if IntersectTriangleTriangle(a0, a1, a2, 0, 1, b0, b1, b2, 0, 2, buf) {
		t.Errorf("expected no overlap for far-apart triangles")
	}
	if len(buf.Contacts) != 0 {
		t.Errorf("expected no contacts for separated triangles")
	}
}

func TestIntersectBoxTrianglePenetrating(t *testing.T) {
	box := aabb.OBB{Center: mgl64.Vec3{0, 0, 0}, Extents: mgl64.Vec3{1, 1, 1}, Rotation: mgl64.Ident3()}
	v0, v1, v2 := mgl64.Vec3{-2, 0.5, -2}, mgl64.Vec3{2, 0.5, -2}, mgl64.Vec3{0, 0.5, 2}

	buf := NewContactBuffer(8, false, DefaultTolerances())
	if !IntersectBoxTriangle(box, v0, v1, v2, 0, 7, buf) {
		t.Fatalf("expected box-triangle overlap")
	}
	if len(buf.Contacts) == 0 {
		t.Errorf("expected at least one contact")
	}
	for _, c := range buf.Contacts {
		if c.Side1 != 7 {
			t.Errorf("contact Side1 = %d, want 7 (triangle index)", c.Side1)
		}
	}
}

func TestIntersectBoxTriangleSeparated(t *testing.T) {
	box := aabb.OBB{Center: mgl64.Vec3{0, 0, 0}, Extents: mgl64.Vec3{1, 1, 1}, Rotation: mgl64.Ident3()}
	v0, v1, v2 := mgl64.Vec3{100, 100, 100}, mgl64.Vec3{101, 100, 100}, mgl64.Vec3{100, 101, 100}

	buf := NewContactBuffer(8, false, DefaultTolerances())
	if IntersectBoxTriangle(box, v0, v1, v2, 0, 0, buf) {
		t.Errorf("expected no overlap for a box far from the triangle")
	}
}

func TestIntersectCapsuleTrianglePenetrating(t *testing.T) {
	p0 := mgl64.Vec3{-2, 0.5, 0}
	p1 := mgl64.Vec3{2, 0.5, 0}
	v0, v1, v2 := mgl64.Vec3{-1, 0, -1}, mgl64.Vec3{1, 0, -1}, mgl64.Vec3{0, 0, 1}

	buf := NewContactBuffer(4, false, DefaultTolerances())
	if !IntersectCapsuleTriangle(p0, p1, 0.6, v0, v1, v2, 0, 3, false, buf) {
		t.Fatalf("expected capsule-triangle overlap")
	}
	if len(buf.Contacts) == 0 {
		t.Errorf("expected at least one contact")
	}
}

func TestIntersectCapsuleTriangleSeparated(t *testing.T) {
	p0 := mgl64.Vec3{-2, 50, 0}
	p1 := mgl64.Vec3{2, 50, 0}
	v0, v1, v2 := mgl64.Vec3{-1, 0, -1}, mgl64.Vec3{1, 0, -1}, mgl64.Vec3{0, 0, 1}

	buf := NewContactBuffer(4, false, DefaultTolerances())
	if IntersectCapsuleTriangle(p0, p1, 0.1, v0, v1, v2, 0, 0, false, buf) {
		t.Errorf("expected no overlap: capsule is far above the triangle")
	}
}

func TestIntersectCapsuleTriangleSingleSidedDiscardsBackfaceContact(t *testing.T) {
	p0 := mgl64.Vec3{-2, 0.3, 0}
	p1 := mgl64.Vec3{2, 0.3, 0}
	v0, v1, v2 := mgl64.Vec3{-1, 0, -1}, mgl64.Vec3{1, 0, -1}, mgl64.Vec3{0, 0, 1}

	buf := NewContactBuffer(4, false, DefaultTolerances())
	IntersectCapsuleTriangle(p0, p1, 0.6, v0, v1, v2, 0, 3, true, buf)
	if len(buf.Contacts) != 0 {
		t.Errorf("single-sided closed-surface test should discard backface contacts, got %d", len(buf.Contacts))
	}
}
