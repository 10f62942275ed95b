package meshforge

import (
	"testing"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/akmonengine/meshforge/aabb"
)

func TestCollideBoxFindsPenetratingTriangle(t *testing.T) {
	w := newTestWorld(t)
	m := singleTriangleMesh(t, mgl64.Vec3{-2, 0.5, -2}, mgl64.Vec3{2, 0.5, -2}, mgl64.Vec3{0, 0.5, 2})
	w.AddGeom(&Geom{ID: 1, Mesh: m, Transform: identityTransform()})

	box := aabb.OBB{Center: mgl64.Vec3{0, 0, 0}, Extents: mgl64.Vec3{1, 1, 1}, Rotation: mgl64.Ident3()}
	contacts, stats := w.CollideBox(1, box)
	if len(contacts) == 0 {
		t.Fatalf("expected at least one contact")
	}
	if stats.Intersections == 0 {
		t.Errorf("expected at least one recorded intersection")
	}
	for _, c := range contacts {
		if c.GeomA != 1 {
			t.Errorf("contact.GeomA = %d, want 1", c.GeomA)
		}
	}
}

func TestCollideBoxMissesFarTriangle(t *testing.T) {
	w := newTestWorld(t)
	m := singleTriangleMesh(t, mgl64.Vec3{100, 100, 100}, mgl64.Vec3{101, 100, 100}, mgl64.Vec3{100, 101, 100})
	w.AddGeom(&Geom{ID: 1, Mesh: m, Transform: identityTransform()})

	box := aabb.OBB{Center: mgl64.Vec3{0, 0, 0}, Extents: mgl64.Vec3{1, 1, 1}, Rotation: mgl64.Ident3()}
	contacts, _ := w.CollideBox(1, box)
	if len(contacts) != 0 {
		t.Errorf("expected no contacts for a box far from the mesh")
	}
}

func TestCollideCapsuleFindsPenetratingTriangle(t *testing.T) {
	w := newTestWorld(t)
	m := singleTriangleMesh(t, mgl64.Vec3{-1, 0, -1}, mgl64.Vec3{1, 0, -1}, mgl64.Vec3{0, 0, 1})
	w.AddGeom(&Geom{ID: 1, Mesh: m, Transform: identityTransform()})

	contacts, stats := w.CollideCapsule(1, mgl64.Vec3{-2, 0.5, 0}, mgl64.Vec3{2, 0.5, 0}, 0.6)
	if len(contacts) == 0 {
		t.Fatalf("expected at least one contact")
	}
	if stats.Intersections == 0 {
		t.Errorf("expected at least one recorded intersection")
	}
}

func TestCollideCapsuleMissesFarTriangle(t *testing.T) {
	w := newTestWorld(t)
	m := singleTriangleMesh(t, mgl64.Vec3{-1, 0, -1}, mgl64.Vec3{1, 0, -1}, mgl64.Vec3{0, 0, 1})
	w.AddGeom(&Geom{ID: 1, Mesh: m, Transform: identityTransform()})

	contacts, _ := w.CollideCapsule(1, mgl64.Vec3{-2, 50, 0}, mgl64.Vec3{2, 50, 0}, 0.1)
	if len(contacts) != 0 {
		t.Errorf("expected no contacts: capsule is far above the triangle")
	}
}

func TestCollideBoxRespectsGeomTransform(t *testing.T) {
	w := newTestWorld(t)
	m := singleTriangleMesh(t, mgl64.Vec3{-2, 0.5, -2}, mgl64.Vec3{2, 0.5, -2}, mgl64.Vec3{0, 0.5, 2})
	w.AddGeom(&Geom{ID: 1, Mesh: m, Transform: translation(mgl64.Vec3{10, 0, 0})})

	// The probe box sits at the mesh's local-space position; once the geom
	// is offset by (10,0,0) the same world-space box should miss.
	box := aabb.OBB{Center: mgl64.Vec3{0, 0, 0}, Extents: mgl64.Vec3{1, 1, 1}, Rotation: mgl64.Ident3()}
	contacts, _ := w.CollideBox(1, box)
	if len(contacts) != 0 {
		t.Errorf("expected no contacts once the geom is translated away from the probe")
	}

	movedBox := aabb.OBB{Center: mgl64.Vec3{10, 0, 0}, Extents: mgl64.Vec3{1, 1, 1}, Rotation: mgl64.Ident3()}
	contacts, _ = w.CollideBox(1, movedBox)
	if len(contacts) == 0 {
		t.Errorf("expected contacts once the probe follows the geom's translation")
	}
}

func TestCollideBoxUnknownGeomReturnsNil(t *testing.T) {
	w := newTestWorld(t)
	box := aabb.OBB{Center: mgl64.Vec3{0, 0, 0}, Extents: mgl64.Vec3{1, 1, 1}, Rotation: mgl64.Ident3()}
	contacts, _ := w.CollideBox(99, box)
	if contacts != nil {
		t.Errorf("expected nil contacts for an unknown geom")
	}
}

func TestRaycastHitsTriangle(t *testing.T) {
	w := newTestWorld(t)
	m := singleTriangleMesh(t, mgl64.Vec3{-1, -1, 0}, mgl64.Vec3{1, -1, 0}, mgl64.Vec3{0, 1, 0})
	w.AddGeom(&Geom{ID: 1, Mesh: m, Transform: identityTransform()})

	ray := aabb.Ray{Origin: mgl64.Vec3{0, 0, 5}, Direction: mgl64.Vec3{0, 0, -1}}
	hitPoint, prim, rt, hit := w.Raycast(1, ray, false)
	if !hit {
		t.Fatalf("expected the ray to hit the triangle")
	}
	if prim != 0 {
		t.Errorf("prim = %d, want 0", prim)
	}
	if rt <= 0 {
		t.Errorf("expected positive t, got %v", rt)
	}
	if hitPoint.Z() > 1e-6 {
		t.Errorf("expected the hit point to lie near z=0, got %v", hitPoint.Z())
	}
}

func TestRaycastRespectsGeomTransform(t *testing.T) {
	w := newTestWorld(t)
	m := singleTriangleMesh(t, mgl64.Vec3{-1, -1, 0}, mgl64.Vec3{1, -1, 0}, mgl64.Vec3{0, 1, 0})
	w.AddGeom(&Geom{ID: 1, Mesh: m, Transform: translation(mgl64.Vec3{0, 0, -20})})

	ray := aabb.Ray{Origin: mgl64.Vec3{0, 0, 5}, Direction: mgl64.Vec3{0, 0, -1}}
	hitPoint, _, rt, hit := w.Raycast(1, ray, false)
	if !hit {
		t.Fatalf("expected the ray to hit the triangle once it is translated into the ray's path")
	}
	if hitPoint.Z() > -19 || hitPoint.Z() < -21 {
		t.Errorf("expected the world-space hit point near z=-20, got %v", hitPoint.Z())
	}
	if rt <= 0 {
		t.Errorf("expected positive t, got %v", rt)
	}
}

func TestRaycastMisses(t *testing.T) {
	w := newTestWorld(t)
	m := singleTriangleMesh(t, mgl64.Vec3{-1, -1, 0}, mgl64.Vec3{1, -1, 0}, mgl64.Vec3{0, 1, 0})
	w.AddGeom(&Geom{ID: 1, Mesh: m, Transform: identityTransform()})

	ray := aabb.Ray{Origin: mgl64.Vec3{100, 100, 5}, Direction: mgl64.Vec3{0, 0, -1}}
	if _, _, _, hit := w.Raycast(1, ray, false); hit {
		t.Errorf("expected no hit for a ray that misses the triangle")
	}
}
