package meshforge

import (
	"testing"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/akmonengine/meshforge/config"
	"github.com/akmonengine/meshforge/mesh"
	"github.com/akmonengine/meshforge/traverse"
)

func identityTransform() traverse.Transform {
	return traverse.Transform{Rotation: mgl64.Ident3(), Translation: mgl64.Vec3{}}
}

func translation(v mgl64.Vec3) traverse.Transform {
	return traverse.Transform{Rotation: mgl64.Ident3(), Translation: v}
}

// singleTriangleMesh builds a one-triangle mesh (the degenerate T==1 case
// mesh.Build produces, with no internal nodes).
func singleTriangleMesh(t *testing.T, v0, v1, v2 mgl64.Vec3) *mesh.Mesh {
	vs := func(i int) (mgl64.Vec3, mgl64.Vec3, mgl64.Vec3) { return v0, v1, v2 }
	tree := mesh.BuildGenericTree(vs, 1)
	m, err := mesh.Build(tree, vs, nil, false)
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}
	return m
}

func newTestWorld(t *testing.T) *World {
	w, err := NewWorld(config.Default(), mgl64.Vec2{0, 0}, mgl64.Vec2{10, 10})
	if err != nil {
		t.Fatalf("NewWorld failed: %v", err)
	}
	return w
}

func TestNewWorldRejectsInvalidSettings(t *testing.T) {
	bad := config.Default()
	bad.ContactCap = 0
	if _, err := NewWorld(bad, mgl64.Vec2{0, 0}, mgl64.Vec2{10, 10}); err == nil {
		t.Error("expected NewWorld to reject an invalid contact cap")
	}
}

func TestAddRemoveGeom(t *testing.T) {
	w := newTestWorld(t)
	m := singleTriangleMesh(t, mgl64.Vec3{0, 0, 0}, mgl64.Vec3{1, 0, 0}, mgl64.Vec3{0, 1, 0})
	g := &Geom{ID: 1, Mesh: m, Transform: identityTransform()}

	w.AddGeom(g)
	if _, ok := w.geoms[1]; !ok {
		t.Fatalf("geom 1 was not indexed")
	}

	w.RemoveGeom(1)
	if _, ok := w.geoms[1]; ok {
		t.Errorf("geom 1 still indexed after RemoveGeom")
	}
}

func TestCollideFindsOverlappingGeoms(t *testing.T) {
	w := newTestWorld(t)

	meshA := singleTriangleMesh(t, mgl64.Vec3{0, 0, 0}, mgl64.Vec3{2, 0, 0}, mgl64.Vec3{0, 2, 0})
	meshB := singleTriangleMesh(t, mgl64.Vec3{0.5, 0.5, -1}, mgl64.Vec3{0.5, 0.5, 1}, mgl64.Vec3{1.5, 0.5, 0})

	w.AddGeom(&Geom{ID: 1, Mesh: meshA, Transform: identityTransform()})
	w.AddGeom(&Geom{ID: 2, Mesh: meshB, Transform: identityTransform()})

	results := w.Collide()
	if len(results) != 1 {
		t.Fatalf("results = %d, want exactly 1 overlapping pair", len(results))
	}
	if results[0].GeomA != 1 || results[0].GeomB != 2 {
		t.Errorf("result geoms = (%d, %d), want (1, 2)", results[0].GeomA, results[0].GeomB)
	}
	if len(results[0].Contacts) == 0 {
		t.Errorf("expected at least one contact")
	}
}

func TestCollideSkipsSeparatedGeoms(t *testing.T) {
	w := newTestWorld(t)

	meshA := singleTriangleMesh(t, mgl64.Vec3{0, 0, 0}, mgl64.Vec3{1, 0, 0}, mgl64.Vec3{0, 1, 0})
	meshB := singleTriangleMesh(t, mgl64.Vec3{0, 0, 0}, mgl64.Vec3{1, 0, 0}, mgl64.Vec3{0, 1, 0})

	w.AddGeom(&Geom{ID: 1, Mesh: meshA, Transform: identityTransform()})
	w.AddGeom(&Geom{ID: 2, Mesh: meshB, Transform: translation(mgl64.Vec3{9, 9, 9})})

	if results := w.Collide(); len(results) != 0 {
		t.Errorf("results = %v, want none for far-apart geoms", results)
	}
}

func TestUpdateTransformDefersUntilCleanGeoms(t *testing.T) {
	w := newTestWorld(t)
	m := singleTriangleMesh(t, mgl64.Vec3{0, 0, 0}, mgl64.Vec3{0.2, 0, 0}, mgl64.Vec3{0, 0.2, 0})
	g := &Geom{ID: 1, Mesh: m, Transform: identityTransform()}
	w.AddGeom(g)

	before := w.quadtree.BlockOf(1)
	w.UpdateTransform(1, translation(mgl64.Vec3{9, 0, 9}))
	if w.quadtree.BlockOf(1) != before {
		t.Fatalf("UpdateTransform must defer the broad-phase move until CleanGeoms")
	}

	w.CleanGeoms()
	if w.quadtree.BlockOf(1) == before {
		t.Errorf("expected CleanGeoms to re-home the moved geom")
	}
}

func TestCollideGeomProbesAgainstOverlappingGeoms(t *testing.T) {
	w := newTestWorld(t)

	meshA := singleTriangleMesh(t, mgl64.Vec3{0, 0, 0}, mgl64.Vec3{2, 0, 0}, mgl64.Vec3{0, 2, 0})
	meshB := singleTriangleMesh(t, mgl64.Vec3{0.5, 0.5, -1}, mgl64.Vec3{0.5, 0.5, 1}, mgl64.Vec3{1.5, 0.5, 0})
	meshC := singleTriangleMesh(t, mgl64.Vec3{0, 0, 0}, mgl64.Vec3{1, 0, 0}, mgl64.Vec3{0, 1, 0})

	w.AddGeom(&Geom{ID: 1, Mesh: meshA, Transform: identityTransform()})
	w.AddGeom(&Geom{ID: 2, Mesh: meshB, Transform: identityTransform()})
	w.AddGeom(&Geom{ID: 3, Mesh: meshC, Transform: translation(mgl64.Vec3{9, 9, 9})})

	results := w.CollideGeom(1)
	if len(results) != 1 {
		t.Fatalf("results = %d, want exactly 1", len(results))
	}
	if results[0].GeomB != 2 {
		t.Errorf("result.GeomB = %d, want 2", results[0].GeomB)
	}
}

func TestCollideWithTemporalCoherenceReuseCache(t *testing.T) {
	settings := config.Default()
	settings.FirstContact = true
	settings.TemporalCoherence = true
	w, err := NewWorld(settings, mgl64.Vec2{0, 0}, mgl64.Vec2{10, 10})
	if err != nil {
		t.Fatalf("NewWorld failed: %v", err)
	}

	meshA := singleTriangleMesh(t, mgl64.Vec3{0, 0, 0}, mgl64.Vec3{2, 0, 0}, mgl64.Vec3{0, 2, 0})
	meshB := singleTriangleMesh(t, mgl64.Vec3{0.5, 0.5, -1}, mgl64.Vec3{0.5, 0.5, 1}, mgl64.Vec3{1.5, 0.5, 0})
	w.AddGeom(&Geom{ID: 1, Mesh: meshA, Transform: identityTransform()})
	w.AddGeom(&Geom{ID: 2, Mesh: meshB, Transform: identityTransform()})

	if results := w.Collide(); len(results) != 1 {
		t.Fatalf("first Collide: results = %d, want 1", len(results))
	}

	cache := w.pairCaches[makeGeomPair(1, 2)]
	if cache == nil || !cache.Valid {
		t.Fatalf("expected a populated pair cache after a first-contact hit")
	}

	if results := w.Collide(); len(results) != 1 {
		t.Fatalf("second Collide: results = %d, want 1", len(results))
	}
}
