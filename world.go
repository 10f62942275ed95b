// Package meshforge ties the mesh, sat, traverse and quadtree packages
// together into the mesh-aware collision world spec.md describes: a set
// of geoms positioned in space, a broad-phase quadtree keeping track of
// where they are, and the narrow-phase dispatch that turns a broad-phase
// pair into contacts.
package meshforge

import (
	"fmt"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/akmonengine/meshforge/aabb"
	"github.com/akmonengine/meshforge/config"
	"github.com/akmonengine/meshforge/internal/logctx"
	"github.com/akmonengine/meshforge/mesh"
	"github.com/akmonengine/meshforge/quadtree"
	"github.com/akmonengine/meshforge/traverse"
)

const DEFAULT_WORKERS = 1

// Geom is one mesh instance placed in the world: a compact BVH plus the
// rigid transform carrying its local space into world space.
type Geom struct {
	ID        int32
	Mesh      *mesh.Mesh
	Transform traverse.Transform
}

// World owns a quadtree broad phase, the geoms it indexes, and the
// per-pair temporal-coherence caches the narrow phase may consult.
type World struct {
	Settings config.Settings
	Workers  int

	quadtree   *quadtree.Quadtree
	geoms      map[int32]*Geom
	pairCaches map[geomPair]*traverse.PairCache

	log logctx.Logger
}

// NewWorld validates settings and allocates a quadtree spanning
// [center-extents, center+extents] on the X/Z plane at the configured
// depth.
func NewWorld(settings config.Settings, center, extents mgl64.Vec2) (*World, error) {
	if err := settings.Validate(); err != nil {
		return nil, fmt.Errorf("meshforge: invalid settings: %w", err)
	}

	return &World{
		Settings:   settings,
		Workers:    DEFAULT_WORKERS,
		quadtree:   quadtree.New(center, extents, settings.QuadtreeDepth),
		geoms:      make(map[int32]*Geom),
		pairCaches: make(map[geomPair]*traverse.PairCache),
		log:        logctx.New("meshforge"),
	}, nil
}

// AddGeom indexes g's world-space footprint in the broad phase.
func (w *World) AddGeom(g *Geom) {
	w.geoms[g.ID] = g
	w.quadtree.Add(quadtree.GeomID(g.ID), bounds2DOf(g))
}

// RemoveGeom drops g from the broad phase and purges any pair cache
// entries that referenced it.
func (w *World) RemoveGeom(id int32) {
	delete(w.geoms, id)
	w.quadtree.Remove(quadtree.GeomID(id))

	for pair := range w.pairCaches {
		if pair.a == id || pair.b == id {
			delete(w.pairCaches, pair)
		}
	}
}

// UpdateTransform replaces id's transform and defers its broad-phase
// re-homing to the next CleanGeoms (spec §4.10's dirty-list semantics).
func (w *World) UpdateTransform(id int32, transform traverse.Transform) {
	g, ok := w.geoms[id]
	if !ok {
		w.log.Warningf("UpdateTransform: unknown geom %d", id)
		return
	}
	g.Transform = transform
	w.quadtree.UpdateBounds(quadtree.GeomID(id), bounds2DOf(g))
}

// CleanGeoms flushes every pending deferred move, reconciling the
// quadtree with the geoms' current bounds.
func (w *World) CleanGeoms() {
	w.quadtree.CleanGeoms()
}

// bounds2DOf projects a geom's world-space OBB (its mesh's root box,
// carried by the geom's transform) onto the X/Z plane the quadtree
// indexes over.
func bounds2DOf(g *Geom) aabb.AABB2D {
	local := g.Mesh.RootBox()
	world := aabb.OBB{Center: local.Center, Extents: local.Extents}.
		Transform(g.Transform.Rotation, g.Transform.Translation).ToAABB()

	min, max := world.MinMax()
	return aabb.FromMinMax2D(mgl64.Vec2{min.X(), min.Z()}, mgl64.Vec2{max.X(), max.Z()})
}
