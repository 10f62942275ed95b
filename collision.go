package meshforge

import (
	"github.com/akmonengine/meshforge/quadtree"
	"github.com/akmonengine/meshforge/sat"
	"github.com/akmonengine/meshforge/traverse"
)

// tolerances builds the sat.Tolerances every contact generator consults
// from w.Settings, so a caller's config actually reaches the epsilon/bias
// comparisons instead of those being fixed package constants.
func (w *World) tolerances() sat.Tolerances {
	return sat.Tolerances{
		ClipPlaneEpsilon:     w.Settings.ClipPlaneEpsilon,
		EdgeAxisBias:         w.Settings.EdgeAxisBias,
		DedupPositionEpsilon: w.Settings.DedupPositionEpsilon,
		DedupNormalEpsilon:   w.Settings.DedupNormalEpsilon,
	}
}

// geomPair is a normalized, order-independent key into World.pairCaches.
type geomPair struct{ a, b int32 }

func makeGeomPair(a, b int32) geomPair {
	if b < a {
		a, b = b, a
	}
	return geomPair{a, b}
}

// PairResult is one broad-phase pair's narrow-phase outcome: the contacts
// CollideMeshes produced (empty if the pair's AABBs overlapped but no
// triangle pair actually touched) plus its diagnostic Stats.
type PairResult struct {
	GeomA, GeomB int32
	Contacts     []sat.Contact
	Stats        traverse.Stats
}

// Collide runs the full broad+narrow phase pipeline: the quadtree reports
// every geom pair whose world-space footprints overlap, and each pair's
// meshes are then descended together for actual contacts. Narrow-phase
// dispatch is fanned out across w.Workers; each worker owns its own
// contact buffer and stats, so no pair's result ever touches another's.
// Each result lists the lower geom ID as GeomA.
func (w *World) Collide() []PairResult {
	pairs := w.collectBroadPhasePairs()
	if w.Settings.TemporalCoherence {
		for _, p := range pairs {
			w.pairCacheFor(makeGeomPair(p[0], p[1]))
		}
	}

	results := make([]PairResult, len(pairs))
	found := make([]bool, len(pairs))

	task(max(DEFAULT_WORKERS, w.Workers), indexRange(len(pairs)), func(i int) {
		a, b := w.geoms[pairs[i][0]], w.geoms[pairs[i][1]]
		buf := sat.NewContactBuffer(w.Settings.ContactCap, w.Settings.UnimportantContacts, w.tolerances())
		var stats traverse.Stats
		var cache *traverse.PairCache
		if w.Settings.TemporalCoherence {
			cache = w.pairCaches[makeGeomPair(a.ID, b.ID)]
		}

		hit := traverse.CollideMeshes(a.Mesh, a.Transform, a.ID, b.Mesh, b.Transform, b.ID, w.Settings.FirstContact, cache, buf, &stats)
		results[i] = PairResult{GeomA: a.ID, GeomB: b.ID, Contacts: buf.Contacts, Stats: stats}
		found[i] = hit
	})

	out := results[:0]
	for i, f := range found {
		if f {
			out = append(out, results[i])
		}
	}
	return out
}

// CollideGeom probes a single geom against every geom it currently
// overlaps in the broad phase (spec §4.10's Collide2), running the
// narrow phase against each candidate sequentially.
func (w *World) CollideGeom(id int32) []PairResult {
	g, ok := w.geoms[id]
	if !ok {
		w.log.Warningf("CollideGeom: unknown geom %d", id)
		return nil
	}

	var others []int32
	w.quadtree.Collide2(quadtree.GeomID(id), bounds2DOf(g), func(other quadtree.GeomID) {
		others = append(others, int32(other))
	})

	var out []PairResult
	for _, otherID := range others {
		other, ok := w.geoms[otherID]
		if !ok {
			continue
		}
		buf := sat.NewContactBuffer(w.Settings.ContactCap, w.Settings.UnimportantContacts, w.tolerances())
		var stats traverse.Stats
		var cache *traverse.PairCache
		if w.Settings.TemporalCoherence {
			cache = w.pairCacheFor(makeGeomPair(g.ID, other.ID))
		}
		if traverse.CollideMeshes(g.Mesh, g.Transform, g.ID, other.Mesh, other.Transform, other.ID, w.Settings.FirstContact, cache, buf, &stats) {
			out = append(out, PairResult{GeomA: g.ID, GeomB: other.ID, Contacts: buf.Contacts, Stats: stats})
		}
	}
	return out
}

// collectBroadPhasePairs runs the quadtree's Collide synchronously,
// collecting every reported pair before any narrow-phase work starts —
// narrow-phase dispatch and pair-cache resolution need the full list up
// front to fan out safely.
func (w *World) collectBroadPhasePairs() [][2]int32 {
	var pairs [][2]int32
	w.quadtree.Collide(func(a, b quadtree.GeomID) {
		// Lower geom ID first, whatever order the quadtree walk found them in.
		if b < a {
			a, b = b, a
		}
		pairs = append(pairs, [2]int32{int32(a), int32(b)})
	})
	return pairs
}

// pairCacheFor returns pair's cache, allocating one on first use. Callers
// running this concurrently must not: it writes to w.pairCaches and is
// only ever called from a single goroutine (sequential pre-resolution in
// Collide, or the always-sequential CollideGeom).
func (w *World) pairCacheFor(pair geomPair) *traverse.PairCache {
	c, ok := w.pairCaches[pair]
	if !ok {
		c = &traverse.PairCache{}
		w.pairCaches[pair] = c
	}
	return c
}

// indexRange returns {0, 1, ..., n-1}, the index slice task fans out over
// so each narrow-phase worker can write into disjoint result slots.
func indexRange(n int) []int {
	idx := make([]int, n)
	for i := range idx {
		idx[i] = i
	}
	return idx
}
