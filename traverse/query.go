package traverse

import (
	"github.com/akmonengine/meshforge/aabb"
	"github.com/akmonengine/meshforge/mesh"
	"github.com/akmonengine/meshforge/sat"
)

// BoxCache records the last OBB query's assumption (spec §3's "BoxTC
// cache"): a fattened version of the query box whose descent can be
// replayed — skipped entirely — as long as the new query box still lies
// inside it. A cache miss simply means a full descent runs and refreshes
// the cache; nothing about correctness depends on this being present.
type BoxCache struct {
	Fattened aabb.OBB
	Valid    bool
}

// QueryOBB walks m's BVH against a single query OBB (spec §4.5) and returns
// whether any triangle leaf overlaps it, together with the indices of every
// overlapping triangle; cb, when non-nil, is called once with that full set.
// fattenCoeff is the caller's config.Settings.OBBCacheFattenCoeff, applied
// to the box stashed in cache on a miss.
//
// If cache is non-nil and still contains the query box, the descent is
// skipped and the cache's own last result set would need to be supplied by
// the caller — the cache only tells the caller it is safe to skip
// re-deriving candidates, it does not itself store them.
func QueryOBB(m *mesh.Mesh, box aabb.OBB, cache *BoxCache, fattenCoeff float64, cb Callback, stats *Stats) (hit bool, candidates []int32) {
	if cache != nil && cache.Valid && cache.Fattened.Contains(box) {
		return true, nil
	}

	if m.TriangleCount == 0 {
		if cache != nil {
			cache.Valid = false
		}
		return false, nil
	}

	candidates = queryOBBNode(m, m.Root, box, stats, nil)

	if cache != nil {
		cache.Fattened = box.Fattened(fattenCoeff)
		cache.Valid = true
	}

	hit = len(candidates) > 0
	if hit && cb != nil {
		cb(m, candidates)
	}
	return hit, candidates
}

func queryOBBNode(m *mesh.Mesh, ref mesh.ChildRef, box aabb.OBB, stats *Stats, out []int32) []int32 {
	stats.BVTests++

	nodeBox := boxOf(m, ref)
	if !aabb.OverlapOBBAABB(box, nodeBox) {
		return out
	}

	if ref.IsPrimitive {
		stats.PrimTests++
		return append(out, int32(ref.Index))
	}

	n := m.Nodes[ref.Index]
	out = queryOBBNode(m, n.Pos, box, stats, out)
	out = queryOBBNode(m, n.Neg, box, stats, out)
	return out
}

// QueryRay walks m's BVH against a single ray (spec §4.5/§4.6),
// running the Möller-Trumbore test at every leaf the ray's AABB slab test
// reaches, filtering through rcb if provided, and returns the nearest
// accepted hit.
// rayEpsilon is the caller's config.Settings.RayEpsilon, forwarded to
// sat.IntersectRayTriangle at every leaf.
func QueryRay(m *mesh.Mesh, ray aabb.Ray, cull bool, rayEpsilon float64, rcb RayCallback, stats *Stats) (primIndex int32, t, u, v float64, hit bool) {
	if m.TriangleCount == 0 {
		return 0, 0, 0, 0, false
	}
	primIndex, t, u, v, hit = queryRayNode(m, m.Root, ray, cull, rayEpsilon, rcb, stats, -1, 0, 0, 0, false)
	return
}

func queryRayNode(
	m *mesh.Mesh, ref mesh.ChildRef, ray aabb.Ray, cull bool, rayEpsilon float64, rcb RayCallback, stats *Stats,
	bestPrim int32, bestT, bestU, bestV float64, bestHit bool,
) (int32, float64, float64, float64, bool) {
	stats.BVTests++

	nodeBox := boxOf(m, ref)
	if !ray.IntersectsAABB(nodeBox) {
		return bestPrim, bestT, bestU, bestV, bestHit
	}

	if ref.IsPrimitive {
		stats.PrimTests++
		v0, v1, v2 := m.Triangle(int(ref.Index))
		res, ok := sat.IntersectRayTriangle(ray.Origin, ray.Direction, v0, v1, v2, cull, rayEpsilon)
		if !ok {
			return bestPrim, bestT, bestU, bestV, bestHit
		}
		if ray.MaxDist > 0 && res.T > ray.MaxDist {
			return bestPrim, bestT, bestU, bestV, bestHit
		}
		if rcb != nil && !rcb(m, int32(ref.Index), res.U, res.V) {
			return bestPrim, bestT, bestU, bestV, bestHit
		}
		stats.Intersections++
		if !bestHit || res.T < bestT {
			return int32(ref.Index), res.T, res.U, res.V, true
		}
		return bestPrim, bestT, bestU, bestV, bestHit
	}

	n := m.Nodes[ref.Index]
	bestPrim, bestT, bestU, bestV, bestHit = queryRayNode(m, n.Pos, ray, cull, rayEpsilon, rcb, stats, bestPrim, bestT, bestU, bestV, bestHit)
	bestPrim, bestT, bestU, bestV, bestHit = queryRayNode(m, n.Neg, ray, cull, rayEpsilon, rcb, stats, bestPrim, bestT, bestU, bestV, bestHit)
	return bestPrim, bestT, bestU, bestV, bestHit
}
