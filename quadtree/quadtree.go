// Package quadtree implements the loose broad phase (spec §4.10): a
// fixed-depth complete 4-ary tree over the X/Z plane that tracks per-geom
// residency, hoisting objects too large for a child up to the smallest
// ancestor that fully contains them, and offers both an all-pairs sweep
// (Collide) and a single-geom probe (Collide2).
package quadtree

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/akmonengine/meshforge/aabb"
	"github.com/akmonengine/meshforge/internal/logctx"
)

// GeomID is the caller-owned identity of a geom the quadtree tracks. The
// tree never dereferences it — it is only ever used as a map key and as the
// payload handed back through Collide/Collide2's callbacks, consistent with
// the "no raw pointers across the ownership boundary" convention the
// teacher's trigger.go applies to its own pairKey bookkeeping.
type GeomID int32

// geomRecord is one arena slot: an intrusive doubly linked list node (by
// record index, not pointer) plus the bounds and current residency needed
// to re-home it.
type geomRecord struct {
	id     GeomID
	bounds aabb.AABB2D
	block  int32
	prev   int32
	next   int32
	dirty  bool
}

// Quadtree is a fixed-depth loose quadtree broad phase (spec §4.10/§9).
// Its block array and geom arena are append-only except through Add/Remove;
// lockCount is a diagnostic-only precondition counter, never an actual lock.
type Quadtree struct {
	blocks []Block
	depth  int

	geoms       map[GeomID]int32
	records     []geomRecord
	freeRecords []int32
	dirtyList   []GeomID

	lockCount int
	log       logctx.Logger
}

// New allocates a quadtree covering [center-extents, center+extents] over
// X/Z, subdivided depth levels deep (root at depth 0).
func New(center, extents mgl64.Vec2, depth int) *Quadtree {
	if depth < 0 {
		depth = 0
	}

	q := &Quadtree{
		blocks: make([]Block, blockCount(depth)),
		depth:  depth,
		geoms:  make(map[GeomID]int32),
		log:    logctx.New("quadtree"),
	}

	rootMin := center.Sub(extents)
	rootMax := center.Add(extents)
	// Widen the true outer edge by one ULP so a point exactly on the
	// world boundary resolves as contained rather than falling just
	// outside it (spec §4.10's "nextafter(max, +inf)" convention).
	rootMax = mgl64.Vec2{
		math.Nextafter(rootMax.X(), math.Inf(1)),
		math.Nextafter(rootMax.Y(), math.Inf(1)),
	}

	q.subdivide(0, 0, aabb.FromMinMax2D(rootMin, rootMax), noIndex)
	return q
}

func (q *Quadtree) subdivide(index int32, level int, bounds aabb.AABB2D, parent int32) {
	q.blocks[index] = Block{
		Bounds:   bounds,
		Parent:   parent,
		Children: [4]int32{noIndex, noIndex, noIndex, noIndex},
		Head:     noIndex,
	}
	if level >= q.depth {
		return
	}

	min, max := bounds.MinMax()
	mid := min.Add(max).Mul(0.5)
	quadrants := [4]aabb.AABB2D{
		aabb.FromMinMax2D(mgl64.Vec2{min.X(), min.Y()}, mgl64.Vec2{mid.X(), mid.Y()}),
		aabb.FromMinMax2D(mgl64.Vec2{mid.X(), min.Y()}, mgl64.Vec2{max.X(), mid.Y()}),
		aabb.FromMinMax2D(mgl64.Vec2{min.X(), mid.Y()}, mgl64.Vec2{mid.X(), max.Y()}),
		aabb.FromMinMax2D(mgl64.Vec2{mid.X(), mid.Y()}, mgl64.Vec2{max.X(), max.Y()}),
	}

	for c := 0; c < 4; c++ {
		childIdx := 4*index + 1 + int32(c)
		q.blocks[index].Children[c] = childIdx
		q.subdivide(childIdx, level+1, quadrants[c], index)
	}
}

// GetBlock returns the deepest block whose rectangle fully contains bounds,
// descending from the root (spec §4.10). Traverse reuses the same walk but
// starts from the geom's current block: it first climbs to the nearest
// ancestor that contains bounds, then descends from there.
func (q *Quadtree) GetBlock(bounds aabb.AABB2D) int32 {
	return q.getBlockFrom(0, bounds)
}

func (q *Quadtree) getBlockFrom(start int32, bounds aabb.AABB2D) int32 {
	idx := start
	for idx != 0 && !q.blocks[idx].Bounds.ContainsAABB2D(bounds) {
		idx = q.blocks[idx].Parent
	}
	if !q.blocks[idx].Bounds.ContainsAABB2D(bounds) {
		// Larger than the world root itself; host it there regardless.
		return idx
	}

	for {
		b := &q.blocks[idx]
		child := noIndex
		for _, c := range b.Children {
			if c == noIndex {
				continue
			}
			if q.blocks[c].Bounds.ContainsAABB2D(bounds) {
				child = c
				break
			}
		}
		if child == noIndex {
			return idx
		}
		idx = child
	}
}

func (q *Quadtree) checkUnlocked(op string) {
	if q.lockCount > 0 {
		q.log.Warningf("quadtree: %s called while a query holds lock_count=%d", op, q.lockCount)
	}
}

// Add inserts id at the deepest block fully containing bounds and
// increments the subtree count of every ancestor up to the root.
func (q *Quadtree) Add(id GeomID, bounds aabb.AABB2D) {
	q.checkUnlocked("Add")

	if _, exists := q.geoms[id]; exists {
		q.log.Warningf("quadtree: Add called for already-resident geom %d", id)
		return
	}

	block := q.GetBlock(bounds)
	ri := q.allocRecord(id, bounds, block)
	q.geoms[id] = ri
	q.linkIntoBlock(block, ri)
	q.adjustAncestorCounts(block, 1)
}

// Remove unlinks id from its hosting block's local list and decrements the
// subtree count of every ancestor up to the root.
func (q *Quadtree) Remove(id GeomID) {
	q.checkUnlocked("Remove")

	ri, ok := q.geoms[id]
	if !ok {
		q.log.Warningf("quadtree: Remove called for unknown geom %d", id)
		return
	}

	block := q.records[ri].block
	q.unlinkFromBlock(block, ri)
	q.adjustAncestorCounts(block, -1)
	delete(q.geoms, id)
	q.records[ri].dirty = false
	q.freeRecords = append(q.freeRecords, ri)
}

// UpdateBounds records a geom's new AABB and queues the geom on the dirty
// list (once until the next flush); any move to another block is deferred
// until CleanGeoms runs (spec.md's table-level "per-object residency +
// dirty list" summary of this component).
func (q *Quadtree) UpdateBounds(id GeomID, bounds aabb.AABB2D) {
	ri, ok := q.geoms[id]
	if !ok {
		q.log.Warningf("quadtree: UpdateBounds called for unknown geom %d", id)
		return
	}

	q.records[ri].bounds = bounds
	if !q.records[ri].dirty {
		q.records[ri].dirty = true
		q.dirtyList = append(q.dirtyList, id)
	}
}

// Traverse re-homes id to the deepest block that still fully contains its
// current bounds (spec §4.10), moving it via Remove+Add semantics if that
// block differs from the one it currently occupies. Called directly for an
// immediate move, or by CleanGeoms to flush the whole dirty list at once.
func (q *Quadtree) Traverse(id GeomID) {
	ri, ok := q.geoms[id]
	if !ok {
		return
	}

	r := &q.records[ri]
	newBlock := q.getBlockFrom(r.block, r.bounds)
	r.dirty = false
	if newBlock == r.block {
		return
	}

	oldBlock := r.block
	q.unlinkFromBlock(oldBlock, ri)
	q.adjustAncestorCounts(oldBlock, -1)

	r.block = newBlock
	q.linkIntoBlock(newBlock, ri)
	q.adjustAncestorCounts(newBlock, 1)
}

// CleanGeoms flushes the dirty list built up by UpdateBounds, re-homing
// every geom whose AABB changed since the last flush. Raises lock_count for
// the duration, per spec §5.
func (q *Quadtree) CleanGeoms() {
	q.lockCount++
	defer func() { q.lockCount-- }()

	for _, id := range q.dirtyList {
		if ri, ok := q.geoms[id]; ok && q.records[ri].dirty {
			q.Traverse(id)
		}
	}
	q.dirtyList = q.dirtyList[:0]
}

func (q *Quadtree) allocRecord(id GeomID, bounds aabb.AABB2D, block int32) int32 {
	rec := geomRecord{id: id, bounds: bounds, block: block, prev: noIndex, next: noIndex}
	if n := len(q.freeRecords); n > 0 {
		ri := q.freeRecords[n-1]
		q.freeRecords = q.freeRecords[:n-1]
		q.records[ri] = rec
		return ri
	}
	q.records = append(q.records, rec)
	return int32(len(q.records) - 1)
}

func (q *Quadtree) linkIntoBlock(block int32, ri int32) {
	b := &q.blocks[block]
	q.records[ri].prev = noIndex
	q.records[ri].next = b.Head
	if b.Head != noIndex {
		q.records[b.Head].prev = ri
	}
	b.Head = ri
}

func (q *Quadtree) unlinkFromBlock(block int32, ri int32) {
	r := &q.records[ri]
	if r.prev != noIndex {
		q.records[r.prev].next = r.next
	} else {
		q.blocks[block].Head = r.next
	}
	if r.next != noIndex {
		q.records[r.next].prev = r.prev
	}
	r.prev, r.next = noIndex, noIndex
}

func (q *Quadtree) adjustAncestorCounts(block int32, delta int) {
	for idx := block; idx != noIndex; idx = q.blocks[idx].Parent {
		q.blocks[idx].Count += delta
	}
}

// BlockOf returns the block currently hosting id, or noIndex if id is not
// resident.
func (q *Quadtree) BlockOf(id GeomID) int32 {
	ri, ok := q.geoms[id]
	if !ok {
		return noIndex
	}
	return q.records[ri].block
}

// Count returns the number of geoms hosted anywhere in block's subtree.
func (q *Quadtree) Count(block int32) int {
	return q.blocks[block].Count
}
