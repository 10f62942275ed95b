package quadtree

import "github.com/akmonengine/meshforge/aabb"

// Collide walks the whole tree, reporting every overlapping geom pair to
// cb: each block's local list is tested against itself, then against every
// non-empty descendant's local lists (spec §4.10). Loose quadtree blocks
// only disjoint-partition the plane among *local* lists at the same
// level — an object hoisted to an ancestor can still overlap anything
// below it, which is exactly what the local-vs-subtree pass covers.
func (q *Quadtree) Collide(cb func(a, b GeomID)) {
	q.lockCount++
	defer func() { q.lockCount-- }()

	q.collideBlock(0, cb)
}

func (q *Quadtree) collideBlock(block int32, cb func(a, b GeomID)) {
	q.collideLocalSelf(block, cb)

	for _, c := range q.blocks[block].Children {
		if c == noIndex {
			continue
		}
		if q.blocks[c].Count > 0 {
			q.collideLocalAgainstSubtree(block, c, cb)
		}
		q.collideBlock(c, cb)
	}
}

// collideLocalSelf pairwise-tests block's own local list against itself.
// A list of 0 or 1 objects has no pairs to test.
func (q *Quadtree) collideLocalSelf(block int32, cb func(a, b GeomID)) {
	head := q.blocks[block].Head
	if head == noIndex || q.records[head].next == noIndex {
		return
	}
	for i := head; i != noIndex; i = q.records[i].next {
		for j := q.records[i].next; j != noIndex; j = q.records[j].next {
			if q.records[i].bounds.OverlapsAABB2D(q.records[j].bounds) {
				cb(q.records[i].id, q.records[j].id)
			}
		}
	}
}

// collideLocalAgainstSubtree tests ancestor's local list against every
// non-empty block's local list in the subtree rooted at sub.
func (q *Quadtree) collideLocalAgainstSubtree(ancestor, sub int32, cb func(a, b GeomID)) {
	if q.blocks[ancestor].Head != noIndex {
		q.collideLocalPair(ancestor, sub, cb)
	}
	for _, c := range q.blocks[sub].Children {
		if c == noIndex || q.blocks[c].Count == 0 {
			continue
		}
		q.collideLocalAgainstSubtree(ancestor, c, cb)
	}
}

func (q *Quadtree) collideLocalPair(blockA, blockB int32, cb func(a, b GeomID)) {
	for i := q.blocks[blockA].Head; i != noIndex; i = q.records[i].next {
		for j := q.blocks[blockB].Head; j != noIndex; j = q.records[j].next {
			if q.records[i].bounds.OverlapsAABB2D(q.records[j].bounds) {
				cb(q.records[i].id, q.records[j].id)
			}
		}
	}
}

// CollideParallel is Collide fanned out across the root's (up to 4)
// sibling subtrees, since they are spatially disjoint and read-only to
// walk (spec §5's "parallelism across independent queries ... provided
// each thread owns its own transient state" applies equally to
// independent subtrees of one query). The root's own local list is tested
// against itself first, on the goroutine that then starts the workers; each
// worker tests the root's list against its child subtree before walking
// that subtree. cb is called only on the caller's goroutine.
func (q *Quadtree) CollideParallel(workers int, cb func(a, b GeomID)) {
	q.lockCount++
	defer func() { q.lockCount-- }()

	type pair struct{ a, b GeomID }
	pairsChan := make(chan pair, 64)
	emit := func(a, b GeomID) { pairsChan <- pair{a, b} }

	children := make([]int32, 0, 4)
	for _, c := range q.blocks[0].Children {
		if c != noIndex {
			children = append(children, c)
		}
	}

	go func() {
		q.collideLocalSelf(0, emit)
		task(workers, children, func(child int32) {
			if q.blocks[child].Count > 0 {
				q.collideLocalAgainstSubtree(0, child, emit)
			}
			q.collideBlock(child, emit)
		})
		close(pairsChan)
	}()

	for p := range pairsChan {
		cb(p.a, p.b)
	}
}

// Collide2 tests a single geom (bounds passed explicitly, since an
// unowned probe has no resident record) against the block that hosts it
// and its whole subtree, then walks up invoking the local-list test on
// every ancestor (spec §4.10). If id is not owned by this tree, the probe
// starts at the root.
func (q *Quadtree) Collide2(id GeomID, bounds aabb.AABB2D, cb func(other GeomID)) {
	q.lockCount++
	defer func() { q.lockCount-- }()

	start := int32(0)
	self := noIndex
	if ri, ok := q.geoms[id]; ok {
		start = q.records[ri].block
		self = ri
	}

	q.collideProbeAgainstSubtree(start, bounds, self, cb)
	for parent := q.blocks[start].Parent; parent != noIndex; parent = q.blocks[parent].Parent {
		q.collideProbeAgainstLocal(parent, bounds, self, cb)
	}
}

func (q *Quadtree) collideProbeAgainstSubtree(block int32, bounds aabb.AABB2D, self int32, cb func(GeomID)) {
	q.collideProbeAgainstLocal(block, bounds, self, cb)
	for _, c := range q.blocks[block].Children {
		if c == noIndex || q.blocks[c].Count == 0 {
			continue
		}
		q.collideProbeAgainstSubtree(c, bounds, self, cb)
	}
}

func (q *Quadtree) collideProbeAgainstLocal(block int32, bounds aabb.AABB2D, self int32, cb func(GeomID)) {
	for ri := q.blocks[block].Head; ri != noIndex; ri = q.records[ri].next {
		if ri == self {
			continue
		}
		if q.records[ri].bounds.OverlapsAABB2D(bounds) {
			cb(q.records[ri].id)
		}
	}
}
