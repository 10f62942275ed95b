package quadtree

import "github.com/akmonengine/meshforge/aabb"

// noIndex marks an absent block/record reference. Spec §9 calls for
// modeling parent/child relations with array indices rather than pointers
// so the block array can own everything with no cycles; noIndex is this
// scheme's nil.
const noIndex int32 = -1

// Block is one node of the quadtree's complete 4-ary array: a fixed X/Z
// rectangle, parent/child references as array indices, the number of
// objects hosted anywhere in its subtree, and the head of its own local
// intrusive object list (objects whose AABB is too large to fit any child).
type Block struct {
	Bounds   aabb.AABB2D
	Parent   int32
	Children [4]int32
	Count    int
	Head     int32
}

// blockCount returns (4^(depth+1)-1)/3, the node count of a complete 4-ary
// tree of the given depth (root at depth 0).
func blockCount(depth int) int {
	total, levelSize := 0, 1
	for d := 0; d <= depth; d++ {
		total += levelSize
		levelSize *= 4
	}
	return total
}
