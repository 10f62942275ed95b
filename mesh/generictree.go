package mesh

import (
	"sort"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/akmonengine/meshforge/aabb"
)

// genericNode is one node of the transient full binary tree Build consumes:
// a leaf carries exactly one primitive index, an internal node carries
// exactly two children. It exists only for the duration of BuildGenericTree
// + Build and is discarded once the compact array exists (spec §3).
type genericNode struct {
	box           aabb.AABB
	primitive     int // valid iff leaf
	leaf          bool
	left, right   *genericNode
}

// GenericTree is the builder's transient output: a full binary tree with
// 2T−1 nodes, T of them leaves each carrying exactly one primitive index.
type GenericTree struct {
	root          *genericNode
	triangleCount int
}

// BuildGenericTree constructs the transient full binary tree over
// triangleCount primitives by recursive median-centroid splitting along
// the longest axis of the running AABB.
//
// Grounded on _examples/other_examples/viamrobotics-rdk__bvh.go's
// buildBVHNode: same longest-axis selection and median split by sorted
// centroid, generalized to split every node down to a single-primitive
// leaf (rdk's version stops at a small leaf bucket; the compact no-leaf
// BVH this tree feeds requires exactly one primitive per leaf).
func BuildGenericTree(vs VertexSupplier, triangleCount int) *GenericTree {
	if triangleCount <= 0 {
		return &GenericTree{triangleCount: triangleCount}
	}

	indices := make([]int, triangleCount)
	centroids := make([]mgl64.Vec3, triangleCount)
	boxes := make([]aabb.AABB, triangleCount)
	for i := 0; i < triangleCount; i++ {
		v0, v1, v2 := vs(i)
		indices[i] = i
		centroids[i] = v0.Add(v1).Add(v2).Mul(1.0 / 3.0)
		boxes[i] = aabb.FromPoints(v0, v1, v2)
	}

	root := buildGenericNode(indices, centroids, boxes)
	return &GenericTree{root: root, triangleCount: triangleCount}
}

func buildGenericNode(indices []int, centroids []mgl64.Vec3, boxes []aabb.AABB) *genericNode {
	box := boxes[indices[0]]
	for _, i := range indices[1:] {
		box = box.Union(boxes[i])
	}

	if len(indices) == 1 {
		return &genericNode{box: box, primitive: indices[0], leaf: true}
	}

	axis := 0
	ext := box.Extents
	if ext.Y() > ext.X() && ext.Y() > ext.Z() {
		axis = 1
	} else if ext.Z() > ext.X() && ext.Z() > ext.Y() {
		axis = 2
	}

	sort.Slice(indices, func(a, b int) bool {
		return centroids[indices[a]][axis] < centroids[indices[b]][axis]
	})

	mid := len(indices) / 2
	left := buildGenericNode(indices[:mid], centroids, boxes)
	right := buildGenericNode(indices[mid:], centroids, boxes)
	return &genericNode{box: box, left: left, right: right}
}
