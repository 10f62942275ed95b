package mesh

import "fmt"

// Build assembles the compact no-leaf BVH array from a generic tree, per
// spec §4.2: DFS from the root, writing each internal node's AABB into its
// slot and tagging each child reference as either a primitive or another
// node.
//
// A triangleCount of 0 or 1 produces zero internal nodes; Build still
// succeeds, leaving Mesh.Root pointing either nowhere meaningful (T==0) or
// directly at the single primitive (T==1) — neither case has a node array
// to walk.
func Build(tree *GenericTree, vs VertexSupplier, flags []MeshDataFlags, closedSurface bool) (*Mesh, error) {
	if tree.triangleCount == 0 {
		return &Mesh{Vertices: vs, Flags: flags, ClosedSurface: closedSurface}, nil
	}
	if tree.triangleCount == 1 {
		return &Mesh{
			Root:          ChildRef{Index: 0, IsPrimitive: true},
			TriangleCount: 1,
			Vertices:      vs,
			Flags:         flags,
			ClosedSurface: closedSurface,
		}, nil
	}

	wantNodes := tree.triangleCount - 1
	m := &Mesh{
		Nodes:         make([]Node, wantNodes),
		Root:          ChildRef{Index: 0, IsPrimitive: false},
		TriangleCount: tree.triangleCount,
		Vertices:      vs,
		Flags:         flags,
		ClosedSurface: closedSurface,
	}

	nextID := 1 // slot 0 is reserved for the root
	if err := assemble(tree.root, 0, m, &nextID); err != nil {
		return nil, err
	}
	if nextID != wantNodes {
		return nil, fmt.Errorf("mesh: build produced %d nodes, want %d (input tree was not complete)", nextID, wantNodes)
	}
	return m, nil
}

// assemble writes node's AABB into m.Nodes[slot] and recursively lays out
// its two children, per spec §4.2: a leaf child is tagged and written
// directly; an internal child reserves the next free slot (pre-incrementing
// nextID) before its own subtree is assembled.
func assemble(node *genericNode, slot int, m *Mesh, nextID *int) error {
	if node == nil || node.leaf {
		return fmt.Errorf("mesh: build reached an incomplete node at slot %d", slot)
	}
	m.Nodes[slot].Box = node.box

	ref, err := assembleChild(node.left, m, nextID)
	if err != nil {
		return err
	}
	m.Nodes[slot].Pos = ref

	ref, err = assembleChild(node.right, m, nextID)
	if err != nil {
		return err
	}
	m.Nodes[slot].Neg = ref

	return nil
}

func assembleChild(child *genericNode, m *Mesh, nextID *int) (ChildRef, error) {
	if child == nil {
		return ChildRef{}, fmt.Errorf("mesh: build reached a nil child")
	}
	if child.leaf {
		return ChildRef{Index: uint32(child.primitive), IsPrimitive: true}, nil
	}
	if *nextID >= len(m.Nodes) {
		return ChildRef{}, fmt.Errorf("mesh: build overflowed node array (input tree was not complete)")
	}
	slot := *nextID
	*nextID++
	if err := assemble(child, slot, m, nextID); err != nil {
		return ChildRef{}, err
	}
	return ChildRef{Index: uint32(slot), IsPrimitive: false}, nil
}
