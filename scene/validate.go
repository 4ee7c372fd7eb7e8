package scene

import "fmt"

// Verify the structural invariants of the hierarchy:
//
//   - every node is reachable from the root exactly once
//   - leafs hold at most MaxLeafSize primitives (only an empty BVH may have an
//     empty leaf)
//   - the children of an interior node split its primitive range exactly
//   - every node box is the tight union of its children or primitives
//   - the root range covers all primitives
func (bvh *BVH) Validate() error {
	if bvh == nil || len(bvh.nodes) == 0 {
		return ErrNotBuilt
	}

	root := &bvh.nodes[0]
	if root.Start != 0 || int(root.End) != len(bvh.primitives) {
		return fmt.Errorf("bvh: root covers [%d, %d); expected [0, %d)", root.Start, root.End, len(bvh.primitives))
	}

	visited := make([]bool, len(bvh.nodes))
	stack := []int32{0}
	for len(stack) > 0 {
		index := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		if index < 0 || int(index) >= len(bvh.nodes) {
			return fmt.Errorf("bvh: node index %d out of range", index)
		}
		if visited[index] {
			return fmt.Errorf("bvh: node %d is referenced more than once", index)
		}
		visited[index] = true

		node := &bvh.nodes[index]
		if node.Start < 0 || node.End < node.Start || int(node.End) > len(bvh.primitives) {
			return fmt.Errorf("bvh: node %d has invalid primitive range [%d, %d)", index, node.Start, node.End)
		}

		var expBox BBox
		if node.IsLeaf() {
			if node.Right >= 0 {
				return fmt.Errorf("bvh: leaf %d has a right child", index)
			}
			if node.Count() > bvh.maxLeafSize {
				return fmt.Errorf("bvh: leaf %d holds %d primitives; max leaf size is %d", index, node.Count(), bvh.maxLeafSize)
			}
			if node.Count() == 0 && len(bvh.primitives) != 0 {
				return fmt.Errorf("bvh: leaf %d is empty", index)
			}
			expBox = PrimitiveList(bvh.primitives[node.Start:node.End]).BBox()
		} else {
			if node.Right < 0 || int(node.Left) >= len(bvh.nodes) || int(node.Right) >= len(bvh.nodes) {
				return fmt.Errorf("bvh: node %d has invalid children %d, %d", index, node.Left, node.Right)
			}
			left, right := &bvh.nodes[node.Left], &bvh.nodes[node.Right]
			if left.Start != node.Start || left.End != right.Start || right.End != node.End {
				return fmt.Errorf(
					"bvh: children of node %d cover [%d, %d) and [%d, %d); expected a split of [%d, %d)",
					index, left.Start, left.End, right.Start, right.End, node.Start, node.End,
				)
			}
			if left.Count() == 0 || right.Count() == 0 {
				return fmt.Errorf("bvh: node %d has an empty child", index)
			}
			expBox = left.Box.Union(right.Box)
			stack = append(stack, node.Left, node.Right)
		}

		if node.Box != expBox {
			return fmt.Errorf("bvh: node %d box %s is not the tight bound %s", index, fmtBBox(node.Box), fmtBBox(expBox))
		}
	}

	for index, seen := range visited {
		if !seen {
			return fmt.Errorf("bvh: node %d is unreachable", index)
		}
	}
	return nil
}
