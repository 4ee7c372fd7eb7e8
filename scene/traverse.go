package scene

// Per-query traversal counters.
type TraversalStats struct {
	// Nodes whose box was tested against the ray.
	NodesVisited int

	// Primitive intersection routines invoked.
	PrimitiveTests int
}

// Add the counters of another query.
func (s *TraversalStats) Add(other TraversalStats) {
	s.NodesVisited += other.NodesVisited
	s.PrimitiveTests += other.PrimitiveTests
}

// A pending node on the traversal stack together with the distance at which
// the ray enters its box.
type stackEntry struct {
	node  int32
	entry float64
}

// Find the closest hit along the ray. If any primitive is hit inside
// (ray.MinT, ray.MaxT) the method returns true, isect describes the closest
// hit and ray.MaxT equals its distance. Otherwise ray and isect are left
// untouched.
func (bvh *BVH) Intersect(ray *Ray, isect *Intersection) bool {
	return bvh.traverse(ray, isect, nil)
}

// Same as Intersect but also accumulates traversal counters into stats.
func (bvh *BVH) IntersectWithStats(ray *Ray, isect *Intersection, stats *TraversalStats) bool {
	return bvh.traverse(ray, isect, stats)
}

// Find the closest hit along a copy of ray. The caller's ray is not modified.
func (bvh *BVH) ClosestHit(ray Ray) (Intersection, bool) {
	var isect Intersection
	ok := bvh.traverse(&ray, &isect, nil)
	return isect, ok
}

// Report whether the ray hits anything inside (ray.MinT, ray.MaxT). The
// search stops at the first hit and never modifies the ray.
func (bvh *BVH) HasIntersection(ray *Ray) bool {
	return bvh.traverse(ray, nil, nil)
}

// Same as HasIntersection but also accumulates traversal counters into stats.
func (bvh *BVH) HasIntersectionWithStats(ray *Ray, stats *TraversalStats) bool {
	return bvh.traverse(ray, nil, stats)
}

// Walk the tree front to back pruning every subtree whose box the ray misses
// within its current interval. A nil isect selects any-hit mode.
func (bvh *BVH) traverse(ray *Ray, isect *Intersection, stats *TraversalStats) bool {
	bvh.mustBeBuilt()

	invDir := ray.invDir()
	if stats != nil {
		stats.NodesVisited++
	}
	entry, _, ok := bvh.nodes[0].Box.intersectInv(ray.Origin, invDir, ray.MinT, ray.MaxT)
	if !ok {
		return false
	}

	var stackBuf [64]stackEntry
	stack := append(stackBuf[:0], stackEntry{node: 0, entry: entry})

	hit := false
	for len(stack) > 0 {
		top := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		// A closer hit found since this node was pushed may rule it out
		if top.entry > ray.MaxT {
			continue
		}

		node := &bvh.nodes[top.node]
		if node.IsLeaf() {
			for _, prim := range bvh.primitives[node.Start:node.End] {
				if stats != nil {
					stats.PrimitiveTests++
				}
				if isect == nil {
					if prim.HasIntersection(ray) {
						return true
					}
				} else if prim.Intersect(ray, isect) {
					hit = true
				}
			}
			continue
		}

		if stats != nil {
			stats.NodesVisited += 2
		}
		lEntry, _, lHit := bvh.nodes[node.Left].Box.intersectInv(ray.Origin, invDir, ray.MinT, ray.MaxT)
		rEntry, _, rHit := bvh.nodes[node.Right].Box.intersectInv(ray.Origin, invDir, ray.MinT, ray.MaxT)

		// Push the farther child first so the nearer one is processed next
		// and tightens ray.MaxT before the farther one is examined.
		switch {
		case lHit && rHit:
			if lEntry <= rEntry {
				stack = append(stack, stackEntry{node.Right, rEntry}, stackEntry{node.Left, lEntry})
			} else {
				stack = append(stack, stackEntry{node.Left, lEntry}, stackEntry{node.Right, rEntry})
			}
		case lHit:
			stack = append(stack, stackEntry{node.Left, lEntry})
		case rHit:
			stack = append(stack, stackEntry{node.Right, rEntry})
		}
	}

	return hit
}
