package scene

import (
	"time"

	"github.com/Jearyhao/RayTracing/log"
	"github.com/Jearyhao/RayTracing/types"
)

// A BVH node. Nodes live in a flat list owned by the BVH and reference their
// children by index. Leaves reference a contiguous [Start, End) range of the
// BVH primitive list and have Left == Right == -1.
type BvhNode struct {
	Box BBox

	Start int32
	End   int32

	Left  int32
	Right int32
}

// Returns true if this node is a leaf.
func (n *BvhNode) IsLeaf() bool {
	return n.Left < 0
}

// Get the number of primitives under this node.
func (n *BvhNode) Count() int {
	return int(n.End - n.Start)
}

// A BVH is a binary tree of nested bounding boxes over a primitive set. It is
// immutable once built so any number of goroutines may query it concurrently
// as long as each one owns the Ray and Intersection it passes in.
type BVH struct {
	// Primitives reordered so that each leaf covers a contiguous range.
	primitives []Primitive

	// Node 0 is the root.
	nodes []BvhNode

	maxLeafSize int
	buildTime   time.Duration
}

// BuildItem caches the bounds of a primitive while the hierarchy is being
// partitioned.
type BuildItem struct {
	Primitive Primitive
	Box       BBox
	Centroid  types.Vec3
}

type buildConfig struct {
	strategy SplitStrategy
	logger   log.Logger
}

// A BuildOption customizes BuildBVH.
type BuildOption func(*buildConfig)

// Select the split strategy used for interior nodes. Defaults to CentroidMean.
func WithSplitStrategy(strategy SplitStrategy) BuildOption {
	return func(cfg *buildConfig) {
		cfg.strategy = strategy
	}
}

// Use a custom logger for build diagnostics.
func WithLogger(logger log.Logger) BuildOption {
	return func(cfg *buildConfig) {
		cfg.logger = logger
	}
}

type buildStats struct {
	nodes    int
	leafs    int
	maxDepth int
	fallback int
}

type builder struct {
	nodes       []BvhNode
	maxLeafSize int
	strategy    SplitStrategy
	stats       buildStats
}

// Construct a BVH over prims. Leaves hold at most maxLeafSize primitives and
// every primitive appears in exactly one leaf. The input slice is not
// modified; the BVH keeps its own reordered copy.
//
// BuildBVH panics with ErrInvalidLeafSize if maxLeafSize < 1. An empty
// primitive set yields a single empty leaf that never reports a hit.
func BuildBVH(prims []Primitive, maxLeafSize int, opts ...BuildOption) *BVH {
	if maxLeafSize < 1 {
		panic(ErrInvalidLeafSize)
	}

	cfg := buildConfig{
		strategy: CentroidMean,
		logger:   log.New("bvh builder"),
	}
	for _, opt := range opts {
		opt(&cfg)
	}

	items := make([]BuildItem, len(prims))
	for index, prim := range prims {
		box := prim.BBox()
		items[index] = BuildItem{
			Primitive: prim,
			Box:       box,
			Centroid:  box.Centroid(),
		}
	}

	b := &builder{
		nodes:       make([]BvhNode, 0, 2*len(items)/maxLeafSize+1),
		maxLeafSize: maxLeafSize,
		strategy:    cfg.strategy,
	}

	start := time.Now()
	b.partition(items, 0, 0)
	elapsed := time.Since(start)

	cfg.logger.Debugf(
		"BVH tree build time: %d ms, primitives: %d, maxDepth: %d, nodes: %d, leafs: %d, forced splits: %d",
		elapsed.Nanoseconds()/1e6, len(items), b.stats.maxDepth, b.stats.nodes, b.stats.leafs, b.stats.fallback,
	)

	bvh := &BVH{
		primitives:  make([]Primitive, len(items)),
		nodes:       b.nodes,
		maxLeafSize: maxLeafSize,
		buildTime:   elapsed,
	}
	for index, item := range items {
		bvh.primitives[index] = item.Primitive
	}
	return bvh
}

// Partition the work list that starts at absolute primitive index offset and
// return the index of the node covering it.
func (b *builder) partition(workList []BuildItem, offset int, depth int) int32 {
	if depth > b.stats.maxDepth {
		b.stats.maxDepth = depth
	}

	bounds := EmptyBBox()
	for _, item := range workList {
		bounds = bounds.Union(item.Box)
	}

	nodeIndex := int32(len(b.nodes))
	b.nodes = append(b.nodes, BvhNode{
		Box:   bounds,
		Start: int32(offset),
		End:   int32(offset + len(workList)),
		Left:  -1,
		Right: -1,
	})
	b.stats.nodes++

	if len(workList) <= b.maxLeafSize {
		b.stats.leafs++
		return nodeIndex
	}

	// Fall back to an index split if the strategy could not separate the
	// items; this guarantees that both halves shrink.
	mid := b.strategy.Split(workList, bounds)
	if mid <= 0 || mid >= len(workList) {
		mid = len(workList) / 2
		b.stats.fallback++
	}

	left := b.partition(workList[:mid], offset, depth+1)
	right := b.partition(workList[mid:], offset+mid, depth+1)
	b.nodes[nodeIndex].Left = left
	b.nodes[nodeIndex].Right = right

	return nodeIndex
}

// Rebuild a BVH from a previously flattened node list and the matching
// primitive order, e.g. when loading a compiled scene. The structure is
// validated before being returned.
func RestoreBVH(nodes []BvhNode, prims []Primitive, maxLeafSize int) (*BVH, error) {
	if maxLeafSize < 1 {
		return nil, ErrInvalidLeafSize
	}

	bvh := &BVH{
		primitives:  append([]Primitive(nil), prims...),
		nodes:       append([]BvhNode(nil), nodes...),
		maxLeafSize: maxLeafSize,
	}
	if err := bvh.Validate(); err != nil {
		return nil, err
	}
	return bvh, nil
}

func (bvh *BVH) mustBeBuilt() {
	if bvh == nil || len(bvh.nodes) == 0 {
		panic(ErrNotBuilt)
	}
}

// Get the box enclosing every primitive in the hierarchy.
func (bvh *BVH) BBox() BBox {
	bvh.mustBeBuilt()
	return bvh.nodes[0].Box
}

// Get the number of primitives in the hierarchy.
func (bvh *BVH) Len() int {
	return len(bvh.primitives)
}

// Get the configured max leaf size.
func (bvh *BVH) MaxLeafSize() int {
	return bvh.maxLeafSize
}

// Get a copy of the flattened node list. Node 0 is the root.
func (bvh *BVH) Nodes() []BvhNode {
	return append([]BvhNode(nil), bvh.nodes...)
}

// Get a copy of the primitive list in leaf order.
func (bvh *BVH) Primitives() []Primitive {
	return append([]Primitive(nil), bvh.primitives...)
}
