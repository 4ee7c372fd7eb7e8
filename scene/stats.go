package scene

import (
	"bytes"
	"fmt"
	"time"

	"github.com/olekukonko/tablewriter"
)

// Structural statistics for a built BVH.
type Stats struct {
	Primitives int
	Nodes      int
	Leafs      int

	// Leafs that hold no primitives. Only the root of an empty BVH can be one.
	EmptyLeafs int

	MaxDepth     int
	AvgLeafDepth float64

	MaxLeafSize  int
	LargestLeaf  int
	AvgLeafCount float64

	Bounds    BBox
	BuildTime time.Duration
}

// Collect structural statistics.
func (bvh *BVH) Stats() Stats {
	bvh.mustBeBuilt()

	stats := Stats{
		Primitives:  len(bvh.primitives),
		MaxLeafSize: bvh.maxLeafSize,
		Bounds:      bvh.nodes[0].Box,
		BuildTime:   bvh.buildTime,
	}

	type pending struct {
		node  int32
		depth int
	}

	var depthSum int
	stack := []pending{{0, 0}}
	for len(stack) > 0 {
		top := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		stats.Nodes++
		if top.depth > stats.MaxDepth {
			stats.MaxDepth = top.depth
		}

		node := &bvh.nodes[top.node]
		if !node.IsLeaf() {
			stack = append(stack, pending{node.Left, top.depth + 1}, pending{node.Right, top.depth + 1})
			continue
		}

		stats.Leafs++
		depthSum += top.depth
		if node.Count() == 0 {
			stats.EmptyLeafs++
		}
		if node.Count() > stats.LargestLeaf {
			stats.LargestLeaf = node.Count()
		}
	}

	stats.AvgLeafDepth = float64(depthSum) / float64(stats.Leafs)
	stats.AvgLeafCount = float64(stats.Primitives) / float64(stats.Leafs)
	return stats
}

// Build a tabular representation of the statistics.
func (s Stats) Table() string {
	var buf bytes.Buffer
	table := tablewriter.NewWriter(&buf)
	table.SetAlignment(tablewriter.ALIGN_LEFT)
	table.SetAutoFormatHeaders(false)
	table.SetHeader([]string{"Property", "Value"})
	table.Append([]string{"Primitives", fmt.Sprintf("%d", s.Primitives)})
	table.Append([]string{"Nodes", fmt.Sprintf("%d", s.Nodes)})
	table.Append([]string{"Leafs", fmt.Sprintf("%d", s.Leafs)})
	table.Append([]string{"Max depth", fmt.Sprintf("%d", s.MaxDepth)})
	table.Append([]string{"Avg. leaf depth", fmt.Sprintf("%.2f", s.AvgLeafDepth)})
	table.Append([]string{"Leaf size (max / largest / avg)", fmt.Sprintf("%d / %d / %.2f", s.MaxLeafSize, s.LargestLeaf, s.AvgLeafCount)})
	table.Append([]string{"Bounds", fmtBBox(s.Bounds)})
	table.SetFooter([]string{"Build time", s.BuildTime.String()})
	table.Render()
	return buf.String()
}

func fmtBBox(b BBox) string {
	if b.IsEmpty() {
		return "empty"
	}
	return fmt.Sprintf("(%.3g, %.3g, %.3g) - (%.3g, %.3g, %.3g)", b.Min[0], b.Min[1], b.Min[2], b.Max[0], b.Max[1], b.Max[2])
}
