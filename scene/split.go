package scene

import (
	"math"

	"github.com/Jearyhao/RayTracing/types"
)

// The number of split planes evaluated per axis by the default SAH strategy.
const defaultSahCandidates = 16

var (
	// Split at the mean primitive centroid along the axis with the largest
	// centroid spread.
	CentroidMean SplitStrategy = centroidMean{}

	// Split using the surface area heuristic (SAH) with the default number of
	// candidate planes per axis.
	SurfaceAreaHeuristic SplitStrategy = NewSurfaceAreaHeuristic(defaultSahCandidates)
)

// A SplitStrategy partitions the items of an interior node.
type SplitStrategy interface {
	// Reorder items in place so that items[:mid] form the left child and
	// items[mid:] the right child, and return mid. Returning 0 or len(items)
	// signals that no useful split exists; the builder then splits the range
	// at its midpoint.
	Split(items []BuildItem, bounds BBox) (mid int)
}

// Move all items for which below returns true to the front of the list and
// return the number of such items. Item order within each side is not
// preserved.
func partitionItems(items []BuildItem, below func(*BuildItem) bool) int {
	first := 0
	for index := range items {
		if below(&items[index]) {
			items[first], items[index] = items[index], items[first]
			first++
		}
	}
	return first
}

// Get the box enclosing all item centroids.
func centroidBounds(items []BuildItem) BBox {
	box := EmptyBBox()
	for _, item := range items {
		box = box.Expand(item.Centroid)
	}
	return box
}

type centroidMean struct{}

func (centroidMean) Split(items []BuildItem, _ BBox) int {
	var sum types.Vec3
	for _, item := range items {
		sum = sum.Add(item.Centroid)
	}
	mean := sum.Mul(1.0 / float64(len(items)))

	axis := centroidBounds(items).LongestAxis()
	splitPoint := mean[axis]
	return partitionItems(items, func(item *BuildItem) bool {
		return item.Centroid[axis] < splitPoint
	})
}

type splitScore struct {
	axis       int
	splitPoint float64

	leftCount, rightCount int
	score                 float64
}

// A split strategy that scores evenly spaced candidate planes along each axis
// using the surface area heuristic (lower is better):
//
// left count * left BBOX area + right count * right BBOX area.
//
// Candidates are scored in parallel. If no candidate beats the cost of
// leaving the node unsplit the strategy defers to CentroidMean.
type surfaceAreaHeuristic struct {
	candidatesPerAxis int
}

// Create a SAH split strategy that evaluates candidatesPerAxis planes per axis.
func NewSurfaceAreaHeuristic(candidatesPerAxis int) SplitStrategy {
	if candidatesPerAxis < 1 {
		candidatesPerAxis = 1
	}
	return surfaceAreaHeuristic{candidatesPerAxis: candidatesPerAxis}
}

func (h surfaceAreaHeuristic) Split(items []BuildItem, bounds BBox) int {
	bestScore := float64(len(items)) * bounds.SurfaceArea()
	var bestSplit *splitScore

	cbounds := centroidBounds(items)
	side := cbounds.Extent()

	scoreChan := make(chan splitScore)
	pendingScores := 0
	for axis := 0; axis < 3; axis++ {
		// Skip axis if all centroids project to the same point
		if side[axis] < types.EpsF {
			continue
		}

		step := side[axis] / float64(h.candidatesPerAxis+1)
		for candidate := 1; candidate <= h.candidatesPerAxis; candidate++ {
			pendingScores++
			go func(axis int, splitPoint float64) {
				lCount, rCount, score := scoreSplit(items, axis, splitPoint)
				scoreChan <- splitScore{
					axis:       axis,
					splitPoint: splitPoint,
					leftCount:  lCount,
					rightCount: rCount,
					score:      score,
				}
			}(axis, cbounds.Min[axis]+step*float64(candidate))
		}
	}

	for ; pendingScores > 0; pendingScores-- {
		candidate := <-scoreChan
		if bestSplit == nil && candidate.score < bestScore || bestSplit != nil && betterSplit(candidate, *bestSplit) {
			bestScore = candidate.score
			bestSplit = &candidate
		}
	}

	if bestSplit == nil {
		return CentroidMean.Split(items, bounds)
	}

	axis, splitPoint := bestSplit.axis, bestSplit.splitPoint
	return partitionItems(items, func(item *BuildItem) bool {
		return item.Centroid[axis] < splitPoint
	})
}

// Candidates arrive in random order; break score ties on axis and split point
// so that builds are reproducible.
func betterSplit(candidate, best splitScore) bool {
	if candidate.score != best.score {
		return candidate.score < best.score
	}
	if candidate.axis != best.axis {
		return candidate.axis < best.axis
	}
	return candidate.splitPoint < best.splitPoint
}

// Score splitting items at splitPoint along axis. Splits producing an empty
// side get the worst possible score.
func scoreSplit(items []BuildItem, axis int, splitPoint float64) (leftCount, rightCount int, score float64) {
	lbox := EmptyBBox()
	rbox := EmptyBBox()
	for _, item := range items {
		if item.Centroid[axis] < splitPoint {
			leftCount++
			lbox = lbox.Union(item.Box)
		} else {
			rightCount++
			rbox = rbox.Union(item.Box)
		}
	}

	if leftCount == 0 || rightCount == 0 {
		return leftCount, rightCount, math.MaxFloat64
	}

	score = float64(leftCount)*lbox.SurfaceArea() + float64(rightCount)*rbox.SurfaceArea()
	return leftCount, rightCount, score
}
