package scene

import (
	"math"

	"github.com/Jearyhao/RayTracing/types"
)

// An axis aligned bounding box.
type BBox struct {
	Min types.Vec3
	Max types.Vec3
}

// Create an empty box. Expanding an empty box by a point yields a box that
// tightly encloses that point; an empty box never intersects any ray.
func EmptyBBox() BBox {
	return BBox{
		Min: types.Splat(math.MaxFloat64),
		Max: types.Splat(-math.MaxFloat64),
	}
}

// Create the tightest box enclosing all points.
func NewBBox(points ...types.Vec3) BBox {
	box := EmptyBBox()
	for _, p := range points {
		box = box.Expand(p)
	}
	return box
}

// Returns true if the box encloses nothing.
func (b BBox) IsEmpty() bool {
	return b.Min[0] > b.Max[0] || b.Min[1] > b.Max[1] || b.Min[2] > b.Max[2]
}

// Grow box to include point p.
func (b BBox) Expand(p types.Vec3) BBox {
	return BBox{
		Min: types.MinVec3(b.Min, p),
		Max: types.MaxVec3(b.Max, p),
	}
}

// Grow box to include another box.
func (b BBox) Union(other BBox) BBox {
	if other.IsEmpty() {
		return b
	}
	if b.IsEmpty() {
		return other
	}
	return BBox{
		Min: types.MinVec3(b.Min, other.Min),
		Max: types.MaxVec3(b.Max, other.Max),
	}
}

// Get box center.
func (b BBox) Centroid() types.Vec3 {
	return b.Min.Add(b.Max).Mul(0.5)
}

// Get box side lengths. Empty boxes have a zero extent.
func (b BBox) Extent() types.Vec3 {
	if b.IsEmpty() {
		return types.Vec3{}
	}
	return b.Max.Sub(b.Min)
}

// Get box surface area.
func (b BBox) SurfaceArea() float64 {
	side := b.Extent()
	return 2.0 * (side[0]*side[1] + side[1]*side[2] + side[0]*side[2])
}

// Get the axis with the greatest extent.
func (b BBox) LongestAxis() int {
	return b.Extent().MaxAxis()
}

// Returns true if other lies entirely inside this box.
func (b BBox) Contains(other BBox) bool {
	if other.IsEmpty() {
		return true
	}
	if b.IsEmpty() {
		return false
	}
	for axis := 0; axis < 3; axis++ {
		if other.Min[axis] < b.Min[axis] || other.Max[axis] > b.Max[axis] {
			return false
		}
	}
	return true
}

// Relative widening applied to slab distances. Twice gamma(3) bounds the
// rounding error of the slab computation.
var slabErrorScale = 2 * gamma(3)

// Padding added to each box face, relative to the face coordinate magnitude.
// Primitive tests that accept hits on their boundary may place the hit point
// a few ulps outside of the box computed from their vertices.
const boxPadding = 1e-12

func gamma(n int) float64 {
	const machEps = 0.5 * 2.220446049250313e-16
	return float64(n) * machEps / (1 - float64(n)*machEps)
}

// Clip the [tMin, tMax] interval against the box using the slab method. The
// test is conservative: slab distances are widened to cover rounding so a
// point accepted by a primitive test is never rejected by the box of a node
// containing it. Primitives apply the strict interval check on the true
// surface.
func (b BBox) Intersect(ray *Ray, tMin, tMax float64) (t0, t1 float64, ok bool) {
	return b.intersectInv(ray.Origin, ray.invDir(), tMin, tMax)
}

func (b BBox) intersectInv(origin, invDir types.Vec3, tMin, tMax float64) (float64, float64, bool) {
	if b.IsEmpty() {
		return tMin, tMax, false
	}

	for axis := 0; axis < 3; axis++ {
		pad := boxPadding * (1 + math.Max(math.Abs(b.Min[axis]), math.Abs(b.Max[axis])))
		lo, hi := b.Min[axis]-pad, b.Max[axis]+pad

		if math.IsInf(invDir[axis], 0) {
			if origin[axis] < lo || origin[axis] > hi {
				return tMin, tMax, false
			}
			continue
		}

		tNear := (lo - origin[axis]) * invDir[axis]
		tFar := (hi - origin[axis]) * invDir[axis]
		if tNear > tFar {
			tNear, tFar = tFar, tNear
		}
		tNear -= math.Abs(tNear) * slabErrorScale
		tFar += math.Abs(tFar) * slabErrorScale

		if tNear > tMin {
			tMin = tNear
		}
		if tFar < tMax {
			tMax = tFar
		}
		if tMin > tMax {
			return tMin, tMax, false
		}
	}

	return tMin, tMax, true
}
