package scene

import (
	"math"

	"github.com/Jearyhao/RayTracing/types"
)

// A Ray is parameterized as Origin + t*Dir for t in the open interval
// (MinT, MaxT). Closest-hit queries shrink MaxT every time a nearer surface
// is found; it never grows.
type Ray struct {
	Origin types.Vec3
	Dir    types.Vec3

	MinT float64
	MaxT float64
}

// Create a ray covering (0, +Inf).
func NewRay(origin, dir types.Vec3) Ray {
	return Ray{
		Origin: origin,
		Dir:    dir,
		MinT:   0,
		MaxT:   math.Inf(1),
	}
}

// Create a ray restricted to the (minT, maxT) segment. It panics if the
// interval is empty.
func NewSegment(origin, dir types.Vec3, minT, maxT float64) Ray {
	if !(minT < maxT) {
		panic(ErrInvalidInterval)
	}
	return Ray{
		Origin: origin,
		Dir:    dir,
		MinT:   minT,
		MaxT:   maxT,
	}
}

// Get the point at parameter t.
func (r *Ray) At(t float64) types.Vec3 {
	return r.Origin.Add(r.Dir.Mul(t))
}

// Reciprocal of the ray direction. Zero components map to +/-Inf which the
// slab test treats as a ray parallel to that slab.
func (r *Ray) invDir() types.Vec3 {
	return types.Vec3{1.0 / r.Dir[0], 1.0 / r.Dir[1], 1.0 / r.Dir[2]}
}
