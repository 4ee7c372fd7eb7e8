package scene

import "github.com/Jearyhao/RayTracing/types"

// A BSDF is an opaque shading descriptor supplied by the scene layer. The
// intersection core never inspects it; it is simply handed back with each
// closest hit.
type BSDF interface{}

// MaterialRef is the BSDF handle attached by the mesh readers. It only records
// the material name referenced by the mesh file.
type MaterialRef struct {
	Name string
}

// The Primitive interface is implemented by every renderable shape that can be
// stored in a BVH leaf. The BVH itself also implements it so hierarchies can
// be nested.
type Primitive interface {
	// Get the primitive AABB.
	BBox() BBox

	// Report whether the ray hits the primitive inside (ray.MinT, ray.MaxT).
	// Neither the ray nor any other state is modified.
	HasIntersection(ray *Ray) bool

	// Test the ray against the primitive. On a hit inside (ray.MinT, ray.MaxT)
	// ray.MaxT is shrunk to the hit distance, isect is overwritten and true is
	// returned. On a miss both ray and isect are left untouched.
	Intersect(ray *Ray, isect *Intersection) bool
}

// The result of a closest-hit query.
type Intersection struct {
	// Hit distance along the ray.
	T float64

	// Shading normal at the hit point.
	N types.Vec3

	// The primitive that was hit and its shading descriptor.
	Primitive Primitive
	BSDF      BSDF
}

// A PrimitiveList answers ray queries by testing every primitive in turn. It
// serves as the reference result for accelerated aggregates.
type PrimitiveList []Primitive

func (l PrimitiveList) BBox() BBox {
	box := EmptyBBox()
	for _, p := range l {
		box = box.Union(p.BBox())
	}
	return box
}

func (l PrimitiveList) HasIntersection(ray *Ray) bool {
	for _, p := range l {
		if p.HasIntersection(ray) {
			return true
		}
	}
	return false
}

func (l PrimitiveList) Intersect(ray *Ray, isect *Intersection) bool {
	hit := false
	for _, p := range l {
		if p.Intersect(ray, isect) {
			hit = true
		}
	}
	return hit
}
