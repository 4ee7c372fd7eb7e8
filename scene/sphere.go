package scene

import (
	"math"

	"github.com/Jearyhao/RayTracing/types"
)

// An analytic sphere primitive.
type Sphere struct {
	Center types.Vec3
	Radius float64

	bsdf BSDF
}

func NewSphere(center types.Vec3, radius float64, bsdf BSDF) *Sphere {
	return &Sphere{
		Center: center,
		Radius: radius,
		bsdf:   bsdf,
	}
}

func (s *Sphere) BBox() BBox {
	r := types.Splat(s.Radius)
	return BBox{Min: s.Center.Sub(r), Max: s.Center.Add(r)}
}

func (s *Sphere) BSDF() BSDF {
	return s.bsdf
}

// Solve the ray/sphere quadratic and return the nearest root inside the ray
// interval.
func (s *Sphere) hit(ray *Ray) (float64, bool) {
	oc := ray.Origin.Sub(s.Center)
	a := ray.Dir.Dot(ray.Dir)
	b := oc.Dot(ray.Dir)
	c := oc.Dot(oc) - s.Radius*s.Radius

	disc := b*b - a*c
	if a < types.EpsF || disc < 0 {
		return 0, false
	}

	sqrtDisc := math.Sqrt(disc)
	for _, t := range [2]float64{(-b - sqrtDisc) / a, (-b + sqrtDisc) / a} {
		if t > ray.MinT && t < ray.MaxT {
			return t, true
		}
	}
	return 0, false
}

func (s *Sphere) HasIntersection(ray *Ray) bool {
	_, ok := s.hit(ray)
	return ok
}

func (s *Sphere) Intersect(ray *Ray, isect *Intersection) bool {
	t, ok := s.hit(ray)
	if !ok {
		return false
	}

	ray.MaxT = t
	isect.T = t
	isect.N = ray.At(t).Sub(s.Center).Normalize()
	isect.Primitive = s
	isect.BSDF = s.bsdf
	return true
}
