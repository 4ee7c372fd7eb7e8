package scene

import (
	"math"

	"github.com/Jearyhao/RayTracing/types"
)

// A triangle primitive with per-vertex shading normals.
type Triangle struct {
	P1, P2, P3 types.Vec3
	N1, N2, N3 types.Vec3

	bsdf BSDF
	bbox BBox
}

// Create a new triangle from its vertex positions and normals.
func NewTriangle(positions, normals [3]types.Vec3, bsdf BSDF) *Triangle {
	return &Triangle{
		P1:   positions[0],
		P2:   positions[1],
		P3:   positions[2],
		N1:   normals[0],
		N2:   normals[1],
		N3:   normals[2],
		bsdf: bsdf,
		bbox: NewBBox(positions[0], positions[1], positions[2]),
	}
}

// Create a new triangle using the geometric normal for all three vertices.
func NewFlatTriangle(positions [3]types.Vec3, bsdf BSDF) *Triangle {
	n := faceNormal(positions[0], positions[1], positions[2])
	return NewTriangle(positions, [3]types.Vec3{n, n, n}, bsdf)
}

func faceNormal(p1, p2, p3 types.Vec3) types.Vec3 {
	return p2.Sub(p1).Cross(p3.Sub(p1)).Normalize()
}

func (t *Triangle) BBox() BBox {
	return t.bbox
}

// Get the shading descriptor.
func (t *Triangle) BSDF() BSDF {
	return t.bsdf
}

// Get the geometric (face) normal.
func (t *Triangle) Normal() types.Vec3 {
	return faceNormal(t.P1, t.P2, t.P3)
}

// Möller-Trumbore ray/triangle test. Returns the hit distance and the
// barycentric coordinates of the hit point relative to P2 and P3.
func (t *Triangle) hit(ray *Ray) (tHit, u, v float64, ok bool) {
	edge1 := t.P2.Sub(t.P1)
	edge2 := t.P3.Sub(t.P1)
	h := ray.Dir.Cross(edge2)
	a := edge1.Dot(h)

	// Ray parallel to the triangle plane
	if math.Abs(a) < types.EpsF {
		return 0, 0, 0, false
	}

	f := 1.0 / a
	s := ray.Origin.Sub(t.P1)
	u = f * s.Dot(h)
	if u < 0.0 || u > 1.0 {
		return 0, 0, 0, false
	}

	q := s.Cross(edge1)
	v = f * ray.Dir.Dot(q)
	if v < 0.0 || u+v > 1.0 {
		return 0, 0, 0, false
	}

	tHit = f * edge2.Dot(q)
	if tHit <= ray.MinT || tHit >= ray.MaxT {
		return 0, 0, 0, false
	}

	return tHit, u, v, true
}

func (t *Triangle) HasIntersection(ray *Ray) bool {
	_, _, _, ok := t.hit(ray)
	return ok
}

func (t *Triangle) Intersect(ray *Ray, isect *Intersection) bool {
	tHit, u, v, ok := t.hit(ray)
	if !ok {
		return false
	}

	ray.MaxT = tHit
	isect.T = tHit
	isect.N = t.N1.Mul(1 - u - v).Add(t.N2.Mul(u)).Add(t.N3.Mul(v))
	isect.Primitive = t
	isect.BSDF = t.bsdf
	return true
}

// An indexed triangle mesh. Every three entries in Indices define a triangle.
// Normals may be empty in which case triangles use their face normal.
type Mesh struct {
	Positions []types.Vec3
	Normals   []types.Vec3
	Indices   []int
	BSDF      BSDF
}

// Create the triangle referencing vertices v1, v2 and v3.
func (m *Mesh) Triangle(v1, v2, v3 int) *Triangle {
	positions := [3]types.Vec3{m.Positions[v1], m.Positions[v2], m.Positions[v3]}
	if len(m.Normals) == 0 {
		return NewFlatTriangle(positions, m.BSDF)
	}
	return NewTriangle(positions, [3]types.Vec3{m.Normals[v1], m.Normals[v2], m.Normals[v3]}, m.BSDF)
}

// Expand the mesh into a list of triangle primitives.
func (m *Mesh) Triangles() []Primitive {
	prims := make([]Primitive, 0, len(m.Indices)/3)
	for i := 0; i+2 < len(m.Indices); i += 3 {
		prims = append(prims, m.Triangle(m.Indices[i], m.Indices[i+1], m.Indices[i+2]))
	}
	return prims
}
