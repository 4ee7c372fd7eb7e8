package scene

import (
	"math"
	"math/rand"
	"testing"

	"github.com/Jearyhao/RayTracing/types"
)

func TestEmptyBBox(t *testing.T) {
	box := EmptyBBox()
	if !box.IsEmpty() {
		t.Fatal("expected EmptyBBox to be empty")
	}

	ray := NewRay(types.XYZ(0, 0, -5), types.XYZ(0, 0, 1))
	if _, _, ok := box.Intersect(&ray, ray.MinT, ray.MaxT); ok {
		t.Fatal("expected an empty box to never intersect")
	}

	if sa := box.SurfaceArea(); sa != 0 {
		t.Fatalf("expected empty box surface area to be 0; got %f", sa)
	}
}

func TestBBoxExpandAndUnion(t *testing.T) {
	box := EmptyBBox().Expand(types.XYZ(1, 2, 3))
	if box.Min != types.XYZ(1, 2, 3) || box.Max != types.XYZ(1, 2, 3) {
		t.Fatalf("expected point box at (1,2,3); got %v", box)
	}

	box = box.Expand(types.XYZ(-1, 5, 0))
	expBox := BBox{Min: types.XYZ(-1, 2, 0), Max: types.XYZ(1, 5, 3)}
	if box != expBox {
		t.Fatalf("expected %v; got %v", expBox, box)
	}

	if u := box.Union(EmptyBBox()); u != box {
		t.Fatalf("expected union with empty box to be a no-op; got %v", u)
	}
	if u := EmptyBBox().Union(box); u != box {
		t.Fatalf("expected union of empty box to equal the other box; got %v", u)
	}

	other := NewBBox(types.XYZ(0, 0, 0), types.XYZ(4, 1, 1))
	u := box.Union(other)
	expBox = BBox{Min: types.XYZ(-1, 0, 0), Max: types.XYZ(4, 5, 3)}
	if u != expBox {
		t.Fatalf("expected %v; got %v", expBox, u)
	}
	if !u.Contains(box) || !u.Contains(other) {
		t.Fatal("expected union to contain both boxes")
	}

	if c := other.Centroid(); c != types.XYZ(2, 0.5, 0.5) {
		t.Fatalf("expected centroid (2,0.5,0.5); got %v", c)
	}
	if axis := other.LongestAxis(); axis != 0 {
		t.Fatalf("expected longest axis 0; got %d", axis)
	}
}

func TestBBoxIntersect(t *testing.T) {
	box := NewBBox(types.XYZ(-1, -1, -1), types.XYZ(1, 1, 1))

	type spec struct {
		origin types.Vec3
		dir    types.Vec3
		minT   float64
		maxT   float64
		expHit bool
		expT0  float64
		expT1  float64
	}
	specs := []spec{
		// Head-on
		{types.XYZ(0, 0, -5), types.XYZ(0, 0, 1), 0, math.Inf(1), true, 4, 6},
		// Pointing away
		{types.XYZ(0, 0, -5), types.XYZ(0, 0, -1), 0, math.Inf(1), false, 0, 0},
		// Interval ends before the box
		{types.XYZ(0, 0, -5), types.XYZ(0, 0, 1), 0, 3, false, 0, 0},
		// Origin inside
		{types.XYZ(0, 0, 0), types.XYZ(1, 0, 0), 0, math.Inf(1), true, 0, 1},
		// Axis parallel ray outside the slab
		{types.XYZ(2, 0, -5), types.XYZ(0, 0, 1), 0, math.Inf(1), false, 0, 0},
		// Axis parallel ray grazing a face
		{types.XYZ(1, 0, -5), types.XYZ(0, 0, 1), 0, math.Inf(1), true, 4, 6},
		// Diagonal
		{types.XYZ(-3, -3, 0), types.XYZ(1, 1, 0), 0, math.Inf(1), true, 2, 4},
	}

	for index, s := range specs {
		ray := NewRay(s.origin, s.dir)
		t0, t1, ok := box.Intersect(&ray, s.minT, s.maxT)
		if ok != s.expHit {
			t.Fatalf("[spec %d] expected hit to be %t; got %t", index, s.expHit, ok)
		}
		if !ok {
			continue
		}
		if math.Abs(t0-s.expT0) > 1e-9 || math.Abs(t1-s.expT1) > 1e-9 {
			t.Fatalf("[spec %d] expected interval [%f, %f]; got [%f, %f]", index, s.expT0, s.expT1, t0, t1)
		}
	}
}

func TestBBoxIntersectIncludesFacePoints(t *testing.T) {
	rng := rand.New(rand.NewSource(9))
	box := NewBBox(types.XYZ(0, 2, 1), types.XYZ(3, 3, 1))

	for index := 0; index < 5000; index++ {
		// Pick a point on the box boundary: one or more coordinates are
		// pinned to a face.
		target := types.XYZ(3*rng.Float64(), 2+rng.Float64(), 1)
		for axis := 0; axis < 2; axis++ {
			if rng.Intn(2) == 0 {
				if rng.Intn(2) == 0 {
					target[axis] = box.Min[axis]
				} else {
					target[axis] = box.Max[axis]
				}
			}
		}

		origin := types.XYZ(8*rng.Float64()-2, 8*rng.Float64()-2, 4+4*rng.Float64())
		ray := NewRay(origin, target.Sub(origin))
		t0, t1, ok := box.Intersect(&ray, ray.MinT, ray.MaxT)
		if !ok || t0 > 1 || t1 < 1 {
			t.Fatalf("[ray %d] expected ray from %v aimed at boundary point %v to enter the box at t=1; got [%v, %v] ok=%t", index, origin, target, t0, t1, ok)
		}
	}
}
