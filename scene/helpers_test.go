package scene

import (
	"math/rand"

	"github.com/Jearyhao/RayTracing/types"
)

func randVec3(rng *rand.Rand, scale float64) types.Vec3 {
	return types.Vec3{
		(rng.Float64()*2 - 1) * scale,
		(rng.Float64()*2 - 1) * scale,
		(rng.Float64()*2 - 1) * scale,
	}
}

// Generate count small triangles scattered inside a cube of half-side 10.
func randomTriangles(rng *rand.Rand, count int) []Primitive {
	prims := make([]Primitive, count)
	for index := range prims {
		center := randVec3(rng, 10)
		prims[index] = NewFlatTriangle([3]types.Vec3{
			center.Add(randVec3(rng, 1)),
			center.Add(randVec3(rng, 1)),
			center.Add(randVec3(rng, 1)),
		}, MaterialRef{Name: "rand"})
	}
	return prims
}

// Generate rays starting outside the geometry and aimed at points inside it.
func randomRays(rng *rand.Rand, count int) []Ray {
	rays := make([]Ray, count)
	for index := range rays {
		origin := randVec3(rng, 15)
		target := randVec3(rng, 8)
		rays[index] = NewRay(origin, target.Sub(origin).Normalize())
	}
	return rays
}

// Index every primitive so tests can identify leaf contents.
func primitiveIndex(prims []Primitive) map[Primitive]int {
	index := make(map[Primitive]int, len(prims))
	for i, p := range prims {
		index[p] = i
	}
	return index
}

// Generate layers of nx*ny unit quads lying on the z = 0, 1, ... planes. Each
// quad is split into two triangles so neighbouring triangles share edges and
// vertices that coincide with node box faces.
func gridTriangles(nx, ny, layers int) []Primitive {
	prims := make([]Primitive, 0, 2*nx*ny*layers)
	for z := 0; z < layers; z++ {
		for y := 0; y < ny; y++ {
			for x := 0; x < nx; x++ {
				p00 := types.XYZ(float64(x), float64(y), float64(z))
				p10 := types.XYZ(float64(x+1), float64(y), float64(z))
				p01 := types.XYZ(float64(x), float64(y+1), float64(z))
				p11 := types.XYZ(float64(x+1), float64(y+1), float64(z))
				prims = append(prims,
					NewFlatTriangle([3]types.Vec3{p00, p10, p11}, nil),
					NewFlatTriangle([3]types.Vec3{p00, p11, p01}, nil),
				)
			}
		}
	}
	return prims
}

// Generate rays aimed at grid edges, grid vertices and axis aligned rays
// running through grid lines of a gridTriangles(n, n, layers) mesh.
func gridBoundaryRays(rng *rand.Rand, n, layers, count int) []Ray {
	rays := make([]Ray, 0, 3*count)
	span := float64(n)
	for i := 0; i < count; i++ {
		origin := types.XYZ(rng.Float64()*(span+2)-1, rng.Float64()*(span+2)-1, float64(layers)+3*rng.Float64()+1)
		layer := float64(rng.Intn(layers))

		// Point on an edge parallel to the x axis.
		edge := types.XYZ(rng.Float64()*span, float64(rng.Intn(n+1)), layer)
		rays = append(rays, NewRay(origin, edge.Sub(origin)))

		// Grid vertex.
		vertex := types.XYZ(float64(rng.Intn(n+1)), float64(rng.Intn(n+1)), layer)
		rays = append(rays, NewRay(origin, vertex.Sub(origin)))

		// Axis aligned ray through a grid line, pointing up or down.
		lineOrigin := types.XYZ(float64(rng.Intn(n+1)), rng.Float64()*span, -2)
		dir := types.XYZ(0, 0, 1)
		if rng.Intn(2) == 0 {
			lineOrigin[2] = float64(layers) + 2
			dir[2] = -1
		}
		if rng.Intn(2) == 0 {
			lineOrigin[0], lineOrigin[1] = lineOrigin[1], lineOrigin[0]
		}
		rays = append(rays, NewRay(lineOrigin, dir))
	}
	return rays
}
