package scene

import (
	"fmt"

	"github.com/Jearyhao/RayTracing/types"
)

// A triangle stored in a compiled hierarchy archive.
type TriangleRecord struct {
	Positions [3]types.Vec3
	Normals   [3]types.Vec3
	Material  string
}

// An Archive is the flattened, serializable form of a triangle BVH. Triangles
// are stored in leaf order so the node list can be restored without
// repartitioning.
type Archive struct {
	MaxLeafSize int
	Nodes       []BvhNode
	Triangles   []TriangleRecord
}

// Flatten the hierarchy into an archive. Only triangle primitives whose BSDF
// is nil or a MaterialRef can be archived.
func (bvh *BVH) Archive() (*Archive, error) {
	bvh.mustBeBuilt()

	archive := &Archive{
		MaxLeafSize: bvh.maxLeafSize,
		Nodes:       bvh.Nodes(),
		Triangles:   make([]TriangleRecord, len(bvh.primitives)),
	}

	for index, prim := range bvh.primitives {
		tri, isTri := prim.(*Triangle)
		if !isTri {
			return nil, fmt.Errorf("bvh archive: primitive %d is a %T; only triangles can be archived", index, prim)
		}

		rec := TriangleRecord{
			Positions: [3]types.Vec3{tri.P1, tri.P2, tri.P3},
			Normals:   [3]types.Vec3{tri.N1, tri.N2, tri.N3},
		}
		switch bsdf := tri.bsdf.(type) {
		case nil:
		case MaterialRef:
			rec.Material = bsdf.Name
		default:
			return nil, fmt.Errorf("bvh archive: primitive %d has unsupported BSDF type %T", index, bsdf)
		}
		archive.Triangles[index] = rec
	}

	return archive, nil
}

// Rebuild the BVH stored in the archive.
func (a *Archive) Restore() (*BVH, error) {
	prims := make([]Primitive, len(a.Triangles))
	for index, rec := range a.Triangles {
		var bsdf BSDF
		if rec.Material != "" {
			bsdf = MaterialRef{Name: rec.Material}
		}
		prims[index] = NewTriangle(rec.Positions, rec.Normals, bsdf)
	}
	return RestoreBVH(a.Nodes, prims, a.MaxLeafSize)
}
