package reader

import (
	"fmt"
	"strings"

	"github.com/Jearyhao/RayTracing/asset"
	"github.com/Jearyhao/RayTracing/scene"
)

// Read the primitives defined in a wavefront mesh file.
func ReadMesh(filename string) ([]scene.Primitive, error) {
	res, err := asset.NewResource(filename, nil)
	if err != nil {
		return nil, err
	}
	defer res.Close()

	return newWavefrontReader().Read(res)
}

// Load a BVH from a file. Wavefront meshes (.obj) are parsed and partitioned
// using maxLeafSize and opts while compiled archives (.zip) are restored
// as-is.
func ReadBVH(filename string, maxLeafSize int, opts ...scene.BuildOption) (*scene.BVH, error) {
	switch {
	case strings.HasSuffix(filename, ".obj"):
		prims, err := ReadMesh(filename)
		if err != nil {
			return nil, err
		}
		return scene.BuildBVH(prims, maxLeafSize, opts...), nil
	case strings.HasSuffix(filename, ".zip"):
		res, err := asset.NewResource(filename, nil)
		if err != nil {
			return nil, err
		}
		defer res.Close()
		return newZipReader().Read(res)
	}
	return nil, fmt.Errorf("readBVH: unsupported file format for %q", filename)
}
