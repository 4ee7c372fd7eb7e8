package writer

import (
	"archive/zip"
	"math/rand"
	"path/filepath"
	"testing"

	"github.com/Jearyhao/RayTracing/scene"
	"github.com/Jearyhao/RayTracing/scene/reader"
	"github.com/Jearyhao/RayTracing/types"
	"github.com/google/go-cmp/cmp"
)

func TestWriteAndReadBVH(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	prims := make([]scene.Primitive, 200)
	for i := range prims {
		base := types.Vec3{rng.Float64() * 20, rng.Float64() * 20, rng.Float64() * 20}
		var bsdf scene.BSDF
		if i%3 == 0 {
			bsdf = scene.MaterialRef{Name: "metal"}
		}
		prims[i] = scene.NewFlatTriangle([3]types.Vec3{
			base,
			base.Add(types.Vec3{rng.Float64(), 0, rng.Float64()}),
			base.Add(types.Vec3{0, rng.Float64(), rng.Float64()}),
		}, bsdf)
	}
	bvh := scene.BuildBVH(prims, 4)

	filename := filepath.Join(t.TempDir(), "scene.bvh.zip")
	if err := WriteBVH(bvh, filename); err != nil {
		t.Fatal(err)
	}

	zr, err := zip.OpenReader(filename)
	if err != nil {
		t.Fatal(err)
	}
	if len(zr.File) != 1 || zr.File[0].Name != dataFile {
		t.Fatalf("expected archive to contain only %s; got %d entries", dataFile, len(zr.File))
	}
	zr.Close()

	restored, err := reader.ReadBVH(filename, 0)
	if err != nil {
		t.Fatal(err)
	}
	if restored.MaxLeafSize() != 4 {
		t.Fatalf("expected max leaf size 4; got %d", restored.MaxLeafSize())
	}
	if diff := cmp.Diff(bvh.Nodes(), restored.Nodes()); diff != "" {
		t.Fatalf("restored nodes mismatch (-want +got):\n%s", diff)
	}

	for i := 0; i < 500; i++ {
		origin := types.Vec3{rng.Float64()*30 - 5, rng.Float64()*30 - 5, -10}
		target := types.Vec3{rng.Float64() * 20, rng.Float64() * 20, rng.Float64() * 20}
		ray := scene.NewRay(origin, target.Sub(origin))

		exp, expHit := bvh.ClosestHit(ray)
		got, gotHit := restored.ClosestHit(ray)
		if expHit != gotHit {
			t.Fatalf("[ray %d] expected hit=%t; got %t", i, expHit, gotHit)
		}
		if !expHit {
			continue
		}
		if exp.T != got.T || exp.N != got.N || exp.BSDF != got.BSDF {
			t.Fatalf("[ray %d] expected hit %v/%v/%v; got %v/%v/%v", i, exp.T, exp.N, exp.BSDF, got.T, got.N, got.BSDF)
		}
	}
}

func TestWriteBVHRejectsNonTriangles(t *testing.T) {
	bvh := scene.BuildBVH([]scene.Primitive{
		scene.NewSphere(types.Vec3{}, 1, nil),
	}, 1)

	filename := filepath.Join(t.TempDir(), "scene.bvh.zip")
	if err := WriteBVH(bvh, filename); err == nil {
		t.Fatal("expected an error when archiving a sphere")
	}
}
