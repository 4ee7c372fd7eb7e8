package tracer

import (
	"context"
	"errors"
	"math/rand"
	"testing"

	"github.com/Jearyhao/RayTracing/scene"
	"github.com/Jearyhao/RayTracing/types"
	"github.com/google/go-cmp/cmp"
)

func TestTraceMatchesSerialQueries(t *testing.T) {
	rng := rand.New(rand.NewSource(42))
	prims := randomTriangles(rng, 500)
	bvh := scene.BuildBVH(prims, 4)
	rays := randomRays(rng, 2000)
	orig := append([]scene.Ray(nil), rays...)

	hits, stats, err := Trace(context.Background(), bvh, rays, Options{Workers: 4, CollectStats: true})
	if err != nil {
		t.Fatal(err)
	}

	if diff := cmp.Diff(orig, rays); diff != "" {
		t.Fatalf("expected input rays to be left untouched (-want +got):\n%s", diff)
	}
	if len(hits) != len(rays) {
		t.Fatalf("expected %d results; got %d", len(rays), len(hits))
	}

	expHits := 0
	for index, ray := range rays {
		isect, hit := bvh.ClosestHit(ray)
		exp := Hit{}
		if hit {
			expHits++
			exp = Hit{Hit: true, T: isect.T, N: isect.N, BSDF: isect.BSDF}
		}
		if diff := cmp.Diff(exp, hits[index]); diff != "" {
			t.Fatalf("[ray %d] result mismatch (-want +got):\n%s", index, diff)
		}
	}

	if stats.Rays != len(rays) || stats.Hits != expHits {
		t.Fatalf("expected stats to report %d rays and %d hits; got %d and %d", len(rays), expHits, stats.Rays, stats.Hits)
	}
	if stats.NodesVisited < len(rays) || stats.PrimitiveTests == 0 {
		t.Fatalf("expected traversal counters to be collected; got %+v", stats.TraversalStats)
	}
	if stats.Blocks != 16 {
		t.Fatalf("expected 16 blocks for 4 workers; got %d", stats.Blocks)
	}
}

func TestTraceAnyHitAgainstLinearList(t *testing.T) {
	rng := rand.New(rand.NewSource(3))
	prims := randomTriangles(rng, 200)
	rays := randomRays(rng, 500)

	list := scene.PrimitiveList(prims)
	hits, _, err := Trace(context.Background(), list, rays, Options{Workers: 3, AnyHit: true, Scheduler: NewFixedScheduler(7)})
	if err != nil {
		t.Fatal(err)
	}

	for index := range rays {
		ray := rays[index]
		exp := list.HasIntersection(&ray)
		if hits[index].Hit != exp {
			t.Fatalf("[ray %d] expected hit=%t; got %t", index, exp, hits[index].Hit)
		}
		if hits[index].T != 0 {
			t.Fatalf("[ray %d] expected any-hit results to omit the distance; got %f", index, hits[index].T)
		}
	}
}

func TestTraceStatsRequireCountingAggregate(t *testing.T) {
	list := scene.PrimitiveList{scene.NewSphere(types.Vec3{}, 1, nil)}
	_, _, err := Trace(context.Background(), list, []scene.Ray{scene.NewRay(types.Vec3{0, 0, -5}, types.Vec3{0, 0, 1})}, Options{CollectStats: true})
	if err == nil {
		t.Fatal("expected an error when collecting stats from a primitive list")
	}
}

func TestTraceEmptyBatch(t *testing.T) {
	bvh := scene.BuildBVH(nil, 4)
	hits, stats, err := Trace(context.Background(), bvh, nil, Options{})
	if err != nil {
		t.Fatal(err)
	}
	if len(hits) != 0 || stats.Blocks != 0 {
		t.Fatalf("expected no results; got %d hits in %d blocks", len(hits), stats.Blocks)
	}
}

func TestTraceCancelledContext(t *testing.T) {
	rng := rand.New(rand.NewSource(1))
	bvh := scene.BuildBVH(randomTriangles(rng, 50), 4)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, _, err := Trace(ctx, bvh, randomRays(rng, 100), Options{Workers: 2})
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("expected a context.Canceled error; got %v", err)
	}
}

func randVec3(rng *rand.Rand, scale float64) types.Vec3 {
	return types.Vec3{
		(rng.Float64()*2 - 1) * scale,
		(rng.Float64()*2 - 1) * scale,
		(rng.Float64()*2 - 1) * scale,
	}
}

func randomTriangles(rng *rand.Rand, count int) []scene.Primitive {
	prims := make([]scene.Primitive, count)
	for index := range prims {
		center := randVec3(rng, 10)
		prims[index] = scene.NewFlatTriangle([3]types.Vec3{
			center.Add(randVec3(rng, 1)),
			center.Add(randVec3(rng, 1)),
			center.Add(randVec3(rng, 1)),
		}, scene.MaterialRef{Name: "rand"})
	}
	return prims
}

func randomRays(rng *rand.Rand, count int) []scene.Ray {
	rays := make([]scene.Ray, count)
	for index := range rays {
		origin := randVec3(rng, 15)
		rays[index] = scene.NewRay(origin, randVec3(rng, 8).Sub(origin))
	}
	return rays
}
