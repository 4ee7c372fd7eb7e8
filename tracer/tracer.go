package tracer

import (
	"context"
	"fmt"
	"runtime"
	"sync"
	"time"

	"github.com/Jearyhao/RayTracing/log"
	"github.com/Jearyhao/RayTracing/scene"
	"github.com/Jearyhao/RayTracing/types"
	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/semaphore"
)

// Options for tracing a batch of rays.
type Options struct {
	// Number of rays traced in parallel. Defaults to runtime.NumCPU().
	Workers int

	// The scheduler used to split the batch into blocks. Defaults to a
	// balanced scheduler with 4 blocks per worker.
	Scheduler BlockScheduler

	// Only test for occlusion; hit distances and normals are not reported.
	AnyHit bool

	// Collect traversal counters. Requires an aggregate that reports them
	// such as a *scene.BVH.
	CollectStats bool
}

// The result of tracing a single ray.
type Hit struct {
	Hit  bool
	T    float64
	N    types.Vec3
	BSDF scene.BSDF
}

// Statistics for a traced batch.
type Stats struct {
	Rays   int
	Hits   int
	Blocks int

	scene.TraversalStats

	Elapsed time.Duration
}

// Aggregates that can report traversal counters.
type statsIntersector interface {
	IntersectWithStats(ray *scene.Ray, isect *scene.Intersection, stats *scene.TraversalStats) bool
	HasIntersectionWithStats(ray *scene.Ray, stats *scene.TraversalStats) bool
}

// Trace a batch of rays against aggregate using a pool of worker goroutines.
// The i-th returned Hit holds the result for rays[i]. Each query works on a
// private copy of its ray so the caller's slice is never modified.
//
// If ctx is cancelled no further blocks are scheduled and the context error
// is returned.
func Trace(ctx context.Context, aggregate scene.Primitive, rays []scene.Ray, opts Options) ([]Hit, Stats, error) {
	logger := log.New("tracer")
	start := time.Now()

	workers := opts.Workers
	if workers < 1 {
		workers = runtime.NumCPU()
	}
	scheduler := opts.Scheduler
	if scheduler == nil {
		scheduler = NewBalancedScheduler(4)
	}

	var withStats statsIntersector
	if opts.CollectStats {
		var ok bool
		if withStats, ok = aggregate.(statsIntersector); !ok {
			return nil, Stats{}, fmt.Errorf("tracer: aggregate %T does not collect traversal stats", aggregate)
		}
	}

	blocks := scheduler.Schedule(len(rays), workers)
	hits := make([]Hit, len(rays))
	stats := Stats{Rays: len(rays), Blocks: len(blocks)}
	var statsMutex sync.Mutex

	logger.Debugf("tracing %d rays in %d blocks using %d workers", len(rays), len(blocks), workers)

	// Use errgroup and semaphore to limit concurrency.
	eg, egCtx := errgroup.WithContext(ctx)
	sem := semaphore.NewWeighted(int64(workers))
	for _, block := range blocks {
		block := block

		if err := sem.Acquire(egCtx, 1); err != nil {
			break
		}

		eg.Go(func() error {
			defer sem.Release(1)
			if err := egCtx.Err(); err != nil {
				return err
			}

			blockHits, blockStats := traceBlock(aggregate, withStats, rays[block.Start:block.End], hits[block.Start:block.End], opts.AnyHit)

			statsMutex.Lock()
			stats.Hits += blockHits
			stats.TraversalStats.Add(blockStats)
			statsMutex.Unlock()
			return nil
		})
	}

	err := eg.Wait()
	if err == nil {
		// Acquire fails without any block failing if ctx was cancelled
		// while waiting for a free worker.
		err = ctx.Err()
	}
	if err != nil {
		return nil, Stats{}, fmt.Errorf("tracer: batch aborted: %w", err)
	}

	stats.Elapsed = time.Since(start)
	logger.Debugf("traced %d rays (%d hits) in %d ms", stats.Rays, stats.Hits, stats.Elapsed.Nanoseconds()/1e6)
	return hits, stats, nil
}

func traceBlock(aggregate scene.Primitive, withStats statsIntersector, rays []scene.Ray, out []Hit, anyHit bool) (int, scene.TraversalStats) {
	var (
		hitCount int
		stats    scene.TraversalStats
		isect    scene.Intersection
	)

	for index := range rays {
		ray := rays[index]

		if anyHit {
			var hit bool
			if withStats != nil {
				hit = withStats.HasIntersectionWithStats(&ray, &stats)
			} else {
				hit = aggregate.HasIntersection(&ray)
			}
			out[index] = Hit{Hit: hit}
			if hit {
				hitCount++
			}
			continue
		}

		isect = scene.Intersection{}
		var hit bool
		if withStats != nil {
			hit = withStats.IntersectWithStats(&ray, &isect, &stats)
		} else {
			hit = aggregate.Intersect(&ray, &isect)
		}
		if !hit {
			out[index] = Hit{}
			continue
		}

		hitCount++
		out[index] = Hit{Hit: true, T: isect.T, N: isect.N, BSDF: isect.BSDF}
	}

	return hitCount, stats
}
