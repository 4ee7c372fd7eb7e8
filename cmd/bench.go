package cmd

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"math"
	"math/rand"
	"time"

	"github.com/Jearyhao/RayTracing/scene"
	"github.com/Jearyhao/RayTracing/tracer"
	"github.com/Jearyhao/RayTracing/types"
	"github.com/olekukonko/tablewriter"
	"github.com/urfave/cli"
)

// Maximum relative difference between BVH and linear hit distances.
const benchTolerance = 1e-9

// Trace random rays through a BVH and the equivalent linear primitive list,
// verify that both report the same closest hits and display timings.
func Bench(ctx *cli.Context) error {
	if err := setupLogging(ctx); err != nil {
		return err
	}

	if ctx.NArg() != 1 {
		return errors.New("missing mesh or compiled BVH file argument")
	}

	bvh, err := loadBVH(ctx, ctx.Args().First())
	if err != nil {
		return err
	}
	if bvh.Len() == 0 {
		return errors.New("nothing to benchmark; the BVH contains no primitives")
	}

	rayCount := ctx.Int("rays")
	if rayCount < 1 {
		return fmt.Errorf("invalid ray count %d", rayCount)
	}
	rays := benchRays(rand.New(rand.NewSource(ctx.Int64("seed"))), bvh.BBox(), rayCount)
	opts := tracer.Options{Workers: ctx.Int("workers")}

	logger.Noticef("tracing %d rays against %d primitives", rayCount, bvh.Len())

	bvhOpts := opts
	bvhOpts.CollectStats = true
	bvhHits, bvhStats, err := tracer.Trace(context.Background(), bvh, rays, bvhOpts)
	if err != nil {
		return err
	}

	linear := scene.PrimitiveList(bvh.Primitives())
	linearHits, linearStats, err := tracer.Trace(context.Background(), linear, rays, opts)
	if err != nil {
		return err
	}

	mismatches := compareHits(bvhHits, linearHits)
	displayBenchStats(bvh.Len(), bvhStats, linearStats, mismatches)

	if mismatches != 0 {
		return fmt.Errorf("BVH and linear results disagree for %d out of %d rays", mismatches, rayCount)
	}
	return nil
}

// Generate rays whose origins lie on a sphere enclosing box and which are
// aimed at random points inside it.
func benchRays(rng *rand.Rand, box scene.BBox, count int) []scene.Ray {
	center := box.Centroid()
	radius := box.Extent().Len()
	if radius == 0 {
		radius = 1
	}
	extent := box.Extent()

	rays := make([]scene.Ray, count)
	for index := range rays {
		// Uniform direction on the unit sphere.
		z := rng.Float64()*2 - 1
		phi := rng.Float64() * 2 * math.Pi
		r := math.Sqrt(1 - z*z)
		origin := center.Add(types.Vec3{r * math.Cos(phi), r * math.Sin(phi), z}.Mul(radius))

		target := box.Min.Add(types.Vec3{
			rng.Float64() * extent[0],
			rng.Float64() * extent[1],
			rng.Float64() * extent[2],
		})
		dir := target.Sub(origin)
		if dir.Len() == 0 {
			dir = center.Sub(origin)
		}
		rays[index] = scene.NewRay(origin, dir)
	}
	return rays
}

// Count the rays for which both hit lists disagree.
func compareHits(a, b []tracer.Hit) int {
	mismatches := 0
	for index := range a {
		if a[index].Hit != b[index].Hit {
			mismatches++
			continue
		}
		if !a[index].Hit {
			continue
		}
		if math.Abs(a[index].T-b[index].T) > benchTolerance*math.Max(1, math.Abs(b[index].T)) {
			mismatches++
		}
	}
	return mismatches
}

func displayBenchStats(primCount int, bvhStats, linearStats tracer.Stats, mismatches int) {
	var buf bytes.Buffer
	table := tablewriter.NewWriter(&buf)
	table.SetAutoFormatHeaders(false)
	table.SetAutoWrapText(false)
	table.SetHeader([]string{"Aggregate", "Rays", "Hits", "Time", "Rays/sec", "Nodes/ray", "Prim tests/ray"})

	table.Append(benchRow("BVH", bvhStats,
		float64(bvhStats.NodesVisited)/float64(bvhStats.Rays),
		float64(bvhStats.PrimitiveTests)/float64(bvhStats.Rays),
	))
	table.Append(benchRow("Linear", linearStats, 0, float64(primCount)))

	speedup := float64(linearStats.Elapsed) / math.Max(1, float64(bvhStats.Elapsed))
	table.SetFooter([]string{"", "", "", "", "", "SPEEDUP", fmt.Sprintf("%.1fx", speedup)})
	table.Render()

	logger.Noticef("benchmark results (%d mismatches)\n%s", mismatches, buf.String())
}

func benchRow(name string, stats tracer.Stats, nodesPerRay, testsPerRay float64) []string {
	secs := stats.Elapsed.Seconds()
	if secs == 0 {
		secs = time.Nanosecond.Seconds()
	}
	raysPerSec := float64(stats.Rays) / secs
	return []string{
		name,
		fmt.Sprintf("%d", stats.Rays),
		fmt.Sprintf("%d", stats.Hits),
		fmt.Sprintf("%s", stats.Elapsed),
		fmt.Sprintf("%.0f", raysPerSec),
		fmt.Sprintf("%.1f", nodesPerRay),
		fmt.Sprintf("%.1f", testsPerRay),
	}
}
