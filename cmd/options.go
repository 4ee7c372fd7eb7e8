package cmd

import (
	"fmt"

	"github.com/Jearyhao/RayTracing/scene"
	"github.com/Jearyhao/RayTracing/scene/reader"
	"github.com/urfave/cli"
)

// Map the --split flag value to a partitioning strategy.
func splitStrategy(name string) (scene.SplitStrategy, error) {
	switch name {
	case "", "mean":
		return scene.CentroidMean, nil
	case "sah":
		return scene.SurfaceAreaHeuristic, nil
	}
	return nil, fmt.Errorf("unknown split strategy %q; supported values are: mean, sah", name)
}

// Load a mesh or compiled BVH using the build flags of the current command.
func loadBVH(ctx *cli.Context, filename string) (*scene.BVH, error) {
	leafSize := ctx.Int("leaf-size")
	if leafSize < 1 {
		return nil, fmt.Errorf("invalid leaf size %d; must be at least 1", leafSize)
	}

	strategy, err := splitStrategy(ctx.String("split"))
	if err != nil {
		return nil, err
	}

	return reader.ReadBVH(filename, leafSize, scene.WithSplitStrategy(strategy))
}
