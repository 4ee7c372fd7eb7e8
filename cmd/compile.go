package cmd

import (
	"strings"

	"github.com/Jearyhao/RayTracing/scene/writer"
	"github.com/urfave/cli"
)

// Build a BVH for each mesh argument and write it next to the mesh as a
// compiled .bvh.zip archive.
func CompileMesh(ctx *cli.Context) error {
	if err := setupLogging(ctx); err != nil {
		return err
	}

	for idx := 0; idx < ctx.NArg(); idx++ {
		meshFile := ctx.Args().Get(idx)
		if !strings.HasSuffix(meshFile, ".obj") {
			logger.Warningf("skipping unsupported file %s", meshFile)
			continue
		}

		logger.Noticef("parsing and compiling mesh: %s", meshFile)
		bvh, err := loadBVH(ctx, meshFile)
		if err != nil {
			return err
		}

		if err = bvh.Validate(); err != nil {
			return err
		}

		// Display compiled BVH info
		logger.Noticef("BVH information:\n%s", bvh.Stats().Table())

		zipFile := strings.TrimSuffix(meshFile, ".obj") + ".bvh.zip"
		if err = writer.WriteBVH(bvh, zipFile); err != nil {
			return err
		}
	}

	return nil
}
