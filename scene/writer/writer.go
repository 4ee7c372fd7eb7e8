package writer

import (
	"archive/zip"
	"encoding/gob"
	"os"
	"time"

	"github.com/Jearyhao/RayTracing/log"
	"github.com/Jearyhao/RayTracing/scene"
)

// Name of the archive entry holding the gob-encoded hierarchy. Must match
// the name expected by the reader package.
const dataFile = "bvh.bin"

// Write a triangle BVH to a zip archive that can later be loaded with
// reader.ReadBVH without repartitioning.
func WriteBVH(bvh *scene.BVH, filename string) error {
	logger := log.New("zip writer")
	logger.Noticef("writing compiled BVH to %s", filename)
	start := time.Now()

	archive, err := bvh.Archive()
	if err != nil {
		return err
	}

	zipFile, err := os.Create(filename)
	if err != nil {
		return err
	}
	defer zipFile.Close()

	zw := zip.NewWriter(zipFile)
	cw, err := zw.Create(dataFile)
	if err != nil {
		zw.Close()
		return err
	}
	if err = gob.NewEncoder(cw).Encode(archive); err != nil {
		zw.Close()
		return err
	}
	if err = zw.Close(); err != nil {
		return err
	}

	logger.Noticef("wrote %d nodes and %d triangles in %d ms", len(archive.Nodes), len(archive.Triangles), time.Since(start).Nanoseconds()/1e6)
	return zipFile.Sync()
}
