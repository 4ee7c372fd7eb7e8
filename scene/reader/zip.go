package reader

import (
	"archive/zip"
	"bytes"
	"encoding/gob"
	"fmt"
	"io"
	"time"

	"github.com/Jearyhao/RayTracing/asset"
	"github.com/Jearyhao/RayTracing/log"
	"github.com/Jearyhao/RayTracing/scene"
)

// Name of the archive entry holding the gob-encoded hierarchy.
const dataFile = "bvh.bin"

type zipReader struct {
	logger log.Logger
}

func newZipReader() *zipReader {
	return &zipReader{
		logger: log.New("zip reader"),
	}
}

// Load a compiled hierarchy from a zip archive.
func (p *zipReader) Read(res *asset.Resource) (*scene.BVH, error) {
	p.logger.Noticef(`loading compiled BVH from "%s"`, res.Path())
	start := time.Now()

	// zip.NewReader requires an io.ReaderAt so buffer the whole stream
	data, err := io.ReadAll(res)
	if err != nil {
		return nil, err
	}
	zr, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return nil, err
	}

	var archive *scene.Archive
	for _, f := range zr.File {
		if f.Name != dataFile {
			p.logger.Warningf("unknown file %s in BVH archive; skipping", f.Name)
			continue
		}

		rc, err := f.Open()
		if err != nil {
			return nil, err
		}
		archive = &scene.Archive{}
		err = gob.NewDecoder(rc).Decode(archive)
		rc.Close()
		if err != nil {
			return nil, fmt.Errorf("zipReader: failed to load %s: %s", f.Name, err.Error())
		}
	}

	if archive == nil {
		return nil, fmt.Errorf("zipReader: archive %q does not contain %s", res.Path(), dataFile)
	}

	bvh, err := archive.Restore()
	if err != nil {
		return nil, fmt.Errorf("zipReader: corrupt BVH in %q: %s", res.Path(), err.Error())
	}

	p.logger.Noticef("loaded BVH with %d triangles in %d ms", bvh.Len(), time.Since(start).Nanoseconds()/1e6)
	return bvh, nil
}
