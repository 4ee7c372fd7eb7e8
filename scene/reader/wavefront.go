package reader

import (
	"bufio"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/Jearyhao/RayTracing/asset"
	"github.com/Jearyhao/RayTracing/log"
	"github.com/Jearyhao/RayTracing/scene"
	"github.com/Jearyhao/RayTracing/types"
)

type wavefrontReader struct {
	logger log.Logger

	vertexList []types.Vec3
	normalList []types.Vec3
	primitives []scene.Primitive

	// Material assigned to faces; set by usemtl.
	curMaterial scene.BSDF

	// Number of parsed object groups.
	groups int

	// An error stack that provides additional error information when mesh
	// files include other files.
	errStack []string
}

func newWavefrontReader() *wavefrontReader {
	return &wavefrontReader{
		logger: log.New("wavefront reader"),
	}
}

// Parse a mesh and return its triangles.
func (r *wavefrontReader) Read(res *asset.Resource) ([]scene.Primitive, error) {
	r.logger.Noticef(`parsing mesh from '%s'`, res.Path())
	start := time.Now()

	if err := r.parse(res); err != nil {
		return nil, err
	}

	r.logger.Noticef(
		"parsed %d triangles (%d vertices, %d normals, %d groups) in %d ms",
		len(r.primitives), len(r.vertexList), len(r.normalList), r.groups,
		time.Since(start).Nanoseconds()/1e6,
	)
	return r.primitives, nil
}

// Generate an error message that also includes any data in the error stack.
func (r *wavefrontReader) emitError(file string, line int, msgFormat string, args ...interface{}) error {
	msg := fmt.Sprintf(msgFormat, args...)
	return fmt.Errorf("%s", strings.TrimRight(
		fmt.Sprintf("[%s: %d] error: %s\n%s", file, line, msg, strings.Join(r.errStack, "\n")),
		"\n",
	))
}

func (r *wavefrontReader) pushFrame(msg string) {
	r.errStack = append([]string{msg}, r.errStack...)
}

func (r *wavefrontReader) popFrame() {
	r.errStack = r.errStack[1:]
}

func (r *wavefrontReader) parse(res *asset.Resource) error {
	lineNum := 0

	// Included files use 1-based indices relative to their own vertex
	// definitions.
	relVertexOffset := len(r.vertexList)
	relNormalOffset := len(r.normalList)

	scanner := bufio.NewScanner(res)
	for scanner.Scan() {
		lineNum++
		lineTokens := strings.Fields(scanner.Text())
		if len(lineTokens) == 0 || strings.HasPrefix(lineTokens[0], "#") {
			continue
		}

		switch lineTokens[0] {
		case "call":
			if len(lineTokens) != 2 {
				return r.emitError(res.Path(), lineNum, `unsupported syntax for 'call'; expected 1 argument; got %d`, len(lineTokens)-1)
			}

			incRes, err := asset.NewResource(lineTokens[1], res)
			if err != nil {
				return r.emitError(res.Path(), lineNum, "%s", err.Error())
			}

			r.pushFrame(fmt.Sprintf("referenced from %s:%d [call]", res.Path(), lineNum))
			err = r.parse(incRes)
			incRes.Close()
			if err != nil {
				return err
			}
			r.popFrame()
		case "mtllib":
			r.logger.Infof(`ignoring material library reference '%s'`, strings.Join(lineTokens[1:], " "))
		case "usemtl":
			if len(lineTokens) != 2 {
				return r.emitError(res.Path(), lineNum, `unsupported syntax for 'usemtl'; expected 1 argument; got %d`, len(lineTokens)-1)
			}
			r.curMaterial = scene.MaterialRef{Name: lineTokens[1]}
		case "v":
			v, err := parseVec3(lineTokens)
			if err != nil {
				return r.emitError(res.Path(), lineNum, "%s", err.Error())
			}
			r.vertexList = append(r.vertexList, v)
		case "vn":
			v, err := parseVec3(lineTokens)
			if err != nil {
				return r.emitError(res.Path(), lineNum, "%s", err.Error())
			}
			r.normalList = append(r.normalList, v)
		case "g", "o":
			if len(lineTokens) < 2 {
				return r.emitError(res.Path(), lineNum, `unsupported syntax for '%s'; expected 1 argument for object name; got %d`, lineTokens[0], len(lineTokens)-1)
			}
			r.groups++
			r.logger.Debugf(`parsing group '%s'`, lineTokens[1])
		case "f":
			primList, err := r.parseFace(lineTokens, relVertexOffset, relNormalOffset)
			if err != nil {
				return r.emitError(res.Path(), lineNum, "%s", err.Error())
			}
			r.primitives = append(r.primitives, primList...)
		case "vt", "s", "l", "p":
			// Texture coordinates, smoothing groups and line/point elements
			// play no part in intersection tests.
		default:
			r.logger.Warningf(`[%s: %d] skipping unsupported statement '%s'`, res.Path(), lineNum, lineTokens[0])
		}
	}

	return scanner.Err()
}

// Parse a face definition. Faces with more than 3 vertices are split into a
// triangle fan. Supported vertex formats are v, v/t, v//n and v/t/n. If any
// face vertex lacks a normal the face normal is used for all of them.
func (r *wavefrontReader) parseFace(lineTokens []string, relVertexOffset, relNormalOffset int) ([]scene.Primitive, error) {
	if len(lineTokens) < 4 {
		return nil, fmt.Errorf(`unsupported syntax for 'f'; expected at least 3 arguments; got %d`, len(lineTokens)-1)
	}

	vertexCount := len(lineTokens) - 1
	vertices := make([]types.Vec3, vertexCount)
	normals := make([]types.Vec3, vertexCount)
	hasNormals := true

	for arg := 0; arg < vertexCount; arg++ {
		parts := strings.Split(lineTokens[arg+1], "/")
		if len(parts) > 3 {
			return nil, fmt.Errorf(`unsupported face vertex format '%s'`, lineTokens[arg+1])
		}

		index, err := selectFaceCoordIndex(parts[0], len(r.vertexList), relVertexOffset)
		if err != nil {
			return nil, fmt.Errorf("could not parse vertex coord for face vertex %d: %s", arg, err)
		}
		vertices[arg] = r.vertexList[index]

		if len(parts) < 3 || parts[2] == "" {
			hasNormals = false
			continue
		}
		index, err = selectFaceCoordIndex(parts[2], len(r.normalList), relNormalOffset)
		if err != nil {
			return nil, fmt.Errorf("could not parse normal coord for face vertex %d: %s", arg, err)
		}
		normals[arg] = r.normalList[index]
	}

	primitives := make([]scene.Primitive, 0, vertexCount-2)
	for fan := 1; fan+1 < vertexCount; fan++ {
		positions := [3]types.Vec3{vertices[0], vertices[fan], vertices[fan+1]}
		if !hasNormals {
			primitives = append(primitives, scene.NewFlatTriangle(positions, r.curMaterial))
			continue
		}
		primitives = append(primitives, scene.NewTriangle(
			positions,
			[3]types.Vec3{normals[0], normals[fan], normals[fan+1]},
			r.curMaterial,
		))
	}

	return primitives, nil
}

// Given an index for a face coord type (vertex, normal) calculate the proper
// offset into the coord list. Negative indices reference elements from the
// end of the coord list.
func selectFaceCoordIndex(indexToken string, coordListLen int, relOffset int) (int, error) {
	index, err := strconv.ParseInt(indexToken, 10, 32)
	if err != nil {
		return -1, err
	}

	var offset int
	if index < 0 {
		offset = coordListLen + int(index)
	} else {
		offset = relOffset + int(index-1)
	}
	if index == 0 || offset < 0 || offset >= coordListLen {
		return -1, fmt.Errorf("index out of bounds")
	}
	return offset, nil
}

// Parse a Vec3 row.
func parseVec3(lineTokens []string) (types.Vec3, error) {
	if len(lineTokens) < 4 {
		return types.Vec3{}, fmt.Errorf(`unsupported syntax for '%s'; expected 3 arguments; got %d`, lineTokens[0], len(lineTokens)-1)
	}

	v := types.Vec3{}
	for tokIdx := 1; tokIdx <= 3; tokIdx++ {
		coord, err := strconv.ParseFloat(lineTokens[tokIdx], 64)
		if err != nil {
			return v, err
		}
		v[tokIdx-1] = coord
	}
	return v, nil
}
