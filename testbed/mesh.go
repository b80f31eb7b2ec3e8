package testbed

import (
	"context"
	"encoding/binary"
	"errors"
	gomath "math"

	"github.com/dustin/go-humanize"

	"github.com/spaghettifunk/animares/engine/core"
	"github.com/spaghettifunk/animares/engine/math"
	"github.com/spaghettifunk/animares/engine/resource"
	"github.com/spaghettifunk/animares/engine/scene"
)

const vertexStride = 3 * 4

var errBadVertexData = errors.New("vertex data is not a whole number of vec3")

// gpuMesh stands in for a renderer-side mesh: it keeps its own copy of the
// vertex data and computes the bounds in Load, which runs on a job worker.
type gpuMesh struct {
	*scene.MeshLocal

	data   []byte
	bounds math.Extents3D
}

func newGPUMesh(view *resource.LocalView) resource.LocalResource {
	m := &gpuMesh{MeshLocal: scene.NewMeshLocal(view)}
	// Load must not read the snapshot, so take the bytes now.
	m.data = append([]byte(nil), m.Vertices()...)
	return m
}

func (m *gpuMesh) Load(ctx context.Context) error {
	if len(m.data)%vertexStride != 0 {
		return errBadVertexData
	}
	inf := float32(gomath.Inf(1))
	m.bounds = math.Extents3D{
		Min: math.NewVec3(inf, inf, inf),
		Max: math.NewVec3(-inf, -inf, -inf),
	}
	for off := 0; off < len(m.data); off += vertexStride {
		if err := ctx.Err(); err != nil {
			return err
		}
		v := math.Vec3FromElements([]float32{
			gomath.Float32frombits(binary.LittleEndian.Uint32(m.data[off:])),
			gomath.Float32frombits(binary.LittleEndian.Uint32(m.data[off+4:])),
			gomath.Float32frombits(binary.LittleEndian.Uint32(m.data[off+8:])),
		})
		m.bounds = m.bounds.Grow(v)
	}
	core.LogDebug("Uploaded mesh: %d vertices (%s)", len(m.data)/vertexStride, humanize.IBytes(uint64(len(m.data))))
	return nil
}

func (m *gpuMesh) Dispose(ctx context.Context) {
	core.LogDebug("Released mesh %d", m.ResourceID())
	m.data = nil
}

// Bounds is the axis-aligned box around the vertices, valid once loaded.
func (m *gpuMesh) Bounds() math.Extents3D {
	return m.bounds
}

// cubeVertices packs the eight corners of a unit cube as little-endian
// float32 triples.
func cubeVertices() []byte {
	buf := make([]byte, 0, 8*vertexStride)
	for i := 0; i < 8; i++ {
		corner := math.NewVec3(
			float32(i&1)-0.5,
			float32(i>>1&1)-0.5,
			float32(i>>2&1)-0.5,
		)
		for _, f := range corner.Elements() {
			buf = binary.LittleEndian.AppendUint32(buf, gomath.Float32bits(f))
		}
	}
	return buf
}
