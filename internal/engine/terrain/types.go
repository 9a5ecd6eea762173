// Package terrain builds chunked terrain meshes from a heightmap and owns the
// heightmap, material maps and mesh cache of one terrain asset.
package terrain

import (
	"github.com/Faultbox/terrain-painter/pkg/grid"
	"github.com/Faultbox/terrain-painter/pkg/math"
)

// Vertex represents a terrain mesh vertex with all attributes.
type Vertex struct {
	Position  math.Vec3 // Relative to the mesh origin
	Normal    math.Vec3
	Tangent   math.Vec3
	Color     [4]float32
	TexCoord0 math.Vec2 // Local to the mesh, [0,1]
	TexCoord1 math.Vec2 // Global across the whole map texture
}

// MeshData holds one sub-chunk mesh ready for GPU upload.
type MeshData struct {
	Vertices []Vertex
	Indices  []uint16 // Triangle list
	Region   grid.Rect
	Bounds   math.BoundingBox
}

// TriangleCount returns the number of triangles in the index buffer.
func (m *MeshData) TriangleCount() int {
	return len(m.Indices) / 3
}

// PhysicsMeshData is the collision form of a mesh: positions and indices only.
type PhysicsMeshData struct {
	Positions []math.Vec3
	Indices   []uint32
	Region    grid.Rect
}

// HeightRange maps normalized heightmap values onto world heights.
type HeightRange struct {
	Min float32 `yaml:"min" json:"min"`
	Max float32 `yaml:"max" json:"max"`
}

// MeshKey addresses one sub-chunk: a chunk index plus the sub-cell inside it.
// Each key corresponds to exactly one mesh.
type MeshKey struct {
	Chunk   grid.Point
	SubCell grid.Point
}
