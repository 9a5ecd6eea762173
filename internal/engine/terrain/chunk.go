package terrain

import (
	"github.com/chewxy/math32"

	"github.com/Faultbox/terrain-painter/pkg/grid"
	"github.com/Faultbox/terrain-painter/pkg/math"
)

// ChunkQuads returns the quad count per chunk axis.
func (m *Map) ChunkQuads() int {
	return m.cfg.QuadsPerMesh * m.cfg.MeshesPerChunk
}

// ChunkCount returns the number of chunks per axis covering the map.
func (m *Map) ChunkCount() grid.Point {
	cq := m.ChunkQuads()
	return grid.Point{X: ceilDiv(m.cfg.MapSize.X, cq), Y: ceilDiv(m.cfg.MapSize.Y, cq)}
}

// MeshCount returns the number of sub-chunk meshes per axis covering the map.
func (m *Map) MeshCount() grid.Point {
	q := m.cfg.QuadsPerMesh
	return grid.Point{X: ceilDiv(m.cfg.MapSize.X, q), Y: ceilDiv(m.cfg.MapSize.Y, q)}
}

// ChunkWorldSize returns the world extent of a full chunk in X and Z.
func (m *Map) ChunkWorldSize() math.Vec2 {
	return m.cfg.QuadSize.Scale(float32(m.ChunkQuads()))
}

// ChunkMeshWorldSize returns the world extent of a full sub-chunk mesh.
func (m *Map) ChunkMeshWorldSize() math.Vec2 {
	return m.cfg.QuadSize.Scale(float32(m.cfg.QuadsPerMesh))
}

// ToChunkMinimumWorldPosition returns the world position of a chunk's
// first vertex at the terrain's base height.
func (m *Map) ToChunkMinimumWorldPosition(chunk grid.Point) math.Vec3 {
	size := m.ChunkWorldSize()
	return m.cfg.Origin.Add(math.Vec3{X: float32(chunk.X) * size.X, Z: float32(chunk.Y) * size.Y})
}

// ToChunkSubCellMinimumWorldPosition returns the world origin of a mesh.
// Mesh vertex positions are relative to this point.
func (m *Map) ToChunkSubCellMinimumWorldPosition(key MeshKey) math.Vec3 {
	size := m.ChunkMeshWorldSize()
	return m.ToChunkMinimumWorldPosition(key.Chunk).
		Add(math.Vec3{X: float32(key.SubCell.X) * size.X, Z: float32(key.SubCell.Y) * size.Y})
}

// ToChunkIndex returns the chunk containing a world position. The result
// may lie outside the map.
func (m *Map) ToChunkIndex(world math.Vec3) grid.Point {
	size := m.ChunkWorldSize()
	local := world.Sub(m.cfg.Origin)
	return grid.Point{
		X: int(math32.Floor(local.X / size.X)),
		Y: int(math32.Floor(local.Z / size.Y)),
	}
}

// ToHeightmapIndex returns the heightmap vertex nearest to a world position,
// clamped to the map.
func (m *Map) ToHeightmapIndex(world math.Vec3) grid.Point {
	local := world.Sub(m.cfg.Origin)
	return grid.Point{
		X: min(max(int(math32.Round(local.X/m.cfg.QuadSize.X)), 0), m.cfg.MapSize.X),
		Y: min(max(int(math32.Round(local.Z/m.cfg.QuadSize.Y)), 0), m.cfg.MapSize.Y),
	}
}

// meshIndex returns a key's position in the global mesh grid.
func (m *Map) meshIndex(key MeshKey) grid.Point {
	n := m.cfg.MeshesPerChunk
	return grid.Point{X: key.Chunk.X*n + key.SubCell.X, Y: key.Chunk.Y*n + key.SubCell.Y}
}

// meshKeyAt converts a global mesh grid position back to a key.
func (m *Map) meshKeyAt(p grid.Point) MeshKey {
	n := m.cfg.MeshesPerChunk
	return MeshKey{
		Chunk:   grid.Point{X: floorDiv(p.X, n), Y: floorDiv(p.Y, n)},
		SubCell: grid.Point{X: floorMod(p.X, n), Y: floorMod(p.Y, n)},
	}
}

// MeshRegion returns the heightmap vertices covered by a mesh. Meshes on the
// far edge of the map may be smaller than QuadsPerMesh.
func (m *Map) MeshRegion(key MeshKey) (grid.Rect, bool) {
	n := m.cfg.MeshesPerChunk
	if key.SubCell.X < 0 || key.SubCell.Y < 0 || key.SubCell.X >= n || key.SubCell.Y >= n {
		return grid.Rect{}, false
	}
	mi := m.meshIndex(key)
	q := m.cfg.QuadsPerMesh
	start := grid.Point{X: mi.X * q, Y: mi.Y * q}
	if start.X < 0 || start.Y < 0 || start.X >= m.cfg.MapSize.X || start.Y >= m.cfg.MapSize.Y {
		return grid.Rect{}, false
	}
	size := grid.Point{
		X: min(q, m.cfg.MapSize.X-start.X) + 1,
		Y: min(q, m.cfg.MapSize.Y-start.Y) + 1,
	}
	return grid.Rect{Start: start, Size: size}, true
}

// HasMesh reports whether key addresses a mesh inside the map.
func (m *Map) HasMesh(key MeshKey) bool {
	_, ok := m.MeshRegion(key)
	return ok
}

// Neighbor returns the key offset by (dx, dy) meshes, crossing chunk
// boundaries as needed.
func (m *Map) Neighbor(key MeshKey, dx, dy int) MeshKey {
	return m.meshKeyAt(m.meshIndex(key).Add(grid.Point{X: dx, Y: dy}))
}

// MeshKeys returns every mesh key in row-major mesh order.
func (m *Map) MeshKeys() []MeshKey {
	count := m.MeshCount()
	keys := make([]MeshKey, 0, count.X*count.Y)
	for y := range count.Y {
		for x := range count.X {
			keys = append(keys, m.meshKeyAt(grid.Point{X: x, Y: y}))
		}
	}
	return keys
}

// ChunkMeshKeys returns the keys of the meshes inside one chunk.
func (m *Map) ChunkMeshKeys(chunk grid.Point) []MeshKey {
	n := m.cfg.MeshesPerChunk
	keys := make([]MeshKey, 0, n*n)
	for y := range n {
		for x := range n {
			key := MeshKey{Chunk: chunk, SubCell: grid.Point{X: x, Y: y}}
			if m.HasMesh(key) {
				keys = append(keys, key)
			}
		}
	}
	return keys
}

// MeshKeysInRect returns the keys of meshes whose region intersects r, a
// rectangle of heightmap vertices.
func (m *Map) MeshKeysInRect(r grid.Rect) []MeshKey {
	r = r.Intersect(m.Heightmap().Bounds())
	if r.Empty() {
		return nil
	}
	q := m.cfg.QuadsPerMesh
	count := m.MeshCount()
	// A vertex on a mesh boundary belongs to both meshes sharing it.
	x0 := max((r.Start.X-1)/q, 0)
	y0 := max((r.Start.Y-1)/q, 0)
	x1 := min((r.End().X-1)/q, count.X-1)
	y1 := min((r.End().Y-1)/q, count.Y-1)

	var keys []MeshKey
	for y := y0; y <= y1; y++ {
		for x := x0; x <= x1; x++ {
			key := m.meshKeyAt(grid.Point{X: x, Y: y})
			if region, ok := m.MeshRegion(key); ok && region.Intersects(r) {
				keys = append(keys, key)
			}
		}
	}
	return keys
}

func ceilDiv(a, b int) int {
	return (a + b - 1) / b
}

func floorDiv(a, b int) int {
	q := a / b
	if (a%b != 0) && ((a < 0) != (b < 0)) {
		q--
	}
	return q
}

func floorMod(a, b int) int {
	return a - floorDiv(a, b)*b
}
