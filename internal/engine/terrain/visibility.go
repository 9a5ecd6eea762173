package terrain

import (
	"github.com/chewxy/math32"

	"github.com/Faultbox/terrain-painter/pkg/grid"
	"github.com/Faultbox/terrain-painter/pkg/math"
)

// ChunkBounds returns the world box of a chunk, clipped to the map and
// spanning the full height range.
func (m *Map) ChunkBounds(chunk grid.Point) math.BoundingBox {
	lo := m.ToChunkMinimumWorldPosition(chunk)
	cq := m.ChunkQuads()
	quadsX := min(cq, m.cfg.MapSize.X-chunk.X*cq)
	quadsY := min(cq, m.cfg.MapSize.Y-chunk.Y*cq)
	return math.BoundingBox{
		Min: math.Vec3{X: lo.X, Y: lo.Y + m.cfg.HeightRange.Min, Z: lo.Z},
		Max: math.Vec3{
			X: lo.X + float32(quadsX)*m.cfg.QuadSize.X,
			Y: lo.Y + m.cfg.HeightRange.Max,
			Z: lo.Z + float32(quadsY)*m.cfg.QuadSize.Y,
		},
	}
}

// Bounds returns the world box of the whole map over the full height range.
func (m *Map) Bounds() math.BoundingBox {
	o := m.cfg.Origin
	return math.BoundingBox{
		Min: math.Vec3{X: o.X, Y: o.Y + m.cfg.HeightRange.Min, Z: o.Z},
		Max: math.Vec3{
			X: o.X + float32(m.cfg.MapSize.X)*m.cfg.QuadSize.X,
			Y: o.Y + m.cfg.HeightRange.Max,
			Z: o.Z + float32(m.cfg.MapSize.Y)*m.cfg.QuadSize.Y,
		},
	}
}

// VisibleChunks returns the chunks intersecting the frustum of viewProj in
// row-major order. The caller chooses the far plane of viewProj, which is
// usually the terrain draw distance rather than the camera's own far clip.
func (m *Map) VisibleChunks(viewProj math.Mat4) []grid.Point {
	frustum := math.NewFrustum(viewProj)
	bounds := math.FrustumBounds(viewProj)
	count := m.ChunkCount()
	size := m.ChunkWorldSize()
	origin := m.cfg.Origin

	x0 := clampIndex(math32.Floor((bounds.Min.X-origin.X)/size.X), count.X)
	x1 := clampIndex(math32.Floor((bounds.Max.X-origin.X)/size.X), count.X)
	y0 := clampIndex(math32.Floor((bounds.Min.Z-origin.Z)/size.Y), count.Y)
	y1 := clampIndex(math32.Floor((bounds.Max.Z-origin.Z)/size.Y), count.Y)
	if bounds.Max.X < origin.X || bounds.Max.Z < origin.Z {
		return nil
	}

	var visible []grid.Point
	for y := y0; y <= y1; y++ {
		for x := x0; x <= x1; x++ {
			chunk := grid.Point{X: x, Y: y}
			if frustum.IntersectsBox(m.ChunkBounds(chunk)) {
				visible = append(visible, chunk)
			}
		}
	}
	return visible
}

// VisibleMeshes expands VisibleChunks into their mesh keys.
func (m *Map) VisibleMeshes(viewProj math.Mat4) []MeshKey {
	var keys []MeshKey
	for _, chunk := range m.VisibleChunks(viewProj) {
		keys = append(keys, m.ChunkMeshKeys(chunk)...)
	}
	return keys
}

func clampIndex(f float32, count int) int {
	if math32.IsNaN(f) || f < 0 {
		return 0
	}
	if f >= float32(count) {
		return count - 1
	}
	return int(f)
}
