package terrain

import (
	"errors"
	"fmt"
	"sync"
	"sync/atomic"

	"github.com/x448/float16"
	"go.uber.org/zap"

	"github.com/Faultbox/terrain-painter/internal/logger"
	"github.com/Faultbox/terrain-painter/pkg/grid"
	"github.com/Faultbox/terrain-painter/pkg/math"
)

// ErrInvalidMapConfig is returned by NewMap for unusable settings.
var ErrInvalidMapConfig = errors.New("terrain: invalid map config")

// MapConfig describes the layout of a terrain asset.
type MapConfig struct {
	MapSize        grid.Point  // Quads per axis
	QuadSize       math.Vec2   // World size of one quad in X and Z
	HeightRange    HeightRange // World heights of normalized 0 and 1
	QuadsPerMesh   int         // Quads per sub-chunk mesh axis
	MeshesPerChunk int         // Sub-chunk meshes per chunk axis
	Origin         math.Vec3   // World position of heightmap vertex (0,0)
}

// Validate reports the first unusable setting.
func (c MapConfig) Validate() error {
	switch {
	case c.MapSize.X < 1 || c.MapSize.Y < 1:
		return fmt.Errorf("%w: map size %v", ErrInvalidMapConfig, c.MapSize)
	case c.QuadSize.X <= 0 || c.QuadSize.Y <= 0:
		return fmt.Errorf("%w: quad size %v", ErrInvalidMapConfig, c.QuadSize)
	case c.QuadsPerMesh < 1 || c.QuadsPerMesh > MaxQuadsPerMeshAxis:
		return fmt.Errorf("%w: quads per mesh %d", ErrInvalidMapConfig, c.QuadsPerMesh)
	case c.MeshesPerChunk < 1:
		return fmt.Errorf("%w: meshes per chunk %d", ErrInvalidMapConfig, c.MeshesPerChunk)
	}
	if err := c.HeightRange.Validate(); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidMapConfig, err)
	}
	return nil
}

// Map is the authoritative data store of one terrain: the heightmap, the
// material maps and the derived mesh cache.
//
// Grid snapshots are immutable once published. Readers on any goroutine may
// hold a snapshot while the owning goroutine commits a new one. Mesh cache and
// commit methods belong to the owning goroutine.
type Map struct {
	cfg MapConfig
	log *zap.Logger

	heightmap      atomic.Pointer[grid.Grid[float32]]
	materialIndex  atomic.Pointer[grid.Grid[uint8]]
	materialWeight atomic.Pointer[grid.Grid[float16.Float16]]

	layersMu sync.RWMutex
	layers   map[uint8]*grid.Grid[float16.Float16]

	meshes map[MeshKey]*MeshData
}

// NewMap creates a flat terrain of cfg.MapSize quads.
func NewMap(cfg MapConfig) (*Map, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	m := &Map{
		cfg:    cfg,
		log:    logger.Named("terrain"),
		layers: make(map[uint8]*grid.Grid[float16.Float16]),
		meshes: make(map[MeshKey]*MeshData),
	}
	lx, ly := cfg.MapSize.X+1, cfg.MapSize.Y+1
	m.heightmap.Store(NewHeightmap(lx, ly))
	m.materialIndex.Store(grid.New[uint8](lx, ly))
	m.materialWeight.Store(grid.New[float16.Float16](lx, ly))
	return m, nil
}

// Config returns the layout the map was built with, with the current size.
func (m *Map) Config() MapConfig { return m.cfg }

// MapSize returns the number of quads per axis.
func (m *Map) MapSize() grid.Point { return m.cfg.MapSize }

// QuadSize returns the world size of one quad.
func (m *Map) QuadSize() math.Vec2 { return m.cfg.QuadSize }

// HeightRange returns the world height range.
func (m *Map) HeightRange() HeightRange { return m.cfg.HeightRange }

// Origin returns the world position of heightmap vertex (0,0).
func (m *Map) Origin() math.Vec3 { return m.cfg.Origin }

// QuadsPerMesh returns the quad count per mesh axis.
func (m *Map) QuadsPerMesh() int { return m.cfg.QuadsPerMesh }

// MeshesPerChunk returns the sub-chunk count per chunk axis.
func (m *Map) MeshesPerChunk() int { return m.cfg.MeshesPerChunk }

// Heightmap returns the current heightmap snapshot. Do not mutate it.
func (m *Map) Heightmap() *grid.Grid[float32] { return m.heightmap.Load() }

// MaterialIndexMap returns the current dominant material per vertex.
func (m *Map) MaterialIndexMap() *grid.Grid[uint8] { return m.materialIndex.Load() }

// MaterialWeightMap returns the current dominant material weight per vertex.
func (m *Map) MaterialWeightMap() *grid.Grid[float16.Float16] { return m.materialWeight.Load() }

// MaterialLayer returns the weight layer of one material, if it was painted.
func (m *Map) MaterialLayer(material uint8) (*grid.Grid[float16.Float16], bool) {
	m.layersMu.RLock()
	defer m.layersMu.RUnlock()
	g, ok := m.layers[material]
	return g, ok
}

// SetHeightmap swaps the whole heightmap. Its dimensions become the new map
// size; the material maps are resized to match. Every mesh is invalidated.
func (m *Map) SetHeightmap(hm *grid.Grid[float32]) error {
	if hm.LengthX() < MinHeightmapLength || hm.LengthY() < MinHeightmapLength {
		return fmt.Errorf("%w: heightmap %dx%d", ErrInvalidMapConfig, hm.LengthX(), hm.LengthY())
	}
	m.heightmap.Store(hm)
	m.resizeMaterials(hm.LengthX(), hm.LengthY())
	m.cfg.MapSize = grid.Point{X: hm.LengthX() - 1, Y: hm.LengthY() - 1}
	m.InvalidateAll()
	m.log.Debug("heightmap replaced", zap.Int("lx", hm.LengthX()), zap.Int("ly", hm.LengthY()))
	return nil
}

// SetMaterialMaps swaps the composite material maps. Both must match the
// heightmap dimensions.
func (m *Map) SetMaterialMaps(index *grid.Grid[uint8], weight *grid.Grid[float16.Float16]) error {
	want := m.Heightmap().Size()
	if index.Size() != want || weight.Size() != want {
		return fmt.Errorf("%w: material maps %v/%v, heightmap %v", ErrInvalidMapConfig, index.Size(), weight.Size(), want)
	}
	m.materialIndex.Store(index)
	m.materialWeight.Store(weight)
	return nil
}

// Resize changes the map to mapSize quads, keeping the overlapping data.
// The size never drops below one quad per axis.
func (m *Map) Resize(mapSize grid.Point) {
	lx := max(mapSize.X+1, MinHeightmapLength)
	ly := max(mapSize.Y+1, MinHeightmapLength)

	hm := m.Heightmap().Clone()
	hm.Resize(lx, ly)
	m.heightmap.Store(hm)
	m.resizeMaterials(lx, ly)
	m.cfg.MapSize = grid.Point{X: lx - 1, Y: ly - 1}
	m.InvalidateAll()
	m.log.Info("terrain resized", zap.Stringer("quads", m.cfg.MapSize))
}

func (m *Map) resizeMaterials(lx, ly int) {
	if idx := m.MaterialIndexMap(); idx.LengthX() != lx || idx.LengthY() != ly {
		idx = idx.Clone()
		idx.Resize(lx, ly)
		m.materialIndex.Store(idx)
	}
	if w := m.MaterialWeightMap(); w.LengthX() != lx || w.LengthY() != ly {
		w = w.Clone()
		w.Resize(lx, ly)
		m.materialWeight.Store(w)
	}

	m.layersMu.Lock()
	defer m.layersMu.Unlock()
	for id, layer := range m.layers {
		if layer.LengthX() == lx && layer.LengthY() == ly {
			continue
		}
		layer = layer.Clone()
		layer.Resize(lx, ly)
		m.layers[id] = layer
	}
}

// WorldHeightAt returns the interpolated world height under a world position.
func (m *Map) WorldHeightAt(world math.Vec3) float32 {
	local := world.Sub(m.cfg.Origin)
	return m.cfg.Origin.Y + GetInterpolatedHeight(m.Heightmap(), m.cfg.HeightRange, m.cfg.QuadSize, local.X, local.Z)
}
