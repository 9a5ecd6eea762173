package brush

import (
	"fmt"

	"github.com/x448/float16"
	"go.uber.org/zap"

	"github.com/Faultbox/terrain-painter/internal/engine/terrain"
	"github.com/Faultbox/terrain-painter/internal/logger"
	"github.com/Faultbox/terrain-painter/pkg/grid"
	"github.com/Faultbox/terrain-painter/pkg/math"
)

// Store is the authoritative terrain data an Engine reads and commits to.
// *terrain.Map implements it.
type Store interface {
	Heightmap() *grid.Grid[float32]
	MaterialLayer(material uint8) (*grid.Grid[float16.Float16], bool)
	HeightRange() terrain.HeightRange
	Origin() math.Vec3
	HasMesh(key terrain.MeshKey) bool
	Neighbor(key terrain.MeshKey, dx, dy int) terrain.MeshKey
	ApplyHeightAdjustments(regions []terrain.AdjustmentRegion) error
	ApplyWeightAdjustments(material uint8, regions []terrain.AdjustmentRegion) error
}

// Engine computes and commits the adjustments of completed brushstrokes.
type Engine struct {
	store Store
	log   *zap.Logger
}

// NewEngine creates an engine committing to store.
func NewEngine(store Store) *Engine {
	return &Engine{store: store, log: logger.Named("brush")}
}

// Store returns the engine's store.
func (e *Engine) Store() Store { return e.store }

// FlattenTarget returns the normalized height under a brush point.
func (e *Engine) FlattenTarget(p Point) float32 {
	return saturate(e.store.HeightRange().Normalize(p.Position.Y - e.store.Origin().Y))
}

func (e *Engine) trim(key terrain.MeshKey, region terrain.AdjustmentRegion) (terrain.AdjustmentRegion, bool) {
	east := e.store.HasMesh(e.store.Neighbor(key, 1, 0))
	south := e.store.HasMesh(e.store.Neighbor(key, 0, 1))
	return TrimOverlap(region, east, south)
}

// HeightAdjustments computes the trimmed, non-empty height regions of a
// stroke against the store's current heightmap.
func (e *Engine) HeightAdjustments(mode HeightMode, maps *StrokeMaps, p HeightParams) []terrain.AdjustmentRegion {
	hm := e.store.Heightmap()
	var regions []terrain.AdjustmentRegion
	for _, key := range maps.Keys() {
		sm, _ := maps.Get(key)
		region, ok := ComputeHeightAdjustment(mode, sm, hm, p)
		if !ok {
			e.log.Debug("stroke map skipped", zap.Stringer("chunk", key.Chunk), zap.Stringer("sub", key.SubCell))
			continue
		}
		if region, ok = e.trim(key, region); ok {
			regions = append(regions, region)
		}
	}
	return regions
}

// WeightAdjustments computes the trimmed, non-empty weight regions of a
// stroke for one material.
func (e *Engine) WeightAdjustments(mode WeightMode, material uint8, maps *StrokeMaps) []terrain.AdjustmentRegion {
	layer, _ := e.store.MaterialLayer(material)
	var regions []terrain.AdjustmentRegion
	for _, key := range maps.Keys() {
		sm, _ := maps.Get(key)
		region, ok := ComputeWeightAdjustment(mode, sm, layer)
		if !ok {
			e.log.Debug("stroke map skipped", zap.Stringer("chunk", key.Chunk), zap.Stringer("sub", key.SubCell))
			continue
		}
		if region, ok = e.trim(key, region); ok {
			regions = append(regions, region)
		}
	}
	return regions
}

// CommitHeight computes a stroke's height regions and applies them as one
// batch. It returns the committed regions.
func (e *Engine) CommitHeight(mode HeightMode, maps *StrokeMaps, p HeightParams) ([]terrain.AdjustmentRegion, error) {
	regions := e.HeightAdjustments(mode, maps, p)
	if len(regions) == 0 {
		return nil, nil
	}
	if err := e.store.ApplyHeightAdjustments(regions); err != nil {
		return nil, fmt.Errorf("commit %s stroke: %w", mode, err)
	}
	e.log.Debug("height stroke committed", zap.Stringer("mode", mode), zap.Int("regions", len(regions)))
	return regions, nil
}

// CommitWeight computes a stroke's weight regions and applies them as one
// batch. It returns the committed regions.
func (e *Engine) CommitWeight(mode WeightMode, material uint8, maps *StrokeMaps) ([]terrain.AdjustmentRegion, error) {
	regions := e.WeightAdjustments(mode, material, maps)
	if len(regions) == 0 {
		return nil, nil
	}
	if err := e.store.ApplyWeightAdjustments(material, regions); err != nil {
		return nil, fmt.Errorf("commit %s stroke on material %d: %w", mode, material, err)
	}
	e.log.Debug("weight stroke committed", zap.Stringer("mode", mode), zap.Uint8("material", material), zap.Int("regions", len(regions)))
	return regions, nil
}
