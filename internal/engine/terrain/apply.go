package terrain

import (
	"fmt"
	"slices"

	"github.com/x448/float16"
	"go.uber.org/zap"

	"github.com/Faultbox/terrain-painter/pkg/grid"
)

// AdjustmentRegion is a block of signed deltas anchored at a heightmap vertex.
type AdjustmentRegion struct {
	Start  grid.Point
	Values *grid.Grid[float32]
}

// Rect returns the heightmap vertices the region covers.
func (r AdjustmentRegion) Rect() grid.Rect {
	return grid.Rect{Start: r.Start, Size: r.Values.Size()}
}

// IsZero reports whether every delta is zero.
func (r AdjustmentRegion) IsZero() bool {
	return !r.Values.Contains(func(v float32) bool { return v != 0 })
}

func (m *Map) checkRegions(bounds grid.Rect, regions []AdjustmentRegion) error {
	for _, r := range regions {
		if r.Values == nil || !bounds.ContainsRect(r.Rect()) {
			return fmt.Errorf("%w: adjustment %v in %v", ErrRegionOutOfBounds, r.Rect(), bounds)
		}
	}
	return nil
}

// ApplyHeightAdjustments adds the deltas to a copy of the heightmap, clamps
// every touched vertex to [0,1] and publishes the copy. Meshes within one
// vertex of any region are invalidated.
func (m *Map) ApplyHeightAdjustments(regions []AdjustmentRegion) error {
	if len(regions) == 0 {
		return nil
	}
	hm := m.Heightmap()
	if err := m.checkRegions(hm.Bounds(), regions); err != nil {
		return err
	}

	next := hm.Clone()
	for _, r := range regions {
		for y := range r.Values.LengthY() {
			for x := range r.Values.LengthX() {
				gx, gy := r.Start.X+x, r.Start.Y+y
				next.Set(gx, gy, clampf(next.At(gx, gy)+r.Values.At(x, y), 0, 1))
			}
		}
	}
	m.heightmap.Store(next)

	for _, r := range regions {
		m.InvalidateRegion(r.Rect())
	}
	m.log.Debug("height adjustments applied", zap.Int("regions", len(regions)))
	return nil
}

// ApplyWeightAdjustments adds the deltas to the weight layer of material,
// clamps to [0,1] and recomputes the dominant material over the touched
// vertices.
func (m *Map) ApplyWeightAdjustments(material uint8, regions []AdjustmentRegion) error {
	if len(regions) == 0 {
		return nil
	}
	bounds := m.Heightmap().Bounds()
	if err := m.checkRegions(bounds, regions); err != nil {
		return err
	}

	m.layersMu.Lock()
	layer, ok := m.layers[material]
	if ok {
		layer = layer.Clone()
	} else {
		layer = grid.New[float16.Float16](bounds.Size.X, bounds.Size.Y)
	}
	for _, r := range regions {
		for y := range r.Values.LengthY() {
			for x := range r.Values.LengthX() {
				gx, gy := r.Start.X+x, r.Start.Y+y
				w := clampf(layer.At(gx, gy).Float32()+r.Values.At(x, y), 0, 1)
				layer.Set(gx, gy, float16.Fromfloat32(w))
			}
		}
	}
	m.layers[material] = layer
	ids := make([]uint8, 0, len(m.layers))
	for id := range m.layers {
		ids = append(ids, id)
	}
	slices.Sort(ids)
	layers := make([]*grid.Grid[float16.Float16], len(ids))
	for i, id := range ids {
		layers[i] = m.layers[id]
	}
	m.layersMu.Unlock()

	index := m.MaterialIndexMap().Clone()
	weight := m.MaterialWeightMap().Clone()
	for _, r := range regions {
		rect := r.Rect()
		for y := rect.Start.Y; y < rect.End().Y; y++ {
			for x := rect.Start.X; x < rect.End().X; x++ {
				best, bestWeight := uint8(0), float32(-1)
				for i, l := range layers {
					// Ties keep the lower material id.
					if w := l.At(x, y).Float32(); w > bestWeight {
						best, bestWeight = ids[i], w
					}
				}
				index.Set(x, y, best)
				weight.Set(x, y, float16.Fromfloat32(bestWeight))
			}
		}
	}
	m.materialIndex.Store(index)
	m.materialWeight.Store(weight)
	m.log.Debug("weight adjustments applied", zap.Uint8("material", material), zap.Int("regions", len(regions)))
	return nil
}
