package brush

import (
	"github.com/chewxy/math32"
	"github.com/x448/float16"

	"github.com/Faultbox/terrain-painter/internal/engine/terrain"
	"github.com/Faultbox/terrain-painter/pkg/grid"
)

// HeightParams carries the per-stroke inputs of a height adjustment.
type HeightParams struct {
	Strength      float32 // World height added by a full-intensity Raise
	Range         terrain.HeightRange
	FlattenTarget float32 // Normalized height of the stroke's first point
}

const invSqrt2 = 1 / math32.Sqrt2

// smoothNeighbors are the 8 neighbour offsets with their weights.
var smoothNeighbors = [8]struct {
	dx, dy int
	w      float32
}{
	{-1, 0, 1}, {1, 0, 1}, {0, -1, 1}, {0, 1, 1},
	{-1, -1, invSqrt2}, {1, -1, invSqrt2}, {-1, 1, invSqrt2}, {1, 1, invSqrt2},
}

func saturate(v float32) float32 {
	return min(max(v, 0), 1)
}

// ComputeHeightAdjustment converts one mesh's stroke map into height deltas.
// hm is the heightmap the stroke was painted on; Smooth and Flatten read it
// around the stroke map's region. ok is false when the result is all zero.
func ComputeHeightAdjustment(mode HeightMode, sm *StrokeMap, hm *grid.Grid[float32], p HeightParams) (region terrain.AdjustmentRegion, ok bool) {
	if sm.IsZero() {
		return terrain.AdjustmentRegion{}, false
	}

	w, h := sm.Values.LengthX(), sm.Values.LengthY()
	out := grid.New[float32](w, h)
	scale := p.Strength / p.Range.Size()
	origin := sm.Region.Start

	for y := range h {
		for x := range w {
			s := sm.Values.At(x, y)
			if s == 0 {
				continue
			}
			gx, gy := origin.X+x, origin.Y+y

			var d float32
			switch mode {
			case Raise:
				d = s * scale
			case Lower:
				d = -s * scale
			case Smooth:
				center := hm.At(gx, gy)
				var sum float32
				for _, n := range smoothNeighbors {
					sum += (hm.AtClamped(gx+n.dx, gy+n.dy) - center) * n.w
				}
				d = sum / float32(len(smoothNeighbors)) * saturate(s)
			case Flatten:
				d = (p.FlattenTarget - hm.At(gx, gy)) * saturate(s)
			}
			out.Set(x, y, d)
		}
	}

	region = terrain.AdjustmentRegion{Start: origin, Values: out}
	return region, !region.IsZero()
}

// ComputeWeightAdjustment converts one mesh's stroke map into weight deltas
// for a material layer. layer may be nil for a material never painted.
func ComputeWeightAdjustment(mode WeightMode, sm *StrokeMap, layer *grid.Grid[float16.Float16]) (region terrain.AdjustmentRegion, ok bool) {
	if sm.IsZero() {
		return terrain.AdjustmentRegion{}, false
	}

	w, h := sm.Values.LengthX(), sm.Values.LengthY()
	out := grid.New[float32](w, h)
	origin := sm.Region.Start

	for y := range h {
		for x := range w {
			s := saturate(sm.Values.At(x, y))
			if s == 0 {
				continue
			}
			var current float32
			if layer != nil {
				current = layer.At(origin.X+x, origin.Y+y).Float32()
			}
			switch mode {
			case Paint:
				out.Set(x, y, (1-current)*s)
			case Erase:
				out.Set(x, y, -current*s)
			}
		}
	}

	region = terrain.AdjustmentRegion{Start: origin, Values: out}
	return region, !region.IsZero()
}

// TrimOverlap drops the east column and/or south row of a region. Those
// vertices are shared with the neighbouring mesh, which adjusts them itself.
// ok is false when nothing non-zero remains.
func TrimOverlap(region terrain.AdjustmentRegion, east, south bool) (terrain.AdjustmentRegion, bool) {
	if !east && !south {
		return region, !region.IsZero()
	}
	size := region.Values.Size()
	if east {
		size.X--
	}
	if south {
		size.Y--
	}
	if size.X <= 0 || size.Y <= 0 {
		return terrain.AdjustmentRegion{}, false
	}

	values, err := region.Values.SubGrid(grid.Rect{Size: size})
	if err != nil {
		return terrain.AdjustmentRegion{}, false
	}
	trimmed := terrain.AdjustmentRegion{Start: region.Start, Values: values}
	return trimmed, !trimmed.IsZero()
}
