package terrain

import (
	"errors"
	"fmt"

	"github.com/chewxy/math32"

	"github.com/Faultbox/terrain-painter/pkg/grid"
	"github.com/Faultbox/terrain-painter/pkg/math"
)

// MinHeightmapLength is the smallest heightmap edge in vertices.
const MinHeightmapLength = 2

// ErrInvalidHeightRange is returned when Min is not below Max.
var ErrInvalidHeightRange = errors.New("terrain: height range min must be below max")

// Size returns Max - Min.
func (r HeightRange) Size() float32 {
	return r.Max - r.Min
}

// Validate checks that the range is not empty or inverted.
func (r HeightRange) Validate() error {
	if !(r.Min < r.Max) {
		return fmt.Errorf("%w: [%g, %g]", ErrInvalidHeightRange, r.Min, r.Max)
	}
	return nil
}

// Lerp converts a normalized height to a world height.
func (r HeightRange) Lerp(h float32) float32 {
	return r.Min + (r.Max-r.Min)*h
}

// Normalize converts a world height (relative to the terrain origin) into
// the normalized [0,1] heightmap space. The result is not clamped.
func (r HeightRange) Normalize(world float32) float32 {
	return (world - r.Min) / (r.Max - r.Min)
}

// NewHeightmap allocates a zero heightmap of the given vertex dimensions,
// never smaller than 2x2.
func NewHeightmap(lengthX, lengthY int) *grid.Grid[float32] {
	return grid.New[float32](max(lengthX, MinHeightmapLength), max(lengthY, MinHeightmapLength))
}

// GetInterpolatedHeight returns the bilinear world height at a position in
// heightmap-local world units (origin at vertex 0,0).
func GetInterpolatedHeight(hm *grid.Grid[float32], hr HeightRange, quadSize math.Vec2, localX, localZ float32) float32 {
	if hm == nil || hm.Len() == 0 {
		return 0
	}

	fx := clampf(localX/quadSize.X, 0, float32(hm.LengthX()-1))
	fz := clampf(localZ/quadSize.Y, 0, float32(hm.LengthY()-1))

	cellX := min(int(fx), hm.LengthX()-2)
	cellZ := min(int(fz), hm.LengthY()-2)
	fracX := fx - float32(cellX)
	fracZ := fz - float32(cellZ)

	// North edge (lower Z) and south edge (higher Z)
	north := hm.At(cellX, cellZ)*(1-fracX) + hm.At(cellX+1, cellZ)*fracX
	south := hm.At(cellX, cellZ+1)*(1-fracX) + hm.At(cellX+1, cellZ+1)*fracX
	return hr.Lerp(north*(1-fracZ) + south*fracZ)
}

// HeightStats returns the minimum and maximum normalized height.
func HeightStats(hm *grid.Grid[float32]) (lo, hi float32) {
	if hm.Len() == 0 {
		return 0, 0
	}
	lo, hi = math32.Inf(1), math32.Inf(-1)
	for _, h := range hm.Data() {
		lo = math32.Min(lo, h)
		hi = math32.Max(hi, h)
	}
	return lo, hi
}

func clampf(v, lo, hi float32) float32 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
