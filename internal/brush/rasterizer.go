package brush

import (
	"github.com/chewxy/math32"

	"github.com/Faultbox/terrain-painter/internal/engine/terrain"
	"github.com/Faultbox/terrain-painter/pkg/grid"
	"github.com/Faultbox/terrain-painter/pkg/math"
)

// Layout is the mesh geometry a stroke is rendered against. *terrain.Map
// implements it.
type Layout interface {
	QuadSize() math.Vec2
	Origin() math.Vec3
	MeshRegion(key terrain.MeshKey) (grid.Rect, bool)
	MeshKeysInRect(r grid.Rect) []terrain.MeshKey
}

// RenderRequest asks a renderer to stamp new points into a stroke's maps.
type RenderRequest struct {
	Layout  Layout
	Params  Params
	Points  []Point
	Targets *StrokeMaps
	Final   bool // Last request of the stroke
}

// Renderer renders stroke maps. done may run later and on any goroutine,
// but the renderer owns Targets until it does.
type Renderer interface {
	Render(req RenderRequest, done func(error))
}

// Rasterizer renders stroke maps on the CPU and completes synchronously.
type Rasterizer struct{}

// Render stamps every point into the stroke maps of the meshes it touches.
func (Rasterizer) Render(req RenderRequest, done func(error)) {
	for _, p := range req.Points {
		Stamp(req.Layout, req.Params, p, req.Targets)
	}
	if done != nil {
		done(nil)
	}
}

// Stamp blends one brush point into targets. Intensity accumulates as
// v += s * (1 - v), so repeated stamps approach but never exceed 1.
func Stamp(layout Layout, params Params, p Point, targets *StrokeMaps) {
	if params.Radius <= 0 || params.Opacity <= 0 || p.Strength <= 0 {
		return
	}
	quad := layout.QuadSize()
	local := p.Position.Sub(layout.Origin())
	cx, cz := local.X/quad.X, local.Z/quad.Y
	rx, rz := params.Radius/quad.X, params.Radius/quad.Y

	footprint := grid.Rect{
		Start: grid.Point{X: int(math32.Ceil(cx - rx)), Y: int(math32.Ceil(cz - rz))},
	}
	footprint.Size = grid.Point{
		X: int(math32.Floor(cx+rx)) - footprint.Start.X + 1,
		Y: int(math32.Floor(cz+rz)) - footprint.Start.Y + 1,
	}

	for _, key := range layout.MeshKeysInRect(footprint) {
		region, ok := layout.MeshRegion(key)
		if !ok {
			continue
		}
		area := region.Intersect(footprint)
		if area.Empty() {
			continue
		}
		sm := targets.Ensure(key, region)
		for y := area.Start.Y; y < area.End().Y; y++ {
			for x := area.Start.X; x < area.End().X; x++ {
				dx := (float32(x) - cx) * quad.X
				dz := (float32(y) - cz) * quad.Y
				s := params.Opacity * p.Strength * Falloff(params, dx, dz)
				if s <= 0 {
					continue
				}
				lx, ly := x-region.Start.X, y-region.Start.Y
				v := sm.Values.At(lx, ly)
				sm.Values.Set(lx, ly, v+saturate(s)*(1-v))
			}
		}
	}
}

// Falloff returns the brush weight at an offset from its center: 1 inside
// the hard core, easing to 0 at the radius.
func Falloff(params Params, dx, dz float32) float32 {
	var d float32
	switch params.Shape {
	case ShapeSquare:
		d = math32.Max(math32.Abs(dx), math32.Abs(dz))
	default:
		d = math32.Hypot(dx, dz)
	}
	t := d / params.Radius
	if t >= 1 {
		return 0
	}
	fade := saturate(params.Falloff)
	inner := 1 - fade
	if t <= inner {
		return 1
	}
	x := (t - inner) / fade
	return 1 - x*x*(3-2*x)
}
