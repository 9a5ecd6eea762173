package painter

import (
	"github.com/Faultbox/terrain-painter/internal/brush"
	"github.com/Faultbox/terrain-painter/internal/engine/camera"
	"github.com/Faultbox/terrain-painter/internal/engine/picking"
	"github.com/Faultbox/terrain-painter/internal/engine/terrain"
	"github.com/Faultbox/terrain-painter/pkg/math"
)

// TerrainPicker picks through an orbit camera into a viewport.
type TerrainPicker struct {
	Camera   *camera.OrbitCamera
	Viewport math.Vec2 // Pixels
}

// Pick casts the camera ray under a pixel onto the terrain.
func (p *TerrainPicker) Pick(t *terrain.Map, screen math.Vec2) (brush.Point, bool) {
	inv := p.Camera.ViewProjection().Inverse()
	ray := picking.ScreenToRay(screen.X, screen.Y, p.Viewport.X, p.Viewport.Y, inv)
	return pickRay(t, ray)
}

// OverheadPicker treats screen positions as world X/Z and picks straight
// down. Headless tools use it to paint at map coordinates.
type OverheadPicker struct{}

// Pick casts a vertical ray at world (screen.X, screen.Y).
func (OverheadPicker) Pick(t *terrain.Map, screen math.Vec2) (brush.Point, bool) {
	top := t.Origin().Y + t.HeightRange().Max + 1
	ray := picking.Ray{
		Origin:    math.Vec3{X: screen.X, Y: top, Z: screen.Y},
		Direction: math.Vec3{Y: -1},
	}
	return pickRay(t, ray)
}

func pickRay(t *terrain.Map, ray picking.Ray) (brush.Point, bool) {
	hit, ok := picking.TryRaycast(t.Heightmap(), t.HeightRange(), t.QuadSize(), ray, t.Origin())
	if !ok {
		return brush.Point{}, false
	}
	return brush.Point{
		Position: hit.Position,
		Normal:   surfaceNormal(t, hit.Position),
		Strength: 1,
	}, true
}

// surfaceNormal estimates the terrain normal by central differences.
func surfaceNormal(t *terrain.Map, pos math.Vec3) math.Vec3 {
	q := t.QuadSize()
	dx := t.WorldHeightAt(pos.Add(math.Vec3{X: q.X})) - t.WorldHeightAt(pos.Sub(math.Vec3{X: q.X}))
	dz := t.WorldHeightAt(pos.Add(math.Vec3{Z: q.Y})) - t.WorldHeightAt(pos.Sub(math.Vec3{Z: q.Y}))
	return math.Vec3{X: -dx * q.Y, Y: 2 * q.X * q.Y, Z: -dz * q.X}.Normalize()
}
