package picking

import (
	"testing"

	"github.com/chewxy/math32"

	"github.com/Faultbox/terrain-painter/internal/engine/terrain"
	"github.com/Faultbox/terrain-painter/pkg/grid"
	"github.com/Faultbox/terrain-painter/pkg/math"
)

func TestTryRaycastFlatVertical(t *testing.T) {
	hm := grid.New[float32](8, 8)
	hm.Fill(0.4)
	hr := terrain.HeightRange{Min: 0, Max: 10}
	quad := math.Vec2{X: 2, Y: 2}
	origin := math.Vec3{X: 10, Y: 1, Z: -5}

	for _, cell := range []grid.Point{{X: 0, Y: 0}, {X: 3, Y: 5}, {X: 6, Y: 6}, {X: 6, Y: 0}} {
		t.Run(cell.String(), func(t *testing.T) {
			ray := Ray{
				Origin:    math.Vec3{X: origin.X + (float32(cell.X)+0.5)*quad.X, Y: 50, Z: origin.Z + (float32(cell.Y)+0.5)*quad.Y},
				Direction: math.Vec3{Y: -1},
			}
			hit, ok := TryRaycast(hm, hr, quad, ray, origin)
			if !ok {
				t.Fatal("TryRaycast() missed")
			}
			if hit.Cell != cell {
				t.Errorf("Cell = %v, want %v", hit.Cell, cell)
			}
			if math32.Abs(hit.Position.Y-5) > 1e-4 {
				t.Errorf("Position.Y = %v, want 5", hit.Position.Y)
			}
			if math32.Abs(hit.Distance-45) > 1e-3 {
				t.Errorf("Distance = %v, want 45", hit.Distance)
			}
		})
	}
}

func TestTryRaycastMisses(t *testing.T) {
	hm := grid.New[float32](4, 4)
	hm.Fill(0.5)
	hr := terrain.HeightRange{Min: 0, Max: 10}
	quad := math.Vec2{X: 1, Y: 1}

	tests := []struct {
		name string
		ray  Ray
	}{
		{"pointing up", Ray{Origin: math.Vec3{X: 1, Y: 20, Z: 1}, Direction: math.Vec3{Y: 1}}},
		{"beside the map", Ray{Origin: math.Vec3{X: 10, Y: 20, Z: 1}, Direction: math.Vec3{Y: -1}}},
		{"above and level", Ray{Origin: math.Vec3{X: -1, Y: 8, Z: 1}, Direction: math.Vec3{X: 1}}},
		{"zero direction", Ray{Origin: math.Vec3{X: 1, Y: 20, Z: 1}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if hit, ok := TryRaycast(hm, hr, quad, tt.ray, math.Vec3{}); ok {
				t.Errorf("TryRaycast() = %+v, want miss", hit)
			}
		})
	}
}

func TestTryRaycastFirstHitAlongPath(t *testing.T) {
	// A one-vertex ridge at x=5 rising to the top of the range.
	hm := grid.New[float32](10, 3)
	for y := range 3 {
		hm.Set(5, y, 1)
	}
	hr := terrain.HeightRange{Min: 0, Max: 10}
	quad := math.Vec2{X: 1, Y: 1}

	tests := []struct {
		name     string
		ray      Ray
		wantCell grid.Point
		wantX    float32
	}{
		{"from the west", Ray{Origin: math.Vec3{X: 0.5, Y: 5, Z: 1.5}, Direction: math.Vec3{X: 1}}, grid.Point{X: 4, Y: 1}, 4.5},
		{"from the east", Ray{Origin: math.Vec3{X: 8.5, Y: 5, Z: 1.5}, Direction: math.Vec3{X: -1}}, grid.Point{X: 5, Y: 1}, 5.5},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			hit, ok := TryRaycast(hm, hr, quad, tt.ray, math.Vec3{})
			if !ok {
				t.Fatal("TryRaycast() missed")
			}
			if hit.Cell != tt.wantCell {
				t.Errorf("Cell = %v, want %v", hit.Cell, tt.wantCell)
			}
			if math32.Abs(hit.Position.X-tt.wantX) > 1e-4 {
				t.Errorf("Position.X = %v, want %v", hit.Position.X, tt.wantX)
			}
		})
	}
}

func TestTryRaycastSlanted(t *testing.T) {
	hm := grid.New[float32](16, 16)
	for y := range 16 {
		for x := range 16 {
			hm.Set(x, y, float32(x)/15)
		}
	}
	hr := terrain.HeightRange{Min: -5, Max: 5}
	quad := math.Vec2{X: 0.5, Y: 0.5}
	ray := Ray{
		Origin:    math.Vec3{X: -2, Y: 20, Z: 3},
		Direction: math.Vec3{X: 1, Y: -2, Z: 0.5}.Normalize(),
	}

	hit, ok := TryRaycast(hm, hr, quad, ray, math.Vec3{})
	if !ok {
		t.Fatal("TryRaycast() missed")
	}
	if want := ray.At(hit.Distance); hit.Position.Distance(want) > 1e-3 {
		t.Errorf("Position = %v, want %v at distance %v", hit.Position, want, hit.Distance)
	}
	surface := hr.Lerp(hit.Position.X / quad.X / 15)
	if math32.Abs(hit.Position.Y-surface) > 1e-3 {
		t.Errorf("hit height = %v, surface = %v", hit.Position.Y, surface)
	}
	if got := int(hit.Position.X / quad.X); got != hit.Cell.X {
		t.Errorf("Cell.X = %d, hit lies in column %d", hit.Cell.X, got)
	}
}
