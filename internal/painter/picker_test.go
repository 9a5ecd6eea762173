package painter

import (
	"testing"

	"github.com/chewxy/math32"

	"github.com/Faultbox/terrain-painter/internal/engine/camera"
	"github.com/Faultbox/terrain-painter/internal/engine/terrain"
	"github.com/Faultbox/terrain-painter/pkg/grid"
	"github.com/Faultbox/terrain-painter/pkg/math"
)

func newPickerMap(t *testing.T) *terrain.Map {
	t.Helper()
	m, err := terrain.NewMap(terrain.MapConfig{
		MapSize:        grid.Point{X: 8, Y: 8},
		QuadSize:       math.Vec2{X: 1, Y: 1},
		HeightRange:    terrain.HeightRange{Min: 0, Max: 10},
		QuadsPerMesh:   4,
		MeshesPerChunk: 2,
	})
	if err != nil {
		t.Fatal(err)
	}
	return m
}

func TestTerrainPickerViewportCenter(t *testing.T) {
	m := newPickerMap(t)

	cam := camera.NewOrbitCamera()
	cam.Center = math.Vec3{X: 4, Y: 0, Z: 4}
	cam.Distance = 10
	cam.RotationX = 1
	cam.Lens = camera.Lens{FovY: math32.Pi / 3, Aspect: 1, Near: 0.1, Far: 100}

	picker := &TerrainPicker{Camera: cam, Viewport: math.Vec2{X: 200, Y: 200}}
	p, ok := picker.Pick(m, math.Vec2{X: 100, Y: 100})
	if !ok {
		t.Fatal("center of the viewport missed the terrain")
	}
	if d := p.Position.Sub(cam.Center).Length(); d > 1e-2 {
		t.Errorf("hit %v, want near %v", p.Position, cam.Center)
	}
	if d := p.Normal.Sub(math.UnitY).Length(); d > 1e-4 {
		t.Errorf("normal %v, want +Y", p.Normal)
	}
	if p.Strength != 1 {
		t.Errorf("strength = %v, want 1", p.Strength)
	}
}

func TestOverheadPickerSlopeNormal(t *testing.T) {
	m := newPickerMap(t)

	// Rise 0.1 normalized (1 world unit) per quad along X.
	hm := terrain.NewHeightmap(9, 9)
	for y := range 9 {
		for x := range 9 {
			hm.Set(x, y, float32(x)*0.1)
		}
	}
	if err := m.SetHeightmap(hm); err != nil {
		t.Fatal(err)
	}

	p, ok := OverheadPicker{}.Pick(m, math.Vec2{X: 4, Y: 4})
	if !ok {
		t.Fatal("overhead pick missed")
	}
	if math32.Abs(p.Position.Y-4) > 1e-4 {
		t.Errorf("height = %v, want 4", p.Position.Y)
	}
	want := math.Vec3{X: -1, Y: 1}.Normalize()
	if d := p.Normal.Sub(want).Length(); d > 1e-4 {
		t.Errorf("normal %v, want %v", p.Normal, want)
	}

	if _, ok := (OverheadPicker{}).Pick(m, math.Vec2{X: -3, Y: 4}); ok {
		t.Error("pick outside the map hit")
	}
}
