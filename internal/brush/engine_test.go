package brush

import (
	"testing"

	"github.com/Faultbox/terrain-painter/internal/engine/terrain"
	"github.com/Faultbox/terrain-painter/pkg/grid"
	"github.com/Faultbox/terrain-painter/pkg/math"
)

func newTestMap(t *testing.T, quadsX, quadsY int) *terrain.Map {
	t.Helper()
	m, err := terrain.NewMap(terrain.MapConfig{
		MapSize:        grid.Point{X: quadsX, Y: quadsY},
		QuadSize:       math.Vec2{X: 1, Y: 1},
		HeightRange:    terrain.HeightRange{Min: 0, Max: 10},
		QuadsPerMesh:   4,
		MeshesPerChunk: 2,
	})
	if err != nil {
		t.Fatalf("NewMap() error = %v", err)
	}
	return m
}

// paintedColumns is the stroke intensity used across a mesh seam.
func paintedColumns(x, _ int) float32 {
	if x < 2 || x > 6 {
		return 0
	}
	return 0.1 * float32(x+1)
}

func fillStroke(maps *StrokeMaps, m *terrain.Map, key terrain.MeshKey, f func(x, y int) float32) {
	region, _ := m.MeshRegion(key)
	sm := maps.Ensure(key, region)
	for y := range region.Size.Y {
		for x := range region.Size.X {
			sm.Values.Set(x, y, f(region.Start.X+x, region.Start.Y+y))
		}
	}
}

func TestEdgeOverlapTrimMatchesSingleMesh(t *testing.T) {
	// Two 4x4-quad meshes side by side sharing vertex column 4.
	m := newTestMap(t, 8, 4)
	west := terrain.MeshKey{}
	east := terrain.MeshKey{SubCell: grid.Point{X: 1}}

	maps := NewStrokeMaps()
	fillStroke(maps, m, west, paintedColumns)
	fillStroke(maps, m, east, paintedColumns)

	p := HeightParams{Strength: 5, Range: m.HeightRange()}
	engine := NewEngine(m)
	regions := engine.HeightAdjustments(Raise, maps, p)
	if len(regions) != 2 {
		t.Fatalf("regions = %d, want 2", len(regions))
	}

	whole := strokeMap(grid.Point{}, 9, 5, 0)
	for y := range 5 {
		for x := range 9 {
			whole.Values.Set(x, y, paintedColumns(x, y))
		}
	}
	want, _ := ComputeHeightAdjustment(Raise, whole, m.Heightmap(), p)

	sum := grid.New[float32](9, 5)
	for _, r := range regions {
		for y := range r.Values.LengthY() {
			for x := range r.Values.LengthX() {
				gx, gy := r.Start.X+x, r.Start.Y+y
				sum.Set(gx, gy, sum.At(gx, gy)+r.Values.At(x, y))
			}
		}
	}
	for y := range 5 {
		for x := range 9 {
			if !near(sum.At(x, y), want.Values.At(x, y)) {
				t.Errorf("(%d, %d) = %v, want %v", x, y, sum.At(x, y), want.Values.At(x, y))
			}
		}
	}

	if _, err := engine.CommitHeight(Raise, maps, p); err != nil {
		t.Fatalf("CommitHeight() error = %v", err)
	}
	if got, want := m.Heightmap().At(4, 2), want.Values.At(4, 2); !near(got, want) {
		t.Errorf("seam height = %v, want %v", got, want)
	}
}

func TestHeightAdjustmentsSkipsUnpaintedMeshes(t *testing.T) {
	m := newTestMap(t, 8, 8)
	maps := NewStrokeMaps()
	region, _ := m.MeshRegion(terrain.MeshKey{})
	maps.Ensure(terrain.MeshKey{}, region)

	engine := NewEngine(m)
	regions, err := engine.CommitHeight(Raise, maps, HeightParams{Strength: 1, Range: m.HeightRange()})
	if err != nil {
		t.Fatal(err)
	}
	if len(regions) != 0 {
		t.Errorf("regions = %d, want 0", len(regions))
	}
}

func TestCommitWeight(t *testing.T) {
	m := newTestMap(t, 8, 8)
	maps := NewStrokeMaps()
	fillStroke(maps, m, terrain.MeshKey{}, func(int, int) float32 { return 1 })

	engine := NewEngine(m)
	regions, err := engine.CommitWeight(Paint, 2, maps)
	if err != nil {
		t.Fatalf("CommitWeight() error = %v", err)
	}
	if len(regions) != 1 || regions[0].Values.Size() != (grid.Point{X: 4, Y: 4}) {
		t.Fatalf("regions = %+v, want one trimmed 4x4 region", regions)
	}
	if got := m.MaterialIndexMap().At(1, 1); got != 2 {
		t.Errorf("dominant material = %d, want 2", got)
	}
	if got := m.MaterialIndexMap().At(4, 4); got != 0 {
		t.Errorf("seam vertex material = %d, want 0", got)
	}

	regions, err = engine.CommitWeight(Erase, 2, maps)
	if err != nil {
		t.Fatal(err)
	}
	if len(regions) != 1 {
		t.Fatalf("erase regions = %d, want 1", len(regions))
	}
	if layer, _ := m.MaterialLayer(2); layer.At(1, 1).Float32() != 0 {
		t.Errorf("erased weight = %v, want 0", layer.At(1, 1).Float32())
	}
}

func TestFlattenTarget(t *testing.T) {
	m := newTestMap(t, 4, 4)
	engine := NewEngine(m)
	if got := engine.FlattenTarget(Point{Position: math.Vec3{Y: 2.5}}); !near(got, 0.25) {
		t.Errorf("FlattenTarget() = %v, want 0.25", got)
	}
	if got := engine.FlattenTarget(Point{Position: math.Vec3{Y: 50}}); got != 1 {
		t.Errorf("FlattenTarget(above range) = %v, want 1", got)
	}
}
