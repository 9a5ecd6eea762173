package terrain

import (
	"context"
	"errors"
	"testing"

	"github.com/chewxy/math32"

	"github.com/Faultbox/terrain-painter/pkg/grid"
	"github.com/Faultbox/terrain-painter/pkg/math"
)

func testConfig() MapConfig {
	return MapConfig{
		MapSize:        grid.Point{X: 10, Y: 10},
		QuadSize:       math.Vec2{X: 1, Y: 1},
		HeightRange:    HeightRange{Min: 0, Max: 10},
		QuadsPerMesh:   4,
		MeshesPerChunk: 2,
	}
}

func newTestMap(t *testing.T, cfg MapConfig) *Map {
	t.Helper()
	m, err := NewMap(cfg)
	if err != nil {
		t.Fatalf("NewMap() error = %v", err)
	}
	return m
}

func TestMapConfigValidate(t *testing.T) {
	tests := []struct {
		name    string
		modify  func(*MapConfig)
		wantErr bool
	}{
		{"valid", func(*MapConfig) {}, false},
		{"zero map", func(c *MapConfig) { c.MapSize = grid.Point{} }, true},
		{"zero quad", func(c *MapConfig) { c.QuadSize.X = 0 }, true},
		{"mesh too big", func(c *MapConfig) { c.QuadsPerMesh = 256 }, true},
		{"no meshes", func(c *MapConfig) { c.MeshesPerChunk = 0 }, true},
		{"inverted range", func(c *MapConfig) { c.HeightRange = HeightRange{Min: 5, Max: 5} }, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := testConfig()
			tt.modify(&cfg)
			err := cfg.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
			if err != nil && !errors.Is(err, ErrInvalidMapConfig) {
				t.Errorf("Validate() error = %v, want ErrInvalidMapConfig", err)
			}
		})
	}
}

func TestMeshRegion(t *testing.T) {
	m := newTestMap(t, testConfig())

	tests := []struct {
		name   string
		key    MeshKey
		want   grid.Rect
		wantOK bool
	}{
		{"first", MeshKey{}, grid.NewRect(0, 0, 5, 5), true},
		{"second sub-cell", MeshKey{SubCell: grid.Point{X: 1}}, grid.NewRect(4, 0, 5, 5), true},
		{"partial edge", MeshKey{Chunk: grid.Point{X: 1}}, grid.NewRect(8, 0, 3, 5), true},
		{"past edge", MeshKey{Chunk: grid.Point{X: 1}, SubCell: grid.Point{X: 1}}, grid.Rect{}, false},
		{"bad sub-cell", MeshKey{SubCell: grid.Point{X: 2}}, grid.Rect{}, false},
		{"negative chunk", MeshKey{Chunk: grid.Point{X: -1}}, grid.Rect{}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := m.MeshRegion(tt.key)
			if ok != tt.wantOK || got != tt.want {
				t.Errorf("MeshRegion() = %v, %v; want %v, %v", got, ok, tt.want, tt.wantOK)
			}
		})
	}

	if got := len(m.MeshKeys()); got != 9 {
		t.Errorf("MeshKeys() = %d keys, want 9", got)
	}
	if got := m.ChunkCount(); got != (grid.Point{X: 2, Y: 2}) {
		t.Errorf("ChunkCount() = %v, want (2, 2)", got)
	}
}

func TestNeighborCrossesChunks(t *testing.T) {
	m := newTestMap(t, testConfig())

	tests := []struct {
		name   string
		key    MeshKey
		dx, dy int
		want   MeshKey
	}{
		{"inside chunk", MeshKey{}, 1, 0, MeshKey{SubCell: grid.Point{X: 1}}},
		{"east chunk", MeshKey{SubCell: grid.Point{X: 1}}, 1, 0, MeshKey{Chunk: grid.Point{X: 1}}},
		{"west of origin", MeshKey{}, -1, 0, MeshKey{Chunk: grid.Point{X: -1}, SubCell: grid.Point{X: 1}}},
		{"south chunk", MeshKey{SubCell: grid.Point{Y: 1}}, 0, 1, MeshKey{Chunk: grid.Point{Y: 1}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := m.Neighbor(tt.key, tt.dx, tt.dy); got != tt.want {
				t.Errorf("Neighbor() = %+v, want %+v", got, tt.want)
			}
		})
	}
}

func TestMeshKeysInRectSharedVertex(t *testing.T) {
	m := newTestMap(t, testConfig())

	keys := m.MeshKeysInRect(grid.NewRect(4, 1, 1, 1))
	want := []MeshKey{{}, {SubCell: grid.Point{X: 1}}}
	if len(keys) != len(want) {
		t.Fatalf("MeshKeysInRect() = %+v, want %+v", keys, want)
	}
	for i := range want {
		if keys[i] != want[i] {
			t.Errorf("key %d = %+v, want %+v", i, keys[i], want[i])
		}
	}

	if keys := m.MeshKeysInRect(grid.NewRect(20, 20, 2, 2)); len(keys) != 0 {
		t.Errorf("MeshKeysInRect(outside) = %+v, want none", keys)
	}
}

func TestWorldPositions(t *testing.T) {
	cfg := testConfig()
	cfg.Origin = math.Vec3{X: 100, Y: 5, Z: -50}
	m := newTestMap(t, cfg)

	key := MeshKey{Chunk: grid.Point{X: 1, Y: 0}, SubCell: grid.Point{X: 0, Y: 1}}
	if got, want := m.ToChunkSubCellMinimumWorldPosition(key), (math.Vec3{X: 108, Y: 5, Z: -46}); got != want {
		t.Errorf("ToChunkSubCellMinimumWorldPosition() = %v, want %v", got, want)
	}
	if got := m.ToChunkIndex(math.Vec3{X: 99, Z: -41}); got != (grid.Point{X: -1, Y: 1}) {
		t.Errorf("ToChunkIndex() = %v, want (-1, 1)", got)
	}
	if got := m.ToHeightmapIndex(math.Vec3{X: 103.6, Z: -48.2}); got != (grid.Point{X: 4, Y: 2}) {
		t.Errorf("ToHeightmapIndex() = %v, want (4, 2)", got)
	}
}

func TestApplyHeightAdjustments(t *testing.T) {
	m := newTestMap(t, testConfig())
	near := MeshKey{}
	far := MeshKey{SubCell: grid.Point{X: 1, Y: 1}}
	for _, key := range []MeshKey{near, far} {
		if _, err := m.Mesh(key); err != nil {
			t.Fatal(err)
		}
	}
	before := m.Heightmap()

	values, _ := grid.FromSlice(2, 1, []float32{0.5, 2})
	if err := m.ApplyHeightAdjustments([]AdjustmentRegion{{Start: grid.Point{X: 1, Y: 1}, Values: values}}); err != nil {
		t.Fatalf("ApplyHeightAdjustments() error = %v", err)
	}

	after := m.Heightmap()
	if after.At(1, 1) != 0.5 || after.At(2, 1) != 1 {
		t.Errorf("heights = %v, %v; want 0.5, 1", after.At(1, 1), after.At(2, 1))
	}
	if before.At(1, 1) != 0 {
		t.Error("published snapshot was mutated")
	}
	if _, ok := m.CachedMesh(near); ok {
		t.Error("adjusted mesh still cached")
	}
	if _, ok := m.CachedMesh(far); !ok {
		t.Error("unaffected mesh was invalidated")
	}

	lower, _ := grid.FromSlice(1, 1, []float32{-3})
	if err := m.ApplyHeightAdjustments([]AdjustmentRegion{{Start: grid.Point{X: 1, Y: 1}, Values: lower}}); err != nil {
		t.Fatal(err)
	}
	if got := m.Heightmap().At(1, 1); got != 0 {
		t.Errorf("height after lower = %v, want 0", got)
	}
}

func TestApplyAdjustmentsOutOfBounds(t *testing.T) {
	m := newTestMap(t, testConfig())
	values := grid.New[float32](3, 3)
	regions := []AdjustmentRegion{{Start: grid.Point{X: 9, Y: 9}, Values: values}}

	if err := m.ApplyHeightAdjustments(regions); !errors.Is(err, ErrRegionOutOfBounds) {
		t.Errorf("ApplyHeightAdjustments() error = %v, want ErrRegionOutOfBounds", err)
	}
	if err := m.ApplyWeightAdjustments(1, regions); !errors.Is(err, ErrRegionOutOfBounds) {
		t.Errorf("ApplyWeightAdjustments() error = %v, want ErrRegionOutOfBounds", err)
	}
}

func TestApplyWeightAdjustmentsDominantMaterial(t *testing.T) {
	m := newTestMap(t, testConfig())
	paint := func(material uint8, w float32) {
		t.Helper()
		values, _ := grid.FromSlice(1, 1, []float32{w})
		if err := m.ApplyWeightAdjustments(material, []AdjustmentRegion{{Start: grid.Point{X: 3, Y: 3}, Values: values}}); err != nil {
			t.Fatal(err)
		}
	}

	paint(2, 0.5)
	paint(1, 0.5)
	if got := m.MaterialIndexMap().At(3, 3); got != 1 {
		t.Errorf("tied dominant material = %d, want 1", got)
	}

	paint(3, 0.75)
	if got := m.MaterialIndexMap().At(3, 3); got != 3 {
		t.Errorf("dominant material = %d, want 3", got)
	}
	if got := m.MaterialWeightMap().At(3, 3).Float32(); math32.Abs(got-0.75) > 1e-3 {
		t.Errorf("dominant weight = %v, want 0.75", got)
	}

	paint(3, 5)
	layer, ok := m.MaterialLayer(3)
	if !ok || layer.At(3, 3).Float32() != 1 {
		t.Errorf("layer 3 = %v, want clamped to 1", layer.At(3, 3).Float32())
	}
}

func TestResizeKeepsOverlap(t *testing.T) {
	m := newTestMap(t, testConfig())
	values, _ := grid.FromSlice(1, 1, []float32{0.5})
	if err := m.ApplyHeightAdjustments([]AdjustmentRegion{{Start: grid.Point{X: 2, Y: 2}, Values: values}}); err != nil {
		t.Fatal(err)
	}

	m.Resize(grid.Point{X: 4, Y: 6})
	hm := m.Heightmap()
	if hm.LengthX() != 5 || hm.LengthY() != 7 {
		t.Fatalf("heightmap = %dx%d, want 5x7", hm.LengthX(), hm.LengthY())
	}
	if hm.At(2, 2) != 0.5 {
		t.Errorf("kept height = %v, want 0.5", hm.At(2, 2))
	}
	if got := m.MaterialIndexMap().Size(); got != hm.Size() {
		t.Errorf("material map size = %v, want %v", got, hm.Size())
	}

	m.Resize(grid.Point{})
	if got := m.MapSize(); got != (grid.Point{X: 1, Y: 1}) {
		t.Errorf("MapSize() after shrink = %v, want (1, 1)", got)
	}
}

func TestPrebuild(t *testing.T) {
	cfg := testConfig()
	cfg.MapSize = grid.Point{X: 33, Y: 17}
	m := newTestMap(t, cfg)
	if err := m.SetHeightmap(bumpy(34, 18)); err != nil {
		t.Fatal(err)
	}

	keys := m.MeshKeys()
	if err := m.Prebuild(context.Background(), keys, 3); err != nil {
		t.Fatalf("Prebuild() error = %v", err)
	}
	for _, key := range keys {
		mesh, ok := m.CachedMesh(key)
		if !ok {
			t.Fatalf("mesh %+v not cached", key)
		}
		region, _ := m.MeshRegion(key)
		if len(mesh.Vertices) != region.Size.X*region.Size.Y {
			t.Errorf("mesh %+v has %d vertices, want %d", key, len(mesh.Vertices), region.Size.X*region.Size.Y)
		}
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	m.InvalidateAll()
	if err := m.Prebuild(ctx, keys, 2); !errors.Is(err, context.Canceled) {
		t.Errorf("Prebuild(cancelled) error = %v, want context.Canceled", err)
	}
}

func TestVisibleChunks(t *testing.T) {
	cfg := MapConfig{
		MapSize:        grid.Point{X: 64, Y: 64},
		QuadSize:       math.Vec2{X: 1, Y: 1},
		HeightRange:    HeightRange{Min: 0, Max: 10},
		QuadsPerMesh:   8,
		MeshesPerChunk: 2,
	}
	m := newTestMap(t, cfg)

	// Looking straight down from 50 units with a 60 degree fov sees about
	// 29 units around the camera at ground level.
	view := math.LookAt(math.Vec3{X: 8, Y: 50, Z: 8}, math.Vec3{X: 8, Y: 0, Z: 8}, math.Vec3{X: 0, Y: 0, Z: -1})
	proj := math.Perspective(math32.Pi/3, 1, 0.1, 100)
	visible := m.VisibleChunks(proj.Mul(view))

	seen := make(map[grid.Point]bool)
	for _, c := range visible {
		seen[c] = true
	}
	for _, c := range []grid.Point{{X: 0, Y: 0}, {X: 2, Y: 0}, {X: 2, Y: 2}} {
		if !seen[c] {
			t.Errorf("chunk %v not visible", c)
		}
	}
	for _, c := range []grid.Point{{X: 3, Y: 0}, {X: 3, Y: 3}} {
		if seen[c] {
			t.Errorf("chunk %v visible", c)
		}
	}

	// A short draw distance culls everything below it.
	near := math.Perspective(math32.Pi/3, 1, 0.1, 30)
	if got := m.VisibleChunks(near.Mul(view)); len(got) != 0 {
		t.Errorf("VisibleChunks(short far) = %v, want none", got)
	}
}

func TestMapBounds(t *testing.T) {
	m := newTestMap(t, MapConfig{
		MapSize:        grid.Point{X: 10, Y: 6},
		QuadSize:       math.Vec2{X: 2, Y: 0.5},
		HeightRange:    HeightRange{Min: -4, Max: 12},
		QuadsPerMesh:   4,
		MeshesPerChunk: 1,
		Origin:         math.Vec3{X: 100, Y: 1, Z: -3},
	})

	want := math.BoundingBox{
		Min: math.Vec3{X: 100, Y: -3, Z: -3},
		Max: math.Vec3{X: 120, Y: 13, Z: 0},
	}
	if got := m.Bounds(); got != want {
		t.Errorf("Bounds() = %+v, want %+v", got, want)
	}
}
