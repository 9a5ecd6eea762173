package main

import (
	"testing"

	"github.com/Faultbox/terrain-painter/internal/config"
	"github.com/Faultbox/terrain-painter/pkg/math"
)

func testConfig(t *testing.T) *config.Config {
	t.Helper()
	cfg := config.Default()
	cfg.Data.Dir = t.TempDir()
	cfg.Data.MapName = "test"
	cfg.Terrain.MapWidth = 16
	cfg.Terrain.MapHeight = 16
	cfg.Terrain.QuadsPerMesh = 4
	cfg.Terrain.MeshesPerChunk = 2
	cfg.Terrain.Workers = 2
	return cfg
}

func TestParsePoints(t *testing.T) {
	tests := []struct {
		name    string
		args    []string
		want    []math.Vec2
		wantErr bool
	}{
		{"single", []string{"1,2"}, []math.Vec2{{X: 1, Y: 2}}, false},
		{"spaces and decimals", []string{"1.5, -2", "3,4"}, []math.Vec2{{X: 1.5, Y: -2}, {X: 3, Y: 4}}, false},
		{"empty", nil, nil, true},
		{"missing comma", []string{"12"}, nil, true},
		{"not a number", []string{"a,2"}, nil, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := parsePoints(tt.args)
			if (err != nil) != tt.wantErr {
				t.Fatalf("parsePoints() error = %v, wantErr %v", err, tt.wantErr)
			}
			if len(got) != len(tt.want) {
				t.Fatalf("parsePoints() = %v, want %v", got, tt.want)
			}
			for i := range got {
				if got[i] != tt.want[i] {
					t.Errorf("point %d = %v, want %v", i, got[i], tt.want[i])
				}
			}
		})
	}
}

func TestNewTool(t *testing.T) {
	tests := []struct {
		mode    string
		want    string
		wantErr bool
	}{
		{"raise", "height/raise", false},
		{"Flatten", "height/flatten", false},
		{"paint", "weight/paint/3", false},
		{"erase", "weight/erase/3", false},
		{"sculpt", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.mode, func(t *testing.T) {
			bc := config.Default().Brush
			bc.Mode = tt.mode
			bc.Material = 3
			tool, err := newTool(bc)
			if (err != nil) != tt.wantErr {
				t.Fatalf("newTool() error = %v, wantErr %v", err, tt.wantErr)
			}
			if err == nil && tool.Name() != tt.want {
				t.Errorf("Name() = %s, want %s", tool.Name(), tt.want)
			}
		})
	}
}

func TestGenerateThenLoad(t *testing.T) {
	cfg := testConfig(t)
	if err := cmdGenerate(cfg); err != nil {
		t.Fatalf("cmdGenerate() error = %v", err)
	}

	m, err := loadMap(cfg)
	if err != nil {
		t.Fatalf("loadMap() error = %v", err)
	}
	if got := m.Heightmap().Size(); got.X != 17 || got.Y != 17 {
		t.Errorf("heightmap = %v, want 17x17", got)
	}

	report := newMapReport(cfg, m)
	if report.Chunks.X != 2 || report.Chunks.Y != 2 {
		t.Errorf("chunks = %v, want (2, 2)", report.Chunks)
	}
	if report.Height.Min > report.Height.Mean || report.Height.Mean > report.Height.Max {
		t.Errorf("height stats out of order: %+v", report.Height)
	}
	if len(report.Materials) != 0 {
		t.Errorf("fresh map has materials %v", report.Materials)
	}
}

func TestPaintRaisesAndSaves(t *testing.T) {
	cfg := testConfig(t)
	if err := cmdGenerate(cfg); err != nil {
		t.Fatal(err)
	}
	before, err := loadMap(cfg)
	if err != nil {
		t.Fatal(err)
	}

	if err := config.ParseFlags([]string{"8,8", "9,8"}); err != nil {
		t.Fatal(err)
	}
	cfg.Brush.Mode = "raise"
	cfg.Brush.Radius = 2
	if err := cmdPaint(cfg); err != nil {
		t.Fatalf("cmdPaint() error = %v", err)
	}

	after, err := loadMap(cfg)
	if err != nil {
		t.Fatal(err)
	}
	if after.Heightmap().At(8, 8) <= before.Heightmap().At(8, 8) && before.Heightmap().At(8, 8) < 1 {
		t.Errorf("height at (8,8) = %v, was %v", after.Heightmap().At(8, 8), before.Heightmap().At(8, 8))
	}
	if after.Heightmap().At(0, 0) != before.Heightmap().At(0, 0) {
		t.Error("height far from the stroke changed")
	}
}

func TestMeshVisibleCamera(t *testing.T) {
	cfg := testConfig(t)
	if err := cmdGenerate(cfg); err != nil {
		t.Fatal(err)
	}
	m, err := loadMap(cfg)
	if err != nil {
		t.Fatal(err)
	}

	cam := newCamera(cfg, m)
	if got := m.VisibleMeshes(cam.ViewProjectionWithFar(cfg.View.DrawDistance)); len(got) != len(m.MeshKeys()) {
		t.Errorf("framed camera sees %d of %d meshes", len(got), len(m.MeshKeys()))
	}
}
