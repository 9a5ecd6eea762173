package main

import (
	"context"
	"fmt"
	"time"

	"github.com/chewxy/math32"
	"go.uber.org/zap"

	"github.com/Faultbox/terrain-painter/internal/config"
	"github.com/Faultbox/terrain-painter/internal/engine/camera"
	"github.com/Faultbox/terrain-painter/internal/engine/terrain"
	"github.com/Faultbox/terrain-painter/internal/logger"
	"github.com/Faultbox/terrain-painter/pkg/grid"
	"github.com/Faultbox/terrain-painter/pkg/math"
)

type meshEntry struct {
	Chunk     grid.Point `json:"chunk"`
	SubCell   grid.Point `json:"sub_cell"`
	Region    string     `json:"region"`
	Vertices  int        `json:"vertices"`
	Triangles int        `json:"triangles"`
	MinY      float32    `json:"min_y"`
	MaxY      float32    `json:"max_y"`
}

type meshReport struct {
	Meshes           int         `json:"meshes"`
	Vertices         int         `json:"vertices"`
	Triangles        int         `json:"triangles"`
	PhysicsTriangles int         `json:"physics_triangles"`
	BuildMillis      float64     `json:"build_ms"`
	Visible          []meshEntry `json:"visible,omitempty"`
	Entries          []meshEntry `json:"entries,omitempty"`
}

func cmdMesh(cfg *config.Config) error {
	m, err := loadMap(cfg)
	if err != nil {
		return err
	}

	keys := m.MeshKeys()
	start := time.Now()
	if err := m.Prebuild(context.Background(), keys, cfg.Terrain.Workers); err != nil {
		return err
	}
	elapsed := time.Since(start)
	logger.Info("meshes built", zap.Int("meshes", len(keys)), zap.Duration("took", elapsed))

	report := meshReport{Meshes: len(keys), BuildMillis: float64(elapsed.Microseconds()) / 1000}
	for _, key := range keys {
		mesh, ok := m.CachedMesh(key)
		if !ok {
			return fmt.Errorf("mesh %v/%v missing after prebuild", key.Chunk, key.SubCell)
		}
		phys, err := m.PhysicsMesh(key)
		if err != nil {
			return err
		}
		report.Vertices += len(mesh.Vertices)
		report.Triangles += mesh.TriangleCount()
		report.PhysicsTriangles += len(phys.Indices) / 3
	}

	showVisible := len(config.Args()) > 0 && config.Args()[0] == "visible"
	if !showVisible {
		for _, key := range keys {
			mesh, _ := m.CachedMesh(key)
			report.Entries = append(report.Entries, newMeshEntry(key, mesh))
		}
		return writeReport(report)
	}

	cam := newCamera(cfg, m)
	sink := &collectSink{}
	streamer := terrain.NewStreamer(m, sink)
	defer streamer.Close()
	if err := streamer.Update(cam.ViewProjectionWithFar(cfg.View.DrawDistance)); err != nil {
		return err
	}
	for _, key := range sink.order {
		report.Visible = append(report.Visible, newMeshEntry(key, sink.attached[key]))
	}
	return writeReport(report)
}

func newMeshEntry(key terrain.MeshKey, mesh *terrain.MeshData) meshEntry {
	return meshEntry{
		Chunk:     key.Chunk,
		SubCell:   key.SubCell,
		Region:    mesh.Region.String(),
		Vertices:  len(mesh.Vertices),
		Triangles: mesh.TriangleCount(),
		MinY:      mesh.Bounds.Min.Y,
		MaxY:      mesh.Bounds.Max.Y,
	}
}

// newCamera frames the whole map with the configured lens.
func newCamera(cfg *config.Config, m *terrain.Map) *camera.OrbitCamera {
	cam := camera.NewOrbitCamera()
	cam.Lens = camera.Lens{
		FovY:   cfg.View.FovY * math32.Pi / 180,
		Aspect: float32(cfg.View.Width) / float32(cfg.View.Height),
		Near:   cfg.View.Near,
		Far:    cfg.View.DrawDistance,
	}
	cam.FitToBounds(m.Bounds())
	return cam
}

// collectSink records attached meshes in attach order.
type collectSink struct {
	attached map[terrain.MeshKey]*terrain.MeshData
	order    []terrain.MeshKey
}

func (s *collectSink) Attach(key terrain.MeshKey, _ math.Vec3, mesh *terrain.MeshData) {
	if s.attached == nil {
		s.attached = make(map[terrain.MeshKey]*terrain.MeshData)
	}
	s.attached[key] = mesh
	s.order = append(s.order, key)
}

func (s *collectSink) Replace(key terrain.MeshKey, mesh *terrain.MeshData) {
	s.attached[key] = mesh
}

func (s *collectSink) Detach(terrain.MeshKey) {}

func (s *collectSink) Dispose(*terrain.MeshData) {}
