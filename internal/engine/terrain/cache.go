package terrain

import (
	"context"
	"fmt"
	"runtime"
	"sync"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/Faultbox/terrain-painter/pkg/grid"
)

// Mesh returns the cached mesh for key, building it from the current
// heightmap if it was invalidated or never built.
func (m *Map) Mesh(key MeshKey) (*MeshData, error) {
	if mesh, ok := m.meshes[key]; ok {
		return mesh, nil
	}
	region, ok := m.MeshRegion(key)
	if !ok {
		return nil, fmt.Errorf("%w: mesh %v/%v", ErrRegionOutOfBounds, key.Chunk, key.SubCell)
	}
	mesh, err := BuildMesh(m.Heightmap(), region, m.cfg.QuadSize, m.cfg.HeightRange)
	if err != nil {
		return nil, err
	}
	m.meshes[key] = mesh
	return mesh, nil
}

// CachedMesh returns the mesh for key without building it.
func (m *Map) CachedMesh(key MeshKey) (*MeshData, bool) {
	mesh, ok := m.meshes[key]
	return mesh, ok
}

// PhysicsMesh builds the collision mesh for key from the current heightmap.
func (m *Map) PhysicsMesh(key MeshKey) (*PhysicsMeshData, error) {
	region, ok := m.MeshRegion(key)
	if !ok {
		return nil, fmt.Errorf("%w: mesh %v/%v", ErrRegionOutOfBounds, key.Chunk, key.SubCell)
	}
	return BuildPhysicsMesh(m.Heightmap(), region, m.cfg.QuadSize, m.cfg.HeightRange)
}

// InvalidateRegion drops every cached mesh whose vertices, or the ring of
// vertices just outside them, intersect r. Normals read one quad beyond the
// mesh, so that ring counts as affected.
func (m *Map) InvalidateRegion(r grid.Rect) []MeshKey {
	keys := m.MeshKeysInRect(r.Expand(1))
	for _, key := range keys {
		delete(m.meshes, key)
	}
	return keys
}

// InvalidateAll drops every cached mesh.
func (m *Map) InvalidateAll() {
	clear(m.meshes)
}

// Prebuild builds the meshes for keys in parallel and caches them. A
// workers value below 1 uses GOMAXPROCS.
func (m *Map) Prebuild(ctx context.Context, keys []MeshKey, workers int) error {
	if workers < 1 {
		workers = runtime.GOMAXPROCS(0)
	}
	hm := m.Heightmap()

	var mu sync.Mutex
	built := make(map[MeshKey]*MeshData, len(keys))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)
	for _, key := range keys {
		if _, ok := m.meshes[key]; ok {
			continue
		}
		region, ok := m.MeshRegion(key)
		if !ok {
			return fmt.Errorf("%w: mesh %v/%v", ErrRegionOutOfBounds, key.Chunk, key.SubCell)
		}
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			mesh, err := BuildMesh(hm, region, m.cfg.QuadSize, m.cfg.HeightRange)
			if err != nil {
				return err
			}
			mu.Lock()
			built[key] = mesh
			mu.Unlock()
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}

	for key, mesh := range built {
		m.meshes[key] = mesh
	}
	m.log.Debug("meshes prebuilt", zap.Int("count", len(built)), zap.Int("workers", workers))
	return nil
}
