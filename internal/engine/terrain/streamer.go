package terrain

import (
	"go.uber.org/zap"

	"github.com/Faultbox/terrain-painter/internal/logger"
	"github.com/Faultbox/terrain-painter/pkg/math"
)

// RenderSink owns the GPU side of streamed meshes.
type RenderSink interface {
	// Attach adds a newly visible mesh to the scene at origin.
	Attach(key MeshKey, origin math.Vec3, mesh *MeshData)
	// Replace swaps the mesh of an attached entity after a rebuild.
	Replace(key MeshKey, mesh *MeshData)
	// Detach removes an entity that is no longer visible.
	Detach(key MeshKey)
	// Dispose releases a mesh no longer referenced by any entity.
	Dispose(mesh *MeshData)
}

type streamEntry struct {
	mesh *MeshData
}

// Streamer keeps the visible meshes of a Map attached to a RenderSink.
// Each frame costs O(visible meshes). Retired meshes are disposed one frame
// late so that nothing still draws them when they are released.
type Streamer struct {
	terrain *Map
	sink    RenderSink
	log     *zap.Logger

	active     map[MeshKey]*streamEntry
	processing map[MeshKey]*streamEntry
	retired    []*MeshData
}

// NewStreamer creates a streamer for terrain feeding sink.
func NewStreamer(terrain *Map, sink RenderSink) *Streamer {
	return &Streamer{
		terrain:    terrain,
		sink:       sink,
		log:        logger.Named("streamer"),
		active:     make(map[MeshKey]*streamEntry),
		processing: make(map[MeshKey]*streamEntry),
	}
}

// Update runs one frame: meshes visible in viewProj are attached or refreshed
// and meshes that left the view are detached.
func (s *Streamer) Update(viewProj math.Mat4) error {
	s.disposeRetired()

	s.active, s.processing = s.processing, s.active

	var attached, replaced int
	for _, key := range s.terrain.VisibleMeshes(viewProj) {
		mesh, err := s.terrain.Mesh(key)
		if err != nil {
			return err
		}
		if e, ok := s.processing[key]; ok {
			delete(s.processing, key)
			if e.mesh != mesh {
				s.retired = append(s.retired, e.mesh)
				s.sink.Replace(key, mesh)
				e.mesh = mesh
				replaced++
			}
			s.active[key] = e
			continue
		}
		s.sink.Attach(key, s.terrain.ToChunkSubCellMinimumWorldPosition(key), mesh)
		s.active[key] = &streamEntry{mesh: mesh}
		attached++
	}

	detached := len(s.processing)
	for key, e := range s.processing {
		s.sink.Detach(key)
		s.retired = append(s.retired, e.mesh)
	}
	clear(s.processing)

	if attached+replaced+detached > 0 {
		s.log.Debug("stream update",
			zap.Int("visible", len(s.active)),
			zap.Int("attached", attached),
			zap.Int("replaced", replaced),
			zap.Int("detached", detached))
	}
	return nil
}

// Visible returns the number of attached meshes.
func (s *Streamer) Visible() int {
	return len(s.active)
}

// IsAttached reports whether the mesh for key is attached.
func (s *Streamer) IsAttached(key MeshKey) bool {
	_, ok := s.active[key]
	return ok
}

// Close detaches everything and disposes every mesh immediately.
func (s *Streamer) Close() {
	for key, e := range s.active {
		s.sink.Detach(key)
		s.retired = append(s.retired, e.mesh)
	}
	clear(s.active)
	s.disposeRetired()
}

func (s *Streamer) disposeRetired() {
	for _, mesh := range s.retired {
		s.sink.Dispose(mesh)
	}
	s.retired = s.retired[:0]
}
