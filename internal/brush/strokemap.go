package brush

import (
	"cmp"
	"slices"

	"github.com/Faultbox/terrain-painter/internal/engine/terrain"
	"github.com/Faultbox/terrain-painter/pkg/grid"
)

// StrokeMap is the accumulated brush intensity over the vertices of one mesh.
type StrokeMap struct {
	Key    terrain.MeshKey
	Region grid.Rect // Heightmap vertices, same as the mesh region
	Values *grid.Grid[float32]
}

// IsZero reports whether nothing was painted on the mesh.
func (s *StrokeMap) IsZero() bool {
	return !s.Values.Contains(func(v float32) bool { return v != 0 })
}

// StrokeMaps holds the stroke maps of one brushstroke, one per touched mesh.
type StrokeMaps struct {
	maps map[terrain.MeshKey]*StrokeMap
}

// NewStrokeMaps returns an empty set.
func NewStrokeMaps() *StrokeMaps {
	return &StrokeMaps{maps: make(map[terrain.MeshKey]*StrokeMap)}
}

// Ensure returns the stroke map for key, allocating a zero map over region
// on first use.
func (s *StrokeMaps) Ensure(key terrain.MeshKey, region grid.Rect) *StrokeMap {
	if sm, ok := s.maps[key]; ok {
		return sm
	}
	sm := &StrokeMap{Key: key, Region: region, Values: grid.New[float32](region.Size.X, region.Size.Y)}
	s.maps[key] = sm
	return sm
}

// Get returns the stroke map for key.
func (s *StrokeMaps) Get(key terrain.MeshKey) (*StrokeMap, bool) {
	sm, ok := s.maps[key]
	return sm, ok
}

// Len returns the number of touched meshes.
func (s *StrokeMaps) Len() int {
	return len(s.maps)
}

// Keys returns the touched mesh keys in row-major chunk then sub-cell order.
func (s *StrokeMaps) Keys() []terrain.MeshKey {
	keys := make([]terrain.MeshKey, 0, len(s.maps))
	for key := range s.maps {
		keys = append(keys, key)
	}
	slices.SortFunc(keys, compareKeys)
	return keys
}

func compareKeys(a, b terrain.MeshKey) int {
	return cmp.Or(
		cmp.Compare(a.Chunk.Y, b.Chunk.Y),
		cmp.Compare(a.Chunk.X, b.Chunk.X),
		cmp.Compare(a.SubCell.Y, b.SubCell.Y),
		cmp.Compare(a.SubCell.X, b.SubCell.X),
	)
}
