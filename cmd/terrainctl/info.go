package main

import (
	"strconv"

	"github.com/Faultbox/terrain-painter/internal/config"
	"github.com/Faultbox/terrain-painter/internal/engine/terrain"
	"github.com/Faultbox/terrain-painter/pkg/grid"
)

type heightReport struct {
	Min  float32 `json:"min"`
	Max  float32 `json:"max"`
	Mean float32 `json:"mean"`
}

type mapReport struct {
	Name           string              `json:"name"`
	Quads          grid.Point          `json:"quads"`
	Heightmap      grid.Point          `json:"heightmap"`
	QuadSize       [2]float32          `json:"quad_size"`
	HeightRange    terrain.HeightRange `json:"height_range"`
	Height         heightReport        `json:"height"`
	Chunks         grid.Point          `json:"chunks"`
	MeshesPerChunk int                 `json:"meshes_per_chunk"`
	QuadsPerMesh   int                 `json:"quads_per_mesh"`
	Materials      map[string]int      `json:"materials"` // Vertices per dominant material
}

func newMapReport(cfg *config.Config, m *terrain.Map) mapReport {
	hm := m.Heightmap()
	hr := m.HeightRange()
	lo, hi := terrain.HeightStats(hm)

	var sum float64
	for _, h := range hm.Data() {
		sum += float64(h)
	}
	mean := float32(sum / float64(hm.Len()))

	materials := make(map[string]int)
	index := m.MaterialIndexMap().Data()
	weight := m.MaterialWeightMap().Data()
	for i, id := range index {
		if weight[i].Float32() > 0 {
			materials[strconv.Itoa(int(id))]++
		}
	}

	return mapReport{
		Name:           cfg.Data.MapName,
		Quads:          m.MapSize(),
		Heightmap:      hm.Size(),
		QuadSize:       [2]float32{m.QuadSize().X, m.QuadSize().Y},
		HeightRange:    hr,
		Height:         heightReport{Min: hr.Lerp(lo), Max: hr.Lerp(hi), Mean: hr.Lerp(mean)},
		Chunks:         m.ChunkCount(),
		MeshesPerChunk: m.MeshesPerChunk(),
		QuadsPerMesh:   m.QuadsPerMesh(),
		Materials:      materials,
	}
}

func cmdInfo(cfg *config.Config) error {
	m, err := loadMap(cfg)
	if err != nil {
		return err
	}
	return writeReport(newMapReport(cfg, m))
}
