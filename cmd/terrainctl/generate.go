package main

import (
	"go.uber.org/zap"

	"github.com/Faultbox/terrain-painter/internal/config"
	"github.com/Faultbox/terrain-painter/internal/engine/terrain"
	"github.com/Faultbox/terrain-painter/internal/engine/terrain/noise"
	"github.com/Faultbox/terrain-painter/internal/logger"
)

func cmdGenerate(cfg *config.Config) error {
	m, err := terrain.NewMap(mapConfig(cfg))
	if err != nil {
		return err
	}

	size := m.Heightmap().Size()
	gen := noise.New(noise.DefaultOptions(cfg.Terrain.Seed))
	if err := m.SetHeightmap(gen.Generate(size.X, size.Y)); err != nil {
		return err
	}

	lo, hi := terrain.HeightStats(m.Heightmap())
	logger.Info("heightmap generated",
		zap.Int64("seed", cfg.Terrain.Seed),
		zap.Stringer("quads", m.MapSize()),
		zap.Float32("min", m.HeightRange().Lerp(lo)),
		zap.Float32("max", m.HeightRange().Lerp(hi)))

	if err := saveMap(cfg, m); err != nil {
		return err
	}
	return writeReport(newMapReport(cfg, m))
}
