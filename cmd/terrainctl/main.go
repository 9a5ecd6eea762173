// terrainctl is a CLI utility for generating, inspecting and painting
// terrain maps.
package main

import (
	"errors"
	"fmt"
	"os"

	"go.uber.org/zap"

	"github.com/Faultbox/terrain-painter/internal/config"
	"github.com/Faultbox/terrain-painter/internal/engine/terrain"
	"github.com/Faultbox/terrain-painter/internal/logger"
	"github.com/Faultbox/terrain-painter/pkg/formats"
	"github.com/Faultbox/terrain-painter/pkg/grid"
	"github.com/Faultbox/terrain-painter/pkg/math"
)

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	command := os.Args[1]
	args := os.Args[2:]

	var run func(*config.Config) error
	switch command {
	case "generate", "gen":
		run = cmdGenerate
	case "info":
		run = cmdInfo
	case "mesh":
		run = cmdMesh
	case "paint":
		run = cmdPaint
	case "help", "-h", "--help":
		printUsage()
		return
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n", command)
		printUsage()
		os.Exit(1)
	}

	cfg, err := setup(args)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	if err := run(cfg); err != nil {
		logger.Error("command failed", zap.String("command", command), zap.Error(err))
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		logger.Sync()
		os.Exit(1)
	}
}

func printUsage() {
	fmt.Println(`terrainctl - terrain map utility

Usage:
  terrainctl <command> [flags] [args]

Commands:
  generate                 Generate a perlin heightmap and empty material maps
  info                     Print a JSON summary of the map
  mesh [visible]           Build every mesh and print JSON statistics
  paint <x,z> [x,z ...]    Paint one brushstroke through the given world points

Flags:
  -config <file>   Config file (default ./terrain.yaml or the user config dir)
  -data <dir>      Directory holding map dumps
  -map <name>      Map name inside the data directory
  -width, -height  Map size in quads (generate)
  -seed <n>        Noise seed (generate)
  -workers <n>     Parallel mesh builders (mesh)
  -radius <r>      Brush radius (paint)
  -mode <mode>     raise, lower, smooth, flatten, paint or erase (paint)
  -material <id>   Material layer for paint/erase (paint)
  -debug           Enable debug logging

Flags must come before arguments. Put -- before paint points with a
negative coordinate.

Examples:
  terrainctl generate -width 512 -height 512 -seed 7
  terrainctl info -map island
  terrainctl mesh -workers 8 visible
  terrainctl paint -mode raise -radius 6 10,10 20,14 30,18
  terrainctl paint -mode paint -material 2 -- -4,3 2,3`)
}

// setup parses flags, loads the config and initializes logging.
func setup(args []string) (*config.Config, error) {
	if err := config.ParseFlags(args); err != nil {
		return nil, err
	}
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	if err := logger.Init(cfg.Logging.Level, cfg.Logging.LogFile); err != nil {
		return nil, fmt.Errorf("init logger: %w", err)
	}
	return cfg, nil
}

// mapConfig converts the terrain settings to a map layout.
func mapConfig(cfg *config.Config) terrain.MapConfig {
	t := cfg.Terrain
	return terrain.MapConfig{
		MapSize:        grid.Point{X: t.MapWidth, Y: t.MapHeight},
		QuadSize:       math.Vec2{X: t.QuadSize[0], Y: t.QuadSize[1]},
		HeightRange:    terrain.HeightRange{Min: t.HeightMin, Max: t.HeightMax},
		QuadsPerMesh:   t.QuadsPerMesh,
		MeshesPerChunk: t.MeshesPerChunk,
	}
}

// loadMap reads the map dumps named by the config. Missing material dumps
// leave the material maps empty; the map size follows the heightmap.
func loadMap(cfg *config.Config) (*terrain.Map, error) {
	hmPath := cfg.MapPath(formats.KindHeight.Extension())
	hm, err := formats.ParseHeightmapFile(hmPath)
	if err != nil {
		return nil, fmt.Errorf("read heightmap %s: %w", hmPath, err)
	}

	mc := mapConfig(cfg)
	mc.MapSize = grid.Point{X: hm.LengthX() - 1, Y: hm.LengthY() - 1}
	m, err := terrain.NewMap(mc)
	if err != nil {
		return nil, err
	}
	if err := m.SetHeightmap(hm); err != nil {
		return nil, err
	}

	if err := loadMaterials(cfg, m); err != nil {
		return nil, err
	}

	logger.Info("map loaded",
		zap.String("path", hmPath),
		zap.Stringer("size", m.MapSize()),
		zap.Stringer("chunks", m.ChunkCount()))
	return m, nil
}

func loadMaterials(cfg *config.Config, m *terrain.Map) error {
	index, err := formats.ParseMaterialIndexFile(cfg.MapPath(formats.KindMaterialIndex.Extension()))
	if errors.Is(err, os.ErrNotExist) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("read material index: %w", err)
	}
	weight, err := formats.ParseMaterialWeightFile(cfg.MapPath(formats.KindMaterialWeight.Extension()))
	if err != nil {
		return fmt.Errorf("read material weight: %w", err)
	}
	return m.SetMaterialMaps(index, weight)
}

// saveMap writes the heightmap and composite material maps.
func saveMap(cfg *config.Config, m *terrain.Map) error {
	if err := os.MkdirAll(cfg.Data.Dir, 0755); err != nil {
		return err
	}
	if err := formats.SaveHeightmapFile(cfg.MapPath(formats.KindHeight.Extension()), m.Heightmap()); err != nil {
		return err
	}
	if err := formats.SaveMaterialIndexFile(cfg.MapPath(formats.KindMaterialIndex.Extension()), m.MaterialIndexMap()); err != nil {
		return err
	}
	if err := formats.SaveMaterialWeightFile(cfg.MapPath(formats.KindMaterialWeight.Extension()), m.MaterialWeightMap()); err != nil {
		return err
	}
	logger.Info("map saved", zap.String("dir", cfg.Data.Dir), zap.String("name", cfg.Data.MapName))
	return nil
}
