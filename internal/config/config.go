// Package config handles terrain painter configuration loading and management.
package config

// Config holds all terrain painter settings.
type Config struct {
	Terrain TerrainConfig `yaml:"terrain"`
	Brush   BrushConfig   `yaml:"brush"`
	View    ViewConfig    `yaml:"view"`
	Data    DataConfig    `yaml:"data"`
	Logging LoggingConfig `yaml:"logging"`
}

// TerrainConfig holds the map layout and mesh chunking settings.
type TerrainConfig struct {
	MapWidth       int        `yaml:"map_width"`  // Quads along X
	MapHeight      int        `yaml:"map_height"` // Quads along Z
	QuadSize       [2]float32 `yaml:"quad_size"`
	HeightMin      float32    `yaml:"height_min"`
	HeightMax      float32    `yaml:"height_max"`
	QuadsPerMesh   int        `yaml:"quads_per_mesh"`
	MeshesPerChunk int        `yaml:"meshes_per_chunk"`
	Workers        int        `yaml:"workers"` // Parallel mesh builders, 0 = GOMAXPROCS
	Seed           int64      `yaml:"seed"`
}

// BrushConfig holds the default brush tool settings.
type BrushConfig struct {
	Shape          string  `yaml:"shape"`
	Radius         float32 `yaml:"radius"`
	Opacity        float32 `yaml:"opacity"`
	Falloff        float32 `yaml:"falloff"`
	HeightStrength float32 `yaml:"height_strength"`
	Mode           string  `yaml:"mode"` // raise, lower, smooth, flatten, paint or erase
	Material       uint8   `yaml:"material"`
}

// ViewConfig holds the camera lens and viewport settings.
type ViewConfig struct {
	Width        int     `yaml:"width"`
	Height       int     `yaml:"height"`
	FovY         float32 `yaml:"fov_y"` // Degrees
	Near         float32 `yaml:"near"`
	DrawDistance float32 `yaml:"draw_distance"`
}

// DataConfig holds map dump locations.
type DataConfig struct {
	Dir     string `yaml:"dir"`
	MapName string `yaml:"map_name"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level   string `yaml:"level"`
	LogFile string `yaml:"log_file"`
}

// Default returns a Config with sensible default values.
func Default() *Config {
	return &Config{
		Terrain: TerrainConfig{
			MapWidth:       256,
			MapHeight:      256,
			QuadSize:       [2]float32{1, 1},
			HeightMin:      0,
			HeightMax:      64,
			QuadsPerMesh:   32,
			MeshesPerChunk: 4,
			Workers:        0,
			Seed:           1,
		},
		Brush: BrushConfig{
			Shape:          "circle",
			Radius:         4,
			Opacity:        0.5,
			Falloff:        0.5,
			HeightStrength: 8,
			Mode:           "raise",
			Material:       0,
		},
		View: ViewConfig{
			Width:        1280,
			Height:       720,
			FovY:         60,
			Near:         0.1,
			DrawDistance: 500,
		},
		Data: DataConfig{
			Dir:     "data",
			MapName: "terrain",
		},
		Logging: LoggingConfig{
			Level:   "info",
			LogFile: "",
		},
	}
}
