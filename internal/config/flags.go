package config

import "flag"

// Flags is the flag set shared by the terrainctl subcommands.
var Flags = flag.NewFlagSet("terrainctl", flag.ContinueOnError)

var (
	flagConfig   = Flags.String("config", "", "Path to config file")
	flagDebug    = Flags.Bool("debug", false, "Enable debug logging")
	flagDataDir  = Flags.String("data", "", "Directory holding map dumps")
	flagMap      = Flags.String("map", "", "Map name inside the data directory")
	flagWidth    = Flags.Int("width", 0, "Map quads along X")
	flagHeight   = Flags.Int("height", 0, "Map quads along Z")
	flagSeed     = Flags.Int64("seed", 0, "Noise seed for generated maps")
	flagWorkers  = Flags.Int("workers", 0, "Parallel mesh builders")
	flagRadius   = Flags.Float64("radius", 0, "Brush radius in world units")
	flagMode     = Flags.String("mode", "", "Brush mode (raise, lower, smooth, flatten, paint, erase)")
	flagMaterial = Flags.Int("material", -1, "Material layer to paint")
)

// ParseFlags parses the given command-line arguments. Call this early in main().
func ParseFlags(args []string) error {
	return Flags.Parse(args)
}

// Args returns the arguments left over after flag parsing.
func Args() []string {
	return Flags.Args()
}

// ConfigPath returns the explicit config path if provided via --config flag.
func ConfigPath() string {
	return *flagConfig
}

// applyFlags applies CLI flag overrides to the config.
func applyFlags(cfg *Config) {
	if *flagDebug {
		cfg.Logging.Level = "debug"
	}
	if *flagDataDir != "" {
		cfg.Data.Dir = *flagDataDir
	}
	if *flagMap != "" {
		cfg.Data.MapName = *flagMap
	}
	if *flagWidth > 0 {
		cfg.Terrain.MapWidth = *flagWidth
	}
	if *flagHeight > 0 {
		cfg.Terrain.MapHeight = *flagHeight
	}
	if *flagSeed != 0 {
		cfg.Terrain.Seed = *flagSeed
	}
	if *flagWorkers > 0 {
		cfg.Terrain.Workers = *flagWorkers
	}
	if *flagRadius > 0 {
		cfg.Brush.Radius = float32(*flagRadius)
	}
	if *flagMode != "" {
		cfg.Brush.Mode = *flagMode
	}
	if *flagMaterial >= 0 && *flagMaterial <= 255 {
		cfg.Brush.Material = uint8(*flagMaterial)
	}
}
