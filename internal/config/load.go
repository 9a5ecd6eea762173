package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"runtime"

	"gopkg.in/yaml.v3"
)

// ErrInvalid is wrapped by every validation failure.
var ErrInvalid = errors.New("config: invalid value")

// Load loads configuration with priority: defaults < file < flags.
func Load() (*Config, error) {
	// Start with defaults
	cfg := Default()

	// Try to load from file (explicit path takes priority)
	configPath := ConfigPath()
	if configPath == "" {
		configPath = findConfigFile()
	}

	if configPath != "" {
		if err := loadFromFile(cfg, configPath); err != nil {
			return nil, fmt.Errorf("loading config from %s: %w", configPath, err)
		}
	}

	// Apply CLI flags (highest priority)
	applyFlags(cfg)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks the settings that the terrain model cannot recover from.
func (c *Config) Validate() error {
	t := c.Terrain
	switch {
	case t.MapWidth < 1 || t.MapHeight < 1:
		return fmt.Errorf("%w: map size %dx%d has no quads", ErrInvalid, t.MapWidth, t.MapHeight)
	case t.QuadSize[0] <= 0 || t.QuadSize[1] <= 0:
		return fmt.Errorf("%w: quad size %v must be positive", ErrInvalid, t.QuadSize)
	case !(t.HeightMin < t.HeightMax):
		return fmt.Errorf("%w: height range [%g, %g]", ErrInvalid, t.HeightMin, t.HeightMax)
	case t.QuadsPerMesh < 1 || t.QuadsPerMesh > 255:
		return fmt.Errorf("%w: quads_per_mesh %d outside [1, 255]", ErrInvalid, t.QuadsPerMesh)
	case t.MeshesPerChunk < 1:
		return fmt.Errorf("%w: meshes_per_chunk %d", ErrInvalid, t.MeshesPerChunk)
	case c.Brush.Radius <= 0:
		return fmt.Errorf("%w: brush radius %g", ErrInvalid, c.Brush.Radius)
	case c.View.Width <= 0 || c.View.Height <= 0:
		return fmt.Errorf("%w: viewport %dx%d", ErrInvalid, c.View.Width, c.View.Height)
	}
	return nil
}

// MapPath returns the path of a map dump with the given extension.
func (c *Config) MapPath(ext string) string {
	return filepath.Join(c.Data.Dir, c.Data.MapName+ext)
}

// findConfigFile looks for config in standard locations.
func findConfigFile() string {
	candidates := []string{
		"./terrain.yaml",
		filepath.Join(ConfigDir(), "config.yaml"),
	}

	for _, path := range candidates {
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}
	return ""
}

// ConfigDir returns the OS-appropriate config directory.
func ConfigDir() string {
	switch runtime.GOOS {
	case "darwin":
		home, _ := os.UserHomeDir()
		return filepath.Join(home, "Library", "Application Support", "TerrainPainter")
	case "windows":
		return filepath.Join(os.Getenv("APPDATA"), "TerrainPainter")
	default: // Linux and others
		if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
			return filepath.Join(xdg, "terrain-painter")
		}
		home, _ := os.UserHomeDir()
		return filepath.Join(home, ".config", "terrain-painter")
	}
}

// loadFromFile loads config from a YAML file, merging with existing values.
func loadFromFile(cfg *Config, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	return yaml.Unmarshal(data, cfg)
}
