package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"runtime"

	"github.com/docker/go-units"
	"github.com/tailscale/hujson"
)

// DefaultMaxTextureSize bounds the size of a single texture file.
const DefaultMaxTextureSize = 256 * units.MiB

// DefaultMaxTexturePixels bounds width*height of a single texture.
const DefaultMaxTexturePixels = 8192 * 8192

// Config holds all configurable paths and cache settings.
type Config struct {
	// Paths
	SceneDir       string `json:"scene_dir"`
	GlobalDir      string `json:"global_dir"`
	SelectionsFile string `json:"selections_file"`
	DumpDir        string `json:"dump_dir"`

	// Cache settings
	Workers          int    `json:"workers"`
	MaxTextureSize   string `json:"max_texture_size"` // e.g. "64MiB"
	MaxTexturePixels int64  `json:"max_texture_pixels"`

	maxTextureBytes int64
}

// Load reads a config file and returns Config. Comments and trailing
// commas are allowed. Fields not set in the file keep their zero values.
func Load(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("config: read %s: %w", path, err)
	}

	std, err := hujson.Standardize(data)
	if err != nil {
		return Config{}, fmt.Errorf("config: parse %s: %w", path, err)
	}

	var cfg Config
	if err := json.Unmarshal(std, &cfg); err != nil {
		return Config{}, fmt.Errorf("config: parse %s: %w", path, err)
	}

	return cfg, nil
}

// Flags holds CLI flag values that override config file settings.
type Flags struct {
	SceneDir         string
	GlobalDir        string
	Workers          int
	MaxTextureSize   string
	MaxTexturePixels int64
}

// Resolve applies flags and fills empty fields with defaults.
// CLI flags take priority when non-zero/non-empty.
func (c *Config) Resolve(flags Flags) error {
	if flags.SceneDir != "" {
		c.SceneDir = flags.SceneDir
	}
	if flags.GlobalDir != "" {
		c.GlobalDir = flags.GlobalDir
	}
	if flags.Workers > 0 {
		c.Workers = flags.Workers
	}
	if flags.MaxTextureSize != "" {
		c.MaxTextureSize = flags.MaxTextureSize
	}
	if flags.MaxTexturePixels > 0 {
		c.MaxTexturePixels = flags.MaxTexturePixels
	}

	if c.SceneDir == "" {
		cwd, err := os.Getwd()
		if err != nil {
			return fmt.Errorf("config: scene dir: %w", err)
		}
		c.SceneDir = cwd
	}

	// Relative paths are against the scene dir
	if c.GlobalDir != "" && !filepath.IsAbs(c.GlobalDir) {
		c.GlobalDir = filepath.Join(c.SceneDir, c.GlobalDir)
	}
	if c.SelectionsFile == "" {
		c.SelectionsFile = filepath.Join(c.SceneDir, "wardrobe.json")
	} else if !filepath.IsAbs(c.SelectionsFile) {
		c.SelectionsFile = filepath.Join(c.SceneDir, c.SelectionsFile)
	}
	if c.DumpDir == "" {
		c.DumpDir = filepath.Join(c.SceneDir, "texdump")
	} else if !filepath.IsAbs(c.DumpDir) {
		c.DumpDir = filepath.Join(c.SceneDir, c.DumpDir)
	}

	if c.Workers <= 0 {
		c.Workers = runtime.NumCPU()
	}

	c.maxTextureBytes = DefaultMaxTextureSize
	if c.MaxTextureSize != "" {
		n, err := units.RAMInBytes(c.MaxTextureSize)
		if err != nil {
			return fmt.Errorf("config: max_texture_size %q: %w", c.MaxTextureSize, err)
		}
		c.maxTextureBytes = n
	}
	c.MaxTextureSize = units.BytesSize(float64(c.maxTextureBytes))

	if c.MaxTexturePixels <= 0 {
		c.MaxTexturePixels = DefaultMaxTexturePixels
	}

	return nil
}

// MaxTextureBytes is the resolved texture size limit.
func (c *Config) MaxTextureBytes() int64 {
	return c.maxTextureBytes
}

// Roots returns the outfit search roots, scene first.
func (c *Config) Roots() []string {
	roots := []string{c.SceneDir}
	if c.GlobalDir != "" {
		roots = append(roots, c.GlobalDir)
	}
	return roots
}
