package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strconv"
	"strings"

	"github.com/Tiny-Potato/TaterTotter/internal/imaging"

	"gopkg.in/yaml.v3"
)

// Environment variables consulted by Resolve.
const (
	EnvDataDir   = "TATER_DATA_DIR"
	EnvImageDir  = "TATER_IMAGE_DIR"
	EnvOutputDir = "TATER_OUTPUT_DIR"
	EnvWorkers   = "TATER_WORKERS"
	EnvWebP      = "TATER_WEBP"
)

// Defaults match the layout of the generator directory inside the
// tater library repository.
const (
	DefaultDataDir   = "../data"
	DefaultImageDir  = "../image"
	DefaultOutputDir = "./output"
)

// Config holds all configurable paths and image settings.
type Config struct {
	// Paths
	DataDir   string `json:"data_dir" yaml:"data_dir"`
	ImageDir  string `json:"image_dir" yaml:"image_dir"`
	OutputDir string `json:"output_dir" yaml:"output_dir"`

	// Image settings
	Variants []imaging.Variant `json:"variants" yaml:"variants"`
	WebP     bool              `json:"webp" yaml:"webp"`
	Workers  int               `json:"workers" yaml:"workers"`
}

// Load reads a JSON or YAML (.yaml, .yml) config file.
// Fields not set in the file keep their zero values.
func Load(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("config: read %s: %w", path, err)
	}

	var cfg Config
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		err = yaml.Unmarshal(data, &cfg)
	default:
		err = json.Unmarshal(data, &cfg)
	}
	if err != nil {
		return Config{}, fmt.Errorf("config: parse %s: %w", path, err)
	}

	return cfg, nil
}

// Flags holds CLI flag values that override config file settings.
type Flags struct {
	DataDir   string
	ImageDir  string
	OutputDir string
	Workers   int
	WebP      bool
}

// Resolve applies environment overrides, then CLI flags, then fills any
// remaining empty fields with defaults.
// CLI flags take priority when non-zero/non-empty.
func (c *Config) Resolve(flags Flags) error {
	if err := c.applyEnvOverrides(); err != nil {
		return err
	}

	if flags.DataDir != "" {
		c.DataDir = flags.DataDir
	}
	if flags.ImageDir != "" {
		c.ImageDir = flags.ImageDir
	}
	if flags.OutputDir != "" {
		c.OutputDir = flags.OutputDir
	}
	if flags.Workers > 0 {
		c.Workers = flags.Workers
	}
	if flags.WebP {
		c.WebP = true
	}

	if c.DataDir == "" {
		c.DataDir = DefaultDataDir
	}
	if c.ImageDir == "" {
		c.ImageDir = DefaultImageDir
	}
	if c.OutputDir == "" {
		c.OutputDir = DefaultOutputDir
	}
	if len(c.Variants) == 0 {
		c.Variants = imaging.DefaultVariants()
	}
	if c.Workers <= 0 {
		c.Workers = runtime.NumCPU()
	}

	return c.Validate()
}

func (c *Config) applyEnvOverrides() error {
	if v := os.Getenv(EnvDataDir); v != "" {
		c.DataDir = v
	}
	if v := os.Getenv(EnvImageDir); v != "" {
		c.ImageDir = v
	}
	if v := os.Getenv(EnvOutputDir); v != "" {
		c.OutputDir = v
	}
	if v := os.Getenv(EnvWorkers); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("config: %s: %w", EnvWorkers, err)
		}
		c.Workers = n
	}
	if v := os.Getenv(EnvWebP); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("config: %s: %w", EnvWebP, err)
		}
		c.WebP = b
	}
	return nil
}

// Validate checks the variant set: every tag must be a usable, unique
// directory name other than "full", and every width positive.
func (c *Config) Validate() error {
	seen := make(map[string]bool, len(c.Variants))
	for _, v := range c.Variants {
		switch {
		case v.Tag == "", v.Tag == ".", v.Tag == "..":
			return fmt.Errorf("config: invalid variant tag %q", v.Tag)
		case strings.ContainsAny(v.Tag, `/\`):
			return fmt.Errorf("config: variant tag %q contains a path separator", v.Tag)
		case v.Tag == imaging.FullTag:
			return fmt.Errorf("config: variant tag %q is reserved", v.Tag)
		case seen[v.Tag]:
			return fmt.Errorf("config: duplicate variant tag %q", v.Tag)
		case v.Width <= 0:
			return fmt.Errorf("config: variant %q has non-positive width %d", v.Tag, v.Width)
		}
		seen[v.Tag] = true
	}
	return nil
}
