// Package config loads prime-image settings from YAML and the environment.
//
// Precedence, lowest first: built-in defaults, the YAML file, PRIME_IMAGE_*
// environment variables, then command line flags (applied by the caller).
package config

import (
	"errors"
	"fmt"
	"log"
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/ironsheep/prime-image/internal/digits"
	"github.com/ironsheep/prime-image/internal/imaging"
	"github.com/ironsheep/prime-image/internal/primality"
	"github.com/ironsheep/prime-image/internal/search"
)

// EnvPrefix prefixes every environment override.
const EnvPrefix = "PRIME_IMAGE_"

// Config holds all prime-image configuration.
type Config struct {
	LogLevel string       `yaml:"log_level"`
	Grid     GridConfig   `yaml:"grid"`
	Search   SearchConfig `yaml:"search"`
	Output   OutputConfig `yaml:"output"`
}

// GridConfig controls how an image becomes digits.
type GridConfig struct {
	Width     int     `yaml:"width"`
	Height    int     `yaml:"height"`
	Modulus   int     `yaml:"modulus"`
	Grayscale string  `yaml:"grayscale"`
	Dither    *bool   `yaml:"dither"`
	Levels    int     `yaml:"levels"`
	Contrast  float64 `yaml:"contrast"`
	Region    string  `yaml:"region"`
}

// SearchConfig controls the prime search.
type SearchConfig struct {
	// Mode is "random" for the proximity search or "next" for the next prime.
	Mode            string        `yaml:"mode"`
	Rounds          int           `yaml:"rounds"`
	Positions       int           `yaml:"positions"`
	PreserveLeading *bool         `yaml:"preserve_leading"`
	Workers         int           `yaml:"workers"`
	MaxIterations   int           `yaml:"max_iterations"`
	Timeout         time.Duration `yaml:"timeout"`
	Seed            uint64        `yaml:"seed"`
	ProgressEvery   int           `yaml:"progress_every"`
}

// OutputConfig controls rendering.
type OutputConfig struct {
	HTML     string `yaml:"html"`
	PNG      string `yaml:"png"`
	PNGScale int    `yaml:"png_scale"`

	// Shade is "auto" (only on a terminal), "always" or "never".
	Shade string `yaml:"shade"`
}

// Default returns a Config with every default applied.
func Default() *Config {
	cfg := &Config{}
	cfg.defaults()
	return cfg
}

func (c *Config) defaults() {
	if c.LogLevel == "" {
		c.LogLevel = "info"
	}
	if c.Grid.Width <= 0 {
		c.Grid.Width = 30
	}
	if c.Grid.Height <= 0 {
		c.Grid.Height = 60
	}
	if c.Grid.Modulus == 0 {
		c.Grid.Modulus = digits.DefaultModulus
	}
	if c.Grid.Grayscale == "" {
		c.Grid.Grayscale = string(imaging.GrayAverage)
	}
	if c.Grid.Dither == nil {
		c.Grid.Dither = boolPtr(true)
	}
	if c.Grid.Levels <= 0 {
		c.Grid.Levels = 256
	}
	if c.Search.Mode == "" {
		c.Search.Mode = "random"
	}
	if c.Search.Rounds <= 0 {
		c.Search.Rounds = primality.DefaultRounds
	}
	if c.Search.Positions <= 0 {
		c.Search.Positions = 1
	}
	if c.Search.PreserveLeading == nil {
		c.Search.PreserveLeading = boolPtr(true)
	}
	if c.Search.Workers <= 0 {
		c.Search.Workers = 1
	}
	if c.Search.ProgressEvery <= 0 {
		c.Search.ProgressEvery = 10000
	}
	if c.Output.PNGScale <= 0 {
		c.Output.PNGScale = 2
	}
	if c.Output.Shade == "" {
		c.Output.Shade = "auto"
	}
}

// LoadFile reads a YAML config file, applies environment overrides and fills
// in defaults. An empty path skips the file.
func LoadFile(path string) (*Config, error) {
	cfg := &Config{}
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read config: %w", err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config %s: %w", path, err)
		}
	}
	if err := cfg.applyEnv(os.LookupEnv); err != nil {
		return nil, err
	}
	cfg.defaults()
	return cfg, cfg.Validate()
}

// applyEnv overrides fields from PRIME_IMAGE_* variables.
func (c *Config) applyEnv(lookup func(string) (string, bool)) error {
	str := func(name string, dst *string) {
		if v, ok := lookup(EnvPrefix + name); ok && v != "" {
			*dst = v
		}
	}
	num := func(name string, dst *int) error {
		v, ok := lookup(EnvPrefix + name)
		if !ok || v == "" {
			return nil
		}
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("invalid %s%s: %w", EnvPrefix, name, err)
		}
		*dst = n
		return nil
	}

	str("LOG_LEVEL", &c.LogLevel)
	str("GRAYSCALE", &c.Grid.Grayscale)
	str("MODE", &c.Search.Mode)
	if v, ok := lookup(EnvPrefix + "TIMEOUT"); ok && v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("invalid %sTIMEOUT: %w", EnvPrefix, err)
		}
		c.Search.Timeout = d
	}
	return errors.Join(
		num("WIDTH", &c.Grid.Width),
		num("HEIGHT", &c.Grid.Height),
		num("MODULUS", &c.Grid.Modulus),
		num("ROUNDS", &c.Search.Rounds),
		num("POSITIONS", &c.Search.Positions),
		num("WORKERS", &c.Search.Workers),
		num("MAX_ITERATIONS", &c.Search.MaxIterations),
	)
}

// Validate reports settings that defaults cannot repair.
func (c *Config) Validate() error {
	var errs []error
	if c.Grid.Modulus != 9 && c.Grid.Modulus != 10 {
		errs = append(errs, fmt.Errorf("grid.modulus must be 9 or 10, got %d", c.Grid.Modulus))
	}
	if _, err := imaging.ParseGrayMode(c.Grid.Grayscale); err != nil {
		errs = append(errs, fmt.Errorf("grid.grayscale: %w", err))
	}
	if c.Grid.Levels < 2 || c.Grid.Levels > 256 {
		errs = append(errs, fmt.Errorf("grid.levels must be in [2,256], got %d", c.Grid.Levels))
	}
	if c.Grid.Contrast < -1 || c.Grid.Contrast > 1 {
		errs = append(errs, fmt.Errorf("grid.contrast must be in [-1,1], got %g", c.Grid.Contrast))
	}
	if c.Search.Mode != "random" && c.Search.Mode != "next" {
		errs = append(errs, fmt.Errorf("search.mode must be random or next, got %q", c.Search.Mode))
	}
	if c.Search.MaxIterations < 0 {
		errs = append(errs, fmt.Errorf("search.max_iterations must not be negative"))
	}
	switch c.Output.Shade {
	case "auto", "always", "never":
	default:
		errs = append(errs, fmt.Errorf("output.shade must be auto, always or never, got %q", c.Output.Shade))
	}
	return errors.Join(errs...)
}

// Debug reports whether debug logging is enabled.
func (c *Config) Debug() bool {
	return c.LogLevel == "debug"
}

// ImagingOptions converts the grid section for the imaging package. The
// named region, if any, is resolved by the caller once the image is known.
func (c *Config) ImagingOptions() imaging.Options {
	return imaging.Options{
		Width:    c.Grid.Width,
		Height:   c.Grid.Height,
		Gray:     imaging.GrayMode(c.Grid.Grayscale),
		Contrast: c.Grid.Contrast,
		Dither:   *c.Grid.Dither,
		Levels:   c.Grid.Levels,
		Modulus:  c.Grid.Modulus,
	}
}

// SearchOptions converts the search section. logger may be nil.
func (c *Config) SearchOptions(logger *log.Logger) search.Options {
	return search.Options{
		Positions:       c.Search.Positions,
		PreserveLeading: *c.Search.PreserveLeading,
		Rounds:          c.Search.Rounds,
		MaxIterations:   c.Search.MaxIterations,
		Workers:         c.Search.Workers,
		Seed:            c.Search.Seed,
		Logger:          logger,
		ProgressEvery:   c.Search.ProgressEvery,
	}
}

func boolPtr(b bool) *bool {
	return &b
}
