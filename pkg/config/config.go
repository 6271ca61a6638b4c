// Package config loads the terrain configuration from YAML.
//
// A file only needs to name the values it changes; everything else keeps
// the value from Default. Files are checked against an embedded JSON
// schema before they are decoded, so typos in keys are reported instead of
// silently ignored.
package config

import (
	"bytes"
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/santhosh-tekuri/jsonschema/v5"
	"gopkg.in/yaml.v3"
)

//go:embed config.schema.json
var schemaJSON string

var schema = jsonschema.MustCompileString("config.schema.json", schemaJSON)

// Config holds every tunable of the terrain.
type Config struct {
	Chunk    Chunk   `yaml:"chunk"`
	Stream   Stream  `yaml:"stream"`
	Surface  Surface `yaml:"surface"`
	Noise    Noise   `yaml:"noise"`
	Kernel   Kernel  `yaml:"kernel"`
	Viewer   Viewer  `yaml:"viewer"`
	LogLevel string  `yaml:"log_level"`
}

// Chunk sets the chunk size in cubes. Chunks are Width x Height x Width.
type Chunk struct {
	Width  int `yaml:"width"`
	Height int `yaml:"height"`
}

// Stream sets how far around the reference chunks are kept and how much
// streaming work a single tick may do.
type Stream struct {
	RenderDistanceH      int     `yaml:"render_distance_h"`
	RenderDistanceV      int     `yaml:"render_distance_v"`
	MaxGeneratePerTick   int     `yaml:"max_generate_per_tick"`
	MaxRegeneratePerTick int     `yaml:"max_regenerate_per_tick"`
	MaxEvictPerTick      int     `yaml:"max_evict_per_tick"`
	MaxRayDistance       float32 `yaml:"max_ray_distance"`
}

// Surface sets the iso-threshold, the density clamp and the normal mode.
type Surface struct {
	Threshold  float32 `yaml:"threshold"`
	MinDensity float32 `yaml:"min_density"`
	MaxDensity float32 `yaml:"max_density"`
	Normals    string  `yaml:"normals"`
}

// Noise parameterizes the procedural base density field.
type Noise struct {
	Seed            int64   `yaml:"seed"`
	Octaves         int     `yaml:"octaves"`
	Frequency       float64 `yaml:"frequency"`
	Amplitude       float64 `yaml:"amplitude"`
	Gain            float64 `yaml:"gain"`
	SurfaceLevel    float64 `yaml:"surface_level"`
	SurfaceGradient float64 `yaml:"surface_gradient"`
}

// Kernel selects the marching cubes backend.
type Kernel struct {
	// Backend is one of "cpu", "pool" or "gpu".
	Backend string `yaml:"backend"`
	// Workers sizes the pool backend and the chunk batch pool. Zero means
	// one per CPU.
	Workers int `yaml:"workers"`
}

// Viewer configures the websocket mesh stream.
type Viewer struct {
	// Listen is the loopback address of the mesh viewer. Empty disables it.
	Listen string `yaml:"listen"`
}

// Default returns the configuration used when no file is given.
func Default() *Config {
	return &Config{
		Chunk: Chunk{Width: 16, Height: 16},
		Stream: Stream{
			RenderDistanceH:      3,
			RenderDistanceV:      3,
			MaxGeneratePerTick:   2,
			MaxRegeneratePerTick: 4,
			MaxEvictPerTick:      1,
			MaxRayDistance:       128,
		},
		Surface: Surface{
			Threshold:  0.5,
			MinDensity: 0,
			MaxDensity: 1,
			Normals:    "flat",
		},
		Noise: Noise{
			Seed:            1337,
			Octaves:         4,
			Frequency:       0.05,
			Amplitude:       1,
			Gain:            0.5,
			SurfaceLevel:    0,
			SurfaceGradient: 0.04,
		},
		Kernel:   Kernel{Backend: "cpu"},
		LogLevel: "info",
	}
}

// Load reads the YAML file at path on top of Default. An empty path returns
// the defaults.
func Load(path string) (*Config, error) {
	cfg := Default()
	if strings.TrimSpace(path) == "" {
		return cfg, nil
	}
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	if err := Parse(raw, cfg); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

// Parse checks raw against the schema, decodes it into cfg and validates
// the result.
func Parse(raw []byte, cfg *Config) error {
	var doc any
	if err := yaml.Unmarshal(raw, &doc); err != nil {
		return fmt.Errorf("config: %w", err)
	}
	if doc != nil {
		if err := checkSchema(doc); err != nil {
			return err
		}
		if err := yaml.Unmarshal(raw, cfg); err != nil {
			return fmt.Errorf("config: %w", err)
		}
	}
	return cfg.Validate()
}

// checkSchema validates a decoded YAML document. The document goes through
// encoding/json first so the validator sees JSON numbers and string keys.
func checkSchema(doc any) error {
	b, err := json.Marshal(doc)
	if err != nil {
		return fmt.Errorf("config: document is not a mapping of plain values: %w", err)
	}
	dec := json.NewDecoder(bytes.NewReader(b))
	dec.UseNumber()
	var v any
	if err := dec.Decode(&v); err != nil {
		return fmt.Errorf("config: %w", err)
	}
	if err := schema.Validate(v); err != nil {
		return fmt.Errorf("config: %w", err)
	}
	return nil
}

// Validate checks constraints that span several fields.
func (c *Config) Validate() error {
	var errs []error
	if c.Chunk.Width <= 0 || c.Chunk.Height <= 0 {
		errs = append(errs, fmt.Errorf("chunk size must be positive, got %dx%d", c.Chunk.Width, c.Chunk.Height))
	}
	s := c.Stream
	if s.RenderDistanceH <= 0 || s.RenderDistanceV <= 0 {
		errs = append(errs, fmt.Errorf("render distance must be positive, got %d/%d", s.RenderDistanceH, s.RenderDistanceV))
	}
	if s.MaxGeneratePerTick <= 0 || s.MaxRegeneratePerTick <= 0 || s.MaxEvictPerTick <= 0 {
		errs = append(errs, errors.New("per-tick limits must be positive"))
	}
	if s.MaxRayDistance <= 0 {
		errs = append(errs, fmt.Errorf("max_ray_distance must be positive, got %v", s.MaxRayDistance))
	}
	if c.Surface.MinDensity >= c.Surface.MaxDensity {
		errs = append(errs, fmt.Errorf("density range [%v, %v] is empty", c.Surface.MinDensity, c.Surface.MaxDensity))
	}
	if c.Surface.Threshold <= c.Surface.MinDensity || c.Surface.Threshold >= c.Surface.MaxDensity {
		errs = append(errs, fmt.Errorf("threshold %v outside density range (%v, %v)",
			c.Surface.Threshold, c.Surface.MinDensity, c.Surface.MaxDensity))
	}
	switch c.Surface.Normals {
	case "flat", "smooth":
	default:
		errs = append(errs, fmt.Errorf("unknown normals mode %q", c.Surface.Normals))
	}
	switch c.Kernel.Backend {
	case "cpu", "pool", "gpu":
	default:
		errs = append(errs, fmt.Errorf("unknown kernel backend %q", c.Kernel.Backend))
	}
	if c.Kernel.Workers < 0 {
		errs = append(errs, fmt.Errorf("kernel workers must not be negative, got %d", c.Kernel.Workers))
	}
	if c.Noise.Octaves <= 0 {
		errs = append(errs, fmt.Errorf("noise octaves must be positive, got %d", c.Noise.Octaves))
	}
	if _, err := c.Level(); err != nil {
		errs = append(errs, err)
	}
	if len(errs) > 0 {
		return fmt.Errorf("config: %w", errors.Join(errs...))
	}
	return nil
}

// Level returns the slog level named by LogLevel.
func (c *Config) Level() (slog.Level, error) {
	var l slog.Level
	if err := l.UnmarshalText([]byte(c.LogLevel)); err != nil {
		return slog.LevelInfo, fmt.Errorf("log level: %w", err)
	}
	return l, nil
}

// LogValue groups the interesting settings for a single startup log line.
func (c *Config) LogValue() slog.Value {
	return slog.GroupValue(
		slog.String("chunk", fmt.Sprintf("%dx%d", c.Chunk.Width, c.Chunk.Height)),
		slog.String("window", fmt.Sprintf("%dx%dx%d", c.Stream.RenderDistanceH, c.Stream.RenderDistanceV, c.Stream.RenderDistanceH)),
		slog.Float64("threshold", float64(c.Surface.Threshold)),
		slog.String("kernel", c.Kernel.Backend),
		slog.Int64("seed", c.Noise.Seed),
		slog.String("viewer", c.Viewer.Listen),
	)
}

// Merge applies file-loaded values into cfg, except for the fields whose
// command line flags were set explicitly. explicitFlags holds the names of
// those flags.
func Merge(cfg *Config, fromFile *Config, explicitFlags map[string]bool) {
	flags := *cfg
	*cfg = *fromFile
	if explicitFlags["kernel"] {
		cfg.Kernel.Backend = flags.Kernel.Backend
	}
	if explicitFlags["workers"] {
		cfg.Kernel.Workers = flags.Kernel.Workers
	}
	if explicitFlags["seed"] {
		cfg.Noise.Seed = flags.Noise.Seed
	}
	if explicitFlags["listen"] {
		cfg.Viewer.Listen = flags.Viewer.Listen
	}
	if explicitFlags["v"] {
		cfg.LogLevel = flags.LogLevel
	}
}
