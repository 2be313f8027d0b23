package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"runtime"
	"strconv"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"github.com/dd0wney/cluso-affinity/pkg/parallel"
	"github.com/dd0wney/cluso-affinity/pkg/similarity"
	"github.com/dd0wney/cluso-affinity/pkg/validation"
	"github.com/dd0wney/cluso-affinity/pkg/visualization"
)

// EnvPrefix prefixes every environment override
const EnvPrefix = "AFFINITY_"

// DefaultFrameInterval is the TUI redraw cadence (~30 fps)
const DefaultFrameInterval = 33 * time.Millisecond

var ErrUnsupportedFormat = errors.New("unsupported config format")

// Config holds all application configuration
type Config struct {
	Similarity SimilarityConfig               `yaml:"similarity" toml:"similarity"`
	Simulation visualization.SimulationConfig `yaml:"simulation" toml:"simulation"`
	Log        LogConfig                      `yaml:"log" toml:"log"`
	TUI        TUIConfig                      `yaml:"tui" toml:"tui"`
}

// SimilarityConfig controls edge computation and graph building.
type SimilarityConfig struct {
	Threshold float64 `yaml:"threshold" toml:"threshold"` // Links need a score strictly above this
	Metric    string  `yaml:"metric" toml:"metric"`       // "jaccard", "overlap" or "cosine"
	Workers   int     `yaml:"workers" toml:"workers"`     // Scoring goroutines for large datasets (GOMAXPROCS)
}

// LogConfig controls logging.
type LogConfig struct {
	Level string `yaml:"level" toml:"level"`
}

// TUIConfig controls the terminal view.
type TUIConfig struct {
	FrameInterval time.Duration `yaml:"frame_interval" toml:"frame_interval"`
	MetricsAddr   string        `yaml:"metrics_addr" toml:"metrics_addr"` // empty disables the metrics endpoint
}

// Default returns the default configuration.
func Default() *Config {
	cfg := &Config{}
	cfg.applyDefaults()
	return cfg
}

// Load reads path (YAML or TOML by extension), applies .env and AFFINITY_*
// environment overrides, fills defaults and validates. An empty path skips
// the file.
func Load(path string) (*Config, error) {
	// Try to load .env file, but don't fail if it doesn't exist
	_ = godotenv.Load()

	cfg := &Config{}
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read config: %w", err)
		}
		if err := Decode(data, filepath.Ext(path), cfg); err != nil {
			return nil, fmt.Errorf("parse %s: %w", path, err)
		}
	}

	if err := cfg.ApplyEnv(os.LookupEnv); err != nil {
		return nil, err
	}
	cfg.applyDefaults()

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}
	return cfg, nil
}

// Decode parses data in the format named by ext (".yaml", ".yml" or ".toml").
func Decode(data []byte, ext string, cfg *Config) error {
	switch strings.ToLower(ext) {
	case ".yaml", ".yml":
		dec := yaml.NewDecoder(bytes.NewReader(data))
		dec.KnownFields(true)
		if err := dec.Decode(cfg); err != nil && !errors.Is(err, io.EOF) {
			return err
		}
		return nil
	case ".toml":
		md, err := toml.Decode(string(data), cfg)
		if err != nil {
			return err
		}
		if undecoded := md.Undecoded(); len(undecoded) > 0 {
			return fmt.Errorf("unknown keys %v", undecoded)
		}
		return nil
	default:
		return fmt.Errorf("%w: %q", ErrUnsupportedFormat, ext)
	}
}

// ApplyEnv overrides fields from AFFINITY_* variables found through lookup.
func (c *Config) ApplyEnv(lookup func(string) (string, bool)) error {
	var errs []error

	str := func(key string, dst *string) {
		if v, ok := lookup(EnvPrefix + key); ok {
			*dst = v
		}
	}
	float := func(key string, dst *float64) {
		v, ok := lookup(EnvPrefix + key)
		if !ok {
			return
		}
		f, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
		if err != nil {
			errs = append(errs, fmt.Errorf("%s%s: %w", EnvPrefix, key, err))
			return
		}
		*dst = f
	}

	float("THRESHOLD", &c.Similarity.Threshold)
	str("METRIC", &c.Similarity.Metric)
	str("LOG_LEVEL", &c.Log.Level)
	str("METRICS_ADDR", &c.TUI.MetricsAddr)
	float("WIDTH", &c.Simulation.Width)
	float("HEIGHT", &c.Simulation.Height)
	float("CHARGE", &c.Simulation.Charge)
	float("LINK_DISTANCE", &c.Simulation.LinkDistance)
	float("COLLISION_RADIUS", &c.Simulation.CollisionRadius)
	float("ALPHA_MIN", &c.Simulation.AlphaMin)

	if v, ok := lookup(EnvPrefix + "FRAME_INTERVAL"); ok {
		d, err := time.ParseDuration(strings.TrimSpace(v))
		if err != nil {
			errs = append(errs, fmt.Errorf("%sFRAME_INTERVAL: %w", EnvPrefix, err))
		} else {
			c.TUI.FrameInterval = d
		}
	}
	if v, ok := lookup(EnvPrefix + "SEED"); ok {
		n, err := strconv.ParseUint(strings.TrimSpace(v), 10, 64)
		if err != nil {
			errs = append(errs, fmt.Errorf("%sSEED: %w", EnvPrefix, err))
		} else {
			c.Simulation.Seed = n
		}
	}

	return errors.Join(errs...)
}

func (c *Config) applyDefaults() {
	c.Similarity.Threshold = validation.DefaultOr(c.Similarity.Threshold, visualization.DefaultThreshold)
	c.Similarity.Metric = validation.DefaultOr(strings.ToLower(c.Similarity.Metric), similarity.MetricJaccard.String())
	c.Similarity.Workers = validation.DefaultOr(c.Similarity.Workers, runtime.GOMAXPROCS(0))
	c.Log.Level = validation.DefaultOr(c.Log.Level, "info")
	c.TUI.FrameInterval = validation.DefaultOr(c.TUI.FrameInterval, DefaultFrameInterval)
	c.Simulation = c.Simulation.WithDefaults()
}

// Validate checks ranges on every numeric field and reports all failures.
func (c *Config) Validate() error {
	s := c.Simulation
	return validation.NewReport("Config").
		Within("Similarity.Threshold", c.Similarity.Threshold, 0, 1).
		OneOf("Similarity.Metric", c.Similarity.Metric, "jaccard", "overlap", "cosine").
		IntWithin("Similarity.Workers", c.Similarity.Workers, 1, parallel.MaxWorkers).
		OneOf("Log.Level", strings.ToLower(c.Log.Level), "debug", "info", "warn", "warning", "error").
		PositiveDuration("TUI.FrameInterval", c.TUI.FrameInterval).
		Positive("Simulation.Width", s.Width).
		Positive("Simulation.Height", s.Height).
		Finite("Simulation.Charge", s.Charge).
		Positive("Simulation.DistanceMin", s.DistanceMin).
		Positive("Simulation.LinkDistance", s.LinkDistance).
		NonNegative("Simulation.LinkStrength", s.LinkStrength).
		Within("Simulation.CenterStrength", s.CenterStrength, 0, 1).
		NonNegative("Simulation.CollisionRadius", s.CollisionRadius).
		Within("Simulation.CollisionStrength", s.CollisionStrength, 0, 1).
		Within("Simulation.AlphaStart", s.AlphaStart, 0, 1).
		Fraction("Simulation.AlphaMin", s.AlphaMin).
		Fraction("Simulation.AlphaDecay", s.AlphaDecay).
		Fraction("Simulation.VelocityDecay", s.VelocityDecay).
		Within("Simulation.DragAlphaTarget", s.DragAlphaTarget, 0, 1).
		Positive("Simulation.InitialRadius", s.InitialRadius).
		Check("Simulation.AlphaMin", s.AlphaMin < s.AlphaStart, "must be below AlphaStart %g", s.AlphaStart).
		Err()
}

// SimilarityOptions converts the similarity section into engine options.
func (c *Config) SimilarityOptions() similarity.Options {
	return similarity.Options{
		Metric:  similarity.ParseMetric(c.Similarity.Metric),
		Workers: c.Similarity.Workers,
	}
}
