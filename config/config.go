// Package config loads the engine's tunable settings from an optional
// YAML file, with environment variables as read-only overrides.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"

	"tether/engine"
	"tether/log"
)

// RoutingConfig carries the routing knobs. Zero values fall back to the
// package defaults (stub 20, tolerance 30, margin 10).
type RoutingConfig struct {
	StubLength     float64 `yaml:"stub_length"`
	AlignTolerance float64 `yaml:"align_tolerance"`
	ObstacleMargin float64 `yaml:"obstacle_margin"`
	ReselectSides  bool    `yaml:"reselect_sides"`
}

type LoggingConfig struct {
	Level string `yaml:"level"`
	File  string `yaml:"file"`
}

// RenderConfig configures the exporters. Width/height of 0 size the
// canvas to the document contents plus padding.
type RenderConfig struct {
	Width      int     `yaml:"width"`
	Height     int     `yaml:"height"`
	Padding    float64 `yaml:"padding"`
	Background string  `yaml:"background"`
}

type Config struct {
	Routing RoutingConfig `yaml:"routing"`
	Logging LoggingConfig `yaml:"logging"`
	Render  RenderConfig  `yaml:"render"`
}

// Defaults returns the built-in configuration.
func Defaults() Config {
	return Config{
		Routing: RoutingConfig{
			StubLength:     20,
			AlignTolerance: 30,
			ObstacleMargin: 10,
		},
		Logging: LoggingConfig{Level: "info"},
		Render: RenderConfig{
			Padding:    40,
			Background: "#ffffff",
		},
	}
}

// Env var names used as overrides.
const (
	EnvStubLength     = "TETHER_STUB_LENGTH"
	EnvAlignTolerance = "TETHER_ALIGN_TOLERANCE"
	EnvObstacleMargin = "TETHER_OBSTACLE_MARGIN"
	EnvReselectSides  = "TETHER_RESELECT_SIDES"
	EnvLogLevel       = "TETHER_LOG_LEVEL"
	EnvLogFile        = "TETHER_LOG_FILE"
)

// Load reads the config file at path (if present), applies defaults, and
// merges environment overrides. An empty path or a missing file yields
// the defaults plus env overrides; a malformed file is an error.
func Load(path string) (Config, error) {
	cfg := Defaults()
	if path != "" {
		data, err := os.ReadFile(path)
		switch {
		case err == nil:
			var fileCfg Config
			if err := yaml.Unmarshal(data, &fileCfg); err != nil {
				return cfg, fmt.Errorf("parsing %s: %w", path, err)
			}
			mergeInto(&cfg, &fileCfg)
		case !os.IsNotExist(err):
			return cfg, fmt.Errorf("reading %s: %w", path, err)
		}
	}
	applyEnvOverrides(&cfg)
	return cfg, nil
}

// Tuning converts the routing section into the engine's knob struct.
func (c Config) Tuning() engine.Tuning {
	return engine.Tuning{
		StubLength:     c.Routing.StubLength,
		AlignTolerance: c.Routing.AlignTolerance,
		ObstacleMargin: c.Routing.ObstacleMargin,
		ReselectSides:  c.Routing.ReselectSides,
	}
}

// LogOptions converts the logging section for log.Init.
func (c Config) LogOptions() log.Options {
	return log.Options{Level: c.Logging.Level, File: c.Logging.File}
}

func mergeInto(dst *Config, src *Config) {
	if src.Routing.StubLength > 0 {
		dst.Routing.StubLength = src.Routing.StubLength
	}
	if src.Routing.AlignTolerance > 0 {
		dst.Routing.AlignTolerance = src.Routing.AlignTolerance
	}
	if src.Routing.ObstacleMargin > 0 {
		dst.Routing.ObstacleMargin = src.Routing.ObstacleMargin
	}
	// booleans: copy directly from the file so user preferences persist
	dst.Routing.ReselectSides = src.Routing.ReselectSides

	if strings.TrimSpace(src.Logging.Level) != "" {
		dst.Logging.Level = strings.ToLower(strings.TrimSpace(src.Logging.Level))
	}
	if strings.TrimSpace(src.Logging.File) != "" {
		dst.Logging.File = strings.TrimSpace(src.Logging.File)
	}

	if src.Render.Width > 0 {
		dst.Render.Width = src.Render.Width
	}
	if src.Render.Height > 0 {
		dst.Render.Height = src.Render.Height
	}
	if src.Render.Padding > 0 {
		dst.Render.Padding = src.Render.Padding
	}
	if strings.TrimSpace(src.Render.Background) != "" {
		dst.Render.Background = strings.TrimSpace(src.Render.Background)
	}
}

func applyEnvOverrides(cfg *Config) {
	if v := strings.TrimSpace(os.Getenv(EnvStubLength)); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil && f > 0 {
			cfg.Routing.StubLength = f
		}
	}
	if v := strings.TrimSpace(os.Getenv(EnvAlignTolerance)); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil && f > 0 {
			cfg.Routing.AlignTolerance = f
		}
	}
	if v := strings.TrimSpace(os.Getenv(EnvObstacleMargin)); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil && f > 0 {
			cfg.Routing.ObstacleMargin = f
		}
	}
	if v := strings.TrimSpace(os.Getenv(EnvReselectSides)); v != "" {
		lv := strings.ToLower(v)
		cfg.Routing.ReselectSides = lv == "1" || lv == "true" || lv == "on" || lv == "yes"
	}
	if v := strings.TrimSpace(os.Getenv(EnvLogLevel)); v != "" {
		cfg.Logging.Level = strings.ToLower(v)
	}
	if v := strings.TrimSpace(os.Getenv(EnvLogFile)); v != "" {
		cfg.Logging.File = v
	}
}
