// SPDX-License-Identifier: MIT

// Package config loads the lvdet command-line settings from a TOML or YAML
// file. The library packages never read configuration; the CLI translates a
// Config into matrix options and a stress.Config.
package config

import (
	"errors"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/katalvlaran/lvdet/matrix"
	"github.com/katalvlaran/lvdet/reader"
	"github.com/katalvlaran/lvdet/stress"
	"gopkg.in/yaml.v3"
)

// EnvVar names the environment variable holding the config file path.
const EnvVar = "LVDET_CONFIG"

// Element types accepted by Matrix.ElementType.
const (
	ElementFloat64 = "float64"
	ElementInt     = "int"
)

// Log settings accepted by General.
const (
	LogText = "text"
	LogJSON = "json"
)

var (
	// ErrInvalidConfig wraps every validation failure.
	ErrInvalidConfig = errors.New("config: invalid config")

	// ErrUnsupportedFormat is returned for file extensions other than toml/yaml/yml.
	ErrUnsupportedFormat = errors.New("config: unsupported format")
)

// Format is the on-disk encoding of a config file.
type Format int

const (
	FormatUnknown Format = iota
	FormatTOML
	FormatYAML
)

func (f Format) String() string {
	switch f {
	case FormatTOML:
		return "toml"
	case FormatYAML:
		return "yaml"
	default:
		return "unknown"
	}
}

// Config holds the complete CLI configuration.
type Config struct {
	General GeneralConfig `toml:"general" yaml:"general"`
	Matrix  MatrixConfig  `toml:"matrix" yaml:"matrix"`
	Reader  ReaderConfig  `toml:"reader" yaml:"reader"`
	Stress  StressConfig  `toml:"stress" yaml:"stress"`
}

// GeneralConfig holds logging settings.
type GeneralConfig struct {
	LogLevel  string `toml:"log_level" yaml:"log_level"`   // debug|info|warn|error
	LogFormat string `toml:"log_format" yaml:"log_format"` // text|json
}

// MatrixConfig holds the numeric policy of matrices built by the CLI.
type MatrixConfig struct {
	Epsilon     float64 `toml:"epsilon" yaml:"epsilon"` // 0 means matrix.DefaultEpsilon
	ElementType string  `toml:"element_type" yaml:"element_type"`
}

// ReaderConfig holds input parsing limits.
type ReaderConfig struct {
	MaxDimension int `toml:"max_dimension" yaml:"max_dimension"`
}

// StressConfig holds the stress generator parameters.
type StressConfig struct {
	Trials     int      `toml:"trials" yaml:"trials"`
	Size       int      `toml:"size" yaml:"size"`
	Adds       int      `toml:"adds" yaml:"adds"`
	Swaps      int      `toml:"swaps" yaml:"swaps"`
	Subtracts  int      `toml:"subtracts" yaml:"subtracts"`
	Corner     float64  `toml:"corner" yaml:"corner"`
	Tolerance  float64  `toml:"tolerance" yaml:"tolerance"`
	Seed       int64    `toml:"seed" yaml:"seed"`
	Workers    int      `toml:"workers" yaml:"workers"`
	Timeout    Duration `toml:"timeout" yaml:"timeout"` // 0 means no deadline
	FailureLog string   `toml:"failure_log" yaml:"failure_log"`
	PlotPath   string   `toml:"plot_path" yaml:"plot_path"`
}

// Duration wraps time.Duration for text decoding ("30s", "2m").
type Duration struct {
	time.Duration
}

// UnmarshalText parses a duration string
func (d *Duration) UnmarshalText(text []byte) error {
	var err error
	d.Duration, err = time.ParseDuration(string(text))
	return err
}

// MarshalText formats the duration as a string
func (d Duration) MarshalText() ([]byte, error) {
	return []byte(d.Duration.String()), nil
}

// Default returns the configuration used when no file is found.
func Default() *Config {
	cfg := &Config{}
	cfg.applyDefaults()

	return cfg
}

// Load reads, defaults and validates the config file at path.
func Load(path string) (*Config, error) {
	path = os.ExpandEnv(path)

	format := detectFormat(path)
	if format == FormatUnknown {
		return nil, fmt.Errorf("config.Load(%s): %w", path, ErrUnsupportedFormat)
	}
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("config.Load: %w", err)
	}

	cfg, err := Parse(content, format)
	if err != nil {
		return nil, fmt.Errorf("config.Load(%s): %w", path, err)
	}

	return cfg, nil
}

// Parse decodes content in the given format, then defaults and validates it.
func Parse(content []byte, format Format) (*Config, error) {
	var cfg Config
	switch format {
	case FormatTOML:
		if err := toml.Unmarshal(content, &cfg); err != nil {
			return nil, fmt.Errorf("TOML parse error: %w", err)
		}
	case FormatYAML:
		if err := yaml.Unmarshal(content, &cfg); err != nil {
			return nil, fmt.Errorf("YAML parse error: %w", err)
		}
	default:
		return nil, fmt.Errorf("format %s: %w", format, ErrUnsupportedFormat)
	}

	cfg.applyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// DefaultPaths lists the locations probed by LoadFromEnv, in order.
func DefaultPaths() []string {
	paths := []string{
		"./lvdet.toml",
		"./lvdet.yaml",
		"./configs/lvdet.toml",
	}
	if home, err := os.UserHomeDir(); err == nil {
		paths = append(paths, filepath.Join(home, ".config", "lvdet", "config.toml"))
	}

	return paths
}

// LoadFromEnv loads the file named by LVDET_CONFIG, else the first existing
// default path, else returns Default().
func LoadFromEnv() (*Config, error) {
	if path := os.Getenv(EnvVar); path != "" {
		return Load(path)
	}
	for _, p := range DefaultPaths() {
		if _, err := os.Stat(p); err == nil {
			return Load(p)
		}
	}

	return Default(), nil
}

// detectFormat determines the configuration format from file extension
func detectFormat(path string) Format {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".toml":
		return FormatTOML
	case ".yaml", ".yml":
		return FormatYAML
	default:
		return FormatUnknown
	}
}

// applyDefaults sets default values for missing configuration
func (c *Config) applyDefaults() {
	// General
	if c.General.LogLevel == "" {
		c.General.LogLevel = "info"
	}
	if c.General.LogFormat == "" {
		c.General.LogFormat = LogText
	}

	// Matrix
	if c.Matrix.Epsilon == 0 {
		c.Matrix.Epsilon = matrix.DefaultEpsilon
	}
	if c.Matrix.ElementType == "" {
		c.Matrix.ElementType = ElementFloat64
	}

	// Reader
	if c.Reader.MaxDimension == 0 {
		c.Reader.MaxDimension = reader.DefaultMaxDimension
	}

	// Stress
	def := stress.DefaultConfig()
	if c.Stress.Trials == 0 {
		c.Stress.Trials = def.Trials
	}
	if c.Stress.Size == 0 {
		c.Stress.Size = def.Size
	}
	if c.Stress.Adds == 0 {
		c.Stress.Adds = def.Adds
	}
	if c.Stress.Swaps == 0 {
		c.Stress.Swaps = def.Swaps
	}
	if c.Stress.Subtracts == 0 {
		c.Stress.Subtracts = def.Subtracts
	}
	if c.Stress.Corner == 0 {
		c.Stress.Corner = def.Corner
	}
	if c.Stress.Tolerance == 0 {
		c.Stress.Tolerance = def.Tolerance
	}
	if c.Stress.Seed == 0 {
		c.Stress.Seed = def.Seed
	}
}

// Validate checks the configuration; every failure wraps ErrInvalidConfig.
func (c *Config) Validate() error {
	switch strings.ToLower(c.General.LogLevel) {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("general.log_level=%q: %w", c.General.LogLevel, ErrInvalidConfig)
	}
	switch c.General.LogFormat {
	case LogText, LogJSON:
	default:
		return fmt.Errorf("general.log_format=%q: %w", c.General.LogFormat, ErrInvalidConfig)
	}

	if e := c.Matrix.Epsilon; math.IsNaN(e) || math.IsInf(e, 0) || e < 0 {
		return fmt.Errorf("matrix.epsilon=%v: %w", e, ErrInvalidConfig)
	}
	switch c.Matrix.ElementType {
	case ElementFloat64, ElementInt:
	default:
		return fmt.Errorf("matrix.element_type=%q: %w", c.Matrix.ElementType, ErrInvalidConfig)
	}

	if c.Reader.MaxDimension < 0 {
		return fmt.Errorf("reader.max_dimension=%d: %w", c.Reader.MaxDimension, ErrInvalidConfig)
	}
	if c.Stress.Timeout.Duration < 0 {
		return fmt.Errorf("stress.timeout=%s: %w", c.Stress.Timeout.Duration, ErrInvalidConfig)
	}
	if err := c.StressParams().Validate(); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}

	return nil
}

// MatrixOptions translates the matrix section into constructor options.
func (c *Config) MatrixOptions() []matrix.Option {
	return []matrix.Option{matrix.WithEpsilon(c.Matrix.Epsilon)}
}

// StressParams translates the stress section into a stress.Config.
func (c *Config) StressParams() stress.Config {
	return stress.Config{
		Trials:    c.Stress.Trials,
		Size:      c.Stress.Size,
		Adds:      c.Stress.Adds,
		Swaps:     c.Stress.Swaps,
		Subtracts: c.Stress.Subtracts,
		Corner:    c.Stress.Corner,
		Tolerance: c.Stress.Tolerance,
		Seed:      c.Stress.Seed,
		Workers:   c.Stress.Workers,
	}
}
