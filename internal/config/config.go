// Package config loads f2q settings.
//
// Values are layered, lowest precedence first:
//
//  1. Defaults (Default)
//  2. YAML file (~/.config/f2q/config.yaml or --config)
//  3. .env file entries prefixed F2Q_
//  4. F2Q_* environment variables
//
// Command-line flags are applied on top by cmd/f2q.
package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/fyrsmithlabs/f2q/internal/encoding"
	"github.com/fyrsmithlabs/f2q/internal/serialize"
)

// Config holds the complete f2q configuration.
type Config struct {
	Mapping   MappingConfig   `koanf:"mapping"`
	Logging   LoggingConfig   `koanf:"logging"`
	Telemetry TelemetryConfig `koanf:"telemetry"`
	Output    OutputConfig    `koanf:"output"`
	Generate  GenerateConfig  `koanf:"generate"`
}

// MappingConfig selects the encoding and tunes the engine.
type MappingConfig struct {
	Encoding  string  `koanf:"encoding"`   // jordan-wigner | bravyi-kitaev
	Workers   int     `koanf:"workers"`    // 0 means GOMAXPROCS
	BatchSize int     `koanf:"batch_size"`
	Normalize bool    `koanf:"normalize"`
	Tolerance float64 `koanf:"tolerance"`
}

// LoggingConfig holds the user-facing logging knobs.
type LoggingConfig struct {
	Level    string `koanf:"level"`
	Format   string `koanf:"format"` // json | console | auto
	Sampling bool   `koanf:"sampling"`
	OTEL     bool   `koanf:"otel"`
}

// TelemetryConfig holds OpenTelemetry export settings.
type TelemetryConfig struct {
	Enabled         bool     `koanf:"enabled"`
	Endpoint        string   `koanf:"endpoint"`
	Protocol        string   `koanf:"protocol"`
	Insecure        bool     `koanf:"insecure"`
	SampleRate      float64  `koanf:"sample_rate"`
	Metrics         bool     `koanf:"metrics"`
	ShutdownTimeout Duration `koanf:"shutdown_timeout"`
}

// OutputConfig controls how results are written.
type OutputConfig struct {
	Format      string `koanf:"format"`       // json | yaml | toml | msgpack
	MetricsFile string `koanf:"metrics_file"` // Prometheus textfile, empty to skip
}

// GenerateConfig holds defaults for the generate command.
type GenerateConfig struct {
	Seed uint64 `koanf:"seed"`
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		Mapping: MappingConfig{
			Encoding:  encoding.KindJordanWigner.String(),
			Workers:   0,
			BatchSize: 256,
			Normalize: true,
			Tolerance: 1e-12,
		},
		Logging: LoggingConfig{
			Level:    "warn",
			Format:   "auto",
			Sampling: true,
		},
		Telemetry: TelemetryConfig{
			Enabled:         false,
			Endpoint:        "localhost:4317",
			Protocol:        "grpc",
			Insecure:        true,
			SampleRate:      1.0,
			Metrics:         true,
			ShutdownTimeout: Duration(5 * time.Second),
		},
		Output: OutputConfig{
			Format: string(serialize.FormatJSON),
		},
		Generate: GenerateConfig{
			Seed: 1,
		},
	}
}

var logLevels = []string{"trace", "debug", "info", "warn", "error"}

// Validate validates the configuration.
func (c *Config) Validate() error {
	var errs []error

	if _, err := encoding.ParseKind(c.Mapping.Encoding); err != nil {
		errs = append(errs, fmt.Errorf("mapping.encoding: %w", err))
	}
	if c.Mapping.Workers < 0 {
		errs = append(errs, fmt.Errorf("mapping.workers must be >= 0, got %d", c.Mapping.Workers))
	}
	if c.Mapping.BatchSize < 1 {
		errs = append(errs, fmt.Errorf("mapping.batch_size must be >= 1, got %d", c.Mapping.BatchSize))
	}
	if c.Mapping.Tolerance < 0 {
		errs = append(errs, fmt.Errorf("mapping.tolerance must be >= 0, got %g", c.Mapping.Tolerance))
	}

	if !contains(logLevels, strings.ToLower(c.Logging.Level)) {
		errs = append(errs, fmt.Errorf("logging.level must be one of %s, got %q", strings.Join(logLevels, ", "), c.Logging.Level))
	}
	if !contains([]string{"json", "console", "auto"}, c.Logging.Format) {
		errs = append(errs, fmt.Errorf("logging.format must be json, console or auto, got %q", c.Logging.Format))
	}

	if c.Telemetry.Enabled && c.Telemetry.Endpoint == "" {
		errs = append(errs, errors.New("telemetry.endpoint required when telemetry is enabled"))
	}
	if c.Telemetry.SampleRate < 0 || c.Telemetry.SampleRate > 1 {
		errs = append(errs, fmt.Errorf("telemetry.sample_rate must be between 0 and 1, got %g", c.Telemetry.SampleRate))
	}

	if _, err := serialize.ParseFormat(c.Output.Format); err != nil {
		errs = append(errs, fmt.Errorf("output.format: %w", err))
	}

	return errors.Join(errs...)
}

func contains(set []string, v string) bool {
	for _, s := range set {
		if s == v {
			return true
		}
	}
	return false
}
