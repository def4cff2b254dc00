package mapping

import (
	"fmt"
	"runtime"

	"github.com/fyrsmithlabs/f2q/internal/paulisum"
)

// Config configures the mapping engine.
type Config struct {
	// Workers is the number of encoding goroutines (default: GOMAXPROCS).
	Workers int `koanf:"workers"`

	// BatchSize is the number of operators handed to a worker at once
	// (default: 256).
	BatchSize int `koanf:"batch_size"`

	// Normalize drops near-zero coefficients from the result (default: true).
	Normalize bool `koanf:"normalize"`

	// Tolerance is the magnitude below which Normalize drops a coefficient
	// (default: 1e-12).
	Tolerance float64 `koanf:"tolerance"`
}

// NewDefaultConfig returns sensible defaults.
func NewDefaultConfig() *Config {
	return &Config{
		Workers:   runtime.GOMAXPROCS(0),
		BatchSize: 256,
		Normalize: true,
		Tolerance: paulisum.DefaultTolerance,
	}
}

// Validate checks config for errors.
func (c *Config) Validate() error {
	if c.Workers < 1 {
		return fmt.Errorf("workers must be >= 1, got %d", c.Workers)
	}
	if c.BatchSize < 1 {
		return fmt.Errorf("batch_size must be >= 1, got %d", c.BatchSize)
	}
	if c.Tolerance < 0 {
		return fmt.Errorf("tolerance must be >= 0, got %g", c.Tolerance)
	}
	return nil
}
