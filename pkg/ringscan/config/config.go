package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/cognicore/ringscan/pkg/ringscan/internalerr"
)

// Config holds the scan tunables. Every field has a working default; a
// config file only needs the fields it wants to override.
type Config struct {
	// BatchSize is the number of matched rows committed per transaction.
	BatchSize int `yaml:"batch_size"`
	// ReportEvery logs progress on every Nth match.
	ReportEvery int64 `yaml:"report_every"`
	// MaxLineBytes caps one physical line of the dump.
	MaxLineBytes int `yaml:"max_line_bytes"`
	// MaxFragmentBytes caps one accumulated record before the scan aborts.
	MaxFragmentBytes int `yaml:"max_fragment_bytes"`
}

// Default returns the built-in tuning.
func Default() Config {
	return Config{
		BatchSize:        500,
		ReportEvery:      500,
		MaxLineBytes:     4 * 1024 * 1024,
		MaxFragmentBytes: 64 * 1024 * 1024,
	}
}

// Load reads a YAML config file and overlays it on the defaults.
func Load(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, err
	}

	cfg := Default()
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, err
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate rejects settings that cannot work.
func (c Config) Validate() error {
	if c.BatchSize < 1 {
		return fmt.Errorf("batch_size must be >= 1: %w", internalerr.ErrInvalidConfig)
	}
	if c.ReportEvery < 1 {
		return fmt.Errorf("report_every must be >= 1: %w", internalerr.ErrInvalidConfig)
	}
	if c.MaxLineBytes < 1024 {
		return fmt.Errorf("max_line_bytes must be >= 1024: %w", internalerr.ErrInvalidConfig)
	}
	if c.MaxFragmentBytes < c.MaxLineBytes {
		return fmt.Errorf("max_fragment_bytes must be >= max_line_bytes: %w", internalerr.ErrInvalidConfig)
	}
	return nil
}
