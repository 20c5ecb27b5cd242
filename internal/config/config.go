// Package config loads application configuration from files, environment
// variables, and defaults.
package config

import (
	"fmt"
	"time"

	"github.com/shelfscan/expiryocr/internal/pipeline"
)

// Config is the complete application configuration: global settings, the
// pipeline component tree, and batch/output behavior.
type Config struct {
	// LogLevel is one of debug, info, warn, error.
	LogLevel string `mapstructure:"log_level" yaml:"log_level" json:"log_level"`

	// LogFormat is json or text.
	LogFormat string `mapstructure:"log_format" yaml:"log_format" json:"log_format"`

	Pipeline pipeline.Config `mapstructure:"pipeline" yaml:"pipeline" json:"pipeline"`

	Output OutputConfig `mapstructure:"output" yaml:"output" json:"output"`
	Batch  BatchConfig  `mapstructure:"batch" yaml:"batch" json:"batch"`
}

// OutputConfig contains output formatting settings.
type OutputConfig struct {
	// Format is text, json or yaml.
	Format string `mapstructure:"format" yaml:"format" json:"format"`
	// File receives output; empty writes to stdout.
	File string `mapstructure:"file" yaml:"file" json:"file"`
}

// BatchConfig contains batch processing settings.
type BatchConfig struct {
	Workers   int           `mapstructure:"workers" yaml:"workers" json:"workers"`
	Timeout   time.Duration `mapstructure:"timeout" yaml:"timeout" json:"timeout"`
	Recursive bool          `mapstructure:"recursive" yaml:"recursive" json:"recursive"`
	Include   []string      `mapstructure:"include" yaml:"include" json:"include"`
	Exclude   []string      `mapstructure:"exclude" yaml:"exclude" json:"exclude"`
}

// DefaultConfig returns the full default configuration.
func DefaultConfig() Config {
	return Config{
		LogLevel:  "info",
		LogFormat: "text",
		Pipeline:  pipeline.DefaultConfig(),
		Output:    OutputConfig{Format: "text"},
		Batch:     BatchConfig{Workers: 0, Recursive: false},
	}
}

// Validate checks the configuration tree. Component configs validate again
// at pipeline construction; this surfaces errors before any work starts.
func (c Config) Validate() error {
	switch c.LogLevel {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("unknown log level: %q", c.LogLevel)
	}
	switch c.LogFormat {
	case "json", "text":
	default:
		return fmt.Errorf("unknown log format: %q", c.LogFormat)
	}
	switch c.Output.Format {
	case "text", "json", "yaml":
	default:
		return fmt.Errorf("unknown output format: %q", c.Output.Format)
	}
	if c.Batch.Workers < 0 {
		return fmt.Errorf("batch workers must be >= 0, got %d", c.Batch.Workers)
	}
	if err := c.Pipeline.Lines.Validate(); err != nil {
		return err
	}
	if err := c.Pipeline.Geometry.Validate(); err != nil {
		return err
	}
	if err := c.Pipeline.Photometric.Validate(); err != nil {
		return err
	}
	if err := c.Pipeline.Rerank.Validate(); err != nil {
		return err
	}
	return c.Pipeline.Postprocess.Validate()
}
