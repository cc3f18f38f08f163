// Copyright (c) 2025 Jeremy Hahn
// Copyright (c) 2025 Automate The Things, LLC
//
// This file is part of go-pkey.
//
// go-pkey is dual-licensed:
//
// 1. GNU Affero General Public License v3.0 (AGPL-3.0)
//    See LICENSE file or visit https://www.gnu.org/licenses/agpl-3.0.html
//
// 2. Commercial License
//    Contact licensing@automatethethings.com for commercial licensing options.

package cli

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/jeremyhahn/go-pkey/internal/config"
	"github.com/jeremyhahn/go-pkey/pkg/logging"
	"github.com/jeremyhahn/go-pkey/pkg/metrics"
	"github.com/spf13/viper"
)

// Config holds global CLI configuration resolved from flags, PKEY_*
// environment variables and the optional configuration file.
type Config struct {
	// ConfigFile is the path to the YAML configuration file
	ConfigFile string

	// OutputFormat controls output formatting (json, text, table)
	OutputFormat string

	// Verbose enables debug logging
	Verbose bool

	// LogLevel and LogFormat override the logging section of ConfigFile
	LogLevel  string
	LogFormat string
}

// NewConfig creates a new Config with default values
func NewConfig() *Config {
	return &Config{
		OutputFormat: string(OutputFormatText),
	}
}

// configFromViper reads the global settings bound to v
func configFromViper(v *viper.Viper) *Config {
	cfg := NewConfig()
	cfg.ConfigFile = v.GetString("config")
	if format := v.GetString("output"); format != "" {
		cfg.OutputFormat = strings.ToLower(format)
	}
	cfg.Verbose = v.GetBool("verbose")
	cfg.LogLevel = v.GetString("log-level")
	cfg.LogFormat = v.GetString("log-format")
	return cfg
}

// LoadSettings reads ConfigFile, or the built-in defaults when it is
// empty, and applies the command line overrides.
func (c *Config) LoadSettings() (*config.Config, error) {
	var (
		settings *config.Config
		err      error
	)
	if c.ConfigFile != "" {
		settings, err = config.Load(c.ConfigFile)
	} else {
		settings, err = config.Parse(nil)
	}
	if err != nil {
		return nil, err
	}

	if c.LogLevel != "" {
		settings.Logging.Level = c.LogLevel
	}
	if c.LogFormat != "" {
		settings.Logging.Format = c.LogFormat
	}
	if c.Verbose {
		settings.Logging.Level = "debug"
	}
	if err := settings.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return settings, nil
}

// validateOutputFormat rejects formats the Printer cannot render
func (c *Config) validateOutputFormat() error {
	switch OutputFormat(c.OutputFormat) {
	case OutputFormatText, OutputFormatJSON, OutputFormatTable:
		return nil
	}
	return fmt.Errorf("unknown output format: %s (must be text, json, or table)", c.OutputFormat)
}

// newLogger builds the logger for settings, writing to w
func newLogger(settings *config.Config, w io.Writer) (*logging.Logger, error) {
	if w == nil {
		w = os.Stderr
	}
	return logging.New(logging.Config{
		Level:  settings.Logging.Level,
		Format: settings.Logging.Format,
		Output: w,
	})
}

// applyMetrics toggles metrics collection for the process
func applyMetrics(settings *config.Config) {
	if settings.Metrics.Enabled {
		metrics.Enable()
	} else {
		metrics.Disable()
	}
}
