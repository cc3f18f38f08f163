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

// Package config loads the go-pkey YAML configuration.
package config

import (
	"errors"
	"fmt"
	"log"
	"os"
	"sort"
	"strconv"
	"strings"

	"github.com/jeremyhahn/go-pkey/pkg/logging"
	"github.com/jeremyhahn/go-pkey/pkg/pkey"
	"gopkg.in/yaml.v3"
)

// ErrUnknownProfile is returned by Profile for names not in keys.profiles
var ErrUnknownProfile = errors.New("config: unknown key profile")

// Config represents the complete pkey configuration
type Config struct {
	Logging LoggingConfig `yaml:"logging"`
	Metrics MetricsConfig `yaml:"metrics"`
	Keys    KeysConfig    `yaml:"keys"`
}

// LoggingConfig controls logging behavior
type LoggingConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

// MetricsConfig controls metrics collection
type MetricsConfig struct {
	Enabled bool `yaml:"enabled"`
}

// KeysConfig holds the default key generation settings and named profiles
type KeysConfig struct {
	Default  pkey.GenerateConfig            `yaml:"default"`
	Profiles map[string]pkey.GenerateConfig `yaml:"profiles,omitempty"`
}

// Default returns the built-in configuration
func Default() *Config {
	return &Config{
		Logging: LoggingConfig{Level: "info", Format: logging.FormatText},
		Metrics: MetricsConfig{Enabled: true},
		Keys:    KeysConfig{Default: pkey.DefaultGenerateConfig()},
	}
}

// Load reads configuration from a YAML file and applies environment variable overrides.
// Settings missing from the file keep their Default values.
func Load(path string) (*Config, error) {
	// #nosec G304 - Config file path is provided by the user
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}
	return Parse(data)
}

// Parse decodes YAML configuration, applies environment variable
// overrides and validates the result.
func Parse(data []byte) (*Config, error) {
	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	applyEnvOverrides(cfg)

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

// applyEnvOverrides applies environment variable overrides to the configuration
func applyEnvOverrides(cfg *Config) {
	// Logging
	if level := os.Getenv("PKEY_LOG_LEVEL"); level != "" {
		cfg.Logging.Level = level
	}
	if format := os.Getenv("PKEY_LOG_FORMAT"); format != "" {
		cfg.Logging.Format = format
	}

	// Metrics
	if enabled := os.Getenv("PKEY_METRICS_ENABLED"); enabled != "" {
		v, err := strconv.ParseBool(enabled)
		if err != nil {
			log.Printf("Warning: invalid PKEY_METRICS_ENABLED value %q, using %t: %v",
				enabled, cfg.Metrics.Enabled, err)
		} else {
			cfg.Metrics.Enabled = v
		}
	}

	// Default key
	if keyType := os.Getenv("PKEY_KEY_TYPE"); keyType != "" {
		cfg.Keys.Default.Type = keyType
	}
	if curve := os.Getenv("PKEY_KEY_CURVE"); curve != "" {
		cfg.Keys.Default.Curve = curve
	}
}

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	if _, err := logging.ParseLevel(c.Logging.Level); err != nil {
		return fmt.Errorf("invalid log level: %s (must be debug, info, warn, or error)", c.Logging.Level)
	}

	validFormats := map[string]bool{
		logging.FormatText: true, logging.FormatJSON: true,
	}
	if !validFormats[strings.ToLower(c.Logging.Format)] {
		return fmt.Errorf("invalid log format: %s (must be text or json)", c.Logging.Format)
	}

	if err := c.Keys.Default.Validate(); err != nil {
		return fmt.Errorf("keys.default: %w", err)
	}
	for _, name := range c.ProfileNames() {
		if err := c.Keys.Profiles[name].Validate(); err != nil {
			return fmt.Errorf("keys.profiles.%s: %w", name, err)
		}
	}
	return nil
}

// Profile returns the generation settings for a named profile. An empty
// name or "default" selects keys.default. Zero fields take the package
// defaults.
func (c *Config) Profile(name string) (pkey.GenerateConfig, error) {
	if name == "" || name == "default" {
		return c.Keys.Default.WithDefaults(), nil
	}
	p, ok := c.Keys.Profiles[name]
	if !ok {
		return pkey.GenerateConfig{}, fmt.Errorf("%w: %q", ErrUnknownProfile, name)
	}
	return p.WithDefaults(), nil
}

// ProfileNames returns the configured profile names in sorted order
func (c *Config) ProfileNames() []string {
	names := make([]string, 0, len(c.Keys.Profiles))
	for name := range c.Keys.Profiles {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Logger builds the logger described by the logging section
func (c *Config) Logger() (*logging.Logger, error) {
	return logging.New(logging.Config{
		Level:  c.Logging.Level,
		Format: c.Logging.Format,
	})
}
