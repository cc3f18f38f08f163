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
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewConfig_Defaults(t *testing.T) {
	cfg := NewConfig()

	if cfg.OutputFormat != "text" {
		t.Errorf("OutputFormat = %v, want text", cfg.OutputFormat)
	}
	if cfg.Verbose {
		t.Error("Verbose should be false by default")
	}
	if cfg.ConfigFile != "" {
		t.Errorf("ConfigFile should be empty by default, got %v", cfg.ConfigFile)
	}
}

func TestConfig_LoadSettings_Defaults(t *testing.T) {
	settings, err := NewConfig().LoadSettings()
	require.NoError(t, err)
	assert.Equal(t, "info", settings.Logging.Level)
	assert.True(t, settings.Metrics.Enabled)
}

func TestConfig_LoadSettings_File(t *testing.T) {
	path := filepath.Join(t.TempDir(), "pkey.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
logging:
  level: warn
keys:
  default:
    type: EC
    curve: secp384r1
`), 0600))

	cfg := NewConfig()
	cfg.ConfigFile = path
	cfg.Verbose = true
	cfg.LogFormat = "json"

	settings, err := cfg.LoadSettings()
	require.NoError(t, err)
	assert.Equal(t, "debug", settings.Logging.Level)
	assert.Equal(t, "json", settings.Logging.Format)
	assert.Equal(t, "secp384r1", settings.Keys.Default.Curve)
}

func TestConfig_LoadSettings_Invalid(t *testing.T) {
	cfg := NewConfig()
	cfg.LogLevel = "chatty"
	_, err := cfg.LoadSettings()
	assert.Error(t, err)

	cfg = NewConfig()
	cfg.ConfigFile = filepath.Join(t.TempDir(), "missing.yaml")
	_, err = cfg.LoadSettings()
	assert.Error(t, err)
}

func TestConfigFromViper(t *testing.T) {
	v := viper.New()
	v.Set("config", "/etc/pkey.yaml")
	v.Set("output", "JSON")
	v.Set("verbose", true)

	cfg := configFromViper(v)
	assert.Equal(t, "/etc/pkey.yaml", cfg.ConfigFile)
	assert.Equal(t, "json", cfg.OutputFormat)
	assert.True(t, cfg.Verbose)
	assert.NoError(t, cfg.validateOutputFormat())

	cfg.OutputFormat = "yaml"
	assert.Error(t, cfg.validateOutputFormat())
}
