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

// Package cli implements the pkey command line tool.
package cli

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/jeremyhahn/go-pkey/internal/config"
	"github.com/jeremyhahn/go-pkey/pkg/logging"
	"github.com/jeremyhahn/go-pkey/pkg/pkey"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// app carries the state shared by every command of one invocation
type app struct {
	v        *viper.Viper
	cfg      *Config
	settings *config.Config
	logger   *logging.Logger
}

func newApp() *app {
	v := viper.New()
	v.SetEnvPrefix("PKEY")
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()
	return &app{v: v, cfg: NewConfig()}
}

// NewRootCommand returns the pkey command tree. Every flag can also be
// set through a PKEY_ environment variable, e.g. --log-level through
// PKEY_LOG_LEVEL.
func NewRootCommand() *cobra.Command {
	return newApp().rootCommand()
}

func (a *app) rootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:   "pkey",
		Short: "pkey - RSA and EC key tool",
		Long: `pkey generates, loads, inspects and exports RSA and EC keys, signs
and verifies message digests, and builds X.509 SubjectAltName extensions.

Keys are read as PEM or DER in any of PKCS#8 (optionally encrypted),
PKCS#1, SEC 1 or PKIX form. Supported curves include the NIST, SECG
and Brainpool named curves.`,
		SilenceUsage:      true,
		SilenceErrors:     true,
		PersistentPreRunE: a.setup,
	}

	flags := root.PersistentFlags()
	flags.String("config", "", "config file (YAML)")
	flags.StringP("output", "o", string(OutputFormatText), "output format (text, json, table)")
	flags.BoolP("verbose", "v", false, "verbose output")
	flags.String("log-level", "", "log level (debug, info, warn, error)")
	flags.String("log-format", "", "log format (text, json)")

	root.AddCommand(
		a.genkeyCommand(),
		a.pubkeyCommand(),
		a.inspectCommand(),
		a.signCommand(),
		a.verifyCommand(),
		a.sanCommand(),
		a.listCommand(),
		a.versionCommand(),
	)
	return root
}

// setup binds the executing command's flags and loads the settings
func (a *app) setup(cmd *cobra.Command, _ []string) error {
	if err := a.v.BindPFlags(cmd.Flags()); err != nil {
		return err
	}

	a.cfg = configFromViper(a.v)
	if err := a.cfg.validateOutputFormat(); err != nil {
		return err
	}

	settings, err := a.cfg.LoadSettings()
	if err != nil {
		return err
	}
	logger, err := newLogger(settings, cmd.ErrOrStderr())
	if err != nil {
		return err
	}
	applyMetrics(settings)

	a.settings = settings
	a.logger = logger
	a.logger.Debug("configuration loaded", "config", a.cfg.ConfigFile, "output", a.cfg.OutputFormat)
	return nil
}

// Execute runs the root command, printing any error to stderr
func Execute() error {
	a := newApp()
	if err := a.rootCommand().Execute(); err != nil {
		a.handleError(os.Stderr, err)
		return err
	}
	return nil
}

// handleError prints err in the configured output format
func (a *app) handleError(w io.Writer, err error) {
	printer := NewPrinter(a.cfg.OutputFormat, w)
	if perr := printer.PrintError(err); perr != nil {
		fmt.Fprintf(w, "Error: %v\n", err)
	}
}

// printer returns a Printer writing to the command's stdout
func (a *app) printer(cmd *cobra.Command) *Printer {
	return NewPrinter(a.cfg.OutputFormat, cmd.OutOrStdout())
}

// keyOptions returns the options every pkey constructor receives
func (a *app) keyOptions() []pkey.Option {
	return []pkey.Option{pkey.WithLogger(a.logger)}
}
