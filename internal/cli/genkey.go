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
	"strings"

	"github.com/jeremyhahn/go-pkey/internal/password"
	"github.com/jeremyhahn/go-pkey/pkg/pkey"
	"github.com/spf13/cobra"
)

func (a *app) genkeyCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "genkey",
		Short: "Generate a new RSA or EC private key",
		Long: `Generate a new private key and write it as PKCS#8.

Settings come from the selected profile of the configuration file
(keys.default when --profile is not given). --type, --bits, --exp and
--curve override the profile.`,
		Example: `  pkey genkey --type RSA --bits 3072 --out rsa.pem
  pkey genkey --type EC --curve brainpoolP256r1 --outform der --out ec.der
  pkey genkey --profile legacy --passout secret`,
		Args: cobra.NoArgs,
		RunE: a.runGenkey,
	}
	cmd.Flags().String("profile", "", "key profile from the configuration file")
	cmd.Flags().String("type", "", "key type (RSA, EC)")
	cmd.Flags().Int64("bits", 0, "RSA modulus size in bits")
	cmd.Flags().Int64("exp", 0, "RSA public exponent")
	cmd.Flags().String("curve", "", "EC curve name")
	cmd.Flags().String("outform", "pem", "output format (pem, der)")
	cmd.Flags().String("passout", "", "encrypt the PEM output with this password (pass:, env: or file: source)")
	cmd.Flags().String("out", "", "output file (default standard output)")
	return cmd
}

// generateConfig resolves the profile and applies flag overrides
func (a *app) generateConfig() (pkey.GenerateConfig, error) {
	gen, err := a.settings.Profile(a.v.GetString("profile"))
	if err != nil {
		return pkey.GenerateConfig{}, err
	}
	if typ := a.v.GetString("type"); typ != "" {
		gen.Type = typ
	}
	if bits := a.v.GetInt64("bits"); bits != 0 {
		gen.Bits = bits
	}
	if exp := a.v.GetInt64("exp"); exp != 0 {
		gen.Exp = exp
	}
	if curve := a.v.GetString("curve"); curve != "" {
		gen.Curve = curve
	}
	return gen, nil
}

func (a *app) runGenkey(cmd *cobra.Command, _ []string) error {
	gen, err := a.generateConfig()
	if err != nil {
		return err
	}

	key, err := pkey.Generate(gen, a.keyOptions()...)
	if err != nil {
		return fmt.Errorf("failed to generate key: %w", err)
	}
	defer func() { _ = key.Close() }()

	passout, err := password.Resolve(a.v.GetString("passout"))
	if err != nil {
		return err
	}
	defer passout.Clear()

	pw := passout.Bytes()
	defer clear(pw)

	var out []byte
	switch outform := strings.ToLower(a.v.GetString("outform")); {
	case len(pw) > 0:
		if outform != "pem" {
			return fmt.Errorf("--passout requires --outform pem")
		}
		out, err = key.ToEncryptedPEM(pw)
	case outform == "pem":
		out, err = key.ToPEM(pkey.ExportPrivate)
	case outform == "der":
		out, err = key.ToDER(pkey.ExportPrivate)
	default:
		return fmt.Errorf("unknown output format: %s (must be pem or der)", outform)
	}
	if err != nil {
		return fmt.Errorf("failed to export key: %w", err)
	}
	defer clear(out)

	path := a.v.GetString("out")
	written, err := writeOutput(cmd, path, out, 0600)
	if err != nil {
		return err
	}
	if written {
		return NewPrinter(a.cfg.OutputFormat, cmd.ErrOrStderr()).
			PrintSuccess(fmt.Sprintf("Generated %s (%s) to %s", key, key.ID(), path))
	}
	return nil
}
