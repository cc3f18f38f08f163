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

	"github.com/jeremyhahn/go-pkey/pkg/pkey"
	"github.com/spf13/cobra"
)

func (a *app) pubkeyCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "pubkey",
		Short: "Extract the public key",
		Long:  `Load a private or public key and write its public half as PKIX PEM, DER or JWK`,
		Example: `  pkey pubkey --in rsa.pem
  pkey pubkey --in ec.der --outform jwk`,
		Args: cobra.NoArgs,
		RunE: a.runPubkey,
	}
	addKeyInputFlags(cmd)
	cmd.Flags().String("outform", "pem", "output format (pem, der, jwk)")
	cmd.Flags().String("out", "", "output file (default standard output)")
	return cmd
}

func (a *app) runPubkey(cmd *cobra.Command, _ []string) error {
	key, err := a.loadKey(cmd)
	if err != nil {
		return err
	}
	defer func() { _ = key.Close() }()

	var out []byte
	switch outform := strings.ToLower(a.v.GetString("outform")); outform {
	case "pem":
		out, err = key.ToPEM(pkey.ExportPublic)
	case "der":
		out, err = key.ToDER(pkey.ExportPublic)
	case "jwk":
		out, err = key.ToJWK(pkey.ExportPublic)
		out = append(out, '\n')
	default:
		return fmt.Errorf("unknown output format: %s (must be pem, der, or jwk)", outform)
	}
	if err != nil {
		return fmt.Errorf("failed to export public key: %w", err)
	}

	_, err = writeOutput(cmd, a.v.GetString("out"), out, 0644)
	return err
}
