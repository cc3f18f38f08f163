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
	"encoding/hex"
	"errors"
	"fmt"

	"github.com/jeremyhahn/go-pkey/pkg/pkey"
	"github.com/spf13/cobra"
)

// KeyInfo is the printable summary of a key
type KeyInfo struct {
	ID            string            `json:"id"`
	Type          string            `json:"type"`
	Bits          int               `json:"bits"`
	Curve         string            `json:"curve,omitempty"`
	Private       bool              `json:"private"`
	SignatureSize int               `json:"signature_size"`
	Thumbprint    string            `json:"thumbprint"`
	Parameters    map[string]string `json:"parameters,omitempty"`
}

func (a *app) inspectCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "inspect",
		Short: "Print information about a key",
		Long: `Load a key and print its type, size, curve and SHA-256 JWK thumbprint.
--params adds the RSA parameters (n, e and, for private keys, d, p, q,
dmp1, dmq1, iqmp) in hexadecimal.`,
		Args: cobra.NoArgs,
		RunE: a.runInspect,
	}
	addKeyInputFlags(cmd)
	cmd.Flags().Bool("params", false, "include RSA parameters")
	return cmd
}

func (a *app) runInspect(cmd *cobra.Command, _ []string) error {
	key, err := a.loadKey(cmd)
	if err != nil {
		return err
	}
	defer func() { _ = key.Close() }()

	info, err := describeKey(key, a.v.GetBool("params"))
	if err != nil {
		return err
	}
	return a.printer(cmd).PrintKeyInfo(info)
}

// describeKey collects the KeyInfo for key
func describeKey(key *pkey.Key, withParams bool) (*KeyInfo, error) {
	info := &KeyInfo{
		ID:            key.ID().String(),
		Type:          key.Algorithm().String(),
		Bits:          key.Bits(),
		Curve:         key.CurveName(),
		Private:       key.IsPrivate(),
		SignatureSize: key.SignatureSize(),
	}

	thumb, err := key.Thumbprint()
	switch {
	case err == nil:
		info.Thumbprint = hex.EncodeToString(thumb)
	case errors.Is(err, pkey.ErrUnsupported):
		// JWK has no representation for this curve
	default:
		return nil, fmt.Errorf("failed to compute thumbprint: %w", err)
	}

	if !withParams || key.Algorithm() != pkey.AlgorithmRSA {
		return info, nil
	}
	params, err := key.Parameters()
	if err != nil {
		return nil, err
	}
	info.Parameters = make(map[string]string)
	for _, name := range params.Names() {
		v, err := params.Get(name)
		if errors.Is(err, pkey.ErrNoPrivateKey) {
			continue
		}
		if err != nil {
			return nil, err
		}
		info.Parameters[name] = v.Text(16)
	}
	return info, nil
}
