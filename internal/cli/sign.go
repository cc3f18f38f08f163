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
	"encoding/base64"
	"errors"
	"fmt"
	"strings"

	"github.com/jeremyhahn/go-pkey/pkg/digest"
	"github.com/spf13/cobra"
)

// ErrSignatureInvalid is returned by verify when the signature does not match
var ErrSignatureInvalid = errors.New("signature verification failed")

func (a *app) signCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "sign",
		Short: "Sign the digest of a message",
		Long: `Hash the message with --digest and sign the digest with the private key.
RSA keys produce PKCS#1 v1.5 signatures and EC keys ASN.1 DER ECDSA
signatures. The signature is printed base64 encoded unless --out is set.`,
		Example: `  pkey sign --in rsa.pem --data message.txt
  echo -n hello | pkey sign --in ec.pem --digest sha3-256`,
		Args: cobra.NoArgs,
		RunE: a.runSign,
	}
	addKeyInputFlags(cmd)
	addDigestFlags(cmd)
	cmd.Flags().String("out", "", "write the raw signature to this file")
	_ = cmd.MarkFlagRequired("in")
	return cmd
}

func (a *app) verifyCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "verify",
		Short: "Verify a signature over the digest of a message",
		Args:  cobra.NoArgs,
		RunE:  a.runVerify,
	}
	addKeyInputFlags(cmd)
	addDigestFlags(cmd)
	cmd.Flags().String("signature", "", "base64 encoded signature")
	cmd.Flags().String("sigfile", "", "file holding the raw signature")
	_ = cmd.MarkFlagRequired("in")
	cmd.MarkFlagsOneRequired("signature", "sigfile")
	cmd.MarkFlagsMutuallyExclusive("signature", "sigfile")
	return cmd
}

func addDigestFlags(cmd *cobra.Command) {
	cmd.Flags().StringP("digest", "d", "sha256",
		fmt.Sprintf("message digest (%s)", strings.Join(digest.Names(), ", ")))
	cmd.Flags().String("data", "", "message file (default standard input)")
}

// digestMessage hashes the message selected by --data
func (a *app) digestMessage(cmd *cobra.Command) (*digest.Context, error) {
	path := a.v.GetString("data")
	if a.v.GetString("in") == stdinPath && (path == "" || path == stdinPath) {
		return nil, fmt.Errorf("key and message cannot both be read from standard input")
	}
	data, err := readInput(cmd, path)
	if err != nil {
		return nil, err
	}
	return digest.Sum(a.v.GetString("digest"), data)
}

func (a *app) runSign(cmd *cobra.Command, _ []string) error {
	d, err := a.digestMessage(cmd)
	if err != nil {
		return err
	}
	key, err := a.loadKey(cmd)
	if err != nil {
		return err
	}
	defer func() { _ = key.Close() }()

	sig, err := key.Sign(d)
	if err != nil {
		return fmt.Errorf("failed to sign: %w", err)
	}
	a.logger.Debug("message signed", "key_id", key.ID().String(), "digest", d.Name(), "size", len(sig))

	if path := a.v.GetString("out"); path != "" {
		_, err := writeOutput(cmd, path, sig, 0644)
		return err
	}
	return a.printer(cmd).PrintSignature(base64.StdEncoding.EncodeToString(sig))
}

func (a *app) runVerify(cmd *cobra.Command, _ []string) error {
	sig, err := a.readSignature(cmd)
	if err != nil {
		return err
	}
	d, err := a.digestMessage(cmd)
	if err != nil {
		return err
	}
	key, err := a.loadKey(cmd)
	if err != nil {
		return err
	}
	defer func() { _ = key.Close() }()

	valid, err := key.Verify(sig, d)
	if err != nil {
		return fmt.Errorf("failed to verify: %w", err)
	}
	if err := a.printer(cmd).PrintVerification(valid); err != nil {
		return err
	}
	if !valid {
		return ErrSignatureInvalid
	}
	return nil
}

func (a *app) readSignature(cmd *cobra.Command) ([]byte, error) {
	if path := a.v.GetString("sigfile"); path != "" {
		return readInput(cmd, path)
	}
	sig, err := base64.StdEncoding.DecodeString(strings.TrimSpace(a.v.GetString("signature")))
	if err != nil {
		return nil, fmt.Errorf("invalid base64 signature: %w", err)
	}
	return sig, nil
}
