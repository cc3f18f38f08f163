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

	"github.com/jeremyhahn/go-pkey/internal/password"
	"github.com/jeremyhahn/go-pkey/pkg/pkey"
	"github.com/spf13/cobra"
)

// stdinPath selects standard input or output in place of a file
const stdinPath = "-"

// readInput reads path, or standard input when path is empty or "-"
func readInput(cmd *cobra.Command, path string) ([]byte, error) {
	if path == "" || path == stdinPath {
		data, err := io.ReadAll(cmd.InOrStdin())
		if err != nil {
			return nil, fmt.Errorf("failed to read standard input: %w", err)
		}
		return data, nil
	}
	// #nosec G304 - Input path is provided by the user
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}
	return data, nil
}

// writeOutput writes data to path with the given mode, or to the
// command's stdout when path is empty or "-". It reports whether a
// file was written.
func writeOutput(cmd *cobra.Command, path string, data []byte, mode os.FileMode) (bool, error) {
	if path == "" || path == stdinPath {
		_, err := cmd.OutOrStdout().Write(data)
		return false, err
	}
	if err := os.WriteFile(path, data, mode); err != nil {
		return false, fmt.Errorf("failed to write %s: %w", path, err)
	}
	return true, nil
}

// addKeyInputFlags registers the flags understood by loadKey
func addKeyInputFlags(cmd *cobra.Command) {
	cmd.Flags().StringP("in", "i", "", "key file (\"-\" for standard input)")
	cmd.Flags().String("inform", "any", "input format (any, pem, der)")
	cmd.Flags().String("role", "any", "key role to decode (any, private, public)")
	cmd.Flags().String("passin", "", "password for encrypted private keys (pass:, env: or file: source)")
}

// loadKey decodes the key selected by the input flags. The raw input
// is wiped once the key is decoded.
func (a *app) loadKey(cmd *cobra.Command) (*pkey.Key, error) {
	format, err := pkey.ParseFormat(a.v.GetString("inform"))
	if err != nil {
		return nil, err
	}
	role, err := pkey.ParseRole(a.v.GetString("role"))
	if err != nil {
		return nil, err
	}

	data, err := readInput(cmd, a.v.GetString("in"))
	if err != nil {
		return nil, err
	}
	defer clear(data)

	passin, err := password.Resolve(a.v.GetString("passin"))
	if err != nil {
		return nil, err
	}
	defer passin.Clear()

	pw := passin.Bytes()
	defer clear(pw)

	key, err := pkey.LoadWithPassword(data, pw, format, role, a.keyOptions()...)
	if err != nil {
		return nil, fmt.Errorf("failed to load key: %w", err)
	}
	a.logger.Debug("key loaded", "key_id", key.ID().String(), "key", key.String())
	return key, nil
}
