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

	"github.com/jeremyhahn/go-pkey/pkg/altname"
	"github.com/spf13/cobra"
)

func (a *app) sanCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "san TYPE:VALUE...",
		Short: "Build a SubjectAltName extension",
		Long: `Build an X.509 SubjectAltName extension from TYPE:VALUE arguments and
print its entries and DER encoding. TYPE is email, DNS or URI (or any
of their aliases). Other GeneralName types are recognized but cannot
be encoded.`,
		Example: `  pkey san DNS:example.com DNS:www.example.com email:admin@example.com
  pkey san -o json URI:https://example.com`,
		Args: cobra.MinimumNArgs(1),
		RunE: a.runSan,
	}
	cmd.Flags().Bool("critical", false, "mark the extension critical")
	return cmd
}

func (a *app) runSan(cmd *cobra.Command, args []string) error {
	names := altname.New()
	defer func() { _ = names.Close() }()

	for _, arg := range args {
		typ, value, ok := strings.Cut(arg, ":")
		if !ok {
			return fmt.Errorf("invalid alternative name %q, want TYPE:VALUE", arg)
		}
		if err := names.Add(typ, value); err != nil {
			return fmt.Errorf("%s: %w", arg, err)
		}
	}

	ext, err := names.Extension(a.v.GetBool("critical"))
	if err != nil {
		return err
	}
	a.logger.Debug("subject alternative names encoded", "entries", names.Len(), "size", len(ext.Value))
	return a.printer(cmd).PrintAltNames(names.Entries(), ext)
}
