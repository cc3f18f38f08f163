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
	"github.com/jeremyhahn/go-pkey/pkg/altname"
	"github.com/jeremyhahn/go-pkey/pkg/curves"
	"github.com/jeremyhahn/go-pkey/pkg/digest"
	"github.com/spf13/cobra"
)

func (a *app) listCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List supported curves, digests and name types",
	}
	cmd.AddCommand(
		&cobra.Command{
			Use:   "curves",
			Short: "List supported EC curves",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, _ []string) error {
				list := make([]*curves.Curve, 0)
				for _, name := range curves.Names() {
					c, err := curves.Lookup(name)
					if err != nil {
						return err
					}
					list = append(list, c)
				}
				return a.printer(cmd).PrintCurves(list)
			},
		},
		&cobra.Command{
			Use:   "digests",
			Short: "List supported message digests",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, _ []string) error {
				return a.printer(cmd).PrintNames("digests", digest.Names())
			},
		},
		&cobra.Command{
			Use:   "names",
			Short: "List alternative name types",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, _ []string) error {
				types := make([]string, 0)
				for _, t := range altname.Types() {
					types = append(types, t.String())
				}
				return a.printer(cmd).PrintNames("types", types)
			},
		},
	)
	return cmd
}
