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

package altname

import "errors"

var (
	// ErrUnknownType is returned when a name type is not in the type table
	ErrUnknownType = errors.New("altname: unknown name type")

	// ErrInvalidArgument is returned for values that are not IA5 strings
	ErrInvalidArgument = errors.New("altname: invalid argument")

	// ErrUnsupported is returned for recognized name types whose value
	// encoding is not implemented
	ErrUnsupported = errors.New("altname: unsupported name type")

	// ErrEmpty is returned when encoding a list with no entries
	ErrEmpty = errors.New("altname: empty name list")

	// ErrClosed is returned when a closed list is used
	ErrClosed = errors.New("altname: list closed")
)
