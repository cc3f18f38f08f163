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

package pkey

import "github.com/jeremyhahn/go-pkey/pkg/logging"

// Option configures key construction.
type Option func(*options)

type options struct {
	logger *logging.Logger
}

// WithLogger sets the logger used for key lifecycle and decode events.
func WithLogger(logger *logging.Logger) Option {
	return func(o *options) {
		if logger != nil {
			o.logger = logger
		}
	}
}

func newOptions(opts []Option) *options {
	o := &options{logger: logging.DefaultLogger()}
	for _, opt := range opts {
		opt(o)
	}
	return o
}
