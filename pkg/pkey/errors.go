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

import (
	"errors"
	"fmt"

	"github.com/jeremyhahn/go-pkey/pkg/encoding"
)

var (
	// ErrAllocationFailure is returned when the entropy source fails
	// while generating key material
	ErrAllocationFailure = errors.New("pkey: allocation failure")

	// ErrInvalidArgument is returned for inputs of the wrong shape or type
	ErrInvalidArgument = errors.New("pkey: invalid argument")

	// ErrBitsOutOfRange is returned when an RSA modulus size does not fit
	// an unsigned 32-bit integer. It also matches ErrInvalidArgument.
	ErrBitsOutOfRange = fmt.Errorf("%w: bits out of range", ErrInvalidArgument)

	// ErrUnknownCurve is returned for curve names missing from the registry
	ErrUnknownCurve = errors.New("pkey: unknown curve")

	// ErrUnsupportedType is returned for key types other than RSA and EC
	ErrUnsupportedType = errors.New("pkey: unsupported key type")

	// ErrUnsupported is returned for operations a key family does not offer
	ErrUnsupported = errors.New("pkey: unsupported operation")

	// ErrDecodeFailure is returned when no decode strategy accepts the input
	ErrDecodeFailure = errors.New("pkey: decode failure")

	// ErrOperationFailed is returned when a cryptographic primitive fails
	ErrOperationFailed = errors.New("pkey: operation failed")

	// ErrClosed is returned when a closed key is used
	ErrClosed = errors.New("pkey: key closed")

	// ErrNoPrivateKey is returned when an operation needs private material
	// that a public key does not carry
	ErrNoPrivateKey = errors.New("pkey: no private key")
)

// errorType maps an error to the metrics error_type label.
func errorType(err error) string {
	switch {
	case errors.Is(err, ErrClosed):
		return "closed"
	case errors.Is(err, ErrBitsOutOfRange):
		return "bits_out_of_range"
	case errors.Is(err, ErrInvalidArgument):
		return "invalid_argument"
	case errors.Is(err, ErrUnknownCurve):
		return "unknown_curve"
	case errors.Is(err, ErrUnsupportedType):
		return "unsupported_type"
	case errors.Is(err, ErrUnsupported), errors.Is(err, encoding.ErrUnsupportedCurve):
		return "unsupported"
	case errors.Is(err, ErrDecodeFailure):
		return "decode_failure"
	case errors.Is(err, ErrAllocationFailure):
		return "allocation_failure"
	case errors.Is(err, ErrNoPrivateKey):
		return "no_private_key"
	default:
		return "operation_failed"
	}
}
