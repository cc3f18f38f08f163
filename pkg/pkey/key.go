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

// Package pkey unifies RSA and EC keys behind one type.
//
// A Key is built either by generating fresh key material or by loading
// serialized PEM or DER input, and then offers parameter extraction,
// signing, verification and export. The key material is owned by the
// Key and zeroized exactly once, by Close or immediately when
// construction fails partway.
//
// Example:
//
//	key, err := pkey.New(pkey.GenerateConfig{Type: "EC", Curve: "prime256v1"})
//	if err != nil {
//	    return err
//	}
//	defer key.Close()
//
//	d, _ := digest.Sum("sha256", message)
//	sig, err := key.Sign(d)
package pkey

import (
	"crypto"
	"fmt"

	"github.com/google/uuid"
	"github.com/jeremyhahn/go-pkey/pkg/guard"
	"github.com/jeremyhahn/go-pkey/pkg/logging"
	"github.com/jeremyhahn/go-pkey/pkg/metrics"
)

// Key is a generated or loaded asymmetric key.
//
// A Key is not safe for concurrent use. The metadata accessors (ID,
// Algorithm, Bits, CurveName, IsPrivate, SignatureSize) remain readable
// after Close; every other method then fails with ErrClosed.
type Key struct {
	id      uuid.UUID
	h       *guard.Guard[*handle]
	alg     Algorithm
	bits    int
	curve   string
	private bool
	sigSize int
	logger  *logging.Logger
}

// New constructs a Key from input, which must be one of:
//
//   - GenerateConfig or *GenerateConfig: generate a new key
//   - LoadInput or *LoadInput: decode serialized key material
//   - []byte or string: decode with FormatAny and RoleAny
//
// Any other input, including nil pointers, fails with ErrInvalidArgument.
func New(input any, opts ...Option) (*Key, error) {
	switch in := input.(type) {
	case GenerateConfig:
		return Generate(in, opts...)
	case *GenerateConfig:
		if in != nil {
			return Generate(*in, opts...)
		}
	case LoadInput:
		return load(in, newOptions(opts))
	case *LoadInput:
		if in != nil {
			return load(*in, newOptions(opts))
		}
	case []byte:
		return Load(in, FormatAny, RoleAny, opts...)
	case string:
		return Load([]byte(in), FormatAny, RoleAny, opts...)
	}
	return nil, fmt.Errorf("%w: cannot construct a key from %T", ErrInvalidArgument, input)
}

// newKey takes ownership of h. The caller's scope keeps ownership of the
// underlying key material until newKey succeeds.
func newKey(h *handle, o *options) (*Key, error) {
	id, err := uuid.NewRandom()
	if err != nil {
		return nil, fmt.Errorf("%w: key id: %w", ErrAllocationFailure, err)
	}
	k := &Key{
		id:      id,
		alg:     h.alg,
		bits:    h.bits,
		curve:   h.curve,
		private: h.private != nil,
		sigSize: h.sigSize,
		logger:  o.logger.With("key_id", id.String()),
	}
	counted := metrics.HandleAcquired()
	k.h = guard.New(h, func(h *handle) {
		h.release()
		if counted {
			metrics.HandleReleased()
		}
	})
	return k, nil
}

// live returns the handle or ErrClosed.
func (k *Key) live() (*handle, error) {
	if k == nil || k.h == nil || k.h.Released() {
		return nil, ErrClosed
	}
	return k.h.Handle(), nil
}

// Close zeroizes the key material. It is safe to call more than once.
func (k *Key) Close() error {
	if k == nil || k.h == nil || k.h.Released() {
		return nil
	}
	k.h.Release()
	k.logger.Debug("key closed")
	return nil
}

// ID returns the random identifier assigned at construction.
func (k *Key) ID() uuid.UUID {
	return k.id
}

// Algorithm returns the key family.
func (k *Key) Algorithm() Algorithm {
	return k.alg
}

// Bits returns the RSA modulus size or the EC field size.
func (k *Key) Bits() int {
	return k.bits
}

// CurveName returns the registry name of an EC key's curve, or "" for RSA.
func (k *Key) CurveName() string {
	return k.curve
}

// IsPrivate reports whether the key carries private material.
func (k *Key) IsPrivate() bool {
	return k.private
}

// SignatureSize returns the maximum signature length in bytes.
func (k *Key) SignatureSize() int {
	return k.sigSize
}

// Public returns the public key.
func (k *Key) Public() (crypto.PublicKey, error) {
	h, err := k.live()
	if err != nil {
		return nil, err
	}
	return h.public, nil
}

// String describes the key, e.g. "RSA-2048 private key".
func (k *Key) String() string {
	kind := "public"
	if k.private {
		kind = "private"
	}
	switch k.alg {
	case AlgorithmRSA:
		return fmt.Sprintf("RSA-%d %s key", k.bits, kind)
	case AlgorithmEC:
		return fmt.Sprintf("EC %s %s key", k.curve, kind)
	}
	return "unknown key"
}

// recordError counts a failed operation against the key family.
func recordError(op string, alg Algorithm, err error) {
	if err != nil {
		metrics.RecordError(op, alg.String(), errorType(err))
	}
}
