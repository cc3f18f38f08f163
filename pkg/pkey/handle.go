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
	"crypto"
	"crypto/ecdsa"
	"crypto/ed25519"
	"crypto/elliptic"
	"crypto/rsa"
	"fmt"
	"math/big"

	"github.com/jeremyhahn/go-pkey/pkg/curves"
)

// handle is the key material owned by one Key.
type handle struct {
	alg     Algorithm
	private crypto.Signer
	public  crypto.PublicKey
	sigSize int
	bits    int
	curve   string

	// memoized RSA parameters, wiped with the key
	params map[string]*big.Int
}

// newHandle wraps a decoded or generated key. Keys that are neither RSA
// nor EC fail with ErrUnsupportedType; the caller still owns them.
func newHandle(key any) (*handle, error) {
	switch k := key.(type) {
	case *rsa.PrivateKey:
		h := rsaHandle(&k.PublicKey)
		h.private = k
		return h, nil
	case *rsa.PublicKey:
		return rsaHandle(k), nil
	case *ecdsa.PrivateKey:
		h := ecHandle(&k.PublicKey)
		h.private = k
		return h, nil
	case *ecdsa.PublicKey:
		return ecHandle(k), nil
	case nil:
		return nil, fmt.Errorf("%w: no key", ErrInvalidArgument)
	}
	return nil, fmt.Errorf("%w: %T", ErrUnsupportedType, key)
}

func rsaHandle(pub *rsa.PublicKey) *handle {
	return &handle{
		alg:     AlgorithmRSA,
		public:  pub,
		sigSize: (pub.N.BitLen() + 7) / 8,
		bits:    pub.N.BitLen(),
	}
}

func ecHandle(pub *ecdsa.PublicKey) *handle {
	name := pub.Curve.Params().Name
	if c, err := curves.ByCurve(pub.Curve); err == nil {
		name = c.Name
	}
	return &handle{
		alg:     AlgorithmEC,
		public:  pub,
		sigSize: ecdsaSignatureSize(pub.Curve),
		bits:    pub.Curve.Params().BitSize,
		curve:   name,
	}
}

// ecdsaSignatureSize is the largest DER ECDSA-Sig-Value for the curve:
// a SEQUENCE of two INTEGERs each as long as the group order, plus a
// leading zero when the order's top bit is set.
func ecdsaSignatureSize(curve elliptic.Curve) int {
	order := curve.Params().N
	n := (order.BitLen() + 7) / 8
	if order.BitLen()%8 == 0 {
		n++
	}
	seq := 2 * (2 + n)
	if seq < 128 {
		return 2 + seq
	}
	return 3 + seq
}

// release wipes private material and memoized parameters.
func (h *handle) release() {
	wipeKey(h.private)
	for _, v := range h.params {
		wipeInt(v)
	}
	h.params = nil
	h.private = nil
}

// wipeKey zeroizes the secret parts of a private key in place.
func wipeKey(key any) {
	switch k := key.(type) {
	case *rsa.PrivateKey:
		wipeInt(k.D)
		for _, p := range k.Primes {
			wipeInt(p)
		}
		wipePrecomputed(&k.Precomputed)
	case *ecdsa.PrivateKey:
		wipeInt(k.D)
	case ed25519.PrivateKey:
		clear(k)
	}
}

func wipePrecomputed(pre *rsa.PrecomputedValues) {
	wipeInt(pre.Dp)
	wipeInt(pre.Dq)
	wipeInt(pre.Qinv)
	for _, crt := range pre.CRTValues {
		wipeInt(crt.Exp)
		wipeInt(crt.Coeff)
		wipeInt(crt.R)
	}
}

func wipeInt(x *big.Int) {
	if x == nil {
		return
	}
	clear(x.Bits())
	x.SetInt64(0)
}
