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
	"crypto/rsa"
	"fmt"
	"math/big"
	"strings"

	"github.com/jeremyhahn/go-pkey/pkg/metrics"
)

// RSA parameter names
const (
	ParamN    = "n"
	ParamE    = "e"
	ParamD    = "d"
	ParamP    = "p"
	ParamQ    = "q"
	ParamDMP1 = "dmp1"
	ParamDMQ1 = "dmq1"
	ParamIQMP = "iqmp"
)

type rsaParam struct {
	private bool
	compute func(pub *rsa.PublicKey, priv *rsa.PrivateKey) *big.Int
}

var rsaParams = map[string]rsaParam{
	ParamN: {false, func(pub *rsa.PublicKey, _ *rsa.PrivateKey) *big.Int {
		return new(big.Int).Set(pub.N)
	}},
	ParamE: {false, func(pub *rsa.PublicKey, _ *rsa.PrivateKey) *big.Int {
		return big.NewInt(int64(pub.E))
	}},
	ParamD: {true, func(_ *rsa.PublicKey, priv *rsa.PrivateKey) *big.Int {
		return new(big.Int).Set(priv.D)
	}},
	ParamP: {true, func(_ *rsa.PublicKey, priv *rsa.PrivateKey) *big.Int {
		return new(big.Int).Set(priv.Primes[0])
	}},
	ParamQ: {true, func(_ *rsa.PublicKey, priv *rsa.PrivateKey) *big.Int {
		return new(big.Int).Set(priv.Primes[1])
	}},
	ParamDMP1: {true, func(_ *rsa.PublicKey, priv *rsa.PrivateKey) *big.Int {
		return crtExponent(priv.D, priv.Primes[0])
	}},
	ParamDMQ1: {true, func(_ *rsa.PublicKey, priv *rsa.PrivateKey) *big.Int {
		return crtExponent(priv.D, priv.Primes[1])
	}},
	ParamIQMP: {true, func(_ *rsa.PublicKey, priv *rsa.PrivateKey) *big.Int {
		return new(big.Int).ModInverse(priv.Primes[1], priv.Primes[0])
	}},
}

// crtExponent returns d mod (prime-1).
func crtExponent(d, prime *big.Int) *big.Int {
	pm1 := new(big.Int).Sub(prime, big.NewInt(1))
	defer wipeInt(pm1)
	return new(big.Int).Mod(d, pm1)
}

// RSAParameters is a lazily computed view of an RSA key's parameters.
// Each value is computed on first access and memoized until the key is
// closed; afterwards every getter fails with ErrClosed. Returned values
// are copies.
type RSAParameters struct {
	key *Key
}

// Parameters returns the RSA parameter view. EC keys fail with
// ErrUnsupported.
func (k *Key) Parameters() (*RSAParameters, error) {
	h, err := k.live()
	if err != nil {
		return nil, err
	}
	switch h.alg {
	case AlgorithmRSA:
		return &RSAParameters{key: k}, nil
	case AlgorithmEC:
		err = fmt.Errorf("%w: parameters of EC not supported", ErrUnsupported)
	default:
		err = fmt.Errorf("%w: key type not supported", ErrUnsupported)
	}
	recordError(metrics.OpParameters, h.alg, err)
	return nil, err
}

// Get returns the named parameter: n, e, d, p, q, dmp1, dmq1 or iqmp.
func (p *RSAParameters) Get(name string) (*big.Int, error) {
	h, err := p.key.live()
	if err != nil {
		return nil, err
	}
	name = strings.ToLower(name)
	param, ok := rsaParams[name]
	if !ok {
		return nil, fmt.Errorf("%w: unknown RSA parameter %q", ErrInvalidArgument, name)
	}

	if v, ok := h.params[name]; ok {
		return new(big.Int).Set(v), nil
	}

	priv, _ := h.private.(*rsa.PrivateKey)
	if param.private {
		if priv == nil {
			return nil, fmt.Errorf("%w: RSA parameter %q", ErrNoPrivateKey, name)
		}
		if len(priv.Primes) < 2 {
			return nil, fmt.Errorf("%w: RSA parameter %q needs the prime factors", ErrUnsupported, name)
		}
	}

	v := param.compute(h.public.(*rsa.PublicKey), priv)
	if v == nil {
		return nil, fmt.Errorf("%w: RSA parameter %q", ErrOperationFailed, name)
	}
	if h.params == nil {
		h.params = make(map[string]*big.Int, len(rsaParams))
	}
	h.params[name] = v
	return new(big.Int).Set(v), nil
}

// N returns the modulus.
func (p *RSAParameters) N() (*big.Int, error) { return p.Get(ParamN) }

// E returns the public exponent.
func (p *RSAParameters) E() (*big.Int, error) { return p.Get(ParamE) }

// D returns the private exponent.
func (p *RSAParameters) D() (*big.Int, error) { return p.Get(ParamD) }

// P returns the first prime factor.
func (p *RSAParameters) P() (*big.Int, error) { return p.Get(ParamP) }

// Q returns the second prime factor.
func (p *RSAParameters) Q() (*big.Int, error) { return p.Get(ParamQ) }

// DMP1 returns d mod (p-1).
func (p *RSAParameters) DMP1() (*big.Int, error) { return p.Get(ParamDMP1) }

// DMQ1 returns d mod (q-1).
func (p *RSAParameters) DMQ1() (*big.Int, error) { return p.Get(ParamDMQ1) }

// IQMP returns q^-1 mod p.
func (p *RSAParameters) IQMP() (*big.Int, error) { return p.Get(ParamIQMP) }

// Names returns the parameter names available for this key: all eight
// for private keys, n and e for public keys.
func (p *RSAParameters) Names() []string {
	names := []string{ParamN, ParamE}
	if p.key.private {
		names = append(names, ParamD, ParamP, ParamQ, ParamDMP1, ParamDMQ1, ParamIQMP)
	}
	return names
}
