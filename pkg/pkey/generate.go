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
	"crypto/ecdsa"
	"crypto/rand"
	"crypto/rsa"
	"fmt"
	"math/big"

	"github.com/jeremyhahn/go-pkey/pkg/curves"
	"github.com/jeremyhahn/go-pkey/pkg/guard"
	"github.com/jeremyhahn/go-pkey/pkg/metrics"
)

// RSA modulus limits enforced by the engine
const (
	minRSABits = 1024
	maxRSABits = 16384
)

// Generate creates a new key. Zero config fields take the defaults
// (RSA, 2048 bits, exponent 65537, curve prime192v1).
//
// RSA keys with exponent 65537 come from crypto/rsa; any other odd
// exponent uses a prime-pair search. EC keys use the named curve and
// are always serialized in named-curve form with uncompressed points.
func Generate(cfg GenerateConfig, opts ...Option) (key *Key, err error) {
	o := newOptions(opts)
	cfg = cfg.WithDefaults()

	alg, err := parseAlgorithm(cfg.Type)
	done := metrics.Track(metrics.OpGenerate)
	defer func() {
		done(alg.String(), err)
		recordError(metrics.OpGenerate, alg, err)
	}()
	if err != nil {
		return nil, err
	}

	var priv any
	switch alg {
	case AlgorithmRSA:
		priv, err = generateRSA(cfg.Bits, cfg.Exp)
	case AlgorithmEC:
		priv, err = generateEC(cfg.Curve)
	}
	if err != nil {
		return nil, err
	}
	key, err = bind(priv, o)
	if err != nil {
		return nil, err
	}

	key.logger.Debug("key generated", "algorithm", alg.String(), "bits", key.bits, "curve", key.curve)
	return key, nil
}

func generateRSA(bits, exp int64) (*rsa.PrivateKey, error) {
	if err := checkBits(bits); err != nil {
		return nil, err
	}
	if err := checkExponent(exp); err != nil {
		return nil, err
	}
	if bits < minRSABits || bits > maxRSABits {
		return nil, fmt.Errorf("%w: %d-bit modulus outside [%d, %d]", ErrOperationFailed, bits, minRSABits, maxRSABits)
	}

	e := guard.New(big.NewInt(exp), wipeInt)
	defer e.Release()

	if exp == DefaultExponent {
		priv, err := rsa.GenerateKey(rand.Reader, int(bits))
		if err != nil {
			return nil, fmt.Errorf("%w: rsa key generation: %w", ErrOperationFailed, err)
		}
		return priv, nil
	}
	return generateRSAWithExponent(int(bits), e.Handle())
}

// generateRSAWithExponent searches for primes p and q such that e is
// invertible modulo (p-1)(q-1) and n = pq has exactly bits bits.
func generateRSAWithExponent(bits int, e *big.Int) (*rsa.PrivateKey, error) {
	pBits := (bits + 1) / 2
	qBits := bits - pBits
	one := big.NewInt(1)

	for {
		scope := guard.NewScope()

		p, err := rand.Prime(rand.Reader, pBits)
		if err != nil {
			scope.Close()
			return nil, fmt.Errorf("%w: prime generation: %w", ErrAllocationFailure, err)
		}
		guard.Track(scope, p, wipeInt)

		q, err := rand.Prime(rand.Reader, qBits)
		if err != nil {
			scope.Close()
			return nil, fmt.Errorf("%w: prime generation: %w", ErrAllocationFailure, err)
		}
		guard.Track(scope, q, wipeInt)

		n := new(big.Int).Mul(p, q)
		if p.Cmp(q) == 0 || n.BitLen() != bits {
			scope.Close()
			continue
		}

		pm1 := guard.Track(scope, new(big.Int).Sub(p, one), wipeInt)
		qm1 := guard.Track(scope, new(big.Int).Sub(q, one), wipeInt)
		phi := guard.Track(scope, new(big.Int).Mul(pm1.Handle(), qm1.Handle()), wipeInt)

		d := new(big.Int).ModInverse(e, phi.Handle())
		if d == nil {
			scope.Close()
			continue
		}
		guard.Track(scope, d, wipeInt)

		priv := &rsa.PrivateKey{
			PublicKey: rsa.PublicKey{N: n, E: int(e.Int64())},
			D:         d,
			Primes:    []*big.Int{p, q},
		}
		priv.Precompute()
		guard.Track(scope, &priv.Precomputed, wipePrecomputed)
		if err := priv.Validate(); err != nil {
			scope.Close()
			return nil, fmt.Errorf("%w: rsa key validation: %w", ErrOperationFailed, err)
		}

		// p, q, d and the CRT values now belong to priv.
		pm1.Release()
		qm1.Release()
		phi.Release()
		scope.Commit()
		return priv, nil
	}
}

func generateEC(name string) (*ecdsa.PrivateKey, error) {
	c, err := lookupCurve(name)
	if err != nil {
		return nil, err
	}
	priv, err := ecdsa.GenerateKey(c.Curve(), rand.Reader)
	if err != nil {
		return nil, fmt.Errorf("%w: ec key generation: %w", ErrAllocationFailure, err)
	}
	return priv, nil
}

func lookupCurve(name string) (*curves.Curve, error) {
	c, err := curves.Lookup(name)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrUnknownCurve, err)
	}
	return c, nil
}
