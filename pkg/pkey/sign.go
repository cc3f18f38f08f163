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
	"crypto/rand"
	"crypto/rsa"
	"errors"
	"fmt"
	"io"

	"github.com/jeremyhahn/go-pkey/pkg/digest"
	"github.com/jeremyhahn/go-pkey/pkg/metrics"
)

// Sign signs the finalized digest d, finalizing it first if needed.
// RSA keys produce PKCS#1 v1.5 signatures and EC keys ASN.1 DER ECDSA
// signatures.
func (k *Key) Sign(d *digest.Context) (sig []byte, err error) {
	h, err := k.live()
	if err != nil {
		return nil, err
	}
	done := metrics.Track(metrics.OpSign)
	defer func() {
		done(h.alg.String(), err)
		recordError(metrics.OpSign, h.alg, err)
	}()

	if d == nil {
		return nil, fmt.Errorf("%w: nil digest", ErrInvalidArgument)
	}
	if h.private == nil {
		return nil, fmt.Errorf("%w: %w", ErrOperationFailed, ErrNoPrivateKey)
	}

	raw, err := signDigest(h.private, rand.Reader, d.Final(), d.Hash())
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrOperationFailed, err)
	}
	if len(raw) > h.sigSize {
		return nil, fmt.Errorf("%w: %d-byte signature exceeds %d-byte buffer", ErrOperationFailed, len(raw), h.sigSize)
	}

	sig = make([]byte, h.sigSize)
	return sig[:copy(sig, raw)], nil
}

func signDigest(priv crypto.Signer, random io.Reader, sum []byte, hash crypto.Hash) ([]byte, error) {
	switch key := priv.(type) {
	case *rsa.PrivateKey:
		return rsa.SignPKCS1v15(random, key, hash, sum)
	case *ecdsa.PrivateKey:
		return ecdsa.SignASN1(random, key, sum)
	}
	return nil, fmt.Errorf("%w: %T", ErrUnsupportedType, priv)
}

// Verify checks sig over the finalized digest d. A signature that does
// not verify returns false with a nil error; errors are reserved for
// operational failures such as a closed key or a hash the key cannot
// be used with.
func (k *Key) Verify(sig []byte, d *digest.Context) (ok bool, err error) {
	h, err := k.live()
	if err != nil {
		return false, err
	}
	done := metrics.Track(metrics.OpVerify)
	defer func() {
		done(h.alg.String(), err)
		recordError(metrics.OpVerify, h.alg, err)
	}()

	if d == nil {
		return false, fmt.Errorf("%w: nil digest", ErrInvalidArgument)
	}
	sum := d.Final()

	switch pub := h.public.(type) {
	case *rsa.PublicKey:
		verr := rsa.VerifyPKCS1v15(pub, d.Hash(), sum, sig)
		if verr == nil {
			return true, nil
		}
		if errors.Is(verr, rsa.ErrVerification) {
			return false, nil
		}
		return false, fmt.Errorf("%w: %w", ErrOperationFailed, verr)
	case *ecdsa.PublicKey:
		return ecdsa.VerifyASN1(pub, sum, sig), nil
	}
	return false, fmt.Errorf("%w: %T", ErrUnsupportedType, h.public)
}

// Signer returns a crypto.Signer backed by the key, for use with
// crypto/x509 and crypto/tls. It fails once the key is closed.
func (k *Key) Signer() (crypto.Signer, error) {
	h, err := k.live()
	if err != nil {
		return nil, err
	}
	if h.private == nil {
		return nil, ErrNoPrivateKey
	}
	return &signer{key: k}, nil
}

type signer struct {
	key *Key
}

func (s *signer) Public() crypto.PublicKey {
	pub, _ := s.key.Public()
	return pub
}

func (s *signer) Sign(random io.Reader, sum []byte, opts crypto.SignerOpts) ([]byte, error) {
	h, err := s.key.live()
	if err != nil {
		return nil, err
	}
	return h.private.Sign(random, sum, opts)
}
