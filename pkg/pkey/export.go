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
	"errors"
	"fmt"
	"strings"

	"github.com/go-jose/go-jose/v4"
	"github.com/jeremyhahn/go-pkey/pkg/encoding"
	"github.com/jeremyhahn/go-pkey/pkg/metrics"
)

// Export selectors
const (
	ExportPublic  = "public"
	ExportPrivate = "private"
)

// selectExport resolves which to the key to serialize. "" means public.
func (k *Key) selectExport(which string) (key any, private bool, err error) {
	h, err := k.live()
	if err != nil {
		return nil, false, err
	}
	switch strings.ToLower(which) {
	case "", ExportPublic:
		return h.public, false, nil
	case ExportPrivate:
		if h.private == nil {
			return nil, false, ErrNoPrivateKey
		}
		return h.private, true, nil
	}
	return nil, false, fmt.Errorf("%w: export %q, want %q or %q", ErrInvalidArgument, which, ExportPublic, ExportPrivate)
}

// ToPEM serializes the key. which is "public" (the default when empty)
// for a PKIX "PUBLIC KEY" block or "private" for a PKCS#8 "PRIVATE KEY"
// block.
func (k *Key) ToPEM(which string) (out []byte, err error) {
	defer k.trackExport()(&err)

	key, private, err := k.selectExport(which)
	if err != nil {
		return nil, err
	}
	if private {
		return encoding.EncodePrivateKeyPEM(key, nil)
	}
	return encoding.EncodePublicKeyPEM(key)
}

// ToDER is ToPEM without the armor: PKIX SubjectPublicKeyInfo or
// PKCS#8 PrivateKeyInfo.
func (k *Key) ToDER(which string) (out []byte, err error) {
	defer k.trackExport()(&err)

	key, private, err := k.selectExport(which)
	if err != nil {
		return nil, err
	}
	if private {
		return encoding.EncodePKCS8(key, nil)
	}
	return encoding.EncodePublicKeyPKIX(key)
}

// ToEncryptedPEM serializes the private key as an "ENCRYPTED PRIVATE
// KEY" block (PKCS#8, PBES2 with PBKDF2-SHA256 and AES-256-CBC).
// Curves unknown to crypto/x509, such as prime192v1 and the brainpool
// curves, fail with ErrUnsupported.
func (k *Key) ToEncryptedPEM(password []byte) (out []byte, err error) {
	defer k.trackExport()(&err)

	if len(password) == 0 {
		return nil, fmt.Errorf("%w: empty password", ErrInvalidArgument)
	}
	key, _, err := k.selectExport(ExportPrivate)
	if err != nil {
		return nil, err
	}
	out, err = encoding.EncodePrivateKeyPEM(key, password)
	if errors.Is(err, encoding.ErrUnsupportedCurve) {
		return nil, fmt.Errorf("%w: %w", ErrUnsupported, err)
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrOperationFailed, err)
	}
	return out, nil
}

// ToJWK serializes the key as a JSON Web Key (RFC 7517) carrying the
// key ID and signature algorithm. Only the NIST P-256, P-384 and P-521
// curves have JWK names; other curves fail with ErrUnsupported.
func (k *Key) ToJWK(which string) (out []byte, err error) {
	defer k.trackExport()(&err)

	key, _, err := k.selectExport(which)
	if err != nil {
		return nil, err
	}
	jwk := jose.JSONWebKey{
		Key:       key,
		KeyID:     k.id.String(),
		Algorithm: k.jwsAlgorithm(),
		Use:       "sig",
	}
	out, err = jwk.MarshalJSON()
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrUnsupported, err)
	}
	return out, nil
}

// Thumbprint returns the RFC 7638 SHA-256 thumbprint of the public key.
func (k *Key) Thumbprint() (out []byte, err error) {
	defer k.trackExport()(&err)

	key, _, err := k.selectExport(ExportPublic)
	if err != nil {
		return nil, err
	}
	jwk := jose.JSONWebKey{Key: key}
	out, err = jwk.Thumbprint(crypto.SHA256)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrUnsupported, err)
	}
	return out, nil
}

func (k *Key) jwsAlgorithm() string {
	switch k.alg {
	case AlgorithmRSA:
		return string(jose.RS256)
	case AlgorithmEC:
		switch k.curve {
		case "prime256v1":
			return string(jose.ES256)
		case "secp384r1":
			return string(jose.ES384)
		case "secp521r1":
			return string(jose.ES512)
		}
	}
	return ""
}

// trackExport times an export and records its outcome from *errp.
// A nil key is recorded under the unknown family.
func (k *Key) trackExport() func(errp *error) {
	alg := AlgorithmUnknown
	if k != nil {
		alg = k.alg
	}
	done := metrics.Track(metrics.OpExport)
	return func(errp *error) {
		done(alg.String(), *errp)
		recordError(metrics.OpExport, alg, *errp)
	}
}
