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

package encoding

import (
	"crypto"
	"crypto/ecdsa"
	"crypto/rsa"
	"crypto/x509"
	"fmt"
	"strings"

	"github.com/youmark/pkcs8"
)

// EncodePKCS8 encodes a private key to ASN.1 DER PKCS#8 format.
// If a password is provided, the key will be encrypted (PBES2, AES-256-CBC,
// PBKDF2-HMAC-SHA256). If password is nil or empty, the key will be
// encoded without encryption.
//
// Supported key types: *rsa.PrivateKey, *ecdsa.PrivateKey on any curve in
// pkg/curves, ed25519.PrivateKey. Encryption is not available for EC keys
// on curves crypto/x509 does not know.
//
// Example:
//
//	der, err := encoding.EncodePKCS8(privateKey, []byte("mypassword"))
func EncodePKCS8(privateKey crypto.PrivateKey, password []byte) ([]byte, error) {
	if privateKey == nil {
		return nil, ErrInvalidPrivateKey
	}

	if ec, ok := privateKey.(*ecdsa.PrivateKey); ok {
		c, err := lookupCurve(ec.Curve)
		if err != nil {
			return nil, err
		}
		if !c.Standard {
			if len(password) > 0 {
				return nil, fmt.Errorf("%w: encrypted PKCS#8 is not available for %s", ErrUnsupportedCurve, c.Name)
			}
			return marshalPKCS8EC(ec, c)
		}
	}

	der, err := pkcs8.MarshalPrivateKey(privateKey, password, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal PKCS#8: %w", err)
	}

	return der, nil
}

// DecodePKCS8 decodes ASN.1 DER PKCS#8 encoded data to a private key.
// If the data is encrypted, a password must be provided; encrypted data
// without a password returns ErrPasswordRequired and a wrong password
// returns ErrInvalidPassword.
//
// Returns the private key as crypto.PrivateKey (type assert to specific type if needed).
//
// Example:
//
//	key, err := encoding.DecodePKCS8(derData, []byte("mypassword"))
//	rsaKey := key.(*rsa.PrivateKey)
func DecodePKCS8(data []byte, password []byte) (crypto.PrivateKey, error) {
	if len(data) == 0 {
		return nil, ErrInvalidData
	}

	encrypted := isEncryptedPKCS8(data)
	if encrypted && len(password) == 0 {
		return nil, ErrPasswordRequired
	}

	// A password given for plaintext data is ignored.
	if !encrypted {
		key, err := pkcs8.ParsePKCS8PrivateKey(data)
		if err != nil {
			if ec, lerr := parsePKCS8EC(data); lerr == nil {
				return ec, nil
			}
			return nil, fmt.Errorf("failed to parse PKCS#8: %w", err)
		}
		return asPrivateKey(key)
	}

	key, err := pkcs8.ParsePKCS8PrivateKey(data, password)
	if err != nil {
		if isPasswordError(err) {
			return nil, ErrInvalidPassword
		}
		return nil, fmt.Errorf("failed to parse PKCS#8: %w", err)
	}

	return asPrivateKey(key)
}

func asPrivateKey(key any) (crypto.PrivateKey, error) {
	privKey, ok := key.(crypto.PrivateKey)
	if !ok || privKey == nil {
		return nil, ErrInvalidPrivateKey
	}
	return privKey, nil
}

// DecodePKCS1PrivateKey parses an RSA private key in PKCS#1 ASN.1 DER form.
func DecodePKCS1PrivateKey(data []byte) (*rsa.PrivateKey, error) {
	if len(data) == 0 {
		return nil, ErrInvalidData
	}
	key, err := x509.ParsePKCS1PrivateKey(data)
	if err != nil {
		return nil, fmt.Errorf("failed to parse PKCS#1 private key: %w", err)
	}
	return key, nil
}

// DecodePKCS1PublicKey parses an RSA public key in PKCS#1 ASN.1 DER form.
func DecodePKCS1PublicKey(data []byte) (*rsa.PublicKey, error) {
	if len(data) == 0 {
		return nil, ErrInvalidData
	}
	key, err := x509.ParsePKCS1PublicKey(data)
	if err != nil {
		return nil, fmt.Errorf("failed to parse PKCS#1 public key: %w", err)
	}
	return key, nil
}

// EncodePublicKeyPKIX encodes a public key to ASN.1 DER PKIX format.
// This is the standard format for public keys (SubjectPublicKeyInfo).
//
// Supported key types: *rsa.PublicKey, *ecdsa.PublicKey on any curve in
// pkg/curves, ed25519.PublicKey
//
// Example:
//
//	der, err := encoding.EncodePublicKeyPKIX(publicKey)
func EncodePublicKeyPKIX(publicKey crypto.PublicKey) ([]byte, error) {
	if publicKey == nil {
		return nil, ErrInvalidPublicKey
	}

	if ec, ok := publicKey.(*ecdsa.PublicKey); ok {
		c, err := lookupCurve(ec.Curve)
		if err != nil {
			return nil, err
		}
		if !c.Standard {
			return marshalPKIX(ec, c)
		}
	}

	der, err := x509.MarshalPKIXPublicKey(publicKey)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal PKIX public key: %w", err)
	}

	return der, nil
}

// DecodePublicKeyPKIX decodes ASN.1 DER PKIX encoded data to a public key.
//
// Returns the public key as crypto.PublicKey (type assert to specific type if needed).
//
// Example:
//
//	key, err := encoding.DecodePublicKeyPKIX(derData)
//	rsaPub := key.(*rsa.PublicKey)
func DecodePublicKeyPKIX(data []byte) (crypto.PublicKey, error) {
	if len(data) == 0 {
		return nil, ErrInvalidData
	}

	pubKey, err := x509.ParsePKIXPublicKey(data)
	if err != nil {
		if ec, lerr := parsePKIX(data); lerr == nil {
			return ec, nil
		}
		return nil, fmt.Errorf("failed to parse PKIX public key: %w", err)
	}

	return pubKey, nil
}

// passwordErrors are the messages youmark/pkcs8 and crypto/x509 produce
// when decryption yields garbage.
var passwordErrors = []string{
	"pkcs8: incorrect password",
	"incorrect password",
	"asn1: structure error",
	"tags don't match",
}

// isPasswordError checks if an error is related to incorrect password.
func isPasswordError(err error) bool {
	if err == nil {
		return false
	}
	msg := err.Error()
	for _, p := range passwordErrors {
		if strings.Contains(msg, p) {
			return true
		}
	}
	return false
}
