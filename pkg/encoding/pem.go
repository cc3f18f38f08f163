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
	"bytes"
	"crypto"
	"crypto/rsa"
	"crypto/x509"
	"encoding/pem"
	"errors"
	"fmt"
	"slices"

	"github.com/jeremyhahn/go-pkey/pkg/guard"
)

// PEM block types
const (
	PEMTypeRSAPrivateKey       = "RSA PRIVATE KEY"
	PEMTypeECPrivateKey        = "EC PRIVATE KEY"
	PEMTypePrivateKey          = "PRIVATE KEY"
	PEMTypeEncryptedPrivateKey = "ENCRYPTED PRIVATE KEY"
	PEMTypePublicKey           = "PUBLIC KEY"
	PEMTypeRSAPublicKey        = "RSA PUBLIC KEY"
	PEMTypeECParameters        = "EC PARAMETERS"
)

// PrivateKeyPEMTypes are the block types accepted by DecodePrivateKeyPEM.
var PrivateKeyPEMTypes = []string{
	PEMTypePrivateKey,
	PEMTypeRSAPrivateKey,
	PEMTypeECPrivateKey,
	PEMTypeEncryptedPrivateKey,
}

// EncodePrivateKeyPEM encodes a private key to PEM format.
// If a password is provided, the key is written as an encrypted PKCS#8
// "ENCRYPTED PRIVATE KEY" block, otherwise as a PKCS#8 "PRIVATE KEY" block.
//
// Example:
//
//	pemData, err := encoding.EncodePrivateKeyPEM(privateKey, []byte("password"))
func EncodePrivateKeyPEM(privateKey crypto.PrivateKey, password []byte) ([]byte, error) {
	if privateKey == nil {
		return nil, ErrInvalidPrivateKey
	}

	der, err := EncodePKCS8(privateKey, password)
	if err != nil {
		return nil, err
	}
	defer clear(der)

	blockType := PEMTypePrivateKey
	if len(password) > 0 {
		blockType = PEMTypeEncryptedPrivateKey
	}

	return encodeBlock(blockType, der)
}

// DecodePrivateKeyPEM decodes the first private key block in PEM data.
// Blocks of other types (certificates, EC PARAMETERS) are skipped.
// PKCS#8, PKCS#1 and SEC 1 blocks are understood, as are encrypted
// PKCS#8 blocks and legacy "Proc-Type: 4,ENCRYPTED" blocks when a
// password is supplied.
//
// Example:
//
//	key, err := encoding.DecodePrivateKeyPEM(pemData, []byte("password"))
//	rsaKey := key.(*rsa.PrivateKey)
func DecodePrivateKeyPEM(data []byte, password []byte) (crypto.PrivateKey, error) {
	block, err := FindPEMBlock(data, PrivateKeyPEMTypes...)
	if err != nil {
		return nil, err
	}

	der := block.Bytes
	//nolint:staticcheck // legacy OpenSSL encrypted PEM is still common for RSA/EC keys
	if x509.IsEncryptedPEMBlock(block) {
		if len(password) == 0 {
			return nil, ErrPasswordRequired
		}
		//nolint:staticcheck
		plain, err := x509.DecryptPEMBlock(block, password)
		if err != nil {
			if errors.Is(err, x509.IncorrectPasswordError) {
				return nil, ErrInvalidPassword
			}
			return nil, fmt.Errorf("failed to decrypt PEM block: %w", err)
		}
		wipe := guard.New(plain, func(b []byte) { clear(b) })
		defer wipe.Release()
		der = wipe.Handle()
	}

	switch block.Type {
	case PEMTypeRSAPrivateKey:
		return DecodePKCS1PrivateKey(der)
	case PEMTypeECPrivateKey:
		return DecodeECPrivateKey(der)
	case PEMTypeEncryptedPrivateKey:
		return DecodePKCS8(der, password)
	default:
		return DecodePKCS8(der, nil)
	}
}

// EncodePublicKeyPEM encodes a public key to a PKIX "PUBLIC KEY" PEM block.
//
// Example:
//
//	pemData, err := encoding.EncodePublicKeyPEM(publicKey)
func EncodePublicKeyPEM(publicKey crypto.PublicKey) ([]byte, error) {
	if publicKey == nil {
		return nil, ErrInvalidPublicKey
	}

	der, err := EncodePublicKeyPKIX(publicKey)
	if err != nil {
		return nil, err
	}

	return encodeBlock(PEMTypePublicKey, der)
}

// DecodePublicKeyPEM decodes the first "PUBLIC KEY" block in PEM data.
//
// Example:
//
//	key, err := encoding.DecodePublicKeyPEM(pemData)
//	rsaPub := key.(*rsa.PublicKey)
func DecodePublicKeyPEM(data []byte) (crypto.PublicKey, error) {
	block, err := FindPEMBlock(data, PEMTypePublicKey)
	if err != nil {
		return nil, err
	}
	return DecodePublicKeyPKIX(block.Bytes)
}

// DecodeRSAPublicKeyPEM decodes the first PKCS#1 "RSA PUBLIC KEY" block in PEM data.
func DecodeRSAPublicKeyPEM(data []byte) (*rsa.PublicKey, error) {
	block, err := FindPEMBlock(data, PEMTypeRSAPublicKey)
	if err != nil {
		return nil, err
	}
	return DecodePKCS1PublicKey(block.Bytes)
}

// FindPEMBlock returns the first PEM block whose type is one of types.
// Returns ErrInvalidPEMEncoding when data holds no PEM block at all and
// ErrPEMBlockNotFound when it holds blocks of other types only.
func FindPEMBlock(data []byte, types ...string) (*pem.Block, error) {
	if len(data) == 0 {
		return nil, ErrInvalidData
	}

	seen := 0
	rest := data
	for {
		var block *pem.Block
		block, rest = pem.Decode(rest)
		if block == nil {
			break
		}
		seen++
		if slices.Contains(types, block.Type) {
			return block, nil
		}
	}

	if seen == 0 {
		return nil, ErrInvalidPEMEncoding
	}
	return nil, fmt.Errorf("%w: want one of %q", ErrPEMBlockNotFound, types)
}

func encodeBlock(blockType string, der []byte) ([]byte, error) {
	var buf bytes.Buffer
	if err := pem.Encode(&buf, &pem.Block{Type: blockType, Bytes: der}); err != nil {
		return nil, fmt.Errorf("failed to encode PEM: %w", err)
	}
	return buf.Bytes(), nil
}
