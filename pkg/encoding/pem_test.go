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
	"crypto/ecdsa"
	"crypto/elliptic"
	"crypto/rand"
	"crypto/x509"
	"encoding/pem"
	"errors"
	"testing"

	"github.com/jeremyhahn/go-pkey/pkg/curves"
)

func TestEncodePrivateKeyPEM_RSA(t *testing.T) {
	privateKey := testRSAKey(t)

	t.Run("Unencrypted", func(t *testing.T) {
		pemData, err := EncodePrivateKeyPEM(privateKey, nil)
		if err != nil {
			t.Fatalf("EncodePrivateKeyPEM failed: %v", err)
		}
		block, _ := pem.Decode(pemData)
		if block == nil || block.Type != PEMTypePrivateKey {
			t.Fatalf("Expected %q block", PEMTypePrivateKey)
		}
		decoded, err := DecodePrivateKeyPEM(pemData, nil)
		if err != nil {
			t.Fatalf("DecodePrivateKeyPEM failed: %v", err)
		}
		if !privateKey.Equal(decoded) {
			t.Error("Decoded key does not match original")
		}
	})

	t.Run("Encrypted", func(t *testing.T) {
		password := []byte("pem-password")
		pemData, err := EncodePrivateKeyPEM(privateKey, password)
		if err != nil {
			t.Fatalf("EncodePrivateKeyPEM failed: %v", err)
		}
		block, _ := pem.Decode(pemData)
		if block == nil || block.Type != PEMTypeEncryptedPrivateKey {
			t.Fatalf("Expected %q block", PEMTypeEncryptedPrivateKey)
		}
		if _, err := DecodePrivateKeyPEM(pemData, nil); !errors.Is(err, ErrPasswordRequired) {
			t.Errorf("Expected ErrPasswordRequired, got %v", err)
		}
		decoded, err := DecodePrivateKeyPEM(pemData, password)
		if err != nil {
			t.Fatalf("DecodePrivateKeyPEM failed: %v", err)
		}
		if !privateKey.Equal(decoded) {
			t.Error("Decoded key does not match original")
		}
	})

	t.Run("PKCS1", func(t *testing.T) {
		pemData := pem.EncodeToMemory(&pem.Block{
			Type:  PEMTypeRSAPrivateKey,
			Bytes: x509.MarshalPKCS1PrivateKey(privateKey),
		})
		decoded, err := DecodePrivateKeyPEM(pemData, nil)
		if err != nil {
			t.Fatalf("DecodePrivateKeyPEM failed: %v", err)
		}
		if !privateKey.Equal(decoded) {
			t.Error("Decoded key does not match original")
		}
	})

	t.Run("LegacyEncrypted", func(t *testing.T) {
		password := []byte("legacy")
		//nolint:staticcheck
		block, err := x509.EncryptPEMBlock(rand.Reader, PEMTypeRSAPrivateKey,
			x509.MarshalPKCS1PrivateKey(privateKey), password, x509.PEMCipherAES256)
		if err != nil {
			t.Fatalf("EncryptPEMBlock failed: %v", err)
		}
		pemData := pem.EncodeToMemory(block)

		if _, err := DecodePrivateKeyPEM(pemData, nil); !errors.Is(err, ErrPasswordRequired) {
			t.Errorf("Expected ErrPasswordRequired, got %v", err)
		}
		decoded, err := DecodePrivateKeyPEM(pemData, password)
		if err != nil {
			t.Fatalf("DecodePrivateKeyPEM failed: %v", err)
		}
		if !privateKey.Equal(decoded) {
			t.Error("Decoded key does not match original")
		}
	})
}

func TestDecodePrivateKeyPEM_SkipsECParameters(t *testing.T) {
	privateKey := testECKey(t, elliptic.P256())
	der, err := x509.MarshalECPrivateKey(privateKey)
	if err != nil {
		t.Fatalf("MarshalECPrivateKey failed: %v", err)
	}

	// openssl ecparam -genkey writes the parameters block first.
	var buf bytes.Buffer
	_ = pem.Encode(&buf, &pem.Block{Type: PEMTypeECParameters, Bytes: []byte{0x06, 0x08, 0x2a, 0x86, 0x48, 0xce, 0x3d, 0x03, 0x01, 0x07}})
	_ = pem.Encode(&buf, &pem.Block{Type: PEMTypeECPrivateKey, Bytes: der})

	decoded, err := DecodePrivateKeyPEM(buf.Bytes(), nil)
	if err != nil {
		t.Fatalf("DecodePrivateKeyPEM failed: %v", err)
	}
	if !privateKey.Equal(decoded) {
		t.Error("Decoded key does not match original")
	}
}

func TestDecodePrivateKeyPEM_Errors(t *testing.T) {
	tests := []struct {
		name     string
		data     []byte
		expected error
	}{
		{"Empty", nil, ErrInvalidData},
		{"NotPEM", []byte("garbage"), ErrInvalidPEMEncoding},
		{"PublicOnly", pem.EncodeToMemory(&pem.Block{Type: PEMTypePublicKey, Bytes: []byte{1}}), ErrPEMBlockNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := DecodePrivateKeyPEM(tt.data, nil); !errors.Is(err, tt.expected) {
				t.Errorf("Expected %v, got %v", tt.expected, err)
			}
		})
	}
}

func TestEncodePublicKeyPEM(t *testing.T) {
	ecKey := testECKey(t, curves.P192())

	pemData, err := EncodePublicKeyPEM(&ecKey.PublicKey)
	if err != nil {
		t.Fatalf("EncodePublicKeyPEM failed: %v", err)
	}
	decoded, err := DecodePublicKeyPEM(pemData)
	if err != nil {
		t.Fatalf("DecodePublicKeyPEM failed: %v", err)
	}
	pub, ok := decoded.(*ecdsa.PublicKey)
	if !ok {
		t.Fatalf("Expected *ecdsa.PublicKey, got %T", decoded)
	}
	if pub.X.Cmp(ecKey.X) != 0 || pub.Y.Cmp(ecKey.Y) != 0 {
		t.Error("Decoded point does not match original")
	}

	if _, err := EncodePublicKeyPEM(nil); !errors.Is(err, ErrInvalidPublicKey) {
		t.Errorf("Expected ErrInvalidPublicKey, got %v", err)
	}
}

func TestDecodeRSAPublicKeyPEM(t *testing.T) {
	privateKey := testRSAKey(t)
	pemData := pem.EncodeToMemory(&pem.Block{
		Type:  PEMTypeRSAPublicKey,
		Bytes: x509.MarshalPKCS1PublicKey(&privateKey.PublicKey),
	})

	pub, err := DecodeRSAPublicKeyPEM(pemData)
	if err != nil {
		t.Fatalf("DecodeRSAPublicKeyPEM failed: %v", err)
	}
	if !privateKey.PublicKey.Equal(pub) {
		t.Error("Decoded key does not match original")
	}

	// A PKIX block is not a PKCS#1 block.
	spki, _ := EncodePublicKeyPEM(&privateKey.PublicKey)
	if _, err := DecodeRSAPublicKeyPEM(spki); !errors.Is(err, ErrPEMBlockNotFound) {
		t.Errorf("Expected ErrPEMBlockNotFound, got %v", err)
	}
}
