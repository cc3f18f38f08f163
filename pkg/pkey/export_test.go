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
	"encoding/pem"
	"testing"

	"github.com/go-jose/go-jose/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestToPEM_Which(t *testing.T) {
	key := loadRSA(t)

	tests := []struct {
		which     string
		blockType string
	}{
		{"", "PUBLIC KEY"},
		{"public", "PUBLIC KEY"},
		{"PUBLIC", "PUBLIC KEY"},
		{"private", "PRIVATE KEY"},
	}
	for _, tt := range tests {
		t.Run(tt.which, func(t *testing.T) {
			data, err := key.ToPEM(tt.which)
			require.NoError(t, err)
			block, _ := pem.Decode(data)
			require.NotNil(t, block)
			assert.Equal(t, tt.blockType, block.Type)
		})
	}

	_, err := key.ToPEM("secret")
	assert.ErrorIs(t, err, ErrInvalidArgument)
	_, err = key.ToDER("both")
	assert.ErrorIs(t, err, ErrInvalidArgument)
}

func TestToPEM_PublicKeyHasNoPrivate(t *testing.T) {
	key, err := Load(testRSAPublicPEM(t), FormatPEM, RolePublic, quiet())
	require.NoError(t, err)
	defer key.Close()

	_, err = key.ToPEM("private")
	assert.ErrorIs(t, err, ErrNoPrivateKey)

	data, err := key.ToPEM("public")
	require.NoError(t, err)
	assert.Equal(t, testRSAPublicPEM(t), data)
}

func TestToEncryptedPEM(t *testing.T) {
	t.Run("P256", func(t *testing.T) {
		key := newECKey(t, "prime256v1")
		data, err := key.ToEncryptedPEM([]byte("pw"))
		require.NoError(t, err)

		block, _ := pem.Decode(data)
		require.NotNil(t, block)
		assert.Equal(t, "ENCRYPTED PRIVATE KEY", block.Type)

		loaded, err := LoadWithPassword(data, []byte("pw"), FormatAny, RoleAny, quiet())
		require.NoError(t, err)
		defer loaded.Close()
		assert.Equal(t, "prime256v1", loaded.CurveName())
	})

	t.Run("EmptyPassword", func(t *testing.T) {
		_, err := loadRSA(t).ToEncryptedPEM(nil)
		assert.ErrorIs(t, err, ErrInvalidArgument)
	})

	t.Run("LegacyCurve", func(t *testing.T) {
		_, err := newECKey(t, "prime192v1").ToEncryptedPEM([]byte("pw"))
		assert.ErrorIs(t, err, ErrUnsupported)
	})
}

func TestToJWK(t *testing.T) {
	t.Run("ECPublic", func(t *testing.T) {
		key := newECKey(t, "secp384r1")
		data, err := key.ToJWK("public")
		require.NoError(t, err)

		var jwk jose.JSONWebKey
		require.NoError(t, jwk.UnmarshalJSON(data))
		assert.True(t, jwk.Valid())
		assert.True(t, jwk.IsPublic())
		assert.Equal(t, key.ID().String(), jwk.KeyID)
		assert.Equal(t, "ES384", jwk.Algorithm)
		assert.Equal(t, "sig", jwk.Use)
	})

	t.Run("RSAPrivate", func(t *testing.T) {
		key := loadRSA(t)
		data, err := key.ToJWK("private")
		require.NoError(t, err)

		var jwk jose.JSONWebKey
		require.NoError(t, jwk.UnmarshalJSON(data))
		assert.False(t, jwk.IsPublic())
		assert.Equal(t, "RS256", jwk.Algorithm)
	})

	t.Run("UnnamedCurve", func(t *testing.T) {
		_, err := newECKey(t, "brainpoolP256r1").ToJWK("public")
		assert.ErrorIs(t, err, ErrUnsupported)
	})
}

func TestThumbprint(t *testing.T) {
	priv := loadRSA(t)
	pub, err := Load(testRSAPublicPEM(t), FormatPEM, RolePublic, quiet())
	require.NoError(t, err)
	defer pub.Close()

	a, err := priv.Thumbprint()
	require.NoError(t, err)
	b, err := pub.Thumbprint()
	require.NoError(t, err)

	assert.Len(t, a, 32)
	assert.Equal(t, a, b)
}

func TestNilKey_ReturnsErrClosed(t *testing.T) {
	var k *Key

	exports := map[string]func() ([]byte, error){
		"ToPEM":          func() ([]byte, error) { return k.ToPEM("private") },
		"ToDER":          func() ([]byte, error) { return k.ToDER("public") },
		"ToEncryptedPEM": func() ([]byte, error) { return k.ToEncryptedPEM([]byte("pw")) },
		"ToJWK":          func() ([]byte, error) { return k.ToJWK("public") },
		"Thumbprint":     k.Thumbprint,
	}
	for name, export := range exports {
		t.Run(name, func(t *testing.T) {
			var out []byte
			var err error
			require.NotPanics(t, func() { out, err = export() })
			assert.Nil(t, out)
			assert.ErrorIs(t, err, ErrClosed)
		})
	}

	t.Run("Other", func(t *testing.T) {
		_, err := k.Sign(nil)
		assert.ErrorIs(t, err, ErrClosed)
		_, err = k.Verify(nil, nil)
		assert.ErrorIs(t, err, ErrClosed)
		_, err = k.Public()
		assert.ErrorIs(t, err, ErrClosed)
		_, err = k.Signer()
		assert.ErrorIs(t, err, ErrClosed)
		_, err = k.Parameters()
		assert.ErrorIs(t, err, ErrClosed)
		assert.NoError(t, k.Close())
	})
}
