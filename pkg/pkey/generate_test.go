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
	"crypto/rsa"
	"math/big"
	"testing"

	"github.com/jeremyhahn/go-pkey/pkg/curves"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerate_RSADefaults(t *testing.T) {
	key, err := Generate(GenerateConfig{}, quiet())
	require.NoError(t, err)
	defer key.Close()

	assert.Equal(t, AlgorithmRSA, key.Algorithm())
	assert.Equal(t, DefaultBits, key.Bits())
	assert.True(t, key.IsPrivate())

	params, err := key.Parameters()
	require.NoError(t, err)
	e, err := params.E()
	require.NoError(t, err)
	assert.Equal(t, int64(DefaultExponent), e.Int64())
}

func TestGenerate_RSACustomExponent(t *testing.T) {
	key, err := Generate(GenerateConfig{Type: "rsa", Bits: 1024, Exp: 17}, quiet())
	require.NoError(t, err)
	defer key.Close()

	assert.Equal(t, 1024, key.Bits())

	params, err := key.Parameters()
	require.NoError(t, err)
	e, err := params.E()
	require.NoError(t, err)
	assert.Equal(t, int64(17), e.Int64())

	priv := key.h.Handle().private.(*rsa.PrivateKey)
	require.NoError(t, priv.Validate())

	d := sha256Of(t, "custom exponent")
	sig, err := key.Sign(d)
	require.NoError(t, err)
	ok, err := key.Verify(sig, d)
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestGenerate_RSABitsOutOfRange(t *testing.T) {
	for _, bits := range []int64{4294967296, -1} {
		key, err := Generate(GenerateConfig{Type: "RSA", Bits: bits}, quiet())
		assert.Nil(t, key)
		assert.ErrorIs(t, err, ErrBitsOutOfRange)
		assert.ErrorIs(t, err, ErrInvalidArgument)
	}
}

func TestGenerate_RSAErrors(t *testing.T) {
	tests := []struct {
		name     string
		cfg      GenerateConfig
		expected error
	}{
		{"EvenExponent", GenerateConfig{Exp: 4}, ErrInvalidArgument},
		{"ExponentOne", GenerateConfig{Exp: 1}, ErrInvalidArgument},
		{"HugeExponent", GenerateConfig{Exp: 1 << 40}, ErrInvalidArgument},
		{"TooSmall", GenerateConfig{Bits: 512}, ErrOperationFailed},
		{"TooLarge", GenerateConfig{Bits: 1 << 20}, ErrOperationFailed},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Generate(tt.cfg, quiet())
			assert.ErrorIs(t, err, tt.expected)
		})
	}
}

func TestGenerate_EC(t *testing.T) {
	tests := []struct {
		curve    string
		expected string
		bits     int
	}{
		{"", "prime192v1", 192},
		{"P-256", "prime256v1", 256},
		{"secp384r1", "secp384r1", 384},
		{"brainpoolP256r1", "brainpoolP256r1", 256},
		{"brainpoolP320t1", "", 0},
	}
	for _, tt := range tests {
		t.Run(tt.curve, func(t *testing.T) {
			key, err := Generate(GenerateConfig{Type: "EC", Curve: tt.curve}, quiet())
			if tt.expected == "" {
				assert.ErrorIs(t, err, ErrUnknownCurve)
				assert.ErrorIs(t, err, curves.ErrUnknownCurve)
				return
			}
			require.NoError(t, err)
			defer key.Close()

			assert.Equal(t, tt.expected, key.CurveName())
			assert.Equal(t, tt.bits, key.Bits())

			pub, err := key.Public()
			require.NoError(t, err)
			ecPub := pub.(*ecdsa.PublicKey)
			assert.True(t, ecPub.Curve.IsOnCurve(ecPub.X, ecPub.Y))
		})
	}
}

func TestGenerate_ECParametersUnsupported(t *testing.T) {
	key, err := Generate(GenerateConfig{Type: "EC", Curve: "prime192v1"}, quiet())
	require.NoError(t, err)
	defer key.Close()

	params, err := key.Parameters()
	assert.Nil(t, params)
	assert.ErrorIs(t, err, ErrUnsupported)
	assert.Contains(t, err.Error(), "parameters of EC not supported")
}

func TestGenerate_UnsupportedType(t *testing.T) {
	_, err := Generate(GenerateConfig{Type: "DSA"}, quiet())
	assert.ErrorIs(t, err, ErrUnsupportedType)
}

func TestGenerateConfig_Validate(t *testing.T) {
	assert.NoError(t, DefaultGenerateConfig().Validate())
	assert.NoError(t, GenerateConfig{Type: "EC", Curve: "brainpoolP512t1"}.Validate())
	assert.ErrorIs(t, GenerateConfig{Type: "EC", Curve: "nope"}.Validate(), ErrUnknownCurve)
	assert.ErrorIs(t, GenerateConfig{Bits: 1 << 33}.Validate(), ErrBitsOutOfRange)
	assert.ErrorIs(t, GenerateConfig{Exp: 2}.Validate(), ErrInvalidArgument)
	assert.ErrorIs(t, GenerateConfig{Type: "x"}.Validate(), ErrUnsupportedType)
}

func TestGenerateRSAWithExponent(t *testing.T) {
	priv, err := generateRSAWithExponent(1024, big.NewInt(3))
	require.NoError(t, err)
	assert.Equal(t, 3, priv.E)
	assert.Equal(t, 1024, priv.N.BitLen())
	require.Len(t, priv.Primes, 2)
	assert.Zero(t, new(big.Int).Mul(priv.Primes[0], priv.Primes[1]).Cmp(priv.N))
	require.NoError(t, priv.Validate())
}
