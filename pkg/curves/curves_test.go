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

package curves

import (
	"crypto/elliptic"
	"encoding/asn1"
	"testing"

	"github.com/keybase/go-crypto/brainpool"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLookup(t *testing.T) {
	tests := []struct {
		name     string
		expected string
		bits     int
		standard bool
	}{
		{"prime192v1", "prime192v1", 192, false},
		{"P-192", "prime192v1", 192, false},
		{"SECP192R1", "prime192v1", 192, false},
		{"secp224r1", "secp224r1", 224, true},
		{"prime256v1", "prime256v1", 256, true},
		{"p-256", "prime256v1", 256, true},
		{" secp256r1 ", "prime256v1", 256, true},
		{"P384", "secp384r1", 384, true},
		{"secp521r1", "secp521r1", 521, true},
		{"brainpoolP256r1", "brainpoolP256r1", 256, false},
		{"BRAINPOOLP512T1", "brainpoolP512t1", 512, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, err := Lookup(tt.name)
			require.NoError(t, err)
			assert.Equal(t, tt.expected, c.Name)
			assert.Equal(t, tt.bits, c.BitSize())
			assert.Equal(t, tt.standard, c.Standard)
			assert.Equal(t, tt.expected, c.String())
		})
	}
}

func TestLookup_Unknown(t *testing.T) {
	for _, name := range []string{"", "secp256k1", "curve25519", "prime999v9"} {
		_, err := Lookup(name)
		assert.ErrorIs(t, err, ErrUnknownCurve, name)
	}
}

func TestByOID(t *testing.T) {
	c, err := ByOID(asn1.ObjectIdentifier{1, 2, 840, 10045, 3, 1, 1})
	require.NoError(t, err)
	assert.Equal(t, "prime192v1", c.Name)

	c, err = ByOID(asn1.ObjectIdentifier{1, 3, 36, 3, 3, 2, 8, 1, 1, 11})
	require.NoError(t, err)
	assert.Equal(t, "brainpoolP384r1", c.Name)

	_, err = ByOID(asn1.ObjectIdentifier{1, 2, 3})
	assert.ErrorIs(t, err, ErrUnknownCurve)
}

func TestByCurve(t *testing.T) {
	tests := []struct {
		curve    elliptic.Curve
		expected string
	}{
		{P192(), "prime192v1"},
		{elliptic.P224(), "secp224r1"},
		{elliptic.P256(), "prime256v1"},
		{elliptic.P384(), "secp384r1"},
		{elliptic.P521(), "secp521r1"},
		{brainpool.P256r1(), "brainpoolP256r1"},
		{brainpool.P384t1(), "brainpoolP384t1"},
	}
	for _, tt := range tests {
		c, err := ByCurve(tt.curve)
		require.NoError(t, err)
		assert.Equal(t, tt.expected, c.Name)
	}

	_, err := ByCurve(nil)
	assert.ErrorIs(t, err, ErrUnknownCurve)
}

func TestP192_GeneratorOnCurve(t *testing.T) {
	params := P192().Params()
	assert.True(t, P192().IsOnCurve(params.Gx, params.Gy))

	// n*G is the point at infinity.
	x, y := P192().ScalarBaseMult(params.N.Bytes())
	assert.Zero(t, x.Sign())
	assert.Zero(t, y.Sign())
}

func TestNames(t *testing.T) {
	names := Names()
	assert.Len(t, names, len(registry))
	assert.Contains(t, names, "prime192v1")
	assert.Contains(t, names, "brainpoolP256r1")
	assert.IsIncreasing(t, names)
}
