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
	"math/big"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParameters_RSA(t *testing.T) {
	key := loadRSA(t)
	want := testRSAKey(t)
	want.Precompute()

	params, err := key.Parameters()
	require.NoError(t, err)

	tests := []struct {
		name     string
		get      func() (*big.Int, error)
		expected *big.Int
	}{
		{ParamN, params.N, want.N},
		{ParamE, params.E, big.NewInt(int64(want.E))},
		{ParamD, params.D, want.D},
		{ParamP, params.P, want.Primes[0]},
		{ParamQ, params.Q, want.Primes[1]},
		{ParamDMP1, params.DMP1, want.Precomputed.Dp},
		{ParamDMQ1, params.DMQ1, want.Precomputed.Dq},
		{ParamIQMP, params.IQMP, want.Precomputed.Qinv},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := tt.get()
			require.NoError(t, err)
			assert.Zero(t, tt.expected.Cmp(got))

			byName, err := params.Get(tt.name)
			require.NoError(t, err)
			assert.Zero(t, got.Cmp(byName))
		})
	}

	assert.Len(t, params.Names(), 8)
}

func TestParameters_Memoized(t *testing.T) {
	key := loadRSA(t)
	params, err := key.Parameters()
	require.NoError(t, err)

	assert.Empty(t, key.h.Handle().params)

	n1, err := params.N()
	require.NoError(t, err)
	memo := key.h.Handle().params[ParamN]
	require.NotNil(t, memo)

	// Callers get copies; mutating one leaves the memo intact.
	n1.SetInt64(0)
	n2, err := params.Get("N")
	require.NoError(t, err)
	assert.NotZero(t, n2.Sign())
	assert.Same(t, memo, key.h.Handle().params[ParamN])
}

func TestParameters_PublicKey(t *testing.T) {
	key, err := Load(testRSAPublicPEM(t), FormatAny, RoleAny, quiet())
	require.NoError(t, err)
	defer key.Close()

	params, err := key.Parameters()
	require.NoError(t, err)

	n, err := params.N()
	require.NoError(t, err)
	assert.Zero(t, testRSAKey(t).N.Cmp(n))

	for _, name := range []string{ParamD, ParamP, ParamQ, ParamDMP1, ParamDMQ1, ParamIQMP} {
		_, err := params.Get(name)
		assert.ErrorIs(t, err, ErrNoPrivateKey, name)
	}
	assert.Equal(t, []string{ParamN, ParamE}, params.Names())
}

func TestParameters_UnknownName(t *testing.T) {
	params, err := loadRSA(t).Parameters()
	require.NoError(t, err)
	_, err = params.Get("phi")
	assert.ErrorIs(t, err, ErrInvalidArgument)
}
