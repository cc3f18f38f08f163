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
	"crypto/rand"
	"crypto/rsa"
	"crypto/x509"
	"encoding/pem"
	"sync"
	"testing"

	"github.com/jeremyhahn/go-pkey/pkg/digest"
	"github.com/jeremyhahn/go-pkey/pkg/logging"
	"github.com/stretchr/testify/require"
)

var (
	rsaOnce sync.Once
	rsaKey  *rsa.PrivateKey
)

// testRSAKey returns a 2048-bit key shared by the package tests. Tests
// load it through the package API so each gets its own Key.
func testRSAKey(t *testing.T) *rsa.PrivateKey {
	t.Helper()
	rsaOnce.Do(func() {
		var err error
		rsaKey, err = rsa.GenerateKey(rand.Reader, 2048)
		require.NoError(t, err)
	})
	return rsaKey
}

func testRSAPrivatePEM(t *testing.T) []byte {
	t.Helper()
	der, err := x509.MarshalPKCS8PrivateKey(testRSAKey(t))
	require.NoError(t, err)
	return pem.EncodeToMemory(&pem.Block{Type: "PRIVATE KEY", Bytes: der})
}

func testRSAPublicPEM(t *testing.T) []byte {
	t.Helper()
	der, err := x509.MarshalPKIXPublicKey(&testRSAKey(t).PublicKey)
	require.NoError(t, err)
	return pem.EncodeToMemory(&pem.Block{Type: "PUBLIC KEY", Bytes: der})
}

// loadRSA returns a fresh private Key over the shared RSA key.
func loadRSA(t *testing.T) *Key {
	t.Helper()
	key, err := Load(testRSAPrivatePEM(t), FormatPEM, RolePrivate, quiet())
	require.NoError(t, err)
	t.Cleanup(func() { _ = key.Close() })
	return key
}

func newECKey(t *testing.T, curve string) *Key {
	t.Helper()
	key, err := Generate(GenerateConfig{Type: "EC", Curve: curve}, quiet())
	require.NoError(t, err)
	t.Cleanup(func() { _ = key.Close() })
	return key
}

func sha256Of(t *testing.T, msg string) *digest.Context {
	t.Helper()
	d, err := digest.Sum("sha256", []byte(msg))
	require.NoError(t, err)
	return d
}

func quiet() Option {
	return WithLogger(logging.Discard())
}
