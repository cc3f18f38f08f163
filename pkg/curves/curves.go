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

// Package curves is the registry of named elliptic curves understood by
// go-pkey. Curves are looked up by their OpenSSL short name (prime192v1,
// prime256v1, secp384r1, brainpoolP256r1, ...), by NIST name (P-256) or
// by the OID used in SEC 1 / PKIX encodings.
//
// The registry is built once at package initialization and never mutated.
package curves

import (
	"crypto/elliptic"
	"encoding/asn1"
	"errors"
	"fmt"
	"math/big"
	"sort"
	"strings"

	"github.com/keybase/go-crypto/brainpool"
)

// ErrUnknownCurve is returned when a curve name or OID is not registered.
var ErrUnknownCurve = errors.New("curves: unknown curve")

// Curve describes one registered named curve.
type Curve struct {
	// Name is the canonical OpenSSL short name, e.g. "prime256v1".
	Name string

	// Aliases are additional accepted names (NIST and SECG names).
	Aliases []string

	// OID is the namedCurve object identifier.
	OID asn1.ObjectIdentifier

	// Standard is true when crypto/x509 can encode and parse keys on
	// this curve directly. Other curves go through pkg/encoding's own
	// SEC 1 and PKIX codec.
	Standard bool

	curve func() elliptic.Curve
}

// Curve returns the elliptic.Curve implementation.
func (c *Curve) Curve() elliptic.Curve {
	return c.curve()
}

// BitSize returns the size of the underlying field in bits.
func (c *Curve) BitSize() int {
	return c.curve().Params().BitSize
}

// String returns the canonical name.
func (c *Curve) String() string {
	return c.Name
}

var (
	oidPrime192v1 = asn1.ObjectIdentifier{1, 2, 840, 10045, 3, 1, 1}
	oidSecp224r1  = asn1.ObjectIdentifier{1, 3, 132, 0, 33}
	oidPrime256v1 = asn1.ObjectIdentifier{1, 2, 840, 10045, 3, 1, 7}
	oidSecp384r1  = asn1.ObjectIdentifier{1, 3, 132, 0, 34}
	oidSecp521r1  = asn1.ObjectIdentifier{1, 3, 132, 0, 35}

	oidBrainpoolP256r1 = asn1.ObjectIdentifier{1, 3, 36, 3, 3, 2, 8, 1, 1, 7}
	oidBrainpoolP256t1 = asn1.ObjectIdentifier{1, 3, 36, 3, 3, 2, 8, 1, 1, 8}
	oidBrainpoolP384r1 = asn1.ObjectIdentifier{1, 3, 36, 3, 3, 2, 8, 1, 1, 11}
	oidBrainpoolP384t1 = asn1.ObjectIdentifier{1, 3, 36, 3, 3, 2, 8, 1, 1, 12}
	oidBrainpoolP512r1 = asn1.ObjectIdentifier{1, 3, 36, 3, 3, 2, 8, 1, 1, 13}
	oidBrainpoolP512t1 = asn1.ObjectIdentifier{1, 3, 36, 3, 3, 2, 8, 1, 1, 14}
)

// p192 is NIST P-192 (SEC 2 secp192r1, X9.62 prime192v1). crypto/elliptic
// does not ship it, so it runs on the generic CurveParams arithmetic.
var p192 = &elliptic.CurveParams{
	Name:    "P-192",
	BitSize: 192,
	P:       mustHex("fffffffffffffffffffffffffffffffeffffffffffffffff"),
	N:       mustHex("ffffffffffffffffffffffff99def836146bc9b1b4d22831"),
	B:       mustHex("64210519e59c80e70fa7e9ab72243049feb8deecc146b9b1"),
	Gx:      mustHex("188da80eb03090f67cbf20eb43a18800f4ff0afd82ff1012"),
	Gy:      mustHex("07192b95ffc8da78631011ed6b24cdd573f977a11e794811"),
}

// P192 returns the NIST P-192 curve.
func P192() elliptic.Curve {
	return p192
}

var registry = []*Curve{
	{
		Name:    "prime192v1",
		Aliases: []string{"P-192", "P192", "secp192r1"},
		OID:     oidPrime192v1,
		curve:   P192,
	},
	{
		Name:     "secp224r1",
		Aliases:  []string{"P-224", "P224"},
		OID:      oidSecp224r1,
		Standard: true,
		curve:    elliptic.P224,
	},
	{
		Name:     "prime256v1",
		Aliases:  []string{"P-256", "P256", "secp256r1"},
		OID:      oidPrime256v1,
		Standard: true,
		curve:    elliptic.P256,
	},
	{
		Name:     "secp384r1",
		Aliases:  []string{"P-384", "P384"},
		OID:      oidSecp384r1,
		Standard: true,
		curve:    elliptic.P384,
	},
	{
		Name:     "secp521r1",
		Aliases:  []string{"P-521", "P521"},
		OID:      oidSecp521r1,
		Standard: true,
		curve:    elliptic.P521,
	},
	{Name: "brainpoolP256r1", OID: oidBrainpoolP256r1, curve: brainpool.P256r1},
	{Name: "brainpoolP256t1", OID: oidBrainpoolP256t1, curve: brainpool.P256t1},
	{Name: "brainpoolP384r1", OID: oidBrainpoolP384r1, curve: brainpool.P384r1},
	{Name: "brainpoolP384t1", OID: oidBrainpoolP384t1, curve: brainpool.P384t1},
	{Name: "brainpoolP512r1", OID: oidBrainpoolP512r1, curve: brainpool.P512r1},
	{Name: "brainpoolP512t1", OID: oidBrainpoolP512t1, curve: brainpool.P512t1},
}

// byName indexes every name and alias in lower case.
var byName = func() map[string]*Curve {
	m := make(map[string]*Curve, len(registry)*3)
	for _, c := range registry {
		m[strings.ToLower(c.Name)] = c
		for _, alias := range c.Aliases {
			m[strings.ToLower(alias)] = c
		}
	}
	return m
}()

// Lookup resolves a curve by name, case-insensitively.
func Lookup(name string) (*Curve, error) {
	c, ok := byName[strings.ToLower(strings.TrimSpace(name))]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownCurve, name)
	}
	return c, nil
}

// ByOID resolves a curve by its namedCurve OID.
func ByOID(oid asn1.ObjectIdentifier) (*Curve, error) {
	for _, c := range registry {
		if c.OID.Equal(oid) {
			return c, nil
		}
	}
	return nil, fmt.Errorf("%w: oid %s", ErrUnknownCurve, oid)
}

// ByCurve resolves the registry entry for an elliptic.Curve value.
func ByCurve(curve elliptic.Curve) (*Curve, error) {
	if curve == nil {
		return nil, fmt.Errorf("%w: nil curve", ErrUnknownCurve)
	}
	params := curve.Params()
	for _, c := range registry {
		if c.curve().Params() == params {
			return c, nil
		}
	}
	// Some implementations return a fresh CurveParams on every call.
	for _, c := range registry {
		if c.curve().Params().Name == params.Name {
			return c, nil
		}
	}
	return nil, fmt.Errorf("%w: %s", ErrUnknownCurve, params.Name)
}

// Names returns the canonical names of all registered curves, sorted.
func Names() []string {
	names := make([]string, 0, len(registry))
	for _, c := range registry {
		names = append(names, c.Name)
	}
	sort.Strings(names)
	return names
}

func mustHex(s string) *big.Int {
	n, ok := new(big.Int).SetString(s, 16)
	if !ok {
		panic("curves: invalid hex constant " + s)
	}
	return n
}
