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
	"crypto/ecdsa"
	"crypto/elliptic"
	"crypto/x509"
	"encoding/asn1"
	"fmt"
	"math/big"

	"github.com/jeremyhahn/go-pkey/pkg/curves"
	"golang.org/x/crypto/cryptobyte"
	cryptobyte_asn1 "golang.org/x/crypto/cryptobyte/asn1"
)

// SEC 1 / RFC 5915 ECPrivateKey version.
const ecPrivKeyVersion = 1

var oidPublicKeyECDSA = asn1.ObjectIdentifier{1, 2, 840, 10045, 2, 1}

var (
	tagECParameters = cryptobyte_asn1.Tag(0).Constructed().ContextSpecific()
	tagECPublicKey  = cryptobyte_asn1.Tag(1).Constructed().ContextSpecific()
)

// EncodeECPrivateKey encodes an EC private key to SEC 1 ASN.1 DER form.
// The curve is always written as a namedCurve OID and the public point
// in uncompressed form. Curves crypto/x509 does not know (prime192v1,
// brainpool) are handled by this package's own codec.
func EncodeECPrivateKey(key *ecdsa.PrivateKey) ([]byte, error) {
	if key == nil || key.D == nil {
		return nil, ErrInvalidPrivateKey
	}
	c, err := lookupCurve(key.Curve)
	if err != nil {
		return nil, err
	}
	if c.Standard {
		return x509.MarshalECPrivateKey(key)
	}
	return marshalSEC1(key, c, true)
}

// DecodeECPrivateKey parses a SEC 1 ASN.1 DER EC private key on any
// curve registered in pkg/curves.
func DecodeECPrivateKey(der []byte) (*ecdsa.PrivateKey, error) {
	if len(der) == 0 {
		return nil, ErrInvalidData
	}
	key, err := x509.ParseECPrivateKey(der)
	if err == nil {
		return key, nil
	}
	key, lerr := parseSEC1(der, nil)
	if lerr != nil {
		return nil, fmt.Errorf("failed to parse EC private key: %w", err)
	}
	return key, nil
}

func lookupCurve(curve elliptic.Curve) (*curves.Curve, error) {
	c, err := curves.ByCurve(curve)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnsupportedCurve, err)
	}
	return c, nil
}

func privateScalar(key *ecdsa.PrivateKey) ([]byte, error) {
	size := (key.Curve.Params().N.BitLen() + 7) / 8
	if key.D.Sign() <= 0 || key.D.BitLen() > size*8 {
		return nil, ErrInvalidPrivateKey
	}
	return key.D.FillBytes(make([]byte, size)), nil
}

func marshalSEC1(key *ecdsa.PrivateKey, c *curves.Curve, withParams bool) ([]byte, error) {
	scalar, err := privateScalar(key)
	if err != nil {
		return nil, err
	}
	defer clear(scalar)

	point := elliptic.Marshal(key.Curve, key.X, key.Y)

	var b cryptobyte.Builder
	b.AddASN1(cryptobyte_asn1.SEQUENCE, func(b *cryptobyte.Builder) {
		b.AddASN1Int64(ecPrivKeyVersion)
		b.AddASN1OctetString(scalar)
		if withParams {
			b.AddASN1(tagECParameters, func(b *cryptobyte.Builder) {
				b.AddASN1ObjectIdentifier(c.OID)
			})
		}
		b.AddASN1(tagECPublicKey, func(b *cryptobyte.Builder) {
			b.AddASN1BitString(point)
		})
	})
	return b.Bytes()
}

// parseSEC1 parses an ECPrivateKey. hint supplies the curve when the
// structure carries no parameters (the PKCS#8 embedding).
func parseSEC1(der []byte, hint *curves.Curve) (*ecdsa.PrivateKey, error) {
	input := cryptobyte.String(der)
	var (
		seq, scalar cryptobyte.String
		version     int
	)
	if !input.ReadASN1(&seq, cryptobyte_asn1.SEQUENCE) || !input.Empty() ||
		!seq.ReadASN1Integer(&version) ||
		!seq.ReadASN1(&scalar, cryptobyte_asn1.OCTET_STRING) {
		return nil, fmt.Errorf("%w: malformed ECPrivateKey", ErrInvalidData)
	}
	if version != ecPrivKeyVersion {
		return nil, fmt.Errorf("%w: unknown ECPrivateKey version %d", ErrInvalidData, version)
	}

	var (
		params    cryptobyte.String
		hasParams bool
	)
	if !seq.ReadOptionalASN1(&params, &hasParams, tagECParameters) {
		return nil, fmt.Errorf("%w: malformed ECPrivateKey parameters", ErrInvalidData)
	}

	c := hint
	if hasParams {
		var oid asn1.ObjectIdentifier
		if !params.ReadASN1ObjectIdentifier(&oid) {
			return nil, fmt.Errorf("%w: EC parameters are not a named curve", ErrUnsupportedCurve)
		}
		named, err := curves.ByOID(oid)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrUnsupportedCurve, err)
		}
		c = named
	}
	if c == nil {
		return nil, fmt.Errorf("%w: missing curve parameters", ErrInvalidData)
	}

	return newECPrivateKey(c, scalar)
}

func newECPrivateKey(c *curves.Curve, scalar []byte) (*ecdsa.PrivateKey, error) {
	curve := c.Curve()
	n := curve.Params().N
	d := new(big.Int).SetBytes(scalar)
	if d.Sign() <= 0 || d.Cmp(n) >= 0 {
		return nil, fmt.Errorf("%w: private scalar out of range", ErrInvalidPrivateKey)
	}

	key := &ecdsa.PrivateKey{D: d}
	key.Curve = curve
	padded := d.FillBytes(make([]byte, (n.BitLen()+7)/8))
	key.X, key.Y = curve.ScalarBaseMult(padded)
	clear(padded)
	return key, nil
}

func marshalPKIX(pub *ecdsa.PublicKey, c *curves.Curve) ([]byte, error) {
	if pub.X == nil || pub.Y == nil || !pub.Curve.IsOnCurve(pub.X, pub.Y) {
		return nil, ErrInvalidPublicKey
	}
	point := elliptic.Marshal(pub.Curve, pub.X, pub.Y)

	var b cryptobyte.Builder
	b.AddASN1(cryptobyte_asn1.SEQUENCE, func(b *cryptobyte.Builder) {
		b.AddASN1(cryptobyte_asn1.SEQUENCE, func(b *cryptobyte.Builder) {
			b.AddASN1ObjectIdentifier(oidPublicKeyECDSA)
			b.AddASN1ObjectIdentifier(c.OID)
		})
		b.AddASN1BitString(point)
	})
	return b.Bytes()
}

func parsePKIX(der []byte) (*ecdsa.PublicKey, error) {
	input := cryptobyte.String(der)
	var (
		spki, algo   cryptobyte.String
		algOID, cOID asn1.ObjectIdentifier
		bits         asn1.BitString
	)
	if !input.ReadASN1(&spki, cryptobyte_asn1.SEQUENCE) || !input.Empty() ||
		!spki.ReadASN1(&algo, cryptobyte_asn1.SEQUENCE) ||
		!algo.ReadASN1ObjectIdentifier(&algOID) {
		return nil, fmt.Errorf("%w: malformed SubjectPublicKeyInfo", ErrInvalidData)
	}
	if !algOID.Equal(oidPublicKeyECDSA) {
		return nil, fmt.Errorf("%w: algorithm %s is not id-ecPublicKey", ErrInvalidData, algOID)
	}
	if !algo.ReadASN1ObjectIdentifier(&cOID) {
		return nil, fmt.Errorf("%w: EC parameters are not a named curve", ErrUnsupportedCurve)
	}
	if !spki.ReadASN1BitString(&bits) || bits.BitLength%8 != 0 {
		return nil, fmt.Errorf("%w: malformed public key bit string", ErrInvalidData)
	}

	c, err := curves.ByOID(cOID)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnsupportedCurve, err)
	}
	curve := c.Curve()
	x, y := elliptic.Unmarshal(curve, bits.Bytes)
	if x == nil {
		return nil, fmt.Errorf("%w: invalid EC point", ErrInvalidPublicKey)
	}
	return &ecdsa.PublicKey{Curve: curve, X: x, Y: y}, nil
}

func marshalPKCS8EC(key *ecdsa.PrivateKey, c *curves.Curve) ([]byte, error) {
	inner, err := marshalSEC1(key, c, false)
	if err != nil {
		return nil, err
	}
	defer clear(inner)

	var b cryptobyte.Builder
	b.AddASN1(cryptobyte_asn1.SEQUENCE, func(b *cryptobyte.Builder) {
		b.AddASN1Int64(0)
		b.AddASN1(cryptobyte_asn1.SEQUENCE, func(b *cryptobyte.Builder) {
			b.AddASN1ObjectIdentifier(oidPublicKeyECDSA)
			b.AddASN1ObjectIdentifier(c.OID)
		})
		b.AddASN1OctetString(inner)
	})
	return b.Bytes()
}

func parsePKCS8EC(der []byte) (*ecdsa.PrivateKey, error) {
	input := cryptobyte.String(der)
	var (
		seq, algo, inner cryptobyte.String
		version          int
		algOID, cOID     asn1.ObjectIdentifier
	)
	if !input.ReadASN1(&seq, cryptobyte_asn1.SEQUENCE) || !input.Empty() ||
		!seq.ReadASN1Integer(&version) || version != 0 ||
		!seq.ReadASN1(&algo, cryptobyte_asn1.SEQUENCE) ||
		!algo.ReadASN1ObjectIdentifier(&algOID) {
		return nil, fmt.Errorf("%w: malformed PrivateKeyInfo", ErrInvalidData)
	}
	if !algOID.Equal(oidPublicKeyECDSA) {
		return nil, fmt.Errorf("%w: algorithm %s is not id-ecPublicKey", ErrInvalidData, algOID)
	}
	if !algo.ReadASN1ObjectIdentifier(&cOID) {
		return nil, fmt.Errorf("%w: EC parameters are not a named curve", ErrUnsupportedCurve)
	}
	if !seq.ReadASN1(&inner, cryptobyte_asn1.OCTET_STRING) {
		return nil, fmt.Errorf("%w: malformed PrivateKeyInfo", ErrInvalidData)
	}

	c, err := curves.ByOID(cOID)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnsupportedCurve, err)
	}
	return parseSEC1(inner, c)
}

// isEncryptedPKCS8 reports whether der looks like an EncryptedPrivateKeyInfo:
// its first element is an AlgorithmIdentifier SEQUENCE where PrivateKeyInfo
// starts with an INTEGER version.
func isEncryptedPKCS8(der []byte) bool {
	input := cryptobyte.String(der)
	var seq cryptobyte.String
	if !input.ReadASN1(&seq, cryptobyte_asn1.SEQUENCE) {
		return false
	}
	return seq.PeekASN1Tag(cryptobyte_asn1.SEQUENCE)
}
