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

package altname

import (
	"crypto/x509/pkix"
	"encoding/asn1"
	"fmt"

	"golang.org/x/crypto/cryptobyte"
	cryptobyte_asn1 "golang.org/x/crypto/cryptobyte/asn1"
)

// OIDSubjectAltName is the SubjectAltName extension identifier.
var OIDSubjectAltName = asn1.ObjectIdentifier{2, 5, 29, 17}

// Marshal encodes the list as a DER GeneralNames sequence. IA5 names
// use the implicit context-specific tag of their type.
func (l *List) Marshal() ([]byte, error) {
	if l.closed() {
		return nil, ErrClosed
	}
	entries := *l.entries.Handle()
	if len(entries) == 0 {
		return nil, ErrEmpty
	}

	var b cryptobyte.Builder
	b.AddASN1(cryptobyte_asn1.SEQUENCE, func(b *cryptobyte.Builder) {
		for _, e := range entries {
			if !e.Type.IA5() {
				b.SetError(fmt.Errorf("%w: %s", ErrUnsupported, e.Type))
				return
			}
			b.AddASN1(cryptobyte_asn1.Tag(e.Type).ContextSpecific(), func(b *cryptobyte.Builder) {
				b.AddBytes(e.Value)
			})
		}
	})
	return b.Bytes()
}

// Extension returns the SubjectAltName extension for the list, suitable
// for x509.Certificate.ExtraExtensions or a certificate request.
func (l *List) Extension(critical bool) (pkix.Extension, error) {
	der, err := l.Marshal()
	if err != nil {
		return pkix.Extension{}, err
	}
	return pkix.Extension{
		Id:       OIDSubjectAltName,
		Critical: critical,
		Value:    der,
	}, nil
}
