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
	"fmt"
	"strings"
)

// Type is a GeneralName CHOICE tag (RFC 5280, section 4.2.1.6).
type Type int

// Name types in tag order
const (
	TypeOtherName Type = iota
	TypeRFC822Name
	TypeDNSName
	TypeX400Name
	TypeDirName
	TypeEDIPartyName
	TypeURI
	TypeIPAddress
	TypeRegisteredID
)

type typeInfo struct {
	name    string
	prefix  string
	aliases []string
	ia5     bool
}

// types is indexed by Type.
var types = [...]typeInfo{
	TypeOtherName:    {"otherName", "othername", nil, false},
	TypeRFC822Name:   {"RFC822Name", "email", []string{"RFC822", "email"}, true},
	TypeDNSName:      {"DNSName", "DNS", []string{"DNS"}, true},
	TypeX400Name:     {"X400Name", "X400Name", []string{"X400Address"}, false},
	TypeDirName:      {"DirName", "DirName", []string{"directoryName"}, false},
	TypeEDIPartyName: {"EDIPartyName", "EdiPartyName", nil, false},
	TypeURI:          {"URI", "URI", []string{"UniformResourceIdentifier"}, true},
	TypeIPAddress:    {"IPAddress", "IP Address", []string{"IP"}, false},
	TypeRegisteredID: {"RID", "Registered ID", []string{"registeredID"}, false},
}

var byName = func() map[string]Type {
	m := make(map[string]Type)
	for t, info := range types {
		m[strings.ToLower(info.name)] = Type(t)
		for _, alias := range info.aliases {
			m[strings.ToLower(alias)] = Type(t)
		}
	}
	return m
}()

// ParseType resolves a name type case-insensitively, accepting the
// canonical names and their aliases ("email", "DNS", "IP", ...).
func ParseType(name string) (Type, error) {
	t, ok := byName[strings.ToLower(strings.TrimSpace(name))]
	if !ok {
		return 0, fmt.Errorf("%w: %q", ErrUnknownType, name)
	}
	return t, nil
}

// String returns the canonical type name.
func (t Type) String() string {
	if !t.valid() {
		return fmt.Sprintf("Type(%d)", int(t))
	}
	return types[t].name
}

// IA5 reports whether values of this type are IA5String encoded.
// Only IA5 types can be added to a List.
func (t Type) IA5() bool {
	return t.valid() && types[t].ia5
}

func (t Type) valid() bool {
	return t >= 0 && int(t) < len(types)
}

// Types returns every name type in tag order.
func Types() []Type {
	out := make([]Type, len(types))
	for i := range types {
		out[i] = Type(i)
	}
	return out
}
