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
	"fmt"
	"math"
	"strings"
)

// Algorithm is the family of a key.
type Algorithm int

// Key families
const (
	AlgorithmUnknown Algorithm = iota
	AlgorithmRSA
	AlgorithmEC
)

func (a Algorithm) String() string {
	switch a {
	case AlgorithmRSA:
		return "rsa"
	case AlgorithmEC:
		return "ec"
	}
	return "unknown"
}

func parseAlgorithm(name string) (Algorithm, error) {
	switch strings.ToUpper(strings.TrimSpace(name)) {
	case "RSA":
		return AlgorithmRSA, nil
	case "EC", "ECDSA":
		return AlgorithmEC, nil
	}
	return AlgorithmUnknown, fmt.Errorf("%w: %q", ErrUnsupportedType, name)
}

// Format is the encoding hint of serialized key input.
type Format int

// Encodings
const (
	FormatAny Format = iota
	FormatPEM
	FormatDER
)

func (f Format) String() string {
	switch f {
	case FormatAny:
		return "any"
	case FormatPEM:
		return "pem"
	case FormatDER:
		return "der"
	}
	return fmt.Sprintf("Format(%d)", int(f))
}

func (f Format) valid() bool {
	return f >= FormatAny && f <= FormatDER
}

// ParseFormat accepts "pem", "der", "any" and "" (any), case-insensitively.
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "any":
		return FormatAny, nil
	case "pem":
		return FormatPEM, nil
	case "der":
		return FormatDER, nil
	}
	return FormatAny, fmt.Errorf("%w: unknown format %q", ErrInvalidArgument, s)
}

// Role is the private/public hint of serialized key input.
type Role int

// Roles
const (
	RoleAny Role = iota
	RolePrivate
	RolePublic
)

func (r Role) String() string {
	switch r {
	case RoleAny:
		return "any"
	case RolePrivate:
		return "private"
	case RolePublic:
		return "public"
	}
	return fmt.Sprintf("Role(%d)", int(r))
}

func (r Role) valid() bool {
	return r >= RoleAny && r <= RolePublic
}

// ParseRole accepts "private", "public", "any" and "" (any), case-insensitively.
func ParseRole(s string) (Role, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "any":
		return RoleAny, nil
	case "private":
		return RolePrivate, nil
	case "public":
		return RolePublic, nil
	}
	return RoleAny, fmt.Errorf("%w: unknown role %q", ErrInvalidArgument, s)
}

// Generation defaults
const (
	DefaultType     = "RSA"
	DefaultBits     = 2048
	DefaultExponent = 65537
	DefaultCurve    = "prime192v1"
)

// GenerateConfig selects the key to generate. Zero fields take the
// package defaults.
type GenerateConfig struct {
	// Type is "RSA" or "EC"
	Type string `yaml:"type" json:"type,omitempty"`

	// Bits is the RSA modulus size
	Bits int64 `yaml:"bits" json:"bits,omitempty"`

	// Exp is the RSA public exponent
	Exp int64 `yaml:"exp" json:"exp,omitempty"`

	// Curve is an EC curve name such as "prime256v1" or "brainpoolP256r1"
	Curve string `yaml:"curve" json:"curve,omitempty"`
}

// DefaultGenerateConfig returns a config holding the package defaults.
func DefaultGenerateConfig() GenerateConfig {
	return GenerateConfig{
		Type:  DefaultType,
		Bits:  DefaultBits,
		Exp:   DefaultExponent,
		Curve: DefaultCurve,
	}
}

// WithDefaults returns a copy of c with zero fields set to the defaults.
func (c GenerateConfig) WithDefaults() GenerateConfig {
	if c.Type == "" {
		c.Type = DefaultType
	}
	if c.Bits == 0 {
		c.Bits = DefaultBits
	}
	if c.Exp == 0 {
		c.Exp = DefaultExponent
	}
	if c.Curve == "" {
		c.Curve = DefaultCurve
	}
	return c
}

// Validate checks the config without generating anything.
func (c GenerateConfig) Validate() error {
	c = c.WithDefaults()
	alg, err := parseAlgorithm(c.Type)
	if err != nil {
		return err
	}
	switch alg {
	case AlgorithmRSA:
		if err := checkBits(c.Bits); err != nil {
			return err
		}
		return checkExponent(c.Exp)
	default:
		_, err := lookupCurve(c.Curve)
		return err
	}
}

func checkBits(bits int64) error {
	if bits < 0 || bits > math.MaxUint32 {
		return fmt.Errorf("%w: %d", ErrBitsOutOfRange, bits)
	}
	return nil
}

func checkExponent(exp int64) error {
	if exp < 3 || exp%2 == 0 || exp > math.MaxInt32 {
		return fmt.Errorf("%w: public exponent %d must be odd and within [3, 2^31)", ErrInvalidArgument, exp)
	}
	return nil
}

// LoadInput is serialized key material with optional hints.
type LoadInput struct {
	Data     []byte
	Format   Format
	Role     Role
	Password []byte
}
