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

// Package password resolves key passwords given on the command line and
// holds them in memory until they are cleared.
//
// A password argument is either a literal or one of the sources
//
//	pass:<password>   the literal password
//	env:<name>        the value of environment variable <name>
//	file:<path>       the first line of <path>
package password

import (
	"bufio"
	"bytes"
	"crypto/subtle"
	"errors"
	"fmt"
	"os"
	"strings"
)

var (
	// ErrEmptyPassword is returned when an empty password is provided.
	ErrEmptyPassword = errors.New("password cannot be empty")

	// ErrPasswordZeroed is returned when the password has been zeroed.
	ErrPasswordZeroed = errors.New("password has been zeroed")
)

// ClearPassword stores a password in memory as cleartext until Clear.
type ClearPassword struct {
	password []byte
}

// NewClearPassword copies password into a new ClearPassword.
func NewClearPassword(password []byte) (*ClearPassword, error) {
	if len(password) == 0 {
		return nil, ErrEmptyPassword
	}
	p := make([]byte, len(password))
	copy(p, password)
	return &ClearPassword{password: p}, nil
}

// Resolve reads the password named by arg. An empty arg yields a nil
// password and no error.
func Resolve(arg string) (*ClearPassword, error) {
	if arg == "" {
		return nil, nil
	}

	source, value, ok := strings.Cut(arg, ":")
	if !ok {
		return NewClearPassword([]byte(arg))
	}
	switch source {
	case "pass":
		return NewClearPassword([]byte(value))
	case "env":
		v, ok := os.LookupEnv(value)
		if !ok {
			return nil, fmt.Errorf("password environment variable %s is not set", value)
		}
		return NewClearPassword([]byte(v))
	case "file":
		return fromFile(value)
	}
	// Not a source prefix, e.g. "s3cret:with:colons"
	return NewClearPassword([]byte(arg))
}

func fromFile(path string) (*ClearPassword, error) {
	// #nosec G304 - Password file path is provided by the user
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read password file: %w", err)
	}
	defer clear(data)

	line, _, err := bufio.NewReader(bytes.NewReader(data)).ReadLine()
	if err != nil {
		return nil, ErrEmptyPassword
	}
	return NewClearPassword(line)
}

// Bytes returns a copy of the password, or nil once cleared. A nil
// ClearPassword yields nil.
func (p *ClearPassword) Bytes() []byte {
	if p == nil || p.password == nil {
		return nil
	}
	result := make([]byte, len(p.password))
	copy(result, p.password)
	return result
}

// String returns the password as a string.
func (p *ClearPassword) String() (string, error) {
	if p == nil || p.password == nil {
		return "", ErrPasswordZeroed
	}
	return string(p.password), nil
}

// Clear zeroes the password. It is safe to call on a nil ClearPassword
// and more than once.
func (p *ClearPassword) Clear() {
	if p == nil || p.password == nil {
		return
	}
	clear(p.password)
	subtle.ConstantTimeCopy(1, p.password, make([]byte, len(p.password)))
	p.password = nil
}

// Equal compares two passwords in constant time.
func Equal(a, b *ClearPassword) (bool, error) {
	aBytes := a.Bytes()
	if aBytes == nil {
		return false, ErrPasswordZeroed
	}
	defer clear(aBytes)

	bBytes := b.Bytes()
	if bBytes == nil {
		return false, ErrPasswordZeroed
	}
	defer clear(bBytes)

	return subtle.ConstantTimeCompare(aBytes, bBytes) == 1, nil
}
