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
	"bytes"
	"errors"
	"fmt"
	"io"

	"github.com/jeremyhahn/go-pkey/pkg/encoding"
	"github.com/jeremyhahn/go-pkey/pkg/guard"
	"github.com/jeremyhahn/go-pkey/pkg/metrics"
)

// strategy is one interpretation of serialized key input.
type strategy struct {
	name   string
	format Format
	role   Role
	decode func(data, password []byte) (any, error)
}

// strategies is ordered by format, and within a format private
// interpretations come before public ones.
var strategies = [...]strategy{
	{"pem-private", FormatPEM, RolePrivate, func(data, password []byte) (any, error) {
		return encoding.DecodePrivateKeyPEM(data, password)
	}},
	{"pem-public-pkix", FormatPEM, RolePublic, func(data, _ []byte) (any, error) {
		return encoding.DecodePublicKeyPEM(data)
	}},
	{"pem-public-pkcs1", FormatPEM, RolePublic, func(data, _ []byte) (any, error) {
		return encoding.DecodeRSAPublicKeyPEM(data)
	}},
	{"der-private-pkcs8", FormatDER, RolePrivate, func(data, password []byte) (any, error) {
		return encoding.DecodePKCS8(data, password)
	}},
	{"der-private-pkcs1", FormatDER, RolePrivate, func(data, _ []byte) (any, error) {
		return encoding.DecodePKCS1PrivateKey(data)
	}},
	{"der-private-sec1", FormatDER, RolePrivate, func(data, _ []byte) (any, error) {
		return encoding.DecodeECPrivateKey(data)
	}},
	{"der-public-pkix", FormatDER, RolePublic, func(data, _ []byte) (any, error) {
		return encoding.DecodePublicKeyPKIX(data)
	}},
	{"der-public-pkcs1", FormatDER, RolePublic, func(data, _ []byte) (any, error) {
		return encoding.DecodePKCS1PublicKey(data)
	}},
}

func (s *strategy) matches(format Format, role Role) bool {
	return (format == FormatAny || s.format == format) &&
		(role == RoleAny || s.role == role)
}

// run rewinds r and decodes its full contents. The bytes read are
// wiped once decoding returns.
func (s *strategy) run(r *bytes.Reader, password []byte) (any, error) {
	if _, err := r.Seek(0, io.SeekStart); err != nil {
		return nil, err
	}
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}
	buf := guard.New(data, func(b []byte) { clear(b) })
	defer buf.Release()
	return s.decode(buf.Handle(), password)
}

// Load decodes serialized key material. format and role narrow the
// decode strategies that are tried; the first strategy that succeeds
// wins. When every strategy fails the error wraps ErrDecodeFailure and
// the diagnostic of each attempt.
func Load(data []byte, format Format, role Role, opts ...Option) (*Key, error) {
	return load(LoadInput{Data: data, Format: format, Role: role}, newOptions(opts))
}

// LoadWithPassword is Load for encrypted PKCS#8 or legacy encrypted PEM.
func LoadWithPassword(data, password []byte, format Format, role Role, opts ...Option) (*Key, error) {
	return load(LoadInput{Data: data, Format: format, Role: role, Password: password}, newOptions(opts))
}

func load(in LoadInput, o *options) (key *Key, err error) {
	alg := AlgorithmUnknown
	done := metrics.Track(metrics.OpLoad)
	defer func() {
		done(alg.String(), err)
		recordError(metrics.OpLoad, alg, err)
	}()

	if !in.Format.valid() {
		return nil, fmt.Errorf("%w: format %s", ErrInvalidArgument, in.Format)
	}
	if !in.Role.valid() {
		return nil, fmt.Errorf("%w: role %s", ErrInvalidArgument, in.Role)
	}

	r := bytes.NewReader(in.Data)
	var errs []error
	for i := range strategies {
		s := &strategies[i]
		if !s.matches(in.Format, in.Role) {
			continue
		}
		raw, err := s.run(r, in.Password)
		if err != nil {
			o.logger.Debug("decode strategy failed", "strategy", s.name, "error", err)
			errs = append(errs, fmt.Errorf("%s: %w", s.name, err))
			continue
		}
		o.logger.Debug("decode strategy succeeded", "strategy", s.name)

		key, err := bind(raw, o)
		if err != nil {
			return nil, err
		}
		alg = key.alg
		key.logger.Debug("key loaded", "algorithm", alg.String(), "private", key.private)
		return key, nil
	}

	return nil, fmt.Errorf("%w: %w", ErrDecodeFailure, errors.Join(errs...))
}

// bind takes ownership of generated or decoded key material. Anything that cannot
// become a Key is wiped before bind returns.
func bind(raw any, o *options) (*Key, error) {
	scope := guard.NewScope()
	defer scope.Close()
	guard.Track(scope, raw, wipeKey)

	h, err := newHandle(raw)
	if err != nil {
		return nil, err
	}
	key, err := newKey(h, o)
	if err != nil {
		return nil, err
	}
	scope.Commit()
	return key, nil
}
