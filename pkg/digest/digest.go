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

// Package digest provides named message digest contexts that are fed
// incrementally and finalized once. A finalized Context is what pkey
// signs and verifies.
package digest

import (
	"crypto"
	"crypto/md5"  // #nosec G501 - selectable for interoperability, never a default
	"crypto/sha1" // #nosec G505 - selectable for interoperability, never a default
	"crypto/sha256"
	"crypto/sha512"
	"errors"
	"fmt"
	"hash"
	"sort"
	"strings"

	"golang.org/x/crypto/sha3"
)

var (
	// ErrUnknownDigest is returned for digest names not in the table
	ErrUnknownDigest = errors.New("digest: unknown digest")

	// ErrFinalized is returned when data is written after Final
	ErrFinalized = errors.New("digest: context already finalized")
)

type algorithm struct {
	name string
	hash crypto.Hash
	new  func() hash.Hash
}

var algorithms = []algorithm{
	{"md5", crypto.MD5, md5.New},
	{"sha1", crypto.SHA1, sha1.New},
	{"sha224", crypto.SHA224, sha256.New224},
	{"sha256", crypto.SHA256, sha256.New},
	{"sha384", crypto.SHA384, sha512.New384},
	{"sha512", crypto.SHA512, sha512.New},
	{"sha512-224", crypto.SHA512_224, sha512.New512_224},
	{"sha512-256", crypto.SHA512_256, sha512.New512_256},
	{"sha3-224", crypto.SHA3_224, func() hash.Hash { return sha3.New224() }},
	{"sha3-256", crypto.SHA3_256, func() hash.Hash { return sha3.New256() }},
	{"sha3-384", crypto.SHA3_384, func() hash.Hash { return sha3.New384() }},
	{"sha3-512", crypto.SHA3_512, func() hash.Hash { return sha3.New512() }},
}

// byName maps normalized names ("sha256", "sha512224", "sha3256") to algorithms.
var byName = func() map[string]*algorithm {
	m := make(map[string]*algorithm, len(algorithms))
	for i := range algorithms {
		m[normalize(algorithms[i].name)] = &algorithms[i]
	}
	return m
}()

func normalize(name string) string {
	name = strings.ToLower(strings.TrimSpace(name))
	return strings.NewReplacer("-", "", "_", "", "/", "").Replace(name)
}

// Context is an incremental digest computation. Write feeds data until
// Final is called; afterwards the context is read-only and Final keeps
// returning the same sum.
//
// A Context is not safe for concurrent use.
type Context struct {
	alg *algorithm
	h   hash.Hash
	sum []byte
}

// New returns a context for the named digest. Names are matched
// case-insensitively with dashes and underscores ignored, so "SHA-256",
// "sha256" and "sha_256" are the same digest.
func New(name string) (*Context, error) {
	alg, ok := byName[normalize(name)]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownDigest, name)
	}
	return &Context{alg: alg, h: alg.new()}, nil
}

// Sum returns a finalized context over data.
func Sum(name string, data []byte) (*Context, error) {
	ctx, err := New(name)
	if err != nil {
		return nil, err
	}
	if err := ctx.Update(data); err != nil {
		return nil, err
	}
	ctx.Final()
	return ctx, nil
}

// Write implements io.Writer.
func (c *Context) Write(p []byte) (int, error) {
	if c.sum != nil {
		return 0, ErrFinalized
	}
	return c.h.Write(p)
}

// Update feeds p into the digest.
func (c *Context) Update(p []byte) error {
	_, err := c.Write(p)
	return err
}

// Final finalizes the digest and returns the sum. Subsequent calls
// return a copy of the same sum.
func (c *Context) Final() []byte {
	if c.sum == nil {
		c.sum = c.h.Sum(nil)
	}
	return append([]byte(nil), c.sum...)
}

// Finalized reports whether Final has been called.
func (c *Context) Finalized() bool {
	return c.sum != nil
}

// Hash returns the crypto.Hash identifier of the digest.
func (c *Context) Hash() crypto.Hash {
	return c.alg.hash
}

// Name returns the canonical digest name.
func (c *Context) Name() string {
	return c.alg.name
}

// Size returns the length of the sum in bytes.
func (c *Context) Size() int {
	return c.h.Size()
}

// Names returns the canonical names of all supported digests.
func Names() []string {
	names := make([]string, 0, len(algorithms))
	for _, a := range algorithms {
		names = append(names, a.name)
	}
	sort.Strings(names)
	return names
}
