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

package guard

// releaser is the type-erased view of a Guard held by a Scope.
type releaser interface {
	Release()
	Detach()
}

type erased[T any] struct {
	g *Guard[T]
}

func (e erased[T]) Release() { e.g.Release() }
func (e erased[T]) Detach()  { e.g.Detach() }

// Scope tracks the guards of a multi-step construction. Close releases
// every tracked guard in reverse order unless Commit was called first.
//
// A Scope is not safe for concurrent use.
type Scope struct {
	tracked   []releaser
	committed bool
	closed    bool
}

// NewScope returns an empty scope.
func NewScope() *Scope {
	return &Scope{}
}

// Track creates a guard for handle and adds it to s.
func Track[T any](s *Scope, handle T, release func(T)) *Guard[T] {
	g := New(handle, release)
	s.tracked = append(s.tracked, erased[T]{g: g})
	return g
}

// Len returns the number of tracked guards.
func (s *Scope) Len() int {
	return len(s.tracked)
}

// Commit marks the construction successful. Tracked guards are detached
// so ownership of their handles passes to whoever holds them now.
func (s *Scope) Commit() {
	if s.closed {
		return
	}
	s.committed = true
	for _, r := range s.tracked {
		r.Detach()
	}
}

// Close releases tracked guards in LIFO order if the scope was not
// committed. Close is idempotent.
func (s *Scope) Close() {
	if s.closed {
		return
	}
	s.closed = true
	if s.committed {
		s.tracked = nil
		return
	}
	for i := len(s.tracked) - 1; i >= 0; i-- {
		s.tracked[i].Release()
	}
	s.tracked = nil
}
