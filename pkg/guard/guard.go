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

// Package guard provides exactly-once ownership of handles that carry
// secret material or other resources needing explicit release.
//
// A Guard owns one handle and runs its release function exactly once,
// either when the owner calls Release or never, when ownership has been
// transferred elsewhere with Detach. A Scope collects guards for the
// intermediate values of a multi-step construction and releases them
// at the failure point unless the construction commits:
//
//	scope := guard.NewScope()
//	defer scope.Close()
//
//	tmp := guard.Track(scope, buf, wipe)
//	if err := step(tmp.Handle()); err != nil {
//	    return err // buf is wiped by scope.Close
//	}
//	scope.Commit() // buf now belongs to the caller
package guard

import "sync"

// Guard owns a handle and releases it exactly once.
//
// Guard is safe for concurrent calls to Release and Detach; the handle
// itself is not synchronized.
type Guard[T any] struct {
	handle   T
	release  func(T)
	mu       sync.Mutex
	released bool
	detached bool
}

// New registers release for handle. Registration cannot fail. A nil
// release function is allowed and makes Release a no-op apart from
// marking the guard released.
func New[T any](handle T, release func(T)) *Guard[T] {
	return &Guard[T]{
		handle:  handle,
		release: release,
	}
}

// Handle returns the guarded handle. The value is still returned after
// Release so callers can inspect a wiped handle in tests, but it must not
// be used for further work.
func (g *Guard[T]) Handle() T {
	return g.handle
}

// Release runs the release function if it has not run yet and the
// guard has not been detached.
func (g *Guard[T]) Release() {
	g.mu.Lock()
	if g.released {
		g.mu.Unlock()
		return
	}
	g.released = true
	detached := g.detached
	g.mu.Unlock()

	if !detached && g.release != nil {
		g.release(g.handle)
	}
}

// Released reports whether Release has been called.
func (g *Guard[T]) Released() bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.released
}

// Detach transfers ownership of the handle to the caller. The release
// function will never run, even if Release is called afterwards.
func (g *Guard[T]) Detach() T {
	g.mu.Lock()
	g.detached = true
	g.mu.Unlock()
	return g.handle
}

// Detached reports whether ownership has been transferred with Detach.
func (g *Guard[T]) Detached() bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.detached
}
