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

// Package altname builds ordered lists of alternative names for the X.509
// SubjectAltName extension.
//
// A List owns every entry appended to it. Close wipes all entry values
// exactly once; entries are never released individually.
//
// Example:
//
//	names := altname.New()
//	defer names.Close()
//
//	if err := names.Add("DNS", "example.com"); err != nil {
//	    return err
//	}
//	if err := names.Add("URI", "https://example.com"); err != nil {
//	    return err
//	}
//	ext, err := names.Extension(false)
package altname

import (
	"fmt"
	"iter"

	"github.com/jeremyhahn/go-pkey/pkg/guard"
	"github.com/jeremyhahn/go-pkey/pkg/metrics"
)

// Entry is one alternative name.
type Entry struct {
	Type  Type
	Value []byte
}

// String formats the entry the way openssl x509 -text prints it.
func (e Entry) String() string {
	prefix := e.Type.String()
	if e.Type.valid() {
		prefix = types[e.Type].prefix
	}
	return prefix + ":" + string(e.Value)
}

func (e Entry) clone() Entry {
	return Entry{Type: e.Type, Value: append([]byte(nil), e.Value...)}
}

// List is an ordered, append-only list of alternative names.
// A List is not safe for concurrent use.
type List struct {
	entries *guard.Guard[*[]Entry]
}

// New returns an empty list.
func New() *List {
	entries := make([]Entry, 0, 4)
	return &List{entries: guard.New(&entries, wipeEntries)}
}

func wipeEntries(entries *[]Entry) {
	for i := range *entries {
		clear((*entries)[i].Value)
	}
	*entries = nil
}

// Add appends a name of the given type. typ is resolved with ParseType
// and value must be a string of 7-bit ASCII characters. On error the
// list is left unchanged.
func (l *List) Add(typ string, value any) error {
	if l.closed() {
		return ErrClosed
	}

	t, err := ParseType(typ)
	if err != nil {
		return err
	}
	s, ok := value.(string)
	if !ok {
		return fmt.Errorf("%w: %s value must be a string, got %T", ErrInvalidArgument, t, value)
	}
	if !t.IA5() {
		return fmt.Errorf("%w: %s", ErrUnsupported, t)
	}

	scope := guard.NewScope()
	defer scope.Close()

	buf := guard.Track(scope, make([]byte, len(s)), func(b []byte) { clear(b) })
	copy(buf.Handle(), s)
	if err := checkIA5(buf.Handle()); err != nil {
		return fmt.Errorf("%w: %s: %w", ErrInvalidArgument, t, err)
	}

	entries := l.entries.Handle()
	*entries = append(*entries, Entry{Type: t, Value: buf.Handle()})
	scope.Commit()

	metrics.RecordNameEntry(t.String())
	return nil
}

func checkIA5(b []byte) error {
	for i, c := range b {
		if c > 0x7f {
			return fmt.Errorf("byte 0x%02x at offset %d is not an IA5String character", c, i)
		}
	}
	return nil
}

// Len returns the number of entries. A closed list has none.
func (l *List) Len() int {
	if l.closed() {
		return 0
	}
	return len(*l.entries.Handle())
}

// Entry returns a copy of the i-th entry.
func (l *List) Entry(i int) (Entry, error) {
	if l.closed() {
		return Entry{}, ErrClosed
	}
	entries := *l.entries.Handle()
	if i < 0 || i >= len(entries) {
		return Entry{}, fmt.Errorf("%w: index %d out of range [0,%d)", ErrInvalidArgument, i, len(entries))
	}
	return entries[i].clone(), nil
}

// Entries returns copies of all entries in append order.
func (l *List) Entries() []Entry {
	if l.closed() {
		return nil
	}
	entries := *l.entries.Handle()
	out := make([]Entry, len(entries))
	for i, e := range entries {
		out[i] = e.clone()
	}
	return out
}

// All iterates over copies of the entries in append order.
func (l *List) All() iter.Seq2[int, Entry] {
	return func(yield func(int, Entry) bool) {
		if l.closed() {
			return
		}
		for i, e := range *l.entries.Handle() {
			if !yield(i, e.clone()) {
				return
			}
		}
	}
}

// Close wipes every entry. It is safe to call more than once.
func (l *List) Close() error {
	l.entries.Release()
	return nil
}

func (l *List) closed() bool {
	return l == nil || l.entries == nil || l.entries.Released()
}
