// Copyright 2024 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package table

import (
	"sync"
	"sync/atomic"

	"github.com/falcosecurity/go-plugin-sdk/event"
)

// Entry is one row of an Exported table: a positional slice of static field
// values plus a sparse map of dynamic field values. A handle to an Entry
// may be held independently of the table's own mutability (spec.md §3.3
// "a table lookup returns a handle whose lifetime is independent of the
// table's mutability") — on the Go side this falls out naturally from
// *Entry being an ordinary garbage-collected pointer; erasing the entry
// from its table's index doesn't invalidate handles already obtained.
type Entry struct {
	static  []event.FieldValue
	dynamic map[int]event.FieldValue
}

func newEntry(nStatic int) *Entry {
	return &Entry{static: make([]event.FieldValue, nStatic)}
}

// Get reads field's value from the entry, or nil if it was never set.
func (e *Entry) Get(field FieldDesc) (event.FieldValue, error) {
	if field.Dynamic {
		return e.dynamic[field.Index], nil
	}
	if field.Index < 0 || field.Index >= len(e.static) {
		return nil, fieldNotFound(field.Name)
	}
	return e.static[field.Index], nil
}

// Set writes value into field, rejecting readonly fields and type
// mismatches (spec.md §4.3 get_field_value/write).
func (e *Entry) Set(field FieldDesc, value event.FieldValue) error {
	if field.ReadOnly {
		return readOnlyField(field.Name)
	}
	if value != nil && value.TypeID() != field.Type {
		return typeMismatch(field.Name, field.Type, value.TypeID())
	}
	if field.Dynamic {
		if e.dynamic == nil {
			e.dynamic = make(map[int]event.FieldValue)
		}
		e.dynamic[field.Index] = value
		return nil
	}
	if field.Index < 0 || field.Index >= len(e.static) {
		return fieldNotFound(field.Name)
	}
	e.static[field.Index] = value
	return nil
}

// Exported is a table a plugin owns and hands to the host (and other
// plugins) as an opaque pointer plus a vtable (spec.md §3.4, §4.3). K is
// the table's key type. Exported is single-threaded: the ABI contract
// (spec.md §4.3 "Concurrency") guarantees the host never calls it
// re-entrantly from multiple threads, so there is no internal locking here
// — table/abi's bridge layer is the one place that might need to reason
// about concurrent callers, and it doesn't, per that same guarantee.
type Exported[K Key] struct {
	Name string

	staticFields []FieldDesc
	dynByName    map[string]*FieldDesc
	dynOrder     []*FieldDesc

	entries map[K]*Entry
	order   []K // insertion order; spec.md §4.3 only requires determinism
}

// NewExported constructs an Exported table with the given static field
// schema, declared once at construction and never changed afterward.
func NewExported[K Key](name string, staticFields []FieldDesc) *Exported[K] {
	fields := make([]FieldDesc, len(staticFields))
	for i, f := range staticFields {
		f.Index = i
		f.Dynamic = false
		fields[i] = f
	}
	return &Exported[K]{
		Name:         name,
		staticFields: fields,
		dynByName:    make(map[string]*FieldDesc),
		entries:      make(map[K]*Entry),
	}
}

// ListFields returns every static and dynamic field descriptor, static
// fields first in declaration order, dynamic fields in registration order.
func (t *Exported[K]) ListFields() []FieldDesc {
	out := make([]FieldDesc, 0, len(t.staticFields)+len(t.dynOrder))
	out = append(out, t.staticFields...)
	for _, d := range t.dynOrder {
		out = append(out, *d)
	}
	return out
}

// GetField looks up a field descriptor (static or dynamic) by name.
func (t *Exported[K]) GetField(name string) (FieldDesc, bool) {
	for _, f := range t.staticFields {
		if f.Name == name {
			return f, true
		}
	}
	if d, ok := t.dynByName[name]; ok {
		return *d, true
	}
	return FieldDesc{}, false
}

// AddField registers a dynamic field descriptor. Adding a duplicate name
// with matching type and readonly flag returns the existing descriptor
// (idempotent); a duplicate with a different type fails, per spec.md §3.3.
func (t *Exported[K]) AddField(name string, typ event.TypeID, readonly bool) (FieldDesc, error) {
	if existing, ok := t.GetField(name); ok {
		if existing.Type == typ && existing.ReadOnly == readonly {
			return existing, nil
		}
		return FieldDesc{}, duplicateFieldDifferentType(name)
	}
	d := &FieldDesc{Name: name, Type: typ, ReadOnly: readonly, Dynamic: true, Index: len(t.dynOrder)}
	t.dynOrder = append(t.dynOrder, d)
	t.dynByName[name] = d
	return *d, nil
}

// Lookup returns the entry attached to key, if any.
func (t *Exported[K]) Lookup(key K) (*Entry, bool) {
	e, ok := t.entries[key]
	return e, ok
}

// CreateEntry returns a new, detached entry populated with zero values.
// A detached entry that is never Add-ed is simply garbage collected,
// standing in for spec.md §3.3's "on drop, a detached entry is destroyed."
func (t *Exported[K]) CreateEntry() *Entry {
	return newEntry(len(t.staticFields))
}

// Add attaches e at key, unconditionally overwriting any previous
// attachment at that key (spec.md §4.3 "add").
func (t *Exported[K]) Add(key K, e *Entry) *Entry {
	if _, existed := t.entries[key]; !existed {
		t.order = append(t.order, key)
	}
	t.entries[key] = e
	return e
}

// Erase detaches and drops the entry at key.
func (t *Exported[K]) Erase(key K) {
	if _, ok := t.entries[key]; !ok {
		return
	}
	delete(t.entries, key)
	for i, k := range t.order {
		if k == key {
			t.order = append(t.order[:i], t.order[i+1:]...)
			break
		}
	}
}

// Clear drops every entry.
func (t *Exported[K]) Clear() {
	t.entries = make(map[K]*Entry)
	t.order = nil
}

// Len returns the number of attached entries.
func (t *Exported[K]) Len() int { return len(t.entries) }

// IterateEntries calls f on each entry in table order until f returns
// false. f must not retain its Entry argument past its own invocation if
// the table may be mutated concurrently with iteration elsewhere in the
// process (spec.md §4.3's single-threaded guarantee means this is the
// caller's discipline to keep, not one this method enforces).
func (t *Exported[K]) IterateEntries(f func(key K, e *Entry) bool) {
	for _, k := range t.order {
		e, ok := t.entries[k]
		if !ok {
			continue
		}
		if !f(k, e) {
			return
		}
	}
}

// registry maps the opaque handles exchanged across the cgo ABI boundary
// back to the *Exported[K] instance that owns them (table/abi cannot
// downcast an untyped C pointer the way the original's `unsafe` pointer
// cast does; this sync.Map is the Go-safe equivalent — see DESIGN.md).
var registry sync.Map // uintptr -> any

var nextHandle atomic.Uintptr

// RegisterHandle allocates a fresh opaque handle for v and stores it in the
// registry, returning the handle a C vtable can carry as its ss_plugin_table_t*.
// table/abi calls this when it hands an Exported table to the host; the
// returned value is never a real pointer, only a lookup key, so the Go
// garbage collector is free to move or collect v's backing memory.
func RegisterHandle(v any) uintptr {
	h := nextHandle.Add(1)
	registry.Store(h, v)
	return h
}

// LookupHandle resolves a handle previously returned by RegisterHandle.
func LookupHandle(h uintptr) (any, bool) {
	return registry.Load(h)
}

// UnregisterHandle drops h from the registry. Called when the host destroys
// the plugin instance that owns the table (spec.md §9: exported tables are
// not explicitly freed before that point, only deregistered).
func UnregisterHandle(h uintptr) {
	registry.Delete(h)
}
