// Copyright 2024 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package table

import (
	"fmt"

	"github.com/falcosecurity/go-plugin-sdk/event"
)

// fakeTable is an in-memory stand-in for a real host-side table, used to
// exercise Imported without a cgo vtable. It implements ReaderVTable,
// WriterVTable, and FieldsVTable all at once over the same Exported[K].
type fakeTable[K Key] struct {
	data   *Exported[K]
	nested map[*Entry]map[string]any // entry -> field name -> *fakeTable[K2]
}

func newFakeTable[K Key](name string, fields []FieldDesc) *fakeTable[K] {
	return &fakeTable[K]{
		data:   NewExported[K](name, fields),
		nested: make(map[*Entry]map[string]any),
	}
}

func (f *fakeTable[K]) setNested(e *Entry, fieldName string, child any) {
	byField, ok := f.nested[e]
	if !ok {
		byField = make(map[string]any)
		f.nested[e] = byField
	}
	byField[fieldName] = child
}

// ReaderVTable

func (f *fakeTable[K]) TableName() string { return f.data.Name }
func (f *fakeTable[K]) TableSize() uint64 { return uint64(f.data.Len()) }

func (f *fakeTable[K]) GetEntry(key any) (EntryHandle, bool, error) {
	k, ok := key.(K)
	if !ok {
		return nil, false, fmt.Errorf("bad key type %T", key)
	}
	e, found := f.data.Lookup(k)
	return e, found, nil
}

func (f *fakeTable[K]) ReadField(h EntryHandle, field FieldDesc) (event.FieldValue, error) {
	return h.(*Entry).Get(field)
}

func (f *fakeTable[K]) ReleaseEntry(EntryHandle) {}

func (f *fakeTable[K]) IterateEntries(fn func(EntryHandle) (bool, error)) error {
	var outerErr error
	f.data.IterateEntries(func(_ K, e *Entry) bool {
		cont, err := fn(e)
		if err != nil {
			outerErr = err
			return false
		}
		return cont
	})
	return outerErr
}

type readerWriter interface {
	ReaderVTable
	WriterVTable
}

func (f *fakeTable[K]) NestedTable(field FieldDesc, entry EntryHandle) (ReaderVTable, WriterVTable, error) {
	e := entry.(*Entry)
	byField, ok := f.nested[e]
	if !ok {
		return nil, nil, fmt.Errorf("no nested tables on this entry")
	}
	child, ok := byField[field.Name]
	if !ok {
		return nil, nil, fmt.Errorf("no nested table for field %q", field.Name)
	}
	rw := child.(readerWriter)
	return rw, rw, nil
}

// WriterVTable

func (f *fakeTable[K]) ClearTable() error { f.data.Clear(); return nil }

func (f *fakeTable[K]) EraseEntry(key any) error {
	k, ok := key.(K)
	if !ok {
		return fmt.Errorf("bad key type %T", key)
	}
	f.data.Erase(k)
	return nil
}

func (f *fakeTable[K]) CreateEntry() (EntryHandle, error) { return f.data.CreateEntry(), nil }

func (f *fakeTable[K]) DestroyEntry(EntryHandle) {}

func (f *fakeTable[K]) AddEntry(key any, h EntryHandle) (EntryHandle, error) {
	k, ok := key.(K)
	if !ok {
		return nil, fmt.Errorf("bad key type %T", key)
	}
	return f.data.Add(k, h.(*Entry)), nil
}

func (f *fakeTable[K]) WriteField(h EntryHandle, field FieldDesc, value event.FieldValue) error {
	return h.(*Entry).Set(field, value)
}

// FieldsVTable

func (f *fakeTable[K]) ListFields() ([]FieldDesc, error) { return f.data.ListFields(), nil }

func (f *fakeTable[K]) GetField(name string, _ event.TypeID) (FieldDesc, error) {
	d, ok := f.data.GetField(name)
	if !ok {
		return FieldDesc{}, fieldNotFound(name)
	}
	return d, nil
}

func (f *fakeTable[K]) AddField(name string, typ event.TypeID, readonly bool) (FieldDesc, error) {
	return f.data.AddField(name, typ, readonly)
}

func (f *fakeTable[K]) NestedFields(field FieldDesc) (FieldsVTable, error) {
	for _, byField := range f.nested {
		if child, ok := byField[field.Name]; ok {
			return child.(FieldsVTable), nil
		}
	}
	return nil, fmt.Errorf("no nested schema for field %q", field.Name)
}
