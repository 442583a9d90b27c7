// Copyright 2024 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package table

import (
	"fmt"
	"reflect"

	"github.com/falcosecurity/go-plugin-sdk/event"
)

// EntryHandle is an opaque reference to a row of a foreign table, obtained
// through a ReaderVTable and released through the same one. Its concrete
// type is supplied by whatever implements the vtables — table/abi's cgo
// bridge, or a fake used in tests.
type EntryHandle interface{}

// ReaderVTable is the Go-facing shape of the host's table-reader vtable
// (spec.md §4.4, §6.3). table/abi adapts the real cgo function pointers to
// this interface; tests can supply an in-memory fake.
type ReaderVTable interface {
	TableName() string
	TableSize() uint64
	GetEntry(key any) (EntryHandle, bool, error)
	ReadField(e EntryHandle, field FieldDesc) (event.FieldValue, error)
	ReleaseEntry(e EntryHandle)
	IterateEntries(f func(EntryHandle) (cont bool, err error)) error

	// NestedTable resolves a table-valued field on an already-fetched entry
	// to the vtables of the subtable it holds (spec.md §4.4 "Nested
	// tables"). writer may be nil if the host only exposes the child table
	// for reading.
	NestedTable(field FieldDesc, entry EntryHandle) (ReaderVTable, WriterVTable, error)
}

// WriterVTable is the Go-facing shape of the host's table-writer vtable.
// Not every context provides one (spec.md §4.4 "not all contexts provide a
// writer vtable; extract does not").
type WriterVTable interface {
	ClearTable() error
	EraseEntry(key any) error
	CreateEntry() (EntryHandle, error)
	DestroyEntry(e EntryHandle)
	AddEntry(key any, e EntryHandle) (EntryHandle, error)
	WriteField(e EntryHandle, field FieldDesc, value event.FieldValue) error
}

// FieldsVTable is the Go-facing shape of the host's table-fields vtable. A
// table-valued field's descriptor carries no TypeID of its own (the field
// catalog in spec.md §3.2 has no "nested table" member — the table-ness is
// a property of the table schema, not of the wire field catalog), so
// NestedFields is the separate entry point that resolves it to the
// subtable's own field metadata, letting Bind recurse.
type FieldsVTable interface {
	ListFields() ([]FieldDesc, error)
	GetField(name string, typ event.TypeID) (FieldDesc, error)
	AddField(name string, typ event.TypeID, readonly bool) (FieldDesc, error)
	NestedFields(field FieldDesc) (FieldsVTable, error)
}

// fieldTag is the parsed form of a `falco:"name,readonly"` struct tag used
// to declare a bound field on an Imported entry struct.
type fieldTag struct {
	name     string
	readonly bool
	custom   bool // add_table_field instead of get_table_field
	skip     bool
}

func parseFieldTag(raw string) fieldTag {
	if raw == "" || raw == "-" {
		return fieldTag{skip: true}
	}
	name, rest, _ := cut(raw, ',')
	t := fieldTag{name: name}
	for rest != "" {
		var opt string
		opt, rest, _ = cut(rest, ',')
		switch opt {
		case "readonly":
			t.readonly = true
		case "custom":
			t.custom = true
		}
	}
	return t
}

func cut(s string, sep byte) (before, after string, found bool) {
	for i := 0; i < len(s); i++ {
		if s[i] == sep {
			return s[:i], s[i+1:], true
		}
	}
	return s, "", false
}

// boundField pairs a struct field's reflect index with the table
// descriptor it was bound to.
type boundField struct {
	structIndex int
	desc        FieldDesc
}

// Imported is a table bound from a foreign owner (the host, or another
// plugin) at plugin init (spec.md §3.4, §4.4). K is the key type; E is a
// Go struct whose exported fields, tagged `falco:"name"` /
// `falco:"name,readonly"` / `falco:"name,custom"`, describe the entry shape.
// Field metadata is computed once, by Bind, and shared by every entry
// subsequently read or written — this is the Go rendering of spec.md §3.4's
// "computed once at first binding and shared by all entries retrieved from
// that table," using reflection where the original uses a compile-time
// derive macro (see DESIGN.md's Open Question resolution for §4.4).
type Imported[K Key, E any] struct {
	name   string
	reader ReaderVTable
	writer WriterVTable // nil if this binding has no writer access
	fields FieldsVTable

	bound []boundField
}

// Bind resolves every tagged field of E against fields, and returns a
// bound Imported ready for GetEntry/Load/Write. writer may be nil (e.g.
// inside an extract callback, which spec.md §4.4 says has no writer
// vtable).
func Bind[K Key, E any](fields FieldsVTable, reader ReaderVTable, writer WriterVTable) (*Imported[K, E], error) {
	var zero E
	t := reflect.TypeOf(zero)
	if t.Kind() != reflect.Struct {
		return nil, fmt.Errorf("table: %T must be a struct", zero)
	}

	bound := make([]boundField, 0, t.NumField())
	for i := 0; i < t.NumField(); i++ {
		sf := t.Field(i)
		tag := parseFieldTag(sf.Tag.Get("falco"))
		if tag.skip {
			continue
		}

		typ, err := goTypeToTypeID(sf.Type)
		if err != nil {
			return nil, fmt.Errorf("table: field %q: %w", tag.name, err)
		}

		var desc FieldDesc
		if tag.custom {
			desc, err = fields.AddField(tag.name, typ, tag.readonly)
		} else {
			desc, err = fields.GetField(tag.name, typ)
		}
		if err != nil {
			return nil, err
		}
		bound = append(bound, boundField{structIndex: i, desc: desc})
	}

	return &Imported[K, E]{
		name:   reader.TableName(),
		reader: reader,
		writer: writer,
		fields: fields,
		bound:  bound,
	}, nil
}

// goTypeToTypeID maps a bound field's Go type to the wire TypeID it must
// match, by asking a zero value of that type for its TypeID() — every
// concrete event.FieldValue implementation in this SDK exposes one.
func goTypeToTypeID(t reflect.Type) (event.TypeID, error) {
	v := reflect.New(t).Elem().Interface()
	fv, ok := v.(event.FieldValue)
	if !ok {
		return 0, fmt.Errorf("%s does not implement event.FieldValue", t)
	}
	return fv.TypeID(), nil
}

// GetEntry fetches the row at key. Callers that only need Load/Write don't
// need this directly; it exists for callers that want to read multiple
// fields, or resolve a nested table, without paying for a lookup per field.
func (t *Imported[K, E]) GetEntry(key K) (EntryHandle, error) {
	h, ok, err := t.reader.GetEntry(key)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, entryNotFound()
	}
	return h, nil
}

// Load reads every bound field of the entry at key into a new E.
func (t *Imported[K, E]) Load(key K) (E, error) {
	var out E
	h, err := t.GetEntry(key)
	if err != nil {
		return out, err
	}
	defer t.reader.ReleaseEntry(h)

	v := reflect.ValueOf(&out).Elem()
	for _, b := range t.bound {
		val, err := t.reader.ReadField(h, b.desc)
		if err != nil {
			return out, NamedFieldErr(b.desc.Name, err)
		}
		if val == nil {
			continue
		}
		v.Field(b.structIndex).Set(reflect.ValueOf(val))
	}
	return out, nil
}

// Write writes value's bound fields into the entry at key, which must
// already exist (spec.md §4.4 "Writes"). Write requires a writer vtable;
// it fails if this Imported was bound without one (e.g. from extract).
func (t *Imported[K, E]) Write(key K, value E) error {
	if t.writer == nil {
		return badVtable("writer")
	}
	h, err := t.GetEntry(key)
	if err != nil {
		return err
	}
	defer t.reader.ReleaseEntry(h)

	v := reflect.ValueOf(value)
	for _, b := range t.bound {
		fv, ok := v.Field(b.structIndex).Interface().(event.FieldValue)
		if !ok {
			continue
		}
		if err := t.writer.WriteField(h, b.desc, fv); err != nil {
			return NamedFieldErr(b.desc.Name, err)
		}
	}
	return nil
}

// IterateEntries walks every entry via the reader vtable's trampoline,
// calling f with each entry's fresh handle. f returning false stops
// iteration (spec.md §9 "control flow for iteration" — Continue|Break
// rendered as a bool).
func (t *Imported[K, E]) IterateEntries(f func(h EntryHandle) bool) error {
	return t.reader.IterateEntries(func(h EntryHandle) (bool, error) {
		return f(h), nil
	})
}

// Nested resolves a table-valued field of the entry at parentKey to a
// freshly bound Imported[K2, E2] over the subtable it holds (spec.md §4.4
// "Nested tables"). Unlike scalar fields, a nested table isn't cached on
// the parent binding — the subtable instance is per-entry, so it is bound
// fresh on each call.
func Nested[K2 Key, E2 any, PK Key, PE any](parent *Imported[PK, PE], parentKey PK, fieldName string) (*Imported[K2, E2], error) {
	h, err := parent.GetEntry(parentKey)
	if err != nil {
		return nil, err
	}
	defer parent.reader.ReleaseEntry(h)

	desc, err := parent.fields.GetField(fieldName, 0)
	if err != nil {
		return nil, err
	}
	childReader, childWriter, err := parent.reader.NestedTable(desc, h)
	if err != nil {
		return nil, err
	}
	childFields, err := parent.fields.NestedFields(desc)
	if err != nil {
		return nil, err
	}
	return Bind[K2, E2](childFields, childReader, childWriter)
}

// NamedFieldErr wraps err with the bound field's name for diagnostics,
// mirroring event.NamedField.
func NamedFieldErr(name string, err error) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", name, err)
}
