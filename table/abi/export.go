// Copyright 2024 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package abi

/*
#include <stdlib.h>
#include "../../abi/plugin_api.h"
*/
import "C"

import (
	"reflect"
	"sync"
	"unsafe"

	"github.com/falcosecurity/go-plugin-sdk/abi"
	"github.com/falcosecurity/go-plugin-sdk/event"
	"github.com/falcosecurity/go-plugin-sdk/table"
)

// exportedOps is the type-erased surface export.go's trampolines dispatch
// through. Every trampoline is a plain, non-generic //export function (cgo
// cannot export a closure or a generic function), so the generic
// *table.Exported[K] it ultimately operates on is reached only through this
// interface, looked up by opaque handle via table.LookupHandle.
type exportedOps interface {
	Name() string
	Size() uint64
	KeyType() event.TypeID
	Lookup(key event.FieldValue) (*table.Entry, bool, error)
	ReadField(e *table.Entry, field table.FieldDesc) (event.FieldValue, error)
	ClearTable()
	EraseEntry(key event.FieldValue) error
	CreateEntry() *table.Entry
	AddEntry(key event.FieldValue, e *table.Entry) *table.Entry
	WriteField(e *table.Entry, field table.FieldDesc, value event.FieldValue) error
	IterateEntries(f func(*table.Entry) bool)
	ListFields() []table.FieldDesc
	GetField(name string) (table.FieldDesc, bool)
	AddField(name string, typ event.TypeID, readonly bool) (table.FieldDesc, error)
}

// exportAdapter makes any *table.Exported[K] satisfy exportedOps.
type exportAdapter[K table.Key] struct {
	t *table.Exported[K]
}

func (a exportAdapter[K]) Name() string { return a.t.Name }
func (a exportAdapter[K]) Size() uint64 { return uint64(a.t.Len()) }

func (a exportAdapter[K]) KeyType() event.TypeID {
	var zero K
	switch reflect.ValueOf(zero).Kind() {
	case reflect.Int8:
		return event.TypeInt8
	case reflect.Int16:
		return event.TypeInt16
	case reflect.Int32:
		return event.TypeInt32
	case reflect.Int64:
		return event.TypeInt64
	case reflect.Uint8:
		return event.TypeUint8
	case reflect.Uint16:
		return event.TypeUint16
	case reflect.Uint32:
		return event.TypeUint32
	case reflect.Uint64:
		return event.TypeUint64
	default:
		return event.TypeCharBuf
	}
}

func (a exportAdapter[K]) Lookup(key event.FieldValue) (*table.Entry, bool, error) {
	k, err := decodeKey[K](key)
	if err != nil {
		return nil, false, err
	}
	e, ok := a.t.Lookup(k)
	return e, ok, nil
}

func (a exportAdapter[K]) ReadField(e *table.Entry, field table.FieldDesc) (event.FieldValue, error) {
	return e.Get(field)
}

func (a exportAdapter[K]) ClearTable() { a.t.Clear() }

func (a exportAdapter[K]) EraseEntry(key event.FieldValue) error {
	k, err := decodeKey[K](key)
	if err != nil {
		return err
	}
	a.t.Erase(k)
	return nil
}

func (a exportAdapter[K]) CreateEntry() *table.Entry { return a.t.CreateEntry() }

func (a exportAdapter[K]) AddEntry(key event.FieldValue, e *table.Entry) *table.Entry {
	k, err := decodeKey[K](key)
	if err != nil {
		return nil
	}
	return a.t.Add(k, e)
}

func (a exportAdapter[K]) WriteField(e *table.Entry, field table.FieldDesc, value event.FieldValue) error {
	return e.Set(field, value)
}

func (a exportAdapter[K]) IterateEntries(f func(*table.Entry) bool) {
	a.t.IterateEntries(func(_ K, e *table.Entry) bool { return f(e) })
}

func (a exportAdapter[K]) ListFields() []table.FieldDesc { return a.t.ListFields() }

func (a exportAdapter[K]) GetField(name string) (table.FieldDesc, bool) { return a.t.GetField(name) }

func (a exportAdapter[K]) AddField(name string, typ event.TypeID, readonly bool) (table.FieldDesc, error) {
	return a.t.AddField(name, typ, readonly)
}

// ExportedTable is a *table.Exported[K] registered for exposure to the host
// as a C vtable triple. Release must be called when the plugin instance
// owning t is destroyed — spec.md §9 notes the host never calls a matching
// "free," only stops referencing the table, so Release's only job is to
// drop table/abi's own registry entry, not to tear down t itself.
type ExportedTable struct {
	Handle uintptr
}

// Export registers t for cgo access and returns the handle plus vtables a
// plugin_api implementation hands to the host (spec.md §4.5).
func Export[K table.Key](t *table.Exported[K]) *ExportedTable {
	h := table.RegisterHandle(exportedOps(exportAdapter[K]{t: t}))
	return &ExportedTable{Handle: h}
}

// Release drops this table's registry entry.
func (x *ExportedTable) Release() { table.UnregisterHandle(x.Handle) }

// CHandle is the ss_plugin_table_t* a plugin's get_init_schema/get_table
// implementation hands the host alongside the three vtables — the same
// opaque handle every trampoline below resolves straight back to x's
// adapter via table.LookupHandle.
func (x *ExportedTable) CHandle() *C.ss_plugin_table_t { return handleToC(x.Handle) }

// ReaderVTable builds the C reader vtable for this table, function pointers
// bound to the package-level trampolines below. get_nested_table is left
// nil: table.Exported has no notion of a nested sub-table field, so there is
// nothing for it to bridge to.
func (x *ExportedTable) ReaderVTable() C.ss_plugin_table_reader_vtable_ext {
	return C.ss_plugin_table_reader_vtable_ext{
		get_table_name:      C.get_table_name_fn(C.go_table_get_table_name),
		get_table_size:      C.get_table_size_fn(C.go_table_get_table_size),
		get_table_entry:     C.get_table_entry_fn(C.go_table_get_entry),
		read_entry_field:    C.read_entry_field_fn(C.go_table_read_field),
		release_table_entry: C.release_table_entry_fn(C.go_table_release_entry),
		iterate_entries:     C.iterate_entries_fn(C.go_table_iterate_entries),
	}
}

// WriterVTable builds the C writer vtable for this table.
func (x *ExportedTable) WriterVTable() C.ss_plugin_table_writer_vtable_ext {
	return C.ss_plugin_table_writer_vtable_ext{
		clear_table:         C.clear_table_fn(C.go_table_clear),
		erase_table_entry:   C.erase_table_entry_fn(C.go_table_erase_entry),
		create_table_entry:  C.create_table_entry_fn(C.go_table_create_entry),
		destroy_table_entry: C.destroy_table_entry_fn(C.go_table_destroy_entry),
		add_table_entry:     C.add_table_entry_fn(C.go_table_add_entry),
		write_entry_field:   C.write_entry_field_fn(C.go_table_write_field),
	}
}

// FieldsVTable builds the C fields vtable for this table.
func (x *ExportedTable) FieldsVTable() C.ss_plugin_table_fields_vtable_ext {
	return C.ss_plugin_table_fields_vtable_ext{
		list_table_fields: C.list_table_fields_fn(C.go_table_list_fields),
		get_table_field:   C.get_table_field_fn(C.go_table_get_field),
		add_table_field:   C.add_table_field_fn(C.go_table_add_field),
	}
}

func handleToC(h uintptr) *C.ss_plugin_table_t {
	return (*C.ss_plugin_table_t)(unsafe.Pointer(h))
}

func cToHandle(t *C.ss_plugin_table_t) uintptr {
	return uintptr(unsafe.Pointer(t))
}

func lookupOps(t *C.ss_plugin_table_t) (exportedOps, bool) {
	v, ok := table.LookupHandle(cToHandle(t))
	if !ok {
		return nil, false
	}
	ops, ok := v.(exportedOps)
	return ops, ok
}

func entryToC(e *table.Entry) *C.ss_plugin_table_entry_t {
	return (*C.ss_plugin_table_entry_t)(unsafe.Pointer(table.RegisterHandle(e)))
}

func cToEntry(e *C.ss_plugin_table_entry_t) (*table.Entry, bool) {
	v, ok := table.LookupHandle(uintptr(unsafe.Pointer(e)))
	if !ok {
		return nil, false
	}
	entry, ok := v.(*table.Entry)
	return entry, ok
}

func fieldToC(f table.FieldDesc) *C.ss_plugin_table_field_t {
	return (*C.ss_plugin_table_field_t)(unsafe.Pointer(table.RegisterHandle(f)))
}

func cToField(f *C.ss_plugin_table_field_t) (table.FieldDesc, bool) {
	v, ok := table.LookupHandle(uintptr(unsafe.Pointer(f)))
	if !ok {
		return table.FieldDesc{}, false
	}
	desc, ok := v.(table.FieldDesc)
	return desc, ok
}

//export go_table_get_table_name
func go_table_get_table_name(t *C.ss_plugin_table_t, out **C.char) C.ss_plugin_rc {
	ops, ok := lookupOps(t)
	if !ok {
		return abi.StatusFailure.CRc()
	}
	*out = C.CString(ops.Name())
	return abi.StatusSuccess.CRc()
}

//export go_table_get_table_size
func go_table_get_table_size(t *C.ss_plugin_table_t, out *C.uint64_t) C.ss_plugin_rc {
	ops, ok := lookupOps(t)
	if !ok {
		return abi.StatusFailure.CRc()
	}
	*out = C.uint64_t(ops.Size())
	return abi.StatusSuccess.CRc()
}

//export go_table_get_entry
func go_table_get_entry(t *C.ss_plugin_table_t, key *C.ss_plugin_state_data, out **C.ss_plugin_table_entry_t) C.ss_plugin_rc {
	ops, ok := lookupOps(t)
	if !ok {
		return abi.StatusFailure.CRc()
	}
	k, err := abi.FromStateData(ops.KeyType(), unsafe.Pointer(key))
	if err != nil {
		return abi.StatusFailure.CRc()
	}
	e, found, err := ops.Lookup(k)
	if err != nil {
		return abi.StatusFailure.CRc()
	}
	if !found {
		return abi.StatusNotSupported.CRc()
	}
	*out = entryToC(e)
	return abi.StatusSuccess.CRc()
}

//export go_table_read_field
func go_table_read_field(t *C.ss_plugin_table_t, e *C.ss_plugin_table_entry_t, f *C.ss_plugin_table_field_t, out *C.ss_plugin_state_data) C.ss_plugin_rc {
	ops, ok := lookupOps(t)
	if !ok {
		return abi.StatusFailure.CRc()
	}
	entry, ok := cToEntry(e)
	if !ok {
		return abi.StatusFailure.CRc()
	}
	field, ok := cToField(f)
	if !ok {
		return abi.StatusFailure.CRc()
	}
	val, err := ops.ReadField(entry, field)
	if err != nil {
		return abi.StatusFailure.CRc()
	}
	if val == nil {
		return abi.StatusEOF.CRc()
	}
	release, err := abi.ToStateData(val, unsafe.Pointer(out))
	if err != nil {
		return abi.StatusFailure.CRc()
	}
	release()
	return abi.StatusSuccess.CRc()
}

//export go_table_release_entry
func go_table_release_entry(t *C.ss_plugin_table_t, e *C.ss_plugin_table_entry_t) {
	table.UnregisterHandle(uintptr(unsafe.Pointer(e)))
}

//export go_table_iterate_entries
func go_table_iterate_entries(t *C.ss_plugin_table_t, it C.iterate_entries_cb, s unsafe.Pointer) C.ss_plugin_rc {
	ops, ok := lookupOps(t)
	if !ok {
		return abi.StatusFailure.CRc()
	}
	ops.IterateEntries(func(e *table.Entry) bool {
		h := entryToC(e)
		cont := C.call_iterate_entries_cb(it, h, s)
		table.UnregisterHandle(uintptr(unsafe.Pointer(h)))
		return cont != 0
	})
	return abi.StatusSuccess.CRc()
}

//export go_table_clear
func go_table_clear(t *C.ss_plugin_table_t) C.ss_plugin_rc {
	ops, ok := lookupOps(t)
	if !ok {
		return abi.StatusFailure.CRc()
	}
	ops.ClearTable()
	return abi.StatusSuccess.CRc()
}

//export go_table_erase_entry
func go_table_erase_entry(t *C.ss_plugin_table_t, key *C.ss_plugin_state_data) C.ss_plugin_rc {
	ops, ok := lookupOps(t)
	if !ok {
		return abi.StatusFailure.CRc()
	}
	k, err := abi.FromStateData(ops.KeyType(), unsafe.Pointer(key))
	if err != nil {
		return abi.StatusFailure.CRc()
	}
	if err := ops.EraseEntry(k); err != nil {
		return abi.StatusFailure.CRc()
	}
	return abi.StatusSuccess.CRc()
}

//export go_table_create_entry
func go_table_create_entry(t *C.ss_plugin_table_t, out **C.ss_plugin_table_entry_t) C.ss_plugin_rc {
	ops, ok := lookupOps(t)
	if !ok {
		return abi.StatusFailure.CRc()
	}
	*out = entryToC(ops.CreateEntry())
	return abi.StatusSuccess.CRc()
}

//export go_table_destroy_entry
func go_table_destroy_entry(t *C.ss_plugin_table_t, e *C.ss_plugin_table_entry_t) {
	table.UnregisterHandle(uintptr(unsafe.Pointer(e)))
}

//export go_table_add_entry
func go_table_add_entry(t *C.ss_plugin_table_t, key *C.ss_plugin_state_data, e *C.ss_plugin_table_entry_t, out **C.ss_plugin_table_entry_t) C.ss_plugin_rc {
	ops, ok := lookupOps(t)
	if !ok {
		return abi.StatusFailure.CRc()
	}
	entry, ok := cToEntry(e)
	if !ok {
		return abi.StatusFailure.CRc()
	}
	k, err := abi.FromStateData(ops.KeyType(), unsafe.Pointer(key))
	if err != nil {
		return abi.StatusFailure.CRc()
	}
	added := ops.AddEntry(k, entry)
	if added == nil {
		return abi.StatusFailure.CRc()
	}
	*out = entryToC(added)
	return abi.StatusSuccess.CRc()
}

//export go_table_write_field
func go_table_write_field(t *C.ss_plugin_table_t, e *C.ss_plugin_table_entry_t, f *C.ss_plugin_table_field_t, val *C.ss_plugin_state_data) C.ss_plugin_rc {
	ops, ok := lookupOps(t)
	if !ok {
		return abi.StatusFailure.CRc()
	}
	entry, ok := cToEntry(e)
	if !ok {
		return abi.StatusFailure.CRc()
	}
	field, ok := cToField(f)
	if !ok {
		return abi.StatusFailure.CRc()
	}
	v, err := abi.FromStateData(field.Type, unsafe.Pointer(val))
	if err != nil {
		return abi.StatusFailure.CRc()
	}
	if err := ops.WriteField(entry, field, v); err != nil {
		return abi.StatusFailure.CRc()
	}
	return abi.StatusSuccess.CRc()
}

// listFieldsBuf keeps the most recent list_table_fields allocation alive
// for the host to read; the real ABI's get_table_fields has the same
// "valid until the next call" lifetime (spec.md §5 "Shared resources").
// Guarded by listFieldsMu since a plugin may export more than one table.
var (
	listFieldsMu  sync.Mutex
	listFieldsBuf unsafe.Pointer
)

//export go_table_list_fields
func go_table_list_fields(t *C.ss_plugin_table_t, out **C.ss_plugin_table_fieldinfo, n *C.uint32_t) C.ss_plugin_rc {
	ops, ok := lookupOps(t)
	if !ok {
		return abi.StatusFailure.CRc()
	}
	fields := ops.ListFields()

	listFieldsMu.Lock()
	defer listFieldsMu.Unlock()
	if listFieldsBuf != nil {
		C.free(listFieldsBuf)
		listFieldsBuf = nil
	}
	if len(fields) == 0 {
		*out = nil
		*n = 0
		return abi.StatusSuccess.CRc()
	}
	elemSize := unsafe.Sizeof(C.ss_plugin_table_fieldinfo{})
	buf := C.malloc(C.size_t(len(fields)) * C.size_t(elemSize))
	slots := unsafe.Slice((*C.ss_plugin_table_fieldinfo)(buf), len(fields))
	for i, f := range fields {
		slots[i] = C.ss_plugin_table_fieldinfo{
			name:       C.CString(f.Name),
			field_type: C.uint32_t(f.Type),
		}
		if f.ReadOnly {
			slots[i].read_only = 1
		}
	}
	listFieldsBuf = buf
	*out = (*C.ss_plugin_table_fieldinfo)(buf)
	*n = C.uint32_t(len(fields))
	return abi.StatusSuccess.CRc()
}

//export go_table_get_field
func go_table_get_field(t *C.ss_plugin_table_t, name *C.char, dataType C.uint32_t, out **C.ss_plugin_table_field_t) C.ss_plugin_rc {
	ops, ok := lookupOps(t)
	if !ok {
		return abi.StatusFailure.CRc()
	}
	desc, ok := ops.GetField(C.GoString(name))
	if !ok {
		return abi.StatusFailure.CRc()
	}
	*out = fieldToC(desc)
	return abi.StatusSuccess.CRc()
}

//export go_table_add_field
func go_table_add_field(t *C.ss_plugin_table_t, name *C.char, dataType C.uint32_t, out **C.ss_plugin_table_field_t) C.ss_plugin_rc {
	ops, ok := lookupOps(t)
	if !ok {
		return abi.StatusFailure.CRc()
	}
	desc, err := ops.AddField(C.GoString(name), event.TypeID(dataType), false)
	if err != nil {
		return abi.StatusFailure.CRc()
	}
	*out = fieldToC(desc)
	return abi.StatusSuccess.CRc()
}
