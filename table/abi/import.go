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
	"fmt"
	"sync"
	"unsafe"

	"github.com/falcosecurity/go-plugin-sdk/abi"
	"github.com/falcosecurity/go-plugin-sdk/event"
	"github.com/falcosecurity/go-plugin-sdk/table"
)

func rcError(rc C.ss_plugin_rc) error {
	return fmt.Errorf("abi: table call failed: rc=%d", int32(rc))
}

func entryHandleToC(h table.EntryHandle) *C.ss_plugin_table_entry_t {
	e, _ := h.(*C.ss_plugin_table_entry_t)
	return e
}

// fieldRegistry remembers the opaque ss_plugin_table_field_t a host handed
// back for a given field name, since table.FieldDesc (shared across every
// vtable bridge, not just cgo's) has no room for one. reader, writer, and
// fieldsVT constructed together by Import share one of these.
type fieldRegistry struct {
	mu     sync.Mutex
	byName map[string]*C.ss_plugin_table_field_t
}

func newFieldRegistry() *fieldRegistry {
	return &fieldRegistry{byName: make(map[string]*C.ss_plugin_table_field_t)}
}

func (r *fieldRegistry) remember(name string, h *C.ss_plugin_table_field_t) {
	r.mu.Lock()
	r.byName[name] = h
	r.mu.Unlock()
}

func (r *fieldRegistry) handle(name string) (*C.ss_plugin_table_field_t, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	h, ok := r.byName[name]
	return h, ok
}

type fieldsVT struct {
	vt  C.ss_plugin_table_fields_vtable_ext
	t   *C.ss_plugin_table_t
	reg *fieldRegistry
}

func (f *fieldsVT) ListFields() ([]table.FieldDesc, error) {
	var out *C.ss_plugin_table_fieldinfo
	var n C.uint32_t
	rc := C.call_list_table_fields(&f.vt, f.t, &out, &n)
	if rc != C.ss_plugin_rc(abi.StatusSuccess) {
		return nil, rcError(rc)
	}
	infos := unsafe.Slice(out, int(n))
	descs := make([]table.FieldDesc, len(infos))
	for i, info := range infos {
		name := C.GoString(info.name)
		descs[i] = table.FieldDesc{
			Name:     name,
			Type:     event.TypeID(info.field_type),
			ReadOnly: info.read_only != 0,
			Dynamic:  false,
			Index:    i,
		}
	}
	return descs, nil
}

func (f *fieldsVT) GetField(name string, typ event.TypeID) (table.FieldDesc, error) {
	cname := C.CString(name)
	defer C.free(unsafe.Pointer(cname))
	var out *C.ss_plugin_table_field_t
	rc := C.call_get_table_field(&f.vt, f.t, cname, C.uint32_t(typ), &out)
	if rc != C.ss_plugin_rc(abi.StatusSuccess) {
		return table.FieldDesc{}, rcError(rc)
	}
	f.reg.remember(name, out)
	return table.FieldDesc{Name: name, Type: typ}, nil
}

func (f *fieldsVT) AddField(name string, typ event.TypeID, readonly bool) (table.FieldDesc, error) {
	cname := C.CString(name)
	defer C.free(unsafe.Pointer(cname))
	var out *C.ss_plugin_table_field_t
	rc := C.call_add_table_field(&f.vt, f.t, cname, C.uint32_t(typ), &out)
	if rc != C.ss_plugin_rc(abi.StatusSuccess) {
		return table.FieldDesc{}, rcError(rc)
	}
	f.reg.remember(name, out)
	return table.FieldDesc{Name: name, Type: typ, ReadOnly: readonly, Dynamic: true}, nil
}

// NestedFields is not implemented: this bridge targets flat table schemas
// (see ExportedTable.ReaderVTable's get_nested_table note), so table.Nested
// over a table imported through it fails with this error.
func (f *fieldsVT) NestedFields(field table.FieldDesc) (table.FieldsVTable, error) {
	return nil, fmt.Errorf("abi: nested tables are not supported")
}

type reader struct {
	vt  C.ss_plugin_table_reader_vtable_ext
	t   *C.ss_plugin_table_t
	reg *fieldRegistry
}

func (r *reader) TableName() string {
	var out *C.char
	if C.call_get_table_name(&r.vt, r.t, &out) != C.ss_plugin_rc(abi.StatusSuccess) {
		return ""
	}
	return C.GoString(out)
}

func (r *reader) TableSize() uint64 {
	var n C.uint64_t
	if C.call_get_table_size(&r.vt, r.t, &n) != C.ss_plugin_rc(abi.StatusSuccess) {
		return 0
	}
	return uint64(n)
}

func (r *reader) GetEntry(key any) (table.EntryHandle, bool, error) {
	fv, err := encodeAnyKey(key)
	if err != nil {
		return nil, false, err
	}
	var data C.ss_plugin_state_data
	release, err := abi.ToStateData(fv, unsafe.Pointer(&data))
	if err != nil {
		return nil, false, err
	}
	defer release()

	var out *C.ss_plugin_table_entry_t
	rc := C.call_get_table_entry(&r.vt, r.t, &data, &out)
	switch rc {
	case C.ss_plugin_rc(abi.StatusSuccess):
		return out, true, nil
	case C.ss_plugin_rc(abi.StatusNotSupported):
		return nil, false, nil
	default:
		return nil, false, rcError(rc)
	}
}

func (r *reader) ReadField(e table.EntryHandle, field table.FieldDesc) (event.FieldValue, error) {
	fh, ok := r.reg.handle(field.Name)
	if !ok {
		return nil, fmt.Errorf("abi: field %q was never resolved through GetField/AddField", field.Name)
	}
	var data C.ss_plugin_state_data
	rc := C.call_read_entry_field(&r.vt, r.t, entryHandleToC(e), fh, &data)
	if rc != C.ss_plugin_rc(abi.StatusSuccess) {
		return nil, rcError(rc)
	}
	return abi.FromStateData(field.Type, unsafe.Pointer(&data))
}

func (r *reader) ReleaseEntry(e table.EntryHandle) {
	C.call_release_table_entry(&r.vt, r.t, entryHandleToC(e))
}

type iterState struct {
	f   func(table.EntryHandle) (bool, error)
	err error
}

//export go_import_iterate_cb
func go_import_iterate_cb(e *C.ss_plugin_table_entry_t, s unsafe.Pointer) C.int32_t {
	v, ok := table.LookupHandle(uintptr(s))
	if !ok {
		return 0
	}
	st := v.(*iterState)
	cont, err := st.f(e)
	if err != nil {
		st.err = err
		return 0
	}
	if !cont {
		return 0
	}
	return 1
}

func (r *reader) IterateEntries(f func(table.EntryHandle) (bool, error)) error {
	st := &iterState{f: f}
	h := table.RegisterHandle(st)
	defer table.UnregisterHandle(h)

	rc := C.call_iterate_entries(&r.vt, r.t, C.iterate_entries_cb(C.go_import_iterate_cb), unsafe.Pointer(uintptr(h)))
	if st.err != nil {
		return st.err
	}
	if rc != C.ss_plugin_rc(abi.StatusSuccess) {
		return rcError(rc)
	}
	return nil
}

// NestedTable is not implemented; see fieldsVT.NestedFields.
func (r *reader) NestedTable(field table.FieldDesc, entry table.EntryHandle) (table.ReaderVTable, table.WriterVTable, error) {
	return nil, nil, fmt.Errorf("abi: nested tables are not supported")
}

type writer struct {
	vt  C.ss_plugin_table_writer_vtable_ext
	t   *C.ss_plugin_table_t
	reg *fieldRegistry
}

func (w *writer) ClearTable() error {
	if rc := C.call_clear_table(&w.vt, w.t); rc != C.ss_plugin_rc(abi.StatusSuccess) {
		return rcError(rc)
	}
	return nil
}

func (w *writer) EraseEntry(key any) error {
	fv, err := encodeAnyKey(key)
	if err != nil {
		return err
	}
	var data C.ss_plugin_state_data
	release, err := abi.ToStateData(fv, unsafe.Pointer(&data))
	if err != nil {
		return err
	}
	defer release()
	if rc := C.call_erase_table_entry(&w.vt, w.t, &data); rc != C.ss_plugin_rc(abi.StatusSuccess) {
		return rcError(rc)
	}
	return nil
}

func (w *writer) CreateEntry() (table.EntryHandle, error) {
	var out *C.ss_plugin_table_entry_t
	if rc := C.call_create_table_entry(&w.vt, w.t, &out); rc != C.ss_plugin_rc(abi.StatusSuccess) {
		return nil, rcError(rc)
	}
	return out, nil
}

func (w *writer) DestroyEntry(e table.EntryHandle) {
	C.call_destroy_table_entry(&w.vt, w.t, entryHandleToC(e))
}

func (w *writer) AddEntry(key any, e table.EntryHandle) (table.EntryHandle, error) {
	fv, err := encodeAnyKey(key)
	if err != nil {
		return nil, err
	}
	var data C.ss_plugin_state_data
	release, err := abi.ToStateData(fv, unsafe.Pointer(&data))
	if err != nil {
		return nil, err
	}
	defer release()

	var out *C.ss_plugin_table_entry_t
	rc := C.call_add_table_entry(&w.vt, w.t, &data, entryHandleToC(e), &out)
	if rc != C.ss_plugin_rc(abi.StatusSuccess) {
		return nil, rcError(rc)
	}
	return out, nil
}

func (w *writer) WriteField(e table.EntryHandle, field table.FieldDesc, value event.FieldValue) error {
	fh, ok := w.reg.handle(field.Name)
	if !ok {
		return fmt.Errorf("abi: field %q was never resolved through GetField/AddField", field.Name)
	}
	var data C.ss_plugin_state_data
	release, err := abi.ToStateData(value, unsafe.Pointer(&data))
	if err != nil {
		return err
	}
	defer release()
	if rc := C.call_write_entry_field(&w.vt, w.t, entryHandleToC(e), fh, &data); rc != C.ss_plugin_rc(abi.StatusSuccess) {
		return rcError(rc)
	}
	return nil
}

// Import adapts a host-supplied reader/writer/fields vtable triple (and the
// table handle they operate on) into a table.Imported[K, E] ready for
// Load/Write/IterateEntries. writerVT may be nil (spec.md §4.4: not every
// context provides a writer vtable).
func Import[K table.Key, E any](
	t *C.ss_plugin_table_t,
	readerVT C.ss_plugin_table_reader_vtable_ext,
	writerVT *C.ss_plugin_table_writer_vtable_ext,
	fieldsVTable C.ss_plugin_table_fields_vtable_ext,
) (*table.Imported[K, E], error) {
	reg := newFieldRegistry()
	fields := &fieldsVT{vt: fieldsVTable, t: t, reg: reg}
	rd := &reader{vt: readerVT, t: t, reg: reg}

	var w table.WriterVTable
	if writerVT != nil {
		w = &writer{vt: *writerVT, t: t, reg: reg}
	}
	return table.Bind[K, E](fields, rd, w)
}
