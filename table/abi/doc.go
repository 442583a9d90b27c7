// Copyright 2024 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package abi is the cgo bridge for spec.md §4.5/§6.3: it adapts between
// this module's Go-native table.ReaderVTable/WriterVTable/FieldsVTable
// interfaces and the real C vtable structs exchanged with the host.
//
// Two directions:
//   - Export (export.go): a plugin owns a *table.Exported[K] and hands it to
//     the host as an opaque handle plus three vtables of C function
//     pointers. Since cgo cannot export a closure, every trampoline looks up
//     its *table.Exported[K] by opaque handle through table.LookupHandle.
//   - Import (import.go): a plugin receives the host's three vtables as C
//     function-pointer tables and wants to table.Bind against them. Reader,
//     Writer, and Fields wrap one such vtable each, calling through small
//     static inline C helpers (cgo cannot invoke a C function pointer field
//     directly) into table.ReaderVTable/WriterVTable/FieldsVTable.
//
// Neither direction shares Go-level C types with package abi: cgo gives
// every importing package its own nominal binding of the same C structs, so
// the two packages only agree by both compiling plugin_api.h, and pass data
// across the package boundary as plain Go values (event.FieldValue,
// table.FieldDesc) or unsafe.Pointer, never as each other's C.* types (see
// abi.ToStateData's doc comment for the same point from the other side).
package abi
