// Copyright 2024 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package abi

/*
#include <stdlib.h>
#include "plugin_api.h"
*/
import "C"

import (
	"fmt"
	"unsafe"

	"github.com/falcosecurity/go-plugin-sdk/event"
)

// StateType converts an event.TypeID to the C state-data tag the host
// expects alongside a ss_plugin_state_data value (spec.md §6.3). Only the
// scalar/string/table subset ss_plugin_state_data can actually carry is
// representable; everything else (SockAddr, FdList, the array types, ...)
// returns an error, the same way the real ABI has no table field type
// wider than its scalar union.
func StateType(t event.TypeID) (C.ss_plugin_state_type, error) {
	switch t {
	case event.TypeInt8:
		return C.SS_PLUGIN_ST_INT8, nil
	case event.TypeInt16:
		return C.SS_PLUGIN_ST_INT16, nil
	case event.TypeInt32:
		return C.SS_PLUGIN_ST_INT32, nil
	case event.TypeInt64:
		return C.SS_PLUGIN_ST_INT64, nil
	case event.TypeUint8:
		return C.SS_PLUGIN_ST_UINT8, nil
	case event.TypeUint16:
		return C.SS_PLUGIN_ST_UINT16, nil
	case event.TypeUint32:
		return C.SS_PLUGIN_ST_UINT32, nil
	case event.TypeUint64:
		return C.SS_PLUGIN_ST_UINT64, nil
	case event.TypeBool:
		return C.SS_PLUGIN_ST_BOOL, nil
	case event.TypeCharBuf:
		return C.SS_PLUGIN_ST_STRING, nil
	case event.TypeDyn:
		return C.SS_PLUGIN_ST_TABLE, nil
	default:
		return 0, fmt.Errorf("abi: type %s has no table state-data representation", t)
	}
}

// ToStateData writes v into out, a pointer to a ss_plugin_state_data union
// (spec.md §6.3). out is untyped on this side of the call on purpose: cgo
// gives every importing package its own nominal Go type for the same C
// struct, so table/abi — which has its own binding of ss_plugin_state_data
// generated from the same header — passes its pointer through as
// unsafe.Pointer rather than needing a type from this package. The two
// sides agree because both compile plugin_api.h, not because the Go types
// are shared.
//
// The returned func releases any C memory ToStateData allocated (currently
// just the CharBuf case's C string) and must be called once the host is
// done observing out.
func ToStateData(v event.FieldValue, out unsafe.Pointer) (func(), error) {
	noop := func() {}
	switch x := v.(type) {
	case event.Int8:
		*(*C.int8_t)(unsafe.Pointer(out)) = C.int8_t(x)
		return noop, nil
	case event.Int16:
		*(*C.int16_t)(unsafe.Pointer(out)) = C.int16_t(x)
		return noop, nil
	case event.Int32:
		*(*C.int32_t)(unsafe.Pointer(out)) = C.int32_t(x)
		return noop, nil
	case event.Int64:
		*(*C.int64_t)(unsafe.Pointer(out)) = C.int64_t(x)
		return noop, nil
	case event.Uint8:
		*(*C.uint8_t)(unsafe.Pointer(out)) = C.uint8_t(x)
		return noop, nil
	case event.Uint16:
		*(*C.uint16_t)(unsafe.Pointer(out)) = C.uint16_t(x)
		return noop, nil
	case event.Uint32:
		*(*C.uint32_t)(unsafe.Pointer(out)) = C.uint32_t(x)
		return noop, nil
	case event.Uint64:
		*(*C.uint64_t)(unsafe.Pointer(out)) = C.uint64_t(x)
		return noop, nil
	case event.Bool:
		b := C.uint8_t(0)
		if x {
			b = 1
		}
		*(*C.uint8_t)(unsafe.Pointer(out)) = b
		return noop, nil
	case event.CharBuf:
		cstr := C.CString(string(x))
		*(**C.char)(unsafe.Pointer(out)) = cstr
		return func() { C.free(unsafe.Pointer(cstr)) }, nil
	default:
		return noop, fmt.Errorf("abi: %s has no table state-data encoding", v.TypeID())
	}
}

// FromStateData reads a ss_plugin_state_data of the given type back into an
// event.FieldValue, the inverse of ToStateData. See ToStateData's doc
// comment for why data is unsafe.Pointer rather than this package's own
// *C.ss_plugin_state_data.
func FromStateData(typ event.TypeID, data unsafe.Pointer) (event.FieldValue, error) {
	switch typ {
	case event.TypeInt8:
		return event.Int8(*(*C.int8_t)(unsafe.Pointer(data))), nil
	case event.TypeInt16:
		return event.Int16(*(*C.int16_t)(unsafe.Pointer(data))), nil
	case event.TypeInt32:
		return event.Int32(*(*C.int32_t)(unsafe.Pointer(data))), nil
	case event.TypeInt64:
		return event.Int64(*(*C.int64_t)(unsafe.Pointer(data))), nil
	case event.TypeUint8:
		return event.Uint8(*(*C.uint8_t)(unsafe.Pointer(data))), nil
	case event.TypeUint16:
		return event.Uint16(*(*C.uint16_t)(unsafe.Pointer(data))), nil
	case event.TypeUint32:
		return event.Uint32(*(*C.uint32_t)(unsafe.Pointer(data))), nil
	case event.TypeUint64:
		return event.Uint64(*(*C.uint64_t)(unsafe.Pointer(data))), nil
	case event.TypeBool:
		return event.Bool(*(*C.uint8_t)(unsafe.Pointer(data)) != 0), nil
	case event.TypeCharBuf:
		cstr := *(**C.char)(unsafe.Pointer(data))
		if cstr == nil {
			return event.CharBuf(""), nil
		}
		return event.CharBuf(C.GoString(cstr)), nil
	default:
		return nil, fmt.Errorf("abi: type %s has no table state-data decoding", typ)
	}
}
