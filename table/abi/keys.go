// Copyright 2024 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package abi

import (
	"fmt"
	"reflect"

	"github.com/falcosecurity/go-plugin-sdk/event"
	"github.com/falcosecurity/go-plugin-sdk/table"
)

// decodeKey converts a key already decoded off the wire as an
// event.FieldValue (via abi.FromStateData, in the caller) into the raw Go
// key type table.Imported/table.Exported expect. table.Key's type set spans
// several concrete kinds with no common interface, so — exactly like
// table/import.go's Bind resolving field descriptors by reflection instead
// of a compile-time derive macro (see DESIGN.md) — this goes through
// reflect rather than a type switch per instantiation of K.
func decodeKey[K table.Key](v event.FieldValue) (K, error) {
	var zero K
	rv := reflect.ValueOf(&zero).Elem()
	switch x := v.(type) {
	case event.Int8:
		rv.SetInt(int64(x))
	case event.Int16:
		rv.SetInt(int64(x))
	case event.Int32:
		rv.SetInt(int64(x))
	case event.Int64:
		rv.SetInt(int64(x))
	case event.Uint8:
		rv.SetUint(uint64(x))
	case event.Uint16:
		rv.SetUint(uint64(x))
	case event.Uint32:
		rv.SetUint(uint64(x))
	case event.Uint64:
		rv.SetUint(uint64(x))
	case event.CharBuf:
		rv.SetString(string(x))
	default:
		return zero, fmt.Errorf("abi: %T is not a valid table key", v)
	}
	return zero, nil
}

// encodeAnyKey is encodeKey without a compile-time K: table.ReaderVTable and
// table.WriterVTable take their key argument as `any` (table.Imported already
// knows K statically and erases it before calling through), so the import
// side resolves the concrete type at the reflect.Value level instead.
func encodeAnyKey(key any) (event.FieldValue, error) {
	rv := reflect.ValueOf(key)
	switch rv.Kind() {
	case reflect.Int8:
		return event.Int8(rv.Int()), nil
	case reflect.Int16:
		return event.Int16(rv.Int()), nil
	case reflect.Int32:
		return event.Int32(rv.Int()), nil
	case reflect.Int64:
		return event.Int64(rv.Int()), nil
	case reflect.Uint8:
		return event.Uint8(rv.Uint()), nil
	case reflect.Uint16:
		return event.Uint16(rv.Uint()), nil
	case reflect.Uint32:
		return event.Uint32(rv.Uint()), nil
	case reflect.Uint64:
		return event.Uint64(rv.Uint()), nil
	case reflect.String:
		return event.CharBuf(rv.String()), nil
	default:
		return nil, fmt.Errorf("abi: %T is not a valid table key", key)
	}
}

// encodeKey is decodeKey's inverse for a key already typed as K. Nothing in
// this package calls it: the import side's EraseEntry/AddEntry receive
// their key as `any` and go through encodeAnyKey.
func encodeKey[K table.Key](k K) (event.FieldValue, error) {
	rv := reflect.ValueOf(k)
	switch rv.Kind() {
	case reflect.Int8:
		return event.Int8(rv.Int()), nil
	case reflect.Int16:
		return event.Int16(rv.Int()), nil
	case reflect.Int32:
		return event.Int32(rv.Int()), nil
	case reflect.Int64:
		return event.Int64(rv.Int()), nil
	case reflect.Uint8:
		return event.Uint8(rv.Uint()), nil
	case reflect.Uint16:
		return event.Uint16(rv.Uint()), nil
	case reflect.Uint32:
		return event.Uint32(rv.Uint()), nil
	case reflect.Uint64:
		return event.Uint64(rv.Uint()), nil
	case reflect.String:
		return event.CharBuf(rv.String()), nil
	default:
		return nil, fmt.Errorf("abi: %T is not a valid table key", k)
	}
}
