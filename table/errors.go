// Copyright 2024 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package table implements the cross-plugin state-table protocol: tables a
// plugin exports to the host (and to other plugins) and tables a plugin
// imports from elsewhere, keyed by an opaque handle on the wire and by a
// Go generic type parameter on this side of the boundary.
package table

import (
	"fmt"

	"github.com/falcosecurity/go-plugin-sdk/event"
)

// ErrorKind distinguishes the table error taxonomy of spec.md §7.
type ErrorKind int

const (
	ErrBadVtable ErrorKind = iota
	ErrTypeMismatch
	ErrReadOnlyField
	ErrFieldNotFound
	ErrEntryNotFound
	ErrDuplicateFieldDifferentType
)

func (k ErrorKind) String() string {
	switch k {
	case ErrBadVtable:
		return "BadVtable"
	case ErrTypeMismatch:
		return "TypeMismatch"
	case ErrReadOnlyField:
		return "ReadOnlyField"
	case ErrFieldNotFound:
		return "FieldNotFound"
	case ErrEntryNotFound:
		return "EntryNotFound"
	case ErrDuplicateFieldDifferentType:
		return "DuplicateFieldDifferentType"
	default:
		return "Unknown"
	}
}

// Error is the error type returned by table operations, following the same
// one-type-per-spec-group, wrapped-error shape as event.CodecError.
type Error struct {
	Kind     ErrorKind
	Which    string // vtable name, for ErrBadVtable
	Expected event.TypeID
	Actual   event.TypeID
	Field    string
	inner    error
}

func (e *Error) Error() string {
	switch e.Kind {
	case ErrBadVtable:
		return fmt.Sprintf("table: bad %s vtable", e.Which)
	case ErrTypeMismatch:
		return fmt.Sprintf("table: field %q: expected %s, got %s", e.Field, e.Expected, e.Actual)
	case ErrReadOnlyField:
		return fmt.Sprintf("table: field %q is readonly", e.Field)
	case ErrFieldNotFound:
		return fmt.Sprintf("table: field %q not found", e.Field)
	case ErrEntryNotFound:
		return "table: entry not found"
	case ErrDuplicateFieldDifferentType:
		return fmt.Sprintf("table: field %q already registered with a different type", e.Field)
	default:
		return "table: " + e.Kind.String()
	}
}

func (e *Error) Unwrap() error { return e.inner }

func badVtable(which string) *Error { return &Error{Kind: ErrBadVtable, Which: which} }

func typeMismatch(field string, expected, actual event.TypeID) *Error {
	return &Error{Kind: ErrTypeMismatch, Field: field, Expected: expected, Actual: actual}
}

func readOnlyField(field string) *Error { return &Error{Kind: ErrReadOnlyField, Field: field} }

func fieldNotFound(field string) *Error { return &Error{Kind: ErrFieldNotFound, Field: field} }

func entryNotFound() *Error { return &Error{Kind: ErrEntryNotFound} }

func duplicateFieldDifferentType(field string) *Error {
	return &Error{Kind: ErrDuplicateFieldDifferentType, Field: field}
}
