// Copyright 2024 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package event

import "io"

//go:generate go run ../cmd/bitstringer/main.go -type=EventFlags -strip=EventFlag

// TypeID is the small integer tag identifying a wire-level field type
// (spec.md §3.2). It is a closed set: every concrete field type in this
// package implements FieldValue for exactly one TypeID, and decoding always
// dispatches on this enum rather than on any open-ended registry.
type TypeID uint8

const (
	TypeInt8 TypeID = iota
	TypeInt16
	TypeInt32
	TypeInt64
	TypeUint8
	TypeUint16
	TypeUint32
	TypeUint64
	TypeBool
	TypeCharBuf
	TypeByteBuf
	TypeFsPath
	TypeFsRelPath
	TypeSockAddr
	TypeSockTuple
	TypeFdList
	TypeCharBufArray
	TypeCharBufPairArray
	TypeRelTime
	TypeAbsTime
	TypeIPv4Addr
	TypeIPv6Addr
	TypeIPAddr
	TypeIPNet
	TypeFlags8
	TypeFlags16
	TypeFlags32
	TypeDyn
)

func (t TypeID) String() string {
	switch t {
	case TypeInt8:
		return "Int8"
	case TypeInt16:
		return "Int16"
	case TypeInt32:
		return "Int32"
	case TypeInt64:
		return "Int64"
	case TypeUint8:
		return "Uint8"
	case TypeUint16:
		return "Uint16"
	case TypeUint32:
		return "Uint32"
	case TypeUint64:
		return "Uint64"
	case TypeBool:
		return "Bool"
	case TypeCharBuf:
		return "CharBuf"
	case TypeByteBuf:
		return "ByteBuf"
	case TypeFsPath:
		return "FsPath"
	case TypeFsRelPath:
		return "FsRelPath"
	case TypeSockAddr:
		return "SockAddr"
	case TypeSockTuple:
		return "SockTuple"
	case TypeFdList:
		return "FdList"
	case TypeCharBufArray:
		return "CharBufArray"
	case TypeCharBufPairArray:
		return "CharBufPairArray"
	case TypeRelTime:
		return "RelTime"
	case TypeAbsTime:
		return "AbsTime"
	case TypeIPv4Addr:
		return "IPv4Addr"
	case TypeIPv6Addr:
		return "IPv6Addr"
	case TypeIPAddr:
		return "IPAddr"
	case TypeIPNet:
		return "IPNet"
	case TypeFlags8:
		return "Flags8"
	case TypeFlags16:
		return "Flags16"
	case TypeFlags32:
		return "Flags32"
	case TypeDyn:
		return "Dyn"
	default:
		return "Unknown"
	}
}

// FieldValue is implemented by every concrete wire field type. It mirrors
// the three-contract trait from spec.md §4.1: binary_size, write, and
// from_bytes (the last is a package-level DecodeXxx function per type rather
// than a method, since Go has no associated-function-returning-Self outside
// generics; see event/fields_*.go).
type FieldValue interface {
	TypeID() TypeID
	BinarySize() int
	WriteTo(w io.Writer) (int, error) // native-endian, no framing
}

// DefaultBytes returns the wire bytes to emit for a field slot that is
// declared in a schema but has no concrete value supplied (spec.md §4.1
// "default_repr()"). For every scalar type this is the zero value's
// encoding; for variable-length types it is the empty encoding.
func DefaultBytes(t TypeID) []byte {
	switch t {
	case TypeInt8, TypeUint8, TypeFlags8:
		return []byte{0}
	case TypeInt16, TypeUint16, TypeFlags16:
		return []byte{0, 0}
	case TypeInt32, TypeUint32, TypeBool, TypeFlags32:
		return []byte{0, 0, 0, 0}
	case TypeInt64, TypeUint64, TypeRelTime, TypeAbsTime:
		return make([]byte, 8)
	case TypeIPv4Addr:
		return make([]byte, 4)
	case TypeIPv6Addr:
		return make([]byte, 16)
	default:
		// Variable-length and union types default to the empty/absent
		// encoding; callers that need a concrete "none" value use the
		// zero Go value of the corresponding type instead.
		return nil
	}
}
