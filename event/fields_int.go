// Copyright 2024 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package event

import "io"

// Int8, Int16, Int32, Int64 and their unsigned counterparts encode as their
// own width regardless of value range (spec.md §4.1 "Integers encode as
// their own width"). Bool is the 4-byte wire boolean.

type Int8 int8

func (Int8) TypeID() TypeID  { return TypeInt8 }
func (Int8) BinarySize() int { return 1 }
func (v Int8) WriteTo(w io.Writer) (int, error) {
	return writeBytes(w, byte(v))
}

func DecodeInt8(d *Decoder) (Int8, error) {
	x, err := d.I8()
	return Int8(x), err
}

type Uint8 uint8

func (Uint8) TypeID() TypeID  { return TypeUint8 }
func (Uint8) BinarySize() int { return 1 }
func (v Uint8) WriteTo(w io.Writer) (int, error) {
	return writeBytes(w, byte(v))
}

func DecodeUint8(d *Decoder) (Uint8, error) {
	x, err := d.U8()
	return Uint8(x), err
}

type Int16 int16

func (Int16) TypeID() TypeID  { return TypeInt16 }
func (Int16) BinarySize() int { return 2 }
func (v Int16) WriteTo(w io.Writer) (int, error) {
	var tmp [2]byte
	order.PutUint16(tmp[:], uint16(v))
	return writeBytes(w, tmp[:]...)
}

func DecodeInt16(d *Decoder) (Int16, error) {
	x, err := d.I16()
	return Int16(x), err
}

type Uint16 uint16

func (Uint16) TypeID() TypeID  { return TypeUint16 }
func (Uint16) BinarySize() int { return 2 }
func (v Uint16) WriteTo(w io.Writer) (int, error) {
	var tmp [2]byte
	order.PutUint16(tmp[:], uint16(v))
	return writeBytes(w, tmp[:]...)
}

func DecodeUint16(d *Decoder) (Uint16, error) {
	x, err := d.U16()
	return Uint16(x), err
}

type Int32 int32

func (Int32) TypeID() TypeID  { return TypeInt32 }
func (Int32) BinarySize() int { return 4 }
func (v Int32) WriteTo(w io.Writer) (int, error) {
	var tmp [4]byte
	order.PutUint32(tmp[:], uint32(v))
	return writeBytes(w, tmp[:]...)
}

func DecodeInt32(d *Decoder) (Int32, error) {
	x, err := d.I32()
	return Int32(x), err
}

type Uint32 uint32

func (Uint32) TypeID() TypeID  { return TypeUint32 }
func (Uint32) BinarySize() int { return 4 }
func (v Uint32) WriteTo(w io.Writer) (int, error) {
	var tmp [4]byte
	order.PutUint32(tmp[:], uint32(v))
	return writeBytes(w, tmp[:]...)
}

func DecodeUint32(d *Decoder) (Uint32, error) {
	x, err := d.U32()
	return Uint32(x), err
}

type Int64 int64

func (Int64) TypeID() TypeID  { return TypeInt64 }
func (Int64) BinarySize() int { return 8 }
func (v Int64) WriteTo(w io.Writer) (int, error) {
	var tmp [8]byte
	order.PutUint64(tmp[:], uint64(v))
	return writeBytes(w, tmp[:]...)
}

func DecodeInt64(d *Decoder) (Int64, error) {
	x, err := d.I64()
	return Int64(x), err
}

type Uint64 uint64

func (Uint64) TypeID() TypeID  { return TypeUint64 }
func (Uint64) BinarySize() int { return 8 }
func (v Uint64) WriteTo(w io.Writer) (int, error) {
	var tmp [8]byte
	order.PutUint64(tmp[:], uint64(v))
	return writeBytes(w, tmp[:]...)
}

func DecodeUint64(d *Decoder) (Uint64, error) {
	x, err := d.U64()
	return Uint64(x), err
}

// Bool is a 4-byte wire boolean: zero is false, any non-zero is true.
type Bool bool

func (Bool) TypeID() TypeID  { return TypeBool }
func (Bool) BinarySize() int { return 4 }
func (v Bool) WriteTo(w io.Writer) (int, error) {
	var x uint32
	if v {
		x = 1
	}
	var tmp [4]byte
	order.PutUint32(tmp[:], x)
	return writeBytes(w, tmp[:]...)
}

func DecodeBool(d *Decoder) (Bool, error) {
	x, err := d.Bool32()
	return Bool(x), err
}

func writeBytes(w io.Writer, b ...byte) (int, error) {
	return w.Write(b)
}
