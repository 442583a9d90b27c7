// Copyright 2024 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package event

import (
	"fmt"
	"io"
)

// Flags8, Flags16 and Flags32 are the generic flag/enum wrappers named in
// spec.md §3.2 ("typed flag/enum wrappers over u8/u16/u32"). Domain code
// defines its own named flag sets as a type alias over one of these
// (`type FileFlags = event.Flags16`) plus its own constants; an alias shares
// all of the wrapper's methods, including its hex String.
type Flags8 uint8

func (Flags8) TypeID() TypeID  { return TypeFlags8 }
func (Flags8) BinarySize() int { return 1 }
func (v Flags8) WriteTo(w io.Writer) (int, error) {
	return writeBytes(w, byte(v))
}
func (v Flags8) String() string { return fmt.Sprintf("0x%02x", uint8(v)) }

func DecodeFlags8(d *Decoder) (Flags8, error) {
	x, err := d.U8()
	return Flags8(x), err
}

type Flags16 uint16

func (Flags16) TypeID() TypeID  { return TypeFlags16 }
func (Flags16) BinarySize() int { return 2 }
func (v Flags16) WriteTo(w io.Writer) (int, error) {
	var tmp [2]byte
	order.PutUint16(tmp[:], uint16(v))
	return writeBytes(w, tmp[:]...)
}
func (v Flags16) String() string { return fmt.Sprintf("0x%04x", uint16(v)) }

func DecodeFlags16(d *Decoder) (Flags16, error) {
	x, err := d.U16()
	return Flags16(x), err
}

type Flags32 uint32

func (Flags32) TypeID() TypeID  { return TypeFlags32 }
func (Flags32) BinarySize() int { return 4 }
func (v Flags32) WriteTo(w io.Writer) (int, error) {
	var tmp [4]byte
	order.PutUint32(tmp[:], uint32(v))
	return writeBytes(w, tmp[:]...)
}
func (v Flags32) String() string { return fmt.Sprintf("0x%08x", uint32(v)) }

func DecodeFlags32(d *Decoder) (Flags32, error) {
	x, err := d.U32()
	return Flags32(x), err
}

// Dyn is a discriminated union: a 1-byte tag selecting which field type's
// codec parses the remainder (spec.md §3.2 "Dyn{tag}"). Callers supply the
// mapping from tag byte to decoder, since the set of admissible variants is
// schema-specific, not fixed by the wire format itself.
type Dyn struct {
	Tag   byte
	Value FieldValue
}

// DynDecoders maps a discriminant byte to the decode function for that
// variant. A Dyn field's schema declares one of these per use site.
type DynDecoders map[byte]func(*Decoder) (FieldValue, error)

func (Dyn) TypeID() TypeID { return TypeDyn }

func (v Dyn) BinarySize() int {
	if v.Value == nil {
		return 1
	}
	return 1 + v.Value.BinarySize()
}

func (v Dyn) WriteTo(w io.Writer) (int, error) {
	total, err := writeBytes(w, v.Tag)
	if err != nil {
		return total, err
	}
	if v.Value == nil {
		return total, nil
	}
	n, err := v.Value.WriteTo(w)
	return total + n, err
}

// DecodeDyn reads the discriminant byte and dispatches to the matching
// decoder in variants. An unrecognized tag is InvalidDynDiscriminant.
func DecodeDyn(d *Decoder, variants DynDecoders) (Dyn, error) {
	tag, err := d.U8()
	if err != nil {
		return Dyn{}, err
	}
	fn, ok := variants[tag]
	if !ok {
		return Dyn{}, invalidDynDiscriminant(tag)
	}
	val, err := fn(d)
	if err != nil {
		return Dyn{}, err
	}
	return Dyn{Tag: tag, Value: val}, nil
}
