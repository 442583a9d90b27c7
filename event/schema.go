// Copyright 2024 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package event

// FieldSlot is one named, positional field in an event schema. Decode
// receives the whole parameter slice (never a Decoder continuation); field
// types whose decoder takes a *Decoder are wrapped to this shape by the slot
// constructors in this file.
type FieldSlot struct {
	Name   string
	Decode func(buf []byte) (FieldValue, error)
}

// EventSchema describes the field layout of one event type, in wire order.
// Plugins register one EventSchema per EventType they emit or consume.
type EventSchema struct {
	Type   EventType
	Fields []FieldSlot
}

// Field looks up a slot by name, returning ok=false if the schema has no
// field by that name.
func (s EventSchema) Field(name string) (FieldSlot, bool) {
	for _, f := range s.Fields {
		if f.Name == name {
			return f, true
		}
	}
	return FieldSlot{}, false
}

// scalarSlot builds a FieldSlot for a type whose package-level decoder takes
// a *Decoder rather than a []byte, adapting it to the whole-buffer Decode
// signature and rejecting trailing garbage.
func scalarSlot(name string, decode func(*Decoder) (FieldValue, error)) FieldSlot {
	return FieldSlot{
		Name: name,
		Decode: func(buf []byte) (FieldValue, error) {
			d := NewDecoder(buf)
			v, err := decode(d)
			if err != nil {
				return nil, err
			}
			if d.Len() != 0 {
				return nil, invalidLength("trailing bytes after fixed-width field")
			}
			return v, nil
		},
	}
}

// Int8Field, Uint8Field, ... construct FieldSlots for the fixed-width
// integer and time types, whose Decode* functions are *Decoder-based.
func Int8Field(name string) FieldSlot {
	return scalarSlot(name, func(d *Decoder) (FieldValue, error) { return DecodeInt8(d) })
}
func Uint8Field(name string) FieldSlot {
	return scalarSlot(name, func(d *Decoder) (FieldValue, error) { return DecodeUint8(d) })
}
func Int16Field(name string) FieldSlot {
	return scalarSlot(name, func(d *Decoder) (FieldValue, error) { return DecodeInt16(d) })
}
func Uint16Field(name string) FieldSlot {
	return scalarSlot(name, func(d *Decoder) (FieldValue, error) { return DecodeUint16(d) })
}
func Int32Field(name string) FieldSlot {
	return scalarSlot(name, func(d *Decoder) (FieldValue, error) { return DecodeInt32(d) })
}
func Uint32Field(name string) FieldSlot {
	return scalarSlot(name, func(d *Decoder) (FieldValue, error) { return DecodeUint32(d) })
}
func Int64Field(name string) FieldSlot {
	return scalarSlot(name, func(d *Decoder) (FieldValue, error) { return DecodeInt64(d) })
}
func Uint64Field(name string) FieldSlot {
	return scalarSlot(name, func(d *Decoder) (FieldValue, error) { return DecodeUint64(d) })
}
func BoolField(name string) FieldSlot {
	return scalarSlot(name, func(d *Decoder) (FieldValue, error) { return DecodeBool(d) })
}
func RelTimeField(name string) FieldSlot {
	return scalarSlot(name, func(d *Decoder) (FieldValue, error) { return DecodeRelTime(d) })
}
func AbsTimeField(name string) FieldSlot {
	return scalarSlot(name, func(d *Decoder) (FieldValue, error) { return DecodeAbsTime(d) })
}
func Flags8Field(name string) FieldSlot {
	return scalarSlot(name, func(d *Decoder) (FieldValue, error) { return DecodeFlags8(d) })
}
func Flags16Field(name string) FieldSlot {
	return scalarSlot(name, func(d *Decoder) (FieldValue, error) { return DecodeFlags16(d) })
}
func Flags32Field(name string) FieldSlot {
	return scalarSlot(name, func(d *Decoder) (FieldValue, error) { return DecodeFlags32(d) })
}

// CharBufField, ByteBufField, ... construct FieldSlots for the
// whole-buffer-decoding types, whose Decode* functions already take []byte.
func CharBufField(name string) FieldSlot {
	return FieldSlot{Name: name, Decode: func(b []byte) (FieldValue, error) { return DecodeCharBuf(b) }}
}
func ByteBufField(name string) FieldSlot {
	return FieldSlot{Name: name, Decode: func(b []byte) (FieldValue, error) { return DecodeByteBuf(b) }}
}
func FsPathField(name string) FieldSlot {
	return FieldSlot{Name: name, Decode: func(b []byte) (FieldValue, error) { return DecodeFsPath(b) }}
}
func FsRelPathField(name string) FieldSlot {
	return FieldSlot{Name: name, Decode: func(b []byte) (FieldValue, error) { return DecodeFsRelPath(b) }}
}
func SockAddrField(name string) FieldSlot {
	return FieldSlot{Name: name, Decode: func(b []byte) (FieldValue, error) { return DecodeSockAddr(b) }}
}
func SockTupleField(name string) FieldSlot {
	return FieldSlot{Name: name, Decode: func(b []byte) (FieldValue, error) { return DecodeSockTuple(b) }}
}
func FdListField(name string) FieldSlot {
	return FieldSlot{Name: name, Decode: func(b []byte) (FieldValue, error) { return DecodeFdList(b) }}
}
func CharBufArrayField(name string) FieldSlot {
	return FieldSlot{Name: name, Decode: func(b []byte) (FieldValue, error) { return DecodeCharBufArray(b) }}
}
func CharBufPairArrayField(name string) FieldSlot {
	return FieldSlot{Name: name, Decode: func(b []byte) (FieldValue, error) { return DecodeCharBufPairArray(b) }}
}
func IPv4AddrField(name string) FieldSlot {
	return scalarSlot(name, func(d *Decoder) (FieldValue, error) { return DecodeIPv4Addr(d) })
}
func IPv6AddrField(name string) FieldSlot {
	return scalarSlot(name, func(d *Decoder) (FieldValue, error) { return DecodeIPv6Addr(d) })
}
func IPAddrField(name string) FieldSlot {
	return FieldSlot{Name: name, Decode: func(b []byte) (FieldValue, error) { return DecodeIPAddr(b) }}
}
func IPNetField(name string) FieldSlot {
	return FieldSlot{Name: name, Decode: func(b []byte) (FieldValue, error) { return DecodeIPNet(b) }}
}

// DynField builds a FieldSlot for a Dyn union given its tag->decoder map.
func DynField(name string, variants DynDecoders) FieldSlot {
	return FieldSlot{
		Name: name,
		Decode: func(b []byte) (FieldValue, error) {
			d := NewDecoder(b)
			v, err := DecodeDyn(d, variants)
			if err != nil {
				return nil, err
			}
			return v, nil
		},
	}
}
