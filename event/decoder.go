// Copyright 2024 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package event

// Decoder reads field values off the front of a byte slice, advancing it as
// it goes. It is the exported, error-returning generalization of the
// teacher's unexported bufDecoder: every primitive read here can run out of
// bytes (a plugin's wire format isn't a trusted in-process struct the way
// perf.data's header is), so each method returns an error instead of
// indexing blindly.
type Decoder struct {
	buf []byte
}

// NewDecoder wraps buf. The Decoder does not copy buf; decoded byte slices
// and strings borrow from it directly (see FromBytes implementations on
// CharBuf, ByteBuf, etc.)
func NewDecoder(buf []byte) *Decoder {
	return &Decoder{buf: buf}
}

// Len returns the number of bytes remaining.
func (d *Decoder) Len() int { return len(d.buf) }

// Bytes returns the remaining undecoded bytes without consuming them.
func (d *Decoder) Bytes() []byte { return d.buf }

func (d *Decoder) need(n int) error {
	if len(d.buf) < n {
		return truncatedField(n, len(d.buf))
	}
	return nil
}

// Skip discards n bytes.
func (d *Decoder) Skip(n int) error {
	if err := d.need(n); err != nil {
		return err
	}
	d.buf = d.buf[n:]
	return nil
}

// Raw consumes and returns the next n bytes, borrowed from the underlying
// buffer (no copy).
func (d *Decoder) Raw(n int) ([]byte, error) {
	if err := d.need(n); err != nil {
		return nil, err
	}
	x := d.buf[:n]
	d.buf = d.buf[n:]
	return x, nil
}

// U8 reads an unsigned 8-bit integer.
func (d *Decoder) U8() (uint8, error) {
	if err := d.need(1); err != nil {
		return 0, err
	}
	x := d.buf[0]
	d.buf = d.buf[1:]
	return x, nil
}

// I8 reads a signed 8-bit integer.
func (d *Decoder) I8() (int8, error) {
	x, err := d.U8()
	return int8(x), err
}

// U16 reads a native-endian unsigned 16-bit integer.
func (d *Decoder) U16() (uint16, error) {
	if err := d.need(2); err != nil {
		return 0, err
	}
	x := order.Uint16(d.buf)
	d.buf = d.buf[2:]
	return x, nil
}

// I16 reads a native-endian signed 16-bit integer.
func (d *Decoder) I16() (int16, error) {
	x, err := d.U16()
	return int16(x), err
}

// U32 reads a native-endian unsigned 32-bit integer.
func (d *Decoder) U32() (uint32, error) {
	if err := d.need(4); err != nil {
		return 0, err
	}
	x := order.Uint32(d.buf)
	d.buf = d.buf[4:]
	return x, nil
}

// I32 reads a native-endian signed 32-bit integer.
func (d *Decoder) I32() (int32, error) {
	x, err := d.U32()
	return int32(x), err
}

// U64 reads a native-endian unsigned 64-bit integer.
func (d *Decoder) U64() (uint64, error) {
	if err := d.need(8); err != nil {
		return 0, err
	}
	x := order.Uint64(d.buf)
	d.buf = d.buf[8:]
	return x, nil
}

// I64 reads a native-endian signed 64-bit integer.
func (d *Decoder) I64() (int64, error) {
	x, err := d.U64()
	return int64(x), err
}

// Bool32 reads a 4-byte wire boolean: zero is false, any other value is true.
func (d *Decoder) Bool32() (bool, error) {
	x, err := d.U32()
	return x != 0, err
}

// CString reads bytes up to and including a NUL terminator, returning the
// bytes before the NUL (borrowed, not copied). It is an error for the
// buffer to end without a NUL, including when the remaining buffer is
// empty.
func (d *Decoder) CString() ([]byte, error) {
	if len(d.buf) == 0 {
		return nil, missingNul()
	}
	for i, c := range d.buf {
		if c == 0 {
			s := d.buf[:i]
			d.buf = d.buf[i+1:]
			return s, nil
		}
	}
	return nil, missingNul()
}
