// Copyright 2024 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package event

import (
	"io"
	"time"
)

// RelTime is a duration in nanoseconds, encoded as a u64.
type RelTime time.Duration

func (RelTime) TypeID() TypeID  { return TypeRelTime }
func (RelTime) BinarySize() int { return 8 }
func (v RelTime) WriteTo(w io.Writer) (int, error) {
	var tmp [8]byte
	order.PutUint64(tmp[:], uint64(v))
	return writeBytes(w, tmp[:]...)
}

func DecodeRelTime(d *Decoder) (RelTime, error) {
	x, err := d.U64()
	return RelTime(x), err
}

// AbsTime is nanoseconds since the Unix epoch, encoded as a u64.
type AbsTime uint64

func (AbsTime) TypeID() TypeID  { return TypeAbsTime }
func (AbsTime) BinarySize() int { return 8 }
func (v AbsTime) WriteTo(w io.Writer) (int, error) {
	var tmp [8]byte
	order.PutUint64(tmp[:], uint64(v))
	return writeBytes(w, tmp[:]...)
}

func DecodeAbsTime(d *Decoder) (AbsTime, error) {
	x, err := d.U64()
	return AbsTime(x), err
}

// Time returns the AbsTime as a time.Time.
func (v AbsTime) Time() time.Time {
	return time.Unix(0, int64(v))
}
