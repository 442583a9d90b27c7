// Copyright 2024 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package event

import (
	"bytes"
	"io"
)

// FdListEntry is one (fd, flags) pair inside an FdList.
type FdListEntry struct {
	FD    uint64
	Flags uint16
}

// FdList is a u16-prefixed list of (fd, flags) records (spec.md §3.2, §4.1).
type FdList []FdListEntry

func (FdList) TypeID() TypeID  { return TypeFdList }
func (v FdList) BinarySize() int { return 2 + len(v)*10 }

func (v FdList) WriteTo(w io.Writer) (int, error) {
	var tmp [2]byte
	order.PutUint16(tmp[:], uint16(len(v)))
	total, err := w.Write(tmp[:])
	if err != nil {
		return total, err
	}
	for _, e := range v {
		var fd [8]byte
		order.PutUint64(fd[:], e.FD)
		n, err := w.Write(fd[:])
		total += n
		if err != nil {
			return total, err
		}
		var fl [2]byte
		order.PutUint16(fl[:], e.Flags)
		n, err = w.Write(fl[:])
		total += n
		if err != nil {
			return total, err
		}
	}
	return total, nil
}

func DecodeFdList(buf []byte) (FdList, error) {
	d := NewDecoder(buf)
	n, err := d.U16()
	if err != nil {
		return nil, err
	}
	list := make(FdList, 0, n)
	for i := uint16(0); i < n; i++ {
		fd, err := d.U64()
		if err != nil {
			return nil, err
		}
		flags, err := d.U16()
		if err != nil {
			return nil, err
		}
		list = append(list, FdListEntry{FD: fd, Flags: flags})
	}
	return list, nil
}

// CharBufArray is a concatenation of NUL-terminated strings (spec.md §3.2).
// An empty buffer decodes to an empty array; any other buffer must end in
// NUL.
type CharBufArray []string

func (CharBufArray) TypeID() TypeID    { return TypeCharBufArray }
func (v CharBufArray) BinarySize() int { return charBufArraySize(v) }
func (v CharBufArray) WriteTo(w io.Writer) (int, error) { return writeCharBufArray(w, v) }

func DecodeCharBufArray(buf []byte) (CharBufArray, error) {
	strs, err := splitNulStrings(buf)
	return CharBufArray(strs), err
}

// CharBufPairArray is a CharBufArray with the additional invariant that it
// contains an even number of strings (key/value pairs).
type CharBufPairArray []string

func (CharBufPairArray) TypeID() TypeID    { return TypeCharBufPairArray }
func (v CharBufPairArray) BinarySize() int { return charBufArraySize(v) }
func (v CharBufPairArray) WriteTo(w io.Writer) (int, error) { return writeCharBufArray(w, v) }

func DecodeCharBufPairArray(buf []byte) (CharBufPairArray, error) {
	nuls := bytes.Count(buf, []byte{0})
	if nuls%2 != 0 {
		return nil, oddPairItemCount(nuls)
	}
	strs, err := splitNulStrings(buf)
	return CharBufPairArray(strs), err
}

func charBufArraySize(strs []string) int {
	n := 0
	for _, s := range strs {
		n += len(s) + 1
	}
	return n
}

func writeCharBufArray(w io.Writer, strs []string) (int, error) {
	total := 0
	for _, s := range strs {
		n, err := writeCString(w, s)
		total += n
		if err != nil {
			return total, err
		}
	}
	return total, nil
}

// splitNulStrings splits buf on NUL bytes, requiring the final byte to be
// NUL (empty buf is the sole exception, per spec.md §4.1).
func splitNulStrings(buf []byte) ([]string, error) {
	if len(buf) == 0 {
		return nil, nil
	}
	if buf[len(buf)-1] != 0 {
		return nil, missingNul()
	}
	parts := bytes.Split(buf[:len(buf)-1], []byte{0})
	out := make([]string, len(parts))
	for i, p := range parts {
		out[i] = string(p)
	}
	return out, nil
}
