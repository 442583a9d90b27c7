// Copyright 2024 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package event

import (
	"bytes"
	"io"
)

// EncodeParam is one parameter slot for Write: a nil Value encodes as
// length 0 ("absent"), regardless of its schema-declared type, matching
// the wire semantics Scan applies on read (spec.md §4.1).
type EncodeParam struct {
	Value FieldValue
}

// Write frames a complete event and writes it to w: the 26-byte header,
// the length table (2 or 4 bytes per entry depending on typ.Large()), and
// the concatenated parameter bytes. It returns the number of bytes written.
func Write(w io.Writer, typ EventType, timestamp uint64, tid int64, params []EncodeParam) (int, error) {
	var body bytes.Buffer
	entrySize := typ.entrySize()
	lengths := make([]int, len(params))
	for i, p := range params {
		if p.Value != nil {
			lengths[i] = p.Value.BinarySize()
		}
	}

	for _, n := range lengths {
		var tmp [4]byte
		switch entrySize {
		case 2:
			order.PutUint16(tmp[:2], uint16(n))
			body.Write(tmp[:2])
		default:
			order.PutUint32(tmp[:4], uint32(n))
			body.Write(tmp[:4])
		}
	}
	for _, p := range params {
		if p.Value == nil {
			continue
		}
		if _, err := p.Value.WriteTo(&body); err != nil {
			return 0, err
		}
	}

	totalLen := HeaderSize + body.Len()
	var header bytes.Buffer
	header.Grow(HeaderSize)
	var tmp8 [8]byte
	order.PutUint64(tmp8[:], timestamp)
	header.Write(tmp8[:])
	order.PutUint64(tmp8[:], uint64(tid))
	header.Write(tmp8[:])
	var tmp4 [4]byte
	order.PutUint32(tmp4[:], uint32(totalLen))
	header.Write(tmp4[:])
	var tmp2 [2]byte
	order.PutUint16(tmp2[:], uint16(typ))
	header.Write(tmp2[:])
	order.PutUint32(tmp4[:], uint32(len(params)))
	header.Write(tmp4[:])

	n, err := w.Write(header.Bytes())
	if err != nil {
		return n, err
	}
	n2, err := w.Write(body.Bytes())
	return n + n2, err
}
