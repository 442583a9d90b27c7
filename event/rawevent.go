// Copyright 2024 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package event

import "fmt"

// EventType identifies both an event's schema and its parameter
// length-table format. The top bit (largeParamsFlag) selects a 4-byte
// length table instead of the default 2-byte one; nothing in spec.md
// assigns a concrete bit for this, so this package fixes one, the same way
// scap reserves high bits of its own event-type space for variants (see
// DESIGN.md for the Open Question this resolves).
type EventType uint16

const largeParamsFlag EventType = 0x8000

// Large reports whether this event's parameter length table uses 4-byte
// entries instead of 2-byte ones.
func (t EventType) Large() bool { return t&largeParamsFlag != 0 }

// WithLargeParams sets the large-params flag on t.
func (t EventType) WithLargeParams() EventType { return t | largeParamsFlag }

// Base strips the large-params flag, yielding the value schemas are
// registered under.
func (t EventType) Base() EventType { return t &^ largeParamsFlag }

func (t EventType) entrySize() int {
	if t.Large() {
		return 4
	}
	return 2
}

// Header is the fixed 26-byte prefix of every wire event (spec.md §4.1):
// a timestamp, thread ID, total framed length, event type and parameter
// count.
type Header struct {
	Timestamp uint64 // nanoseconds, host-defined epoch
	ThreadID  int64
	TotalLen  uint32 // header + length table + parameter bytes
	Type      EventType
	NParams   uint32
}

// HeaderSize is the encoded size of Header: 8 + 8 + 4 + 2 + 4.
const HeaderSize = 26

func decodeHeader(d *Decoder) (Header, error) {
	var h Header
	ts, err := d.U64()
	if err != nil {
		return h, err
	}
	tid, err := d.I64()
	if err != nil {
		return h, err
	}
	total, err := d.U32()
	if err != nil {
		return h, err
	}
	typ, err := d.U16()
	if err != nil {
		return h, err
	}
	nparams, err := d.U32()
	if err != nil {
		return h, err
	}
	h.Timestamp, h.ThreadID, h.TotalLen, h.Type, h.NParams = ts, tid, total, EventType(typ), nparams
	return h, nil
}

// Param is one parameter slot produced by Scan: Bytes is nil when the
// parameter is absent (a zero length-table entry) or when Err is set.
type Param struct {
	Bytes []byte
	Err   error // TruncatedField if the declared length didn't fit
}

// RawEvent is a parsed but untyped event: parameter bytes are sliced out
// according to the length table but not yet interpreted as field values.
// Schema-driven interpretation happens in codec.go's Load.
type RawEvent struct {
	Header Header
	Params []Param // len == Header.NParams
}

// Scan parses one framed event off the front of buf and returns the
// remaining bytes following it. Decoding never reads past the event's own
// TotalLen bytes. It validates TotalLen and that the length table itself
// fits in the payload (failures there abort the whole scan, since the
// parameter area can't even be located); a single parameter whose declared
// length exceeds what remains does NOT abort the scan — per spec.md §9's
// open question, that parameter's Param carries the TruncatedField error
// and scanning continues over the remaining length-table entries. The
// failed entry uses up the rest of the parameter area, so every later entry
// with a non-zero length fails the same way; a zero-length entry still
// reads as absent.
func Scan(buf []byte) (RawEvent, []byte, error) {
	d := NewDecoder(buf)
	if d.Len() < HeaderSize {
		return RawEvent{}, buf, truncatedEvent(HeaderSize, d.Len())
	}
	h, err := decodeHeader(d)
	if err != nil {
		return RawEvent{}, buf, err
	}
	if int(h.TotalLen) < HeaderSize {
		return RawEvent{}, buf, invalidLength(fmt.Sprintf("total_len %d shorter than header", h.TotalLen))
	}
	if len(buf) < int(h.TotalLen) {
		return RawEvent{}, buf, truncatedEvent(int(h.TotalLen), len(buf))
	}
	d = NewDecoder(buf[HeaderSize:h.TotalLen])

	entrySize := h.Type.entrySize()
	lengths := make([]int, h.NParams)
	for i := range lengths {
		switch entrySize {
		case 2:
			n, err := d.U16()
			if err != nil {
				return RawEvent{}, buf, err
			}
			lengths[i] = int(n)
		default:
			n, err := d.U32()
			if err != nil {
				return RawEvent{}, buf, err
			}
			lengths[i] = int(n)
		}
	}

	params := make([]Param, h.NParams)
	for i, n := range lengths {
		if n == 0 {
			continue // absent, per spec.md §4.1
		}
		b, err := d.Raw(n)
		if err != nil {
			params[i] = Param{Err: err}
			d = NewDecoder(nil) // the remainder is spent; keep going over the rest of the table
			continue
		}
		params[i] = Param{Bytes: b}
	}

	rest := buf[int(h.TotalLen):]
	return RawEvent{Header: h, Params: params}, rest, nil
}

// Trim returns buf truncated to exactly one event's TotalLen, for callers
// that have already parsed the header and want the framed bytes without
// re-scanning.
func Trim(buf []byte, h Header) ([]byte, error) {
	if len(buf) < int(h.TotalLen) {
		return nil, truncatedEvent(int(h.TotalLen), len(buf))
	}
	return buf[:h.TotalLen], nil
}
