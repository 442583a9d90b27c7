// Copyright 2024 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package event

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/require"
)

var testSchema = EventSchema{
	Type: 1,
	Fields: []FieldSlot{
		Int32Field("fd"),
		CharBufField("path"),
		Uint64Field("size"),
	},
}

func TestRoundTrip(t *testing.T) {
	var buf bytes.Buffer
	params := []EncodeParam{
		{Value: Int32(7)},
		{Value: CharBuf("/etc/passwd")},
		{Value: Uint64(4096)},
	}
	n, err := Write(&buf, testSchema.Type, 123456789, -1, params)
	require.NoError(t, err)
	require.Equal(t, buf.Len(), n)

	raw, rest, err := Scan(buf.Bytes())
	require.NoError(t, err)
	require.Empty(t, rest)
	require.Equal(t, uint64(123456789), raw.Header.Timestamp)
	require.Equal(t, int64(-1), raw.Header.ThreadID)
	require.Equal(t, uint32(3), raw.Header.NParams)

	rec, err := Load(raw, testSchema)
	require.NoError(t, err)

	fd, ok := rec.Get("fd")
	require.True(t, ok)
	require.Equal(t, Int32(7), fd)

	path, ok := rec.Get("path")
	require.True(t, ok)
	require.Equal(t, CharBuf("/etc/passwd"), path)

	size, ok := rec.Get("size")
	require.True(t, ok)
	require.Equal(t, Uint64(4096), size)
}

func TestRoundTripAbsentParam(t *testing.T) {
	var buf bytes.Buffer
	params := []EncodeParam{
		{Value: Int32(7)},
		{Value: nil}, // absent path
		{Value: Uint64(4096)},
	}
	_, err := Write(&buf, testSchema.Type, 0, 0, params)
	require.NoError(t, err)

	raw, _, err := Scan(buf.Bytes())
	require.NoError(t, err)
	rec, err := Load(raw, testSchema)
	require.NoError(t, err)

	path, ok := rec.Get("path")
	require.True(t, ok)
	require.Nil(t, path)
}

func TestForwardCompatMissingTrailingParams(t *testing.T) {
	// An older producer's event carries only 2 of the 3 schema fields.
	oldSchema := EventSchema{Type: 1, Fields: testSchema.Fields[:2]}
	var buf bytes.Buffer
	_, err := Write(&buf, oldSchema.Type, 0, 0, []EncodeParam{
		{Value: Int32(7)},
		{Value: CharBuf("/tmp")},
	})
	require.NoError(t, err)

	raw, _, err := Scan(buf.Bytes())
	require.NoError(t, err)

	rec, err := Load(raw, testSchema) // decode against the newer, 3-field schema
	require.NoError(t, err)

	size, ok := rec.Get("size")
	require.True(t, ok)
	require.Nil(t, size, "missing trailing param should decode as none")
}

func TestBackwardCompatExtraParamsIgnored(t *testing.T) {
	// A newer producer appends a 4th parameter an older schema doesn't know.
	var buf bytes.Buffer
	_, err := Write(&buf, testSchema.Type, 0, 0, []EncodeParam{
		{Value: Int32(7)},
		{Value: CharBuf("/tmp")},
		{Value: Uint64(4096)},
		{Value: Uint32(0xdeadbeef)},
	})
	require.NoError(t, err)

	raw, _, err := Scan(buf.Bytes())
	require.NoError(t, err)
	require.Equal(t, uint32(4), raw.Header.NParams)

	rec, err := Load(raw, testSchema)
	require.NoError(t, err)
	fd, _ := rec.Get("fd")
	require.Equal(t, Int32(7), fd)
}

func TestScanTruncatedHeader(t *testing.T) {
	_, _, err := Scan([]byte{1, 2, 3})
	require.Error(t, err)
	var ce *CodecError
	require.ErrorAs(t, err, &ce)
	require.Equal(t, ErrTruncatedEvent, ce.Kind)
}

func TestScanTruncatedBody(t *testing.T) {
	var buf bytes.Buffer
	_, err := Write(&buf, testSchema.Type, 0, 0, []EncodeParam{{Value: CharBuf("hello")}})
	require.NoError(t, err)

	truncated := buf.Bytes()[:buf.Len()-2]
	_, _, err = Scan(truncated)
	require.Error(t, err)
}

func TestLoadRejectsUnterminatedCharBuf(t *testing.T) {
	var buf bytes.Buffer
	_, err := Write(&buf, testSchema.Type, 0, 0, []EncodeParam{
		{Value: ByteBuf("no-nul")}, // wrong type in the path slot, on purpose
	})
	require.NoError(t, err)

	raw, _, err := Scan(buf.Bytes())
	require.NoError(t, err)
	rec, err := Load(raw, EventSchema{Type: 1, Fields: []FieldSlot{CharBufField("path")}})
	require.Error(t, err)
	require.Zero(t, rec)
}

func TestLargeParamFormat(t *testing.T) {
	big := make([]byte, 70000)
	var buf bytes.Buffer
	typ := EventType(2).WithLargeParams()
	_, err := Write(&buf, typ, 0, 0, []EncodeParam{{Value: ByteBuf(big)}})
	require.NoError(t, err)

	raw, _, err := Scan(buf.Bytes())
	require.NoError(t, err)
	require.True(t, raw.Header.Type.Large())
	require.Len(t, raw.Params[0].Bytes, len(big))
}

func TestTruncatedParamIterationContinues(t *testing.T) {
	// A hand-assembled event whose length table declares three parameters of
	// 4 bytes each, but whose body only actually carries 4 bytes total: the
	// first entry overruns by declaring more than remains, and — per
	// spec.md §9's open question — scanning keeps going over the rest of
	// the length table rather than aborting the whole event.
	var header bytes.Buffer
	var tmp8 [8]byte
	header.Write(tmp8[:]) // timestamp
	header.Write(tmp8[:]) // tid
	var tmp4 [4]byte
	totalLen := HeaderSize + 3*2 + 4
	order.PutUint32(tmp4[:], uint32(totalLen))
	header.Write(tmp4[:])
	var tmp2 [2]byte
	order.PutUint16(tmp2[:], uint16(testSchema.Type))
	header.Write(tmp2[:])
	order.PutUint32(tmp4[:], 3)
	header.Write(tmp4[:])

	var lengths bytes.Buffer
	order.PutUint16(tmp2[:], 8) // declares 8 bytes, only 4 remain
	lengths.Write(tmp2[:])
	order.PutUint16(tmp2[:], 4) // also overruns: the failed first entry used up the remainder
	lengths.Write(tmp2[:])
	order.PutUint16(tmp2[:], 0) // absent
	lengths.Write(tmp2[:])

	buf := append(header.Bytes(), lengths.Bytes()...)
	buf = append(buf, []byte{1, 2, 3, 4}...)

	raw, rest, err := Scan(buf)
	require.NoError(t, err)
	require.Empty(t, rest)
	require.Len(t, raw.Params, 3)
	require.Error(t, raw.Params[0].Err)
	require.Error(t, raw.Params[1].Err)
	require.NoError(t, raw.Params[2].Err)
	require.Nil(t, raw.Params[2].Bytes)
}

func TestUnsupportedEventType(t *testing.T) {
	var buf bytes.Buffer
	_, err := Write(&buf, EventType(99), 0, 0, nil)
	require.NoError(t, err)

	raw, _, err := Scan(buf.Bytes())
	require.NoError(t, err)

	_, err = Load(raw, testSchema)
	require.Error(t, err)
	var ce *CodecError
	require.ErrorAs(t, err, &ce)
	require.Equal(t, ErrUnsupportedEventType, ce.Kind)
}
