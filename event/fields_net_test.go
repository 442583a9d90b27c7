// Copyright 2024 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package event

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestSockAddrRoundTripV4(t *testing.T) {
	in := SockAddr{Family: afInet, V4: EndpointV4{Addr: IPv4Addr{192, 168, 1, 2}, Port: 8080}}
	var buf bytes.Buffer
	_, err := in.WriteTo(&buf)
	require.NoError(t, err)
	require.Equal(t, in.BinarySize(), buf.Len())

	out, err := DecodeSockAddr(buf.Bytes())
	require.NoError(t, err)
	require.Equal(t, in, out)
	require.Equal(t, "192.168.1.2", out.V4.Addr.String())
}

func TestSockAddrRoundTripV6(t *testing.T) {
	var addr IPv6Addr
	copy(addr[:], []byte{0xba, 0xd0, 0xbe, 0xef, 0xca, 0xfe, 0, 0, 0, 0, 0, 0, 0, 0, 0xf0, 0x0d})
	in := SockAddr{Family: afInet6, V6: EndpointV6{Addr: addr, Port: 8080}}
	var buf bytes.Buffer
	_, err := in.WriteTo(&buf)
	require.NoError(t, err)

	out, err := DecodeSockAddr(buf.Bytes())
	require.NoError(t, err)
	require.Equal(t, in, out)
}

func TestSockAddrRoundTripUnix(t *testing.T) {
	in := SockAddr{Family: afLocal, Unix: "/tmp/socket.sock"}
	var buf bytes.Buffer
	_, err := in.WriteTo(&buf)
	require.NoError(t, err)

	out, err := DecodeSockAddr(buf.Bytes())
	require.NoError(t, err)
	require.Equal(t, in, out)
}

func TestSockAddrRoundTripOther(t *testing.T) {
	in := SockAddr{Family: 7, OtherAF: 7, Other: []byte("/tmp/socket.sock")}
	var buf bytes.Buffer
	_, err := in.WriteTo(&buf)
	require.NoError(t, err)

	out, err := DecodeSockAddr(buf.Bytes())
	require.NoError(t, err)
	require.Equal(t, byte(7), out.Family)
	require.Equal(t, []byte("/tmp/socket.sock"), out.Other)
}

func TestSockTupleRoundTripV4(t *testing.T) {
	in := SockTuple{
		Family: afInet,
		V4Src:  EndpointV4{Addr: IPv4Addr{10, 0, 0, 1}, Port: 1234},
		V4Dst:  EndpointV4{Addr: IPv4Addr{10, 0, 0, 2}, Port: 80},
	}
	var buf bytes.Buffer
	_, err := in.WriteTo(&buf)
	require.NoError(t, err)

	out, err := DecodeSockTuple(buf.Bytes())
	require.NoError(t, err)
	require.Equal(t, in, out)
}

func TestIPAddrRejectsBadLength(t *testing.T) {
	_, err := DecodeIPAddr([]byte{1, 2, 3})
	require.Error(t, err)
	var ce *CodecError
	require.ErrorAs(t, err, &ce)
	require.Equal(t, ErrInvalidLength, ce.Kind)
}

func TestIPNetRoundTrip(t *testing.T) {
	in := IPNet{Addr: IPAddr([]byte{192, 168, 0, 0}), PrefixLen: 16}
	var buf bytes.Buffer
	_, err := in.WriteTo(&buf)
	require.NoError(t, err)

	out, err := DecodeIPNet(buf.Bytes())
	require.NoError(t, err)
	require.Equal(t, in, out)
}

func TestFdListRoundTrip(t *testing.T) {
	in := FdList{{FD: 3, Flags: 1}, {FD: 4, Flags: 0}}
	var buf bytes.Buffer
	_, err := in.WriteTo(&buf)
	require.NoError(t, err)
	require.Equal(t, in.BinarySize(), buf.Len())

	out, err := DecodeFdList(buf.Bytes())
	require.NoError(t, err)
	require.Equal(t, in, out)
}

func TestCharBufPairArrayRejectsOddCount(t *testing.T) {
	_, err := DecodeCharBufPairArray([]byte("key\x00value\x00extra\x00"))
	require.Error(t, err)
	var ce *CodecError
	require.ErrorAs(t, err, &ce)
	require.Equal(t, ErrOddPairItemCount, ce.Kind)
}

func TestCharBufArrayRoundTrip(t *testing.T) {
	in := CharBufArray{"a", "bb", "ccc"}
	var buf bytes.Buffer
	_, err := in.WriteTo(&buf)
	require.NoError(t, err)

	out, err := DecodeCharBufArray(buf.Bytes())
	require.NoError(t, err)
	require.Equal(t, in, out)
}

func TestDynRoundTrip(t *testing.T) {
	in := Dyn{Tag: 0, Value: Int32(42)}
	variants := DynDecoders{
		0: func(d *Decoder) (FieldValue, error) { return DecodeInt32(d) },
		1: func(d *Decoder) (FieldValue, error) { return DecodeCharBuf(d.Bytes()) },
	}
	var buf bytes.Buffer
	_, err := in.WriteTo(&buf)
	require.NoError(t, err)

	out, err := DecodeDyn(NewDecoder(buf.Bytes()), variants)
	require.NoError(t, err)
	require.Equal(t, in, out)
}

func TestDynUnknownTag(t *testing.T) {
	_, err := DecodeDyn(NewDecoder([]byte{99}), DynDecoders{})
	require.Error(t, err)
	var ce *CodecError
	require.ErrorAs(t, err, &ce)
	require.Equal(t, ErrInvalidDynDiscriminant, ce.Kind)
}
