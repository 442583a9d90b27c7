// Copyright 2024 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package event

import (
	"fmt"
	"io"
)

/*gendefs:C
#include <driver/ppm_events_public.h>
*/

// Socket address family tags, matching the Falco scap ABI's ppm_sock_family
// enum (these mirror Linux's AF_UNIX/AF_INET/AF_INET6 numbering and are
// carried as the first byte of SockAddr/SockTuple, per spec.md §4.1).
//
//gendefs ppm_sock_family.PPM_AF_* af uint8 -omit-max
const (
	afUnspec = 0
	afLocal  = 1
	afInet   = 2
	afInet6  = 10
)

// IPv4Addr is a 4-byte IPv4 address.
type IPv4Addr [4]byte

func (IPv4Addr) TypeID() TypeID    { return TypeIPv4Addr }
func (IPv4Addr) BinarySize() int   { return 4 }
func (v IPv4Addr) WriteTo(w io.Writer) (int, error) { return w.Write(v[:]) }
func (v IPv4Addr) String() string {
	return fmt.Sprintf("%d.%d.%d.%d", v[0], v[1], v[2], v[3])
}

func DecodeIPv4Addr(d *Decoder) (IPv4Addr, error) {
	var v IPv4Addr
	b, err := d.Raw(4)
	if err != nil {
		return v, err
	}
	copy(v[:], b)
	return v, nil
}

// IPv6Addr is a 16-byte IPv6 address.
type IPv6Addr [16]byte

func (IPv6Addr) TypeID() TypeID    { return TypeIPv6Addr }
func (IPv6Addr) BinarySize() int   { return 16 }
func (v IPv6Addr) WriteTo(w io.Writer) (int, error) { return w.Write(v[:]) }

func DecodeIPv6Addr(d *Decoder) (IPv6Addr, error) {
	var v IPv6Addr
	b, err := d.Raw(16)
	if err != nil {
		return v, err
	}
	copy(v[:], b)
	return v, nil
}

// IPAddr is a family-less IP address: 4 bytes means IPv4, 16 bytes means
// IPv6, any other length is InvalidLength (spec.md §3.2 "length-determined
// family"). Since IPAddr occupies the whole parameter, it decodes from a
// full slice rather than a Decoder continuation.
type IPAddr []byte

func (v IPAddr) TypeID() TypeID  { return TypeIPAddr }
func (v IPAddr) BinarySize() int { return len(v) }
func (v IPAddr) WriteTo(w io.Writer) (int, error) { return w.Write(v) }

func DecodeIPAddr(buf []byte) (IPAddr, error) {
	switch len(buf) {
	case 4, 16:
		return IPAddr(buf), nil
	default:
		return nil, invalidLength(fmt.Sprintf("IPAddr: length %d is neither 4 nor 16", len(buf)))
	}
}

// IPNet is an IP network: address bytes (4 or 16, as IPAddr) followed by a
// single prefix-length byte.
type IPNet struct {
	Addr      IPAddr
	PrefixLen uint8
}

func (v IPNet) TypeID() TypeID  { return TypeIPNet }
func (v IPNet) BinarySize() int { return len(v.Addr) + 1 }
func (v IPNet) WriteTo(w io.Writer) (int, error) {
	n, err := w.Write(v.Addr)
	if err != nil {
		return n, err
	}
	n2, err := w.Write([]byte{v.PrefixLen})
	return n + n2, err
}

func DecodeIPNet(buf []byte) (IPNet, error) {
	if len(buf) < 1 {
		return IPNet{}, truncatedField(1, len(buf))
	}
	addr, err := DecodeIPAddr(buf[:len(buf)-1])
	if err != nil {
		return IPNet{}, err
	}
	return IPNet{Addr: addr, PrefixLen: buf[len(buf)-1]}, nil
}

// EndpointV4 is an IPv4 address plus port, the building block of
// SockAddr.V4 and SockTuple.V4.
type EndpointV4 struct {
	Addr IPv4Addr
	Port uint16
}

func (e EndpointV4) binarySize() int { return 6 }

func (e EndpointV4) writeTo(w io.Writer) (int, error) {
	n, err := w.Write(e.Addr[:])
	if err != nil {
		return n, err
	}
	var p [2]byte
	order.PutUint16(p[:], e.Port)
	n2, err := w.Write(p[:])
	return n + n2, err
}

func decodeEndpointV4(d *Decoder) (EndpointV4, error) {
	addr, err := DecodeIPv4Addr(d)
	if err != nil {
		return EndpointV4{}, err
	}
	port, err := d.U16()
	if err != nil {
		return EndpointV4{}, err
	}
	return EndpointV4{Addr: addr, Port: port}, nil
}

// EndpointV6 is an IPv6 address plus port.
type EndpointV6 struct {
	Addr IPv6Addr
	Port uint16
}

func (e EndpointV6) binarySize() int { return 18 }

func (e EndpointV6) writeTo(w io.Writer) (int, error) {
	n, err := w.Write(e.Addr[:])
	if err != nil {
		return n, err
	}
	var p [2]byte
	order.PutUint16(p[:], e.Port)
	n2, err := w.Write(p[:])
	return n + n2, err
}

func decodeEndpointV6(d *Decoder) (EndpointV6, error) {
	addr, err := DecodeIPv6Addr(d)
	if err != nil {
		return EndpointV6{}, err
	}
	port, err := d.U16()
	if err != nil {
		return EndpointV6{}, err
	}
	return EndpointV6{Addr: addr, Port: port}, nil
}

// SockAddr is a tagged union over the socket address families named in
// spec.md §3.2: a Unix path, an IPv4 or IPv6 endpoint, or an unrecognized
// family carried as a raw (af, bytes) pair. Exactly one of the fields is
// meaningful, selected by Family.
type SockAddr struct {
	Family  uint8
	Unix    string // valid when Family == afLocal
	V4      EndpointV4
	V6      EndpointV6
	OtherAF uint8
	Other   []byte // valid when Family is not one of the known families
}

func (SockAddr) TypeID() TypeID { return TypeSockAddr }

func (v SockAddr) BinarySize() int {
	switch v.Family {
	case afLocal:
		return 1 + len(v.Unix) + 1
	case afInet:
		return 1 + v.V4.binarySize()
	case afInet6:
		return 1 + v.V6.binarySize()
	default:
		return 1 + len(v.Other)
	}
}

func (v SockAddr) WriteTo(w io.Writer) (int, error) {
	n, err := writeBytes(w, v.Family)
	if err != nil {
		return n, err
	}
	var n2 int
	switch v.Family {
	case afLocal:
		n2, err = writeCString(w, v.Unix)
	case afInet:
		n2, err = v.V4.writeTo(w)
	case afInet6:
		n2, err = v.V6.writeTo(w)
	default:
		n2, err = w.Write(v.Other)
	}
	return n + n2, err
}

// DecodeSockAddr decodes a full parameter slice: the first byte is the
// family tag; an unrecognized family consumes the rest of the buffer
// verbatim (spec.md §4.1).
func DecodeSockAddr(buf []byte) (SockAddr, error) {
	d := NewDecoder(buf)
	family, err := d.U8()
	if err != nil {
		return SockAddr{}, err
	}
	switch uint32(family) {
	case afLocal:
		s, err := trailingNulString(d.Bytes())
		if err != nil {
			return SockAddr{}, err
		}
		return SockAddr{Family: family, Unix: s}, nil
	case afInet:
		v4, err := decodeEndpointV4(d)
		if err != nil {
			return SockAddr{}, err
		}
		return SockAddr{Family: family, V4: v4}, nil
	case afInet6:
		v6, err := decodeEndpointV6(d)
		if err != nil {
			return SockAddr{}, err
		}
		return SockAddr{Family: family, V6: v6}, nil
	default:
		return SockAddr{Family: family, OtherAF: family, Other: d.Bytes()}, nil
	}
}

// SockTuple describes both endpoints of a connection, tagged the same way
// as SockAddr.
type SockTuple struct {
	Family    uint8
	UnixSrc   uint64
	UnixDst   uint64
	UnixPath  string
	V4Src     EndpointV4
	V4Dst     EndpointV4
	V6Src     EndpointV6
	V6Dst     EndpointV6
	OtherAF   uint8
	Other     []byte
}

func (SockTuple) TypeID() TypeID { return TypeSockTuple }

func (v SockTuple) BinarySize() int {
	switch v.Family {
	case afLocal:
		return 1 + 8 + 8 + len(v.UnixPath) + 1
	case afInet:
		return 1 + v.V4Src.binarySize() + v.V4Dst.binarySize()
	case afInet6:
		return 1 + v.V6Src.binarySize() + v.V6Dst.binarySize()
	default:
		return 1 + len(v.Other)
	}
}

func (v SockTuple) WriteTo(w io.Writer) (int, error) {
	total, err := writeBytes(w, v.Family)
	if err != nil {
		return total, err
	}
	switch v.Family {
	case afLocal:
		var tmp [8]byte
		order.PutUint64(tmp[:], v.UnixSrc)
		n, err := w.Write(tmp[:])
		total += n
		if err != nil {
			return total, err
		}
		order.PutUint64(tmp[:], v.UnixDst)
		n, err = w.Write(tmp[:])
		total += n
		if err != nil {
			return total, err
		}
		n, err = writeCString(w, v.UnixPath)
		total += n
		return total, err
	case afInet:
		n, err := v.V4Src.writeTo(w)
		total += n
		if err != nil {
			return total, err
		}
		n, err = v.V4Dst.writeTo(w)
		total += n
		return total, err
	case afInet6:
		n, err := v.V6Src.writeTo(w)
		total += n
		if err != nil {
			return total, err
		}
		n, err = v.V6Dst.writeTo(w)
		total += n
		return total, err
	default:
		n, err := w.Write(v.Other)
		total += n
		return total, err
	}
}

func DecodeSockTuple(buf []byte) (SockTuple, error) {
	d := NewDecoder(buf)
	family, err := d.U8()
	if err != nil {
		return SockTuple{}, err
	}
	switch uint32(family) {
	case afLocal:
		src, err := d.U64()
		if err != nil {
			return SockTuple{}, err
		}
		dst, err := d.U64()
		if err != nil {
			return SockTuple{}, err
		}
		path, err := trailingNulString(d.Bytes())
		if err != nil {
			return SockTuple{}, err
		}
		return SockTuple{Family: family, UnixSrc: src, UnixDst: dst, UnixPath: path}, nil
	case afInet:
		src, err := decodeEndpointV4(d)
		if err != nil {
			return SockTuple{}, err
		}
		dst, err := decodeEndpointV4(d)
		if err != nil {
			return SockTuple{}, err
		}
		return SockTuple{Family: family, V4Src: src, V4Dst: dst}, nil
	case afInet6:
		src, err := decodeEndpointV6(d)
		if err != nil {
			return SockTuple{}, err
		}
		dst, err := decodeEndpointV6(d)
		if err != nil {
			return SockTuple{}, err
		}
		return SockTuple{Family: family, V6Src: src, V6Dst: dst}, nil
	default:
		return SockTuple{Family: family, OtherAF: family, Other: d.Bytes()}, nil
	}
}
