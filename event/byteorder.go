// Copyright 2024 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package event

import (
	"encoding/binary"
	"unsafe"
)

// order is the native byte order of the running machine. The wire format
// requires native-endian encoding (the Falco convention: events are produced
// and parsed on the same host), so this is resolved once at init time rather
// than threaded through every call.
var order binary.ByteOrder = func() binary.ByteOrder {
	var x uint16 = 1
	b := (*[2]byte)(unsafe.Pointer(&x))
	if b[0] == 1 {
		return binary.LittleEndian
	}
	return binary.BigEndian
}()
