// Copyright 2024 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package abi

/*
#include "plugin_api.h"
*/
import "C"

import (
	"unsafe"

	"github.com/falcosecurity/go-plugin-sdk/event"
)

// EventBytes copies a C-owned ss_plugin_event (header plus its total_len of
// trailing bytes) into a Go byte slice suitable for event.Scan. The host
// promises the memory is valid only for the duration of the call it was
// handed through (spec.md §5 "Shared resources"), so this always copies
// rather than aliasing it.
func EventBytes(ev *C.ss_plugin_event) []byte {
	return C.GoBytes(unsafe.Pointer(ev), C.int(ev.total_len))
}

// HeaderFromC reads just the fixed header fields out of a C.ss_plugin_event,
// without requiring a Go-side Decoder over the whole buffer. No code in this
// module calls it.
func HeaderFromC(ev *C.ss_plugin_event) event.Header {
	return event.Header{
		Timestamp: uint64(ev.ts),
		ThreadID:  int64(ev.tid),
		TotalLen:  uint32(ev.total_len),
		Type:      event.EventType(ev.event_type),
		NParams:   uint32(ev.nparams),
	}
}
