// Copyright 2024 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package abi

/*
#include "plugin_api.h"
*/
import "C"

// StatusCode is the Go mirror of ss_plugin_rc (spec.md §6.4): the five
// integer codes every ABI boundary call returns.
type StatusCode int32

const (
	StatusSuccess      StatusCode = C.SS_PLUGIN_SUCCESS
	StatusFailure      StatusCode = C.SS_PLUGIN_FAILURE
	StatusTimeout      StatusCode = C.SS_PLUGIN_TIMEOUT
	StatusEOF          StatusCode = C.SS_PLUGIN_EOF
	StatusNotSupported StatusCode = C.SS_PLUGIN_NOT_SUPPORTED
)

// CRc converts a StatusCode to the C.ss_plugin_rc value a trampoline
// returns to the host.
func (s StatusCode) CRc() C.ss_plugin_rc { return C.ss_plugin_rc(s) }
