// Copyright 2024 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package plugin implements the host-facing plugin lifecycle: descriptor,
// configuration, metrics, the last-error buffer, and the FailureReason/error
// taxonomy shared by every capability (spec.md §4.6, §7).
package plugin

// Code is the status code every ABI-facing call resolves to (spec.md §3.5,
// §6.4). Unlike TypeID or the table ErrorKind, this is a small, stable,
// externally-defined set rather than something the SDK is free to extend,
// so its String is a hand-written switch, the same way the teacher writes
// RecordType.String() by hand in perffile/records.go rather than generating
// it — bitstringer is reserved for bit *masks* (see cmd/bitstringer).
type Code int32

const (
	StatusSuccess      Code = 0
	StatusFailure      Code = 1
	StatusTimeout      Code = -1
	StatusEOF          Code = 6
	StatusNotSupported Code = 9
)

func (c Code) String() string {
	switch c {
	case StatusSuccess:
		return "Success"
	case StatusFailure:
		return "Failure"
	case StatusTimeout:
		return "Timeout"
	case StatusEOF:
		return "Eof"
	case StatusNotSupported:
		return "NotSupported"
	default:
		return "Unknown"
	}
}
