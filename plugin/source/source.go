// Copyright 2024 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package source implements the source capability (spec.md §4.7): a plugin
// that produces its own stream of framed events.
package source

// Source is implemented by a plugin's source capability. ID and
// EventSourceName back get_id/get_event_source; ListOpenParams backs
// list_open_params, returning a NUL-terminated-on-the-wire JSON document
// describing the accepted `open` parameter strings (the NUL-termination
// itself is an abi-layer concern, not this interface's).
type Source interface {
	ID() uint32
	EventSourceName() string
	ListOpenParams() (string, error)
	Open(params string) (Capture, error)
}

// Capture is one open capture instance (spec.md §4.7 "open(...) -> instance*").
// NextBatch fills a plugin-owned ring: the returned slices are only valid
// until the next call to NextBatch on the same Capture (spec.md §5
// "per-instance batch buffer... stable until the next next_batch call").
//
// A Timeout condition (no data yet, try again) is reported by returning
// plugin.WithReason(err, plugin.FailureReasonTimeout); Eof (capture
// finished) by plugin.FailureReasonEOF. The core, not this package, is
// responsible for treating Timeout as non-fatal and retrying.
type Capture interface {
	Close()
	NextBatch() (events [][]byte, err error)
	EventToString(eventBytes []byte) (string, error)
	Progress() (percent float64, detail string)
}
