// Copyright 2015 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package event implements the wire codec for Falco plugin events: a
// self-describing binary layout consisting of a fixed 26-byte header, a
// parameter length table, and concatenated parameter bytes.
//
// An event is decoded in two steps. Scan splits a byte slice into a Header
// and one byte slice per parameter, using the length table to find each
// parameter's bounds without interpreting its contents (a zero-length entry
// means the parameter is absent). Load then applies an EventSchema to a
// RawEvent, filling in "none" for any parameters the wire form is missing —
// this is the forward/backward compatibility the codec is built around: an
// older producer's event still loads against a newer schema, and a newer
// producer's extra trailing parameters are simply ignored by an older one.
//
// All multi-byte integers are native-endian, matching the Falco convention:
// events are produced and consumed on the same machine, never shipped across
// a network in this layer.
package event
