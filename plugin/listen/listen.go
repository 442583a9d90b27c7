// Copyright 2024 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package listen implements the capture-listen capability (spec.md §4.11):
// a plugin that subscribes cooperatively-scheduled routines to the host's
// own thread pool for the lifetime of a capture.
package listen

// Routine wraps one subscribed callback: Run is invoked repeatedly by the
// host thread pool; returning true requests another invocation, false
// requests termination (spec.md §9 "the target wraps [the C-style
// non-zero-means-continue callback] with a typed closure returning
// Continue | Break" — here a plain bool plays the same role the iteration
// callbacks elsewhere in this SDK use, e.g. table.Exported.IterateEntries).
//
// Close releases the routine's state. There is no finalizer: matching the
// teacher's general avoidance of GC magic throughout perffile, callers
// (capture_close, or the owning plugin.Instance on destroy) must call
// Close explicitly rather than rely on it running eventually.
type Routine struct {
	run   func() bool
	state any
}

// NewRoutine boxes run (and, optionally, any per-routine state the closure
// itself doesn't already capture) as a Routine ready for Subscriber.Subscribe.
func NewRoutine(run func() bool, state any) *Routine {
	return &Routine{run: run, state: state}
}

// Run invokes the routine once.
func (r *Routine) Run() bool { return r.run() }

// State returns whatever state NewRoutine was given, for callers that want
// to inspect or release it explicitly in Close.
func (r *Routine) State() any { return r.state }

// Close drops the routine's closure and state, making it eligible for
// collection. Calling Run after Close is the caller's bug, not something
// this type guards against — the host never calls a routine after
// unsubscribing it (spec.md §4.11).
func (r *Routine) Close() {
	r.run = nil
	r.state = nil
}

// Subscriber is implemented by a listen-capable plugin's capture_open: it
// registers whatever Routines it needs for the capture's lifetime, and
// capture_close releases them.
type Subscriber interface {
	CaptureOpen() ([]*Routine, error)
	CaptureClose(routines []*Routine)
}
