// Copyright 2024 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package extract implements the extract capability (spec.md §4.8): a
// plugin that turns event bytes into named field values.
package extract

import "github.com/falcosecurity/go-plugin-sdk/event"

// ArgType selects how a field's optional argument is supplied, mirroring
// spec.md §4.8's ExtractArgType: None, RequiredIndex, OptionalIndex,
// RequiredKey, OptionalKey. The core validates a request's argument shape
// against this before dispatching to the plugin, so Extractor
// implementations can assume Arg matches FieldDesc.Arg by the time they
// see it.
type ArgType int

const (
	ArgNone ArgType = iota
	ArgRequiredIndex
	ArgOptionalIndex
	ArgRequiredKey
	ArgOptionalKey
)

// FieldDesc describes one extractable field, the Go shape of spec.md
// §4.8's get_fields entry ({name, type, isList, arg, display, desc}).
type FieldDesc struct {
	Name    string
	Type    event.TypeID
	IsList  bool
	Arg     ArgType
	Display string
	Desc    string
}

// Arg is the resolved argument for one extraction request: at most one of
// Index/Key is meaningful, selected by the field's ArgType and Present.
type Arg struct {
	Present bool
	Index   uint64
	Key     string
}

// Request is one field to extract from a single event, the Go shape of
// spec.md §4.8's ss_plugin_extract_field record.
type Request struct {
	Field FieldDesc
	Arg   Arg

	// Result is populated by Extractor.Extract. A nil Result (with no
	// error) means "no data" for this field — spec.md §7 "a field may be
	// 'no data' without error... encoded by res_len = 0, not by a status
	// code" — rendered here as a nil/empty Result rather than an error.
	Result []event.FieldValue
}

// Extractor is implemented by a plugin's extract capability. EventTypes and
// EventSources filter which events are routed to Extract at all (empty
// means "no filtering on that axis", spec.md §4.9's identical rule for
// parse applies here too). Extract fills in Requests[i].Result for as many
// requests as it can satisfy; a request it cannot answer is left with a
// nil Result, not an error — Extract only returns an error for a genuine
// failure (e.g. malformed event), not for "field doesn't apply here".
type Extractor interface {
	Fields() []FieldDesc
	EventTypes() []uint16
	EventSources() []string
	Extract(evt event.RawEvent, sourceName string, requests []Request) error
}

// Arena is the per-plugin field-storage buffer backing the caller-managed
// output lifetimes spec.md §4.8 and §9 describe: results from Extract must
// remain valid until the next Extract call on the same plugin, and are
// invalidated by being overwritten at the start of the next call, not by an
// explicit free. On the Go side there is nothing to allocate by hand — the
// []event.FieldValue slices Extract produces are ordinary garbage-collected
// values — so Arena exists purely to give the abi bridge one place to hold
// the previous call's results alive (preventing a premature GC of slices
// the host may still be reading through a C pointer) until Reset is called
// at the next extract_fields entry.
type Arena struct {
	held []Request
}

// Reset invalidates the previous call's results and returns the arena
// ready to hold next. Tests for "extract arena invalidation" (spec.md §8)
// call Reset between two Hold calls standing in for two Extract
// invocations, and assert the first call's results are no longer reachable
// from the arena.
func (a *Arena) Reset() {
	a.held = nil
}

// Hold retains requests as the current call's live results, keeping their
// FieldValue slices reachable for the abi bridge until the next Reset.
func (a *Arena) Hold(requests []Request) {
	a.held = requests
}
