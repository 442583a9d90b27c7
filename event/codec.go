// Copyright 2024 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package event

import "iter"

// Record is the result of applying an EventSchema to a RawEvent: each slot
// is resolved to either a decoded FieldValue or nil, meaning the parameter
// was absent on the wire (spec.md §4.1's "none").
type Record struct {
	Header Header
	schema EventSchema
	values []FieldValue
}

// Load interprets raw according to schema. A RawEvent with fewer
// parameters than the schema declares (an older producer) yields nil for
// the trailing slots; one with more (a newer producer, or an unrelated
// trailer) simply has its extra parameters ignored — this is the
// forward/backward compatibility spec.md §4.1 requires of the codec.
func Load(raw RawEvent, schema EventSchema) (Record, error) {
	if raw.Header.Type.Base() != schema.Type.Base() {
		return Record{}, unsupportedEventType(raw.Header.Type)
	}
	values := make([]FieldValue, len(schema.Fields))
	for i, slot := range schema.Fields {
		if i >= len(raw.Params) {
			continue // missing trailing param (older producer): none
		}
		p := raw.Params[i]
		if p.Err != nil {
			return Record{}, NamedField(slot.Name, p.Err)
		}
		if p.Bytes == nil {
			continue // explicit absence (length 0 on the wire): none
		}
		v, err := slot.Decode(p.Bytes)
		if err != nil {
			return Record{}, NamedField(slot.Name, err)
		}
		values[i] = v
	}
	return Record{Header: raw.Header, schema: schema, values: values}, nil
}

// Get returns the decoded value of the named field, or nil if it was absent
// or missing. The second result is false only if no such field exists in
// the schema at all.
func (r Record) Get(name string) (FieldValue, bool) {
	for i, slot := range r.schema.Fields {
		if slot.Name == name {
			return r.values[i], true
		}
	}
	return nil, false
}

// All ranges over every schema field in wire order, yielding nil values for
// absent or missing parameters.
func (r Record) All() iter.Seq2[string, FieldValue] {
	return func(yield func(string, FieldValue) bool) {
		for i, slot := range r.schema.Fields {
			if !yield(slot.Name, r.values[i]) {
				return
			}
		}
	}
}

// AllParams ranges over a RawEvent's parameter slots without schema
// interpretation, in wire order. This is the low-level iterator callers use
// when they only need to forward or inspect raw bytes (e.g.
// cmd/plugin-dump), including ones Load would refuse to touch because of a
// truncation.
func (r RawEvent) AllParams() iter.Seq2[int, Param] {
	return func(yield func(int, Param) bool) {
		for i, p := range r.Params {
			if !yield(i, p) {
				return
			}
		}
	}
}
