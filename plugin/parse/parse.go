// Copyright 2024 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package parse implements the parse capability (spec.md §4.9): a plugin
// that observes (and may mutate, through tables) every event routed to it.
package parse

import "github.com/falcosecurity/go-plugin-sdk/event"

// Parser is implemented by a plugin's parse capability. EventTypes and
// EventSources filter which events reach Parse at all: an empty EventTypes
// means "all, subject to source filtering" (spec.md §4.9); an empty
// EventTypes combined with EventSources that exclude the host's main
// source falls back to receiving only the generic plugin-event type — that
// fallback is the core's responsibility, not the Parser implementation's.
//
// A parse plugin reads and mutates tables through table.Imported bindings
// it established at init, not through anything in this interface — Parse's
// only job is to react to the event itself.
type Parser interface {
	EventTypes() []uint16
	EventSources() []string
	Parse(evt event.RawEvent, sourceName string) error
}
