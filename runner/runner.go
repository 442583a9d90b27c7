// Copyright 2024 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package runner is an in-process stand-in for the host: it drives a set of
// plugins through open/next_event/extract_field/close the way a real
// capture engine would, without going through the cgo ABI at all. It exists
// for cmd/plugin-runner and the examples/ scenarios, which exercise a
// plugin's capabilities directly as Go values rather than across a loaded
// shared object — the Go analog of falco_plugin_runner's in-process
// PluginRunner/CapturingPluginRunner, adapted to call straight into the SDK
// interfaces (source.Source, extract.Extractor, ...) a plugin implements,
// since there is no second process or .so boundary to cross here.
package runner

import (
	"fmt"

	"github.com/falcosecurity/go-plugin-sdk/event"
	"github.com/falcosecurity/go-plugin-sdk/plugin"
	"github.com/falcosecurity/go-plugin-sdk/plugin/extract"
	"github.com/falcosecurity/go-plugin-sdk/plugin/listen"
	"github.com/falcosecurity/go-plugin-sdk/plugin/parse"
	"github.com/falcosecurity/go-plugin-sdk/plugin/source"
)

// Plugin bundles one plugin instance's capabilities. Any of Source,
// Extractor, Parser, Subscriber may be nil; a plugin need not implement
// every capability (spec.md §2).
type Plugin struct {
	Instance   *plugin.Instance
	Source     source.Source
	Extractor  extract.Extractor
	Parser     parse.Parser
	Subscriber listen.Subscriber
}

// Runner holds every plugin registered for the process's lifetime, mirroring
// falco_plugin_runner's PluginRunner. There is no separate "capture started"
// type the way the original has CapturingPluginRunner — Open returns a
// Capture directly, and nothing here prevents opening more than one
// concurrently, since nothing in spec.md requires it be exclusive.
type Runner struct {
	plugins []*Plugin
}

// New returns an empty Runner.
func New() *Runner { return &Runner{} }

// Register adds p to the set of plugins this Runner drives.
func (r *Runner) Register(p *Plugin) { r.plugins = append(r.plugins, p) }

// Open starts a capture against the registered plugin whose Source exports
// sourceName, notifying every registered listen.Subscriber of capture start
// (spec.md §4.11 "capture_open"/"capture_close" bracket a single capture's
// lifetime, the same as source.Capture.Open/Close do for source plugins).
func (r *Runner) Open(sourceName, params string) (*Capture, error) {
	var src *Plugin
	for _, p := range r.plugins {
		if p.Source != nil && p.Source.EventSourceName() == sourceName {
			src = p
			break
		}
	}
	if src == nil {
		return nil, fmt.Errorf("runner: no registered plugin exports source %q", sourceName)
	}

	cap, err := src.Source.Open(params)
	if err != nil {
		return nil, err
	}

	c := &Capture{r: r, src: src, cap: cap}
	for _, p := range r.plugins {
		if p.Subscriber == nil {
			continue
		}
		routines, err := p.Subscriber.CaptureOpen()
		if err != nil {
			c.Close()
			return nil, err
		}
		c.subs = append(c.subs, subscription{sub: p.Subscriber, routines: routines})
	}
	return c, nil
}

type subscription struct {
	sub      listen.Subscriber
	routines []*listen.Routine
}

// Capture is one open capture, mirroring CapturingPluginRunner: pulling
// events, routing them to every interested parse.Parser, and answering
// extract.Extractor queries against them.
type Capture struct {
	r       *Runner
	src     *Plugin
	cap     source.Capture
	subs    []subscription
	pending [][]byte
	evtNum  uint64
}

// NextEvent pulls the next framed event from the open source, transparently
// retrying past FailureReasonTimeout batches (spec.md §4.7 "Timeout... try
// again"; the core's job, not Capture's callers'), then routes it through
// every registered parse.Parser whose filters select it. The returned bytes
// alias the source's batch buffer and are only valid until the next call to
// NextEvent, per source.Capture.NextBatch's own lifetime rule.
func (c *Capture) NextEvent() (event.RawEvent, []byte, error) {
	for len(c.pending) == 0 {
		batch, err := c.cap.NextBatch()
		if err != nil {
			if plugin.ReasonOf(err) == plugin.FailureReasonTimeout {
				continue
			}
			return event.RawEvent{}, nil, err
		}
		c.pending = batch
	}
	raw := c.pending[0]
	c.pending = c.pending[1:]
	c.evtNum++

	ev, _, err := event.Scan(raw)
	if err != nil {
		return event.RawEvent{}, raw, err
	}

	sourceName := c.src.Source.EventSourceName()
	for _, p := range c.r.plugins {
		if p.Parser == nil {
			continue
		}
		if !matchesTypes(p.Parser.EventTypes(), ev.Header.Type) || !matchesSources(p.Parser.EventSources(), sourceName) {
			continue
		}
		if err := p.Parser.Parse(ev, sourceName); err != nil {
			return ev, raw, err
		}
	}
	return ev, raw, nil
}

// ExtractField resolves fieldName against every registered extract.Extractor
// and, on the first that declares it and whose filters select ev, returns
// its extracted value(s). A nil result with no error means "no data" for
// this field on this event (spec.md §7), not "field not found" — that is
// reported as an error instead, matching extract.Extractor.Extract's own
// nil-Result convention for the single request this builds.
func (c *Capture) ExtractField(ev event.RawEvent, fieldName string, arg extract.Arg) ([]event.FieldValue, error) {
	sourceName := c.src.Source.EventSourceName()
	for _, p := range c.r.plugins {
		if p.Extractor == nil {
			continue
		}
		for _, fd := range p.Extractor.Fields() {
			if fd.Name != fieldName {
				continue
			}
			if !matchesTypes(p.Extractor.EventTypes(), ev.Header.Type) || !matchesSources(p.Extractor.EventSources(), sourceName) {
				continue
			}
			reqs := []extract.Request{{Field: fd, Arg: arg}}
			if err := p.Extractor.Extract(ev, sourceName, reqs); err != nil {
				return nil, err
			}
			return reqs[0].Result, nil
		}
	}
	return nil, fmt.Errorf("runner: no registered plugin exports field %q", fieldName)
}

// RunRoutines invokes every subscribed listen.Routine once, standing in for
// a single tick of the host's cooperative thread pool (spec.md §4.11). A
// routine that returns false is treated as finished and not invoked again.
func (c *Capture) RunRoutines() {
	for i := range c.subs {
		s := &c.subs[i]
		live := s.routines[:0]
		for _, r := range s.routines {
			if r.Run() {
				live = append(live, r)
			}
		}
		s.routines = live
	}
}

// Close stops the capture, notifying every subscriber's CaptureClose before
// the underlying source.Capture itself (spec.md §4.11 "capture_close... is
// called before the source's own capture is closed").
func (c *Capture) Close() {
	for _, s := range c.subs {
		s.sub.CaptureClose(s.routines)
	}
	c.cap.Close()
}

func matchesTypes(types []uint16, t event.EventType) bool {
	if len(types) == 0 {
		return true
	}
	for _, want := range types {
		if event.EventType(want) == t {
			return true
		}
	}
	return false
}

func matchesSources(sources []string, name string) bool {
	if len(sources) == 0 {
		return true
	}
	for _, s := range sources {
		if s == name {
			return true
		}
	}
	return false
}
