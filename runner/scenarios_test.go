// Copyright 2024 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package runner_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/falcosecurity/go-plugin-sdk/examples/asyncticker"
	"github.com/falcosecurity/go-plugin-sdk/examples/dummyextract"
	"github.com/falcosecurity/go-plugin-sdk/examples/dummysource"
	"github.com/falcosecurity/go-plugin-sdk/examples/tablecountdown"
	"github.com/falcosecurity/go-plugin-sdk/event"
	"github.com/falcosecurity/go-plugin-sdk/plugin"
	"github.com/falcosecurity/go-plugin-sdk/plugin/async"
	"github.com/falcosecurity/go-plugin-sdk/plugin/extract"
	"github.com/falcosecurity/go-plugin-sdk/runner"
)

// TestSourcePluginEmitsUntilEOF is spec.md §8 scenario 1: a source plugin
// produces exactly MaxEvents batches, then reports FailureReasonEOF.
func TestSourcePluginEmitsUntilEOF(t *testing.T) {
	r := runner.New()
	src := &dummysource.Plugin{MaxEvents: 3}
	r.Register(&runner.Plugin{Source: src})

	cap, err := r.Open("dummy", "")
	require.NoError(t, err)
	defer cap.Close()

	var got []uint64
	for {
		ev, _, err := cap.NextEvent()
		if err != nil {
			require.Equal(t, plugin.FailureReasonEOF, plugin.ReasonOf(err))
			break
		}
		rec, err := event.Load(ev, dummysource.Schema)
		require.NoError(t, err)
		count, ok := rec.Get("count")
		require.True(t, ok)
		got = append(got, uint64(count.(event.Uint64)))
	}
	require.Equal(t, []uint64{0, 1, 2}, got)
}

// TestExtractFieldReadsSourceEvent is spec.md §8 scenario 2: an extract
// plugin answers a field request against the paired source's own events.
func TestExtractFieldReadsSourceEvent(t *testing.T) {
	r := runner.New()
	r.Register(&runner.Plugin{Source: &dummysource.Plugin{MaxEvents: 1}})
	r.Register(&runner.Plugin{Extractor: &dummyextract.Plugin{}})

	cap, err := r.Open("dummy", "")
	require.NoError(t, err)
	defer cap.Close()

	ev, _, err := cap.NextEvent()
	require.NoError(t, err)

	vals, err := cap.ExtractField(ev, "dummy.count", extract.Arg{})
	require.NoError(t, err)
	require.Equal(t, []event.FieldValue{event.Uint64(0)}, vals)

	_, err = cap.ExtractField(ev, "no.such.field", extract.Arg{})
	require.Error(t, err)
}

// TestParsePluginMaintainsTable is spec.md §8 scenario 3: a parse plugin's
// exported table reflects every event routed to it, counting down from the
// initial value set on first sight of a thread.
func TestParsePluginMaintainsTable(t *testing.T) {
	r := runner.New()
	r.Register(&runner.Plugin{Source: &dummysource.Plugin{MaxEvents: 3}})
	parser := tablecountdown.New(10)
	r.Register(&runner.Plugin{Parser: parser})

	cap, err := r.Open("dummy", "")
	require.NoError(t, err)
	defer cap.Close()

	for i := 0; i < 3; i++ {
		_, _, err := cap.NextEvent()
		require.NoError(t, err)
	}

	e, ok := parser.Table.Lookup(-1)
	require.True(t, ok)
	v, err := e.Get(tablecountdown.RemainingField)
	require.NoError(t, err)
	require.Equal(t, event.Int64(8), v) // 10, set on event 1; decremented on events 2 and 3
}

// TestAsyncTickerEmitsUntilStopped is spec.md §8 scenario 6: an async
// plugin's background task emits events on its own schedule and stops
// cleanly, independent of any open capture.
func TestAsyncTickerEmitsUntilStopped(t *testing.T) {
	p := &asyncticker.Plugin{Interval: 5 * time.Millisecond}
	var events [][]byte
	done := make(chan struct{})
	p.Start(func(b []byte) {
		events = append(events, b)
		if len(events) == 1 {
			close(done)
		}
	})

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("no tick received")
	}
	p.Stop()

	require.NotEmpty(t, events)
	ev, _, err := event.Scan(events[0])
	require.NoError(t, err)
	require.Equal(t, asyncticker.EventType, ev.Header.Type)
}
