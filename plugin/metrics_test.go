// Copyright 2024 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package plugin

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestMetricRegistryCounter(t *testing.T) {
	reg := NewMetricRegistry()
	c := reg.Counter("next_batch_call_count")
	c.Add(1)
	c.Add(1)

	snap := reg.Snapshot()
	require.Len(t, snap, 1)
	require.Equal(t, MetricSample{Name: "next_batch_call_count", Monotonic: true, Value: 2}, snap[0])
}

func TestMetricRegistryGaugeSetAndAdd(t *testing.T) {
	reg := NewMetricRegistry()
	g := reg.Gauge("progress_percent")
	g.Set(50)
	g.Add(-10)

	require.Equal(t, float64(40), g.Value())
}

func TestMetricSetIgnoredOnMonotonic(t *testing.T) {
	reg := NewMetricRegistry()
	c := reg.Counter("events_total")
	c.Add(5)
	c.Set(100) // no-op on a monotonic metric

	require.Equal(t, float64(5), c.Value())
}
