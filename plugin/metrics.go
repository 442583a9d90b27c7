// Copyright 2024 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package plugin

import (
	"sync"

	dto "github.com/prometheus/client_model/go"

	"github.com/prometheus/client_golang/prometheus"
)

// Metric is one named value a plugin exposes through get_metrics (spec.md
// §4.6). Monotonic metrics are backed by a prometheus Counter (Add-only);
// non-monotonic ones by a Gauge (Add or Set).
type Metric struct {
	Name      string
	Monotonic bool

	counter prometheus.Counter
	gauge   prometheus.Gauge
}

// Add increases the metric's value by delta. For a monotonic metric delta
// must be non-negative; prometheus.Counter itself panics on a negative Add,
// which is the correct behavior here too — a monotonic metric going
// backward is a plugin bug, not a condition to silently tolerate.
func (m *Metric) Add(delta float64) {
	if m.Monotonic {
		m.counter.Add(delta)
		return
	}
	m.gauge.Add(delta)
}

// Set overwrites the metric's value. Only valid for non-monotonic metrics.
func (m *Metric) Set(value float64) {
	if m.Monotonic {
		return
	}
	m.gauge.Set(value)
}

// Value snapshots the metric's current reading, for the
// (name, monotonic, value_type, value_union) ABI record get_metrics fills
// in — prometheus has no public "read current value" accessor, so this
// goes through the same Write(*dto.Metric) path prometheus's own HTTP
// exposition format uses internally.
func (m *Metric) Value() float64 {
	var pb dto.Metric
	if m.Monotonic {
		m.counter.Write(&pb)
		return pb.GetCounter().GetValue()
	}
	m.gauge.Write(&pb)
	return pb.GetGauge().GetValue()
}

// MetricRegistry backs plugin.Instance.Metrics. Each plugin instance gets
// its own registry rather than sharing the global prometheus default one,
// since multiple instances of the same plugin (and multiple plugins in one
// process, as in the runner) must not collide on metric names.
type MetricRegistry struct {
	mu      sync.Mutex
	reg     *prometheus.Registry
	metrics []*Metric
}

func NewMetricRegistry() *MetricRegistry {
	return &MetricRegistry{reg: prometheus.NewRegistry()}
}

// Counter registers and returns a new monotonic metric.
func (r *MetricRegistry) Counter(name string) *Metric {
	r.mu.Lock()
	defer r.mu.Unlock()
	c := prometheus.NewCounter(prometheus.CounterOpts{Name: name})
	r.reg.MustRegister(c)
	m := &Metric{Name: name, Monotonic: true, counter: c}
	r.metrics = append(r.metrics, m)
	return m
}

// Gauge registers and returns a new non-monotonic metric.
func (r *MetricRegistry) Gauge(name string) *Metric {
	r.mu.Lock()
	defer r.mu.Unlock()
	g := prometheus.NewGauge(prometheus.GaugeOpts{Name: name})
	r.reg.MustRegister(g)
	m := &Metric{Name: name, Monotonic: false, gauge: g}
	r.metrics = append(r.metrics, m)
	return m
}

// MetricSample is a point-in-time reading, the shape get_metrics marshals
// into the ABI's per-metric record.
type MetricSample struct {
	Name      string
	Monotonic bool
	Value     float64
}

// Snapshot reads every registered metric's current value, in registration
// order, for get_metrics.
func (r *MetricRegistry) Snapshot() []MetricSample {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]MetricSample, len(r.metrics))
	for i, m := range r.metrics {
		out[i] = MetricSample{Name: m.Name, Monotonic: m.Monotonic, Value: m.Value()}
	}
	return out
}
