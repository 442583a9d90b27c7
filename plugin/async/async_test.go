// Copyright 2024 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package async

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

// TestBackgroundTaskEmitsUntilStopped exercises the async lifecycle
// scenario (spec.md §8 scenario 6) at a compressed interval: start on a
// non-nil handler, emit several events, stop, and verify no further emits
// occur.
func TestBackgroundTaskEmitsUntilStopped(t *testing.T) {
	var task BackgroundTask
	var emitted atomic.Int64

	produce := func(context.Context) ([]byte, error) {
		return []byte("tick"), nil
	}
	task.SetHandler(10*time.Millisecond, produce, func([]byte) {
		emitted.Add(1)
	})

	require.Eventually(t, func() bool { return emitted.Load() >= 3 }, 500*time.Millisecond, 5*time.Millisecond)

	task.Stop()
	afterStop := emitted.Load()
	time.Sleep(50 * time.Millisecond)
	require.Equal(t, afterStop, emitted.Load(), "no emits should occur after Stop returns")
}

func TestBackgroundTaskSetHandlerReplacesRunning(t *testing.T) {
	var task BackgroundTask
	var firstCount, secondCount atomic.Int64

	produce := func(context.Context) ([]byte, error) { return []byte("x"), nil }
	task.SetHandler(5*time.Millisecond, produce, func([]byte) { firstCount.Add(1) })
	require.Eventually(t, func() bool { return firstCount.Load() >= 1 }, 200*time.Millisecond, 2*time.Millisecond)

	task.SetHandler(5*time.Millisecond, produce, func([]byte) { secondCount.Add(1) })
	require.Eventually(t, func() bool { return secondCount.Load() >= 1 }, 200*time.Millisecond, 2*time.Millisecond)

	stopped := firstCount.Load()
	time.Sleep(30 * time.Millisecond)
	require.Equal(t, stopped, firstCount.Load(), "old handler must not fire after being replaced")

	task.Stop()
}

func TestBackgroundTaskStopIdempotent(t *testing.T) {
	var task BackgroundTask
	task.Stop()
	task.Stop()
}
