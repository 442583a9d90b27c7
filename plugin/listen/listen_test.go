// Copyright 2024 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package listen

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestRoutineRunsUntilFalse(t *testing.T) {
	calls := 0
	r := NewRoutine(func() bool {
		calls++
		return calls < 3
	}, nil)

	for r.Run() {
	}
	require.Equal(t, 3, calls)
}

func TestRoutineCloseDropsState(t *testing.T) {
	r := NewRoutine(func() bool { return false }, "state")
	require.Equal(t, "state", r.State())

	r.Close()
	require.Nil(t, r.State())
}
