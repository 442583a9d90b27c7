// Copyright 2024 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package plugin

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestInstanceFailRecordsLastError(t *testing.T) {
	inst := NewInstance(Descriptor{Name: "dummy"}, zap.NewNop())
	require.Nil(t, inst.LastError())

	cause := errors.New("open failed")
	code := inst.Fail(WithReason(cause, FailureReasonTimeout))

	require.Equal(t, StatusTimeout, code)
	require.ErrorIs(t, inst.LastError(), cause)
}

func TestInstanceFailNilIsSuccess(t *testing.T) {
	inst := NewInstance(Descriptor{Name: "dummy"}, zap.NewNop())
	require.Equal(t, StatusSuccess, inst.Fail(nil))
	require.Nil(t, inst.LastError())
}

func TestNewInstanceAssignsDistinctIDs(t *testing.T) {
	a := NewInstance(Descriptor{Name: "dummy"}, zap.NewNop())
	b := NewInstance(Descriptor{Name: "dummy"}, zap.NewNop())
	require.NotEqual(t, a.ID, b.ID)
}
