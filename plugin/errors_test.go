// Copyright 2024 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package plugin

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestWithReasonDefaultsToFailure(t *testing.T) {
	require.Equal(t, FailureReasonFailure, ReasonOf(errors.New("boom")))
	require.Equal(t, StatusFailure, ReasonOf(errors.New("boom")).Status())
}

func TestWithReasonRoundTrip(t *testing.T) {
	cause := errors.New("no data yet")
	wrapped := WithReason(cause, FailureReasonTimeout)

	require.Equal(t, FailureReasonTimeout, ReasonOf(wrapped))
	require.Equal(t, StatusTimeout, ReasonOf(wrapped).Status())
	require.ErrorIs(t, wrapped, cause)
}

func TestWithReasonNilIsNil(t *testing.T) {
	require.NoError(t, WithReason(nil, FailureReasonTimeout))
}

func TestErrorUnwrap(t *testing.T) {
	cause := errors.New("invalid json")
	err := BadConfig("config does not match schema", cause)

	var perr *Error
	require.True(t, errors.As(err, &perr))
	require.Equal(t, ErrBadConfig, perr.Kind)
	require.ErrorIs(t, err, cause)
}
