// Copyright 2024 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package extract

import (
	"testing"

	"github.com/falcosecurity/go-plugin-sdk/event"
	"github.com/stretchr/testify/require"
)

func TestArenaResetInvalidatesPreviousResults(t *testing.T) {
	var arena Arena

	first := []Request{{Field: FieldDesc{Name: "dummy.remaining"}, Result: []event.FieldValue{event.Int64(3)}}}
	arena.Hold(first)
	require.Equal(t, first, arena.held)

	arena.Reset()
	require.Nil(t, arena.held)

	second := []Request{{Field: FieldDesc{Name: "dummy.remaining"}, Result: []event.FieldValue{event.Int64(2)}}}
	arena.Hold(second)
	require.Equal(t, second, arena.held)
	require.NotEqual(t, first, arena.held)
}

func TestRequestNoDataIsNilResultNotError(t *testing.T) {
	req := Request{Field: FieldDesc{Name: "dummy.missing"}}
	require.Nil(t, req.Result)
}
