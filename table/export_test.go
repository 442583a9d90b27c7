// Copyright 2024 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package table

import (
	"errors"
	"testing"

	"github.com/falcosecurity/go-plugin-sdk/event"
	"github.com/stretchr/testify/require"
)

func TestExportedStaticFieldRoundTrip(t *testing.T) {
	comm := FieldDesc{Name: "comm", Type: event.TypeCharBuf}
	tbl := NewExported[int64]("threads", []FieldDesc{comm})

	e := tbl.CreateEntry()
	require.NoError(t, e.Set(tbl.staticFields[0], event.CharBuf("bash")))
	tbl.Add(1234, e)

	got, ok := tbl.Lookup(1234)
	require.True(t, ok)
	v, err := got.Get(tbl.staticFields[0])
	require.NoError(t, err)
	require.Equal(t, event.CharBuf("bash"), v)
}

func TestExportedReadonlyFieldRejectsWrite(t *testing.T) {
	ro := FieldDesc{Name: "pid", Type: event.TypeInt64, ReadOnly: true}
	tbl := NewExported[int64]("threads", []FieldDesc{ro})
	e := tbl.CreateEntry()

	err := e.Set(tbl.staticFields[0], event.Int64(42))
	var terr *Error
	require.True(t, errors.As(err, &terr))
	require.Equal(t, ErrReadOnlyField, terr.Kind)
}

func TestExportedTypeMismatchRejected(t *testing.T) {
	comm := FieldDesc{Name: "comm", Type: event.TypeCharBuf}
	tbl := NewExported[int64]("threads", []FieldDesc{comm})
	e := tbl.CreateEntry()

	err := e.Set(tbl.staticFields[0], event.Int64(42))
	var terr *Error
	require.True(t, errors.As(err, &terr))
	require.Equal(t, ErrTypeMismatch, terr.Kind)
}

func TestExportedAddFieldIdempotent(t *testing.T) {
	tbl := NewExported[int64]("threads", nil)

	d1, err := tbl.AddField("custom", event.TypeUint32, false)
	require.NoError(t, err)
	d2, err := tbl.AddField("custom", event.TypeUint32, false)
	require.NoError(t, err)
	require.Equal(t, d1, d2)

	_, err = tbl.AddField("custom", event.TypeInt64, false)
	var terr *Error
	require.True(t, errors.As(err, &terr))
	require.Equal(t, ErrDuplicateFieldDifferentType, terr.Kind)
}

func TestExportedDynamicFieldPerEntry(t *testing.T) {
	tbl := NewExported[int64]("threads", nil)
	counter, err := tbl.AddField("syscall_count", event.TypeUint64, false)
	require.NoError(t, err)

	e1 := tbl.CreateEntry()
	require.NoError(t, e1.Set(counter, event.Uint64(7)))
	tbl.Add(1, e1)

	e2 := tbl.CreateEntry()
	tbl.Add(2, e2)

	v1, err := e1.Get(counter)
	require.NoError(t, err)
	require.Equal(t, event.Uint64(7), v1)

	v2, err := e2.Get(counter)
	require.NoError(t, err)
	require.Nil(t, v2)
}

func TestExportedEraseAndClear(t *testing.T) {
	tbl := NewExported[int64]("threads", nil)
	tbl.Add(1, tbl.CreateEntry())
	tbl.Add(2, tbl.CreateEntry())
	require.Equal(t, 2, tbl.Len())

	tbl.Erase(1)
	require.Equal(t, 1, tbl.Len())
	_, ok := tbl.Lookup(1)
	require.False(t, ok)

	tbl.Clear()
	require.Equal(t, 0, tbl.Len())
}

func TestExportedIterateEntriesStopsOnFalse(t *testing.T) {
	tbl := NewExported[int64]("threads", nil)
	tbl.Add(1, tbl.CreateEntry())
	tbl.Add(2, tbl.CreateEntry())
	tbl.Add(3, tbl.CreateEntry())

	var seen []int64
	tbl.IterateEntries(func(k int64, _ *Entry) bool {
		seen = append(seen, k)
		return len(seen) < 2
	})
	require.Len(t, seen, 2)
}
