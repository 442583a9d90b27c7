// Copyright 2024 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package table

import (
	"testing"

	"github.com/falcosecurity/go-plugin-sdk/event"
	"github.com/stretchr/testify/require"
)

// Thread is a bound entry shape for the static-field scenario (spec.md §8
// scenario 3): every field already exists on the host's table, none of
// them declared by this plugin.
type Thread struct {
	Comm event.CharBuf `falco:"comm,readonly"`
	Exe  event.CharBuf `falco:"exe"`
}

func TestImportedBindAndLoadStaticFields(t *testing.T) {
	host := newFakeTable[int64]("threads", []FieldDesc{
		{Name: "comm", Type: event.TypeCharBuf, ReadOnly: true},
		{Name: "exe", Type: event.TypeCharBuf},
	})
	e := host.data.CreateEntry()
	require.NoError(t, e.Set(host.data.staticFields[0], event.CharBuf("bash")))
	require.NoError(t, e.Set(host.data.staticFields[1], event.CharBuf("/bin/bash")))
	host.data.Add(100, e)

	imported, err := Bind[int64, Thread](host, host, host)
	require.NoError(t, err)

	got, err := imported.Load(100)
	require.NoError(t, err)
	require.Equal(t, Thread{Comm: "bash", Exe: "/bin/bash"}, got)
}

func TestImportedLoadMissingEntry(t *testing.T) {
	host := newFakeTable[int64]("threads", []FieldDesc{
		{Name: "comm", Type: event.TypeCharBuf, ReadOnly: true},
		{Name: "exe", Type: event.TypeCharBuf},
	})
	imported, err := Bind[int64, Thread](host, host, host)
	require.NoError(t, err)

	_, err = imported.Load(999)
	require.Error(t, err)
}

func TestImportedWriteRejectsReadonlyField(t *testing.T) {
	host := newFakeTable[int64]("threads", []FieldDesc{
		{Name: "comm", Type: event.TypeCharBuf, ReadOnly: true},
		{Name: "exe", Type: event.TypeCharBuf},
	})
	host.data.Add(100, host.data.CreateEntry())

	imported, err := Bind[int64, Thread](host, host, host)
	require.NoError(t, err)

	err = imported.Write(100, Thread{Comm: "sh", Exe: "/bin/sh"})
	require.Error(t, err)
}

// Counter is the entry shape for the dynamic-field scenario (spec.md §8
// scenario 4): "hits" is declared by this plugin via add_table_field.
type Counter struct {
	Hits event.Uint64 `falco:"hits,custom"`
}

func TestImportedBindDynamicFieldAddsIt(t *testing.T) {
	host := newFakeTable[int64]("threads", nil)
	host.data.Add(1, host.data.CreateEntry())

	imported, err := Bind[int64, Counter](host, host, host)
	require.NoError(t, err)

	require.NoError(t, imported.Write(1, Counter{Hits: 5}))
	got, err := imported.Load(1)
	require.NoError(t, err)
	require.Equal(t, event.Uint64(5), got.Hits)

	// A second plugin binding the same dynamic field reuses the descriptor
	// rather than erroring, per Exported.AddField's idempotent duplicate
	// registration.
	imported2, err := Bind[int64, Counter](host, host, host)
	require.NoError(t, err)
	got2, err := imported2.Load(1)
	require.NoError(t, err)
	require.Equal(t, event.Uint64(5), got2.Hits)
}

func TestImportedIterateEntriesStopsOnFalse(t *testing.T) {
	host := newFakeTable[int64]("threads", nil)
	host.data.Add(1, host.data.CreateEntry())
	host.data.Add(2, host.data.CreateEntry())
	host.data.Add(3, host.data.CreateEntry())

	imported, err := Bind[int64, Counter](host, host, host)
	require.NoError(t, err)

	n := 0
	err = imported.IterateEntries(func(EntryHandle) bool {
		n++
		return n < 2
	})
	require.NoError(t, err)
	require.Equal(t, 2, n)
}

// Countdown is the child table entry shape used by the nested-table
// scenario (spec.md §8 scenario 5).
type Countdown struct {
	Remaining event.Int64 `falco:"remaining,custom"`
}

// Session is the parent entry shape; its "countdown" field is a nested
// table, resolved through Nested rather than as a bound struct field.
type Session struct {
	ID event.Int64 `falco:"id,readonly"`
}

func TestImportedNestedTable(t *testing.T) {
	parentHost := newFakeTable[int64]("sessions", []FieldDesc{
		{Name: "id", Type: event.TypeInt64, ReadOnly: true},
	})
	parentEntry := parentHost.data.CreateEntry()
	require.NoError(t, parentEntry.Set(parentHost.data.staticFields[0], event.Int64(7)))
	parentHost.data.Add(7, parentEntry)

	childHost := newFakeTable[int64]("countdown", nil)
	childHost.data.Add(0, childHost.data.CreateEntry())
	countdownField, err := parentHost.AddField("countdown", 0, false)
	require.NoError(t, err)
	parentHost.setNested(parentEntry, "countdown", childHost)

	parent, err := Bind[int64, Session](parentHost, parentHost, parentHost)
	require.NoError(t, err)

	child, err := Nested[int64, Countdown](parent, 7, countdownField.Name)
	require.NoError(t, err)

	require.NoError(t, child.Write(0, Countdown{Remaining: 3}))
	got, err := child.Load(0)
	require.NoError(t, err)
	require.Equal(t, event.Int64(3), got.Remaining)
}
