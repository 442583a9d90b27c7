// Copyright 2024 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package table

import "github.com/falcosecurity/go-plugin-sdk/event"

// FieldDesc describes one field of a table entry, static or dynamic
// (spec.md §3.3). Index is the field's position among static fields, or its
// registration slot among dynamic fields; the two index spaces are
// disjoint, selected by Dynamic.
//
// Descriptors are plain values: tables hand out copies, and an Entry refers
// to its fields only by Index, never to a descriptor (spec.md §3.4), so
// there is no refcount field to manage.
type FieldDesc struct {
	Name     string
	Type     event.TypeID
	ReadOnly bool
	Dynamic  bool
	Index    int
}
