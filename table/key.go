// Copyright 2024 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package table

// Key is the constraint on table key types (spec.md §3.3: "one of the
// integer TypeIds or NUL-terminated string"). The host-facing ABI tags
// each table with one concrete key TypeID; on this side of the boundary
// the tag is simply the instantiated Go type.
type Key interface {
	~int8 | ~int16 | ~int32 | ~int64 |
		~uint8 | ~uint16 | ~uint32 | ~uint64 |
		~string
}
