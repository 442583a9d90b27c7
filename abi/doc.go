// Copyright 2024 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package abi mirrors the plugin ABI's C types (spec.md §6) and converts
// between them and this module's Go-native event and table representations.
// It owns the data-plane conversions only — event bytes, state-data values,
// status codes — shared by both the table vtable bridge (table/abi) and any
// future full plugin_api host binding. It does not itself construct a live
// plugin_api; that is table/abi's job for the table vtables specifically.
package abi
