// Copyright 2024 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package plugin

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/require"
)

type dummyConfig struct {
	MaxEvents int    `json:"maxEvents" jsonschema:"minimum=1"`
	Label     string `json:"label"`
}

func TestJSONConfigParsesValidInput(t *testing.T) {
	cfg, err := NewJSONConfig[dummyConfig]()
	require.NoError(t, err)

	require.NoError(t, cfg.Parse(`{"maxEvents": 10, "label": "prod"}`))
	require.Equal(t, dummyConfig{MaxEvents: 10, Label: "prod"}, cfg.Value)
}

func TestJSONConfigRejectsSchemaViolation(t *testing.T) {
	cfg, err := NewJSONConfig[dummyConfig]()
	require.NoError(t, err)

	err = cfg.Parse(`{"maxEvents": 0, "label": "prod"}`)
	var perr *Error
	require.True(t, errors.As(err, &perr))
	require.Equal(t, ErrBadConfig, perr.Kind)
}

func TestJSONConfigRejectsMalformedJSON(t *testing.T) {
	cfg, err := NewJSONConfig[dummyConfig]()
	require.NoError(t, err)

	err = cfg.Parse(`{not json`)
	require.Error(t, err)
}

func TestJSONConfigSchemaJSONNonEmpty(t *testing.T) {
	cfg, err := NewJSONConfig[dummyConfig]()
	require.NoError(t, err)

	doc, err := cfg.SchemaJSON()
	require.NoError(t, err)
	require.Contains(t, doc, "maxEvents")
}
