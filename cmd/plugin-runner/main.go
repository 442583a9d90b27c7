// Copyright 2024 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Command plugin-runner drives the examples/ plugins through the runner
// package's in-process host stand-in, printing each captured event and its
// extracted fields — a CLI-shaped analog of falco_plugin_runner's own
// binary, adapted from cargo-run arguments to cobra flags.
package main

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/falcosecurity/go-plugin-sdk/examples/dummyextract"
	"github.com/falcosecurity/go-plugin-sdk/examples/dummysource"
	"github.com/falcosecurity/go-plugin-sdk/examples/tablecountdown"
	"github.com/falcosecurity/go-plugin-sdk/plugin"
	"github.com/falcosecurity/go-plugin-sdk/plugin/extract"
	"github.com/falcosecurity/go-plugin-sdk/runner"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var maxEvents uint64
	cmd := &cobra.Command{
		Use:   "plugin-runner",
		Short: "Run the example plugins through the in-process runner",
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd.OutOrStdout(), maxEvents)
		},
	}
	cmd.Flags().Uint64Var(&maxEvents, "max-events", 10, "number of dummysource events to capture")
	return cmd
}

func run(w io.Writer, maxEvents uint64) error {
	log, err := zap.NewDevelopment()
	if err != nil {
		return err
	}
	defer log.Sync()

	srcInst := plugin.NewInstance(plugin.Descriptor{Name: "dummysource", Version: "0.0.0"}, log)
	extInst := plugin.NewInstance(plugin.Descriptor{Name: "dummyextract", Version: "0.0.0"}, log)
	parseInst := plugin.NewInstance(plugin.Descriptor{Name: "tablecountdown", Version: "0.0.0"}, log)

	src := &dummysource.Plugin{MaxEvents: maxEvents}
	ext := &dummyextract.Plugin{}
	parser := tablecountdown.New(5)

	r := runner.New()
	r.Register(&runner.Plugin{Instance: srcInst, Source: src})
	r.Register(&runner.Plugin{Instance: extInst, Extractor: ext})
	r.Register(&runner.Plugin{Instance: parseInst, Parser: parser})

	cap, err := r.Open("dummy", "")
	if err != nil {
		return err
	}
	defer cap.Close()

	for {
		ev, _, err := cap.NextEvent()
		if err != nil {
			if plugin.ReasonOf(err) == plugin.FailureReasonEOF {
				break
			}
			return err
		}
		vals, err := cap.ExtractField(ev, "dummy.count", extract.Arg{})
		if err != nil {
			return err
		}
		_, haveEntry := parser.Table.Lookup(ev.Header.ThreadID)
		fmt.Fprintf(w, "ts=%d dummy.count=%v has-countdown-entry=%v\n", ev.Header.Timestamp, vals, haveEntry)
	}
	return nil
}
