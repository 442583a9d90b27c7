// Copyright 2024 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Command plugin-dump prints the contents of a framed event stream,
// one event per line, in the style of perfdump but over this module's own
// wire format (spec.md §4.1) instead of perf.data records.
package main

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/falcosecurity/go-plugin-sdk/event"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var (
		input   string
		verbose bool
	)
	cmd := &cobra.Command{
		Use:   "plugin-dump",
		Short: "Dump a framed event stream",
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd.OutOrStdout(), input, verbose)
		},
	}
	cmd.Flags().StringVarP(&input, "input", "i", "-", "input `file` (- for stdin)")
	cmd.Flags().BoolVarP(&verbose, "verbose", "v", false, "dump every parameter's raw bytes")
	return cmd
}

func run(w io.Writer, input string, verbose bool) error {
	buf, err := readAll(input)
	if err != nil {
		return err
	}

	n := 0
	for len(buf) > 0 {
		ev, rest, err := event.Scan(buf)
		if err != nil {
			return fmt.Errorf("event %d: %w", n, err)
		}
		dumpEvent(w, n, ev, verbose)
		buf = rest
		n++
	}
	return nil
}

func dumpEvent(w io.Writer, n int, ev event.RawEvent, verbose bool) {
	h := ev.Header
	fmt.Fprintf(w, "%d: ts=%d tid=%d type=%d total_len=%d nparams=%d\n",
		n, h.Timestamp, h.ThreadID, h.Type, h.TotalLen, h.NParams)
	if !verbose {
		return
	}
	for i, p := range ev.AllParams() {
		switch {
		case p.Err != nil:
			fmt.Fprintf(w, "    [%d] error: %v\n", i, p.Err)
		case p.Bytes == nil:
			fmt.Fprintf(w, "    [%d] <absent>\n", i)
		default:
			fmt.Fprintf(w, "    [%d] % x\n", i, p.Bytes)
		}
	}
}

func readAll(input string) ([]byte, error) {
	if input == "-" {
		return io.ReadAll(os.Stdin)
	}
	f, err := os.Open(input)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return io.ReadAll(f)
}
