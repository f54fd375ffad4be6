/*
 * Copyright 2024 CloudWeGo Authors
 *
 * Licensed under the Apache License, Version 2.0 (the "License");
 * you may not use this file except in compliance with the License.
 * You may obtain a copy of the License at
 *
 *     http://www.apache.org/licenses/LICENSE-2.0
 *
 * Unless required by applicable law or agreed to in writing, software
 * distributed under the License is distributed on an "AS IS" BASIS,
 * WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 * See the License for the specific language governing permissions and
 * limitations under the License.
 */


package commands

import (
	"fmt"
	"io"
	"os"

	"github.com/davecgh/go-spew/spew"
	"github.com/spf13/cobra"

	"github.com/cloudwego/cfgopt"
	"github.com/cloudwego/cfgopt/internal/loader"
	"github.com/cloudwego/cfgopt/ir"
)

func newSimplifyCmd(st *_State) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "simplify <fixture>",
		Short: "Simplify every function of a fixture and print the result",
		Long: `Loads every function of a YAML fixture, threads jumps through trampoline
blocks and prints the simplified graphs.

Output formats:
  text       block dump, one section per function
  dot        Graphviz digraphs
  yaml       fixture document of the live blocks
  msgpack    binary snapshot of the same document
  spew       debug dump of the same document`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			format, _ := cmd.Flags().GetString("format")
			output, _ := cmd.Flags().GetString("output")
			if cmd.Flags().Changed("dump-before") {
				st.opts.DumpBefore, _ = cmd.Flags().GetString("dump-before")
			}
			if cmd.Flags().Changed("dump-after") {
				st.opts.DumpAfter, _ = cmd.Flags().GetString("dump-after")
			}
			return st.simplify(cmd, args[0], format, output)
		},
	}
	cmd.Flags().StringP("format", "f", "text", "Output format (text, dot, yaml, msgpack, spew)")
	cmd.Flags().StringP("output", "o", "", "Output file, defaults to stdout")
	cmd.Flags().String("dump-before", "", `Dump the graph before the named pass, "*" for every pass`)
	cmd.Flags().String("dump-after", "", `Dump the graph after the named pass, "*" for every pass`)
	return cmd
}

// optimize loads the fixture and runs every pass over each function.
func (self *_State) optimize(path string) ([]*ir.Func, error) {
	fns, err := loader.LoadFile(path)
	if err != nil {
		return nil, err
	}

	/* the resolved options */
	options := []cfgopt.Option{
		cfgopt.WithVerify(self.opts.Verify),
		cfgopt.WithDumpBefore(self.opts.DumpBefore),
		cfgopt.WithDumpAfter(self.opts.DumpAfter),
		cfgopt.WithDumpWriter(self.opts.Out()),
		cfgopt.WithLogger(self.opts.Log()),
	}

	/* optimize every function */
	for _, fn := range fns {
		self.opts.Log().Debug("optimizing", "func", fn.Name, "blocks", len(fn.Blocks))
		if err = cfgopt.Optimize(fn, options...); err != nil {
			return nil, fmt.Errorf("optimize %s: %w", fn.Name, err)
		}
	}

	/* all done */
	return fns, nil
}

func (self *_State) simplify(cmd *cobra.Command, path string, format string, output string) error {
	var w io.Writer
	var fp *os.File

	/* select the output */
	if output == "" {
		w = cmd.OutOrStdout()
	} else if f, err := os.Create(output); err != nil {
		return fmt.Errorf("create output: %w", err)
	} else {
		w, fp = f, f
	}

	/* optimize and write the result */
	fns, err := self.optimize(path)
	if err == nil {
		err = write(w, format, fns)
	}

	/* close the output file */
	if fp != nil {
		if cerr := fp.Close(); err == nil {
			err = cerr
		}
	}

	/* all done */
	return err
}

func write(w io.Writer, format string, fns []*ir.Func) error {
	switch format {
	case "text":
		return writeText(w, fns)
	case "dot":
		return writeDot(w, fns)
	case "yaml":
		return loader.WriteYAML(w, loader.Export(fns...))
	case "msgpack":
		return loader.EncodeSnapshot(w, loader.Export(fns...))
	case "spew":
		spew.Fdump(w, loader.Export(fns...))
		return nil
	default:
		return fmt.Errorf("unknown format: %s (use text, dot, yaml, msgpack or spew)", format)
	}
}

func writeText(w io.Writer, fns []*ir.Func) error {
	for i, fn := range fns {
		if i != 0 {
			if _, err := fmt.Fprintln(w); err != nil {
				return err
			}
		}
		if _, err := fmt.Fprintf(w, "== %s\n", fn.Name); err != nil {
			return err
		} else if err = ir.Fprint(w, fn); err != nil {
			return err
		}
	}
	return nil
}

func writeDot(w io.Writer, fns []*ir.Func) error {
	for _, fn := range fns {
		if err := ir.WriteDot(w, fn); err != nil {
			return err
		}
	}
	return nil
}
