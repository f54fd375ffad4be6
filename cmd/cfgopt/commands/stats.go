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
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/cloudwego/cfgopt/debug"
)

func newStatsCmd(st *_State) *cobra.Command {
	return &cobra.Command{
		Use:   "stats <fixture>",
		Short: "Simplify a fixture and print statistics",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			old := debug.GetStats()
			if _, err := st.optimize(args[0]); err != nil {
				return err
			}

			/* print the difference */
			cur := debug.GetStats()
			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 1, ' ', 0)
			fmt.Fprintf(tw, "functions:\t%d\n", cur.Loader.Funcs-old.Loader.Funcs)
			fmt.Fprintf(tw, "blocks:\t%d\n", cur.Loader.Blocks-old.Loader.Blocks)
			fmt.Fprintf(tw, "eliminated:\t%d\n", cur.Simplifier.Eliminated-old.Simplifier.Eliminated)
			fmt.Fprintf(tw, "short-circuits:\t%d\n", cur.Simplifier.ShortCircuit-old.Simplifier.ShortCircuit)
			fmt.Fprintf(tw, "phi merges:\t%d\n", cur.Simplifier.PhiMerge-old.Simplifier.PhiMerge)
			fmt.Fprintf(tw, "phi rejects:\t%d\n", cur.Simplifier.PhiReject-old.Simplifier.PhiReject)
			fmt.Fprintf(tw, "self loops:\t%d\n", cur.Simplifier.SelfLoop-old.Simplifier.SelfLoop)
			return tw.Flush()
		},
	}
}
