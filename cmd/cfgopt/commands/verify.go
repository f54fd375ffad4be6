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

	"github.com/spf13/cobra"

	"github.com/cloudwego/cfgopt"
	"github.com/cloudwego/cfgopt/internal/loader"
)

func newVerifyCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "verify <fixture>",
		Short: "Check the parent lists of every function of a fixture",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			fns, err := loader.LoadFile(args[0])
			if err != nil {
				return err
			}

			/* verify every function */
			for _, fn := range fns {
				if err = cfgopt.Verify(fn); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "%s: ok\n", fn.Name)
			}
			return nil
		},
	}
}
