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
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/cloudwego/cfgopt/internal/opts"
)

type _State struct {
	opts opts.Options
}

// NewRootCmd creates the cfgopt command with every subcommand attached.
func NewRootCmd() *cobra.Command {
	st := new(_State)
	cmd := &cobra.Command{
		Use:   "cfgopt",
		Short: "cfgopt - control flow graph simplifier",
		Long: `cfgopt loads control flow graphs from YAML fixtures and threads jumps
through blocks that do nothing but jump somewhere else.

Commands:
  simplify    Simplify every function of a fixture and print the result
  verify      Check the parent lists of every function of a fixture
  stats       Simplify a fixture and print statistics

Use "cfgopt [command] --help" for more information about a command.`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return st.configure(cmd)
		},
	}

	/* global flags */
	cmd.PersistentFlags().String("config", "", "Config file path (YAML)")
	cmd.PersistentFlags().String("log-level", "", "Log level (debug, info, warn, error)")
	cmd.PersistentFlags().Bool("verify", false, "Verify the graph before and after every pass")

	/* subcommands */
	cmd.AddCommand(newSimplifyCmd(st))
	cmd.AddCommand(newVerifyCmd())
	cmd.AddCommand(newStatsCmd(st))
	return cmd
}

// configure resolves the options, flags override the environment, which
// overrides the config file.
func (self *_State) configure(cmd *cobra.Command) error {
	var err error
	var lv slog.Level

	/* config file or environment defaults */
	if path, _ := cmd.Flags().GetString("config"); path == "" {
		self.opts = opts.GetDefaultOptions()
	} else if self.opts, err = opts.LoadFile(path); err != nil {
		return err
	}

	/* command line flags */
	if cmd.Flags().Changed("verify") {
		self.opts.Verify, _ = cmd.Flags().GetBool("verify")
	}
	if cmd.Flags().Changed("log-level") {
		s, _ := cmd.Flags().GetString("log-level")
		if err = lv.UnmarshalText([]byte(s)); err != nil {
			return fmt.Errorf("invalid log level %q: %w", s, err)
		}
		self.opts.LogLevel = lv
	}

	/* dumps and logs go to stderr */
	self.opts.Output = cmd.ErrOrStderr()
	self.opts.Logger = slog.New(slog.NewTextHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{Level: self.opts.LogLevel}))
	return nil
}
