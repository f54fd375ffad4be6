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


package cfgopt

import (
	"io"
	"log/slog"

	"github.com/cloudwego/cfgopt/internal/opts"
)

// Option is the property setter function for opts.Options.
type Option func(*opts.Options)

// WithVerify checks the graph before and after every pass.
//
// This option can also be configured with the `CFGOPT_VERIFY` environment
// variable.
//
// The default value of this option is "false".
func WithVerify(v bool) Option {
	return func(o *opts.Options) { o.Verify = v }
}

// WithDumpBefore dumps the graph before the named pass, "*" dumps before
// every pass.
//
// This option can also be configured with the `CFGOPT_DUMP_BEFORE`
// environment variable.
func WithDumpBefore(pass string) Option {
	return func(o *opts.Options) { o.DumpBefore = pass }
}

// WithDumpAfter dumps the graph after the named pass, "*" dumps after every
// pass.
//
// This option can also be configured with the `CFGOPT_DUMP_AFTER`
// environment variable.
func WithDumpAfter(pass string) Option {
	return func(o *opts.Options) { o.DumpAfter = pass }
}

// WithDumpWriter sets where dumps are written to, the default is os.Stderr.
func WithDumpWriter(w io.Writer) Option {
	return func(o *opts.Options) { o.Output = w }
}

// WithLogger sets the logger of the passes, the default is slog.Default().
func WithLogger(log *slog.Logger) Option {
	return func(o *opts.Options) { o.Logger = log }
}

// SetVerify sets the default verification mode for every Optimize call from
// now on.
//
// Returns the old opts.Verify value.
func SetVerify(v bool) bool {
	v, opts.Verify = opts.Verify, v
	return v
}
