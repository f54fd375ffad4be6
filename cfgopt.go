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


// Package cfgopt simplifies control flow graphs by threading jumps through
// blocks that do nothing but jump somewhere else.
package cfgopt

import (
	"github.com/cloudwego/cfgopt/internal/opts"
	"github.com/cloudwego/cfgopt/internal/passes"
	"github.com/cloudwego/cfgopt/ir"
)

// Optimize runs every optimization pass over fn.
//
// The graph is modified in place. Eliminated blocks stay in fn.Blocks with
// their Dead flag set. An error is only returned when verification is
// enabled and the graph is inconsistent, or when a dump cannot be written.
func Optimize(fn *ir.Func, options ...Option) error {
	o := opts.GetDefaultOptions()
	for _, fp := range options {
		fp(&o)
	}
	return passes.Run(fn, passes.Passes[:], &o)
}

// Simplify runs a single jump threading pass over the blocks reachable from
// the entry of fn.
func Simplify(fn *ir.Func) {
	passes.JumpThreading{}.Apply(fn)
}

// Verify checks that the parent lists of the live blocks reachable from the
// entry of fn agree with their edges.
func Verify(fn *ir.Func) error {
	return passes.Verify(fn)
}
