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

package passes

import (
	"fmt"

	"github.com/cloudwego/cfgopt/internal/reach"
	"github.com/cloudwego/cfgopt/ir"
)

// VerifyError occurs when the parent lists and the edges of a graph disagree.
type VerifyError struct {
	Func   string
	Block  int
	Reason string
}

func (self VerifyError) Error() string {
	return fmt.Sprintf("VerifyError(%s, bb_%d): %s", self.Func, self.Block, self.Reason)
}

func verifyError(fn *ir.Func, bb *ir.Block, format string, args ...interface{}) error {
	return VerifyError{
		Func:   fn.Name,
		Block:  bb.Id,
		Reason: fmt.Sprintf(format, args...),
	}
}

// Verify checks the live part of fn reachable from its entry: every edge
// goes to a live block, the source of every edge is a parent of its target,
// and every live parent has an edge to its child.
func Verify(fn *ir.Func) error {
	if fn.Entry == nil {
		return VerifyError{Func: fn.Name, Reason: "function has no entry block"}
	}

	/* only check the live blocks that are reachable */
	g := reach.New(fn.Entry)
	for _, bb := range g.Reachable(fn.Entry) {
		if bb.Dead {
			continue
		}

		/* check for the parents */
		seen := make(map[*ir.Block]bool, len(bb.Parents()))
		for _, p := range bb.Parents() {
			if seen[p] {
				return verifyError(fn, bb, "duplicated parent %s", p)
			}
			seen[p] = true
			if !p.Dead && g.Has(p) && !p.Targets(bb) {
				return verifyError(fn, bb, "parent %s has no edge to this block", p)
			}
		}

		/* check for the successors */
		for _, p := range bb.Successors() {
			if p.Dead {
				return verifyError(fn, bb, "edge to eliminated block %s", p)
			}
			if !p.HasParent(bb) {
				return verifyError(fn, bb, "not registered as a parent of %s", p)
			}
		}
	}

	/* all checked fine */
	return nil
}
