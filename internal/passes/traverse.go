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
	"github.com/oleiade/lane"

	"github.com/cloudwego/cfgopt/ir"
)

// Visitor receives callbacks from a Traverser.
type Visitor interface {
	EnterBlock(bb *ir.Block)
	EnterOp(op ir.Op, bb *ir.Block)
	LeaveBlock(bb *ir.Block)
}

// Traverser walks every block reachable from an entry, depth-first, and
// hands each block and op to its visitors. The successors of an op are read
// after the visitors are done with it, so a visitor that rewrites edges
// steers the walk, and eliminated blocks are never entered. The entry block
// is always entered.
type Traverser struct {
	vs []Visitor
}

// NewTraverser creates a Traverser that calls vs in order.
func NewTraverser(vs ...Visitor) *Traverser {
	return &Traverser{vs: vs}
}

// Traverse walks the graph from entry.
func (self *Traverser) Traverse(entry *ir.Block) {
	s := lane.NewStack()
	v := make(map[*ir.Block]struct{})

	/* depth-first search from the entry */
	for s.Push(entry); !s.Empty(); {
		var ok bool
		var next []*ir.Block

		/* skip visited blocks */
		bb := s.Pop().(*ir.Block)
		if _, ok = v[bb]; ok {
			continue
		}

		/* mark as visited */
		v[bb] = struct{}{}
		self.enterBlock(bb)

		/* visit every op, then collect the rewritten successors */
		for _, op := range bb.Ops {
			self.enterOp(op, bb)
			for _, sb := range op.SubBlocks() {
				for _, t := range sb.Targets() {
					if t.Block != nil && !t.Block.Dead {
						next = append(next, t.Block)
					}
				}
			}
		}

		/* push in reverse, so the first successor is visited first */
		for i := len(next) - 1; i >= 0; i-- {
			if _, ok = v[next[i]]; !ok {
				s.Push(next[i])
			}
		}

		/* done with this block */
		self.leaveBlock(bb)
	}
}

func (self *Traverser) enterBlock(bb *ir.Block) {
	for _, v := range self.vs {
		v.EnterBlock(bb)
	}
}

func (self *Traverser) enterOp(op ir.Op, bb *ir.Block) {
	for _, v := range self.vs {
		v.EnterOp(op, bb)
	}
}

func (self *Traverser) leaveBlock(bb *ir.Block) {
	for _, v := range self.vs {
		v.LeaveBlock(bb)
	}
}
