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

	"github.com/cloudwego/cfgopt/ir"
)

// Simplifier threads jumps through trampoline blocks, that is blocks whose
// first operation is an unconditional jump, and eliminates them.
//
// A Simplifier keeps the set of eliminated blocks for its whole lifetime, so
// a trampoline reachable from several places is resolved once and every
// later reference short-circuits to its destination. Use exactly one
// Simplifier per pass over a function.
type Simplifier struct {
	removed map[*ir.Block]struct{}
	running map[ir.Op]struct{}
}

// NewSimplifier creates a Simplifier for a single pass.
func NewSimplifier() *Simplifier {
	return &Simplifier{
		removed: make(map[*ir.Block]struct{}),
		running: make(map[ir.Op]struct{}),
	}
}

func (self *Simplifier) EnterBlock(_ *ir.Block) {}
func (self *Simplifier) LeaveBlock(_ *ir.Block) {}

func (self *Simplifier) EnterOp(op ir.Op, bb *ir.Block) {
	self.Simplify(op, bb)
}

// Removed reports whether bb was eliminated by this Simplifier.
func (self *Simplifier) Removed(bb *ir.Block) bool {
	_, ok := self.removed[bb]
	return ok
}

// Simplify rewrites every block-valued attribute of op, which lives in bb,
// to skip over trampoline blocks. It never fails, anything that cannot be
// threaded safely is left untouched.
func (self *Simplifier) Simplify(op ir.Op, bb *ir.Block) {
	if _, ok := self.running[op]; ok {
		return
	}

	/* guard against cycles through this op */
	self.running[op] = struct{}{}
	defer delete(self.running, op)

	/* thread every target of every attribute */
	for _, sb := range op.SubBlocks() {
		tt := sb.Targets()
		for i := range tt {
			tt[i].Block = self.thread(tt[i].Block, bb)
		}
		sb.Store(tt)
	}
}

func (self *Simplifier) thread(to *ir.Block, bb *ir.Block) *ir.Block {
	var ok bool
	var jmp *ir.Jump

	/* only trampoline blocks are candidates */
	if to == nil {
		return nil
	} else if jmp, ok = to.Jump(); !ok {
		return to
	}

	/* eliminated before, short-circuit to where it went */
	if self.Removed(to) {
		dest := self.resolve(to, jmp)
		dest.AddParent(bb)
		count(&ShortCircuitCount)
		return dest
	}

	/* thread the trampoline itself first, this collapses whole chains */
	self.Simplify(jmp, to)
	dest := target(to, jmp)

	/* never erase a tight infinite loop */
	if dest == to {
		count(&SelfLoopCount)
		return to
	}

	/* Phi nodes must be folded into the destination */
	if !mergePhi(to, dest) {
		count(&PhiRejectCount)
		return to
	}

	/* an inner frame may have eliminated it already when threading a cycle */
	if !self.Removed(to) {
		to.Dead = true
		self.removed[to] = struct{}{}
		count(&EliminatedCount)
	}

	/* move the edge from the trampoline to its destination */
	dest.RemoveParent(to)
	dest.AddParent(bb)
	return dest
}

// resolve follows the jumps of eliminated blocks starting from bb, until it
// reaches a block that is still alive. A cycle made only of eliminated
// blocks stops the walk at the block where it closes.
func (self *Simplifier) resolve(bb *ir.Block, jmp *ir.Jump) *ir.Block {
	dest := target(bb, jmp)
	for n := 0; n < len(self.removed) && self.Removed(dest); n++ {
		next, ok := dest.Jump()
		if !ok {
			panic(fmt.Sprintf("simplifier: eliminated block %s does not start with a jump", dest))
		}
		dest = target(dest, next)
	}
	return dest
}

func target(bb *ir.Block, jmp *ir.Jump) *ir.Block {
	if jmp.Target == nil {
		panic(fmt.Sprintf("simplifier: jump in %s has no target", bb))
	} else {
		return jmp.Target
	}
}

// mergePhi folds the Phi nodes of a trampoline into its destination. Every
// Phi of bb must already feed a Phi of dest, otherwise nothing is changed
// and false is returned.
func mergePhi(bb *ir.Block, dest *ir.Block) bool {
	phi := bb.Phi()
	if len(phi) == 0 {
		return true
	}

	/* find the consumer of every Phi node */
	found := make([]*ir.Phi, len(phi))
	for i, p := range phi {
		if found[i] = dest.FindPhiUsing(p.Result); found[i] == nil {
			return false
		}
	}

	/* replace the result with the incoming values */
	for i, p := range phi {
		found[i].RemoveOperand(p.Result)
		for _, v := range p.Operands() {
			found[i].AddOperand(v)
		}
		count(&PhiMergeCount)
	}

	/* the trampoline no longer merges anything */
	bb.ClearPhi()
	return true
}
