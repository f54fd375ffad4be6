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

package ir

import (
	"fmt"
)

// Block is a basic block. Ops[0] decides whether the block is a trampoline,
// Phi holds the merge points at block entry.
type Block struct {
	Id   int
	Ops  []Op
	Dead bool

	phi     []*Phi
	parents []*Block
}

func (self *Block) String() string {
	return fmt.Sprintf("bb_%d", self.Id)
}

// Append adds ops to the end of the block, and registers the block as a
// parent of every block the ops refer to.
func (self *Block) Append(ops ...Op) {
	for _, op := range ops {
		self.Ops = append(self.Ops, op)
		for _, sb := range op.SubBlocks() {
			for _, t := range sb.Targets() {
				if t.Block != nil {
					t.Block.AddParent(self)
				}
			}
		}
	}
}

// Jump returns the leading unconditional jump of the block, if any.
func (self *Block) Jump() (*Jump, bool) {
	if len(self.Ops) == 0 {
		return nil, false
	} else {
		jmp, ok := self.Ops[0].(*Jump)
		return jmp, ok
	}
}

// Phi returns the Phi nodes of the block. The returned slice must not be
// modified.
func (self *Block) Phi() []*Phi {
	return self.phi
}

// AddPhi attaches Phi nodes to the block.
func (self *Block) AddPhi(phi ...*Phi) {
	self.phi = append(self.phi, phi...)
}

// ClearPhi drops every Phi node of the block.
func (self *Block) ClearPhi() {
	self.phi = nil
}

// FindPhiUsing returns the first Phi node that has v as an operand.
func (self *Block) FindPhiUsing(v *Value) *Phi {
	for _, p := range self.phi {
		if p.HasOperand(v) {
			return p
		}
	}
	return nil
}

// Parents returns the blocks that may transfer control into this block.
// The returned slice must not be modified.
func (self *Block) Parents() []*Block {
	return self.parents
}

// HasParent reports whether p is a parent of the block.
func (self *Block) HasParent(p *Block) bool {
	for _, v := range self.parents {
		if v == p {
			return true
		}
	}
	return false
}

// AddParent adds p to the parents unless it is already there.
func (self *Block) AddParent(p *Block) bool {
	if self.HasParent(p) {
		return false
	} else {
		self.parents = append(self.parents, p)
		return true
	}
}

// RemoveParent removes p from the parents, it is a no-op if p is not
// a parent.
func (self *Block) RemoveParent(p *Block) bool {
	for i, v := range self.parents {
		if v == p {
			self.parents = append(self.parents[:i], self.parents[i+1:]...)
			return true
		}
	}
	return false
}

// Successors returns every non-nil block referenced by the ops of the
// block, in op and attribute order. A block referenced twice is reported
// once.
func (self *Block) Successors() []*Block {
	var ret []*Block
	var vis map[*Block]bool

	/* scan every attribute of every op */
	for _, op := range self.Ops {
		for _, sb := range op.SubBlocks() {
			for _, t := range sb.Targets() {
				if t.Block != nil && !vis[t.Block] {
					if vis == nil {
						vis = make(map[*Block]bool)
					}
					vis[t.Block] = true
					ret = append(ret, t.Block)
				}
			}
		}
	}

	/* all done */
	return ret
}

// Targets reports whether any op of the block refers to bb.
func (self *Block) Targets(bb *Block) bool {
	for _, op := range self.Ops {
		for _, sb := range op.SubBlocks() {
			for _, t := range sb.Targets() {
				if t.Block == bb {
					return true
				}
			}
		}
	}
	return false
}
