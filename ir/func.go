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

// Package ir is the control flow graph of a function: blocks, operations,
// jumps and Phi nodes.
package ir

// Func owns every block of a function. Blocks reference each other freely,
// including back edges, the Func keeps them all alive and numbers them in
// allocation order.
type Func struct {
	Name   string
	Entry  *Block
	Blocks []*Block
}

// NewFunc creates an empty function.
func NewFunc(name string) *Func {
	return &Func{Name: name}
}

// NewBlock allocates a new block. The first block becomes the entry.
func (self *Func) NewBlock() *Block {
	bb := &Block{Id: len(self.Blocks) + 1}
	self.Blocks = append(self.Blocks, bb)

	/* the first block is the entry */
	if self.Entry == nil {
		self.Entry = bb
	}

	/* all done */
	return bb
}

// Live returns the blocks that are not eliminated, in allocation order.
func (self *Func) Live() []*Block {
	ret := make([]*Block, 0, len(self.Blocks))
	for _, bb := range self.Blocks {
		if !bb.Dead {
			ret = append(ret, bb)
		}
	}
	return ret
}
