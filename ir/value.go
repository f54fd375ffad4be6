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
	"strings"
)

// Value is an SSA value identity. Two values are the same iff they are the
// same pointer, the name is only used for dumping.
type Value struct {
	Name string
}

func (self *Value) String() string {
	if self == nil {
		return "<nil>"
	} else {
		return self.Name
	}
}

// Phi merges the values arriving from the predecessors of a block into
// Result. The operands form a set, they are not tagged by predecessor.
type Phi struct {
	Result *Value
	vars   []*Value
}

// NewPhi creates a Phi node, duplicated operands are dropped.
func NewPhi(result *Value, vars ...*Value) *Phi {
	ret := &Phi{Result: result}
	for _, v := range vars {
		ret.AddOperand(v)
	}
	return ret
}

func (self *Phi) index(v *Value) int {
	for i, p := range self.vars {
		if p == v {
			return i
		}
	}
	return -1
}

// HasOperand reports whether v is one of the operands.
func (self *Phi) HasOperand(v *Value) bool {
	return self.index(v) >= 0
}

// AddOperand adds v to the operand set if it is not already there.
func (self *Phi) AddOperand(v *Value) {
	if self.index(v) < 0 {
		self.vars = append(self.vars, v)
	}
}

// RemoveOperand removes v from the operand set, it does nothing if v is
// not an operand.
func (self *Phi) RemoveOperand(v *Value) {
	if i := self.index(v); i >= 0 {
		self.vars = append(self.vars[:i], self.vars[i+1:]...)
	}
}

// Operands returns a copy of the operand set in insertion order.
func (self *Phi) Operands() []*Value {
	return append([]*Value(nil), self.vars...)
}

func (self *Phi) String() string {
	ret := make([]string, 0, len(self.vars))
	for _, v := range self.vars {
		ret = append(ret, v.String())
	}
	return fmt.Sprintf("%s = φ(%s)", self.Result, strings.Join(ret, ", "))
}
