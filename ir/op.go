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
	"sort"
	"strings"
)

// Op is an operation inside a basic block.
type Op interface {
	fmt.Stringer

	// SubBlocks returns the block-valued attributes of the operation, in a
	// stable order. Operations without any block references return nil.
	SubBlocks() []SubBlock
}

// Target is a single block reference of a block-valued attribute, Key is the
// index for lists, the case value for keyed collections, and 0 for single
// references.
type Target struct {
	Key   int64
	Block *Block
}

type _SubBlockKind uint8

const (
	_S_single _SubBlockKind = iota
	_S_list
	_S_keyed
)

// SubBlock is a named block-valued attribute bound to the field of an
// operation that holds it.
type SubBlock struct {
	Name  string
	kind  _SubBlockKind
	one   **Block
	list  *[]*Block
	keyed *map[int64]*Block
}

// Single binds a block-valued attribute that holds exactly one reference.
func Single(name string, p **Block) SubBlock {
	return SubBlock{Name: name, kind: _S_single, one: p}
}

// List binds a block-valued attribute that holds an ordered list.
func List(name string, p *[]*Block) SubBlock {
	return SubBlock{Name: name, kind: _S_list, list: p}
}

// Keyed binds a block-valued attribute that holds blocks by case value.
func Keyed(name string, p *map[int64]*Block) SubBlock {
	return SubBlock{Name: name, kind: _S_keyed, keyed: p}
}

// IsCollection reports whether the attribute holds more than a single
// reference.
func (self SubBlock) IsCollection() bool {
	return self.kind != _S_single
}

// Targets normalizes the attribute into an ordered list of references.
// Keyed collections are ordered by key.
func (self SubBlock) Targets() []Target {
	switch self.kind {
	case _S_single:
		return []Target{{Key: 0, Block: *self.one}}
	case _S_list:
		ret := make([]Target, len(*self.list))
		for i, bb := range *self.list {
			ret[i] = Target{Key: int64(i), Block: bb}
		}
		return ret
	case _S_keyed:
		ret := make([]Target, 0, len(*self.keyed))
		for k, bb := range *self.keyed {
			ret = append(ret, Target{Key: k, Block: bb})
		}
		sort.Slice(ret, func(i int, j int) bool { return ret[i].Key < ret[j].Key })
		return ret
	default:
		panic("unreachable")
	}
}

// Store writes the references back into the attribute, keeping its shape.
func (self SubBlock) Store(tt []Target) {
	switch self.kind {
	case _S_single:
		if len(tt) != 1 {
			panic(fmt.Sprintf("ir: attribute %q holds a single block, got %d", self.Name, len(tt)))
		}
		*self.one = tt[0].Block
	case _S_list:
		for _, t := range tt {
			(*self.list)[t.Key] = t.Block
		}
	case _S_keyed:
		if *self.keyed == nil && len(tt) != 0 {
			*self.keyed = make(map[int64]*Block, len(tt))
		}
		for _, t := range tt {
			(*self.keyed)[t.Key] = t.Block
		}
	default:
		panic("unreachable")
	}
}

// Jump transfers control to Target unconditionally.
type Jump struct {
	Target *Block
}

func (self *Jump) String() string { return "Jump" }
func (self *Jump) SubBlocks() []SubBlock { return []SubBlock{Single("target", &self.Target)} }

// JumpIf transfers control to If when Cond holds, and to Else otherwise.
type JumpIf struct {
	Cond *Value
	If   *Block
	Else *Block
}

func (self *JumpIf) String() string {
	return "JumpIf " + self.Cond.String()
}

func (self *JumpIf) SubBlocks() []SubBlock {
	return []SubBlock{
		Single("if", &self.If),
		Single("else", &self.Else),
	}
}

// Switch dispatches on Cond, falling back to Default when no case matches.
type Switch struct {
	Cond    *Value
	Cases   map[int64]*Block
	Default *Block
}

func (self *Switch) String() string {
	return "Switch " + self.Cond.String()
}

func (self *Switch) SubBlocks() []SubBlock {
	return []SubBlock{
		Keyed("cases", &self.Cases),
		Single("default", &self.Default),
	}
}

// Try opens an exception region. Finally is optional.
type Try struct {
	Body    *Block
	Catch   []*Block
	Finally *Block
}

func (self *Try) String() string { return "Try" }

func (self *Try) SubBlocks() []SubBlock {
	return []SubBlock{
		Single("body", &self.Body),
		List("catch", &self.Catch),
		Single("finally", &self.Finally),
	}
}

// Expr is an opaque computation, Result is nil for side effect only
// operations such as calls.
type Expr struct {
	Name   string
	Result *Value
	Args   []*Value
}

func (self *Expr) String() string {
	args := make([]string, len(self.Args))
	for i, v := range self.Args {
		args[i] = v.String()
	}
	if call := fmt.Sprintf("%s(%s)", self.Name, strings.Join(args, ", ")); self.Result == nil {
		return call
	} else {
		return fmt.Sprintf("%s = %s", self.Result, call)
	}
}

func (self *Expr) SubBlocks() []SubBlock { return nil }

// Return leaves the function, Value may be nil.
type Return struct {
	Value *Value
}

func (self *Return) String() string {
	if self.Value == nil {
		return "Return"
	} else {
		return "Return " + self.Value.String()
	}
}

func (self *Return) SubBlocks() []SubBlock { return nil }
