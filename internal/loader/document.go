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


// Package loader reads control flow graphs from YAML fixtures, and writes
// them back as YAML documents or msgpack snapshots.
package loader

import (
	"gopkg.in/yaml.v3"
)

// Document is the serialized form of a set of functions.
type Document struct {
	Functions []FuncDoc `yaml:"functions" msgpack:"functions"`
}

// FuncDoc describes a single function. Entry names the entry block, the
// first block is the entry when it is empty.
type FuncDoc struct {
	Name   string     `yaml:"name" msgpack:"name"`
	Entry  string     `yaml:"entry,omitempty" msgpack:"entry,omitempty"`
	Blocks []BlockDoc `yaml:"blocks" msgpack:"blocks"`
	Line   int        `yaml:"-" msgpack:"-"`
}

// BlockDoc describes a basic block, blocks refer to each other by label.
type BlockDoc struct {
	Label string   `yaml:"label" msgpack:"label"`
	Phis  []PhiDoc `yaml:"phis,omitempty" msgpack:"phis,omitempty"`
	Ops   []OpDoc  `yaml:"ops" msgpack:"ops"`
	Line  int      `yaml:"-" msgpack:"-"`
}

// PhiDoc describes a Phi node, values are referenced by name.
type PhiDoc struct {
	Result   string   `yaml:"result" msgpack:"result"`
	Operands []string `yaml:"operands,flow" msgpack:"operands"`
	Line     int      `yaml:"-" msgpack:"-"`
}

// OpDoc describes an operation. Kind selects which of the other fields are
// meaningful:
//
//	jump:   target
//	jumpif: cond, if, else
//	switch: cond, cases, default
//	try:    body, catch, finally
//	expr:   name, result, args
//	return: value
type OpDoc struct {
	Kind    string           `yaml:"kind" msgpack:"kind"`
	Name    string           `yaml:"name,omitempty" msgpack:"name,omitempty"`
	Result  string           `yaml:"result,omitempty" msgpack:"result,omitempty"`
	Args    []string         `yaml:"args,omitempty,flow" msgpack:"args,omitempty"`
	Cond    string           `yaml:"cond,omitempty" msgpack:"cond,omitempty"`
	Value   string           `yaml:"value,omitempty" msgpack:"value,omitempty"`
	Target  string           `yaml:"target,omitempty" msgpack:"target,omitempty"`
	If      string           `yaml:"if,omitempty" msgpack:"if,omitempty"`
	Else    string           `yaml:"else,omitempty" msgpack:"else,omitempty"`
	Cases   map[int64]string `yaml:"cases,omitempty" msgpack:"cases,omitempty"`
	Default string           `yaml:"default,omitempty" msgpack:"default,omitempty"`
	Body    string           `yaml:"body,omitempty" msgpack:"body,omitempty"`
	Catch   []string         `yaml:"catch,omitempty,flow" msgpack:"catch,omitempty"`
	Finally string           `yaml:"finally,omitempty" msgpack:"finally,omitempty"`
	Line    int              `yaml:"-" msgpack:"-"`
}

/* the plain types decode without recursing into UnmarshalYAML */

type (
	_FuncDoc  FuncDoc
	_BlockDoc BlockDoc
	_PhiDoc   PhiDoc
	_OpDoc    OpDoc
)

func (self *FuncDoc) UnmarshalYAML(node *yaml.Node) error {
	self.Line = node.Line
	return node.Decode((*_FuncDoc)(self))
}

func (self *BlockDoc) UnmarshalYAML(node *yaml.Node) error {
	self.Line = node.Line
	return node.Decode((*_BlockDoc)(self))
}

func (self *PhiDoc) UnmarshalYAML(node *yaml.Node) error {
	self.Line = node.Line
	return node.Decode((*_PhiDoc)(self))
}

func (self *OpDoc) UnmarshalYAML(node *yaml.Node) error {
	self.Line = node.Line
	return node.Decode((*_OpDoc)(self))
}
