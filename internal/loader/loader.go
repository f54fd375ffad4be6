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


package loader

import (
	"fmt"
	"os"
	"sync/atomic"

	"gopkg.in/yaml.v3"

	"github.com/cloudwego/cfgopt/ir"
)

var (
	FnCount    uint64 = 0
	BlockCount uint64 = 0
)

// FixtureError occurs when a fixture is malformed. Line is 0 when the
// position is unknown.
type FixtureError struct {
	Path   string
	Line   int
	Reason string
}

func (self FixtureError) Error() string {
	if self.Line == 0 {
		return fmt.Sprintf("FixtureError(%s): %s", self.Path, self.Reason)
	} else {
		return fmt.Sprintf("FixtureError(%s:%d): %s", self.Path, self.Line, self.Reason)
	}
}

// Decode parses a YAML fixture without building any graph.
func Decode(path string, data []byte) (*Document, error) {
	doc := new(Document)
	if err := yaml.Unmarshal(data, doc); err != nil {
		return nil, FixtureError{Path: path, Reason: err.Error()}
	} else {
		return doc, nil
	}
}

// Load parses a YAML fixture and builds every function in it.
func Load(path string, data []byte) ([]*ir.Func, error) {
	if doc, err := Decode(path, data); err != nil {
		return nil, err
	} else {
		return Build(path, doc)
	}
}

// LoadFile is like Load but reads the fixture from path.
func LoadFile(path string) ([]*ir.Func, error) {
	if data, err := os.ReadFile(path); err != nil {
		return nil, fmt.Errorf("read fixture: %w", err)
	} else {
		return Load(path, data)
	}
}

// Build creates the functions described by doc, path is only used in
// error messages.
func Build(path string, doc *Document) ([]*ir.Func, error) {
	ret := make([]*ir.Func, 0, len(doc.Functions))
	names := make(map[string]bool, len(doc.Functions))

	/* build every function */
	for i := range doc.Functions {
		fd := &doc.Functions[i]
		if names[fd.Name] {
			return nil, FixtureError{Path: path, Line: fd.Line, Reason: fmt.Sprintf("duplicated function %q", fd.Name)}
		}

		/* build the function */
		names[fd.Name] = true
		fn, err := (&_Builder{path: path}).build(fd)
		if err != nil {
			return nil, err
		}

		/* update the counters */
		ret = append(ret, fn)
		atomic.AddUint64(&FnCount, 1)
		atomic.AddUint64(&BlockCount, uint64(len(fn.Blocks)))
	}

	/* all done */
	return ret, nil
}

type _Builder struct {
	path   string
	fn     *ir.Func
	line   int
	values map[string]*ir.Value
	labels map[string]*ir.Block
}

func (self *_Builder) errorf(format string, args ...interface{}) error {
	return FixtureError{
		Path:   self.path,
		Line:   self.line,
		Reason: fmt.Sprintf("%s: %s", self.fn.Name, fmt.Sprintf(format, args...)),
	}
}

func (self *_Builder) build(fd *FuncDoc) (*ir.Func, error) {
	self.line = fd.Line
	self.fn = ir.NewFunc(fd.Name)
	self.values = make(map[string]*ir.Value)
	self.labels = make(map[string]*ir.Block, len(fd.Blocks))

	/* a function needs at least an entry */
	if len(fd.Blocks) == 0 {
		return nil, self.errorf("function has no blocks")
	}

	/* allocate every block first, so forward references resolve */
	for _, bd := range fd.Blocks {
		self.line = bd.Line
		if bd.Label == "" {
			return nil, self.errorf("block without a label")
		} else if self.labels[bd.Label] != nil {
			return nil, self.errorf("duplicated label %q", bd.Label)
		} else {
			self.labels[bd.Label] = self.fn.NewBlock()
		}
	}

	/* select the entry block */
	if fd.Entry != "" {
		self.line = fd.Line
		if self.fn.Entry = self.labels[fd.Entry]; self.fn.Entry == nil {
			return nil, self.errorf("unknown entry block %q", fd.Entry)
		}
	}

	/* fill every block */
	for _, bd := range fd.Blocks {
		if err := self.block(self.labels[bd.Label], &bd); err != nil {
			return nil, err
		}
	}

	/* all done */
	return self.fn, nil
}

func (self *_Builder) block(bb *ir.Block, bd *BlockDoc) error {
	for _, pd := range bd.Phis {
		self.line = pd.Line
		if pd.Result == "" {
			return self.errorf("phi without a result")
		}

		/* resolve the operands */
		vars := make([]*ir.Value, len(pd.Operands))
		for i, v := range pd.Operands {
			vars[i] = self.value(v)
		}

		/* attach the phi */
		bb.AddPhi(ir.NewPhi(self.value(pd.Result), vars...))
	}

	/* append every op */
	for i := range bd.Ops {
		self.line = bd.Ops[i].Line
		if op, err := self.op(&bd.Ops[i]); err != nil {
			return err
		} else {
			bb.Append(op)
		}
	}

	/* all done */
	return nil
}

func (self *_Builder) op(od *OpDoc) (ir.Op, error) {
	switch od.Kind {
	case "jump":
		return self.jump(od)
	case "jumpif":
		return self.jumpIf(od)
	case "switch":
		return self.switchOp(od)
	case "try":
		return self.try(od)
	case "expr":
		return self.expr(od)
	case "return":
		return &ir.Return{Value: self.value(od.Value)}, nil
	case "":
		return nil, self.errorf("op without a kind")
	default:
		return nil, self.errorf("unknown op kind %q", od.Kind)
	}
}

func (self *_Builder) jump(od *OpDoc) (ir.Op, error) {
	if od.Target == "" {
		return nil, self.errorf("jump without a target")
	} else if bb, err := self.label(od.Target); err != nil {
		return nil, err
	} else {
		return &ir.Jump{Target: bb}, nil
	}
}

func (self *_Builder) jumpIf(od *OpDoc) (ir.Op, error) {
	var err error
	var ret ir.JumpIf

	/* resolve both branches */
	if ret.If, err = self.label(od.If); err != nil {
		return nil, err
	} else if ret.Else, err = self.label(od.Else); err != nil {
		return nil, err
	} else {
		ret.Cond = self.value(od.Cond)
		return &ret, nil
	}
}

func (self *_Builder) switchOp(od *OpDoc) (ir.Op, error) {
	var err error
	var ret ir.Switch

	/* resolve every case */
	if len(od.Cases) != 0 {
		ret.Cases = make(map[int64]*ir.Block, len(od.Cases))
		for k, v := range od.Cases {
			if ret.Cases[k], err = self.label(v); err != nil {
				return nil, err
			}
		}
	}

	/* resolve the default branch */
	if ret.Default, err = self.label(od.Default); err != nil {
		return nil, err
	} else {
		ret.Cond = self.value(od.Cond)
		return &ret, nil
	}
}

func (self *_Builder) try(od *OpDoc) (ir.Op, error) {
	var err error
	var ret ir.Try

	/* resolve the body */
	if ret.Body, err = self.label(od.Body); err != nil {
		return nil, err
	}

	/* resolve every handler */
	for _, v := range od.Catch {
		if bb, err := self.label(v); err != nil {
			return nil, err
		} else {
			ret.Catch = append(ret.Catch, bb)
		}
	}

	/* resolve the finally block */
	if ret.Finally, err = self.label(od.Finally); err != nil {
		return nil, err
	} else {
		return &ret, nil
	}
}

func (self *_Builder) expr(od *OpDoc) (ir.Op, error) {
	if od.Name == "" {
		return nil, self.errorf("expr without a name")
	}

	/* resolve the arguments */
	args := make([]*ir.Value, 0, len(od.Args))
	for _, v := range od.Args {
		args = append(args, self.value(v))
	}

	/* build the expression */
	return &ir.Expr{
		Name:   od.Name,
		Args:   args,
		Result: self.value(od.Result),
	}, nil
}

// label resolves a block reference, an empty label is a nil reference.
func (self *_Builder) label(name string) (*ir.Block, error) {
	if name == "" {
		return nil, nil
	} else if bb := self.labels[name]; bb == nil {
		return nil, self.errorf("unknown label %q", name)
	} else {
		return bb, nil
	}
}

// value interns a value by name within the function, an empty name is a
// nil value.
func (self *_Builder) value(name string) *ir.Value {
	if name == "" {
		return nil
	} else if v, ok := self.values[name]; ok {
		return v
	} else {
		v = &ir.Value{Name: name}
		self.values[name] = v
		return v
	}
}
