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
	"io"

	"github.com/vmihailenco/msgpack/v5"
	"gopkg.in/yaml.v3"

	"github.com/cloudwego/cfgopt/ir"
)

// Export describes the functions as a document. Only the live blocks
// reachable from the entry are exported, labeled after their block IDs.
func Export(fns ...*ir.Func) *Document {
	ret := &Document{Functions: make([]FuncDoc, 0, len(fns))}
	for _, fn := range fns {
		ret.Functions = append(ret.Functions, exportFunc(fn))
	}
	return ret
}

func exportFunc(fn *ir.Func) FuncDoc {
	bb := ir.Reachable(fn.Entry)
	ret := FuncDoc{Name: fn.Name, Blocks: make([]BlockDoc, 0, len(bb))}

	/* the entry always comes first */
	for _, p := range bb {
		ret.Blocks = append(ret.Blocks, exportBlock(p))
	}

	/* all done */
	return ret
}

func exportBlock(bb *ir.Block) BlockDoc {
	ret := BlockDoc{
		Label: label(bb),
		Ops:   make([]OpDoc, 0, len(bb.Ops)),
	}

	/* Phi nodes */
	for _, p := range bb.Phi() {
		ops := p.Operands()
		phi := PhiDoc{Result: name(p.Result), Operands: make([]string, len(ops))}
		for i, v := range ops {
			phi.Operands[i] = name(v)
		}
		ret.Phis = append(ret.Phis, phi)
	}

	/* operations */
	for _, op := range bb.Ops {
		ret.Ops = append(ret.Ops, exportOp(op))
	}

	/* all done */
	return ret
}

func exportOp(op ir.Op) OpDoc {
	switch v := op.(type) {
	case *ir.Jump:
		return OpDoc{Kind: "jump", Target: label(v.Target)}
	case *ir.JumpIf:
		return OpDoc{Kind: "jumpif", Cond: name(v.Cond), If: label(v.If), Else: label(v.Else)}
	case *ir.Switch:
		return exportSwitch(v)
	case *ir.Try:
		return exportTry(v)
	case *ir.Expr:
		return exportExpr(v)
	case *ir.Return:
		return OpDoc{Kind: "return", Value: name(v.Value)}
	default:
		panic(fmt.Sprintf("loader: cannot export op %T", op))
	}
}

func exportSwitch(op *ir.Switch) OpDoc {
	ret := OpDoc{Kind: "switch", Cond: name(op.Cond), Default: label(op.Default)}
	if len(op.Cases) != 0 {
		ret.Cases = make(map[int64]string, len(op.Cases))
		for k, bb := range op.Cases {
			ret.Cases[k] = label(bb)
		}
	}
	return ret
}

func exportTry(op *ir.Try) OpDoc {
	ret := OpDoc{Kind: "try", Body: label(op.Body), Finally: label(op.Finally)}
	for _, bb := range op.Catch {
		ret.Catch = append(ret.Catch, label(bb))
	}
	return ret
}

func exportExpr(op *ir.Expr) OpDoc {
	ret := OpDoc{Kind: "expr", Name: op.Name, Result: name(op.Result)}
	for _, v := range op.Args {
		ret.Args = append(ret.Args, name(v))
	}
	return ret
}

func label(bb *ir.Block) string {
	if bb == nil {
		return ""
	} else {
		return bb.String()
	}
}

func name(v *ir.Value) string {
	if v == nil {
		return ""
	} else {
		return v.Name
	}
}

// WriteYAML writes the document as YAML.
func WriteYAML(w io.Writer, doc *Document) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)

	/* encode and flush */
	if err := enc.Encode(doc); err != nil {
		return fmt.Errorf("encode document: %w", err)
	} else {
		return enc.Close()
	}
}

// EncodeSnapshot writes the document as a msgpack snapshot.
func EncodeSnapshot(w io.Writer, doc *Document) error {
	if err := msgpack.NewEncoder(w).Encode(doc); err != nil {
		return fmt.Errorf("encode snapshot: %w", err)
	} else {
		return nil
	}
}

// DecodeSnapshot reads a document written by EncodeSnapshot.
func DecodeSnapshot(r io.Reader) (*Document, error) {
	doc := new(Document)
	if err := msgpack.NewDecoder(r).Decode(doc); err != nil {
		return nil, fmt.Errorf("decode snapshot: %w", err)
	} else {
		return doc, nil
	}
}
