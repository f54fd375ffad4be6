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
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/cloudwego/cfgopt/ir"
)

type _Recorder struct {
	trace []string
}

func (self *_Recorder) EnterBlock(bb *ir.Block) { self.trace = append(self.trace, "enter "+bb.String()) }
func (self *_Recorder) EnterOp(op ir.Op, _ *ir.Block) { self.trace = append(self.trace, op.String()) }
func (self *_Recorder) LeaveBlock(bb *ir.Block) { self.trace = append(self.trace, "leave "+bb.String()) }

func TestTraverser_Order(t *testing.T) {
	fn := ir.NewFunc("order")
	a := fn.NewBlock()
	b := fn.NewBlock()
	c := fn.NewBlock()
	d := fn.NewBlock()
	x := &ir.Value{Name: "x"}
	a.Append(&ir.JumpIf{Cond: x, If: b, Else: c})
	b.Append(&ir.Jump{Target: d})
	c.Append(&ir.Jump{Target: d})
	d.Append(&ir.Return{Value: x})
	rec := new(_Recorder)
	NewTraverser(rec).Traverse(fn.Entry)
	require.Equal(t, []string{
		"enter bb_1", "JumpIf x", "leave bb_1",
		"enter bb_2", "Jump", "leave bb_2",
		"enter bb_4", "Return x", "leave bb_4",
		"enter bb_3", "Jump", "leave bb_3",
	}, rec.trace)
}

func TestTraverser_SkipsDead(t *testing.T) {
	fn := ir.NewFunc("dead")
	a := fn.NewBlock()
	b := fn.NewBlock()
	a.Dead = true
	b.Dead = true
	a.Append(&ir.Jump{Target: b})
	b.Append(&ir.Return{})
	rec := new(_Recorder)
	NewTraverser(rec).Traverse(fn.Entry)
	require.Equal(t, []string{"enter bb_1", "Jump", "leave bb_1"}, rec.trace)
}

func TestTraverser_FollowsRewrittenEdges(t *testing.T) {
	fn := ir.NewFunc("rewrite")
	a := fn.NewBlock()
	b := fn.NewBlock()
	c := fn.NewBlock()
	a.Append(&ir.Jump{Target: b})
	b.Append(&ir.Jump{Target: c})
	c.Append(&ir.Return{})
	rec := new(_Recorder)
	NewTraverser(NewSimplifier(), rec).Traverse(fn.Entry)
	require.Equal(t, []string{
		"enter bb_1", "Jump", "leave bb_1",
		"enter bb_3", "Return", "leave bb_3",
	}, rec.trace)
}
