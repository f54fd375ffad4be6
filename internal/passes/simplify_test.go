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
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cloudwego/cfgopt/ir"
)

func simplify(fn *ir.Func) *Simplifier {
	s := NewSimplifier()
	NewTraverser(s).Traverse(fn.Entry)
	return s
}

func values(names ...string) []*ir.Value {
	ret := make([]*ir.Value, len(names))
	for i, n := range names {
		ret[i] = &ir.Value{Name: n}
	}
	return ret
}

func TestSimplifier_Trampoline(t *testing.T) {
	fn := ir.NewFunc("trampoline")
	entry := fn.NewBlock()
	b := fn.NewBlock()
	c := fn.NewBlock()
	x := values("x")[0]
	entry.Append(&ir.Jump{Target: b})
	b.Append(&ir.Jump{Target: c})
	c.Append(&ir.Expr{Name: "echo", Args: []*ir.Value{x}}, &ir.Return{})
	s := simplify(fn)
	jmp, ok := entry.Jump()
	require.True(t, ok)
	require.Equal(t, c, jmp.Target)
	require.True(t, b.Dead)
	require.True(t, s.Removed(b))
	require.False(t, c.Dead)
	require.Equal(t, []*ir.Block{entry}, c.Parents())
	require.NoError(t, Verify(fn))
}

func TestSimplifier_ShortCircuit(t *testing.T) {
	fn := ir.NewFunc("short_circuit")
	entry := fn.NewBlock()
	b := fn.NewBlock()
	c := fn.NewBlock()
	d := fn.NewBlock()
	x := values("x")[0]
	entry.Append(&ir.JumpIf{Cond: x, If: b, Else: d})
	b.Append(&ir.Jump{Target: c})
	c.Append(&ir.Return{Value: x})
	d.Append(&ir.Expr{Name: "echo", Args: []*ir.Value{x}}, &ir.Jump{Target: b})
	nb := atomic.LoadUint64(&ShortCircuitCount)
	simplify(fn)
	op := entry.Ops[0].(*ir.JumpIf)
	require.Equal(t, c, op.If)
	require.Equal(t, d, op.Else)
	require.Equal(t, c, d.Ops[1].(*ir.Jump).Target)
	require.True(t, b.Dead)
	require.Equal(t, []*ir.Block{entry, d}, c.Parents())
	require.Equal(t, nb+1, atomic.LoadUint64(&ShortCircuitCount))
	require.NoError(t, Verify(fn))
}

func TestSimplifier_ShortCircuitResolvesChain(t *testing.T) {
	fn := ir.NewFunc("resolve")
	entry := fn.NewBlock()
	t1 := fn.NewBlock()
	t2 := fn.NewBlock()
	exit := fn.NewBlock()
	other := fn.NewBlock()
	t1.Append(&ir.Jump{Target: t2})
	t2.Append(&ir.Jump{Target: exit})
	exit.Append(&ir.Return{})
	s := NewSimplifier()

	/* eliminate t2 through t1, and leave t1 pointing at a stale target */
	entry.Append(&ir.Jump{Target: t1})
	s.Simplify(entry.Ops[0], entry)
	require.True(t, t1.Dead)
	require.True(t, t2.Dead)
	t1.Ops[0].(*ir.Jump).Target = t2

	/* a later reference must still end up at the live block */
	other.Append(&ir.Expr{Name: "nop"}, &ir.Jump{Target: t1})
	s.Simplify(other.Ops[1], other)
	assert.Equal(t, exit, other.Ops[1].(*ir.Jump).Target)
	assert.True(t, exit.HasParent(other))
}

func TestSimplifier_Chain(t *testing.T) {
	fn := ir.NewFunc("chain")
	a := fn.NewBlock()
	b := fn.NewBlock()
	c := fn.NewBlock()
	d := fn.NewBlock()
	x := values("x")[0]
	a.Append(&ir.Expr{Name: "init", Result: x}, &ir.Jump{Target: b})
	b.Append(&ir.Jump{Target: c})
	c.Append(&ir.Jump{Target: d})
	d.Append(&ir.Return{Value: x})
	simplify(fn)
	require.Equal(t, d, a.Ops[1].(*ir.Jump).Target)
	require.True(t, b.Dead)
	require.True(t, c.Dead)
	require.False(t, d.Dead)
	require.Equal(t, []*ir.Block{a}, d.Parents())
	require.Equal(t, []*ir.Block{a, d}, fn.Live())
	require.NoError(t, Verify(fn))
}

func TestSimplifier_SelfLoop(t *testing.T) {
	fn := ir.NewFunc("self_loop")
	a := fn.NewBlock()
	s := fn.NewBlock()
	a.Append(&ir.Expr{Name: "init"}, &ir.Jump{Target: s})
	s.Append(&ir.Jump{Target: s})
	nb := atomic.LoadUint64(&SelfLoopCount)
	simplify(fn)
	require.False(t, s.Dead)
	require.Equal(t, s, a.Ops[1].(*ir.Jump).Target)
	require.Equal(t, s, s.Ops[0].(*ir.Jump).Target)
	require.ElementsMatch(t, []*ir.Block{a, s}, s.Parents())
	require.Greater(t, atomic.LoadUint64(&SelfLoopCount), nb)
	require.NoError(t, Verify(fn))
}

func TestSimplifier_Loop(t *testing.T) {
	fn := ir.NewFunc("loop")
	a := fn.NewBlock()
	b := fn.NewBlock()
	a.Append(&ir.Expr{Name: "tick"}, &ir.Jump{Target: b})
	b.Append(&ir.Jump{Target: a})
	simplify(fn)
	require.True(t, b.Dead)
	require.Equal(t, a, a.Ops[1].(*ir.Jump).Target)
	require.Equal(t, []*ir.Block{a}, a.Parents())
	require.NoError(t, Verify(fn))
}

func TestSimplifier_TrampolineCycle(t *testing.T) {
	fn := ir.NewFunc("cycle")
	e := fn.NewBlock()
	t1 := fn.NewBlock()
	t2 := fn.NewBlock()
	e.Append(&ir.Jump{Target: t1})
	t1.Append(&ir.Jump{Target: t2})
	t2.Append(&ir.Jump{Target: t1})
	simplify(fn)
	require.True(t, t1.Dead)
	require.False(t, t2.Dead)
	require.Equal(t, t2, e.Ops[0].(*ir.Jump).Target)
	require.Equal(t, t2, t2.Ops[0].(*ir.Jump).Target)
	require.ElementsMatch(t, []*ir.Block{e, t2}, t2.Parents())
	require.NoError(t, Verify(fn))
}

func TestSimplifier_TrampolinePair(t *testing.T) {
	fn := ir.NewFunc("pair")
	a := fn.NewBlock()
	b := fn.NewBlock()
	a.Append(&ir.Jump{Target: b})
	b.Append(&ir.Jump{Target: a})
	simplify(fn)
	require.True(t, a.Dead)
	require.False(t, b.Dead)
	require.Equal(t, b, b.Ops[0].(*ir.Jump).Target)
	require.NoError(t, Verify(fn))
}

func phiFunc() (fn *ir.Func, p *ir.Block, q *ir.Block, tb *ir.Block, d *ir.Block, vs []*ir.Value) {
	fn = ir.NewFunc("phi")
	e := fn.NewBlock()
	p = fn.NewBlock()
	q = fn.NewBlock()
	r := fn.NewBlock()
	tb = fn.NewBlock()
	d = fn.NewBlock()
	vs = values("c", "x1", "x2", "x3", "x4", "x5")
	e.Append(&ir.Switch{
		Cond:    vs[0],
		Cases:   map[int64]*ir.Block{0: p, 1: q},
		Default: r,
	})
	p.Append(&ir.Expr{Name: "one", Result: vs[1]}, &ir.Jump{Target: tb})
	q.Append(&ir.Expr{Name: "two", Result: vs[2]}, &ir.Jump{Target: tb})
	r.Append(&ir.Expr{Name: "four", Result: vs[4]}, &ir.Jump{Target: d})
	tb.AddPhi(ir.NewPhi(vs[3], vs[1], vs[2]))
	tb.Append(&ir.Jump{Target: d})
	d.Append(&ir.Return{Value: vs[5]})
	return
}

func TestSimplifier_PhiMerge(t *testing.T) {
	fn, p, q, tb, d, vs := phiFunc()
	phi := ir.NewPhi(vs[5], vs[3], vs[4])
	d.AddPhi(phi)
	nb := atomic.LoadUint64(&PhiMergeCount)
	simplify(fn)
	require.True(t, tb.Dead)
	require.Empty(t, tb.Phi())
	require.Equal(t, d, p.Ops[1].(*ir.Jump).Target)
	require.Equal(t, d, q.Ops[1].(*ir.Jump).Target)
	require.ElementsMatch(t, []*ir.Value{vs[4], vs[1], vs[2]}, phi.Operands())
	require.False(t, phi.HasOperand(vs[3]))
	require.Equal(t, nb+1, atomic.LoadUint64(&PhiMergeCount))
	require.Len(t, d.Parents(), 3)
	require.NoError(t, Verify(fn))
}

func TestSimplifier_PhiReject(t *testing.T) {
	t.Run("unused", func(t *testing.T) {
		fn, p, _, tb, d, vs := phiFunc()
		phi := ir.NewPhi(vs[5], vs[1], vs[4])
		d.AddPhi(phi)
		nb := atomic.LoadUint64(&PhiRejectCount)
		simplify(fn)
		require.False(t, tb.Dead)
		require.Len(t, tb.Phi(), 1)
		require.Equal(t, tb, p.Ops[1].(*ir.Jump).Target)
		require.Equal(t, []*ir.Value{vs[1], vs[4]}, phi.Operands())
		require.Greater(t, atomic.LoadUint64(&PhiRejectCount), nb)
		require.NoError(t, Verify(fn))
	})
	t.Run("no_phi_at_destination", func(t *testing.T) {
		fn, p, q, tb, _, _ := phiFunc()
		simplify(fn)
		require.False(t, tb.Dead)
		require.Equal(t, tb, p.Ops[1].(*ir.Jump).Target)
		require.Equal(t, tb, q.Ops[1].(*ir.Jump).Target)
		require.NoError(t, Verify(fn))
	})
	t.Run("partial", func(t *testing.T) {
		fn, p, _, tb, d, vs := phiFunc()
		y := values("y1", "y2")
		tb.AddPhi(ir.NewPhi(y[0], vs[1], vs[2]))
		phi := ir.NewPhi(vs[5], vs[3], vs[4])
		d.AddPhi(phi, ir.NewPhi(y[1], vs[4]))
		simplify(fn)
		require.False(t, tb.Dead)
		require.Len(t, tb.Phi(), 2)
		require.Equal(t, tb, p.Ops[1].(*ir.Jump).Target)
		require.Equal(t, []*ir.Value{vs[3], vs[4]}, phi.Operands())
	})
}

func TestSimplifier_Collections(t *testing.T) {
	fn := ir.NewFunc("collections")
	e := fn.NewBlock()
	body := fn.NewBlock()
	c0 := fn.NewBlock()
	c1 := fn.NewBlock()
	handler := fn.NewBlock()
	exit := fn.NewBlock()
	c := values("c")[0]
	e.Append(&ir.Try{Body: body, Catch: []*ir.Block{c0, c1}})
	body.Append(&ir.Switch{Cond: c, Cases: map[int64]*ir.Block{3: c0, 7: exit}, Default: c1})
	c0.Append(&ir.Jump{Target: handler})
	c1.Append(&ir.Jump{Target: exit})
	handler.Append(&ir.Expr{Name: "recover"}, &ir.Return{})
	exit.Append(&ir.Return{Value: c})
	simplify(fn)
	try := e.Ops[0].(*ir.Try)
	require.Equal(t, body, try.Body)
	require.Equal(t, []*ir.Block{handler, exit}, try.Catch)
	require.Nil(t, try.Finally)
	sw := body.Ops[0].(*ir.Switch)
	require.Equal(t, map[int64]*ir.Block{3: handler, 7: exit}, sw.Cases)
	require.Equal(t, exit, sw.Default)
	require.True(t, c0.Dead)
	require.True(t, c1.Dead)
	require.ElementsMatch(t, []*ir.Block{e, body}, handler.Parents())
	require.ElementsMatch(t, []*ir.Block{e, body}, exit.Parents())
	require.NoError(t, Verify(fn))
}

func TestSimplifier_Idempotent(t *testing.T) {
	fn, _, _, _, d, vs := phiFunc()
	d.AddPhi(ir.NewPhi(vs[5], vs[3], vs[4]))
	simplify(fn)
	text := ir.Sprint(fn)
	live := fn.Live()
	s := simplify(fn)
	require.Equal(t, text, ir.Sprint(fn))
	require.Equal(t, live, fn.Live())
	for _, bb := range fn.Blocks {
		require.False(t, s.Removed(bb), "%s eliminated twice", bb)
	}
}

func TestSimplifier_NotAJump(t *testing.T) {
	fn := ir.NewFunc("plain")
	a := fn.NewBlock()
	b := fn.NewBlock()
	a.Append(&ir.JumpIf{Cond: values("x")[0], If: b})
	b.Append(&ir.Return{})
	text := ir.Sprint(fn)
	simplify(fn)
	require.Equal(t, text, ir.Sprint(fn))
	require.Nil(t, a.Ops[0].(*ir.JumpIf).Else)
}

func TestSimplifier_MissingTarget(t *testing.T) {
	fn := ir.NewFunc("broken")
	a := fn.NewBlock()
	b := fn.NewBlock()
	a.Append(&ir.Jump{Target: b})
	b.Append(&ir.Jump{})
	require.PanicsWithValue(t, "simplifier: jump in bb_2 has no target", func() {
		simplify(fn)
	})
}
