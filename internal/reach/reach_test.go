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

package reach

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/cloudwego/cfgopt/ir"
)

func TestReach_Graph(t *testing.T) {
	fn := ir.NewFunc("test")
	a := fn.NewBlock()
	b := fn.NewBlock()
	c := fn.NewBlock()
	d := fn.NewBlock()
	e := fn.NewBlock()
	a.Append(&ir.JumpIf{Cond: &ir.Value{Name: "x"}, If: b, Else: c})
	b.Append(&ir.Jump{Target: b})
	c.Append(&ir.Jump{Target: d})
	d.Append(&ir.Jump{Target: c})
	e.Append(&ir.Return{})
	g := New(a)
	require.Equal(t, 4, g.Len())
	require.False(t, g.Has(e))
	require.Equal(t, []*ir.Block{a, b, c, d}, g.Reachable(a))
	require.Equal(t, []*ir.Block{c, d}, g.Reachable(d))
	require.Equal(t, []*ir.Block{b}, g.Reachable(b))
	require.Nil(t, g.Reachable(e))
	require.True(t, g.PathExists(a, d))
	require.True(t, g.PathExists(d, c))
	require.False(t, g.PathExists(c, b))
	require.False(t, g.PathExists(a, e))
}

func TestReach_SkipsDeadBlocks(t *testing.T) {
	fn := ir.NewFunc("test")
	a := fn.NewBlock()
	b := fn.NewBlock()
	c := fn.NewBlock()
	a.Append(&ir.Jump{Target: b})
	b.Append(&ir.Jump{Target: c})
	c.Append(&ir.Return{})
	b.Dead = true
	g := New(a)
	require.Equal(t, 1, g.Len())
	require.False(t, g.PathExists(a, c))
}
