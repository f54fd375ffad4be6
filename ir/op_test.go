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
	"testing"

	"github.com/stretchr/testify/require"
)

func TestSubBlock_Single(t *testing.T) {
	fn := NewFunc("test")
	a := fn.NewBlock()
	b := fn.NewBlock()
	jmp := &Jump{Target: a}
	sb := jmp.SubBlocks()
	require.Len(t, sb, 1)
	require.Equal(t, "target", sb[0].Name)
	require.False(t, sb[0].IsCollection())
	require.Equal(t, []Target{{Key: 0, Block: a}}, sb[0].Targets())
	sb[0].Store([]Target{{Key: 0, Block: b}})
	require.Same(t, b, jmp.Target)
	require.Panics(t, func() { sb[0].Store(nil) })
}

func TestSubBlock_List(t *testing.T) {
	fn := NewFunc("test")
	a := fn.NewBlock()
	b := fn.NewBlock()
	c := fn.NewBlock()
	try := &Try{Body: a, Catch: []*Block{b, c}}
	sb := try.SubBlocks()
	require.Len(t, sb, 3)
	require.Equal(t, "catch", sb[1].Name)
	require.True(t, sb[1].IsCollection())
	tt := sb[1].Targets()
	require.Equal(t, []Target{{Key: 0, Block: b}, {Key: 1, Block: c}}, tt)
	tt[1].Block = a
	sb[1].Store(tt)
	require.Equal(t, []*Block{b, a}, try.Catch)
	require.Equal(t, []Target{{Key: 0, Block: nil}}, sb[2].Targets())
}

func TestSubBlock_Keyed(t *testing.T) {
	fn := NewFunc("test")
	a := fn.NewBlock()
	b := fn.NewBlock()
	c := fn.NewBlock()
	sw := &Switch{Cond: &Value{Name: "v"}, Cases: map[int64]*Block{7: a, -1: b}, Default: c}
	sb := sw.SubBlocks()
	require.Equal(t, "cases", sb[0].Name)
	tt := sb[0].Targets()
	require.Equal(t, []Target{{Key: -1, Block: b}, {Key: 7, Block: a}}, tt)
	tt[0].Block = c
	sb[0].Store(tt)
	require.Equal(t, map[int64]*Block{7: a, -1: c}, sw.Cases)
	require.Equal(t, []Target{{Key: 0, Block: c}}, sb[1].Targets())
}

func TestSubBlock_Empty(t *testing.T) {
	require.Empty(t, (&Expr{Name: "add"}).SubBlocks())
	require.Empty(t, (&Return{}).SubBlocks())
	var cases map[int64]*Block
	require.Empty(t, Keyed("cases", &cases).Targets())
}

func TestOp_String(t *testing.T) {
	x := &Value{Name: "x"}
	y := &Value{Name: "y"}
	require.Equal(t, "x = add(x, y)", (&Expr{Name: "add", Result: x, Args: []*Value{x, y}}).String())
	require.Equal(t, "echo(y)", (&Expr{Name: "echo", Args: []*Value{y}}).String())
	require.Equal(t, "Return x", (&Return{Value: x}).String())
	require.Equal(t, "Return", (&Return{}).String())
	require.Equal(t, "JumpIf x", (&JumpIf{Cond: x}).String())
	require.Equal(t, "Switch y", (&Switch{Cond: y}).String())
}
