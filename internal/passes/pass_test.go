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
	"bytes"
	"errors"
	"log/slog"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/cloudwego/cfgopt/internal/opts"
	"github.com/cloudwego/cfgopt/ir"
)

func chainFunc() (*ir.Func, *ir.Block) {
	fn := ir.NewFunc("chain")
	a := fn.NewBlock()
	b := fn.NewBlock()
	c := fn.NewBlock()
	a.Append(&ir.Expr{Name: "init"}, &ir.Jump{Target: b})
	b.Append(&ir.Jump{Target: c})
	c.Append(&ir.Return{})
	return fn, b
}

func TestRun_Dump(t *testing.T) {
	var buf bytes.Buffer
	fn, b := chainFunc()
	o := opts.Options{
		Verify:     true,
		DumpBefore: "*",
		DumpAfter:  "Jump Threading",
		Output:     &buf,
	}
	require.NoError(t, Run(fn, Passes[:], &o))
	require.True(t, b.Dead)
	require.Equal(t, strings.Join([]string{
		"--- before Jump Threading (chain) ---",
		"Block#1",
		"    init()",
		"    Jump",
		"        target: Block#2",
		"",
		"Block#2",
		"    Parent: Block#1",
		"    Jump",
		"        target: Block#3",
		"",
		"Block#3",
		"    Parent: Block#2",
		"    Return",
		"",
		"--- after Jump Threading (chain) ---",
		"Block#1",
		"    init()",
		"    Jump",
		"        target: Block#2",
		"",
		"Block#2",
		"    Parent: Block#1",
		"    Return",
		"",
		"",
	}, "\n"), buf.String())
}

func TestRun_NoDump(t *testing.T) {
	var buf bytes.Buffer
	fn, _ := chainFunc()
	o := opts.Options{DumpBefore: "Constant Folding", Output: &buf}
	require.NoError(t, Run(fn, Passes[:], &o))
	require.Empty(t, buf.String())
}

func TestRun_Log(t *testing.T) {
	var buf bytes.Buffer
	fn, _ := chainFunc()
	o := opts.Options{Logger: slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))}
	require.NoError(t, Run(fn, Passes[:], &o))
	require.Contains(t, buf.String(), `msg="pass applied" func=chain pass="Jump Threading" eliminated=1`)
}

func TestRun_VerifyBefore(t *testing.T) {
	var e VerifyError
	fn, b := chainFunc()
	b.RemoveParent(fn.Entry)
	err := Run(fn, Passes[:], &opts.Options{Verify: true})
	require.True(t, errors.As(err, &e))
	require.Equal(t, "verify before Jump Threading: VerifyError(chain, bb_1): not registered as a parent of bb_2", err.Error())
	require.False(t, b.Dead)
}

type _BreakEdges struct{}

func (_BreakEdges) Apply(fn *ir.Func) {
	fn.Entry.Successors()[0].Dead = true
}

func TestRun_VerifyAfter(t *testing.T) {
	fn, _ := chainFunc()
	passes := []PassDescriptor{{Name: "Break Edges", Pass: _BreakEdges{}}}
	err := Run(fn, passes, &opts.Options{Verify: true})
	require.EqualError(t, err, "verify after Break Edges: VerifyError(chain, bb_1): edge to eliminated block bb_2")
	require.NoError(t, Run(fn, passes, &opts.Options{}))
}
