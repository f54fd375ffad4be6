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
	"io"
	"strings"

	"github.com/oleiade/lane"
)

// Reachable returns the blocks reachable from entry in breadth-first order.
// Eliminated blocks are never entered, except entry itself.
func Reachable(entry *Block) []*Block {
	var ret []*Block
	q := lane.NewQueue()
	vis := map[*Block]bool{entry: true}

	/* breadth-first search from the entry */
	for q.Enqueue(entry); !q.Empty(); {
		bb := q.Dequeue().(*Block)
		ret = append(ret, bb)

		/* add every live successor */
		for _, p := range bb.Successors() {
			if !p.Dead && !vis[p] {
				vis[p] = true
				q.Enqueue(p)
			}
		}
	}

	/* all done */
	return ret
}

type _Printer struct {
	w  io.Writer
	id map[*Block]int
}

func (self *_Printer) name(bb *Block) string {
	if i, ok := self.id[bb]; ok {
		return fmt.Sprintf("Block#%d", i)
	} else if bb.Dead {
		return fmt.Sprintf("Block#? (%s, dead)", bb)
	} else {
		return fmt.Sprintf("Block#? (%s)", bb)
	}
}

func (self *_Printer) block(bb *Block) {
	fmt.Fprintf(self.w, "%s\n", self.name(bb))

	/* parents that are part of this dump */
	for _, p := range bb.parents {
		if _, ok := self.id[p]; ok {
			fmt.Fprintf(self.w, "    Parent: %s\n", self.name(p))
		}
	}

	/* Phi nodes */
	for _, p := range bb.phi {
		fmt.Fprintf(self.w, "    %s\n", p)
	}

	/* operations and their block-valued attributes */
	for _, op := range bb.Ops {
		fmt.Fprintf(self.w, "    %s\n", op)
		for _, sb := range op.SubBlocks() {
			for _, t := range sb.Targets() {
				if t.Block == nil {
					continue
				} else if sb.IsCollection() {
					fmt.Fprintf(self.w, "        %s[%d]: %s\n", sb.Name, t.Key, self.name(t.Block))
				} else {
					fmt.Fprintf(self.w, "        %s: %s\n", sb.Name, self.name(t.Block))
				}
			}
		}
	}
}

// Fprint dumps the live blocks of fn reachable from its entry. Blocks are
// numbered in dump order, so two structurally equal graphs produce the same
// text regardless of how their blocks were allocated.
func Fprint(w io.Writer, fn *Func) error {
	bb := Reachable(fn.Entry)
	cw := &_StickyWriter{w: w}
	pp := &_Printer{w: cw, id: make(map[*Block]int, len(bb))}

	/* number blocks in dump order */
	for i, p := range bb {
		pp.id[p] = i + 1
	}

	/* dump every block */
	for i, p := range bb {
		if i != 0 {
			fmt.Fprintln(cw)
		}
		pp.block(p)
	}

	/* check for write errors */
	return cw.err
}

// Sprint is like Fprint but returns the dump as a string.
func Sprint(fn *Func) string {
	var sb strings.Builder
	_ = Fprint(&sb, fn)
	return sb.String()
}

type _StickyWriter struct {
	w   io.Writer
	err error
}

func (self *_StickyWriter) Write(p []byte) (int, error) {
	if self.err != nil {
		return 0, self.err
	}
	n, err := self.w.Write(p)
	self.err = err
	return n, err
}
