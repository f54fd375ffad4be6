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

// Package reach answers reachability questions over a snapshot of the live
// edges of a control flow graph.
package reach

import (
	"sort"

	"gonum.org/v1/gonum/graph"
	"gonum.org/v1/gonum/graph/simple"
	"gonum.org/v1/gonum/graph/topo"
	"gonum.org/v1/gonum/graph/traverse"

	"github.com/cloudwego/cfgopt/ir"
)

// Graph is a snapshot of the live edges between the blocks reachable from
// an entry. Later changes to the blocks are not reflected.
type Graph struct {
	g   *simple.DirectedGraph
	ids map[*ir.Block]int64
	bbs map[int64]*ir.Block
}

// New takes a snapshot of the blocks reachable from entry.
func New(entry *ir.Block) *Graph {
	bb := ir.Reachable(entry)
	ret := &Graph{
		g:   simple.NewDirectedGraph(),
		ids: make(map[*ir.Block]int64, len(bb)),
		bbs: make(map[int64]*ir.Block, len(bb)),
	}

	/* add every block as a node */
	for i, p := range bb {
		id := int64(i)
		ret.ids[p] = id
		ret.bbs[id] = p
		ret.g.AddNode(simple.Node(id))
	}

	/* add every live edge, self edges never change reachability */
	for _, p := range bb {
		for _, q := range p.Successors() {
			if id, ok := ret.ids[q]; ok && q != p {
				ret.g.SetEdge(ret.g.NewEdge(simple.Node(ret.ids[p]), simple.Node(id)))
			}
		}
	}

	/* all done */
	return ret
}

// Has reports whether bb is part of the snapshot.
func (self *Graph) Has(bb *ir.Block) bool {
	_, ok := self.ids[bb]
	return ok
}

// Len returns the number of blocks in the snapshot.
func (self *Graph) Len() int {
	return len(self.ids)
}

// Reachable returns the blocks reachable from bb, including bb itself,
// ordered by block ID.
func (self *Graph) Reachable(bb *ir.Block) []*ir.Block {
	var ret []*ir.Block
	var bfs traverse.BreadthFirst

	/* not part of this graph */
	id, ok := self.ids[bb]
	if !ok {
		return nil
	}

	/* walk the whole component */
	bfs.Visit = func(n graph.Node) { ret = append(ret, self.bbs[n.ID()]) }
	bfs.Walk(self.g, simple.Node(id), nil)

	/* order by block ID */
	sort.Slice(ret, func(i int, j int) bool { return ret[i].Id < ret[j].Id })
	return ret
}

// PathExists reports whether there is a path from one block to another.
func (self *Graph) PathExists(from *ir.Block, to *ir.Block) bool {
	u, ok1 := self.ids[from]
	v, ok2 := self.ids[to]
	return ok1 && ok2 && topo.PathExistsIn(self.g, simple.Node(u), simple.Node(v))
}
