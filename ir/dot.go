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
	"html"
	"io"
	"strings"
)

func dotrow(buf []string, w *int, s string) []string {
	if len(s) > *w {
		*w = len(s)
	}
	vv := strings.ReplaceAll(html.EscapeString(s), " ", "&nbsp;")
	return append(buf, fmt.Sprintf(`<tr><td align="left">%s</td></tr>`, vv))
}

func dotlabel(bb *Block) string {
	var w int
	var phi []string
	var ins []string
	var meta []string

	/* parents of the block */
	pred := make([]string, 0, len(bb.parents))
	for _, p := range bb.parents {
		pred = append(pred, p.String())
	}

	/* block contents */
	meta = dotrow(meta, &w, fmt.Sprintf("# pred = {%s}", strings.Join(pred, ", ")))
	for _, v := range bb.phi {
		phi = dotrow(phi, &w, v.String())
	}
	for _, v := range bb.Ops {
		ins = dotrow(ins, &w, v.String())
	}

	/* build the table */
	buf := []string{
		`<table border="1" cellborder="0" cellspacing="0">`,
		fmt.Sprintf(`<tr><td width="%d">%s</td></tr>`, w*10+5, bb),
		"<hr/>",
	}
	buf = append(buf, meta...)
	if len(phi) != 0 {
		buf = append(buf, "<hr/>")
		buf = append(buf, phi...)
	}
	if len(ins) != 0 {
		buf = append(buf, "<hr/>")
		buf = append(buf, ins...)
	}

	/* close the table */
	buf = append(buf, "</table>")
	return strings.Join(buf, "")
}

// WriteDot renders the live part of fn as a Graphviz digraph. Every edge is
// labeled with the name of the attribute it comes from.
func WriteDot(w io.Writer, fn *Func) error {
	e := make(map[[2]*Block]bool)
	buf := []string{
		fmt.Sprintf("digraph %q {", fn.Name),
		`    graph [ fontname = "Fira Code" ]`,
		`    node [ fontname = "Fira Code" fontsize = "16" shape = "plaintext" ]`,
		`    edge [ fontname = "Fira Code" ]`,
		`    START [ shape = "circle" ]`,
		fmt.Sprintf(`    START -> %s`, fn.Entry),
	}

	/* add every node and edge */
	for _, p := range Reachable(fn.Entry) {
		buf = append(buf, fmt.Sprintf(`    %s [ label = < %s > ]`, p, dotlabel(p)))
		for _, op := range p.Ops {
			for _, sb := range op.SubBlocks() {
				for _, t := range sb.Targets() {
					if t.Block == nil || t.Block.Dead || e[[2]*Block{p, t.Block}] {
						continue
					}
					e[[2]*Block{p, t.Block}] = true
					if sb.IsCollection() {
						buf = append(buf, fmt.Sprintf(`    %s -> %s [ label = "%s[%d]" ]`, p, t.Block, sb.Name, t.Key))
					} else {
						buf = append(buf, fmt.Sprintf(`    %s -> %s [ label = "%s" ]`, p, t.Block, sb.Name))
					}
				}
			}
		}
	}

	/* write the graph */
	buf = append(buf, "}\n")
	_, err := io.WriteString(w, strings.Join(buf, "\n"))
	return err
}
