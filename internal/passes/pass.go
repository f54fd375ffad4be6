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
	"fmt"

	"github.com/cloudwego/cfgopt/internal/opts"
	"github.com/cloudwego/cfgopt/ir"
)

type Pass interface {
	Apply(*ir.Func)
}

type PassDescriptor struct {
	Pass Pass
	Name string
}

var Passes = [...]PassDescriptor{
	{Name: "Jump Threading", Pass: new(JumpThreading)},
}

// JumpThreading runs a single Simplifier over every block reachable from
// the entry of a function.
type JumpThreading struct{}

func (JumpThreading) Apply(fn *ir.Func) {
	NewTraverser(NewSimplifier()).Traverse(fn.Entry)
}

func countDead(fn *ir.Func) (n int) {
	for _, bb := range fn.Blocks {
		if bb.Dead {
			n++
		}
	}
	return
}

func dump(o *opts.Options, when string, pass string, fn *ir.Func) error {
	if _, err := fmt.Fprintf(o.Out(), "--- %s %s (%s) ---\n", when, pass, fn.Name); err != nil {
		return err
	} else if err = ir.Fprint(o.Out(), fn); err != nil {
		return err
	} else {
		_, err = fmt.Fprintln(o.Out())
		return err
	}
}

// Run applies the passes to fn in order. With o.Verify set, the graph is
// verified before and after every pass and the first violation is returned.
func Run(fn *ir.Func, passes []PassDescriptor, o *opts.Options) error {
	log := o.Log().With("func", fn.Name)

	/* apply every pass */
	for _, p := range passes {
		if o.DumpsBefore(p.Name) {
			if err := dump(o, "before", p.Name, fn); err != nil {
				return fmt.Errorf("dump before %s: %w", p.Name, err)
			}
		}

		/* verify the input */
		if o.Verify {
			if err := Verify(fn); err != nil {
				return fmt.Errorf("verify before %s: %w", p.Name, err)
			}
		}

		/* apply the pass */
		nb := countDead(fn)
		p.Pass.Apply(fn)
		log.Debug("pass applied", "pass", p.Name, "eliminated", countDead(fn)-nb)

		/* verify the output */
		if o.Verify {
			if err := Verify(fn); err != nil {
				return fmt.Errorf("verify after %s: %w", p.Name, err)
			}
		}

		/* dump the output */
		if o.DumpsAfter(p.Name) {
			if err := dump(o, "after", p.Name, fn); err != nil {
				return fmt.Errorf("dump after %s: %w", p.Name, err)
			}
		}
	}

	/* all done */
	return nil
}
