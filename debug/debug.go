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


package debug

import (
	"sync/atomic"

	"github.com/cloudwego/cfgopt/internal/loader"
	"github.com/cloudwego/cfgopt/internal/passes"
)

// A Stats records statistics about the optimizer.
type Stats struct {
	Loader     LoaderStats
	Simplifier SimplifierStats
}

// A LoaderStats records statistics about the fixture loader.
type LoaderStats struct {
	Funcs  int
	Blocks int
}

// A SimplifierStats records statistics about jump threading.
type SimplifierStats struct {
	Eliminated   int
	ShortCircuit int
	PhiMerge     int
	PhiReject    int
	SelfLoop     int
}

// GetStats returns statistics of the optimizer since the process started.
func GetStats() Stats {
	return Stats{
		Loader: LoaderStats{
			Funcs:  int(atomic.LoadUint64(&loader.FnCount)),
			Blocks: int(atomic.LoadUint64(&loader.BlockCount)),
		},
		Simplifier: SimplifierStats{
			Eliminated:   int(atomic.LoadUint64(&passes.EliminatedCount)),
			ShortCircuit: int(atomic.LoadUint64(&passes.ShortCircuitCount)),
			PhiMerge:     int(atomic.LoadUint64(&passes.PhiMergeCount)),
			PhiReject:    int(atomic.LoadUint64(&passes.PhiRejectCount)),
			SelfLoop:     int(atomic.LoadUint64(&passes.SelfLoopCount)),
		},
	}
}
