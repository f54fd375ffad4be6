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


package cfgopt

import (
	"github.com/cloudwego/cfgopt/internal/loader"
	"github.com/cloudwego/cfgopt/internal/passes"
)

// VerifyError occurs when the parent lists and the edges of a graph disagree.
type VerifyError = passes.VerifyError

// FixtureError occurs when a fixture is malformed.
type FixtureError = loader.FixtureError
