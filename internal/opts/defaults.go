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

package opts

import (
	"log/slog"
	"os"
	"strconv"
)

const (
	_DefaultVerify   = false
	_DefaultLogLevel = slog.LevelInfo
)

var (
	Verify     = parseBoolOrDefault("CFGOPT_VERIFY", _DefaultVerify)
	DumpBefore = os.Getenv("CFGOPT_DUMP_BEFORE")
	DumpAfter  = os.Getenv("CFGOPT_DUMP_AFTER")
	LogLevel   = parseLevelOrDefault("CFGOPT_LOG_LEVEL", _DefaultLogLevel)
)

func parseBoolOrDefault(key string, def bool) bool {
	if env := os.Getenv(key); env == "" {
		return def
	} else if val, err := strconv.ParseBool(env); err != nil {
		panic("cfgopt: invalid value for " + key)
	} else {
		return val
	}
}

func parseLevelOrDefault(key string, def slog.Level) slog.Level {
	var lv slog.Level
	if env := os.Getenv(key); env == "" {
		return def
	} else if err := lv.UnmarshalText([]byte(env)); err != nil {
		panic("cfgopt: invalid value for " + key)
	} else {
		return lv
	}
}

func overrideFromEnv(o *Options) {
	o.Verify = parseBoolOrDefault("CFGOPT_VERIFY", o.Verify)
	o.LogLevel = parseLevelOrDefault("CFGOPT_LOG_LEVEL", o.LogLevel)

	/* empty dump patterns are meaningful, so only check for presence */
	if env, ok := os.LookupEnv("CFGOPT_DUMP_BEFORE"); ok {
		o.DumpBefore = env
	}
	if env, ok := os.LookupEnv("CFGOPT_DUMP_AFTER"); ok {
		o.DumpAfter = env
	}
}
