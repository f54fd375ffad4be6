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
	"fmt"
	"io"
	"log/slog"
	"os"

	"gopkg.in/yaml.v3"
)

type Options struct {
	Verify     bool       `yaml:"verify"`
	DumpBefore string     `yaml:"dump_before"`
	DumpAfter  string     `yaml:"dump_after"`
	LogLevel   slog.Level `yaml:"log_level"`

	Output io.Writer    `yaml:"-"`
	Logger *slog.Logger `yaml:"-"`
}

// DumpsBefore reports whether the graph must be dumped before the named pass,
// "*" matches every pass.
func (self *Options) DumpsBefore(pass string) bool {
	return self.DumpBefore == "*" || (self.DumpBefore != "" && self.DumpBefore == pass)
}

// DumpsAfter is like DumpsBefore, but after the named pass.
func (self *Options) DumpsAfter(pass string) bool {
	return self.DumpAfter == "*" || (self.DumpAfter != "" && self.DumpAfter == pass)
}

func (self *Options) Out() io.Writer {
	if self.Output == nil {
		return os.Stderr
	} else {
		return self.Output
	}
}

func (self *Options) Log() *slog.Logger {
	if self.Logger == nil {
		return slog.Default()
	} else {
		return self.Logger
	}
}

func GetDefaultOptions() Options {
	return Options{
		Verify:     Verify,
		DumpBefore: DumpBefore,
		DumpAfter:  DumpAfter,
		LogLevel:   LogLevel,
	}
}

// LoadFile reads options from a YAML file. Environment variables that are
// set take precedence over the file.
func LoadFile(path string) (Options, error) {
	ret := Options{
		Verify:   _DefaultVerify,
		LogLevel: _DefaultLogLevel,
	}

	/* read and parse the file */
	if data, err := os.ReadFile(path); err != nil {
		return Options{}, fmt.Errorf("read config file %s: %w", path, err)
	} else if err = yaml.Unmarshal(data, &ret); err != nil {
		return Options{}, fmt.Errorf("parse config file %s: %w", path, err)
	}

	/* environment overrides */
	overrideFromEnv(&ret)
	return ret, nil
}
