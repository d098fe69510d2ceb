// Copyright 2022 Matrix Origin
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package logutil

import (
	"go.uber.org/zap/zapcore"
)

// LogConfig serializes log related config in toml/json.
type LogConfig struct {
	//default is 'info'. the level of log.
	Level string `toml:"level"`

	//default is 'console'. the format of log, console or json.
	Format string `toml:"format"`

	//log file name. empty means stdout.
	Filename string `toml:"filename"`

	//maximum log file size in MB.
	MaxSize int `toml:"max-size"`

	//maximum log file days kept.
	MaxDays int `toml:"max-days"`

	//maximum number of old log files to retain.
	MaxBackups int `toml:"max-backups"`

	//default is 'panic'. the minimum level that records a stacktrace.
	StacktraceLevel string `toml:"stacktrace-level"`
}

// ZapSink couples an encoder with the syncer it writes to.
type ZapSink struct {
	enc zapcore.Encoder
	out zapcore.WriteSyncer
}
