// Licensed to the LF AI & Data foundation under one
// or more contributor license agreements. See the NOTICE file
// distributed with this work for additional information
// regarding copyright ownership. The ASF licenses this file
// to you under the Apache License, Version 2.0 (the
// "License"); you may not use this file except in compliance
// with the License. You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package log

import (
	"sync"

	"go.uber.org/zap/zapcore"
)

// lazyWithCore 把 core.With(fields) 推迟到第一次真正输出日志时执行。
type lazyWithCore struct {
	base   zapcore.Core
	fields []zapcore.Field

	once sync.Once
	core zapcore.Core
}

var _ zapcore.Core = (*lazyWithCore)(nil)

// NewLazyWith 返回一个在首次使用时才附加 fields 的 Core。
func NewLazyWith(core zapcore.Core, fields []zapcore.Field) zapcore.Core {
	return &lazyWithCore{base: core, fields: fields}
}

func (d *lazyWithCore) resolve() zapcore.Core {
	d.once.Do(func() {
		d.core = d.base.With(d.fields)
	})
	return d.core
}

// Enabled 只读取级别，不触发字段附加。
func (d *lazyWithCore) Enabled(level zapcore.Level) bool {
	return d.base.Enabled(level)
}

func (d *lazyWithCore) With(fields []zapcore.Field) zapcore.Core {
	return d.resolve().With(fields)
}

func (d *lazyWithCore) Check(e zapcore.Entry, ce *zapcore.CheckedEntry) *zapcore.CheckedEntry {
	if !d.base.Enabled(e.Level) {
		return ce
	}
	return d.resolve().Check(e, ce)
}

func (d *lazyWithCore) Write(entry zapcore.Entry, fields []zapcore.Field) error {
	return d.resolve().Write(entry, fields)
}

func (d *lazyWithCore) Sync() error {
	return d.base.Sync()
}
