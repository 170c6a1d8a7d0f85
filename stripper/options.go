// Copyright 2025 The decomment Authors
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
// http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package stripper

import (
	"github.com/packetd/decomment/common"
)

type Options struct {
	// MaxAttempts 单次 Flush 允许调用 Write 的最大次数
	MaxAttempts int `config:"maxAttempts"`

	// Strict 为 true 时未闭合的块注释会作为错误返回
	Strict bool `config:"strict"`
}

func (o *Options) Validate() {
	if o.MaxAttempts <= 0 {
		o.MaxAttempts = common.MaxWriteAttempts
	}
}

// Stats 记录单次 Strip 的统计信息
type Stats struct {
	InputBytes  int `json:"inputBytes"`
	OutputBytes int `json:"outputBytes"`
	Comments    int `json:"comments"`
	Flushes     int `json:"flushes"`
	Writes      int `json:"writes"`
	ShortWrites int `json:"shortWrites"`

	// Unterminated 输入以未闭合的注释结尾 UnterminatedOffset 为其 /* 所在偏移
	Unterminated       bool `json:"unterminated"`
	UnterminatedOffset int  `json:"unterminatedOffset"`
}
