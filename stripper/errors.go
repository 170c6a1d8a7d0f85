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
	"github.com/pkg/errors"
)

var (
	// ErrGaveUp 单次 Flush 超过最大写入次数仍未写完
	//
	// 与 Sink 返回的 I/O 错误区分开 便于判断是 Sink 行为异常还是硬故障
	ErrGaveUp = errors.New("gave up writing output")

	// ErrUnterminatedComment 输入结束时仍处于块注释中 仅在 Strict 模式下返回
	ErrUnterminatedComment = errors.New("unterminated comment")
)
