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

// Mode 扫描器当前所处的状态
type Mode uint8

const (
	// ModeCode 普通代码 字节会进入待输出区间
	ModeCode Mode = iota

	// ModeComment 块注释内部 字节会被直接丢弃
	ModeComment
)

func (m Mode) String() string {
	switch m {
	case ModeCode:
		return "code"
	case ModeComment:
		return "comment"
	}
	return "unknown"
}
