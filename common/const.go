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

package common

const (
	// App 应用程序名称
	App = "decomment"

	// MaxWriteAttempts 单次 Flush 允许的最大写入次数
	//
	// 超过后认为输出端存在异常 放弃写入并返回错误
	MaxWriteAttempts = 20

	// MaxBodySize 服务模式下单个请求体的默认上限 (32MB)
	MaxBodySize = 32 << 20
)
