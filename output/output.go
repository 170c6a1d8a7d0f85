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

package output

import (
	"io"
	"os"

	"github.com/pkg/errors"
)

type nopCloser struct {
	io.Writer
}

func (nopCloser) Close() error { return nil }

// Open 打开输出端
//
// path 为空时写入标准输出 Close 不会关闭 os.Stdout
// 否则创建 (或截断) 对应文件
func Open(path string) (io.WriteCloser, error) {
	if path == "" {
		return nopCloser{Writer: os.Stdout}, nil
	}

	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0o644)
	if err != nil {
		return nil, errors.Wrapf(err, "open output %s", path)
	}
	return f, nil
}
