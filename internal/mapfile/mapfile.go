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

package mapfile

import (
	"os"

	"github.com/pkg/errors"
)

// File 只读方式加载的整个文件内容
//
// Bytes 返回的切片在 Close 之后不可再访问
type File struct {
	data   []byte
	unmap  func([]byte) error
	closed bool
}

// Open 打开 path 并返回其完整内容的只读视图
//
// unix 平台下使用 mmap 其余平台读入内存 空文件不做映射
func Open(path string) (*File, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	fi, err := f.Stat()
	if err != nil {
		return nil, err
	}
	if fi.IsDir() {
		return nil, errors.Errorf("%s is a directory", path)
	}

	size := fi.Size()
	if size == 0 {
		return &File{}, nil
	}
	if int64(int(size)) != size {
		return nil, errors.Errorf("%s is too large (%d bytes)", path, size)
	}
	return load(f, int(size))
}

// Bytes 返回文件内容 调用方不得修改
func (f *File) Bytes() []byte {
	return f.data
}

func (f *File) Close() error {
	if f.closed {
		return nil
	}
	f.closed = true

	data := f.data
	f.data = nil
	if f.unmap == nil || data == nil {
		return nil
	}
	return f.unmap(data)
}

// ReadFile 将文件完整读入内存
//
// 文件可能在读取期间被其他进程截断时使用 此时访问 mmap 区域会触发 SIGBUS
func ReadFile(path string) (*File, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return &File{data: data}, nil
}
