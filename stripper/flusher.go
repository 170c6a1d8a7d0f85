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
	"io"

	"github.com/pkg/errors"
)

// Flusher 负责将源缓冲区中的连续区间写入 Sink
//
// io.Writer 允许一次只写入部分数据 此时返回 n < len(p)
// 约定 err 为 nil 或者 io.ErrShortWrite 时视为短写 会继续写入剩余部分
// 其余错误均视为不可恢复 直接返回
type Flusher struct {
	w           io.Writer
	maxAttempts int
	stats       *Stats
}

// NewFlusher 创建并返回 *Flusher 实例 stats 允许为空
func NewFlusher(w io.Writer, maxAttempts int, stats *Stats) *Flusher {
	if stats == nil {
		stats = &Stats{}
	}
	return &Flusher{
		w:           w,
		maxAttempts: maxAttempts,
		stats:       stats,
	}
}

// Flush 写入 buf[mark:pos] 并返回新的 mark
//
// 成功时返回值恒等于 pos 失败时返回已经写出的位置
// maxAttempts 作用于整次 Flush 调用 而非单次 Write
func (f *Flusher) Flush(buf []byte, mark, pos int) (int, error) {
	total := pos - mark
	if total <= 0 {
		return mark, nil
	}
	f.stats.Flushes++

	var written, attempts int
	for written < total {
		if attempts >= f.maxAttempts {
			return mark + written, errors.Wrapf(ErrGaveUp, "%d/%d bytes written after %d attempts", written, total, attempts)
		}

		remain := buf[mark+written : pos]
		n, err := f.w.Write(remain)
		attempts++
		f.stats.Writes++

		if n < 0 || n > len(remain) {
			return mark + written, errors.Errorf("invalid write count %d (want <= %d)", n, len(remain))
		}
		written += n
		f.stats.OutputBytes += n

		if err != nil && !errors.Is(err, io.ErrShortWrite) {
			return mark + written, errors.Wrapf(err, "write output at offset %d", mark+written)
		}
		if written < total {
			f.stats.ShortWrites++
		}
	}
	return pos, nil
}
