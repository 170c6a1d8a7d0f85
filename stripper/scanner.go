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

// scanner 单次 Strip 的全部状态
//
// 不变量: 0 <= mark <= pos <= len(buf)
// [0, mark) 已写出且只写出一次 [mark, pos) 为待输出的代码字节 [pos, len) 尚未扫描
type scanner struct {
	buf     []byte
	pos     int
	mark    int
	mode    Mode
	start   int // 当前注释的起始偏移
	flusher *Flusher
	stats   *Stats
}

// peek 判断 pos 的下一个字节是否为 c 越界时返回 false
func (s *scanner) peek(c byte) bool {
	return s.pos+1 < len(s.buf) && s.buf[s.pos+1] == c
}

func (s *scanner) flush() error {
	mark, err := s.flusher.Flush(s.buf, s.mark, s.pos)
	s.mark = mark
	return err
}

func (s *scanner) scanCode() error {
	switch c := s.buf[s.pos]; {
	case c == '\n':
		s.pos++
		return s.flush()

	case c == '/' && s.peek('*'):
		if err := s.flush(); err != nil {
			return err
		}
		s.mode = ModeComment
		s.start = s.pos
		s.stats.Comments++
		s.pos += 2
		s.mark = s.pos

	default:
		s.pos++
	}
	return nil
}

func (s *scanner) scanComment() {
	if s.buf[s.pos] == '*' && s.peek('/') {
		s.pos += 2
		s.mode = ModeCode
	} else {
		s.pos++
	}
	s.mark = s.pos
}

func (s *scanner) run() error {
	for s.pos < len(s.buf) {
		switch s.mode {
		case ModeCode:
			if err := s.scanCode(); err != nil {
				return err
			}
		case ModeComment:
			s.scanComment()
		}
	}

	if s.mode == ModeCode {
		return s.flush()
	}
	s.stats.Unterminated = true
	s.stats.UnterminatedOffset = s.start
	return nil
}

// Strip 将 buf 中的块注释移除后写入 w
//
// 注释以外的字节 (包括换行) 原样输出 每遇到换行即写出一行
// 输入以未闭合的注释结尾时 注释部分不会被输出 Stats.Unterminated 置为 true
// opts.Strict 为 true 时额外返回 ErrUnterminatedComment
func Strip(w io.Writer, buf []byte, opts Options) (Stats, error) {
	opts.Validate()

	stats := Stats{InputBytes: len(buf)}
	s := &scanner{
		buf:     buf,
		mode:    ModeCode,
		flusher: NewFlusher(w, opts.MaxAttempts, &stats),
		stats:   &stats,
	}

	if err := s.run(); err != nil {
		return stats, err
	}
	if stats.Unterminated && opts.Strict {
		return stats, errors.Wrapf(ErrUnterminatedComment, "comment opened at offset %d", stats.UnterminatedOffset)
	}
	return stats, nil
}
