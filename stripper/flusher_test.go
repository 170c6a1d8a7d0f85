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
	"bytes"
	"io"
	"math/rand"
	"strings"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/packetd/decomment/common"
)

type recordWriter struct {
	writes []string
}

func (w *recordWriter) Write(p []byte) (int, error) {
	w.writes = append(w.writes, string(p))
	return len(p), nil
}

// chunkWriter 每次最多接收 [1, max] 字节
type chunkWriter struct {
	rnd *rand.Rand
	max int
	buf bytes.Buffer
}

func (w *chunkWriter) Write(p []byte) (int, error) {
	n := 1 + w.rnd.Intn(w.max)
	if n > len(p) {
		n = len(p)
	}
	return w.buf.Write(p[:n])
}

// limitWriter 每次只接收 n 字节 并通过 err 报告短写
type limitWriter struct {
	n     int
	err   error
	calls int
	buf   bytes.Buffer
}

func (w *limitWriter) Write(p []byte) (int, error) {
	w.calls++
	if len(p) <= w.n {
		return w.buf.Write(p)
	}
	w.buf.Write(p[:w.n])
	return w.n, w.err
}

type failWriter struct {
	n     int
	err   error
	calls int
}

func (w *failWriter) Write(p []byte) (int, error) {
	w.calls++
	return w.n, w.err
}

func TestFlusher(t *testing.T) {
	buf := []byte("hello world\n")

	t.Run("Full", func(t *testing.T) {
		w := &recordWriter{}
		var stats Stats
		mark, err := NewFlusher(w, common.MaxWriteAttempts, &stats).Flush(buf, 6, 12)
		require.NoError(t, err)
		assert.Equal(t, 12, mark)
		assert.Equal(t, []string{"world\n"}, w.writes)
		assert.Equal(t, 1, stats.Flushes)
		assert.Equal(t, 6, stats.OutputBytes)
	})

	t.Run("EmptyRange", func(t *testing.T) {
		w := &recordWriter{}
		mark, err := NewFlusher(w, common.MaxWriteAttempts, nil).Flush(buf, 3, 3)
		require.NoError(t, err)
		assert.Equal(t, 3, mark)
		assert.Empty(t, w.writes)
	})

	t.Run("ShortWriteNilError", func(t *testing.T) {
		w := &limitWriter{n: 5}
		var stats Stats
		mark, err := NewFlusher(w, common.MaxWriteAttempts, &stats).Flush(buf, 0, len(buf))
		require.NoError(t, err)
		assert.Equal(t, len(buf), mark)
		assert.Equal(t, string(buf), w.buf.String())
		assert.Equal(t, 3, w.calls)
		assert.Equal(t, 2, stats.ShortWrites)
	})

	t.Run("ShortWriteError", func(t *testing.T) {
		w := &limitWriter{n: 4, err: io.ErrShortWrite}
		mark, err := NewFlusher(w, common.MaxWriteAttempts, nil).Flush(buf, 0, len(buf))
		require.NoError(t, err)
		assert.Equal(t, len(buf), mark)
		assert.Equal(t, string(buf), w.buf.String())
	})

	t.Run("ExactAttempts", func(t *testing.T) {
		line := []byte(strings.Repeat("x", common.MaxWriteAttempts))
		w := &limitWriter{n: 1}
		_, err := NewFlusher(w, common.MaxWriteAttempts, nil).Flush(line, 0, len(line))
		require.NoError(t, err)
		assert.Equal(t, common.MaxWriteAttempts, w.calls)
	})

	t.Run("GaveUp", func(t *testing.T) {
		line := []byte(strings.Repeat("x", common.MaxWriteAttempts+1))
		w := &limitWriter{n: 1}
		mark, err := NewFlusher(w, common.MaxWriteAttempts, nil).Flush(line, 0, len(line))
		assert.ErrorIs(t, err, ErrGaveUp)
		assert.Equal(t, common.MaxWriteAttempts, mark)
		assert.Equal(t, common.MaxWriteAttempts, w.calls)
	})

	t.Run("ZeroProgress", func(t *testing.T) {
		w := &failWriter{}
		_, err := NewFlusher(w, common.MaxWriteAttempts, nil).Flush(buf, 0, len(buf))
		assert.ErrorIs(t, err, ErrGaveUp)
		assert.Equal(t, common.MaxWriteAttempts, w.calls)
	})

	t.Run("WriteError", func(t *testing.T) {
		errDisk := errors.New("disk full")
		w := &failWriter{err: errDisk}
		_, err := NewFlusher(w, common.MaxWriteAttempts, nil).Flush(buf, 0, len(buf))
		assert.ErrorIs(t, err, errDisk)
		assert.NotErrorIs(t, err, ErrGaveUp)
		assert.Equal(t, 1, w.calls)
	})

	t.Run("InvalidCount", func(t *testing.T) {
		w := &failWriter{n: -1}
		_, err := NewFlusher(w, common.MaxWriteAttempts, nil).Flush(buf, 0, len(buf))
		assert.Error(t, err)
		assert.NotErrorIs(t, err, ErrGaveUp)
		assert.Equal(t, 1, w.calls)
	})
}

func TestStripSinkFailure(t *testing.T) {
	t.Run("GaveUp", func(t *testing.T) {
		w := &failWriter{}
		_, err := Strip(w, []byte("a/*b*/c\n"), Options{})
		assert.ErrorIs(t, err, ErrGaveUp)
		assert.Equal(t, common.MaxWriteAttempts, w.calls)
	})

	t.Run("CustomAttempts", func(t *testing.T) {
		w := &failWriter{}
		_, err := Strip(w, []byte("abc"), Options{MaxAttempts: 3})
		assert.ErrorIs(t, err, ErrGaveUp)
		assert.Equal(t, 3, w.calls)
	})

	t.Run("StopsAtFirstError", func(t *testing.T) {
		w := &failWriter{err: errors.New("broken pipe")}
		_, err := Strip(w, []byte("a\nb\nc\n"), Options{})
		assert.Error(t, err)
		assert.Equal(t, 1, w.calls)
	})
}
