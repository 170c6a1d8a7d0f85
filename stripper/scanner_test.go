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
	"math/rand"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// reference 按定义逐字节实现的注释移除 用于对照
func reference(in []byte) []byte {
	out := make([]byte, 0, len(in))
	for i := 0; i < len(in); {
		if i+1 < len(in) && in[i] == '/' && in[i+1] == '*' {
			end := bytes.Index(in[i+2:], []byte("*/"))
			if end < 0 {
				break
			}
			i += 2 + end + 2
			continue
		}
		out = append(out, in[i])
		i++
	}
	return out
}

func TestStrip(t *testing.T) {
	tests := []struct {
		name         string
		input        string
		want         string
		comments     int
		unterminated bool
		offset       int
	}{
		{
			name:  "Empty",
			input: "",
			want:  "",
		},
		{
			name:  "NoComments",
			input: "int main() {\n\treturn 0;\n}\n",
			want:  "int main() {\n\treturn 0;\n}\n",
		},
		{
			name:     "Inline",
			input:    "a/*x*/b",
			want:     "ab",
			comments: 1,
		},
		{
			name:     "MultiLine",
			input:    "a\n/*\nfoo\n*/\nb",
			want:     "a\n\nb",
			comments: 1,
		},
		{
			name:     "Adjacent",
			input:    "/*a*//*b*/c",
			want:     "c",
			comments: 2,
		},
		{
			name:  "SingleSlash",
			input: "/",
			want:  "/",
		},
		{
			name:  "TrailingSlash",
			input: "a\n/",
			want:  "a\n/",
		},
		{
			name:  "CloseWithoutOpen",
			input: "a*/b",
			want:  "a*/b",
		},
		{
			name:     "OpenDelimiterNotReused",
			input:    "/*/ x */y",
			want:     "y",
			comments: 1,
		},
		{
			name:     "StarRun",
			input:    "/***/x",
			want:     "x",
			comments: 1,
		},
		{
			name:     "NotNested",
			input:    "/* a /* b */ c */",
			want:     " c */",
			comments: 1,
		},
		{
			name:     "InsideStringLiteral",
			input:    "s = \"/* no */\";",
			want:     "s = \"\";",
			comments: 1,
		},
		{
			name:     "CRLF",
			input:    "a\r\n/*c*/b\r\n",
			want:     "a\r\nb\r\n",
			comments: 1,
		},
		{
			name:         "Unterminated",
			input:        "x/*y",
			want:         "x",
			comments:     1,
			unterminated: true,
			offset:       1,
		},
		{
			name:         "UnterminatedAtEnd",
			input:        "line\nx/*",
			want:         "line\nx",
			comments:     1,
			unterminated: true,
			offset:       6,
		},
		{
			name:         "UnterminatedHalfClose",
			input:        "/* *",
			want:         "",
			comments:     1,
			unterminated: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			stats, err := Strip(&buf, []byte(tt.input), Options{})
			require.NoError(t, err)
			assert.Equal(t, tt.want, buf.String())
			assert.Equal(t, tt.comments, stats.Comments)
			assert.Equal(t, tt.unterminated, stats.Unterminated)
			assert.Equal(t, tt.offset, stats.UnterminatedOffset)
			assert.Equal(t, len(tt.input), stats.InputBytes)
			assert.Equal(t, len(tt.want), stats.OutputBytes)
		})
	}
}

func TestStripStrict(t *testing.T) {
	t.Run("Unterminated", func(t *testing.T) {
		var buf bytes.Buffer
		stats, err := Strip(&buf, []byte("x\n/*y"), Options{Strict: true})
		assert.ErrorIs(t, err, ErrUnterminatedComment)
		assert.Equal(t, "x\n", buf.String())
		assert.True(t, stats.Unterminated)
		assert.Equal(t, 2, stats.UnterminatedOffset)
	})

	t.Run("Terminated", func(t *testing.T) {
		var buf bytes.Buffer
		_, err := Strip(&buf, []byte("x/*y*/"), Options{Strict: true})
		assert.NoError(t, err)
		assert.Equal(t, "x", buf.String())
	})
}

func TestStripFlushPerLine(t *testing.T) {
	w := &recordWriter{}
	_, err := Strip(w, []byte("a\nbb/*c*/d\n\ne"), Options{})
	require.NoError(t, err)
	assert.Equal(t, []string{"a\n", "bb", "d\n", "\n", "e"}, w.writes)
}

func TestStripIdempotent(t *testing.T) {
	input := []byte("/* header */\npackage main\n\nfunc main() { /* body */ }\n")

	var first bytes.Buffer
	_, err := Strip(&first, input, Options{})
	require.NoError(t, err)

	var second bytes.Buffer
	_, err = Strip(&second, first.Bytes(), Options{})
	require.NoError(t, err)
	assert.Equal(t, first.String(), second.String())
}

func TestStripRandomChunks(t *testing.T) {
	rnd := rand.New(rand.NewSource(42))
	alphabet := []byte("ab/*\n ")

	for i := 0; i < 200; i++ {
		input := make([]byte, rnd.Intn(256))
		for j := range input {
			input[j] = alphabet[rnd.Intn(len(alphabet))]
		}

		w := &chunkWriter{rnd: rnd, max: 3}
		_, err := Strip(w, input, Options{MaxAttempts: len(input) + 1})
		require.NoError(t, err)
		assert.Equal(t, string(reference(input)), w.buf.String(), "input: %q", input)
	}
}

func FuzzStrip(f *testing.F) {
	for _, seed := range []string{"a/*x*/b", "a\n/*\nfoo\n*/\nb", "/*a*//*b*/c", "/", "x/*y", "/*/*/"} {
		f.Add([]byte(seed))
	}
	f.Fuzz(func(t *testing.T, input []byte) {
		var buf bytes.Buffer
		_, err := Strip(&buf, input, Options{})
		if err != nil {
			t.Fatal(err)
		}
		if !bytes.Equal(reference(input), buf.Bytes()) {
			t.Fatalf("input %q: got %q", input, buf.Bytes())
		}
	})
}

func BenchmarkStrip(b *testing.B) {
	line := "int x = 1; /* inline comment */ int y = 2;\n"
	input := []byte(strings.Repeat(line, 1000))

	b.ReportAllocs()
	b.ResetTimer()
	b.SetBytes(int64(len(input)))

	for i := 0; i < b.N; i++ {
		var buf bytes.Buffer
		buf.Grow(len(input))
		_, _ = Strip(&buf, input, Options{})
	}
}
