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

package confengine

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const content = `
stripper:
  maxAttempts: 5
  strict: true
server:
  enabled: true
  address: "127.0.0.1:9093"
`

type stripperConfig struct {
	MaxAttempts int  `config:"maxAttempts"`
	Strict      bool `config:"strict"`
}

func TestLoadContent(t *testing.T) {
	conf, err := LoadContent([]byte(content))
	require.NoError(t, err)

	assert.True(t, conf.Has("stripper"))
	assert.True(t, conf.Has("stripper.strict"))
	assert.False(t, conf.Has("logger"))
	assert.True(t, conf.Has("server.enabled"))

	var sc stripperConfig
	require.NoError(t, conf.UnpackChild("stripper", &sc))
	assert.Equal(t, stripperConfig{MaxAttempts: 5, Strict: true}, sc)
}

func TestUnpackMissingChild(t *testing.T) {
	conf, err := LoadContent([]byte(content))
	require.NoError(t, err)

	sc := stripperConfig{MaxAttempts: 20}
	require.NoError(t, conf.UnpackChild("logger", &sc))
	assert.Equal(t, 20, sc.MaxAttempts)
}

func TestLoadConfigPath(t *testing.T) {
	t.Run("Empty", func(t *testing.T) {
		conf, err := LoadConfigPath("")
		require.NoError(t, err)
		assert.False(t, conf.Has("server"))
	})

	t.Run("File", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "decomment.yaml")
		require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

		conf, err := LoadConfigPath(path)
		require.NoError(t, err)
		assert.True(t, conf.Has("server.address"))
	})

	t.Run("Missing", func(t *testing.T) {
		_, err := LoadConfigPath(filepath.Join(t.TempDir(), "absent.yaml"))
		assert.Error(t, err)
	})
}
