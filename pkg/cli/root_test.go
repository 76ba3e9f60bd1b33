// Copyright (c) 2025, NVIDIA CORPORATION.  All rights reserved.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package cli

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/NVIDIA/host-init/pkg/config"
)

func TestNewCommandFlags(t *testing.T) {
	cmd := New()

	assert.Equal(t, "hostinit", cmd.Name)

	names := map[string]bool{}
	for _, f := range cmd.Flags {
		for _, n := range f.Names() {
			names[n] = true
		}
	}
	for _, want := range []string{"skip-update", "skip-packages", "config", "c", "log-level"} {
		assert.True(t, names[want], "missing flag %q", want)
	}
}

func TestNewRunnerWiring(t *testing.T) {
	dir := t.TempDir()
	cfg := config.Default()
	cfg.LogPath = filepath.Join(dir, "audit.log")

	runner, log, err := newRunner(cfg, true, false)
	require.NoError(t, err)
	defer log.Close()

	assert.True(t, runner.SkipUpdate)
	assert.False(t, runner.SkipPackages)
	assert.NotEmpty(t, runner.RunID)
	assert.Equal(t, cfg, runner.Config)
	assert.FileExists(t, cfg.LogPath)
}

func TestNewRunnerBadLogPath(t *testing.T) {
	cfg := config.Default()
	cfg.LogPath = filepath.Join(t.TempDir(), "missing", "\x00bad", "audit.log")

	_, _, err := newRunner(cfg, false, false)
	require.Error(t, err)
}
