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

package sysctl

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRenderProfile(t *testing.T) {
	content, err := RenderProfile("hostinit")
	require.NoError(t, err)

	assert.True(t, strings.HasPrefix(content, "# Kernel tunable profile v1, managed by hostinit."))

	// Every tunable appears exactly once as "key = value".
	for _, p := range Profile() {
		line := fmt.Sprintf("%s = %s", p.Key, p.Value)
		assert.Equal(t, 1, strings.Count(content, line), line)
	}

	// The static contract pins the hardening choices.
	assert.Contains(t, content, "net.ipv4.ip_forward = 0")
	assert.Contains(t, content, "kernel.sysrq = 0")
	assert.Contains(t, content, "fs.suid_dumpable = 0")
	assert.Contains(t, content, "net.ipv4.tcp_congestion_control = bbr")
}

func TestRenderProfileDeterministic(t *testing.T) {
	first, err := RenderProfile("hostinit")
	require.NoError(t, err)
	second, err := RenderProfile("hostinit")
	require.NoError(t, err)
	assert.Equal(t, first, second)
}

func newTestApplier(t *testing.T, inContainer bool) (*Applier, *[]string, *map[string]error) {
	t.Helper()

	loaded := []string{}
	failures := map[string]error{}
	a := &Applier{
		Path:        filepath.Join(t.TempDir(), "99-hostinit.conf"),
		Tool:        "hostinit",
		InContainer: inContainer,
		load: func(ctx context.Context, key, value string) error {
			if err, ok := failures[key]; ok {
				return err
			}
			loaded = append(loaded, key)
			return nil
		},
	}
	return a, &loaded, &failures
}

func TestApplyWritesFileAndLoads(t *testing.T) {
	a, loaded, _ := newTestApplier(t, false)

	warnings, err := a.Apply(context.Background())
	require.NoError(t, err)
	assert.Empty(t, warnings)
	assert.Len(t, *loaded, len(Profile()))

	info, err := os.Stat(a.Path)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o644), info.Mode().Perm())

	data, err := os.ReadFile(a.Path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "net.ipv4.tcp_syncookies = 1")
}

func TestApplyRejectedTunableIsWarning(t *testing.T) {
	a, loaded, failures := newTestApplier(t, false)
	(*failures)["net.ipv4.tcp_congestion_control"] = fmt.Errorf("setting key: no such file or directory")

	warnings, err := a.Apply(context.Background())
	require.NoError(t, err, "a rejected tunable must not fail the step")
	require.Len(t, warnings, 1)
	assert.Contains(t, warnings[0], "net.ipv4.tcp_congestion_control")
	assert.Len(t, *loaded, len(Profile())-1)
}

func TestApplySkippedInContainer(t *testing.T) {
	a, loaded, _ := newTestApplier(t, true)

	warnings, err := a.Apply(context.Background())
	require.NoError(t, err)
	require.Len(t, warnings, 1)
	assert.Contains(t, warnings[0], "container")
	assert.Empty(t, *loaded)

	// No drop-in is written inside a container.
	_, statErr := os.Stat(a.Path)
	assert.True(t, os.IsNotExist(statErr))
}

func TestApplyUnwritablePathIsFatal(t *testing.T) {
	a, _, _ := newTestApplier(t, false)
	a.Path = filepath.Join(a.Path, "nested", "file.conf")

	_, err := a.Apply(context.Background())
	assert.Error(t, err)
}
