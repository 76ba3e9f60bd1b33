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

package hosts

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestEditor(t *testing.T, content string) *Editor {
	t.Helper()
	path := filepath.Join(t.TempDir(), "hosts")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return &Editor{
		Path:  path,
		Alias: "127.0.1.1",
		now:   func() time.Time { return time.Date(2025, 1, 15, 10, 30, 0, 0, time.UTC) },
	}
}

func read(t *testing.T, path string) string {
	t.Helper()
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	return string(data)
}

func TestUpdateReplacesAliasPreservesRest(t *testing.T) {
	e := newTestEditor(t, `127.0.0.1	localhost
127.0.1.1	old-name

# The following lines are desirable for IPv6 capable hosts
::1     ip6-localhost ip6-loopback
ff02::1 ip6-allnodes
10.0.0.5	fileserver
`)

	require.NoError(t, e.Update(context.Background(), "prod-db-01"))
	got := read(t, e.Path)

	assert.NotContains(t, got, "old-name")
	assert.Contains(t, got, "127.0.1.1\tprod-db-01")

	// Unrelated lines survive byte-identical and in order.
	idxComment := strings.Index(got, "# The following lines are desirable for IPv6 capable hosts")
	idxV6 := strings.Index(got, "::1     ip6-localhost ip6-loopback")
	idxFile := strings.Index(got, "10.0.0.5\tfileserver")
	require.True(t, idxComment >= 0 && idxV6 >= 0 && idxFile >= 0)
	assert.Less(t, idxComment, idxV6)
	assert.Less(t, idxV6, idxFile)
}

func TestUpdateIdempotent(t *testing.T) {
	e := newTestEditor(t, "127.0.0.1\tlocalhost\n")

	require.NoError(t, e.Update(context.Background(), "host-a"))
	require.NoError(t, e.Update(context.Background(), "host-a"))

	got := read(t, e.Path)
	assert.Equal(t, 1, strings.Count(got, "127.0.1.1"), "exactly one alias line after repeated runs")
	assert.Contains(t, got, "127.0.1.1\thost-a")
}

func TestUpdateRemovesAllStaleAliasLines(t *testing.T) {
	e := newTestEditor(t, "127.0.0.1\tlocalhost\n127.0.1.1\tstale-one\n127.0.1.1 stale-two\n")

	require.NoError(t, e.Update(context.Background(), "fresh"))
	got := read(t, e.Path)

	assert.NotContains(t, got, "stale-one")
	assert.NotContains(t, got, "stale-two")
	assert.Equal(t, 1, strings.Count(got, "127.0.1.1"))
}

func TestUpdateKeepsAliasPrefixedAddresses(t *testing.T) {
	// 127.0.1.10 begins with the alias bytes but is a different address.
	e := newTestEditor(t, "127.0.0.1\tlocalhost\n127.0.1.10\tother-box\n")

	require.NoError(t, e.Update(context.Background(), "host-a"))
	assert.Contains(t, read(t, e.Path), "127.0.1.10\tother-box")
}

func TestUpdateAppendsMissingLocalhost(t *testing.T) {
	e := newTestEditor(t, "10.0.0.5\tfileserver\n")

	require.NoError(t, e.Update(context.Background(), "host-a"))
	assert.Contains(t, read(t, e.Path), "127.0.0.1\tlocalhost")
}

func TestUpdateWritesSecondaryBackup(t *testing.T) {
	original := "127.0.0.1\tlocalhost\n127.0.1.1\told\n"
	e := newTestEditor(t, original)

	require.NoError(t, e.Update(context.Background(), "host-a"))

	backup := e.Path + ".bak.20250115-103000"
	assert.Equal(t, original, read(t, backup), "backup preserves the pre-mutation table")
}

func TestUpdateMissingTableFails(t *testing.T) {
	e := newTestEditor(t, "")
	e.Path = filepath.Join(filepath.Dir(e.Path), "missing")

	assert.Error(t, e.Update(context.Background(), "host-a"))
}

func TestValidateSyntax(t *testing.T) {
	tests := []struct {
		name             string
		content          string
		expectedWarnings int
	}{
		{
			name:             "clean table",
			content:          "127.0.0.1\tlocalhost\n# comment\n\n::1 ip6-localhost\n",
			expectedWarnings: 0,
		},
		{
			name:             "address only",
			content:          "127.0.0.1\n",
			expectedWarnings: 1,
		},
		{
			name:             "not an address",
			content:          "not-an-ip somehost\n",
			expectedWarnings: 1,
		},
		{
			name:             "multiple problems",
			content:          "127.0.0.1\nbogus host\n",
			expectedWarnings: 2,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := newTestEditor(t, tt.content)
			warnings, err := e.ValidateSyntax()
			require.NoError(t, err)
			assert.Len(t, warnings, tt.expectedWarnings)
		})
	}
}

func TestResolutionLocalhost(t *testing.T) {
	e := newTestEditor(t, "")
	// localhost should resolve on any test host.
	assert.NoError(t, e.TestResolution(context.Background(), "localhost"))
}
