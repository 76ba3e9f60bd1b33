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

package sysinfo

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeRelease(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "os-release")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestDetect(t *testing.T) {
	tests := []struct {
		name             string
		release          string
		expectedID       string
		expectedFamily   Family
		expectedPkgOneOf []string
	}{
		{
			name: "ubuntu",
			release: `NAME="Ubuntu"
ID=ubuntu
ID_LIKE=debian
PRETTY_NAME="Ubuntu 22.04.4 LTS"
`,
			expectedID:       "ubuntu",
			expectedFamily:   FamilyDebian,
			expectedPkgOneOf: []string{"apt-get"},
		},
		{
			name: "rocky",
			release: `NAME="Rocky Linux"
ID="rocky"
ID_LIKE="rhel centos fedora"
PRETTY_NAME="Rocky Linux 9.3 (Blue Onyx)"
`,
			expectedID:       "rocky",
			expectedFamily:   FamilyRHEL,
			expectedPkgOneOf: []string{"dnf", "yum"},
		},
		{
			name: "opensuse",
			release: `ID=opensuse-leap
ID_LIKE="suse opensuse"
PRETTY_NAME="openSUSE Leap 15.5"
`,
			expectedID:       "opensuse-leap",
			expectedFamily:   FamilySUSE,
			expectedPkgOneOf: []string{"zypper"},
		},
		{
			name: "arch",
			release: `ID=arch
PRETTY_NAME="Arch Linux"
`,
			expectedID:       "arch",
			expectedFamily:   FamilyArch,
			expectedPkgOneOf: []string{"pacman"},
		},
		{
			name: "unknown distribution",
			release: `ID=plan9ish
PRETTY_NAME="Mystery OS"
`,
			expectedID:       "plan9ish",
			expectedFamily:   FamilyUnknown,
			expectedPkgOneOf: []string{""},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := &Detector{
				ReleasePath:    writeRelease(t, tt.release),
				ContainerProbe: func() bool { return false },
			}

			sys, err := d.Detect(context.Background())
			require.NoError(t, err)
			assert.Equal(t, tt.expectedID, sys.DistributionID)
			assert.Equal(t, tt.expectedFamily, sys.Family)
			assert.Contains(t, tt.expectedPkgOneOf, sys.PackageManager)
			assert.False(t, sys.Container)
		})
	}
}

func TestDetectMissingRelease(t *testing.T) {
	d := &Detector{
		ReleasePath:    filepath.Join(t.TempDir(), "missing"),
		ContainerProbe: func() bool { return false },
	}
	_, err := d.Detect(context.Background())
	assert.Error(t, err)
}

func TestDetectContainerFlag(t *testing.T) {
	d := &Detector{
		ReleasePath:    writeRelease(t, "ID=ubuntu\n"),
		ContainerProbe: func() bool { return true },
	}
	sys, err := d.Detect(context.Background())
	require.NoError(t, err)
	assert.True(t, sys.Container)
}

func TestCgroupIndicatesContainer(t *testing.T) {
	tests := []struct {
		name     string
		content  string
		expected bool
	}{
		{
			name:     "docker cgroup",
			content:  "0::/system.slice/docker-abc123.scope\n",
			expected: true,
		},
		{
			name:     "kubernetes pod",
			content:  "0::/kubepods/besteffort/pod1234\n",
			expected: true,
		},
		{
			name:     "bare host",
			content:  "0::/init.scope\n",
			expected: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "cgroup")
			require.NoError(t, os.WriteFile(path, []byte(tt.content), 0o644))
			assert.Equal(t, tt.expected, cgroupIndicatesContainer(path))
		})
	}
}

func TestKernelRelease(t *testing.T) {
	// uname(2) should succeed on any Linux test host.
	assert.NotEmpty(t, kernelRelease())
}
