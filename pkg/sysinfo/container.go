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
	"os"
	"strings"
)

var (
	containerMarkerFiles = []string{
		"/.dockerenv",
		"/run/.containerenv",
	}

	cgroupPath = "/proc/1/cgroup"

	cgroupMarkers = []string{
		"docker",
		"containerd",
		"kubepods",
		"lxc",
		"libpod",
	}
)

// inContainer probes the standard container runtime markers: the Docker
// and Podman sentinel files, the systemd "container" environment variable
// propagated to PID 1, and runtime names in the PID 1 cgroup hierarchy.
func inContainer() bool {
	for _, marker := range containerMarkerFiles {
		if _, err := os.Stat(marker); err == nil {
			return true
		}
	}

	if os.Getenv("container") != "" {
		return true
	}

	return cgroupIndicatesContainer(cgroupPath)
}

func cgroupIndicatesContainer(path string) bool {
	b, err := os.ReadFile(path)
	if err != nil {
		return false
	}
	content := string(b)
	for _, marker := range cgroupMarkers {
		if strings.Contains(content, marker) {
			return true
		}
	}
	return false
}
