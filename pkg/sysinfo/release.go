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

	"github.com/NVIDIA/host-init/pkg/file"
)

var (
	releasePathPrimary  = "/etc/os-release"
	releasePathFallback = "/usr/lib/os-release"
)

// release parses the os-release file into key-value pairs. Per the
// freedesktop.org spec, falls back to /usr/lib/os-release when the
// primary file does not exist.
//
//	NAME="Ubuntu"
//	ID=ubuntu
//	ID_LIKE=debian
//	PRETTY_NAME="Ubuntu 22.04.4 LTS"
func (d *Detector) release() (map[string]string, error) {
	root := d.ReleasePath
	if root == "" {
		root = releasePathPrimary
		if _, err := os.Stat(root); os.IsNotExist(err) {
			root = releasePathFallback
		}
	}

	parser := file.NewParser(
		// Remove surrounding quotes if any per freedesktop.org spec.
		file.WithVTrimChars(`"'`),
		file.WithSkipEmptyValues(true),
	)
	return parser.GetMap(root)
}

// familyOf maps an os-release ID (and ID_LIKE chain) to a Family.
func familyOf(id, idLike string) Family {
	ids := append([]string{strings.ToLower(id)}, strings.Fields(strings.ToLower(idLike))...)
	for _, v := range ids {
		switch v {
		case "debian", "ubuntu", "linuxmint", "pop", "raspbian":
			return FamilyDebian
		case "rhel", "centos", "rocky", "almalinux", "fedora", "amzn", "ol":
			return FamilyRHEL
		case "sles", "opensuse", "opensuse-leap", "opensuse-tumbleweed", "suse":
			return FamilySUSE
		case "arch", "archarm", "manjaro", "endeavouros":
			return FamilyArch
		}
	}
	return FamilyUnknown
}

// packageManagerFor returns the package manager binary for a family,
// preferring dnf over yum when both could apply and the dnf binary exists.
func packageManagerFor(f Family) string {
	switch f {
	case FamilyDebian:
		return "apt-get"
	case FamilyRHEL:
		if _, err := os.Stat("/usr/bin/dnf"); err == nil {
			return "dnf"
		}
		return "yum"
	case FamilySUSE:
		return "zypper"
	case FamilyArch:
		return "pacman"
	default:
		return ""
	}
}
