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
	"fmt"
	"log/slog"
	"os"

	"golang.org/x/sys/unix"
)

// Family groups distributions by their package tooling lineage.
type Family string

const (
	// FamilyDebian covers Debian, Ubuntu and derivatives.
	FamilyDebian Family = "debian"
	// FamilyRHEL covers RHEL, CentOS, Rocky, Alma, Fedora.
	FamilyRHEL Family = "rhel"
	// FamilySUSE covers SLES and openSUSE.
	FamilySUSE Family = "suse"
	// FamilyArch covers Arch and derivatives.
	FamilyArch Family = "arch"
	// FamilyUnknown marks distributions the tool has no package mapping
	// for; package steps are skipped with a warning.
	FamilyUnknown Family = "unknown"
)

// System describes the execution environment of one run.
type System struct {
	// DistributionID is the os-release ID value (e.g. "ubuntu").
	DistributionID string

	// PrettyName is the os-release PRETTY_NAME value.
	PrettyName string

	// Family is the distribution family derived from ID and ID_LIKE.
	Family Family

	// PackageManager is the package manager binary for the family
	// ("apt-get", "dnf", "yum", "zypper", "pacman"), empty when unknown.
	PackageManager string

	// Container reports whether execution occurs inside a container.
	// Kernel-tunable mutation and live hostname application are restricted
	// in that case.
	Container bool

	// KernelRelease is the running kernel release string (uname -r).
	KernelRelease string
}

// Detector determines the distribution and runtime environment. The zero
// value probes the real system paths.
type Detector struct {
	// ReleasePath overrides the os-release location (tests).
	ReleasePath string

	// ContainerProbe overrides container detection (tests). Nil selects
	// the standard marker probing.
	ContainerProbe func() bool
}

// Detect gathers distribution, package-manager, container and kernel
// facts. Detection never mutates the system.
func (d *Detector) Detect(ctx context.Context) (*System, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	rel, err := d.release()
	if err != nil {
		return nil, fmt.Errorf("failed to detect distribution: %w", err)
	}

	sys := &System{
		DistributionID: rel["ID"],
		PrettyName:     rel["PRETTY_NAME"],
		Family:         familyOf(rel["ID"], rel["ID_LIKE"]),
	}
	sys.PackageManager = packageManagerFor(sys.Family)

	if d.ContainerProbe != nil {
		sys.Container = d.ContainerProbe()
	} else {
		sys.Container = inContainer()
	}

	sys.KernelRelease = kernelRelease()

	slog.Info("environment detected",
		"distribution", sys.DistributionID,
		"family", string(sys.Family),
		"packageManager", sys.PackageManager,
		"container", sys.Container,
		"kernel", sys.KernelRelease,
	)
	return sys, nil
}

// kernelRelease returns the uname release field, empty on failure.
func kernelRelease() string {
	var uts unix.Utsname
	if err := unix.Uname(&uts); err != nil {
		slog.Warn("uname failed", "error", err)
		return ""
	}
	return unix.ByteSliceToString(uts.Release[:])
}

// Hostname returns the current kernel hostname.
func Hostname() string {
	name, err := os.Hostname()
	if err != nil {
		return ""
	}
	return name
}
